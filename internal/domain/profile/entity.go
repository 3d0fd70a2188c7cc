package profile

import "time"

type ActivityType string

const (
	ActivityLeaveApplied      ActivityType = "LEAVE_APPLIED"
	ActivityLeaveApproved     ActivityType = "LEAVE_APPROVED"
	ActivityLeaveRejected     ActivityType = "LEAVE_REJECTED"
	ActivityLeaveCancelled    ActivityType = "LEAVE_CANCELLED"
	ActivityPromotion         ActivityType = "PROMOTION"
	ActivityTraining          ActivityType = "TRAINING"
	ActivityPerformanceReview ActivityType = "PERFORMANCE_REVIEW"
)

type Profile struct {
	ID               string
	UserID           string
	EmployeeCode     string
	Department       string
	Designation      string
	JoinDate         time.Time
	Gender           *string
	Phone            *string
	Address          *string
	EmergencyContact *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	Fullname string
	Email    string
}

// YearsOfService counts completed years since JoinDate.
func (p Profile) YearsOfService(now time.Time) int {
	years := now.Year() - p.JoinDate.Year()
	if now.Month() < p.JoinDate.Month() || (now.Month() == p.JoinDate.Month() && now.Day() < p.JoinDate.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func (p Profile) ToResponse(now time.Time) ProfileResponse {
	return ProfileResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		Fullname:         p.Fullname,
		Email:            p.Email,
		EmployeeCode:     p.EmployeeCode,
		Department:       p.Department,
		Designation:      p.Designation,
		JoinDate:         p.JoinDate.Format("2006-01-02"),
		YearsOfService:   p.YearsOfService(now),
		Gender:           p.Gender,
		Phone:            p.Phone,
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        p.UpdatedAt.Format(time.RFC3339),
	}
}

// Activity is an append-only feed entry.
type Activity struct {
	ID           string
	UserID       string
	ProfileID    *string
	ActivityType ActivityType
	Description  string
	ActivityDate time.Time
	CreatedAt    time.Time
}

func (a Activity) ToResponse() ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		ProfileID:    a.ProfileID,
		ActivityType: string(a.ActivityType),
		Description:  a.Description,
		ActivityDate: a.ActivityDate.Format(time.RFC3339),
	}
}

type Performance struct {
	ID           string
	ProfileID    string
	ReviewPeriod string
	Rating       int
	Goals        string
	Achievements string
	Feedback     string
	ReviewerID   *string
	CreatedAt    time.Time
}

func (p Performance) ToResponse() PerformanceResponse {
	return PerformanceResponse{
		ID:           p.ID,
		ProfileID:    p.ProfileID,
		ReviewPeriod: p.ReviewPeriod,
		Rating:       p.Rating,
		Goals:        p.Goals,
		Achievements: p.Achievements,
		Feedback:     p.Feedback,
		ReviewerID:   p.ReviewerID,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
