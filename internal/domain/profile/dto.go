package profile

import (
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

type ProfileResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	Fullname         string  `json:"fullname"`
	Email            string  `json:"email"`
	EmployeeCode     string  `json:"employee_code"`
	Department       string  `json:"department"`
	Designation      string  `json:"designation"`
	JoinDate         string  `json:"join_date"`
	YearsOfService   int     `json:"years_of_service"`
	Gender           *string `json:"gender,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type ActivityResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	ProfileID    *string `json:"profile_id,omitempty"`
	ActivityType string  `json:"activity_type"`
	Description  string  `json:"description"`
	ActivityDate string  `json:"activity_date"`
}

type PerformanceResponse struct {
	ID           string  `json:"id"`
	ProfileID    string  `json:"profile_id"`
	ReviewPeriod string  `json:"review_period"`
	Rating       int     `json:"rating"`
	Goals        string  `json:"goals"`
	Achievements string  `json:"achievements"`
	Feedback     string  `json:"feedback"`
	ReviewerID   *string `json:"reviewer_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

var validGenders = []string{"MALE", "FEMALE", "OTHER"}

type CreateProfileRequest struct {
	UserID           string  `json:"user_id"`
	EmployeeCode     string  `json:"employee_code"`
	Department       string  `json:"department"`
	Designation      string  `json:"designation"`
	JoinDate         string  `json:"join_date"`
	Gender           *string `json:"gender,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
}

func (r *CreateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	} else if !validator.MaxLen(r.EmployeeCode, 50) {
		errs.Add("employee_code", "employee_code must not exceed 50 characters")
	}
	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}
	if validator.IsEmpty(r.Designation) {
		errs.Add("designation", "designation is required")
	}
	if validator.IsEmpty(r.JoinDate) {
		errs.Add("join_date", "join_date is required")
	} else if _, ok := validator.IsValidDate(r.JoinDate); !ok {
		errs.Add("join_date", "join_date must be in YYYY-MM-DD format")
	}
	if r.Gender != nil && !validator.IsInSlice(*r.Gender, validGenders) {
		errs.Add("gender", "gender must be one of MALE, FEMALE, OTHER")
	}

	return errs.Err()
}

type UpdateProfileRequest struct {
	Department       *string `json:"department,omitempty"`
	Designation      *string `json:"designation,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs.Add("department", "department must not be empty")
	}
	if r.Designation != nil && validator.IsEmpty(*r.Designation) {
		errs.Add("designation", "designation must not be empty")
	}
	if r.Gender != nil && !validator.IsInSlice(*r.Gender, validGenders) {
		errs.Add("gender", "gender must be one of MALE, FEMALE, OTHER")
	}

	return errs.Err()
}

// HRFieldsChanged reports whether the update touches fields only HR may change.
func (r *UpdateProfileRequest) HRFieldsChanged() bool {
	return r.Department != nil || r.Designation != nil
}

type CreatePerformanceRequest struct {
	ReviewPeriod string `json:"review_period"`
	Rating       int    `json:"rating"`
	Goals        string `json:"goals"`
	Achievements string `json:"achievements"`
	Feedback     string `json:"feedback"`
}

func (r *CreatePerformanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReviewPeriod) {
		errs.Add("review_period", "review_period is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs.Add("rating", "rating must be between 1 and 5")
	}

	return errs.Err()
}
