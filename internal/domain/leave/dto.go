package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

// ========== LEAVE TYPE ==========

type LeaveTypeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxDays   int    `json:"max_days"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateLeaveTypeRequest struct {
	Name    string `json:"name"`
	MaxDays *int   `json:"max_days"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLen(r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}

	if r.MaxDays == nil {
		errs.Add("max_days", "max_days is required")
	} else if *r.MaxDays < 0 {
		errs.Add("max_days", "max_days must be greater than or equal to 0")
	} else if *r.MaxDays > 366 {
		errs.Add("max_days", "max_days must not exceed 366")
	}

	return errs.Err()
}

type UpdateLeaveTypeRequest struct {
	Name    *string `json:"name,omitempty"`
	MaxDays *int    `json:"max_days,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.MaxDays == nil {
		errs.Add("body", "at least one of name or max_days is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if !validator.MaxLen(*r.Name, 100) {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}
	if r.MaxDays != nil {
		if *r.MaxDays < 0 {
			errs.Add("max_days", "max_days must be greater than or equal to 0")
		} else if *r.MaxDays > 366 {
			errs.Add("max_days", "max_days must not exceed 366")
		}
	}

	return errs.Err()
}

// ========== BALANCE ==========

type BalanceResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name"`
	Year          int     `json:"year"`
	MaxDays       int     `json:"max_days"`
	Carryover     float64 `json:"carryover"`
	Used          float64 `json:"used"`
	Total         float64 `json:"total"`
	Remaining     float64 `json:"remaining"`
}

type CreateBalanceRequest struct {
	UserID      string  `json:"user_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	Year        int     `json:"year"`
	Carryover   float64 `json:"carryover"`
	Used        float64 `json:"used"`
}

func (r *CreateBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id is required")
	}
	if r.Year == 0 {
		r.Year = time.Now().Year()
	}
	validateYear(&errs, r.Year)
	validateDays(&errs, "carryover", r.Carryover)
	validateDays(&errs, "used", r.Used)

	return errs.Err()
}

// AdjustBalanceRequest overwrites year, carryover and used of one balance row.
type AdjustBalanceRequest struct {
	Year      *int     `json:"year"`
	Carryover *float64 `json:"carryover"`
	Used      *float64 `json:"used"`
}

func (r *AdjustBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year == nil {
		errs.Add("year", "year is required")
	} else {
		validateYear(&errs, *r.Year)
	}
	if r.Carryover == nil {
		errs.Add("carryover", "carryover is required")
	} else {
		validateDays(&errs, "carryover", *r.Carryover)
	}
	if r.Used == nil {
		errs.Add("used", "used is required")
	} else {
		validateDays(&errs, "used", *r.Used)
	}

	return errs.Err()
}

func validateYear(errs *validator.ValidationErrors, year int) {
	if year < 2000 || year > 2100 {
		errs.Add("year", "year must be between 2000 and 2100")
	}
}

// validateDays accepts non-negative multiples of half a day.
func validateDays(errs *validator.ValidationErrors, field string, days float64) {
	if days < 0 {
		errs.Add(field, field+" must be greater than or equal to 0")
		return
	}
	if days*2 != float64(int(days*2)) {
		errs.Add(field, field+" must be a multiple of 0.5")
	}
}

// ========== REQUEST ==========

type RequestUser struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

type RequestResponse struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	User             *RequestUser `json:"user,omitempty"`
	LeaveTypeID      string       `json:"leave_type_id"`
	LeaveTypeName    *string      `json:"leave_type_name,omitempty"`
	StartDate        string       `json:"start_date"`
	EndDate          string       `json:"end_date"`
	TotalDays        float64      `json:"total_days"`
	IsHalfDay        bool         `json:"is_half_day"`
	Reason           string       `json:"reason"`
	Status           string       `json:"status"`
	RejectionReason  *string      `json:"rejection_reason,omitempty"`
	ApprovedBy       *string      `json:"approved_by,omitempty"`
	ApprovedAt       *string      `json:"approved_at,omitempty"`
	ManagerEmail     *string      `json:"manager_email,omitempty"`
	EmergencyContact *string      `json:"emergency_contact,omitempty"`
	CreatedAt        string       `json:"created_at"`
	UpdatedAt        string       `json:"updated_at"`
}

// SubmitRequest identifies the leave type by id or, failing that, by name.
type SubmitRequest struct {
	LeaveTypeID      string   `json:"leave_type_id"`
	LeaveTypeName    string   `json:"leave_type_name"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Reason           string   `json:"reason"`
	IsHalfDay        bool     `json:"is_half_day"`
	TotalDays        *float64 `json:"total_days,omitempty"`
	ManagerEmail     *string  `json:"manager_email,omitempty"`
	EmergencyContact *string  `json:"emergency_contact,omitempty"`

	start time.Time
	end   time.Time
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) && validator.IsEmpty(r.LeaveTypeName) {
		errs.Add("leave_type_id", "leave_type_id or leave_type_name is required")
	}

	var startOK, endOK bool
	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if r.start, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.EndDate) {
		errs.Add("end_date", "end_date is required")
	} else if r.end, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}

	if startOK && endOK {
		if r.end.Before(r.start) {
			errs.Add("end_date", "end_date must be on or after start_date")
		} else if r.IsHalfDay && !r.end.Equal(r.start) {
			errs.Add("is_half_day", "half-day leave must start and end on the same date")
		} else if r.TotalDays != nil && *r.TotalDays != CalculateTotalDays(r.start, r.end, r.IsHalfDay) {
			errs.Add("total_days", "total_days does not match the requested dates")
		}
	}

	if !validator.MaxLen(r.Reason, 1000) {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	if r.ManagerEmail != nil && !validator.IsEmpty(*r.ManagerEmail) && !validator.IsValidEmail(*r.ManagerEmail) {
		errs.Add("manager_email", "manager_email must be a valid email address")
	}

	return errs.Err()
}

// Dates returns the parsed start and end dates; valid after Validate succeeds.
func (r *SubmitRequest) Dates() (time.Time, time.Time) {
	return r.start, r.end
}

type UpdateStatusRequest struct {
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	switch RequestStatus(r.Status) {
	case StatusApproved, StatusCancelled:
	case StatusRejected:
		if r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason) {
			errs.Add("rejection_reason", "rejection_reason is required when rejecting")
		}
	case "":
		errs.Add("status", "status is required")
	default:
		errs.Add("status", "status must be one of APPROVED, REJECTED, CANCELLED")
	}
	if r.RejectionReason != nil && !validator.MaxLen(*r.RejectionReason, 1000) {
		errs.Add("rejection_reason", "rejection_reason must not exceed 1000 characters")
	}

	return errs.Err()
}
