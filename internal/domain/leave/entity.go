package leave

import (
	"strings"
	"time"
)

type LeaveType struct {
	ID        string
	Name      string
	MaxDays   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t LeaveType) ToResponse() LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:        t.ID,
		Name:      t.Name,
		MaxDays:   t.MaxDays,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// Balance is one ledger row per (user, leave type, year).
type Balance struct {
	ID          string
	UserID      string
	LeaveTypeID string
	Year        int
	Carryover   float64
	Used        float64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	LeaveTypeName string
	MaxDays       int
}

// Total is the annual allotment plus carryover.
func (b Balance) Total() float64 {
	return float64(b.MaxDays) + b.Carryover
}

// Remaining is Total minus Used.
func (b Balance) Remaining() float64 {
	return b.Total() - b.Used
}

// CanReserve reports whether days fit into the remaining allotment.
func (b Balance) CanReserve(days float64) bool {
	return b.Used+days <= b.Total()
}

func (b Balance) ToResponse() BalanceResponse {
	return BalanceResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		LeaveTypeID:   b.LeaveTypeID,
		LeaveTypeName: b.LeaveTypeName,
		Year:          b.Year,
		MaxDays:       b.MaxDays,
		Carryover:     b.Carryover,
		Used:          b.Used,
		Total:         b.Total(),
		Remaining:     b.Remaining(),
	}
}

// SummaryEntry is the per-type view returned by the balance summary.
type SummaryEntry struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

// BalanceSummary maps lower-cased leave type name to its entry.
type BalanceSummary map[string]SummaryEntry

// SummaryKey normalises a leave type name for summary keys.
func SummaryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
)

// IsTerminal reports whether no regular transition leaves this status.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo encodes the request state machine. APPROVED -> CANCELLED is the
// single exit from a terminal state and releases the reserved days.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled
	default:
		return false
	}
}

type Request struct {
	ID               string
	UserID           string
	LeaveTypeID      string
	StartDate        time.Time
	EndDate          time.Time
	TotalDays        float64
	IsHalfDay        bool
	Reason           string
	Status           RequestStatus
	RejectionReason  *string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	ManagerEmail     *string
	EmergencyContact *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	LeaveTypeName *string
	UserFullname  *string
	UserEmail     *string
}

// Year is the balance year a request is charged against.
func (r Request) Year() int {
	return r.StartDate.Year()
}

// CalculateTotalDays counts inclusive calendar days, or half a day.
func CalculateTotalDays(start, end time.Time, isHalfDay bool) float64 {
	if isHalfDay {
		return 0.5
	}
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return float64(int(e.Sub(s).Hours()/24) + 1)
}

func (r Request) ToResponse() RequestResponse {
	resp := RequestResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		LeaveTypeID:      r.LeaveTypeID,
		LeaveTypeName:    r.LeaveTypeName,
		StartDate:        r.StartDate.Format("2006-01-02"),
		EndDate:          r.EndDate.Format("2006-01-02"),
		TotalDays:        r.TotalDays,
		IsHalfDay:        r.IsHalfDay,
		Reason:           r.Reason,
		Status:           string(r.Status),
		RejectionReason:  r.RejectionReason,
		ApprovedBy:       r.ApprovedBy,
		ManagerEmail:     r.ManagerEmail,
		EmergencyContact: r.EmergencyContact,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ApprovedAt != nil {
		s := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if r.UserFullname != nil || r.UserEmail != nil {
		resp.User = &RequestUser{ID: r.UserID}
		if r.UserFullname != nil {
			resp.User.Fullname = *r.UserFullname
		}
		if r.UserEmail != nil {
			resp.User.Email = *r.UserEmail
		}
	}
	return resp
}
