package notification

import "time"

// Event is the lifecycle moment a notification reports.
type Event string

const (
	EventSubmitted Event = "submitted"
	EventApproved  Event = "approved"
	EventRejected  Event = "rejected"
	EventCancelled Event = "cancelled"
)

// Recipient is who receives a message.
type Recipient struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// LeavePayload carries everything a channel needs to render a leave notification
// without going back to the database.
type LeavePayload struct {
	RequestID       string  `json:"request_id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	EmployeeEmail   string  `json:"employee_email"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       float64 `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	ReviewerName    string  `json:"reviewer_name,omitempty"`
}

// Message is one notification for one recipient.
type Message struct {
	ID        string       `json:"id"`
	Event     Event        `json:"event"`
	Recipient Recipient    `json:"recipient"`
	Payload   LeavePayload `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`
}

// SSETokenResponse is handed to browsers before they open the live stream.
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
