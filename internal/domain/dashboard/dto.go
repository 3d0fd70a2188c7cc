package dashboard

import (
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
)

// ========== ORGANISATION DASHBOARD ==========

type DashboardResponse struct {
	Users    UserSummary     `json:"users"`
	Requests RequestSummary  `json:"requests"`
	Teams    []TeamHeadcount `json:"teams"`
}

type UserSummary struct {
	Total               int64            `json:"total"`
	Active              int64            `json:"active"`
	RoleDistribution    map[string]int64 `json:"role_distribution"`
	RecentRegistrations int64            `json:"recent_registrations"` // last 30 days
}

type RequestSummary struct {
	ByStatus     map[string]int64 `json:"by_status"`
	OnLeaveToday int64            `json:"on_leave_today"`
	DaysApproved float64          `json:"days_approved_this_year"`
}

type TeamHeadcount struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Members  int64  `json:"members"`
}

// ========== EMPLOYEE DASHBOARD ==========

type EmployeeDashboardResponse struct {
	Profile          *profile.ProfileResponse   `json:"profile,omitempty"`
	Balances         leave.BalanceSummary       `json:"balances"`
	RecentRequests   []leave.RequestResponse    `json:"recent_requests"`
	RecentActivities []profile.ActivityResponse `json:"recent_activities"`
}
