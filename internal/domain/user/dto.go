package user

import (
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Fullname   string   `json:"fullname"`
	Roles      []string `json:"roles"`
	TeamID     *string  `json:"team_id,omitempty"`
	TeamName   *string  `json:"team_name,omitempty"`
	IsActive   bool     `json:"is_active"`
	HasProfile bool     `json:"has_profile"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// ListUsersFilter holds paging and filters for the admin user listing.
type ListUsersFilter struct {
	Page       int
	Limit      int
	Search     string
	Role       string
	HasProfile *bool
}

func (f *ListUsersFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Page < 1 {
		errs.Add("page", "page must be at least 1")
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs.Add("limit", "limit must be between 1 and 100")
	}
	if f.Role != "" {
		role, ok := ParseRole(f.Role)
		if !ok {
			errs.Add("role", "invalid role")
		} else {
			f.Role = string(role)
		}
	}

	return errs.Err()
}

// Offset returns the row offset for the current page.
func (f ListUsersFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalItems int64          `json:"total_items"`
	TotalPages int            `json:"total_pages"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

func (r *UpdateRolesRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Roles) == 0 {
		errs.Add("roles", "roles is required")
	}
	for _, s := range r.Roles {
		if _, ok := ParseRole(s); !ok {
			errs.Add("roles", "invalid role: "+s)
			break
		}
	}

	return errs.Err()
}

// Parsed returns the normalised, de-duplicated role set.
func (r *UpdateRolesRequest) Parsed() []Role {
	seen := make(map[Role]bool)
	var roles []Role
	for _, s := range r.Roles {
		role, ok := ParseRole(s)
		if !ok || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}
	return roles
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.IsActive == nil {
		errs.Add("is_active", "is_active is required")
	}
	return errs.Err()
}

type UpdateTeamRequest struct {
	TeamID *string `json:"team_id"`
}

func (r *UpdateTeamRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.TeamID != nil && validator.IsEmpty(*r.TeamID) {
		errs.Add("team_id", "team_id must not be empty; use null to clear")
	}
	return errs.Err()
}

// StatsResponse summarises the user directory for administrators.
type StatsResponse struct {
	TotalUsers          int64            `json:"total_users"`
	RoleDistribution    map[string]int64 `json:"role_distribution"`
	RecentRegistrations int64            `json:"recent_registrations"`
}
