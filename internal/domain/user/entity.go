package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE" // Submits and tracks own leave
	RoleHR       Role = "HR"       // Reviews leave, manages profiles and balances
	RoleManager  Role = "MANAGER"  // Reviews leave, reads team data
	RoleAdmin    Role = "ADMIN"    // Full access
)

// AllRoles lists every role tag a user may hold.
func AllRoles() []Role {
	return []Role{RoleEmployee, RoleHR, RoleManager, RoleAdmin}
}

// ParseRole normalises a role tag, reporting whether it is known.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllRoles() {
		if r == known {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID              string
	Username        string
	Email           string
	Fullname        string
	PasswordHash    *string
	Roles           []Role
	TeamID          *string
	IsActive        bool
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	TeamName   *string
	HasProfile bool
}

// HasRole checks if user holds the role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsReviewer checks if user may review leave requests of others.
func (u *User) IsReviewer() bool {
	return u.HasRole(RoleHR) || u.HasRole(RoleAdmin) || u.HasRole(RoleManager)
}

// RoleStrings returns roles as plain strings for storage and tokens.
func (u *User) RoleStrings() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = string(r)
	}
	return out
}

// DisplayName falls back to username when no full name is set.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Fullname) != "" {
		return u.Fullname
	}
	return u.Username
}

// ToResponse converts entity to its API representation.
func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Fullname:   u.Fullname,
		Roles:      u.RoleStrings(),
		TeamID:     u.TeamID,
		TeamName:   u.TeamName,
		IsActive:   u.IsActive,
		HasProfile: u.HasProfile,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}
