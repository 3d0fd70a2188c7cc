package user

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetByLogin matches either email or username.
	GetByLogin(ctx context.Context, login string) (User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]User, int64, error)
	ListActiveByRoles(ctx context.Context, roles []Role) ([]User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (emailTaken bool, usernameTaken bool, err error)
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	UpdateRoles(ctx context.Context, id string, roles []Role) error
	UpdateStatus(ctx context.Context, id string, isActive bool) error
	UpdateTeam(ctx context.Context, id string, teamID *string) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context) (map[Role]int64, error)
	CountRegisteredSince(ctx context.Context, since time.Time) (int64, error)
}
