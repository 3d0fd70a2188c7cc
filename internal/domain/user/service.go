package user

import (
	"context"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type UserService interface {
	List(ctx context.Context, actor authz.Subject, filter ListUsersFilter) (ListUsersResponse, error)
	Get(ctx context.Context, actor authz.Subject, id string) (UserResponse, error)
	UpdateRoles(ctx context.Context, actor authz.Subject, id string, req UpdateRolesRequest) (UserResponse, error)
	UpdateStatus(ctx context.Context, actor authz.Subject, id string, req UpdateStatusRequest) (UserResponse, error)
	UpdateTeam(ctx context.Context, actor authz.Subject, id string, req UpdateTeamRequest) (UserResponse, error)
	Delete(ctx context.Context, actor authz.Subject, id string) error
	Stats(ctx context.Context, actor authz.Subject) (StatsResponse, error)
}
