package team

import (
	"context"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type TeamService interface {
	Create(ctx context.Context, actor authz.Subject, req CreateTeamRequest) (TeamResponse, error)
	List(ctx context.Context, actor authz.Subject) ([]TeamResponse, error)
	Get(ctx context.Context, actor authz.Subject, id string) (TeamResponse, error)
	Update(ctx context.Context, actor authz.Subject, id string, req UpdateTeamRequest) (TeamResponse, error)
	Delete(ctx context.Context, actor authz.Subject, id string) error
}
