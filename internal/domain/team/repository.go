package team

import "context"

type TeamRepository interface {
	Create(ctx context.Context, t Team) (Team, error)
	GetByID(ctx context.Context, id string) (Team, error)
	List(ctx context.Context) ([]Team, error)
	Update(ctx context.Context, id string, name string) (Team, error)
	Delete(ctx context.Context, id string) error
	CountMembers(ctx context.Context, id string) (int64, error)
}
