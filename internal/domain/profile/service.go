package profile

import (
	"context"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type ProfileService interface {
	Create(ctx context.Context, actor authz.Subject, req CreateProfileRequest) (ProfileResponse, error)
	List(ctx context.Context, actor authz.Subject) ([]ProfileResponse, error)
	GetMine(ctx context.Context, actor authz.Subject) (ProfileResponse, error)
	GetByUser(ctx context.Context, actor authz.Subject, userID string) (ProfileResponse, error)
	Update(ctx context.Context, actor authz.Subject, id string, req UpdateProfileRequest) (ProfileResponse, error)
	AddPerformanceReview(ctx context.Context, actor authz.Subject, profileID string, req CreatePerformanceRequest) (PerformanceResponse, error)
	ListPerformanceReviews(ctx context.Context, actor authz.Subject, profileID string) ([]PerformanceResponse, error)
	ListMyActivities(ctx context.Context, actor authz.Subject, limit int) ([]ActivityResponse, error)
}
