package profile

import "context"

type ProfileRepository interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Update(ctx context.Context, id string, req UpdateProfileRequest) (Profile, error)
}

type ActivityRepository interface {
	// Append records an activity; ProfileID is resolved from the user when nil.
	Append(ctx context.Context, a Activity) (Activity, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Activity, error)
}

type PerformanceRepository interface {
	Create(ctx context.Context, p Performance) (Performance, error)
	ListByProfile(ctx context.Context, profileID string) ([]Performance, error)
}
