package dashboard

import (
	"context"
	"time"
)

type DashboardRepository interface {
	CountUsers(ctx context.Context) (total int64, active int64, err error)
	CountRequestsByStatus(ctx context.Context) (map[string]int64, error)
	CountOnLeave(ctx context.Context, day time.Time) (int64, error)
	SumApprovedDays(ctx context.Context, year int) (float64, error)
	TeamHeadcounts(ctx context.Context) ([]TeamHeadcount, error)
}
