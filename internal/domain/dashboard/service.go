package dashboard

import (
	"context"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type DashboardService interface {
	// GetDashboard returns organisation-wide figures, gathered concurrently.
	GetDashboard(ctx context.Context, actor authz.Subject) (DashboardResponse, error)
	// GetEmployeeDashboard returns the caller's own profile, balances and recent history.
	GetEmployeeDashboard(ctx context.Context, actor authz.Subject) (EmployeeDashboardResponse, error)
}
