package leave

import (
	"context"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type TypeService interface {
	Create(ctx context.Context, actor authz.Subject, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	List(ctx context.Context) ([]LeaveTypeResponse, error)
	Get(ctx context.Context, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, actor authz.Subject, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, actor authz.Subject, id string) error
}

// BalanceService is the leave balance ledger.
type BalanceService interface {
	EnsureInitialBalances(ctx context.Context, userID string, year int) error
	GetSummary(ctx context.Context, actor authz.Subject, userID string, year int) (BalanceSummary, error)
	GetDetailed(ctx context.Context, actor authz.Subject, userID string) ([]BalanceResponse, error)
	Create(ctx context.Context, actor authz.Subject, req CreateBalanceRequest) (BalanceResponse, error)
	Adjust(ctx context.Context, actor authz.Subject, id string, req AdjustBalanceRequest) (BalanceResponse, error)

	// Reserve and Release must run inside the caller's transaction.
	Reserve(ctx context.Context, userID, leaveTypeID string, year int, days float64) (Balance, error)
	Release(ctx context.Context, userID, leaveTypeID string, year int, days float64) (Balance, error)
	Remaining(ctx context.Context, userID, leaveTypeID string, year int) (float64, error)
}

// RequestService is the leave request workflow.
type RequestService interface {
	Submit(ctx context.Context, actor authz.Subject, req SubmitRequest) (RequestResponse, error)
	SetStatus(ctx context.Context, actor authz.Subject, id string, req UpdateStatusRequest) (RequestResponse, error)
	Get(ctx context.Context, actor authz.Subject, id string) (RequestResponse, error)
	ListMine(ctx context.Context, actor authz.Subject) ([]RequestResponse, error)
	ListPending(ctx context.Context, actor authz.Subject) ([]RequestResponse, error)
	ListAll(ctx context.Context, actor authz.Subject) ([]RequestResponse, error)
}
