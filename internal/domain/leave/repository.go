package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, t LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveType, error)
	Delete(ctx context.Context, id string) error
	IsReferenced(ctx context.Context, id string) (bool, error)
}

type BalanceRepository interface {
	Create(ctx context.Context, b Balance) (Balance, error)
	// CreateMissing inserts a zeroed row for every leave type the user lacks in year.
	CreateMissing(ctx context.Context, userID string, year int) (int64, error)
	GetByID(ctx context.Context, id string) (Balance, error)
	Get(ctx context.Context, userID, leaveTypeID string, year int) (Balance, error)
	ListByUser(ctx context.Context, userID string) ([]Balance, error)
	ListByUserAndYear(ctx context.Context, userID string, year int) ([]Balance, error)
	Adjust(ctx context.Context, id string, year int, carryover, used float64) (Balance, error)
	// LockForUpdate creates the row if absent and locks it until the transaction ends.
	LockForUpdate(ctx context.Context, userID, leaveTypeID string, year int) (Balance, error)
	SetUsed(ctx context.Context, id string, used float64) error
}

type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)
	UpdateStatus(ctx context.Context, r Request) (Request, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	ListPending(ctx context.Context) ([]Request, error)
	ListAllWithRelations(ctx context.Context) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error)
}

// Transactor runs fn as a single unit of work. Repositories called with the
// context passed to fn join the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
