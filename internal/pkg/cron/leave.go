package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
)

// tokenRetention keeps revoked and expired refresh tokens around briefly for auditing.
const tokenRetention = 7 * 24 * time.Hour

type activeUserLister interface {
	ListActiveByRoles(ctx context.Context, roles []user.Role) ([]user.User, error)
}

type tokenPurger interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// LeaveJobs keeps the leave ledger and session table in shape.
type LeaveJobs struct {
	users    activeUserLister
	balances leave.BalanceService
	tokens   tokenPurger
	now      func() time.Time
}

func NewLeaveJobs(users activeUserLister, balances leave.BalanceService, tokens tokenPurger) *LeaveJobs {
	return &LeaveJobs{
		users:    users,
		balances: balances,
		tokens:   tokens,
		now:      time.Now,
	}
}

// RegisterJobs registers all leave-related cron jobs
func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	// Opens zeroed balance rows once the calendar year turns over
	scheduler.AddJob("ensure_yearly_balances", 6*time.Hour, j.EnsureYearlyBalances)
	scheduler.AddJob("purge_expired_refresh_tokens", 12*time.Hour, j.PurgeExpiredRefreshTokens)
}

// EnsureYearlyBalances creates missing balance rows for the current year for every active user.
// Existing rows are never touched, so repeated runs are harmless.
func (j *LeaveJobs) EnsureYearlyBalances(ctx context.Context) error {
	year := j.now().Year()

	users, err := j.users.ListActiveByRoles(ctx, user.AllRoles())
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	var errs []error
	for _, u := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.balances.EnsureInitialBalances(ctx, u.ID, year); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", u.ID, err))
		}
	}

	slog.Info("Cron: yearly balances ensured", "year", year, "users", len(users), "failed", len(errs))
	return errors.Join(errs...)
}

// PurgeExpiredRefreshTokens deletes sessions that ended more than tokenRetention ago.
func (j *LeaveJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	deleted, err := j.tokens.DeleteExpired(ctx, j.now().Add(-tokenRetention))
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	if deleted > 0 {
		slog.Info("Cron: purged refresh tokens", "deleted", deleted)
	}
	return nil
}
