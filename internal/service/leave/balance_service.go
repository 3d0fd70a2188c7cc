package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

type BalanceServiceImpl struct {
	leave.BalanceRepository
	leave.LeaveTypeRepository
	user.UserRepository
	authz          authz.Authorizer
	defaultSummary map[string]int
}

func NewBalanceService(
	balanceRepository leave.BalanceRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
	userRepository user.UserRepository,
	authorizer authz.Authorizer,
	defaultSummary map[string]int,
) leave.BalanceService {
	return &BalanceServiceImpl{
		BalanceRepository:   balanceRepository,
		LeaveTypeRepository: leaveTypeRepository,
		UserRepository:      userRepository,
		authz:               authorizer,
		defaultSummary:      defaultSummary,
	}
}

// EnsureInitialBalances implements leave.BalanceService.
func (s *BalanceServiceImpl) EnsureInitialBalances(ctx context.Context, userID string, year int) error {
	created, err := s.BalanceRepository.CreateMissing(ctx, userID, year)
	if err != nil {
		return fmt.Errorf("failed to create initial leave balances: %w", err)
	}
	slog.Debug("initial leave balances ensured", "user_id", userID, "year", year, "created", created)
	return nil
}

// GetSummary implements leave.BalanceService.
func (s *BalanceServiceImpl) GetSummary(ctx context.Context, actor authz.Subject, userID string, year int) (leave.BalanceSummary, error) {
	if err := s.authz.Require(actor, authz.ActionRead, authz.Of(authz.KindLeaveBalance, userID)); err != nil {
		return nil, err
	}

	balances, err := s.BalanceRepository.ListByUserAndYear(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}

	summary := make(leave.BalanceSummary, len(balances))
	if len(balances) == 0 {
		for name, days := range s.defaultSummary {
			summary[leave.SummaryKey(name)] = leave.SummaryEntry{
				Total:     float64(days),
				Used:      0,
				Remaining: float64(days),
			}
		}
		return summary, nil
	}

	for _, b := range balances {
		summary[leave.SummaryKey(b.LeaveTypeName)] = leave.SummaryEntry{
			Total:     b.Total(),
			Used:      b.Used,
			Remaining: b.Remaining(),
		}
	}
	return summary, nil
}

// GetDetailed implements leave.BalanceService.
func (s *BalanceServiceImpl) GetDetailed(ctx context.Context, actor authz.Subject, userID string) ([]leave.BalanceResponse, error) {
	if err := s.authz.Require(actor, authz.ActionRead, authz.Of(authz.KindLeaveBalance, userID)); err != nil {
		return nil, err
	}

	balances, err := s.BalanceRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}
	if len(balances) == 0 {
		return nil, leave.ErrBalanceNotFound
	}

	resp := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, b.ToResponse())
	}
	return resp, nil
}

// Create implements leave.BalanceService.
func (s *BalanceServiceImpl) Create(ctx context.Context, actor authz.Subject, req leave.CreateBalanceRequest) (leave.BalanceResponse, error) {
	if err := s.authz.Require(actor, authz.ActionCreate, authz.Collection(authz.KindLeaveBalance)); err != nil {
		return leave.BalanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return leave.BalanceResponse{}, err
	}
	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if err := checkUsedWithinTotal(leaveType.MaxDays, req.Carryover, req.Used); err != nil {
		return leave.BalanceResponse{}, err
	}

	created, err := s.BalanceRepository.Create(ctx, leave.Balance{
		UserID:      req.UserID,
		LeaveTypeID: req.LeaveTypeID,
		Year:        req.Year,
		Carryover:   req.Carryover,
		Used:        req.Used,
	})
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	slog.Info("leave balance created", "balance_id", created.ID, "user_id", created.UserID, "actor_id", actor.UserID)
	return created.ToResponse(), nil
}

// Adjust implements leave.BalanceService.
func (s *BalanceServiceImpl) Adjust(ctx context.Context, actor authz.Subject, id string, req leave.AdjustBalanceRequest) (leave.BalanceResponse, error) {
	if err := s.authz.Require(actor, authz.ActionAdjust, authz.Collection(authz.KindLeaveBalance)); err != nil {
		return leave.BalanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	current, err := s.BalanceRepository.GetByID(ctx, id)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if err := checkUsedWithinTotal(current.MaxDays, *req.Carryover, *req.Used); err != nil {
		return leave.BalanceResponse{}, err
	}

	adjusted, err := s.BalanceRepository.Adjust(ctx, id, *req.Year, *req.Carryover, *req.Used)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to adjust leave balance: %w", err)
	}

	slog.Info("leave balance adjusted",
		"balance_id", id,
		"actor_id", actor.UserID,
		"year", adjusted.Year,
		"carryover", adjusted.Carryover,
		"used", adjusted.Used,
	)
	return adjusted.ToResponse(), nil
}

// Reserve implements leave.BalanceService.
func (s *BalanceServiceImpl) Reserve(ctx context.Context, userID, leaveTypeID string, year int, days float64) (leave.Balance, error) {
	b, err := s.BalanceRepository.LockForUpdate(ctx, userID, leaveTypeID, year)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to lock leave balance: %w", err)
	}
	if !b.CanReserve(days) {
		return leave.Balance{}, leave.ErrBalanceExceeded
	}

	b.Used += days
	if err := s.BalanceRepository.SetUsed(ctx, b.ID, b.Used); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to reserve leave balance: %w", err)
	}
	return b, nil
}

// Release implements leave.BalanceService.
func (s *BalanceServiceImpl) Release(ctx context.Context, userID, leaveTypeID string, year int, days float64) (leave.Balance, error) {
	b, err := s.BalanceRepository.LockForUpdate(ctx, userID, leaveTypeID, year)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to lock leave balance: %w", err)
	}

	b.Used = math.Max(0, b.Used-days)
	if err := s.BalanceRepository.SetUsed(ctx, b.ID, b.Used); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to release leave balance: %w", err)
	}
	return b, nil
}

// Remaining implements leave.BalanceService. A user without a row for the year has the
// full allotment of the leave type.
func (s *BalanceServiceImpl) Remaining(ctx context.Context, userID, leaveTypeID string, year int) (float64, error) {
	b, err := s.BalanceRepository.Get(ctx, userID, leaveTypeID, year)
	if err == nil {
		return b.Remaining(), nil
	}
	if !errors.Is(err, leave.ErrBalanceNotFound) {
		return 0, fmt.Errorf("failed to get leave balance: %w", err)
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, leaveTypeID)
	if err != nil {
		return 0, err
	}
	return float64(leaveType.MaxDays), nil
}

func checkUsedWithinTotal(maxDays int, carryover, used float64) error {
	var errs validator.ValidationErrors
	if used > float64(maxDays)+carryover {
		errs.Add("used", fmt.Sprintf("used must not exceed max_days plus carryover (%g)", float64(maxDays)+carryover))
	}
	return errs.Err()
}
