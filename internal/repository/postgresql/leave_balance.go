package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const balanceSelect = `
	SELECT b.id, b.user_id, b.leave_type_id, b.year, b.carryover, b.used,
		   b.created_at, b.updated_at,
		   lt.name, lt.max_days
	FROM leave_balances b
	JOIN leave_types lt ON lt.id = b.leave_type_id
`

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.UserID, &b.LeaveTypeID, &b.Year, &b.Carryover, &b.Used,
		&b.CreatedAt, &b.UpdatedAt,
		&b.LeaveTypeName, &b.MaxDays,
	)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) getOne(ctx context.Context, query string, args ...any) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBalance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if database.IsNoRows(err) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

func (r *leaveBalanceRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Create implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	id := newID()
	query := `
		INSERT INTO leave_balances (id, user_id, leave_type_id, year, carryover, used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query, id, b.UserID, b.LeaveTypeID, b.Year, b.Carryover, b.Used)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return leave.Balance{}, leave.ErrBalanceExists
		}
		if database.IsForeignKeyViolation(err) {
			return leave.Balance{}, leave.ErrLeaveTypeNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return r.GetByID(ctx, id)
}

// CreateMissing implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) CreateMissing(ctx context.Context, userID string, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	types, err := q.Query(ctx, `SELECT id FROM leave_types`)
	if err != nil {
		return 0, fmt.Errorf("failed to list leave types: %w", err)
	}
	typeIDs, err := pgx.CollectRows(types, pgx.RowTo[string])
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO leave_balances (id, user_id, leave_type_id, year, carryover, used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, NOW(), NOW())
		ON CONFLICT (user_id, leave_type_id, year) DO NOTHING
	`
	var created int64
	for _, typeID := range typeIDs {
		tag, err := q.Exec(ctx, query, newID(), userID, typeID, year)
		if err != nil {
			return created, fmt.Errorf("failed to seed leave balance: %w", err)
		}
		created += tag.RowsAffected()
	}
	return created, nil
}

// GetByID implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Balance, error) {
	if !validator.IsValidUUID(id) {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return r.getOne(ctx, balanceSelect+` WHERE b.id = $1`, id)
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, userID, leaveTypeID string, year int) (leave.Balance, error) {
	return r.getOne(ctx, balanceSelect+` WHERE b.user_id = $1 AND b.leave_type_id = $2 AND b.year = $3`, userID, leaveTypeID, year)
}

// ListByUser implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.Balance, error) {
	if !validator.IsValidUUID(userID) {
		return []leave.Balance{}, nil
	}
	return r.list(ctx, balanceSelect+` WHERE b.user_id = $1 ORDER BY b.year DESC, lt.name`, userID)
}

// ListByUserAndYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByUserAndYear(ctx context.Context, userID string, year int) ([]leave.Balance, error) {
	return r.list(ctx, balanceSelect+` WHERE b.user_id = $1 AND b.year = $2 ORDER BY lt.name`, userID, year)
}

// Adjust implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Adjust(ctx context.Context, id string, year int, carryover, used float64) (leave.Balance, error) {
	if !validator.IsValidUUID(id) {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET year = $1, carryover = $2, used = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, year, carryover, used, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return leave.Balance{}, leave.ErrBalanceExists
		}
		return leave.Balance{}, fmt.Errorf("failed to adjust leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}

	return r.GetByID(ctx, id)
}

// LockForUpdate implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) LockForUpdate(ctx context.Context, userID, leaveTypeID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	insert := `
		INSERT INTO leave_balances (id, user_id, leave_type_id, year, carryover, used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, NOW(), NOW())
		ON CONFLICT (user_id, leave_type_id, year) DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, newID(), userID, leaveTypeID, year); err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.Balance{}, leave.ErrLeaveTypeNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to ensure leave balance: %w", err)
	}

	return r.getOne(ctx,
		balanceSelect+` WHERE b.user_id = $1 AND b.leave_type_id = $2 AND b.year = $3 FOR UPDATE OF b`,
		userID, leaveTypeID, year,
	)
}

// SetUsed implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) SetUsed(ctx context.Context, id string, used float64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE leave_balances SET used = $1, updated_at = NOW() WHERE id = $2`, used, id)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}
