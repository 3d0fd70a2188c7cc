package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(&lt.ID, &lt.Name, &lt.MaxDays, &lt.CreatedAt, &lt.UpdatedAt)
	return lt, err
}

func (l *leaveTypeRepositoryImpl) getOne(ctx context.Context, where string, arg any) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT id, name, max_days, created_at, updated_at FROM leave_types WHERE ` + where
	lt, err := scanLeaveType(q.QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_types (id, name, max_days, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, name, max_days, created_at, updated_at
	`
	created, err := scanLeaveType(q.QueryRow(ctx, query, newID(), t.Name, t.MaxDays))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return l.getOne(ctx, `id = $1`, id)
}

// GetByName implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByName(ctx context.Context, name string) (leave.LeaveType, error) {
	return l.getOne(ctx, `lower(name) = lower($1)`, name)
}

// List implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) List(ctx context.Context) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)

	rows, err := q.Query(ctx, `SELECT id, name, max_days, created_at, updated_at FROM leave_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	types := make([]leave.LeaveType, 0)
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// Update implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Update(ctx context.Context, id string, req leave.UpdateLeaveTypeRequest) (leave.LeaveType, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_types
		SET name = COALESCE($1, name),
			max_days = COALESCE($2, max_days),
			updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, max_days, created_at, updated_at
	`
	updated, err := scanLeaveType(q.QueryRow(ctx, query, req.Name, req.MaxDays, id))
	if err != nil {
		if database.IsNoRows(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		if database.IsUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	return updated, nil
}

// Delete implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return leave.ErrLeaveTypeNotFound
	}
	q := GetQuerier(ctx, l.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_types WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.ErrLeaveTypeInUse
		}
		return fmt.Errorf("failed to delete leave type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveTypeNotFound
	}
	return nil
}

// IsReferenced implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) IsReferenced(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS(SELECT 1 FROM leave_balances WHERE leave_type_id = $1)
			OR EXISTS(SELECT 1 FROM leave_requests WHERE leave_type_id = $1)
	`
	var referenced bool
	err := q.QueryRow(ctx, query, id).Scan(&referenced)
	return referenced, err
}
