package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const requestColumns = `
	lr.id, lr.user_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.total_days,
	lr.is_half_day, lr.reason, lr.status, lr.rejection_reason, lr.approved_by, lr.approved_at,
	lr.manager_email, lr.emergency_contact, lr.created_at, lr.updated_at
`

const requestJoinedSelect = `
	SELECT ` + requestColumns + `, lt.name, u.fullname, u.email
	FROM leave_requests lr
	LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id
	LEFT JOIN users u ON u.id = lr.user_id
`

func requestDest(req *leave.Request) []any {
	return []any{
		&req.ID, &req.UserID, &req.LeaveTypeID, &req.StartDate, &req.EndDate, &req.TotalDays,
		&req.IsHalfDay, &req.Reason, &req.Status, &req.RejectionReason, &req.ApprovedBy, &req.ApprovedAt,
		&req.ManagerEmail, &req.EmergencyContact, &req.CreatedAt, &req.UpdatedAt,
	}
}

func scanRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(requestDest(&req)...)
	return req, err
}

func scanJoinedRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	dest := append(requestDest(&req), &req.LeaveTypeName, &req.UserFullname, &req.UserEmail)
	err := row.Scan(dest...)
	return req, err
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, scan func(pgx.Row) (leave.Request, error), query string, args ...any) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scan(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = newID()
	}
	if req.Status == "" {
		req.Status = leave.StatusPending
	}

	query := `
		INSERT INTO leave_requests (
			id, user_id, leave_type_id, start_date, end_date, total_days, is_half_day,
			reason, status, manager_email, emergency_contact, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING ` + requestColumns

	created, err := scanRequest(q.QueryRow(ctx, query,
		req.ID, req.UserID, req.LeaveTypeID, req.StartDate, req.EndDate, req.TotalDays, req.IsHalfDay,
		req.Reason, req.Status, req.ManagerEmail, req.EmergencyContact,
	))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.Request{}, leave.ErrLeaveTypeNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	created.LeaveTypeName = req.LeaveTypeName
	return created, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	if !validator.IsValidUUID(id) {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	req, err := scanJoinedRequest(q.QueryRow(ctx, requestJoinedSelect+` WHERE lr.id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// GetByIDForUpdate implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	if !validator.IsValidUUID(id) {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `, lt.name, u.fullname, u.email
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		JOIN users u ON u.id = lr.user_id
		WHERE lr.id = $1
		FOR UPDATE OF lr
	`
	req, err := scanJoinedRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to lock leave request: %w", err)
	}
	return req, nil
}

// UpdateStatus implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, rejection_reason = $2, approved_by = $3, approved_at = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + requestColumns

	updated, err := scanRequest(q.QueryRow(ctx, query, req.Status, req.RejectionReason, req.ApprovedBy, req.ApprovedAt, req.ID))
	if err != nil {
		if database.IsNoRows(err) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to update leave request status: %w", err)
	}
	updated.LeaveTypeName = req.LeaveTypeName
	updated.UserFullname = req.UserFullname
	updated.UserEmail = req.UserEmail
	return updated, nil
}

// ListByUser implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.Request, error) {
	return r.list(ctx, scanJoinedRequest, requestJoinedSelect+` WHERE lr.user_id = $1 ORDER BY lr.created_at DESC`, userID)
}

// ListPending implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListPending(ctx context.Context) ([]leave.Request, error) {
	return r.list(ctx, scanJoinedRequest, requestJoinedSelect+` WHERE lr.status = $1 ORDER BY lr.created_at ASC`, leave.StatusPending)
}

// ListAllWithRelations implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListAllWithRelations(ctx context.Context) ([]leave.Request, error) {
	return r.list(ctx, scanJoinedRequest, requestJoinedSelect+` ORDER BY lr.created_at DESC`)
}

// ListAll implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListAll(ctx context.Context) ([]leave.Request, error) {
	return r.list(ctx, scanRequest, `SELECT `+requestColumns+` FROM leave_requests lr ORDER BY lr.created_at DESC`)
}

// HasOverlap implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE user_id = $1
			  AND status IN ('PENDING', 'APPROVED')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`
	var overlap bool
	if err := q.QueryRow(ctx, query, userID, start, end).Scan(&overlap); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	return overlap, nil
}
