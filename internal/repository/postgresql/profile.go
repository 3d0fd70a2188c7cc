package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

const profileSelect = `
	SELECT p.id, p.user_id, p.employee_code, p.department, p.designation, p.join_date,
		   p.gender, p.phone, p.address, p.emergency_contact, p.created_at, p.updated_at,
		   u.fullname, u.email
	FROM employee_profiles p
	JOIN users u ON u.id = p.user_id
`

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.EmployeeCode, &p.Department, &p.Designation, &p.JoinDate,
		&p.Gender, &p.Phone, &p.Address, &p.EmergencyContact, &p.CreatedAt, &p.UpdatedAt,
		&p.Fullname, &p.Email,
	)
	return p, err
}

func mapProfileWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		if strings.Contains(database.ViolatedConstraint(err), "employee_code") {
			return profile.ErrEmployeeCodeExists
		}
		return profile.ErrProfileExists
	}
	return err
}

func (r *profileRepositoryImpl) getOne(ctx context.Context, where string, arg any) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanProfile(q.QueryRow(ctx, profileSelect+` WHERE `+where, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// Create implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	id := newID()
	query := `
		INSERT INTO employee_profiles (
			id, user_id, employee_code, department, designation, join_date,
			gender, phone, address, emergency_contact, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query,
		id, p.UserID, p.EmployeeCode, p.Department, p.Designation, p.JoinDate,
		p.Gender, p.Phone, p.Address, p.EmergencyContact,
	)
	if err != nil {
		return profile.Profile{}, mapProfileWriteError(err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	if !validator.IsValidUUID(id) {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return r.getOne(ctx, `p.id = $1`, id)
}

// GetByUserID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	if !validator.IsValidUUID(userID) {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return r.getOne(ctx, `p.user_id = $1`, userID)
}

// List implements profile.ProfileRepository.
func (r *profileRepositoryImpl) List(ctx context.Context) ([]profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, profileSelect+` ORDER BY p.employee_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Update implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Update(ctx context.Context, id string, req profile.UpdateProfileRequest) (profile.Profile, error) {
	if !validator.IsValidUUID(id) {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_profiles
		SET department = COALESCE($1, department),
			designation = COALESCE($2, designation),
			gender = COALESCE($3, gender),
			phone = COALESCE($4, phone),
			address = COALESCE($5, address),
			emergency_contact = COALESCE($6, emergency_contact),
			updated_at = NOW()
		WHERE id = $7
	`
	tag, err := q.Exec(ctx, query,
		req.Department, req.Designation, req.Gender, req.Phone, req.Address, req.EmergencyContact, id,
	)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.Profile{}, profile.ErrProfileNotFound
	}

	return r.GetByID(ctx, id)
}
