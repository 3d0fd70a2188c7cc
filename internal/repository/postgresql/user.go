package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	u.id, u.username, u.email, u.fullname, u.password_hash, u.roles, u.team_id, u.is_active,
	u.oauth_provider, u.oauth_provider_id, u.created_at, u.updated_at,
	t.name, EXISTS(SELECT 1 FROM employee_profiles p WHERE p.user_id = u.id)
`

const userFrom = `
	FROM users u
	LEFT JOIN teams t ON t.id = u.team_id
`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var roles []string
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Fullname,
		&u.PasswordHash,
		&roles,
		&u.TeamID,
		&u.IsActive,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.TeamName,
		&u.HasProfile,
	)
	if err != nil {
		return user.User{}, err
	}
	u.Roles = make([]user.Role, len(roles))
	for i, r := range roles {
		u.Roles[i] = user.Role(r)
	}
	return u, nil
}

func roleStrings(roles []user.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + userFrom + ` WHERE ` + where
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if newUser.ID == "" {
		newUser.ID = newID()
	}
	if len(newUser.Roles) == 0 {
		newUser.Roles = []user.Role{user.RoleEmployee}
	}

	query := `
		INSERT INTO users (
			id, username, email, fullname, password_hash, roles, team_id, is_active,
			oauth_provider, oauth_provider_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.Exec(ctx, query,
		newUser.ID,
		newUser.Username,
		strings.ToLower(newUser.Email),
		newUser.Fullname,
		newUser.PasswordHash,
		roleStrings(newUser.Roles),
		newUser.TeamID,
		newUser.IsActive,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		if database.IsForeignKeyViolation(err) {
			return user.User{}, user.ErrTeamNotFound
		}
		return user.User{}, err
	}

	return r.GetByID(ctx, newUser.ID)
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	if !validator.IsValidUUID(id) {
		return user.User{}, user.ErrUserNotFound
	}
	return r.getOne(ctx, `u.id = $1`, id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, `u.email = lower($1)`, email)
}

// GetByLogin implements user.UserRepository.
func (r *userRepositoryImpl) GetByLogin(ctx context.Context, login string) (user.User, error) {
	return r.getOne(ctx, `(u.email = lower($1) OR u.username = $1)`, login)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conds []string
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(u.username ILIKE $%d OR u.email ILIKE $%d OR u.fullname ILIKE $%d)", len(args), len(args), len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		conds = append(conds, fmt.Sprintf("$%d = ANY(u.roles)", len(args)))
	}
	if filter.HasProfile != nil {
		if *filter.HasProfile {
			conds = append(conds, "EXISTS(SELECT 1 FROM employee_profiles p WHERE p.user_id = u.id)")
		} else {
			conds = append(conds, "NOT EXISTS(SELECT 1 FROM employee_profiles p WHERE p.user_id = u.id)")
		}
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := `SELECT ` + userColumns + userFrom + where +
		fmt.Sprintf(" ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// ListActiveByRoles implements user.UserRepository.
func (r *userRepositoryImpl) ListActiveByRoles(ctx context.Context, roles []user.Role) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + userFrom + ` WHERE u.is_active AND u.roles && $1 ORDER BY u.created_at`
	rows, err := q.Query(ctx, query, roleStrings(roles))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ExistsByEmailOrUsername implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			EXISTS(SELECT 1 FROM users WHERE email = lower($1)),
			EXISTS(SELECT 1 FROM users WHERE username = $2)
	`
	var emailTaken, usernameTaken bool
	if err := q.QueryRow(ctx, query, email, username).Scan(&emailTaken, &usernameTaken); err != nil {
		return false, false, err
	}
	return emailTaken, usernameTaken, nil
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET oauth_provider = 'google', oauth_provider_id = $1, updated_at = NOW()
		WHERE email = lower($2)
		RETURNING id
	`
	var id string
	if err := q.QueryRow(ctx, query, googleID, email).Scan(&id); err != nil {
		if database.IsNoRows(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return r.GetByID(ctx, id)
}

// execOne runs a single-row write keyed by the user id passed as the last argument.
func (r *userRepositoryImpl) execOne(ctx context.Context, query string, args ...any) error {
	if id, _ := args[len(args)-1].(string); !validator.IsValidUUID(id) {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateRoles implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRoles(ctx context.Context, id string, roles []user.Role) error {
	return r.execOne(ctx, `UPDATE users SET roles = $1, updated_at = NOW() WHERE id = $2`, roleStrings(roles), id)
}

// UpdateStatus implements user.UserRepository.
func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, id string, isActive bool) error {
	return r.execOne(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, isActive, id)
}

// UpdateTeam implements user.UserRepository.
func (r *userRepositoryImpl) UpdateTeam(ctx context.Context, id string, teamID *string) error {
	if teamID != nil && !validator.IsValidUUID(*teamID) {
		return user.ErrTeamNotFound
	}
	err := r.execOne(ctx, `UPDATE users SET team_id = $1, updated_at = NOW() WHERE id = $2`, teamID, id)
	if database.IsForeignKeyViolation(err) {
		return user.ErrTeamNotFound
	}
	return err
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return user.ErrUserHasLeaveRecord
	}
	return err
}

// CountByRole implements user.UserRepository.
func (r *userRepositoryImpl) CountByRole(ctx context.Context) (map[user.Role]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT role, COUNT(*) FROM users, unnest(roles) AS role GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[user.Role]int64)
	for rows.Next() {
		var role string
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[user.Role(role)] = n
	}
	return counts, rows.Err()
}

// CountRegisteredSince implements user.UserRepository.
func (r *userRepositoryImpl) CountRegisteredSince(ctx context.Context, since time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}
