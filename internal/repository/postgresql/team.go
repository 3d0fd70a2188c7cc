package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/team"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type teamRepositoryImpl struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.TeamRepository {
	return &teamRepositoryImpl{db: db}
}

const teamSelect = `
	SELECT t.id, t.name, t.created_at, t.updated_at,
		(SELECT COUNT(*) FROM users u WHERE u.team_id = t.id)
	FROM teams t
`

func scanTeam(row pgx.Row) (team.Team, error) {
	var t team.Team
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt, &t.MemberCount)
	return t, err
}

// Create implements team.TeamRepository.
func (r *teamRepositoryImpl) Create(ctx context.Context, t team.Team) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO teams (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, name, created_at, updated_at
	`

	var result team.Team
	err := q.QueryRow(ctx, query, newID(), t.Name).Scan(
		&result.ID,
		&result.Name,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return team.Team{}, team.ErrTeamNameExists
		}
		return team.Team{}, fmt.Errorf("failed to create team: %w", err)
	}

	return result, nil
}

// GetByID implements team.TeamRepository.
func (r *teamRepositoryImpl) GetByID(ctx context.Context, id string) (team.Team, error) {
	if !validator.IsValidUUID(id) {
		return team.Team{}, team.ErrTeamNotFound
	}
	q := GetQuerier(ctx, r.db)

	result, err := scanTeam(q.QueryRow(ctx, teamSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return team.Team{}, team.ErrTeamNotFound
		}
		return team.Team{}, fmt.Errorf("failed to get team: %w", err)
	}

	return result, nil
}

// List implements team.TeamRepository.
func (r *teamRepositoryImpl) List(ctx context.Context) ([]team.Team, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, teamSelect+` ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]team.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}

// Update implements team.TeamRepository.
func (r *teamRepositoryImpl) Update(ctx context.Context, id string, name string) (team.Team, error) {
	if !validator.IsValidUUID(id) {
		return team.Team{}, team.ErrTeamNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE teams SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return team.Team{}, team.ErrTeamNameExists
		}
		return team.Team{}, fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.Team{}, team.ErrTeamNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete implements team.TeamRepository.
func (r *teamRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return team.ErrTeamNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return team.ErrTeamInUse
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrTeamNotFound
	}

	return nil
}

// CountMembers implements team.TeamRepository.
func (r *teamRepositoryImpl) CountMembers(ctx context.Context, id string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE team_id = $1`, id).Scan(&n)
	return n, err
}
