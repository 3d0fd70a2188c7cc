package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountUsers returns total and active users in single query
func (r *dashboardRepositoryImpl) CountUsers(ctx context.Context) (int64, int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) as active_count
		FROM users
	`

	var total, active int64
	if err := q.QueryRow(ctx, query).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, active, nil
}

// CountRequestsByStatus groups every leave request by status. Statuses with no rows report zero.
func (r *dashboardRepositoryImpl) CountRequestsByStatus(ctx context.Context) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM leave_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count leave requests: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{"PENDING": 0, "APPROVED": 0, "REJECTED": 0, "CANCELLED": 0}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountOnLeave counts distinct users with an approved request covering day
func (r *dashboardRepositoryImpl) CountOnLeave(ctx context.Context, day time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM leave_requests
		WHERE status = 'APPROVED' AND start_date <= $1 AND end_date >= $1
	`

	var n int64
	if err := q.QueryRow(ctx, query, day).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users on leave: %w", err)
	}
	return n, nil
}

// SumApprovedDays totals approved days whose start date falls in year
func (r *dashboardRepositoryImpl) SumApprovedDays(ctx context.Context, year int) (float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(total_days), 0)::float8
		FROM leave_requests
		WHERE status = 'APPROVED' AND EXTRACT(YEAR FROM start_date) = $1
	`

	var total float64
	if err := q.QueryRow(ctx, query, year).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum approved days: %w", err)
	}
	return total, nil
}

// TeamHeadcounts lists member counts per team, including empty teams
func (r *dashboardRepositoryImpl) TeamHeadcounts(ctx context.Context) ([]dashboard.TeamHeadcount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.name, COUNT(u.id)
		FROM teams t
		LEFT JOIN users u ON u.team_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.name
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get team headcounts: %w", err)
	}
	defer rows.Close()

	teams := make([]dashboard.TeamHeadcount, 0)
	for rows.Next() {
		var t dashboard.TeamHeadcount
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.Members); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
