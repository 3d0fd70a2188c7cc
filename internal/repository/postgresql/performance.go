package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
)

type performanceRepositoryImpl struct {
	db *database.DB
}

func NewPerformanceRepository(db *database.DB) profile.PerformanceRepository {
	return &performanceRepositoryImpl{db: db}
}

// Create implements profile.PerformanceRepository.
func (r *performanceRepositoryImpl) Create(ctx context.Context, p profile.Performance) (profile.Performance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO performances (id, profile_id, review_period, rating, goals, achievements, feedback, reviewer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, profile_id, review_period, rating, goals, achievements, feedback, reviewer_id, created_at
	`

	var created profile.Performance
	err := q.QueryRow(ctx, query,
		newID(), p.ProfileID, p.ReviewPeriod, p.Rating, p.Goals, p.Achievements, p.Feedback, p.ReviewerID,
	).Scan(
		&created.ID, &created.ProfileID, &created.ReviewPeriod, &created.Rating,
		&created.Goals, &created.Achievements, &created.Feedback, &created.ReviewerID, &created.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return profile.Performance{}, profile.ErrProfileNotFound
		}
		return profile.Performance{}, fmt.Errorf("failed to create performance review: %w", err)
	}
	return created, nil
}

// ListByProfile implements profile.PerformanceRepository.
func (r *performanceRepositoryImpl) ListByProfile(ctx context.Context, profileID string) ([]profile.Performance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, profile_id, review_period, rating, goals, achievements, feedback, reviewer_id, created_at
		FROM performances
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`
	rows, err := q.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]profile.Performance, 0)
	for rows.Next() {
		var p profile.Performance
		if err := rows.Scan(
			&p.ID, &p.ProfileID, &p.ReviewPeriod, &p.Rating,
			&p.Goals, &p.Achievements, &p.Feedback, &p.ReviewerID, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, p)
	}
	return reviews, rows.Err()
}
