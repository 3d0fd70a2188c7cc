package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
)

type activityRepositoryImpl struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) profile.ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

// Append implements profile.ActivityRepository.
func (r *activityRepositoryImpl) Append(ctx context.Context, a profile.Activity) (profile.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO activities (id, user_id, profile_id, activity_type, description, activity_date, created_at)
		VALUES (
			$1, $2,
			COALESCE($3, (SELECT id FROM employee_profiles WHERE user_id = $2)),
			$4, $5, COALESCE($6, NOW()), NOW()
		)
		RETURNING id, user_id, profile_id, activity_type, description, activity_date, created_at
	`

	var activityDate any
	if !a.ActivityDate.IsZero() {
		activityDate = a.ActivityDate
	}

	var created profile.Activity
	err := q.QueryRow(ctx, query, newID(), a.UserID, a.ProfileID, a.ActivityType, a.Description, activityDate).Scan(
		&created.ID,
		&created.UserID,
		&created.ProfileID,
		&created.ActivityType,
		&created.Description,
		&created.ActivityDate,
		&created.CreatedAt,
	)
	if err != nil {
		return profile.Activity{}, fmt.Errorf("failed to append activity: %w", err)
	}
	return created, nil
}

// ListByUser implements profile.ActivityRepository.
func (r *activityRepositoryImpl) ListByUser(ctx context.Context, userID string, limit int) ([]profile.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, profile_id, activity_type, description, activity_date, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY activity_date DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]profile.Activity, 0)
	for rows.Next() {
		var a profile.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProfileID, &a.ActivityType, &a.Description, &a.ActivityDate, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
