package team

import "time"

type Team struct {
	ID          string
	Name        string
	MemberCount int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Team) ToResponse() TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		MemberCount: t.MemberCount,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}
