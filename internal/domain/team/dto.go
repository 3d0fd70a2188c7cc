package team

import "github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"

type TeamResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CreateTeamRequest struct {
	Name string `json:"name"`
}

func (r *CreateTeamRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLen(r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}

	return errs.Err()
}

type UpdateTeamRequest struct {
	Name *string `json:"name,omitempty"`
}

func (r *UpdateTeamRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil {
		errs.Add("name", "nothing to update")
	} else if validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	} else if !validator.MaxLen(*r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}

	return errs.Err()
}
