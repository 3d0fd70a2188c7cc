package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/team"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type TeamServiceImpl struct {
	team.TeamRepository
	authz authz.Authorizer
}

func NewTeamService(teamRepository team.TeamRepository, authorizer authz.Authorizer) team.TeamService {
	return &TeamServiceImpl{TeamRepository: teamRepository, authz: authorizer}
}

var teams = authz.Collection(authz.KindTeam)

// Create implements team.TeamService.
func (s *TeamServiceImpl) Create(ctx context.Context, actor authz.Subject, req team.CreateTeamRequest) (team.TeamResponse, error) {
	if err := s.authz.Require(actor, authz.ActionCreate, teams); err != nil {
		return team.TeamResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return team.TeamResponse{}, err
	}

	created, err := s.TeamRepository.Create(ctx, team.Team{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return team.TeamResponse{}, err
	}
	return created.ToResponse(), nil
}

// List implements team.TeamService.
func (s *TeamServiceImpl) List(ctx context.Context, actor authz.Subject) ([]team.TeamResponse, error) {
	if err := s.authz.Require(actor, authz.ActionRead, teams); err != nil {
		return nil, err
	}

	list, err := s.TeamRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	responses := make([]team.TeamResponse, len(list))
	for i, t := range list {
		responses[i] = t.ToResponse()
	}
	return responses, nil
}

// Get implements team.TeamService.
func (s *TeamServiceImpl) Get(ctx context.Context, actor authz.Subject, id string) (team.TeamResponse, error) {
	if err := s.authz.Require(actor, authz.ActionRead, teams); err != nil {
		return team.TeamResponse{}, err
	}
	t, err := s.TeamRepository.GetByID(ctx, id)
	if err != nil {
		return team.TeamResponse{}, err
	}
	return t.ToResponse(), nil
}

// Update implements team.TeamService.
func (s *TeamServiceImpl) Update(ctx context.Context, actor authz.Subject, id string, req team.UpdateTeamRequest) (team.TeamResponse, error) {
	if err := s.authz.Require(actor, authz.ActionUpdate, teams); err != nil {
		return team.TeamResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return team.TeamResponse{}, err
	}

	updated, err := s.TeamRepository.Update(ctx, id, strings.TrimSpace(*req.Name))
	if err != nil {
		return team.TeamResponse{}, err
	}
	return updated.ToResponse(), nil
}

// Delete implements team.TeamService. Teams with members cannot be deleted.
func (s *TeamServiceImpl) Delete(ctx context.Context, actor authz.Subject, id string) error {
	if err := s.authz.Require(actor, authz.ActionDelete, teams); err != nil {
		return err
	}
	if _, err := s.TeamRepository.GetByID(ctx, id); err != nil {
		return err
	}

	members, err := s.TeamRepository.CountMembers(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count team members: %w", err)
	}
	if members > 0 {
		return team.ErrTeamInUse
	}
	return s.TeamRepository.Delete(ctx, id)
}
