package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
)

const recentWindow = 30 * 24 * time.Hour

type UserServiceImpl struct {
	user.UserRepository
	tokens postgresql.RefreshTokenRepository
	authz  authz.Authorizer
	now    func() time.Time
}

func NewUserService(userRepository user.UserRepository, refreshTokenRepository postgresql.RefreshTokenRepository, authorizer authz.Authorizer) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		tokens:         refreshTokenRepository,
		authz:          authorizer,
		now:            time.Now,
	}
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor authz.Subject, filter user.ListUsersFilter) (user.ListUsersResponse, error) {
	if err := s.authz.Require(actor, authz.ActionList, authz.Collection(authz.KindUser)); err != nil {
		return user.ListUsersResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return user.ListUsersResponse{}, err
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUsersResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return user.ListUsersResponse{
		Users:      responses,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, actor authz.Subject, id string) (user.UserResponse, error) {
	if err := s.authz.Require(actor, authz.ActionRead, authz.Of(authz.KindUser, id)); err != nil {
		return user.UserResponse{}, err
	}
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// UpdateRoles implements user.UserService.
func (s *UserServiceImpl) UpdateRoles(ctx context.Context, actor authz.Subject, id string, req user.UpdateRolesRequest) (user.UserResponse, error) {
	if err := s.requireAdminOn(actor, authz.ActionUpdate, id); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	roles := req.Parsed()
	if len(roles) == 0 {
		return user.UserResponse{}, user.ErrInvalidRoleSet
	}

	if err := s.UserRepository.UpdateRoles(ctx, id, roles); err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("user roles updated", "user_id", id, "roles", roles, "by", actor.UserID)

	return s.Get(ctx, actor, id)
}

// UpdateStatus implements user.UserService. Deactivation revokes every refresh token of the user.
func (s *UserServiceImpl) UpdateStatus(ctx context.Context, actor authz.Subject, id string, req user.UpdateStatusRequest) (user.UserResponse, error) {
	if err := s.requireAdminOn(actor, authz.ActionUpdate, id); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := s.UserRepository.UpdateStatus(ctx, id, *req.IsActive); err != nil {
		return user.UserResponse{}, err
	}
	if !*req.IsActive {
		if err := s.tokens.RevokeAllForUser(ctx, id); err != nil {
			slog.Error("failed to revoke refresh tokens of deactivated user", "user_id", id, "error", err)
		}
	}

	return s.Get(ctx, actor, id)
}

// UpdateTeam implements user.UserService.
func (s *UserServiceImpl) UpdateTeam(ctx context.Context, actor authz.Subject, id string, req user.UpdateTeamRequest) (user.UserResponse, error) {
	if err := s.authz.Require(actor, authz.ActionUpdate, authz.Collection(authz.KindUser)); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := s.UserRepository.UpdateTeam(ctx, id, req.TeamID); err != nil {
		return user.UserResponse{}, err
	}

	return s.Get(ctx, actor, id)
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, actor authz.Subject, id string) error {
	if err := s.requireAdminOn(actor, authz.ActionDelete, id); err != nil {
		return err
	}
	if _, err := s.UserRepository.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", id, "by", actor.UserID)
	return nil
}

// Stats implements user.UserService.
func (s *UserServiceImpl) Stats(ctx context.Context, actor authz.Subject) (user.StatsResponse, error) {
	if err := s.authz.Require(actor, authz.ActionList, authz.Collection(authz.KindUser)); err != nil {
		return user.StatsResponse{}, err
	}

	byRole, err := s.UserRepository.CountByRole(ctx)
	if err != nil {
		return user.StatsResponse{}, fmt.Errorf("failed to count users by role: %w", err)
	}
	_, total, err := s.UserRepository.List(ctx, user.ListUsersFilter{Page: 1, Limit: 1})
	if err != nil {
		return user.StatsResponse{}, fmt.Errorf("failed to count users: %w", err)
	}
	recent, err := s.UserRepository.CountRegisteredSince(ctx, s.now().Add(-recentWindow))
	if err != nil {
		return user.StatsResponse{}, fmt.Errorf("failed to count recent registrations: %w", err)
	}

	distribution := make(map[string]int64, len(user.AllRoles()))
	for _, role := range user.AllRoles() {
		distribution[string(role)] = byRole[role]
	}

	return user.StatsResponse{
		TotalUsers:          total,
		RoleDistribution:    distribution,
		RecentRegistrations: recent,
	}, nil
}

// requireAdminOn checks the capability on the user collection and forbids acting on oneself.
func (s *UserServiceImpl) requireAdminOn(actor authz.Subject, act authz.Action, targetID string) error {
	if err := s.authz.Require(actor, act, authz.Collection(authz.KindUser)); err != nil {
		return err
	}
	if actor.UserID == targetID {
		return user.ErrCannotModifySelf
	}
	return nil
}
