package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/cache"
)

// LeaveTypesCacheKey holds the full ordered leave type list.
const LeaveTypesCacheKey = "leave_types:all"

type TypeServiceImpl struct {
	leave.LeaveTypeRepository
	authz authz.Authorizer
	cache *cache.Cache
}

func NewTypeService(leaveTypeRepository leave.LeaveTypeRepository, authorizer authz.Authorizer, c *cache.Cache) leave.TypeService {
	return &TypeServiceImpl{
		LeaveTypeRepository: leaveTypeRepository,
		authz:               authorizer,
		cache:               c,
	}
}

// Create implements leave.TypeService.
func (s *TypeServiceImpl) Create(ctx context.Context, actor authz.Subject, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := s.authz.Require(actor, authz.ActionCreate, authz.Collection(authz.KindLeaveType)); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	created, err := s.LeaveTypeRepository.Create(ctx, leave.LeaveType{Name: req.Name, MaxDays: *req.MaxDays})
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	s.cache.Invalidate(ctx, LeaveTypesCacheKey)

	return created.ToResponse(), nil
}

// List implements leave.TypeService.
func (s *TypeServiceImpl) List(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	return cache.GetOrLoad(ctx, s.cache, LeaveTypesCacheKey, func(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
		types, err := s.LeaveTypeRepository.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list leave types: %w", err)
		}
		resp := make([]leave.LeaveTypeResponse, 0, len(types))
		for _, t := range types {
			resp = append(resp, t.ToResponse())
		}
		return resp, nil
	})
}

// Get implements leave.TypeService.
func (s *TypeServiceImpl) Get(ctx context.Context, id string) (leave.LeaveTypeResponse, error) {
	t, err := s.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return t.ToResponse(), nil
}

// Update implements leave.TypeService.
func (s *TypeServiceImpl) Update(ctx context.Context, actor authz.Subject, id string, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := s.authz.Require(actor, authz.ActionUpdate, authz.Collection(authz.KindLeaveType)); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	updated, err := s.LeaveTypeRepository.Update(ctx, id, req)
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	s.cache.Invalidate(ctx, LeaveTypesCacheKey)

	return updated.ToResponse(), nil
}

// Delete implements leave.TypeService.
func (s *TypeServiceImpl) Delete(ctx context.Context, actor authz.Subject, id string) error {
	if err := s.authz.Require(actor, authz.ActionDelete, authz.Collection(authz.KindLeaveType)); err != nil {
		return err
	}

	if _, err := s.LeaveTypeRepository.GetByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.LeaveTypeRepository.IsReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check leave type references: %w", err)
	}
	if referenced {
		return leave.ErrLeaveTypeInUse
	}

	if err := s.LeaveTypeRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete leave type: %w", err)
	}
	s.cache.Invalidate(ctx, LeaveTypesCacheKey)

	return nil
}
