package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

type ProfileServiceImpl struct {
	profile.ProfileRepository
	activities   profile.ActivityRepository
	performances profile.PerformanceRepository
	users        user.UserRepository
	tx           leave.Transactor
	authz        authz.Authorizer
	now          func() time.Time
}

func NewProfileService(
	profileRepository profile.ProfileRepository,
	activityRepository profile.ActivityRepository,
	performanceRepository profile.PerformanceRepository,
	userRepository user.UserRepository,
	transactor leave.Transactor,
	authorizer authz.Authorizer,
) profile.ProfileService {
	return &ProfileServiceImpl{
		ProfileRepository: profileRepository,
		activities:        activityRepository,
		performances:      performanceRepository,
		users:             userRepository,
		tx:                transactor,
		authz:             authorizer,
		now:               time.Now,
	}
}

var profiles = authz.Collection(authz.KindProfile)

// Create implements profile.ProfileService.
func (s *ProfileServiceImpl) Create(ctx context.Context, actor authz.Subject, req profile.CreateProfileRequest) (profile.ProfileResponse, error) {
	if err := s.authz.Require(actor, authz.ActionCreate, profiles); err != nil {
		return profile.ProfileResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return profile.ProfileResponse{}, err
	}

	joinDate, _ := validator.IsValidDate(req.JoinDate)
	created, err := s.ProfileRepository.Create(ctx, profile.Profile{
		UserID:           req.UserID,
		EmployeeCode:     strings.TrimSpace(req.EmployeeCode),
		Department:       strings.TrimSpace(req.Department),
		Designation:      strings.TrimSpace(req.Designation),
		JoinDate:         joinDate,
		Gender:           req.Gender,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return created.ToResponse(s.now()), nil
}

// List implements profile.ProfileService.
func (s *ProfileServiceImpl) List(ctx context.Context, actor authz.Subject) ([]profile.ProfileResponse, error) {
	if err := s.authz.Require(actor, authz.ActionList, profiles); err != nil {
		return nil, err
	}
	list, err := s.ProfileRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	now := s.now()
	responses := make([]profile.ProfileResponse, len(list))
	for i, p := range list {
		responses[i] = p.ToResponse(now)
	}
	return responses, nil
}

// GetMine implements profile.ProfileService.
func (s *ProfileServiceImpl) GetMine(ctx context.Context, actor authz.Subject) (profile.ProfileResponse, error) {
	return s.GetByUser(ctx, actor, actor.UserID)
}

// GetByUser implements profile.ProfileService.
func (s *ProfileServiceImpl) GetByUser(ctx context.Context, actor authz.Subject, userID string) (profile.ProfileResponse, error) {
	if err := s.authz.Require(actor, authz.ActionRead, authz.Of(authz.KindProfile, userID)); err != nil {
		return profile.ProfileResponse{}, err
	}
	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return p.ToResponse(s.now()), nil
}

// Update implements profile.ProfileService. Owners may edit their contact details;
// department and designation need the collection-level capability.
func (s *ProfileServiceImpl) Update(ctx context.Context, actor authz.Subject, id string, req profile.UpdateProfileRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}
	current, err := s.ProfileRepository.GetByID(ctx, id)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	res := authz.Of(authz.KindProfile, current.UserID)
	if req.HRFieldsChanged() {
		res = profiles
	}
	if err := s.authz.Require(actor, authz.ActionUpdate, res); err != nil {
		return profile.ProfileResponse{}, err
	}

	updated, err := s.ProfileRepository.Update(ctx, id, req)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return updated.ToResponse(s.now()), nil
}

// AddPerformanceReview implements profile.ProfileService. The review and its activity entry are written together.
func (s *ProfileServiceImpl) AddPerformanceReview(ctx context.Context, actor authz.Subject, profileID string, req profile.CreatePerformanceRequest) (profile.PerformanceResponse, error) {
	if err := s.authz.Require(actor, authz.ActionReview, profiles); err != nil {
		return profile.PerformanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return profile.PerformanceResponse{}, err
	}

	target, err := s.ProfileRepository.GetByID(ctx, profileID)
	if err != nil {
		return profile.PerformanceResponse{}, err
	}
	if target.UserID == actor.UserID {
		return profile.PerformanceResponse{}, fmt.Errorf("%w: cannot review own profile", authz.ErrForbidden)
	}

	reviewerID := actor.UserID
	var created profile.Performance
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		p, err := s.performances.Create(txCtx, profile.Performance{
			ProfileID:    profileID,
			ReviewPeriod: strings.TrimSpace(req.ReviewPeriod),
			Rating:       req.Rating,
			Goals:        req.Goals,
			Achievements: req.Achievements,
			Feedback:     req.Feedback,
			ReviewerID:   &reviewerID,
		})
		if err != nil {
			return err
		}
		created = p

		_, err = s.activities.Append(txCtx, profile.Activity{
			UserID:       target.UserID,
			ProfileID:    &target.ID,
			ActivityType: profile.ActivityPerformanceReview,
			Description:  fmt.Sprintf("Performance review for %s rated %d/5", created.ReviewPeriod, created.Rating),
			ActivityDate: s.now(),
		})
		return err
	})
	if err != nil {
		return profile.PerformanceResponse{}, err
	}

	return created.ToResponse(), nil
}

// ListPerformanceReviews implements profile.ProfileService.
func (s *ProfileServiceImpl) ListPerformanceReviews(ctx context.Context, actor authz.Subject, profileID string) ([]profile.PerformanceResponse, error) {
	target, err := s.ProfileRepository.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Require(actor, authz.ActionRead, authz.Of(authz.KindProfile, target.UserID)); err != nil {
		return nil, err
	}

	reviews, err := s.performances.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	responses := make([]profile.PerformanceResponse, len(reviews))
	for i, r := range reviews {
		responses[i] = r.ToResponse()
	}
	return responses, nil
}

// ListMyActivities implements profile.ProfileService.
func (s *ProfileServiceImpl) ListMyActivities(ctx context.Context, actor authz.Subject, limit int) ([]profile.ActivityResponse, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	list, err := s.activities.ListByUser(ctx, actor.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	responses := make([]profile.ActivityResponse, len(list))
	for i, a := range list {
		responses[i] = a.ToResponse()
	}
	return responses, nil
}
