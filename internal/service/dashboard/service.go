package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"golang.org/x/sync/errgroup"
)

const recentWindow = 30 * 24 * time.Hour

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	users      user.UserRepository
	profiles   profile.ProfileRepository
	activities profile.ActivityRepository
	requests   leave.RequestRepository
	balances   leave.BalanceService
	authz      authz.Authorizer
	now        func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	userRepository user.UserRepository,
	profileRepository profile.ProfileRepository,
	activityRepository profile.ActivityRepository,
	requestRepository leave.RequestRepository,
	balanceService leave.BalanceService,
	authorizer authz.Authorizer,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		users:               userRepository,
		profiles:            profileRepository,
		activities:          activityRepository,
		requests:            requestRepository,
		balances:            balanceService,
		authz:               authorizer,
		now:                 time.Now,
	}
}

// GetDashboard returns organisation figures; each query runs in its own goroutine.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, actor authz.Subject) (dashboard.DashboardResponse, error) {
	if err := s.authz.Require(actor, authz.ActionRead, authz.Collection(authz.KindDashboard)); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	now := s.now()
	var (
		users    dashboard.UserSummary
		byRole   map[user.Role]int64
		requests dashboard.RequestSummary
		teams    []dashboard.TeamHeadcount
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Totals
	g.Go(func() error {
		total, active, err := s.CountUsers(gCtx)
		if err != nil {
			return err
		}
		users.Total, users.Active = total, active
		return nil
	})

	// 2. Role distribution
	g.Go(func() error {
		var err error
		byRole, err = s.users.CountByRole(gCtx)
		return err
	})

	// 3. Recent registrations
	g.Go(func() error {
		var err error
		users.RecentRegistrations, err = s.users.CountRegisteredSince(gCtx, now.Add(-recentWindow))
		return err
	})

	// 4. Requests by status
	g.Go(func() error {
		var err error
		requests.ByStatus, err = s.CountRequestsByStatus(gCtx)
		return err
	})

	// 5. On leave today
	g.Go(func() error {
		var err error
		requests.OnLeaveToday, err = s.CountOnLeave(gCtx, now)
		return err
	})

	// 6. Approved days this year
	g.Go(func() error {
		var err error
		requests.DaysApproved, err = s.SumApprovedDays(gCtx, now.Year())
		return err
	})

	// 7. Team headcounts
	g.Go(func() error {
		var err error
		teams, err = s.TeamHeadcounts(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	users.RoleDistribution = make(map[string]int64, len(user.AllRoles()))
	for _, role := range user.AllRoles() {
		users.RoleDistribution[string(role)] = byRole[role]
	}
	if teams == nil {
		teams = []dashboard.TeamHeadcount{}
	}

	return dashboard.DashboardResponse{
		Users:    users,
		Requests: requests,
		Teams:    teams,
	}, nil
}
