package dashboard

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

// GetEmployeeDashboard implements dashboard.DashboardService.
// A missing profile is not an error; the profile section is omitted.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, actor authz.Subject) (dashboard.EmployeeDashboardResponse, error) {
	now := s.now()
	resp := dashboard.EmployeeDashboardResponse{
		RecentRequests:   []leave.RequestResponse{},
		RecentActivities: []profile.ActivityResponse{},
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.profiles.GetByUserID(gCtx, actor.UserID)
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		pr := p.ToResponse(now)
		resp.Profile = &pr
		return nil
	})

	g.Go(func() error {
		var err error
		resp.Balances, err = s.balances.GetSummary(gCtx, actor, actor.UserID, now.Year())
		return err
	})

	g.Go(func() error {
		list, err := s.requests.ListByUser(gCtx, actor.UserID)
		if err != nil {
			return err
		}
		if len(list) > recentLimit {
			list = list[:recentLimit]
		}
		for _, r := range list {
			resp.RecentRequests = append(resp.RecentRequests, r.ToResponse())
		}
		return nil
	})

	g.Go(func() error {
		list, err := s.activities.ListByUser(gCtx, actor.UserID, recentLimit)
		if err != nil {
			return err
		}
		for _, a := range list {
			resp.RecentActivities = append(resp.RecentActivities, a.ToResponse())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.EmployeeDashboardResponse{}, err
	}
	return resp, nil
}
