package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	onLeaveDay time.Time
	year       int
	failTeams  bool
}

func (f *fakeDashboardRepo) CountUsers(context.Context) (int64, int64, error) { return 12, 10, nil }

func (f *fakeDashboardRepo) CountRequestsByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{"PENDING": 3, "APPROVED": 7, "REJECTED": 1, "CANCELLED": 0}, nil
}

func (f *fakeDashboardRepo) CountOnLeave(_ context.Context, day time.Time) (int64, error) {
	f.onLeaveDay = day
	return 2, nil
}

func (f *fakeDashboardRepo) SumApprovedDays(_ context.Context, year int) (float64, error) {
	f.year = year
	return 31.5, nil
}

func (f *fakeDashboardRepo) TeamHeadcounts(context.Context) ([]dashboard.TeamHeadcount, error) {
	if f.failTeams {
		return nil, errors.New("teams query failed")
	}
	return []dashboard.TeamHeadcount{{TeamID: "t-1", TeamName: "Platform", Members: 5}}, nil
}

type fakeUserRepo struct {
	user.UserRepository
}

func (fakeUserRepo) CountByRole(context.Context) (map[user.Role]int64, error) {
	return map[user.Role]int64{user.RoleEmployee: 9, user.RoleHR: 2}, nil
}

func (fakeUserRepo) CountRegisteredSince(context.Context, time.Time) (int64, error) { return 4, nil }

type fakeProfileRepo struct {
	profile.ProfileRepository
	has bool
}

func (f fakeProfileRepo) GetByUserID(_ context.Context, userID string) (profile.Profile, error) {
	if !f.has {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return profile.Profile{ID: "prof-1", UserID: userID, EmployeeCode: "EMP-001", JoinDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

type fakeActivityRepo struct {
	profile.ActivityRepository
}

func (fakeActivityRepo) ListByUser(_ context.Context, userID string, limit int) ([]profile.Activity, error) {
	return []profile.Activity{{ID: "a-1", UserID: userID, ActivityType: profile.ActivityLeaveApplied}}, nil
}

type fakeRequestRepo struct {
	leave.RequestRepository
}

func (fakeRequestRepo) ListByUser(_ context.Context, userID string) ([]leave.Request, error) {
	var out []leave.Request
	for i := 0; i < 7; i++ {
		out = append(out, leave.Request{ID: string(rune('a' + i)), UserID: userID, Status: leave.StatusPending})
	}
	return out, nil
}

type fakeBalances struct {
	leave.BalanceService
}

func (fakeBalances) GetSummary(_ context.Context, _ authz.Subject, _ string, _ int) (leave.BalanceSummary, error) {
	return leave.BalanceSummary{"annual": {Total: 21, Used: 3, Remaining: 18}}, nil
}

var (
	hr       = authz.Subject{UserID: "hr-1", Roles: []string{"HR"}}
	employee = authz.Subject{UserID: "emp-1", Roles: []string{"EMPLOYEE"}}
)

func newTestService(t *testing.T, repo *fakeDashboardRepo, hasProfile bool) *DashboardServiceImpl {
	t.Helper()
	az, err := authz.New()
	require.NoError(t, err)
	svc := NewDashboardService(repo, fakeUserRepo{}, fakeProfileRepo{has: hasProfile}, fakeActivityRepo{}, fakeRequestRepo{}, fakeBalances{}, az).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetDashboard_AggregatesAllSections(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := newTestService(t, repo, true)

	resp, err := svc.GetDashboard(context.Background(), hr)
	require.NoError(t, err)

	assert.Equal(t, int64(12), resp.Users.Total)
	assert.Equal(t, int64(10), resp.Users.Active)
	assert.Equal(t, int64(4), resp.Users.RecentRegistrations)
	assert.Equal(t, map[string]int64{"EMPLOYEE": 9, "HR": 2, "MANAGER": 0, "ADMIN": 0}, resp.Users.RoleDistribution)
	assert.Equal(t, int64(3), resp.Requests.ByStatus["PENDING"])
	assert.Equal(t, int64(2), resp.Requests.OnLeaveToday)
	assert.Equal(t, 31.5, resp.Requests.DaysApproved)
	assert.Equal(t, 2025, repo.year)
	assert.Len(t, resp.Teams, 1)
}

func TestGetDashboard_FailsWhenAnyQueryFails(t *testing.T) {
	svc := newTestService(t, &fakeDashboardRepo{failTeams: true}, true)
	_, err := svc.GetDashboard(context.Background(), hr)
	assert.Error(t, err)
}

func TestGetDashboard_EmployeesForbidden(t *testing.T) {
	svc := newTestService(t, &fakeDashboardRepo{}, true)
	_, err := svc.GetDashboard(context.Background(), employee)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestGetEmployeeDashboard(t *testing.T) {
	svc := newTestService(t, &fakeDashboardRepo{}, true)

	resp, err := svc.GetEmployeeDashboard(context.Background(), employee)
	require.NoError(t, err)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, 5, resp.Profile.YearsOfService)
	assert.Equal(t, 18.0, resp.Balances["annual"].Remaining)
	assert.Len(t, resp.RecentRequests, recentLimit)
	assert.Len(t, resp.RecentActivities, 1)
}

func TestGetEmployeeDashboard_WithoutProfile(t *testing.T) {
	svc := newTestService(t, &fakeDashboardRepo{}, false)

	resp, err := svc.GetEmployeeDashboard(context.Background(), employee)
	require.NoError(t, err)
	assert.Nil(t, resp.Profile)
	assert.NotEmpty(t, resp.Balances)
}
