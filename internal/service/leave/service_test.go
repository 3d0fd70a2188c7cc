package leave

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memStore
	types    *fakeTypeRepo
	balances *fakeBalanceRepo
	requests *fakeRequestRepo
	tx       *fakeTransactor
	notifier *fakeNotifier

	typeService    leave.TypeService
	balanceService leave.BalanceService
	requestService leave.RequestService

	employee authz.Subject
	other    authz.Subject
	hr       authz.Subject
	manager  authz.Subject
	annual   leave.LeaveType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	authorizer, err := authz.New()
	require.NoError(t, err)

	store := newMemStore()
	f := &fixture{
		store:    store,
		types:    &fakeTypeRepo{store: store},
		balances: &fakeBalanceRepo{store: store},
		requests: &fakeRequestRepo{store: store},
		tx:       &fakeTransactor{store: store},
		notifier: &fakeNotifier{},
	}
	users := &fakeUserRepo{store: store}
	activities := &fakeActivityRepo{store: store}

	f.typeService = NewTypeService(f.types, authorizer, nil)
	f.balanceService = NewBalanceService(f.balances, f.types, users, authorizer, map[string]int{"annual": 24, "sick": 10, "personal": 5})
	f.requestService = NewRequestService(f.requests, f.types, users, activities, f.balanceService, f.tx, f.notifier, authorizer)

	store.addUser(user.User{ID: "emp-1", Username: "jane", Email: "jane@example.com", Fullname: "Jane Doe", Roles: []user.Role{user.RoleEmployee}, IsActive: true})
	store.addUser(user.User{ID: "emp-2", Username: "john", Email: "john@example.com", Fullname: "John Roe", Roles: []user.Role{user.RoleEmployee}, IsActive: true})
	store.addUser(user.User{ID: "hr-1", Username: "hana", Email: "hr@example.com", Fullname: "Hana HR", Roles: []user.Role{user.RoleHR}, IsActive: true})
	store.addUser(user.User{ID: "mgr-1", Username: "mike", Email: "mike@example.com", Fullname: "Mike Manager", Roles: []user.Role{user.RoleManager}, IsActive: true})
	store.addUser(user.User{ID: "admin-1", Username: "root", Email: "admin@example.com", Roles: []user.Role{user.RoleAdmin}, IsActive: false})

	f.employee = authz.Subject{UserID: "emp-1", Email: "jane@example.com", Roles: []string{"EMPLOYEE"}}
	f.other = authz.Subject{UserID: "emp-2", Email: "john@example.com", Roles: []string{"EMPLOYEE"}}
	f.hr = authz.Subject{UserID: "hr-1", Email: "hr@example.com", Roles: []string{"HR"}}
	f.manager = authz.Subject{UserID: "mgr-1", Email: "mike@example.com", Roles: []string{"MANAGER"}}
	f.annual = store.addType("Annual", 21)
	return f
}

func (f *fixture) submit(t *testing.T, start, end string) leave.RequestResponse {
	t.Helper()
	resp, err := f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeID: f.annual.ID,
		StartDate:   start,
		EndDate:     end,
		Reason:      "Family trip",
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) setStatus(actor authz.Subject, id string, status leave.RequestStatus, reason ...string) (leave.RequestResponse, error) {
	req := leave.UpdateStatusRequest{Status: string(status)}
	if len(reason) > 0 {
		req.RejectionReason = &reason[0]
	}
	return f.requestService.SetStatus(context.Background(), actor, id, req)
}

func (f *fixture) used(t *testing.T, year int) float64 {
	t.Helper()
	b, ok := f.store.balance("emp-1", f.annual.ID, year)
	if !ok {
		return 0
	}
	return b.Used
}

func ptr[T any](v T) *T { return &v }

// ===== SUBMIT =====

func TestSubmit_ComputesTotalDaysAndRecordsActivity(t *testing.T) {
	f := newFixture(t)

	resp, err := f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeID:  f.annual.ID,
		StartDate:    "2025-03-10",
		EndDate:      "2025-03-12",
		Reason:       "  Family trip ",
		ManagerEmail: ptr("boss@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, resp.TotalDays)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "Family trip", resp.Reason)
	require.NotNil(t, resp.LeaveTypeName)
	assert.Equal(t, "Annual", *resp.LeaveTypeName)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Jane Doe", resp.User.Fullname)

	require.Len(t, f.store.activities, 1)
	assert.Equal(t, profile.ActivityLeaveApplied, f.store.activities[0].ActivityType)
	assert.Equal(t, "emp-1", f.store.activities[0].UserID)

	require.Len(t, f.notifier.sent, 1)
	sent := f.notifier.sent[0]
	assert.Equal(t, notification.EventSubmitted, sent.Event)
	assert.Equal(t, "Jane Doe", sent.Payload.EmployeeName)
	emails := make([]string, 0, len(sent.Recipients))
	for _, r := range sent.Recipients {
		emails = append(emails, r.Email)
	}
	// the inactive admin is skipped
	assert.ElementsMatch(t, []string{"hr@example.com", "boss@example.com"}, emails)

	assert.Zero(t, f.used(t, 2025), "submission must not reserve days")
}

func TestSubmit_HalfDay(t *testing.T) {
	f := newFixture(t)

	resp, err := f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeName: "annual",
		StartDate:     "2025-05-02",
		EndDate:       "2025-05-02",
		IsHalfDay:     true,
		TotalDays:     ptr(0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.TotalDays)
	assert.True(t, resp.IsHalfDay)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   leave.SubmitRequest
		field string
	}{
		{"end before start", leave.SubmitRequest{LeaveTypeName: "Annual", StartDate: "2025-03-12", EndDate: "2025-03-10"}, "end_date"},
		{"bad date format", leave.SubmitRequest{LeaveTypeName: "Annual", StartDate: "12/03/2025", EndDate: "2025-03-12"}, "start_date"},
		{"half day across dates", leave.SubmitRequest{LeaveTypeName: "Annual", StartDate: "2025-03-10", EndDate: "2025-03-11", IsHalfDay: true}, "is_half_day"},
		{"total days mismatch", leave.SubmitRequest{LeaveTypeName: "Annual", StartDate: "2025-03-10", EndDate: "2025-03-12", TotalDays: ptr(2.0)}, "total_days"},
		{"no leave type", leave.SubmitRequest{StartDate: "2025-03-10", EndDate: "2025-03-12"}, "leave_type_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.requestService.Submit(context.Background(), f.employee, tt.req)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
			assert.Empty(t, f.store.requests)
		})
	}
}

func TestSubmit_UnknownLeaveType(t *testing.T) {
	f := newFixture(t)

	_, err := f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeName: "Sabbatical",
		StartDate:     "2025-03-10",
		EndDate:       "2025-03-10",
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestSubmit_OverlappingRequestIsConflict(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "2025-03-10", "2025-03-12")

	_, err := f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeID: f.annual.ID,
		StartDate:   "2025-03-12",
		EndDate:     "2025-03-13",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestSubmit_ExceedingBalance(t *testing.T) {
	f := newFixture(t)

	_, err := f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeID: f.annual.ID,
		StartDate:   "2025-03-01",
		EndDate:     "2025-03-25",
	})
	assert.ErrorIs(t, err, leave.ErrBalanceExceeded)
	assert.Empty(t, f.store.requests)
	assert.Empty(t, f.store.activities)
	assert.Empty(t, f.notifier.sent)
}

func TestSubmit_CountsAgainstStartYear(t *testing.T) {
	f := newFixture(t)
	_, err := f.balances.Create(context.Background(), leave.Balance{UserID: "emp-1", LeaveTypeID: f.annual.ID, Year: 2025, Used: 20})
	require.NoError(t, err)

	_, err = f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeID: f.annual.ID,
		StartDate:   "2025-12-30",
		EndDate:     "2026-01-02",
	})
	assert.ErrorIs(t, err, leave.ErrBalanceExceeded)

	resp, err := f.requestService.Submit(context.Background(), f.employee, leave.SubmitRequest{
		LeaveTypeID: f.annual.ID,
		StartDate:   "2026-01-05",
		EndDate:     "2026-01-08",
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, resp.TotalDays)
}

func TestSubmit_RequiresRole(t *testing.T) {
	f := newFixture(t)
	roleless := authz.Subject{UserID: "emp-1", Roles: []string{"OWNER"}}
	_, err := f.requestService.Submit(context.Background(), roleless, leave.SubmitRequest{
		LeaveTypeID: f.annual.ID,
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-10",
	})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

// ===== STATUS TRANSITIONS =====

func TestApprove_ReservesDaysExactlyOnce(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2025-03-10", "2025-03-12")

	approved, err := f.setStatus(f.hr, req.ID, leave.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "hr-1", *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, 3.0, f.used(t, 2025))

	summary, err := f.balanceService.GetSummary(context.Background(), f.employee, "emp-1", 2025)
	require.NoError(t, err)
	assert.Equal(t, leave.SummaryEntry{Total: 21, Used: 3, Remaining: 18}, summary["annual"])

	_, err = f.setStatus(f.hr, req.ID, leave.StatusApproved)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestFinalized)
	assert.Equal(t, 3.0, f.used(t, 2025))

	_, err = f.setStatus(f.hr, req.ID, leave.StatusRejected, "too late")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestFinalized)

	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, notification.EventApproved, last.Event)
	require.Len(t, last.Recipients, 1)
	assert.Equal(t, "jane@example.com", last.Recipients[0].Email)
	assert.Equal(t, "Hana HR", last.Payload.ReviewerName)

	assert.Equal(t, profile.ActivityLeaveApproved, f.store.activities[len(f.store.activities)-1].ActivityType)
}

func TestApprove_ByManager(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2025-03-10", "2025-03-10")

	_, err := f.setStatus(f.manager, req.ID, leave.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.used(t, 2025))
}

func TestApprove_ExceedingBalanceRollsBack(t *testing.T) {
	f := newFixture(t)
	f.annual = f.store.addType("Compassionate", 5)
	first := f.submit(t, "2025-03-10", "2025-03-12")
	second := f.submit(t, "2025-04-10", "2025-04-12")
	activitiesBefore := len(f.store.activities)

	_, err := f.setStatus(f.hr, first.ID, leave.StatusApproved)
	require.NoError(t, err)

	_, err = f.setStatus(f.hr, second.ID, leave.StatusApproved)
	assert.ErrorIs(t, err, leave.ErrBalanceExceeded)

	got, err := f.requestService.Get(context.Background(), f.hr, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, 3.0, f.used(t, 2025))
	assert.Len(t, f.store.activities, activitiesBefore+1)
}

func TestReject_PendingLeavesBalanceUntouched(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2025-03-10", "2025-03-12")

	_, err := f.setStatus(f.hr, req.ID, leave.StatusRejected)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "rejection_reason")

	rejected, err := f.setStatus(f.hr, req.ID, leave.StatusRejected, "Peak season")
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "Peak season", *rejected.RejectionReason)
	require.NotNil(t, rejected.ApprovedBy)
	assert.Equal(t, "hr-1", *rejected.ApprovedBy)
	assert.NotNil(t, rejected.ApprovedAt)
	assert.Zero(t, f.used(t, 2025))

	_, err = f.setStatus(f.employee, req.ID, leave.StatusCancelled)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestFinalized)

	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, notification.EventRejected, last.Event)
	assert.Equal(t, "Peak season", last.Payload.RejectionReason)
}

func TestCancel_PendingByOwner(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2025-03-10", "2025-03-12")

	_, err := f.setStatus(f.other, req.ID, leave.StatusCancelled)
	assert.ErrorIs(t, err, authz.ErrForbidden)

	cancelled, err := f.setStatus(f.employee, req.ID, leave.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	require.NotNil(t, cancelled.ApprovedBy)
	assert.Equal(t, "emp-1", *cancelled.ApprovedBy)
	assert.NotNil(t, cancelled.ApprovedAt)
	assert.Zero(t, f.used(t, 2025))
	assert.Equal(t, 0, f.balances.locks)

	_, err = f.setStatus(f.employee, req.ID, leave.StatusCancelled)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestFinalized)
}

func TestCancel_ApprovedReleasesDays(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2025-03-10", "2025-03-12")
	_, err := f.setStatus(f.hr, req.ID, leave.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, 3.0, f.used(t, 2025))

	cancelled, err := f.setStatus(f.employee, req.ID, leave.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Zero(t, f.used(t, 2025))
	assert.Equal(t, profile.ActivityLeaveCancelled, f.store.activities[len(f.store.activities)-1].ActivityType)
}

func TestSetStatus_EmployeeCannotApprove(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2025-03-10", "2025-03-12")

	_, err := f.setStatus(f.employee, req.ID, leave.StatusApproved)
	assert.ErrorIs(t, err, authz.ErrForbidden)
	assert.Zero(t, f.used(t, 2025))
}

func TestSetStatus_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.setStatus(f.hr, "missing", leave.StatusApproved)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = f.setStatus(f.hr, "missing", leave.StatusPending)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

// ===== QUERIES =====

func TestGet_OwnerOrReviewer(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "2025-03-10", "2025-03-12")

	_, err := f.requestService.Get(context.Background(), f.employee, req.ID)
	assert.NoError(t, err)
	_, err = f.requestService.Get(context.Background(), f.hr, req.ID)
	assert.NoError(t, err)
	_, err = f.requestService.Get(context.Background(), f.other, req.ID)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestListPending_OldestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.submit(t, "2025-03-10", "2025-03-10")
	second := f.submit(t, "2025-04-10", "2025-04-10")

	pending, err := f.requestService.ListPending(context.Background(), f.hr)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)

	mine, err := f.requestService.ListMine(context.Background(), f.employee)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	_, err = f.requestService.ListPending(context.Background(), f.employee)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestListAll_FallsBackWhenJoinFails(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "2025-03-10", "2025-03-10")
	f.requests.failJoinedQuery = true

	all, err := f.requestService.ListAll(context.Background(), f.hr)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// ===== BALANCES =====

func TestEnsureInitialBalances_SeedsOneZeroedRowPerType(t *testing.T) {
	f := newFixture(t)
	f.store.addType("Sick", 10)

	require.NoError(t, f.balanceService.EnsureInitialBalances(context.Background(), "emp-1", 2025))
	require.NoError(t, f.balanceService.EnsureInitialBalances(context.Background(), "emp-1", 2025))

	rows, err := f.balances.ListByUserAndYear(context.Background(), "emp-1", 2025)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, b := range rows {
		assert.Zero(t, b.Carryover)
		assert.Zero(t, b.Used)
	}
}

func TestGetSummary_DefaultWhenNoRows(t *testing.T) {
	f := newFixture(t)

	summary, err := f.balanceService.GetSummary(context.Background(), f.employee, "emp-1", 2025)
	require.NoError(t, err)
	assert.Equal(t, leave.SummaryEntry{Total: 24, Used: 0, Remaining: 24}, summary["annual"])
	assert.Equal(t, leave.SummaryEntry{Total: 10, Used: 0, Remaining: 10}, summary["sick"])
	assert.Len(t, summary, 3)

	_, err = f.balanceService.GetSummary(context.Background(), f.other, "emp-1", 2025)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestGetDetailed(t *testing.T) {
	f := newFixture(t)

	_, err := f.balanceService.GetDetailed(context.Background(), f.employee, "emp-1")
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)

	require.NoError(t, f.balanceService.EnsureInitialBalances(context.Background(), "emp-1", 2024))
	require.NoError(t, f.balanceService.EnsureInitialBalances(context.Background(), "emp-1", 2025))

	rows, err := f.balanceService.GetDetailed(context.Background(), f.hr, "emp-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2025, rows[0].Year)
	assert.Equal(t, 21.0, rows[0].Remaining)
}

func TestAdjust_ReplacesValues(t *testing.T) {
	f := newFixture(t)
	created, err := f.balanceService.Create(context.Background(), f.hr, leave.CreateBalanceRequest{
		UserID:      "emp-1",
		LeaveTypeID: f.annual.ID,
		Year:        2025,
		Used:        4,
	})
	require.NoError(t, err)

	adjusted, err := f.balanceService.Adjust(context.Background(), f.hr, created.ID, leave.AdjustBalanceRequest{
		Year:      ptr(2025),
		Carryover: ptr(2.5),
		Used:      ptr(1.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, adjusted.Carryover)
	assert.Equal(t, 1.0, adjusted.Used)
	assert.Equal(t, 23.5, adjusted.Total)
	assert.Equal(t, 22.5, adjusted.Remaining)
}

func TestAdjust_Bounds(t *testing.T) {
	f := newFixture(t)
	created, err := f.balanceService.Create(context.Background(), f.hr, leave.CreateBalanceRequest{
		UserID: "emp-1", LeaveTypeID: f.annual.ID, Year: 2025,
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		req   leave.AdjustBalanceRequest
		field string
	}{
		{"used above total", leave.AdjustBalanceRequest{Year: ptr(2025), Carryover: ptr(1.0), Used: ptr(22.5)}, "used"},
		{"negative carryover", leave.AdjustBalanceRequest{Year: ptr(2025), Carryover: ptr(-1.0), Used: ptr(0.0)}, "carryover"},
		{"negative used", leave.AdjustBalanceRequest{Year: ptr(2025), Carryover: ptr(0.0), Used: ptr(-0.5)}, "used"},
		{"not a half day multiple", leave.AdjustBalanceRequest{Year: ptr(2025), Carryover: ptr(0.3), Used: ptr(0.0)}, "carryover"},
		{"missing year", leave.AdjustBalanceRequest{Carryover: ptr(0.0), Used: ptr(0.0)}, "year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.balanceService.Adjust(context.Background(), f.hr, created.ID, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}

	_, err = f.balanceService.Adjust(context.Background(), f.hr, "missing", leave.AdjustBalanceRequest{
		Year: ptr(2025), Carryover: ptr(0.0), Used: ptr(0.0),
	})
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)

	_, err = f.balanceService.Adjust(context.Background(), f.employee, created.ID, leave.AdjustBalanceRequest{
		Year: ptr(2025), Carryover: ptr(0.0), Used: ptr(0.0),
	})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestCreateBalance_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.balanceService.Create(context.Background(), f.hr, leave.CreateBalanceRequest{
		UserID: "ghost", LeaveTypeID: f.annual.ID, Year: 2025,
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = f.balanceService.Create(context.Background(), f.hr, leave.CreateBalanceRequest{
		UserID: "emp-1", LeaveTypeID: "ghost", Year: 2025,
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	req := leave.CreateBalanceRequest{UserID: "emp-1", LeaveTypeID: f.annual.ID, Year: 2025}
	_, err = f.balanceService.Create(context.Background(), f.hr, req)
	require.NoError(t, err)
	_, err = f.balanceService.Create(context.Background(), f.hr, req)
	assert.ErrorIs(t, err, leave.ErrBalanceExists)
}

func TestReleaseNeverGoesNegative(t *testing.T) {
	f := newFixture(t)

	b, err := f.balanceService.Reserve(context.Background(), "emp-1", f.annual.ID, 2025, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.Used)

	b, err = f.balanceService.Release(context.Background(), "emp-1", f.annual.ID, 2025, 5)
	require.NoError(t, err)
	assert.Zero(t, b.Used)
}

// ===== LEAVE TYPES =====

func TestTypeService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.typeService.Create(ctx, f.employee, leave.CreateLeaveTypeRequest{Name: "Study", MaxDays: ptr(5)})
	assert.ErrorIs(t, err, authz.ErrForbidden)

	_, err = f.typeService.Create(ctx, f.hr, leave.CreateLeaveTypeRequest{Name: "Study", MaxDays: ptr(-1)})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	study, err := f.typeService.Create(ctx, f.hr, leave.CreateLeaveTypeRequest{Name: "Study", MaxDays: ptr(5)})
	require.NoError(t, err)

	_, err = f.typeService.Create(ctx, f.hr, leave.CreateLeaveTypeRequest{Name: "study", MaxDays: ptr(3)})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	updated, err := f.typeService.Update(ctx, f.hr, study.ID, leave.UpdateLeaveTypeRequest{MaxDays: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.MaxDays)
	assert.Equal(t, "Study", updated.Name)

	list, err := f.typeService.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Annual", list[0].Name)

	assert.NoError(t, f.typeService.Delete(ctx, f.hr, study.ID))
	assert.ErrorIs(t, f.typeService.Delete(ctx, f.hr, study.ID), leave.ErrLeaveTypeNotFound)

	_, err = f.typeService.Get(ctx, study.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestTypeService_DeleteRestrictedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	f.submit(t, "2025-03-10", "2025-03-10")

	err := f.typeService.Delete(context.Background(), f.hr, f.annual.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInUse)
}
