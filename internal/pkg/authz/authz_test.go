package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthorizer(t *testing.T) Authorizer {
	t.Helper()
	a, err := New()
	require.NoError(t, err)
	return a
}

func TestCan_RoleCapabilities(t *testing.T) {
	a := newTestAuthorizer(t)

	employee := Subject{UserID: "u-emp", Roles: []string{"EMPLOYEE"}}
	hr := Subject{UserID: "u-hr", Roles: []string{"HR"}}
	manager := Subject{UserID: "u-mgr", Roles: []string{"MANAGER"}}
	admin := Subject{UserID: "u-admin", Roles: []string{"ADMIN"}}

	cases := []struct {
		name string
		sub  Subject
		act  Action
		res  Resource
		want bool
	}{
		{"employee submits", employee, ActionSubmit, Collection(KindLeaveRequest), true},
		{"employee cannot approve", employee, ActionApprove, Of(KindLeaveRequest, "someone"), false},
		{"employee cannot create leave type", employee, ActionCreate, Collection(KindLeaveType), false},
		{"employee reads leave types", employee, ActionRead, Collection(KindLeaveType), true},
		{"hr approves", hr, ActionApprove, Of(KindLeaveRequest, "u-emp"), true},
		{"hr adjusts balance", hr, ActionAdjust, Of(KindLeaveBalance, "u-emp"), true},
		{"manager approves", manager, ActionApprove, Of(KindLeaveRequest, "u-emp"), true},
		{"manager cannot adjust", manager, ActionAdjust, Of(KindLeaveBalance, "u-emp"), false},
		{"manager cannot cancel others", manager, ActionCancel, Of(KindLeaveRequest, "u-emp"), false},
		{"admin deletes users", admin, ActionDelete, Of(KindUser, "u-emp"), true},
		{"hr cannot delete users", hr, ActionDelete, Of(KindUser, "u-emp"), false},
		{"employee cannot read dashboard", employee, ActionRead, Collection(KindDashboard), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.Can(tc.sub, tc.act, tc.res))
		})
	}
}

func TestCan_OwnerCapabilities(t *testing.T) {
	a := newTestAuthorizer(t)
	employee := Subject{UserID: "u-emp", Roles: []string{"EMPLOYEE"}}

	assert.True(t, a.Can(employee, ActionCancel, Of(KindLeaveRequest, "u-emp")))
	assert.True(t, a.Can(employee, ActionRead, Of(KindLeaveBalance, "u-emp")))
	assert.False(t, a.Can(employee, ActionRead, Of(KindLeaveBalance, "u-other")))
	assert.False(t, a.Can(employee, ActionApprove, Of(KindLeaveRequest, "u-emp")))
	assert.True(t, a.Can(employee, ActionUpdate, Of(KindProfile, "u-emp")))
	assert.False(t, a.Can(employee, ActionCreate, Of(KindProfile, "u-emp")))
}

func TestCan_MultipleRolesAndAnonymous(t *testing.T) {
	a := newTestAuthorizer(t)

	both := Subject{UserID: "u1", Roles: []string{"EMPLOYEE", "HR"}}
	assert.True(t, a.Can(both, ActionCreate, Collection(KindLeaveType)))

	assert.False(t, a.Can(Subject{Roles: []string{"ADMIN"}}, ActionRead, Collection(KindLeaveType)))
	assert.False(t, a.Can(Subject{UserID: "u2", Roles: []string{"OWNER"}}, ActionCancel, Of(KindLeaveRequest, "u3")))
}

func TestRequire(t *testing.T) {
	a := newTestAuthorizer(t)
	employee := Subject{UserID: "u-emp", Roles: []string{"EMPLOYEE"}}

	assert.NoError(t, a.Require(employee, ActionSubmit, Collection(KindLeaveRequest)))

	err := a.Require(employee, ActionDelete, Collection(KindTeam))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))
}
