// Package authz answers the single capability question can(subject, action, resource)
// from an embedded casbin model and policy.
package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText string

// ErrForbidden is returned by services when a capability check fails.
var ErrForbidden = errors.New("insufficient permissions")

// ownerRole is granted implicitly when the subject owns the resource.
const ownerRole = "OWNER"

type Action string

const (
	ActionRead    Action = "read"
	ActionList    Action = "list"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionAdjust  Action = "adjust"
	ActionReview  Action = "review"
)

type Kind string

const (
	KindLeaveType    Kind = "leave_type"
	KindLeaveBalance Kind = "leave_balance"
	KindLeaveRequest Kind = "leave_request"
	KindTeam         Kind = "team"
	KindUser         Kind = "user"
	KindProfile      Kind = "profile"
	KindDashboard    Kind = "dashboard"
)

// Subject is the authenticated caller.
type Subject struct {
	UserID string
	Email  string
	Roles  []string
}

// Resource identifies what is acted upon. OwnerID is empty for collections.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// Of builds a resource owned by ownerID.
func Of(kind Kind, ownerID string) Resource {
	return Resource{Kind: kind, OwnerID: ownerID}
}

// Collection builds an unowned resource.
func Collection(kind Kind) Resource {
	return Resource{Kind: kind}
}

type Authorizer interface {
	Can(sub Subject, act Action, res Resource) bool
	// Require returns ErrForbidden when Can is false.
	Require(sub Subject, act Action, res Resource) error
}

type casbinAuthorizer struct {
	enforcer *casbin.Enforcer
}

// New builds an Authorizer from the embedded model and policy.
func New() (Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authz model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(policyText))
	if err != nil {
		return nil, fmt.Errorf("failed to create authz enforcer: %w", err)
	}
	return &casbinAuthorizer{enforcer: enforcer}, nil
}

// Can implements Authorizer.
func (a *casbinAuthorizer) Can(sub Subject, act Action, res Resource) bool {
	if sub.UserID == "" {
		return false
	}
	roles := make([]string, 0, len(sub.Roles)+1)
	for _, role := range sub.Roles {
		if role != ownerRole {
			roles = append(roles, role)
		}
	}
	if res.OwnerID != "" && res.OwnerID == sub.UserID {
		roles = append(roles, ownerRole)
	}
	for _, role := range roles {
		ok, err := a.enforcer.Enforce(role, string(res.Kind), string(act))
		if err != nil {
			slog.Error("authz enforce failed", "role", role, "kind", res.Kind, "action", act, "error", err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// Require implements Authorizer.
func (a *casbinAuthorizer) Require(sub Subject, act Action, res Resource) error {
	if !a.Can(sub, act, res) {
		return fmt.Errorf("%w: %s on %s", ErrForbidden, act, res.Kind)
	}
	return nil
}
