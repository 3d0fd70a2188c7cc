package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserEmailExists    = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already taken")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrCannotModifySelf   = errors.New("cannot change own roles, status or account")
	ErrTeamNotFound       = errors.New("team not found")
	ErrInvalidRoleSet     = errors.New("at least one valid role is required")
	ErrUserHasLeaveRecord = errors.New("user still has leave records")
)
