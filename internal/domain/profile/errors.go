package profile

import "errors"

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileExists       = errors.New("user already has a profile")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrPerformanceNotFound = errors.New("performance review not found")
)
