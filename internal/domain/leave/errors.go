package leave

import "errors"

var (
	// Leave type errors
	ErrLeaveTypeNotFound   = errors.New("leave type not found")
	ErrLeaveTypeNameExists = errors.New("leave type name already exists")
	ErrLeaveTypeInUse      = errors.New("leave type is referenced by balances or requests")

	// Balance errors
	ErrBalanceNotFound = errors.New("leave balance not found")
	ErrBalanceExists   = errors.New("leave balance already exists for this user, type and year")
	ErrBalanceExceeded = errors.New("requested days exceed remaining balance")

	// Request errors
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveRequestFinalized = errors.New("leave request already finalized")
	ErrOverlappingRequest    = errors.New("leave request overlaps an existing request")
)
