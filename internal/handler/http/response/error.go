package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/team"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, r, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrOAuthEmailUnverified):
		Unauthorized(w, r, err.Error())
	case errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, user.ErrUserInactive):
		Forbidden(w, r, err.Error())
	case errors.Is(err, auth.ErrEmailAlreadyExists),
		errors.Is(err, auth.ErrUsernameTaken):
		Conflict(w, r, err.Error())
	case errors.Is(err, auth.ErrOAuthDisabled):
		NotFound(w, r, err.Error())

	// Capability
	case errors.Is(err, authz.ErrForbidden):
		Forbidden(w, r, err.Error())

	// User and team
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrTeamNotFound),
		errors.Is(err, team.ErrTeamNotFound):
		NotFound(w, r, err.Error())
	case errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, user.ErrUsernameExists),
		errors.Is(err, user.ErrUserHasLeaveRecord),
		errors.Is(err, team.ErrTeamNameExists),
		errors.Is(err, team.ErrTeamInUse):
		Conflict(w, r, err.Error())
	case errors.Is(err, user.ErrCannotModifySelf),
		errors.Is(err, user.ErrInvalidRoleSet):
		BadRequest(w, r, err.Error(), nil)

	// Leave
	case errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrBalanceNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, r, err.Error())
	case errors.Is(err, leave.ErrLeaveTypeNameExists),
		errors.Is(err, leave.ErrLeaveTypeInUse),
		errors.Is(err, leave.ErrBalanceExists),
		errors.Is(err, leave.ErrBalanceExceeded),
		errors.Is(err, leave.ErrLeaveRequestFinalized),
		errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, r, err.Error())

	// Profile
	case errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, profile.ErrPerformanceNotFound):
		NotFound(w, r, err.Error())
	case errors.Is(err, profile.ErrProfileExists),
		errors.Is(err, profile.ErrEmployeeCodeExists):
		Conflict(w, r, err.Error())

	default:
		path := ""
		if r != nil {
			path = r.URL.Path
		}
		slog.Error("unhandled error", "path", path, "error", err)
		InternalServerError(w, r, "An unexpected error occurred")
	}
}
