package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

// RequireAnyRole rejects callers holding none of roles. Services still run their own
// capability check; this only short-circuits whole route groups.
func RequireAnyRole(roles ...user.Role) func(http.Handler) http.Handler {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, ok := SubjectFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, r, "Unauthorized")
				return
			}

			if !hasAnyRole(sub, roles) {
				response.HandleError(w, r, fmt.Errorf("%w: requires one of %s", authz.ErrForbidden, strings.Join(names, ", ")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasAnyRole(sub authz.Subject, roles []user.Role) bool {
	for _, held := range sub.Roles {
		role, ok := user.ParseRole(held)
		if !ok {
			continue
		}
		for _, want := range roles {
			if role == want {
				return true
			}
		}
	}
	return false
}
