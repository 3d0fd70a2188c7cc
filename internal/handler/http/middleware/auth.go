package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type ctxKey int

const subjectKey ctxKey = iota

// AuthRequired accepts only access tokens and stores the caller as an authz.Subject.
// It must run after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, r, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, r, auth.ErrInvalidToken)
				return
			}

			sub, ok := subjectFromClaims(claims)
			if !ok {
				response.HandleError(w, r, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		}
		return http.HandlerFunc(hfn)
	}
}

func subjectFromClaims(claims map[string]interface{}) (authz.Subject, bool) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return authz.Subject{}, false
	}
	email, _ := claims["email"].(string)

	var roles []string
	switch v := claims["roles"].(type) {
	case []string:
		roles = v
	case []interface{}:
		for _, role := range v {
			if s, ok := role.(string); ok {
				roles = append(roles, s)
			}
		}
	}

	return authz.Subject{UserID: userID, Email: email, Roles: roles}, true
}

// WithSubject stores the authenticated caller on ctx.
func WithSubject(ctx context.Context, sub authz.Subject) context.Context {
	return context.WithValue(ctx, subjectKey, sub)
}

// SubjectFromContext returns the caller stored by AuthRequired.
func SubjectFromContext(ctx context.Context) (authz.Subject, bool) {
	sub, ok := ctx.Value(subjectKey).(authz.Subject)
	return sub, ok
}
