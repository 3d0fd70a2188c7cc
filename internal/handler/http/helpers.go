package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type validatable interface {
	Validate() error
}

// decodeRequest decodes the JSON body into dst and validates it, writing the
// error response itself. It reports whether the handler may continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, op string, dst validatable) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, r, "Invalid request format", nil)
		return false
	}
	if err := dst.Validate(); err != nil {
		response.HandleError(w, r, err)
		return false
	}
	return true
}

// actor returns the authenticated caller, answering 401 when there is none.
func actor(w http.ResponseWriter, r *http.Request) (authz.Subject, bool) {
	sub, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, r, "Unauthorized")
		return authz.Subject{}, false
	}
	return sub, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) (int, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, true
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return intVal, true
}
