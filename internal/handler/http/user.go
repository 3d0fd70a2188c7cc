package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateRoles(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	UpdateTeam(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

func parseListUsersFilter(r *http.Request) (user.ListUsersFilter, map[string]string) {
	q := r.URL.Query()
	filter := user.ListUsersFilter{
		Search: q.Get("search"),
		Role:   q.Get("role"),
	}
	invalid := make(map[string]string)

	if page, ok := getIntQueryParam(r, "page", 1); ok {
		filter.Page = page
	} else {
		invalid["page"] = "page must be a number"
	}
	if limit, ok := getIntQueryParam(r, "limit", 20); ok {
		filter.Limit = limit
	} else {
		invalid["limit"] = "limit must be a number"
	}
	if raw := q.Get("has_profile"); raw != "" {
		hasProfile, err := strconv.ParseBool(raw)
		if err != nil {
			invalid["has_profile"] = "has_profile must be true or false"
		} else {
			filter.HasProfile = &hasProfile
		}
	}

	return filter, invalid
}

// List handles GET /users
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	filter, invalid := parseListUsersFilter(r)
	if len(invalid) > 0 {
		response.BadRequest(w, r, "Invalid query parameters", invalid)
		return
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.userService.List(r.Context(), sub, filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result.Users, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// Stats handles GET /users/stats
func (h *userHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.userService.Stats(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /users/{id}
func (h *userHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.userService.Get(r.Context(), sub, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// UpdateRoles handles PATCH /users/{id}/roles
func (h *userHandlerImpl) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req user.UpdateRolesRequest
	if !decodeRequest(w, r, "UpdateRoles", &req) {
		return
	}

	result, err := h.userService.UpdateRoles(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "User roles updated successfully", result)
}

// UpdateStatus handles PATCH /users/{id}/status
func (h *userHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req user.UpdateStatusRequest
	if !decodeRequest(w, r, "UpdateStatus", &req) {
		return
	}

	result, err := h.userService.UpdateStatus(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "User status updated successfully", result)
}

// UpdateTeam handles PATCH /users/{id}/team
func (h *userHandlerImpl) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req user.UpdateTeamRequest
	if !decodeRequest(w, r, "UpdateTeam", &req) {
		return
	}

	result, err := h.userService.UpdateTeam(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "User team updated successfully", result)
}

// Delete handles DELETE /users/{id}
func (h *userHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), sub, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "User deleted successfully", nil)
}
