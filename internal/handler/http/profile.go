package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProfileHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMine(w http.ResponseWriter, r *http.Request)
	GetByUser(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	AddPerformanceReview(w http.ResponseWriter, r *http.Request)
	ListPerformanceReviews(w http.ResponseWriter, r *http.Request)
	ListMyActivities(w http.ResponseWriter, r *http.Request)
}

type profileHandlerImpl struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) ProfileHandler {
	return &profileHandlerImpl{profileService: profileService}
}

// Create handles POST /profiles
func (h *profileHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req profile.CreateProfileRequest
	if !decodeRequest(w, r, "CreateProfile", &req) {
		return
	}

	result, err := h.profileService.Create(r.Context(), sub, req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Profile created successfully", result)
}

// List handles GET /profiles
func (h *profileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.profileService.List(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// GetMine handles GET /profiles/me
func (h *profileHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.profileService.GetMine(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// GetByUser handles GET /profiles/user/{userId}
func (h *profileHandlerImpl) GetByUser(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.profileService.GetByUser(r.Context(), sub, chi.URLParam(r, "userId"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Update handles PATCH /profiles/{id}
func (h *profileHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req profile.UpdateProfileRequest
	if !decodeRequest(w, r, "UpdateProfile", &req) {
		return
	}

	result, err := h.profileService.Update(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", result)
}

// AddPerformanceReview handles POST /profiles/{id}/performance
func (h *profileHandlerImpl) AddPerformanceReview(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req profile.CreatePerformanceRequest
	if !decodeRequest(w, r, "AddPerformanceReview", &req) {
		return
	}

	result, err := h.profileService.AddPerformanceReview(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Performance review added successfully", result)
}

// ListPerformanceReviews handles GET /profiles/{id}/performance
func (h *profileHandlerImpl) ListPerformanceReviews(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.profileService.ListPerformanceReviews(r.Context(), sub, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// ListMyActivities handles GET /activities/me
func (h *profileHandlerImpl) ListMyActivities(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	limit, ok := getIntQueryParam(r, "limit", 0)
	if !ok {
		response.BadRequest(w, r, "limit must be a number", nil)
		return
	}

	result, err := h.profileService.ListMyActivities(r.Context(), sub, limit)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}
