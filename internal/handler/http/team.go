package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/team"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TeamHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type teamHandlerImpl struct {
	teamService team.TeamService
}

func NewTeamHandler(teamService team.TeamService) TeamHandler {
	return &teamHandlerImpl{teamService: teamService}
}

// Create handles POST /teams
func (h *teamHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req team.CreateTeamRequest
	if !decodeRequest(w, r, "CreateTeam", &req) {
		return
	}

	result, err := h.teamService.Create(r.Context(), sub, req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Team created successfully", result)
}

// List handles GET /teams
func (h *teamHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.teamService.List(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /teams/{id}
func (h *teamHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.teamService.Get(r.Context(), sub, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Update handles PATCH /teams/{id}
func (h *teamHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req team.UpdateTeamRequest
	if !decodeRequest(w, r, "UpdateTeam", &req) {
		return
	}

	result, err := h.teamService.Update(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Team updated successfully", result)
}

// Delete handles DELETE /teams/{id}
func (h *teamHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.teamService.Delete(r.Context(), sub, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Team deleted successfully", nil)
}
