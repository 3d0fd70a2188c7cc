package http

import (
	"net/http"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns organisation-wide figures
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetEmployeeDashboard returns the caller's own overview
	GetEmployeeDashboard(w http.ResponseWriter, r *http.Request)
	// ListHolidays returns configured public holidays
	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	holidayService   holiday.HolidayService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, holidayService holiday.HolidayService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		holidayService:   holidayService,
	}
}

// GetDashboard handles GET /dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeeDashboard handles GET /dashboard/me
func (h *dashboardHandlerImpl) GetEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetEmployeeDashboard(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// ListHolidays handles GET /holidays
func (h *dashboardHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, ok := getIntQueryParam(r, "year", 0) // 0 lists every configured holiday
	if !ok {
		response.BadRequest(w, r, "year must be a number", nil)
		return
	}

	result, err := h.holidayService.List(r.Context(), year)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}
