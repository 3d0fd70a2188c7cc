package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	DeleteType(w http.ResponseWriter, r *http.Request)

	GetMySummary(w http.ResponseWriter, r *http.Request)
	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetUserBalances(w http.ResponseWriter, r *http.Request)
	CreateBalance(w http.ResponseWriter, r *http.Request)
	AdjustBalance(w http.ResponseWriter, r *http.Request)

	SubmitRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListPendingRequests(w http.ResponseWriter, r *http.Request)
	ListAllRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	SetRequestStatus(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	typeService    leave.TypeService
	balanceService leave.BalanceService
	requestService leave.RequestService
}

func NewLeaveHandler(typeService leave.TypeService, balanceService leave.BalanceService, requestService leave.RequestService) LeaveHandler {
	return &LeaveHandlerImpl{
		typeService:    typeService,
		balanceService: balanceService,
		requestService: requestService,
	}
}

// ========== LEAVE TYPE ==========

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req leave.CreateLeaveTypeRequest
	if !decodeRequest(w, r, "CreateType", &req) {
		return
	}

	leaveType, err := l.typeService.Create(r.Context(), sub, req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Leave type created successfully", leaveType)
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	leaveTypes, err := l.typeService.List(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, leaveTypes)
}

// GetType implements LeaveHandler.
func (l *LeaveHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	leaveType, err := l.typeService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, leaveType)
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req leave.UpdateLeaveTypeRequest
	if !decodeRequest(w, r, "UpdateType", &req) {
		return
	}

	leaveType, err := l.typeService.Update(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", leaveType)
}

// DeleteType implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteType(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	if err := l.typeService.Delete(r.Context(), sub, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type deleted successfully", nil)
}

// ========== BALANCE ==========

// GetMySummary implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMySummary(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	year, ok := getIntQueryParam(r, "year", time.Now().Year())
	if !ok {
		response.BadRequest(w, r, "year must be a number", nil)
		return
	}

	summary, err := l.balanceService.GetSummary(r.Context(), sub, sub.UserID, year)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, summary)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	balances, err := l.balanceService.GetDetailed(r.Context(), sub, sub.UserID)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, balances)
}

// GetUserBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetUserBalances(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	balances, err := l.balanceService.GetDetailed(r.Context(), sub, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, balances)
}

// CreateBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateBalance(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req leave.CreateBalanceRequest
	if !decodeRequest(w, r, "CreateBalance", &req) {
		return
	}

	balance, err := l.balanceService.Create(r.Context(), sub, req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Leave balance created successfully", balance)
}

// AdjustBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req leave.AdjustBalanceRequest
	if !decodeRequest(w, r, "AdjustBalance", &req) {
		return
	}

	balance, err := l.balanceService.Adjust(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	slog.Info("Leave balance adjusted", "balance_id", balance.ID, "actor", sub.UserID)
	response.SuccessWithMessage(w, "Leave balance adjusted successfully", balance)
}

// ========== REQUEST ==========

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req leave.SubmitRequest
	if !decodeRequest(w, r, "SubmitRequest", &req) {
		return
	}

	leaveRequest, err := l.requestService.Submit(r.Context(), sub, req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leaveRequest)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	requests, err := l.requestService.ListMine(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, requests)
}

// ListPendingRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	requests, err := l.requestService.ListPending(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, requests)
}

// ListAllRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListAllRequests(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	requests, err := l.requestService.ListAll(r.Context(), sub)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, requests)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	leaveRequest, err := l.requestService.Get(r.Context(), sub, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, leaveRequest)
}

// SetRequestStatus implements LeaveHandler.
func (l *LeaveHandlerImpl) SetRequestStatus(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}
	var req leave.UpdateStatusRequest
	if !decodeRequest(w, r, "SetRequestStatus", &req) {
		return
	}

	leaveRequest, err := l.requestService.SetStatus(r.Context(), sub, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	slog.Info("Leave request status changed", "request_id", leaveRequest.ID, "status", leaveRequest.Status, "actor", sub.UserID)
	response.SuccessWithMessage(w, "Leave request updated successfully", leaveRequest)
}
