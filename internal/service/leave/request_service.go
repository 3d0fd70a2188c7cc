package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/profile"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/authz"
)

type RequestServiceImpl struct {
	leave.RequestRepository
	leave.LeaveTypeRepository
	user.UserRepository
	activities profile.ActivityRepository
	balances   leave.BalanceService
	tx         leave.Transactor
	notifier   notification.Notifier
	authz      authz.Authorizer
	now        func() time.Time
}

func NewRequestService(
	requestRepository leave.RequestRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
	userRepository user.UserRepository,
	activityRepository profile.ActivityRepository,
	balanceService leave.BalanceService,
	transactor leave.Transactor,
	notifier notification.Notifier,
	authorizer authz.Authorizer,
) leave.RequestService {
	return &RequestServiceImpl{
		RequestRepository:   requestRepository,
		LeaveTypeRepository: leaveTypeRepository,
		UserRepository:      userRepository,
		activities:          activityRepository,
		balances:            balanceService,
		tx:                  transactor,
		notifier:            notifier,
		authz:               authorizer,
		now:                 time.Now,
	}
}

// Submit implements leave.RequestService.
func (s *RequestServiceImpl) Submit(ctx context.Context, actor authz.Subject, req leave.SubmitRequest) (leave.RequestResponse, error) {
	if err := s.authz.Require(actor, authz.ActionSubmit, authz.Of(authz.KindLeaveRequest, actor.UserID)); err != nil {
		return leave.RequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	leaveType, err := s.resolveLeaveType(ctx, req)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	employee, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to get requesting user: %w", err)
	}

	start, end := req.Dates()
	totalDays := leave.CalculateTotalDays(start, end, req.IsHalfDay)

	overlap, err := s.RequestRepository.HasOverlap(ctx, actor.UserID, start, end)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if overlap {
		return leave.RequestResponse{}, leave.ErrOverlappingRequest
	}

	remaining, err := s.balances.Remaining(ctx, actor.UserID, leaveType.ID, start.Year())
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if totalDays > remaining {
		return leave.RequestResponse{}, leave.ErrBalanceExceeded
	}

	var created leave.Request
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.RequestRepository.Create(ctx, leave.Request{
			UserID:           actor.UserID,
			LeaveTypeID:      leaveType.ID,
			StartDate:        start,
			EndDate:          end,
			TotalDays:        totalDays,
			IsHalfDay:        req.IsHalfDay,
			Reason:           strings.TrimSpace(req.Reason),
			Status:           leave.StatusPending,
			ManagerEmail:     trimmedOrNil(req.ManagerEmail),
			EmergencyContact: trimmedOrNil(req.EmergencyContact),
			LeaveTypeName:    &leaveType.Name,
		})
		if err != nil {
			return err
		}
		created = r

		_, err = s.activities.Append(ctx, profile.Activity{
			UserID:       actor.UserID,
			ActivityType: profile.ActivityLeaveApplied,
			Description: fmt.Sprintf("Applied for %s day(s) of %s leave (%s to %s)",
				formatDays(totalDays), leaveType.Name, created.StartDate.Format("2006-01-02"), created.EndDate.Format("2006-01-02")),
		})
		if err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	created.UserFullname = &employee.Fullname
	created.UserEmail = &employee.Email

	slog.Info("leave request submitted",
		"request_id", created.ID,
		"user_id", actor.UserID,
		"leave_type", leaveType.Name,
		"total_days", totalDays,
	)

	s.notifier.Notify(ctx, notification.EventSubmitted, buildPayload(created, employee, ""), s.reviewerRecipients(ctx, created.ManagerEmail))

	return created.ToResponse(), nil
}

// SetStatus implements leave.RequestService.
func (s *RequestServiceImpl) SetStatus(ctx context.Context, actor authz.Subject, id string, req leave.UpdateStatusRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}
	next := leave.RequestStatus(req.Status)
	action := statusAction(next)

	var updated leave.Request
	var previous leave.RequestStatus
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.RequestRepository.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authz.Require(actor, action, authz.Of(authz.KindLeaveRequest, current.UserID)); err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(next) {
			return leave.ErrLeaveRequestFinalized
		}
		previous = current.Status

		switch {
		case next == leave.StatusApproved:
			if _, err := s.balances.Reserve(ctx, current.UserID, current.LeaveTypeID, current.Year(), current.TotalDays); err != nil {
				return err
			}
		case previous == leave.StatusApproved && next == leave.StatusCancelled:
			if _, err := s.balances.Release(ctx, current.UserID, current.LeaveTypeID, current.Year(), current.TotalDays); err != nil {
				return err
			}
		case next == leave.StatusRejected:
			reason := strings.TrimSpace(*req.RejectionReason)
			current.RejectionReason = &reason
		}
		// recorded for every decision, not only approvals
		reviewedAt := s.now()
		reviewerID := actor.UserID
		current.Status = next
		current.ApprovedBy = &reviewerID
		current.ApprovedAt = &reviewedAt

		r, err := s.RequestRepository.UpdateStatus(ctx, current)
		if err != nil {
			return err
		}
		updated = r

		_, err = s.activities.Append(ctx, profile.Activity{
			UserID:       current.UserID,
			ActivityType: statusActivity(next),
			Description:  statusDescription(updated),
		})
		if err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	slog.Info("leave request status changed",
		"request_id", updated.ID,
		"from", previous,
		"to", updated.Status,
		"actor_id", actor.UserID,
	)

	s.notifyEmployee(ctx, actor, updated)

	return updated.ToResponse(), nil
}

// Get implements leave.RequestService.
func (s *RequestServiceImpl) Get(ctx context.Context, actor authz.Subject, id string) (leave.RequestResponse, error) {
	r, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if err := s.authz.Require(actor, authz.ActionRead, authz.Of(authz.KindLeaveRequest, r.UserID)); err != nil {
		return leave.RequestResponse{}, err
	}
	return r.ToResponse(), nil
}

// ListMine implements leave.RequestService.
func (s *RequestServiceImpl) ListMine(ctx context.Context, actor authz.Subject) ([]leave.RequestResponse, error) {
	requests, err := s.RequestRepository.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// ListPending implements leave.RequestService.
func (s *RequestServiceImpl) ListPending(ctx context.Context, actor authz.Subject) ([]leave.RequestResponse, error) {
	if err := s.authz.Require(actor, authz.ActionList, authz.Collection(authz.KindLeaveRequest)); err != nil {
		return nil, err
	}
	requests, err := s.RequestRepository.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// ListAll implements leave.RequestService. When the joined listing fails the
// plain listing is returned so reviewers still see every request.
func (s *RequestServiceImpl) ListAll(ctx context.Context, actor authz.Subject) ([]leave.RequestResponse, error) {
	if err := s.authz.Require(actor, authz.ActionList, authz.Collection(authz.KindLeaveRequest)); err != nil {
		return nil, err
	}

	requests, err := s.RequestRepository.ListAllWithRelations(ctx)
	if err != nil {
		slog.Warn("joined leave request listing failed, falling back to plain listing", "error", err)
		requests, err = s.RequestRepository.ListAll(ctx)
		if err != nil {
			return nil, err
		}
	}
	return toResponses(requests), nil
}

func (s *RequestServiceImpl) resolveLeaveType(ctx context.Context, req leave.SubmitRequest) (leave.LeaveType, error) {
	if strings.TrimSpace(req.LeaveTypeID) != "" {
		return s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	}
	return s.LeaveTypeRepository.GetByName(ctx, strings.TrimSpace(req.LeaveTypeName))
}

// reviewerRecipients lists active HR and ADMIN users plus the manager address given on submission.
func (s *RequestServiceImpl) reviewerRecipients(ctx context.Context, managerEmail *string) []notification.Recipient {
	reviewers, err := s.UserRepository.ListActiveByRoles(ctx, []user.Role{user.RoleHR, user.RoleAdmin})
	if err != nil {
		slog.Error("failed to load reviewers for notification", "error", err)
	}

	seen := make(map[string]bool)
	recipients := make([]notification.Recipient, 0, len(reviewers)+1)
	for _, r := range reviewers {
		key := strings.ToLower(r.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		recipients = append(recipients, notification.Recipient{UserID: r.ID, Email: r.Email, Name: r.DisplayName()})
	}
	if managerEmail != nil && !seen[strings.ToLower(*managerEmail)] {
		recipients = append(recipients, notification.Recipient{Email: *managerEmail, Name: "Manager"})
	}
	return recipients
}

func (s *RequestServiceImpl) notifyEmployee(ctx context.Context, actor authz.Subject, r leave.Request) {
	employee, err := s.UserRepository.GetByID(ctx, r.UserID)
	if err != nil {
		slog.Error("failed to load employee for notification", "request_id", r.ID, "error", err)
		return
	}

	reviewerName := actor.Email
	if reviewer, err := s.UserRepository.GetByID(ctx, actor.UserID); err == nil {
		reviewerName = reviewer.DisplayName()
	}

	recipients := []notification.Recipient{{UserID: employee.ID, Email: employee.Email, Name: employee.DisplayName()}}
	s.notifier.Notify(ctx, statusEvent(r.Status), buildPayload(r, employee, reviewerName), recipients)
}

func buildPayload(r leave.Request, employee user.User, reviewerName string) notification.LeavePayload {
	p := notification.LeavePayload{
		RequestID:     r.ID,
		EmployeeID:    employee.ID,
		EmployeeName:  employee.DisplayName(),
		EmployeeEmail: employee.Email,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		TotalDays:     r.TotalDays,
		Reason:        r.Reason,
		Status:        string(r.Status),
		ReviewerName:  reviewerName,
	}
	if r.LeaveTypeName != nil {
		p.LeaveType = *r.LeaveTypeName
	}
	if r.RejectionReason != nil {
		p.RejectionReason = *r.RejectionReason
	}
	return p
}

func statusAction(status leave.RequestStatus) authz.Action {
	switch status {
	case leave.StatusApproved:
		return authz.ActionApprove
	case leave.StatusRejected:
		return authz.ActionReject
	default:
		return authz.ActionCancel
	}
}

func statusActivity(status leave.RequestStatus) profile.ActivityType {
	switch status {
	case leave.StatusApproved:
		return profile.ActivityLeaveApproved
	case leave.StatusRejected:
		return profile.ActivityLeaveRejected
	default:
		return profile.ActivityLeaveCancelled
	}
}

func statusEvent(status leave.RequestStatus) notification.Event {
	switch status {
	case leave.StatusApproved:
		return notification.EventApproved
	case leave.StatusRejected:
		return notification.EventRejected
	default:
		return notification.EventCancelled
	}
}

func statusDescription(r leave.Request) string {
	typeName := "leave"
	if r.LeaveTypeName != nil {
		typeName = *r.LeaveTypeName + " leave"
	}
	desc := fmt.Sprintf("%s request for %s day(s) %s", typeName, formatDays(r.TotalDays), strings.ToLower(string(r.Status)))
	if r.RejectionReason != nil && r.Status == leave.StatusRejected {
		desc += ": " + *r.RejectionReason
	}
	return strings.ToUpper(desc[:1]) + desc[1:]
}

func formatDays(days float64) string {
	return strconv.FormatFloat(days, 'f', -1, 64)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toResponses(requests []leave.Request) []leave.RequestResponse {
	resp := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, r.ToResponse())
	}
	return resp
}
