package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg, "Leave Management")
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.backoff = func(int) time.Duration { return 0 }
	return impl
}

var payload = notification.LeavePayload{
	RequestID:     "req-1",
	EmployeeName:  "Jane Doe",
	EmployeeEmail: "jane@example.com",
	LeaveType:     "Annual",
	StartDate:     "2025-03-10",
	EndDate:       "2025-03-12",
	TotalDays:     3,
	Reason:        "Family <trip>",
}

func TestRenderSubmitted(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{})

	subject, body, err := svc.renderSubmitted("Hana", payload)
	require.NoError(t, err)
	assert.Equal(t, "New Leave Request - Jane Doe", subject)
	assert.Contains(t, body, "Hello Hana")
	assert.Contains(t, body, "2025-03-10")
	assert.Contains(t, body, "Family &lt;trip&gt;")
}

func TestRenderStatus(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{})

	p := payload
	p.Status = "REJECTED"
	p.RejectionReason = "Peak season"
	p.ReviewerName = "Hana HR"

	subject, body, err := svc.renderStatus("Jane", p)
	require.NoError(t, err)
	assert.Equal(t, "Leave Request Rejected - Jane Doe", subject)
	assert.Contains(t, body, "Peak season")
	assert.Contains(t, body, "Hana HR")

	p.Status = "APPROVED"
	subject, _, err = svc.renderStatus("Jane", p)
	require.NoError(t, err)
	assert.Equal(t, "Leave Request Approved - Jane Doe", subject)
}

func TestSendHTML_SkipsWithoutHost(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{})
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("must not dial SMTP without a host")
		return nil
	}
	assert.NoError(t, svc.SendLeaveSubmitted("hr@example.com", "Hana", payload))
}

func TestSendHTML_RetriesThenFails(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com", FromName: "Leave"})
	attempts := 0
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Equal(t, []string{"jane@example.com"}, to)
		assert.True(t, strings.Contains(string(msg), "Subject: Leave Request Cancelled - Jane Doe"))
		return errors.New("connection refused")
	}

	p := payload
	p.Status = "CANCELLED"
	err := svc.SendLeaveStatus("jane@example.com", "Jane", p)
	assert.Error(t, err)
	assert.Equal(t, maxRetries, attempts)
}

func TestSendHTML_SucceedsOnRetry(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	attempts := 0
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary failure")
		}
		return nil
	}

	assert.NoError(t, svc.SendLeaveSubmitted("hr@example.com", "Hana", payload))
	assert.Equal(t, 2, attempts)
}
