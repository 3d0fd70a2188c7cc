package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService sends leave notifications over SMTP
type EmailService interface {
	// SendLeaveSubmitted tells a reviewer that a request awaits a decision.
	SendLeaveSubmitted(to, recipientName string, p notification.LeavePayload) error
	// SendLeaveStatus tells the employee their request changed status.
	SendLeaveStatus(to, recipientName string, p notification.LeavePayload) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	appName   string
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff   func(attempt int) time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig, appName string) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		appName:   appName,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}, nil
}

type leaveEmailData struct {
	Subject         string
	AppName         string
	RecipientName   string
	EmployeeName    string
	EmployeeEmail   string
	LeaveType       string
	StartDate       string
	EndDate         string
	TotalDays       string
	Reason          string
	StatusTitle     string
	ActionText      string
	Color           string
	ReviewerName    string
	RejectionReason string
}

func (s *emailServiceImpl) data(recipientName string, p notification.LeavePayload) leaveEmailData {
	leaveType := p.LeaveType
	if leaveType == "" {
		leaveType = "Leave"
	}
	return leaveEmailData{
		AppName:         s.appName,
		RecipientName:   recipientName,
		EmployeeName:    p.EmployeeName,
		EmployeeEmail:   p.EmployeeEmail,
		LeaveType:       leaveType,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		TotalDays:       strconv.FormatFloat(p.TotalDays, 'f', -1, 64),
		Reason:          p.Reason,
		ReviewerName:    p.ReviewerName,
		RejectionReason: p.RejectionReason,
	}
}

// SendLeaveSubmitted implements EmailService.
func (s *emailServiceImpl) SendLeaveSubmitted(to, recipientName string, p notification.LeavePayload) error {
	subject, body, err := s.renderSubmitted(recipientName, p)
	if err != nil {
		return err
	}
	return s.sendHTML(to, subject, body)
}

// SendLeaveStatus implements EmailService.
func (s *emailServiceImpl) SendLeaveStatus(to, recipientName string, p notification.LeavePayload) error {
	subject, body, err := s.renderStatus(recipientName, p)
	if err != nil {
		return err
	}
	return s.sendHTML(to, subject, body)
}

func (s *emailServiceImpl) renderSubmitted(recipientName string, p notification.LeavePayload) (string, string, error) {
	data := s.data(recipientName, p)
	data.Subject = fmt.Sprintf("New Leave Request - %s", p.EmployeeName)
	data.Color = "#3b82f6"

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_submitted.html", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}
	return data.Subject, body.String(), nil
}

func (s *emailServiceImpl) renderStatus(recipientName string, p notification.LeavePayload) (string, string, error) {
	data := s.data(recipientName, p)
	switch strings.ToUpper(p.Status) {
	case "APPROVED":
		data.StatusTitle, data.Color, data.ActionText = "Approved", "#10b981", "Your leave request has been approved."
	case "REJECTED":
		data.StatusTitle, data.Color, data.ActionText = "Rejected", "#ef4444", "Your leave request has been rejected."
	case "CANCELLED":
		data.StatusTitle, data.Color, data.ActionText = "Cancelled", "#f59e0b", "Your leave request has been cancelled."
	default:
		data.StatusTitle, data.Color, data.ActionText = "Update", "#6b7280", "Your leave request status has been updated."
	}
	data.Subject = fmt.Sprintf("Leave Request %s - %s", data.StatusTitle, p.EmployeeName)

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_status.html", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}
	return data.Subject, body.String(), nil
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			time.Sleep(s.backoff(attempt))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
