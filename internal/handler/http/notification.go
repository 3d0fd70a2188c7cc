package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/sse"
)

const defaultKeepalive = 30 * time.Second

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	keepalive  time.Duration
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(hub *sse.Hub, jwtService jwt.Service) NotificationHandler {
	return &notificationHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		keepalive:  defaultKeepalive,
	}
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	sub, ok := actor(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(sub.UserID)
	if err != nil {
		slog.Error("failed to generate SSE token", "user_id", sub.UserID, "error", err)
		response.InternalServerError(w, r, "Failed to generate SSE token")
		return
	}

	response.Success(w, notification.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles SSE connection for real-time notifications
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token travels in the query string
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, r, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, r, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, r, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	connected := sse.Event{Name: "connected", UserID: userID, Data: map[string]string{"status": "connected", "user_id": userID}}
	if err := connected.Write(w); err != nil {
		return
	}
	flusher.Flush()
	slog.Debug("notification stream opened", "user_id", userID)

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := ev.Write(w); err != nil {
				slog.Warn("notification stream write failed", "user_id", userID, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			ping := sse.Event{Name: "ping", Data: map[string]int64{"timestamp": time.Now().Unix()}}
			if err := ping.Write(w); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			slog.Debug("notification stream closed", "user_id", userID)
			return
		}
	}
}
