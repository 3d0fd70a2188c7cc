package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/queue"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/sse"
)

// LiveEventName is the SSE event name used for leave updates.
const LiveEventName = "leave_request"

type emailChannel struct {
	mailer email.EmailService
}

// NewEmailChannel sends submitted events with the reviewer template and the rest with the status template.
func NewEmailChannel(mailer email.EmailService) notification.Channel {
	return &emailChannel{mailer: mailer}
}

func (c *emailChannel) Name() string { return "email" }

func (c *emailChannel) Deliver(ctx context.Context, msg notification.Message) error {
	if msg.Recipient.Email == "" {
		return notification.ErrNoRecipientAddress
	}
	switch msg.Event {
	case notification.EventSubmitted:
		return c.mailer.SendLeaveSubmitted(msg.Recipient.Email, msg.Recipient.Name, msg.Payload)
	case notification.EventApproved, notification.EventRejected, notification.EventCancelled:
		return c.mailer.SendLeaveStatus(msg.Recipient.Email, msg.Recipient.Name, msg.Payload)
	default:
		return fmt.Errorf("%w: %s", notification.ErrUnknownEvent, msg.Event)
	}
}

// LiveEvent is the data field of a leave_request server-sent event.
type LiveEvent struct {
	ID        string                    `json:"id"`
	Event     notification.Event        `json:"event"`
	Payload   notification.LeavePayload `json:"payload"`
	CreatedAt string                    `json:"created_at"`
}

type liveChannel struct {
	hub *sse.Hub
}

// NewLiveChannel pushes messages to the recipient's open SSE streams.
// Recipients without an account, such as a manager email, are skipped.
func NewLiveChannel(hub *sse.Hub) notification.Channel {
	return &liveChannel{hub: hub}
}

func (c *liveChannel) Name() string { return "sse" }

func (c *liveChannel) Deliver(_ context.Context, msg notification.Message) error {
	if msg.Recipient.UserID == "" {
		return nil
	}
	c.hub.Publish(sse.Event{
		ID:     msg.ID,
		Name:   LiveEventName,
		UserID: msg.Recipient.UserID,
		Data: LiveEvent{
			ID:        msg.ID,
			Event:     msg.Event,
			Payload:   msg.Payload,
			CreatedAt: msg.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	return nil
}

// Publisher is satisfied by *queue.Publisher.
type Publisher interface {
	Publish(ctx context.Context, v any) error
}

type queueChannel struct {
	publisher Publisher
}

// NewQueueChannel hands messages to RabbitMQ for the worker process to email.
func NewQueueChannel(publisher Publisher) notification.Channel {
	return &queueChannel{publisher: publisher}
}

func (c *queueChannel) Name() string { return "amqp" }

func (c *queueChannel) Deliver(ctx context.Context, msg notification.Message) error {
	return c.publisher.Publish(ctx, msg)
}

// QueueHandler decodes queued messages and delivers them through ch.
func QueueHandler(ch notification.Channel) queue.Handler {
	return func(ctx context.Context, body []byte) error {
		var msg notification.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to decode notification: %w", err)
		}
		return ch.Deliver(ctx, msg)
	}
}
