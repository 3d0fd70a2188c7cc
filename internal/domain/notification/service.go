package notification

import "context"

// Notifier is fire-and-forget: it never reports delivery failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, event Event, payload LeavePayload, recipients []Recipient)
}

// Channel delivers a single message over one medium.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}
