package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds dispatcher configuration
type Config struct {
	WorkerCount     int           // default: 2
	QueueSize       int           // default: 256
	DeliveryTimeout time.Duration // default: 30 seconds
}

// Dispatcher implements notification.Notifier on a bounded in-process queue.
type Dispatcher struct {
	channels []notification.Channel
	config   Config
	now      func() time.Time

	queue    chan notification.Message
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}

	// mu orders enqueueing against Stop so nothing lands in the queue after workers drain it
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher starts cfg.WorkerCount workers delivering to every channel.
func NewDispatcher(cfg Config, channels ...notification.Channel) *Dispatcher {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 30 * time.Second
	}

	d := &Dispatcher{
		channels: channels,
		config:   cfg,
		now:      time.Now,
		queue:    make(chan notification.Message, cfg.QueueSize),
		stopCh:   make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.Name()
	}
	slog.Info("notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "channels", names)

	return d
}

// Notify implements notification.Notifier. One message per recipient is queued;
// when the queue is full the message is dropped.
func (d *Dispatcher) Notify(ctx context.Context, event notification.Event, payload notification.LeavePayload, recipients []notification.Recipient) {
	for _, r := range recipients {
		msg := notification.Message{
			ID:        uuid.NewString(),
			Event:     event,
			Recipient: r,
			Payload:   payload,
			CreatedAt: d.now(),
		}

		if !d.enqueue(msg) {
			slog.Warn("notification dispatcher stopped, dropping message", "event", event, "request_id", payload.RequestID)
			return
		}
	}
}

// enqueue reports false once the dispatcher is stopped. A full queue drops msg but still reports true.
func (d *Dispatcher) enqueue(msg notification.Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}

	select {
	case d.queue <- msg:
	default:
		slog.Warn("notification queue full, dropping message",
			"event", msg.Event,
			"request_id", msg.Payload.RequestID,
			"recipient", msg.Recipient.Email,
		)
	}
	return true
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case msg := <-d.queue:
			d.deliver(id, msg)
		case <-d.stopCh:
			// drain what is already queued
			for {
				select {
				case msg := <-d.queue:
					d.deliver(id, msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(worker int, msg notification.Message) {
	for _, ch := range d.channels {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliveryTimeout)
		err := ch.Deliver(ctx, msg)
		cancel()
		if err != nil {
			slog.Error("notification delivery failed",
				"worker", worker,
				"channel", ch.Name(),
				"event", msg.Event,
				"message_id", msg.ID,
				"recipient", msg.Recipient.Email,
				"error", err,
			)
		}
	}
}

// Stop delivers whatever is queued and waits for workers to exit.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.stopCh)
		d.mu.Unlock()

		d.wg.Wait()
		slog.Info("notification dispatcher stopped")
	})
}
