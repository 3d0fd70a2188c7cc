package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/notification"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	name    string
	mu      sync.Mutex
	got     []notification.Message
	err     error
	block   chan struct{}
	started chan struct{}
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Deliver(_ context.Context, msg notification.Message) error {
	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, msg)
	return c.err
}

func (c *recordingChannel) messages() []notification.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notification.Message(nil), c.got...)
}

type fakeMailer struct {
	submitted []string
	status    []string
}

func (f *fakeMailer) SendLeaveSubmitted(to, _ string, _ notification.LeavePayload) error {
	f.submitted = append(f.submitted, to)
	return nil
}

func (f *fakeMailer) SendLeaveStatus(to, _ string, _ notification.LeavePayload) error {
	f.status = append(f.status, to)
	return nil
}

type fakePublisher struct {
	published []any
}

func (f *fakePublisher) Publish(_ context.Context, v any) error {
	f.published = append(f.published, v)
	return nil
}

var samplePayload = notification.LeavePayload{RequestID: "req-1", EmployeeName: "Jane Doe", Status: "PENDING"}

func TestDispatcher_DeliversEveryRecipientToEveryChannel(t *testing.T) {
	failing := &recordingChannel{name: "failing", err: errors.New("boom")}
	ok := &recordingChannel{name: "ok"}
	d := NewDispatcher(Config{WorkerCount: 2, QueueSize: 8}, failing, ok)

	d.Notify(context.Background(), notification.EventSubmitted, samplePayload, []notification.Recipient{
		{UserID: "hr-1", Email: "hr@example.com"},
		{Email: "boss@example.com"},
	})
	d.Stop()

	assert.Len(t, failing.messages(), 2)
	got := ok.messages()
	require.Len(t, got, 2)
	emails := []string{got[0].Recipient.Email, got[1].Recipient.Email}
	assert.ElementsMatch(t, []string{"hr@example.com", "boss@example.com"}, emails)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, notification.EventSubmitted, got[0].Event)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	ch := &recordingChannel{name: "slow", block: make(chan struct{}), started: make(chan struct{}, 4)}
	d := NewDispatcher(Config{WorkerCount: 1, QueueSize: 1}, ch)

	// first message occupies the worker, second fills the queue, third is dropped
	d.Notify(context.Background(), notification.EventApproved, samplePayload, []notification.Recipient{{Email: "a@example.com"}})
	select {
	case <-ch.started:
	case <-time.After(5 * time.Second):
		t.Fatal("worker never picked up the first message")
	}
	d.Notify(context.Background(), notification.EventApproved, samplePayload, []notification.Recipient{
		{Email: "b@example.com"},
		{Email: "c@example.com"},
	})

	close(ch.block)
	d.Stop()

	got := ch.messages()
	require.Len(t, got, 2)
	assert.Equal(t, "a@example.com", got[0].Recipient.Email)
	assert.Equal(t, "b@example.com", got[1].Recipient.Email)
}

func TestDispatcher_NotifyAfterStopDoesNotBlock(t *testing.T) {
	ch := &recordingChannel{name: "ok"}
	d := NewDispatcher(Config{}, ch)
	d.Stop()
	d.Stop()

	d.Notify(context.Background(), notification.EventRejected, samplePayload, []notification.Recipient{{Email: "a@example.com"}})
	assert.Empty(t, ch.messages())
}

func TestDispatcher_StopRacingNotifyStrandsNothing(t *testing.T) {
	ch := &recordingChannel{name: "ok"}
	d := NewDispatcher(Config{WorkerCount: 2, QueueSize: 1024}, ch)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 50; j++ {
				d.Notify(context.Background(), notification.EventSubmitted, samplePayload, []notification.Recipient{{Email: "hr@example.com"}})
			}
		}()
	}

	close(start)
	d.Stop()
	wg.Wait()

	assert.Empty(t, d.queue, "no message may be queued once Stop has returned")
	assert.LessOrEqual(t, len(ch.messages()), 400)
}

func TestEmailChannel_RoutesByEvent(t *testing.T) {
	mailer := &fakeMailer{}
	ch := NewEmailChannel(mailer)
	ctx := context.Background()

	require.NoError(t, ch.Deliver(ctx, notification.Message{Event: notification.EventSubmitted, Recipient: notification.Recipient{Email: "hr@example.com"}}))
	require.NoError(t, ch.Deliver(ctx, notification.Message{Event: notification.EventCancelled, Recipient: notification.Recipient{Email: "jane@example.com"}}))
	assert.Equal(t, []string{"hr@example.com"}, mailer.submitted)
	assert.Equal(t, []string{"jane@example.com"}, mailer.status)

	err := ch.Deliver(ctx, notification.Message{Event: notification.EventApproved})
	assert.ErrorIs(t, err, notification.ErrNoRecipientAddress)

	err = ch.Deliver(ctx, notification.Message{Event: "archived", Recipient: notification.Recipient{Email: "x@example.com"}})
	assert.ErrorIs(t, err, notification.ErrUnknownEvent)
}

func TestLiveChannel_PublishesToRecipientStreams(t *testing.T) {
	hub := sse.NewHub()
	stream, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	ch := NewLiveChannel(hub)
	msg := notification.Message{ID: "n-1", Event: notification.EventApproved, Recipient: notification.Recipient{UserID: "emp-1"}, Payload: samplePayload, CreatedAt: time.Now()}
	require.NoError(t, ch.Deliver(context.Background(), msg))
	require.NoError(t, ch.Deliver(context.Background(), notification.Message{Recipient: notification.Recipient{Email: "boss@example.com"}}))

	ev := <-stream
	assert.Equal(t, LiveEventName, ev.Name)
	assert.Equal(t, "n-1", ev.ID)
	live, ok := ev.Data.(LiveEvent)
	require.True(t, ok)
	assert.Equal(t, "req-1", live.Payload.RequestID)
	assert.Empty(t, stream)
}

func TestQueueChannel_AndHandlerRoundTrip(t *testing.T) {
	pub := &fakePublisher{}
	ch := NewQueueChannel(pub)
	msg := notification.Message{ID: "n-1", Event: notification.EventSubmitted, Recipient: notification.Recipient{Email: "hr@example.com", Name: "Hana"}, Payload: samplePayload}
	require.NoError(t, ch.Deliver(context.Background(), msg))
	require.Len(t, pub.published, 1)

	body, err := json.Marshal(pub.published[0])
	require.NoError(t, err)

	mailer := &fakeMailer{}
	handle := QueueHandler(NewEmailChannel(mailer))
	require.NoError(t, handle(context.Background(), body))
	assert.Equal(t, []string{"hr@example.com"}, mailer.submitted)

	assert.Error(t, handle(context.Background(), []byte("not json")))
}
