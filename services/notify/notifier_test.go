package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSender struct {
	mu   sync.Mutex
	sent []Kind
	err  error
	done chan struct{}
}

func newCaptureSender(err error) *captureSender {
	return &captureSender{err: err, done: make(chan struct{}, 16)}
}

func (s *captureSender) Send(ctx context.Context, kind Kind, recipient string, payload map[string]interface{}) error {
	s.mu.Lock()
	s.sent = append(s.sent, kind)
	s.mu.Unlock()
	s.done <- struct{}{}
	return s.err
}

func (s *captureSender) Sent() []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func waitFor(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification dispatch")
	}
}

func TestAsyncNotifier_Notify(t *testing.T) {
	sender := newCaptureSender(nil)
	notifier := NewAsyncNotifier(sender, zap.NewNop())

	notifier.Notify(context.Background(), KindDraftApproved, "user-1", map[string]interface{}{
		"draft_id": "abc",
	})

	waitFor(t, sender.done)
	require.Len(t, sender.Sent(), 1)
	assert.Equal(t, KindDraftApproved, sender.Sent()[0])
}

func TestAsyncNotifier_Notify_SurvivesCancelledRequest(t *testing.T) {
	sender := newCaptureSender(nil)
	notifier := NewAsyncNotifier(sender, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A finished request must not cancel delivery
	notifier.Notify(ctx, KindRevisionRequested, "user-1", nil)

	waitFor(t, sender.done)
	assert.Len(t, sender.Sent(), 1)
}

func TestAsyncNotifier_Notify_FailureDoesNotPanic(t *testing.T) {
	sender := newCaptureSender(errors.New("smtp unavailable"))
	notifier := NewAsyncNotifier(sender, zap.NewNop())

	notifier.Notify(context.Background(), KindDraftRejected, "user-1", nil)

	waitFor(t, sender.done)
	assert.Len(t, sender.Sent(), 1)
}

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender(zap.NewNop())
	err := sender.Send(context.Background(), KindMemberInvited, "user-1", map[string]interface{}{"org": "acme"})
	assert.NoError(t, err)
}
