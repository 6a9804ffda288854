package notify

import (
	"context"

	"go.uber.org/zap"
)

// Kind classifies a notification event
type Kind string

const (
	KindIdeaReviewed      Kind = "idea_reviewed"
	KindDraftSubmitted    Kind = "draft_submitted"
	KindRevisionRequested Kind = "revision_requested"
	KindDraftApproved     Kind = "draft_approved"
	KindDraftRejected     Kind = "draft_rejected"
	KindDraftPublished    Kind = "draft_published"
	KindMemberInvited     Kind = "member_invited"
)

// Notifier is the boundary to email or in-app notification delivery.
// Notify is fire-and-forget: failures are logged but must never block or
// fail a workflow transition.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, recipient string, payload map[string]interface{})
}

// Sender performs the actual delivery behind the Notifier boundary
type Sender interface {
	Send(ctx context.Context, kind Kind, recipient string, payload map[string]interface{}) error
}

// AsyncNotifier dispatches notifications on a separate goroutine and logs
// delivery failures
type AsyncNotifier struct {
	sender Sender
	logger *zap.Logger
}

// NewAsyncNotifier creates a new async notifier
func NewAsyncNotifier(sender Sender, logger *zap.Logger) *AsyncNotifier {
	return &AsyncNotifier{
		sender: sender,
		logger: logger,
	}
}

// Notify dispatches the notification without blocking the caller
func (n *AsyncNotifier) Notify(ctx context.Context, kind Kind, recipient string, payload map[string]interface{}) {
	go func() {
		// Detach from the request context so an already-finished request
		// does not cancel the delivery
		if err := n.sender.Send(context.Background(), kind, recipient, payload); err != nil {
			n.logger.Warn("notification delivery failed",
				zap.String("kind", string(kind)),
				zap.String("recipient", recipient),
				zap.Error(err),
			)
		}
	}()
}

// LogSender is a Sender that only logs, used in development and tests
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification
func (s *LogSender) Send(ctx context.Context, kind Kind, recipient string, payload map[string]interface{}) error {
	s.logger.Info("notification",
		zap.String("kind", string(kind)),
		zap.String("recipient", recipient),
		zap.Any("payload", payload),
	)
	return nil
}
