package publish

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/contentpulse/contentpulse-backend/internal/telemetry"
	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/services/channels"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/services/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChannelResult is the per-channel outcome of a publish run. RecordError is
// set when an attempt's delivery record could not be written: the delivery
// outcome stands (the external call already happened) but the audit trail is
// incomplete, and the caller should know.
type ChannelResult struct {
	Channel     string `json:"channel"`
	Success     bool   `json:"success"`
	ExternalID  string `json:"external_id,omitempty"`
	Attempts    int    `json:"attempts"`
	Error       string `json:"error,omitempty"`
	RecordError string `json:"record_error,omitempty"`
}

// Result aggregates a publish run across the requested channels
type Result struct {
	DraftID   uuid.UUID       `json:"draft_id"`
	Published bool            `json:"published"`
	Channels  []ChannelResult `json:"channels"`
}

// Coordinator fans an approved draft out to external channels. Each channel
// is attempted independently under the retry policy; every attempt leaves an
// append-only delivery record. The draft moves to Published as soon as at
// least one channel accepted the content.
type Coordinator struct {
	draftRepo    repositories.DraftRepository
	deliveryRepo repositories.DeliveryRepository
	draftService *workflow.DraftService
	registry     *channels.Registry
	policy       RetryPolicy
	sleep        SleepFunc
	logger       *zap.Logger
}

// NewCoordinator creates a publish coordinator
func NewCoordinator(
	draftRepo repositories.DraftRepository,
	deliveryRepo repositories.DeliveryRepository,
	draftService *workflow.DraftService,
	registry *channels.Registry,
	policy RetryPolicy,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		draftRepo:    draftRepo,
		deliveryRepo: deliveryRepo,
		draftService: draftService,
		registry:     registry,
		policy:       policy,
		sleep:        ContextSleep,
		logger:       logger,
	}
}

// WithSleep overrides the backoff sleep function. Tests use this to observe
// delays without waiting them out.
func (c *Coordinator) WithSleep(sleep SleepFunc) *Coordinator {
	c.sleep = sleep
	return c
}

// Publish delivers a draft to the named channels. The draft must be in
// Approved state. Channel names are validated against the registry before any
// delivery is attempted, so a typo never causes a partial publish.
func (c *Coordinator) Publish(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, channelNames []string) (*Result, error) {
	if !tc.HasPermission(models.PermDraftPublish) {
		return nil, services.ErrInsufficientRole
	}
	if len(channelNames) == 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "at least one channel is required", nil)
	}

	draft, err := c.draftRepo.GetByID(ctx, tc.OrgID, draftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrDraftNotFound
		}
		return nil, services.WrapInternal("failed to get draft", err)
	}
	if draft.Status != models.DraftStatusApproved {
		return nil, services.ErrNotApproved
	}

	targets := make([]channels.Channel, 0, len(channelNames))
	for _, name := range channelNames {
		channel, err := c.registry.Get(name)
		if err != nil {
			return nil, services.NewDomainError(services.ErrorTypeValidation, "unknown channel", err).
				WithDetail("channel", name)
		}
		targets = append(targets, channel)
	}

	result := &Result{DraftID: draftID, Channels: make([]ChannelResult, 0, len(targets))}
	for _, channel := range targets {
		chanResult := c.deliverWithRetry(ctx, tc, draft, channel)
		if chanResult.Success {
			result.Published = true
		}
		result.Channels = append(result.Channels, chanResult)
	}

	if result.Published {
		if _, err := c.draftService.MarkPublished(ctx, tc, draftID); err != nil {
			// Delivery records already persisted; surface the failed state
			// change rather than pretending the draft moved.
			return nil, err
		}
	}

	c.logger.Info("publish run completed",
		zap.String("draft_id", draftID.String()),
		zap.Bool("published", result.Published),
		zap.Int("channels", len(result.Channels)),
	)
	return result, nil
}

// Deliveries retrieves the delivery history of a draft, oldest first. The
// draft lookup enforces role visibility before exposing records.
func (c *Coordinator) Deliveries(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) ([]*models.DeliveryRecord, error) {
	if _, err := c.draftService.Get(ctx, tc, draftID); err != nil {
		return nil, err
	}
	records, err := c.deliveryRepo.ListByDraft(ctx, tc.OrgID, draftID)
	if err != nil {
		return nil, services.WrapInternal("failed to list delivery records", err)
	}
	return records, nil
}

// deliverWithRetry runs the bounded retry loop for one channel. The external
// call always precedes the local record write, so a crash between the two
// loses only bookkeeping, never double-posts. Only transient failures are
// retried; cancellation is checked before each backoff sleep.
func (c *Coordinator) deliverWithRetry(ctx context.Context, tc *tenancy.Context, draft *models.ContentDraft, channel channels.Channel) ChannelResult {
	payload := &channels.Payload{
		Body:        channels.TruncateBody(draft.Body, channel.MaxBodyLength()),
		ContentType: string(draft.ContentType),
		DraftID:     draft.ID.String(),
		Metadata: map[string]string{
			"org_id":  tc.OrgID.String(),
			"idea_id": draft.IdeaID.String(),
			"version": strconv.Itoa(draft.Version),
		},
	}

	chanResult := ChannelResult{Channel: channel.Name()}
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		chanResult.Attempts = attempt

		if attempt > 1 {
			if err := c.sleep(ctx, c.policy.Delay(attempt)); err != nil {
				chanResult.Error = err.Error()
				return chanResult
			}
		}

		start := time.Now()
		delivery, err := channel.Deliver(ctx, payload)
		telemetry.PublishDuration.WithLabelValues(channel.Name()).Observe(time.Since(start).Seconds())

		if err == nil {
			telemetry.PublishAttemptsTotal.WithLabelValues(channel.Name(), "success").Inc()
			record := models.NewDeliverySuccess(tc.OrgID, draft.ID, channel.Name(), delivery.ExternalID, attempt)
			if recErr := c.deliveryRepo.Create(ctx, record); recErr != nil {
				// The external post is live either way; report the missing
				// audit row instead of hiding it
				chanResult.RecordError = recErr.Error()
				c.logger.Error("failed to record successful delivery",
					zap.String("draft_id", draft.ID.String()),
					zap.String("channel", channel.Name()),
					zap.Error(recErr),
				)
			}
			chanResult.Success = true
			chanResult.ExternalID = delivery.ExternalID
			return chanResult
		}

		telemetry.PublishAttemptsTotal.WithLabelValues(channel.Name(), "failure").Inc()
		record := models.NewDeliveryFailure(tc.OrgID, draft.ID, channel.Name(), err.Error(), attempt)
		if recErr := c.deliveryRepo.Create(ctx, record); recErr != nil {
			chanResult.RecordError = recErr.Error()
			c.logger.Error("failed to record failed delivery",
				zap.String("draft_id", draft.ID.String()),
				zap.String("channel", channel.Name()),
				zap.Error(recErr),
			)
		}
		chanResult.Error = err.Error()

		if !channels.IsRetryable(err) {
			c.logger.Warn("permanent delivery failure",
				zap.String("draft_id", draft.ID.String()),
				zap.String("channel", channel.Name()),
				zap.Error(err),
			)
			return chanResult
		}

		c.logger.Warn("transient delivery failure",
			zap.String("draft_id", draft.ID.String()),
			zap.String("channel", channel.Name()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return chanResult
}
