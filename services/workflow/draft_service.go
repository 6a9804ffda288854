package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/contentpulse/contentpulse-backend/internal/telemetry"
	"github.com/contentpulse/contentpulse-backend/middleware"
	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/services/access"
	"github.com/contentpulse/contentpulse-backend/services/notify"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateDraftInput carries the fields for a new content draft
type CreateDraftInput struct {
	IdeaID      uuid.UUID          `json:"idea_id" validate:"required"`
	Body        string             `json:"body" validate:"required,min=1"`
	ContentType models.ContentType `json:"content_type" validate:"required"`
}

// DraftService owns the content draft state machine. Every transition is
// atomic: the conditional status update, the audit row, and any feedback
// record commit as one unit, so a state change without its history row is
// never observable.
type DraftService struct {
	draftRepo    repositories.DraftRepository
	ideaRepo     repositories.IdeaRepository
	feedbackRepo repositories.FeedbackRepository
	auditRepo    repositories.AuditRepository
	txMgr        repositories.TransactionManager
	notifier     notify.Notifier
	logger       *zap.Logger
}

// NewDraftService creates a new draft service
func NewDraftService(
	draftRepo repositories.DraftRepository,
	ideaRepo repositories.IdeaRepository,
	feedbackRepo repositories.FeedbackRepository,
	auditRepo repositories.AuditRepository,
	txMgr repositories.TransactionManager,
	notifier notify.Notifier,
	logger *zap.Logger,
) *DraftService {
	return &DraftService{
		draftRepo:    draftRepo,
		ideaRepo:     ideaRepo,
		feedbackRepo: feedbackRepo,
		auditRepo:    auditRepo,
		txMgr:        txMgr,
		notifier:     notifier,
		logger:       logger,
	}
}

// Create creates a new draft against an approved idea. The draft version is
// one past the idea's highest existing version.
func (s *DraftService) Create(ctx context.Context, tc *tenancy.Context, input CreateDraftInput) (*models.ContentDraft, error) {
	if !tc.HasPermission(models.PermDraftCreate) {
		return nil, services.ErrInsufficientRole
	}
	if !input.ContentType.Valid() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "unknown content type", nil).
			WithDetail("content_type", string(input.ContentType))
	}

	idea, err := s.ideaRepo.GetByID(ctx, tc.OrgID, input.IdeaID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrIdeaNotFound
		}
		return nil, services.WrapInternal("failed to get idea", err)
	}

	if idea.Status != models.IdeaStatusApproved {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "drafts require an approved idea", nil).
			WithDetail("idea_status", string(idea.Status))
	}

	maxVersion, err := s.draftRepo.MaxVersion(ctx, tc.OrgID, input.IdeaID)
	if err != nil {
		return nil, services.WrapInternal("failed to get draft version", err)
	}

	draft := models.NewContentDraft(tc.OrgID, input.IdeaID, tc.PrincipalID, input.Body, input.ContentType, maxVersion+1)

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, services.WrapInternal("failed to create draft", err)
	}

	s.logger.Info("draft created",
		zap.String("draft_id", draft.ID.String()),
		zap.String("idea_id", input.IdeaID.String()),
		zap.Int("version", draft.Version),
	)
	return draft, nil
}

// Get retrieves a draft within the context's organization, respecting role
// visibility. A draft in a state the role may not see is reported as not
// found, not as forbidden.
func (s *DraftService) Get(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error) {
	draft, err := s.draftRepo.GetByID(ctx, tc.OrgID, draftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrDraftNotFound
		}
		return nil, services.WrapInternal("failed to get draft", err)
	}

	if !tc.SuperAdmin && !access.CanSeeStatus(tc.Role, draft.Status) {
		return nil, services.ErrDraftNotFound
	}

	return draft, nil
}

// ListByIdea retrieves the drafts of an idea visible to the context's role,
// newest version first
func (s *DraftService) ListByIdea(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) ([]*models.ContentDraft, error) {
	filter := access.Scope(tc).WithVisibleStatuses(tc.Role)
	drafts, err := s.draftRepo.ListByIdea(ctx, filter, ideaID)
	if err != nil {
		return nil, services.WrapInternal("failed to list drafts", err)
	}
	return drafts, nil
}

// List retrieves drafts in the context's organization visible to its role
func (s *DraftService) List(ctx context.Context, tc *tenancy.Context, limit, offset int) ([]*models.ContentDraft, error) {
	filter := access.Scope(tc).WithVisibleStatuses(tc.Role)
	drafts, err := s.draftRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list drafts", err)
	}
	return drafts, nil
}

// Submit moves a draft from Draft to AwaitingFeedback
func (s *DraftService) Submit(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error) {
	return s.transition(ctx, tc, draftID, ActionSubmit, "")
}

// Approve moves a draft from AwaitingFeedback to Approved
func (s *DraftService) Approve(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error) {
	return s.transition(ctx, tc, draftID, ActionApprove, "")
}

// Reject moves a draft from AwaitingFeedback to Rejected, a terminal state
func (s *DraftService) Reject(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error) {
	return s.transition(ctx, tc, draftID, ActionReject, "")
}

// RequestRevision moves a draft from AwaitingFeedback to AwaitingRevision.
// Notes are required; they become an actionable Feedback record written in
// the same transaction as the state change.
func (s *DraftService) RequestRevision(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, notes string) (*models.ContentDraft, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, services.ErrEmptyRevisionNotes
	}
	return s.transition(ctx, tc, draftID, ActionRequestRevision, notes)
}

// Resubmit moves a draft from AwaitingRevision back to AwaitingFeedback
func (s *DraftService) Resubmit(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error) {
	return s.transition(ctx, tc, draftID, ActionResubmit, "")
}

// MarkPublished moves a draft from Approved to Published. Invoked by the
// publish coordinator once at least one channel delivery succeeded.
func (s *DraftService) MarkPublished(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error) {
	return s.transition(ctx, tc, draftID, ActionPublishSucceeded, "")
}

// Delete removes a non-terminal draft. Creator or admin only. The deletion
// is recorded in the audit log within the same transaction.
func (s *DraftService) Delete(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) error {
	draft, err := s.Get(ctx, tc, draftID)
	if err != nil {
		return err
	}

	if tc.PrincipalID != draft.CreatorID && !tc.IsAdmin() {
		return services.ErrInsufficientRole
	}

	if draft.Status.IsTerminal() {
		return services.NewInvalidTransition(string(draft.Status), "deleted")
	}

	err = services.WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.draftRepo.Delete(txCtx, tc.OrgID, draftID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return services.ErrDraftNotFound
			}
			return services.WrapInternal("failed to delete draft", err)
		}

		auditLog := models.NewAuditLog(tc.OrgID, models.AuditActionDraftDeleted, "draft").
			WithActor(tc.PrincipalID).
			WithResource(draftID).
			WithTransition(string(draft.Status), "deleted").
			WithRequestID(middleware.GetRequestIDFromContext(ctx))
		if err := s.auditRepo.Insert(txCtx, auditLog); err != nil {
			return services.WrapInternal("failed to write audit log", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("draft deleted",
		zap.String("draft_id", draftID.String()),
		zap.String("actor_id", tc.PrincipalID.String()),
	)
	return nil
}

// transition executes one state machine step. The read establishes the
// expected "from" state; the conditional update inside the transaction
// fails with ConcurrentModification if a racing transition got there first.
func (s *DraftService) transition(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, action DraftAction, revisionNotes string) (*models.ContentDraft, error) {
	draft, err := s.Get(ctx, tc, draftID)
	if err != nil {
		return nil, err
	}

	if !draftActionAllowed(tc, draft, action) {
		return nil, services.ErrInsufficientRole
	}

	to, err := nextDraftStatus(draft.Status, action)
	if err != nil {
		return nil, err
	}
	from := draft.Status

	err = services.WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.draftRepo.UpdateStatus(txCtx, tc.OrgID, draftID, from, to); err != nil {
			if errors.Is(err, repositories.ErrStaleStatus) {
				telemetry.TransitionConflictsTotal.WithLabelValues("draft").Inc()
				return services.ErrConcurrentModification
			}
			return services.WrapInternal("failed to update draft status", err)
		}

		if action == ActionRequestRevision {
			feedback := models.NewRevisionNotes(tc.OrgID, draftID, tc.PrincipalID, revisionNotes)
			if err := s.feedbackRepo.Create(txCtx, feedback); err != nil {
				return services.WrapInternal("failed to create revision feedback", err)
			}
		}

		auditLog := models.NewAuditLog(tc.OrgID, draftAuditActions[action], "draft").
			WithActor(tc.PrincipalID).
			WithResource(draftID).
			WithTransition(string(from), string(to)).
			WithRequestID(middleware.GetRequestIDFromContext(ctx))
		if err := s.auditRepo.Insert(txCtx, auditLog); err != nil {
			return services.WrapInternal("failed to write audit log", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	draft.Status = to
	draft.UpdatedAt = time.Now()

	telemetry.TransitionsTotal.WithLabelValues("draft", string(action)).Inc()
	s.logger.Info("draft transitioned",
		zap.String("draft_id", draftID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor_id", tc.PrincipalID.String()),
	)

	s.notifyTransition(ctx, draft, action)

	return draft, nil
}

// notifyTransition sends the fire-and-forget notification matching the
// action. Failures are logged by the notifier and never block the workflow.
func (s *DraftService) notifyTransition(ctx context.Context, draft *models.ContentDraft, action DraftAction) {
	payload := map[string]interface{}{
		"draft_id": draft.ID.String(),
		"idea_id":  draft.IdeaID.String(),
		"status":   string(draft.Status),
	}

	switch action {
	case ActionSubmit, ActionResubmit:
		s.notifier.Notify(ctx, notify.KindDraftSubmitted, draft.OrgID.String(), payload)
	case ActionApprove:
		s.notifier.Notify(ctx, notify.KindDraftApproved, draft.CreatorID.String(), payload)
	case ActionRequestRevision:
		s.notifier.Notify(ctx, notify.KindRevisionRequested, draft.CreatorID.String(), payload)
	case ActionReject:
		s.notifier.Notify(ctx, notify.KindDraftRejected, draft.CreatorID.String(), payload)
	case ActionPublishSucceeded:
		s.notifier.Notify(ctx, notify.KindDraftPublished, draft.CreatorID.String(), payload)
	}
}

// FeedbackInput carries the fields for a manual feedback record
type FeedbackInput struct {
	Body       string                  `json:"body" validate:"required,min=1"`
	Rating     int                     `json:"rating" validate:"min=0,max=5"`
	Category   models.FeedbackCategory `json:"category" validate:"required"`
	Priority   models.FeedbackPriority `json:"priority" validate:"required"`
	Actionable bool                    `json:"actionable"`
}

// AddFeedback appends a feedback record to a draft the context can see
func (s *DraftService) AddFeedback(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, input FeedbackInput) (*models.Feedback, error) {
	if !tc.HasPermission(models.PermFeedbackWrite) {
		return nil, services.ErrInsufficientRole
	}

	if _, err := s.Get(ctx, tc, draftID); err != nil {
		return nil, err
	}

	feedback := models.NewFeedback(tc.OrgID, draftID, tc.PrincipalID, input.Body, input.Category, input.Priority)
	feedback.Rating = input.Rating
	feedback.Actionable = input.Actionable
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, services.WrapInternal("failed to create feedback", err)
	}

	return feedback, nil
}

// ListFeedback retrieves the feedback on a draft, oldest first
func (s *DraftService) ListFeedback(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) ([]*models.Feedback, error) {
	if _, err := s.Get(ctx, tc, draftID); err != nil {
		return nil, err
	}

	items, err := s.feedbackRepo.ListByDraft(ctx, tc.OrgID, draftID)
	if err != nil {
		return nil, services.WrapInternal("failed to list feedback", err)
	}
	return items, nil
}
