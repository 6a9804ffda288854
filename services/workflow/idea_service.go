package workflow

import (
	"context"
	"errors"
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

// CreateIdeaInput carries the fields for a new idea
type CreateIdeaInput struct {
	Title           string             `json:"title" validate:"required,min=1,max=255"`
	Description     string             `json:"description" validate:"max=10000"`
	ContentType     models.ContentType `json:"content_type" validate:"required"`
	MediaType       models.MediaType   `json:"media_type" validate:"required"`
	TargetPublishAt *time.Time         `json:"target_publish_at,omitempty"`
}

// UpdateIdeaInput carries the editable fields of a pending idea
type UpdateIdeaInput struct {
	Title           string             `json:"title" validate:"required,min=1,max=255"`
	Description     string             `json:"description" validate:"max=10000"`
	ContentType     models.ContentType `json:"content_type" validate:"required"`
	MediaType       models.MediaType   `json:"media_type" validate:"required"`
	TargetPublishAt *time.Time         `json:"target_publish_at,omitempty"`
}

// IdeaService owns the idea state machine: Pending is the only initial
// state, and review moves it to Approved or Rejected, both terminal
type IdeaService struct {
	ideaRepo  repositories.IdeaRepository
	draftRepo repositories.DraftRepository
	auditRepo repositories.AuditRepository
	txMgr     repositories.TransactionManager
	notifier  notify.Notifier
	logger    *zap.Logger
}

// NewIdeaService creates a new idea service
func NewIdeaService(
	ideaRepo repositories.IdeaRepository,
	draftRepo repositories.DraftRepository,
	auditRepo repositories.AuditRepository,
	txMgr repositories.TransactionManager,
	notifier notify.Notifier,
	logger *zap.Logger,
) *IdeaService {
	return &IdeaService{
		ideaRepo:  ideaRepo,
		draftRepo: draftRepo,
		auditRepo: auditRepo,
		txMgr:     txMgr,
		notifier:  notifier,
		logger:    logger,
	}
}

// Create creates a new pending idea in the context's organization
func (s *IdeaService) Create(ctx context.Context, tc *tenancy.Context, input CreateIdeaInput) (*models.Idea, error) {
	if !tc.HasPermission(models.PermIdeaCreate) {
		return nil, services.ErrInsufficientRole
	}
	if !input.ContentType.Valid() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "unknown content type", nil).
			WithDetail("content_type", string(input.ContentType))
	}
	if !input.MediaType.Valid() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "unknown media type", nil).
			WithDetail("media_type", string(input.MediaType))
	}

	idea := models.NewIdea(tc.OrgID, tc.PrincipalID, input.Title, input.Description, input.ContentType, input.MediaType)
	idea.TargetPublishAt = input.TargetPublishAt

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, services.WrapInternal("failed to create idea", err)
	}

	s.logger.Info("idea created",
		zap.String("idea_id", idea.ID.String()),
		zap.String("org_id", tc.OrgID.String()),
	)
	return idea, nil
}

// Get retrieves an idea within the context's organization
func (s *IdeaService) Get(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error) {
	idea, err := s.ideaRepo.GetByID(ctx, tc.OrgID, ideaID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrIdeaNotFound
		}
		return nil, services.WrapInternal("failed to get idea", err)
	}
	return idea, nil
}

// List retrieves ideas in the context's organization
func (s *IdeaService) List(ctx context.Context, tc *tenancy.Context, limit, offset int) ([]*models.Idea, error) {
	filter := access.Scope(tc)
	ideas, err := s.ideaRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list ideas", err)
	}
	return ideas, nil
}

// Update edits a pending idea. Once any draft of the idea is approved the
// idea is immutable; edits go through a new revision draft instead.
func (s *IdeaService) Update(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID, input UpdateIdeaInput) (*models.Idea, error) {
	idea, err := s.Get(ctx, tc, ideaID)
	if err != nil {
		return nil, err
	}

	if tc.PrincipalID != idea.CreatorID && !tc.IsAdmin() {
		return nil, services.ErrInsufficientRole
	}

	locked, err := s.hasApprovedDraft(ctx, tc, ideaID)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, services.ErrIdeaLocked
	}

	idea.Title = input.Title
	idea.Description = input.Description
	idea.ContentType = input.ContentType
	idea.MediaType = input.MediaType
	idea.TargetPublishAt = input.TargetPublishAt
	idea.UpdatedAt = time.Now()

	if err := s.ideaRepo.Update(ctx, idea); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrIdeaNotFound
		}
		return nil, services.WrapInternal("failed to update idea", err)
	}

	return idea, nil
}

// Approve moves a pending idea to Approved
func (s *IdeaService) Approve(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error) {
	return s.review(ctx, tc, ideaID, models.IdeaStatusApproved, models.AuditActionIdeaApproved)
}

// Reject moves a pending idea to Rejected. A rejected idea is resurrected
// only by creating a new one.
func (s *IdeaService) Reject(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error) {
	return s.review(ctx, tc, ideaID, models.IdeaStatusRejected, models.AuditActionIdeaRejected)
}

// review performs the Pending -> Approved/Rejected transition atomically:
// the conditional status update and the audit row commit as one unit. A
// racing reviewer loses the conditional update and gets
// ConcurrentModification.
func (s *IdeaService) review(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID, to models.IdeaStatus, auditAction models.AuditAction) (*models.Idea, error) {
	if !tc.CanReview() {
		return nil, services.ErrInsufficientRole
	}

	idea, err := s.Get(ctx, tc, ideaID)
	if err != nil {
		return nil, err
	}

	if idea.Status != models.IdeaStatusPending {
		return nil, services.NewInvalidTransition(string(idea.Status), string(to))
	}

	err = services.WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.ideaRepo.UpdateStatus(txCtx, tc.OrgID, ideaID, models.IdeaStatusPending, to); err != nil {
			if errors.Is(err, repositories.ErrStaleStatus) {
				telemetry.TransitionConflictsTotal.WithLabelValues("idea").Inc()
				return services.ErrConcurrentModification
			}
			return services.WrapInternal("failed to update idea status", err)
		}

		auditLog := models.NewAuditLog(tc.OrgID, auditAction, "idea").
			WithActor(tc.PrincipalID).
			WithResource(ideaID).
			WithTransition(string(models.IdeaStatusPending), string(to)).
			WithRequestID(middleware.GetRequestIDFromContext(ctx))
		if err := s.auditRepo.Insert(txCtx, auditLog); err != nil {
			return services.WrapInternal("failed to write audit log", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	idea.Status = to
	idea.UpdatedAt = time.Now()

	telemetry.TransitionsTotal.WithLabelValues("idea", string(auditAction)).Inc()
	s.logger.Info("idea reviewed",
		zap.String("idea_id", ideaID.String()),
		zap.String("status", string(to)),
		zap.String("actor_id", tc.PrincipalID.String()),
	)

	s.notifier.Notify(ctx, notify.KindIdeaReviewed, idea.CreatorID.String(), map[string]interface{}{
		"idea_id": ideaID.String(),
		"status":  string(to),
	})

	return idea, nil
}

// hasApprovedDraft reports whether any draft of the idea has reached
// Approved or Published
func (s *IdeaService) hasApprovedDraft(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (bool, error) {
	filter := access.Scope(tc)
	drafts, err := s.draftRepo.ListByIdea(ctx, filter, ideaID)
	if err != nil {
		return false, services.WrapInternal("failed to list drafts", err)
	}
	for _, draft := range drafts {
		if draft.Status == models.DraftStatusApproved || draft.Status == models.DraftStatusPublished {
			return true, nil
		}
	}
	return false, nil
}
