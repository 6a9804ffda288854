package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/middleware"
	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/services/workflow"
	"github.com/contentpulse/contentpulse-backend/utils"
)

// DraftService defines the draft operations the handler depends on
type DraftService interface {
	Create(ctx context.Context, tc *tenancy.Context, input workflow.CreateDraftInput) (*models.ContentDraft, error)
	Get(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error)
	List(ctx context.Context, tc *tenancy.Context, limit, offset int) ([]*models.ContentDraft, error)
	ListByIdea(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) ([]*models.ContentDraft, error)
	Submit(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error)
	Approve(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error)
	Reject(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error)
	RequestRevision(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, notes string) (*models.ContentDraft, error)
	Resubmit(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) (*models.ContentDraft, error)
	Delete(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) error
	AddFeedback(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, input workflow.FeedbackInput) (*models.Feedback, error)
	ListFeedback(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) ([]*models.Feedback, error)
}

// RequestRevisionRequest carries the reviewer's revision notes
type RequestRevisionRequest struct {
	Notes string `json:"notes" validate:"required"`
}

// DraftHandler handles content draft HTTP requests
type DraftHandler struct {
	drafts DraftService
	logger *zap.Logger
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts DraftService, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		drafts: drafts,
		logger: logger,
	}
}

// HandleCreate handles POST /api/v1/drafts
func (h *DraftHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}

	var input workflow.CreateDraftInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	draft, err := h.drafts.Create(ctx, tc, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("draft created",
		zap.String("request_id", requestID),
		zap.String("draft_id", draft.ID.String()),
		zap.Int("version", draft.Version))

	_ = utils.WriteCreated(w, draft)
}

// HandleList handles GET /api/v1/drafts
func (h *DraftHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)

	drafts, err := h.drafts.List(r.Context(), tc, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteList(w, drafts, len(drafts))
}

// HandleListByIdea handles GET /api/v1/ideas/{id}/drafts
func (h *DraftHandler) HandleListByIdea(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	ideaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	drafts, err := h.drafts.ListByIdea(r.Context(), tc, ideaID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteList(w, drafts, len(drafts))
}

// HandleGet handles GET /api/v1/drafts/{id}
func (h *DraftHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	draftID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	draft, err := h.drafts.Get(r.Context(), tc, draftID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, draft)
}

// HandleSubmit handles POST /api/v1/drafts/{id}/submit
func (h *DraftHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "submit", h.drafts.Submit)
}

// HandleApprove handles POST /api/v1/drafts/{id}/approve
func (h *DraftHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve", h.drafts.Approve)
}

// HandleReject handles POST /api/v1/drafts/{id}/reject
func (h *DraftHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reject", h.drafts.Reject)
}

// HandleResubmit handles POST /api/v1/drafts/{id}/resubmit
func (h *DraftHandler) HandleResubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "resubmit", h.drafts.Resubmit)
}

// HandleRequestRevision handles POST /api/v1/drafts/{id}/request-revision
func (h *DraftHandler) HandleRequestRevision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	draftID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req RequestRevisionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	draft, err := h.drafts.RequestRevision(ctx, tc, draftID, req.Notes)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("revision requested",
		zap.String("request_id", requestID),
		zap.String("draft_id", draft.ID.String()))

	_ = utils.WriteOK(w, draft)
}

// HandleDelete handles DELETE /api/v1/drafts/{id}
func (h *DraftHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	draftID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.drafts.Delete(r.Context(), tc, draftID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// HandleAddFeedback handles POST /api/v1/drafts/{id}/feedback
func (h *DraftHandler) HandleAddFeedback(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	draftID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var input workflow.FeedbackInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	fb, err := h.drafts.AddFeedback(r.Context(), tc, draftID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, fb)
}

// HandleListFeedback handles GET /api/v1/drafts/{id}/feedback
func (h *DraftHandler) HandleListFeedback(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	draftID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	feedback, err := h.drafts.ListFeedback(r.Context(), tc, draftID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteList(w, feedback, len(feedback))
}

func (h *DraftHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	do func(context.Context, *tenancy.Context, uuid.UUID) (*models.ContentDraft, error),
) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	draftID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	draft, err := do(ctx, tc, draftID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("draft transition",
		zap.String("request_id", requestID),
		zap.String("draft_id", draft.ID.String()),
		zap.String("action", action),
		zap.String("status", string(draft.Status)))

	_ = utils.WriteOK(w, draft)
}
