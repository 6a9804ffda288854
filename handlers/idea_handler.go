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

// IdeaService defines the idea operations the handler depends on
type IdeaService interface {
	Create(ctx context.Context, tc *tenancy.Context, input workflow.CreateIdeaInput) (*models.Idea, error)
	Get(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error)
	List(ctx context.Context, tc *tenancy.Context, limit, offset int) ([]*models.Idea, error)
	Update(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID, input workflow.UpdateIdeaInput) (*models.Idea, error)
	Approve(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error)
	Reject(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error)
}

// IdeaHandler handles content idea HTTP requests
type IdeaHandler struct {
	ideas  IdeaService
	logger *zap.Logger
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideas IdeaService, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{
		ideas:  ideas,
		logger: logger,
	}
}

// HandleCreate handles POST /api/v1/ideas
func (h *IdeaHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}

	var input workflow.CreateIdeaInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	idea, err := h.ideas.Create(ctx, tc, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("idea created",
		zap.String("request_id", requestID),
		zap.String("org_id", tc.OrgID.String()),
		zap.String("idea_id", idea.ID.String()))

	_ = utils.WriteCreated(w, idea)
}

// HandleList handles GET /api/v1/ideas
func (h *IdeaHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)

	ideas, err := h.ideas.List(r.Context(), tc, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteList(w, ideas, len(ideas))
}

// HandleGet handles GET /api/v1/ideas/{id}
func (h *IdeaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	ideaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	idea, err := h.ideas.Get(r.Context(), tc, ideaID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, idea)
}

// HandleUpdate handles PUT /api/v1/ideas/{id}
func (h *IdeaHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	ideaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var input workflow.UpdateIdeaInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	idea, err := h.ideas.Update(r.Context(), tc, ideaID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, idea)
}

// HandleApprove handles POST /api/v1/ideas/{id}/approve
func (h *IdeaHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.ideas.Approve)
}

// HandleReject handles POST /api/v1/ideas/{id}/reject
func (h *IdeaHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.ideas.Reject)
}

func (h *IdeaHandler) review(
	w http.ResponseWriter,
	r *http.Request,
	decide func(context.Context, *tenancy.Context, uuid.UUID) (*models.Idea, error),
) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	ideaID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	idea, err := decide(ctx, tc, ideaID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("idea reviewed",
		zap.String("request_id", requestID),
		zap.String("idea_id", idea.ID.String()),
		zap.String("status", string(idea.Status)))

	_ = utils.WriteOK(w, idea)
}
