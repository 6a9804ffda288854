package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/middleware"
	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/services/publish"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/utils"
)

// Publisher defines the publish operations the handler depends on
type Publisher interface {
	Publish(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, channelNames []string) (*publish.Result, error)
	Deliveries(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) ([]*models.DeliveryRecord, error)
}

// PublishRequest selects the channels an approved draft is published to
type PublishRequest struct {
	Channels []string `json:"channels" validate:"required,min=1"`
}

// PublishHandler handles publish HTTP requests
type PublishHandler struct {
	publisher Publisher
	logger    *zap.Logger
}

// NewPublishHandler creates a new PublishHandler
func NewPublishHandler(publisher Publisher, logger *zap.Logger) *PublishHandler {
	return &PublishHandler{
		publisher: publisher,
		logger:    logger,
	}
}

// HandlePublish handles POST /api/v1/drafts/{id}/publish
func (h *PublishHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
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

	var req PublishRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.publisher.Publish(ctx, tc, draftID, req.Channels)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("publish completed",
		zap.String("request_id", requestID),
		zap.String("draft_id", draftID.String()),
		zap.Bool("published", result.Published),
		zap.Int("channels", len(result.Channels)))

	// Every channel failing is an upstream problem, not a workflow one
	if !result.Published {
		_ = utils.WriteJSON(w, http.StatusBadGateway, utils.SuccessResponse{Data: result})
		return
	}

	_ = utils.WriteOK(w, result)
}

// HandleListDeliveries handles GET /api/v1/drafts/{id}/deliveries
func (h *PublishHandler) HandleListDeliveries(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	draftID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	records, err := h.publisher.Deliveries(r.Context(), tc, draftID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteList(w, records, len(records))
}
