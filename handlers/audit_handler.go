package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/utils"
)

// AuditHandler serves the workflow transition history
type AuditHandler struct {
	auditRepo repositories.AuditRepository
	logger    *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditRepo repositories.AuditRepository, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// HandleListByResource handles GET /api/v1/audit/{id}: the transition
// history of one idea or draft
func (h *AuditHandler) HandleListByResource(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	resourceID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	limit, offset := pagination(r)

	entries, err := h.auditRepo.ListByResource(r.Context(), tc.OrgID, resourceID, limit, offset)
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to list audit entries", err), h.logger)
		return
	}

	_ = utils.WriteList(w, entries, len(entries))
}

// HandleListByOrg handles GET /api/v1/audit: the organization-wide history.
// Restricted to administrators.
func (h *AuditHandler) HandleListByOrg(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	if !tc.HasPermission(models.PermOrgManage) {
		HandleServiceError(w, services.ErrInsufficientRole, h.logger)
		return
	}

	limit, offset := pagination(r)

	entries, err := h.auditRepo.ListByOrg(r.Context(), tc.OrgID, limit, offset)
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to list audit entries", err), h.logger)
		return
	}

	_ = utils.WriteList(w, entries, len(entries))
}
