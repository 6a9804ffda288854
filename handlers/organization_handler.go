package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/middleware"
	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/services/notify"
	"github.com/contentpulse/contentpulse-backend/utils"
)

// slugPattern constrains organization slugs to URL-safe lowercase identifiers
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateOrganizationRequest creates a new tenant
type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Slug string `json:"slug" validate:"required,min=2,max=63"`
}

// UpdateOrganizationRequest updates tenant settings
type UpdateOrganizationRequest struct {
	Name string                  `json:"name" validate:"required,min=1,max=255"`
	Tier models.SubscriptionTier `json:"tier" validate:"required"`
}

// InviteMemberRequest invites a user into the organization
type InviteMemberRequest struct {
	Email string      `json:"email" validate:"required,email"`
	Role  models.Role `json:"role" validate:"required"`
}

// UpdateMemberRoleRequest changes a member's organization-scoped role
type UpdateMemberRoleRequest struct {
	Role models.Role `json:"role" validate:"required"`
}

// OrganizationHandler handles organization and membership HTTP requests
type OrganizationHandler struct {
	orgRepo        repositories.OrganizationRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	auditRepo      repositories.AuditRepository
	txManager      repositories.TransactionManager
	notifier       notify.Notifier
	logger         *zap.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(
	orgRepo repositories.OrganizationRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	txManager repositories.TransactionManager,
	notifier notify.Notifier,
	logger *zap.Logger,
) *OrganizationHandler {
	return &OrganizationHandler{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
	}
}

// HandleCreate handles POST /api/v1/organizations. The creator becomes the
// organization's owner; both rows and the audit entry commit in one
// transaction.
func (h *OrganizationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	principal := middleware.GetPrincipalFromContext(ctx)
	if principal == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req CreateOrganizationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if !slugPattern.MatchString(req.Slug) {
		_ = utils.WriteBadRequest(w, "slug must be lowercase letters, digits, and hyphens", nil)
		return
	}

	if _, err := h.orgRepo.GetBySlug(ctx, req.Slug); err == nil {
		_ = utils.WriteConflict(w, "slug already exists", nil)
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		HandleServiceError(w, services.WrapInternal("failed to check slug", err), h.logger)
		return
	}

	org := models.NewOrganization(req.Name, req.Slug)
	membership := models.NewMembership(org.ID, principal.UserID, models.RoleOwner)

	err := services.WithTransaction(ctx, h.txManager, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := h.orgRepo.WithTx(tx).Create(txCtx, org); err != nil {
			return services.WrapInternal("failed to create organization", err)
		}
		if err := h.membershipRepo.WithTx(tx).Create(txCtx, membership); err != nil {
			return services.WrapInternal("failed to create owner membership", err)
		}

		audit := models.NewAuditLog(org.ID, models.AuditActionOrgCreated, "organization").
			WithActor(principal.UserID).
			WithResource(org.ID).
			WithRequestID(requestID)
		if err := h.auditRepo.WithTx(tx).Insert(txCtx, audit); err != nil {
			return services.WrapInternal("failed to write audit entry", err)
		}
		return nil
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("organization created",
		zap.String("request_id", requestID),
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug))

	_ = utils.WriteCreated(w, org)
}

// HandleListMine handles GET /api/v1/organizations: the organizations the
// authenticated principal actively belongs to
func (h *OrganizationHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal := middleware.GetPrincipalFromContext(ctx)
	if principal == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	memberships, err := h.membershipRepo.ListActiveByUser(ctx, principal.UserID)
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to list memberships", err), h.logger)
		return
	}

	orgs := make([]*models.Organization, 0, len(memberships))
	for _, m := range memberships {
		org, err := h.orgRepo.GetByID(ctx, m.OrgID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			HandleServiceError(w, services.WrapInternal("failed to load organization", err), h.logger)
			return
		}
		orgs = append(orgs, org)
	}

	_ = utils.WriteList(w, orgs, len(orgs))
}

// HandleGetCurrent handles GET /api/v1/organizations/current
func (h *OrganizationHandler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}

	org, err := h.orgRepo.GetByID(r.Context(), tc.OrgID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			HandleServiceError(w, services.ErrOrganizationNotFound, h.logger)
			return
		}
		HandleServiceError(w, services.WrapInternal("failed to load organization", err), h.logger)
		return
	}

	_ = utils.WriteOK(w, org)
}

// HandleUpdateCurrent handles PUT /api/v1/organizations/current
func (h *OrganizationHandler) HandleUpdateCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	if !tc.HasPermission(models.PermOrgManage) {
		HandleServiceError(w, services.ErrInsufficientRole, h.logger)
		return
	}

	var req UpdateOrganizationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if !req.Tier.Valid() {
		_ = utils.WriteBadRequest(w, "unknown subscription tier", nil)
		return
	}

	org, err := h.orgRepo.GetByID(ctx, tc.OrgID)
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to load organization", err), h.logger)
		return
	}

	org.Name = req.Name
	org.Tier = req.Tier

	if err := h.orgRepo.Update(ctx, org); err != nil {
		HandleServiceError(w, services.WrapInternal("failed to update organization", err), h.logger)
		return
	}

	_ = utils.WriteOK(w, org)
}

// HandleListMembers handles GET /api/v1/members
func (h *OrganizationHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}

	members, err := h.membershipRepo.ListByOrg(r.Context(), tc.OrgID)
	if err != nil {
		HandleServiceError(w, services.WrapInternal("failed to list members", err), h.logger)
		return
	}

	_ = utils.WriteList(w, members, len(members))
}

// HandleInviteMember handles POST /api/v1/members. The invited user must
// already exist; the membership starts in the invited state and grants no
// access until accepted.
func (h *OrganizationHandler) HandleInviteMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	if !tc.HasPermission(models.PermMemberInvite) {
		HandleServiceError(w, services.ErrInsufficientRole, h.logger)
		return
	}

	var req InviteMemberRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if !req.Role.Valid() {
		_ = utils.WriteBadRequest(w, "unknown role", nil)
		return
	}
	// Owners are created with the organization, never by invite
	if req.Role == models.RoleOwner {
		_ = utils.WriteBadRequest(w, "cannot invite an owner", nil)
		return
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			HandleServiceError(w, services.ErrUserNotFound, h.logger)
			return
		}
		HandleServiceError(w, services.WrapInternal("failed to look up user", err), h.logger)
		return
	}

	if _, err := h.membershipRepo.GetByOrgAndUser(ctx, tc.OrgID, user.ID); err == nil {
		HandleServiceError(w, services.ErrDuplicateMembership, h.logger)
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		HandleServiceError(w, services.WrapInternal("failed to check membership", err), h.logger)
		return
	}

	membership := models.NewMembership(tc.OrgID, user.ID, req.Role)
	membership.Status = models.MembershipInvited

	err = services.WithTransaction(ctx, h.txManager, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := h.membershipRepo.WithTx(tx).Create(txCtx, membership); err != nil {
			return services.WrapInternal("failed to create membership", err)
		}

		audit := models.NewAuditLog(tc.OrgID, models.AuditActionMemberInvited, "membership").
			WithActor(tc.PrincipalID).
			WithResource(membership.ID).
			WithRequestID(requestID)
		if err := h.auditRepo.WithTx(tx).Insert(txCtx, audit); err != nil {
			return services.WrapInternal("failed to write audit entry", err)
		}
		return nil
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.notifier.Notify(ctx, notify.KindMemberInvited, user.ID.String(), map[string]interface{}{
		"org_id": tc.OrgID.String(),
		"role":   string(req.Role),
	})

	h.logger.Info("member invited",
		zap.String("request_id", requestID),
		zap.String("org_id", tc.OrgID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(req.Role)))

	_ = utils.WriteCreated(w, membership)
}

// HandleAcceptInvite handles POST /api/v1/organizations/{id}/accept. Runs
// with authentication only: the invited principal has no resolvable context
// in this organization yet.
func (h *OrganizationHandler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal := middleware.GetPrincipalFromContext(ctx)
	if principal == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}
	orgID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	membership, err := h.membershipRepo.GetByOrgAndUser(ctx, orgID, principal.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			HandleServiceError(w, services.ErrMembershipNotFound, h.logger)
			return
		}
		HandleServiceError(w, services.WrapInternal("failed to load membership", err), h.logger)
		return
	}

	if membership.Status != models.MembershipInvited {
		_ = utils.WriteConflict(w, "membership is not pending acceptance", nil)
		return
	}

	membership.Status = models.MembershipActive
	membership.Touch()

	if err := h.membershipRepo.Update(ctx, membership); err != nil {
		HandleServiceError(w, services.WrapInternal("failed to accept invite", err), h.logger)
		return
	}

	_ = utils.WriteOK(w, membership)
}

// HandleUpdateMemberRole handles PUT /api/v1/members/{id}/role
func (h *OrganizationHandler) HandleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	if !tc.HasPermission(models.PermOrgManage) {
		HandleServiceError(w, services.ErrInsufficientRole, h.logger)
		return
	}
	membershipID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateMemberRoleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	if !req.Role.Valid() || req.Role == models.RoleOwner {
		_ = utils.WriteBadRequest(w, "unknown or restricted role", nil)
		return
	}

	membership, err := h.loadOrgMembership(ctx, tc.OrgID, membershipID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if membership.Role == models.RoleOwner {
		_ = utils.WriteConflict(w, "owner role cannot be changed", nil)
		return
	}

	from := string(membership.Role)
	membership.Role = req.Role

	err = services.WithTransaction(ctx, h.txManager, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := h.membershipRepo.WithTx(tx).Update(txCtx, membership); err != nil {
			return services.WrapInternal("failed to update membership", err)
		}

		audit := models.NewAuditLog(tc.OrgID, models.AuditActionMemberRoleChanged, "membership").
			WithActor(tc.PrincipalID).
			WithResource(membership.ID).
			WithTransition(from, string(req.Role)).
			WithRequestID(requestID)
		if err := h.auditRepo.WithTx(tx).Insert(txCtx, audit); err != nil {
			return services.WrapInternal("failed to write audit entry", err)
		}
		return nil
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, membership)
}

// HandleRevokeMember handles DELETE /api/v1/members/{id}. Memberships are
// revoked, never deleted, so the audit trail keeps its actor references.
func (h *OrganizationHandler) HandleRevokeMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tc, ok := requireTenancy(w, r)
	if !ok {
		return
	}
	if !tc.HasPermission(models.PermOrgManage) {
		HandleServiceError(w, services.ErrInsufficientRole, h.logger)
		return
	}
	membershipID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	membership, err := h.loadOrgMembership(ctx, tc.OrgID, membershipID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if membership.Role == models.RoleOwner {
		_ = utils.WriteConflict(w, "owner membership cannot be revoked", nil)
		return
	}

	membership.Status = models.MembershipRevoked

	if err := h.membershipRepo.Update(ctx, membership); err != nil {
		HandleServiceError(w, services.WrapInternal("failed to revoke membership", err), h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// loadOrgMembership fetches a membership and verifies it belongs to the org
func (h *OrganizationHandler) loadOrgMembership(ctx context.Context, orgID, membershipID uuid.UUID) (*models.Membership, error) {
	membership, err := h.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrMembershipNotFound
		}
		return nil, services.WrapInternal("failed to load membership", err)
	}
	// Cross-org membership IDs are indistinguishable from unknown ones
	if membership.OrgID != orgID {
		return nil, services.ErrMembershipNotFound
	}
	return membership, nil
}
