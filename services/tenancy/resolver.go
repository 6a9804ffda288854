package tenancy

import (
	"context"
	"errors"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Principal is the authenticated caller before any tenant is resolved
type Principal struct {
	UserID     uuid.UUID
	SuperAdmin bool
}

// Resolver determines the single organization context for a request.
// Resolution is pure: it never persists anything, and it never defaults to
// "first organization found" for a non-admin principal.
type Resolver struct {
	orgRepo        repositories.OrganizationRepository
	membershipRepo repositories.MembershipRepository
	logger         *zap.Logger
}

// NewResolver creates a new tenancy resolver
func NewResolver(
	orgRepo repositories.OrganizationRepository,
	membershipRepo repositories.MembershipRepository,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// Resolve determines the organization context for a principal. The selector,
// when present, is an organization ID or slug supplied explicitly by the
// caller (e.g. an admin switching client context).
//
// Resolution order:
//  1. super admin with an explicit selector: honored outright
//  2. explicit selector: requires an active membership, else AccessDenied
//  3. no selector: the principal's most recently used active membership
//  4. no active membership at all: NoOrganizationContext
func (r *Resolver) Resolve(ctx context.Context, principal Principal, selector string) (*Context, error) {
	if selector != "" {
		org, err := r.lookupOrganization(ctx, selector)
		if err != nil {
			return nil, err
		}
		return r.resolveExplicit(ctx, principal, org)
	}
	return r.resolveDefault(ctx, principal)
}

// lookupOrganization resolves a selector that may be a UUID or a slug
func (r *Resolver) lookupOrganization(ctx context.Context, selector string) (*models.Organization, error) {
	var org *models.Organization
	var err error

	if orgID, parseErr := uuid.Parse(selector); parseErr == nil {
		org, err = r.orgRepo.GetByID(ctx, orgID)
	} else {
		org, err = r.orgRepo.GetBySlug(ctx, selector)
	}

	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Do not reveal whether the organization exists
			return nil, services.ErrAccessDenied
		}
		return nil, services.WrapInternal("failed to look up organization", err)
	}

	return org, nil
}

func (r *Resolver) resolveExplicit(ctx context.Context, principal Principal, org *models.Organization) (*Context, error) {
	// Super admins may select any organization for cross-tenant support,
	// including disabled ones
	if principal.SuperAdmin {
		r.logger.Info("super admin selected organization",
			zap.String("user_id", principal.UserID.String()),
			zap.String("org_id", org.ID.String()),
		)
		return &Context{
			OrgID:       org.ID,
			PrincipalID: principal.UserID,
			Role:        models.RoleAdmin,
			Permissions: models.RoleAdmin.Permissions(),
			SuperAdmin:  true,
		}, nil
	}

	if org.IsDisabled() {
		return nil, services.ErrOrganizationDisabled
	}

	membership, err := r.membershipRepo.GetByOrgAndUser(ctx, org.ID, principal.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrAccessDenied
		}
		return nil, services.WrapInternal("failed to look up membership", err)
	}

	if !membership.IsActive() {
		return nil, services.ErrAccessDenied
	}

	return r.contextFromMembership(principal, membership), nil
}

func (r *Resolver) resolveDefault(ctx context.Context, principal Principal) (*Context, error) {
	memberships, err := r.membershipRepo.ListActiveByUser(ctx, principal.UserID)
	if err != nil {
		return nil, services.WrapInternal("failed to list memberships", err)
	}

	for _, membership := range memberships {
		org, err := r.orgRepo.GetByID(ctx, membership.OrgID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, services.WrapInternal("failed to look up organization", err)
		}
		if org.IsDisabled() {
			continue
		}
		return r.contextFromMembership(principal, membership), nil
	}

	return nil, services.ErrNoOrganizationContext
}

func (r *Resolver) contextFromMembership(principal Principal, membership *models.Membership) *Context {
	return &Context{
		OrgID:       membership.OrgID,
		PrincipalID: principal.UserID,
		Role:        membership.Role,
		Permissions: membership.Role.Permissions(),
		SuperAdmin:  principal.SuperAdmin,
	}
}
