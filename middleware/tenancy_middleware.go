package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/utils"
)

// OrgSelectorHeader carries an explicit organization selector (ID or slug).
// The org query parameter is accepted as a fallback for browser navigation.
const OrgSelectorHeader = "X-Organization"

// TenancyMiddleware resolves the organization context for authenticated
// requests and records membership recency as a side effect. Resolution itself
// is delegated to the tenancy resolver, which stays pure.
type TenancyMiddleware struct {
	resolver    *tenancy.Resolver
	memberships repositories.MembershipRepository
	logger      *zap.Logger
}

// NewTenancyMiddleware creates a new TenancyMiddleware
func NewTenancyMiddleware(
	resolver *tenancy.Resolver,
	memberships repositories.MembershipRepository,
	logger *zap.Logger,
) *TenancyMiddleware {
	return &TenancyMiddleware{
		resolver:    resolver,
		memberships: memberships,
		logger:      logger,
	}
}

// ResolveTenant is a middleware that establishes the single organization
// context for the request. It must run after RequireAuth.
func (m *TenancyMiddleware) ResolveTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		principal := GetPrincipalFromContext(ctx)
		if principal == nil {
			m.logger.Error("principal not found in context",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		selector := orgSelector(r)

		tc, err := m.resolver.Resolve(ctx, *principal, selector)
		if err != nil {
			m.writeResolutionError(w, requestID, selector, err)
			return
		}

		m.touchMembership(ctx, tc)

		m.logger.Debug("organization context resolved",
			zap.String("request_id", requestID),
			zap.String("org_id", tc.OrgID.String()),
			zap.String("role", string(tc.Role)))

		next.ServeHTTP(w, r.WithContext(WithTenancy(ctx, tc)))
	})
}

func (m *TenancyMiddleware) writeResolutionError(w http.ResponseWriter, requestID, selector string, err error) {
	switch {
	case errors.Is(err, services.ErrAccessDenied):
		m.logger.Warn("organization access denied",
			zap.String("request_id", requestID),
			zap.String("selector", selector))
		_ = utils.WriteForbidden(w, "Access denied for this organization")
	case errors.Is(err, services.ErrOrganizationDisabled):
		m.logger.Warn("organization disabled",
			zap.String("request_id", requestID),
			zap.String("selector", selector))
		_ = utils.WriteForbidden(w, "Organization subscription is disabled")
	case errors.Is(err, services.ErrNoOrganizationContext):
		_ = utils.WriteForbidden(w, "No organization context; select an organization")
	default:
		m.logger.Error("tenant resolution failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
	}
}

// touchMembership records the resolved membership as most recently used.
// Best effort: a failure here must never fail the request, and super admins
// operating in organizations they do not belong to have nothing to touch.
func (m *TenancyMiddleware) touchMembership(ctx context.Context, tc *tenancy.Context) {
	membership, err := m.memberships.GetByOrgAndUser(ctx, tc.OrgID, tc.PrincipalID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			m.logger.Warn("failed to load membership for recency update",
				zap.String("org_id", tc.OrgID.String()),
				zap.Error(err))
		}
		return
	}
	if !membership.IsActive() {
		return
	}

	membership.Touch()
	if err := m.memberships.Update(ctx, membership); err != nil {
		m.logger.Warn("failed to record membership recency",
			zap.String("org_id", tc.OrgID.String()),
			zap.Error(err))
	}
}

// orgSelector extracts the explicit organization selector from the request
func orgSelector(r *http.Request) string {
	if selector := r.Header.Get(OrgSelectorHeader); selector != "" {
		return selector
	}
	return r.URL.Query().Get("org")
}
