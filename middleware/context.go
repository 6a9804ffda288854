package middleware

import (
	"context"

	"github.com/contentpulse/contentpulse-backend/auth"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"

	// PrincipalKey is the context key for the authenticated principal
	PrincipalKey contextKey = "principal"

	// TenancyKey is the context key for the resolved organization context
	TenancyKey contextKey = "tenancy"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetClaimsFromContext retrieves parsed token claims from context
func GetClaimsFromContext(ctx context.Context) *auth.ParsedClaims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*auth.ParsedClaims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds parsed token claims to the context
func WithClaims(ctx context.Context, claims *auth.ParsedClaims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetPrincipalFromContext retrieves the authenticated principal from context
func GetPrincipalFromContext(ctx context.Context) *tenancy.Principal {
	if val := ctx.Value(PrincipalKey); val != nil {
		if principal, ok := val.(*tenancy.Principal); ok {
			return principal
		}
	}
	return nil
}

// WithPrincipal adds the authenticated principal to the context
func WithPrincipal(ctx context.Context, principal *tenancy.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// GetTenancyFromContext retrieves the resolved organization context
func GetTenancyFromContext(ctx context.Context) *tenancy.Context {
	if val := ctx.Value(TenancyKey); val != nil {
		if tc, ok := val.(*tenancy.Context); ok {
			return tc
		}
	}
	return nil
}

// WithTenancy adds the resolved organization context to the context
func WithTenancy(ctx context.Context, tc *tenancy.Context) context.Context {
	return context.WithValue(ctx, TenancyKey, tc)
}
