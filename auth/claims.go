package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingClaim is returned when a required claim is missing
	ErrMissingClaim = errors.New("missing required claim")
)

// Claims represents the custom claims in an access token. The subject is the
// user ID; organization context is never baked into the token, it is resolved
// per request.
type Claims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	SuperAdmin bool   `json:"super_admin,omitempty"`
}

// ParsedClaims represents parsed and validated claims
type ParsedClaims struct {
	UserID     uuid.UUID
	Email      string
	SuperAdmin bool
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// parseClaims converts Claims to ParsedClaims with proper type conversions
func parseClaims(claims *Claims) (*ParsedClaims, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid sub UUID: %w", err)
	}

	parsed := &ParsedClaims{
		UserID:     userID,
		Email:      claims.Email,
		SuperAdmin: claims.SuperAdmin,
	}

	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}

	return parsed, nil
}
