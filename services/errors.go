package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound               ErrorType = "not_found"
	ErrorTypeValidation             ErrorType = "validation"
	ErrorTypeUnauthorized           ErrorType = "unauthorized"
	ErrorTypeAccessDenied           ErrorType = "access_denied"
	ErrorTypeNoOrganizationContext  ErrorType = "no_organization_context"
	ErrorTypeInvalidTransition      ErrorType = "invalid_transition"
	ErrorTypeConcurrentModification ErrorType = "concurrent_modification"
	ErrorTypeNotApproved            ErrorType = "not_approved"
	ErrorTypeConflict               ErrorType = "conflict"
	ErrorTypeInternal               ErrorType = "internal"
	ErrorTypeExternal               ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrOrganizationNotFound = NewDomainError(ErrorTypeNotFound, "organization not found", nil)
	ErrMembershipNotFound   = NewDomainError(ErrorTypeNotFound, "membership not found", nil)
	ErrUserNotFound         = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrIdeaNotFound         = NewDomainError(ErrorTypeNotFound, "idea not found", nil)
	ErrDraftNotFound        = NewDomainError(ErrorTypeNotFound, "content draft not found", nil)

	// Validation Errors
	ErrInvalidInput       = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidSlug        = NewDomainError(ErrorTypeValidation, "invalid slug format", nil)
	ErrInvalidStatus      = NewDomainError(ErrorTypeValidation, "invalid status value", nil)
	ErrEmptyRevisionNotes = NewDomainError(ErrorTypeValidation, "revision notes cannot be empty", nil)
	ErrIdeaLocked         = NewDomainError(ErrorTypeValidation, "idea is immutable once a draft is approved", nil)

	// Authentication Errors
	ErrUnauthorized = NewDomainError(ErrorTypeUnauthorized, "unauthorized", nil)
	ErrInvalidToken = NewDomainError(ErrorTypeUnauthorized, "invalid authentication token", nil)
	ErrTokenExpired = NewDomainError(ErrorTypeUnauthorized, "authentication token expired", nil)

	// Tenancy boundary errors. Terminal for the request, never retried.
	ErrAccessDenied          = NewDomainError(ErrorTypeAccessDenied, "access denied for this organization", nil)
	ErrNoOrganizationContext = NewDomainError(ErrorTypeNoOrganizationContext, "no organization context could be resolved", nil)
	ErrOrganizationDisabled  = NewDomainError(ErrorTypeAccessDenied, "organization subscription is disabled", nil)
	ErrInsufficientRole      = NewDomainError(ErrorTypeAccessDenied, "role does not permit this operation", nil)

	// Workflow errors
	ErrInvalidTransition      = NewDomainError(ErrorTypeInvalidTransition, "transition not defined for current state", nil)
	ErrConcurrentModification = NewDomainError(ErrorTypeConcurrentModification, "entity was modified concurrently", nil)
	ErrNotApproved            = NewDomainError(ErrorTypeNotApproved, "draft must be approved before publishing", nil)

	// Conflict Errors
	ErrDuplicateSlug       = NewDomainError(ErrorTypeConflict, "slug already exists", nil)
	ErrDuplicateMembership = NewDomainError(ErrorTypeConflict, "user already belongs to this organization", nil)

	// Internal Errors
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError     = NewDomainError(ErrorTypeInternal, "database error", nil)
	ErrTransactionFailed = NewDomainError(ErrorTypeInternal, "transaction failed", nil)

	// External Channel Errors
	ErrChannelUnavailable = NewDomainError(ErrorTypeExternal, "publish channel unavailable", nil)
	ErrChannelTimeout     = NewDomainError(ErrorTypeExternal, "publish channel timeout", nil)
)

// NewInvalidTransition builds an InvalidTransition error carrying the
// offending from/to states so callers can distinguish "this transition does
// not exist" from a permission failure.
func NewInvalidTransition(from, to string) *DomainError {
	return NewDomainError(ErrorTypeInvalidTransition,
		fmt.Sprintf("no transition from %q to %q", from, to), nil).
		WithDetail("from", from).
		WithDetail("to", to)
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnauthorized
	}
	return false
}

// IsAccessDeniedError checks if an error is a tenancy access denial
func IsAccessDeniedError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeAccessDenied
	}
	return false
}

// IsNoOrganizationContextError checks if an error means no tenant could be resolved
func IsNoOrganizationContextError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNoOrganizationContext
	}
	return false
}

// IsInvalidTransitionError checks if an error is a workflow guard violation
func IsInvalidTransitionError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInvalidTransition
	}
	return false
}

// IsConcurrentModificationError checks if an error is an optimistic-concurrency
// conflict. These are safe to retry from a fresh read.
func IsConcurrentModificationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeConcurrentModification
	}
	return false
}

// IsNotApprovedError checks if an error is a publish precondition failure
func IsNotApprovedError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNotApproved
	}
	return false
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeConflict
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// IsExternalError checks if an error is an external channel error
func IsExternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeExternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapExternal wraps an error as an external channel error
func WrapExternal(message string, err error) error {
	return NewDomainError(ErrorTypeExternal, message, err)
}
