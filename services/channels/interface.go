package channels

import (
	"context"
	"time"
)

// Channel represents a unified external publishing channel interface.
// Deliver is single-shot: the publish coordinator owns retry and backoff,
// so adapters must not loop internally.
type Channel interface {
	// Name returns the channel name (e.g., "linkedin", "x")
	Name() string

	// Deliver posts a payload to the channel, returning the external ID
	// assigned by the platform
	Deliver(ctx context.Context, payload *Payload) (*Delivery, error)

	// MaxBodyLength returns the channel's body length limit in characters,
	// 0 when unlimited
	MaxBodyLength() int

	// IsAvailable checks if the channel is currently reachable
	IsAvailable(ctx context.Context) bool
}

// Payload is the channel-agnostic content to publish. Adapters truncate or
// reshape it to fit their platform.
type Payload struct {
	// Body is the text content
	Body string `json:"body"`

	// ContentType of the originating draft (post, article, newsletter, ad)
	ContentType string `json:"content_type"`

	// DraftID for correlation in logs
	DraftID string `json:"draft_id"`

	// Metadata for tracking and logging
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Delivery is a successful channel delivery
type Delivery struct {
	// ExternalID assigned by the platform
	ExternalID string `json:"external_id"`

	// Latency of the delivery call
	Latency time.Duration `json:"latency"`
}

// ChannelConfig holds common configuration for channel adapters
type ChannelConfig struct {
	// AccessToken for authentication
	AccessToken string

	// BaseURL for the API (optional override)
	BaseURL string

	// Timeout for requests
	Timeout time.Duration

	// Additional headers
	Headers map[string]string
}

// DefaultChannelConfig returns a sensible default configuration
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
	}
}

// ChannelError represents an error from a channel. Retryable distinguishes
// transient failures (429, 5xx, network) from permanent ones (other 4xx);
// the publish coordinator's retry policy depends on this flag.
type ChannelError struct {
	// Channel that generated the error
	Channel string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates if the delivery can be retried
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ChannelError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ChannelError) Unwrap() error {
	return e.Cause
}

// NewChannelError creates a new channel error
func NewChannelError(channel, code, message string, statusCode int, retryable bool, cause error) *ChannelError {
	return &ChannelError{
		Channel:    channel,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is a transient channel failure. Errors that
// are not ChannelErrors (network failures wrapped by the HTTP client) are
// treated as transient.
func IsRetryable(err error) bool {
	if chanErr, ok := err.(*ChannelError); ok {
		return chanErr.Retryable
	}
	return err != nil
}

// RetryableStatus reports whether an HTTP status warrants a retry
func RetryableStatus(statusCode int) bool {
	return statusCode >= 500 || statusCode == 429
}

// TruncateBody cuts a body down to a channel's length limit, appending an
// ellipsis when truncation occurred
func TruncateBody(body string, limit int) string {
	if limit <= 0 || len([]rune(body)) <= limit {
		return body
	}
	runes := []rune(body)
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
