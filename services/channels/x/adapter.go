package x

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/contentpulse/contentpulse-backend/services/channels"
)

const (
	defaultBaseURL = "https://api.twitter.com/2"

	// X post body limit in characters
	maxBodyLength = 280
)

// XAdapter implements the Channel interface for X (Twitter) posts
type XAdapter struct {
	config     channels.ChannelConfig
	httpClient *http.Client
}

// NewXAdapter creates a new X adapter
func NewXAdapter(config channels.ChannelConfig) *XAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &XAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name returns the channel name
func (a *XAdapter) Name() string {
	return "x"
}

// MaxBodyLength returns the channel's body length limit
func (a *XAdapter) MaxBodyLength() int {
	return maxBodyLength
}

// Deliver posts a payload to X. Single attempt; the caller owns retry.
func (a *XAdapter) Deliver(ctx context.Context, payload *channels.Payload) (*channels.Delivery, error) {
	startTime := time.Now()

	tweetReq := &tweetRequest{
		Text: channels.TruncateBody(payload.Body, maxBodyLength),
	}

	reqBody, err := json.Marshal(tweetReq)
	if err != nil {
		return nil, channels.NewChannelError(a.Name(), "MARSHAL_ERROR", "Failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/tweets", strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, channels.NewChannelError(a.Name(), "REQUEST_ERROR", "Failed to create request", 0, false, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		// Network failure, retryable
		return nil, channels.NewChannelError(a.Name(), "HTTP_ERROR", "HTTP request failed", 0, true, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, channels.NewChannelError(a.Name(), "READ_ERROR", "Failed to read response", httpResp.StatusCode, false, err)
	}

	if httpResp.StatusCode != http.StatusCreated && httpResp.StatusCode != http.StatusOK {
		return nil, a.handleErrorResponse(httpResp.StatusCode, respBody)
	}

	var tweetResp tweetResponse
	if err := json.Unmarshal(respBody, &tweetResp); err != nil {
		return nil, channels.NewChannelError(a.Name(), "UNMARSHAL_ERROR", "Failed to unmarshal response", httpResp.StatusCode, false, err)
	}

	if tweetResp.Data.ID == "" {
		return nil, channels.NewChannelError(a.Name(), "EMPTY_RESPONSE", "No tweet ID in response", httpResp.StatusCode, false, nil)
	}

	return &channels.Delivery{
		ExternalID: tweetResp.Data.ID,
		Latency:    time.Since(startTime),
	}, nil
}

// IsAvailable checks if the channel is currently reachable
func (a *XAdapter) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", a.config.BaseURL+"/users/me", nil)
	if err != nil {
		return false
	}

	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// handleErrorResponse handles X error responses
func (a *XAdapter) handleErrorResponse(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return channels.NewChannelError(a.Name(), "UNKNOWN_ERROR", string(body), statusCode, channels.RetryableStatus(statusCode), err)
	}

	message := errResp.Detail
	if message == "" && len(errResp.Errors) > 0 {
		message = errResp.Errors[0].Message
	}

	return channels.NewChannelError(
		a.Name(),
		errResp.Title,
		message,
		statusCode,
		channels.RetryableStatus(statusCode),
		errors.New(message),
	)
}

// X-specific request/response types

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}
