package linkedin

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
	defaultBaseURL = "https://api.linkedin.com/v2"

	// LinkedIn post body limit in characters
	maxBodyLength = 3000
)

// LinkedInAdapter implements the Channel interface for LinkedIn posts
type LinkedInAdapter struct {
	config     channels.ChannelConfig
	authorURN  string
	httpClient *http.Client
}

// NewLinkedInAdapter creates a new LinkedIn adapter
func NewLinkedInAdapter(config channels.ChannelConfig, authorURN string) *LinkedInAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &LinkedInAdapter{
		config:    config,
		authorURN: authorURN,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name returns the channel name
func (a *LinkedInAdapter) Name() string {
	return "linkedin"
}

// MaxBodyLength returns the channel's body length limit
func (a *LinkedInAdapter) MaxBodyLength() int {
	return maxBodyLength
}

// Deliver posts a payload to LinkedIn. Single attempt; the caller owns retry.
func (a *LinkedInAdapter) Deliver(ctx context.Context, payload *channels.Payload) (*channels.Delivery, error) {
	startTime := time.Now()

	ugcReq := a.buildUGCRequest(payload)

	reqBody, err := json.Marshal(ugcReq)
	if err != nil {
		return nil, channels.NewChannelError(a.Name(), "MARSHAL_ERROR", "Failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/ugcPosts", strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, channels.NewChannelError(a.Name(), "REQUEST_ERROR", "Failed to create request", 0, false, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	httpReq.Header.Set("X-Restli-Protocol-Version", "2.0.0")
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

	var ugcResp ugcPostResponse
	if err := json.Unmarshal(respBody, &ugcResp); err != nil {
		return nil, channels.NewChannelError(a.Name(), "UNMARSHAL_ERROR", "Failed to unmarshal response", httpResp.StatusCode, false, err)
	}

	// LinkedIn also returns the URN in the X-RestLi-Id header
	externalID := ugcResp.ID
	if externalID == "" {
		externalID = httpResp.Header.Get("X-RestLi-Id")
	}
	if externalID == "" {
		return nil, channels.NewChannelError(a.Name(), "EMPTY_RESPONSE", "No post ID in response", httpResp.StatusCode, false, nil)
	}

	return &channels.Delivery{
		ExternalID: externalID,
		Latency:    time.Since(startTime),
	}, nil
}

// IsAvailable checks if the channel is currently reachable
func (a *LinkedInAdapter) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", a.config.BaseURL+"/me", nil)
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

// buildUGCRequest converts the payload to LinkedIn's UGC post format
func (a *LinkedInAdapter) buildUGCRequest(payload *channels.Payload) *ugcPostRequest {
	body := channels.TruncateBody(payload.Body, maxBodyLength)

	return &ugcPostRequest{
		Author:         a.authorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    textValue{Text: body},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: visibility{
			MemberNetworkVisibility: "PUBLIC",
		},
	}
}

// handleErrorResponse handles LinkedIn error responses
func (a *LinkedInAdapter) handleErrorResponse(statusCode int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return channels.NewChannelError(a.Name(), "UNKNOWN_ERROR", string(body), statusCode, channels.RetryableStatus(statusCode), err)
	}

	return channels.NewChannelError(
		a.Name(),
		"API_ERROR",
		errResp.Message,
		statusCode,
		channels.RetryableStatus(statusCode),
		errors.New(errResp.Message),
	)
}

// LinkedIn-specific request/response types

type ugcPostRequest struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    textValue `json:"shareCommentary"`
	ShareMediaCategory string    `json:"shareMediaCategory"`
}

type textValue struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type ugcPostResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message      string `json:"message"`
	ServiceError int    `json:"serviceErrorCode"`
	Status       int    `json:"status"`
}
