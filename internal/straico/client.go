// Package straico is the upstream HTTP client for Straico's non-streaming
// prompt/completion endpoint.
package straico

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tjfontaine/straico-gateway/internal/domain"
)

const (
	defaultBaseURL = "https://api.straico.com"
	completionPath = "/v1/prompt/completion"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the default upstream base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the http.Client used to reach the upstream,
// letting callers install timeouts or (in tests) a go-vcr transport.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client calls Straico's prompt/completion endpoint.
type Client struct {
	bearerToken string
	baseURL     string
	httpClient  *http.Client
}

// NewClient builds a Client authorized with bearerToken.
func NewClient(bearerToken string, opts ...ClientOption) *Client {
	c := &Client{
		bearerToken: bearerToken,
		baseURL:     defaultBaseURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wireRequest is the JSON body Straico's endpoint accepts.
type wireRequest struct {
	Model       string   `json:"model"`
	Message     string   `json:"message"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// wireResponse is the envelope Straico wraps every reply in.
type wireResponse struct {
	Data struct {
		Model      string `json:"model"`
		Completion string `json:"completion"`
		Usage      struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	} `json:"data"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Complete sends req to Straico and normalizes the reply, or classifies any
// failure per the error taxonomy.
func (c *Client) Complete(ctx context.Context, req domain.UpstreamRequest) (domain.UpstreamResponse, error) {
	body, err := json.Marshal(wireRequest{
		Model:       req.Model,
		Message:     req.Message,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return domain.UpstreamResponse{}, domain.ErrSerde(fmt.Sprintf("encoding upstream request: %s", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionPath, bytes.NewReader(body))
	if err != nil {
		return domain.UpstreamResponse{}, domain.ErrSerde(fmt.Sprintf("building upstream request: %s", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.bearerToken)
	httpReq.Header.Set("User-Agent", "straico-gateway/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.UpstreamResponse{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.UpstreamResponse{}, domain.ErrResponseParse(fmt.Sprintf("reading upstream body: %s", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.UpstreamResponse{}, domain.ErrRateLimited(upstreamMessage(respBody, "rate limited by upstream"), resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.UpstreamResponse{}, domain.ErrUpstream(resp.StatusCode, upstreamMessage(respBody, fmt.Sprintf("upstream returned status %d", resp.StatusCode)))
	}

	var wire wireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return domain.UpstreamResponse{}, domain.ErrResponseParse(fmt.Sprintf("decoding upstream body: %s", err))
	}
	if !wire.Success {
		msg := wire.Error
		if msg == "" {
			msg = "upstream reported failure with no error message"
		}
		return domain.UpstreamResponse{}, domain.ErrUpstream(resp.StatusCode, msg)
	}

	return domain.UpstreamResponse{
		Model:      wire.Data.Model,
		Completion: wire.Data.Completion,
		Usage: domain.Usage{
			PromptTokens:     wire.Data.Usage.PromptTokens,
			CompletionTokens: wire.Data.Usage.CompletionTokens,
			TotalTokens:      wire.Data.Usage.TotalTokens,
		},
	}, nil
}

func upstreamMessage(body []byte, fallback string) string {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		return wire.Error
	}
	return fallback
}

func classifyTransportError(err error) *domain.APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrNetworkTimeout(err.Error())
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrNetworkTimeout(err.Error())
	}
	return domain.ErrNetworkConnect(err.Error())
}
