package blockclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a block kit server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Manifest fetches the block's manifest.
func (c *Client) Manifest(ctx context.Context) (*Manifest, error) {
	var m Manifest
	if err := c.do(ctx, http.MethodGet, "/api/v1/manifest", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ActivateControls grants a block an operational envelope, superseding
// any previous one.
func (c *Client) ActivateControls(ctx context.Context, blockID string, settings ControlSettings) (*Session, error) {
	var s Session
	path := "/api/v1/blocks/" + blockID + "/controls"
	if err := c.do(ctx, http.MethodPost, path, settings, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ActiveControls returns the block's live session, or an APIError with
// code "no_active_authorization" when there is none.
func (c *Client) ActiveControls(ctx context.Context, blockID string) (*Session, error) {
	var s Session
	path := "/api/v1/blocks/" + blockID + "/controls"
	if err := c.do(ctx, http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ExpireSession revokes a control session.
func (c *Client) ExpireSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/sessions/"+sessionID, nil, nil)
}

// Usage reads the cumulative spend for a session.
func (c *Client) Usage(ctx context.Context, sessionID string) (*Usage, error) {
	var u Usage
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+sessionID+"/usage", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Submit sends a proposal for compliance evaluation. Rejection is a
// normal Decision, not an error; an error means the server could not
// evaluate at all. Submissions are not deduplicated.
func (c *Client) Submit(ctx context.Context, p Proposal) (Decision, error) {
	var resp struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
		Detail string `json:"detail"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/proposals", p, &resp); err != nil {
		return Decision{}, err
	}
	return Decision{Status: resp.Status, Reason: resp.Reason, Detail: resp.Detail}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Code == "" {
			apiErr.Code = fmt.Sprintf("http_%d", resp.StatusCode)
			apiErr.Message = string(data)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
