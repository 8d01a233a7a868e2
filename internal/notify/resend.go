// Package notify dispatches transactional email through the Resend API.
// Sends are fire-and-forget side effects of lifecycle transitions: a failed
// send never mutates lifecycle state, it is only reported back to the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.resend.com/emails"

// ErrMissingConfig is raised at construction when the API key or addresses
// are absent.
var ErrMissingConfig = errors.New("missing email configuration")

// Email is a single outbound message.
type Email struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Client sends email through the Resend HTTP API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAPIURL points the client at a different endpoint (used by tests).
func WithAPIURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.apiURL = u
		}
	}
}

func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingConfig
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiURL:     defaultAPIURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Send posts one email. A non-2xx response surfaces the response body as the
// error message.
func (c *Client) Send(ctx context.Context, email Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email send: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
