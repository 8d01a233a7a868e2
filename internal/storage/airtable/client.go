// Package airtable adapts the hosted Airtable REST API as the record store
// behind the app-layer repositories. The backend offers no transactions or
// conditional writes; multi-step flows above this layer are written to
// tolerate partial completion.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.airtable.com/v0"

var (
	// ErrMissingConfig is raised at construction when credentials are absent,
	// before any call can be attempted.
	ErrMissingConfig = errors.New("missing Airtable API configuration")
	// ErrRecordNotFound is returned for 404s on single-record operations.
	ErrRecordNotFound = errors.New("record not found")
	// ErrUnavailable wraps transport failures and non-2xx responses.
	ErrUnavailable = errors.New("record store unavailable")
)

// Record is a raw Airtable row: opaque id plus a loosely typed field map.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	baseID     string
}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client (timeouts are the caller's call).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at a different API root (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// NewClient builds an Airtable client. A missing token or base id is a hard
// configuration error.
func NewClient(token, baseID string, opts ...Option) (*Client, error) {
	if token == "" || baseID == "" {
		return nil, ErrMissingConfig
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		baseID:     baseID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// List fetches every record in a table, following the API's pagination
// offsets.
func (c *Client) List(ctx context.Context, table string) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		endpoint := c.tableURL(table)
		if offset != "" {
			endpoint += "?offset=" + url.QueryEscape(offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, table, id string) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodGet, c.recordURL(table, id), nil, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Create writes a new record and returns it with the backend-assigned id.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (Record, error) {
	body := map[string]any{"fields": fields}
	var rec Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update patches the given fields on a record. typecast lets the backend
// coerce values into the column types.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (Record, error) {
	body := map[string]any{"fields": fields, "typecast": true}
	var rec Record
	if err := c.do(ctx, http.MethodPatch, c.recordURL(table, id), body, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes a record permanently.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.do(ctx, http.MethodDelete, c.recordURL(table, id), nil, nil)
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

func (c *Client) recordURL(table, id string) string {
	return c.tableURL(table) + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrRecordNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, endpoint, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
