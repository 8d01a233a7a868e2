// Package images uploads product photos to ImageKit and returns the hosted
// URLs stored on product records.
package images

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultUploadURL = "https://upload.imagekit.io/api/v1/files/upload"

// ErrMissingConfig is raised at construction when the private key is absent.
var ErrMissingConfig = errors.New("missing ImageKit configuration")

type Client struct {
	httpClient *http.Client
	uploadURL  string
	privateKey string
	folder     string
}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUploadURL points the client at a different endpoint (used by tests).
func WithUploadURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.uploadURL = u
		}
	}
}

// WithFolder uploads into the given ImageKit folder.
func WithFolder(folder string) Option {
	return func(c *Client) {
		c.folder = folder
	}
}

func NewClient(privateKey string, opts ...Option) (*Client, error) {
	if privateKey == "" {
		return nil, ErrMissingConfig
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		uploadURL:  defaultUploadURL,
		privateKey: privateKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type uploadResponse struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
	Name   string `json:"name"`
}

// Upload pushes one image and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := form.WriteField("fileName", filename); err != nil {
		return "", err
	}
	if c.folder != "" {
		if err := form.WriteField("folder", c.folder); err != nil {
			return "", err
		}
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", err
	}
	// ImageKit authenticates uploads with the private key as the basic-auth
	// username and an empty password.
	req.SetBasicAuth(c.privateKey, "")
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagekit upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("imagekit upload: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New("imagekit upload: response missing url")
	}
	return out.URL, nil
}
