// Package uplink pushes files through the gateway's upload endpoint and
// registers them as submissions.
package uplink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the abort timer applied to every upload
const DefaultTimeout = 45 * time.Second

type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after Login
func (c *Client) SetToken(token string) {
	c.token = token
}

// UploadResponse is the server's answer to POST /api/upload
type UploadResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

// Upload sends body as the multipart field "file" with an optional
// destination path and returns the stored object's public URL. Failures are
// always *Error.
func (c *Client) Upload(ctx context.Context, filename string, body io.Reader, path string) (*UploadResponse, error) {
	ctx, cancel := context.WithTimeoutCause(ctx, c.timeout, ErrTimeout)
	defer cancel()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, filename, body, path))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		pr.Close()
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, c.classify(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	var result UploadResponse
	parseErr := json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, result.Error)
	}
	if parseErr != nil || !result.Success || result.URL == "" {
		return nil, rejectedError(resp.StatusCode, result.Error)
	}
	return &result, nil
}

func writeMultipart(mw *multipart.Writer, filename string, body io.Reader, path string) error {
	if path != "" {
		if err := mw.WriteField("path", path); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	return mw.Close()
}

func (c *Client) classify(ctx context.Context, err error) *Error {
	if errors.Is(context.Cause(ctx), ErrTimeout) {
		return timeoutError()
	}
	return transportError(err)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Error   string `json:"error"`
}

// Login exchanges credentials for a bearer token and keeps it on the client
func (c *Client) Login(ctx context.Context, employeeID, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"employee_id": employeeID,
		"password":    password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var result loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, &result); err != nil {
		return "", err
	}
	if !result.Success || result.Token == "" {
		return "", fmt.Errorf("login failed: %s", result.Error)
	}
	c.token = result.Token
	return result.Token, nil
}

// Health returns the gateway's health document
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return errors.New(e.Error)
		}
		return fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w, body: %s", err, string(raw))
	}
	return nil
}
