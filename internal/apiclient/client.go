// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apiclient is the single HTTP wrapper used to talk to the booth API.
// It prefixes the configured base URL, attaches the caller's bearer token and
// turns non-2xx responses into *Error values carrying the server's message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Config configures the API client.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the booth REST API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	sanitizer *bluemonday.Policy
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("apiclient: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      httpClient,
		sanitizer: bluemonday.StrictPolicy(),
	}, nil
}

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: remote error %d", e.Status)
	}
	return fmt.Sprintf("apiclient: remote error %d: %s", e.Status, e.Message)
}

// ServerMessage returns the message of an *Error in err's chain, or "".
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Get issues a GET and decodes the JSON response into target.
func (c *Client) Get(ctx context.Context, path string, target any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, target)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, payload, target any) error {
	return c.doJSON(ctx, http.MethodPost, path, payload, target)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, target any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, target)
}

// FilePart is the file of a multipart upload.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Body        io.Reader
}

// Field is a plain multipart form field. A slice keeps the field order stable.
type Field struct {
	Name  string
	Value string
}

// PostMultipart sends fields and file as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields []Field, file FilePart, target any) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("apiclient: write field %s: %w", f.Name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.FileName))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("apiclient: create file part: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("apiclient: copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("apiclient: close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, target)
}

// Ping checks that the API answers at all. Any response below 500 counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/booths", nil)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode >= 500 {
		return &Error{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("apiclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, target)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Status: resp.StatusCode, Message: c.errorMessage(data)}
	}
	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("apiclient: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// maxMessageRunes caps server messages shown to the admin.
const maxMessageRunes = 300

// errorMessage extracts {"message"} or {"error"} from a JSON body, falling
// back to the raw text. Markup is stripped.
func (c *Client) errorMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(data, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	} else {
		msg = string(data)
	}
	msg = strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(msg)))
	if r := []rune(msg); len(r) > maxMessageRunes {
		msg = string(r[:maxMessageRunes])
	}
	return msg
}
