// Package api is the HTTP client for the scheduling backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/verte-zerg/jadwal/internal/model"
)

const (
	maxErrorBody = 4 << 10
	// maxErrorExcerpt is the display width kept from a non-JSON error body.
	maxErrorExcerpt = 200
)

// SessionStore persists the credentials the client authenticates with.
type SessionStore interface {
	SaveSession(ctx context.Context, session model.Session) error
	ClearSession(ctx context.Context) error
}

// Client talks to the backend REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithToken seeds the bearer token, usually from a stored session.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for baseURL. A nil logger discards logs.
func New(baseURL string, timeout time.Duration, sessions SessionStore, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	accept      string
	// anonymous requests do not treat 401 as an expired session.
	anonymous bool
}

// do sends req and returns the response on 2xx. Callers close the body.
func (c *Client) do(ctx context.Context, req request) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	accept := req.accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", req.method),
		zap.String("path", req.path),
	)
	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, &TransportError{Method: req.method, Path: req.path, Err: err}
	}
	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized && !req.anonymous {
		c.setToken("")
		if c.sessions != nil {
			if err := c.sessions.ClearSession(ctx); err != nil {
				log.Error("failed to clear session", zap.Error(err))
			}
		}
		return nil, ErrUnauthorized
	}
	httpErr := readHTTPError(resp)
	log.Info("backend error", zap.Int("status", httpErr.Status), zap.Bool("json", httpErr.JSON))
	return nil, httpErr
}

func readHTTPError(resp *http.Response) *HTTPError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	httpErr := &HTTPError{Status: resp.StatusCode}
	var body struct {
		Message string              `json:"message"`
		Error   string              `json:"error"`
		Errors  map[string][]string `json:"errors"`
	}
	if json.Unmarshal(raw, &body) == nil && (body.Message != "" || body.Error != "" || len(body.Errors) > 0) {
		httpErr.JSON = true
		httpErr.Message = body.Message
		if httpErr.Message == "" {
			httpErr.Message = body.Error
		}
		httpErr.Fields = body.Errors
		return httpErr
	}
	// The body limit may cut a rune in half.
	text := strings.ToValidUTF8(strings.TrimSpace(string(raw)), "")
	httpErr.Message = runewidth.Truncate(text, maxErrorExcerpt, "...")
	return httpErr
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return decode(resp, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, request{method: method, path: path, body: body, contentType: contentType})
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
