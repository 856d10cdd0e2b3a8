package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tracker/cmd/identity/ids"
	"tracker/cmd/internal/credstore"
)

const (
	// DefaultTimeout bounds every request. Exceeding it is a no-response
	// network failure, never a 401.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes bounds response bodies read into memory.
	maxResponseBytes = 1 << 20

	userAgent = "tracker-cli/1.0"
)

// Config defines runtime configuration for the gateway.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api/v1".
	BaseURL string

	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

// Client is the authentication API gateway.
type Client struct {
	baseURL string
	http    *http.Client
	creds   credstore.Store
	log     *slog.Logger
	metrics *Metrics
}

// New constructs a Client. metrics may be nil to disable instrumentation.
func New(cfg Config, creds credstore.Store, log *slog.Logger, metrics *Metrics) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if log == nil {
		log = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		log:     log,
		metrics: metrics,
	}, nil
}

// do performs one logical request: marshal, attach bearer, execute, and on a
// first 401 attempt a single silent refresh before replaying once.
//
// The retry bookkeeping lives here, scoped to this logical request; nothing
// on the request object is mutated across attempts.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	reqID, err := ids.NewULID(time.Now())
	if err != nil {
		return err
	}

	start := time.Now()
	status, respBody, apiErr := c.attempt(ctx, method, path, payload, reqID)
	c.metrics.recordRequest(path, status, time.Since(start))

	if apiErr != nil && apiErr.Status == 401 {
		pair, credErr := c.creds.Tokens(ctx)
		if credErr != nil {
			return &Error{Message: fmt.Sprintf("credential store: %v", credErr)}
		}
		if pair.Refresh == "" {
			// Nothing to refresh with: an unauthenticated 401 (wrong
			// password) keeps its own message and kind.
			c.clearCredentials(ctx)
			return apiErr
		}

		// One-shot refresh-and-replay. A second 401 on the replay
		// propagates as-is below.
		if refreshErr := c.refreshAccess(ctx, reqID); refreshErr != nil {
			return refreshErr.withFallback(apiErr)
		}

		status, respBody, apiErr = c.attempt(ctx, method, path, payload, reqID)
		c.metrics.recordRequest(path, status, 0)
	}

	if apiErr != nil {
		c.log.Debug("request failed",
			slog.String("request_id", reqID),
			slog.String("path", path),
			slog.Int("status", apiErr.Status),
			slog.String("error", apiErr.Message),
		)
		return apiErr
	}

	c.log.Debug("request completed",
		slog.String("request_id", reqID),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Status: status, Message: fmt.Sprintf("request failed with status %d", status)}
	}
	return nil
}

// attempt executes a single wire call. It never retries.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, reqID string) (int, []byte, *Error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, &Error{Message: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)

	// Attach the bearer token when one is persisted; absence sends the
	// request unauthenticated.
	pair, err := c.creds.Tokens(ctx)
	if err != nil {
		return 0, nil, &Error{Message: fmt.Sprintf("credential store: %v", err)}
	}
	if pair.Access != "" {
		req.Header.Set("Authorization", "Bearer "+pair.Access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, networkError(err)
	}

	if resp.StatusCode >= 400 {
		return resp.StatusCode, respBody, normalizeError(resp.StatusCode, respBody)
	}
	return resp.StatusCode, respBody, nil
}

// refreshAccess performs the silent token refresh. On success the new access
// token is persisted; on any failure both credentials are cleared locally
// and the session is expired. The caller has already checked that a refresh
// token exists. It never goes through do: the refresh itself is not retried
// on 401.
func (c *Client) refreshAccess(ctx context.Context, reqID string) *Error {
	pair, err := c.creds.Tokens(ctx)
	if err != nil {
		return &Error{Message: fmt.Sprintf("credential store: %v", err)}
	}
	if pair.Refresh == "" {
		c.clearCredentials(ctx)
		c.metrics.recordRefresh(false)
		return sessionExpiredError(nil)
	}

	payload, err := json.Marshal(refreshRequest{Refresh: pair.Refresh})
	if err != nil {
		return &Error{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token/refresh/", bytes.NewReader(payload))
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.clearCredentials(ctx)
		c.metrics.recordRefresh(false)
		return sessionExpiredError(nil)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.clearCredentials(ctx)
		c.metrics.recordRefresh(false)
		return sessionExpiredError(nil)
	}

	if resp.StatusCode >= 400 {
		c.clearCredentials(ctx)
		c.metrics.recordRefresh(false)
		c.log.Debug("token refresh rejected",
			slog.String("request_id", reqID),
			slog.Int("status", resp.StatusCode),
		)
		return sessionExpiredError(normalizeError(resp.StatusCode, respBody))
	}

	var refreshed refreshResponse
	if err := json.Unmarshal(respBody, &refreshed); err != nil || refreshed.Access == "" {
		c.clearCredentials(ctx)
		c.metrics.recordRefresh(false)
		return sessionExpiredError(nil)
	}

	if err := c.creds.SetAccess(ctx, refreshed.Access); err != nil {
		return &Error{Message: fmt.Sprintf("credential store: %v", err)}
	}

	c.metrics.recordRefresh(true)
	c.log.Debug("access token refreshed", slog.String("request_id", reqID))
	return nil
}

func (c *Client) clearCredentials(ctx context.Context) {
	if err := c.creds.Clear(ctx); err != nil {
		c.log.Warn("clearing credentials failed", slog.String("error", err.Error()))
	}
}

// withFallback keeps the original 401's message when the refresh failure
// carries none of its own.
func (e *Error) withFallback(original *Error) *Error {
	if e.kind == ErrSessionExpired && e.Message == "session expired" && original != nil && original.Message != "" {
		e.Message = original.Message
		e.Status = original.Status
	}
	return e
}
