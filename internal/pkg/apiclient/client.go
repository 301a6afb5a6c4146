// Package apiclient is the single point of truth for outbound requests to
// the workforce platform API. It attaches the right credential per route,
// recovers exactly once from a 401 through a single-flight token refresh,
// normalizes the server's error shapes, and hands offline mutations to the
// sync queue instead of failing them.
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

	"github.com/arcadehq/workforce-client-go/internal/pkg/session"
)

const defaultTimeout = 30 * time.Second

// refreshLeeway is how close to expiry a bearer token may get before the
// client refreshes it ahead of the request instead of waiting for the 401.
const refreshLeeway = 30 * time.Second

// OfflineQueue receives mutations that could not be sent while offline.
type OfflineQueue interface {
	Enqueue(ctx context.Context, method, path string, body []byte) (id string, err error)
}

// Options configures a Client. Only BaseURL and Session are required.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Session *session.Manager
	// Queue, when set, receives mutating requests that fail with a transport
	// error while Online reports false.
	Queue OfflineQueue
	// Online reports the agent's connectivity belief. Nil means always online.
	Online func() bool
	// OnUnauthorized runs after the forced unauthorized transition (tokens
	// already cleared). Never invoked for kiosk routes.
	OnUnauthorized func()
	// OnTransportFailure runs when a request dies on the wire, before the
	// queueing decision, so a connectivity monitor can flip to offline and
	// let the failing mutation queue right away.
	OnTransportFailure func()
	Logger         *slog.Logger
	// DevMode enables the warning log for kiosk requests without a device key.
	DevMode    bool
	HTTPClient *http.Client
}

type Client struct {
	baseURL        string
	http           *http.Client
	session        *session.Manager
	queue          OfflineQueue
	online             func() bool
	onUnauthorized     func()
	onTransportFailure func()
	logger             *slog.Logger
	devMode            bool

	refresh refreshGroup
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	online := opts.Online
	if online == nil {
		online = func() bool { return true }
	}

	return &Client{
		baseURL:            strings.TrimSuffix(opts.BaseURL, "/"),
		http:               httpClient,
		session:            opts.Session,
		queue:              opts.Queue,
		online:             online,
		onUnauthorized:     opts.OnUnauthorized,
		onTransportFailure: opts.OnTransportFailure,
		logger:             logger,
		devMode:            opts.DevMode,
	}
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	raw, err := encodeBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, raw, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	raw, err := encodeBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, raw, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	raw, err := encodeBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, raw, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Send issues a raw request without offline queuing. The sync replayer uses
// it to drain the queue: a replayed mutation that fails must stay in the
// queue, not be enqueued a second time.
func (c *Client) Send(ctx context.Context, method, path string, body []byte) error {
	return c.send(ctx, method, path, body, nil, false, false)
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	return c.send(ctx, method, path, body, out, true, false)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, out any, allowQueue, retried bool) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return c.handleTransportError(ctx, method, path, body, allowQueue, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError()
	}

	if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(path) {
		return c.handleUnauthorized(ctx, method, path, body, out, respBody, retried)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return normalizeError(resp.StatusCode, respBody)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachAuth(ctx, req, path)
	return req, nil
}

// attachAuth chooses the credential for a request: kiosk routes (except
// activation) carry the device key, everything else carries the bearer token
// when one exists. At most one of the two is ever attached.
func (c *Client) attachAuth(ctx context.Context, req *http.Request, path string) {
	if c.session == nil {
		return
	}

	if isKioskPath(path) {
		deviceToken := c.session.DeviceToken()
		if deviceToken == "" {
			if c.devMode {
				c.logger.Warn("kiosk request without device key", "path", path)
			}
			return
		}
		req.Header.Set("X-Device-Key", deviceToken)
		return
	}

	access := c.session.AccessToken()
	if access == "" {
		if !isPublicPath(path) {
			c.logger.Debug("request without credentials, server decides", "path", path)
		}
		return
	}

	// Refresh ahead of time when the token is about to lapse, sparing the
	// round-trip that would come back 401.
	if tokenExpiringSoon(access) && c.session.RefreshToken() != "" {
		if refreshed, err := c.refreshAccessToken(ctx); err == nil {
			access = refreshed
		}
	}

	req.Header.Set("Authorization", "Bearer "+access)
}

func (c *Client) handleTransportError(ctx context.Context, method, path string, body []byte, allowQueue bool, cause error) error {
	// The failure is itself evidence the API is unreachable. Report it before
	// consulting the connectivity belief so this mutation already queues.
	if c.onTransportFailure != nil {
		c.onTransportFailure()
	}

	queueable := allowQueue &&
		c.queue != nil &&
		isMutation(method) &&
		!isAuthPath(path) &&
		!c.online()

	if queueable {
		id, err := c.queue.Enqueue(ctx, method, path, body)
		if err != nil {
			c.logger.Error("failed to queue offline mutation", "method", method, "path", path, "error", err)
			return networkError()
		}
		c.logger.Info("mutation queued for offline sync", "method", method, "path", path, "mutation_id", id)
		return &QueuedError{MutationID: id}
	}

	c.logger.Debug("request transport failure", "method", method, "path", path, "error", cause)
	return networkError()
}

// handleUnauthorized recovers from a 401 at most once per original request.
// A second 401 after a successful refresh, or a failed refresh, falls through
// to the forced unauthorized transition (skipped on kiosk routes, where the
// device key, not the user session, is authoritative).
func (c *Client) handleUnauthorized(ctx context.Context, method, path string, body []byte, out any, respBody []byte, retried bool) error {
	if retried || c.session == nil || c.session.RefreshToken() == "" {
		c.unauthorizedTransition(path)
		return normalizeError(http.StatusUnauthorized, respBody)
	}

	if _, err := c.refreshAccessToken(ctx); err != nil {
		c.unauthorizedTransition(path)
		return &APIError{
			StatusCode: http.StatusUnauthorized,
			Code:       "auth_expired",
			Message:    "session expired, please sign in again",
		}
	}

	return c.send(ctx, method, path, body, out, false, true)
}

func (c *Client) unauthorizedTransition(path string) {
	if isKioskPath(path) {
		return
	}
	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			c.logger.Error("failed to clear credentials", "error", err)
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func isKioskPath(path string) bool {
	return strings.HasPrefix(path, "/kiosk") && trimQuery(path) != "/kiosk/activate"
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth")
}

func isPublicPath(path string) bool {
	switch trimQuery(path) {
	case "/auth/login", "/auth/refresh/", "/auth/refresh", "/kiosk/activate":
		return true
	}
	return false
}

func trimQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
