package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

const refreshPath = "/auth/refresh/"

// refreshGroup coordinates the single-flight token refresh: the first caller
// performs the HTTP call, everyone who arrives while it is in flight awaits
// the same result. A pending result shared through a channel cannot desync
// the way a boolean flag plus a callback list can.
type refreshGroup struct {
	mu       sync.Mutex
	inflight *refreshAttempt
}

type refreshAttempt struct {
	done  chan struct{}
	token string
	err   error
}

// refreshAccessToken mints a new access token through the refresh endpoint,
// ensuring at most one refresh call is outstanding. On success the new token
// is already stored in the session.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.refresh.mu.Lock()
	if attempt := c.refresh.inflight; attempt != nil {
		c.refresh.mu.Unlock()
		select {
		case <-attempt.done:
			return attempt.token, attempt.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	attempt := &refreshAttempt{done: make(chan struct{})}
	c.refresh.inflight = attempt
	c.refresh.mu.Unlock()

	attempt.token, attempt.err = c.callRefreshEndpoint(ctx)

	c.refresh.mu.Lock()
	c.refresh.inflight = nil
	c.refresh.mu.Unlock()
	close(attempt.done)

	return attempt.token, attempt.err
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

func (c *Client) callRefreshEndpoint(ctx context.Context) (string, error) {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return "", fmt.Errorf("no refresh token available")
	}

	raw, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", networkError()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", networkError()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("token refresh rejected", "status", resp.StatusCode)
		return "", normalizeError(resp.StatusCode, body)
	}

	var parsed refreshResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if parsed.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	if err := c.session.SetAccessToken(parsed.Access); err != nil {
		c.logger.Error("failed to persist refreshed token", "error", err)
	}
	c.logger.Debug("access token refreshed")
	return parsed.Access, nil
}

// tokenExpiringSoon reports whether the bearer token's exp claim is inside
// the refresh leeway. Signature verification is the server's job; the claim
// is only read to decide whether a refresh is worth doing early. Tokens that
// do not parse or carry no exp are left to the 401 path.
func tokenExpiringSoon(token string) bool {
	parsed, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		return false
	}
	exp := parsed.Expiration()
	if exp.IsZero() {
		return false
	}
	return time.Until(exp) < refreshLeeway
}
