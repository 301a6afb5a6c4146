package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadehq/workforce-client-go/internal/domain/kiosk"
	"github.com/arcadehq/workforce-client-go/internal/domain/timesheet"
	"github.com/arcadehq/workforce-client-go/internal/pkg/localtoken"
	"github.com/arcadehq/workforce-client-go/internal/pkg/offline"
	"github.com/arcadehq/workforce-client-go/internal/pkg/syncfeed"
)

const handlerTestSecret = "test-secret-key-for-local-tokens"

type stubKioskService struct {
	activated    bool
	activateErr  error
	clockResp    kiosk.ClockResponse
	clockErr     error
	registerResp kiosk.RegisterResponse
	pinErr       error
}

func (s *stubKioskService) Activate(_ context.Context, _ kiosk.ActivateRequest) error {
	return s.activateErr
}

func (s *stubKioskService) Activated() bool { return s.activated }

func (s *stubKioskService) ClockIn(_ context.Context, _ string) (kiosk.ClockResponse, error) {
	return s.clockResp, s.clockErr
}

func (s *stubKioskService) ClockOut(_ context.Context, _ string) (kiosk.ClockResponse, error) {
	return s.clockResp, s.clockErr
}

func (s *stubKioskService) Register(_ context.Context, _ kiosk.RegisterRequest) (kiosk.RegisterResponse, error) {
	return s.registerResp, nil
}

func (s *stubKioskService) VerifySupervisorPIN(_ string) error { return s.pinErr }

type stubSender struct{}

func (stubSender) Send(_ context.Context, _, _ string, _ []byte) error { return nil }

func newTestRouter(t *testing.T, svc kiosk.Service) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	tokenService := localtoken.NewService(handlerTestSecret, 5*time.Minute)

	queue, err := offline.NewQueue(t.TempDir())
	require.NoError(t, err)
	monitor := offline.NewMonitor(func(context.Context) bool { return true })
	feed := syncfeed.NewHub("", logger)
	replayer := offline.NewReplayer(queue, stubSender{}, monitor, feed, time.Minute, logger)

	kioskHandler := NewKioskHandler(svc, tokenService, "shop-1")
	queueHandler := NewQueueHandler(queue, replayer, monitor)
	return NewRouter(logger, "http://localhost:3000", tokenService, kioskHandler, queueHandler, feed)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestKioskHandler_Status(t *testing.T) {
	router := newTestRouter(t, &stubKioskService{activated: true})

	rec := doJSON(t, router, http.MethodGet, "/local/v1/status", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activated":true`)
}

func TestKioskHandler_ClockIn_Success(t *testing.T) {
	svc := &stubKioskService{
		activated: true,
		clockResp: kiosk.ClockResponse{
			Message: "clocked in at 2025-07-16T09:00:00Z",
			Result:  &timesheet.ClockResult{EntryID: "entry-1", Direction: "in"},
		},
	}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, http.MethodPost, "/local/v1/clock-in",
		map[string]string{"employee_code": "1234-5678"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entry_id":"entry-1"`)
}

// A queued clock action comes back 202, telling the UI the punch is parked
// locally.
func TestKioskHandler_ClockIn_QueuedIsAccepted(t *testing.T) {
	svc := &stubKioskService{
		activated: true,
		clockResp: kiosk.ClockResponse{Queued: true, Message: "will sync"},
	}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, http.MethodPost, "/local/v1/clock-in",
		map[string]string{"employee_code": "1234-5678"}, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queued":true`)
}

func TestKioskHandler_ClockIn_NotActivated(t *testing.T) {
	svc := &stubKioskService{clockErr: kiosk.ErrNotActivated}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, http.MethodPost, "/local/v1/clock-in",
		map[string]string{"employee_code": "1234-5678"}, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestKioskHandler_Activate_BadJSON(t *testing.T) {
	router := newTestRouter(t, &stubKioskService{})

	req := httptest.NewRequest(http.MethodPost, "/local/v1/activate", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKioskHandler_SupervisorUnlock_IssuesToken(t *testing.T) {
	router := newTestRouter(t, &stubKioskService{activated: true})

	rec := doJSON(t, router, http.MethodPost, "/local/v1/supervisor/unlock",
		map[string]string{"pin": "4321"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Token     string `json:"token"`
			ExpiresAt int64  `json:"expires_at"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Greater(t, resp.Data.ExpiresAt, time.Now().Unix())
}

func TestKioskHandler_SupervisorUnlock_WrongPIN(t *testing.T) {
	router := newTestRouter(t, &stubKioskService{pinErr: kiosk.ErrInvalidPIN})

	rec := doJSON(t, router, http.MethodPost, "/local/v1/supervisor/unlock",
		map[string]string{"pin": "9999"}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Flushing the queue requires a supervisor token; without one the route is
// rejected before the handler runs.
func TestQueueHandler_Flush_RequiresSupervisorToken(t *testing.T) {
	router := newTestRouter(t, &stubKioskService{activated: true})

	rec := doJSON(t, router, http.MethodPost, "/local/v1/queue/flush", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unlock, then retry with the issued token.
	unlock := doJSON(t, router, http.MethodPost, "/local/v1/supervisor/unlock",
		map[string]string{"pin": "4321"}, nil)
	require.Equal(t, http.StatusOK, unlock.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(unlock.Body.Bytes(), &resp))

	rec = doJSON(t, router, http.MethodPost, "/local/v1/queue/flush", nil,
		map[string]string{"Authorization": "Bearer " + resp.Data.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQueueHandler_StatusAndList(t *testing.T) {
	router := newTestRouter(t, &stubKioskService{activated: true})

	rec := doJSON(t, router, http.MethodGet, "/local/v1/queue/status", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"online":true`)
	assert.Contains(t, rec.Body.String(), `"pending":0`)

	rec = doJSON(t, router, http.MethodGet, "/local/v1/queue", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}
