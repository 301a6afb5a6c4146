package offline

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
)

type fakeSender struct {
	mu    sync.Mutex
	calls []string
	// respond maps a path to the error its replay should return
	respond map[string]error
	// delay slows each Send down, for tests that overlap flushes
	delay time.Duration
}

func (s *fakeSender) Send(_ context.Context, method, path string, _ []byte) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, method+" "+path)
	if s.respond == nil {
		return nil
	}
	return s.respond[path]
}

func (s *fakeSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func newTestQueue(t *testing.T) (*Queue, string) {
	dir := t.TempDir()
	q, err := NewQueue(dir)
	require.NoError(t, err)
	return q, dir
}

func enqueue(t *testing.T, q *Queue, method, path string, body string) string {
	id, err := q.Enqueue(context.Background(), method, path, []byte(body))
	require.NoError(t, err)
	return id
}

func TestQueue_EnqueuePersistsAcrossReopen(t *testing.T) {
	q, dir := newTestQueue(t)
	enqueue(t, q, http.MethodPost, "/kiosk/clock/", `{"employee_code":"1234-5678"}`)
	enqueue(t, q, http.MethodPatch, "/workforce/timesheet/42/", `{"hours":7.5}`)

	reopened, err := NewQueue(dir)
	require.NoError(t, err)
	pending := reopened.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "/kiosk/clock/", pending[0].Path)
	assert.Equal(t, "/workforce/timesheet/42/", pending[1].Path)
	assert.JSONEq(t, `{"hours":7.5}`, string(pending[1].Body))
}

func TestQueue_RemoveAndMarkAttempt(t *testing.T) {
	q, _ := newTestQueue(t)
	first := enqueue(t, q, http.MethodPost, "/a", `{}`)
	second := enqueue(t, q, http.MethodPost, "/b", `{}`)

	require.NoError(t, q.Remove(first))
	assert.Equal(t, 1, q.Len())

	require.NoError(t, q.MarkAttempt(second, assert.AnError))
	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.NotEmpty(t, pending[0].LastError)
}

func TestReplayer_FlushDrainsFIFO(t *testing.T) {
	q, _ := newTestQueue(t)
	enqueue(t, q, http.MethodPost, "/kiosk/clock/", `{"dir":"in"}`)
	enqueue(t, q, http.MethodPost, "/kiosk/clock/", `{"dir":"out"}`)
	enqueue(t, q, http.MethodPost, "/kiosk/registrations/", `{"name":"Ada"}`)

	sender := &fakeSender{}
	r := NewReplayer(q, sender, NewMonitor(func(context.Context) bool { return true }), nil, time.Minute, nil)
	r.Flush(context.Background())

	assert.Zero(t, q.Len())
	assert.Equal(t, []string{
		"POST /kiosk/clock/",
		"POST /kiosk/clock/",
		"POST /kiosk/registrations/",
	}, sender.calls)
}

// The ticker goroutine and a supervisor-triggered flush can overlap. Both
// must not replay the same mutation: the second pass has to wait for the
// first and then find the queue already drained.
func TestReplayer_ConcurrentFlushSendsEachMutationOnce(t *testing.T) {
	q, _ := newTestQueue(t)
	enqueue(t, q, http.MethodPost, "/kiosk/clock_in/", `{"employee_code":"1234-5678"}`)

	sender := &fakeSender{delay: 50 * time.Millisecond}
	r := NewReplayer(q, sender, NewMonitor(func(context.Context) bool { return true }), nil, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Flush(context.Background())
		}()
	}
	wg.Wait()

	assert.Zero(t, q.Len())
	assert.Equal(t, []string{"POST /kiosk/clock_in/"}, sender.sent())
}

func TestReplayer_TransientFailureStopsPass(t *testing.T) {
	q, _ := newTestQueue(t)
	enqueue(t, q, http.MethodPost, "/first", `{}`)
	enqueue(t, q, http.MethodPost, "/second", `{}`)

	sender := &fakeSender{respond: map[string]error{
		"/first": &apiclient.APIError{Code: "network_error", Message: "down"},
	}}
	r := NewReplayer(q, sender, NewMonitor(func(context.Context) bool { return true }), nil, time.Minute, nil)
	r.Flush(context.Background())

	// Ordering preserved: the second mutation was never attempted.
	assert.Equal(t, []string{"POST /first"}, sender.calls)
	pending := q.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, 1, pending[0].Attempts)
}

func TestReplayer_PermanentRejectionIsDeadLettered(t *testing.T) {
	q, dir := newTestQueue(t)
	enqueue(t, q, http.MethodPost, "/rejected", `{"hours":99}`)
	enqueue(t, q, http.MethodPost, "/accepted", `{}`)

	sender := &fakeSender{respond: map[string]error{
		"/rejected": &apiclient.APIError{StatusCode: http.StatusBadRequest, Message: "hours out of range"},
	}}
	r := NewReplayer(q, sender, NewMonitor(func(context.Context) bool { return true }), nil, time.Minute, nil)
	r.Flush(context.Background())

	// The rejection does not block the rest of the queue.
	assert.Zero(t, q.Len())
	assert.Equal(t, []string{"POST /rejected", "POST /accepted"}, sender.calls)

	data, err := os.ReadFile(filepath.Join(dir, deadLetterFile))
	require.NoError(t, err)
	var dead []Mutation
	require.NoError(t, json.Unmarshal(data, &dead))
	require.Len(t, dead, 1)
	assert.Equal(t, "/rejected", dead[0].Path)
	assert.Contains(t, dead[0].LastError, "hours out of range")
}

func TestReplayer_UnauthorizedStaysQueued(t *testing.T) {
	q, _ := newTestQueue(t)
	enqueue(t, q, http.MethodPost, "/kiosk/clock/", `{}`)

	sender := &fakeSender{respond: map[string]error{
		"/kiosk/clock/": &apiclient.APIError{StatusCode: http.StatusUnauthorized, Message: "device not recognized"},
	}}
	r := NewReplayer(q, sender, NewMonitor(func(context.Context) bool { return true }), nil, time.Minute, nil)
	r.Flush(context.Background())

	// 401 may heal after re-activation, so the mutation is kept.
	assert.Equal(t, 1, q.Len())
}

func TestMonitor_MarkOfflineFlipsWithoutProbe(t *testing.T) {
	m := NewMonitor(func(context.Context) bool { return true })
	require.True(t, m.Online())

	m.MarkOffline()
	assert.False(t, m.Online())

	// The next probe restores the belief.
	assert.True(t, m.Check(context.Background()))
	assert.True(t, m.Online())
}

func TestMonitor_CheckUpdatesState(t *testing.T) {
	up := false
	m := NewMonitor(func(context.Context) bool { return up })

	assert.True(t, m.Online(), "monitor starts optimistic")
	assert.False(t, m.Check(context.Background()))
	assert.False(t, m.Online())

	up = true
	assert.True(t, m.Check(context.Background()))
	assert.True(t, m.Online())
}
