package offline

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
)

// Sender replays one mutation verbatim. Implemented by the API client's
// queue-bypassing Send.
type Sender interface {
	Send(ctx context.Context, method, path string, body []byte) error
}

// Publisher receives replay lifecycle events for the local UI feed.
type Publisher interface {
	Publish(eventType string, data any)
}

// Monitor tracks the agent's connectivity belief. It starts optimistic; the
// first failed probe flips it, as does MarkOffline when another component
// observes a transport failure before the next probe runs.
type Monitor struct {
	online atomic.Bool
	probe  func(ctx context.Context) bool
}

// NewMonitor builds a Monitor around a probe. A typical probe is a GET
// against the API origin's health endpoint with a short timeout.
func NewMonitor(probe func(ctx context.Context) bool) *Monitor {
	m := &Monitor{probe: probe}
	m.online.Store(true)
	return m
}

// Online returns the last known connectivity state without probing.
func (m *Monitor) Online() bool { return m.online.Load() }

// MarkOffline flips the belief immediately, without waiting for a probe.
// The API client calls it when a request dies on the wire so the very next
// mutation queues instead of erroring for the rest of the probe interval.
func (m *Monitor) MarkOffline() { m.online.Store(false) }

// Check probes and updates the state, returning the fresh result.
func (m *Monitor) Check(ctx context.Context) bool {
	result := m.probe(ctx)
	m.online.Store(result)
	return result
}

// HTTPProbe returns a probe that considers the API reachable when the
// health endpoint answers at all, regardless of status.
func HTTPProbe(baseURL string, timeout time.Duration) func(ctx context.Context) bool {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}
}

// Replayer drains the offline queue whenever connectivity returns. One
// replay pass is strictly FIFO: the first still-failing mutation stops the
// pass so ordering between dependent mutations is preserved.
type Replayer struct {
	queue    *Queue
	sender   Sender
	monitor  *Monitor
	feed     Publisher
	interval time.Duration
	logger   *slog.Logger

	// Serializes replay passes: the ticker goroutine and the supervisor's
	// manual flush must never walk the same pending snapshot concurrently.
	flushMu sync.Mutex
}

func NewReplayer(queue *Queue, sender Sender, monitor *Monitor, feed Publisher, interval time.Duration, logger *slog.Logger) *Replayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replayer{
		queue:    queue,
		sender:   sender,
		monitor:  monitor,
		feed:     feed,
		interval: interval,
		logger:   logger,
	}
}

// Run probes connectivity on a fixed interval and flushes the queue when the
// API is reachable. Blocks until ctx is cancelled.
func (r *Replayer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("offline replayer stopping")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Replayer) tick(ctx context.Context) {
	wasOnline := r.monitor.Online()
	online := r.monitor.Check(ctx)
	if online != wasOnline {
		r.logger.Info("connectivity changed", "online", online)
		r.publish("connectivity.changed", map[string]bool{"online": online})
	}
	if online && r.queue.Len() > 0 {
		r.Flush(ctx)
	}
}

// Flush replays pending mutations in arrival order. Permanent rejections
// (4xx other than 401) are dead-lettered; transient failures stop the pass
// and leave the rest queued for the next tick. Only one pass runs at a
// time; a concurrent call waits and then sees the already-drained queue.
func (r *Replayer) Flush(ctx context.Context) {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	for _, m := range r.queue.Pending() {
		if ctx.Err() != nil {
			return
		}

		err := r.sender.Send(ctx, m.Method, m.Path, m.Body)
		if err == nil {
			if rmErr := r.queue.Remove(m.ID); rmErr != nil {
				r.logger.Error("failed to remove replayed mutation", "mutation_id", m.ID, "error", rmErr)
			}
			r.logger.Info("offline mutation synced", "mutation_id", m.ID, "method", m.Method, "path", m.Path)
			r.publish("queue.synced", replayEvent(m, nil))
			continue
		}

		if isPermanentRejection(err) {
			if dlErr := r.queue.DeadLetter(m.ID, err); dlErr != nil {
				r.logger.Error("failed to dead-letter mutation", "mutation_id", m.ID, "error", dlErr)
			}
			r.logger.Warn("offline mutation permanently rejected", "mutation_id", m.ID, "path", m.Path, "error", err)
			r.publish("queue.dead_letter", replayEvent(m, err))
			continue
		}

		// Transient: keep it queued and try the whole tail next tick.
		if markErr := r.queue.MarkAttempt(m.ID, err); markErr != nil {
			r.logger.Error("failed to record replay attempt", "mutation_id", m.ID, "error", markErr)
		}
		r.logger.Debug("offline replay attempt failed, keeping queued", "mutation_id", m.ID, "error", err)
		return
	}

	if r.queue.Len() == 0 {
		r.publish("queue.drained", nil)
	}
}

func (r *Replayer) publish(eventType string, data any) {
	if r.feed != nil {
		r.feed.Publish(eventType, data)
	}
}

// isPermanentRejection reports whether a replay failure can never succeed by
// retrying: the server understood the mutation and said no. 401 is excluded
// because a device key or session may be restored later.
func isPermanentRejection(err error) bool {
	apiErr, ok := apiclient.AsAPIError(err)
	if !ok {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
		apiErr.StatusCode != http.StatusUnauthorized
}

func replayEvent(m Mutation, cause error) map[string]any {
	ev := map[string]any{
		"mutation_id": m.ID,
		"method":      m.Method,
		"path":        m.Path,
		"enqueued_at": m.EnqueuedAt,
		"attempts":    m.Attempts,
	}
	if cause != nil {
		ev["error"] = cause.Error()
	}
	if len(m.Body) > 0 {
		ev["body"] = json.RawMessage(m.Body)
	}
	return ev
}
