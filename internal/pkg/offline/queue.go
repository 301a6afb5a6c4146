// Package offline holds mutations that could not reach the platform API and
// replays them once connectivity returns. The queue is a JSON file in the
// agent state directory so a kiosk reboot does not drop a pending clock-in.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	queueFile      = "offline-queue.json"
	deadLetterFile = "offline-dead-letter.json"
)

// Mutation is one deferred write: enough to replay the original request
// verbatim, plus bookkeeping for retries.
type Mutation struct {
	ID         string          `json:"id"`
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	Body       json.RawMessage `json:"body,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	Attempts   int             `json:"attempts"`
	LastError  string          `json:"last_error,omitempty"`
}

// Queue is the durable FIFO of deferred mutations.
type Queue struct {
	mu       sync.Mutex
	path     string
	deadPath string
	pending  []Mutation
}

func NewQueue(stateDir string) (*Queue, error) {
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	q := &Queue{
		path:     filepath.Join(stateDir, queueFile),
		deadPath: filepath.Join(stateDir, deadLetterFile),
	}
	if err := q.load(); err != nil {
		return nil, err
	}
	return q, nil
}

// Enqueue appends a mutation and persists the queue. Satisfies the API
// client's OfflineQueue interface.
func (q *Queue) Enqueue(_ context.Context, method, path string, body []byte) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	m := Mutation{
		ID:         uuid.NewString(),
		Method:     method,
		Path:       path,
		Body:       append(json.RawMessage(nil), body...),
		EnqueuedAt: time.Now().UTC(),
	}
	q.pending = append(q.pending, m)
	if err := q.persistLocked(); err != nil {
		q.pending = q.pending[:len(q.pending)-1]
		return "", err
	}
	return m.ID, nil
}

// Pending returns a copy of the queued mutations in arrival order.
func (q *Queue) Pending() []Mutation {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Mutation, len(q.pending))
	copy(out, q.pending)
	return out
}

// Len reports how many mutations are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Remove drops a mutation after successful replay.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, m := range q.pending {
		if m.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return q.persistLocked()
		}
	}
	return nil
}

// MarkAttempt records a failed replay attempt so operators can see why a
// mutation is stuck.
func (q *Queue) MarkAttempt(id string, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.pending {
		if q.pending[i].ID == id {
			q.pending[i].Attempts++
			if cause != nil {
				q.pending[i].LastError = cause.Error()
			}
			return q.persistLocked()
		}
	}
	return nil
}

// DeadLetter moves a permanently rejected mutation out of the replay path,
// appending it to the dead-letter file for manual review.
func (q *Queue) DeadLetter(id string, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, m := range q.pending {
		if m.ID != id {
			continue
		}
		m.Attempts++
		if cause != nil {
			m.LastError = cause.Error()
		}
		q.pending = append(q.pending[:i], q.pending[i+1:]...)
		if err := q.persistLocked(); err != nil {
			return err
		}
		return appendJSON(q.deadPath, m)
	}
	return nil
}

func (q *Queue) load() error {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read offline queue: %w", err)
	}
	if err := json.Unmarshal(data, &q.pending); err != nil {
		return fmt.Errorf("failed to decode offline queue: %w", err)
	}
	return nil
}

func (q *Queue) persistLocked() error {
	data, err := json.Marshal(q.pending)
	if err != nil {
		return fmt.Errorf("failed to encode offline queue: %w", err)
	}
	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write offline queue: %w", err)
	}
	if err := os.Rename(tmp, q.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace offline queue: %w", err)
	}
	return nil
}

func appendJSON(path string, m Mutation) error {
	var existing []Mutation
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &existing)
	}
	existing = append(existing, m)
	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to encode dead letters: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write dead letters: %w", err)
	}
	return nil
}
