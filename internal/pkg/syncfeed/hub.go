// Package syncfeed pushes agent events (queue activity, clock results,
// session expiry) to local UI clients over a websocket.
package syncfeed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one feed message.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Hub manages websocket subscribers and event broadcasting.
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a Hub that accepts upgrades from the given UI origin.
// An empty origin accepts any, which is fine on a loopback-only listener.
func NewHub(uiOrigin string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if uiOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == uiOrigin
			},
		},
		logger: logger,
	}
}

// Publish broadcasts an event to every connected subscriber. Connections
// that fail the write are dropped.
func (h *Hub) Publish(eventType string, data any) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, At: time.Now()})
	if err != nil {
		h.logger.Error("failed to encode feed event", "type", eventType, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("dropping feed subscriber", "error", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// SubscriberCount reports how many UI clients are connected.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Handler upgrades the request and keeps the connection registered until the
// client goes away. Reads are only used to detect disconnects and pongs.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	total := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("feed subscriber connected", "total", total)

	done := make(chan struct{})
	go h.keepalive(conn, done)

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(done)
	h.mu.Lock()
	delete(h.conns, conn)
	total = len(h.conns)
	h.mu.Unlock()
	conn.Close()
	h.logger.Debug("feed subscriber disconnected", "total", total)
}

func (h *Hub) keepalive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(10 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
