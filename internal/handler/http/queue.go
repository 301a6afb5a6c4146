package http

import (
	"net/http"

	"github.com/arcadehq/workforce-client-go/internal/handler/http/response"
	"github.com/arcadehq/workforce-client-go/internal/pkg/offline"
)

type QueueHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Flush(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type QueueHandlerImpl struct {
	queue    *offline.Queue
	replayer *offline.Replayer
	monitor  *offline.Monitor
}

func NewQueueHandler(queue *offline.Queue, replayer *offline.Replayer, monitor *offline.Monitor) QueueHandler {
	return &QueueHandlerImpl{
		queue:    queue,
		replayer: replayer,
		monitor:  monitor,
	}
}

// List implements QueueHandler.
func (h *QueueHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	pending := h.queue.Pending()
	response.Success(w, map[string]any{
		"count":     len(pending),
		"mutations": pending,
	})
}

// Flush implements QueueHandler. Runs a replay pass immediately instead of
// waiting for the next scheduled tick. Supervisor-gated.
func (h *QueueHandlerImpl) Flush(w http.ResponseWriter, r *http.Request) {
	h.replayer.Flush(r.Context())
	response.SuccessWithMessage(w, "Queue flush completed", map[string]int{
		"remaining": h.queue.Len(),
	})
}

// Status implements QueueHandler.
func (h *QueueHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{
		"online":  h.monitor.Online(),
		"pending": h.queue.Len(),
	})
}
