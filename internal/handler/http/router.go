package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"log/slog"

	"github.com/arcadehq/workforce-client-go/internal/handler/http/middleware"
	"github.com/arcadehq/workforce-client-go/internal/pkg/localtoken"
	"github.com/arcadehq/workforce-client-go/internal/pkg/syncfeed"
)

// NewRouter wires the kiosk agent's local HTTP surface. It only ever binds
// to loopback; the kiosk UI is the single expected client.
func NewRouter(
	logger *slog.Logger,
	uiOrigin string,
	tokenService localtoken.Service,
	kioskHandler KioskHandler,
	queueHandler QueueHandler,
	feed *syncfeed.Hub,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{uiOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/local/v1", func(r chi.Router) {
		r.Post("/activate", kioskHandler.Activate)
		r.Get("/status", kioskHandler.Status)

		r.Post("/clock-in", kioskHandler.ClockIn)
		r.Post("/clock-out", kioskHandler.ClockOut)
		r.Post("/register", kioskHandler.Register)

		r.Post("/supervisor/unlock", kioskHandler.SupervisorUnlock)

		r.Get("/queue", queueHandler.List)
		r.Get("/queue/status", queueHandler.Status)

		// Requires a supervisor unlock token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenService.JWTAuth()))
			r.Use(middleware.SupervisorRequired(tokenService.JWTAuth()))

			r.Post("/queue/flush", queueHandler.Flush)
		})

		r.Get("/events", feed.Handler)
	})

	// Unknown paths get a JSON 404 rather than chi's plain-text default.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"Route not found"}}`))
	})

	return r
}
