package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/httplog/v3"

	"github.com/arcadehq/workforce-client-go/internal/config"
	appHTTP "github.com/arcadehq/workforce-client-go/internal/handler/http"
	"github.com/arcadehq/workforce-client-go/internal/pkg/apiclient"
	"github.com/arcadehq/workforce-client-go/internal/pkg/localtoken"
	"github.com/arcadehq/workforce-client-go/internal/pkg/offline"
	"github.com/arcadehq/workforce-client-go/internal/pkg/session"
	"github.com/arcadehq/workforce-client-go/internal/pkg/syncfeed"
	"github.com/arcadehq/workforce-client-go/internal/repository/rest"
	kioskService "github.com/arcadehq/workforce-client-go/internal/service/kiosk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "kioskd"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	sessionStore, err := session.NewFileStore(cfg.Agent.StateDir)
	if err != nil {
		log.Fatal("Failed to initialize session store: ", err)
	}
	sessionManager := session.NewManager(sessionStore)

	queue, err := offline.NewQueue(cfg.Agent.StateDir)
	if err != nil {
		log.Fatal("Failed to initialize offline queue: ", err)
	}

	feed := syncfeed.NewHub(cfg.Agent.UIOrigin, logger)
	monitor := offline.NewMonitor(offline.HTTPProbe(cfg.API.BaseURL, cfg.API.Timeout))

	api := apiclient.New(apiclient.Options{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		Session:            sessionManager,
		Queue:              queue,
		Online:             monitor.Online,
		OnTransportFailure: monitor.MarkOffline,
		OnUnauthorized: func() {
			feed.Publish("session.expired", nil)
		},
		Logger:  logger,
		DevMode: cfg.App.Env == "development",
	})

	replayer := offline.NewReplayer(queue, api, monitor, feed, cfg.Agent.SyncInterval, logger)

	timesheetRepo := rest.NewTimesheetRepository(api)
	kioskRepo := rest.NewKioskRepository(api)

	tokenService := localtoken.NewService(cfg.Kiosk.LocalSessionSecret, cfg.Kiosk.LocalSessionTTL)
	kioskSvc := kioskService.NewKioskService(kioskService.Options{
		ShopID:            cfg.Kiosk.ShopID,
		SupervisorPINHash: cfg.Kiosk.SupervisorPINHash,
		Repo:              kioskRepo,
		Timesheets:        timesheetRepo,
		Session:           sessionManager,
		Feed:              feed,
		Logger:            logger,
	})

	kioskHandler := appHTTP.NewKioskHandler(kioskSvc, tokenService, cfg.Kiosk.ShopID)
	queueHandler := appHTTP.NewQueueHandler(queue, replayer, monitor)
	router := appHTTP.NewRouter(logger, cfg.Agent.UIOrigin, tokenService, kioskHandler, queueHandler, feed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go replayer.Run(ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.Agent.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("kiosk agent listening", "addr", server.Addr, "shop_id", cfg.Kiosk.ShopID)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error: ", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
