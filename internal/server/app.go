// Package server initializes and runs the record store server: storage
// backend, HTTP API with the watch stream, and graceful shutdown on signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramen-kiroku/ramenlog/internal/logging"
	"github.com/ramen-kiroku/ramenlog/internal/server/config"
	"github.com/ramen-kiroku/ramenlog/internal/server/httpapi"
	"github.com/ramen-kiroku/ramenlog/internal/server/records"
	"github.com/ramen-kiroku/ramenlog/internal/server/shared/db"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp() (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.LoadConfig()

	var manager db.RepositoryManager
	var err error
	if cfg.DatabaseDSN == config.InMemoryDSN {
		manager = db.NewInMemoryRepositoryManager()
	} else {
		manager, err = db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	hub := httpapi.NewHub(logger)
	svc := records.NewService(manager.Records(), hub, logger)
	srv := httpapi.NewServer(cfg.EndpointAddr, svc, hub, logger)
	srv.SetShutdownTimeout(cfg.ShutdownTimeout.Duration)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}
}
