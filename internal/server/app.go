// Package server initializes and runs the board server: storage, lock
// manager, merge engine, room hub, and the HTTP/websocket endpoint, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/drawboard/internal/logging"
	"github.com/dmitrijs2005/drawboard/internal/server/archive"
	"github.com/dmitrijs2005/drawboard/internal/server/config"
	"github.com/dmitrijs2005/drawboard/internal/server/locks"
	"github.com/dmitrijs2005/drawboard/internal/server/merge"
	"github.com/dmitrijs2005/drawboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/drawboard/internal/server/room"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	hub    *room.Hub
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var (
		repos repomanager.RepositoryManager
		err   error
	)
	if cfg.DatabaseDSN != "" {
		repos, err = repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	} else {
		repos = repomanager.NewInMemoryRepositoryManager()
	}

	engine := merge.NewEngine(repos.Boards(), logger)
	lockManager := locks.NewManager(locks.WithTTL(cfg.LockTTL))

	var hubOpts []room.HubOption
	if cfg.S3Bucket != "" {
		archiver, err := archive.NewS3Archiver(context.Background(), archive.Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		hubOpts = append(hubOpts, room.WithArchiver(archiver))
	}

	hub := room.NewHub(lockManager, engine, []byte(cfg.SecretKey), logger, hubOpts...)

	return &App{config: cfg, logger: logger, repos: repos, hub: hub}, nil
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

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		room.ServeWS(app.hub, app.logger, w, r)
	})

	srv := &http.Server{Addr: app.config.EndpointAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		app.logger.Info(context.Background(), "Stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = app.repos.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
	}
}
