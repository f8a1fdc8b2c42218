package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/api"
	"github.com/Harshitk-cp/arbiter/internal/config"
	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/Harshitk-cp/arbiter/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// Prefer Postgres when configured; fall back to the snapshot
	// directory the simulator writes to.
	var reader domain.SnapshotReader
	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("serving snapshots from postgres")
		reader = store.NewPostgresSnapshotStore(pool)
	} else {
		fileStore, err := store.NewFileSnapshotStore(config.OutputDir())
		if err != nil {
			logger.Fatal("failed to open snapshot directory", zap.Error(err))
		}
		logger.Info("serving snapshots from directory", zap.String("dir", config.OutputDir()))
		reader = fileStore
	}

	app := api.NewApp(reader, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
