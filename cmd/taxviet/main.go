package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dominh-hy/TaxViet/internal/config"
	apphttp "github.com/dominh-hy/TaxViet/internal/http"
	applog "github.com/dominh-hy/TaxViet/internal/log"
	"github.com/dominh-hy/TaxViet/internal/notify"
	"github.com/dominh-hy/TaxViet/internal/services"
	"github.com/dominh-hy/TaxViet/internal/storage"
)

func main() {
	logger := applog.New(applog.ConfigFromEnv())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var store storage.Store
	switch cfg.DataBackend {
	case "memory":
		store = storage.NewMemoryStore()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		sqliteStore, err := storage.OpenSQLite(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = sqliteStore
		logger.Info("Initialized sqlite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}

	// The broker is optional. Without it, record-saved notifications are
	// simply skipped.
	var notifier *notify.Publisher
	if cfg.AMQPURL != "" {
		var err error
		notifier, err = notify.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to message broker", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to message broker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	assistant := services.New(store, notifier)
	defer func() {
		if err := assistant.Close(); err != nil {
			logger.Error("Close error", "error", err)
		}
	}()

	// Resume the last active session, if one was persisted.
	if identifier, ok, err := assistant.Restore(context.Background()); err != nil {
		logger.Warn("Session restore failed", "error", err)
	} else if ok {
		logger.Info("Session restored", "identifier", identifier)
	}

	srv := apphttp.NewServer(":"+cfg.Port, assistant, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting taxviet server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
