package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mcclellann/simpleloan/pkg/config"
	"github.com/mcclellann/simpleloan/pkg/events"
	"github.com/mcclellann/simpleloan/pkg/ledger"
	"github.com/mcclellann/simpleloan/pkg/metrics"
	"github.com/mcclellann/simpleloan/pkg/store"
)

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig) (store.Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return store.NewPostgresStore(ctx, cfg.URL)
	case config.DriverSQLite:
		return store.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newPublisher(cfg config.KafkaConfig) events.Publisher {
	if len(cfg.Brokers) == 0 {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := openStorage(ctx, cfg.DB)
	if err != nil {
		logger.Error("failed to initialize store", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer storage.Close()
	logger.Info("database connection established and schema initialized", "driver", cfg.DB.Driver)

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	l := ledger.NewLedger(storage, ledger.WithPublisher(publisher), ledger.WithLogger(logger))
	if cfg.SeedCustomers {
		if err := l.SeedCustomers(ctx, ledger.DefaultCustomers); err != nil {
			logger.Error("failed to seed customers", "error", err)
			os.Exit(1)
		}
	}

	server := NewServer(storage, l, logger, metrics.New())
	server.allowedOrigin = cfg.AllowedOrigin
	server.staticDir = cfg.StaticDir

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
