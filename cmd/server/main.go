package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/revobtp/revo-server/internal/config"
	"github.com/revobtp/revo-server/internal/mirror"
	"github.com/revobtp/revo-server/internal/remote"
	"github.com/revobtp/revo-server/internal/seed"
	"github.com/revobtp/revo-server/internal/store"
	"github.com/revobtp/revo-server/internal/transport"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := mirror.Open(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open mirror database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Single-node deployment: the document service runs in-process. A
	// hosted backend slots in behind remote.Collection.
	documents := remote.NewMemory()

	notifier := store.NotifierFunc(func(message string, dest store.Destination) {
		logger.Info("persistence notice", "message", message, "persistedTo", string(dest))
	})

	registry := transport.NewRegistry(ctx, documents, db, notifier, logger)
	defer registry.Close()

	server := transport.NewServer(transport.ServerDependencies{
		Registry:      registry,
		Resolver:      &transport.Resolver{DB: db, DemoForced: cfg.Demo.Forced, DemoCompanyID: seed.DemoCompanyID},
		AuthEnabled:   cfg.Auth.Enabled,
		DemoCompanyID: seed.DemoCompanyID,
		Logger:        logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("server listening", "addr", addr, "demoForced", cfg.Demo.Forced)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, server, cancel)
}

func waitForShutdown(logger *slog.Logger, server *transport.Server, cancel context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
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
