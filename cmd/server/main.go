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

	"github.com/oakline/gatehouse/internal/config"
	"github.com/oakline/gatehouse/internal/domain/signin"
	"github.com/oakline/gatehouse/internal/guard"
	"github.com/oakline/gatehouse/internal/httpapi"
	"github.com/oakline/gatehouse/internal/snapshot"
	"github.com/oakline/gatehouse/internal/sqlite"
)

func main() {
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

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	signInStore := sqlite.NewSignInStore(db, logger)
	preAuthStore := sqlite.NewPreAuthStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the snapshot from a bulk fetch, then keep it current from the
	// change stream.
	snap := snapshot.NewStore(cfg.Snapshot.Limit)
	rows, err := signInStore.BulkFetch(ctx, cfg.Snapshot.Limit)
	if err != nil {
		logger.Error("initial fetch failed", "error", err)
		os.Exit(1)
	}
	snap.Init(rows)

	events, dispose, err := signInStore.SubscribeChanges(ctx)
	if err != nil {
		logger.Error("change subscription failed", "error", err)
		os.Exit(1)
	}
	subscriber := snapshot.NewSubscriber(events, dispose, snap, logger)
	defer subscriber.Close()

	profile := guard.NewHolder(guard.Profile{
		Name:        cfg.Guard.Name,
		AutoApprove: cfg.Guard.AutoApprove,
	})

	signInSvc := signin.NewService(signInStore, snap, logger)

	// Periodic recompute signal: derived status is never cached, so the
	// tick only re-derives and reports.
	ticker := snapshot.NewTicker(cfg.Snapshot.TickInterval.Std(), func(now time.Time) {
		var pending, overdue int
		for _, rec := range snap.List() {
			switch signin.Status(rec, now) {
			case signin.StatusPending:
				pending++
			case signin.StatusOverdue:
				overdue++
			}
		}
		logger.Debug("status recompute", "cached", snap.Len(), "pending", pending, "overdue", overdue)
	})
	defer ticker.Stop()

	api := httpapi.NewServer(signInSvc, snap, signInStore, preAuthStore, profile,
		cfg.Suggest.Debounce.Std(), cfg.Suggest.Limit, logger)
	defer api.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
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

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
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
