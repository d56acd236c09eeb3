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

	"github.com/rpggio/retroboard/internal/app"
	"github.com/rpggio/retroboard/internal/config"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg.Log)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	broker, err := newBroker(ctx, cfg.Feed, logger)
	if err != nil {
		logger.Error("failed to start change feed", "driver", cfg.Feed.Driver, "error", err)
		os.Exit(1)
	}
	defer broker.Close()

	application := app.New(db, broker, logger, app.Options{
		MCPEnabled:     cfg.MCP.Enabled,
		MCPAuthEnabled: cfg.MCP.AuthEnabled,
		MCPDevUserID:   cfg.MCP.DevUserID,
	})

	go application.Confetti.RunPruner(ctx, cfg.Confetti.PruneInterval, cfg.Confetti.Retention)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "feed", cfg.Feed.Driver, "mcp", cfg.MCP.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	waitForShutdown(ctx, logger, httpServer)
}

func newBroker(ctx context.Context, cfg config.FeedConfig, logger *slog.Logger) (feed.Broker, error) {
	if cfg.Driver == config.FeedRedis {
		return feed.NewRedisBroker(ctx, feed.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
	}
	return feed.NewMemoryBroker(), nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	return ensureParentDir(path)
}

func waitForShutdown(ctx context.Context, logger *slog.Logger, server *http.Server) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
