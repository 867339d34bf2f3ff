package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martyvasquez/lineupai-sub000/internal/cache"
	"github.com/martyvasquez/lineupai-sub000/internal/config"
	"github.com/martyvasquez/lineupai-sub000/internal/core"
	"github.com/martyvasquez/lineupai-sub000/internal/logging"
	"github.com/martyvasquez/lineupai-sub000/internal/store"
	"github.com/martyvasquez/lineupai-sub000/internal/web"
)

const sweepInterval = time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run() error {
	// Load .env file if it exists (overwrites existing env vars)
	loaded, err := config.LoadEnvFile()
	if err != nil {
		return err
	}
	if loaded {
		slog.Info("loaded .env file (overwriting existing env vars)")
	} else {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	opts := []web.Option{web.WithHealthCheck("database", st.Ping)}

	var previews core.PreviewStore
	if cfg.Cache.RedisEnabled() {
		client, err := cache.NewRedisClient(cfg.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()

		redisStore := cache.NewRedisPreviewStore(client)
		previews = redisStore
		opts = append(opts, web.WithHealthCheck("redis", redisStore.HealthCheck))
		slog.Info("previews stored in redis")
	} else {
		memStore := core.NewMemoryPreviewStore()
		go memStore.StartSweeper(ctx, sweepInterval)
		previews = memStore
		slog.Info("previews stored in memory")
	}

	service := core.NewService(st, previews, cfg.Import)
	server := web.NewServer(service, cfg, opts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	// Wait for in-flight imports before the pool closes
	if status := service.LimiterStatus(); status.Active > 0 {
		slog.Info("waiting for imports to complete", "active", status.Active)
		if err := service.WaitForImports(shutdownCtx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		} else {
			slog.Info("all imports completed")
		}
	}

	slog.Info("server stopped")
	return nil
}
