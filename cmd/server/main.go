package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/tableview/internal/config"
	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/logging"
	"github.com/JonMunkholm/tableview/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dir", cfg.Data.Dir,
		"max_views", cfg.Session.MaxViews,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	n, err := dataset.LoadDir(cfg.Data.Dir)
	if err != nil {
		slog.Error("failed to load datasets", "dir", cfg.Data.Dir, "error", err)
		os.Exit(1)
	}
	slog.Info("datasets registered", "count", n, "groups", len(dataset.Groups()))
	for _, ds := range dataset.All() {
		slog.Debug("dataset", "key", ds.Key, "group", ds.Group, "records", ds.Len())
	}

	server := web.NewServer(cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
