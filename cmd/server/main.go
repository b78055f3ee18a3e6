// Block kit server - runs a block behind its compliance gateway
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/amprfi/block-kit-sdk/internal/config"
	"github.com/amprfi/block-kit-sdk/internal/logging"
	"github.com/amprfi/block-kit-sdk/internal/server"
	"github.com/amprfi/block-kit-sdk/internal/traces"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := logging.New("info", "text")
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFmt)
	slog.SetDefault(logger) // logging.L picks this up
	logger.Info("starting block server",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
		"env", cfg.Env,
		"block", cfg.BlockName,
	)

	ctx := context.Background()

	shutdownTraces, err := traces.Init(ctx, cfg.OTLPEndpoint, logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTraces(context.Background()) }()

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
