package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/riskibarqy/squad-tracker/internal/app"
	"github.com/riskibarqy/squad-tracker/internal/config"
	"github.com/riskibarqy/squad-tracker/internal/interfaces/mcpserver"
	"github.com/riskibarqy/squad-tracker/internal/observability"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg.ServiceName += "-mcp"
	// The API process owns the pprof port.
	cfg.PprofEnabled = false

	// stdout carries the MCP stream.
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr}).
		With("service", cfg.ServiceName, "version", cfg.ServiceVersion)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	telemetry, err := observability.Setup(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup observability: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("observability shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, app.AsReadReplica())
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close store failed", "error", err)
		}
	}()

	server := mcpserver.NewServer(mcpserver.Services{
		Source:  application.Workspace,
		Ranking: application.Services.Ranking,
		Career:  application.Services.Career,
		Seasons: application.Services.Seasons,
	}, cfg.ServiceVersion, logger)

	logger.Info("mcp server listening on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
