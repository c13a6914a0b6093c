package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/crewguard/internal/config"
	securelog "github.com/nao1215/crewguard/internal/log"
	"github.com/nao1215/crewguard/internal/pipeline"
	"github.com/nao1215/crewguard/internal/server"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve site checks over an HTTP API",
		Long: `Serve starts an HTTP API that runs site checks on request.

Endpoints:
  GET  /api/v1/health   liveness and version
  POST /api/v1/check    body {"url": "https://example.com"}, returns the report
  GET  /apidocs.json    OpenAPI description

Logs are written to stderr as JSON.

Examples:
  # Listen on the default address
  crewguard serve

  # Listen on localhost only
  crewguard serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addCheckerFlags(cmd)
	cmd.Flags().String("addr", config.DefaultServeAddress, "Listen address")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCheckerConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	logger := securelog.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	checker, err := pipeline.NewChecker(cfg, pipeline.WithCheckerLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewHTTPHandler(server.NewHandler(checker, getVersion(), logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return listenAndServe(ctx, srv, logger)
}

// listenAndServe runs srv until ctx is done, then shuts it down gracefully.
func listenAndServe(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Warn("starting crewguard API", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.Warn("crewguard API stopped")
	return nil
}
