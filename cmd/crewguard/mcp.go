package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nao1215/crewguard/internal/pipeline"
	"github.com/nao1215/crewguard/internal/server"
	"github.com/spf13/cobra"
)

// NewMCPCmd creates the mcp command.
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve site checks as an MCP tool over stdio",
		Long: `MCP runs a Model Context Protocol server on stdin/stdout exposing one tool,
check_site, which takes {"url": "..."} and returns the report.

Logs go to stderr; stdout carries the protocol only.

Example client configuration:
  {
    "mcpServers": {
      "crewguard": {"command": "crewguard", "args": ["mcp"]}
    }
  }`,
		Args: cobra.NoArgs,
		RunE: runMCPCmd,
	}

	addCheckerFlags(cmd)

	return cmd
}

// runMCPCmd executes the mcp command.
func runMCPCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCheckerConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	checker, err := pipeline.NewChecker(cfg, pipeline.WithCheckerLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ServeStdio(ctx, server.NewMCPServer(checker, getVersion())); err != nil {
		// The client closing stdin is a normal way to end the session.
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug("MCP server stopped", "reason", err)
			return nil
		}
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
