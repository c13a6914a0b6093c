package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/nao1215/crewguard/internal/config"
	"github.com/nao1215/crewguard/internal/fetch"
	"github.com/nao1215/crewguard/internal/pipeline"
	"github.com/nao1215/crewguard/internal/report"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [url...]",
		Short: "Check whether a website may be crawled",
		Long: `Check fetches a website's main page, robots.txt and a few common API paths,
and reports whether automated data collection is allowed, partially
restricted or blocked.

The verdict is the most restrictive signal found:
- blocked: the site is unreachable or serves a JavaScript challenge
- partial: a non-200 status, redirect, anti-bot server, robots.txt
  restriction or exposed API endpoint was found
- allowed: nothing restricts collection

Legal notices and personal data never change the verdict, but they are
listed as risks with suggestions.

Examples:
  # Check a single site
  crewguard check https://example.com

  # Check several sites, four at a time
  crewguard check -b 4 https://a.example https://b.example https://c.example

  # Evaluate robots.txt for your own crawler's group
  crewguard check -a mybot -u "MyBot/1.0 (+https://example.com/bot)" https://example.com

  # Output a JSON report with version and digest
  crewguard check --json --envelope https://example.com

Configuration file (.crewguard) example:
  sites:
    example.com:
      userAgent: "MyBot/1.0 (+https://example.com/bot)"
      headers:
        From: "crawler-ops@example.com"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheckCmd,
	}

	addCheckerFlags(cmd)

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent checks")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().Bool("envelope", false,
		"Wrap JSON reports with the crewguard version and a SHA3-256 digest")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable colours in the text report")

	return cmd
}

// checkOptions are the output settings that are not part of Config.
type checkOptions struct {
	envelope bool
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, opts, err := buildCheckConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildCheckConfig creates a Config from the check command's flags.
func buildCheckConfig(cmd *cobra.Command, args []string) (*config.Config, checkOptions, error) {
	var opts checkOptions

	cfg, err := buildCheckerConfig(cmd)
	if err != nil {
		return nil, opts, err
	}

	flags := cmd.Flags()
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, opts, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, opts, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, opts, err
	}
	if opts.envelope, err = flags.GetBool("envelope"); err != nil {
		return nil, opts, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, opts, err
	}
	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return nil, opts, err
	}
	// color.NoColor is true when stdout is not a terminal or NO_COLOR is set.
	cfg.Color = !noColor && !color.NoColor && cfg.ReportFile == ""

	cfg.Targets = args
	return cfg, opts, nil
}

// runCheck checks every target and writes the reports in input order.
// A target that could not be checked is reported on stderr and makes the
// command fail after the remaining reports are written.
func runCheck(ctx context.Context, cfg *config.Config, opts checkOptions, stdout, stderr io.Writer, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more URLs as arguments)")
	}

	if cfg.ProxyAddress != "" {
		if status := fetch.CheckProxy(ctx, cfg.ProxyAddress); status != fetch.ProxyStatusOK {
			return fmt.Errorf("proxy check failed: %w (make sure a SOCKS5 proxy is running at %s)",
				status.Err(), cfg.ProxyAddress)
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
	}

	checker, err := pipeline.NewChecker(cfg, pipeline.WithCheckerLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("starting check", "targets", len(cfg.Targets), "batchSize", cfg.BatchSize)
	start := time.Now()

	bp := pipeline.NewBatchProcessor(checker,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	results, batchErr := bp.ProcessBatch(ctx, cfg.Targets)

	output, closeOutput, err := openOutput(cfg, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := newReportWriter(cfg, opts, output)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(stderr, "Check error for %s: %v\n", r.URL, r.Err)
			continue
		}
		if _, err := writer.Write(r.Report); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", r.URL, err)
		}
	}

	logger.Info("check finished", "elapsed", time.Since(start).Round(time.Millisecond), "failed", failed)

	if batchErr != nil {
		return batchErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

// openOutput returns the report destination. The returned close function
// is always safe to call.
func openOutput(cfg *config.Config, stdout io.Writer) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports quote page content and may name personal data, so the file
	// is readable by the owner only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter selects the writer for the configured format.
func newReportWriter(cfg *config.Config, opts checkOptions, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport && opts.envelope:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithColor(cfg.Color))
	}
}
