package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/crewguard/internal/config"
	"github.com/nao1215/crewguard/internal/model"
	"golang.org/x/sync/errgroup"
)

// SiteChecker checks one site. *Checker implements it.
type SiteChecker interface {
	CheckSite(ctx context.Context, rawURL string) (*model.Report, error)
}

// Result is the outcome of one check in a batch.
type Result struct {
	// URL is the target as given.
	URL string

	// Report is nil when Err is set.
	Report *model.Report

	// Err is the CheckSite error, if any.
	Err error
}

// BatchProcessor checks many sites concurrently.
//
// Design decision: checks are independent, so one failed target never stops
// the batch. Only cancellation of the parent context ends it early.
type BatchProcessor struct {
	checker     SiteChecker
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent checks.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. The default concurrency is
// config.DefaultBatchSize.
func NewBatchProcessor(checker SiteChecker, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		checker:     checker,
		concurrency: config.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch checks every URL and returns the results in input order.
// The error is the context error when the batch was cancelled; results of
// checks that never started then carry that error too.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]Result, error) {
	bp.logger.Debug("starting batch", "total", len(urls), "concurrency", bp.concurrency)
	start := time.Now()

	// Each goroutine writes only its own index.
	results := make([]Result, len(urls))

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			results[i].URL = rawURL

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			report, err := bp.checker.CheckSite(ctx, rawURL)
			if err != nil {
				bp.logger.Warn("check failed", "url", rawURL, "error", err)
				results[i].Err = err
				return nil
			}
			results[i].Report = report

			bp.logger.Debug("check completed",
				"url", rawURL,
				"index", i+1,
				"total", len(urls),
				"verdict", string(report.Verdict),
			)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines record errors in results

	bp.logger.Debug("batch complete", "total", len(urls), "elapsed", time.Since(start))
	return results, ctx.Err()
}
