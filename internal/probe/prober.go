package probe

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/nao1215/crewguard/internal/config"
	"github.com/nao1215/crewguard/internal/fetch"
	"github.com/nao1215/crewguard/internal/model"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the subset of fetch.Fetcher the prober needs.
type Fetcher interface {
	Fetch(ctx context.Context, target string, p fetch.Policy) (*fetch.Response, bool)
}

// evidenceStatus holds the status codes that count as an existing endpoint.
var evidenceStatus = map[int]bool{
	http.StatusOK:           true,
	http.StatusUnauthorized: true,
	http.StatusForbidden:    true,
}

// Prober probes a fixed, ordered list of path suffixes.
//
// Design decision: the path list is copied at construction and never
// changed, so a Prober is safe to share between concurrent checks.
type Prober struct {
	fetcher     Fetcher
	paths       []string
	policy      fetch.Policy
	concurrency int
	logger      *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithPaths sets the probed path suffixes. Each must start with "/".
func WithPaths(paths []string) Option {
	return func(p *Prober) {
		if len(paths) > 0 {
			p.paths = slices.Clone(paths)
		}
	}
}

// WithPolicy sets the per-probe fetch policy.
func WithPolicy(policy fetch.Policy) Option {
	return func(p *Prober) {
		p.policy = policy
	}
}

// WithConcurrency limits how many probes run at once. One runs them
// sequentially.
func WithConcurrency(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber creates a Prober for the default path suffixes and the default
// probe timeout. Redirects are followed and the resolved URL is reported.
func NewProber(f Fetcher, opts ...Option) *Prober {
	p := &Prober{
		fetcher: f,
		paths:   config.DefaultProbePaths(),
		policy: fetch.Policy{
			Timeout:         config.DefaultProbeTimeout,
			FollowRedirects: true,
			MaxRedirects:    config.DefaultMaxRedirects,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency == 0 {
		p.concurrency = len(p.paths)
	}
	return p
}

// Paths returns a copy of the probed path suffixes.
func (p *Prober) Paths() []string {
	return slices.Clone(p.paths)
}

// Probe requests every path suffix and returns an api_endpoint finding for
// each one that answered with 200, 401 or 403. Findings follow the path
// order regardless of completion order. A failed probe affects no other.
func (p *Prober) Probe(ctx context.Context, baseURL string) []model.Finding {
	base := strings.TrimSuffix(baseURL, "/")
	results := make([]*model.Finding, len(p.paths))

	// The group has no shared context: one failure must not cancel the rest.
	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, path := range p.paths {
		g.Go(func() error {
			results[i] = p.probeOne(ctx, base+path)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probe goroutines never return errors

	findings := make([]model.Finding, 0, len(results))
	for _, f := range results {
		if f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// probeOne requests one URL and returns a finding when it answered with an
// evidence status.
func (p *Prober) probeOne(ctx context.Context, target string) *model.Finding {
	resp, ok := p.fetcher.Fetch(ctx, target, p.policy)
	if !ok {
		p.logger.Debug("probe skipped", "url", target)
		return nil
	}
	if !evidenceStatus[resp.StatusCode] {
		return nil
	}

	p.logger.Debug("endpoint found", "url", resp.FinalURL, "status", resp.StatusCode)
	return &model.Finding{
		Kind:   model.KindAPIEndpoint,
		URL:    resp.FinalURL,
		Status: resp.StatusCode,
	}
}
