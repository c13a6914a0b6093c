package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nao1215/crewguard/internal/config"
	"github.com/nao1215/crewguard/internal/fetch"
	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/crewguard/internal/probe"
	"github.com/nao1215/crewguard/internal/robots"
)

// Checker runs site checks from a fixed configuration.
//
// Design decision: the configuration is cloned at construction and every
// CheckSite call builds its own fetcher and steps from it (plus per-site
// overrides). Only the transport and its connection pool are shared, so
// concurrent checks never observe each other's state.
type Checker struct {
	cfg       *config.Config
	transport http.RoundTripper
	logger    *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithCheckerLogger sets the logger passed to every component.
func WithCheckerLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithTransport sets the HTTP transport. It takes precedence over the
// configured proxy.
func WithTransport(rt http.RoundTripper) CheckerOption {
	return func(c *Checker) {
		c.transport = rt
	}
}

// NewChecker validates cfg and creates a Checker. A nil cfg uses defaults.
// When cfg names a proxy, requests are sent through a SOCKS5 transport.
func NewChecker(cfg *config.Config, opts ...CheckerOption) (*Checker, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Checker{cfg: cfg.Clone()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.transport == nil {
		if c.cfg.ProxyAddress != "" {
			transport, err := fetch.NewSOCKS5Transport(c.cfg.ProxyAddress)
			if err != nil {
				return nil, fmt.Errorf("failed to configure proxy: %w", err)
			}
			c.transport = transport
		} else {
			c.transport = http.DefaultTransport.(*http.Transport).Clone()
		}
	}

	return c, nil
}

// CheckSite checks one site and returns its report.
//
// Network failures never produce an error: an unreachable site yields a
// blocked report with a single finding. The error is ErrInvalidURL for a
// malformed target, or the context error when ctx is cancelled mid-check.
func (c *Checker) CheckSite(ctx context.Context, rawURL string) (*model.Report, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	a := NewAssessment(target)
	if err := c.Pipeline(c.configFor(target.Host)).Execute(ctx, a); err != nil {
		return nil, fmt.Errorf("check %s: %w", a.BaseURL, err)
	}

	c.logger.Debug("check complete", "url", target.String(), "verdict", string(a.Level.Verdict()))
	return a.Report(), nil
}

// configFor applies the per-site overrides for a host.
func (c *Checker) configFor(host string) *config.Config {
	if c.cfg.SiteConfigs == nil {
		return c.cfg
	}
	return c.cfg.WithSite(c.cfg.SiteConfigs.GetSiteConfig(host))
}

// Pipeline builds the ordered check steps for a configuration.
func (c *Checker) Pipeline(cfg *config.Config) *Pipeline {
	fetcher := fetch.New(
		fetch.WithTransport(c.transport),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(c.logger),
	)

	mainPolicy := fetch.Policy{
		Timeout:         cfg.Timeout,
		FollowRedirects: cfg.FollowRedirects,
		MaxRedirects:    cfg.MaxRedirects,
	}

	robotsChecker := robots.NewChecker(fetcher,
		robots.WithAgent(cfg.RobotsAgent),
		robots.WithTimeout(cfg.RobotsTimeout),
		robots.WithMaxRedirects(cfg.MaxRedirects),
		robots.WithLogger(c.logger),
	)

	prober := probe.NewProber(fetcher,
		probe.WithPaths(cfg.ProbePaths),
		probe.WithPolicy(fetch.Policy{
			Timeout:         cfg.ProbeTimeout,
			FollowRedirects: true,
			MaxRedirects:    cfg.MaxRedirects,
		}),
		probe.WithLogger(c.logger),
	)

	p := New(WithLogger(c.logger))
	p.AddSteps(
		NewMainPageStep(fetcher, mainPolicy, c.logger),
		NewAntiBotStep(),
		NewContentStep(c.logger),
		NewRobotsStep(robotsChecker),
		NewProbeStep(prober),
		NewClassifyStep(),
	)
	return p
}
