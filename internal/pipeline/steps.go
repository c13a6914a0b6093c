package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nao1215/crewguard/internal/fetch"
	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/crewguard/internal/probe"
	"github.com/nao1215/crewguard/internal/risk"
	"github.com/nao1215/crewguard/internal/robots"
	"github.com/nao1215/crewguard/internal/signal"
)

// PageFetcher fetches the main page.
type PageFetcher interface {
	Fetch(ctx context.Context, target string, p fetch.Policy) (*fetch.Response, bool)
}

// MainPageStep fetches the base URL of the target and records its status
// and any redirect. The input path and query are not requested. An
// unreachable site halts the run.
type MainPageStep struct {
	fetcher PageFetcher
	policy  fetch.Policy
	logger  *slog.Logger
}

// NewMainPageStep creates the main page step.
func NewMainPageStep(f PageFetcher, policy fetch.Policy, logger *slog.Logger) *MainPageStep {
	return &MainPageStep{fetcher: f, policy: policy, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *MainPageStep) Name() string {
	return "main_page"
}

// Do fetches the page. Only a network failure halts; every status code is
// a response.
func (s *MainPageStep) Do(ctx context.Context, a *Assessment) error {
	target := a.BaseURL

	resp, ok := s.fetcher.Fetch(ctx, target, s.policy)
	if !ok {
		s.logger.Debug("target unreachable", "url", target)
		a.Halt(model.Finding{Kind: model.KindUnreachable, URL: target})
		return nil
	}
	a.Response = resp

	a.Add(model.Finding{Kind: model.KindStatus, Status: resp.StatusCode})
	if isRedirect(a.BaseURL, resp.FinalURL) {
		a.Add(model.Finding{Kind: model.KindRedirect, URL: resp.FinalURL})
	}
	return nil
}

// isRedirect reports whether the resolved URL differs from the base URL.
// A difference in a trailing slash alone is not a redirect.
func isRedirect(base, final string) bool {
	return strings.TrimSuffix(base, "/") != strings.TrimSuffix(final, "/")
}

// AntiBotStep checks the Server header and then the body for a JavaScript
// challenge. A challenge forces the blocked level.
type AntiBotStep struct{}

// NewAntiBotStep creates the anti-bot step.
func NewAntiBotStep() *AntiBotStep {
	return &AntiBotStep{}
}

// Name returns the step name.
func (s *AntiBotStep) Name() string {
	return "anti_bot"
}

// Do runs the anti-bot detectors.
func (s *AntiBotStep) Do(_ context.Context, a *Assessment) error {
	a.Add(signal.DetectAntiBotServer(a.Response.Server())...)
	if a.Response.Textual {
		a.Add(signal.DetectJSChallenge(a.Response.Body)...)
	}
	return nil
}

// ContentStep runs the body extractors on a textual page and surfaces the
// X-Robots-Tag header. None of these findings raises the level.
type ContentStep struct {
	extractors []signal.Extractor
	logger     *slog.Logger
}

// NewContentStep creates the content step with the standard extractors.
func NewContentStep(logger *slog.Logger) *ContentStep {
	return &ContentStep{extractors: signal.BodyExtractors(), logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ContentStep) Name() string {
	return "content_signals"
}

// Do runs the extractors.
func (s *ContentStep) Do(_ context.Context, a *Assessment) error {
	artifact := signal.Artifact{Body: a.Response.Body, Textual: a.Response.Textual}
	for _, e := range s.extractors {
		findings := e.Extract(artifact)
		s.logger.Debug("extractor finished", "extractor", e.Name(), "findings", len(findings))
		a.Add(findings...)
	}
	a.Add(signal.DetectXRobotsTag(a.Response.XRobotsTag())...)
	return nil
}

// RobotsStep evaluates the site's robots.txt.
type RobotsStep struct {
	checker *robots.Checker
}

// NewRobotsStep creates the robots step.
func NewRobotsStep(checker *robots.Checker) *RobotsStep {
	return &RobotsStep{checker: checker}
}

// Name returns the step name.
func (s *RobotsStep) Name() string {
	return "robots"
}

// Do fetches and renders robots.txt.
func (s *RobotsStep) Do(ctx context.Context, a *Assessment) error {
	a.Add(s.checker.Check(ctx, a.BaseURL, a.RequestedPath())...)
	return nil
}

// ProbeStep probes the API path suffixes.
type ProbeStep struct {
	prober *probe.Prober
}

// NewProbeStep creates the probe step.
func NewProbeStep(prober *probe.Prober) *ProbeStep {
	return &ProbeStep{prober: prober}
}

// Name returns the step name.
func (s *ProbeStep) Name() string {
	return "api_probe"
}

// Do records each endpoint found, or a single "none found" finding.
func (s *ProbeStep) Do(ctx context.Context, a *Assessment) error {
	findings := s.prober.Probe(ctx, a.BaseURL)
	if len(findings) == 0 {
		a.Add(model.Finding{Kind: model.KindNoAPIEndpoints})
		return nil
	}
	a.Add(findings...)
	return nil
}

// ClassifyStep derives the risk categories and suggestions from all
// findings.
type ClassifyStep struct{}

// NewClassifyStep creates the classify step.
func NewClassifyStep() *ClassifyStep {
	return &ClassifyStep{}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do classifies the findings.
func (s *ClassifyStep) Do(_ context.Context, a *Assessment) error {
	a.Risks = risk.Classify(a.Findings)
	a.Suggestions = risk.Suggest(a.Risks)
	return nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
