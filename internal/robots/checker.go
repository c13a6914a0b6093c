package robots

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/crewguard/internal/config"
	"github.com/nao1215/crewguard/internal/fetch"
	"github.com/nao1215/crewguard/internal/model"
	"github.com/temoto/robotstxt"
)

// Fetcher is the subset of fetch.Fetcher the checker needs.
type Fetcher interface {
	Fetch(ctx context.Context, target string, p fetch.Policy) (*fetch.Response, bool)
}

// Checker fetches a site's robots.txt and reports the rules that apply to
// one user-agent.
type Checker struct {
	fetcher Fetcher
	agent   string
	policy  fetch.Policy
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithAgent sets the user-agent token whose rules are selected.
func WithAgent(agent string) Option {
	return func(c *Checker) {
		if agent != "" {
			c.agent = agent
		}
	}
}

// WithTimeout sets the robots.txt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.policy.Timeout = d
		}
	}
}

// WithMaxRedirects sets how many redirects the robots.txt request follows.
func WithMaxRedirects(n int) Option {
	return func(c *Checker) {
		c.policy.MaxRedirects = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a Checker for the wildcard agent with the default
// robots.txt timeout.
func NewChecker(f Fetcher, opts ...Option) *Checker {
	c := &Checker{
		fetcher: f,
		agent:   config.DefaultRobotsAgent,
		policy: fetch.Policy{
			Timeout:         config.DefaultRobotsTimeout,
			FollowRedirects: true,
			MaxRedirects:    config.DefaultMaxRedirects,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Agent returns the user-agent token the checker selects rules for.
func (c *Checker) Agent() string {
	return c.agent
}

// Check fetches baseURL/robots.txt and returns its findings.
//
// A network failure or any status other than 200 yields a single
// robots_unreachable finding. Otherwise the parsed rules are rendered. When
// no rule set applies to the agent the single robots_no_rules finding is
// the whole result; else the requested path is tested against the body: a
// robots_path_allowed or robots_path_blocked finding, or robots_parse_failed
// when the body is not valid robots.txt grammar.
func (c *Checker) Check(ctx context.Context, baseURL, requestedPath string) []model.Finding {
	robotsURL := strings.TrimSuffix(baseURL, "/") + "/robots.txt"

	resp, ok := c.fetcher.Fetch(ctx, robotsURL, c.policy)
	if !ok {
		c.logger.Debug("robots.txt unreachable", "url", robotsURL)
		return []model.Finding{{Kind: model.KindRobotsUnreachable, URL: robotsURL}}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("robots.txt not available", "url", robotsURL, "status", resp.StatusCode)
		return []model.Finding{{Kind: model.KindRobotsUnreachable, URL: robotsURL, Status: resp.StatusCode}}
	}

	rules := Parse(resp.Body)
	findings := Render(rules, c.agent)
	if _, ok := rules.Select(c.agent); !ok {
		return findings
	}
	return append(findings, c.testPath(resp.Body, requestedPath))
}

// testPath checks the requested path with longest-match precedence.
func (c *Checker) testPath(body, requestedPath string) model.Finding {
	if requestedPath == "" {
		requestedPath = "/"
	}

	data, err := robotstxt.FromStatusAndString(http.StatusOK, body)
	if err != nil {
		c.logger.Debug("robots.txt grammar check failed", "error", err)
		return model.Finding{Kind: model.KindRobotsParseFailed, Value: parseErrorMessage(err)}
	}

	if data.TestAgent(requestedPath, c.agent) {
		return model.Finding{Kind: model.KindRobotsPathAllowed, Value: requestedPath}
	}
	return model.Finding{Kind: model.KindRobotsPathBlocked, Value: requestedPath}
}

// parseErrorMessage returns the first grammar error on one line.
func parseErrorMessage(err error) string {
	var pe *robotstxt.ParseError
	if errors.As(err, &pe) && len(pe.Errs) > 0 {
		return pe.Errs[0].Error()
	}
	return strings.Join(strings.Fields(err.Error()), " ")
}
