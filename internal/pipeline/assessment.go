package pipeline

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/nao1215/crewguard/internal/fetch"
	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/crewguard/internal/risk"
)

// Assessment is the mutable state of one check. It is created per CheckSite
// call and never shared between calls.
type Assessment struct {
	// Target is the parsed input URL.
	Target *url.URL

	// BaseURL is scheme://host[:port] of Target.
	BaseURL string

	// Response is the main page response; nil until fetched or when the
	// site is unreachable.
	Response *fetch.Response

	// Findings accumulate in step order.
	Findings []model.Finding

	// Level is the join of every finding's contribution so far.
	Level model.Level

	// Halted stops the remaining steps.
	Halted bool

	// Risks and Suggestions are set by the classify step.
	Risks       risk.Risks
	Suggestions []string
}

// ParseTarget parses and validates a target URL.
func ParseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// NewAssessment creates the state for checking target.
func NewAssessment(target *url.URL) *Assessment {
	return &Assessment{
		Target:   target,
		BaseURL:  target.Scheme + "://" + target.Host,
		Findings: make([]model.Finding, 0),
		Level:    model.LevelAllowed,
	}
}

// RequestedPath returns the target path, "/" when empty.
func (a *Assessment) RequestedPath() string {
	if p := a.Target.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

// Add appends findings and joins their contributions into the level.
func (a *Assessment) Add(findings ...model.Finding) {
	for _, f := range findings {
		a.Findings = append(a.Findings, f)
		a.Level = model.Join(a.Level, f.Contribution())
	}
}

// Halt records a terminal finding and stops the run at the blocked level.
func (a *Assessment) Halt(f model.Finding) {
	a.Add(f)
	a.Level = model.Join(a.Level, model.LevelBlocked)
	a.Halted = true
}

// Report assembles the final report. A halted run carries no risks and no
// suggestions.
func (a *Assessment) Report() *model.Report {
	report := model.NewReport(a.Target.String())
	report.Verdict = a.Level.Verdict()
	report.Findings = slices.Clone(a.Findings)
	if a.Halted {
		return report
	}
	if a.Risks.Legal != nil {
		report.LegalRisk = slices.Clone(a.Risks.Legal)
	}
	if a.Risks.Social != nil {
		report.SocialRisk = slices.Clone(a.Risks.Social)
	}
	if a.Risks.Technical != nil {
		report.TechnicalRisk = slices.Clone(a.Risks.Technical)
	}
	if a.Suggestions != nil {
		report.Suggestions = slices.Clone(a.Suggestions)
	}
	return report
}
