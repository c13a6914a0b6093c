package config

import (
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "crewguard"

	// DefaultTimeout bounds the main page fetch. Ten seconds covers slow
	// origins behind a CDN without letting one assessment hang.
	DefaultTimeout = 10 * time.Second

	// DefaultRobotsTimeout bounds the robots.txt fetch. It is shorter than
	// the main page timeout because robots.txt is a small static file.
	DefaultRobotsTimeout = 5 * time.Second

	// DefaultProbeTimeout bounds each API-surface probe individually.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultMaxRedirects limits redirect chains on followed requests.
	DefaultMaxRedirects = 5

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is sufficient for HTML pages and robots.txt files.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent is the static identity declared on every request.
	// crewguard never impersonates a browser.
	DefaultUserAgent = "CrewGuard/1.0 (+https://github.com/nao1215/crewguard)"

	// DefaultRobotsAgent is the robots.txt group selected when none is given.
	DefaultRobotsAgent = "*"

	// DefaultBatchSize is the number of concurrent site checks when several
	// targets are given on the command line.
	DefaultBatchSize = 4

	// DefaultServeAddress is the listen address of the HTTP API.
	DefaultServeAddress = ":8080"
)

// DefaultProbePaths returns the path suffixes probed for machine endpoints.
// A fresh slice is returned on every call so callers cannot alter the defaults.
func DefaultProbePaths() []string {
	return []string{"/api/", "/v1/", "/rest/", "/data/", "/feed/"}
}

// Config holds all configuration options for crewguard.
// It is populated from CLI flags and the config file, validated once, and
// then copied into components at construction time. Components never hold a
// reference back to Config.
type Config struct {
	// Timeout bounds the main page request.
	Timeout time.Duration

	// RobotsTimeout bounds the robots.txt request.
	RobotsTimeout time.Duration

	// ProbeTimeout bounds each API probe request.
	ProbeTimeout time.Duration

	// FollowRedirects controls whether the main page fetch follows redirects.
	// When false, a 3xx response is reported as-is.
	FollowRedirects bool

	// MaxRedirects is the redirect chain limit when FollowRedirects is true.
	MaxRedirects int

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Headers are extra fixed headers sent with every request.
	Headers map[string]string

	// RobotsAgent selects the robots.txt group to evaluate.
	RobotsAgent string

	// ProbePaths are the path suffixes probed for machine endpoints, in order.
	ProbePaths []string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// BatchSize is the number of concurrent checks for multiple targets.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// SiteConfigs holds per-host overrides loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Color enables ANSI colors in the text report.
	Color bool

	// ReportFile is the output file path; stdout when empty.
	ReportFile string

	// Targets are the URLs to check.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		RobotsTimeout:   DefaultRobotsTimeout,
		ProbeTimeout:    DefaultProbeTimeout,
		FollowRedirects: true,
		MaxRedirects:    DefaultMaxRedirects,
		MaxBodySize:     DefaultMaxBodySize,
		UserAgent:       DefaultUserAgent,
		Headers:         make(map[string]string),
		RobotsAgent:     DefaultRobotsAgent,
		ProbePaths:      DefaultProbePaths(),
		BatchSize:       DefaultBatchSize,
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Headers = maps.Clone(c.Headers)
	clone.ProbePaths = slices.Clone(c.ProbePaths)
	clone.Targets = slices.Clone(c.Targets)
	return &clone
}

// WithSite returns a copy of the configuration with the site overrides
// applied. The receiver is not modified.
func (c *Config) WithSite(site SiteConfig) *Config {
	result := c.Clone()
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.RobotsAgent != "" {
		result.RobotsAgent = site.RobotsAgent
	}
	if len(site.ProbePaths) > 0 {
		result.ProbePaths = slices.Clone(site.ProbePaths)
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}

// XDGConfigDir returns the XDG config directory for crewguard.
// On Linux: ~/.config/crewguard
// On macOS: ~/Library/Application Support/crewguard
// On Windows: %APPDATA%\crewguard
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RobotsTimeout <= 0 {
		return ErrInvalidRobotsTimeout
	}
	if c.ProbeTimeout <= 0 {
		return ErrInvalidProbeTimeout
	}
	if c.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.UserAgent == "" {
		return ErrEmptyUserAgent
	}
	if c.RobotsAgent == "" {
		return ErrEmptyRobotsAgent
	}
	for _, p := range c.ProbePaths {
		if len(p) == 0 || p[0] != '/' {
			return ErrInvalidProbePath
		}
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
