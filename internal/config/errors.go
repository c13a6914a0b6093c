package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still getting a readable message.
var (
	// ErrInvalidTimeout is returned when the main page timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRobotsTimeout is returned when the robots.txt timeout is not positive.
	ErrInvalidRobotsTimeout = errors.New("invalid robots timeout: must be positive")

	// ErrInvalidProbeTimeout is returned when the probe timeout is not positive.
	ErrInvalidProbeTimeout = errors.New("invalid probe timeout: must be positive")

	// ErrInvalidMaxRedirects is returned when the redirect limit is negative.
	ErrInvalidMaxRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrEmptyUserAgent is returned when no User-Agent is configured.
	// crewguard always declares its identity.
	ErrEmptyUserAgent = errors.New("invalid user agent: must not be empty")

	// ErrEmptyRobotsAgent is returned when no robots.txt agent is configured.
	ErrEmptyRobotsAgent = errors.New("invalid robots agent: must not be empty (use \"*\")")

	// ErrInvalidProbePath is returned when a probe path does not start with "/".
	ErrInvalidProbePath = errors.New("invalid probe path: must start with \"/\"")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
