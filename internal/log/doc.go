// Package log provides secure logging built on top of the standard slog package.
//
// The SecureHandler masks request credentials (Authorization, Cookie, proxy
// passwords, tokens) and personal data found in logged strings (email
// addresses, phone and national-ID shaped numbers). Even in verbose mode the
// page content crewguard inspects never reaches the log verbatim.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("fetched page",
//	    "url", "https://example.com",
//	    "authorization", "Bearer abc", // masked
//	)
package log
