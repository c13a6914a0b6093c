package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
// They cover request headers crewguard may send from per-site config and
// the proxy credentials it may be started with.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"api_key":             true,
	"apikey":              true,
	"password":            true,
	"secret":              true,
	"token":               true,
	"session":             true,
	"session_id":          true,
}

// sensitiveKeywords mark a key as sensitive when contained anywhere in it.
// The bare word "key" is excluded because it matches too much
// (e.g. "cache_key", "monkey").
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "cookie",
}

// credentialPatterns match whole values that are credentials.
var credentialPatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// Bearer and Basic authorization values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// Long opaque API keys
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
}

// personalDataPatterns match personal data inside any string value.
// They mirror the shapes the privacy detector looks for, so that page
// content quoted in debug logs does not leak what the report only counts.
var personalDataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	regexp.MustCompile(`\b\d{15,18}\b`),
	regexp.MustCompile(`\b\d{3,4}[-\s]?\d{7,8}\b`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and redacts sensitive information
// before records reach the underlying handler.
//
// Three kinds of redaction are applied to attributes:
//  1. values under credential-like keys are masked entirely
//  2. credential-shaped values are masked entirely regardless of key
//  3. URLs lose their userinfo password and personal data inside strings
//     (emails, phone and ID shaped numbers) is masked in place
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's message and attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, redactPersonalData(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	if isCredentialValue(value) {
		return slog.String(a.Key, MaskValue)
	}

	cleaned := redactPersonalData(redactURLPassword(value))
	if cleaned != value {
		return slog.String(a.Key, cleaned)
	}
	return a
}

// containsSensitiveKeyword checks if the key contains a sensitive keyword.
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isCredentialValue checks if a value is shaped like a credential.
func isCredentialValue(value string) bool {
	for _, pattern := range credentialPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// redactURLPassword strips the password from a URL with userinfo,
// e.g. a SOCKS5 proxy URL. Non-URL values are returned unchanged.
func redactURLPassword(value string) string {
	if !strings.Contains(value, "://") || !strings.Contains(value, "@") {
		return value
	}
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return value
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return value
	}
	return u.Redacted()
}

// redactPersonalData masks personal-data shaped substrings in place.
func redactPersonalData(value string) string {
	for _, pattern := range personalDataPatterns {
		value = pattern.ReplaceAllString(value, MaskValue)
	}
	return value
}

// NewSecureLogger creates a text slog.Logger with secure handling.
// verbose selects Debug level; otherwise only warnings and errors are logged.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFor(verbose)}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, opts)))
}

// NewSecureJSONLogger creates a JSON slog.Logger with secure handling.
// The HTTP API uses it so request logs can be shipped to log aggregators.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFor(verbose)}
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, opts)))
}

// levelFor maps the verbose flag to a log level.
func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
