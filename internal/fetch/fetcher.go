package fetch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/crewguard/internal/config"
	"golang.org/x/net/html/charset"
)

// Policy controls a single fetch.
// Each caller (main page, robots.txt, API probe) passes its own policy, so
// one Fetcher serves all of them with different timeouts.
type Policy struct {
	// Timeout bounds the whole request including the body read.
	// Zero means no timeout beyond the caller's context.
	Timeout time.Duration

	// FollowRedirects controls whether 3xx responses are followed.
	FollowRedirects bool

	// MaxRedirects limits the redirect chain. When the limit is reached the
	// last 3xx response is returned as-is instead of failing.
	MaxRedirects int
}

// Response is a fetched artifact. Every status code yields a Response;
// only network-level failures yield none.
type Response struct {
	// RequestedURL is the URL passed to Fetch.
	RequestedURL string

	// FinalURL is the URL of the last request after redirects.
	FinalURL string

	// StatusCode is the HTTP status code of the final response.
	StatusCode int

	// Header holds the final response headers.
	Header http.Header

	// ContentType is the media type of the body without parameters.
	ContentType string

	// Textual reports whether the body is text and was decoded into Body.
	Textual bool

	// Body is the decoded body text. It is empty when Textual is false.
	Body string
}

// Server returns the Server response header.
func (r *Response) Server() string {
	return r.Header.Get("Server")
}

// XRobotsTag returns the X-Robots-Tag response header.
func (r *Response) XRobotsTag() string {
	return r.Header.Get("X-Robots-Tag")
}

// Fetcher performs bounded GET requests with a fixed header set.
//
// Design decision: headers and transport are fixed at construction and
// copied, never shared. The same Fetcher is safe for concurrent use by the
// API prober because nothing in it is mutated after New returns.
type Fetcher struct {
	transport   http.RoundTripper
	headers     http.Header
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTransport sets the round tripper, e.g. a SOCKS5 transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		if rt != nil {
			f.transport = rt
		}
	}
}

// WithUserAgent sets the declared User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.headers.Set("User-Agent", ua)
		}
	}
}

// WithHeaders adds fixed headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		for k, v := range headers {
			f.headers.Set(k, v)
		}
	}
}

// WithMaxBodySize limits how many body bytes are read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher. Without options it uses a clone of
// http.DefaultTransport and declares config.DefaultUserAgent.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		transport:   http.DefaultTransport.(*http.Transport).Clone(),
		headers:     make(http.Header),
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	f.headers.Set("User-Agent", config.DefaultUserAgent)
	f.headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Headers returns a copy of the fixed request headers.
func (f *Fetcher) Headers() http.Header {
	return f.headers.Clone()
}

// Fetch performs a GET request and returns the response, or false when the
// target could not be reached (DNS, connect, TLS or timeout failure).
// Non-2xx responses are returned normally.
func (f *Fetcher) Fetch(ctx context.Context, target string, p Policy) (*Response, bool) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		f.logger.Debug("invalid request", "url", target, "error", err)
		return nil, false
	}
	req.Header = f.headers.Clone()

	client := &http.Client{
		Transport:     f.transport,
		CheckRedirect: redirectPolicy(p),
	}

	resp, err := client.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed", "url", target, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	// A body cut short by the deadline still leaves a usable response.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		f.logger.Debug("body read incomplete", "url", target, "error", err, "bytes", len(raw))
	}

	result := &Response{
		RequestedURL: target,
		FinalURL:     resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		Header:       resp.Header.Clone(),
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" && len(raw) > 0 {
		contentType = http.DetectContentType(raw)
	}
	result.ContentType = mediaType(contentType)

	if isTextual(result.ContentType) {
		result.Textual = true
		result.Body = decode(raw, contentType)
	}

	f.logger.Debug("fetched",
		"url", target,
		"final_url", result.FinalURL,
		"status", result.StatusCode,
		"content_type", result.ContentType,
	)

	return result, true
}

// redirectPolicy builds the CheckRedirect function for a policy.
func redirectPolicy(p Policy) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if !p.FollowRedirects || len(via) > p.MaxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}
}

// mediaType strips parameters from a Content-Type value.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

// isTextual reports whether a media type carries text.
// An unknown (empty) type of an empty body counts as text.
func isTextual(mt string) bool {
	switch {
	case mt == "":
		return true
	case strings.HasPrefix(mt, "text/"):
		return true
	case strings.HasSuffix(mt, "+xml"), strings.HasSuffix(mt, "+json"):
		return true
	}
	switch mt {
	case "application/xhtml+xml", "application/xml", "application/json",
		"application/javascript", "application/ecmascript":
		return true
	}
	return false
}

// decode converts the body to UTF-8 using the declared or sniffed charset.
func decode(raw []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
