// Package fetch retrieves web resources for crewguard.
//
// A Fetcher is built once per check with the declared User-Agent, any
// per-site headers and an optional SOCKS5 transport. Each call passes a
// Policy (timeout and redirect handling), so the main page, robots.txt and
// the API probes share one Fetcher with different budgets.
//
// Every HTTP status yields a Response. Only network failures (DNS, connect,
// TLS, timeout) are reported as absent, and they are never returned as Go
// errors: an unreachable site is a finding, not a failure of the tool.
//
// Textual bodies are decoded to UTF-8 with golang.org/x/net/html/charset so
// detectors see the same text a browser would render.
package fetch
