// Package robots fetches and interprets robots.txt.
//
// Parse is a best-effort, line-oriented parser: it never fails, and it
// ignores what it does not recognize. Its rule sets are rendered as findings
// for the selected user-agent, falling back to the "*" wildcard.
//
// The same body is then checked with github.com/temoto/robotstxt, which
// applies longest-match precedence to decide whether the requested path may
// be crawled. A body that library rejects is reported as a parse failure.
package robots
