// Package server exposes CheckSite to other programs.
//
// Two surfaces share one pipeline.SiteChecker:
//   - an HTTP API built on go-restful with an OpenAPI description and CORS
//   - an MCP server with a single check_site tool, served over stdio
//
// Neither surface keeps state between requests. Each request is one
// independent CheckSite call.
package server
