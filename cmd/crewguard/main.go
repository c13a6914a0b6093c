// Package main provides the entry point for the CrewGuard CLI.
//
// CrewGuard checks whether automated data collection from a website is
// allowed, partially restricted or blocked, and lists the legal, social and
// technical risks of crawling it.
//
// Usage:
//
//	crewguard check <url>
//	crewguard serve --addr :8080
//	crewguard mcp
//
// See --help for all available options.
package main

// main is the entry point for CrewGuard.
func main() {
	Execute()
}
