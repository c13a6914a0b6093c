// Package report renders crewguard reports.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for terminal display, optionally coloured
//   - JSONWriter: the bare Report as JSON for tool integration
//   - FullJSONWriter: the Report wrapped with the tool version and a digest
//   - MarkdownWriter: a Markdown document for sharing in issues and wikis
//
// Design decision: report data structures live in the model package and
// never know how they are printed. Writers only read a Report, so the same
// report can be written in several formats through MultiWriter.
package report
