// Package model defines the data structures shared across crewguard:
// the severity Level lattice and Verdict, typed Findings, and the Report
// returned by a site check.
//
// Findings are a closed set of kinds with a small structured payload. The
// human-readable line of a finding is derived from that payload by Text and
// is never parsed back; scoring and risk classification match on Kind.
package model
