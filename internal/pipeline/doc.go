// Package pipeline runs a site check as an ordered sequence of steps.
//
// Each step reads and extends a per-run Assessment: the main page fetch, the
// header and body signals, robots.txt, the API probes and finally risk
// classification. Findings accumulate in step order and every finding joins
// its level contribution into the assessment level, which therefore only
// ever rises. An unreachable main page halts the run with the level at
// blocked.
//
// Checker wires the steps from an immutable configuration and exposes
// CheckSite. BatchProcessor runs many checks concurrently with errgroup and
// returns reports in input order.
package pipeline
