// Package signal holds the independent signal extractors.
//
// Every extractor inspects one artifact (body text or a response header) and
// returns zero or more findings. Extractors share no state, so they may run
// in any order or concurrently. Matching is heuristic: false positives are
// accepted, a missing signal is never proof of absence.
package signal
