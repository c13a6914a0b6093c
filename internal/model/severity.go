package model

import (
	"encoding/json"
	"fmt"
)

// Level is the ordinal severity accumulated over one assessment.
// Levels form a total order LevelAllowed < LevelPartial < LevelBlocked, and
// the only way to combine two levels is Join.
//
// Design decision: We keep the numeric values 1..3 rather than starting at
// iota 0 so that the zero value is detectably "unset" and the stored integer
// matches the score people read in logs.
type Level int

const (
	// LevelAllowed means no signal restricts automated collection.
	LevelAllowed Level = iota + 1

	// LevelPartial means at least one signal restricts collection
	// (non-200 status, redirect, anti-bot server, robots disallow, exposed API).
	LevelPartial

	// LevelBlocked means the site is unreachable or serves a JavaScript
	// challenge. This is the top of the lattice.
	LevelBlocked
)

// Join returns the least upper bound of two levels, which for a total order
// is the maximum. Join is commutative, associative and idempotent, so the
// final level does not depend on the order checks contribute in.
func Join(a, b Level) Level {
	if a >= b {
		return a
	}
	return b
}

// JoinAll folds Join over levels starting from LevelAllowed.
func JoinAll(levels ...Level) Level {
	acc := LevelAllowed
	for _, l := range levels {
		acc = Join(acc, l)
	}
	return acc
}

// Verdict maps the level to its verdict.
// Unknown levels are treated as blocked, the worst case.
func (l Level) Verdict() Verdict {
	switch l {
	case LevelAllowed:
		return VerdictAllowed
	case LevelPartial:
		return VerdictPartial
	default:
		return VerdictBlocked
	}
}

// String returns a human-readable representation of the level.
func (l Level) String() string {
	switch l {
	case LevelAllowed:
		return "ALLOWED"
	case LevelPartial:
		return "PARTIAL"
	case LevelBlocked:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}

// Verdict is the final three-valued classification of crawl permissibility.
type Verdict string

const (
	// VerdictAllowed indicates crawling is likely permitted.
	VerdictAllowed Verdict = "allowed"
	// VerdictPartial indicates crawling is partially restricted.
	VerdictPartial Verdict = "partial"
	// VerdictBlocked indicates crawling is blocked or the site is unreachable.
	VerdictBlocked Verdict = "blocked"
)

// ParseVerdict converts a string to a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(s); v {
	case VerdictAllowed, VerdictPartial, VerdictBlocked:
		return v, nil
	default:
		return "", fmt.Errorf("unknown verdict %q", s)
	}
}

// UnmarshalJSON rejects verdict strings outside the three known values.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
