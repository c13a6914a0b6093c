package robots

import (
	"strings"
)

// Wildcard is the user-agent token that applies to every crawler.
const Wildcard = "*"

// RuleSet holds the Allow and Disallow paths of one user-agent token.
// Paths keep file order and are stored verbatim, including empty values.
type RuleSet struct {
	Agent    string
	Allow    []string
	Disallow []string
}

// AddAllow appends an Allow path.
func (rs *RuleSet) AddAllow(path string) {
	rs.Allow = append(rs.Allow, path)
}

// AddDisallow appends a Disallow path.
func (rs *RuleSet) AddDisallow(path string) {
	rs.Disallow = append(rs.Disallow, path)
}

// DisallowedPaths returns the Disallow paths that restrict something.
// An empty Disallow value permits everything and is left out.
func (rs *RuleSet) DisallowedPaths() []string {
	paths := make([]string, 0, len(rs.Disallow))
	for _, p := range rs.Disallow {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Rules maps a user-agent token, case-sensitive as written, to its rule set.
type Rules map[string]*RuleSet

// Select returns the rule set for agent, else the wildcard rule set.
// The second result is false when neither exists.
func (r Rules) Select(agent string) (*RuleSet, bool) {
	if rs, ok := r[agent]; ok {
		return rs, true
	}
	if rs, ok := r[Wildcard]; ok {
		return rs, true
	}
	return nil, false
}

// Parse reads robots.txt text into rules.
//
// Blank lines and lines starting with '#' are skipped, as is anything after
// an inline '#'. Every other line is split on its first colon; keys are
// case-insensitive. Allow and Disallow lines append to the rule set named by
// the most recent User-agent line only; a repeated agent token reuses its
// existing rule set. Allow and Disallow lines before any User-agent line,
// lines without a colon and unknown keys are ignored.
func Parse(text string) Rules {
	rules := make(Rules)
	var current *RuleSet

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			rs, exists := rules[value]
			if !exists {
				rs = &RuleSet{Agent: value}
				rules[value] = rs
			}
			current = rs
		case "allow":
			if current != nil {
				current.AddAllow(value)
			}
		case "disallow":
			if current != nil {
				current.AddDisallow(value)
			}
		}
	}

	return rules
}
