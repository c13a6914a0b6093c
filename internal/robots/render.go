package robots

import "github.com/nao1215/crewguard/internal/model"

// Render turns the rule set selected for agent into findings: a parsed
// marker, then every Disallow path (or a "no disallowed paths" finding),
// then every Allow path. Without a matching rule set a single "no rules"
// finding is returned.
func Render(rules Rules, agent string) []model.Finding {
	rs, ok := rules.Select(agent)
	if !ok {
		return []model.Finding{{Kind: model.KindRobotsNoRules, Value: agent}}
	}

	findings := []model.Finding{{Kind: model.KindRobotsFound, Value: rs.Agent}}

	disallowed := rs.DisallowedPaths()
	if len(disallowed) == 0 {
		findings = append(findings, model.Finding{Kind: model.KindRobotsNoDisallow})
	}
	for _, p := range disallowed {
		findings = append(findings, model.Finding{Kind: model.KindRobotsDisallow, Value: p})
	}

	for _, p := range rs.Allow {
		findings = append(findings, model.Finding{Kind: model.KindRobotsAllow, Value: p})
	}

	return findings
}
