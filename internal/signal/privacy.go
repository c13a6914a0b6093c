package signal

import (
	"regexp"

	"github.com/nao1215/crewguard/internal/model"
)

// Personal-data shapes. These are pattern heuristics, not validation:
// order numbers and timestamps can match the digit patterns.
var (
	// phoneRegex matches a 3-4 digit prefix and a 7-8 digit suffix with an
	// optional dash or space between them.
	phoneRegex = regexp.MustCompile(`\b\d{3,4}[-\s]?\d{7,8}\b`)

	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// nationalIDRegex matches 15 to 18 digit runs.
	nationalIDRegex = regexp.MustCompile(`\b\d{15,18}\b`)
)

// DetectPersonalData flags phone, email and national-ID shaped strings.
// Each kind yields one finding carrying the number of distinct matches.
// The matched values themselves are not kept.
func DetectPersonalData(body string) []model.Finding {
	var findings []model.Finding

	patterns := []struct {
		kind  model.FindingKind
		regex *regexp.Regexp
	}{
		{model.KindPrivacyPhone, phoneRegex},
		{model.KindPrivacyEmail, emailRegex},
		{model.KindPrivacyNationalID, nationalIDRegex},
	}

	for _, p := range patterns {
		if n := countDistinct(p.regex.FindAllString(body, -1)); n > 0 {
			findings = append(findings, model.Finding{Kind: p.kind, Count: n})
		}
	}
	return findings
}

func countDistinct(matches []string) int {
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		seen[m] = struct{}{}
	}
	return len(seen)
}
