package risk

// Canned suggestions, one pair per category.
const (
	LegalCaution     = "Review the terms of service and copyright notices, and avoid storing personal data, before collecting anything."
	LegalMaintenance = "No legal risk signals found; re-check the terms of service from time to time."

	SocialCaution     = "Honour robots.txt exclusions and keep request volume low so the operator and its users are not harmed."
	SocialMaintenance = "No social risk signals found; keep crawling considerate and easy to contact."

	TechnicalCaution     = "Expect challenges, blocks or redirects; prefer an official API or ask the operator for access."
	TechnicalMaintenance = "No technical obstacles found; keep monitoring for new anti-bot measures."

	// ClosingReminder is always the last suggestion.
	ClosingReminder = "Always respect robots.txt and identify your crawler honestly with a descriptive User-Agent."
)

// suggestions maps a category to its caution and maintenance texts.
var suggestions = map[Category][2]string{
	CategoryLegal:     {LegalCaution, LegalMaintenance},
	CategorySocial:    {SocialCaution, SocialMaintenance},
	CategoryTechnical: {TechnicalCaution, TechnicalMaintenance},
}

// Suggest returns one suggestion per category, a caution when the category
// has advice and a maintenance note otherwise, followed by the closing
// reminder. The output always has four entries in a fixed order.
func Suggest(r Risks) []string {
	out := make([]string, 0, len(suggestions)+1)
	for _, c := range Categories() {
		pair := suggestions[c]
		if len(r.Get(c)) > 0 {
			out = append(out, pair[0])
		} else {
			out = append(out, pair[1])
		}
	}
	return append(out, ClosingReminder)
}
