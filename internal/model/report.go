package model

// Report is the final artifact of one CheckSite run.
// All list fields are presentation-ordered; callers must not reorder them.
//
// Design decision: list fields are always non-nil so that JSON consumers see
// empty arrays instead of null, which keeps the wire contract uniform.
type Report struct {
	// URL is the checked URL.
	URL string `json:"url"`

	// Verdict is derived from the final Level.
	Verdict Verdict `json:"verdict"`

	// Findings are the observations in the order the checks produced them.
	Findings []Finding `json:"findings"`

	// LegalRisk holds at most one line per legal trigger rule.
	LegalRisk []string `json:"legalRisk"`

	// SocialRisk holds at most one line per social trigger rule.
	SocialRisk []string `json:"socialRisk"`

	// TechnicalRisk holds at most one line per technical trigger rule.
	TechnicalRisk []string `json:"technicalRisk"`

	// Suggestions holds one line per risk category plus a closing reminder.
	Suggestions []string `json:"suggestions"`
}

// NewReport creates an empty report for the given URL.
func NewReport(url string) *Report {
	return &Report{
		URL:           url,
		Verdict:       VerdictAllowed,
		Findings:      make([]Finding, 0),
		LegalRisk:     make([]string, 0),
		SocialRisk:    make([]string, 0),
		TechnicalRisk: make([]string, 0),
		Suggestions:   make([]string, 0),
	}
}

// FindingTexts returns the rendered text of every finding in order.
func (r *Report) FindingTexts() []string {
	texts := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		texts[i] = f.Text()
	}
	return texts
}

// HasKind reports whether any finding has the given kind.
func (r *Report) HasKind(kind FindingKind) bool {
	for _, f := range r.Findings {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// HasRisks reports whether any risk category is non-empty.
func (r *Report) HasRisks() bool {
	return len(r.LegalRisk) > 0 || len(r.SocialRisk) > 0 || len(r.TechnicalRisk) > 0
}

// CountByGlyph counts findings per severity glyph.
func (r *Report) CountByGlyph() map[Glyph]int {
	counts := make(map[Glyph]int)
	for _, f := range r.Findings {
		counts[f.Glyph()]++
	}
	return counts
}
