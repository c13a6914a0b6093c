package risk

import (
	"slices"

	"github.com/nao1215/crewguard/internal/model"
)

// Category is a risk category.
type Category string

const (
	// CategoryLegal covers terms, copyright and personal-data law.
	CategoryLegal Category = "legal"
	// CategorySocial covers harm to the site operator and its users.
	CategorySocial Category = "social"
	// CategoryTechnical covers obstacles to collecting data reliably.
	CategoryTechnical Category = "technical"
)

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{CategoryLegal, CategorySocial, CategoryTechnical}
}

// Rule emits Advice once when any finding has one of Kinds.
type Rule struct {
	Name   string
	Kinds  []model.FindingKind
	Advice string
}

// matches reports whether any finding triggers the rule.
func (r Rule) matches(findings []model.Finding) bool {
	return slices.ContainsFunc(findings, func(f model.Finding) bool {
		return slices.Contains(r.Kinds, f.Kind)
	})
}

// antiBotKinds are the kinds that show active bot defence.
var antiBotKinds = []model.FindingKind{model.KindJSChallenge, model.KindAntiBotServer}

// rules lists each category's trigger rules in output order.
var rules = map[Category][]Rule{
	CategoryLegal: {
		{
			Name:   "terms",
			Kinds:  []model.FindingKind{model.KindTermsOfService},
			Advice: "Terms of Service are published; automated collection may breach them",
		},
		{
			Name:   "copyright",
			Kinds:  []model.FindingKind{model.KindCopyright},
			Advice: "Content is under copyright; republishing or bulk reuse may need permission",
		},
		{
			Name:   "personal-data",
			Kinds:  []model.FindingKind{model.KindPrivacyEmail, model.KindPrivacyPhone, model.KindPrivacyNationalID},
			Advice: "Pages contain email, phone number or ID number patterns; collecting personal data is regulated",
		},
	},
	CategorySocial: {
		{
			Name:   "robots-disallow",
			Kinds:  []model.FindingKind{model.KindRobotsDisallow},
			Advice: "robots.txt disallows some paths; crawling them ignores the operator's stated wishes",
		},
		{
			Name:   "anti-bot",
			Kinds:  antiBotKinds,
			Advice: "The site defends against bots; circumventing it may be treated as hostile",
		},
		{
			Name:   "privacy-impact",
			Kinds:  []model.FindingKind{model.KindPrivacyEmail, model.KindPrivacyPhone},
			Advice: "Harvesting contact details can expose the people behind them to spam or abuse",
		},
	},
	CategoryTechnical: {
		{
			Name:   "anti-bot",
			Kinds:  antiBotKinds,
			Advice: "Anti-bot protection is likely to challenge or block automated requests",
		},
		{
			Name:   "robots-unreachable",
			Kinds:  []model.FindingKind{model.KindRobotsUnreachable},
			Advice: "robots.txt could not be retrieved; the crawl rules are unknown",
		},
		{
			Name:   "redirect",
			Kinds:  []model.FindingKind{model.KindRedirect},
			Advice: "The site redirects; the crawler must follow redirects and re-check the final host",
		},
	},
}

// Rules returns a copy of the trigger rules of a category.
func Rules(c Category) []Rule {
	return slices.Clone(rules[c])
}

// Risks holds the advice emitted per category, in rule order.
type Risks struct {
	Legal     []string
	Social    []string
	Technical []string
}

// Get returns the advice list of a category.
func (r Risks) Get(c Category) []string {
	switch c {
	case CategoryLegal:
		return r.Legal
	case CategorySocial:
		return r.Social
	case CategoryTechnical:
		return r.Technical
	default:
		return nil
	}
}

// Empty reports whether no category has advice.
func (r Risks) Empty() bool {
	return len(r.Legal) == 0 && len(r.Social) == 0 && len(r.Technical) == 0
}

// Classify runs every category's rules over the findings. Each rule fires
// at most once, so a category never holds more entries than it has rules.
// The lists are never nil.
func Classify(findings []model.Finding) Risks {
	return Risks{
		Legal:     classify(CategoryLegal, findings),
		Social:    classify(CategorySocial, findings),
		Technical: classify(CategoryTechnical, findings),
	}
}

func classify(c Category, findings []model.Finding) []string {
	advice := make([]string, 0, len(rules[c]))
	for _, rule := range rules[c] {
		if rule.matches(findings) {
			advice = append(advice, rule.Advice)
		}
	}
	return advice
}
