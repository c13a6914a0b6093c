package risk

import (
	"slices"
	"testing"

	"github.com/nao1215/crewguard/internal/model"
)

func advice(c Category, name string) string {
	for _, r := range Rules(c) {
		if r.Name == name {
			return r.Advice
		}
	}
	return ""
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		findings      []model.Finding
		wantLegal     []string
		wantSocial    []string
		wantTechnical []string
	}{
		{
			name:          "no findings",
			wantLegal:     []string{},
			wantSocial:    []string{},
			wantTechnical: []string{},
		},
		{
			name: "email triggers personal data and privacy impact",
			findings: []model.Finding{
				{Kind: model.KindStatus, Status: 200},
				{Kind: model.KindPrivacyEmail, Count: 1},
			},
			wantLegal:     []string{advice(CategoryLegal, "personal-data")},
			wantSocial:    []string{advice(CategorySocial, "privacy-impact")},
			wantTechnical: []string{},
		},
		{
			name:          "national id is legal only",
			findings:      []model.Finding{{Kind: model.KindPrivacyNationalID, Count: 2}},
			wantLegal:     []string{advice(CategoryLegal, "personal-data")},
			wantSocial:    []string{},
			wantTechnical: []string{},
		},
		{
			name: "anti-bot is social and technical",
			findings: []model.Finding{
				{Kind: model.KindAntiBotServer, Value: "cloudflare"},
				{Kind: model.KindJSChallenge, Value: "checking your browser"},
			},
			wantLegal:     []string{},
			wantSocial:    []string{advice(CategorySocial, "anti-bot")},
			wantTechnical: []string{advice(CategoryTechnical, "anti-bot")},
		},
		{
			name: "every rule fires once in rule order",
			findings: []model.Finding{
				{Kind: model.KindRedirect, URL: "https://example.com/home"},
				{Kind: model.KindRobotsUnreachable},
				{Kind: model.KindRobotsDisallow, Value: "/a"},
				{Kind: model.KindRobotsDisallow, Value: "/b"},
				{Kind: model.KindPrivacyPhone, Count: 3},
				{Kind: model.KindCopyright},
				{Kind: model.KindTermsOfService},
				{Kind: model.KindJSChallenge, Value: "ddos-guard"},
			},
			wantLegal: []string{
				advice(CategoryLegal, "terms"),
				advice(CategoryLegal, "copyright"),
				advice(CategoryLegal, "personal-data"),
			},
			wantSocial: []string{
				advice(CategorySocial, "robots-disallow"),
				advice(CategorySocial, "anti-bot"),
				advice(CategorySocial, "privacy-impact"),
			},
			wantTechnical: []string{
				advice(CategoryTechnical, "anti-bot"),
				advice(CategoryTechnical, "robots-unreachable"),
				advice(CategoryTechnical, "redirect"),
			},
		},
		{
			name: "informational robots findings trigger nothing",
			findings: []model.Finding{
				{Kind: model.KindRobotsFound, Value: "*"},
				{Kind: model.KindRobotsNoDisallow},
				{Kind: model.KindRobotsAllow, Value: "/"},
				{Kind: model.KindRobotsPathBlocked, Value: "/x"},
				{Kind: model.KindNoAPIEndpoints},
			},
			wantLegal:     []string{},
			wantSocial:    []string{},
			wantTechnical: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.findings)
			if !slices.Equal(got.Legal, tt.wantLegal) {
				t.Errorf("Legal = %v, want %v", got.Legal, tt.wantLegal)
			}
			if !slices.Equal(got.Social, tt.wantSocial) {
				t.Errorf("Social = %v, want %v", got.Social, tt.wantSocial)
			}
			if !slices.Equal(got.Technical, tt.wantTechnical) {
				t.Errorf("Technical = %v, want %v", got.Technical, tt.wantTechnical)
			}
			if got.Legal == nil || got.Social == nil || got.Technical == nil {
				t.Error("risk lists must never be nil")
			}
		})
	}
}

func TestClassify_BoundedByRuleCount(t *testing.T) {
	t.Parallel()

	var findings []model.Finding
	for kind := model.KindUnknown; kind <= model.KindNoAPIEndpoints; kind++ {
		findings = append(findings, model.Finding{Kind: kind}, model.Finding{Kind: kind})
	}

	got := Classify(findings)
	for _, c := range Categories() {
		if len(got.Get(c)) != len(Rules(c)) {
			t.Errorf("%s: %d entries, want %d", c, len(got.Get(c)), len(Rules(c)))
		}
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		risks Risks
		want  []string
	}{
		{
			name:  "clean site gets maintenance notes",
			risks: Risks{},
			want:  []string{LegalMaintenance, SocialMaintenance, TechnicalMaintenance, ClosingReminder},
		},
		{
			name:  "legal risk only",
			risks: Risks{Legal: []string{"x"}},
			want:  []string{LegalCaution, SocialMaintenance, TechnicalMaintenance, ClosingReminder},
		},
		{
			name:  "all categories",
			risks: Risks{Legal: []string{"x"}, Social: []string{"y"}, Technical: []string{"z"}},
			want:  []string{LegalCaution, SocialCaution, TechnicalCaution, ClosingReminder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Suggest(tt.risks); !slices.Equal(got, tt.want) {
				t.Errorf("Suggest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRisks_Helpers(t *testing.T) {
	t.Parallel()

	if !(Risks{}).Empty() {
		t.Error("zero Risks should be empty")
	}
	r := Risks{Technical: []string{"t"}}
	if r.Empty() {
		t.Error("Risks with technical advice should not be empty")
	}
	if r.Get(Category("other")) != nil {
		t.Error("unknown category should return nil")
	}

	rules := Rules(CategoryLegal)
	rules[0].Advice = "changed"
	if Rules(CategoryLegal)[0].Advice == "changed" {
		t.Error("Rules must return a copy")
	}
}
