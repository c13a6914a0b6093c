package signal

import (
	"strings"

	"github.com/nao1215/crewguard/internal/model"
)

var (
	termsMarkers     = []string{"terms of service", "terms of use", "使用条款"}
	copyrightMarkers = []string{"copyright", "©", "&copy;", "版权所有"}
)

// DetectLegalNotices flags a terms of service mention and, separately, a
// copyright notice. Each is reported at most once, terms first.
func DetectLegalNotices(body string) []model.Finding {
	lower := strings.ToLower(body)
	var findings []model.Finding

	if containsAny(lower, termsMarkers) {
		findings = append(findings, model.Finding{Kind: model.KindTermsOfService})
	}
	if containsAny(lower, copyrightMarkers) {
		findings = append(findings, model.Finding{Kind: model.KindCopyright})
	}
	return findings
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
