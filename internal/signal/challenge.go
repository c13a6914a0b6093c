package signal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/crewguard/internal/model"
)

// challengeMarkers are lowercase substrings left by anti-bot interstitials.
// The first marker found is reported.
var challengeMarkers = []string{
	"checking your browser",
	"cf-browser-verification",
	"cf_chl_",
	"challenge-platform",
	"ddos-guard",
	"_incapsula_resource",
	"px-captcha",
	"captcha-delivery.com",
}

// localizedChallengeMarkers are matched against the body as-is.
var localizedChallengeMarkers = []string{
	"人机验证",
	"安全验证",
	"验证码",
}

// antiBotServer is the Server header token of the CDN whose edge serves
// bot challenges.
const antiBotServer = "cloudflare"

// DetectJSChallenge reports a JavaScript challenge or captcha interstitial.
// It flags vendor markers, "checking your browser", a timed redirect
// (setTimeout together with location.href) and inline scripts that mention
// a captcha. At most one finding is returned.
func DetectJSChallenge(body string) []model.Finding {
	if body == "" {
		return nil
	}

	lower := strings.ToLower(body)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return challenge(marker)
		}
	}
	for _, marker := range localizedChallengeMarkers {
		if strings.Contains(body, marker) {
			return challenge(marker)
		}
	}

	if strings.Contains(lower, "settimeout") && strings.Contains(lower, "location.href") {
		return challenge("timed redirect")
	}

	if strings.Contains(lower, "captcha") && hasCaptchaScript(body) {
		return challenge("captcha script")
	}

	return nil
}

// hasCaptchaScript reports whether an inline <script> mentions a captcha.
func hasCaptchaScript(body string) bool {
	doc := parseHTML(body)
	if doc == nil {
		return false
	}

	found := false
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, external := s.Attr("src"); external {
			return true
		}
		if strings.Contains(strings.ToLower(s.Text()), "captcha") {
			found = true
			return false
		}
		return true
	})
	return found
}

func challenge(marker string) []model.Finding {
	return []model.Finding{{Kind: model.KindJSChallenge, Value: marker}}
}

// DetectAntiBotServer reports a Server header naming the anti-bot CDN.
// The header value is kept verbatim in the finding.
func DetectAntiBotServer(server string) []model.Finding {
	if !strings.Contains(strings.ToLower(server), antiBotServer) {
		return nil
	}
	return []model.Finding{{Kind: model.KindAntiBotServer, Value: server}}
}
