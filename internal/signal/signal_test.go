package signal

import (
	"testing"

	"github.com/nao1215/crewguard/internal/model"
)

func kindsOf(findings []model.Finding) []model.FindingKind {
	kinds := make([]model.FindingKind, 0, len(findings))
	for _, f := range findings {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}

func equalKinds(a, b []model.FindingKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDetectJSChallenge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantMarker string
	}{
		{name: "checking your browser", body: "<p>Checking your browser before accessing example.com...</p>", wantMarker: "checking your browser"},
		{name: "cloudflare challenge platform", body: `<script src="/cdn-cgi/challenge-platform/h/b/orchestrate"></script>`, wantMarker: "challenge-platform"},
		{name: "ddos-guard", body: "<title>DDoS-Guard</title>", wantMarker: "ddos-guard"},
		{name: "chinese captcha", body: "<p>请完成人机验证</p>", wantMarker: "人机验证"},
		{name: "timed redirect", body: `<script>setTimeout(function(){ window.location.href = "/real"; }, 5000);</script>`, wantMarker: "timed redirect"},
		{name: "inline captcha script", body: `<html><body><script>var captchaToken = load();</script></body></html>`, wantMarker: "captcha script"},
		{name: "external captcha script is not inline", body: `<html><body><script src="/captcha.js"></script></body></html>`},
		{name: "setTimeout alone", body: `<script>setTimeout(tick, 100);</script>`},
		{name: "plain page", body: "<html><body><h1>Welcome</h1></body></html>"},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DetectJSChallenge(tt.body)
			if tt.wantMarker == "" {
				if len(got) != 0 {
					t.Errorf("expected no findings, got %v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(got))
			}
			if got[0].Kind != model.KindJSChallenge {
				t.Errorf("Kind = %v, want js_challenge", got[0].Kind)
			}
			if got[0].Value != tt.wantMarker {
				t.Errorf("Value = %q, want %q", got[0].Value, tt.wantMarker)
			}
		})
	}
}

func TestDetectAntiBotServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		server string
		want   bool
	}{
		{"cloudflare", true},
		{"Cloudflare-nginx", true},
		{"nginx/1.25", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			t.Parallel()

			got := DetectAntiBotServer(tt.server)
			if (len(got) == 1) != tt.want {
				t.Fatalf("DetectAntiBotServer(%q) = %v, want finding=%v", tt.server, got, tt.want)
			}
			if tt.want && got[0].Value != tt.server {
				t.Errorf("Value = %q, want %q", got[0].Value, tt.server)
			}
		})
	}
}

func TestDetectMetaRobots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "noindex", body: `<html><head><meta name="robots" content="noindex, nofollow"></head></html>`, want: "noindex, nofollow"},
		{name: "uppercase name", body: `<meta name="ROBOTS" content="noarchive">`, want: "noarchive"},
		{name: "first tag wins", body: `<meta name="robots" content="noindex"><meta name="robots" content="all">`, want: "noindex"},
		{name: "other meta ignored", body: `<meta name="description" content="robots everywhere">`},
		{name: "empty content", body: `<meta name="robots" content="">`},
		{name: "no meta", body: `<p>hello</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DetectMetaRobots(tt.body)
			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("expected no findings, got %v", got)
				}
				return
			}
			if len(got) != 1 || got[0].Kind != model.KindMetaRobots || got[0].Value != tt.want {
				t.Errorf("got %v, want meta_robots %q", got, tt.want)
			}
		})
	}
}

func TestDetectXRobotsTag(t *testing.T) {
	t.Parallel()

	if got := DetectXRobotsTag(""); len(got) != 0 {
		t.Errorf("expected no findings for empty header, got %v", got)
	}

	got := DetectXRobotsTag("noindex, noarchive")
	if len(got) != 1 || got[0].Value != "noindex, noarchive" {
		t.Errorf("expected verbatim header, got %v", got)
	}
	if got[0].Text() != "ℹ️ X-Robots-Tag: noindex, noarchive" {
		t.Errorf("Text() = %q", got[0].Text())
	}
}

func TestDetectLegalNotices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []model.FindingKind
	}{
		{name: "terms and copyright", body: "<a>Terms of Service</a> © 2026 Example", want: []model.FindingKind{model.KindTermsOfService, model.KindCopyright}},
		{name: "terms of use", body: "Read our Terms of Use", want: []model.FindingKind{model.KindTermsOfService}},
		{name: "chinese terms", body: "请阅读使用条款", want: []model.FindingKind{model.KindTermsOfService}},
		{name: "copyright word", body: "Copyright Example Inc.", want: []model.FindingKind{model.KindCopyright}},
		{name: "copyright entity", body: "&copy; Example", want: []model.FindingKind{model.KindCopyright}},
		{name: "chinese copyright", body: "版权所有 示例公司", want: []model.FindingKind{model.KindCopyright}},
		{name: "nothing", body: "hello world", want: []model.FindingKind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := kindsOf(DetectLegalNotices(tt.body))
			if !equalKinds(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectPersonalData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantKinds  []model.FindingKind
		wantCounts []int
	}{
		{
			name:       "email only",
			body:       "Contact: info@example.com or info@example.com",
			wantKinds:  []model.FindingKind{model.KindPrivacyEmail},
			wantCounts: []int{1},
		},
		{
			name:       "phone with separator",
			body:       "Call 010-12345678 or 0755 87654321",
			wantKinds:  []model.FindingKind{model.KindPrivacyPhone},
			wantCounts: []int{2},
		},
		{
			name:       "national id is not a phone",
			body:       "ID 110101199003077777",
			wantKinds:  []model.FindingKind{model.KindPrivacyNationalID},
			wantCounts: []int{1},
		},
		{
			name:       "all kinds in fixed order",
			body:       "a@b.io 110101199003077777 021-1234567",
			wantKinds:  []model.FindingKind{model.KindPrivacyPhone, model.KindPrivacyEmail, model.KindPrivacyNationalID},
			wantCounts: []int{1, 1, 1},
		},
		{
			name:      "nothing",
			body:      "no personal data here, just 2026",
			wantKinds: []model.FindingKind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DetectPersonalData(tt.body)
			if !equalKinds(kindsOf(got), tt.wantKinds) {
				t.Fatalf("kinds = %v, want %v", kindsOf(got), tt.wantKinds)
			}
			for i, f := range got {
				if f.Count != tt.wantCounts[i] {
					t.Errorf("%v count = %d, want %d", f.Kind, f.Count, tt.wantCounts[i])
				}
				if f.Value != "" {
					t.Errorf("%v should not carry the matched value, got %q", f.Kind, f.Value)
				}
			}
		})
	}
}

func TestBodyExtractors(t *testing.T) {
	t.Parallel()

	body := `<html><head><meta name="robots" content="noindex"></head>
<body>Terms of Service. Mail: someone@example.org</body></html>`

	var got []model.FindingKind
	for _, e := range BodyExtractors() {
		if e.Name() == "" {
			t.Error("extractor without a name")
		}
		got = append(got, kindsOf(e.Extract(Artifact{Body: body, Textual: true}))...)
	}

	want := []model.FindingKind{model.KindMetaRobots, model.KindTermsOfService, model.KindPrivacyEmail}
	if !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}

	t.Run("non-text artifact yields nothing", func(t *testing.T) {
		t.Parallel()
		for _, e := range BodyExtractors() {
			if f := e.Extract(Artifact{Body: body, Textual: false}); len(f) != 0 {
				t.Errorf("%s returned %v for binary content", e.Name(), f)
			}
		}
	})
}
