package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/crewguard/internal/config"
	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/crewguard/internal/risk"
)

// site describes a mocked website.
type site struct {
	status   int
	server   string
	body     string
	robots   string // empty means 404
	apiPaths map[string]int
	redirect string // path "/" redirects here when set
}

func (s site) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.server != "" {
			w.Header().Set("Server", s.server)
		}
		switch {
		case r.URL.Path == "/robots.txt":
			if s.robots == "" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(s.robots))
		case r.URL.Path == "/" || r.URL.Path == "":
			if s.redirect != "" {
				http.Redirect(w, r, s.redirect, http.StatusFound)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			status := s.status
			if status == 0 {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			_, _ = w.Write([]byte(s.body))
		case r.URL.Path == s.redirect:
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(s.body))
		default:
			if code, ok := s.apiPaths[r.URL.Path]; ok {
				w.WriteHeader(code)
				return
			}
			http.NotFound(w, r)
		}
	})
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Timeout = 3 * time.Second
	cfg.RobotsTimeout = 2 * time.Second
	cfg.ProbeTimeout = 2 * time.Second
	return cfg
}

func newTestChecker(t *testing.T, cfg *config.Config) *Checker {
	t.Helper()
	c, err := NewChecker(cfg)
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	return c
}

func checkSite(t *testing.T, s site) *model.Report {
	t.Helper()

	server := httptest.NewServer(s.handler())
	t.Cleanup(server.Close)

	report, err := newTestChecker(t, testConfig()).CheckSite(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("CheckSite: %v", err)
	}
	return report
}

const cleanBody = "<html><head><title>Blog</title></head><body><h1>Hello</h1></body></html>"

func TestCheckSite_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	report, err := newTestChecker(t, testConfig()).CheckSite(context.Background(), target)
	if err != nil {
		t.Fatalf("unreachable site must not be an error: %v", err)
	}

	if report.Verdict != model.VerdictBlocked {
		t.Errorf("Verdict = %q, want blocked", report.Verdict)
	}
	if len(report.Findings) != 1 || report.Findings[0].Kind != model.KindUnreachable {
		t.Errorf("expected exactly one unreachable finding, got %v", report.FindingTexts())
	}
	if len(report.LegalRisk)+len(report.SocialRisk)+len(report.TechnicalRisk)+len(report.Suggestions) != 0 {
		t.Errorf("expected empty risk and suggestion lists, got %+v", report)
	}
}

func TestCheckSite_CleanSite(t *testing.T) {
	t.Parallel()

	report := checkSite(t, site{body: cleanBody, robots: "User-agent: *\nDisallow:\n"})

	if report.Verdict != model.VerdictAllowed {
		t.Errorf("Verdict = %q, want allowed; findings: %v", report.Verdict, report.FindingTexts())
	}
	if report.HasRisks() {
		t.Errorf("expected no risks, got %+v", report)
	}

	wantSuggestions := []string{risk.LegalMaintenance, risk.SocialMaintenance, risk.TechnicalMaintenance, risk.ClosingReminder}
	if !slices.Equal(report.Suggestions, wantSuggestions) {
		t.Errorf("Suggestions = %v", report.Suggestions)
	}

	wantKinds := []model.FindingKind{
		model.KindStatus,
		model.KindRobotsFound,
		model.KindRobotsNoDisallow,
		model.KindRobotsPathAllowed,
		model.KindNoAPIEndpoints,
	}
	gotKinds := make([]model.FindingKind, len(report.Findings))
	for i, f := range report.Findings {
		gotKinds[i] = f.Kind
	}
	if !slices.Equal(gotKinds, wantKinds) {
		t.Errorf("kinds = %v, want %v", gotKinds, wantKinds)
	}
}

func TestCheckSite_JSChallengeForcesBlocked(t *testing.T) {
	t.Parallel()

	report := checkSite(t, site{
		body:   "<html><body><p>Checking your browser...</p></body></html>",
		robots: "User-agent: *\nDisallow:\n",
	})

	if report.Verdict != model.VerdictBlocked {
		t.Errorf("Verdict = %q, want blocked", report.Verdict)
	}
	if !report.HasKind(model.KindJSChallenge) {
		t.Error("expected a js_challenge finding")
	}
	if len(report.SocialRisk) == 0 || len(report.TechnicalRisk) == 0 {
		t.Errorf("anti-bot should raise social and technical risk: %+v", report)
	}
}

func TestCheckSite_SensitiveDataDoesNotRaiseVerdict(t *testing.T) {
	t.Parallel()

	report := checkSite(t, site{
		body:   "<html><body>Write to jane.doe@example.org</body></html>",
		robots: "User-agent: *\nDisallow:\n",
	})

	if report.Verdict != model.VerdictAllowed {
		t.Errorf("Verdict = %q, want allowed", report.Verdict)
	}

	var personalData, privacyImpact string
	for _, r := range risk.Rules(risk.CategoryLegal) {
		if r.Name == "personal-data" {
			personalData = r.Advice
		}
	}
	for _, r := range risk.Rules(risk.CategorySocial) {
		if r.Name == "privacy-impact" {
			privacyImpact = r.Advice
		}
	}
	if !slices.Contains(report.LegalRisk, personalData) {
		t.Errorf("LegalRisk = %v, want personal data entry", report.LegalRisk)
	}
	if !slices.Contains(report.SocialRisk, privacyImpact) {
		t.Errorf("SocialRisk = %v, want privacy impact entry", report.SocialRisk)
	}
	if report.Suggestions[0] != risk.LegalCaution || report.Suggestions[1] != risk.SocialCaution {
		t.Errorf("Suggestions = %v", report.Suggestions)
	}
}

func TestCheckSite_PartialSignals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		site     site
		wantKind model.FindingKind
	}{
		{
			name:     "non-200 status",
			site:     site{status: http.StatusServiceUnavailable, body: cleanBody, robots: "User-agent: *\nDisallow:\n"},
			wantKind: model.KindStatus,
		},
		{
			name:     "redirect",
			site:     site{redirect: "/home", body: cleanBody, robots: "User-agent: *\nDisallow:\n"},
			wantKind: model.KindRedirect,
		},
		{
			name:     "cloudflare server header",
			site:     site{server: "cloudflare", body: cleanBody, robots: "User-agent: *\nDisallow:\n"},
			wantKind: model.KindAntiBotServer,
		},
		{
			name:     "robots disallow",
			site:     site{body: cleanBody, robots: "User-agent: *\nDisallow: /private\n"},
			wantKind: model.KindRobotsDisallow,
		},
		{
			name:     "robots missing",
			site:     site{body: cleanBody},
			wantKind: model.KindRobotsUnreachable,
		},
		{
			name:     "api endpoint",
			site:     site{body: cleanBody, robots: "User-agent: *\nDisallow:\n", apiPaths: map[string]int{"/api/": http.StatusUnauthorized}},
			wantKind: model.KindAPIEndpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := checkSite(t, tt.site)
			if report.Verdict != model.VerdictPartial {
				t.Errorf("Verdict = %q, want partial; findings: %v", report.Verdict, report.FindingTexts())
			}
			if !report.HasKind(tt.wantKind) {
				t.Errorf("expected a %v finding, got %v", tt.wantKind, report.FindingTexts())
			}
		})
	}
}

func TestCheckSite_Idempotent(t *testing.T) {
	t.Parallel()

	s := site{
		server:   "cloudflare",
		body:     `<html><head><meta name="robots" content="noindex"></head><body>Terms of Service © 2026 call 010-12345678</body></html>`,
		robots:   "User-agent: *\nDisallow: /admin\nAllow: /public\n",
		apiPaths: map[string]int{"/api/": 200, "/feed/": 403},
	}
	server := httptest.NewServer(s.handler())
	defer server.Close()

	c := newTestChecker(t, testConfig())
	var outputs [][]byte
	for range 3 {
		report, err := c.CheckSite(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("CheckSite: %v", err)
		}
		data, err := json.Marshal(report)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		outputs = append(outputs, data)
	}

	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			t.Errorf("run %d differs:\n%s\n%s", i, outputs[0], outputs[i])
		}
	}
}

// levelRecorder wraps a step and records the level after it ran.
type levelRecorder struct {
	Step
	levels *[]model.Level
}

func (r levelRecorder) Do(ctx context.Context, a *Assessment) error {
	err := r.Step.Do(ctx, a)
	*r.levels = append(*r.levels, a.Level)
	return err
}

func TestCheckSite_LevelIsMonotonic(t *testing.T) {
	t.Parallel()

	s := site{
		server:   "cloudflare",
		body:     "<p>checking your browser</p> jane@example.org",
		robots:   "User-agent: *\nDisallow: /admin\n",
		apiPaths: map[string]int{"/v1/": 200},
	}
	server := httptest.NewServer(s.handler())
	defer server.Close()

	c := newTestChecker(t, testConfig())
	inner := c.Pipeline(testConfig())

	var levels []model.Level
	p := New()
	for _, step := range inner.steps {
		p.AddStep(levelRecorder{Step: step, levels: &levels})
	}

	target, err := ParseTarget(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAssessment(target)
	if err := p.Execute(context.Background(), a); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(levels) != inner.StepCount() {
		t.Fatalf("recorded %d levels, want %d", len(levels), inner.StepCount())
	}
	prev := model.LevelAllowed
	for i, l := range levels {
		if l < prev {
			t.Errorf("level decreased at step %s: %v -> %v", inner.StepNames()[i], prev, l)
		}
		prev = l
	}
	if a.Level != model.LevelBlocked {
		t.Errorf("final Level = %v, want BLOCKED", a.Level)
	}
}

func TestCheckSite_InvalidURL(t *testing.T) {
	t.Parallel()

	c := newTestChecker(t, testConfig())
	for _, raw := range []string{"not a url", "ftp://example.com", "/relative"} {
		if _, err := c.CheckSite(context.Background(), raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("CheckSite(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestCheckSite_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestChecker(t, testConfig()).CheckSite(ctx, "https://example.com")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCheckSite_DropsInputPathAndQuery(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		paths []string
	)
	inner := site{body: cleanBody, robots: "User-agent: *\nDisallow:\n"}.handler()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.RequestURI())
		mu.Unlock()
		inner.ServeHTTP(w, r)
	}))
	defer server.Close()

	report, err := newTestChecker(t, testConfig()).CheckSite(context.Background(), server.URL+"/deep/page?q=1")
	if err != nil {
		t.Fatalf("CheckSite: %v", err)
	}

	if report.Verdict != model.VerdictAllowed {
		t.Errorf("Verdict = %q, want allowed; findings: %v", report.Verdict, report.FindingTexts())
	}
	if report.HasKind(model.KindRedirect) {
		t.Errorf("unexpected redirect finding: %v", report.FindingTexts())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) == 0 || paths[0] != "/" {
		t.Fatalf("main page request = %v, want / first", paths)
	}
	want := append([]string{"/", "/robots.txt"}, config.DefaultProbePaths()...)
	got := slices.Clone(paths)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("requested paths = %v, want %v", paths, want)
	}
}

func TestCheckSite_SiteOverrides(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		agents  []string
		headers []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		headers = append(headers, r.Header.Get("From"))
		mu.Unlock()
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.SiteConfigs = &config.File{
		Sites: map[string]config.SiteConfig{
			"127.0.0.1": {
				UserAgent:  "SiteBot/1.0",
				Headers:    map[string]string{"From": "ops@example.com"},
				ProbePaths: []string{"/graphql"},
			},
		},
	}

	if _, err := newTestChecker(t, cfg).CheckSite(context.Background(), server.URL); err != nil {
		t.Fatalf("CheckSite: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// main page, robots.txt and one probe
	if len(agents) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(agents))
	}
	for i := range agents {
		if agents[i] != "SiteBot/1.0" || headers[i] != "ops@example.com" {
			t.Errorf("request %d sent User-Agent=%q From=%q", i, agents[i], headers[i])
		}
	}
}

func TestNewChecker(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()
		if _, err := NewChecker(nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Timeout = 0
		if _, err := NewChecker(cfg); !errors.Is(err, config.ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("invalid proxy is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.ProxyAddress = "no-port"
		if _, err := NewChecker(cfg); err == nil {
			t.Error("expected proxy error")
		}
	})

	t.Run("config is copied", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		c, err := NewChecker(cfg)
		if err != nil {
			t.Fatal(err)
		}
		cfg.UserAgent = "mutated"
		if c.cfg.UserAgent == "mutated" {
			t.Error("checker shares the caller's config")
		}
	})
}
