package pipeline

import (
	"context"
	"net/http"
	"testing"

	"github.com/nao1215/crewguard/internal/fetch"
	"github.com/nao1215/crewguard/internal/model"
)

// stubPageFetcher returns a canned response and remembers the last target.
type stubPageFetcher struct {
	resp      *fetch.Response
	requested *string
}

func (s stubPageFetcher) Fetch(_ context.Context, target string, _ fetch.Policy) (*fetch.Response, bool) {
	if s.requested != nil {
		*s.requested = target
	}
	return s.resp, s.resp != nil
}

func TestIsRedirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested, final string
		want             bool
	}{
		{"https://example.com", "https://example.com/", false},
		{"https://example.com/", "https://example.com/", false},
		{"https://example.com", "https://www.example.com/", true},
		{"http://example.com", "https://example.com/", true},
		{"https://example.com/a", "https://example.com/b", true},
	}

	for _, tt := range tests {
		if got := isRedirect(tt.requested, tt.final); got != tt.want {
			t.Errorf("isRedirect(%q, %q) = %v, want %v", tt.requested, tt.final, got, tt.want)
		}
	}
}

func TestMainPageStep(t *testing.T) {
	t.Parallel()

	t.Run("unreachable halts", func(t *testing.T) {
		t.Parallel()

		a := newAssessment(t, "https://example.com")
		if err := NewMainPageStep(stubPageFetcher{}, fetch.Policy{}, nil).Do(context.Background(), a); err != nil {
			t.Fatal(err)
		}
		if !a.Halted || a.Level != model.LevelBlocked {
			t.Errorf("Halted=%v Level=%v, want halted and BLOCKED", a.Halted, a.Level)
		}
		if len(a.Findings) != 1 || a.Findings[0].Kind != model.KindUnreachable {
			t.Errorf("Findings = %v", a.Findings)
		}
	})

	t.Run("status and redirect", func(t *testing.T) {
		t.Parallel()

		a := newAssessment(t, "https://example.com")
		f := stubPageFetcher{resp: &fetch.Response{
			RequestedURL: "https://example.com",
			FinalURL:     "https://example.com/login",
			StatusCode:   http.StatusOK,
			Header:       http.Header{},
		}}
		if err := NewMainPageStep(f, fetch.Policy{}, nil).Do(context.Background(), a); err != nil {
			t.Fatal(err)
		}
		if a.Halted || a.Response == nil {
			t.Fatal("expected a response and no halt")
		}
		if len(a.Findings) != 2 || a.Findings[1].Kind != model.KindRedirect || a.Findings[1].URL != "https://example.com/login" {
			t.Errorf("Findings = %v", a.Findings)
		}
		if a.Level != model.LevelPartial {
			t.Errorf("Level = %v, want PARTIAL", a.Level)
		}
	})

	t.Run("fetches base URL without path and query", func(t *testing.T) {
		t.Parallel()

		var requested string
		a := newAssessment(t, "https://example.com:8443/deep/page?q=1")
		f := stubPageFetcher{
			requested: &requested,
			resp: &fetch.Response{
				RequestedURL: "https://example.com:8443",
				FinalURL:     "https://example.com:8443/",
				StatusCode:   http.StatusOK,
				Header:       http.Header{},
			},
		}
		if err := NewMainPageStep(f, fetch.Policy{}, nil).Do(context.Background(), a); err != nil {
			t.Fatal(err)
		}
		if requested != "https://example.com:8443" {
			t.Errorf("requested %q, want the base URL", requested)
		}
		if len(a.Findings) != 1 || a.Findings[0].Kind != model.KindStatus {
			t.Errorf("expected only a status finding, got %v", a.Findings)
		}
		if a.Level != model.LevelAllowed {
			t.Errorf("Level = %v, want ALLOWED", a.Level)
		}
	})
}

func TestAntiBotStep_NonTextualBodyIsIgnored(t *testing.T) {
	t.Parallel()

	a := newAssessment(t, "https://example.com")
	a.Response = &fetch.Response{
		Header:  http.Header{"Server": []string{"nginx"}},
		Body:    "",
		Textual: false,
	}
	if err := NewAntiBotStep().Do(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if len(a.Findings) != 0 || a.Level != model.LevelAllowed {
		t.Errorf("Findings = %v, Level = %v", a.Findings, a.Level)
	}
}

func TestClassifyStep(t *testing.T) {
	t.Parallel()

	a := newAssessment(t, "https://example.com")
	a.Add(model.Finding{Kind: model.KindCopyright})
	if err := NewClassifyStep().Do(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if len(a.Risks.Legal) != 1 || len(a.Suggestions) != 4 {
		t.Errorf("Risks = %+v, Suggestions = %v", a.Risks, a.Suggestions)
	}
}

func newAssessment(t *testing.T, raw string) *Assessment {
	t.Helper()
	target, err := ParseTarget(raw)
	if err != nil {
		t.Fatal(err)
	}
	return NewAssessment(target)
}
