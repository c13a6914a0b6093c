package signal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/crewguard/internal/model"
)

// Artifact is the input to a body extractor.
type Artifact struct {
	// Body is the decoded page text.
	Body string

	// Textual reports whether Body holds text. Body extractors return no
	// findings for non-text content.
	Textual bool
}

// Extractor inspects an artifact and reports findings.
//
// Design decision: Extract has no error return. An artifact an extractor
// cannot interpret simply yields no findings, so one broken page never
// aborts the other extractors.
type Extractor interface {
	// Name returns the extractor name for logging.
	Name() string

	// Extract returns the findings for the artifact, in a fixed order.
	Extract(a Artifact) []model.Finding
}

// extractorFunc adapts a plain function to the Extractor interface.
type extractorFunc struct {
	name string
	fn   func(body string) []model.Finding
}

// Name returns the extractor name.
func (e extractorFunc) Name() string {
	return e.name
}

// Extract runs the function on textual artifacts only.
func (e extractorFunc) Extract(a Artifact) []model.Finding {
	if !a.Textual {
		return nil
	}
	return e.fn(a.Body)
}

// BodyExtractors returns the extractors that run on a textual main page,
// in the order their findings appear in the report.
// The JavaScript challenge detector is not part of this set because it
// runs earlier and carries a score effect of its own.
func BodyExtractors() []Extractor {
	return []Extractor{
		extractorFunc{name: "meta-robots", fn: DetectMetaRobots},
		extractorFunc{name: "legal-notice", fn: DetectLegalNotices},
		extractorFunc{name: "personal-data", fn: DetectPersonalData},
	}
}

// parseHTML parses a body into a goquery document.
// It returns nil when the body cannot be parsed.
func parseHTML(body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	return doc
}
