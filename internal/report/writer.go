package report

import (
	"io"

	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/crewguard/internal/risk"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// titleCaser capitalizes verdict and category labels.
var titleCaser = cases.Title(language.English)

// verdictLabel returns "Allowed", "Partial" or "Blocked".
func verdictLabel(v model.Verdict) string {
	return titleCaser.String(string(v))
}

// categoryLabel returns e.g. "Legal risk".
func categoryLabel(c risk.Category) string {
	return titleCaser.String(string(c)) + " risk"
}

// riskSection pairs a category with its lines in a report.
type riskSection struct {
	category risk.Category
	lines    []string
}

// riskSections returns the report's risk lists in category order.
func riskSections(report *model.Report) []riskSection {
	sections := make([]riskSection, 0, len(risk.Categories()))
	for _, c := range risk.Categories() {
		var lines []string
		switch c {
		case risk.CategoryLegal:
			lines = report.LegalRisk
		case risk.CategorySocial:
			lines = report.SocialRisk
		case risk.CategoryTechnical:
			lines = report.TechnicalRisk
		}
		sections = append(sections, riskSection{category: c, lines: lines})
	}
	return sections
}
