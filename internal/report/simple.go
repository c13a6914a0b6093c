package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nao1215/crewguard/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and, optionally, colour-coded verdicts and findings.
//
// Design decision: colours are off unless WithColor(true) is given, and the
// writer owns its color.Color values instead of relying on color.NoColor.
// Piping the output to a file never embeds escape codes by accident.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty risk categories are shown.
	showEmpty bool

	// colored enables ANSI colours.
	colored bool

	block *color.Color
	warn  *color.Color
	ok    *color.Color
	info  *color.Color
	bold  *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty risk categories.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithColor enables ANSI colour output.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.colored = enabled
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		block:      color.New(color.FgRed, color.Bold),
		warn:       color.New(color.FgYellow),
		ok:         color.New(color.FgGreen),
		info:       color.New(color.FgCyan),
		bold:       color.New(color.Bold),
	}

	for _, opt := range opts {
		opt(w)
	}

	for _, c := range []*color.Color{w.block, w.warn, w.ok, w.info, w.bold} {
		if w.colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeFindings(&sb, report)
	w.writeRisks(&sb, report)
	w.writeSuggestions(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the banner, the URL and the verdict.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         CREWGUARD REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:     %s\n", report.URL)
	fmt.Fprintf(sb, "Verdict: %s\n", w.verdictColor(report.Verdict).Sprint(strings.ToUpper(string(report.Verdict))))
	sb.WriteString("\n")
}

// verdictColor returns the colour of a verdict.
func (w *SimpleWriter) verdictColor(v model.Verdict) *color.Color {
	switch v {
	case model.VerdictAllowed:
		return w.ok
	case model.VerdictPartial:
		return w.warn
	default:
		return w.block
	}
}

// glyphColor returns the colour of a finding glyph.
func (w *SimpleWriter) glyphColor(g model.Glyph) *color.Color {
	switch g {
	case model.GlyphBlock:
		return w.block
	case model.GlyphWarn:
		return w.warn
	case model.GlyphOK:
		return w.ok
	default:
		return w.info
	}
}

// writeSectionHeader writes a dashed section title.
func (w *SimpleWriter) writeSectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(w.bold.Sprint(title))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFindings writes every finding in report order.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.Report) {
	w.writeSectionHeader(sb, "FINDINGS")

	if len(report.Findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}
	for _, f := range report.Findings {
		fmt.Fprintf(sb, "  %s\n", w.glyphColor(f.Glyph()).Sprint(f.Text()))
	}
	sb.WriteString("\n")
}

// writeRisks writes the risk categories in order.
func (w *SimpleWriter) writeRisks(sb *strings.Builder, report *model.Report) {
	if !report.HasRisks() && !w.showEmpty {
		return
	}

	w.writeSectionHeader(sb, "RISKS")

	for _, section := range riskSections(report) {
		if len(section.lines) == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "[%s]\n", categoryLabel(section.category))
		if len(section.lines) == 0 {
			sb.WriteString("  None identified\n\n")
			continue
		}
		for _, line := range section.lines {
			fmt.Fprintf(sb, "  * %s\n", line)
		}
		sb.WriteString("\n")
	}
}

// writeSuggestions writes the suggestion list.
func (w *SimpleWriter) writeSuggestions(sb *strings.Builder, report *model.Report) {
	if len(report.Suggestions) == 0 {
		return
	}

	w.writeSectionHeader(sb, "SUGGESTIONS")
	for i, s := range report.Suggestions {
		fmt.Fprintf(sb, "  %d. %s\n", i+1, s)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by CrewGuard\n")
	sb.WriteString("https://github.com/nao1215/crewguard\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
