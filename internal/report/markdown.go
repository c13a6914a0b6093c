package report

import (
	"io"
	"strconv"

	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for pasting into issues, wikis and pull requests.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, GitHub alerts and mermaid charts
// without hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeFindings(md, report)
	w.writeRisks(md, report)
	w.writeSuggestions(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the target table and the verdict alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("CrewGuard Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Verdict", "**" + verdictLabel(report.Verdict) + "**"},
			{"Findings", strconv.Itoa(len(report.Findings))},
		},
	})
	md.PlainText("")

	switch report.Verdict {
	case model.VerdictBlocked:
		md.Cautionf("Automated collection from %s is blocked. Do not crawl this site.", report.URL)
	case model.VerdictPartial:
		md.Warningf("Automated collection from %s is partially restricted. Respect the findings below.", report.URL)
	default:
		md.Tip("No signal restricts automated collection from this site.")
	}
	md.PlainText("")
}

// writeFindings writes the ordered findings and a glyph distribution chart.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.Report) {
	md.H2("Findings")
	md.PlainText("")

	if len(report.Findings) == 0 {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Findings))
	for i, f := range report.Findings {
		rows[i] = []string{strconv.Itoa(i + 1), f.Kind.String(), truncateString(f.Text(), 100)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Kind", "Finding"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report)
}

// glyphLabels fixes the order and names of the chart slices.
var glyphLabels = []struct {
	glyph model.Glyph
	label string
}{
	{model.GlyphBlock, "Block"},
	{model.GlyphWarn, "Warning"},
	{model.GlyphOK, "OK"},
	{model.GlyphInfo, "Info"},
}

// writePieChart writes a mermaid pie chart of findings per glyph.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Distribution"),
		piechart.WithShowData(true),
	)

	counts := report.CountByGlyph()
	for _, g := range glyphLabels {
		if n := counts[g.glyph]; n > 0 {
			chart.LabelAndIntValue(g.label, uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRisks writes one subsection per risk category.
func (w *MarkdownWriter) writeRisks(md *markdown.Markdown, report *model.Report) {
	md.H2("Risks")
	md.PlainText("")

	if !report.HasRisks() {
		md.Note("No legal, social or technical risk was identified.")
		md.PlainText("")
		return
	}

	for _, section := range riskSections(report) {
		md.H3(categoryLabel(section.category))
		md.PlainText("")
		if len(section.lines) == 0 {
			md.PlainText("None identified.")
		} else {
			md.BulletList(section.lines...)
		}
		md.PlainText("")
	}
}

// writeSuggestions writes the suggestion list. An unreachable site has none.
func (w *MarkdownWriter) writeSuggestions(md *markdown.Markdown, report *model.Report) {
	if len(report.Suggestions) == 0 {
		return
	}
	md.H2("Suggestions")
	md.PlainText("")
	md.OrderedList(report.Suggestions...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [CrewGuard](https://github.com/nao1215/crewguard)*")
}

// truncateString truncates a string to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
