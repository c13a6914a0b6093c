package report

import (
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/nao1215/crewguard/internal/model"
	"golang.org/x/crypto/sha3"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library. The report has custom marshalers for its enums only, and
// field order follows the struct, which keeps the output byte-stable.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(report)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport is a wrapper for the report with additional metadata.
//
// Design decision: We wrap the report rather than adding fields to
// model.Report because the report is the contract of CheckSite and must not
// carry output-specific data.
type JSONReport struct {
	// Version is the crewguard version that generated this report.
	Version string `json:"version"`

	// Digest is the hex SHA3-256 of the compact JSON encoding of Report.
	// Identical reports have identical digests, so consumers can detect
	// whether a site's posture changed between runs.
	Digest string `json:"digest"`

	// Report is the check result.
	Report *model.Report `json:"report"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.Report, version string) (*JSONReport, error) {
	digest, err := Digest(report)
	if err != nil {
		return nil, err
	}
	return &JSONReport{
		Version: version,
		Digest:  digest,
		Report:  report,
	}, nil
}

// Digest returns the hex SHA3-256 of the compact JSON encoding of report.
func Digest(report *model.Report) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// FullJSONWriter outputs reports with the metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the crewguard version string.
	version string
}

// NewFullJSONWriter creates a writer for reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.Report) (int, error) {
	wrapped, err := NewJSONReport(report, w.version)
	if err != nil {
		return 0, err
	}
	return w.writeJSON(wrapped)
}
