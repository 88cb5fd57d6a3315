package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/tjc/java/compile"
	"github.com/dhamidi/tjc/java/diag"
)

// Reporter writes the diagnostics of a batch of compilations.
type Reporter interface {
	Report(results []*compile.Result) error
}

// Names of the reporters accepted by NewReporter.
const (
	ReportText = "text"
	ReportJSON = "json"
)

// NewReporter returns the reporter registered under name. color is one of
// the Color* modes and only affects the text reporter.
func NewReporter(name string, w io.Writer, color string) (Reporter, error) {
	switch name {
	case ReportText, "":
		return NewTextReporter(w, NewStyles(IsColorEnabled(color, w))), nil
	case ReportJSON:
		return NewJSONReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", name)
	}
}

// TextReporter prints one block per diagnostic followed by a summary line.
type TextReporter struct {
	w           io.Writer
	styles      *Styles
	showContext bool
}

type TextOption func(*TextReporter)

// WithContext toggles printing the offending source line under each
// diagnostic. It is on by default.
func WithContext(show bool) TextOption {
	return func(r *TextReporter) {
		r.showContext = show
	}
}

func NewTextReporter(w io.Writer, styles *Styles, opts ...TextOption) *TextReporter {
	if styles == nil {
		styles = NewStyles(false)
	}
	r := &TextReporter{w: w, styles: styles, showContext: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TextReporter) Report(results []*compile.Result) error {
	var sb strings.Builder
	errors, failed := 0, 0
	for _, result := range results {
		if len(result.Diagnostics) == 0 {
			continue
		}
		failed++
		lines := newLineIndex(result.Source)
		for _, d := range result.Diagnostics {
			errors++
			sb.WriteString(r.FormatDiagnostic(d))
			if r.showContext {
				sb.WriteString(r.formatContext(result.Source, lines, d.Pos))
			}
		}
	}
	sb.WriteString(r.FormatSummary(len(results), failed, errors))
	_, err := io.WriteString(r.w, sb.String())
	return err
}

// FormatDiagnostic renders "path:line:col  error  message".
func (r *TextReporter) FormatDiagnostic(d diag.Diagnostic) string {
	location := fmt.Sprintf("%s:%d:%d", r.styles.FilePath.Render(d.Pos.File), d.Pos.Line, d.Pos.Column)
	return fmt.Sprintf("  %s  %s  %s\n",
		location,
		r.styles.Error.Render(d.Severity.String()),
		r.styles.Message.Render(d.Message),
	)
}

func (r *TextReporter) formatContext(src []byte, lines lineIndex, pos diag.Position) string {
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	start := lines[pos.Line-1]
	end := len(src)
	if pos.Line < len(lines) {
		end = lines[pos.Line] - 1
	}
	text := strings.TrimRight(string(src[start:end]), "\r")
	if strings.TrimSpace(text) == "" {
		return ""
	}

	const indent = "        "
	var sb strings.Builder
	sb.WriteString(indent + r.styles.SourceLine.Render(text) + "\n")
	if pos.Column > 0 {
		sb.WriteString(indent + strings.Repeat(" ", pos.Column-1) + r.styles.Caret.Render("^") + "\n")
	}
	return sb.String()
}

// FormatSummary renders e.g. "2 errors in 1 file (3 files checked)".
func (r *TextReporter) FormatSummary(files, failed, errors int) string {
	if errors == 0 {
		return r.styles.Success.Render("No errors") +
			r.styles.Dim.Render(fmt.Sprintf(" (%s checked)", plural(files, "file"))) + "\n"
	}
	return r.styles.Failure.Render(plural(errors, "error")) +
		fmt.Sprintf(" in %s", plural(failed, "file")) +
		r.styles.Dim.Render(fmt.Sprintf(" (%s checked)", plural(files, "file"))) + "\n"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// JSONReporter writes a single JSON document for the whole batch.
type JSONReporter struct {
	w io.Writer
}

func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

type reportJSON struct {
	Files  []*fileJSON `json:"files"`
	Errors int         `json:"errors"`
}

type fileJSON struct {
	Path        string            `json:"path"`
	OK          bool              `json:"ok"`
	Diagnostics []*diagnosticJSON `json:"diagnostics"`
}

type diagnosticJSON struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Offset   int    `json:"offset"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func diagnosticsToJSON(diags []diag.Diagnostic) []*diagnosticJSON {
	out := make([]*diagnosticJSON, 0, len(diags))
	for _, d := range diags {
		out = append(out, &diagnosticJSON{
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Offset:   d.Pos.Offset,
			Severity: d.Severity.String(),
			Message:  d.Message,
		})
	}
	return out
}

func (r *JSONReporter) Report(results []*compile.Result) error {
	report := reportJSON{Files: make([]*fileJSON, 0, len(results))}
	for _, result := range results {
		report.Files = append(report.Files, &fileJSON{
			Path:        result.Path,
			OK:          result.OK,
			Diagnostics: diagnosticsToJSON(result.Diagnostics),
		})
		report.Errors += len(result.Diagnostics)
	}
	text, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return write(r.w, append(text, '\n'), nil)
}
