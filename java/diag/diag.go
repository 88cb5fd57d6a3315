// Package diag collects position-annotated compiler diagnostics.
//
// A Sink belongs to exactly one compilation pass. The lexer, parser and
// checker all report into the same Sink; the driver reads HadError after
// each stage to decide whether to continue.
package diag

import (
	"fmt"
	"io"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type Severity int

const (
	SeverityError Severity = iota
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

type Diagnostic struct {
	Pos      Position
	Severity Severity
	Message  string
}

// String renders the diagnostic as "path:line:col: error: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

type Option func(*Sink)

// WithWriter streams every diagnostic to w as it is reported.
func WithWriter(w io.Writer) Option {
	return func(s *Sink) {
		s.w = w
	}
}

type Sink struct {
	path     string
	src      []byte
	w        io.Writer
	diags    []Diagnostic
	hadError bool
}

func New(path string, src []byte, opts ...Option) *Sink {
	s := &Sink{
		path: path,
		src:  src,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Errorf records an error at the given byte offset. A nil Sink discards
// the report.
func (s *Sink) Errorf(offset int, format string, args ...any) {
	if s == nil {
		return
	}
	d := Diagnostic{
		Pos:      s.Position(offset),
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
	s.diags = append(s.diags, d)
	s.hadError = true
	if s.w != nil {
		fmt.Fprintln(s.w, d.String())
	}
}

// Position converts a byte offset into a 1-based line and byte column by
// scanning from the start of the buffer.
func (s *Sink) Position(offset int) Position {
	if s == nil {
		return Position{Offset: offset, Line: 1, Column: offset + 1}
	}
	line := 1
	lineStart := 0
	for i := 0; i < len(s.src) && i < offset; i++ {
		if s.src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col := 1
	if offset >= lineStart {
		col = offset - lineStart + 1
	}
	return Position{
		File:   s.path,
		Offset: offset,
		Line:   line,
		Column: col,
	}
}

func (s *Sink) HadError() bool {
	return s != nil && s.hadError
}

func (s *Sink) ErrorCount() int {
	if s == nil {
		return 0
	}
	return len(s.diags)
}

func (s *Sink) Diagnostics() []Diagnostic {
	if s == nil {
		return nil
	}
	return s.diags
}

func (s *Sink) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Sink) Source() []byte {
	if s == nil {
		return nil
	}
	return s.src
}
