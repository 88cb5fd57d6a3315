// Package compile runs the front end over one source file: parse, then
// type-check if parsing was clean.
package compile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/tjc/internal/logging"
	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/check"
	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/parser"
)

// ErrDiagnostics is returned by callers that turn a failed Result into an
// error, so that diagnostics can be told apart from I/O failures.
var ErrDiagnostics = errors.New("compilation failed")

type options struct {
	maxDepth  int
	nodeLimit int
	maxLocals int
	writer    io.Writer
}

type Option func(*options)

// WithMaxDepth bounds expression and block nesting in both the parser and
// the checker.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithNodeLimit caps the AST size. Zero means unlimited.
func WithNodeLimit(n int) Option {
	return func(o *options) {
		o.nodeLimit = n
	}
}

func WithMaxLocals(n int) Option {
	return func(o *options) {
		o.maxLocals = n
	}
}

// WithWriter streams each diagnostic to w as it is reported.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// Result holds everything one compilation produced. Arena and Root stay
// valid after a failed compilation so tools can inspect partial trees.
type Result struct {
	Path        string
	Source      []byte
	Arena       *ast.Arena
	Root        ast.NodeID
	Diagnostics []diag.Diagnostic
	Parsed      bool
	Checked     bool
	OK          bool
}

// Err returns nil for a successful compilation and an error wrapping
// ErrDiagnostics otherwise.
func (r *Result) Err() error {
	if r.OK {
		return nil
	}
	return fmt.Errorf("%s: %d diagnostic(s): %w", r.Path, len(r.Diagnostics), ErrDiagnostics)
}

// Source compiles src. path is used for diagnostics only.
func Source(path string, src []byte, opts ...Option) *Result {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.Get("compile")

	var sinkOpts []diag.Option
	if o.writer != nil {
		sinkOpts = append(sinkOpts, diag.WithWriter(o.writer))
	}
	sink := diag.New(path, src, sinkOpts...)

	// Roughly one node per four source bytes.
	hint := len(src)/4 + 1
	arenaOpts := []ast.ArenaOption{}
	if o.nodeLimit > 0 {
		hint = min(hint, o.nodeLimit)
		arenaOpts = append(arenaOpts, ast.WithNodeLimit(o.nodeLimit))
	}
	arenaOpts = append(arenaOpts, ast.WithCapacityHint(hint))
	arena := ast.NewArena(arenaOpts...)

	var parseOpts []parser.Option
	var checkOpts []check.Option
	if o.maxDepth > 0 {
		parseOpts = append(parseOpts, parser.WithMaxDepth(o.maxDepth))
		checkOpts = append(checkOpts, check.WithMaxDepth(o.maxDepth))
	}
	if o.maxLocals > 0 {
		checkOpts = append(checkOpts, check.WithMaxLocals(o.maxLocals))
	}

	result := &Result{
		Path:   path,
		Source: src,
		Arena:  arena,
	}

	result.Root = parser.ParseCompilationUnit(src, sink, arena, parseOpts...)
	result.Parsed = result.Root.Valid() && !sink.HadError()

	ok := false
	if result.Parsed {
		result.Checked = true
		ok = check.Check(arena, result.Root, sink, checkOpts...)
	}

	result.Diagnostics = sink.Diagnostics()
	result.OK = ok && !sink.HadError()

	log.Debugf("compiled %s: %d nodes, %d diagnostics, ok=%t", path, arena.Len(), len(result.Diagnostics), result.OK)
	return result
}

// File reads path and compiles its contents.
func File(path string, opts ...Option) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Source(path, src, opts...), nil
}
