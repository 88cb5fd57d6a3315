// Package format renders compilation results for people and tools: AST
// outlines and JSON, token listings, canonical source and diagnostic
// reports.
package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/tjc/java/compile"
)

type Encoder interface {
	Encode(result *compile.Result) error
	Marshal(result *compile.Result) ([]byte, error)
}

// Names of the encoders accepted by NewEncoder.
const (
	FormatTree   = "tree"
	FormatJSON   = "json"
	FormatTokens = "tokens"
	FormatSource = "source"
)

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case FormatTree, "":
		return NewTreeEncoder(w), nil
	case FormatJSON:
		return NewASTJSONEncoder(w), nil
	case FormatTokens:
		return NewLineTokenEncoder(w), nil
	case FormatSource:
		return NewPrettyPrinter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// Encoders lists the names NewEncoder understands.
func Encoders() []string {
	names := []string{FormatTree, FormatJSON, FormatTokens, FormatSource}
	sort.Strings(names)
	return names
}

func write(w io.Writer, text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}

// lineIndex maps byte offsets to 1-based line and column numbers without
// rescanning the source for every lookup.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (idx lineIndex) position(offset int) (line, column int) {
	i := sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - idx[i] + 1
}
