package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/tjc/java/compile"
	"github.com/dhamidi/tjc/java/parser"
	"github.com/dhamidi/tjc/java/token"
)

// LineTokenEncoder re-scans the source of a result and writes one token per
// line as "line:col<TAB>kind<TAB>text". The final EOF token is included.
type LineTokenEncoder struct {
	w io.Writer
}

func NewLineTokenEncoder(w io.Writer) *LineTokenEncoder {
	return &LineTokenEncoder{w: w}
}

func (e *LineTokenEncoder) Encode(result *compile.Result) error {
	text, err := e.Marshal(result)
	return write(e.w, text, err)
}

func (e *LineTokenEncoder) Marshal(result *compile.Result) ([]byte, error) {
	return Tokens(result.Source), nil
}

// Tokens lists the tokens of src. Lexical errors are not reported; an
// unexpected character ends the listing with EOF, as it ends parsing.
func Tokens(src []byte) []byte {
	var sb strings.Builder
	lines := newLineIndex(src)
	lexer := parser.NewLexer(src, nil)
	for {
		tok := lexer.Next()
		line, col := lines.position(tok.Offset)
		fmt.Fprintf(&sb, "%d:%d\t%s\t%s\n", line, col, kindName(tok.Kind), tok.Text)
		if tok.Kind == token.EOF {
			break
		}
	}
	return []byte(sb.String())
}

func kindName(kind token.Kind) string {
	switch {
	case kind.IsKeyword():
		return "Keyword"
	case kind == token.EOF, kind == token.Ident, kind == token.IntLiteral, kind == token.StringLiteral:
		return kind.String()
	default:
		return "Punct"
	}
}
