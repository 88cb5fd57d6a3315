package parser

import (
	"unicode/utf8"

	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/token"
)

// Lexer produces one token per call to Next. It is a plain value: copying
// a Lexer snapshots its cursor, which is how the parser peeks ahead.
type Lexer struct {
	input []byte
	pos   int
	sink  *diag.Sink
	// stuck is set after an unexpected character; the lexer then keeps
	// returning EOF at that character without reporting again.
	stuck bool
}

func NewLexer(input []byte, sink *diag.Sink) *Lexer {
	return &Lexer{
		input: input,
		sink:  sink,
	}
}

// Offset returns the current byte offset of the scan cursor.
func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		ch := l.peek()
		switch {
		case isSpace(ch):
			l.pos++
		case ch == '/' && l.peekN(1) == '/':
			l.pos += 2
			for !l.atEnd() && l.peek() != '\n' {
				l.pos++
			}
		case ch == '/' && l.peekN(1) == '*':
			l.pos += 2
			for !l.atEnd() {
				if l.peek() == '*' && l.peekN(1) == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *Lexer) Next() token.Token {
	if l.stuck {
		return l.token(token.EOF, l.pos)
	}

	l.skipWhitespaceAndComments()
	if l.atEnd() {
		return l.token(token.EOF, l.pos)
	}

	start := l.pos
	ch := l.peek()

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword(start)
	}
	if isDigit(ch) {
		return l.scanNumber(start)
	}
	if ch == '"' {
		return l.scanStringLiteral(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanIdentOrKeyword(start int) token.Token {
	for isIdentPart(l.peek()) {
		l.pos++
	}
	tok := l.token(token.Ident, start)
	tok.Kind = token.Lookup(tok.Text)
	return tok
}

func (l *Lexer) scanNumber(start int) token.Token {
	for isDigit(l.peek()) {
		l.pos++
	}
	return l.token(token.IntLiteral, start)
}

// scanStringLiteral scans a double-quoted literal on a single line. No
// escape sequences are recognized.
func (l *Lexer) scanStringLiteral(start int) token.Token {
	l.pos++
	for !l.atEnd() && l.peek() != '"' && l.peek() != '\n' {
		l.pos++
	}
	if l.peek() == '"' {
		l.pos++
	} else {
		l.sink.Errorf(start, "unterminated string literal")
	}
	return l.token(token.StringLiteral, start)
}

func (l *Lexer) scanOperator(start int) token.Token {
	ch := l.peek()

	var kind token.Kind
	switch ch {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case '=':
		kind = token.Assign
	case '+':
		if l.peekN(1) == '+' {
			l.pos += 2
			return l.token(token.Increment, start)
		}
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	default:
		r, _ := utf8.DecodeRune(l.input[start:])
		l.sink.Errorf(start, "unexpected character %q", r)
		l.stuck = true
		return l.token(token.EOF, start)
	}

	l.pos++
	return l.token(kind, start)
}

func (l *Lexer) token(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind:   kind,
		Text:   string(l.input[start:l.pos]),
		Offset: start,
	}
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
