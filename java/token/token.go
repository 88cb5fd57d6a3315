// Package token defines the lexical vocabulary of the tjc source language.
package token

type Kind int

const (
	EOF Kind = iota

	// Literals
	Ident
	IntLiteral
	StringLiteral

	// Keywords
	Class
	Public
	Static
	Import
	Int
	New
	Return
	Void

	// Operators and punctuation
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	Assign
	Plus
	Increment
	Minus
	Star
	Slash
	Percent
)

var kindNames = map[Kind]string{
	EOF:           "EOF",
	Ident:         "Identifier",
	IntLiteral:    "IntLiteral",
	StringLiteral: "StringLiteral",
	Class:         "class",
	Public:        "public",
	Static:        "static",
	Import:        "import",
	Int:           "int",
	New:           "new",
	Return:        "return",
	Void:          "void",
	LBrace:        "{",
	RBrace:        "}",
	LParen:        "(",
	RParen:        ")",
	LBracket:      "[",
	RBracket:      "]",
	Semicolon:     ";",
	Comma:         ",",
	Dot:           ".",
	Assign:        "=",
	Plus:          "+",
	Increment:     "++",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= Class && k <= Void
}

// Token is a classified slice of the source buffer. Text is a copy of the
// slice and Offset is the byte offset of its first byte.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// End returns the byte offset one past the last byte of the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

var keywords = map[string]Kind{
	"class":  Class,
	"public": Public,
	"static": Static,
	"import": Import,
	"int":    Int,
	"new":    New,
	"return": Return,
	"void":   Void,
}

// Lookup returns the keyword kind for ident, or Ident.
func Lookup(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Ident
}
