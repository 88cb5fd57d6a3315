package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/parser"
)

func TestVerify(t *testing.T) {
	require.NoError(t, Verify())
}

func TestProductions(t *testing.T) {
	names := Productions()
	require.NotEmpty(t, names)
	assert.Equal(t, Start, names[0])
	assert.Contains(t, names, "Statement")
	assert.Contains(t, names, "identifier")
}

func TestIsLexical(t *testing.T) {
	assert.True(t, IsLexical("identifier"))
	assert.False(t, IsLexical("Statement"))
	assert.False(t, IsLexical(""))
}

func TestSourceMentionsEveryKeyword(t *testing.T) {
	for _, kw := range []string{"class", "public", "static", "import", "int", "new", "return", "void"} {
		assert.Contains(t, Source(), `"`+kw+`"`)
	}
}

var conformance = []string{
	"class A {}",
	"public class A {}",
	"import a; import a.b.c; class A {}",
	"class A { int x; static String s; public static int[] xs; }",
	"class A { void m() {} void n(int a, String b) {} }",
	"public class A { public static void main(String[] args) { } }",
	"class A { void m() { int x; int y = 1; String s = \"hi\"; Foo f = new Foo(); } }",
	"class A { void m() { String[] xs; int[] ys; } }",
	"class A { void m() { x = 1 + 2 * 3 - 4 / 5 % 6; x++; } }",
	"class A { void m() { System.out.println(); System.out.println(1, \"a\" + b); } }",
	"class A { void m() { f(g(h())); } }",
	"class A { void m() { { { return; } } return (1 + 2) * 3; } }",
	"class A { void m() { 1; \"s\"; x; new A(); } }",

	"",
	"class",
	"class A",
	"class A {",
	"class A {} class B {}",
	"import ; class A {}",
	"import a. ; class A {}",
	"class A { int x }",
	"class A { int x = 1; }",
	"class A { void m() }",
	"class A { void m( {} }",
	"class A { void m(int) {} }",
	"class A { void m() { x = ; } }",
	"class A { void m() { x++ } }",
	"class A { void m() { a.b; } }",
	"class A { void m() { x = y = 1; } }",
	"class A { void m() { void v; } }",
	"class A { void m() { -1; } }",
	"class A { void m() { new A; } }",
	"class A { void m() { (x) = 1; } }",
	"class A { void m() { f(1,); } }",
	"class A { void m() { int[ x; } }",
	"class A { static { } }",
}

// The hand-written parser and the grammar must agree on which inputs are
// well formed.
func TestParserConformsToGrammar(t *testing.T) {
	for _, src := range conformance {
		t.Run(src, func(t *testing.T) {
			sink := diag.New("A.java", []byte(src))
			parser.ParseCompilationUnit([]byte(src), sink, ast.NewArena())

			err := Recognize("A.java", []byte(src))
			assert.Equal(t, !sink.HadError(), err == nil,
				"parser diagnostics %v, grammar error %v", sink.Diagnostics(), err)
		})
	}
}

func TestRecognizeSyntaxError(t *testing.T) {
	err := Recognize("A.java", []byte("class A {\n  int x\n}"))

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr), "got %v", err)
	assert.Equal(t, 3, syntaxErr.Pos.Line)
	assert.Equal(t, 1, syntaxErr.Pos.Column)
	assert.Equal(t, `"}"`, syntaxErr.Found)
	assert.Contains(t, syntaxErr.Expected, `";"`)
	assert.True(t, strings.HasPrefix(err.Error(), "A.java:3:1: syntax error"))
}

func TestRecognizeEndOfInput(t *testing.T) {
	err := Recognize("A.java", []byte("class A {"))

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr), "got %v", err)
	assert.Equal(t, "end of input", syntaxErr.Found)
	assert.Contains(t, syntaxErr.Expected, `"}"`)
}

func TestRecognizeLexicalError(t *testing.T) {
	err := Recognize("A.java", []byte("class A { # }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected character '#'")
}

func TestNewRecognizerUnknownStart(t *testing.T) {
	g, err := Parse()
	require.NoError(t, err)
	_, err = NewRecognizer(g, "Nope")
	assert.Error(t, err)
}
