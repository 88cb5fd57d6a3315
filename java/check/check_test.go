package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/parser"
	"github.com/dhamidi/tjc/java/token"
)

func checkSource(t *testing.T, src string, opts ...Option) (bool, *diag.Sink, *Checker) {
	t.Helper()
	sink := diag.New("A.java", []byte(src))
	arena := ast.NewArena()
	root := parser.ParseCompilationUnit([]byte(src), sink, arena)
	require.False(t, sink.HadError(), "parse errors: %v", sink.Diagnostics())

	c := New(arena, sink, opts...)
	return c.Check(root), sink, c
}

func inMain(stmts string) string {
	return "public class A { public static void main(String[] a) { " + stmts + " } }"
}

func messages(sink *diag.Sink) []string {
	var out []string
	for _, d := range sink.Diagnostics() {
		out = append(out, d.Message)
	}
	return out
}

func TestCheckValidProgram(t *testing.T) {
	ok, sink, c := checkSource(t, inMain("int x = 1; x = x + 2;"))

	assert.True(t, ok)
	assert.Empty(t, sink.Diagnostics())
	assert.Equal(t, []Local{
		{Name: "a", Type: StringArray},
		{Name: "x", Type: Int},
	}, c.Locals())
}

func TestCheckStatements(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		want  []string
	}{
		{"empty body", "", nil},
		{"string local", `String s = "hi"; s = "there";`, nil},
		{"declaration without init", "int x; x = 3;", nil},
		{"increment", "int i = 0; i++;", nil},
		{"arithmetic", "int x = 7 * 6 - 5 / 4 % 3;", nil},
		{"nested block shares table", "{ int x; } x = 1;", nil},
		{"println no args", "System.out.println();", nil},
		{"println int", "System.out.println(1 + 2);", nil},
		{"println string", `String s = "x"; System.out.println(s);`, nil},
		{"bare return", "return;", nil},

		{"init mismatch", `int x = "s";`, []string{"type mismatch: 'String' cannot be assigned to 'int'"}},
		{"assign mismatch", "String s; s = 1;", []string{"type mismatch: 'int' cannot be assigned to 'String'"}},
		{"void init", "int x = System.out.println();", []string{"type mismatch: 'void' cannot be assigned to 'int'"}},
		{"unknown assign target", "y = 1;", []string{"unknown local 'y'"}},
		{"unsupported local type", "Foo f;", []string{"unsupported local type 'Foo'"}},
		{"array local", "String[] xs;", []string{"unsupported local type 'String[]'"}},
		{"increment string", `String s = "x"; s++;`, []string{"++ only supports int locals"}},
		{"increment undeclared", "k++;", []string{"++ only supports int locals"}},
		{"return value", "return 1;", []string{"return expression not allowed in void method"}},
		{"return value checked", "return q;", []string{"return expression not allowed in void method", "unknown local 'q'"}},
		{"non-int operator", `String s = "a" * 2;`, []string{"binary operator only supports int operands"}},
		{"unsupported call", "foo();", []string{"unsupported call 'foo'"}},
		{"too many println args", "System.out.println(1, 2);", []string{"println expects zero or one argument"}},
		{"void println arg", "System.out.println(System.out.println());", []string{"println argument must be int or String"}},
		{"new as statement", "new A();", []string{"unsupported expression"}},
		{"new as init", "int x = new A();", []string{"unsupported expression"}},
		{"args not a value", "System.out.println(a);", []string{"println argument must be int or String"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, sink, _ := checkSource(t, inMain(tt.stmts))
			assert.Equal(t, tt.want, messages(sink))
			assert.Equal(t, len(tt.want) == 0, ok)
		})
	}
}

func TestCheckDuplicateLocal(t *testing.T) {
	ok, sink, c := checkSource(t, inMain(`int x; String x = "s"; x = 1;`))

	assert.False(t, ok)
	assert.Equal(t, []string{"duplicate local 'x'"}, messages(sink))

	local, found := c.locals.Lookup("x")
	require.True(t, found)
	assert.Equal(t, Int, local.Type)
	assert.Equal(t, 2, c.locals.Len())
}

func TestCheckConcatenation(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		want  []string
	}{
		{"two literals", `String s = "a" + "b";`, nil},
		{"text and int literal", `String s = "n=" + 5;`, nil},
		{"int literal first", `String s = 1 + 2 + "x";`, nil},
		{"long literal chain", `String s = "a" + 1 + "b" + 2;`, nil},
		{"parenthesized literals", `String s = "a" + (1 + "b");`, nil},
		{"int sum", "int n = 1 + 2;", nil},
		{
			"text local and int local",
			`String s = "a"; int n = 1; String t = s + n;`,
			[]string{"unsupported '+' operands (String, int)"},
		},
		{
			"text local and literal",
			`String s = "a"; String t = s + "b";`,
			[]string{"unsupported '+' operands (String, String)"},
		},
		{
			"literal then int local",
			`int n = 1; String t = "n=" + n;`,
			[]string{"unsupported '+' operands (String, int)"},
		},
		{
			"product inside concat",
			`String t = "n=" + 2 * 3;`,
			[]string{"unsupported '+' operands (String, int)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sink, _ := checkSource(t, inMain(tt.stmts))
			assert.Equal(t, tt.want, messages(sink))
		})
	}
}

func TestCheckUnknownsReportedOnce(t *testing.T) {
	tests := []struct {
		name  string
		stmts string
		want  string
	}{
		{"undeclared ident", "int z = q + 1; int w = q * 2; System.out.println(q); q++;", "unknown local 'q'"},
		{"undeclared target", "y = 1; y = y + 1; System.out.println(y); y++;", "unknown local 'y'"},
		{"rejected declaration", "Foo f; f = 1; int n = f + 1; System.out.println(f); f++;", "unsupported local type 'Foo'"},
		{"mismatched operands", `int n = "a" * 2 + 3;`, "binary operator only supports int operands"},
		{"undeclared increment", "k++; int z = k; k = 2; k++;", "++ only supports int locals"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, sink, _ := checkSource(t, inMain(tt.stmts))
			assert.False(t, ok)
			assert.Equal(t, []string{tt.want}, messages(sink))
		})
	}
}

func TestCheckEntryPoint(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"no methods",
			"class A { int x; }",
			[]string{"main method not found"},
		},
		{
			"other method only",
			"class A { static void run(String[] a) {} }",
			[]string{"main method not found"},
		},
		{
			"not static",
			"class A { void main(String[] a) {} }",
			[]string{"main must be static"},
		},
		{
			"static preferred over earlier instance main",
			"class A { void main(String[] a) {} static void main(String[] b) {} }",
			nil,
		},
		{
			"returns int",
			"class A { static int main(String[] a) {} }",
			[]string{"main must return void"},
		},
		{
			"no parameters",
			"class A { static void main() {} }",
			[]string{"main must have one parameter"},
		},
		{
			"two parameters",
			"class A { static void main(String[] a, int b) {} }",
			[]string{"main must have one parameter"},
		},
		{
			"wrong parameter type",
			"class A { static void main(int a) {} }",
			[]string{"main parameter must be String[]"},
		},
		{
			"every rule broken",
			"class A { public int main() {} }",
			[]string{"main must be static", "main must return void", "main must have one parameter"},
		},
		{
			"non-static main body still checked",
			"class A { void main(String[] a) { int x = \"s\"; } }",
			[]string{"main must be static", "type mismatch: 'String' cannot be assigned to 'int'"},
		},
		{
			"bad parameter is silent afterwards",
			"class A { static void main(Foo a) { System.out.println(a); } }",
			[]string{"main parameter must be String[]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, sink, _ := checkSource(t, tt.src)
			assert.Equal(t, tt.want, messages(sink))
			assert.Equal(t, len(tt.want) == 0, ok)
		})
	}
}

func TestCheckMainNotFoundPosition(t *testing.T) {
	src := "\n\nclass A {}"
	_, sink, _ := checkSource(t, src)
	diags := sink.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "A.java:3:1: error: main method not found", diags[0].String())
}

func TestCheckFields(t *testing.T) {
	src := "class A { void f; String[] g; Foo h; int ok; String s; " +
		"static void main(String[] a) {} }"
	ok, sink, _ := checkSource(t, src)

	assert.False(t, ok)
	assert.Equal(t, []string{
		"unsupported field type 'void'",
		"unsupported field type 'String[]'",
		"unsupported field type 'Foo'",
	}, messages(sink))
}

func TestCheckFieldsAfterMain(t *testing.T) {
	src := "class A { static void main(String[] a) {} Foo late; }"
	_, sink, _ := checkSource(t, src)
	assert.Equal(t, []string{"unsupported field type 'Foo'"}, messages(sink))
}

func TestCheckTooManyLocals(t *testing.T) {
	ok, sink, c := checkSource(t, inMain("int x; int y; int z;"), WithMaxLocals(2))

	assert.False(t, ok)
	assert.Equal(t, []string{"too many locals", "too many locals"}, messages(sink))
	assert.Equal(t, 2, c.locals.Len())
}

func TestCheckExpressionDepth(t *testing.T) {
	expr := strings.Repeat("1 + (", 40) + "1" + strings.Repeat(")", 40)

	_, sink, _ := checkSource(t, inMain("int x = "+expr+";"), WithMaxDepth(10))
	assert.Equal(t, []string{"expression nested too deeply"}, messages(sink))

	ok, sink, _ := checkSource(t, inMain("int x = "+expr+";"))
	assert.True(t, ok)
	assert.Empty(t, sink.Diagnostics())
}

func TestCheckAcceptsWhatTheParserAccepts(t *testing.T) {
	tests := []struct {
		name   string
		open   string
		levels int
	}{
		{"sum of products", "1 + 1 * (", 250},
		{"difference", "1 - (", 250},
		{"product", "2 * (", 250},
		{"leading group", "(", 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := strings.Repeat(tt.open, tt.levels) + "1" + strings.Repeat(")", tt.levels)
			ok, sink, _ := checkSource(t, inMain("int x = "+expr+";"))
			assert.True(t, ok)
			assert.Empty(t, sink.Diagnostics())
		})
	}
}

func TestCheckLongChainIsNotTooDeep(t *testing.T) {
	terms := make([]string, 5000)
	for i := range terms {
		terms[i] = "1"
	}
	ok, sink, _ := checkSource(t, inMain("int x = "+strings.Join(terms, " + ")+";"))
	assert.True(t, ok)
	assert.Empty(t, sink.Diagnostics())
}

func TestCheckRejectsMalformedRoots(t *testing.T) {
	arena := ast.NewArena()
	assert.False(t, Check(arena, ast.NoNode, nil))

	lit, _ := arena.Alloc(token.Token{}, &ast.IntLiteral{Value: 1})
	assert.False(t, Check(arena, lit, nil))

	unit, _ := arena.Alloc(token.Token{}, &ast.CompilationUnit{})
	assert.False(t, Check(arena, unit, nil))
}
