package compile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/tjc/java/ast"
)

const valid = `public class A {
    public static void main(String[] a) {
        int x = 1;
        x = x + 2;
    }
}
`

func TestSourceValid(t *testing.T) {
	r := Source("A.java", []byte(valid))

	assert.True(t, r.OK)
	assert.True(t, r.Parsed)
	assert.True(t, r.Checked)
	assert.Empty(t, r.Diagnostics)
	assert.NoError(t, r.Err())

	unit := r.Arena.Data(r.Root).(*ast.CompilationUnit)
	class := r.Arena.Data(unit.Class).(*ast.Class)
	members := r.Arena.Siblings(class.Members)
	require.Len(t, members, 1)
	method := r.Arena.Data(members[0]).(*ast.Method)
	body := r.Arena.Data(method.Body).(*ast.Block)
	assert.Equal(t, 2, r.Arena.Count(body.Stmts))
}

func TestSourceTypeMismatch(t *testing.T) {
	src := `public class A { public static void main(String[] a) { int x = "s"; } }`
	r := Source("A.java", []byte(src))

	assert.False(t, r.OK)
	assert.True(t, r.Checked)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "type mismatch: 'String' cannot be assigned to 'int'", r.Diagnostics[0].Message)
	assert.True(t, errors.Is(r.Err(), ErrDiagnostics))
}

func TestSourceSkipsCheckAfterParseErrors(t *testing.T) {
	src := `public class A { public static void main(String[] a) { int x = "s" }`
	r := Source("A.java", []byte(src))

	assert.False(t, r.OK)
	assert.False(t, r.Parsed)
	assert.False(t, r.Checked)
	assert.NotEqual(t, ast.NoNode, r.Root)
	for _, d := range r.Diagnostics {
		assert.NotContains(t, d.Message, "type mismatch")
	}
}

func TestSourceMissingClassBrace(t *testing.T) {
	src := `public class A { public static void main(String[] a) { }`
	r := Source("A.java", []byte(src))

	require.NotEmpty(t, r.Diagnostics)
	found := false
	for _, d := range r.Diagnostics {
		if d.Message == "expected '}' to close class body" {
			found = true
		}
	}
	assert.True(t, found, "got %v", r.Diagnostics)
}

func TestSourceStreamsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	src := "class A {\n  static void main(String[] a) {\n    y = 1;\n  }\n}\n"
	r := Source("A.java", []byte(src), WithWriter(&buf))

	assert.False(t, r.OK)
	assert.Equal(t, "A.java:3:5: error: unknown local 'y'\n", buf.String())
}

func TestSourceOptions(t *testing.T) {
	r := Source("A.java", []byte(valid), WithNodeLimit(3))
	assert.False(t, r.OK)
	require.NotEmpty(t, r.Diagnostics)
	assert.Equal(t, "out of memory", r.Diagnostics[0].Message)

	r = Source("A.java", []byte(valid), WithMaxLocals(1))
	assert.False(t, r.OK)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "too many locals", r.Diagnostics[0].Message)

	deep := `class A { static void main(String[] a) { int x = ((((1)))); } }`
	r = Source("A.java", []byte(deep), WithMaxDepth(3))
	assert.False(t, r.OK)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "expression nested too deeply", r.Diagnostics[0].Message)
}

func TestSourceIndependentRuns(t *testing.T) {
	bad := Source("Bad.java", []byte("class {"))
	good := Source("A.java", []byte(valid))

	assert.False(t, bad.OK)
	assert.True(t, good.OK)
	assert.NotSame(t, bad.Arena, good.Arena)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(path, []byte(valid), 0o644))

	r, err := File(path)
	require.NoError(t, err)
	assert.True(t, r.OK)
	assert.Equal(t, path, r.Path)

	_, err = File(filepath.Join(dir, "Missing.java"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
