package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okSource = `class A {
    static void main(String[] args) {
        int x = 1;
        System.out.println(x);
    }
}
`

const brokenSource = `class A {
    static void main(String[] args) {
        y = 1;
    }
}
`

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--color", "never"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "A.java", okSource)

	code, stdout, _ := runCLI(t, "check", good)
	assert.Equal(t, 0, code)
	assert.Equal(t, "No errors (1 file checked)\n", stdout)

	bad := writeSource(t, dir, "B.java", brokenSource)
	code, stdout, _ = runCLI(t, "check", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "B.java:3:9")
	assert.Contains(t, stdout, "unknown local 'y'")
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "A.java", okSource)
	writeSource(t, dir, "B.java", brokenSource)

	code, stdout, _ := runCLI(t, "check", "--format", "json", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, `"errors": 1`)
	assert.Contains(t, stdout, "A.java")
}

func TestCheckMissingFile(t *testing.T) {
	code, _, stderr := runCLI(t, "check", filepath.Join(t.TempDir(), "nope.java"))
	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(stderr, "error: "))
}

func TestInvalidFlagValue(t *testing.T) {
	path := writeSource(t, t.TempDir(), "A.java", okSource)
	code, _, stderr := runCLI(t, "check", "--format", "xml", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestParseCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "A.java", "class A { int x; }\n")

	code, stdout, _ := runCLI(t, "parse", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "CompilationUnit\n  Class A\n    Field int x\n", stdout)

	code, stdout, _ = runCLI(t, "parse", "-o", "json", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, `"kind": "Field"`)
}

func TestParseReportsDiagnosticsOnStderr(t *testing.T) {
	path := writeSource(t, t.TempDir(), "B.java", brokenSource)

	code, stdout, stderr := runCLI(t, "parse", path)
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stdout, "CompilationUnit\n"))
	assert.Contains(t, stderr, "unknown local 'y'")
}

func TestTokensCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "A.java", "class A {}")

	code, stdout, _ := runCLI(t, "tokens", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "1:1\tKeyword\tclass\n1:7\tIdentifier\tA\n1:9\tPunct\t{\n1:10\tPunct\t}\n1:11\tEOF\t\n", stdout)
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "A.java", "class A{int x;}")

	code, stdout, _ := runCLI(t, "fmt", "-l", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, path+"\n", stdout)

	code, _, _ = runCLI(t, "fmt", "-w", path)
	assert.Equal(t, 0, code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "class A {\n    int x;\n}\n", string(data))

	code, stdout, _ = runCLI(t, "fmt", "-l", path)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
}

func TestFmtStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetIn(strings.NewReader("class A {}"))
	cmd.SetArgs([]string{"fmt"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "class A {}\n", stdout.String())
}

func TestFmtSyntaxError(t *testing.T) {
	path := writeSource(t, t.TempDir(), "A.java", "class A { int x }")

	code, _, stderr := runCLI(t, "fmt", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, path+":1:17:")
}

func TestFmtRejectsOtherExtensions(t *testing.T) {
	path := writeSource(t, t.TempDir(), "A.txt", "class A {}")
	code, _, stderr := runCLI(t, "fmt", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `expected .java file, got ".txt"`)
}

func TestGrammarCommands(t *testing.T) {
	code, stdout, _ := runCLI(t, "grammar", "verify")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "start CompilationUnit: ok")

	code, stdout, _ = runCLI(t, "grammar", "show")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "CompilationUnit")

	dir := t.TempDir()
	good := writeSource(t, dir, "A.java", okSource)
	code, stdout, _ = runCLI(t, "grammar", "recognize", good)
	assert.Equal(t, 0, code)
	assert.Equal(t, good+": ok\n", stdout)

	bad := writeSource(t, dir, "B.java", "class B { int }")
	code, _, stderr := runCLI(t, "grammar", "recognize", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "syntax error")
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "tjc "+version+"\n", stdout)
}
