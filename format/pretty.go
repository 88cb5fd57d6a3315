package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/compile"
	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/parser"
	"github.com/dhamidi/tjc/java/token"
)

// PrettyPrinter writes a compilation unit back out as canonical source.
// Comments and redundant parentheses are dropped; everything else in the
// tree survives, so parsing the output again yields the same tree.
type PrettyPrinter struct {
	w         io.Writer
	arena     *ast.Arena
	buf       bytes.Buffer
	indent    int
	indentStr string
}

func NewPrettyPrinter(w io.Writer) *PrettyPrinter {
	return &PrettyPrinter{
		w:         w,
		indentStr: "    ",
	}
}

func (p *PrettyPrinter) Encode(result *compile.Result) error {
	text, err := p.Marshal(result)
	return write(p.w, text, err)
}

// Marshal refuses results whose parse reported errors: the partial tree of
// a broken file would print as different source.
func (p *PrettyPrinter) Marshal(result *compile.Result) ([]byte, error) {
	if !result.Parsed {
		return nil, fmt.Errorf("cannot format %s: %w", result.Path, compile.ErrDiagnostics)
	}
	return p.Print(result.Arena, result.Root), nil
}

// Print renders the compilation unit rooted at root.
func (p *PrettyPrinter) Print(arena *ast.Arena, root ast.NodeID) []byte {
	p.arena = arena
	p.buf.Reset()
	p.indent = 0
	p.printNode(root)
	return bytes.Clone(p.buf.Bytes())
}

// PrettyPrint parses src and returns its canonical form. Type errors do not
// prevent formatting; syntax errors do.
func PrettyPrint(src []byte) ([]byte, error) {
	sink := diag.New("", src)
	arena := ast.NewArena()
	root := parser.ParseCompilationUnit(src, sink, arena)
	if sink.HadError() {
		d := sink.Diagnostics()[0]
		return nil, fmt.Errorf("%d:%d: %s: %w", d.Pos.Line, d.Pos.Column, d.Message, compile.ErrDiagnostics)
	}
	return NewPrettyPrinter(nil).Print(arena, root), nil
}

func (p *PrettyPrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *PrettyPrinter) writeIndent() {
	p.buf.WriteString(strings.Repeat(p.indentStr, p.indent))
}

func (p *PrettyPrinter) newline() {
	p.buf.WriteByte('\n')
}

func (p *PrettyPrinter) printNode(id ast.NodeID) {
	switch d := p.arena.Data(id).(type) {
	case *ast.CompilationUnit:
		p.printCompilationUnit(d)
	case *ast.Import:
		p.write("import " + d.Name + ";")
		p.newline()
	case *ast.Class:
		p.printClass(d)
	case *ast.Field:
		p.writeIndent()
		p.printModifiers(d.Public, d.Static)
		p.write(d.Type + " " + d.Name + ";")
		p.newline()
	case *ast.Method:
		p.printMethod(d)
	default:
		p.printStatement(id)
	}
}

func (p *PrettyPrinter) printCompilationUnit(unit *ast.CompilationUnit) {
	imports := p.arena.Siblings(unit.Imports)
	for _, imp := range imports {
		p.printNode(imp)
	}
	if len(imports) > 0 {
		p.newline()
	}
	p.printNode(unit.Class)
}

func (p *PrettyPrinter) printClass(class *ast.Class) {
	p.printModifiers(class.Public, false)
	p.write("class " + class.Name + " {")
	members := p.arena.Siblings(class.Members)
	if len(members) == 0 {
		p.write("}")
		p.newline()
		return
	}
	p.newline()

	p.indent++
	prev := ast.KindInvalid
	for _, member := range members {
		kind := p.arena.Node(member).Kind()
		// Methods are separated from everything; runs of fields stay together.
		if prev == ast.KindMethod || (prev != ast.KindInvalid && kind == ast.KindMethod) {
			p.newline()
		}
		p.printNode(member)
		prev = kind
	}
	p.indent--

	p.write("}")
	p.newline()
}

func (p *PrettyPrinter) printModifiers(public, static bool) {
	if public {
		p.write("public ")
	}
	if static {
		p.write("static ")
	}
}

func (p *PrettyPrinter) printMethod(method *ast.Method) {
	p.writeIndent()
	p.printModifiers(method.Public, method.Static)
	p.write(method.ReturnType + " " + method.Name + "(")
	for i, param := range p.arena.Siblings(method.Params) {
		if i > 0 {
			p.write(", ")
		}
		if local, ok := p.arena.Data(param).(*ast.LocalVar); ok {
			p.write(local.Type + " " + local.Name)
		}
	}
	p.write(") ")
	p.printBlock(method.Body)
	p.newline()
}

// printBlock writes a block starting at the current column and leaves the
// cursor after the closing brace.
func (p *PrettyPrinter) printBlock(id ast.NodeID) {
	block, ok := p.arena.Data(id).(*ast.Block)
	if !ok || block.Stmts == ast.NoNode {
		p.write("{}")
		return
	}
	p.write("{")
	p.newline()
	p.indent++
	for _, stmt := range p.arena.Siblings(block.Stmts) {
		p.printStatement(stmt)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *PrettyPrinter) printStatement(id ast.NodeID) {
	p.writeIndent()
	switch d := p.arena.Data(id).(type) {
	case *ast.Block:
		p.printBlock(id)
	case *ast.Return:
		if d.Value == ast.NoNode {
			p.write("return;")
		} else {
			p.write("return " + p.expr(d.Value) + ";")
		}
	case *ast.LocalVar:
		p.write(d.Type + " " + d.Name)
		if d.Init.Valid() {
			p.write(" = " + p.expr(d.Init))
		}
		p.write(";")
	case *ast.Assign:
		p.write(d.Name + " = " + p.expr(d.Value) + ";")
	case *ast.Increment:
		p.write(d.Name + "++;")
	case *ast.ExprStmt:
		p.write(p.expr(d.Expr) + ";")
	}
	p.newline()
}

const primaryPrec = 100

func exprPrec(arena *ast.Arena, id ast.NodeID) int {
	if bin, ok := arena.Data(id).(*ast.Binary); ok {
		return opPrec(bin.Op)
	}
	return primaryPrec
}

func opPrec(op token.Kind) int {
	switch op {
	case token.Plus, token.Minus:
		return 10
	case token.Star, token.Slash, token.Percent:
		return 20
	}
	return primaryPrec
}

// expr renders an expression with the fewest parentheses that keep its
// shape: a left operand needs them only when it binds looser than the
// operator, a right operand also when it binds equally.
func (p *PrettyPrinter) expr(id ast.NodeID) string {
	switch d := p.arena.Data(id).(type) {
	case *ast.Binary:
		prec := opPrec(d.Op)
		left := p.expr(d.Left)
		if exprPrec(p.arena, d.Left) < prec {
			left = "(" + left + ")"
		}
		right := p.expr(d.Right)
		if exprPrec(p.arena, d.Right) <= prec {
			right = "(" + right + ")"
		}
		return left + " " + d.Op.String() + " " + right
	case *ast.IntLiteral:
		return strconv.Itoa(int(d.Value))
	case *ast.StringLiteral:
		return `"` + d.Value + `"`
	case *ast.Ident:
		return d.Name
	case *ast.Call:
		args := make([]string, 0, p.arena.Count(d.Args))
		for _, arg := range p.arena.Siblings(d.Args) {
			args = append(args, p.expr(arg))
		}
		return d.Callee + "(" + strings.Join(args, ", ") + ")"
	case *ast.New:
		return "new " + d.Class + "()"
	}
	return ""
}
