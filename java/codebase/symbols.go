package codebase

import (
	"strings"

	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/check"
	"github.com/dhamidi/tjc/java/diag"
)

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolField
	SymbolMethod
	SymbolLocal
)

// Symbol is a named declaration. Start and End delimit the declaring
// token.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Detail   string
	Start    diag.Position
	End      diag.Position
	Children []Symbol
}

// Symbols returns the class of path with its fields and methods. Methods
// list their parameters and locals as children. Partial trees of files
// with syntax errors are included.
func (c *Codebase) Symbols(path string) []Symbol {
	f := c.GetFile(path)
	if f == nil || f.Result == nil {
		return nil
	}
	arena := f.Result.Arena
	unit, ok := arena.Data(f.Result.Root).(*ast.CompilationUnit)
	if !ok {
		return nil
	}
	class, ok := arena.Data(unit.Class).(*ast.Class)
	if !ok || class.Name == "" {
		return nil
	}

	sink := diag.New(path, f.Content)
	sym := newSymbol(sink, arena, unit.Class, class.Name, SymbolClass, "class")
	for _, member := range arena.Siblings(class.Members) {
		switch d := arena.Data(member).(type) {
		case *ast.Field:
			sym.Children = append(sym.Children, newSymbol(sink, arena, member, d.Name, SymbolField, d.Type))
		case *ast.Method:
			m := newSymbol(sink, arena, member, d.Name, SymbolMethod, signature(arena, d))
			for _, local := range locals(arena, member) {
				decl := arena.Data(local).(*ast.LocalVar)
				m.Children = append(m.Children, newSymbol(sink, arena, local, decl.Name, SymbolLocal, decl.Type))
			}
			sym.Children = append(sym.Children, m)
		}
	}
	return []Symbol{sym}
}

func newSymbol(sink *diag.Sink, arena *ast.Arena, id ast.NodeID, name string, kind SymbolKind, detail string) Symbol {
	tok := arena.Node(id).Tok
	return Symbol{
		Name:   name,
		Kind:   kind,
		Detail: detail,
		Start:  sink.Position(tok.Offset),
		End:    sink.Position(tok.End()),
	}
}

func signature(arena *ast.Arena, m *ast.Method) string {
	var params []string
	for _, p := range arena.Siblings(m.Params) {
		if local, ok := arena.Data(p).(*ast.LocalVar); ok {
			params = append(params, local.Type+" "+local.Name)
		}
	}
	return m.ReturnType + " " + m.Name + "(" + strings.Join(params, ", ") + ")"
}

// locals collects the parameters and local declarations of a method in
// source order, descending into nested blocks.
func locals(arena *ast.Arena, method ast.NodeID) []ast.NodeID {
	m := arena.Data(method).(*ast.Method)
	out := arena.Siblings(m.Params)
	var walk func(id ast.NodeID)
	walk = func(id ast.NodeID) {
		block, ok := arena.Data(id).(*ast.Block)
		if !ok {
			return
		}
		for _, stmt := range arena.Siblings(block.Stmts) {
			switch arena.Data(stmt).(type) {
			case *ast.LocalVar:
				out = append(out, stmt)
			case *ast.Block:
				walk(stmt)
			}
		}
	}
	walk(m.Body)
	return out
}

type CompletionKind int

const (
	CompletionKindLocal CompletionKind = iota
	CompletionKindMethod
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// CompletionsAtPoint offers the locals visible at the 1-based line and
// column of path, plus the println call. Locals are visible from their
// declaration to the end of the method, matching the flat local table of
// the checker.
func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil || f.Result == nil {
		return nil
	}
	offset := offsetOf(f.Content, line, column)
	arena := f.Result.Arena
	method := enclosingMethod(arena, f.Result.Root, offset)
	if method == ast.NoNode {
		return nil
	}

	var items []CompletionItem
	seen := map[string]bool{}
	for _, local := range locals(arena, method) {
		node := arena.Node(local)
		decl := node.Data.(*ast.LocalVar)
		if node.Tok.Offset >= offset || seen[decl.Name] {
			continue
		}
		seen[decl.Name] = true
		items = append(items, CompletionItem{
			Label:      decl.Name,
			Kind:       CompletionKindLocal,
			Detail:     decl.Type,
			InsertText: decl.Name,
		})
	}
	items = append(items, CompletionItem{
		Label:      check.PrintlnCallee,
		Kind:       CompletionKindMethod,
		Detail:     "void " + check.PrintlnCallee + "(int|String)",
		InsertText: check.PrintlnCallee + "(${1})",
	})
	return items
}

// enclosingMethod finds the method whose body contains offset. Method
// nodes are anchored at their name, so a method spans from its name to
// the start of the next member.
func enclosingMethod(arena *ast.Arena, root ast.NodeID, offset int) ast.NodeID {
	unit, ok := arena.Data(root).(*ast.CompilationUnit)
	if !ok {
		return ast.NoNode
	}
	class, ok := arena.Data(unit.Class).(*ast.Class)
	if !ok {
		return ast.NoNode
	}
	found := ast.NoNode
	for _, member := range arena.Siblings(class.Members) {
		if arena.Node(member).Tok.Offset > offset {
			break
		}
		if _, ok := arena.Data(member).(*ast.Method); ok {
			found = member
		} else {
			found = ast.NoNode
		}
	}
	return found
}

func offsetOf(content []byte, line, column int) int {
	offset := 0
	for l := 1; l < line && offset < len(content); offset++ {
		if content[offset] == '\n' {
			l++
		}
	}
	return min(offset+column-1, len(content))
}
