package ast

import (
	"strconv"
	"strings"
)

// Children returns the direct children of id in source order, expanding
// sibling chains.
func (a *Arena) Children(id NodeID) []NodeID {
	n := a.Node(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	add := func(ids ...NodeID) {
		for _, c := range ids {
			if c != NoNode {
				out = append(out, c)
			}
		}
	}
	switch d := n.Data.(type) {
	case *CompilationUnit:
		add(a.Siblings(d.Imports)...)
		add(d.Class)
	case *Class:
		add(a.Siblings(d.Members)...)
	case *Method:
		add(a.Siblings(d.Params)...)
		add(d.Body)
	case *Block:
		add(a.Siblings(d.Stmts)...)
	case *Return:
		add(d.Value)
	case *LocalVar:
		add(d.Init)
	case *ExprStmt:
		add(d.Expr)
	case *Assign:
		add(d.Value)
	case *Binary:
		add(d.Left, d.Right)
	case *Call:
		add(a.Siblings(d.Args)...)
	}
	return out
}

// Label summarizes the payload of a node on one line, e.g.
// `Method static void main` or `Binary +`.
func (a *Arena) Label(id NodeID) string {
	n := a.Node(id)
	if n == nil {
		return "<nil>"
	}
	parts := []string{n.Kind().String()}
	switch d := n.Data.(type) {
	case *Import:
		parts = append(parts, d.Name)
	case *Class:
		parts = append(parts, d.Name)
	case *Field:
		parts = append(parts, d.Type, d.Name)
	case *Method:
		if d.Static {
			parts = append(parts, "static")
		}
		parts = append(parts, d.ReturnType, d.Name)
	case *LocalVar:
		parts = append(parts, d.Type, d.Name)
	case *Assign:
		parts = append(parts, d.Name)
	case *Increment:
		parts = append(parts, d.Name)
	case *Binary:
		parts = append(parts, d.Op.String())
	case *IntLiteral:
		parts = append(parts, strconv.Itoa(int(d.Value)))
	case *StringLiteral:
		parts = append(parts, strconv.Quote(d.Value))
	case *Ident:
		parts = append(parts, d.Name)
	case *Call:
		parts = append(parts, d.Callee)
	case *New:
		parts = append(parts, d.Class)
	}
	return strings.Join(parts, " ")
}

// Dump renders the subtree rooted at id as an indented outline.
func (a *Arena) Dump(id NodeID) string {
	var sb strings.Builder
	a.dump(&sb, id, 0)
	return sb.String()
}

func (a *Arena) dump(sb *strings.Builder, id NodeID, indent int) {
	if a.Node(id) == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(a.Label(id))
	sb.WriteByte('\n')
	for _, child := range a.Children(id) {
		a.dump(sb, child, indent+1)
	}
}

// Sexpr renders an expression fully parenthesized, e.g. "(1 + (2 * 3))".
func (a *Arena) Sexpr(id NodeID) string {
	n := a.Node(id)
	if n == nil {
		return "<nil>"
	}
	switch d := n.Data.(type) {
	case *Binary:
		return "(" + a.Sexpr(d.Left) + " " + d.Op.String() + " " + a.Sexpr(d.Right) + ")"
	case *IntLiteral:
		return strconv.Itoa(int(d.Value))
	case *StringLiteral:
		return strconv.Quote(d.Value)
	case *Ident:
		return d.Name
	case *Call:
		args := make([]string, 0, a.Count(d.Args))
		for _, arg := range a.Siblings(d.Args) {
			args = append(args, a.Sexpr(arg))
		}
		return d.Callee + "(" + strings.Join(args, ", ") + ")"
	case *New:
		return "new " + d.Class + "()"
	default:
		return n.Kind().String()
	}
}
