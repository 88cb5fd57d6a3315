// Package ast defines the abstract syntax tree produced by the parser.
//
// Nodes live in an Arena and refer to each other through NodeID handles.
// Lists (imports, members, parameters, statements, arguments) are chains
// linked through Node.Next in source order.
package ast

import "github.com/dhamidi/tjc/java/token"

type Kind int

const (
	KindInvalid Kind = iota
	KindCompilationUnit
	KindImport
	KindClass
	KindField
	KindMethod
	KindBlock
	KindReturn
	KindLocalVar
	KindExprStmt
	KindAssign
	KindIncrement
	KindBinary
	KindIntLiteral
	KindStringLiteral
	KindIdent
	KindCall
	KindNew
)

var kindNames = map[Kind]string{
	KindInvalid:         "Invalid",
	KindCompilationUnit: "CompilationUnit",
	KindImport:          "Import",
	KindClass:           "Class",
	KindField:           "Field",
	KindMethod:          "Method",
	KindBlock:           "Block",
	KindReturn:          "Return",
	KindLocalVar:        "LocalVar",
	KindExprStmt:        "ExprStmt",
	KindAssign:          "Assign",
	KindIncrement:       "Increment",
	KindBinary:          "Binary",
	KindIntLiteral:      "IntLiteral",
	KindStringLiteral:   "StringLiteral",
	KindIdent:           "Ident",
	KindCall:            "Call",
	KindNew:             "New",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Payload is the kind-specific part of a node.
type Payload interface {
	Kind() Kind
}

type Node struct {
	// Tok anchors the node in the source for diagnostics.
	Tok  token.Token
	Next NodeID
	Data Payload
}

func (n *Node) Kind() Kind {
	if n == nil || n.Data == nil {
		return KindInvalid
	}
	return n.Data.Kind()
}

type CompilationUnit struct {
	Imports NodeID
	Class   NodeID
}

type Import struct {
	Name string
}

type Class struct {
	Public  bool
	Name    string
	Members NodeID
}

type Field struct {
	Public bool
	Static bool
	Type   string
	Name   string
}

type Method struct {
	Public     bool
	Static     bool
	ReturnType string
	Name       string
	Params     NodeID
	Body       NodeID
}

type Block struct {
	Stmts NodeID
}

type Return struct {
	Value NodeID
}

// LocalVar is a local declaration or a method parameter.
type LocalVar struct {
	Type string
	Name string
	Init NodeID
}

type ExprStmt struct {
	Expr NodeID
}

type Assign struct {
	Name  string
	Value NodeID
}

type Increment struct {
	Name string
}

type Binary struct {
	Op    token.Kind
	Left  NodeID
	Right NodeID
}

type IntLiteral struct {
	Value int32
}

// StringLiteral holds the text between the quotes.
type StringLiteral struct {
	Value string
}

type Ident struct {
	Name string
}

// Call is an invocation of a possibly dotted name, e.g. System.out.println.
type Call struct {
	Callee string
	Args   NodeID
}

type New struct {
	Class string
}

func (*CompilationUnit) Kind() Kind { return KindCompilationUnit }
func (*Import) Kind() Kind          { return KindImport }
func (*Class) Kind() Kind           { return KindClass }
func (*Field) Kind() Kind           { return KindField }
func (*Method) Kind() Kind          { return KindMethod }
func (*Block) Kind() Kind           { return KindBlock }
func (*Return) Kind() Kind          { return KindReturn }
func (*LocalVar) Kind() Kind        { return KindLocalVar }
func (*ExprStmt) Kind() Kind        { return KindExprStmt }
func (*Assign) Kind() Kind          { return KindAssign }
func (*Increment) Kind() Kind       { return KindIncrement }
func (*Binary) Kind() Kind          { return KindBinary }
func (*IntLiteral) Kind() Kind      { return KindIntLiteral }
func (*StringLiteral) Kind() Kind   { return KindStringLiteral }
func (*Ident) Kind() Kind           { return KindIdent }
func (*Call) Kind() Kind            { return KindCall }
func (*New) Kind() Kind             { return KindNew }
