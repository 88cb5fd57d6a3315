// Package parser turns source text into an ast tree.
//
// # Overview
//
// The Lexer produces tokens on demand; the Parser pulls them one at a time
// with a single token of lookahead and builds nodes in an ast.Arena.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │ (ast.Arena) │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           └──────▶ diag.Sink ◀┘
//
// Both stages report problems to a diag.Sink and keep going, so a single
// run surfaces as many errors as possible. The tree returned after errors
// may be partial: a construct that failed to parse is simply missing.
//
// # Grammar
//
//	CompilationUnit = { Import } Class .
//	Import          = "import" ident { "." ident } ";" .
//	Class           = [ "public" ] "class" ident "{" { Member } "}" .
//	Member          = { "public" | "static" } Type ident ( Method | ";" ) .
//	Method          = "(" [ Param { "," Param } ] ")" Block .
//	Type            = ( "int" | "void" | ident ) { "[" "]" } .
//	Block           = "{" { Statement } "}" .
//	Statement       = ident "=" Expr ";" | ident "++" ";"
//	                | "return" [ Expr ] ";" | Block
//	                | Type ident [ "=" Expr ] ";" | Expr ";" .
//	Expr            = Primary { BinaryOp Primary } .
//	Primary         = int | string | ident | Name "(" [ Args ] ")"
//	                | "new" ident "(" ")" | "(" Expr ")" .
//
// The full grammar, in EBNF, ships with the java/grammar package.
//
// # Precedence
//
// `*`, `/` and `%` bind tighter than `+` and `-`. Operators of equal
// precedence associate to the left, so `1 - 2 - 3` is `(1 - 2) - 3`.
//
// # Statement Disambiguation
//
// Statements that start with an identifier need one extra token of
// lookahead: `x = ...` is an assignment, `x++` an increment, `T x` a
// declaration and anything else an expression statement. Peeking runs on a
// copy of the lexer so lexical errors are only reported once.
//
// # Limits
//
// Expressions and blocks may nest at most DefaultMaxDepth levels deep
// (see WithMaxDepth). Deeper input is reported once and the offending
// group is skipped. Node allocation is bounded by the arena; exhaustion is
// reported as "out of memory".
//
// # Usage
//
//	sink := diag.New("Main.java", src)
//	arena := ast.NewArena()
//	root := parser.ParseCompilationUnit(src, sink, arena)
//	if sink.HadError() {
//	    for _, d := range sink.Diagnostics() {
//	        fmt.Println(d)
//	    }
//	}
package parser
