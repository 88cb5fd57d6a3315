package parser

import (
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/tjc/internal/logging"
	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/token"
)

// DefaultMaxDepth bounds nested expressions and blocks.
const DefaultMaxDepth = 256

type Option func(*Parser)

// WithMaxDepth sets how deeply expressions and blocks may nest before the
// parser gives up on the innermost construct.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

type Parser struct {
	lexer    Lexer
	current  token.Token
	sink     *diag.Sink
	arena    *ast.Arena
	maxDepth int
	depth    int
	tooDeep  bool
	oom      bool
	log      commonlog.Logger
}

func New(src []byte, sink *diag.Sink, arena *ast.Arena, opts ...Option) *Parser {
	p := &Parser{
		lexer:    Lexer{input: src, sink: sink},
		sink:     sink,
		arena:    arena,
		maxDepth: DefaultMaxDepth,
		log:      logging.Get("parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.current = p.lexer.Next()
	return p
}

// ParseCompilationUnit parses a whole source file and returns the
// compilation unit node, or ast.NoNode if not even the root could be
// allocated. Problems are reported to sink; the returned tree may be
// partial.
func ParseCompilationUnit(src []byte, sink *diag.Sink, arena *ast.Arena, opts ...Option) ast.NodeID {
	return New(src, sink, arena, opts...).ParseCompilationUnit()
}

// ParseExpression parses src as a single expression followed by end of
// input.
func ParseExpression(src []byte, sink *diag.Sink, arena *ast.Arena, opts ...Option) ast.NodeID {
	p := New(src, sink, arena, opts...)
	expr := p.parseExpression()
	if !p.check(token.EOF) {
		p.errorf(p.current, "unexpected %s after expression", describe(p.current))
	}
	return expr
}

func (p *Parser) advance() token.Token {
	tok := p.current
	p.current = p.lexer.Next()
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.current.Kind == kind
}

// match consumes the current token if it has the given kind.
func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind. On mismatch it reports msg at
// the current token and leaves it in place.
func (p *Parser) expect(kind token.Kind, msg string) (token.Token, bool) {
	tok := p.current
	if tok.Kind != kind {
		p.errorf(tok, "%s", msg)
		return tok, false
	}
	p.advance()
	return tok, true
}

// peek returns the token after the current one without moving the cursor.
// The lookahead runs on a detached copy of the lexer so lexical errors are
// only reported once, when the primary cursor reaches them.
func (p *Parser) peek() token.Token {
	saved := p.lexer
	saved.sink = nil
	return saved.Next()
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end; it skips one token when nothing was consumed.
func (p *Parser) mustProgress() func() bool {
	saved := p.current.Offset
	return func() bool {
		if p.current.Offset == saved && !p.check(token.EOF) {
			p.advance()
			return false
		}
		return true
	}
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.sink.Errorf(tok.Offset, format, args...)
}

// node allocates a node anchored at tok. Arena exhaustion is reported once
// per parse; the caller gets ast.NoNode and stops building that subtree.
func (p *Parser) node(tok token.Token, data ast.Payload) ast.NodeID {
	id, ok := p.arena.Alloc(tok, data)
	if !ok {
		if !p.oom {
			p.errorf(tok, "out of memory")
			p.oom = true
		}
		return ast.NoNode
	}
	return id
}

func (p *Parser) enter() bool {
	p.depth++
	return p.depth <= p.maxDepth
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) reportTooDeep(tok token.Token, what string) {
	if !p.tooDeep {
		p.errorf(tok, "%s nested too deeply", what)
		p.tooDeep = true
	}
}

// skipNested discards tokens up to, but not including, the token that
// closes the enclosing group: an unmatched ')' or '}', a top-level ';',
// or end of input.
func (p *Parser) skipNested() {
	depth := 0
	for !p.check(token.EOF) {
		switch p.current.Kind {
		case token.LParen, token.LBrace:
			depth++
		case token.RParen, token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident, token.IntLiteral, token.StringLiteral:
		return tok.Kind.String() + " " + strconv.Quote(tok.Text)
	default:
		return "'" + tok.Kind.String() + "'"
	}
}

func (p *Parser) ParseCompilationUnit() ast.NodeID {
	unit := &ast.CompilationUnit{}
	id := p.node(p.current, unit)
	if id == ast.NoNode {
		return ast.NoNode
	}

	var imports ast.List
	for p.check(token.Import) {
		p.arena.Append(&imports, p.parseImport())
	}
	unit.Imports = imports.Head
	unit.Class = p.parseClass()

	if !p.check(token.EOF) {
		p.errorf(p.current, "unexpected %s after class declaration", describe(p.current))
	}

	p.log.Debugf("parsed %d nodes, %d diagnostics", p.arena.Len(), p.sink.ErrorCount())
	return id
}

func (p *Parser) parseImport() ast.NodeID {
	start, _ := p.expect(token.Import, "expected 'import'")
	first, ok := p.expect(token.Ident, "expected import name")
	parts := []string{}
	if ok {
		parts = append(parts, first.Text)
	}
	for p.match(token.Dot) {
		part, ok := p.expect(token.Ident, "expected identifier after '.'")
		if !ok {
			break
		}
		parts = append(parts, part.Text)
	}
	p.expect(token.Semicolon, "expected ';' after import")

	return p.node(start, &ast.Import{Name: strings.Join(parts, ".")})
}

func (p *Parser) parseClass() ast.NodeID {
	public := p.match(token.Public)
	start, _ := p.expect(token.Class, "expected 'class'")
	name, ok := p.expect(token.Ident, "expected class name")

	class := &ast.Class{Public: public}
	if ok {
		class.Name = name.Text
	}

	p.expect(token.LBrace, "expected '{' after class name")

	var members ast.List
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		progress := p.mustProgress()
		p.arena.Append(&members, p.parseMember())
		progress()
	}
	class.Members = members.Head

	p.expect(token.RBrace, "expected '}' to close class body")
	return p.node(start, class)
}

func (p *Parser) parseMember() ast.NodeID {
	public, static := false, false
	for p.check(token.Public) || p.check(token.Static) {
		if p.advance().Kind == token.Static {
			static = true
		} else {
			public = true
		}
	}

	typ := p.parseType()
	name, ok := p.expect(token.Ident, "expected member name")
	memberName := ""
	if ok {
		memberName = name.Text
	}

	if p.match(token.LParen) {
		method := &ast.Method{
			Public:     public,
			Static:     static,
			ReturnType: typ,
			Name:       memberName,
		}
		method.Params = p.parseParams()
		p.expect(token.RParen, "expected ')' after parameters")
		method.Body = p.parseBlock()
		return p.node(name, method)
	}

	id := p.node(name, &ast.Field{Public: public, Static: static, Type: typ, Name: memberName})
	p.expect(token.Semicolon, "expected ';' after field declaration")
	return id
}

func (p *Parser) parseParams() ast.NodeID {
	if p.check(token.RParen) {
		return ast.NoNode
	}
	var params ast.List
	for {
		typ := p.parseType()
		name, ok := p.expect(token.Ident, "expected parameter name")
		local := &ast.LocalVar{Type: typ}
		if ok {
			local.Name = name.Text
		}
		p.arena.Append(&params, p.node(name, local))
		if !p.match(token.Comma) {
			break
		}
	}
	return params.Head
}

// parseType parses `int`, `void` or an identifier followed by any number
// of `[]` pairs and returns the canonical spelling, e.g. "String[]".
func (p *Parser) parseType() string {
	tok := p.current
	if !p.match(token.Int) && !p.match(token.Void) && !p.match(token.Ident) {
		p.errorf(tok, "expected type name")
		return ""
	}
	name := tok.Text
	for p.match(token.LBracket) {
		p.expect(token.RBracket, "expected ']' after '[' in type")
		name += "[]"
	}
	return name
}

func (p *Parser) parseBlock() ast.NodeID {
	start, _ := p.expect(token.LBrace, "expected '{' to start block")

	if !p.enter() {
		p.leave()
		p.reportTooDeep(start, "block")
		p.skipNested()
		p.match(token.RBrace)
		return ast.NoNode
	}
	defer p.leave()

	block := &ast.Block{}
	var stmts ast.List
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		progress := p.mustProgress()
		p.arena.Append(&stmts, p.parseStatement())
		progress()
	}
	block.Stmts = stmts.Head

	p.expect(token.RBrace, "expected '}' to close block")
	return p.node(start, block)
}

func (p *Parser) parseStatement() ast.NodeID {
	if p.check(token.Ident) {
		switch p.peek().Kind {
		case token.Assign:
			return p.parseAssign()
		case token.Increment:
			return p.parseIncrement()
		}
	}

	switch {
	case p.check(token.Return):
		return p.parseReturn()
	case p.check(token.LBrace):
		return p.parseBlock()
	case p.check(token.Int), p.check(token.Ident) && startsDeclaration(p.peek().Kind):
		return p.parseLocalVar()
	}
	return p.parseExprStmt()
}

// startsDeclaration reports whether a token following a leading identifier
// makes the statement a declaration, as in `Foo x` or `String[] xs`.
func startsDeclaration(next token.Kind) bool {
	return next == token.Ident || next == token.LBracket
}

func (p *Parser) parseAssign() ast.NodeID {
	name := p.advance()
	p.expect(token.Assign, "expected '=' in assignment")
	value := p.parseExpression()
	p.expect(token.Semicolon, "expected ';' after assignment")
	return p.node(name, &ast.Assign{Name: name.Text, Value: value})
}

func (p *Parser) parseIncrement() ast.NodeID {
	name := p.advance()
	p.expect(token.Increment, "expected '++'")
	p.expect(token.Semicolon, "expected ';' after increment")
	return p.node(name, &ast.Increment{Name: name.Text})
}

func (p *Parser) parseReturn() ast.NodeID {
	start := p.advance()
	var value ast.NodeID
	if !p.check(token.Semicolon) {
		value = p.parseExpression()
	}
	p.expect(token.Semicolon, "expected ';' after return statement")
	return p.node(start, &ast.Return{Value: value})
}

func (p *Parser) parseLocalVar() ast.NodeID {
	typ := p.parseType()
	name, ok := p.expect(token.Ident, "expected identifier in variable declaration")
	local := &ast.LocalVar{Type: typ}
	if ok {
		local.Name = name.Text
	}
	if p.match(token.Assign) {
		local.Init = p.parseExpression()
	}
	p.expect(token.Semicolon, "expected ';' after variable declaration")
	return p.node(name, local)
}

func (p *Parser) parseExprStmt() ast.NodeID {
	start := p.current
	expr := p.parseExpression()
	p.expect(token.Semicolon, "expected ';' after expression")
	if n := p.arena.Node(expr); n != nil {
		start = n.Tok
	}
	return p.node(start, &ast.ExprStmt{Expr: expr})
}
