package parser

import (
	"strconv"
	"strings"

	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/token"
)

// precedence returns the binding power of a binary operator, or 0 if kind
// does not continue an expression.
func precedence(kind token.Kind) int {
	switch kind {
	case token.Plus, token.Minus:
		return 10
	case token.Star, token.Slash, token.Percent:
		return 20
	}
	return 0
}

func (p *Parser) parseExpression() ast.NodeID {
	if !p.enter() {
		p.leave()
		p.reportTooDeep(p.current, "expression")
		p.skipNested()
		return ast.NoNode
	}
	defer p.leave()

	lhs := p.parsePrimary()
	if lhs == ast.NoNode && !p.oom {
		return ast.NoNode
	}
	return p.parseBinaryRHS(1, lhs)
}

// parseBinaryRHS folds operators binding at least minPrec onto lhs. Equal
// precedence associates left; a tighter operator after the right operand
// pulls that operand into a recursive call first.
func (p *Parser) parseBinaryRHS(minPrec int, lhs ast.NodeID) ast.NodeID {
	for {
		prec := precedence(p.current.Kind)
		if prec < minPrec {
			return lhs
		}
		op := p.advance()

		rhs := p.parsePrimary()
		if rhs == ast.NoNode && !p.oom {
			return lhs
		}
		if next := precedence(p.current.Kind); prec < next {
			rhs = p.parseBinaryRHS(prec+1, rhs)
		}

		// Operands are still consumed after the arena is exhausted.
		lhs = p.node(op, &ast.Binary{Op: op.Kind, Left: lhs, Right: rhs})
	}
}

func (p *Parser) parsePrimary() ast.NodeID {
	tok := p.current
	switch tok.Kind {
	case token.IntLiteral:
		p.advance()
		return p.node(tok, &ast.IntLiteral{Value: p.intValue(tok)})
	case token.StringLiteral:
		p.advance()
		return p.node(tok, &ast.StringLiteral{Value: unquote(tok.Text)})
	case token.Ident:
		return p.parseNameOrCall()
	case token.New:
		return p.parseNew()
	case token.LParen:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RParen, "expected ')' after expression")
		return expr
	}
	p.errorf(tok, "expected expression")
	return ast.NoNode
}

// intValue converts a decimal literal. Values that do not fit in 32 bits
// are reported and replaced by 0.
func (p *Parser) intValue(tok token.Token) int32 {
	v, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		p.errorf(tok, "integer literal too large")
		return 0
	}
	return int32(v)
}

func unquote(text string) string {
	text = strings.TrimPrefix(text, `"`)
	return strings.TrimSuffix(text, `"`)
}

// parseNameOrCall parses a plain identifier, or a dotted name that must be
// followed by an argument list.
func (p *Parser) parseNameOrCall() ast.NodeID {
	start := p.advance()
	parts := []string{start.Text}
	for p.match(token.Dot) {
		part, ok := p.expect(token.Ident, "expected identifier after '.'")
		if !ok {
			return ast.NoNode
		}
		parts = append(parts, part.Text)
	}

	if p.match(token.LParen) {
		call := &ast.Call{Callee: strings.Join(parts, ".")}
		call.Args = p.parseCallArgs()
		p.expect(token.RParen, "expected ')' after call arguments")
		return p.node(start, call)
	}

	if len(parts) > 1 {
		p.errorf(start, "expected '(' after qualified name")
		return ast.NoNode
	}
	return p.node(start, &ast.Ident{Name: start.Text})
}

func (p *Parser) parseCallArgs() ast.NodeID {
	if p.check(token.RParen) {
		return ast.NoNode
	}
	var args ast.List
	for {
		p.arena.Append(&args, p.parseExpression())
		if !p.match(token.Comma) {
			break
		}
	}
	return args.Head
}

func (p *Parser) parseNew() ast.NodeID {
	p.advance()
	name, ok := p.expect(token.Ident, "expected class name after 'new'")
	if !ok {
		return ast.NoNode
	}
	p.expect(token.LParen, "expected '(' after class name")
	p.expect(token.RParen, "expected ')' after 'new' constructor")
	return p.node(name, &ast.New{Class: name.Text})
}
