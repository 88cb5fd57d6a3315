package grammar

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/tjc/java/diag"
	"github.com/dhamidi/tjc/java/parser"
	"github.com/dhamidi/tjc/java/token"
)

// classes maps lexical production names to the token kinds the lexer
// produces for them.
var classes = map[string]token.Kind{
	"identifier":     token.Ident,
	"int_literal":    token.IntLiteral,
	"string_literal": token.StringLiteral,
}

// symbol is one element on the right-hand side of a rule: either a
// nonterminal or a terminal matched against a single token.
type symbol struct {
	nonterminal string
	literal     string
	class       token.Kind
	isClass     bool
}

func (s symbol) terminal() bool {
	return s.nonterminal == ""
}

func (s symbol) matches(tok token.Token) bool {
	if s.isClass {
		return tok.Kind == s.class
	}
	return tok.Kind != token.Ident && tok.Kind.String() == s.literal
}

func (s symbol) String() string {
	switch {
	case !s.terminal():
		return s.nonterminal
	case s.isClass:
		return s.class.String()
	default:
		return strconv.Quote(s.literal)
	}
}

type rule struct {
	lhs string
	rhs []symbol
}

// Recognizer is an Earley recognizer for a grammar flattened to plain
// rules. Options, repetitions and groups become synthetic nonterminals.
type Recognizer struct {
	start    string
	rules    []rule
	byLHS    map[string][]int
	nullable map[string]bool
	fresh    int
}

// NewRecognizer flattens the syntactic productions of g reachable from
// start.
func NewRecognizer(g ebnf.Grammar, start string) (*Recognizer, error) {
	r := &Recognizer{
		start:    start,
		byLHS:    map[string][]int{},
		nullable: map[string]bool{},
	}
	if _, ok := g[start]; !ok {
		return nil, fmt.Errorf("production %q not found in grammar", start)
	}

	for name, prod := range g {
		if IsLexical(name) {
			continue
		}
		alts, err := r.alternatives(name, prod.Expr)
		if err != nil {
			return nil, err
		}
		for _, rhs := range alts {
			r.add(name, rhs)
		}
	}
	r.computeNullable()
	return r, nil
}

func (r *Recognizer) add(lhs string, rhs []symbol) {
	r.byLHS[lhs] = append(r.byLHS[lhs], len(r.rules))
	r.rules = append(r.rules, rule{lhs: lhs, rhs: rhs})
}

func (r *Recognizer) synthetic(lhs string) string {
	r.fresh++
	return fmt.Sprintf("%s#%d", lhs, r.fresh)
}

func (r *Recognizer) alternatives(lhs string, expr ebnf.Expression) ([][]symbol, error) {
	if alt, ok := expr.(ebnf.Alternative); ok {
		var out [][]symbol
		for _, x := range alt {
			seq, err := r.sequence(lhs, x)
			if err != nil {
				return nil, err
			}
			out = append(out, seq)
		}
		return out, nil
	}
	seq, err := r.sequence(lhs, expr)
	if err != nil {
		return nil, err
	}
	return [][]symbol{seq}, nil
}

func (r *Recognizer) sequence(lhs string, expr ebnf.Expression) ([]symbol, error) {
	if expr == nil {
		return nil, nil
	}
	elems, ok := expr.(ebnf.Sequence)
	if !ok {
		elems = ebnf.Sequence{expr}
	}
	out := make([]symbol, 0, len(elems))
	for _, elem := range elems {
		sym, err := r.symbol(lhs, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, nil
}

func (r *Recognizer) symbol(lhs string, expr ebnf.Expression) (symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if !IsLexical(e.String) {
			return symbol{nonterminal: e.String}, nil
		}
		kind, ok := classes[e.String]
		if !ok {
			return symbol{}, fmt.Errorf("%s: no token class for %q", e.StringPos, e.String)
		}
		return symbol{class: kind, isClass: true}, nil

	case *ebnf.Token:
		return symbol{literal: literal(e)}, nil

	case *ebnf.Group:
		name := r.synthetic(lhs)
		alts, err := r.alternatives(name, e.Body)
		if err != nil {
			return symbol{}, err
		}
		for _, rhs := range alts {
			r.add(name, rhs)
		}
		return symbol{nonterminal: name}, nil

	case *ebnf.Option:
		name := r.synthetic(lhs)
		alts, err := r.alternatives(name, e.Body)
		if err != nil {
			return symbol{}, err
		}
		r.add(name, nil)
		for _, rhs := range alts {
			r.add(name, rhs)
		}
		return symbol{nonterminal: name}, nil

	case *ebnf.Repetition:
		// N = ε | N body, left recursive so the chart stays linear.
		name := r.synthetic(lhs)
		alts, err := r.alternatives(name, e.Body)
		if err != nil {
			return symbol{}, err
		}
		r.add(name, nil)
		for _, rhs := range alts {
			r.add(name, append([]symbol{{nonterminal: name}}, rhs...))
		}
		return symbol{nonterminal: name}, nil

	case ebnf.Alternative, ebnf.Sequence:
		return r.symbol(lhs, &ebnf.Group{Body: e})
	}
	return symbol{}, fmt.Errorf("%s: unsupported expression %T in %s", expr.Pos(), expr, lhs)
}

func literal(t *ebnf.Token) string {
	if s, err := strconv.Unquote(t.String); err == nil {
		return s
	}
	return t.String
}

func (r *Recognizer) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, rl := range r.rules {
			if r.nullable[rl.lhs] {
				continue
			}
			all := true
			for _, sym := range rl.rhs {
				if sym.terminal() || !r.nullable[sym.nonterminal] {
					all = false
					break
				}
			}
			if all {
				r.nullable[rl.lhs] = true
				changed = true
			}
		}
	}
}

// item is an Earley item: a rule, the dot position within it, and the
// chart position the rule started at.
type item struct {
	rule   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func (s *itemSet) add(it item) {
	if s.seen == nil {
		s.seen = map[item]bool{}
	}
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// SyntaxError describes where recognition stopped.
type SyntaxError struct {
	Pos      diag.Position
	Found    string
	Expected []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: unexpected %s", e.Pos, e.Found)
}

// Tokens recognizes an already scanned token stream. The stream may end
// with an EOF token; it is ignored.
func (r *Recognizer) Tokens(toks []token.Token, sink *diag.Sink) error {
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		toks = toks[:n-1]
	}

	chart := make([]itemSet, len(toks)+1)
	for _, idx := range r.byLHS[r.start] {
		chart[0].add(item{rule: idx})
	}

	for i := range chart {
		for j := 0; j < len(chart[i].items); j++ {
			it := chart[i].items[j]
			rl := r.rules[it.rule]

			if it.dot == len(rl.rhs) {
				r.complete(chart, i, it)
				continue
			}

			next := rl.rhs[it.dot]
			if next.terminal() {
				if i < len(toks) && next.matches(toks[i]) {
					chart[i+1].add(item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
				}
				continue
			}

			for _, idx := range r.byLHS[next.nonterminal] {
				chart[i].add(item{rule: idx, origin: i})
			}
			if r.nullable[next.nonterminal] {
				chart[i].add(item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
			}
		}
	}

	for _, it := range chart[len(toks)].items {
		rl := r.rules[it.rule]
		if rl.lhs == r.start && it.origin == 0 && it.dot == len(rl.rhs) {
			return nil
		}
	}
	return r.syntaxError(chart, toks, sink)
}

func (r *Recognizer) complete(chart []itemSet, i int, done item) {
	lhs := r.rules[done.rule].lhs
	for k := 0; k < len(chart[done.origin].items); k++ {
		waiting := chart[done.origin].items[k]
		rl := r.rules[waiting.rule]
		if waiting.dot < len(rl.rhs) && rl.rhs[waiting.dot].nonterminal == lhs {
			chart[i].add(item{rule: waiting.rule, dot: waiting.dot + 1, origin: waiting.origin})
		}
	}
}

// syntaxError reports the furthest position any item reached, with the
// terminals that would have been accepted there.
func (r *Recognizer) syntaxError(chart []itemSet, toks []token.Token, sink *diag.Sink) error {
	furthest := 0
	for i := len(chart) - 1; i >= 0; i-- {
		if len(chart[i].items) > 0 {
			furthest = i
			break
		}
	}

	err := &SyntaxError{Found: "end of input"}
	offset := len(sink.Source())
	if furthest < len(toks) {
		tok := toks[furthest]
		err.Found = strconv.Quote(tok.Text)
		offset = tok.Offset
	}
	err.Pos = sink.Position(offset)

	seen := map[string]bool{}
	for _, it := range chart[furthest].items {
		rl := r.rules[it.rule]
		if it.dot < len(rl.rhs) && rl.rhs[it.dot].terminal() {
			s := rl.rhs[it.dot].String()
			if !seen[s] {
				seen[s] = true
				err.Expected = append(err.Expected, s)
			}
		}
	}
	return err
}

// Recognize scans src with the production lexer and checks the tokens
// against the embedded grammar. Lexical errors are returned as well.
func Recognize(path string, src []byte) error {
	g, err := Parse()
	if err != nil {
		return err
	}
	r, err := NewRecognizer(g, Start)
	if err != nil {
		return err
	}

	sink := diag.New(path, src)
	lexer := parser.NewLexer(src, sink)
	var toks []token.Token
	for {
		tok := lexer.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if sink.HadError() {
		d := sink.Diagnostics()[0]
		return fmt.Errorf("%s", d)
	}
	return r.Tokens(toks, sink)
}
