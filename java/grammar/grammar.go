// Package grammar holds the EBNF description of the source language and a
// recognizer that checks token streams against it.
//
// The hand-written parser in java/parser is the implementation; this
// grammar is its reference. Recognize runs an Earley recognizer straight
// off the EBNF so the two can be compared on the same input.
package grammar

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Start is the production every source file must match.
const Start = "CompilationUnit"

//go:embed grammar.ebnf
var source string

// Source returns the grammar text.
func Source() string {
	return source
}

// Parse parses the embedded grammar.
func Parse() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("grammar.ebnf", strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Verify parses the embedded grammar and checks that every production is
// defined and reachable from Start.
func Verify() error {
	g, err := Parse()
	if err != nil {
		return err
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

// Productions returns the production names in the order they appear in
// the grammar text.
func Productions() []string {
	g, err := Parse()
	if err != nil {
		return nil
	}
	var names []string
	for _, line := range strings.Split(source, "\n") {
		name, _, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.HasPrefix(name, "//") {
			continue
		}
		if _, defined := g[name]; defined {
			names = append(names, name)
		}
	}
	return names
}

// IsLexical reports whether name denotes a lexical production. Lexical
// productions start with a lowercase letter; the recognizer treats them
// as token classes.
func IsLexical(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}
