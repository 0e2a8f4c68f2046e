package parser

import (
	"fmt"
	"sort"
	"strings"

	spec "github.com/nihei9/lrgen/spec/grammar"
)

// Grammar is the parser table a parser runs.
type Grammar interface {
	InitialState() int
	StartProduction() int

	// Lookahead returns the number of terminals a parser peeks at.
	Lookahead() int

	// Shift returns the state a parser moves to by shifting a terminal when the input begins with
	// lookahead.
	Shift(state int, lookahead []int) (int, bool)

	// Reduce returns the production a parser reduces when the input begins with lookahead.
	Reduce(state int, lookahead []int) (int, bool)

	GoTo(state int, lhs int) (int, bool)
	AlternativeSymbolCount(prod int) int
	LHS(prod int) int

	// ErrorMessage returns the syntax error reducing a production reports.
	ErrorMessage(prod int) (string, bool, bool)

	// ExpectedTerminals returns the first terminals of the lookaheads a state can act on, in ascending
	// order.
	ExpectedTerminals(state int) []int

	EOF() int
	Terminal(terminal int) string
	NonTerminal(nonTerminal int) string
}

type stateEntries struct {
	shift  map[string]int
	reduce map[string]int
	goTo   map[int]int
}

type grammarImpl struct {
	g      *spec.CompiledGrammar
	states []*stateEntries
}

// NewGrammar indexes the parser table of a compiled grammar.
func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	states := make([]*stateEntries, len(g.Syntactic.States))
	for i, s := range g.Syntactic.States {
		e := &stateEntries{
			shift:  map[string]int{},
			reduce: map[string]int{},
			goTo:   map[int]int{},
		}
		for _, sh := range s.Shift {
			e.shift[lookaheadKey(sh.Lookahead)] = sh.State
		}
		for _, r := range s.Reduce {
			e.reduce[lookaheadKey(r.Lookahead)] = r.Production
		}
		for _, gt := range s.GoTo {
			e.goTo[gt.Symbol] = gt.State
		}
		states[i] = e
	}
	return &grammarImpl{
		g:      g,
		states: states,
	}
}

func lookaheadKey(lookahead []int) string {
	var b strings.Builder
	for _, t := range lookahead {
		fmt.Fprintf(&b, "%v,", t)
	}
	return b.String()
}

func (g *grammarImpl) InitialState() int {
	return g.g.Syntactic.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.Syntactic.StartProduction
}

func (g *grammarImpl) Lookahead() int {
	return g.g.Syntactic.Lookahead
}

func (g *grammarImpl) Shift(state int, lookahead []int) (int, bool) {
	next, ok := g.states[state].shift[lookaheadKey(lookahead)]
	return next, ok
}

func (g *grammarImpl) Reduce(state int, lookahead []int) (int, bool) {
	prod, ok := g.states[state].reduce[lookaheadKey(lookahead)]
	return prod, ok
}

func (g *grammarImpl) GoTo(state int, lhs int) (int, bool) {
	next, ok := g.states[state].goTo[lhs]
	return next, ok
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.Syntactic.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) ErrorMessage(prod int) (string, bool, bool) {
	msgs := g.g.Syntactic.ErrorMessages
	if prod >= len(msgs) || msgs[prod] == nil {
		return "", false, false
	}
	return msgs[prod].Message, msgs[prod].Dynamic, true
}

func (g *grammarImpl) ExpectedTerminals(state int) []int {
	seen := map[int]struct{}{}
	var terms []int
	add := func(lookahead []int) {
		if len(lookahead) == 0 {
			return
		}
		if _, ok := seen[lookahead[0]]; ok {
			return
		}
		seen[lookahead[0]] = struct{}{}
		terms = append(terms, lookahead[0])
	}
	s := g.g.Syntactic.States[state]
	for _, sh := range s.Shift {
		add(sh.Lookahead)
	}
	for _, r := range s.Reduce {
		add(r.Lookahead)
	}
	sort.Ints(terms)
	return terms
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}
