package grammar

import (
	"strings"

	"github.com/nihei9/lrgen/grammar/symbol"
	"go.uber.org/zap"
)

// FirstSet maps each non-terminal to the strings of at most k terminals that can begin its derivations.
// A string shorter than k means a derivation that ends there.
type FirstSet struct {
	k       int
	entries map[string]*LookaheadSet
}

// GenerateFirstSet computes FIRST sets by fixed-point iteration. Every round recomputes each production
// from the previous round's sets, treating non-terminals without an entry yet as deriving nothing.
// A non-terminal still without an entry at the fixed point derives no terminal string, and is reported
// as infinite recursion.
func GenerateFirstSet(prods *ProductionSet, k int, opts ...Option) (*FirstSet, error) {
	config := newConfig(opts...)

	prev := &FirstSet{
		k:       k,
		entries: map[string]*LookaheadSet{},
	}
	all := prods.All()
	rounds := 0
	for {
		rounds++
		next := &FirstSet{
			k:       k,
			entries: map[string]*LookaheadSet{},
		}
		for _, p := range all {
			set := prev.OfSequence(p.Symbols, k)
			if set.Len() == 0 {
				continue
			}
			if e, ok := next.entries[p.Name]; ok {
				e.Merge(set)
			} else {
				next.entries[p.Name] = set
			}
		}
		if next.equal(prev) {
			break
		}
		prev = next
	}
	config.logger.Debug("computed FIRST sets",
		zap.Int("k", k),
		zap.Int("rounds", rounds))

	var absent []string
	for _, name := range prods.Names() {
		if _, ok := prev.entries[name]; !ok {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return nil, &ValidationError{
			Cause:  semErrInfiniteRecursion,
			Detail: strings.Join(absent, ", "),
		}
	}
	return prev, nil
}

func (fst *FirstSet) equal(o *FirstSet) bool {
	if len(fst.entries) != len(o.entries) {
		return false
	}
	for name, e := range fst.entries {
		oe, ok := o.entries[name]
		if !ok || !e.Equal(oe) {
			return false
		}
	}
	return true
}

// Find returns the FIRST set of a non-terminal.
func (fst *FirstSet) Find(name string) (*LookaheadSet, bool) {
	e, ok := fst.entries[name]
	return e, ok
}

// OfSymbol returns the FIRST set of a symbol. A non-terminal without an entry yields an empty set.
func (fst *FirstSet) OfSymbol(sym symbol.Symbol) *LookaheadSet {
	if sym.IsTerminal() {
		return NewLookaheadSet(Lookahead{sym})
	}
	if e, ok := fst.entries[sym.Name]; ok {
		return e
	}
	return NewLookaheadSet()
}

// OfSequence returns the strings of at most k terminals that can begin a derivation of syms. Each string
// of the head symbol shorter than k is followed by the strings of the rest, and the result is truncated
// to k.
func (fst *FirstSet) OfSequence(syms []symbol.Symbol, k int) *LookaheadSet {
	if k <= 0 || len(syms) == 0 {
		return NewLookaheadSet(Lookahead{})
	}

	result := NewLookaheadSet()
	rests := map[int]*LookaheadSet{}
	for _, head := range fst.OfSymbol(syms[0]).Values() {
		if len(head) >= k {
			result.Add(head[:k])
			continue
		}
		need := k - len(head)
		rest, ok := rests[need]
		if !ok {
			rest = fst.OfSequence(syms[1:], need)
			rests[need] = rest
		}
		for _, tail := range rest.Values() {
			result.Add(head.concat(tail, k))
		}
	}
	return result
}

// FollowTerminals returns the lookaheads of the items derived from sym in state: for every item whose
// next symbol is sym, the strings of what follows sym in the item's production, followed by the item's
// lookaheads, truncated to k.
func FollowTerminals(sym symbol.Symbol, state *ParserState, first *FirstSet, k int) *LookaheadSet {
	follow := NewLookaheadSet()
	for _, item := range state.Items() {
		next, ok := item.NextSymbol()
		if !ok || next != sym {
			continue
		}
		follow.Merge(followOf(item.Production.Symbols[item.Position+1:], item.Lookaheads, first, k))
	}
	return follow
}

// followOf returns the strings of syms followed by lookaheads, truncated to k.
func followOf(syms []symbol.Symbol, lookaheads *LookaheadSet, first *FirstSet, k int) *LookaheadSet {
	follow := NewLookaheadSet()
	for _, head := range first.OfSequence(syms, k).Values() {
		if len(head) >= k {
			follow.Add(head[:k])
			continue
		}
		for _, l := range lookaheads.Values() {
			follow.Add(head.concat(l, k))
		}
	}
	return follow
}
