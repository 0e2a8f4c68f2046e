package grammar

import (
	"testing"

	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/stretchr/testify/require"
)

func TestGenerateFirstSet(t *testing.T) {
	tests := []struct {
		caption string
		prods   []*Production
		k       int
		first   map[string][]Lookahead
	}{
		{
			caption: "left-recursive productions with k = 3",
			prods:   arithmeticGrammar(),
			k:       3,
			first: map[string][]Lookahead{
				"number": {
					la("INT"),
				},
				"multiplication": {
					la("INT"),
					la("INT", "MUL", "INT"),
				},
				"addition": {
					la("INT"),
					la("INT", "ADD", "INT"),
					la("INT", "MUL", "INT"),
				},
			},
		},
		{
			caption: "left-recursive productions with k = 1",
			prods:   arithmeticGrammar(),
			k:       1,
			first: map[string][]Lookahead{
				"number":         {la("INT")},
				"multiplication": {la("INT")},
				"addition":       {la("INT")},
				"$S":             {la("INT")},
			},
		},
		{
			caption: "an empty production contributes an empty string",
			prods: []*Production{
				prod("$S", "opt", "B"),
				prod("opt", "A"),
				prod("opt"),
			},
			k: 2,
			first: map[string][]Lookahead{
				"opt": {
					la(),
					la("A"),
				},
				"$S": {
					la("A", "B"),
					la("B"),
				},
			},
		},
		{
			caption: "strings are truncated to k",
			prods: []*Production{
				prod("$S", "list"),
				prod("list", "A", "list"),
				prod("list", "A"),
			},
			k: 2,
			first: map[string][]Lookahead{
				"list": {
					la("A"),
					la("A", "A"),
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			first, err := GenerateFirstSet(NewProductionSet(tt.prods...), tt.k)
			require.NoError(t, err)
			for name, want := range tt.first {
				got, ok := first.Find(name)
				require.True(t, ok, "no FIRST set of %v", name)
				require.Equal(t, want, got.Values(), "FIRST set of %v", name)
			}
		})
	}
}

func TestGenerateFirstSet_InfiniteRecursion(t *testing.T) {
	_, err := GenerateFirstSet(NewProductionSet(
		prod("$S", "infinite_recursion"),
		prod("infinite_recursion", "infinite_recursion", "INT"),
	), 1)
	verr := requireValidationError(t, err, semErrInfiniteRecursion)
	require.Equal(t, "$S, infinite_recursion", verr.Detail)

	_, err = GenerateParserTable([]*Production{
		prod("$S", "infinite_recursion"),
		prod("infinite_recursion", "infinite_recursion", "INT"),
	}, LRComparator{}, 1)
	requireValidationError(t, err, semErrInfiniteRecursion)
}

func TestFirstSet_OfSequence(t *testing.T) {
	first, err := GenerateFirstSet(NewProductionSet(arithmeticGrammar()...), 2)
	require.NoError(t, err)

	require.Equal(t, []Lookahead{
		la("ADD", "INT"),
	}, first.OfSequence([]symbol.Symbol{sym("ADD"), sym("multiplication"), sym("MUL")}, 2).Values())
	require.Equal(t, []Lookahead{
		la("INT", "ADD"),
		la("INT", "MUL"),
	}, first.OfSequence([]symbol.Symbol{sym("multiplication"), sym("ADD")}, 2).Values())
	require.Equal(t, []Lookahead{la()}, first.OfSequence(nil, 2).Values())
}
