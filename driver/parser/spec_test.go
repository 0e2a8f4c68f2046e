package parser

import (
	"testing"

	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/stretchr/testify/require"
)

func TestGrammar_ExpectedTerminals(t *testing.T) {
	g := NewGrammar(&spec.CompiledGrammar{
		Syntactic: &spec.SyntacticSpec{
			Lookahead: 2,
			States: []*spec.ParserState{
				{
					Shift: []*spec.ShiftEntry{
						{Lookahead: []int{4, 2}, State: 1},
						{Lookahead: []int{3, 1}, State: 2},
					},
					Reduce: []*spec.ReduceEntry{
						{Lookahead: []int{1, 1}, Production: 1},
						{Lookahead: []int{4, 1}, Production: 2},
						{Lookahead: []int{2, 3}, Production: 2},
					},
				},
			},
		},
	})
	require.Equal(t, []int{1, 2, 3, 4}, g.ExpectedTerminals(0))
}
