package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductionState_Advance(t *testing.T) {
	item := &ProductionState{
		Production: prod("addition", "addition", "ADD", "multiplication"),
		Position:   0,
		Lookaheads: NewLookaheadSet(la("INT")),
	}
	for i := 0; i < 3; i++ {
		require.False(t, item.IsCompleted())
		next, ok := item.NextSymbol()
		require.True(t, ok)
		require.Equal(t, item.Production.Symbols[i], next)
		item = item.Advance()
		require.Equal(t, i+1, item.Position)
	}
	require.True(t, item.IsCompleted())
	_, ok := item.NextSymbol()
	require.False(t, ok)
	require.Panics(t, func() {
		item.Advance()
	})
}

func TestParserState_AddProductionState(t *testing.T) {
	p := prod("number", "INT")
	s := NewParserState()

	require.True(t, s.AddProductionState(&ProductionState{
		Production: p,
		Lookaheads: NewLookaheadSet(la("ADD")),
	}))
	require.False(t, s.AddProductionState(&ProductionState{
		Production: p,
		Lookaheads: NewLookaheadSet(la("ADD")),
	}))
	require.True(t, s.AddProductionState(&ProductionState{
		Production: p,
		Lookaheads: NewLookaheadSet(la("MUL")),
	}))
	require.True(t, s.AddProductionState(&ProductionState{
		Production: p,
		Position:   1,
		Lookaheads: NewLookaheadSet(la("MUL")),
	}))

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, []Lookahead{la("ADD"), la("MUL")}, items[0].Lookaheads.Values())
	require.Equal(t, 1, items[1].Position)
}

func TestParserState_AdvanceBy(t *testing.T) {
	s := NewParserState()
	s.AddProductionState(&ProductionState{
		Production: prod("addition", "addition", "ADD", "multiplication"),
		Position:   1,
		Lookaheads: NewLookaheadSet(la("<eof>")),
	})
	s.AddProductionState(&ProductionState{
		Production: prod("multiplication", "multiplication", "MUL", "number"),
		Position:   1,
		Lookaheads: NewLookaheadSet(la("<eof>")),
	})

	next := s.AdvanceBy(sym("ADD"))
	items := next.Items()
	require.Len(t, items, 1)
	require.Equal(t, "addition", items[0].Production.Name)
	require.Equal(t, 2, items[0].Position)

	require.Panics(t, func() {
		s.AdvanceBy(sym("INT"))
	})
}

func TestConflicts(t *testing.T) {
	prodA := prod("number", "INT")
	prodB := prod("addition", "multiplication")
	tests := []struct {
		caption   string
		a         Action
		b         Action
		conflicts bool
	}{
		{
			caption:   "a shift and a reduce on the same lookahead",
			a:         &Shift{NextState: 0, Lookahead: la("INT")},
			b:         &Reduce{Production: prodA, Lookahead: la("INT")},
			conflicts: true,
		},
		{
			caption:   "identical shifts",
			a:         &Shift{NextState: 0, Lookahead: la("INT")},
			b:         &Shift{NextState: 0, Lookahead: la("INT")},
			conflicts: false,
		},
		{
			caption:   "shifts to different states on the same lookahead",
			a:         &Shift{NextState: 0, Lookahead: la("INT")},
			b:         &Shift{NextState: 1, Lookahead: la("INT")},
			conflicts: true,
		},
		{
			caption:   "shifts on different lookaheads",
			a:         &Shift{NextState: 0, Lookahead: la("INT")},
			b:         &Shift{NextState: 1, Lookahead: la("ADD")},
			conflicts: false,
		},
		{
			caption:   "reduces of different productions on the same lookahead",
			a:         &Reduce{Production: prodA, Lookahead: la("INT")},
			b:         &Reduce{Production: prodB, Lookahead: la("INT")},
			conflicts: true,
		},
		{
			caption:   "identical reduces",
			a:         &Reduce{Production: prodA, Lookahead: la("INT")},
			b:         &Reduce{Production: prod("number", "INT"), Lookahead: la("INT")},
			conflicts: false,
		},
		{
			caption:   "a shift and a reduce on lookaheads sharing only a prefix",
			a:         &Shift{NextState: 0, Lookahead: la("INT", "ADD")},
			b:         &Reduce{Production: prodA, Lookahead: la("INT", "MUL")},
			conflicts: false,
		},
		{
			caption:   "gotos to different states on the same symbol",
			a:         &Goto{NextState: 1, Symbol: sym("number")},
			b:         &Goto{NextState: 2, Symbol: sym("number")},
			conflicts: true,
		},
		{
			caption:   "gotos on different symbols",
			a:         &Goto{NextState: 1, Symbol: sym("number")},
			b:         &Goto{NextState: 1, Symbol: sym("addition")},
			conflicts: false,
		},
		{
			caption:   "a goto never conflicts with a shift",
			a:         &Goto{NextState: 1, Symbol: sym("number")},
			b:         &Shift{NextState: 1, Lookahead: la("INT")},
			conflicts: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			require.Equal(t, tt.conflicts, Conflicts(tt.a, tt.b))
			require.Equal(t, tt.conflicts, Conflicts(tt.b, tt.a))
		})
	}
}

func TestParserState_AddAction(t *testing.T) {
	s := NewParserState()
	s.AddProductionState(&ProductionState{
		Production: prod("number", "INT"),
		Position:   1,
		Lookaheads: NewLookaheadSet(la("INT")),
	})
	require.NoError(t, s.AddAction(&Shift{NextState: 0, Lookahead: la("INT")}))
	require.NoError(t, s.AddAction(&Shift{NextState: 0, Lookahead: la("INT")}))
	require.Len(t, s.Actions(), 1)

	reduce := &Reduce{Production: prod("number", "INT"), Lookahead: la("INT")}
	err := s.AddAction(reduce)
	require.Error(t, err)
	cerr, ok := err.(*ConflictError)
	require.True(t, ok, "unexpected error: %v (%T)", err, err)
	require.Equal(t, &Shift{NextState: 0, Lookahead: la("INT")}, cerr.Existing)
	require.Equal(t, reduce, cerr.Incoming)
	require.Contains(t, cerr.State, "number → INT ・")
	require.Contains(t, cerr.Error(), "shift/reduce conflict")
	require.Len(t, s.Actions(), 1)

	o := NewParserState()
	require.NoError(t, o.AddAction(&Shift{NextState: 1, Lookahead: la("ADD")}))
	grew, err := s.Merge(o)
	require.NoError(t, err)
	require.False(t, grew)
	require.Len(t, s.Actions(), 2)

	c := NewParserState()
	require.NoError(t, c.AddAction(reduce))
	_, err = s.Merge(c)
	require.Error(t, err)
}
