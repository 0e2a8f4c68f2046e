package grammar

import (
	"fmt"
	"io"

	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

type ParserType string

const (
	ParserTypeLR   = ParserType("lr")
	ParserTypeLALR = ParserType("lalr")
)

func (t ParserType) String() string {
	return string(t)
}

// StateComparator decides which parser states are merged into one. Two states are merged when their
// keys are equal.
type StateComparator interface {
	Key(state *ParserState) string
}

// LRComparator merges only states of identical items, lookaheads included.
type LRComparator struct{}

func (LRComparator) Key(state *ParserState) string {
	return state.fullKey()
}

// LALRComparator merges states of the same items regardless of their lookaheads.
type LALRComparator struct{}

func (LALRComparator) Key(state *ParserState) string {
	return state.coreKey()
}

func NewStateComparator(t ParserType) (StateComparator, error) {
	switch t {
	case ParserTypeLR:
		return LRComparator{}, nil
	case ParserTypeLALR:
		return LALRComparator{}, nil
	}
	return nil, &ValidationError{
		Cause:  semErrInvalidParserType,
		Detail: t.String(),
	}
}

// ParserTable is the state machine of an LR parser.
type ParserTable struct {
	States       []*ParserState
	InitialState int

	// Lookahead is the number of tokens the parser peeks at.
	Lookahead int

	// Productions lists the productions in ascending order. A production's index is its number.
	Productions []*Production
}

// GenerateParserTable builds a parser table. The comparator decides which states get merged; pass
// LRComparator for canonical LR(k) and LALRComparator for LALR(k). Invalid grammars yield
// *ValidationError, and grammars the parser cannot handle yield *ConflictError.
func GenerateParserTable(prods []*Production, comparator StateComparator, k int, opts ...Option) (*ParserTable, error) {
	config := newConfig(opts...)

	if k < 1 {
		return nil, &ValidationError{
			Cause:  semErrInvalidLookahead,
			Detail: fmt.Sprint(k),
		}
	}
	err := Validate(prods)
	if err != nil {
		return nil, err
	}
	ps := NewProductionSet(prods...)
	first, err := GenerateFirstSet(ps, k, opts...)
	if err != nil {
		return nil, err
	}

	b := &tableBuilder{
		prods:      ps,
		first:      first,
		k:          k,
		comparator: comparator,
		key2State:  map[string]int{},
		queued:     map[int]bool{},
		logger:     config.logger,
	}
	tab, err := b.build()
	if err != nil {
		return nil, err
	}
	config.logger.Debug("generated a parser table",
		zap.Int("k", k),
		zap.Int("states", len(tab.States)),
		zap.Int("productions", len(tab.Productions)))
	return tab, nil
}

type tableBuilder struct {
	prods      *ProductionSet
	first      *FirstSet
	k          int
	comparator StateComparator
	states     []*ParserState
	key2State  map[string]int
	queue      []int
	queued     map[int]bool
	logger     *zap.Logger
}

func (b *tableBuilder) build() (*ParserTable, error) {
	entry, ok := b.prods.Entry()
	if !ok {
		// Validate guarantees the entry production.
		panic(errors.New("no entry production"))
	}
	initial := NewParserState()
	initial.AddProductionState(&ProductionState{
		Production: entry,
		Position:   0,
		Lookaheads: NewLookaheadSet(eofLookahead(b.k)),
	})
	initial.close(b.prods, b.first, b.k)
	initialID := b.intern(initial)

	for len(b.queue) > 0 {
		id := b.queue[0]
		b.queue = b.queue[1:]
		b.queued[id] = false

		err := b.process(id)
		if err != nil {
			return nil, err
		}
	}

	return &ParserTable{
		States:       b.states,
		InitialState: initialID,
		Lookahead:    b.k,
		Productions:  b.prods.All(),
	}, nil
}

// intern returns the id of the state equal to a closed state according to the comparator. When the
// equal state gets new lookaheads from it, the state is processed again so that its successors receive
// them too.
func (b *tableBuilder) intern(state *ParserState) int {
	key := b.comparator.Key(state)
	if id, ok := b.key2State[key]; ok {
		if b.states[id].mergeItems(state) {
			b.states[id].close(b.prods, b.first, b.k)
			b.logger.Debug("merged lookaheads into a state", zap.Int("state", id))
			b.enqueue(id)
		}
		return id
	}
	id := len(b.states)
	b.states = append(b.states, state)
	b.key2State[key] = id
	b.enqueue(id)
	return id
}

func (b *tableBuilder) enqueue(id int) {
	if b.queued[id] {
		return
	}
	b.queued[id] = true
	b.queue = append(b.queue, id)
}

// process rebuilds the actions of a state from its items.
func (b *tableBuilder) process(id int) error {
	state := b.states[id]
	state.clearActions()

	for _, item := range state.Items() {
		if !item.IsCompleted() {
			continue
		}
		for _, l := range item.Lookaheads.Values() {
			err := state.AddAction(&Reduce{
				Production: item.Production,
				Lookahead:  l,
			})
			if err != nil {
				return err
			}
		}
	}

	for _, sym := range state.NextSymbols() {
		next := state.AdvanceBy(sym)
		next.close(b.prods, b.first, b.k)
		nextID := b.intern(next)

		if sym.IsNonTerminal() {
			err := state.AddAction(&Goto{
				NextState: nextID,
				Symbol:    sym,
			})
			if err != nil {
				return err
			}
			continue
		}

		for _, item := range state.Items() {
			if s, ok := item.NextSymbol(); !ok || s != sym {
				continue
			}
			follow := followOf(item.Production.Symbols[item.Position:], item.Lookaheads, b.first, b.k)
			for _, l := range follow.Values() {
				err := state.AddAction(&Shift{
					NextState: nextID,
					Lookahead: l,
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Action returns the shift or reduce a parser takes in a state when the input begins with lookahead.
func (t *ParserTable) Action(state int, lookahead Lookahead) (Action, bool) {
	for _, a := range t.States[state].Actions() {
		if l, ok := lookaheadOf(a); ok && l.Equal(lookahead) {
			return a, true
		}
	}
	return nil, false
}

// Goto returns the state a parser moves to after reducing a production of sym in a state.
func (t *ParserTable) Goto(state int, sym symbol.Symbol) (int, bool) {
	for _, a := range t.States[state].Actions() {
		if g, ok := a.(*Goto); ok && g.Symbol == sym {
			return g.NextState, true
		}
	}
	return 0, false
}

// ExpectedTerminals returns the first terminals of the lookaheads a state can act on.
func (t *ParserTable) ExpectedTerminals(state int) []symbol.Symbol {
	seen := map[symbol.Symbol]struct{}{}
	var syms []symbol.Symbol
	for _, a := range t.States[state].Actions() {
		l, ok := lookaheadOf(a)
		if !ok || len(l) == 0 {
			continue
		}
		if _, ok := seen[l[0]]; ok {
			continue
		}
		seen[l[0]] = struct{}{}
		syms = append(syms, l[0])
	}
	symbol.Sort(syms)
	return syms
}

// ProductionNum returns the index of a production in Productions.
func (t *ParserTable) ProductionNum(p *Production) (int, bool) {
	for i, q := range t.Productions {
		if q.Compare(p) == 0 {
			return i, true
		}
	}
	return 0, false
}

// Describe writes the productions and states in a readable format.
func (t *ParserTable) Describe(w io.Writer) {
	fmt.Fprintf(w, "# Productions\n\n")
	for i, p := range t.Productions {
		fmt.Fprintf(w, "%4v %v\n", i, p)
	}
	fmt.Fprintf(w, "\n# States (lookahead: %v, initial state: %v)\n", t.Lookahead, t.InitialState)
	for i, s := range t.States {
		fmt.Fprintf(w, "\n## State %v\n\n", i)
		fmt.Fprint(w, s)
	}
}
