package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// ProductionState is an LR item: a production, a position within its right-hand side, and the
// lookaheads that may follow once the production is reduced.
type ProductionState struct {
	Production *Production
	Position   int
	Lookaheads *LookaheadSet
}

func (s *ProductionState) IsCompleted() bool {
	return s.Position >= len(s.Production.Symbols)
}

// NextSymbol returns the symbol right after the position.
func (s *ProductionState) NextSymbol() (symbol.Symbol, bool) {
	if s.IsCompleted() {
		return symbol.Symbol{}, false
	}
	return s.Production.Symbols[s.Position], true
}

// Advance returns the item moved past the next symbol. Callers must check IsCompleted first.
func (s *ProductionState) Advance() *ProductionState {
	if s.IsCompleted() {
		panic(fmt.Errorf("cannot advance a completed item: %v", s))
	}
	return &ProductionState{
		Production: s.Production,
		Position:   s.Position + 1,
		Lookaheads: s.Lookaheads.Clone(),
	}
}

// core returns the item without lookaheads.
func (s *ProductionState) core() itemCore {
	return itemCore{
		production: s.Production,
		position:   s.Position,
	}
}

func (s *ProductionState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", s.Production.Name)
	for i, sym := range s.Production.Symbols {
		if i == s.Position {
			fmt.Fprint(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", sym)
	}
	if s.IsCompleted() {
		fmt.Fprint(&b, " ・")
	}
	fmt.Fprintf(&b, ", %v", s.Lookaheads)
	return b.String()
}

type itemCore struct {
	production *Production
	position   int
}

func compareItemCores(a, b interface{}) int {
	x := a.(itemCore)
	y := b.(itemCore)
	if c := x.production.Compare(y.production); c != 0 {
		return c
	}
	return x.position - y.position
}

// ParserState is a set of items together with the actions a parser takes in the state.
type ParserState struct {
	items   *treemap.Map
	actions []Action
}

func NewParserState() *ParserState {
	return &ParserState{
		items: treemap.NewWith(compareItemCores),
	}
}

// AddProductionState inserts an item. When the state already has an item of the same production and
// position, the lookaheads are merged into it instead. It reports whether the state grew.
func (s *ParserState) AddProductionState(item *ProductionState) bool {
	if v, found := s.items.Get(item.core()); found {
		return v.(*ProductionState).Lookaheads.Merge(item.Lookaheads)
	}
	s.items.Put(item.core(), &ProductionState{
		Production: item.Production,
		Position:   item.Position,
		Lookaheads: item.Lookaheads.Clone(),
	})
	return true
}

// Items returns the items in ascending order of production and position.
func (s *ParserState) Items() []*ProductionState {
	items := make([]*ProductionState, 0, s.items.Size())
	for _, v := range s.items.Values() {
		items = append(items, v.(*ProductionState))
	}
	return items
}

// NextSymbols returns the symbols following the positions of the items, in ascending order.
func (s *ParserState) NextSymbols() []symbol.Symbol {
	seen := map[symbol.Symbol]struct{}{}
	var syms []symbol.Symbol
	for _, item := range s.Items() {
		sym, ok := item.NextSymbol()
		if !ok {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		syms = append(syms, sym)
	}
	symbol.Sort(syms)
	return syms
}

// AdvanceBy returns a state of the items whose next symbol is sym, advanced past it. It panics when no
// item's next symbol is sym.
func (s *ParserState) AdvanceBy(sym symbol.Symbol) *ParserState {
	next := NewParserState()
	for _, item := range s.Items() {
		if n, ok := item.NextSymbol(); !ok || n != sym {
			continue
		}
		next.AddProductionState(item.Advance())
	}
	if next.items.Size() == 0 {
		panic(fmt.Errorf("no item can advance by %v:\n%v", sym, s))
	}
	return next
}

// close adds the items derived from non-terminals following the positions until nothing grows.
func (s *ParserState) close(prods *ProductionSet, first *FirstSet, k int) {
	for {
		grew := false
		for _, sym := range s.NextSymbols() {
			if !sym.IsNonTerminal() {
				continue
			}
			follow := FollowTerminals(sym, s, first, k)
			for _, p := range prods.Find(sym.Name) {
				if s.AddProductionState(&ProductionState{
					Production: p,
					Position:   0,
					Lookaheads: follow,
				}) {
					grew = true
				}
			}
		}
		if !grew {
			return
		}
	}
}

// mergeItems merges the lookaheads of t's items into s's items and reports whether s grew.
func (s *ParserState) mergeItems(t *ParserState) bool {
	grew := false
	for _, item := range t.Items() {
		if s.AddProductionState(item) {
			grew = true
		}
	}
	return grew
}

// Actions returns the actions in order of insertion.
func (s *ParserState) Actions() []Action {
	return s.actions
}

// AddAction inserts an action. An action identical to an existing one is ignored, and an action
// conflicting with an existing one yields *ConflictError.
func (s *ParserState) AddAction(a Action) error {
	for _, e := range s.actions {
		if sameAction(e, a) {
			return nil
		}
		if Conflicts(e, a) {
			return &ConflictError{
				Existing: e,
				Incoming: a,
				State:    s.String(),
			}
		}
	}
	s.actions = append(s.actions, a)
	return nil
}

// Merge merges the items and actions of t into s. It reports whether the items of s grew.
func (s *ParserState) Merge(t *ParserState) (bool, error) {
	grew := s.mergeItems(t)
	for _, a := range t.actions {
		if err := s.AddAction(a); err != nil {
			return grew, err
		}
	}
	return grew, nil
}

func (s *ParserState) clearActions() {
	s.actions = nil
}

func (s *ParserState) String() string {
	var b strings.Builder
	fmt.Fprintln(&b, "items:")
	for _, item := range s.Items() {
		fmt.Fprintf(&b, "    %v\n", item)
	}
	fmt.Fprintln(&b, "actions:")
	acts := make([]string, len(s.actions))
	for i, a := range s.actions {
		acts[i] = a.String()
	}
	sort.Strings(acts)
	for _, a := range acts {
		fmt.Fprintf(&b, "    %v\n", a)
	}
	return b.String()
}

// coreKey identifies the items of a state regardless of their lookaheads.
func (s *ParserState) coreKey() string {
	var b strings.Builder
	for _, item := range s.Items() {
		fmt.Fprintf(&b, "%v|%v;", productionKey(item.Production), item.Position)
	}
	return b.String()
}

// fullKey identifies the items of a state including their lookaheads.
func (s *ParserState) fullKey() string {
	var b strings.Builder
	for _, item := range s.Items() {
		fmt.Fprintf(&b, "%v|%v|%v;", productionKey(item.Production), item.Position, item.Lookaheads)
	}
	return b.String()
}

// productionKey distinguishes terminals from non-terminals of the same name.
func productionKey(p *Production) string {
	var b strings.Builder
	fmt.Fprint(&b, p.Name)
	for _, sym := range p.Symbols {
		if sym.IsTerminal() {
			fmt.Fprintf(&b, " t:%v", sym.Name)
		} else {
			fmt.Fprintf(&b, " n:%v", sym.Name)
		}
	}
	return b.String()
}
