package grammar

import (
	"fmt"

	"github.com/nihei9/lrgen/grammar/symbol"
)

// Action is what a parser does in a state. The set of implementations is closed: *Goto, *Shift, and
// *Reduce.
type Action interface {
	fmt.Stringer
	action()
}

var (
	_ Action = &Goto{}
	_ Action = &Shift{}
	_ Action = &Reduce{}
)

// Goto moves a parser to NextState after it reduces a production of Symbol.
type Goto struct {
	NextState int
	Symbol    symbol.Symbol
}

func (a *Goto) action() {}

func (a *Goto) String() string {
	return fmt.Sprintf("goto %v on %v", a.NextState, a.Symbol)
}

// Shift consumes a token and moves a parser to NextState when the input begins with Lookahead.
type Shift struct {
	NextState int
	Lookahead Lookahead
}

func (a *Shift) action() {}

func (a *Shift) String() string {
	return fmt.Sprintf("shift %v on %v", a.NextState, a.Lookahead)
}

// Reduce reduces Production when the input begins with Lookahead. Reducing the entry production
// accepts the input.
type Reduce struct {
	Production *Production
	Lookahead  Lookahead
}

func (a *Reduce) action() {}

func (a *Reduce) IsAccept() bool {
	return a.Production.IsEntry()
}

func (a *Reduce) String() string {
	if a.IsAccept() {
		return fmt.Sprintf("accept on %v", a.Lookahead)
	}
	return fmt.Sprintf("reduce %v on %v", a.Production, a.Lookahead)
}

// lookaheadOf returns the lookahead of a Shift or a Reduce.
func lookaheadOf(a Action) (Lookahead, bool) {
	switch a := a.(type) {
	case *Shift:
		return a.Lookahead, true
	case *Reduce:
		return a.Lookahead, true
	}
	return nil, false
}

func sameAction(a, b Action) bool {
	switch a := a.(type) {
	case *Goto:
		b, ok := b.(*Goto)
		return ok && a.NextState == b.NextState && a.Symbol == b.Symbol
	case *Shift:
		b, ok := b.(*Shift)
		return ok && a.NextState == b.NextState && a.Lookahead.Equal(b.Lookahead)
	case *Reduce:
		b, ok := b.(*Reduce)
		return ok && a.Production.Compare(b.Production) == 0 && a.Lookahead.Equal(b.Lookahead)
	}
	panic(fmt.Errorf("unknown action type: %T", a))
}

// Conflicts reports whether a parser cannot take both a and b in one state. Shifts and reduces conflict
// when they differ and share a lookahead. Gotos conflict when they go to different states on the same
// symbol.
func Conflicts(a, b Action) bool {
	if sameAction(a, b) {
		return false
	}
	if ga, ok := a.(*Goto); ok {
		gb, ok := b.(*Goto)
		return ok && ga.Symbol == gb.Symbol
	}
	la, ok := lookaheadOf(a)
	if !ok {
		return false
	}
	lb, ok := lookaheadOf(b)
	if !ok {
		return false
	}
	return la.Equal(lb)
}

// ConflictError reports a state where a parser could take either of two actions.
type ConflictError struct {
	Existing Action
	Incoming Action

	// State is a dump of the state's items and actions.
	State string
}

func (e *ConflictError) Error() string {
	kind := "shift/reduce"
	_, es := e.Existing.(*Shift)
	_, is := e.Incoming.(*Shift)
	switch {
	case es && is:
		kind = "shift/shift"
	case !es && !is:
		if _, ok := e.Existing.(*Goto); ok {
			kind = "goto/goto"
		} else {
			kind = "reduce/reduce"
		}
	}
	return fmt.Sprintf("%v conflict; %v vs %v\n%v", kind, e.Existing, e.Incoming, e.State)
}
