package lexical

import (
	spec "github.com/nihei9/lrgen/spec/grammar"
)

// Spec returns the portable description of the DFA. Kinds are numbered in order of token definition
// and states in order of creation, both starting from 1.
func (a *LexerAutomaton) Spec() *spec.LexicalSpec {
	kindNames := []spec.LexKindName{spec.LexKindNameNil}
	ignore := []bool{false}
	name2Kind := map[string]spec.LexKindID{}
	for _, t := range a.Tokens {
		name2Kind[t] = spec.LexKindID(len(kindNames))
		kindNames = append(kindNames, spec.LexKindName(t))
		ignore = append(ignore, a.IsIgnored(t))
	}

	stateIDs := map[int]spec.StateID{}
	for i, s := range a.DFA.States() {
		stateIDs[int(s)] = spec.StateID(i) + spec.StateIDMin
	}
	states := make([]*spec.LexState, len(stateIDs)+spec.StateIDMin.Int())
	for _, s := range a.DFA.States() {
		st := &spec.LexState{}
		if token, ok := a.Accepting(s); ok {
			st.Accept = name2Kind[token]
		}
		for _, id := range a.DFA.Outgoing(s) {
			conn := a.DFA.Connection(id)
			var ranges []spec.CharRange
			for _, r := range conn.Value.Ranges() {
				ranges = append(ranges, spec.CharRange{
					From: r.From,
					To:   r.To,
				})
			}
			st.Transitions = append(st.Transitions, &spec.LexTransition{
				Ranges: ranges,
				Next:   stateIDs[int(conn.Target)],
			})
		}
		states[stateIDs[int(s)]] = st
	}

	return &spec.LexicalSpec{
		KindNames:    kindNames,
		Ignore:       ignore,
		InitialState: stateIDs[int(a.InitialState)],
		States:       states,
	}
}
