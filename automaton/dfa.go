package automaton

import (
	"fmt"
	"strings"
)

// MergeFunc folds the values of the NFA states that make up one DFA state into the DFA state's value.
// The values are passed in ascending order of their NFA state ids.
type MergeFunc[S, M any] func(values []S) (M, error)

// ConnectionGroup is a connection value of a DFA state together with the NFA states it leads to.
type ConnectionGroup[C any] struct {
	Value   C
	Targets []StateID
}

// CollisionFunc places a connection (value, target) into groups. Values of the returned groups must be
// pairwise disjoint so that the resulting automaton is deterministic.
type CollisionFunc[C any] func(groups []ConnectionGroup[C], value C, target StateID) []ConnectionGroup[C]

// ConvertToDFA runs the subset construction on a starting at root. Each DFA state stands for the
// epsilon closure of a set of NFA states; two DFA states never stand for the same set. Outgoing
// connections are visited in ascending order of ids, so the result is the same on every run.
func ConvertToDFA[S, C, M any](a *Automaton[S, C], root StateID, merge MergeFunc[S, M], collide CollisionFunc[C]) (*Automaton[M, C], StateID, error) {
	if !a.Contains(root) {
		panic(fmt.Errorf("root state %v is not in the automaton", root))
	}

	dfa := New[M, C]()
	key2ID := map[string]StateID{}
	type unmarked struct {
		id      StateID
		closure []StateID
	}
	var queue []unmarked

	addState := func(closure []StateID) (StateID, error) {
		key := closureKey(closure)
		if id, ok := key2ID[key]; ok {
			return id, nil
		}
		vals := make([]S, len(closure))
		for i, s := range closure {
			vals[i] = a.State(s)
		}
		v, err := merge(vals)
		if err != nil {
			return 0, err
		}
		id := dfa.AddState(v)
		key2ID[key] = id
		queue = append(queue, unmarked{
			id:      id,
			closure: closure,
		})
		return id, nil
	}

	initial, err := addState(a.EpsilonClosure(root))
	if err != nil {
		return nil, 0, err
	}
	for len(queue) > 0 {
		st := queue[0]
		queue = queue[1:]

		var groups []ConnectionGroup[C]
		for _, s := range st.closure {
			for _, c := range a.outgoing[s] {
				conn := a.connections[c].conn
				if conn.IsEpsilon() {
					continue
				}
				groups = collide(groups, *conn.Value, conn.Target)
			}
		}
		for _, g := range groups {
			if len(g.Targets) == 0 {
				continue
			}
			next, err := addState(a.EpsilonClosure(g.Targets...))
			if err != nil {
				return nil, 0, err
			}
			v := g.Value
			dfa.mustConnect(st.id, next, &v)
		}
	}

	return dfa, initial, nil
}

func closureKey(closure []StateID) string {
	var b strings.Builder
	for i, s := range closure {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprint(&b, int(s))
	}
	return b.String()
}
