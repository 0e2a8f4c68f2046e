package automaton

import (
	"fmt"
	"io"
	"sort"

	"github.com/pingcap/errors"
)

type StateID int

type ConnectionID int

// ErrOutOfRange is the cause of errors reporting an id that doesn't name a live state or connection.
var ErrOutOfRange = errors.New("id out of range")

// Connection is a directed edge. A connection with a nil Value is an epsilon connection.
type Connection[C any] struct {
	Source StateID
	Target StateID
	Value  *C
}

func (c *Connection[C]) IsEpsilon() bool {
	return c.Value == nil
}

type stateEntry[S any] struct {
	value S
	live  bool
}

type connectionEntry[C any] struct {
	conn Connection[C]
	live bool
}

type statePair struct {
	source StateID
	target StateID
}

// Automaton is a directed graph whose states carry values of S and whose connections carry values of C.
// Removed ids are never reused.
type Automaton[S, C any] struct {
	states      []stateEntry[S]
	connections []connectionEntry[C]
	outgoing    map[StateID][]ConnectionID
	incoming    map[StateID][]ConnectionID
	pairs       map[statePair]int
	stateCount  int
	connCount   int
}

func New[S, C any]() *Automaton[S, C] {
	return &Automaton[S, C]{
		outgoing: map[StateID][]ConnectionID{},
		incoming: map[StateID][]ConnectionID{},
		pairs:    map[statePair]int{},
	}
}

func (a *Automaton[S, C]) AddState(v S) StateID {
	id := StateID(len(a.states))
	a.states = append(a.states, stateEntry[S]{
		value: v,
		live:  true,
	})
	a.stateCount++
	return id
}

// Contains reports whether id names a live state.
func (a *Automaton[S, C]) Contains(id StateID) bool {
	return id >= 0 && int(id) < len(a.states) && a.states[id].live
}

func (a *Automaton[S, C]) containsConnection(id ConnectionID) bool {
	return id >= 0 && int(id) < len(a.connections) && a.connections[id].live
}

// Connect adds a connection from src to dst. A nil value makes an epsilon connection.
func (a *Automaton[S, C]) Connect(src, dst StateID, value *C) (ConnectionID, error) {
	if !a.Contains(src) {
		return 0, errors.Annotatef(ErrOutOfRange, "source state %v", src)
	}
	if !a.Contains(dst) {
		return 0, errors.Annotatef(ErrOutOfRange, "target state %v", dst)
	}

	id := ConnectionID(len(a.connections))
	a.connections = append(a.connections, connectionEntry[C]{
		conn: Connection[C]{
			Source: src,
			Target: dst,
			Value:  value,
		},
		live: true,
	})
	a.outgoing[src] = append(a.outgoing[src], id)
	a.incoming[dst] = append(a.incoming[dst], id)
	a.pairs[statePair{source: src, target: dst}]++
	a.connCount++
	return id, nil
}

// mustConnect is Connect for states the caller has just created.
func (a *Automaton[S, C]) mustConnect(src, dst StateID, value *C) ConnectionID {
	id, err := a.Connect(src, dst, value)
	if err != nil {
		panic(err)
	}
	return id
}

func (a *Automaton[S, C]) AreConnected(src, dst StateID) bool {
	return a.pairs[statePair{source: src, target: dst}] > 0
}

func (a *Automaton[S, C]) HasOutgoingConnections(id StateID) bool {
	return len(a.outgoing[id]) > 0
}

func (a *Automaton[S, C]) HasIncomingConnections(id StateID) bool {
	return len(a.incoming[id]) > 0
}

// RemoveState removes a state and every connection from or to it.
func (a *Automaton[S, C]) RemoveState(id StateID) error {
	if !a.Contains(id) {
		return errors.Annotatef(ErrOutOfRange, "state %v", id)
	}
	var conns []ConnectionID
	conns = append(conns, a.outgoing[id]...)
	conns = append(conns, a.incoming[id]...)
	for _, c := range conns {
		if !a.containsConnection(c) {
			// A self-loop appears in both lists.
			continue
		}
		a.removeConnection(c)
	}
	delete(a.outgoing, id)
	delete(a.incoming, id)
	var zero S
	a.states[id] = stateEntry[S]{
		value: zero,
	}
	a.stateCount--
	return nil
}

func (a *Automaton[S, C]) RemoveConnection(id ConnectionID) error {
	if !a.containsConnection(id) {
		return errors.Annotatef(ErrOutOfRange, "connection %v", id)
	}
	a.removeConnection(id)
	return nil
}

func (a *Automaton[S, C]) removeConnection(id ConnectionID) {
	c := a.connections[id].conn
	a.outgoing[c.Source] = removeID(a.outgoing[c.Source], id)
	a.incoming[c.Target] = removeID(a.incoming[c.Target], id)
	p := statePair{source: c.Source, target: c.Target}
	a.pairs[p]--
	if a.pairs[p] <= 0 {
		delete(a.pairs, p)
	}
	a.connections[id] = connectionEntry[C]{}
	a.connCount--
}

func removeID(ids []ConnectionID, id ConnectionID) []ConnectionID {
	for i, e := range ids {
		if e == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// State returns the value of a live state. It panics when id doesn't name a live state.
func (a *Automaton[S, C]) State(id StateID) S {
	if !a.Contains(id) {
		panic(errors.Annotatef(ErrOutOfRange, "state %v", id))
	}
	return a.states[id].value
}

func (a *Automaton[S, C]) SetState(id StateID, v S) error {
	if !a.Contains(id) {
		return errors.Annotatef(ErrOutOfRange, "state %v", id)
	}
	a.states[id].value = v
	return nil
}

// Connection returns a live connection. It panics when id doesn't name a live connection.
func (a *Automaton[S, C]) Connection(id ConnectionID) Connection[C] {
	if !a.containsConnection(id) {
		panic(errors.Annotatef(ErrOutOfRange, "connection %v", id))
	}
	return a.connections[id].conn
}

// Outgoing returns the connections leaving a state in creation order.
func (a *Automaton[S, C]) Outgoing(id StateID) []ConnectionID {
	return append([]ConnectionID(nil), a.outgoing[id]...)
}

// Incoming returns the connections entering a state in creation order.
func (a *Automaton[S, C]) Incoming(id StateID) []ConnectionID {
	return append([]ConnectionID(nil), a.incoming[id]...)
}

// States returns the live states in ascending order.
func (a *Automaton[S, C]) States() []StateID {
	ids := make([]StateID, 0, a.stateCount)
	for i, s := range a.states {
		if s.live {
			ids = append(ids, StateID(i))
		}
	}
	return ids
}

// Connections returns the live connections in ascending order.
func (a *Automaton[S, C]) Connections() []ConnectionID {
	ids := make([]ConnectionID, 0, a.connCount)
	for i, c := range a.connections {
		if c.live {
			ids = append(ids, ConnectionID(i))
		}
	}
	return ids
}

func (a *Automaton[S, C]) StateCount() int {
	return a.stateCount
}

func (a *Automaton[S, C]) ConnectionCount() int {
	return a.connCount
}

// EpsilonClosure returns the states reachable from the given states through epsilon connections only,
// including the given states themselves. The result is sorted.
func (a *Automaton[S, C]) EpsilonClosure(ids ...StateID) []StateID {
	visited := map[StateID]struct{}{}
	stack := make([]StateID, 0, len(ids))
	for _, id := range ids {
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range a.outgoing[id] {
			conn := a.connections[c].conn
			if !conn.IsEpsilon() {
				continue
			}
			if _, ok := visited[conn.Target]; ok {
				continue
			}
			visited[conn.Target] = struct{}{}
			stack = append(stack, conn.Target)
		}
	}

	closure := make([]StateID, 0, len(visited))
	for id := range visited {
		closure = append(closure, id)
	}
	sort.Slice(closure, func(i, j int) bool {
		return closure[i] < closure[j]
	})
	return closure
}

// Describe writes the states and connections in a readable format.
func (a *Automaton[S, C]) Describe(w io.Writer) {
	for _, id := range a.States() {
		fmt.Fprintf(w, "state %v: %v\n", id, a.states[id].value)
		for _, c := range a.outgoing[id] {
			conn := a.connections[c].conn
			if conn.IsEpsilon() {
				fmt.Fprintf(w, "    ε -> %v\n", conn.Target)
				continue
			}
			fmt.Fprintf(w, "    %v -> %v\n", *conn.Value, conn.Target)
		}
	}
}
