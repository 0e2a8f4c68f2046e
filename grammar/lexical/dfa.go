package lexical

import (
	"fmt"
	"io"
	"sort"

	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/grammar/lexical/charset"
	"go.uber.org/zap"
)

// DFA is a deterministic automaton over code points. A state's value is the name of the token it
// accepts, or an empty string when it accepts nothing.
type DFA = automaton.Automaton[string, charset.Set]

// MergeStatesByPriority returns a merge function labelling a DFA state with the token of the highest
// priority among the labels of its NFA states. Tokens tied on the highest priority yield
// *AmbiguousPriorityError.
func MergeStatesByPriority(priorities map[string]int) automaton.MergeFunc[string, string] {
	return func(labels []string) (string, error) {
		var winners []string
		max := 0
		seen := map[string]struct{}{}
		for _, l := range labels {
			if l == "" {
				continue
			}
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}

			p, ok := priorities[l]
			if !ok {
				panic(fmt.Errorf("priority of token %v is unknown", l))
			}
			switch {
			case len(winners) == 0 || p > max:
				winners = []string{l}
				max = p
			case p == max:
				winners = append(winners, l)
			}
		}
		switch len(winners) {
		case 0:
			return "", nil
		case 1:
			return winners[0], nil
		}
		sort.Strings(winners)
		return "", &AmbiguousPriorityError{
			Tokens:   winners,
			Priority: max,
		}
	}
}

// ResolveConnectionCollisions places a connection into groups keeping their code point sets disjoint.
// The part of value overlapping a group leads to both the group's targets and target; the part
// overlapping no group becomes a new group.
func ResolveConnectionCollisions(groups []automaton.ConnectionGroup[charset.Set], value charset.Set, target automaton.StateID) []automaton.ConnectionGroup[charset.Set] {
	rest := value.Clone()
	resolved := make([]automaton.ConnectionGroup[charset.Set], 0, len(groups)+1)
	for _, g := range groups {
		overlap := g.Value.Intersect(rest)
		if overlap.IsEmpty() {
			resolved = append(resolved, g)
			continue
		}
		if hasTarget(g.Targets, target) {
			resolved = append(resolved, g)
			rest = rest.Subtract(overlap)
			continue
		}
		if remain := g.Value.Subtract(overlap); !remain.IsEmpty() {
			resolved = append(resolved, automaton.ConnectionGroup[charset.Set]{
				Value:   *remain,
				Targets: append([]automaton.StateID(nil), g.Targets...),
			})
		}
		resolved = append(resolved, automaton.ConnectionGroup[charset.Set]{
			Value:   *overlap,
			Targets: addTarget(g.Targets, target),
		})
		rest = rest.Subtract(overlap)
	}
	if !rest.IsEmpty() {
		resolved = append(resolved, automaton.ConnectionGroup[charset.Set]{
			Value:   *rest,
			Targets: []automaton.StateID{target},
		})
	}
	return resolved
}

func hasTarget(targets []automaton.StateID, target automaton.StateID) bool {
	for _, t := range targets {
		if t == target {
			return true
		}
	}
	return false
}

func addTarget(targets []automaton.StateID, target automaton.StateID) []automaton.StateID {
	ts := make([]automaton.StateID, 0, len(targets)+1)
	ts = append(ts, targets...)
	if hasTarget(targets, target) {
		return ts
	}
	return append(ts, target)
}

// LexerAutomaton is a DFA recognizing the tokens of a lexical specification.
type LexerAutomaton struct {
	DFA          *DFA
	InitialState automaton.StateID

	// Tokens lists the token names in order of definition.
	Tokens []string

	ignored map[string]struct{}
}

type lexicalConfig struct {
	logger *zap.Logger
}

type Option func(c *lexicalConfig)

func WithLogger(logger *zap.Logger) Option {
	return func(c *lexicalConfig) {
		c.logger = logger
	}
}

// GenerateDFA validates token definitions and compiles them into a DFA.
func GenerateDFA(defs []*TokenDefinition, opts ...Option) (*LexerAutomaton, error) {
	config := &lexicalConfig{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(config)
	}

	err := (&LexSpec{Definitions: defs}).Validate()
	if err != nil {
		return nil, err
	}

	nfa, root, err := BuildNFA(defs)
	if err != nil {
		return nil, err
	}
	config.logger.Debug("built an NFA",
		zap.Int("states", nfa.StateCount()),
		zap.Int("connections", nfa.ConnectionCount()))

	priorities := map[string]int{}
	ignored := map[string]struct{}{}
	tokens := make([]string, len(defs))
	for i, d := range defs {
		priorities[d.Name] = d.Priority
		tokens[i] = d.Name
		if d.Ignore {
			ignored[d.Name] = struct{}{}
		}
	}
	dfa, initial, err := automaton.ConvertToDFA(nfa, root, MergeStatesByPriority(priorities), ResolveConnectionCollisions)
	if err != nil {
		return nil, err
	}
	config.logger.Debug("converted the NFA into a DFA",
		zap.Int("states", dfa.StateCount()),
		zap.Int("connections", dfa.ConnectionCount()))

	return &LexerAutomaton{
		DFA:          dfa,
		InitialState: initial,
		Tokens:       tokens,
		ignored:      ignored,
	}, nil
}

// Accepting returns the token a state accepts.
func (a *LexerAutomaton) Accepting(state automaton.StateID) (string, bool) {
	name := a.DFA.State(state)
	return name, name != ""
}

func (a *LexerAutomaton) IsIgnored(token string) bool {
	_, ok := a.ignored[token]
	return ok
}

// Transition returns the state the DFA moves to from state on reading c.
func (a *LexerAutomaton) Transition(state automaton.StateID, c rune) (automaton.StateID, bool) {
	for _, id := range a.DFA.Outgoing(state) {
		conn := a.DFA.Connection(id)
		if conn.Value.Contains(c) {
			return conn.Target, true
		}
	}
	return 0, false
}

// Describe writes the states and transitions of the DFA in a readable format.
func (a *LexerAutomaton) Describe(w io.Writer) {
	fmt.Fprintf(w, "# Lexer DFA\n\n")
	fmt.Fprintf(w, "initial state: %v\n", a.InitialState)
	var ignored []string
	for _, t := range a.Tokens {
		if a.IsIgnored(t) {
			ignored = append(ignored, t)
		}
	}
	if len(ignored) > 0 {
		fmt.Fprintf(w, "ignored tokens: %v\n", ignored)
	}
	fmt.Fprintf(w, "\n")
	for _, s := range a.DFA.States() {
		if token, ok := a.Accepting(s); ok {
			fmt.Fprintf(w, "state %v (accept %v)\n", s, token)
		} else {
			fmt.Fprintf(w, "state %v\n", s)
		}
		for _, id := range a.DFA.Outgoing(s) {
			conn := a.DFA.Connection(id)
			fmt.Fprintf(w, "    %v -> %v\n", conn.Value, conn.Target)
		}
	}
}
