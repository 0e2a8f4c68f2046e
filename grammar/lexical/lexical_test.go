package lexical

import (
	"strings"
	"testing"

	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/grammar/lexical/charset"
	"github.com/nihei9/lrgen/grammar/lexical/parser"
	"github.com/stretchr/testify/require"
)

func newDef(t *testing.T, name, pattern string) *TokenDefinition {
	t.Helper()
	d, err := NewTokenDefinition(name, pattern, nil, false)
	require.NoError(t, err)
	return d
}

func newDefWithPriority(t *testing.T, name, pattern string, priority int) *TokenDefinition {
	t.Helper()
	d, err := NewTokenDefinition(name, pattern, &priority, false)
	require.NoError(t, err)
	return d
}

// match runs the DFA over the whole input and returns the token accepted at its end.
func match(a *LexerAutomaton, input string) (string, bool) {
	s := a.InitialState
	for _, c := range input {
		next, ok := a.Transition(s, c)
		if !ok {
			return "", false
		}
		s = next
	}
	return a.Accepting(s)
}

func TestNewTokenDefinition(t *testing.T) {
	d, err := NewTokenDefinition("int", "int", nil, false)
	require.NoError(t, err)
	require.Equal(t, 6, d.Priority)

	p := 100
	d, err = NewTokenDefinition("ws", "[ \\t]+", &p, true)
	require.NoError(t, err)
	require.Equal(t, 100, d.Priority)
	require.True(t, d.Ignore)

	_, err = NewTokenDefinition("broken", "(a", nil, false)
	require.Error(t, err)
	perr, ok := err.(*parser.ParseError)
	require.True(t, ok, "unexpected error type: %T", err)
	require.Equal(t, parser.SynErrGroupUnclosed, perr.Cause)
}

func TestLexSpec_Validate(t *testing.T) {
	tests := []struct {
		caption string
		names   []string
		errMsg  string
	}{
		{
			caption: "a specification without definitions is invalid",
			names:   nil,
			errMsg:  "at least one token definition",
		},
		{
			caption: "duplicate names are invalid",
			names:   []string{"id", "num", "id"},
			errMsg:  "duplicates",
		},
		{
			caption: "the EOF name is reserved",
			names:   []string{"<eof>"},
			errMsg:  "reserved",
		},
		{
			caption: "the entry name is reserved",
			names:   []string{"$S"},
			errMsg:  "reserved",
		},
		{
			caption: "an empty name is reserved",
			names:   []string{""},
			errMsg:  "reserved",
		},
		{
			caption: "names spelled the same in UpperCamelCase are invalid",
			names:   []string{"left_paren", "LeftParen"},
			errMsg:  "left_paren",
		},
		{
			caption: "distinct names are valid",
			names:   []string{"id", "num", "left_paren"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			s := &LexSpec{}
			for _, n := range tt.names {
				s.Definitions = append(s.Definitions, newDef(t, n, "a"))
			}
			err := s.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestResolveConnectionCollisions(t *testing.T) {
	groups := ResolveConnectionCollisions(nil, *charset.NewSet(charset.NewRange('a', 'm')), 1)
	groups = ResolveConnectionCollisions(groups, *charset.NewSet(charset.NewRange('h', 'z')), 2)
	groups = ResolveConnectionCollisions(groups, *charset.NewSet(charset.NewRange('a', 'c')), 1)

	type group struct {
		ranges  []charset.Range
		targets []automaton.StateID
	}
	var got []group
	for _, g := range groups {
		got = append(got, group{
			ranges:  g.Value.Ranges(),
			targets: g.Targets,
		})
	}
	require.Equal(t, []group{
		{ranges: []charset.Range{charset.NewRange('a', 'g')}, targets: []automaton.StateID{1}},
		{ranges: []charset.Range{charset.NewRange('h', 'm')}, targets: []automaton.StateID{1, 2}},
		{ranges: []charset.Range{charset.NewRange('n', 'z')}, targets: []automaton.StateID{2}},
	}, got)
}

func TestMergeStatesByPriority(t *testing.T) {
	merge := MergeStatesByPriority(map[string]int{
		"if": 4,
		"id": 1,
		"kw": 4,
	})

	l, err := merge([]string{"", "", ""})
	require.NoError(t, err)
	require.Equal(t, "", l)

	l, err = merge([]string{"id", "", "if", "id"})
	require.NoError(t, err)
	require.Equal(t, "if", l)

	_, err = merge([]string{"kw", "id", "if"})
	require.Error(t, err)
	aerr, ok := err.(*AmbiguousPriorityError)
	require.True(t, ok, "unexpected error type: %T", err)
	require.Equal(t, []string{"if", "kw"}, aerr.Tokens)
	require.Equal(t, 4, aerr.Priority)
}

func TestGenerateDFA(t *testing.T) {
	ws := newDef(t, "ws", "[ \\t]+")
	ws.Ignore = true
	a, err := GenerateDFA([]*TokenDefinition{
		newDef(t, "int", "int"),
		newDef(t, "id", "[a-z][a-z0-9]*"),
		newDef(t, "num", "\\d+"),
		newDef(t, "float", "\\d+\\.\\d*"),
		newDef(t, "arrow", "->|=>"),
		newDef(t, "pair", "a{2,3}"),
		newDefWithPriority(t, "not_x", "[^x-z]", 0),
		ws,
	})
	require.NoError(t, err)

	tests := []struct {
		input string
		token string
	}{
		{input: "int", token: "int"},
		{input: "in", token: "id"},
		{input: "integer", token: "id"},
		{input: "x1", token: "id"},
		{input: "123", token: "num"},
		{input: "12.", token: "float"},
		{input: "12.5", token: "float"},
		{input: "->", token: "arrow"},
		{input: "=>", token: "arrow"},
		{input: "aa", token: "pair"},
		{input: "aaa", token: "pair"},
		{input: "aaaa", token: "id"},
		{input: " \t ", token: "ws"},
		{input: "#", token: "not_x"},
		{input: "\U0010FFFF", token: "not_x"},
		{input: "-", token: "not_x"},
		{input: ""},
		{input: "x", token: "id"},
		{input: "1a"},
		{input: "-->"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			token, ok := match(a, tt.input)
			if tt.token == "" {
				require.False(t, ok, "accepted as %v", token)
				return
			}
			require.True(t, ok)
			require.Equal(t, tt.token, token)
		})
	}

	require.True(t, a.IsIgnored("ws"))
	require.False(t, a.IsIgnored("id"))
	require.Equal(t, []string{"int", "id", "num", "float", "arrow", "pair", "not_x", "ws"}, a.Tokens)
}

func TestGenerateDFA_Deterministic(t *testing.T) {
	defs := func() []*TokenDefinition {
		return []*TokenDefinition{
			newDefWithPriority(t, "id", "[a-z]+", 1),
			newDefWithPriority(t, "if", "if", 4),
			newDefWithPriority(t, "any", ".", 0),
			newDefWithPriority(t, "alnum", "\\w+", 2),
		}
	}
	a, err := GenerateDFA(defs())
	require.NoError(t, err)

	for _, s := range a.DFA.States() {
		var sets []*charset.Set
		for _, id := range a.DFA.Outgoing(s) {
			sets = append(sets, a.DFA.Connection(id).Value)
		}
		for i := range sets {
			for j := i + 1; j < len(sets); j++ {
				require.True(t, sets[i].Intersect(sets[j]).IsEmpty(), "state %v: %v and %v overlap", s, sets[i], sets[j])
			}
		}
	}

	var dumps []string
	for i := 0; i < 3; i++ {
		a, err := GenerateDFA(defs())
		require.NoError(t, err)
		var b strings.Builder
		a.Describe(&b)
		dumps = append(dumps, b.String())
	}
	require.Equal(t, dumps[0], dumps[1])
	require.Equal(t, dumps[0], dumps[2])
}

func TestGenerateDFA_AmbiguousPriority(t *testing.T) {
	_, err := GenerateDFA([]*TokenDefinition{
		newDef(t, "id", "[a-z]+"),
		newDefWithPriority(t, "kw_a", "a", 5),
		newDefWithPriority(t, "kw_b", "[ab]", 5),
	})
	require.Error(t, err)
	aerr, ok := err.(*AmbiguousPriorityError)
	require.True(t, ok, "unexpected error type: %T", err)
	require.Equal(t, []string{"kw_a", "kw_b"}, aerr.Tokens)
	require.Equal(t, 5, aerr.Priority)
}

func TestGenerateDFA_InvalidSpec(t *testing.T) {
	_, err := GenerateDFA(nil)
	require.Error(t, err)

	_, err = GenerateDFA([]*TokenDefinition{
		newDef(t, "id", "a"),
		newDef(t, "id", "b"),
	})
	require.Error(t, err)
}
