package grammar

import (
	"testing"

	"github.com/nihei9/lrgen/grammar/lexical"
	"github.com/nihei9/lrgen/grammar/symbol"
	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tokenDef struct {
	name    string
	pattern string
	ignore  bool
}

func lexSpec(t *testing.T, defs ...tokenDef) *lexical.LexSpec {
	t.Helper()

	s := &lexical.LexSpec{}
	for _, d := range defs {
		def, err := NewTokenDefinition(d.name, d.pattern, nil, d.ignore)
		require.NoError(t, err)
		s.Definitions = append(s.Definitions, def)
	}
	return s
}

func arithmeticTokens(t *testing.T) *lexical.LexSpec {
	return lexSpec(t,
		tokenDef{name: "INT", pattern: "[0-9]+"},
		tokenDef{name: "ADD", pattern: "\\+"},
		tokenDef{name: "MUL", pattern: "\\*"},
		tokenDef{name: "WS", pattern: "[ \\t]+", ignore: true},
	)
}

func TestBuild(t *testing.T) {
	g := &Grammar{
		Name:        "arith",
		LexSpec:     arithmeticTokens(t),
		Productions: arithmeticGrammar(),
	}
	c, err := Build(g, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	require.Equal(t, "arith", c.Name)
	require.Equal(t, ParserTypeLALR, c.ParserType)
	require.Equal(t, []string{"INT", "ADD", "MUL", "WS"}, c.Lexer.Tokens)
	require.True(t, c.Lexer.IsIgnored("WS"))
	require.Equal(t, 1, c.Parser.Lookahead)

	s := c.Spec()
	require.Equal(t, "arith", s.Name)

	lex := s.Lexical
	require.Equal(t, []spec.LexKindName{"", "INT", "ADD", "MUL", "WS"}, lex.KindNames)
	require.Equal(t, []bool{false, false, false, false, true}, lex.Ignore)
	require.Nil(t, lex.States[spec.StateIDNil])
	require.Equal(t, c.Lexer.DFA.StateCount()+1, len(lex.States))
	initial := lex.States[lex.InitialState]
	require.Equal(t, spec.LexKindIDNil, initial.Accept)
	require.Len(t, initial.Transitions, 4)

	syn := s.Syntactic
	require.Equal(t, "lalr", syn.ParserType)
	require.Equal(t, []string{"", "<eof>", "INT", "ADD", "MUL"}, syn.Terminals)
	require.Equal(t, []string{"", "$S", "addition", "multiplication", "number"}, syn.NonTerminals)
	require.Equal(t, []int{0, 2, 3, 4, 0}, syn.KindToTerminal)
	require.Equal(t, 1, syn.EOFSymbol)
	require.Equal(t, 0, syn.StartProduction)
	require.Equal(t, []int{1, 2, 2, 3, 3, 4}, syn.LHSSymbols)
	require.Equal(t, []int{1, 3, 1, 3, 1, 1}, syn.AlternativeSymbolCounts)
	require.Len(t, syn.States, len(c.Parser.States))

	r := c.Report()
	require.Len(t, r.Terminals, 4)
	require.Len(t, r.NonTerminals, 4)
	require.Len(t, r.Productions, 6)
	require.Equal(t, []int{-2, 3, -3}, r.Productions[1].RHS)
	require.Len(t, r.States, len(c.Parser.States))
}

func TestCompile_Options(t *testing.T) {
	g := &Grammar{
		Name: "lr2",
		LexSpec: lexSpec(t,
			tokenDef{name: "W", pattern: "w"},
			tokenDef{name: "X", pattern: "x"},
			tokenDef{name: "Y", pattern: "y"},
			tokenDef{name: "Z", pattern: "z"},
		),
		Productions: lr2Grammar(),
	}

	_, err := Compile(g)
	require.Error(t, err)
	_, ok := err.(*ConflictError)
	require.True(t, ok, "unexpected error: %v (%T)", err, err)

	s, err := Compile(g, WithParserType(ParserTypeLR), WithLookahead(2))
	require.NoError(t, err)
	require.Equal(t, "lr", s.Syntactic.ParserType)
	require.Equal(t, 2, s.Syntactic.Lookahead)
	for _, st := range s.Syntactic.States {
		for _, e := range st.Shift {
			require.Len(t, e.Lookahead, 2)
		}
		for _, e := range st.Reduce {
			require.Len(t, e.Lookahead, 2)
		}
	}
}

func TestBuild_Error(t *testing.T) {
	tests := []struct {
		caption string
		grammar func(t *testing.T) *Grammar
		opts    []Option
		cause   error
	}{
		{
			caption: "an unknown parser type",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					LexSpec:     arithmeticTokens(t),
					Productions: arithmeticGrammar(),
				}
			},
			opts:  []Option{WithParserType("slr")},
			cause: semErrInvalidParserType,
		},
		{
			caption: "an invalid lookahead",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					LexSpec:     arithmeticTokens(t),
					Productions: arithmeticGrammar(),
				}
			},
			opts:  []Option{WithLookahead(0)},
			cause: semErrInvalidLookahead,
		},
		{
			caption: "no lexical specification",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					Productions: arithmeticGrammar(),
				}
			},
			cause: semErrInvalidLexicalSpec,
		},
		{
			caption: "a terminal without a token definition",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					LexSpec: lexSpec(t,
						tokenDef{name: "INT", pattern: "[0-9]+"},
						tokenDef{name: "ADD", pattern: "\\+"},
					),
					Productions: arithmeticGrammar(),
				}
			},
			cause: semErrUndefinedSym,
		},
		{
			caption: "an ignored token used as a terminal",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					LexSpec: lexSpec(t,
						tokenDef{name: "INT", pattern: "[0-9]+"},
						tokenDef{name: "ADD", pattern: "\\+"},
						tokenDef{name: "MUL", pattern: "\\*", ignore: true},
					),
					Productions: arithmeticGrammar(),
				}
			},
			cause: semErrTermCannotBeSkipped,
		},
		{
			caption: "a token no production uses",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					LexSpec: lexSpec(t,
						tokenDef{name: "INT", pattern: "[0-9]+"},
						tokenDef{name: "ADD", pattern: "\\+"},
						tokenDef{name: "SUB", pattern: "-"},
						tokenDef{name: "MUL", pattern: "\\*"},
					),
					Productions: arithmeticGrammar(),
				}
			},
			cause: semErrUnusedTerminal,
		},
		{
			caption: "a production unreachable from the entry production",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					LexSpec: arithmeticTokens(t),
					Productions: append(arithmeticGrammar(),
						prod("orphan", "INT"),
					),
				}
			},
			cause: semErrUnusedProduction,
		},
		{
			caption: "tokens matching the same string with the same priority",
			grammar: func(t *testing.T) *Grammar {
				return &Grammar{
					LexSpec: lexSpec(t,
						tokenDef{name: "A", pattern: "a"},
						tokenDef{name: "B", pattern: "[a]"},
					),
					Productions: []*Production{
						prod("$S", "A", "B"),
					},
				}
			},
			cause: semErrAmbiguousPriority,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Build(tt.grammar(t), tt.opts...)
			requireValidationError(t, err, tt.cause)
		})
	}
}

func TestBuild_InvalidLexicalSpec(t *testing.T) {
	g := &Grammar{
		LexSpec: lexSpec(t,
			tokenDef{name: "A", pattern: "a"},
			tokenDef{name: "A_B", pattern: "b"},
			tokenDef{name: "a_b", pattern: "c"},
		),
		Productions: []*Production{
			NewProduction("$S", symbol.Terminal("A"), symbol.Terminal("A_B"), symbol.Terminal("a_b")),
		},
	}

	_, err := Build(g)
	verr := requireValidationError(t, err, semErrInvalidLexicalSpec)
	require.Contains(t, verr.Detail, "A_B")
}

func TestNewTokenDefinition_InvalidPattern(t *testing.T) {
	_, err := NewTokenDefinition("broken", "(a", nil, false)
	verr := requireValidationError(t, err, semErrInvalidTokenPattern)
	require.Contains(t, verr.Detail, "broken")
}
