package lexer

import (
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar/lexical"
	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/stretchr/testify/require"
)

type tokenDef struct {
	name    string
	pattern string
	ignore  bool
}

func compile(t *testing.T, defs ...tokenDef) *spec.LexicalSpec {
	t.Helper()

	var ds []*lexical.TokenDefinition
	for _, d := range defs {
		def, err := lexical.NewTokenDefinition(d.name, d.pattern, nil, d.ignore)
		require.NoError(t, err)
		ds = append(ds, def)
	}
	a, err := lexical.GenerateDFA(ds)
	require.NoError(t, err)
	return a.Spec()
}

type wantToken struct {
	kind    string
	lexeme  string
	eof     bool
	invalid bool
}

func TestLexer_Next(t *testing.T) {
	tests := []struct {
		caption string
		defs    []tokenDef
		src     string
		tokens  []wantToken
	}{
		{
			caption: "the longest match wins",
			defs: []tokenDef{
				{name: "eq", pattern: "="},
				{name: "eqeq", pattern: "=="},
			},
			src: "===",
			tokens: []wantToken{
				{kind: "eqeq", lexeme: "=="},
				{kind: "eq", lexeme: "="},
				{eof: true},
			},
		},
		{
			caption: "a keyword beats an identifier by priority",
			defs: []tokenDef{
				{name: "kw_if", pattern: "if"},
				{name: "id", pattern: "[a-z]+"},
				{name: "ws", pattern: " +", ignore: true},
			},
			src: "if iffy i",
			tokens: []wantToken{
				{kind: "kw_if", lexeme: "if"},
				{kind: "ws", lexeme: " "},
				{kind: "id", lexeme: "iffy"},
				{kind: "ws", lexeme: " "},
				{kind: "id", lexeme: "i"},
				{eof: true},
			},
		},
		{
			caption: "the lexer falls back to the last accepted position",
			defs: []tokenDef{
				{name: "a", pattern: "a"},
				{name: "abc", pattern: "abc"},
			},
			src: "aba",
			tokens: []wantToken{
				{kind: "a", lexeme: "a"},
				{invalid: true, lexeme: "b"},
				{kind: "a", lexeme: "a"},
				{eof: true},
			},
		},
		{
			caption: "consecutive invalid code points make one invalid token",
			defs: []tokenDef{
				{name: "digit", pattern: "[0-9]"},
			},
			src: "1あい2",
			tokens: []wantToken{
				{kind: "digit", lexeme: "1"},
				{invalid: true, lexeme: "あい"},
				{kind: "digit", lexeme: "2"},
				{eof: true},
			},
		},
		{
			caption: "an unfinished token at the end of input is invalid",
			defs: []tokenDef{
				{name: "abc", pattern: "abc"},
			},
			src: "abcab",
			tokens: []wantToken{
				{kind: "abc", lexeme: "abc"},
				{invalid: true, lexeme: "ab"},
				{eof: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			s := NewLexSpec(compile(t, tt.defs...))
			l, err := NewLexer(s, strings.NewReader(tt.src))
			require.NoError(t, err)
			for _, want := range tt.tokens {
				tok, err := l.Next()
				require.NoError(t, err)
				require.Equal(t, want.eof, tok.EOF, "token: %+v", tok)
				require.Equal(t, want.invalid, tok.Invalid, "token: %+v", tok)
				require.Equal(t, want.lexeme, string(tok.Lexeme))
				if want.kind != "" {
					require.Equal(t, want.kind, s.KindName(tok.KindID))
					require.Equal(t, want.kind == "ws", s.Ignore(tok.KindID))
				}
			}
		})
	}
}

func TestLexer_Next_WithPosition(t *testing.T) {
	s := NewLexSpec(compile(t,
		tokenDef{name: "newline", pattern: "\\n+"},
		tokenDef{name: "any", pattern: "."},
	))
	l, err := NewLexer(s, strings.NewReader("aあ\n😀\n\n\nb"))
	require.NoError(t, err)

	type pos struct {
		row, col, bytePos, byteLen int
	}
	expected := []pos{
		{0, 0, 0, 1},
		{0, 1, 1, 3},
		{0, 2, 4, 1},
		{1, 0, 5, 4},
		// A token spanning lines is positioned where it begins.
		{1, 1, 9, 3},
		{4, 0, 12, 1},
		{4, 1, 13, 0},
	}
	for _, want := range expected {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, want, pos{tok.Row, tok.Col, tok.BytePos, tok.ByteLen}, "token: %+v", tok)
	}
}
