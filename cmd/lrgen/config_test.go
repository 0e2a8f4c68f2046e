package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestConfig_Load(t *testing.T) {
	path := writeFile(t, "lrgen.toml", `
lookahead = 2
parser_type = "lr"
log_level = "debug"
output = "out"
`)
	c := NewConfig()
	require.NoError(t, c.Load(path))
	require.Equal(t, &Config{
		Lookahead:  2,
		ParserType: "lr",
		LogLevel:   "debug",
		Output:     "out",
	}, c)
}

func TestConfig_Load_Error(t *testing.T) {
	tests := []struct {
		caption string
		content string
	}{
		{
			caption: "an unknown key",
			content: `lookahed = 2`,
		},
		{
			caption: "a type mismatch",
			content: `lookahead = "2"`,
		},
		{
			caption: "a malformed file",
			content: `lookahead =`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			path := writeFile(t, "lrgen.toml", tt.content)
			require.Error(t, NewConfig().Load(path))
		})
	}
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	require.NoError(t, err)
	_, err = newLogger("loud")
	require.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	g, err := readGrammar(strings.NewReader(arithGrammar), "arith.json", "")
	require.NoError(t, err)
	c, err := grammar.Build(g, NewConfig().grammarOptions()...)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeReport(&b, c.Report()))
	s := b.String()
	require.Contains(t, s, "lalr(1)")
	require.Regexp(t, `(?m)^ +\d+ expr → expr ADD INT #add$`, s)
	require.Contains(t, s, "$S → ・ expr, {[<eof>]}")
	require.Contains(t, s, "## State 0")
}
