package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/lrgen/grammar/symbol"
	"github.com/stretchr/testify/require"
)

// sym makes a terminal of an upper-case name, and a non-terminal otherwise.
func sym(name string) symbol.Symbol {
	if name == strings.ToUpper(name) && name != symbol.EntryName {
		return symbol.Terminal(name)
	}
	return symbol.NonTerminal(name)
}

func prod(name string, syms ...string) *Production {
	p := &Production{
		Name: name,
	}
	for _, s := range syms {
		p.Symbols = append(p.Symbols, sym(s))
	}
	return p
}

func la(names ...string) Lookahead {
	l := Lookahead{}
	for _, n := range names {
		l = append(l, symbol.Terminal(n))
	}
	return l
}

// arithmeticGrammar is a left-recursive grammar of additions and multiplications.
func arithmeticGrammar() []*Production {
	return []*Production{
		prod("$S", "addition"),
		prod("addition", "addition", "ADD", "multiplication"),
		prod("addition", "multiplication"),
		prod("multiplication", "multiplication", "MUL", "number"),
		prod("multiplication", "number"),
		prod("number", "INT"),
	}
}

func requireValidationError(t *testing.T, err error, cause error) *ValidationError {
	t.Helper()

	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "unexpected error: %v (%T)", err, err)
	require.Equal(t, cause, verr.Cause, "error: %v", verr)
	return verr
}
