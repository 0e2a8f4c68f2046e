package lexical

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrgen/grammar/lexical/parser"
	"github.com/nihei9/lrgen/grammar/symbol"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/pingcap/errors"
)

// TokenDefinition defines a kind of token by a regular expression.
type TokenDefinition struct {
	Name string

	// Ignore makes a lexer drop tokens of this kind instead of passing them to a parser.
	Ignore bool

	// Priority resolves the case where a string matches more than one definition. The highest wins.
	Priority int

	Regex parser.Node
}

// NewTokenDefinition parses a pattern. When priority is nil, the priority defaults to the specificity
// score of the pattern. Malformed patterns yield *parser.ParseError.
func NewTokenDefinition(name string, pattern string, priority *int, ignore bool) (*TokenDefinition, error) {
	regex, err := parser.Parse(pattern)
	if err != nil {
		return nil, err
	}
	p := parser.Priority(regex)
	if priority != nil {
		p = *priority
	}
	return &TokenDefinition{
		Name:     name,
		Ignore:   ignore,
		Priority: p,
		Regex:    regex,
	}, nil
}

type LexSpec struct {
	Definitions []*TokenDefinition
}

func (s *LexSpec) Validate() error {
	if len(s.Definitions) <= 0 {
		return errors.New("the lexical specification must have at least one token definition")
	}
	{
		names := map[string]struct{}{}
		for _, d := range s.Definitions {
			switch d.Name {
			case "", symbol.EntryName, symbol.EOFName:
				return errors.Errorf("`%v` is a reserved name and cannot be used as a token name", d.Name)
			}
			if _, exist := names[d.Name]; exist {
				return errors.Errorf("token names `%v` are duplicates", d.Name)
			}
			names[d.Name] = struct{}{}
		}
	}
	{
		names := make([]string, len(s.Definitions))
		for i, d := range s.Definitions {
			names[i] = d.Name
		}
		errs := findSpellingInconsistenciesErrors(names)
		if len(errs) > 0 {
			var b strings.Builder
			fmt.Fprintf(&b, "%v", errs[0])
			for _, err := range errs[1:] {
				fmt.Fprintf(&b, "\n%v", err)
			}
			return errors.New(b.String())
		}
	}

	return nil
}

func findSpellingInconsistenciesErrors(ids []string) []error {
	duplicated := mlspec.FindSpellingInconsistencies(ids)
	if len(duplicated) == 0 {
		return nil
	}

	var errs []error
	for _, dup := range duplicated {
		var b strings.Builder
		fmt.Fprintf(&b, "%+v", dup[0])
		for _, id := range dup[1:] {
			fmt.Fprintf(&b, ", %+v", id)
		}
		errs = append(errs, errors.Errorf("these identifiers are treated as the same. please use the same spelling: %v", b.String()))
	}

	return errs
}
