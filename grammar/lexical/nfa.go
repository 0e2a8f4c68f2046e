package lexical

import (
	"fmt"

	"github.com/nihei9/lrgen/automaton"
	"github.com/nihei9/lrgen/grammar/lexical/charset"
	"github.com/nihei9/lrgen/grammar/lexical/parser"
	"github.com/pingcap/errors"
)

// NFA is a nondeterministic automaton over code points. A state's value is the name of the token it
// accepts, or an empty string when it accepts nothing.
type NFA = automaton.Automaton[string, charset.Set]

// BuildNFA builds one NFA recognizing every token definition. All definitions hang off the returned
// root state, and the final state of each definition is labelled with the definition's name.
func BuildNFA(defs []*TokenDefinition) (*NFA, automaton.StateID, error) {
	b := &nfaBuilder{
		nfa: automaton.New[string, charset.Set](),
	}
	root := b.nfa.AddState("")
	for _, d := range defs {
		start := b.nfa.AddState("")
		err := b.connect(root, start, nil)
		if err != nil {
			return nil, 0, err
		}
		end, err := b.insert(d.Regex, start)
		if err != nil {
			return nil, 0, errors.Annotatef(err, "token %v", d.Name)
		}
		final := b.nfa.AddState(d.Name)
		err = b.connect(end, final, nil)
		if err != nil {
			return nil, 0, err
		}
	}
	return b.nfa, root, nil
}

type nfaBuilder struct {
	nfa *NFA
}

func (b *nfaBuilder) connect(src, dst automaton.StateID, value *charset.Set) error {
	_, err := b.nfa.Connect(src, dst, value)
	return errors.Trace(err)
}

// insert adds the states recognizing n after from, and returns the state where they end.
func (b *nfaBuilder) insert(n parser.Node, from automaton.StateID) (automaton.StateID, error) {
	switch n := n.(type) {
	case *parser.CharSet:
		to := b.nfa.AddState("")
		err := b.connect(from, to, n.Matching())
		if err != nil {
			return 0, err
		}
		return to, nil
	case *parser.Sequence:
		cur := from
		for _, e := range n.Elements {
			var err error
			cur, err = b.insert(e, cur)
			if err != nil {
				return 0, err
			}
		}
		return cur, nil
	case *parser.Alternation:
		collector := b.nfa.AddState("")
		for _, branch := range n.Branches {
			start := b.nfa.AddState("")
			err := b.connect(from, start, nil)
			if err != nil {
				return 0, err
			}
			end, err := b.insert(branch, start)
			if err != nil {
				return 0, err
			}
			err = b.connect(end, collector, nil)
			if err != nil {
				return 0, err
			}
		}
		return collector, nil
	case *parser.Quantifier:
		return b.insertQuantifier(n, from)
	}
	panic(fmt.Errorf("unknown node type: %T", n))
}

func (b *nfaBuilder) insertQuantifier(n *parser.Quantifier, from automaton.StateID) (automaton.StateID, error) {
	cur := from
	for i := 0; i < n.Min; i++ {
		var err error
		cur, err = b.insert(n.Operand, cur)
		if err != nil {
			return 0, err
		}
	}

	exit := b.nfa.AddState("")
	if n.Max == parser.Infinite {
		loop := b.nfa.AddState("")
		err := b.connect(cur, loop, nil)
		if err != nil {
			return 0, err
		}
		end, err := b.insert(n.Operand, loop)
		if err != nil {
			return 0, err
		}
		err = b.connect(end, loop, nil)
		if err != nil {
			return 0, err
		}
		err = b.connect(loop, exit, nil)
		if err != nil {
			return 0, err
		}
		return exit, nil
	}

	// Each optional copy can be skipped by an epsilon connection to the exit.
	for i := 0; i < n.Max-n.Min; i++ {
		err := b.connect(cur, exit, nil)
		if err != nil {
			return 0, err
		}
		cur, err = b.insert(n.Operand, cur)
		if err != nil {
			return 0, err
		}
	}
	err := b.connect(cur, exit, nil)
	if err != nil {
		return 0, err
	}
	return exit, nil
}
