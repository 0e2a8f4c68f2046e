package lexer

import spec "github.com/nihei9/lrgen/spec/grammar"

type lexSpec struct {
	spec *spec.LexicalSpec
}

func NewLexSpec(spec *spec.LexicalSpec) *lexSpec {
	return &lexSpec{
		spec: spec,
	}
}

func (s *lexSpec) InitialState() StateID {
	return StateID(s.spec.InitialState.Int())
}

func (s *lexSpec) NextState(state StateID, c rune) (StateID, bool) {
	for _, tran := range s.spec.States[state].Transitions {
		for _, r := range tran.Ranges {
			if c < r.From {
				// Ranges of a transition are sorted.
				break
			}
			if c <= r.To {
				return StateID(tran.Next.Int()), true
			}
		}
	}
	return StateID(spec.StateIDNil.Int()), false
}

func (s *lexSpec) Accept(state StateID) (KindID, bool) {
	kindID := s.spec.States[state].Accept
	return KindID(kindID.Int()), kindID != spec.LexKindIDNil
}

func (s *lexSpec) KindName(kind KindID) string {
	return s.spec.KindNames[kind].String()
}

// Ignore reports whether tokens of a kind are dropped before they reach a parser.
func (s *lexSpec) Ignore(kind KindID) bool {
	return s.spec.Ignore[kind]
}
