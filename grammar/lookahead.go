package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// Lookahead is a string of terminals a parser peeks at before deciding on an action.
type Lookahead []symbol.Symbol

// eofLookahead returns a lookahead consisting of k EOF symbols.
func eofLookahead(k int) Lookahead {
	l := make(Lookahead, k)
	for i := range l {
		l[i] = symbol.EOF
	}
	return l
}

func (l Lookahead) Compare(m Lookahead) int {
	return symbol.CompareSequences(l, m)
}

func (l Lookahead) Equal(m Lookahead) bool {
	return l.Compare(m) == 0
}

// concat returns l followed by m, truncated to k symbols.
func (l Lookahead) concat(m Lookahead, k int) Lookahead {
	n := len(l) + len(m)
	if n > k {
		n = k
	}
	c := make(Lookahead, 0, n)
	c = append(c, l...)
	for _, sym := range m {
		if len(c) >= n {
			break
		}
		c = append(c, sym)
	}
	return c[:n]
}

func (l Lookahead) String() string {
	var b strings.Builder
	fmt.Fprint(&b, "[")
	for i, sym := range l {
		if i > 0 {
			fmt.Fprint(&b, ", ")
		}
		fmt.Fprint(&b, sym)
	}
	fmt.Fprint(&b, "]")
	return b.String()
}

func compareLookaheads(a, b interface{}) int {
	return a.(Lookahead).Compare(b.(Lookahead))
}

// LookaheadSet is an ordered set of lookaheads.
type LookaheadSet struct {
	set *treeset.Set
}

func NewLookaheadSet(ls ...Lookahead) *LookaheadSet {
	s := &LookaheadSet{
		set: treeset.NewWith(compareLookaheads),
	}
	for _, l := range ls {
		s.Add(l)
	}
	return s
}

// Add inserts a lookahead and reports whether the set grew.
func (s *LookaheadSet) Add(l Lookahead) bool {
	if s.set.Contains(l) {
		return false
	}
	s.set.Add(l)
	return true
}

// Merge inserts every lookahead of t and reports whether the set grew.
func (s *LookaheadSet) Merge(t *LookaheadSet) bool {
	grew := false
	for _, l := range t.Values() {
		if s.Add(l) {
			grew = true
		}
	}
	return grew
}

func (s *LookaheadSet) Contains(l Lookahead) bool {
	return s.set.Contains(l)
}

func (s *LookaheadSet) Len() int {
	return s.set.Size()
}

// Values returns the lookaheads in ascending order.
func (s *LookaheadSet) Values() []Lookahead {
	ls := make([]Lookahead, 0, s.set.Size())
	for _, v := range s.set.Values() {
		ls = append(ls, v.(Lookahead))
	}
	return ls
}

func (s *LookaheadSet) Clone() *LookaheadSet {
	return NewLookaheadSet(s.Values()...)
}

func (s *LookaheadSet) Equal(t *LookaheadSet) bool {
	if s.Len() != t.Len() {
		return false
	}
	for _, l := range s.Values() {
		if !t.Contains(l) {
			return false
		}
	}
	return true
}

func (s *LookaheadSet) String() string {
	var b strings.Builder
	fmt.Fprint(&b, "{")
	for i, l := range s.Values() {
		if i > 0 {
			fmt.Fprint(&b, ", ")
		}
		fmt.Fprint(&b, l)
	}
	fmt.Fprint(&b, "}")
	return b.String()
}
