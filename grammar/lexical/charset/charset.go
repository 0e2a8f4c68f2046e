package charset

import (
	"fmt"
	"sort"
	"strings"
)

// MaxCodePoint is the largest valid Unicode code point.
const MaxCodePoint = rune(0x10FFFF)

// Range represents code points between From and To, inclusive. A range whose From is greater than To
// is empty.
type Range struct {
	From rune
	To   rune
}

// EmptyRange is the canonical empty range.
var EmptyRange = Range{From: 1, To: 0}

func NewRange(from, to rune) Range {
	if from > to {
		return EmptyRange
	}
	return Range{
		From: from,
		To:   to,
	}
}

func NewCharRange(c rune) Range {
	return Range{
		From: c,
		To:   c,
	}
}

func (r Range) IsEmpty() bool {
	return r.From > r.To
}

func (r Range) Contains(c rune) bool {
	return !r.IsEmpty() && c >= r.From && c <= r.To
}

func (r Range) overlapsOrAdjoins(s Range) bool {
	return r.From <= s.To+1 && s.From <= r.To+1
}

func (r Range) String() string {
	if r.IsEmpty() {
		return "{}"
	}
	if r.From == r.To {
		return formatCodePoint(r.From)
	}
	return fmt.Sprintf("%v-%v", formatCodePoint(r.From), formatCodePoint(r.To))
}

func formatCodePoint(c rune) string {
	if c > ' ' && c < 0x7f {
		return string(c)
	}
	return fmt.Sprintf("U+%04X", c)
}

// Set is a set of code points. It holds sorted ranges, and no two ranges overlap or adjoin each other.
type Set struct {
	ranges []Range
}

func NewSet(rs ...Range) *Set {
	s := &Set{}
	for _, r := range rs {
		s.Insert(r)
	}
	return s
}

// NewFullSet returns a set containing every code point.
func NewFullSet() *Set {
	return NewSet(NewRange(0, MaxCodePoint))
}

func (s *Set) Ranges() []Range {
	return s.ranges
}

func (s *Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Size returns the number of code points the set contains.
func (s *Set) Size() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.To-r.From) + 1
	}
	return n
}

func (s *Set) Contains(c rune) bool {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].To >= c
	})
	return i < len(s.ranges) && s.ranges[i].Contains(c)
}

func (s *Set) Clone() *Set {
	rs := make([]Range, len(s.ranges))
	copy(rs, s.ranges)
	return &Set{
		ranges: rs,
	}
}

// Insert adds the code points of r to the set. Ranges that overlap or adjoin r are coalesced with it.
func (s *Set) Insert(r Range) {
	if r.IsEmpty() {
		return
	}

	// The first range that may be merged with r.
	lo := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].To+1 >= r.From
	})
	hi := lo
	for hi < len(s.ranges) && s.ranges[hi].overlapsOrAdjoins(r) {
		if s.ranges[hi].From < r.From {
			r.From = s.ranges[hi].From
		}
		if s.ranges[hi].To > r.To {
			r.To = s.ranges[hi].To
		}
		hi++
	}

	rs := make([]Range, 0, len(s.ranges)-(hi-lo)+1)
	rs = append(rs, s.ranges[:lo]...)
	rs = append(rs, r)
	rs = append(rs, s.ranges[hi:]...)
	s.ranges = rs
}

// Remove deletes the code points of r from the set. A range partially covered by r is split into
// at most two ranges.
func (s *Set) Remove(r Range) {
	if r.IsEmpty() {
		return
	}

	rs := make([]Range, 0, len(s.ranges)+1)
	for _, e := range s.ranges {
		if e.To < r.From || e.From > r.To {
			rs = append(rs, e)
			continue
		}
		if e.From < r.From {
			rs = append(rs, NewRange(e.From, r.From-1))
		}
		if e.To > r.To {
			rs = append(rs, NewRange(r.To+1, e.To))
		}
	}
	s.ranges = rs
}

// Union returns s + t.
func (s *Set) Union(t *Set) *Set {
	u := s.Clone()
	for _, r := range t.ranges {
		u.Insert(r)
	}
	return u
}

// Subtract returns s - t.
func (s *Set) Subtract(t *Set) *Set {
	d := s.Clone()
	for _, r := range t.ranges {
		d.Remove(r)
	}
	return d
}

// Intersect returns the code points contained in both s and t.
func (s *Set) Intersect(t *Set) *Set {
	var rs []Range
	i, j := 0, 0
	for i < len(s.ranges) && j < len(t.ranges) {
		a := s.ranges[i]
		b := t.ranges[j]
		from := a.From
		if b.From > from {
			from = b.From
		}
		to := a.To
		if b.To < to {
			to = b.To
		}
		if from <= to {
			rs = append(rs, Range{From: from, To: to})
		}
		if a.To < b.To {
			i++
		} else {
			j++
		}
	}
	return &Set{
		ranges: rs,
	}
}

// Complement returns the code points between U+0000 and MaxCodePoint that s doesn't contain.
func (s *Set) Complement() *Set {
	return NewFullSet().Subtract(s)
}

func (s *Set) Equal(t *Set) bool {
	if len(s.ranges) != len(t.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if r != t.ranges[i] {
			return false
		}
	}
	return true
}

// Compare orders sets by their ranges lexicographically.
func (s *Set) Compare(t *Set) int {
	for i := 0; i < len(s.ranges) && i < len(t.ranges); i++ {
		a := s.ranges[i]
		b := t.ranges[i]
		switch {
		case a.From != b.From:
			if a.From < b.From {
				return -1
			}
			return 1
		case a.To != b.To:
			if a.To < b.To {
				return -1
			}
			return 1
		}
	}
	return len(s.ranges) - len(t.ranges)
}

func (s Set) String() string {
	var b strings.Builder
	fmt.Fprint(&b, "[")
	for i, r := range s.ranges {
		if i > 0 {
			fmt.Fprint(&b, " ")
		}
		fmt.Fprint(&b, r)
	}
	fmt.Fprint(&b, "]")
	return b.String()
}

// Predefined character classes. Callers must not modify them; use Clone to get a mutable copy.
var (
	Digit = NewSet(NewRange('0', '9'))
	Word  = NewSet(NewRange('0', '9'), NewRange('A', 'Z'), NewRange('a', 'z'), NewCharRange('_'))
	Space = NewSet(NewCharRange(' '), NewRange('\t', '\r'))
)
