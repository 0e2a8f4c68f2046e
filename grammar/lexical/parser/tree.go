package parser

import (
	"fmt"
	"io"

	"github.com/nihei9/lrgen/grammar/lexical/charset"
)

// Infinite is the upper bound of an unbounded quantifier.
const Infinite = -1

// Node is a node of a regex syntax tree. The set of implementations is closed: *Alternation,
// *Sequence, *Quantifier, and *CharSet.
type Node interface {
	fmt.Stringer
	node()
}

var (
	_ Node = &Alternation{}
	_ Node = &Sequence{}
	_ Node = &Quantifier{}
	_ Node = &CharSet{}
)

type Alternation struct {
	Branches []Node
}

func (n *Alternation) node() {}

func (n *Alternation) String() string {
	return fmt.Sprintf("alt: %v branches", len(n.Branches))
}

type Sequence struct {
	Elements []Node
}

func (n *Sequence) node() {}

func (n *Sequence) String() string {
	return fmt.Sprintf("seq: %v elements", len(n.Elements))
}

type Quantifier struct {
	Operand Node
	Min     int

	// Max is Infinite when the quantifier has no upper bound.
	Max int
}

func (n *Quantifier) node() {}

func (n *Quantifier) String() string {
	if n.Max == Infinite {
		return fmt.Sprintf("repeat: {%v,}", n.Min)
	}
	return fmt.Sprintf("repeat: {%v,%v}", n.Min, n.Max)
}

type CharSet struct {
	Negated bool

	// Ranges holds code points as written in the pattern. When Negated is true, the node matches
	// the complement of Ranges.
	Ranges *charset.Set
}

func newCharNode(c rune) *CharSet {
	return &CharSet{
		Ranges: charset.NewSet(charset.NewCharRange(c)),
	}
}

func (n *CharSet) node() {}

func (n *CharSet) String() string {
	if n.Negated {
		return fmt.Sprintf("char set: ^%v", n.Ranges)
	}
	return fmt.Sprintf("char set: %v", n.Ranges)
}

// Matching returns the code points the node actually matches.
func (n *CharSet) Matching() *charset.Set {
	if n.Negated {
		return n.Ranges.Complement()
	}
	return n.Ranges.Clone()
}

func (n *CharSet) isSingleChar() bool {
	return !n.Negated && n.Ranges.Size() == 1
}

// Priority returns a specificity score of a pattern. Longer literal sequences and larger repetition
// counts score higher. The score is a heuristic used to order token definitions; it isn't unique.
func Priority(n Node) int {
	switch n := n.(type) {
	case *CharSet:
		if n.isSingleChar() {
			return 2
		}
		return 1
	case *Sequence:
		p := 0
		for _, e := range n.Elements {
			p += Priority(e)
		}
		return p
	case *Quantifier:
		return Priority(n.Operand) * n.Min
	case *Alternation:
		p := -1
		for _, b := range n.Branches {
			bp := Priority(b)
			if p < 0 || bp < p {
				p = bp
			}
		}
		if p < 0 {
			return 0
		}
		return p
	}
	panic(fmt.Errorf("unknown node type: %T", n))
}

func children(n Node) []Node {
	switch n := n.(type) {
	case *Alternation:
		return n.Branches
	case *Sequence:
		return n.Elements
	case *Quantifier:
		return []Node{n.Operand}
	}
	return nil
}

// Print writes a syntax tree in a readable format.
func Print(w io.Writer, n Node) {
	printTree(w, n, "", "")
}

func printTree(w io.Writer, n Node, ruledLine string, childRuledLinePrefix string) {
	if n == nil {
		return
	}
	fmt.Fprintf(w, "%v%v\n", ruledLine, n)
	cs := children(n)
	num := len(cs)
	for i, child := range cs {
		line := "└─ "
		prefix := "   "
		if i < num-1 {
			line = "├─ "
			prefix = "│  "
		}
		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
