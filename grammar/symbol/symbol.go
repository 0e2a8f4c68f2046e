package symbol

import (
	"sort"
	"strings"

	"github.com/pingcap/errors"
)

type Kind string

const (
	KindNonTerminal = Kind("non-terminal")
	KindTerminal    = Kind("terminal")
)

func (k Kind) String() string {
	return string(k)
}

const (
	// The names contain `$`, `<`, and `>` to avoid conflicting with user-defined symbols.
	EntryName = "$S"
	EOFName   = "<eof>"
)

// Symbol is a grammar symbol. Symbols are values; two symbols are the same when their kinds and names are.
type Symbol struct {
	Kind Kind
	Name string
}

var (
	// EOF marks the end of input. It is treated as a terminal symbol.
	EOF = Terminal(EOFName)

	// Entry is the left-hand side of the augmented entry production.
	Entry = NonTerminal(EntryName)
)

func Terminal(name string) Symbol {
	return Symbol{
		Kind: KindTerminal,
		Name: name,
	}
}

func NonTerminal(name string) Symbol {
	return Symbol{
		Kind: KindNonTerminal,
		Name: name,
	}
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == KindTerminal
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind == KindNonTerminal
}

func (s Symbol) IsEOF() bool {
	return s == EOF
}

func (s Symbol) IsEntry() bool {
	return s == Entry
}

// Compare orders symbols by kind (terminals first), then by name.
func (s Symbol) Compare(t Symbol) int {
	if s.Kind != t.Kind {
		if s.Kind == KindTerminal {
			return -1
		}
		return 1
	}
	return strings.Compare(s.Name, t.Name)
}

func (s Symbol) String() string {
	return s.Name
}

// CompareSequences orders symbol sequences lexicographically.
func CompareSequences(a, b []Symbol) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func Sort(syms []Symbol) {
	sort.Slice(syms, func(i, j int) bool {
		return syms[i].Compare(syms[j]) < 0
	})
}

// Num is the number of a symbol within a Table. Terminals and non-terminals are numbered separately.
type Num int

func (n Num) Int() int {
	return int(n)
}

const (
	NumNil = Num(0)

	// The number 1 is used by the EOF symbol and the entry symbol.
	NumEOF   = Num(1)
	NumEntry = Num(1)

	numMin = Num(2)
)

// Table assigns numbers to symbols in order of registration.
type Table struct {
	sym2Num      map[Symbol]Num
	termNames    []string
	nonTermNames []string
}

type TableWriter struct {
	*Table
}

type TableReader struct {
	*Table
}

func NewTable() *Table {
	return &Table{
		sym2Num: map[Symbol]Num{
			EOF:   NumEOF,
			Entry: NumEntry,
		},
		termNames: []string{
			"", // Nil
			EOFName,
		},
		nonTermNames: []string{
			"", // Nil
			EntryName,
		},
	}
}

func (t *Table) Writer() *TableWriter {
	return &TableWriter{
		Table: t,
	}
}

func (t *Table) Reader() *TableReader {
	return &TableReader{
		Table: t,
	}
}

func (w *TableWriter) Register(sym Symbol) Num {
	if num, ok := w.sym2Num[sym]; ok {
		return num
	}
	var num Num
	if sym.IsTerminal() {
		num = Num(len(w.termNames))
		w.termNames = append(w.termNames, sym.Name)
	} else {
		num = Num(len(w.nonTermNames))
		w.nonTermNames = append(w.nonTermNames, sym.Name)
	}
	w.sym2Num[sym] = num
	return num
}

func (r *TableReader) ToNum(sym Symbol) (Num, bool) {
	num, ok := r.sym2Num[sym]
	return num, ok
}

func (r *TableReader) ToSymbol(kind Kind, num Num) (Symbol, error) {
	names := r.nonTermNames
	if kind == KindTerminal {
		names = r.termNames
	}
	if num < NumEOF || num.Int() >= len(names) {
		return Symbol{}, errors.Errorf("%v number out of range: %v", kind, num)
	}
	return Symbol{
		Kind: kind,
		Name: names[num],
	}, nil
}

// TerminalNames returns the terminal names indexed by their numbers. Index 0 is unused.
func (r *TableReader) TerminalNames() []string {
	return r.termNames
}

// NonTerminalNames returns the non-terminal names indexed by their numbers. Index 0 is unused.
func (r *TableReader) NonTerminalNames() []string {
	return r.nonTermNames
}
