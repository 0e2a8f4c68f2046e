package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/nihei9/lrgen/grammar/symbol"
)

// ErrorResult makes reducing a production fail with a syntax error. When Dynamic is true, `$N` in
// Message is replaced with the text of the N-th symbol of the production (1-origin).
type ErrorResult struct {
	Message string
	Dynamic bool
}

// Production is a rule `Name → Symbols`. Tag distinguishes the semantic actions of productions sharing
// a name.
type Production struct {
	Name    string
	Symbols []symbol.Symbol
	Tag     string
	Error   *ErrorResult
}

func NewProduction(name string, syms ...symbol.Symbol) *Production {
	return &Production{
		Name:    name,
		Symbols: syms,
	}
}

func (p *Production) LHS() symbol.Symbol {
	return symbol.NonTerminal(p.Name)
}

func (p *Production) IsEntry() bool {
	return p.Name == symbol.EntryName
}

func (p *Production) IsEmpty() bool {
	return len(p.Symbols) == 0
}

// Compare orders productions by name, then by symbols. Tags and error results don't take part, so two
// productions comparing equal are structurally identical.
func (p *Production) Compare(q *Production) int {
	if c := strings.Compare(p.Name, q.Name); c != 0 {
		return c
	}
	return symbol.CompareSequences(p.Symbols, q.Symbols)
}

// MethodName returns the name of the semantic action method invoked when the production is reduced.
func (p *Production) MethodName() string {
	return snakeCaseToUpperCamelCase(p.Name) + snakeCaseToUpperCamelCase(p.Tag)
}

func (p *Production) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", p.Name)
	if p.IsEmpty() {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range p.Symbols {
		fmt.Fprintf(&b, " %v", sym)
	}
	return b.String()
}

func snakeCaseToUpperCamelCase(snake string) string {
	elems := strings.Split(snake, "_")
	for i, e := range elems {
		if len(e) == 0 {
			continue
		}
		elems[i] = strings.ToUpper(string(e[0])) + e[1:]
	}

	return strings.Join(elems, "")
}

func compareProductions(a, b interface{}) int {
	return a.(*Production).Compare(b.(*Production))
}

// ProductionSet is an ordered set of structurally distinct productions.
type ProductionSet struct {
	prods     *treemap.Map
	name2Prod map[string][]*Production
	entry     *Production
}

func NewProductionSet(prods ...*Production) *ProductionSet {
	ps := &ProductionSet{
		prods:     treemap.NewWith(compareProductions),
		name2Prod: map[string][]*Production{},
	}
	for _, p := range prods {
		ps.Add(p)
	}
	return ps
}

// Add inserts a production. It returns false when the set already has a structurally identical one.
func (ps *ProductionSet) Add(p *Production) bool {
	if _, found := ps.prods.Get(p); found {
		return false
	}
	ps.prods.Put(p, p)
	ps.name2Prod[p.Name] = append(ps.name2Prod[p.Name], p)
	sort.Slice(ps.name2Prod[p.Name], func(i, j int) bool {
		return ps.name2Prod[p.Name][i].Compare(ps.name2Prod[p.Name][j]) < 0
	})
	if p.IsEntry() && ps.entry == nil {
		ps.entry = p
	}
	return true
}

func (ps *ProductionSet) Len() int {
	return ps.prods.Size()
}

// All returns the productions in ascending order.
func (ps *ProductionSet) All() []*Production {
	prods := make([]*Production, 0, ps.prods.Size())
	for _, v := range ps.prods.Values() {
		prods = append(prods, v.(*Production))
	}
	return prods
}

// Find returns the productions whose left-hand side is name, in ascending order.
func (ps *ProductionSet) Find(name string) []*Production {
	return ps.name2Prod[name]
}

func (ps *ProductionSet) Contains(p *Production) bool {
	_, found := ps.prods.Get(p)
	return found
}

func (ps *ProductionSet) Entry() (*Production, bool) {
	return ps.entry, ps.entry != nil
}

// Names returns the left-hand side names in ascending order.
func (ps *ProductionSet) Names() []string {
	names := make([]string, 0, len(ps.name2Prod))
	for name := range ps.name2Prod {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
