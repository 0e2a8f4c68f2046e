package grammar

import (
	"fmt"

	"github.com/nihei9/lrgen/grammar/lexical"
	"github.com/nihei9/lrgen/grammar/lexical/parser"
	"github.com/nihei9/lrgen/grammar/symbol"
	spec "github.com/nihei9/lrgen/spec/grammar"
	"go.uber.org/zap"
)

// Grammar is a lexical specification and productions over its tokens.
type Grammar struct {
	Name        string
	LexSpec     *lexical.LexSpec
	Productions []*Production
}

// Compiled is the lexer DFA and the parser table of a grammar.
type Compiled struct {
	Name       string
	ParserType ParserType
	Lexer      *lexical.LexerAutomaton
	Parser     *ParserTable
}

// Build compiles a grammar. All problems in the grammar are reported as *ValidationError, except
// conflicts of parser actions, which are reported as *ConflictError.
func Build(g *Grammar, opts ...Option) (*Compiled, error) {
	config := newConfig(opts...)

	comparator, err := NewStateComparator(config.parserType)
	if err != nil {
		return nil, err
	}
	err = Validate(g.Productions)
	if err != nil {
		return nil, err
	}
	err = checkTerminals(g)
	if err != nil {
		return nil, err
	}
	err = checkForUnusedProductions(g.Productions)
	if err != nil {
		return nil, err
	}

	lexer, err := lexical.GenerateDFA(g.LexSpec.Definitions, lexical.WithLogger(config.logger))
	if err != nil {
		if aerr, ok := err.(*lexical.AmbiguousPriorityError); ok {
			return nil, &ValidationError{
				Cause:  semErrAmbiguousPriority,
				Detail: aerr.Error(),
			}
		}
		return nil, &ValidationError{
			Cause:  semErrInvalidLexicalSpec,
			Detail: err.Error(),
		}
	}

	tab, err := GenerateParserTable(g.Productions, comparator, config.lookahead, opts...)
	if err != nil {
		return nil, err
	}
	config.logger.Info("compiled a grammar",
		zap.String("name", g.Name),
		zap.String("parser_type", config.parserType.String()),
		zap.Int("lexer_states", lexer.DFA.StateCount()),
		zap.Int("parser_states", len(tab.States)))

	return &Compiled{
		Name:       g.Name,
		ParserType: config.parserType,
		Lexer:      lexer,
		Parser:     tab,
	}, nil
}

// Compile compiles a grammar into its portable description.
func Compile(g *Grammar, opts ...Option) (*spec.CompiledGrammar, error) {
	c, err := Build(g, opts...)
	if err != nil {
		return nil, err
	}
	return c.Spec(), nil
}

// NewTokenDefinition is lexical.NewTokenDefinition reporting malformed patterns as *ValidationError.
func NewTokenDefinition(name string, pattern string, priority *int, ignore bool) (*lexical.TokenDefinition, error) {
	d, err := lexical.NewTokenDefinition(name, pattern, priority, ignore)
	if err != nil {
		if perr, ok := err.(*parser.ParseError); ok {
			return nil, &ValidationError{
				Cause:  semErrInvalidTokenPattern,
				Detail: fmt.Sprintf("%v: %v", name, perr),
			}
		}
		return nil, err
	}
	return d, nil
}

// checkTerminals checks that the terminals in productions are tokens a parser receives, and that
// every such token is used.
func checkTerminals(g *Grammar) error {
	if g.LexSpec == nil {
		return &ValidationError{
			Cause:  semErrInvalidLexicalSpec,
			Detail: "no lexical specification",
		}
	}
	tokens := map[string]*lexical.TokenDefinition{}
	for _, d := range g.LexSpec.Definitions {
		tokens[d.Name] = d
	}
	used := map[string]struct{}{}
	for _, p := range g.Productions {
		for _, sym := range p.Symbols {
			if !sym.IsTerminal() {
				continue
			}
			d, ok := tokens[sym.Name]
			if !ok {
				return &ValidationError{
					Cause:  semErrUndefinedSym,
					Detail: fmt.Sprintf("%v (referenced by %v)", sym.Name, p),
				}
			}
			if d.Ignore {
				return &ValidationError{
					Cause:  semErrTermCannotBeSkipped,
					Detail: sym.Name,
				}
			}
			used[sym.Name] = struct{}{}
		}
	}
	for _, d := range g.LexSpec.Definitions {
		if d.Ignore {
			continue
		}
		if _, ok := used[d.Name]; !ok {
			return &ValidationError{
				Cause:  semErrUnusedTerminal,
				Detail: d.Name,
			}
		}
	}
	return nil
}

// checkForUnusedProductions checks that every non-terminal is reachable from the entry production.
func checkForUnusedProductions(prods []*Production) error {
	ps := NewProductionSet(prods...)
	reachable := map[string]struct{}{
		symbol.EntryName: {},
	}
	stack := []string{symbol.EntryName}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range ps.Find(name) {
			for _, sym := range p.Symbols {
				if !sym.IsNonTerminal() {
					continue
				}
				if _, ok := reachable[sym.Name]; ok {
					continue
				}
				reachable[sym.Name] = struct{}{}
				stack = append(stack, sym.Name)
			}
		}
	}
	for _, name := range ps.Names() {
		if _, ok := reachable[name]; !ok {
			return &ValidationError{
				Cause:  semErrUnusedProduction,
				Detail: name,
			}
		}
	}
	return nil
}

// symbolTable numbers the symbols of a compiled grammar: terminals in order of token definition, and
// non-terminals in order of production.
func (c *Compiled) symbolTable() *symbol.Table {
	tab := symbol.NewTable()
	w := tab.Writer()
	for _, t := range c.Lexer.Tokens {
		if c.Lexer.IsIgnored(t) {
			continue
		}
		w.Register(symbol.Terminal(t))
	}
	for _, p := range c.Parser.Productions {
		w.Register(p.LHS())
	}
	return tab
}

// Spec returns the portable description of the lexer DFA and the parser table.
func (c *Compiled) Spec() *spec.CompiledGrammar {
	symTab := c.symbolTable().Reader()
	return &spec.CompiledGrammar{
		Name:      c.Name,
		Lexical:   c.Lexer.Spec(),
		Syntactic: c.syntacticSpec(symTab),
	}
}

func (c *Compiled) syntacticSpec(symTab *symbol.TableReader) *spec.SyntacticSpec {
	tab := c.Parser
	terminalNums := func(l Lookahead) []int {
		nums := make([]int, len(l))
		for i, sym := range l {
			num, _ := symTab.ToNum(sym)
			nums[i] = num.Int()
		}
		return nums
	}

	lhs := make([]int, len(tab.Productions))
	counts := make([]int, len(tab.Productions))
	errMsgs := make([]*spec.ErrorMessage, len(tab.Productions))
	start := 0
	for i, p := range tab.Productions {
		num, _ := symTab.ToNum(p.LHS())
		lhs[i] = num.Int()
		counts[i] = len(p.Symbols)
		if p.Error != nil {
			errMsgs[i] = &spec.ErrorMessage{
				Message: p.Error.Message,
				Dynamic: p.Error.Dynamic,
			}
		}
		if p.IsEntry() {
			start = i
		}
	}

	kindToTerminal := make([]int, len(c.Lexer.Tokens)+spec.LexKindIDMin.Int())
	for i, t := range c.Lexer.Tokens {
		if num, ok := symTab.ToNum(symbol.Terminal(t)); ok && !c.Lexer.IsIgnored(t) {
			kindToTerminal[i+spec.LexKindIDMin.Int()] = num.Int()
		}
	}

	states := make([]*spec.ParserState, len(tab.States))
	for i, s := range tab.States {
		st := &spec.ParserState{}
		for _, a := range s.Actions() {
			switch a := a.(type) {
			case *Shift:
				st.Shift = append(st.Shift, &spec.ShiftEntry{
					Lookahead: terminalNums(a.Lookahead),
					State:     a.NextState,
				})
			case *Reduce:
				num, _ := tab.ProductionNum(a.Production)
				st.Reduce = append(st.Reduce, &spec.ReduceEntry{
					Lookahead:  terminalNums(a.Lookahead),
					Production: num,
				})
			case *Goto:
				num, _ := symTab.ToNum(a.Symbol)
				st.GoTo = append(st.GoTo, &spec.GoToEntry{
					Symbol: num.Int(),
					State:  a.NextState,
				})
			}
		}
		states[i] = st
	}

	return &spec.SyntacticSpec{
		ParserType:              c.ParserType.String(),
		Lookahead:               tab.Lookahead,
		InitialState:            tab.InitialState,
		StartProduction:         start,
		LHSSymbols:              lhs,
		AlternativeSymbolCounts: counts,
		ErrorMessages:           errMsgs,
		Terminals:               symTab.TerminalNames(),
		NonTerminals:            symTab.NonTerminalNames(),
		KindToTerminal:          kindToTerminal,
		EOFSymbol:               symbol.NumEOF.Int(),
		States:                  states,
	}
}

// Report returns a description of the productions and the parser states for diagnosis.
func (c *Compiled) Report() *spec.Report {
	symTab := c.symbolTable().Reader()
	tab := c.Parser

	var terms []*spec.Terminal
	for i, name := range symTab.TerminalNames() {
		if i == symbol.NumNil.Int() {
			continue
		}
		terms = append(terms, &spec.Terminal{
			Number: i,
			Name:   name,
		})
	}
	var nonTerms []*spec.NonTerminal
	for i, name := range symTab.NonTerminalNames() {
		if i == symbol.NumNil.Int() {
			continue
		}
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number: i,
			Name:   name,
		})
	}

	symNum := func(sym symbol.Symbol) int {
		num, _ := symTab.ToNum(sym)
		if sym.IsNonTerminal() {
			return -num.Int()
		}
		return num.Int()
	}
	lookaheadNums := func(l Lookahead) []int {
		nums := make([]int, len(l))
		for i, sym := range l {
			nums[i] = symNum(sym)
		}
		return nums
	}

	prods := make([]*spec.Production, len(tab.Productions))
	for i, p := range tab.Productions {
		rhs := make([]int, len(p.Symbols))
		for j, sym := range p.Symbols {
			rhs[j] = symNum(sym)
		}
		num, _ := symTab.ToNum(p.LHS())
		prods[i] = &spec.Production{
			Number: i,
			LHS:    num.Int(),
			RHS:    rhs,
			Tag:    p.Tag,
		}
	}

	states := make([]*spec.State, len(tab.States))
	for i, s := range tab.States {
		st := &spec.State{
			Number: i,
		}
		for _, item := range s.Items() {
			num, _ := tab.ProductionNum(item.Production)
			var las [][]int
			for _, l := range item.Lookaheads.Values() {
				las = append(las, lookaheadNums(l))
			}
			st.Items = append(st.Items, &spec.Item{
				Production: num,
				Dot:        item.Position,
				Lookahead:  las,
			})
		}
		shifted := map[int]struct{}{}
		for _, a := range s.Actions() {
			switch a := a.(type) {
			case *Shift:
				sym := symNum(a.Lookahead[0])
				if _, ok := shifted[sym]; ok {
					continue
				}
				shifted[sym] = struct{}{}
				st.Shift = append(st.Shift, &spec.Transition{
					Symbol: sym,
					State:  a.NextState,
				})
			case *Reduce:
				num, _ := tab.ProductionNum(a.Production)
				st.Reduce = append(st.Reduce, &spec.Reduce{
					LookAhead:  lookaheadNums(a.Lookahead),
					Production: num,
				})
			case *Goto:
				st.GoTo = append(st.GoTo, &spec.Transition{
					Symbol: symNum(a.Symbol),
					State:  a.NextState,
				})
			}
		}
		states[i] = st
	}

	return &spec.Report{
		ParserType:   c.ParserType.String(),
		Lookahead:    tab.Lookahead,
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}
}
