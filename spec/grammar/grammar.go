package grammar

type CompiledGrammar struct {
	Name      string         `json:"name"`
	Lexical   *LexicalSpec   `json:"lexical"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

// StateID represents an ID of a state of a lexer DFA.
type StateID int

const (
	// StateIDNil represents the absence of a transition.
	// When a lexer reaches this value, it raises an error meaning lexical analysis failed.
	StateIDNil = StateID(0)

	// StateIDMin is the minimum value of the state ID. All valid state IDs are represented as
	// sequential numbers starting from this value.
	StateIDMin = StateID(1)
)

func (id StateID) Int() int {
	return int(id)
}

// LexKindID represents an ID of a lexical kind.
type LexKindID int

const (
	LexKindIDNil = LexKindID(0)
	LexKindIDMin = LexKindID(1)
)

func (id LexKindID) Int() int {
	return int(id)
}

// LexKindName represents a name of a lexical kind.
type LexKindName string

const LexKindNameNil = LexKindName("")

func (k LexKindName) String() string {
	return string(k)
}

// CharRange represents code points between From and To, inclusive.
type CharRange struct {
	From rune `json:"from"`
	To   rune `json:"to"`
}

type LexTransition struct {
	Ranges []CharRange `json:"ranges"`
	Next   StateID     `json:"next"`
}

type LexState struct {
	// Accept is LexKindIDNil when the state accepts no token.
	Accept      LexKindID        `json:"accept"`
	Transitions []*LexTransition `json:"transitions"`
}

type LexicalSpec struct {
	// KindNames and Ignore are indexed by LexKindID. Index 0 is unused.
	KindNames []LexKindName `json:"kind_names"`
	Ignore    []bool        `json:"ignore"`

	InitialState StateID `json:"initial_state"`

	// States is indexed by StateID. Index 0 is unused.
	States []*LexState `json:"states"`
}

type ShiftEntry struct {
	Lookahead []int `json:"lookahead"`
	State     int   `json:"state"`
}

type ReduceEntry struct {
	Lookahead  []int `json:"lookahead"`
	Production int   `json:"production"`
}

type GoToEntry struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type ParserState struct {
	Shift  []*ShiftEntry  `json:"shift"`
	Reduce []*ReduceEntry `json:"reduce"`
	GoTo   []*GoToEntry   `json:"goto"`
}

// ErrorMessage is the syntax error a parser reports when it reduces a production. When Dynamic is true,
// `$N` in Message stands for the text of the N-th symbol of the production.
type ErrorMessage struct {
	Message string `json:"message"`
	Dynamic bool   `json:"dynamic"`
}

type SyntacticSpec struct {
	ParserType   string `json:"parser_type"`
	Lookahead    int    `json:"lookahead"`
	InitialState int    `json:"initial_state"`

	// StartProduction is the number of the entry production. Reducing it accepts the input.
	StartProduction int `json:"start_production"`

	// LHSSymbols and AlternativeSymbolCounts are indexed by production numbers.
	LHSSymbols              []int `json:"lhs_symbols"`
	AlternativeSymbolCounts []int `json:"alternative_symbol_counts"`

	// ErrorMessages is indexed by production numbers. An entry is nil when the production reduces
	// normally.
	ErrorMessages []*ErrorMessage `json:"error_messages"`

	// Terminals and NonTerminals are indexed by symbol numbers. Index 0 is unused.
	Terminals    []string `json:"terminals"`
	NonTerminals []string `json:"non_terminals"`

	// KindToTerminal maps a LexKindID to a terminal number. Ignored kinds map to 0.
	KindToTerminal []int `json:"kind_to_terminal"`

	EOFSymbol int            `json:"eof_symbol"`
	States    []*ParserState `json:"states"`
}
