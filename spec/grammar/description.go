package grammar

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Production describes a production. Positive numbers in RHS refer to terminals and negative numbers
// refer to non-terminals.
type Production struct {
	Number int    `json:"number"`
	LHS    int    `json:"lhs"`
	RHS    []int  `json:"rhs"`
	Tag    string `json:"tag,omitempty"`
}

type Item struct {
	Production int     `json:"production"`
	Dot        int     `json:"dot"`
	Lookahead  [][]int `json:"lookahead"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type State struct {
	Number int           `json:"number"`
	Items  []*Item       `json:"items"`
	Shift  []*Transition `json:"shift"`
	Reduce []*Reduce     `json:"reduce"`
	GoTo   []*Transition `json:"goto"`
}

// Report describes the parser states of a compiled grammar for diagnosis.
type Report struct {
	ParserType   string         `json:"parser_type"`
	Lookahead    int            `json:"lookahead"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}
