package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	if len(e.ExpectedTerminals) == 0 {
		return fmt.Sprintf("%v:%v: %v", e.Row+1, e.Col+1, e.Message)
	}
	return fmt.Sprintf("%v:%v: %v; expected: %v", e.Row+1, e.Col+1, e.Message, strings.Join(e.ExpectedTerminals, ", "))
}

type ParserOption func(p *Parser) error

func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// frame is a symbol on the state stack. text is the concatenated lexemes the symbol spans, separated by
// single spaces.
type frame struct {
	state int
	text  string
	row   int
	col   int
}

type Parser struct {
	toks    TokenStream
	gram    Grammar
	stack   []*frame
	buf     []VToken
	semAct  SemanticActionSet
	synErrs []*SyntaxError
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	if gram.Lookahead() < 1 {
		return nil, errors.Errorf("a parser needs at least one token of lookahead; got: %v", gram.Lookahead())
	}
	p := &Parser{
		toks: toks,
		gram: gram,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the parser until it accepts the input or meets a syntax error. Syntax errors don't make
// Parse fail; SyntaxErrors returns them.
func (p *Parser) Parse() error {
	p.push(&frame{
		state: p.gram.InitialState(),
	})
	err := p.fill()
	if err != nil {
		return err
	}

	for {
		if invalid, ok := p.invalidToken(); ok {
			p.raise(invalid, "invalid token")
			return nil
		}
		tok := p.buf[0]

		lookahead := p.lookahead()
		if next, ok := p.gram.Shift(p.top(), lookahead); ok {
			row, col := tok.Position()
			p.push(&frame{
				state: next,
				text:  string(tok.Lexeme()),
				row:   row,
				col:   col,
			})
			if p.semAct != nil {
				p.semAct.Shift(tok)
			}
			p.buf = p.buf[1:]
			err := p.fill()
			if err != nil {
				return err
			}
			continue
		}

		prodNum, ok := p.gram.Reduce(p.top(), lookahead)
		if !ok {
			p.raise(tok, "unexpected token")
			return nil
		}
		if prodNum == p.gram.StartProduction() {
			if p.semAct != nil {
				p.semAct.Accept()
			}
			return nil
		}
		if msg, dynamic, ok := p.gram.ErrorMessage(prodNum); ok {
			p.raiseOnReduction(prodNum, msg, dynamic)
			return nil
		}
		err := p.reduce(prodNum)
		if err != nil {
			return err
		}
		if p.semAct != nil {
			p.semAct.Reduce(prodNum)
		}
	}
}

// fill reads tokens until the parser can peek at k tokens. Once the stream reaches the end, the EOF token
// is repeated.
func (p *Parser) fill() error {
	for len(p.buf) < p.gram.Lookahead() {
		if n := len(p.buf); n > 0 && p.buf[n-1].EOF() {
			p.buf = append(p.buf, p.buf[n-1])
			continue
		}
		tok, err := p.toks.Next()
		if err != nil {
			return err
		}
		p.buf = append(p.buf, tok)
	}
	return nil
}

// invalidToken returns the first invalid token in the lookahead buffer.
func (p *Parser) invalidToken() (VToken, bool) {
	for _, tok := range p.buf {
		if tok.Invalid() {
			return tok, true
		}
	}
	return nil, false
}

func (p *Parser) lookahead() []int {
	l := make([]int, len(p.buf))
	for i, tok := range p.buf {
		if tok.EOF() {
			l[i] = p.gram.EOF()
		} else {
			l[i] = tok.TerminalID()
		}
	}
	return l
}

func (p *Parser) reduce(prodNum int) error {
	n := p.gram.AlternativeSymbolCount(prodNum)
	handle := p.pop(n)

	texts := make([]string, 0, len(handle))
	for _, f := range handle {
		if f.text != "" {
			texts = append(texts, f.text)
		}
	}
	f := &frame{
		text: strings.Join(texts, " "),
	}
	if len(handle) > 0 {
		f.row = handle[0].row
		f.col = handle[0].col
	} else {
		f.row, f.col = p.buf[0].Position()
	}

	lhs := p.gram.LHS(prodNum)
	next, ok := p.gram.GoTo(p.top(), lhs)
	if !ok {
		return errors.Errorf("no goto entry; state: %v, symbol: %v", p.top(), p.gram.NonTerminal(lhs))
	}
	f.state = next
	p.push(f)
	return nil
}

func (p *Parser) raise(tok VToken, msg string) {
	row, col := tok.Position()
	var expected []string
	for _, term := range p.gram.ExpectedTerminals(p.top()) {
		expected = append(expected, p.gram.Terminal(term))
	}
	p.synErrs = append(p.synErrs, &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           msg,
		Token:             tok,
		ExpectedTerminals: expected,
	})
	if p.semAct != nil {
		p.semAct.MissError(tok)
	}
}

// raiseOnReduction reports the error of a production. In a dynamic message, `$N` stands for the text of
// the N-th symbol of the production.
func (p *Parser) raiseOnReduction(prodNum int, msg string, dynamic bool) {
	n := p.gram.AlternativeSymbolCount(prodNum)
	handle := p.stack[len(p.stack)-n:]
	if dynamic {
		msg = expandMessage(msg, handle)
	}
	row, col := p.buf[0].Position()
	if n > 0 {
		row, col = handle[0].row, handle[0].col
	}
	p.synErrs = append(p.synErrs, &SyntaxError{
		Row:     row,
		Col:     col,
		Message: msg,
		Token:   p.buf[0],
	})
	if p.semAct != nil {
		p.semAct.MissError(p.buf[0])
	}
}

func expandMessage(msg string, handle []*frame) string {
	var b strings.Builder
	for i := 0; i < len(msg); i++ {
		if msg[i] != '$' {
			b.WriteByte(msg[i])
			continue
		}
		j := i + 1
		for j < len(msg) && msg[j] >= '0' && msg[j] <= '9' {
			j++
		}
		n, err := strconv.Atoi(msg[i+1 : j])
		if err != nil || n < 1 || n > len(handle) {
			b.WriteByte(msg[i])
			continue
		}
		b.WriteString(handle[n-1].text)
		i = j - 1
	}
	return b.String()
}

func (p *Parser) top() int {
	return p.stack[len(p.stack)-1].state
}

func (p *Parser) push(f *frame) {
	p.stack = append(p.stack, f)
}

func (p *Parser) pop(n int) []*frame {
	fs := make([]*frame, n)
	copy(fs, p.stack[len(p.stack)-n:])
	p.stack = p.stack[:len(p.stack)-n]
	return fs
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}
