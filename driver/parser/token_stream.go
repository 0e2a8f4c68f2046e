package parser

import (
	"io"

	"github.com/nihei9/lrgen/driver/lexer"
	spec "github.com/nihei9/lrgen/spec/grammar"
)

// VToken is a token a parser consumes.
type VToken interface {
	// TerminalID returns a terminal number. It is 0 for invalid tokens.
	TerminalID() int

	Lexeme() []byte
	EOF() bool
	Invalid() bool

	// Position returns the row and the column where the token appears.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	tok        *lexer.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

func (t *vToken) BytePosition() (int, int) {
	return t.tok.BytePos, t.tok.ByteLen
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type tokenStream struct {
	lex            *lexer.Lexer
	ignore         []bool
	kindToTerminal []int
}

// NewTokenStream returns a stream of the tokens of a source. Tokens of ignored kinds are dropped.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lex, err := lexer.NewLexer(lexer.NewLexSpec(g.Lexical), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		ignore:         g.Lexical.Ignore,
		kindToTerminal: g.Syntactic.KindToTerminal,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		if l.ignore[tok.KindID] {
			continue
		}
		return &vToken{
			terminalID: l.kindToTerminal[tok.KindID],
			tok:        tok,
		}, nil
	}
}

// Token is a VToken made by hand. It lets a parser run over tokens produced by other lexers.
type Token struct {
	Terminal int
	Text     string
	Row      int
	Col      int
	IsEOF    bool
}

func (t *Token) TerminalID() int {
	return t.Terminal
}

func (t *Token) Lexeme() []byte {
	return []byte(t.Text)
}

func (t *Token) EOF() bool {
	return t.IsEOF
}

func (t *Token) Invalid() bool {
	return !t.IsEOF && t.Terminal == 0
}

func (t *Token) Position() (int, int) {
	return t.Row, t.Col
}

type sliceTokenStream struct {
	toks []VToken
	eof  VToken
}

// NewSliceTokenStream returns a stream of tokens followed by the EOF token.
func NewSliceTokenStream(toks []VToken) TokenStream {
	return &sliceTokenStream{
		toks: toks,
		eof: &Token{
			IsEOF: true,
		},
	}
}

func (s *sliceTokenStream) Next() (VToken, error) {
	if len(s.toks) == 0 {
		return s.eof, nil
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	return tok, nil
}
