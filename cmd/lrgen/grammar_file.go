package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/grammar/lexical"
	"github.com/nihei9/lrgen/grammar/symbol"
	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/pingcap/errors"
)

// grammarFile is a grammar description written in JSON.
//
//	{
//	  "name": "arith",
//	  "start": "expr",
//	  "tokens": [
//	    {"name": "INT", "pattern": "[0-9]+"},
//	    {"name": "ADD", "literal": "+"},
//	    {"name": "WS", "pattern": "[ \\t\\n]+", "ignore": true}
//	  ],
//	  "productions": [
//	    {"lhs": "expr", "rhs": ["expr", "ADD", "INT"]},
//	    {"lhs": "expr", "rhs": ["INT"]}
//	  ]
//	}
//
// Symbols named in `tokens` are terminals, and the others are non-terminals.
type grammarFile struct {
	Name        string            `json:"name"`
	Start       string            `json:"start"`
	Tokens      []*tokenEntry     `json:"tokens"`
	Productions []*productionItem `json:"productions"`
}

type tokenEntry struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`

	// Literal is a string matched verbatim. A token has either Pattern or Literal.
	Literal  string `json:"literal"`
	Priority *int   `json:"priority"`
	Ignore   bool   `json:"ignore"`
}

type productionItem struct {
	LHS   string      `json:"lhs"`
	RHS   []string    `json:"rhs"`
	Tag   string      `json:"tag"`
	Error *errorEntry `json:"error"`
}

type errorEntry struct {
	Message string `json:"message"`
	Dynamic bool   `json:"dynamic"`
}

// readGrammar decodes a grammar description. Errors are *verr.SpecError. sourceName and filePath
// are used only in error messages.
func readGrammar(r io.Reader, sourceName, filePath string) (*grammar.Grammar, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Trace(err)
	}

	specErr := func(cause error, offset int64) error {
		e := &verr.SpecError{
			Cause:      cause,
			FilePath:   filePath,
			SourceName: sourceName,
		}
		if offset >= 0 {
			e.Row, e.Col = verr.Position(src, offset)
		}
		return e
	}

	gf := &grammarFile{}
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.DisallowUnknownFields()
	err = dec.Decode(gf)
	if err != nil {
		switch e := err.(type) {
		case *json.SyntaxError:
			return nil, specErr(err, e.Offset)
		case *json.UnmarshalTypeError:
			return nil, specErr(err, e.Offset)
		}
		return nil, specErr(err, dec.InputOffset())
	}

	g, err := gf.toGrammar()
	if err != nil {
		return nil, specErr(err, -1)
	}
	return g, nil
}

func (gf *grammarFile) toGrammar() (*grammar.Grammar, error) {
	if gf.Name == "" {
		return nil, fmt.Errorf("a grammar needs a name")
	}
	if gf.Start == "" {
		return nil, fmt.Errorf("a grammar needs a start symbol")
	}

	terms := map[string]struct{}{}
	lspec := &lexical.LexSpec{}
	for _, t := range gf.Tokens {
		pattern := t.Pattern
		switch {
		case t.Pattern != "" && t.Literal != "":
			return nil, fmt.Errorf("token %v: a token cannot have both a pattern and a literal", t.Name)
		case t.Literal != "":
			pattern = spec.EscapePattern(t.Literal)
		}
		def, err := grammar.NewTokenDefinition(t.Name, pattern, t.Priority, t.Ignore)
		if err != nil {
			return nil, err
		}
		lspec.Definitions = append(lspec.Definitions, def)
		terms[t.Name] = struct{}{}
	}

	toSymbol := func(name string) symbol.Symbol {
		if _, ok := terms[name]; ok {
			return symbol.Terminal(name)
		}
		return symbol.NonTerminal(name)
	}

	prods := []*grammar.Production{
		grammar.NewProduction(symbol.EntryName, toSymbol(gf.Start)),
	}
	for _, p := range gf.Productions {
		prod := grammar.NewProduction(p.LHS)
		for _, name := range p.RHS {
			prod.Symbols = append(prod.Symbols, toSymbol(name))
		}
		prod.Tag = p.Tag
		if p.Error != nil {
			prod.Error = &grammar.ErrorResult{
				Message: p.Error.Message,
				Dynamic: p.Error.Dynamic,
			}
		}
		prods = append(prods, prod)
	}

	return &grammar.Grammar{
		Name:        gf.Name,
		LexSpec:     lspec,
		Productions: prods,
	}, nil
}
