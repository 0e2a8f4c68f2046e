package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nihei9/lrgen/driver/parser"
	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseFlags = struct {
	source    *string
	onlyParse *bool
	format    *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <compiled grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | lrgen parse compiled.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.onlyParse = cmd.Flags().Bool("only-parse", false, "when this option is enabled, the parser performs only parse and doesn't build a syntax tree")
	parseFlags.format = cmd.Flags().String("format", "tree", "output format: one of tree|json")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if *parseFlags.format != "tree" && *parseFlags.format != "json" {
		return fmt.Errorf("invalid output format: %v", *parseFlags.format)
	}

	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	toks, err := parser.NewTokenStream(cgram, src)
	if err != nil {
		return err
	}
	gram := parser.NewGrammar(cgram)
	var opts []parser.ParserOption
	var builder *parser.DefaultSyntaxTreeBuilder
	if !*parseFlags.onlyParse {
		builder = parser.NewDefaultSyntaxTreeBuilder()
		opts = append(opts, parser.SemanticAction(parser.NewSyntaxTreeActionSet(gram, builder)))
	}
	p, err := parser.NewParser(toks, gram, opts...)
	if err != nil {
		return err
	}

	logger.Debug("parsing", zap.String("grammar", cgram.Name))
	err = p.Parse()
	if err != nil {
		return err
	}

	synErrs := p.SyntaxErrors()
	for _, synErr := range synErrs {
		tok := synErr.Token

		var msg string
		switch {
		case tok.EOF():
			msg = "<eof>"
		case tok.Invalid():
			msg = fmt.Sprintf("'%v' (<invalid>)", string(tok.Lexeme()))
		default:
			msg = fmt.Sprintf("'%v' (%v)", string(tok.Lexeme()), cgram.Syntactic.Terminals[tok.TerminalID()])
		}
		fmt.Fprintf(os.Stderr, "%v:%v: %v: %v", synErr.Row+1, synErr.Col+1, synErr.Message, msg)
		if len(synErr.ExpectedTerminals) > 0 {
			fmt.Fprintf(os.Stderr, "; expected: %v", strings.Join(synErr.ExpectedTerminals, ", "))
		}
		fmt.Fprintf(os.Stderr, "\n")
	}
	if len(synErrs) > 0 {
		return fmt.Errorf("%v syntax error(s) found", len(synErrs))
	}

	if builder == nil {
		return nil
	}
	tree := builder.Tree()
	if *parseFlags.format == "json" {
		return writeJSON(os.Stdout, tree)
	}
	parser.PrintTree(os.Stdout, tree)
	return nil
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cgram := &spec.CompiledGrammar{}
	err = json.NewDecoder(f).Decode(cgram)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return cgram, nil
}
