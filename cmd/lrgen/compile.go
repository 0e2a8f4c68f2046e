package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	verr "github.com/nihei9/lrgen/error"
	"github.com/nihei9/lrgen/grammar"
	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compileFlags = struct {
	output     *string
	lookahead  *int
	parserType *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar into a lexer DFA and a parsing table",
		Example: `  lrgen compile grammar.json -o compiled.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.lookahead = cmd.Flags().IntP("lookahead", "k", 1, "the number of lookahead tokens")
	compileFlags.parserType = cmd.Flags().String("parser-type", grammar.ParserTypeLALR.String(), "lr or lalr")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("output") {
		config.Output = *compileFlags.output
	}
	if cmd.Flags().Changed("lookahead") {
		config.Lookahead = *compileFlags.lookahead
	}
	if cmd.Flags().Changed("parser-type") {
		config.ParserType = *compileFlags.parserType
	}

	var gram *grammar.Grammar
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("Cannot open the grammar file %s: %w", args[0], err)
		}
		defer f.Close()
		gram, err = readGrammar(f, args[0], args[0])
		if err != nil {
			return err
		}
	} else {
		var err error
		gram, err = readGrammar(os.Stdin, "stdin", "")
		if err != nil {
			return err
		}
	}

	logger.Info("compiling a grammar",
		zap.String("name", gram.Name),
		zap.String("parser_type", config.ParserType),
		zap.Int("lookahead", config.Lookahead))

	c, err := grammar.Build(gram, config.grammarOptions()...)
	if err != nil {
		srcName := "stdin"
		if len(args) > 0 {
			srcName = args[0]
		}
		return &verr.SpecError{
			Cause:      err,
			SourceName: srcName,
		}
	}

	err = writeCompiledGrammarAndReport(c.Spec(), c.Report(), config.Output)
	if err != nil {
		return fmt.Errorf("Cannot write an output files: %w", err)
	}

	logger.Info("compiled a grammar",
		zap.Int("lexer_states", len(c.Lexer.DFA.States())),
		zap.Int("parser_states", len(c.Parser.States)))

	return nil
}

// writeCompiledGrammarAndReport writes a compiled grammar and a report to files located at a specified path.
// This function selects one of the following output methods depending on how the path is specified.
//
//  1. When the path is a directory path, this function writes the compiled grammar and the report to
//     <path>/<grammar-name>.json and <path>/<grammar-name>-report.json files, respectively.
//  2. When the path is a file path or a non-existent path, this function assumes that the path represents
//     a file path for the compiled grammar. The report is written to <grammar-name>-report.json in the
//     same directory.
//  3. When the path is an empty string, this function writes the compiled grammar to the stdout and writes
//     the report to <current-directory>/<grammar-name>-report.json.
func writeCompiledGrammarAndReport(cgram *spec.CompiledGrammar, report *spec.Report, path string) error {
	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, path)
	if err != nil {
		return err
	}

	{
		var cgramW io.Writer
		if cgramPath != "" {
			cgramFile, err := os.OpenFile(cgramPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer cgramFile.Close()
			cgramW = cgramFile
		} else {
			cgramW = os.Stdout
		}

		err := writeJSON(cgramW, cgram)
		if err != nil {
			return err
		}
	}

	{
		reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		err = writeJSON(reportFile, report)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

func makeOutputFilePaths(gramName string, path string) (string, string, error) {
	reportFileName := gramName + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+".json"), filepath.Join(path, reportFileName), nil
}
