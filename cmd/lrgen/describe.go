package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/lrgen/spec/grammar"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe <report file path>",
		Short:   "Print a report file in readable format",
		Example: `  lrgen describe grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report file %s: %w", path, err)
	}
	defer f.Close()

	report := &spec.Report{}
	err = json.NewDecoder(f).Decode(report)
	if err != nil {
		return nil, errors.Annotatef(err, "invalid report file %s", path)
	}
	return report, nil
}

const reportTemplate = `# Class

{{ .ParserType }}({{ .Lookahead }})

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Items -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	termNames := map[int]string{}
	for _, t := range report.Terminals {
		termNames[t.Number] = t.Name
	}
	nonTermNames := map[int]string{}
	for _, t := range report.NonTerminals {
		nonTermNames[t.Number] = t.Name
	}

	// Negative numbers refer to non-terminals.
	symName := func(sym int) string {
		if sym < 0 {
			return nonTermNames[-sym]
		}
		return termNames[sym]
	}
	symNames := func(syms []int) string {
		names := make([]string, len(syms))
		for i, sym := range syms {
			names[i] = symName(sym)
		}
		return strings.Join(names, " ")
	}
	prods := map[int]*spec.Production{}
	for _, p := range report.Productions {
		prods[p.Number] = p
	}

	fns := template.FuncMap{
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermNames[prod.LHS])
			if len(prod.RHS) > 0 {
				fmt.Fprintf(&b, " %v", symNames(prod.RHS))
			} else {
				fmt.Fprintf(&b, " ε")
			}
			if prod.Tag != "" {
				fmt.Fprintf(&b, " #%v", prod.Tag)
			}
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printItem": func(item *spec.Item) string {
			prod, ok := prods[item.Production]
			if !ok {
				return fmt.Sprintf("%4v ?", item.Production)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermNames[prod.LHS])
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", symName(e))
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}
			las := make([]string, len(item.Lookahead))
			for i, la := range item.Lookahead {
				las[i] = "[" + symNames(la) + "]"
			}
			fmt.Fprintf(&b, ", {%v}", strings.Join(las, " "))

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, symName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, symNames(reduce.LookAhead))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, symName(tran.Symbol))
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
