package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks that productions make a grammar lrgen can compile. It reports the first problem
// found as *ValidationError.
func Validate(prods []*Production) error {
	if len(prods) == 0 {
		return &ValidationError{
			Cause: semErrNoProduction,
		}
	}
	for _, check := range []func([]*Production) error{
		CheckForMissingProductions,
		CheckForDuplicateProductions,
		CheckForEntry,
		CheckForMethodConflicts,
	} {
		if err := check(prods); err != nil {
			return err
		}
	}
	return nil
}

// CheckForMissingProductions checks that every non-terminal appearing on a right-hand side has a
// production.
func CheckForMissingProductions(prods []*Production) error {
	defined := map[string]struct{}{}
	for _, p := range prods {
		defined[p.Name] = struct{}{}
	}
	for _, p := range prods {
		for _, sym := range p.Symbols {
			if !sym.IsNonTerminal() {
				continue
			}
			if _, ok := defined[sym.Name]; !ok {
				return &ValidationError{
					Cause:  semErrUndefinedSym,
					Detail: fmt.Sprintf("%v (referenced by %v)", sym.Name, p),
				}
			}
		}
	}
	return nil
}

func CheckForDuplicateProductions(prods []*Production) error {
	ps := NewProductionSet()
	for _, p := range prods {
		if !ps.Add(p) {
			return &ValidationError{
				Cause:  semErrDuplicateProduction,
				Detail: p.String(),
			}
		}
	}
	return nil
}

// CheckForEntry checks that exactly one production is the entry production.
func CheckForEntry(prods []*Production) error {
	var entries []*Production
	for _, p := range prods {
		if p.IsEntry() {
			entries = append(entries, p)
		}
	}
	switch len(entries) {
	case 0:
		return &ValidationError{
			Cause: semErrNoEntry,
		}
	case 1:
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v", entries[0])
	for _, p := range entries[1:] {
		fmt.Fprintf(&b, ", %v", p)
	}
	return &ValidationError{
		Cause:  semErrMultipleEntries,
		Detail: b.String(),
	}
}

// CheckForMethodConflicts checks that productions of distinct names don't share a semantic action
// method name. For instance, `left_paren` and `leftParen` both map to `LeftParen`.
func CheckForMethodConflicts(prods []*Production) error {
	method2Names := map[string]map[string]struct{}{}
	var methods []string
	for _, p := range prods {
		m := p.MethodName()
		if _, ok := method2Names[m]; !ok {
			method2Names[m] = map[string]struct{}{}
			methods = append(methods, m)
		}
		method2Names[m][p.Name] = struct{}{}
	}
	for _, m := range methods {
		if len(method2Names[m]) <= 1 {
			continue
		}
		var names []string
		for name := range method2Names[m] {
			names = append(names, name)
		}
		sort.Strings(names)
		return &ValidationError{
			Cause:  semErrMethodConflict,
			Detail: fmt.Sprintf("%v: %v", m, strings.Join(names, ", ")),
		}
	}
	return nil
}
