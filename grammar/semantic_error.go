package grammar

import "fmt"

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrNoEntry             = newSemanticError("a grammar needs an entry production")
	semErrMultipleEntries     = newSemanticError("a grammar can have only one entry production")
	semErrMethodConflict      = newSemanticError("productions of different names map to the same semantic action method")
	semErrInfiniteRecursion   = newSemanticError("a non-terminal never derives a string of terminals")
	semErrUnusedProduction    = newSemanticError("unused production")
	semErrUnusedTerminal      = newSemanticError("unused terminal")
	semErrTermCannotBeSkipped = newSemanticError("a terminal used in productions cannot be skipped")
	semErrInvalidLookahead    = newSemanticError("lookahead must be at least 1")
	semErrInvalidParserType   = newSemanticError("invalid parser type")
	semErrAmbiguousPriority   = newSemanticError("ambiguous token priority")
	semErrInvalidTokenPattern = newSemanticError("invalid token pattern")
	semErrInvalidLexicalSpec  = newSemanticError("invalid lexical specification")
)

// ValidationError reports a grammar that cannot be compiled. Cause is one of the semErr* errors.
type ValidationError struct {
	Cause  error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%v: %v", e.Cause, e.Detail)
}
