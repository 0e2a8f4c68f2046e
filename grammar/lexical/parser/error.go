package parser

import (
	"fmt"
	"strings"

	"github.com/pingcap/errors"
)

// ParseError reports a malformed pattern. Cause is one of the synErr* errors below.
type ParseError struct {
	Pattern  string
	Pos      int
	Cause    error
	Expected string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q: position %v: %v", e.Pattern, e.Pos, e.Cause)
	if e.Expected != "" {
		fmt.Fprintf(&b, "; expected: %v", e.Expected)
	}
	return b.String()
}

var (
	// lexical errors
	SynErrIncompletedEscSeq = errors.New("incompleted escape sequence; unexpected EOF following \\")
	SynErrInvalidEscSeq     = errors.New("invalid escape sequence")
	SynErrInvalidCodePoint  = errors.New("code points must consist of just 4 hex digits or be enclosed in braces")
	SynErrCPExpOutOfRange   = errors.New("a code point must be between U+0000 to U+10FFFF")
	SynErrCPExpUnclosed     = errors.New("unclosed code point expression")
	SynErrCtrlCharInvalid   = errors.New("a control character escape needs a letter")

	// syntax errors
	SynErrUnexpectedChar     = errors.New("unexpected special character")
	SynErrNullPattern        = errors.New("a pattern must be a non-empty sequence")
	SynErrAltLackOfOperand   = errors.New("an alternation expression must have operands")
	SynErrRepNoTarget        = errors.New("a repeat expression must have an operand")
	SynErrRepInvalidBound    = errors.New("invalid repetition bound")
	SynErrRepInvalidOrder    = errors.New("a repetition with invalid order of bounds")
	SynErrRepUnclosed        = errors.New("unclosed repetition expression")
	SynErrRepTooLarge        = errors.New("a repetition expands into too many characters")
	SynErrGroupNoElem        = errors.New("a grouping expression must include at least one character")
	SynErrGroupUnclosed      = errors.New("unclosed grouping expression")
	SynErrGroupNoInitiator   = errors.New(") needs preceding (")
	SynErrBExpNoElem         = errors.New("a bracket expression must include at least one character")
	SynErrBExpUnclosed       = errors.New("unclosed bracket expression")
	SynErrRangeInvalidOrder  = errors.New("a range expression with invalid order")
	SynErrUnmatchablePattern = errors.New("a pattern cannot match any characters")
)
