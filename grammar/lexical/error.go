package lexical

import (
	"fmt"
	"strings"
)

// AmbiguousPriorityError reports token definitions that can accept the same string and share the
// highest priority among the candidates, so no single token can be chosen.
type AmbiguousPriorityError struct {
	Tokens   []string
	Priority int
}

func (e *AmbiguousPriorityError) Error() string {
	return fmt.Sprintf("ambiguous priority; tokens %v have the same priority %v", strings.Join(e.Tokens, ", "), e.Priority)
}
