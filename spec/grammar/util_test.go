package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapePattern(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{s: "if", want: "if"},
		{s: "+", want: "\\+"},
		{s: "a.b*c", want: "a\\.b\\*c"},
		{s: "{[()]}", want: "\\{\\[\\(\\)\\]\\}"},
		{s: "\\|?", want: "\\\\\\|\\?"},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			require.Equal(t, tt.want, EscapePattern(tt.s))
		})
	}
}
