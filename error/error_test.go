package error

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	src := []byte("{\n  \"name\": あ,\n}")
	tests := []struct {
		offset int64
		row    int
		col    int
	}{
		{offset: 0, row: 1, col: 1},
		{offset: 2, row: 2, col: 1},
		{offset: 12, row: 2, col: 11},
		{offset: 15, row: 2, col: 12},
		{offset: 100, row: 3, col: 2},
	}
	for _, tt := range tests {
		row, col := Position(src, tt.offset)
		require.Equal(t, tt.row, row, "offset: %v", tt.offset)
		require.Equal(t, tt.col, col, "offset: %v", tt.offset)
	}
}

func TestSpecError_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammar.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"name\": 1\n}\n"), 0600))

	cause := errors.New("a name must be a string")
	err := &SpecError{
		Cause:      cause,
		FilePath:   path,
		SourceName: "grammar.json",
		Row:        2,
		Col:        11,
	}
	want := "grammar.json: 2:11: error: a name must be a string\n" +
		"      \"name\": 1\n" +
		"              ^"
	require.Equal(t, want, err.Error())
	require.ErrorIs(t, err, cause)

	err = &SpecError{
		Cause:      cause,
		SourceName: "stdin",
	}
	require.Equal(t, "stdin: error: a name must be a string", err.Error())
}
