package error

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// SpecError is an error in a grammar description file. Row and Col are 1-origin, and 0 means unknown.
type SpecError struct {
	Cause      error
	FilePath   string
	SourceName string
	Row        int
	Col        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v:", e.Row)
		if e.Col != 0 {
			fmt.Fprintf(&b, "%v:", e.Col)
		}
		fmt.Fprint(&b, " ")
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
		if e.Col > 0 {
			fmt.Fprintf(&b, "\n    %v^", strings.Repeat(" ", e.Col-1))
		}
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Position returns the row and the column of a byte offset in src. Columns are counted in code points.
func Position(src []byte, offset int64) (int, int) {
	if offset > int64(len(src)) {
		offset = int64(len(src))
	}
	row := 1
	col := 1
	for _, c := range string(src[:offset]) {
		if c == '\n' {
			row++
			col = 1
			continue
		}
		col++
	}
	if offset > 0 && !utf8.Valid(src[:offset]) {
		col = 0
	}
	return row, col
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
