package binderio

import (
	"bufio"
	"fmt"
	"strings"
)

// CodeBuilder is a wrapper around [strings.Builder] that simplifies
// building indented, line-based output.
//
// The zero value is safely ready to use.
type CodeBuilder struct {
	// Indent is the indentation level (indentation is tabs).
	Indent int

	b strings.Builder
}

// Write appends a raw string to the internal [strings.Builder].
func (w *CodeBuilder) Write(s string) {
	w.b.WriteString(s)
}

// Append writes the given string line by line with correct indentation.
func (w *CodeBuilder) Append(s string) {
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		w.Linef("%v", sc.Text())
	}
}

// Lines writes each of lines with correct indentation.
func (w *CodeBuilder) Lines(lines []string) {
	for _, l := range lines {
		w.Linef("%v", l)
	}
}

// Linef writes a single line, prepended by the current indentation.
// Empty lines are not indented.
//
// Takes format and args like [fmt.Printf].
func (w *CodeBuilder) Linef(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line != "" {
		for i := 0; i < w.Indent; i++ {
			w.b.WriteString("\t")
		}
	}
	w.b.WriteString(line)
	w.b.WriteString("\n")
}

// String returns the current output.
func (w *CodeBuilder) String() string {
	return w.b.String()
}
