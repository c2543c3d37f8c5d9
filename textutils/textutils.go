package textutils

import (
	"bytes"
	"slices"
	"strings"
)

var asciiSpace = [256]bool{'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true}

// IndentString prepends indent nIndent times to each line of s.
// Lines consisting only of whitespace are emptied and never
// indented; a whitespace-only final line without a line break
// is dropped.
func IndentString(s string, indent string, nIndent int) string {
	b := []byte(s)

	var res strings.Builder
	{
		nBOL := bytes.Count(b, []byte{'\n'}) + 1
		upperBound := len(s) + nBOL*nIndent*len(indent) // doesn't consider the fact that empty lines are ignored
		res.Grow(upperBound)
	}

	start := 0
	end := 0
	for start < len(b) {
		hitNewline := false
		end = bytes.Index(b[start:], []byte{'\n'})
		if end == -1 {
			end = len(b)
		} else {
			hitNewline = true
			end += start + 1 // adjust to offset and include "\n"
		}
		line := b[start:end]
		if slices.ContainsFunc(line, func(b byte) bool { return !asciiSpace[b] }) {
			for range nIndent {
				res.WriteString(indent)
			}
			res.Write(line)
		} else if hitNewline {
			res.Write([]byte{'\n'})
		}
		start = end
	}

	return res.String()
}

// Lines splits s into lines, accepting both "\n" and "\r\n"
// line endings. A trailing line break does not produce an
// empty final line. Returns nil for an empty string.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// DocLines converts documentation text into "///" doc comment
// lines, one per line of doc.
func DocLines(doc string) []string {
	lines := Lines(doc)
	res := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			res = append(res, "///")
		} else {
			res = append(res, "/// "+l)
		}
	}
	return res
}

// CommentOut prefixes every line with "// ", turning
// it into a line comment. Empty lines become "//".
func CommentOut(lines []string) []string {
	res := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			res[i] = "//"
		} else {
			res[i] = "// " + l
		}
	}
	return res
}
