package merge

import (
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
)

// Boundary returns the 0-based index of the first line containing the
// control_loop sentinel. It is recomputed from the text on every call.
func Boundary(doc string) (int, bool) {
	for i, line := range strings.Split(doc, "\n") {
		if strings.Contains(line, codegen.BoundarySentinel) {
			return i, true
		}
	}
	return -1, false
}

// IsInsertionAllowed reports whether content may be inserted before line.
// Lines at or above the boundary are off limits, as is every line of a
// document that has no boundary at all.
func IsInsertionAllowed(doc string, line int) bool {
	boundary, ok := Boundary(doc)
	if !ok {
		return false
	}
	return line > boundary && line <= len(splitLines(doc))
}

// Insert places snippet as whole lines before line. Snippet lines without
// indentation receive the control_loop body indent. When the guard rejects the
// position the document is returned untouched and the boolean is false.
func Insert(doc string, line int, snippet string) (string, bool) {
	if !IsInsertionAllowed(doc, line) {
		return doc, false
	}

	sn := strings.ReplaceAll(strings.ReplaceAll(snippet, "\r\n", "\n"), "\r", "\n")
	snLines := strings.Split(sn, "\n")
	for len(snLines) > 0 && strings.TrimSpace(snLines[len(snLines)-1]) == "" {
		snLines = snLines[:len(snLines)-1]
	}
	if len(snLines) == 0 {
		return doc, false
	}

	var toInsert []string
	for _, sl := range snLines {
		if strings.TrimSpace(sl) == "" || sl[0] == ' ' || sl[0] == '\t' {
			toInsert = append(toInsert, sl)
		} else {
			toInsert = append(toInsert, codegen.Indent+sl)
		}
	}

	lines := splitLines(doc)
	newLines := append([]string{}, lines[:line]...)
	newLines = append(newLines, toInsert...)
	newLines = append(newLines, lines[line:]...)
	out := strings.Join(newLines, "\n")
	if strings.HasSuffix(doc, "\n") || line == len(lines) {
		out += "\n"
	}
	return out, true
}

// LineAt converts a byte offset into a 0-based line index.
func LineAt(doc string, offset int) int {
	if offset > len(doc) {
		offset = len(doc)
	}
	if offset < 0 {
		offset = 0
	}
	return strings.Count(doc[:offset], "\n")
}

// LineOffset returns the byte offset of the start of line, clamped to the
// document length.
func LineOffset(doc string, line int) int {
	if line <= 0 {
		return 0
	}
	offset := 0
	for i := 0; i < line; i++ {
		next := strings.IndexByte(doc[offset:], '\n')
		if next < 0 {
			return len(doc)
		}
		offset += next + 1
	}
	return offset
}

// splitLines splits doc into lines without the phantom empty line that a
// trailing newline would produce.
func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(doc, "\n"), "\n")
}
