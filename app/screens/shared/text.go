package shared

import (
	"strings"
	"unicode/utf8"
)

// WrapText wraps s to the given width breaking at spaces; it preserves
// existing newlines and does not break words unless a single word exceeds width.
func WrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) <= width {
				line += " " + w
			} else {
				out = append(out, line)
				line = w
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// TruncateLines limits the string to at most max lines, splitting on \n.
// If max <= 0 or the input has fewer lines, the original string is returned.
func TruncateLines(s string, max int) string {
	if max <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[:max], "\n")
}

// OffsetToRowCol converts a byte offset into a 0-based row and a rune column.
// Offsets past the end land on the last position.
func OffsetToRowCol(text string, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	before := text[:offset]
	row := strings.Count(before, "\n")
	lineStart := strings.LastIndex(before, "\n") + 1
	return row, utf8.RuneCountInString(before[lineStart:])
}

// RowColToOffset is the inverse of OffsetToRowCol. Columns past the end of the
// row clamp to the row's end.
func RowColToOffset(text string, row, col int) int {
	offset := 0
	for i := 0; i < row; i++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return len(text)
		}
		offset += nl + 1
	}
	line := text[offset:]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	for i := range line {
		if col == 0 {
			return offset + i
		}
		col--
	}
	return offset + len(line)
}
