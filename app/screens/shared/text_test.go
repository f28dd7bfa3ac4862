package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetRowColRoundTrip(t *testing.T) {
	text := "ab\n← edit\n\nlast"

	testCases := []struct {
		offset   int
		row, col int
	}{
		{offset: 0, row: 0, col: 0},
		{offset: 2, row: 0, col: 2},
		{offset: 3, row: 1, col: 0},
		{offset: 3 + len("← "), row: 1, col: 2},
		{offset: len("ab\n← edit\n"), row: 2, col: 0},
		{offset: len(text), row: 3, col: 4},
	}
	for _, tc := range testCases {
		row, col := OffsetToRowCol(text, tc.offset)
		assert.Equal(t, tc.row, row, "row of %d", tc.offset)
		assert.Equal(t, tc.col, col, "col of %d", tc.offset)
		assert.Equal(t, tc.offset, RowColToOffset(text, row, col))
	}
}

func TestRowColToOffsetClamps(t *testing.T) {
	text := "ab\ncd"
	assert.Equal(t, 2, RowColToOffset(text, 0, 10))
	assert.Equal(t, len(text), RowColToOffset(text, 9, 0))

	row, col := OffsetToRowCol(text, 99)
	assert.Equal(t, len(text), RowColToOffset(text, row, col))
}

func TestWrapAndTruncate(t *testing.T) {
	assert.Equal(t, "one two\nthree", WrapText("one two three", 8))
	assert.Equal(t, "a\nb", TruncateLines("a\nb\nc", 2))
	assert.Equal(t, "a\nb", TruncateLines("a\nb", 5))
}
