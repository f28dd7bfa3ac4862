package merge

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docWithSentinelAt builds a document whose sentinel sits on the given line.
func docWithSentinelAt(line int) string {
	var b strings.Builder
	for i := 0; i < line; i++ {
		fmt.Fprintf(&b, "# line %d\n", i)
	}
	b.WriteString("    def control_loop(self):\n")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "        pass  # %d\n", i)
	}
	return b.String()
}

func TestIsInsertionAllowed(t *testing.T) {
	doc := docWithSentinelAt(10)

	boundary, ok := Boundary(doc)
	require.True(t, ok)
	require.Equal(t, 10, boundary)

	testCases := []struct {
		name     string
		line     int
		expected bool
	}{
		{name: "Above Boundary", line: 5, expected: false},
		{name: "First Line", line: 0, expected: false},
		{name: "At Boundary", line: 10, expected: false},
		{name: "Right Below", line: 11, expected: true},
		{name: "Inside Logic", line: 12, expected: true},
		{name: "Append At End", line: 16, expected: true},
		{name: "Past End", line: 17, expected: false},
		{name: "Negative", line: -1, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsInsertionAllowed(doc, tc.line))
		})
	}
}

func TestInsertionRejectedWithoutSentinel(t *testing.T) {
	doc := "line one\nline two\nline three\n"
	_, ok := Boundary(doc)
	assert.False(t, ok)
	for line := 0; line <= 3; line++ {
		assert.False(t, IsInsertionAllowed(doc, line), "line %d", line)
	}
	out, inserted := Insert(doc, 2, "self.stop()")
	assert.False(t, inserted)
	assert.Equal(t, doc, out)
}

func TestSentinelIsCaseSensitive(t *testing.T) {
	_, ok := Boundary("    DEF CONTROL_LOOP(self):\n")
	assert.False(t, ok)
}

func TestInsert(t *testing.T) {
	doc := codegen.RenderDocument(params.Defaults(), codegen.DefaultLogic)
	boundary, ok := Boundary(doc)
	require.True(t, ok)

	t.Run("Below Boundary", func(t *testing.T) {
		out, inserted := Insert(doc, boundary+2, "self.stop()")
		require.True(t, inserted)
		lines := strings.Split(out, "\n")
		assert.Equal(t, codegen.Indent+"self.stop()", lines[boundary+2])
		assert.Equal(t, len(strings.Split(doc, "\n"))+1, len(lines))
		assert.True(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("Keeps Existing Indentation", func(t *testing.T) {
		out, inserted := Insert(doc, boundary+1, "            pass\n\n")
		require.True(t, inserted)
		assert.Equal(t, "            pass", strings.Split(out, "\n")[boundary+1])
	})

	t.Run("Append At End", func(t *testing.T) {
		end := len(strings.Split(strings.TrimSuffix(doc, "\n"), "\n"))
		out, inserted := Insert(doc, end, "self.stop()\nself.move(1)")
		require.True(t, inserted)
		assert.True(t, strings.HasSuffix(out, codegen.Indent+"self.stop()\n"+codegen.Indent+"self.move(1)\n"))
	})

	t.Run("Header Rejected", func(t *testing.T) {
		out, inserted := Insert(doc, 3, "self.stop()")
		assert.False(t, inserted)
		assert.Equal(t, doc, out)
	})

	t.Run("Blank Snippet", func(t *testing.T) {
		out, inserted := Insert(doc, boundary+1, "\n  \n")
		assert.False(t, inserted)
		assert.Equal(t, doc, out)
	})
}

func TestLineHelpers(t *testing.T) {
	doc := "a\nbb\nccc\n"
	assert.Equal(t, 0, LineAt(doc, 0))
	assert.Equal(t, 1, LineAt(doc, 2))
	assert.Equal(t, 2, LineAt(doc, 5))
	assert.Equal(t, 3, LineAt(doc, 100))

	assert.Equal(t, 0, LineOffset(doc, 0))
	assert.Equal(t, 2, LineOffset(doc, 1))
	assert.Equal(t, 5, LineOffset(doc, 2))
	assert.Equal(t, len(doc), LineOffset(doc, 3))
	assert.Equal(t, len(doc), LineOffset(doc, 10))
}
