package merge

import (
	"strings"
	"testing"

	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customLogic = codegen.Indent + "self.forward_speed = 0.10\n" +
	codegen.Indent + "self.move(self.forward_speed)"

func withSpeed(t *testing.T, v string) *params.Set {
	t.Helper()
	p := params.Defaults()
	require.NoError(t, p.Set("forward_speed", v))
	return p
}

func TestReconcileDoesNotClobberLogic(t *testing.T) {
	prior := codegen.RenderArtifact(withSpeed(t, "0.10"), customLogic)

	out, preserved := Reconcile(withSpeed(t, "1.20"), prior)

	require.True(t, preserved)
	assert.Contains(t, out, "self.forward_speed = 1.20       # m/s")
	logic, ok := LogicRegion(out)
	require.True(t, ok)
	assert.Equal(t, customLogic, logic)
	assert.Equal(t, codegen.RenderArtifact(withSpeed(t, "1.20"), customLogic), out)
}

func TestReconcileFallsBackWithoutMarkers(t *testing.T) {
	p := withSpeed(t, "0.75")
	testCases := []struct {
		name  string
		prior string
	}{
		{name: "Empty", prior: ""},
		{name: "Arbitrary Text", prior: "print('hello')\n"},
		{name: "Only Start Marker", prior: codegen.StartMarker + "\n" + customLogic + "\n"},
		{name: "Only End Marker", prior: customLogic + "\n" + codegen.EndMarker + "\n"},
		{name: "Markers Reversed", prior: codegen.EndMarker + "\n" + customLogic + "\n" + codegen.StartMarker + "\n"},
		{name: "Marker Indentation Differs", prior: "# user control_loop logic below\nx\n# end user control_loop logic\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, preserved := Reconcile(p, tc.prior)
			assert.False(t, preserved)
			assert.Equal(t, codegen.Render(p), out)
		})
	}
}

func TestReconcileTrimsTrailingBlankLinesAndKeepsTail(t *testing.T) {
	prior := "stale header\n" +
		codegen.StartMarker + "\n" +
		customLogic + "\n\n   \n" +
		codegen.EndMarker + "\n" +
		"\n# hand-written tail\n"

	out, preserved := Reconcile(params.Defaults(), prior)

	require.True(t, preserved)
	expected := codegen.RenderHeader(params.Defaults()) +
		codegen.StartMarker + "\n" +
		customLogic + "\n" +
		codegen.EndMarker + "\n" +
		"\n# hand-written tail\n"
	assert.Equal(t, expected, out)
	assert.NotContains(t, out, "stale header")
}

func TestReconcileIsStableOverRepeatedCycles(t *testing.T) {
	p := withSpeed(t, "0.45")
	artifact := codegen.RenderArtifact(p, customLogic)
	for i := 0; i < 5; i++ {
		next, _ := Reconcile(p, artifact)
		require.Equal(t, artifact, next, "cycle %d", i)
		artifact = next
	}
}

func TestSpliceLogic(t *testing.T) {
	artifact := codegen.Render(params.Defaults())

	out, ok := SpliceLogic(artifact, customLogic+"\n\n")
	require.True(t, ok)
	assert.Equal(t, codegen.RenderArtifact(params.Defaults(), customLogic), out)

	empty, ok := SpliceLogic(artifact, "")
	require.True(t, ok)
	assert.Equal(t, codegen.RenderArtifact(params.Defaults(), ""), empty)

	same, ok := SpliceLogic("no markers", customLogic)
	assert.False(t, ok)
	assert.Equal(t, "no markers", same)
}

func TestExtractLogicRegion(t *testing.T) {
	doc := codegen.RenderDocument(params.Defaults(), customLogic) + "\n\n"
	logic, ok := ExtractLogicRegion(doc)
	require.True(t, ok)
	assert.Equal(t, customLogic, logic)

	logic, ok = ExtractLogicRegion(codegen.RenderHeader(params.Defaults()))
	assert.True(t, ok)
	assert.Equal(t, "", logic)

	_, ok = ExtractLogicRegion("class Movement:\n    pass\n")
	assert.False(t, ok)
}

func TestLoadDocument(t *testing.T) {
	t.Run("Markers Present", func(t *testing.T) {
		artifact := codegen.RenderArtifact(withSpeed(t, "1.10"), customLogic)
		// The raw view changed a header value by hand.
		artifact = strings.Replace(artifact, `"Red"`, `"Green"`, 1)

		loaded := LoadDocument(params.Defaults(), artifact)

		require.True(t, loaded.Preserved)
		assert.Equal(t, "1.10", loaded.Params.Value("forward_speed"))
		assert.Equal(t, "Green", loaded.Params.Value("colour_detection"))
		assert.Equal(t, customLogic, loaded.Logic)
		assert.Equal(t, codegen.RenderDocument(loaded.Params, customLogic), loaded.Document)
	})

	t.Run("Parameters In Logic Are Ignored", func(t *testing.T) {
		artifact := codegen.RenderArtifact(withSpeed(t, "0.50"), customLogic)
		loaded := LoadDocument(params.Defaults(), artifact)
		assert.Equal(t, "0.50", loaded.Params.Value("forward_speed"))
	})

	t.Run("CRLF Line Endings", func(t *testing.T) {
		artifact := strings.ReplaceAll(codegen.RenderArtifact(withSpeed(t, "0.70"), customLogic), "\n", "\r\n")
		loaded := LoadDocument(params.Defaults(), artifact)

		require.True(t, loaded.Preserved)
		assert.Equal(t, "0.70", loaded.Params.Value("forward_speed"))
		assert.Equal(t, customLogic, loaded.Logic)
		assert.NotContains(t, loaded.Document, "\r")
	})

	t.Run("Fresh Project", func(t *testing.T) {
		p := withSpeed(t, "0.60")
		loaded := LoadDocument(p, "")
		assert.False(t, loaded.Preserved)
		assert.True(t, loaded.Params.Equal(p))
		assert.Equal(t, codegen.DefaultLogic, loaded.Logic)
		assert.Equal(t, codegen.RenderDocument(p, codegen.DefaultLogic), loaded.Document)
	})
}

func TestTrimTrailingBlankLines(t *testing.T) {
	assert.Equal(t, "a\n  b", TrimTrailingBlankLines("a\n  b\n\n \t\n"))
	assert.Equal(t, "", TrimTrailingBlankLines("\n\n"))
	assert.Equal(t, "  x  ", TrimTrailingBlankLines("  x  "))
}
