package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/merge"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store whose writes can be made to fail.
type memStore struct {
	content string
	exists  bool
	failing bool
	writes  int
}

func (m *memStore) Path() string { return "mem://movement.py" }

func (m *memStore) Load() (string, error) {
	if !m.exists {
		return "", fmt.Errorf("read artifact: %w", fs.ErrNotExist)
	}
	return m.content, nil
}

func (m *memStore) Save(content string) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.content = content
	m.exists = true
	m.writes++
	return nil
}

const customLogic = codegen.Indent + "self.forward_speed = 0.10  # slow down here\n" +
	codegen.Indent + "self.move(self.forward_speed)"

func openFresh(t *testing.T) (*Orchestrator, *memStore) {
	t.Helper()
	store := &memStore{}
	o, err := Open(store)
	require.NoError(t, err)
	return o, store
}

func structuredWithLogic(o *Orchestrator, logic string) {
	doc := codegen.RenderDocument(o.Params(), logic)
	o.EditDocument(doc, len(doc))
}

func TestOpenFreshProject(t *testing.T) {
	o, store := openFresh(t)

	assert.Equal(t, StructuredView, o.Mode())
	assert.True(t, o.Params().Equal(params.Defaults()))
	assert.Equal(t, codegen.RenderDocument(params.Defaults(), codegen.DefaultLogic), o.Document())
	assert.Equal(t, 0, store.writes, "opening never writes")
}

func TestOpenPropagatesReadErrors(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be read as a file.
	_, err := Open(NewFileStore(dir))
	require.Error(t, err)
	assert.False(t, IsFresh(err))
}

func TestRoundTripThroughBothViews(t *testing.T) {
	o, store := openFresh(t)
	require.NoError(t, o.SetParam("forward_speed", "0.30"))
	structuredWithLogic(o, customLogic)

	require.NoError(t, o.SwitchToRaw())
	assert.Equal(t, RawView, o.Mode())
	logic, ok := merge.LogicRegion(store.content)
	require.True(t, ok)
	assert.Equal(t, customLogic, logic, "raw view persists the logic unchanged")
	assert.Equal(t, store.content, o.Raw())

	require.NoError(t, o.SwitchToStructured())
	assert.Equal(t, StructuredView, o.Mode())
	got, ok := merge.ExtractLogicRegion(o.Document())
	require.True(t, ok)
	assert.Equal(t, customLogic, got)
	assert.Equal(t, "0.30", o.Params().Value("forward_speed"))
	assert.Contains(t, o.Document(), "self.forward_speed = 0.30       # m/s")
}

func TestRawEditsSurviveSwitchBack(t *testing.T) {
	o, _ := openFresh(t)
	require.NoError(t, o.SwitchToRaw())

	raw := strings.Replace(o.Raw(), "self.turn_speed = 1.00", "self.turn_speed = 2.40", 1)
	raw = strings.Replace(raw, codegen.DefaultLogic, customLogic, 1)
	o.EditRaw(raw, 0)
	assert.Equal(t, "2.40", o.Params().Value("turn_speed"), "raw edits are extracted")

	require.NoError(t, o.SwitchToStructured())
	assert.Equal(t, "2.40", o.Params().Value("turn_speed"))
	assert.Equal(t, codegen.RenderDocument(o.Params(), customLogic), o.Document())
}

func TestSetParamSubstitutesInPlace(t *testing.T) {
	o, _ := openFresh(t)
	structuredWithLogic(o, customLogic)
	anchor := strings.Index(o.Document(), "self.move(self.forward_speed)")
	o.SetCursor(anchor)

	var rewrites []string
	o.OnDocumentChanged(func(text string, cursor int) { rewrites = append(rewrites, text) })

	require.NoError(t, o.SetParam("forward_speed", "1.40"))

	doc := o.Document()
	assert.Contains(t, doc, "self.forward_speed = 1.40       # m/s")
	assert.Contains(t, doc, "self.forward_speed = 0.10  # slow down here", "later occurrences untouched")
	assert.True(t, strings.HasPrefix(doc[o.Cursor():], "self.move(self.forward_speed)"))
	assert.Len(t, rewrites, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Substitutions))
}

func TestSetParamInRawViewSubstitutesRawText(t *testing.T) {
	o, _ := openFresh(t)
	require.NoError(t, o.SwitchToRaw())

	require.NoError(t, o.SetParam("colour_detection", "Yellow"))
	assert.Contains(t, o.Raw(), `self.colour_detection = "Yellow"`)

	err := o.SetParam("colour_detection", "Purple")
	assert.ErrorIs(t, err, params.ErrInvalidValue)
	assert.Equal(t, "Yellow", o.Params().Value("colour_detection"))
}

func TestFeedbackLoopTerminates(t *testing.T) {
	o, _ := openFresh(t)

	paramCalls, docCalls := 0, 0
	// A form that pushes every derived value straight back, and an editor that
	// re-submits every rewrite, the way naive widget bindings behave.
	o.OnParamsChanged(func(p *params.Set) {
		paramCalls++
		require.Less(t, paramCalls, 50, "feedback loop")
		assert.True(t, o.State().SuppressFeedback)
		for _, name := range params.Names() {
			require.NoError(t, o.SetParam(name, p.Value(name)))
		}
	})
	o.OnDocumentChanged(func(text string, cursor int) {
		docCalls++
		require.Less(t, docCalls, 50, "feedback loop")
		o.Edit(text, cursor)
	})

	doc := strings.Replace(o.Document(), "self.turn_speed = 1.00", "self.turn_speed = 2.00", 1)
	o.EditDocument(doc, 0)
	assert.Equal(t, 1, paramCalls)
	assert.Equal(t, "2.00", o.Params().Value("turn_speed"))
	assert.False(t, o.State().SuppressFeedback)

	require.NoError(t, o.SetParam("forward_speed", "0.90"))
	assert.Equal(t, 1, docCalls)
	assert.Contains(t, o.Document(), "self.forward_speed = 0.90")
	assert.False(t, o.State().SuppressFeedback)
}

func TestEditDocumentKeepsPriorOnMalformedValues(t *testing.T) {
	o, _ := openFresh(t)
	doc := strings.Replace(o.Document(), "self.forward_speed = 0.30", "self.forward_speed = 0..3.", 1)
	o.EditDocument(doc, 0)
	assert.Equal(t, "0.30", o.Params().Value("forward_speed"))
	assert.Equal(t, doc, o.Document(), "user text is never rewritten by extraction")
}

func TestSaveReconcilesWithPriorArtifact(t *testing.T) {
	store := &memStore{exists: true}
	tail := "\n\n# keep me\n"
	store.content = "old header\n" + codegen.StartMarker + "\n" + customLogic + "\n" + codegen.EndMarker + tail

	o, err := Open(store)
	require.NoError(t, err)
	require.NoError(t, o.SetParam("obstacle_distance", "0.80"))
	require.NoError(t, o.Save())

	assert.True(t, strings.HasPrefix(store.content, codegen.RenderHeader(o.Params())))
	assert.True(t, strings.HasSuffix(store.content, codegen.EndMarker+tail))
	logic, ok := merge.LogicRegion(store.content)
	require.True(t, ok)
	assert.Equal(t, customLogic, logic)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Reconciliations.WithLabelValues("preserved")))
}

func TestSaveWithoutMarkersRegenerates(t *testing.T) {
	store := &memStore{exists: true, content: "print('not generated')\n"}
	o, err := Open(store)
	require.NoError(t, err)
	require.NoError(t, o.Save())
	assert.Equal(t, codegen.Render(params.Defaults()), store.content)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Reconciliations.WithLabelValues("regenerated")))
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	o, store := openFresh(t)
	structuredWithLogic(o, customLogic)
	store.failing = true

	o.Autosave()
	require.Error(t, o.LastError())
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().WriteFailures))
	assert.Contains(t, o.Document(), "slow down here")

	err := o.Save()
	assert.Error(t, err)

	// Switching still happens; the unsaved artifact is shown.
	require.Error(t, o.SwitchToRaw())
	assert.Equal(t, RawView, o.Mode())
	assert.Contains(t, o.Raw(), "slow down here")

	store.failing = false
	o.Autosave()
	assert.NoError(t, o.LastError())
	assert.Contains(t, store.content, "slow down here")
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Persists.WithLabelValues("autosave")))
}

func TestAutosavePerMode(t *testing.T) {
	o, store := openFresh(t)
	o.Autosave()
	assert.Equal(t, codegen.Render(params.Defaults()), store.content)

	require.NoError(t, o.SwitchToRaw())
	o.EditRaw("anything at all\n", 0)
	o.Autosave()
	assert.Equal(t, "anything at all\n", store.content, "raw view is persisted verbatim")
}

func TestInsertSnippetIsGuarded(t *testing.T) {
	o, _ := openFresh(t)
	before := o.Document()
	boundary, ok := o.Boundary()
	require.True(t, ok)

	assert.False(t, o.InsertSnippet(2, "self.stop()"))
	assert.Equal(t, before, o.Document())
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().RejectedInsertions))

	require.True(t, o.InsertSnippet(boundary+2, "self.stop()"))
	lines := strings.Split(o.Document(), "\n")
	assert.Equal(t, codegen.Indent+"self.stop()", lines[boundary+2])
	assert.Equal(t, boundary+3, merge.LineAt(o.Document(), o.Cursor()), "cursor lands after the snippet")
}

func TestInsertAtCursor(t *testing.T) {
	o, _ := openFresh(t)
	o.SetCursor(0)
	assert.False(t, o.InsertAtCursor("self.stop()"))

	o.SetCursor(len(o.Document()))
	require.True(t, o.InsertAtCursor("self.stop()"))
	assert.True(t, strings.HasSuffix(o.Document(), codegen.Indent+"self.stop()\n"))
}

func TestReloadPicksUpExternalEdits(t *testing.T) {
	o, store := openFresh(t)
	require.NoError(t, o.Save())

	changed, err := o.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "own writes are ignored")

	store.content = codegen.RenderArtifact(paramsWith(t, "turn_acw_deg", "45"), customLogic)
	changed, err = o.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "45.0", o.Params().Value("turn_acw_deg"))
	logic, _ := merge.ExtractLogicRegion(o.Document())
	assert.Equal(t, customLogic, logic)

	require.NoError(t, o.SwitchToRaw())
	store.content = "external raw\n"
	changed, err = o.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "external raw\n", o.Raw())
	assert.Equal(t, 2.0, testutil.ToFloat64(o.Metrics().Reloads))
}

func TestReloadIgnoresTruncatedArtifact(t *testing.T) {
	o, store := openFresh(t)
	store.content = codegen.RenderArtifact(params.Defaults(), customLogic)
	store.exists = true
	changed, err := o.Reload()
	require.NoError(t, err)
	require.True(t, changed)

	// A writer truncated the file but has not written it yet.
	store.content = ""
	changed, err = o.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
	logic, _ := merge.ExtractLogicRegion(o.Document())
	assert.Equal(t, customLogic, logic)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Reloads))

	// The follow-up write is still picked up.
	store.content = codegen.RenderArtifact(paramsWith(t, "turn_speed", "2.0"), customLogic)
	changed, err = o.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "2.00", o.Params().Value("turn_speed"))
}

func TestRestore(t *testing.T) {
	o, store := openFresh(t)
	past := codegen.RenderArtifact(paramsWith(t, "backward_speed", "0.65"), customLogic)

	require.NoError(t, o.Restore(past))
	assert.Equal(t, past, store.content)
	assert.Equal(t, StructuredView, o.Mode())
	assert.Equal(t, "0.65", o.Params().Value("backward_speed"))
	logic, _ := merge.ExtractLogicRegion(o.Document())
	assert.Equal(t, customLogic, logic)
}

type recorderFunc func(project string, trigger history.Trigger, content string)

func (f recorderFunc) Record(_ context.Context, project string, trigger history.Trigger, content string) (int64, bool, error) {
	f(project, trigger, content)
	return 1, true, nil
}

func TestRecorderSeesEveryPersist(t *testing.T) {
	var triggers []history.Trigger
	rec := recorderFunc(func(project string, trigger history.Trigger, _ string) {
		assert.Equal(t, "/robot", project)
		triggers = append(triggers, trigger)
	})
	o, err := Open(&memStore{}, WithRecorder(rec, "/robot"))
	require.NoError(t, err)

	require.NoError(t, o.Save())
	o.Autosave()
	require.NoError(t, o.Toggle())
	require.NoError(t, o.Toggle())

	assert.Equal(t, []history.Trigger{history.TriggerSave, history.TriggerAutosave, history.TriggerSwitch, history.TriggerSwitch}, triggers)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movement_pkg", "movement.py")
	s := NewFileStore(path)

	_, err := s.Load()
	assert.True(t, IsFresh(err))

	require.NoError(t, s.Save("body\n"))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "body\n", got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "body\n", string(raw))
}

func paramsWith(t *testing.T, name, value string) *params.Set {
	t.Helper()
	p := params.Defaults()
	require.NoError(t, p.Set(name, value))
	return p
}
