package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app/codegen"
	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/merge"
	"github.com/Guerrilla-Interactive/codebot-cli/app/metrics"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
)

// -----------------------------------------------------------------------------
// [WORKSPACE] View state machine, feedback suppression & persistence triggers
// -----------------------------------------------------------------------------

// Mode is the view the user is editing.
type Mode int

const (
	StructuredView Mode = iota
	RawView
)

func (m Mode) String() string {
	if m == RawView {
		return "raw"
	}
	return "structured"
}

// State is everything the orchestrator knows about the open document.
// SuppressFeedback is set while the orchestrator itself rewrites text or
// parameters so the resulting change notifications do not feed back.
type State struct {
	Mode             Mode
	Params           *params.Set
	Document         string // structured view text
	Raw              string // raw view text, i.e. the artifact
	Cursor           int    // byte offset into the active view
	SuppressFeedback bool
}

// Recorder keeps a log of persisted artifacts.
type Recorder interface {
	Record(ctx context.Context, project string, trigger history.Trigger, content string) (int64, bool, error)
}

// ParamsListener is told about parameter values the orchestrator derived
// from text, e.g. to refresh a form.
type ParamsListener func(p *params.Set)

// DocumentListener is told about text the orchestrator rewrote, e.g. to
// refresh an editor.
type DocumentListener func(text string, cursor int)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger routes orchestrator logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMetrics counts orchestrator activity into m.
func WithMetrics(m *metrics.Sync) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithRecorder stores every successful persist under project.
func WithRecorder(r Recorder, project string) Option {
	return func(o *Orchestrator) {
		o.recorder = r
		o.project = project
	}
}

// WithParams seeds the parameters used before anything is loaded.
func WithParams(p *params.Set) Option {
	return func(o *Orchestrator) { o.seed = p.Clone() }
}

// Orchestrator is the single writer of the artifact. It is not safe for
// concurrent use; callers drive it from one event loop.
type Orchestrator struct {
	store    Store
	logger   *slog.Logger
	metrics  *metrics.Sync
	recorder Recorder
	project  string
	seed     *params.Set

	state         State
	lastPersisted string
	lastErr       error

	paramsListeners   []ParamsListener
	documentListeners []DocumentListener
}

// Open loads the artifact from store and assembles the structured view. A
// missing artifact is a fresh project, not an error.
func Open(store Store, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		metrics: metrics.New(),
		seed:    params.Defaults(),
	}
	for _, opt := range opts {
		opt(o)
	}

	artifact, err := store.Load()
	switch {
	case err == nil:
		o.lastPersisted = artifact
	case IsFresh(err):
		o.logger.Debug("no artifact yet, starting fresh", "path", store.Path())
		artifact = ""
	default:
		return nil, fmt.Errorf("open workspace: %w", err)
	}

	loaded := merge.LoadDocument(o.seed, artifact)
	o.state = State{
		Mode:     StructuredView,
		Params:   loaded.Params,
		Document: loaded.Document,
		Raw:      artifact,
	}
	o.logger.Debug("workspace opened", "path", store.Path(), "preserved", loaded.Preserved, "params", loaded.Params.String())
	return o, nil
}

// OnParamsChanged registers a listener for derived parameter changes.
func (o *Orchestrator) OnParamsChanged(fn ParamsListener) {
	o.paramsListeners = append(o.paramsListeners, fn)
}

// OnDocumentChanged registers a listener for programmatic text rewrites.
func (o *Orchestrator) OnDocumentChanged(fn DocumentListener) {
	o.documentListeners = append(o.documentListeners, fn)
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	s := o.state
	s.Params = o.state.Params.Clone()
	return s
}

func (o *Orchestrator) Mode() Mode { return o.state.Mode }
func (o *Orchestrator) Params() *params.Set { return o.state.Params.Clone() }
func (o *Orchestrator) Document() string { return o.state.Document }
func (o *Orchestrator) Raw() string { return o.state.Raw }
func (o *Orchestrator) Cursor() int { return o.state.Cursor }
func (o *Orchestrator) Path() string { return o.store.Path() }
func (o *Orchestrator) Metrics() *metrics.Sync { return o.metrics }

// LastError is the most recent persistence failure, cleared by the next
// successful write.
func (o *Orchestrator) LastError() error { return o.lastErr }

// Text is the content of the active view.
func (o *Orchestrator) Text() string {
	if o.state.Mode == RawView {
		return o.state.Raw
	}
	return o.state.Document
}

// Boundary returns the insertion boundary of the active view.
func (o *Orchestrator) Boundary() (int, bool) {
	return merge.Boundary(o.Text())
}

// SetParam changes one parameter from the form. Outside of feedback
// suppression the active view is rewritten in place: only the first
// assignment of each parameter changes and the cursor keeps its place.
func (o *Orchestrator) SetParam(name, value string) error {
	next := o.state.Params.Clone()
	if err := next.Set(name, value); err != nil {
		return err
	}
	o.applyParams(next)
	return nil
}

// StepParam moves a parameter by n increments.
func (o *Orchestrator) StepParam(name string, n int) error {
	next := o.state.Params.Clone()
	if err := next.Step(name, n); err != nil {
		return err
	}
	o.applyParams(next)
	return nil
}

func (o *Orchestrator) applyParams(next *params.Set) {
	if o.state.SuppressFeedback {
		o.state.Params = next
		return
	}
	if next.Equal(o.state.Params) {
		return
	}
	o.state.Params = next
	o.suppressed(func() {
		text, cursor, n := codegen.SubstituteAt(o.Text(), next, o.state.Cursor)
		if n == 0 {
			return
		}
		o.metrics.Substitutions.Add(float64(n))
		o.setText(text, cursor)
		o.logger.Debug("parameters substituted", "mode", o.state.Mode.String(), "count", n)
		o.notifyDocument()
	})
}

// EditDocument records a user edit of the structured view and pulls parameter
// values back out of it. Edits arriving while feedback is suppressed are only
// stored.
func (o *Orchestrator) EditDocument(text string, cursor int) {
	o.state.Document = text
	o.state.Cursor = clampCursor(cursor, text)
	if o.state.SuppressFeedback {
		return
	}
	o.extractFrom(text)
}

// EditRaw records a user edit of the raw view. Parameters are read back the
// same way as in the structured view.
func (o *Orchestrator) EditRaw(text string, cursor int) {
	o.state.Raw = text
	o.state.Cursor = clampCursor(cursor, text)
	if o.state.SuppressFeedback {
		return
	}
	o.extractFrom(text)
}

// Edit dispatches to EditDocument or EditRaw depending on the mode.
func (o *Orchestrator) Edit(text string, cursor int) {
	if o.state.Mode == RawView {
		o.EditRaw(text, cursor)
		return
	}
	o.EditDocument(text, cursor)
}

// SetCursor moves the cursor without changing text.
func (o *Orchestrator) SetCursor(cursor int) {
	o.state.Cursor = clampCursor(cursor, o.Text())
}

func (o *Orchestrator) extractFrom(text string) {
	next := codegen.Extract(text, o.state.Params)
	o.metrics.Extractions.Inc()
	if next.Equal(o.state.Params) {
		return
	}
	o.logger.Debug("parameters extracted", "changed", codegen.Changed(o.state.Params, next))
	o.state.Params = next
	o.suppressed(o.notifyParams)
}

// SwitchToRaw reconciles the structured view into the artifact, persists it
// and shows the artifact verbatim. The switch happens even if the write
// fails; the error is returned for display.
func (o *Orchestrator) SwitchToRaw() error {
	if o.state.Mode == RawView {
		return nil
	}
	artifact, err := o.persist(history.TriggerSwitch)
	o.state.Mode = RawView
	o.state.Raw = artifact
	o.state.Cursor = clampCursor(o.state.Cursor, artifact)
	o.metrics.ModeSwitches.WithLabelValues(RawView.String()).Inc()
	o.suppressed(o.notifyDocument)
	return err
}

// SwitchToStructured persists the raw text verbatim and rebuilds the
// structured view from it.
func (o *Orchestrator) SwitchToStructured() error {
	if o.state.Mode == StructuredView {
		return nil
	}
	_, err := o.persist(history.TriggerSwitch)
	o.state.Mode = StructuredView
	o.loadStructured(o.state.Raw)
	o.metrics.ModeSwitches.WithLabelValues(StructuredView.String()).Inc()
	return err
}

// Toggle switches to the other view.
func (o *Orchestrator) Toggle() error {
	if o.state.Mode == RawView {
		return o.SwitchToStructured()
	}
	return o.SwitchToRaw()
}

// Save persists the active view and reports failures to the caller.
func (o *Orchestrator) Save() error {
	return o.SaveAs(history.TriggerSave)
}

// SaveAs is Save with an explicit trigger for the revision history.
func (o *Orchestrator) SaveAs(trigger history.Trigger) error {
	_, err := o.persist(trigger)
	return err
}

// Autosave persists the active view. Failures are logged and counted only;
// the in-memory document stays authoritative and the next trigger retries.
func (o *Orchestrator) Autosave() {
	_, _ = o.persist(history.TriggerAutosave)
}

// Artifact renders what a persist would write right now without writing it.
func (o *Orchestrator) Artifact() string {
	if o.state.Mode == RawView {
		return o.state.Raw
	}
	artifact, _ := o.reconcile(o.priorArtifact())
	return artifact
}

func (o *Orchestrator) persist(trigger history.Trigger) (string, error) {
	var artifact string
	if o.state.Mode == RawView {
		artifact = o.state.Raw
	} else {
		var preserved bool
		artifact, preserved = o.reconcile(o.priorArtifact())
		outcome := "regenerated"
		if preserved {
			outcome = "preserved"
		}
		o.metrics.Reconciliations.WithLabelValues(outcome).Inc()
	}

	if err := o.store.Save(artifact); err != nil {
		o.metrics.WriteFailures.Inc()
		o.lastErr = err
		o.logger.Warn("persist failed", "trigger", string(trigger), "path", o.store.Path(), "error", err)
		return artifact, fmt.Errorf("persist %s: %w", o.store.Path(), err)
	}
	o.lastErr = nil
	o.lastPersisted = artifact
	if o.state.Mode == StructuredView {
		o.state.Raw = artifact
	}
	o.metrics.Persists.WithLabelValues(string(trigger)).Inc()
	o.logger.Debug("artifact persisted", "trigger", string(trigger), "bytes", len(artifact))
	o.record(trigger, artifact)
	return artifact, nil
}

// reconcile merges the current parameters into prior and carries the logic
// of the structured view along with them.
func (o *Orchestrator) reconcile(prior string) (string, bool) {
	artifact, preserved := merge.Reconcile(o.state.Params, prior)
	if logic, ok := merge.ExtractLogicRegion(o.state.Document); ok {
		artifact, _ = merge.SpliceLogic(artifact, logic)
	}
	return artifact, preserved
}

func (o *Orchestrator) priorArtifact() string {
	prior, err := o.store.Load()
	if err == nil {
		return prior
	}
	if !IsFresh(err) {
		o.logger.Warn("reading prior artifact failed, using last persisted copy", "error", err)
	}
	return o.lastPersisted
}

func (o *Orchestrator) record(trigger history.Trigger, artifact string) {
	if o.recorder == nil {
		return
	}
	if _, _, err := o.recorder.Record(context.Background(), o.project, trigger, artifact); err != nil {
		o.logger.Warn("recording revision failed", "error", err)
	}
}

// InsertSnippet inserts snippet before line (0-based) of the active view if
// the edit guard allows it. Rejections are silent apart from the return value.
func (o *Orchestrator) InsertSnippet(line int, snippet string) bool {
	text := o.Text()
	out, ok := merge.Insert(text, line, snippet)
	if !ok {
		o.metrics.RejectedInsertions.Inc()
		o.logger.Debug("insertion rejected", "line", line)
		return false
	}
	o.metrics.Insertions.Inc()
	cursor := merge.LineOffset(out, line+countLines(out)-countLines(text))
	o.Edit(out, cursor)
	o.suppressed(o.notifyDocument)
	return true
}

// InsertAtCursor inserts snippet before the line holding the cursor.
func (o *Orchestrator) InsertAtCursor(snippet string) bool {
	return o.InsertSnippet(merge.LineAt(o.Text(), o.state.Cursor), snippet)
}

// Reload picks up an external change of the artifact. Content equal to what
// this orchestrator last wrote is ignored. It reports whether anything changed.
func (o *Orchestrator) Reload() (bool, error) {
	content, err := o.store.Load()
	if err != nil {
		if IsFresh(err) {
			return false, nil
		}
		return false, fmt.Errorf("reload: %w", err)
	}
	if content == o.lastPersisted {
		return false, nil
	}
	if strings.TrimSpace(content) == "" {
		// Writers that truncate before writing show up as an empty file first;
		// the follow-up event carries the real content.
		o.logger.Debug("ignoring empty artifact on reload", "path", o.store.Path())
		return false, nil
	}
	o.lastPersisted = content
	o.metrics.Reloads.Inc()
	o.logger.Info("artifact changed on disk, reloading", "path", o.store.Path(), "mode", o.state.Mode.String())
	o.state.Raw = content
	if o.state.Mode == RawView {
		o.state.Params = codegen.Extract(content, o.state.Params)
		o.state.Cursor = clampCursor(o.state.Cursor, content)
		o.suppressed(func() {
			o.notifyParams()
			o.notifyDocument()
		})
	} else {
		o.loadStructured(content)
	}
	o.record(history.TriggerReload, content)
	return true, nil
}

// Restore writes content verbatim as the artifact and reloads the active
// view from it.
func (o *Orchestrator) Restore(content string) error {
	mode := o.state.Mode
	o.state.Mode = RawView
	o.state.Raw = content
	_, err := o.persist(history.TriggerRestore)
	o.state.Mode = mode
	if mode == StructuredView {
		o.loadStructured(content)
	} else {
		o.state.Params = codegen.Extract(content, o.state.Params)
		o.state.Cursor = clampCursor(o.state.Cursor, content)
		o.suppressed(func() {
			o.notifyParams()
			o.notifyDocument()
		})
	}
	return err
}

func (o *Orchestrator) loadStructured(artifact string) {
	loaded := merge.LoadDocument(o.state.Params, artifact)
	o.state.Params = loaded.Params
	o.state.Document = loaded.Document
	o.state.Cursor = clampCursor(o.state.Cursor, loaded.Document)
	o.suppressed(func() {
		o.notifyParams()
		o.notifyDocument()
	})
}

func (o *Orchestrator) setText(text string, cursor int) {
	if o.state.Mode == RawView {
		o.state.Raw = text
	} else {
		o.state.Document = text
	}
	o.state.Cursor = clampCursor(cursor, text)
}

// suppressed runs fn with feedback suppression on, restoring the previous
// flag afterwards so nested calls stay suppressed.
func (o *Orchestrator) suppressed(fn func()) {
	prev := o.state.SuppressFeedback
	o.state.SuppressFeedback = true
	defer func() { o.state.SuppressFeedback = prev }()
	fn()
}

func (o *Orchestrator) notifyParams() {
	for _, fn := range o.paramsListeners {
		fn(o.state.Params.Clone())
	}
}

func (o *Orchestrator) notifyDocument() {
	text, cursor := o.Text(), o.state.Cursor
	for _, fn := range o.documentListeners {
		fn(text, cursor)
	}
}

func clampCursor(cursor int, text string) int {
	if cursor < 0 {
		return 0
	}
	if cursor > len(text) {
		return len(text)
	}
	return cursor
}

func countLines(text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n++
		}
	}
	return n
}
