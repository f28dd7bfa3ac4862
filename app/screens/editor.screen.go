package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Guerrilla-Interactive/codebot-cli/app"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/Guerrilla-Interactive/codebot-cli/app/screens/shared"
	"github.com/Guerrilla-Interactive/codebot-cli/app/workspace"
)

// UpdateScreenEditor handles keys on the editor screen: the parameter form on
// the left and the code editor on the right.
func UpdateScreenEditor(m app.Model, keyMsg tea.KeyMsg) (app.Model, tea.Cmd) {
	ws := m.Session.Workspace

	switch keyMsg.String() {
	case "tab", "shift+tab":
		return toggleFocus(m), cursor.Blink

	case "ctrl+r":
		err := ws.Toggle()
		m = drainPending(m)
		if err != nil {
			setError(&m, err)
		} else {
			setStatus(&m, "Switched to "+modeLabel(ws.Mode())+" view")
			m = markSaved(m)
		}
		return m, nil

	case "ctrl+s":
		if err := ws.Save(); err != nil {
			setError(&m, err)
			return m, nil
		}
		setStatus(&m, "Saved "+ws.Path())
		return markSaved(m), nil

	case "ctrl+p":
		m.CurrentScreen = app.ScreenPalette
		m.PaletteIndex = 0
		m.PalettePager.Page = 0
		return m, nil

	case "f1":
		m.CurrentScreen = app.ScreenHelp
		return m, nil

	case "ctrl+y":
		if err := clipboard.WriteAll(ws.Text()); err != nil {
			setError(&m, fmt.Errorf("copy failed: %w", err))
			return m, nil
		}
		setStatus(&m, "Copied "+modeLabel(ws.Mode())+" view to clipboard")
		return m, nil

	case "ctrl+v":
		text, err := clipboard.ReadAll()
		if err != nil {
			setError(&m, fmt.Errorf("paste failed: %w", err))
			return m, nil
		}
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		ws.SetCursor(editorOffset(m.Editor))
		if ws.InsertAtCursor(text) {
			m = drainPending(m)
			setStatus(&m, "Pasted")
		}
		return m, nil
	}

	if m.Focus == app.FocusForm {
		return updateForm(m, keyMsg)
	}
	return updateEditor(m, keyMsg)
}

func updateForm(m app.Model, keyMsg tea.KeyMsg) (app.Model, tea.Cmd) {
	ws := m.Session.Workspace
	descs := params.Descriptors()
	d := descs[m.ParamIndex]

	switch keyMsg.String() {
	case "up":
		return selectParam(m, m.ParamIndex-1), nil
	case "down":
		return selectParam(m, m.ParamIndex+1), nil
	case "+", "=", "-":
		n := 1
		if keyMsg.String() == "-" {
			n = -1
		}
		if err := ws.StepParam(d.Name, n); err != nil {
			setError(&m, err)
			return m, nil
		}
		m = drainPending(m)
		m.Inputs[m.ParamIndex].SetValue(ws.Params().Value(d.Name))
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.Inputs[m.ParamIndex].Value())
		if err := ws.SetParam(d.Name, value); err != nil {
			setError(&m, err)
			return m, nil
		}
		m = drainPending(m)
		m.Inputs[m.ParamIndex].SetValue(ws.Params().Value(d.Name))
		setStatus(&m, fmt.Sprintf("%s = %s", d.Name, ws.Params().Value(d.Name)))
		return selectParam(m, m.ParamIndex+1), nil
	case "esc":
		m.Inputs[m.ParamIndex].SetValue(ws.Params().Value(d.Name))
		return m, nil
	}

	var cmd tea.Cmd
	m.Inputs[m.ParamIndex], cmd = m.Inputs[m.ParamIndex].Update(keyMsg)
	return m, cmd
}

func updateEditor(m app.Model, keyMsg tea.KeyMsg) (app.Model, tea.Cmd) {
	ws := m.Session.Workspace
	if keyMsg.String() == "esc" {
		return toggleFocus(m), nil
	}

	before := m.Editor.Value()
	var cmd tea.Cmd
	m.Editor, cmd = m.Editor.Update(keyMsg)
	after := m.Editor.Value()
	cursor := editorOffset(m.Editor)

	if after == before {
		ws.SetCursor(cursor)
		return m, cmd
	}
	ws.Edit(after, cursor)
	return drainPending(m), cmd
}

// UpdateWorkspaceMsg handles messages that are not key presses but still
// reach the focused widget, like cursor blinks.
func UpdateWorkspaceMsg(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.Focus == app.FocusEditor {
		m.Editor, cmd = m.Editor.Update(msg)
	} else {
		m.Inputs[m.ParamIndex], cmd = m.Inputs[m.ParamIndex].Update(msg)
	}
	return m, cmd
}

// Autosave persists the active view. Failures only show up in the status line.
func Autosave(m app.Model) app.Model {
	ws := m.Session.Workspace
	ws.Autosave()
	if err := ws.LastError(); err != nil {
		setError(&m, err)
		return m
	}
	return markSaved(m)
}

// Reload picks up an external edit of the artifact.
func Reload(m app.Model) app.Model {
	changed, err := m.Session.Workspace.Reload()
	if err != nil {
		setError(&m, err)
		return m
	}
	if changed {
		m = drainPending(m)
		setStatus(&m, "Reloaded after external change")
	}
	return m
}

// drainPending copies whatever the orchestrator reported during the last
// call into the form and the editor.
func drainPending(m app.Model) app.Model {
	p := m.Pending
	if p.HasParams {
		for i, d := range params.Descriptors() {
			if m.Focus == app.FocusForm && i == m.ParamIndex && m.Inputs[i].Focused() && !p.HasText {
				// The user is typing here; enter commits, esc reverts.
				continue
			}
			m.Inputs[i].SetValue(p.Params.Value(d.Name))
		}
	}
	if p.HasText {
		loadEditor(&m.Editor, p.Text, p.Cursor)
	}
	*p = app.Pending{}
	return m
}

func selectParam(m app.Model, index int) app.Model {
	if index < 0 || index >= len(m.Inputs) {
		return m
	}
	m.Inputs[m.ParamIndex].Blur()
	m.ParamIndex = index
	m.Inputs[index].Focus()
	m.Inputs[index].CursorEnd()
	return m
}

func toggleFocus(m app.Model) app.Model {
	if m.Focus == app.FocusForm {
		m.Inputs[m.ParamIndex].Blur()
		m.Focus = app.FocusEditor
		m.Editor.Focus()
		return m
	}
	m.Editor.Blur()
	m.Focus = app.FocusForm
	m.Inputs[m.ParamIndex].Focus()
	return m
}

func markSaved(m app.Model) app.Model {
	m.LastSaved = time.Now()
	m.Session.MarkSaved()
	return m
}

func setStatus(m *app.Model, s string) {
	m.Status = s
	m.StatusIsError = false
}

func setError(m *app.Model, err error) {
	m.Status = err.Error()
	m.StatusIsError = true
}

func modeLabel(mode workspace.Mode) string {
	if mode == workspace.RawView {
		return "raw"
	}
	return "structured"
}

// loadEditor replaces the editor content and places the cursor at the byte
// offset the orchestrator reported.
func loadEditor(ta *textarea.Model, text string, cursor int) {
	ta.SetValue(text)
	row, col := shared.OffsetToRowCol(text, cursor)
	// SetValue leaves the cursor at the end; wrapped lines may need several
	// steps per row, so the loops are bounded by the text size.
	for guard := len(text); ta.Line() > row && guard > 0; guard-- {
		ta.CursorUp()
	}
	for guard := len(text); ta.Line() < row && guard > 0; guard-- {
		ta.CursorDown()
	}
	ta.SetCursor(col)
}

// editorOffset is the byte offset of the editor cursor.
func editorOffset(ta textarea.Model) int {
	info := ta.LineInfo()
	return shared.RowColToOffset(ta.Value(), ta.Line(), info.StartColumn+info.ColumnOffset)
}

// ViewScreenEditor renders the form, the editor and the status line.
func ViewScreenEditor(m app.Model) string {
	ws := m.Session.Workspace
	left := shared.ComputeLeftPanelWidth(m.TerminalWidth)

	var form strings.Builder
	form.WriteString(app.SubtitleStyle.Render("Parameters") + "\n\n")
	for i, d := range params.Descriptors() {
		label := d.Label
		if i == m.ParamIndex {
			label = app.HighlightStyle.Render("> " + label)
		} else {
			label = app.ChoiceStyle.Render("  " + label)
		}
		form.WriteString(label + "\n")
		form.WriteString("    " + m.Inputs[i].View() + "  " + app.PathStyle.Render(d.Hint()) + "\n")
	}

	formPane, editorPane := app.PaneStyle, app.PaneStyle
	if m.Focus == app.FocusForm {
		formPane = app.FocusedPaneStyle
	} else {
		editorPane = app.FocusedPaneStyle
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		formPane.Width(left).Render(form.String()),
		" ",
		editorPane.Render(m.Editor.View()),
	)

	header := app.TitleStyle.Render("codebot "+m.Version) + "  " + shared.ProjectHeader(m.ProjectPath, ws.Path())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		statusLine(m),
		shared.Footer("tab focus", "ctrl+r view", "ctrl+s save", "ctrl+p palette", "ctrl+y copy", "ctrl+v paste", "f1 help", "ctrl+c quit"),
	)
}

func statusLine(m app.Model) string {
	ws := m.Session.Workspace
	parts := []string{app.ModeStyle.Render(strings.ToUpper(modeLabel(ws.Mode())))}

	if line, ok := ws.Boundary(); ok {
		parts = append(parts, fmt.Sprintf("insert below line %d", line+1))
	} else {
		parts = append(parts, "no control_loop")
	}

	met := ws.Metrics()
	parts = append(parts, fmt.Sprintf("saves %g  extractions %g  substitutions %g  rejected %g",
		met.Total("persists_total"), met.Total("extractions_total"),
		met.Total("substitutions_total"), met.Total("rejected_insertions_total")))

	if m.Watching {
		parts = append(parts, "watching")
	}
	if !m.LastSaved.IsZero() {
		parts = append(parts, "saved "+m.LastSaved.Format("15:04:05"))
	}
	if m.Status != "" {
		if m.StatusIsError {
			parts = append(parts, app.ErrorStyle.Render(m.Status))
		} else {
			parts = append(parts, m.Status)
		}
	}
	return strings.Join(parts, "  ")
}
