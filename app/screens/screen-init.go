package screens

import (
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Guerrilla-Interactive/codebot-cli/app"
	"github.com/Guerrilla-Interactive/codebot-cli/app/palette"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/Guerrilla-Interactive/codebot-cli/app/screens/shared"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// AutosaveMsg fires once per autosave period.
type AutosaveMsg struct{}

// AutosaveTick schedules the next AutosaveMsg.
func AutosaveTick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return AutosaveMsg{} })
}

// NewEditorModel builds the initial model for an opened session. The
// orchestrator's listeners are attached here and report into m.Pending.
func NewEditorModel(s *session.Session, pal *palette.Palette, version string) app.Model {
	pending := &app.Pending{}
	ws := s.Workspace
	ws.OnParamsChanged(func(p *params.Set) {
		pending.Params = p
		pending.HasParams = true
	})
	ws.OnDocumentChanged(func(text string, cursor int) {
		pending.Text = text
		pending.Cursor = cursor
		pending.HasText = true
	})

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.PerPage = 8
	pager.ActiveDot = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3600")).Render("•")
	pager.InactiveDot = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("•")
	pager.SetTotalPages(len(pal.Snippets()))

	m := app.Model{
		CurrentScreen:  app.ScreenEditor,
		Focus:          app.FocusForm,
		Version:        version,
		ProjectPath:    s.Root,
		Session:        s,
		Palette:        pal,
		Pending:        pending,
		Inputs:         newParamInputs(ws.Params()),
		Editor:         newEditor(),
		PalettePager:   pager,
		AutosaveEvery:  s.Config.AutosaveInterval(),
		TerminalWidth:  80,
		TerminalHeight: 24,
	}
	m.Inputs[0].Focus()
	loadEditor(&m.Editor, ws.Text(), ws.Cursor())
	if err := ws.LastError(); err != nil {
		setError(&m, err)
	}
	return Resize(m)
}

func newParamInputs(p *params.Set) []textinput.Model {
	descs := params.Descriptors()
	inputs := make([]textinput.Model, len(descs))
	for i, d := range descs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 10
		ti.Placeholder = d.Default
		ti.SetValue(p.Value(d.Name))
		inputs[i] = ti
	}
	return inputs
}

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = true
	ta.SetWidth(70)
	ta.SetHeight(20)
	ta.Blur()
	return ta
}

// Resize fits the editor into the space the form leaves over.
func Resize(m app.Model) app.Model {
	left := shared.ComputeLeftPanelWidth(m.TerminalWidth)
	width := m.TerminalWidth - left - 8
	if width < 20 {
		width = 20
	}
	height := m.TerminalHeight - 9
	if height < 5 {
		height = 5
	}
	m.Editor.SetWidth(width)
	m.Editor.SetHeight(height)
	return m
}
