package app

import (
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Guerrilla-Interactive/codebot-cli/app/palette"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/Guerrilla-Interactive/codebot-cli/app/session"
)

// Screen indicates which screen is currently shown.
type Screen int

const (
	ScreenEditor Screen = iota
	ScreenPalette
	ScreenHelp
)

// Focus is the pane of the editor screen that receives keys.
type Focus int

const (
	FocusForm Focus = iota
	FocusEditor
)

// Pending collects what the orchestrator's listeners reported during the last
// operation. The screen drains it after each call so the form and editor show
// what the orchestrator derived.
type Pending struct {
	Text      string
	Cursor    int
	HasText   bool
	Params    *params.Set
	HasParams bool
}

// Model is the primary application state shared by all screens.
type Model struct {
	CurrentScreen Screen
	Focus         Focus
	Version       string
	ProjectPath   string

	Session *session.Session
	Palette *palette.Palette
	Pending *Pending

	// Parameter form, one input per descriptor in table order.
	Inputs     []textinput.Model
	ParamIndex int

	Editor       textarea.Model
	PaletteIndex int
	PalettePager paginator.Model

	Status        string
	StatusIsError bool
	LastSaved     time.Time

	AutosaveEvery time.Duration
	Watching      bool

	TerminalWidth  int
	TerminalHeight int
}

var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	SubtitleStyle  = lipgloss.NewStyle().Bold(true)
	HighlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
	ChoiceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	DocStyle       = lipgloss.NewStyle().Padding(1, 2).Margin(1, 2)
	HelpStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#888888"))
	PathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	ModeStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#ff3600")).Padding(0, 1)

	// PaneStyle frames the form and the editor; the focused pane gets an accent border.
	PaneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	FocusedPaneStyle = PaneStyle.BorderForeground(lipgloss.Color("#ff3600"))
)
