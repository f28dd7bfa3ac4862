package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Guerrilla-Interactive/codebot-cli/app"
	"github.com/Guerrilla-Interactive/codebot-cli/app/screens/shared"
)

var keyHelp = [][2]string{
	{"tab", "switch between form and editor"},
	{"↑/↓", "select parameter"},
	{"+ / -", "step the selected parameter"},
	{"enter", "commit the typed value"},
	{"esc", "revert the typed value"},
	{"ctrl+r", "toggle structured/raw view"},
	{"ctrl+s", "save now"},
	{"ctrl+p", "snippet palette"},
	{"ctrl+y", "copy the active view"},
	{"ctrl+v", "paste above the cursor line"},
	{"ctrl+c", "save and quit"},
}

// UpdateScreenHelp returns to the editor on any key.
func UpdateScreenHelp(m app.Model, keyMsg tea.KeyMsg) (app.Model, tea.Cmd) {
	m.CurrentScreen = app.ScreenEditor
	return m, nil
}

// ViewScreenHelp shows the key bindings and the sync counters of this session.
func ViewScreenHelp(m app.Model) string {
	var b strings.Builder
	b.WriteString(app.TitleStyle.Render("Keys") + "\n\n")
	for _, kv := range keyHelp {
		b.WriteString(fmt.Sprintf("  %s %s\n", app.HighlightStyle.Render(fmt.Sprintf("%-8s", kv[0])), kv[1]))
	}

	b.WriteString("\n" + app.TitleStyle.Render("Session") + "\n\n")
	b.WriteString(app.PathStyle.Render(m.Session.Workspace.Path()) + "\n\n")
	samples, err := m.Session.Workspace.Metrics().Snapshot()
	if err != nil {
		b.WriteString(app.ErrorStyle.Render(err.Error()) + "\n")
	} else {
		b.WriteString(app.SummarizeSync(samples, 3))
	}

	b.WriteString("\n" + shared.Footer("any key back"))
	return shared.BaseContainer(b.String())
}
