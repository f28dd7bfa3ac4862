package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Guerrilla-Interactive/codebot-cli/app"
	"github.com/Guerrilla-Interactive/codebot-cli/app/screens/shared"
)

// UpdateScreenPalette moves through the snippet list. Enter inserts the
// selected snippet above the editor cursor; insertions the edit guard refuses
// leave the document untouched.
func UpdateScreenPalette(m app.Model, keyMsg tea.KeyMsg) (app.Model, tea.Cmd) {
	snippets := m.Palette.Snippets()

	switch keyMsg.String() {
	case "esc", "ctrl+p":
		m.CurrentScreen = app.ScreenEditor
		return m, nil
	case "up", "k":
		if m.PaletteIndex > 0 {
			m.PaletteIndex--
		}
	case "down", "j":
		if m.PaletteIndex < len(snippets)-1 {
			m.PaletteIndex++
		}
	case "left", "h":
		m.PalettePager.PrevPage()
		m.PaletteIndex = m.PalettePager.Page * m.PalettePager.PerPage
	case "right", "l":
		m.PalettePager.NextPage()
		m.PaletteIndex = m.PalettePager.Page * m.PalettePager.PerPage
	case "enter":
		if m.PaletteIndex < 0 || m.PaletteIndex >= len(snippets) {
			return m, nil
		}
		snippet := snippets[m.PaletteIndex]
		ws := m.Session.Workspace
		ws.SetCursor(editorOffset(m.Editor))
		if ws.InsertAtCursor(snippet.Text()) {
			m = drainPending(m)
			setStatus(&m, "Inserted "+snippet.Label)
		}
		m.CurrentScreen = app.ScreenEditor
		return m, nil
	}

	if m.PalettePager.PerPage > 0 {
		m.PalettePager.Page = m.PaletteIndex / m.PalettePager.PerPage
	}
	return m, nil
}

// ViewScreenPalette lists the snippets of the current page with a preview of
// the selected one.
func ViewScreenPalette(m app.Model) string {
	snippets := m.Palette.Snippets()
	category := make(map[string]string, len(snippets))
	for _, c := range m.Palette.Categories {
		for _, s := range c.Snippets {
			category[s.Key] = c.Name
		}
	}

	start, end := m.PalettePager.GetSliceBounds(len(snippets))
	labels := make([]string, 0, end-start)
	for _, s := range snippets[start:end] {
		labels = append(labels, s.Label+"  "+app.PathStyle.Render(category[s.Key]))
	}

	list := app.SubtitleStyle.Render("Snippets") + "\n\n" +
		shared.RenderItemList(labels, m.PaletteIndex-start) + "\n" +
		m.PalettePager.View()

	var preview string
	if m.PaletteIndex >= 0 && m.PaletteIndex < len(snippets) {
		preview = app.PathStyle.Render(snippets[m.PaletteIndex].Key) + "\n\n" + snippets[m.PaletteIndex].Text()
	}

	left := shared.ComputeLeftPanelWidth(m.TerminalWidth)
	right := shared.ComputeRightPanelWidth(m.TerminalWidth, left, 1) - 4
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		app.FocusedPaneStyle.Width(left).Render(list),
		" ",
		app.PaneStyle.Width(max(right, 20)).Render(strings.TrimRight(preview, "\n")),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		app.TitleStyle.Render("Insert snippet"),
		body,
		shared.Footer("↑/↓ select", "←/→ page", "enter insert at cursor", "esc back"),
	)
}
