package shared

import (
	"strings"

	"github.com/Guerrilla-Interactive/codebot-cli/app"
)

// Footer joins navigation tips with a consistent separator and applies
// the global help style for footers.
func Footer(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	text := strings.Join(parts, "  •  ")
	return app.HelpStyle.Render(text)
}

// RenderItemList renders a list with the selected entry highlighted.
func RenderItemList(items []string, selected int) string {
	var out string
	for i, val := range items {
		if i == selected {
			out += app.HighlightStyle.Render("> "+val) + "\n"
		} else {
			out += app.ChoiceStyle.Render("  "+val) + "\n"
		}
	}
	return out
}
