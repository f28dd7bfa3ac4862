package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Guerrilla-Interactive/codebot-cli/app/metrics"
)

// SummarizeSync returns the sync counters as a grid of up to maxCols columns.
func SummarizeSync(samples []metrics.Sample, maxCols int) string {
	items := SyncItems(samples)
	if len(items) == 0 {
		return PathStyle.Render("no sync activity yet")
	}
	return RenderItemsHorizontally(items, maxCols)
}

// SyncItems turns samples into short "name value" labels. The namespace and
// the _total suffix are dropped; label values are appended to the name.
// Zero counters are skipped.
func SyncItems(samples []metrics.Sample) []string {
	var items []string
	for _, s := range samples {
		if s.Value == 0 {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(s.Name, "codebot_"), "_total")
		name = strings.ReplaceAll(name, "_", " ")
		if s.Labels != "" {
			// outcome="preserved" -> preserved
			if _, v, ok := strings.Cut(s.Labels, "="); ok {
				name += " " + strings.Trim(v, `"`)
			}
		}
		items = append(items, fmt.Sprintf("%s %g", name, s.Value))
	}
	return items
}

// RenderItemsHorizontally displays items in a grid of up to maxCols columns
// with a right margin for spacing. Items fill columns top to bottom.
func RenderItemsHorizontally(items []string, maxCols int) string {
	if len(items) == 0 {
		return ""
	}
	if maxCols < 1 {
		maxCols = 1
	}

	cols := maxCols
	if len(items) < cols {
		cols = len(items)
	}
	rows := (len(items) + cols - 1) / cols

	colStyle := lipgloss.NewStyle().
		MarginRight(2).
		Align(lipgloss.Left).
		Foreground(lipgloss.Color("#888"))

	var lines []string
	for r := 0; r < rows; r++ {
		var line string
		for c := 0; c < cols; c++ {
			index := c*rows + r
			if index >= len(items) {
				break
			}
			if c > 0 {
				line += lipgloss.NewStyle().Foreground(lipgloss.Color("#888")).Render("•  ")
			}
			line += colStyle.Render(items[index])
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}
