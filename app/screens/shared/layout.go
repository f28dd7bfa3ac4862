package shared

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

// ComputeLeftPanelWidth returns a stable width for the parameter form based
// on the terminal width, leaving the rest to the editor.
//
// Rules:
// - Target ~35% of terminal width
// - Clamp to [minLeft, maxLeft]
// - Reserve a single-space gap and at least rightMin for the editor
func ComputeLeftPanelWidth(termWidth int) int {
	const (
		defaultLeft = 44
		minLeft     = 34
		maxLeft     = 56
		gap         = 1
		rightMin    = 40
	)
	if termWidth <= 0 {
		return defaultLeft
	}
	left := (termWidth * 7) / 20 // ~35%
	if left < minLeft {
		left = minLeft
	}
	if left > maxLeft {
		left = maxLeft
	}
	// Ensure the right panel has at least rightMin (plus gap)
	if left+gap+rightMin > termWidth {
		left = termWidth - gap - rightMin
	}
	if left < 20 { // last-ditch lower bound for very small terminals
		left = 20
	}
	return left
}

// ComputeRightPanelWidth returns the remaining width after the left panel and a gap.
func ComputeRightPanelWidth(termWidth, left, gap int) int {
	w := termWidth - left - gap
	if w < 0 {
		w = 0
	}
	return w
}

// ProjectHeader renders a standard gray header with the project folder name
// and the artifact path relative to it.
func ProjectHeader(projectPath, artifactPath string) string {
	folderName := filepath.Base(projectPath)
	rel, err := filepath.Rel(projectPath, artifactPath)
	if err != nil {
		rel = artifactPath
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#888")).Render(fmt.Sprintf("▣ %s  %s", folderName, filepath.ToSlash(rel)))
}

// BaseContainer wraps content with padding and a margin.
func BaseContainer(content string) string {
	containerStyle := lipgloss.NewStyle().
		Padding(1, 2).
		Margin(1)
	return containerStyle.Render(content)
}
