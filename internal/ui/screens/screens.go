// Package screens holds the per-route views of the TUI. Each screen reports
// user intent to the root model through msgs and never performs I/O itself.
package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/msgs"
)

// Brand is the product name shown in headers.
const Brand = "ChopURL"

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return msgs.NavigateMsg{Path: path} }
}

func emit(m tea.Msg) tea.Cmd {
	return func() tea.Msg { return m }
}

// center places block horizontally in the layout width.
func center(l layout.Layout, block string) string {
	return lipgloss.PlaceHorizontal(l.Width, lipgloss.Center, block)
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}
