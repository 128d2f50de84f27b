package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/route"
	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/theme"
)

// NotFound is shown for unknown routes.
type NotFound struct {
	path   string
	styles theme.Styles
}

// NewNotFound creates the not-found screen.
func NewNotFound(s theme.Styles) NotFound {
	return NotFound{styles: s}
}

// SetStyles swaps the styles.
func (m *NotFound) SetStyles(s theme.Styles) { m.styles = s }

// SetPath records the path that failed to resolve.
func (m *NotFound) SetPath(p string) { m.path = p }

// Update handles keys on the not-found screen.
func (m NotFound) Update(msg tea.Msg) (NotFound, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "esc", "h":
			return m, navigate(string(route.Landing))
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the not-found screen.
func (m NotFound) View(l layout.Layout) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Logo.Render("404"),
		m.styles.Title.Render("Oops! Page not found"),
		m.styles.Muted.Render(m.path),
		"",
		m.styles.ButtonActive.Render("enter  Return to Home"),
	)
	return center(l, block)
}
