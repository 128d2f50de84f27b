package screens

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/theme"
)

// Loading renders while the session is being restored.
func Loading(l layout.Layout, s theme.Styles, spin string) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		s.Logo.Render(spin+" Loading..."),
		s.Muted.Render("Please wait..."),
	)
	return center(l, block)
}
