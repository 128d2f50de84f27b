package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	if a.commandPalette.Visible {
		var cmd tea.Cmd
		a.commandPalette, cmd = a.commandPalette.Update(msg)
		return a, cmd
	}
	if a.modal.Visible {
		var cmd tea.Cmd
		a.modal, cmd = a.modal.Update(msg)
		return a, cmd
	}
	if a.help.Visible {
		var cmd tea.Cmd
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	}

	if a.handleGlobalKey(msg) {
		return a, nil
	}

	return a, a.updateScreen(msg)
}

// handleGlobalKey reports whether msg was consumed.
func (a *App) handleGlobalKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, a.keys.CommandPalette):
		a.commandPalette.SetCommands(a.paletteCommands())
		a.commandPalette.Open()
		return true
	case key.Matches(msg, a.keys.Help) && !a.typing():
		a.help.SetSize(a.width, a.height)
		a.help.Toggle()
		return true
	}
	return false
}
