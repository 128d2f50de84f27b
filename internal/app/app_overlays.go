package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/route"
	"github.com/sadopc/chop/internal/ui/components"
	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/theme"
)

func (a App) handleSwitchTheme(msg msgs.SwitchThemeMsg) (tea.Model, tea.Cmd) {
	if msg.Name == "" {
		a.commandPalette.OpenThemePicker(theme.Names())
		return a, nil
	}

	t := theme.Resolve(msg.Name, a.deps.ThemesDir)
	s := theme.NewStyles(t)
	a.theme = t
	a.styles = s

	a.landing.SetStyles(s)
	a.signIn.SetStyles(s)
	a.signUp.SetStyles(s)
	a.home.SetTheme(t, s)
	a.notFound.SetStyles(s)

	a.statusBar.SetTheme(t)
	a.commandPalette.SetTheme(t)
	a.help.SetTheme(t)
	a.toast.SetTheme(t)
	a.modal.SetTheme(t)
	a.spinner.Style = lipgloss.NewStyle().Foreground(t.Accent)

	return a, a.toast.Show(msgs.ToastMsg{Title: "Theme: " + t.Name, Level: msgs.ToastInfo, Duration: 2 * time.Second})
}

// paletteCommands lists the commands that make sense for the current state.
func (a App) paletteCommands() []components.Command {
	var cmds []components.Command
	if a.user != nil {
		cmds = append(cmds,
			components.Command{Name: "Go to Shortener", Msg: msgs.NavigateMsg{Path: string(route.Home)}},
			components.Command{Name: "Sign Out", Shortcut: "Ctrl+X", Msg: msgs.AuthRequestMsg{Method: msgs.AuthSignOut}},
		)
	} else {
		cmds = append(cmds,
			components.Command{Name: "Log In", Msg: msgs.NavigateMsg{Path: string(route.SignIn)}},
			components.Command{Name: "Sign Up for Free", Msg: msgs.NavigateMsg{Path: string(route.SignUp)}},
			components.Command{Name: "Continue with Google", Msg: msgs.AuthRequestMsg{Method: msgs.AuthGoogle}},
		)
	}
	cmds = append(cmds,
		components.Command{Name: "Go to Landing", Msg: msgs.NavigateMsg{Path: string(route.Landing)}},
		components.Command{Name: "Clear History", Shortcut: "Ctrl+L", Msg: msgs.ConfirmClearHistoryMsg{}},
		components.Command{Name: "Switch Theme", Msg: msgs.SwitchThemeMsg{}},
		components.Command{Name: "Help", Shortcut: "?", Msg: msgs.ShowHelpMsg{}},
		components.Command{Name: "Quit", Shortcut: "Ctrl+C", Msg: tea.QuitMsg{}},
	)
	return cmds
}
