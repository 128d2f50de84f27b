package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/route"
	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/theme"
)

const logo = ` ██████╗██╗  ██╗ ██████╗ ██████╗
██╔════╝██║  ██║██╔═══██╗██╔══██╗
██║     ███████║██║   ██║██████╔╝
██║     ██╔══██║██║   ██║██╔═══╝
╚██████╗██║  ██║╚██████╔╝██║
 ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚═╝`

// Landing is the public welcome screen.
type Landing struct {
	signedIn bool
	styles   theme.Styles
}

// NewLanding creates the landing screen.
func NewLanding(s theme.Styles) Landing {
	return Landing{styles: s}
}

// SetStyles swaps the styles.
func (m *Landing) SetStyles(s theme.Styles) { m.styles = s }

// SetSignedIn switches the call to action between the auth screens and home.
func (m *Landing) SetSignedIn(v bool) { m.signedIn = v }

// Update handles landing keys.
func (m Landing) Update(msg tea.Msg) (Landing, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "s", "l":
		return m, navigate(string(route.SignIn))
	case "u":
		return m, navigate(string(route.SignUp))
	case "h", "enter":
		return m, navigate(string(route.Home))
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// View renders the landing screen.
func (m Landing) View(l layout.Layout) string {
	var head string
	if l.Compact {
		head = m.styles.Logo.Render(Brand)
	} else {
		head = m.styles.Logo.Render(logo)
	}

	tagline := joinLines(
		m.styles.Title.Render("Shorten. Share. Track."),
		m.styles.Logo.Render("Smarter Links for the Web."),
	)
	blurb := m.styles.Subtitle.Render("Turn long, unwieldy URLs into short links you can paste anywhere.")

	var actions string
	if m.signedIn {
		actions = lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.ButtonActive.Render("enter  Start Shortening"),
			"  ",
			m.styles.Button.Render("q  Quit"),
		)
	} else {
		actions = lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.ButtonActive.Render("u  Sign up free"),
			"  ",
			m.styles.Button.Render("s  Log In"),
			"  ",
			m.styles.Button.Render("q  Quit"),
		)
	}

	block := lipgloss.JoinVertical(lipgloss.Center, head, "", tagline, "", blurb, "", actions)
	return center(l, block)
}
