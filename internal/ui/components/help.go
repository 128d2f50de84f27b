package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/ui/theme"
)

type helpSection struct {
	Title    string
	Bindings []helpBinding
}

type helpBinding struct {
	Key  string
	Desc string
}

var helpSections = []helpSection{
	{
		Title: "General",
		Bindings: []helpBinding{
			{"Ctrl+C", "Quit"},
			{"Ctrl+K", "Open command palette"},
			{"?", "Toggle this help"},
			{"Tab / Shift+Tab", "Cycle focus"},
			{"Esc", "Back / close overlay"},
		},
	},
	{
		Title: "Landing",
		Bindings: []helpBinding{
			{"s", "Sign in"},
			{"u", "Sign up"},
			{"h / Enter", "Go to the shortener"},
			{"q", "Quit"},
		},
	},
	{
		Title: "Sign in / Sign up",
		Bindings: []helpBinding{
			{"Enter", "Submit"},
			{"Ctrl+G", "Continue with Google"},
			{"Space", "Accept terms (sign up)"},
			{"Ctrl+N", "Switch between sign in and sign up"},
		},
	},
	{
		Title: "Shortener",
		Bindings: []helpBinding{
			{"Enter", "Shorten link"},
			{"Ctrl+A", "Toggle custom alias"},
			{"Ctrl+Y", "Copy short URL"},
			{"Ctrl+B", "Open short URL in browser"},
			{"Ctrl+L", "Clear history"},
			{"Ctrl+X", "Sign out"},
		},
	},
	{
		Title: "Recent URLs",
		Bindings: []helpBinding{
			{"j / k", "Move cursor down / up"},
			{"Enter / y", "Copy selected short URL"},
			{"o", "Open selected short URL"},
			{"/", "Filter"},
			{"x", "Clear history"},
		},
	},
}

// Help is a help overlay showing keybindings.
type Help struct {
	Visible  bool
	viewport viewport.Model
	theme    theme.Theme
	width    int
	height   int
	ready    bool
}

// NewHelp creates a new help overlay.
func NewHelp(t theme.Theme) Help {
	return Help{theme: t}
}

// SetTheme swaps the palette.
func (m *Help) SetTheme(t theme.Theme) {
	m.theme = t
	m.ready = false
}

// SetSize sets the terminal dimensions for centering.
func (m *Help) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.Visible {
		m.buildViewport()
	}
}

// Toggle toggles help visibility.
func (m *Help) Toggle() {
	m.Visible = !m.Visible
	if m.Visible {
		m.buildViewport()
	}
}

func (m *Help) buildViewport() {
	boxWidth := 64
	contentWidth := boxWidth - 6 // padding + border

	keyStyle := lipgloss.NewStyle().
		Foreground(m.theme.Accent).
		Bold(true).
		Width(18).
		Align(lipgloss.Right)

	descStyle := lipgloss.NewStyle().
		Foreground(m.theme.Text)

	sectionStyle := lipgloss.NewStyle().
		Foreground(m.theme.Link).
		Bold(true).
		MarginTop(1)

	sepStyle := lipgloss.NewStyle().
		Foreground(m.theme.Muted)

	var lines []string
	for _, section := range helpSections {
		lines = append(lines, sectionStyle.Render(section.Title))
		lines = append(lines, sepStyle.Render(strings.Repeat("─", contentWidth)))

		for _, b := range section.Bindings {
			lines = append(lines, keyStyle.Render(b.Key)+sepStyle.Render(" │ ")+descStyle.Render(b.Desc))
		}
	}

	vpHeight := m.height - 8
	if vpHeight < 10 {
		vpHeight = 10
	}

	m.viewport = viewport.New(contentWidth, vpHeight)
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.ready = true
}

// Init implements tea.Model.
func (m Help) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Help) Update(msg tea.Msg) (Help, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "?", "q":
			m.Visible = false
			return m, nil
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the help overlay.
func (m Help) View() string {
	if !m.Visible {
		return ""
	}

	if !m.ready {
		m.buildViewport()
	}

	title := lipgloss.NewStyle().
		Foreground(m.theme.Text).
		Bold(true).
		Width(58).
		Align(lipgloss.Center).
		Render("Keyboard Shortcuts")

	return lipgloss.NewStyle().
		Width(64).
		Background(m.theme.Surface).
		Foreground(m.theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Padding(1, 2).
		Render(title + "\n\n" + m.viewport.View())
}
