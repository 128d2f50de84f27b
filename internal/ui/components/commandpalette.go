package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/theme"
)

// Command is an entry in the palette.
type Command struct {
	Name     string
	Shortcut string
	Msg      tea.Msg
}

type commandSource []Command

func (c commandSource) String(i int) string { return c[i].Name }
func (c commandSource) Len() int            { return len(c) }

// CommandPalette is a fuzzy command palette overlay.
type CommandPalette struct {
	Visible     bool
	input       textinput.Model
	commands    []Command
	defaults    []Command
	filtered    []Command
	cursor      int
	title       string
	placeholder string
	theme       theme.Theme
}

// NewCommandPalette creates a new command palette.
func NewCommandPalette(t theme.Theme) CommandPalette {
	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	ti.CharLimit = 64
	ti.Width = 54

	return CommandPalette{
		input:       ti,
		title:       "Command Palette",
		placeholder: ti.Placeholder,
		theme:       t,
	}
}

// SetTheme swaps the palette colors.
func (m *CommandPalette) SetTheme(t theme.Theme) {
	m.theme = t
}

// SetCommands replaces the default command set.
func (m *CommandPalette) SetCommands(cmds []Command) {
	m.defaults = cmds
	if !m.Visible {
		m.commands = cmds
		m.filtered = cmds
	}
}

// Open shows the palette with the default commands.
func (m *CommandPalette) Open() {
	m.open("Command Palette", "Type a command...", m.defaults)
}

// OpenThemePicker opens the palette in theme selection mode.
func (m *CommandPalette) OpenThemePicker(themeNames []string) {
	cmds := make([]Command, len(themeNames))
	for i, name := range themeNames {
		cmds[i] = Command{Name: name, Msg: msgs.SwitchThemeMsg{Name: name}}
	}
	m.open("Switch Theme", "Select theme...", cmds)
}

func (m *CommandPalette) open(title, placeholder string, cmds []Command) {
	m.Visible = true
	m.title = title
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	m.commands = cmds
	m.filtered = cmds
	m.cursor = 0
}

// Close hides the palette and restores the default commands.
func (m *CommandPalette) Close() {
	m.Visible = false
	m.input.Blur()
	m.commands = m.defaults
	m.filtered = m.defaults
	m.title = "Command Palette"
	m.input.Placeholder = m.placeholder
}

// Filtered returns the commands matching the current query.
func (m CommandPalette) Filtered() []Command { return m.filtered }

// Init implements tea.Model.
func (m CommandPalette) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m CommandPalette) Update(msg tea.Msg) (CommandPalette, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Close()
			return m, nil
		case "enter":
			if m.cursor < len(m.filtered) {
				selected := m.filtered[m.cursor].Msg
				m.Close()
				if selected == nil {
					return m, nil
				}
				return m, func() tea.Msg { return selected }
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if query == "" {
		m.filtered = m.commands
	} else {
		matches := fuzzy.FindFrom(query, commandSource(m.commands))
		m.filtered = make([]Command, len(matches))
		for i, match := range matches {
			m.filtered[i] = m.commands[match.Index]
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	return m, cmd
}

// View renders the command palette overlay.
func (m CommandPalette) View() string {
	if !m.Visible {
		return ""
	}

	boxWidth := 60
	rowWidth := boxWidth - 6

	title := lipgloss.NewStyle().
		Foreground(m.theme.Text).
		Bold(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center).
		Render(m.title)

	maxItems := min(len(m.filtered), 12)

	var items []string
	for i := 0; i < maxItems; i++ {
		c := m.filtered[i]
		name := truncate(c.Name, rowWidth-len(c.Shortcut)-1)
		gap := max(rowWidth-lipgloss.Width(name)-len(c.Shortcut), 1)

		if i == m.cursor {
			items = append(items, lipgloss.NewStyle().
				Background(m.theme.Overlay).
				Foreground(m.theme.Text).
				Width(boxWidth-4).
				Render(name+strings.Repeat(" ", gap)+c.Shortcut))
			continue
		}
		items = append(items, lipgloss.NewStyle().Foreground(m.theme.Text).Render(name)+
			strings.Repeat(" ", gap)+
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render(c.Shortcut))
	}
	if len(items) == 0 {
		items = append(items, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No matching commands"))
	}

	content := title + "\n\n" + m.input.View() + "\n\n" + strings.Join(items, "\n")

	return lipgloss.NewStyle().
		Width(boxWidth).
		Background(m.theme.Surface).
		Foreground(m.theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Padding(1, 2).
		Render(content)
}
