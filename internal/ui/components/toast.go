package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/theme"
)

const defaultToastDuration = 3 * time.Second

// toastDismissMsg dismisses the toast that was shown with the same id.
type toastDismissMsg struct {
	id int
}

// Toast is an auto-dismiss notification.
type Toast struct {
	Visible  bool
	title    string
	text     string
	level    msgs.ToastLevel
	id       int
	duration time.Duration
	theme    theme.Theme
}

// NewToast creates a new toast component.
func NewToast(t theme.Theme) Toast {
	return Toast{
		theme:    t,
		duration: defaultToastDuration,
	}
}

// SetTheme swaps the palette.
func (m *Toast) SetTheme(t theme.Theme) {
	m.theme = t
}

// Show displays a toast and returns a Cmd for auto-dismiss. A newer toast
// replaces an older one; the older one's timer is then ignored.
func (m *Toast) Show(msg msgs.ToastMsg) tea.Cmd {
	m.Visible = true
	m.title = msg.Title
	m.text = msg.Text
	m.level = msg.Level
	m.id++
	m.duration = msg.Duration
	if m.duration <= 0 {
		m.duration = defaultToastDuration
	}
	id := m.id
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

// Title returns the current title.
func (m Toast) Title() string { return m.title }

// Text returns the current body text.
func (m Toast) Text() string { return m.text }

// Level returns the current level.
func (m Toast) Level() msgs.ToastLevel { return m.level }

// Init implements tea.Model.
func (m Toast) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Toast) Update(msg tea.Msg) (Toast, tea.Cmd) {
	switch msg := msg.(type) {
	case toastDismissMsg:
		if msg.id == m.id {
			m.Visible = false
			m.title = ""
			m.text = ""
		}
	}
	return m, nil
}

// View renders the toast notification.
func (m Toast) View() string {
	if !m.Visible || (m.text == "" && m.title == "") {
		return ""
	}

	var fg lipgloss.Color
	switch m.level {
	case msgs.ToastSuccess:
		fg = m.theme.Success
	case msgs.ToastWarning:
		fg = m.theme.Warning
	case msgs.ToastError:
		fg = m.theme.Error
	default:
		fg = m.theme.Accent
	}

	body := m.text
	if m.title != "" {
		title := lipgloss.NewStyle().Foreground(fg).Bold(true).Render(m.title)
		if body == "" {
			body = title
		} else {
			body = title + "  " + lipgloss.NewStyle().Foreground(m.theme.Text).Render(body)
		}
	}

	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(m.theme.Surface).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fg)

	return style.Render(body)
}
