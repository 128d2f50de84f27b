package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/chop/internal/ui/theme"
)

// clearStatusMsg clears a temporary status message.
type clearStatusMsg struct {
	id int
}

// StatusBar is a full-width bottom status bar.
type StatusBar struct {
	statusCode int
	duration   time.Duration
	size       int64
	message    string
	messageID  int
	route      string
	user       string
	hint       string
	width      int
	theme      theme.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(t theme.Theme) StatusBar {
	return StatusBar{
		theme: t,
		hint:  "?:help  Ctrl+K:commands",
	}
}

// SetTheme swaps the palette.
func (m *StatusBar) SetTheme(t theme.Theme) {
	m.theme = t
}

// SetStatus records the outcome of the last shorten request.
func (m *StatusBar) SetStatus(code int, duration time.Duration, size int64) {
	m.statusCode = code
	m.duration = duration
	m.size = size
}

// SetWidth sets the available width.
func (m *StatusBar) SetWidth(w int) {
	m.width = w
}

// SetRoute sets the current route path shown in the center.
func (m *StatusBar) SetRoute(path string) {
	m.route = path
}

// SetUser sets the signed-in user label. Empty means signed out.
func (m *StatusBar) SetUser(name string) {
	m.user = name
}

// SetHint replaces the key hint on the right.
func (m *StatusBar) SetHint(hint string) {
	m.hint = hint
}

// SetMessage sets a status message. A positive duration clears it afterwards.
func (m *StatusBar) SetMessage(text string, d time.Duration) tea.Cmd {
	m.message = text
	m.messageID++
	if d <= 0 {
		return nil
	}
	id := m.messageID
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{id: id} })
}

// Message returns the current status message.
func (m StatusBar) Message() string { return m.message }

// Init implements tea.Model.
func (m StatusBar) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	switch msg := msg.(type) {
	case clearStatusMsg:
		if msg.id == m.messageID {
			m.message = ""
		}
	}
	return m, nil
}

// View renders the status bar.
func (m StatusBar) View() string {
	barStyle := lipgloss.NewStyle().
		Background(m.theme.Surface).
		Foreground(m.theme.Text).
		Width(m.width)
	seg := func(fg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(fg).Background(m.theme.Surface)
	}

	// Left: message, or the last request's status, duration and size
	var leftParts []string
	if m.message != "" {
		leftParts = append(leftParts, seg(m.theme.Text).Render(m.message))
	} else {
		if m.statusCode > 0 {
			leftParts = append(leftParts, seg(m.theme.StatusColor(m.statusCode)).
				Bold(true).
				Render(fmt.Sprintf("%d", m.statusCode)))
		}
		if m.duration > 0 {
			leftParts = append(leftParts, seg(m.theme.Subtext).Render(formatDuration(m.duration)))
		}
		if m.size > 0 {
			leftParts = append(leftParts, seg(m.theme.Subtext).Render(humanize.IBytes(uint64(m.size))))
		}
	}
	left := strings.Join(leftParts, " │ ")

	center := ""
	if m.route != "" {
		center = seg(m.theme.Accent).Bold(true).Render("[" + m.route + "]")
	}

	var rightParts []string
	if m.user != "" {
		rightParts = append(rightParts, seg(m.theme.Success).Bold(true).Render(m.user))
	}
	if m.hint != "" {
		rightParts = append(rightParts, seg(m.theme.Muted).Render(m.hint))
	}
	right := strings.Join(rightParts, " ")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent+2 >= m.width {
		line := " " + left + " " + center + " " + right
		return barStyle.Render(line)
	}

	remaining := m.width - totalContent - 2 // padding
	gap1 := remaining / 2
	gap2 := remaining - gap1

	line := " " + left +
		strings.Repeat(" ", gap1) + center +
		strings.Repeat(" ", gap2) + right

	return barStyle.Render(line)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
