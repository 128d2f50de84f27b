package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/theme"
)

// HistoryList shows the recent URLs with a fuzzy filter.
type HistoryList struct {
	entries   history.List
	filtered  history.List
	cursor    int
	filter    textinput.Model
	filtering bool
	focused   bool
	width     int
	theme     theme.Theme
	styles    theme.Styles
}

// NewHistoryList creates an empty history list.
func NewHistoryList(t theme.Theme, s theme.Styles) HistoryList {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Prompt = "/ "
	ti.CharLimit = 128

	return HistoryList{
		filter: ti,
		theme:  t,
		styles: s,
		width:  40,
	}
}

// SetTheme swaps the palette and styles.
func (m *HistoryList) SetTheme(t theme.Theme, s theme.Styles) {
	m.theme = t
	m.styles = s
}

// SetEntries replaces the list contents and reapplies the filter.
func (m *HistoryList) SetEntries(entries history.List) {
	m.entries = entries
	m.applyFilter()
}

// SetWidth sets the rendering width.
func (m *HistoryList) SetWidth(w int) {
	m.width = w
	m.filter.Width = max(w-6, 10)
}

// Focus gives the list keyboard focus.
func (m *HistoryList) Focus() {
	m.focused = true
}

// Blur removes keyboard focus and leaves filter editing.
func (m *HistoryList) Blur() {
	m.focused = false
	m.filtering = false
	m.filter.Blur()
}

// Focused reports whether the list has focus.
func (m HistoryList) Focused() bool { return m.focused }

// Filtering reports whether the filter input is being edited.
func (m HistoryList) Filtering() bool { return m.filtering }

// Visible returns the entries that pass the filter.
func (m HistoryList) Visible() history.List { return m.filtered }

// Cursor returns the selected row.
func (m HistoryList) Cursor() int { return m.cursor }

// Selected returns the entry under the cursor.
func (m HistoryList) Selected() (history.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return history.Entry{}, false
	}
	return m.filtered[m.cursor], true
}

func (m *HistoryList) applyFilter() {
	m.filtered = history.Match(m.entries, strings.TrimSpace(m.filter.Value()))
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m HistoryList) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HistoryList) Update(msg tea.Msg) (HistoryList, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch keyMsg.String() {
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "j", "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(m.filtered)-1, 0)
	case "enter", "y":
		if e, ok := m.Selected(); ok {
			return m, func() tea.Msg { return msgs.CopyMsg{Text: e.ShortURL} }
		}
	case "o":
		if e, ok := m.Selected(); ok {
			return m, func() tea.Msg { return msgs.OpenURLMsg{URL: e.ShortURL} }
		}
	case "x":
		if len(m.entries) > 0 {
			return m, func() tea.Msg { return msgs.ConfirmClearHistoryMsg{} }
		}
	}
	return m, nil
}

// View renders the list. An empty history renders nothing.
func (m HistoryList) View() string {
	if len(m.entries) == 0 {
		return ""
	}

	inner := max(m.width-4, 10)
	title := m.styles.Title.Render("Recent URLs")
	if m.focused {
		title = m.styles.Logo.Render("Recent URLs")
	}

	var lines []string
	lines = append(lines, title)
	if m.filtering || m.filter.Value() != "" {
		lines = append(lines, m.filter.View())
	}

	if len(m.filtered) == 0 {
		lines = append(lines, m.styles.Muted.Render("No matches"))
	}
	for i, e := range m.filtered {
		short := m.styles.URL.Render(truncate(e.ShortURL, inner-2))
		long := m.styles.Muted.Render(truncate(e.LongURL, inner-2))
		marker := "  "
		if m.focused && i == m.cursor {
			marker = m.styles.Key.Render("> ")
		}
		lines = append(lines, marker+short, "  "+long)
	}

	if m.focused {
		lines = append(lines, m.styles.Hint.Render("enter copy · o open · / filter · x clear"))
	}

	border := m.theme.Muted
	if m.focused {
		border = m.theme.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(m.width-2, 12)).
		Render(strings.Join(lines, "\n"))
}

// truncate shortens s to n display cells, ending with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
