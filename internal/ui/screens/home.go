package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/ui/components"
	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/theme"
)

type homeFocus int

const (
	focusURL homeFocus = iota
	focusAlias
	focusHistory
)

// Home is the shortener screen.
type Home struct {
	url       textinput.Model
	alias     textinput.Model
	showAlias bool
	focus     homeFocus
	busy      bool
	errText   string
	result    components.ResultCard
	history   components.HistoryList
	user      string
	styles    theme.Styles
}

// NewHome creates the shortener screen.
func NewHome(t theme.Theme, s theme.Styles) Home {
	url := textinput.New()
	url.Placeholder = "Paste your long, unwieldy URL here..."
	url.CharLimit = 4096
	url.Prompt = ""

	alias := textinput.New()
	alias.Placeholder = "my-custom-alias"
	alias.CharLimit = 64
	alias.Prompt = ""

	h := Home{
		url:     url,
		alias:   alias,
		result:  components.NewResultCard(s),
		history: components.NewHistoryList(t, s),
		styles:  s,
	}
	h.url.Focus()
	return h
}

// SetTheme swaps palette and styles.
func (m *Home) SetTheme(t theme.Theme, s theme.Styles) {
	m.styles = s
	m.result.SetStyles(s)
	m.history.SetTheme(t, s)
}

// SetLayout sizes inputs and panels.
func (m *Home) SetLayout(l layout.Layout) {
	inner := max(l.FormWidth-6, 20)
	m.url.Width = inner
	m.alias.Width = inner
	m.result.SetWidth(l.FormWidth)
	m.history.SetWidth(l.HistoryWidth)
}

// SetUser sets the greeting name. Empty hides the greeting.
func (m *Home) SetUser(name string) { m.user = name }

// SetHistory replaces the recent URL list.
func (m *Home) SetHistory(entries history.List) {
	m.history.SetEntries(entries)
	if len(entries) == 0 && m.focus == focusHistory {
		m.setFocus(focusURL)
	}
}

// SetError shows text under the URL input until the URL is edited. Empty
// clears it.
func (m *Home) SetError(text string) { m.errText = text }

// Err returns the inline error text.
func (m Home) Err() string { return m.errText }

// StartShortening clears the previous result and marks the form busy.
func (m *Home) StartShortening() {
	m.busy = true
	m.errText = ""
	m.result.Clear()
}

// FinishShortening leaves the busy state. shortURL is empty on failure.
func (m *Home) FinishShortening(shortURL, longURL string) {
	m.busy = false
	if shortURL != "" {
		m.result.Set(shortURL, longURL)
	}
}

// MarkCopied flags the result card as copied when it shows text.
func (m *Home) MarkCopied(text string) {
	if text != "" && text == m.result.ShortURL() {
		m.result.MarkCopied()
	}
}

// Busy reports whether a shorten request is in flight.
func (m Home) Busy() bool { return m.busy }

// Result returns the result card.
func (m Home) Result() components.ResultCard { return m.result }

// History returns the history list.
func (m Home) History() components.HistoryList { return m.history }

// URL returns the typed URL.
func (m Home) URL() string { return m.url.Value() }

// AliasVisible reports whether the alias input is shown.
func (m Home) AliasVisible() bool { return m.showAlias }

// Typing reports whether printable keys go to a text input.
func (m Home) Typing() bool {
	return m.focus != focusHistory || m.history.Filtering()
}

// Reset clears inputs and the result card for a new session.
func (m *Home) Reset() {
	m.url.SetValue("")
	m.alias.SetValue("")
	m.showAlias = false
	m.busy = false
	m.errText = ""
	m.result.Clear()
	m.setFocus(focusURL)
}

func (m *Home) setFocus(f homeFocus) {
	m.focus = f
	m.url.Blur()
	m.alias.Blur()
	m.history.Blur()
	switch f {
	case focusURL:
		m.url.Focus()
	case focusAlias:
		m.alias.Focus()
	case focusHistory:
		m.history.Focus()
	}
}

func (m *Home) cycle(reverse bool) {
	order := []homeFocus{focusURL}
	if m.showAlias {
		order = append(order, focusAlias)
	}
	if len(m.history.Visible()) > 0 || m.history.Filtering() {
		order = append(order, focusHistory)
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	if reverse {
		idx = (idx - 1 + len(order)) % len(order)
	} else {
		idx = (idx + 1) % len(order)
	}
	m.setFocus(order[idx])
}

func (m *Home) toggleAlias() {
	m.showAlias = !m.showAlias
	if m.showAlias {
		m.setFocus(focusAlias)
		return
	}
	m.alias.SetValue("")
	if m.focus == focusAlias {
		m.setFocus(focusURL)
	}
}

func (m Home) shortenRequest() tea.Msg {
	alias := ""
	if m.showAlias {
		alias = strings.TrimSpace(m.alias.Value())
	}
	return msgs.ShortenRequestMsg{Input: strings.TrimSpace(m.url.Value()), Alias: alias}
}

// Update handles shortener keys.
func (m Home) Update(msg tea.Msg) (Home, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	if m.focus == focusHistory && m.history.Filtering() {
		return m.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "tab":
		m.cycle(false)
		return m, nil
	case "shift+tab":
		m.cycle(true)
		return m, nil
	case "ctrl+a":
		m.toggleAlias()
		return m, nil
	case "ctrl+y":
		if s := m.result.ShortURL(); s != "" {
			return m, emit(msgs.CopyMsg{Text: s})
		}
		return m, nil
	case "ctrl+b":
		if s := m.result.ShortURL(); s != "" {
			return m, emit(msgs.OpenURLMsg{URL: s})
		}
		return m, nil
	case "ctrl+l":
		if len(m.history.Visible()) > 0 {
			return m, emit(msgs.ConfirmClearHistoryMsg{})
		}
		return m, nil
	case "ctrl+x":
		return m, emit(msgs.AuthRequestMsg{Method: msgs.AuthSignOut})
	case "esc":
		if m.focus != focusURL {
			m.setFocus(focusURL)
			return m, nil
		}
	case "enter":
		if m.focus == focusURL || m.focus == focusAlias {
			if m.busy {
				return m, nil
			}
			return m, emit(m.shortenRequest())
		}
	}

	return m.updateFocused(msg)
}

func (m Home) updateFocused(msg tea.Msg) (Home, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusURL:
		before := m.url.Value()
		m.url, cmd = m.url.Update(msg)
		if m.url.Value() != before {
			m.errText = ""
		}
	case focusAlias:
		m.alias, cmd = m.alias.Update(msg)
	case focusHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

// View renders the shortener. spin is the busy indicator frame.
func (m Home) View(l layout.Layout, spin string) string {
	input := func(label string, ti textinput.Model, focused bool) string {
		style := m.styles.UnfocusedInput
		if focused {
			style = m.styles.FocusedInput
		}
		return joinLines(m.styles.Bold.Render(label), style.Render(ti.View()))
	}

	var form []string
	if m.user != "" {
		form = append(form, m.styles.Subtitle.Render("Signed in as ")+m.styles.Success.Render(m.user))
	}
	form = append(form, input("Long URL", m.url, m.focus == focusURL))
	if m.errText != "" {
		form = append(form, m.styles.Error.Render(m.errText))
	}

	if m.showAlias {
		form = append(form, input("Custom Alias (optional)", m.alias, m.focus == focusAlias)+
			"  "+m.styles.Hint.Render("ctrl+a remove"))
	} else {
		form = append(form, m.styles.Muted.Render("+ Use custom alias (ctrl+a)"))
	}

	form = append(form, "")
	if m.busy {
		form = append(form, m.styles.ButtonActive.Render(spin+" Processing..."))
	} else {
		form = append(form, m.styles.ButtonActive.Render("enter  Shorten Link"))
	}

	if card := m.result.View(); card != "" {
		form = append(form, "", card)
	}

	formBlock := lipgloss.NewStyle().Width(l.FormWidth).Render(lipgloss.JoinVertical(lipgloss.Left, form...))
	historyBlock := m.history.View()

	var body string
	switch {
	case historyBlock == "":
		body = formBlock
	case l.SideBySide:
		body = lipgloss.JoinHorizontal(lipgloss.Top, formBlock, "  ", historyBlock)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, formBlock, "", historyBlock)
	}
	return center(l, body)
}
