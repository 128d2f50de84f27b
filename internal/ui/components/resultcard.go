package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/ui/theme"
)

// ResultCard shows the most recent short URL.
type ResultCard struct {
	shortURL string
	longURL  string
	copied   bool
	width    int
	styles   theme.Styles
}

// NewResultCard creates an empty result card.
func NewResultCard(s theme.Styles) ResultCard {
	return ResultCard{styles: s, width: 60}
}

// SetStyles swaps the styles.
func (m *ResultCard) SetStyles(s theme.Styles) {
	m.styles = s
}

// SetWidth sets the rendering width.
func (m *ResultCard) SetWidth(w int) {
	m.width = w
}

// Set shows a new result and resets the copied marker.
func (m *ResultCard) Set(shortURL, longURL string) {
	m.shortURL = shortURL
	m.longURL = longURL
	m.copied = false
}

// Clear hides the card.
func (m *ResultCard) Clear() {
	m.shortURL = ""
	m.longURL = ""
	m.copied = false
}

// MarkCopied flags the current short URL as copied.
func (m *ResultCard) MarkCopied() {
	if m.shortURL != "" {
		m.copied = true
	}
}

// ShortURL returns the displayed short URL, or "".
func (m ResultCard) ShortURL() string { return m.shortURL }

// LongURL returns the URL the displayed short URL points to.
func (m ResultCard) LongURL() string { return m.longURL }

// Copied reports whether the short URL was copied.
func (m ResultCard) Copied() bool { return m.copied }

// View renders the card, or nothing when there is no result.
func (m ResultCard) View() string {
	if m.shortURL == "" {
		return ""
	}
	inner := max(m.width-6, 10)

	lines := []string{m.styles.URL.Bold(true).Render(truncate(m.shortURL, inner))}
	if m.longURL != "" {
		lines = append(lines, m.styles.Muted.Render(truncate(m.longURL, inner)))
	}

	copyLabel := m.styles.Button.Render("Copy")
	if m.copied {
		copyLabel = m.styles.ButtonActive.Render("✓ Copied")
	}
	lines = append(lines, "", copyLabel+"  "+m.styles.Hint.Render("ctrl+y copy · ctrl+b open"))

	return m.styles.Card.Width(max(m.width-2, 12)).Render(strings.Join(lines, "\n"))
}

// Height returns the number of rows View occupies.
func (m ResultCard) Height() int {
	if m.shortURL == "" {
		return 0
	}
	return lipgloss.Height(m.View())
}
