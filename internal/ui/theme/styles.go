package theme

import "github.com/charmbracelet/lipgloss"

// Styles holds pre-computed Lip Gloss styles for the current theme.
type Styles struct {
	Logo     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	URL      lipgloss.Style
	Key      lipgloss.Style
	Hint     lipgloss.Style

	FocusedInput   lipgloss.Style
	UnfocusedInput lipgloss.Style
	Card           lipgloss.Style
	Button         lipgloss.Style
	ButtonActive   lipgloss.Style
	Selected       lipgloss.Style
	StatusBar      lipgloss.Style
	StatusText     lipgloss.Style
	Badge          lipgloss.Style
}

// NewStyles creates a Styles set from a Theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Logo:     lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Title:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(t.Subtext),
		Normal:   lipgloss.NewStyle().Foreground(t.Text),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Bold:     lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Success:  lipgloss.NewStyle().Foreground(t.Success),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
		URL:      lipgloss.NewStyle().Foreground(t.Link).Underline(true),
		Key:      lipgloss.NewStyle().Foreground(t.Accent),
		Hint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),

		FocusedInput: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),
		UnfocusedInput: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Success).
			Padding(0, 2),
		Button: lipgloss.NewStyle().
			Foreground(t.Subtext).
			Background(t.Surface).
			Padding(0, 2),
		ButtonActive: lipgloss.NewStyle().
			Foreground(t.Base).
			Background(t.Accent).
			Bold(true).
			Padding(0, 2),
		Selected: lipgloss.NewStyle().
			Background(t.Surface).
			Foreground(t.Text),
		StatusBar: lipgloss.NewStyle().
			Background(t.Surface).
			Foreground(t.Text).
			Padding(0, 1),
		StatusText: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Surface).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Foreground(t.Base).
			Background(t.Accent).
			Bold(true).
			Padding(0, 1),
	}
}
