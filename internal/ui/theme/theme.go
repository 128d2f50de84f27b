// Package theme holds color palettes and the Lip Gloss styles derived from
// them.
package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette.
type Theme struct {
	Name string

	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color

	Text    lipgloss.Color
	Subtext lipgloss.Color
	Muted   lipgloss.Color

	Accent  lipgloss.Color
	Link    lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
}

// StatusColor returns the color for an HTTP status code.
func (t Theme) StatusColor(code int) lipgloss.Color {
	switch {
	case code >= 200 && code < 300:
		return t.Success
	case code >= 300 && code < 400:
		return t.Link
	case code >= 400 && code < 500:
		return t.Warning
	case code >= 500:
		return t.Error
	default:
		return t.Text
	}
}

// Catalog maps normalized theme names to built-in themes.
var Catalog = map[string]Theme{}

func init() {
	for _, t := range builtins {
		Catalog[normalizeKey(t.Name)] = t
	}
}

// Get returns a built-in theme by name.
func Get(name string) (Theme, bool) {
	t, ok := Catalog[normalizeKey(name)]
	return t, ok
}

// Names returns the built-in theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for _, t := range Catalog {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Default returns the default theme.
func Default() Theme {
	return CatppuccinMocha
}

// Resolve looks a theme up in the catalog, then in the custom themes under
// dir, and falls back to the default.
func Resolve(name, dir string) Theme {
	if t, ok := Get(name); ok {
		return t
	}
	if dir != "" {
		if t, ok := LoadCustomThemes(dir)[normalizeKey(name)]; ok {
			return t
		}
	}
	return Default()
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
