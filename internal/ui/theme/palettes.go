package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMocha is the default dark theme.
var CatppuccinMocha = Theme{
	Name:    "Catppuccin Mocha",
	Base:    lipgloss.Color("#1e1e2e"),
	Surface: lipgloss.Color("#313244"),
	Overlay: lipgloss.Color("#45475a"),
	Text:    lipgloss.Color("#cdd6f4"),
	Subtext: lipgloss.Color("#a6adc8"),
	Muted:   lipgloss.Color("#585b70"),
	Accent:  lipgloss.Color("#cba6f7"),
	Link:    lipgloss.Color("#89b4fa"),
	Success: lipgloss.Color("#a6e3a1"),
	Error:   lipgloss.Color("#f38ba8"),
	Warning: lipgloss.Color("#f9e2af"),
}

var CatppuccinLatte = Theme{
	Name:    "Catppuccin Latte",
	Base:    lipgloss.Color("#eff1f5"),
	Surface: lipgloss.Color("#ccd0da"),
	Overlay: lipgloss.Color("#9ca0b0"),
	Text:    lipgloss.Color("#4c4f69"),
	Subtext: lipgloss.Color("#6c6f85"),
	Muted:   lipgloss.Color("#8c8fa1"),
	Accent:  lipgloss.Color("#8839ef"),
	Link:    lipgloss.Color("#1e66f5"),
	Success: lipgloss.Color("#40a02b"),
	Error:   lipgloss.Color("#d20f39"),
	Warning: lipgloss.Color("#df8e1d"),
}

var Nord = Theme{
	Name:    "Nord",
	Base:    lipgloss.Color("#2e3440"),
	Surface: lipgloss.Color("#3b4252"),
	Overlay: lipgloss.Color("#434c5e"),
	Text:    lipgloss.Color("#eceff4"),
	Subtext: lipgloss.Color("#d8dee9"),
	Muted:   lipgloss.Color("#4c566a"),
	Accent:  lipgloss.Color("#88c0d0"),
	Link:    lipgloss.Color("#81a1c1"),
	Success: lipgloss.Color("#a3be8c"),
	Error:   lipgloss.Color("#bf616a"),
	Warning: lipgloss.Color("#ebcb8b"),
}

var Dracula = Theme{
	Name:    "Dracula",
	Base:    lipgloss.Color("#282a36"),
	Surface: lipgloss.Color("#44475a"),
	Overlay: lipgloss.Color("#6272a4"),
	Text:    lipgloss.Color("#f8f8f2"),
	Subtext: lipgloss.Color("#d0d0d0"),
	Muted:   lipgloss.Color("#6272a4"),
	Accent:  lipgloss.Color("#bd93f9"),
	Link:    lipgloss.Color("#8be9fd"),
	Success: lipgloss.Color("#50fa7b"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1fa8c"),
}

var GruvboxDark = Theme{
	Name:    "Gruvbox Dark",
	Base:    lipgloss.Color("#282828"),
	Surface: lipgloss.Color("#3c3836"),
	Overlay: lipgloss.Color("#504945"),
	Text:    lipgloss.Color("#ebdbb2"),
	Subtext: lipgloss.Color("#d5c4a1"),
	Muted:   lipgloss.Color("#665c54"),
	Accent:  lipgloss.Color("#d79921"),
	Link:    lipgloss.Color("#83a598"),
	Success: lipgloss.Color("#98971a"),
	Error:   lipgloss.Color("#cc241d"),
	Warning: lipgloss.Color("#d79921"),
}

var TokyoNight = Theme{
	Name:    "Tokyo Night",
	Base:    lipgloss.Color("#1a1b26"),
	Surface: lipgloss.Color("#292e42"),
	Overlay: lipgloss.Color("#3b4261"),
	Text:    lipgloss.Color("#c0caf5"),
	Subtext: lipgloss.Color("#a9b1d6"),
	Muted:   lipgloss.Color("#565f89"),
	Accent:  lipgloss.Color("#bb9af7"),
	Link:    lipgloss.Color("#7aa2f7"),
	Success: lipgloss.Color("#9ece6a"),
	Error:   lipgloss.Color("#f7768e"),
	Warning: lipgloss.Color("#e0af68"),
}

var builtins = []Theme{CatppuccinMocha, CatppuccinLatte, Nord, Dracula, GruvboxDark, TokyoNight}
