// Package app wires the screens, overlays and services into the root Bubble
// Tea model.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sadopc/chop/internal/config"
	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/identity"
	"github.com/sadopc/chop/internal/route"
	"github.com/sadopc/chop/internal/session"
	"github.com/sadopc/chop/internal/shortener"
	"github.com/sadopc/chop/internal/ui/components"
	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/screens"
	"github.com/sadopc/chop/internal/ui/theme"
)

// Shortener turns a long URL into a short one.
type Shortener interface {
	Shorten(ctx context.Context, req shortener.Request) (*shortener.Result, error)
}

// Session is the auth state the UI observes and drives.
type Session interface {
	Start(ctx context.Context) error
	Loading() bool
	User() *identity.Identity
	Subscribe(fn session.Listener) (unsubscribe func())
	SignInEmail(ctx context.Context, email, password string) error
	SignUpEmail(ctx context.Context, email, password string) error
	SignInGoogle(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// Deps are the services the UI runs against.
type Deps struct {
	Config    config.Config
	Session   Session
	History   *history.Store
	Shortener Shortener
	Clipboard func(string) error
	OpenURL   func(string) error
	Logger    zerolog.Logger
	// Route is the initial path; empty means the landing screen.
	Route string
	// ThemesDir holds custom theme files.
	ThemesDir string
}

const (
	authBuffer    = 16
	googleTimeout = 5 * time.Minute
)

// App is the root Bubble Tea model.
type App struct {
	landing  screens.Landing
	signIn   screens.AuthForm
	signUp   screens.AuthForm
	home     screens.Home
	notFound screens.NotFound

	statusBar      components.StatusBar
	commandPalette components.CommandPalette
	help           components.Help
	toast          components.Toast
	modal          components.Modal
	spinner        spinner.Model

	deps    Deps
	log     zerolog.Logger
	seq     *shortener.Sequencer
	authCh  chan *identity.Identity
	unsub   func()
	timeout time.Duration

	decision route.Decision
	user     *identity.Identity
	loading  bool

	layout layout.Layout
	keys   KeyMap
	theme  theme.Theme
	styles theme.Styles

	width  int
	height int
	ready  bool
}

// New creates the root model. The session subscription is registered here
// so that no auth change between New and Init is lost.
func New(d Deps) App {
	t := theme.Resolve(d.Config.Theme, d.ThemesDir)
	s := theme.NewStyles(t)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Accent)

	timeout := d.Config.Timeout
	if timeout <= 0 {
		timeout = config.DefaultConfig().Timeout
	}

	a := App{
		landing:  screens.NewLanding(s),
		signIn:   screens.NewAuthForm(screens.ModeSignIn, s),
		signUp:   screens.NewAuthForm(screens.ModeSignUp, s),
		home:     screens.NewHome(t, s),
		notFound: screens.NewNotFound(s),

		statusBar:      components.NewStatusBar(t),
		commandPalette: components.NewCommandPalette(t),
		help:           components.NewHelp(t),
		toast:          components.NewToast(t),
		modal:          components.NewModal(t),
		spinner:        sp,

		deps:    d,
		log:     d.Logger.With().Str("component", "tui").Logger(),
		seq:     &shortener.Sequencer{},
		authCh:  make(chan *identity.Identity, authBuffer),
		timeout: timeout,

		loading: true,
		keys:    DefaultKeyMap(),
		theme:   t,
		styles:  s,
	}

	if d.Session != nil {
		ch := a.authCh
		a.unsub = d.Session.Subscribe(func(id *identity.Identity) {
			select {
			case ch <- id:
			default:
			}
		})
		a.loading = d.Session.Loading()
		a.user = d.Session.User()
	} else {
		a.loading = false
	}

	if d.History != nil {
		a.home.SetHistory(d.History.Load())
	}

	a.syncUser()
	a.navigate(d.Route)
	a.commandPalette.SetCommands(a.paletteCommands())
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick}
	if a.deps.Session != nil {
		cmds = append(cmds, waitForAuth(a.authCh), startSession(a.deps.Session))
	}
	return tea.Batch(cmds...)
}

// Close releases the session subscription.
func (a App) Close() {
	if a.unsub != nil {
		a.unsub()
	}
}

// Route returns the current navigation decision.
func (a App) Route() route.Decision { return a.decision }

func waitForAuth(ch <-chan *identity.Identity) tea.Cmd {
	return func() tea.Msg {
		return msgs.AuthChangedMsg{User: <-ch}
	}
}

func startSession(s Session) tea.Cmd {
	return func() tea.Msg {
		return msgs.SessionStartedMsg{Err: s.Start(context.Background())}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = layout.HandleResize(msg)
		a.resize()
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case msgs.SessionStartedMsg:
		return a.handleSessionStarted(msg)

	case msgs.AuthChangedMsg:
		return a.handleAuthChanged(msg)

	case msgs.NavigateMsg:
		a.navigate(msg.Path)
		return a, nil

	case msgs.ShortenRequestMsg:
		return a.startShorten(msg)

	case msgs.ShortenDoneMsg:
		return a.handleShortenDone(msg)

	case msgs.AuthRequestMsg:
		return a.startAuth(msg)

	case msgs.AuthDoneMsg:
		return a.handleAuthDone(msg)

	case msgs.CopyMsg:
		return a.copy(msg)

	case msgs.OpenURLMsg:
		return a, a.openURL(msg.URL)

	case msgs.ConfirmClearHistoryMsg:
		a.modal.Show("Clear history?", "This removes all recent URLs from this machine.", msgs.ClearHistoryMsg{})
		return a, nil

	case msgs.ClearHistoryMsg:
		return a.clearHistory()

	case msgs.HistoryChangedMsg:
		a.home.SetHistory(msg.Entries)
		return a, nil

	case msgs.SwitchThemeMsg:
		return a.handleSwitchTheme(msg)

	case msgs.ShowHelpMsg:
		a.help.SetSize(a.width, a.height)
		a.help.Toggle()
		return a, nil

	case msgs.OpenPaletteMsg:
		a.commandPalette.SetCommands(a.paletteCommands())
		a.commandPalette.Open()
		return a, nil

	case msgs.StatusMsg:
		return a, a.statusBar.SetMessage(msg.Text, msg.Duration)

	case msgs.ToastMsg:
		return a, a.toast.Show(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.toast, cmd = a.toast.Update(msg)
	cmds = append(cmds, cmd)
	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)
	cmds = append(cmds, a.updateScreen(msg))
	return a, tea.Batch(cmds...)
}

// navigate resolves raw against the auth state and switches screens.
func (a *App) navigate(raw string) {
	if raw == "" {
		raw = string(route.Landing)
	}
	prev := a.decision
	a.decision = route.Resolve(raw, a.user, a.loading)
	if a.decision.Redirected {
		a.log.Debug().Str("from", raw).Str("to", string(a.decision.Path)).Msg("redirected")
	}

	if prev.Screen != a.decision.Screen {
		switch a.decision.Screen {
		case route.ScreenSignIn:
			a.signIn.Reset()
		case route.ScreenSignUp:
			a.signUp.Reset()
		}
	}
	if a.decision.Screen == route.ScreenNotFound {
		a.notFound.SetPath(string(a.decision.Path))
	}
	a.statusBar.SetRoute(string(a.decision.Path))
	a.statusBar.SetHint(a.hint())
}

// reresolve re-applies gating to the current path after an auth change.
func (a *App) reresolve() {
	a.navigate(string(a.decision.Path))
}

func (a *App) syncUser() {
	name := ""
	if a.user != nil {
		name = a.user.Name()
	}
	a.statusBar.SetUser(name)
	a.home.SetUser(name)
	a.landing.SetSignedIn(a.user != nil)
}

func (a App) hint() string {
	switch a.decision.Screen {
	case route.ScreenLanding:
		return "s:sign in  u:sign up  ?:help"
	case route.ScreenHome:
		return "enter:shorten  ctrl+y:copy  ?:help  ctrl+k:commands"
	case route.ScreenSignIn, route.ScreenSignUp:
		return "tab:next  ctrl+g:google  ctrl+k:commands"
	default:
		return "?:help  ctrl+k:commands"
	}
}

func (a *App) resize() {
	a.statusBar.SetWidth(a.width)
	a.help.SetSize(a.width, a.height)
	a.home.SetLayout(a.layout)
	a.signIn.SetWidth(a.layout.FormWidth)
	a.signUp.SetWidth(a.layout.FormWidth)
}

// updateScreen forwards msg to the active screen.
func (a *App) updateScreen(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.decision.Screen {
	case route.ScreenLanding:
		a.landing, cmd = a.landing.Update(msg)
	case route.ScreenSignIn:
		a.signIn, cmd = a.signIn.Update(msg)
	case route.ScreenSignUp:
		a.signUp, cmd = a.signUp.Update(msg)
	case route.ScreenHome:
		a.home, cmd = a.home.Update(msg)
	case route.ScreenNotFound:
		a.notFound, cmd = a.notFound.Update(msg)
	}
	return cmd
}

// typing reports whether printable keys belong to a text input.
func (a App) typing() bool {
	switch a.decision.Screen {
	case route.ScreenSignIn:
		return a.signIn.Typing()
	case route.ScreenSignUp:
		return a.signUp.Typing()
	case route.ScreenHome:
		return a.home.Typing()
	}
	return false
}

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	spin := a.spinner.View()
	var body string
	switch a.decision.Screen {
	case route.ScreenLanding:
		body = a.landing.View(a.layout)
	case route.ScreenSignIn:
		body = a.signIn.View(a.layout, spin)
	case route.ScreenSignUp:
		body = a.signUp.View(a.layout, spin)
	case route.ScreenHome:
		body = a.home.View(a.layout, spin)
	case route.ScreenLoading:
		body = screens.Loading(a.layout, a.styles, spin)
	default:
		body = a.notFound.View(a.layout)
	}

	header := a.header()
	bodyHeight := max(a.height-lipgloss.Height(header)-1, 1)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	main := lipgloss.JoinVertical(lipgloss.Left, header, body, a.statusBar.View())

	if a.commandPalette.Visible {
		main = overlayCenter(main, a.commandPalette.View(), a.width, a.height)
	}
	if a.help.Visible {
		main = overlayCenter(main, a.help.View(), a.width, a.height)
	}
	if a.modal.Visible {
		main = overlayCenter(main, a.modal.View(), a.width, a.height)
	}
	if a.toast.Visible {
		main = overlayTopRight(main, a.toast.View(), a.width)
	}
	return main
}

func (a App) header() string {
	brand := a.styles.Logo.Render(screens.Brand)
	var right string
	if a.user != nil {
		right = a.styles.Muted.Render(a.user.Name() + "  ·  Sign Out")
	} else {
		right = a.styles.Muted.Render("Log In  ") + a.styles.Key.Render("Sign Up for Free")
	}
	gap := max(a.width-lipgloss.Width(brand)-lipgloss.Width(right)-2, 1)
	return " " + brand + lipgloss.NewStyle().Width(gap).Render("") + right
}

func overlayCenter(_, overlay string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func overlayTopRight(bg, overlay string, width int) string {
	overlayWidth := lipgloss.Width(overlay)
	gap := width - overlayWidth - 2
	if gap < 0 {
		gap = 0
	}
	positioned := lipgloss.NewStyle().MarginLeft(gap).Render(overlay)
	return positioned + "\n" + bg
}
