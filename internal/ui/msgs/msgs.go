// Package msgs defines the Bubble Tea messages exchanged between the root
// model and its screens.
package msgs

import (
	"time"

	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/identity"
	"github.com/sadopc/chop/internal/shortener"
)

// NavigateMsg requests a route change.
type NavigateMsg struct {
	Path string
}

// SessionStartedMsg reports that the persisted session was restored.
type SessionStartedMsg struct {
	Err error
}

// AuthChangedMsg carries the signed-in identity after every change, nil when
// signed out.
type AuthChangedMsg struct {
	User *identity.Identity
}

// AuthMethod identifies how a user authenticates.
type AuthMethod int

const (
	AuthEmailSignIn AuthMethod = iota
	AuthEmailSignUp
	AuthGoogle
	AuthSignOut
)

func (m AuthMethod) String() string {
	switch m {
	case AuthEmailSignIn:
		return "sign in"
	case AuthEmailSignUp:
		return "sign up"
	case AuthGoogle:
		return "sign in with Google"
	case AuthSignOut:
		return "sign out"
	default:
		return "unknown"
	}
}

// AuthRequestMsg asks the root model to run an auth operation.
type AuthRequestMsg struct {
	Method   AuthMethod
	Email    string
	Password string
}

// AuthDoneMsg is emitted when an auth operation completes.
type AuthDoneMsg struct {
	Method AuthMethod
	Err    error
}

// ShortenRequestMsg asks the root model to shorten the raw input.
type ShortenRequestMsg struct {
	Input string
	Alias string
}

// ShortenDoneMsg is emitted when a shortening call completes. Ticket ties it
// to the request that started it.
type ShortenDoneMsg struct {
	Ticket  shortener.Ticket
	LongURL string
	Result  *shortener.Result
	Err     error
}

// CopyMsg asks for text to be put on the clipboard.
type CopyMsg struct {
	Text string
}

// ClearHistoryMsg asks for the history to be cleared.
type ClearHistoryMsg struct{}

// HistoryChangedMsg carries a fresh history snapshot to the screens.
type HistoryChangedMsg struct {
	Entries history.List
}

// ToastLevel selects the toast color.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// ToastMsg shows a transient notification.
type ToastMsg struct {
	Title    string
	Text     string
	Level    ToastLevel
	Duration time.Duration
}

// StatusMsg sets a temporary status bar message.
type StatusMsg struct {
	Text     string
	Duration time.Duration
}

// OpenURLMsg asks for a URL to be opened in the system browser.
type OpenURLMsg struct {
	URL string
}

// SwitchThemeMsg switches the active theme. An empty name opens the picker.
type SwitchThemeMsg struct {
	Name string
}

// ShowHelpMsg toggles the key binding overlay.
type ShowHelpMsg struct{}

// OpenPaletteMsg opens the command palette.
type OpenPaletteMsg struct{}

// ConfirmClearHistoryMsg asks the user to confirm clearing the history.
type ConfirmClearHistoryMsg struct{}
