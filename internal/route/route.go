// Package route maps navigation paths to screens and applies the
// signed-in/signed-out gating rules.
package route

import (
	"path"
	"strings"

	"github.com/sadopc/chop/internal/identity"
)

// Path is a navigation target.
type Path string

const (
	Landing Path = "/"
	SignIn  Path = "/signin"
	SignUp  Path = "/signup"
	Home    Path = "/home"
)

// Screen is what the UI renders for a resolved path.
type Screen int

const (
	ScreenNotFound Screen = iota
	ScreenLanding
	ScreenSignIn
	ScreenSignUp
	ScreenHome
	ScreenLoading
)

func (s Screen) String() string {
	switch s {
	case ScreenLanding:
		return "landing"
	case ScreenSignIn:
		return "signin"
	case ScreenSignUp:
		return "signup"
	case ScreenHome:
		return "home"
	case ScreenLoading:
		return "loading"
	default:
		return "notfound"
	}
}

// Access is the gating rule of a route.
type Access int

const (
	Public Access = iota
	// PublicOnly routes send signed-in users to Home.
	PublicOnly
	// Protected routes send signed-out users to SignIn.
	Protected
)

// Route is one entry of the route table.
type Route struct {
	Path   Path
	Screen Screen
	Access Access
}

var table = []Route{
	{Landing, ScreenLanding, Public},
	{SignIn, ScreenSignIn, PublicOnly},
	{SignUp, ScreenSignUp, PublicOnly},
	{Home, ScreenHome, Protected},
}

// Routes returns the route table.
func Routes() []Route {
	out := make([]Route, len(table))
	copy(out, table)
	return out
}

// Clean canonicalizes a raw path: leading slash, no trailing slash,
// lower case.
func Clean(raw string) Path {
	p := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return Path(path.Clean(p))
}

// Lookup finds the route for raw.
func Lookup(raw string) (Route, bool) {
	p := Clean(raw)
	for _, r := range table {
		if r.Path == p {
			return r, true
		}
	}
	return Route{Path: p, Screen: ScreenNotFound, Access: Public}, false
}

// Decision is the outcome of Resolve. Path is where the user ends up, which
// differs from the request when Redirected is set.
type Decision struct {
	Path       Path
	Screen     Screen
	Redirected bool
}

// Resolve applies gating to raw for the given user. While the session is
// loading, protected routes show the loading screen instead of redirecting.
func Resolve(raw string, user *identity.Identity, loading bool) Decision {
	r, ok := Lookup(raw)
	if !ok {
		return Decision{Path: r.Path, Screen: ScreenNotFound}
	}

	switch r.Access {
	case Protected:
		if loading {
			return Decision{Path: r.Path, Screen: ScreenLoading}
		}
		if user == nil {
			return Decision{Path: SignIn, Screen: ScreenSignIn, Redirected: true}
		}
	case PublicOnly:
		if user != nil {
			return Decision{Path: Home, Screen: ScreenHome, Redirected: true}
		}
	}
	return Decision{Path: r.Path, Screen: r.Screen}
}
