package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/route"
	"github.com/sadopc/chop/internal/ui/msgs"
)

func (a App) handleSessionStarted(msg msgs.SessionStartedMsg) (tea.Model, tea.Cmd) {
	if a.deps.Session != nil {
		a.loading = a.deps.Session.Loading()
		a.user = a.deps.Session.User()
	} else {
		a.loading = false
	}
	a.syncUser()
	a.reresolve()

	if msg.Err != nil {
		a.log.Warn().Err(msg.Err).Msg("session restore failed")
		return a, a.toast.Show(msgs.ToastMsg{
			Title: "Session not restored",
			Text:  errkind.UserMessage(msg.Err),
			Level: msgs.ToastWarning,
		})
	}
	return a, nil
}

func (a App) handleAuthChanged(msg msgs.AuthChangedMsg) (tea.Model, tea.Cmd) {
	wasSignedIn := a.user != nil
	a.user = msg.User
	if a.deps.Session != nil {
		a.loading = a.deps.Session.Loading()
	}
	a.syncUser()

	if wasSignedIn && a.user == nil {
		a.home.Reset()
		a.seq.Cancel()
	}
	a.reresolve()
	return a, waitForAuth(a.authCh)
}

func (a App) startAuth(msg msgs.AuthRequestMsg) (tea.Model, tea.Cmd) {
	s := a.deps.Session
	if s == nil {
		return a, a.toast.Show(toastFor(errkind.New(errkind.NotConfigured, msg.Method.String(), nil)))
	}

	timeout := a.timeout
	switch msg.Method {
	case msgs.AuthGoogle:
		timeout = googleTimeout
		a.setAuthBusy(true)
	case msgs.AuthEmailSignIn, msgs.AuthEmailSignUp:
		a.setAuthBusy(true)
	case msgs.AuthSignOut:
		if a.user == nil {
			return a, nil
		}
	}

	var status tea.Cmd
	if msg.Method == msgs.AuthGoogle {
		status = a.statusBar.SetMessage("Waiting for Google sign-in in your browser...", 0)
	}
	a.log.Debug().Stringer("method", msg.Method).Msg("auth started")

	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		switch msg.Method {
		case msgs.AuthEmailSignIn:
			err = s.SignInEmail(ctx, msg.Email, msg.Password)
		case msgs.AuthEmailSignUp:
			err = s.SignUpEmail(ctx, msg.Email, msg.Password)
		case msgs.AuthGoogle:
			err = s.SignInGoogle(ctx)
		case msgs.AuthSignOut:
			err = s.SignOut(ctx)
		}
		return msgs.AuthDoneMsg{Method: msg.Method, Err: err}
	}
	return a, tea.Batch(run, status)
}

func (a *App) setAuthBusy(v bool) {
	switch a.decision.Screen {
	case route.ScreenSignIn:
		a.signIn.SetBusy(v)
	case route.ScreenSignUp:
		a.signUp.SetBusy(v)
	}
}

func (a App) handleAuthDone(msg msgs.AuthDoneMsg) (tea.Model, tea.Cmd) {
	a.signIn.SetBusy(false)
	a.signUp.SetBusy(false)
	a.statusBar.SetMessage("", 0)

	if msg.Err != nil {
		a.log.Warn().Err(msg.Err).Stringer("method", msg.Method).Msg("auth failed")
		switch a.decision.Screen {
		case route.ScreenSignIn:
			a.signIn.SetError(msg.Err)
		case route.ScreenSignUp:
			a.signUp.SetError(msg.Err)
		}
		return a, a.toast.Show(toastFor(msg.Err))
	}

	var text string
	switch msg.Method {
	case msgs.AuthSignOut:
		text = "Signed out"
	case msgs.AuthEmailSignUp:
		text = "Account created"
	default:
		text = "Signed in"
	}
	a.log.Info().Stringer("method", msg.Method).Msg(text)
	return a, a.toast.Show(msgs.ToastMsg{Title: text, Level: msgs.ToastSuccess, Duration: 2 * time.Second})
}
