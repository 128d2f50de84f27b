package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/route"
	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/theme"
)

// AuthMode selects between signing in and creating an account.
type AuthMode int

const (
	ModeSignIn AuthMode = iota
	ModeSignUp
)

type authField int

const (
	fieldEmail authField = iota
	fieldPassword
	fieldTerms
)

// errTermsRequired is shown when sign up is submitted without accepting
// the terms.
const errTermsRequired = "Please accept the Terms of Service to continue."

// AuthForm is the email/password form used by the sign-in and sign-up
// screens.
type AuthForm struct {
	mode     AuthMode
	email    textinput.Model
	password textinput.Model
	terms    bool
	focus    authField
	busy     bool
	errText  string
	styles   theme.Styles
}

// NewAuthForm creates a form in the given mode.
func NewAuthForm(mode AuthMode, s theme.Styles) AuthForm {
	email := textinput.New()
	email.Placeholder = "Enter your email"
	email.CharLimit = 254
	email.Prompt = ""

	password := textinput.New()
	password.Placeholder = "Enter your password"
	if mode == ModeSignUp {
		password.Placeholder = "Create a strong password"
	}
	password.CharLimit = 128
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	f := AuthForm{
		mode:     mode,
		email:    email,
		password: password,
		styles:   s,
	}
	f.email.Focus()
	return f
}

// SetStyles swaps the styles.
func (m *AuthForm) SetStyles(s theme.Styles) { m.styles = s }

// SetWidth sizes the inputs.
func (m *AuthForm) SetWidth(w int) {
	inner := min(max(w-8, 20), 56)
	m.email.Width = inner
	m.password.Width = inner
}

// Mode returns the form mode.
func (m AuthForm) Mode() AuthMode { return m.mode }

// Busy reports whether a submission is in flight.
func (m AuthForm) Busy() bool { return m.busy }

// Err returns the inline error text.
func (m AuthForm) Err() string { return m.errText }

// Email returns the typed email.
func (m AuthForm) Email() string { return m.email.Value() }

// TermsAccepted reports the terms checkbox state.
func (m AuthForm) TermsAccepted() bool { return m.terms }

// Typing reports whether a text input has focus.
func (m AuthForm) Typing() bool { return m.focus != fieldTerms }

// SetBusy marks a submission as started or finished.
func (m *AuthForm) SetBusy(v bool) {
	m.busy = v
	if v {
		m.errText = ""
	}
}

// SetError shows err inline, or clears the error when nil.
func (m *AuthForm) SetError(err error) {
	if err == nil {
		m.errText = ""
		return
	}
	m.errText = errkind.UserMessage(err)
}

// Reset clears the form for a fresh visit.
func (m *AuthForm) Reset() {
	m.email.SetValue("")
	m.password.SetValue("")
	m.terms = false
	m.busy = false
	m.errText = ""
	m.setFocus(fieldEmail)
}

func (m *AuthForm) fields() []authField {
	if m.mode == ModeSignUp {
		return []authField{fieldEmail, fieldPassword, fieldTerms}
	}
	return []authField{fieldEmail, fieldPassword}
}

func (m *AuthForm) setFocus(f authField) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	switch f {
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	}
}

func (m *AuthForm) cycle(reverse bool) {
	fields := m.fields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	if reverse {
		idx = (idx - 1 + len(fields)) % len(fields)
	} else {
		idx = (idx + 1) % len(fields)
	}
	m.setFocus(fields[idx])
}

func (m *AuthForm) submit() tea.Cmd {
	if m.mode == ModeSignUp && !m.terms {
		m.errText = errTermsRequired
		return nil
	}
	method := msgs.AuthEmailSignIn
	if m.mode == ModeSignUp {
		method = msgs.AuthEmailSignUp
	}
	return emit(msgs.AuthRequestMsg{
		Method:   method,
		Email:    strings.TrimSpace(m.email.Value()),
		Password: m.password.Value(),
	})
}

// Update handles form keys.
func (m AuthForm) Update(msg tea.Msg) (AuthForm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return m, navigate(string(route.Landing))
	case "ctrl+n":
		if m.mode == ModeSignIn {
			return m, navigate(string(route.SignUp))
		}
		return m, navigate(string(route.SignIn))
	}

	if m.busy {
		return m, nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		m.cycle(false)
		return m, nil
	case "shift+tab", "up":
		m.cycle(true)
		return m, nil
	case "ctrl+g":
		return m, emit(msgs.AuthRequestMsg{Method: msgs.AuthGoogle})
	case "enter":
		if m.focus == fieldEmail {
			m.setFocus(fieldPassword)
			return m, nil
		}
		return m, m.submit()
	case " ":
		if m.focus == fieldTerms {
			m.terms = !m.terms
			if m.terms && m.errText == errTermsRequired {
				m.errText = ""
			}
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

func (m AuthForm) updateInputs(msg tea.Msg) (AuthForm, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// View renders the form. spin is the busy indicator frame.
func (m AuthForm) View(l layout.Layout, spin string) string {
	title, subtitle, submit, busyLabel, switchHint := "Log in to "+Brand, "Welcome Back!", "Log In", "Signing in...", "Don't have an account? ctrl+n to sign up"
	if m.mode == ModeSignUp {
		title, subtitle, submit, busyLabel, switchHint = "Create your account", "Start Shortening!", "Create free account", "Creating account...", "Already have an account? ctrl+n to log in"
	}

	input := func(label string, ti textinput.Model, focused bool) string {
		style := m.styles.UnfocusedInput
		if focused {
			style = m.styles.FocusedInput
		}
		return joinLines(m.styles.Bold.Render(label), style.Render(ti.View()))
	}

	lines := []string{
		m.styles.Logo.Render(title),
		m.styles.Subtitle.Render(subtitle),
		"",
		m.styles.Button.Render("ctrl+g  Continue with Google"),
		m.styles.Muted.Render("─── or ───"),
		input("Email", m.email, m.focus == fieldEmail),
		input("Password", m.password, m.focus == fieldPassword),
	}

	if m.mode == ModeSignUp {
		box := "[ ]"
		if m.terms {
			box = "[x]"
		}
		label := box + " I agree to the Terms of Service"
		if m.focus == fieldTerms {
			lines = append(lines, m.styles.Selected.Render(label))
		} else {
			lines = append(lines, m.styles.Normal.Render(label))
		}
	}

	lines = append(lines, "")
	switch {
	case m.busy:
		lines = append(lines, m.styles.ButtonActive.Render(spin+" "+busyLabel))
	case m.mode == ModeSignUp && !m.terms:
		lines = append(lines, m.styles.Button.Faint(true).Render(submit))
	default:
		lines = append(lines, m.styles.ButtonActive.Render("enter  "+submit))
	}

	if m.errText != "" {
		lines = append(lines, "", m.styles.Error.Render(m.errText))
	}
	lines = append(lines, "", m.styles.Hint.Render(switchHint))

	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return center(l, block)
}
