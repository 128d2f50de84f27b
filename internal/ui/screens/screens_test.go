package screens

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/chop/internal/core/history"
	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/ui/layout"
	"github.com/sadopc/chop/internal/ui/msgs"
	"github.com/sadopc/chop/internal/ui/theme"
)

func testStyles() theme.Styles { return theme.NewStyles(theme.Default()) }

func testLayout() layout.Layout { return layout.Calculate(120, 40) }

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func specialKeyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText[M interface {
	Update(tea.Msg) (M, tea.Cmd)
}](m M, s string) M {
	for _, r := range s {
		m, _ = m.Update(keyMsg(string(r)))
	}
	return m
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

// ─────────────────────────────────────────────────────────────────────────────
// Landing
// ─────────────────────────────────────────────────────────────────────────────

func TestLanding_Keys(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want string
	}{
		{keyMsg("s"), "/signin"},
		{keyMsg("u"), "/signup"},
		{keyMsg("h"), "/home"},
		{specialKeyMsg(tea.KeyEnter), "/home"},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			_, cmd := NewLanding(testStyles()).Update(tt.key)
			nav, ok := runCmd(t, cmd).(msgs.NavigateMsg)
			if !ok || nav.Path != tt.want {
				t.Errorf("expected navigate to %s, got %#v", tt.want, nav)
			}
		})
	}
}

func TestLanding_View(t *testing.T) {
	l := NewLanding(testStyles())
	view := l.View(testLayout())
	if !strings.Contains(view, "Smarter Links for the Web.") || !strings.Contains(view, "Sign up free") {
		t.Errorf("unexpected landing view %q", view)
	}
	l.SetSignedIn(true)
	if !strings.Contains(l.View(testLayout()), "Start Shortening") {
		t.Error("signed-in landing should offer to start shortening")
	}
	if !strings.Contains(l.View(layout.Calculate(50, 20)), Brand) {
		t.Error("compact landing should show the brand")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AuthForm
// ─────────────────────────────────────────────────────────────────────────────

func TestAuthForm_SignInSubmit(t *testing.T) {
	f := NewAuthForm(ModeSignIn, testStyles())
	f = typeText(f, " ada@example.com")
	f, _ = f.Update(specialKeyMsg(tea.KeyEnter)) // to password
	f = typeText(f, "hunter22")
	_, cmd := f.Update(specialKeyMsg(tea.KeyEnter))

	req, ok := runCmd(t, cmd).(msgs.AuthRequestMsg)
	if !ok {
		t.Fatal("expected AuthRequestMsg")
	}
	if req.Method != msgs.AuthEmailSignIn || req.Email != "ada@example.com" || req.Password != "hunter22" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestAuthForm_SignUpRequiresTerms(t *testing.T) {
	f := NewAuthForm(ModeSignUp, testStyles())
	f = typeText(f, "ada@example.com")
	f, _ = f.Update(specialKeyMsg(tea.KeyTab))
	f = typeText(f, "hunter22")

	f, cmd := f.Update(specialKeyMsg(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("sign up without terms should not submit")
	}
	if f.Err() != errTermsRequired {
		t.Fatalf("expected terms error, got %q", f.Err())
	}

	f, _ = f.Update(specialKeyMsg(tea.KeyTab)) // to terms
	if f.Typing() {
		t.Fatal("terms checkbox is not a text input")
	}
	f, _ = f.Update(specialKeyMsg(tea.KeySpace))
	if !f.TermsAccepted() {
		t.Fatal("space should tick the terms box")
	}
	if f.Err() != "" {
		t.Fatal("accepting terms should clear the terms error")
	}

	_, cmd = f.Update(specialKeyMsg(tea.KeyEnter))
	req, ok := runCmd(t, cmd).(msgs.AuthRequestMsg)
	if !ok || req.Method != msgs.AuthEmailSignUp {
		t.Fatalf("expected sign up request, got %#v", req)
	}
}

func TestAuthForm_Google(t *testing.T) {
	f := NewAuthForm(ModeSignIn, testStyles())
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	req, ok := runCmd(t, cmd).(msgs.AuthRequestMsg)
	if !ok || req.Method != msgs.AuthGoogle {
		t.Fatalf("expected Google request, got %#v", req)
	}
}

func TestAuthForm_BusyIgnoresSubmit(t *testing.T) {
	f := NewAuthForm(ModeSignIn, testStyles())
	f.SetBusy(true)
	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	if cmd != nil {
		t.Fatal("busy form should ignore submissions")
	}
	if !strings.Contains(f.View(testLayout(), "*"), "Signing in...") {
		t.Error("busy form should show progress")
	}
}

func TestAuthForm_SwitchAndBack(t *testing.T) {
	tests := []struct {
		mode AuthMode
		key  tea.KeyMsg
		want string
	}{
		{ModeSignIn, tea.KeyMsg{Type: tea.KeyCtrlN}, "/signup"},
		{ModeSignUp, tea.KeyMsg{Type: tea.KeyCtrlN}, "/signin"},
		{ModeSignIn, specialKeyMsg(tea.KeyEsc), "/"},
	}
	for _, tt := range tests {
		_, cmd := NewAuthForm(tt.mode, testStyles()).Update(tt.key)
		nav, ok := runCmd(t, cmd).(msgs.NavigateMsg)
		if !ok || nav.Path != tt.want {
			t.Errorf("mode %d key %s: expected %s, got %#v", tt.mode, tt.key, tt.want, nav)
		}
	}
}

func TestAuthForm_ErrorAndReset(t *testing.T) {
	f := NewAuthForm(ModeSignIn, testStyles())
	f.SetError(errkind.New(errkind.InvalidCredentials, "sign in", errors.New("INVALID_PASSWORD")))
	if f.Err() != errkind.Message(errkind.InvalidCredentials) {
		t.Fatalf("unexpected error text %q", f.Err())
	}
	if !strings.Contains(f.View(testLayout(), ""), "Incorrect email or password.") {
		t.Error("error should render inline")
	}

	f = typeText(f, "x@y.z")
	f.Reset()
	if f.Email() != "" || f.Err() != "" || f.Busy() {
		t.Error("Reset should clear the form")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Home
// ─────────────────────────────────────────────────────────────────────────────

func newHome() Home {
	h := NewHome(theme.Default(), testStyles())
	h.SetLayout(testLayout())
	return h
}

func TestHome_ShortenRequest(t *testing.T) {
	h := newHome()
	h = typeText(h, "  example.com ")
	_, cmd := h.Update(specialKeyMsg(tea.KeyEnter))
	req, ok := runCmd(t, cmd).(msgs.ShortenRequestMsg)
	if !ok {
		t.Fatal("expected ShortenRequestMsg")
	}
	if req.Input != "example.com" || req.Alias != "" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestHome_InlineErrorClearsOnEdit(t *testing.T) {
	h := newHome()
	h = typeText(h, "localhost")
	h.SetError("Invalid URL")
	if !strings.Contains(h.View(testLayout(), ""), "Invalid URL") {
		t.Fatal("error should render under the URL input")
	}

	// moving focus does not clear it
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if h.Err() == "" {
		t.Fatal("error should survive focus changes")
	}

	h = typeText(h, "x")
	if h.Err() != "" {
		t.Errorf("editing the URL should clear the error, got %q", h.Err())
	}
	if strings.Contains(h.View(testLayout(), ""), "Invalid URL") {
		t.Error("cleared error should not render")
	}
}

func TestHome_AliasToggle(t *testing.T) {
	h := newHome()
	h = typeText(h, "example.com")
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if !h.AliasVisible() {
		t.Fatal("ctrl+a should show the alias input")
	}
	h = typeText(h, "my-link")
	_, cmd := h.Update(specialKeyMsg(tea.KeyEnter))
	req := runCmd(t, cmd).(msgs.ShortenRequestMsg)
	if req.Alias != "my-link" || req.Input != "example.com" {
		t.Errorf("unexpected request %+v", req)
	}

	// hiding the alias discards it
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	_, cmd = h.Update(specialKeyMsg(tea.KeyEnter))
	if req := runCmd(t, cmd).(msgs.ShortenRequestMsg); req.Alias != "" {
		t.Errorf("alias should reset after hiding, got %q", req.Alias)
	}
}

func TestHome_BusyBlocksSubmit(t *testing.T) {
	h := newHome()
	h.SetHistory(history.List{})
	h = typeText(h, "example.com")
	h.StartShortening()
	h, cmd := h.Update(specialKeyMsg(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("busy home should not submit again")
	}
	if !strings.Contains(h.View(testLayout(), "*"), "Processing...") {
		t.Error("busy view should show progress")
	}
}

func TestHome_ResultLifecycle(t *testing.T) {
	h := newHome()
	h.FinishShortening("https://chop.sh/abc1234", "https://example.com")
	if h.Busy() || h.Result().ShortURL() != "https://chop.sh/abc1234" {
		t.Fatal("result should be shown after finishing")
	}

	_, cmd := h.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := runCmd(t, cmd); got != (msgs.CopyMsg{Text: "https://chop.sh/abc1234"}) {
		t.Fatalf("unexpected copy msg %#v", got)
	}
	_, cmd = h.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if got := runCmd(t, cmd); got != (msgs.OpenURLMsg{URL: "https://chop.sh/abc1234"}) {
		t.Fatalf("unexpected open msg %#v", got)
	}

	h.MarkCopied("https://chop.sh/abc1234")
	if !h.Result().Copied() {
		t.Fatal("result should be marked copied")
	}

	h.StartShortening()
	if h.Result().ShortURL() != "" {
		t.Fatal("starting a new request should clear the previous result")
	}
	h.FinishShortening("", "https://example.org")
	if h.Result().ShortURL() != "" {
		t.Fatal("a failed request leaves no result")
	}
}

func TestHome_HistoryFocusAndClear(t *testing.T) {
	h := newHome()
	_, cmd := h.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd != nil {
		t.Fatal("clearing an empty history does nothing")
	}

	h.SetHistory(history.List{{LongURL: "https://example.com", ShortURL: "https://chop.sh/abc1234"}})
	h, _ = h.Update(specialKeyMsg(tea.KeyTab))
	if !h.History().Focused() {
		t.Fatal("tab should focus the history list")
	}
	if h.Typing() {
		t.Fatal("history list is not a text input")
	}

	_, cmd = h.Update(specialKeyMsg(tea.KeyEnter))
	if got := runCmd(t, cmd); got != (msgs.CopyMsg{Text: "https://chop.sh/abc1234"}) {
		t.Fatalf("enter in history should copy, got %#v", got)
	}

	_, cmd = h.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if _, ok := runCmd(t, cmd).(msgs.ConfirmClearHistoryMsg); !ok {
		t.Fatal("ctrl+l should ask to clear")
	}

	h.SetHistory(history.List{})
	if h.History().Focused() {
		t.Fatal("emptied history should give focus back to the URL input")
	}
}

func TestHome_SignOut(t *testing.T) {
	_, cmd := newHome().Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	req, ok := runCmd(t, cmd).(msgs.AuthRequestMsg)
	if !ok || req.Method != msgs.AuthSignOut {
		t.Fatalf("expected sign out request, got %#v", req)
	}
}

func TestHome_ViewStacksHistoryOnNarrowScreens(t *testing.T) {
	h := NewHome(theme.Default(), testStyles())
	h.SetHistory(history.List{{LongURL: "https://example.com", ShortURL: "https://chop.sh/abc1234"}})
	h.SetUser("ada@example.com")

	for _, l := range []layout.Layout{layout.Calculate(140, 40), layout.Calculate(80, 40)} {
		h.SetLayout(l)
		view := h.View(l, "")
		for _, want := range []string{"Long URL", "Recent URLs", "ada@example.com", "Shorten Link"} {
			if !strings.Contains(view, want) {
				t.Errorf("width %d: view should contain %q", l.Width, want)
			}
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// NotFound / Loading
// ─────────────────────────────────────────────────────────────────────────────

func TestNotFound(t *testing.T) {
	nf := NewNotFound(testStyles())
	nf.SetPath("/nope")
	view := nf.View(testLayout())
	if !strings.Contains(view, "404") || !strings.Contains(view, "/nope") {
		t.Errorf("unexpected view %q", view)
	}
	_, cmd := nf.Update(specialKeyMsg(tea.KeyEnter))
	if nav := runCmd(t, cmd).(msgs.NavigateMsg); nav.Path != "/" {
		t.Errorf("expected return to /, got %s", nav.Path)
	}
}

func TestLoading(t *testing.T) {
	view := Loading(testLayout(), testStyles(), "*")
	if !strings.Contains(view, "Loading...") || !strings.Contains(view, "Please wait...") {
		t.Errorf("unexpected view %q", view)
	}
}
