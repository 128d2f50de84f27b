package msgs

import "testing"

func TestAuthMethodString(t *testing.T) {
	tests := map[AuthMethod]string{
		AuthEmailSignIn: "sign in",
		AuthEmailSignUp: "sign up",
		AuthGoogle:      "sign in with Google",
		AuthSignOut:     "sign out",
		AuthMethod(99):  "unknown",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
