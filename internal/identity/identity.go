// Package identity defines the signed-in user and the provider contract the
// session layer drives.
package identity

import (
	"context"
	"time"
)

// Provider IDs reported on an Identity.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// Identity is an authenticated user together with the tokens that prove it.
type Identity struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName,omitempty"`
	ProviderID   string    `json:"providerId"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	SignedInAt   time.Time `json:"signedInAt"`
}

// Name returns the display name, falling back to the email.
func (i *Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Email
}

// Expired reports whether the ID token is expired at now, allowing skew.
func (i *Identity) Expired(now time.Time, skew time.Duration) bool {
	if i.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(i.ExpiresAt)
}

// Clone returns a copy, or nil for nil.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Provider authenticates users against a remote identity service.
type Provider interface {
	SignInEmail(ctx context.Context, email, password string) (*Identity, error)
	SignUpEmail(ctx context.Context, email, password string) (*Identity, error)
	SignInGoogle(ctx context.Context) (*Identity, error)
	// SignOut ends id at the provider. Local state is the caller's concern.
	SignOut(ctx context.Context, id *Identity) error
	// Refresh exchanges the refresh token of id for a new ID token.
	Refresh(ctx context.Context, id *Identity) (*Identity, error)
}
