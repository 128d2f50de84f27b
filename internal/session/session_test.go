package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/chop/internal/core/kv"
	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/identity"
)

var testNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type fakeProvider struct {
	mu        sync.Mutex
	signIn    func(email, password string) (*identity.Identity, error)
	refresh   func(id *identity.Identity) (*identity.Identity, error)
	refreshes int
	signOuts  int
}

func (f *fakeProvider) SignInEmail(ctx context.Context, email, password string) (*identity.Identity, error) {
	if f.signIn != nil {
		return f.signIn(email, password)
	}
	return user("uid-1", email, testNow.Add(time.Hour)), nil
}

func (f *fakeProvider) SignUpEmail(ctx context.Context, email, password string) (*identity.Identity, error) {
	return user("uid-new", email, testNow.Add(time.Hour)), nil
}

func (f *fakeProvider) SignInGoogle(ctx context.Context) (*identity.Identity, error) {
	id := user("uid-g", "g@example.com", testNow.Add(time.Hour))
	id.ProviderID = identity.ProviderGoogle
	return id, nil
}

func (f *fakeProvider) SignOut(ctx context.Context, id *identity.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	return nil
}

func (f *fakeProvider) Refresh(ctx context.Context, id *identity.Identity) (*identity.Identity, error) {
	f.mu.Lock()
	f.refreshes++
	f.mu.Unlock()
	if f.refresh != nil {
		return f.refresh(id)
	}
	out := id.Clone()
	out.IDToken = "id-refreshed"
	out.ExpiresAt = testNow.Add(time.Hour)
	return out, nil
}

func user(uid, email string, expires time.Time) *identity.Identity {
	return &identity.Identity{
		UID:          uid,
		Email:        email,
		ProviderID:   identity.ProviderPassword,
		IDToken:      "id-" + uid,
		RefreshToken: "rt-" + uid,
		ExpiresAt:    expires,
		SignedInAt:   testNow,
	}
}

func newSession(p identity.Provider, store kv.Storage, opts ...Option) *Session {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(p, store, opts...)
}

func TestStart_Empty(t *testing.T) {
	s := newSession(&fakeProvider{}, kv.NewMemory())
	assert.True(t, s.Loading())

	var got []*identity.Identity
	s.Subscribe(func(id *identity.Identity) { got = append(got, id) })
	assert.Empty(t, got, "no callback while loading")

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.Loading())
	assert.Nil(t, s.User())
	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}

func TestSignInPersistsAndRestores(t *testing.T) {
	store := kv.NewMemory()
	s := newSession(&fakeProvider{}, store, WithPassphrase("pass"))
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.SignInEmail(context.Background(), " ada@example.com ", "pw"))
	require.NotNil(t, s.User())
	assert.Equal(t, "ada@example.com", s.User().Email)

	raw, ok, err := store.GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "rt-uid-1", "refresh token must be sealed")

	restored := newSession(&fakeProvider{}, store, WithPassphrase("pass"))
	require.NoError(t, restored.Start(context.Background()))
	require.NotNil(t, restored.User())
	assert.Equal(t, "uid-1", restored.User().UID)
	assert.Equal(t, "rt-uid-1", restored.User().RefreshToken)
}

func TestRestore_Unreadable(t *testing.T) {
	sealedValue, err := seal("rt", "right")
	require.NoError(t, err)
	sealedJSON, err := json.Marshal(identity.Identity{UID: "u", RefreshToken: sealedValue})
	require.NoError(t, err)

	tests := []struct {
		name       string
		raw        string
		passphrase string
	}{
		{"not json", "not json", ""},
		{"missing uid", `{"refreshToken":"rt"}`, ""},
		{"wrong passphrase", string(sealedJSON), "wrong"},
		{"sealed without passphrase", string(sealedJSON), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			require.NoError(t, store.SetItem(StorageKey, tt.raw))

			s := newSession(&fakeProvider{}, store, WithPassphrase(tt.passphrase))
			require.NoError(t, s.Start(context.Background()))
			assert.Nil(t, s.User())

			_, ok, _ := store.GetItem(StorageKey)
			assert.False(t, ok, "unreadable session should be removed")
		})
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := newSession(&fakeProvider{}, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))

	var events []string
	unsubscribe := s.Subscribe(func(id *identity.Identity) {
		if id == nil {
			events = append(events, "out")
			return
		}
		events = append(events, id.UID)
	})

	require.NoError(t, s.SignUpEmail(context.Background(), "n@example.com", "pw"))
	require.NoError(t, s.SignOut(context.Background()))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.SignInGoogle(context.Background()))

	assert.Equal(t, []string{"out", "uid-new", "out"}, events)
}

func TestCloseDropsSubscribers(t *testing.T) {
	s := newSession(&fakeProvider{}, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))

	calls := 0
	s.Subscribe(func(*identity.Identity) { calls++ })
	s.Close()
	require.NoError(t, s.SignInEmail(context.Background(), "a@b.co", "pw"))
	assert.Equal(t, 1, calls)

	s.Subscribe(func(*identity.Identity) { calls++ })
	assert.Equal(t, 1, calls)
}

func TestSignOut(t *testing.T) {
	p := &fakeProvider{}
	store := kv.NewMemory()
	s := newSession(p, store)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SignInEmail(context.Background(), "a@b.co", "pw"))

	require.NoError(t, s.SignOut(context.Background()))
	assert.Nil(t, s.User())
	assert.Equal(t, 1, p.signOuts)
	_, ok, _ := store.GetItem(StorageKey)
	assert.False(t, ok)

	require.NoError(t, s.SignOut(context.Background()), "signing out twice is a no-op")
	assert.Equal(t, 1, p.signOuts)
}

func TestCredentialChecks(t *testing.T) {
	s := newSession(&fakeProvider{}, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))

	err := s.SignInEmail(context.Background(), "  ", "pw")
	assert.Equal(t, errkind.InvalidEmail, errkind.Of(err))

	err = s.SignUpEmail(context.Background(), "a@b.co", "")
	assert.Equal(t, errkind.InvalidCredentials, errkind.Of(err))
}

func TestProviderErrorPassesThrough(t *testing.T) {
	p := &fakeProvider{signIn: func(string, string) (*identity.Identity, error) {
		return nil, errkind.New(errkind.InvalidCredentials, "sign in", errors.New("INVALID_PASSWORD"))
	}}
	s := newSession(p, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))

	err := s.SignInEmail(context.Background(), "a@b.co", "bad")
	assert.Equal(t, errkind.InvalidCredentials, errkind.Of(err))
	assert.Nil(t, s.User())
}

func TestToken(t *testing.T) {
	p := &fakeProvider{signIn: func(email, _ string) (*identity.Identity, error) {
		return user("uid-1", email, testNow.Add(30*time.Second)), nil
	}}
	s := newSession(p, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token, "signed out has no token")

	require.NoError(t, s.SignInEmail(context.Background(), "a@b.co", "pw"))
	token, err = s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id-refreshed", token, "token inside skew is refreshed")
	assert.Equal(t, 1, p.refreshes)

	token, err = s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id-refreshed", token)
	assert.Equal(t, 1, p.refreshes, "fresh token is reused")
}

func TestToken_ExpiredSignsOut(t *testing.T) {
	p := &fakeProvider{
		signIn: func(email, _ string) (*identity.Identity, error) {
			return user("uid-1", email, testNow.Add(-time.Minute)), nil
		},
		refresh: func(*identity.Identity) (*identity.Identity, error) {
			return nil, errkind.New(errkind.SessionExpired, "refresh session", errors.New("TOKEN_EXPIRED"))
		},
	}
	s := newSession(p, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SignInEmail(context.Background(), "a@b.co", "pw"))

	var last *identity.Identity
	s.Subscribe(func(id *identity.Identity) { last = id })

	_, err := s.Token(context.Background())
	assert.Equal(t, errkind.SessionExpired, errkind.Of(err))
	assert.Nil(t, s.User())
	assert.Nil(t, last)
}

func TestToken_NetworkKeepsUser(t *testing.T) {
	p := &fakeProvider{
		signIn: func(email, _ string) (*identity.Identity, error) {
			return user("uid-1", email, testNow.Add(-time.Minute)), nil
		},
		refresh: func(*identity.Identity) (*identity.Identity, error) {
			return nil, errkind.New(errkind.Network, "refresh session", errors.New("offline"))
		},
	}
	s := newSession(p, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SignInEmail(context.Background(), "a@b.co", "pw"))

	_, err := s.Token(context.Background())
	assert.Equal(t, errkind.Network, errkind.Of(err))
	assert.NotNil(t, s.User())
}

func TestPersistFailureKeepsUser(t *testing.T) {
	s := newSession(&fakeProvider{}, kv.WithQuota(kv.NewMemory(), 10))
	require.NoError(t, s.Start(context.Background()))

	err := s.SignInEmail(context.Background(), "a@b.co", "pw")
	assert.Equal(t, errkind.Persistence, errkind.Of(err))
	assert.True(t, errors.Is(err, kv.ErrQuotaExceeded))
	assert.NotNil(t, s.User())
}

func TestSeal(t *testing.T) {
	sealed, err := seal("my-refresh-token", "passphrase")
	require.NoError(t, err)
	assert.True(t, isSealed(sealed))
	assert.NotEqual(t, "my-refresh-token", sealed)

	plain, err := unseal(sealed, "passphrase")
	require.NoError(t, err)
	assert.Equal(t, "my-refresh-token", plain)

	_, err = unseal(sealed, "other")
	assert.Error(t, err)

	_, err = unseal(sealed, "")
	assert.ErrorIs(t, err, ErrSealed)

	unsealed, err := seal("plain", "")
	require.NoError(t, err)
	assert.Equal(t, "plain", unsealed)

	plain, err = unseal("not-sealed", "any")
	require.NoError(t, err)
	assert.Equal(t, "not-sealed", plain)

	_, err = unseal(sealedPrefix+"!!!", "p")
	assert.Error(t, err)
	_, err = unseal(sealedPrefix+"AAAA", "p")
	assert.True(t, err != nil && strings.Contains(err.Error(), "too short"))
}

func TestToken_SignOutDuringRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := &fakeProvider{
		signIn: func(email, _ string) (*identity.Identity, error) {
			return user("uid-1", email, testNow.Add(-time.Minute)), nil
		},
		refresh: func(id *identity.Identity) (*identity.Identity, error) {
			close(started)
			<-release
			out := id.Clone()
			out.IDToken = "id-refreshed"
			out.ExpiresAt = testNow.Add(time.Hour)
			return out, nil
		},
	}
	store := kv.NewMemory()
	s := newSession(p, store)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SignInEmail(context.Background(), "a@b.co", "pw"))

	var mu sync.Mutex
	var last *identity.Identity
	s.Subscribe(func(id *identity.Identity) {
		mu.Lock()
		last = id
		mu.Unlock()
	})

	type result struct {
		token string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		token, err := s.Token(context.Background())
		done <- result{token, err}
	}()

	<-started
	require.NoError(t, s.SignOut(context.Background()))
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Empty(t, res.token)
	assert.Nil(t, s.User(), "refresh must not restore a signed-out user")

	_, ok, err := store.GetItem(StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "signed-out session must stay removed")

	mu.Lock()
	defer mu.Unlock()
	assert.Nil(t, last)
}

func TestToken_SignInDuringRefreshWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var signIns int
	p := &fakeProvider{
		signIn: func(email, _ string) (*identity.Identity, error) {
			signIns++
			if signIns == 1 {
				return user("uid-1", email, testNow.Add(-time.Minute)), nil
			}
			return user("uid-2", email, testNow.Add(time.Hour)), nil
		},
		refresh: func(id *identity.Identity) (*identity.Identity, error) {
			close(started)
			<-release
			out := id.Clone()
			out.IDToken = "id-refreshed"
			out.ExpiresAt = testNow.Add(time.Hour)
			return out, nil
		},
	}
	s := newSession(p, kv.NewMemory())
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SignInEmail(context.Background(), "a@b.co", "pw"))

	done := make(chan string, 1)
	go func() {
		token, _ := s.Token(context.Background())
		done <- token
	}()

	<-started
	require.NoError(t, s.SignInEmail(context.Background(), "b@b.co", "pw"))
	close(release)

	assert.Empty(t, <-done)
	require.NotNil(t, s.User())
	assert.Equal(t, "uid-2", s.User().UID)
}
