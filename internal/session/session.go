// Package session owns the signed-in identity: it restores it at startup,
// persists it across runs, refreshes its token and tells subscribers when
// it changes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/chop/internal/core/kv"
	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/identity"
)

// StorageKey is where the session is persisted.
const StorageKey = "chop-session"

// Tokens this close to expiry are refreshed before use.
const refreshSkew = time.Minute

// Listener receives the current identity, nil when signed out.
type Listener func(*identity.Identity)

type subscriber struct {
	id int
	fn Listener
}

// Session is the authentication state of one process. Construct it with New
// and call Start before use.
type Session struct {
	provider   identity.Provider
	storage    kv.Storage
	passphrase string
	log        zerolog.Logger
	now        func() time.Time

	mu      sync.Mutex
	user    *identity.Identity
	loading bool
	closed  bool
	subs    []subscriber
	nextID  int

	// serializes token refreshes
	refreshMu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithPassphrase seals the persisted refresh token with passphrase.
func WithPassphrase(passphrase string) Option {
	return func(s *Session) { s.passphrase = passphrase }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session in the loading state.
func New(provider identity.Provider, storage kv.Storage, opts ...Option) *Session {
	s := &Session{
		provider: provider,
		storage:  storage,
		log:      zerolog.Nop(),
		now:      time.Now,
		loading:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start restores the persisted identity and leaves the loading state.
// Subscribers are notified once the state is known. An unreadable session is
// discarded; only a failing storage backend is reported.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if !s.loading || s.closed {
		s.mu.Unlock()
		return nil
	}
	user, err := s.restore()
	s.user = user
	s.loading = false
	subs := s.snapshotSubs()
	s.mu.Unlock()

	if user != nil {
		s.log.Info().Str("uid", user.UID).Str("provider", user.ProviderID).Msg("session restored")
	}
	notify(subs, user)
	return err
}

// Close drops all subscribers. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = nil
}

// Loading reports whether Start has not completed yet.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// User returns a copy of the signed-in identity, or nil.
func (s *Session) User() *identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// Subscribe registers fn for identity changes. When the state is already
// known fn is called immediately with it. The returned func unsubscribes.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	loading := s.loading
	user := s.user.Clone()
	s.mu.Unlock()

	if !loading {
		fn(user)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// SignInEmail signs in with email and password.
func (s *Session) SignInEmail(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := checkCredentials("sign in", email, password); err != nil {
		return err
	}
	id, err := s.provider.SignInEmail(ctx, email, password)
	if err != nil {
		return err
	}
	return s.set(id, "signed in")
}

// SignUpEmail creates an account and signs it in.
func (s *Session) SignUpEmail(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := checkCredentials("sign up", email, password); err != nil {
		return err
	}
	id, err := s.provider.SignUpEmail(ctx, email, password)
	if err != nil {
		return err
	}
	return s.set(id, "signed up")
}

// SignInGoogle runs the Google browser flow.
func (s *Session) SignInGoogle(ctx context.Context) error {
	id, err := s.provider.SignInGoogle(ctx)
	if err != nil {
		return err
	}
	return s.set(id, "signed in")
}

// SignOut forgets the identity locally even when the provider call fails.
func (s *Session) SignOut(ctx context.Context) error {
	current := s.User()
	if current == nil {
		return nil
	}
	if err := s.provider.SignOut(ctx, current); err != nil {
		s.log.Warn().Err(err).Msg("provider sign-out failed")
	}
	return s.set(nil, "signed out")
}

// Token returns a valid ID token for the signed-in user, refreshing it when
// it is about to expire. It returns "" when signed out, including when the
// user signed out while the refresh was in flight. A refresh rejected as
// expired signs the user out.
func (s *Session) Token(ctx context.Context) (string, error) {
	user := s.User()
	if user == nil {
		return "", nil
	}
	if !user.Expired(s.now(), refreshSkew) {
		return user.IDToken, nil
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller may have refreshed while we waited.
	user = s.User()
	if user == nil {
		return "", nil
	}
	if !user.Expired(s.now(), refreshSkew) {
		return user.IDToken, nil
	}

	fresh, err := s.provider.Refresh(ctx, user)
	if err != nil {
		if errkind.Is(err, errkind.SessionExpired) {
			s.log.Info().Str("uid", user.UID).Msg("session expired")
			if _, perr := s.replace(user, nil, "session expired"); perr != nil {
				s.log.Warn().Err(perr).Msg("clearing expired session")
			}
		}
		return "", err
	}
	applied, err := s.replace(user, fresh, "token refreshed")
	if !applied {
		s.log.Debug().Str("uid", user.UID).Msg("dropping refresh for a replaced session")
		return "", nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("persisting refreshed session")
	}
	return fresh.IDToken, nil
}

// set replaces the identity, persists it and notifies subscribers. The
// in-memory change stands even if persisting fails.
func (s *Session) set(id *identity.Identity, event string) error {
	_, err := s.update(nil, id, event)
	return err
}

// replace is set guarded on the identity still being prev. A sign-out or
// sign-in that landed while prev was being refreshed wins.
func (s *Session) replace(prev, id *identity.Identity, event string) (bool, error) {
	return s.update(func(cur *identity.Identity) bool {
		return cur != nil && cur.UID == prev.UID && cur.RefreshToken == prev.RefreshToken
	}, id, event)
}

func (s *Session) update(guard func(*identity.Identity) bool, id *identity.Identity, event string) (bool, error) {
	id = id.Clone()

	s.mu.Lock()
	if guard != nil && !guard(s.user) {
		s.mu.Unlock()
		return false, nil
	}
	s.user = id
	s.loading = false
	perr := s.persist(id)
	subs := s.snapshotSubs()
	s.mu.Unlock()

	ev := s.log.Info().Str("event", event)
	if id != nil {
		ev = ev.Str("uid", id.UID)
	}
	ev.Msg("session changed")

	notify(subs, id)
	if perr != nil {
		s.log.Warn().Err(perr).Msg("session could not be saved")
		return true, errkind.New(errkind.Persistence, "save session", perr)
	}
	return true, nil
}

func (s *Session) persist(id *identity.Identity) error {
	if id == nil {
		return s.storage.RemoveItem(StorageKey)
	}
	stored := *id
	sealed, err := seal(stored.RefreshToken, s.passphrase)
	if err != nil {
		return fmt.Errorf("sealing refresh token: %w", err)
	}
	stored.RefreshToken = sealed
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.storage.SetItem(StorageKey, string(data))
}

// restore reads the persisted identity. Must hold s.mu.
func (s *Session) restore() (*identity.Identity, error) {
	raw, ok, err := s.storage.GetItem(StorageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading session")
		return nil, errkind.New(errkind.Persistence, "restore session", err)
	}
	if !ok {
		return nil, nil
	}

	var id identity.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || id.UID == "" || id.RefreshToken == "" {
		s.log.Debug().Msg("discarding malformed session")
		s.discard()
		return nil, nil
	}

	id.RefreshToken, err = unseal(id.RefreshToken, s.passphrase)
	if err != nil {
		if errors.Is(err, ErrSealed) {
			s.log.Warn().Msg("session is sealed but no passphrase is configured")
		} else {
			s.log.Warn().Err(err).Msg("session could not be unsealed")
		}
		s.discard()
		return nil, nil
	}
	return &id, nil
}

func (s *Session) discard() {
	if err := s.storage.RemoveItem(StorageKey); err != nil {
		s.log.Warn().Err(err).Msg("removing unreadable session")
	}
}

func (s *Session) snapshotSubs() []subscriber {
	out := make([]subscriber, len(s.subs))
	copy(out, s.subs)
	return out
}

func notify(subs []subscriber, id *identity.Identity) {
	for _, sub := range subs {
		sub.fn(id.Clone())
	}
}

func checkCredentials(op, email, password string) error {
	if email == "" {
		return errkind.New(errkind.InvalidEmail, op, errors.New("email is required"))
	}
	if password == "" {
		return errkind.New(errkind.InvalidCredentials, op, errors.New("password is required"))
	}
	return nil
}
