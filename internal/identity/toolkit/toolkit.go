// Package toolkit implements identity.Provider against the Identity Toolkit
// REST API (email/password accounts, federated sign-in and token refresh).
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/chop/internal/auth/oauth2"
	"github.com/sadopc/chop/internal/errkind"
	"github.com/sadopc/chop/internal/identity"
)

const (
	DefaultBaseURL  = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenURL = "https://securetoken.googleapis.com/v1/token"
)

// Config addresses the identity service.
type Config struct {
	APIKey   string
	BaseURL  string
	TokenURL string
	// Google is the OAuth client used for Google sign-in. Sign-in with Google
	// is unavailable when Google.ClientID is empty.
	Google oauth2.Config
}

// APIError is an error response from the identity service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" && e.Message != e.Code {
		return fmt.Sprintf("identity service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("identity service returned %d: %s", e.StatusCode, e.Code)
}

// Client talks to the identity service.
type Client struct {
	cfg  Config
	hc   *http.Client
	open oauth2.Opener
	log  zerolog.Logger
	now  func() time.Time
}

var _ identity.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithOpener sets how the Google consent page is shown.
func WithOpener(open oauth2.Opener) Option {
	return func(c *Client) { c.open = open }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	c := &Client{
		cfg:  cfg,
		hc:   &http.Client{Timeout: 30 * time.Second},
		open: oauth2.OpenBrowser,
		log:  zerolog.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type idpRequest struct {
	PostBody            string `json:"postBody"`
	RequestURI          string `json:"requestUri"`
	ReturnIdpCredential bool   `json:"returnIdpCredential"`
	ReturnSecureToken   bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID      string         `json:"localId"`
	Email        string         `json:"email"`
	DisplayName  string         `json:"displayName"`
	IDToken      string         `json:"idToken"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    oauth2.Seconds `json:"expiresIn"`
	ProviderID   string         `json:"providerId"`
}

// SignInEmail signs in an existing email/password account.
func (c *Client) SignInEmail(ctx context.Context, email, password string) (*identity.Identity, error) {
	const op = "sign in"
	var out authResponse
	err := c.post(ctx, op, "signInWithPassword", passwordRequest{Email: email, Password: password, ReturnSecureToken: true}, &out)
	if err != nil {
		return nil, err
	}
	return c.toIdentity(out, identity.ProviderPassword), nil
}

// SignUpEmail creates an email/password account and signs it in.
func (c *Client) SignUpEmail(ctx context.Context, email, password string) (*identity.Identity, error) {
	const op = "sign up"
	var out authResponse
	err := c.post(ctx, op, "signUp", passwordRequest{Email: email, Password: password, ReturnSecureToken: true}, &out)
	if err != nil {
		return nil, err
	}
	return c.toIdentity(out, identity.ProviderPassword), nil
}

// SignInGoogle runs the browser consent flow and trades the Google ID token
// for a session.
func (c *Client) SignInGoogle(ctx context.Context) (*identity.Identity, error) {
	const op = "sign in with google"
	if c.cfg.Google.ClientID == "" {
		return nil, errkind.New(errkind.NotConfigured, op, errors.New("google client id is not configured"))
	}

	gcfg := c.cfg.Google
	gcfg.HTTPClient = c.hc
	tok, err := oauth2.Authorize(ctx, gcfg, c.open)
	if err != nil {
		return nil, errkind.New(classifyOAuth(err), op, err)
	}

	postBody := url.Values{"providerId": {identity.ProviderGoogle}}
	switch {
	case tok.IDToken != "":
		postBody.Set("id_token", tok.IDToken)
	case tok.AccessToken != "":
		postBody.Set("access_token", tok.AccessToken)
	default:
		return nil, errkind.New(errkind.Service, op, errors.New("google returned no token"))
	}

	var out authResponse
	req := idpRequest{
		PostBody:            postBody.Encode(),
		RequestURI:          "http://localhost",
		ReturnIdpCredential: true,
		ReturnSecureToken:   true,
	}
	if err := c.post(ctx, op, "signInWithIdp", req, &out); err != nil {
		return nil, err
	}
	return c.toIdentity(out, identity.ProviderGoogle), nil
}

// SignOut has nothing to revoke remotely; tokens are discarded by the caller.
func (c *Client) SignOut(ctx context.Context, id *identity.Identity) error {
	if id != nil {
		c.log.Debug().Str("uid", id.UID).Msg("signed out")
	}
	return nil
}

// Refresh trades id's refresh token for a new ID token.
func (c *Client) Refresh(ctx context.Context, id *identity.Identity) (*identity.Identity, error) {
	const op = "refresh session"
	if id == nil || id.RefreshToken == "" {
		return nil, errkind.New(errkind.SessionExpired, op, errors.New("no refresh token"))
	}
	if c.cfg.APIKey == "" {
		return nil, errkind.New(errkind.NotConfigured, op, errors.New("api key is not configured"))
	}

	tokenURL := c.cfg.TokenURL + "?key=" + url.QueryEscape(c.cfg.APIKey)
	tok, err := oauth2.RefreshAccessToken(ctx, c.hc, tokenURL, "", "", id.RefreshToken)
	if err != nil {
		var terr *oauth2.TokenError
		if errors.As(err, &terr) {
			kind := errkind.SessionExpired
			if terr.StatusCode >= 500 {
				kind = errkind.Service
			} else if k := kindForCode(terr.Code); k != errkind.Service {
				kind = k
			}
			return nil, errkind.New(kind, op, err)
		}
		return nil, errkind.New(classifyTransport(err), op, err)
	}

	out := id.Clone()
	if tok.IDToken != "" {
		out.IDToken = tok.IDToken
	} else {
		out.IDToken = tok.AccessToken
	}
	if tok.RefreshToken != "" {
		out.RefreshToken = tok.RefreshToken
	}
	out.ExpiresAt = c.expiry(tok.ExpiresIn)
	c.log.Debug().Str("uid", out.UID).Time("expires_at", out.ExpiresAt).Msg("session refreshed")
	return out, nil
}

func (c *Client) toIdentity(r authResponse, fallbackProvider string) *identity.Identity {
	provider := r.ProviderID
	if provider == "" {
		provider = fallbackProvider
	}
	now := c.now()
	return &identity.Identity{
		UID:          r.LocalID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		ProviderID:   provider,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    c.expiry(r.ExpiresIn),
		SignedInAt:   now,
	}
}

func (c *Client) expiry(s oauth2.Seconds) time.Time {
	if s <= 0 {
		return time.Time{}
	}
	return c.now().Add(time.Duration(s) * time.Second)
}

func (c *Client) post(ctx context.Context, op, method string, body, out any) error {
	if c.cfg.APIKey == "" {
		return errkind.New(errkind.NotConfigured, op, errors.New("api key is not configured"))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/accounts:" + method + "?key=" + url.QueryEscape(c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errkind.New(errkind.NotConfigured, op, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Msg("identity request failed")
		return errkind.New(classifyTransport(err), op, fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errkind.New(errkind.Network, op, fmt.Errorf("reading response: %w", err))
	}

	c.log.Debug().
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("identity response")

	if resp.StatusCode != http.StatusOK {
		apiErr := parseAPIError(resp.StatusCode, data)
		kind := kindForCode(apiErr.Code)
		if resp.StatusCode >= 500 {
			kind = errkind.Service
		}
		return errkind.New(kind, op, apiErr)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errkind.New(errkind.Service, op, fmt.Errorf("parsing %s response: %w", method, err))
	}
	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
		apiErr.Message = env.Error.Message
		apiErr.Code = errorCode(env.Error.Message)
		if strings.HasPrefix(env.Error.Message, "API key not valid") {
			apiErr.Code = "API_KEY_INVALID"
		}
		return apiErr
	}
	apiErr.Code = http.StatusText(status)
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

// errorCode strips the detail some codes carry, as in
// "WEAK_PASSWORD : Password should be at least 6 characters".
func errorCode(message string) string {
	if i := strings.IndexAny(message, " :"); i >= 0 {
		return message[:i]
	}
	return message
}

func kindForCode(code string) errkind.Kind {
	switch code {
	case "EMAIL_EXISTS":
		return errkind.EmailInUse
	case "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "MISSING_PASSWORD":
		return errkind.InvalidCredentials
	case "WEAK_PASSWORD":
		return errkind.WeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return errkind.InvalidEmail
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return errkind.TooManyAttempts
	case "USER_DISABLED":
		return errkind.UserDisabled
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "INVALID_ID_TOKEN", "USER_NOT_FOUND", "invalid_grant":
		return errkind.SessionExpired
	case "API_KEY_INVALID", "OPERATION_NOT_ALLOWED", "CONFIGURATION_NOT_FOUND":
		return errkind.NotConfigured
	default:
		return errkind.Service
	}
}

func classifyTransport(err error) errkind.Kind {
	if errors.Is(err, context.Canceled) {
		return errkind.Cancelled
	}
	return errkind.Network
}

func classifyOAuth(err error) errkind.Kind {
	var cerr *oauth2.CallbackError
	if errors.As(err, &cerr) && cerr.Code == "access_denied" {
		return errkind.Cancelled
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errkind.Cancelled
	}
	var terr *oauth2.TokenError
	if errors.As(err, &terr) {
		return errkind.Service
	}
	if errors.Is(err, oauth2.ErrStateMismatch) {
		return errkind.Service
	}
	return errkind.Network
}
