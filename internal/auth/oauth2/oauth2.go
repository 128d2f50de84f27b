// Package oauth2 implements the installed-app authorization code flow with
// PKCE and a loopback redirect, plus the refresh_token grant.
package oauth2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Google endpoints used when Config leaves them empty.
const (
	GoogleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenURL = "https://oauth2.googleapis.com/token"
	DefaultScope   = "openid email profile"
)

// Config holds the client registration for the authorization code flow.
type Config struct {
	AuthURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
	RedirectURI  string
	HTTPClient   *http.Client
}

func (c Config) withDefaults() Config {
	if c.AuthURL == "" {
		c.AuthURL = GoogleAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = GoogleTokenURL
	}
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	return c
}

// Seconds decodes a lifetime sent either as a JSON number or a quoted number.
type Seconds int

func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid expires_in %q: %w", data, err)
	}
	*s = Seconds(n)
	return nil
}

// TokenResponse holds a token endpoint response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    Seconds   `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	IDToken      string    `json:"id_token"`
	UserID       string    `json:"user_id"`
	Scope        string    `json:"scope"`
	ObtainedAt   time.Time `json:"-"`
}

// ExpiresAt returns when the access token lapses, or the zero time if the
// endpoint sent no lifetime.
func (t *TokenResponse) ExpiresAt() time.Time {
	if t.ExpiresIn == 0 {
		return time.Time{}
	}
	return t.ObtainedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// IsExpired checks whether the token has expired.
func (t *TokenResponse) IsExpired() bool {
	exp := t.ExpiresAt()
	return !exp.IsZero() && time.Now().After(exp)
}

// TokenError is returned when the token endpoint answers with a non-200.
type TokenError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *TokenError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("token endpoint returned %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("token endpoint returned %d: %s", e.StatusCode, e.Code)
}

// ExchangeAuthCode exchanges an authorization code for tokens.
func ExchangeAuthCode(ctx context.Context, cfg Config, code, codeVerifier string) (*TokenResponse, error) {
	cfg = cfg.withDefaults()
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"client_id":    {cfg.ClientID},
		"redirect_uri": {cfg.RedirectURI},
	}
	if cfg.ClientSecret != "" {
		data.Set("client_secret", cfg.ClientSecret)
	}
	if codeVerifier != "" {
		data.Set("code_verifier", codeVerifier)
	}
	return tokenRequest(ctx, cfg.HTTPClient, cfg.TokenURL, data)
}

// RefreshAccessToken trades a refresh token for a fresh access token.
// clientID may be empty for endpoints keyed by URL instead.
func RefreshAccessToken(ctx context.Context, hc *http.Client, tokenURL, clientID, clientSecret, refreshToken string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	if clientID != "" {
		data.Set("client_id", clientID)
	}
	if clientSecret != "" {
		data.Set("client_secret", clientSecret)
	}
	return tokenRequest(ctx, hc, tokenURL, data)
}

func tokenRequest(ctx context.Context, hc *http.Client, tokenURL string, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseTokenError(resp.StatusCode, body)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}
	token.ObtainedAt = time.Now()

	return &token, nil
}

// parseTokenError understands both the RFC 6749 shape
// {"error":"invalid_grant"} and the nested {"error":{"message":...}} shape.
func parseTokenError(status int, body []byte) error {
	terr := &TokenError{StatusCode: status}

	var flat struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		terr.Code = flat.Error
		terr.Message = flat.Description
		return terr
	}

	var nested struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		terr.Code = nested.Error.Message
		terr.Message = nested.Error.Status
		return terr
	}

	terr.Code = strings.TrimSpace(string(body))
	if terr.Code == "" {
		terr.Code = http.StatusText(status)
	}
	return terr
}
