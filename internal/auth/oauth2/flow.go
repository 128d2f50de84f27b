package oauth2

import (
	"context"
	"fmt"
)

// Opener shows the authorization URL to the user, usually in a browser.
type Opener func(authURL string) error

// Authorize runs the full loopback flow: bind, open the consent page, wait for
// the redirect and exchange the code.
func Authorize(ctx context.Context, cfg Config, open Opener) (*TokenResponse, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("oauth2 client id is not configured")
	}

	verifier, err := GenerateCodeVerifier()
	if err != nil {
		return nil, err
	}
	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	cs, err := Listen(state)
	if err != nil {
		return nil, err
	}
	cfg.RedirectURI = cs.RedirectURI()

	authURL, err := BuildAuthURL(cfg, state, GenerateCodeChallenge(verifier))
	if err != nil {
		cs.Close()
		return nil, err
	}
	if err := open(authURL); err != nil {
		cs.Close()
		return nil, fmt.Errorf("opening browser: %w", err)
	}

	code, err := cs.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return ExchangeAuthCode(ctx, cfg, code, verifier)
}
