package shortener

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"

	"github.com/sadopc/chop/internal/errkind"
)

const maxResponseBytes = 1 << 20

// ErrMissingShortURL is returned when a 2xx response has no usable shortUrl.
var ErrMissingShortURL = errors.New("invalid response from server: missing shortUrl")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("shortening service returned %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("shortening service returned %s", e.Status)
}

// Request is the body sent to the shortening service.
type Request struct {
	URL         string `json:"url"`
	CustomAlias string `json:"customAlias,omitempty"`
}

// Result describes a successful shortening.
type Result struct {
	ShortURL   string
	StatusCode int
	Duration   time.Duration
	Size       int64
	Body       []byte
}

type response struct {
	ShortURL string `json:"shortUrl"`
}

// TokenSource supplies a bearer token for the request, or "" for none.
type TokenSource func(ctx context.Context) (string, error)

// Client posts URLs to a shortening endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	proxyURL   string
	tlsConfig  *tls.Config
	tokens     TokenSource
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithProxy routes requests through an http, https or socks5 proxy.
func WithProxy(proxyURL string) Option {
	return func(c *Client) { c.proxyURL = proxyURL }
}

// WithTLS sets the client TLS config. nil keeps the default.
func WithTLS(cfg *tls.Config) Option {
	return func(c *Client) { c.tlsConfig = cfg }
}

// WithTokenSource attaches an Authorization: Bearer header when the source
// yields a token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for endpoint. Proxy configuration errors surface on
// the first Shorten call.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint joins a base URL and a path into the shortening endpoint.
func Endpoint(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Shorten posts req and returns the short URL.
func (c *Client) Shorten(ctx context.Context, req Request) (*Result, error) {
	if c.endpoint == "" {
		return nil, errkind.New(errkind.NotConfigured, "shorten url", fmt.Errorf("no shortening endpoint configured"))
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errkind.New(errkind.NotConfigured, "shorten url", fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting session token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	transport, err := c.buildTransport()
	if err != nil {
		return nil, errkind.New(errkind.NotConfigured, "shorten url", fmt.Errorf("configuring transport: %w", err))
	}
	client := *c.httpClient
	if transport != nil {
		client.Transport = transport
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", c.endpoint).Msg("shorten request failed")
		return nil, errkind.New(errkind.Network, "shorten url", fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errkind.New(errkind.Network, "shorten url", fmt.Errorf("reading response: %w", err))
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Int("bytes", len(body)).
		Msg("shorten response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
		kind := errkind.Service
		if resp.StatusCode == http.StatusConflict && req.CustomAlias != "" {
			kind = errkind.AliasTaken
		}
		return nil, errkind.New(kind, "shorten url", serr)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil || strings.TrimSpace(out.ShortURL) == "" {
		return nil, errkind.New(errkind.Service, "shorten url", ErrMissingShortURL)
	}

	return &Result{
		ShortURL:   out.ShortURL,
		StatusCode: resp.StatusCode,
		Duration:   duration,
		Size:       int64(len(body)),
		Body:       body,
	}, nil
}

// buildTransport returns the client's own transport unless a proxy or TLS
// config is set.
func (c *Client) buildTransport() (http.RoundTripper, error) {
	if c.proxyURL == "" && c.tlsConfig == nil {
		return c.httpClient.Transport, nil
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig:     c.tlsConfig,
	}
	if c.proxyURL == "" {
		return transport, nil
	}

	parsed, err := url.Parse(c.proxyURL)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy URL: %w", err)
	}

	switch parsed.Scheme {
	case "socks5", "socks5h":
		transport.Proxy = nil
		var auth *proxy.Auth
		if parsed.User != nil {
			password, _ := parsed.User.Password()
			auth = &proxy.Auth{
				User:     parsed.User.Username(),
				Password: password,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("creating SOCKS5 dialer: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsed)
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
	}
	return transport, nil
}
