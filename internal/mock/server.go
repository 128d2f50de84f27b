// Package mock serves a local fake of the shortening service for development
// and tests.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sadopc/chop/internal/core/linkcheck"
)

// Server is a fake shortening service.
type Server struct {
	port        int
	latency     time.Duration
	errorRate   float64
	corsOrigin  string
	baseURL     string
	shortenPath string
	log         zerolog.Logger

	mu    sync.RWMutex
	links map[string]string // code -> long URL
	byURL map[string]string // long URL -> generated code
}

// Option configures a Server.
type Option func(*Server)

// WithPort sets the listen port. 0 picks a free port.
func WithPort(port int) Option {
	return func(s *Server) { s.port = port }
}

// WithLatency delays every response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithErrorRate makes a fraction (0.0-1.0) of requests fail with 500.
func WithErrorRate(rate float64) Option {
	return func(s *Server) { s.errorRate = rate }
}

// WithCORSOrigin sets Access-Control-Allow-Origin.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// WithBaseURL sets the prefix of returned short URLs. Defaults to the
// listen address.
func WithBaseURL(base string) Option {
	return func(s *Server) { s.baseURL = strings.TrimRight(base, "/") }
}

// WithShortenPath sets the path shortening requests are posted to.
func WithShortenPath(p string) Option {
	return func(s *Server) { s.shortenPath = "/" + strings.Trim(p, "/") }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a server.
func New(opts ...Option) *Server {
	s := &Server{
		port:        8787,
		corsOrigin:  "*",
		shortenPath: "/shorten",
		log:         zerolog.Nop(),
		links:       make(map[string]string),
		byURL:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type shortenRequest struct {
	URL         string `json:"url"`
	CustomAlias string `json:"customAlias"`
}

type shortenResponse struct {
	ShortURL string `json:"shortUrl"`
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serve)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Bool("auth", r.Header.Get("Authorization") != "").
			Msg("mock request")
	}()

	s.setCORS(rec)
	if r.Method == http.MethodOptions {
		rec.WriteHeader(http.StatusNoContent)
		return
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
	}

	if s.errorRate > 0 && rand.Float64() < s.errorRate {
		writeJSON(rec, http.StatusInternalServerError, map[string]string{"error": "Simulated server error"})
		return
	}

	switch {
	case r.URL.Path == s.shortenPath && r.Method == http.MethodPost:
		s.shorten(rec, r)
	case r.URL.Path == s.shortenPath:
		rec.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(rec, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		s.redirect(rec, r)
	default:
		s.notFound(rec)
	}
}

func (s *Server) shorten(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	if reason := linkcheck.Check(req.URL); reason != linkcheck.ReasonOK {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid URL: " + reason.String()})
		return
	}
	if err := linkcheck.CheckAlias(req.CustomAlias); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid custom alias"})
		return
	}

	code, err := s.store(req.URL, req.CustomAlias)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Alias already in use"})
		return
	}

	writeJSON(w, http.StatusOK, shortenResponse{ShortURL: s.base(r) + "/" + code})
}

var errAliasTaken = errors.New("alias already in use")

func (s *Server) store(longURL, alias string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alias != "" {
		if _, taken := s.links[alias]; taken {
			return "", errAliasTaken
		}
		s.links[alias] = longURL
		return alias, nil
	}

	if code, ok := s.byURL[longURL]; ok {
		return code, nil
	}
	code := s.newCode()
	s.links[code] = longURL
	s.byURL[longURL] = code
	return code, nil
}

// newCode returns an unused 7 character code. Must hold s.mu.
func (s *Server) newCode() string {
	for {
		code := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
		if _, taken := s.links[code]; !taken {
			return code
		}
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request) {
	code := strings.Trim(r.URL.Path, "/")
	s.mu.RLock()
	target, ok := s.links[code]
	s.mu.RUnlock()
	if !ok || code == "" {
		s.notFound(w)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"error": "Route not found",
		"available_routes": []map[string]string{
			{"method": "POST", "path": s.shortenPath},
			{"method": "GET", "path": "/{code}"},
		},
	})
}

func (s *Server) base(r *http.Request) string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return "http://" + r.Host
}

func (s *Server) setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// Links returns the stored codes, sorted.
func (s *Server) Links() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.links))
	for code := range s.links {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Resolve returns the long URL for code.
func (s *Server) Resolve(code string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.links[code]
	return u, ok
}

// Start listens on the configured port and serves until ctx is done.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) Start(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", s.port, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	s.log.Info().Str("addr", addr).Str("path", s.shortenPath).Msg("mock shortening service listening")
	if ready != nil {
		ready(addr)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
