package mock

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/chop/internal/shortener"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	body, _ := io.ReadAll(rec.Body)
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode response: %v (body: %s)", err, string(body))
	}
	return resp
}

func TestShortenAndRedirect(t *testing.T) {
	srv := New(WithBaseURL("https://chop.test/"))
	handler := srv.Handler()

	rec := post(t, handler, "/shorten", `{"url":"https://example.com/a/very/long/path"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("got Content-Type %q", ct)
	}
	shortURL, _ := decode(t, rec)["shortUrl"].(string)
	if !strings.HasPrefix(shortURL, "https://chop.test/") {
		t.Fatalf("unexpected shortUrl %q", shortURL)
	}
	code := strings.TrimPrefix(shortURL, "https://chop.test/")
	if len(code) != 7 {
		t.Errorf("expected 7 character code, got %q", code)
	}

	req := httptest.NewRequest("GET", "/"+code, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("got status %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/a/very/long/path" {
		t.Errorf("got Location %q", loc)
	}
}

func TestShortenSameURLReusesCode(t *testing.T) {
	srv := New()
	handler := srv.Handler()

	first := decode(t, post(t, handler, "/shorten", `{"url":"https://example.com"}`))["shortUrl"]
	second := decode(t, post(t, handler, "/shorten", `{"url":"https://example.com"}`))["shortUrl"]
	if first != second {
		t.Errorf("expected same short URL, got %v and %v", first, second)
	}
	if got := len(srv.Links()); got != 1 {
		t.Errorf("expected 1 link, got %d", got)
	}
}

func TestShortenDefaultBaseUsesHost(t *testing.T) {
	handler := New().Handler()
	req := httptest.NewRequest("POST", "http://127.0.0.1:8787/shorten", strings.NewReader(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	shortURL, _ := decode(t, rec)["shortUrl"].(string)
	if !strings.HasPrefix(shortURL, "http://127.0.0.1:8787/") {
		t.Errorf("unexpected shortUrl %q", shortURL)
	}
}

func TestCustomAlias(t *testing.T) {
	srv := New(WithBaseURL("https://chop.test"))
	handler := srv.Handler()

	rec := post(t, handler, "/shorten", `{"url":"https://example.com","customAlias":"my-link"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if got := decode(t, rec)["shortUrl"]; got != "https://chop.test/my-link" {
		t.Errorf("got shortUrl %v", got)
	}
	if u, ok := srv.Resolve("my-link"); !ok || u != "https://example.com" {
		t.Errorf("Resolve(my-link) = %q, %v", u, ok)
	}

	rec = post(t, handler, "/shorten", `{"url":"https://other.example","customAlias":"my-link"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != "Alias already in use" {
		t.Errorf("got error %v", got)
	}
}

func TestShortenRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"private host", `{"url":"http://192.168.1.5"}`},
		{"localhost", `{"url":"http://localhost:3000"}`},
		{"scheme", `{"url":"ftp://example.com"}`},
		{"empty", `{"url":""}`},
		{"bad alias", `{"url":"https://example.com","customAlias":"a b"}`},
	}
	handler := New().Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, handler, "/shorten", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want 400", rec.Code)
			}
		})
	}
}

func TestCustomShortenPath(t *testing.T) {
	handler := New(WithShortenPath("/api/v1/links/")).Handler()

	if rec := post(t, handler, "/api/v1/links", `{"url":"https://example.com"}`); rec.Code != http.StatusOK {
		t.Errorf("got status %d, want 200", rec.Code)
	}
	if rec := post(t, handler, "/shorten", `{"url":"https://example.com"}`); rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404 on old path", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := New().Handler()
	req := httptest.NewRequest("GET", "/shorten", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want 405", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	handler := New().Handler()

	req := httptest.NewRequest("POST", "/shorten", strings.NewReader(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("got Access-Control-Allow-Origin %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Access-Control-Allow-Headers %q should allow Authorization", got)
	}

	req = httptest.NewRequest("OPTIONS", "/shorten", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS got status %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestCustomCORSOrigin(t *testing.T) {
	handler := New(WithCORSOrigin("https://myapp.example.com")).Handler()

	req := httptest.NewRequest("OPTIONS", "/shorten", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://myapp.example.com" {
		t.Errorf("got Access-Control-Allow-Origin %q", got)
	}
}

func TestLatencySimulation(t *testing.T) {
	latency := 50 * time.Millisecond
	handler := New(WithLatency(latency)).Handler()

	start := time.Now()
	post(t, handler, "/shorten", `{"url":"https://example.com"}`)
	elapsed := time.Since(start)

	if elapsed < latency {
		t.Errorf("request took %v, expected at least %v", elapsed, latency)
	}
}

func TestErrorRateSimulation(t *testing.T) {
	// With error rate 1.0, every request should return 500
	handler := New(WithErrorRate(1.0)).Handler()

	rec := post(t, handler, "/shorten", `{"url":"https://example.com"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d with error rate 1.0", rec.Code, http.StatusInternalServerError)
	}
	if got := decode(t, rec)["error"]; got != "Simulated server error" {
		t.Errorf("got error %q, want %q", got, "Simulated server error")
	}
}

func TestErrorRateZero(t *testing.T) {
	handler := New(WithErrorRate(0.0)).Handler()

	for i := 0; i < 20; i++ {
		rec := post(t, handler, "/shorten", `{"url":"https://example.com"}`)
		if rec.Code == http.StatusInternalServerError {
			t.Fatal("got 500 with error rate 0.0")
		}
	}
}

func TestNotFoundWithRouteListing(t *testing.T) {
	handler := New().Handler()

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusNotFound)
	}

	resp := decode(t, rec)
	if resp["error"] != "Route not found" {
		t.Errorf("got error %q, want %q", resp["error"], "Route not found")
	}
	routes, ok := resp["available_routes"].([]interface{})
	if !ok || len(routes) != 2 {
		t.Fatalf("expected two available_routes, got %v", resp["available_routes"])
	}
}

// The shortening client and the mock agree on the wire format.
func TestClientAgainstServer(t *testing.T) {
	srv := New(WithBaseURL("https://chop.test"))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := shortener.New(shortener.Endpoint(ts.URL, "shorten"))

	res, err := client.Shorten(context.Background(), shortener.Request{URL: "https://example.com", CustomAlias: "docs"})
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if res.ShortURL != "https://chop.test/docs" {
		t.Errorf("got %q", res.ShortURL)
	}

	_, err = client.Shorten(context.Background(), shortener.Request{URL: "https://example.org", CustomAlias: "docs"})
	if err == nil {
		t.Fatal("expected alias conflict")
	}
}

func TestStart(t *testing.T) {
	srv := New(WithPort(0))
	ctx, cancel := context.WithCancel(context.Background())

	addrCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx, func(addr string) { addrCh <- addr }) }()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("Start returned early: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Post("http://"+addr+"/shorten", "application/json", strings.NewReader(`{"url":"https://example.com"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("got status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
