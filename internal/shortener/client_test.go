package shortener

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/chop/internal/errkind"
)

func TestClient_Shorten(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tiny", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "https://example.com/long", got["url"])
		_, hasAlias := got["customAlias"]
		assert.False(t, hasAlias, "customAlias must be omitted when empty")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"shortUrl":"https://chop.example/abc"}`))
	}))
	defer server.Close()

	client := New(Endpoint(server.URL, "tiny"))
	res, err := client.Shorten(context.Background(), Request{URL: "https://example.com/long"})
	require.NoError(t, err)
	assert.Equal(t, "https://chop.example/abc", res.ShortURL)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Positive(t, res.Size)
}

func TestClient_SendsAliasAndToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer id-token-1", r.Header.Get("Authorization"))
		var got Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "my-alias", got.CustomAlias)
		w.Write([]byte(`{"shortUrl":"https://chop.example/my-alias"}`))
	}))
	defer server.Close()

	client := New(server.URL, WithTokenSource(func(context.Context) (string, error) {
		return "id-token-1", nil
	}))
	res, err := client.Shorten(context.Background(), Request{URL: "https://example.com", CustomAlias: "my-alias"})
	require.NoError(t, err)
	assert.Equal(t, "https://chop.example/my-alias", res.ShortURL)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		alias    string
		wantKind errkind.Kind
		check    func(t *testing.T, err error)
	}{
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     "boom",
			wantKind: errkind.Service,
			check: func(t *testing.T, err error) {
				var serr *StatusError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
				assert.Equal(t, "boom", serr.Body)
			},
		},
		{
			name:     "alias conflict",
			status:   http.StatusConflict,
			body:     `{"error":"alias exists"}`,
			alias:    "taken",
			wantKind: errkind.AliasTaken,
		},
		{
			name:     "conflict without alias",
			status:   http.StatusConflict,
			wantKind: errkind.Service,
		},
		{
			name:     "missing shortUrl",
			status:   http.StatusOK,
			body:     `{"url":"https://example.com"}`,
			wantKind: errkind.Service,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingShortURL)
			},
		},
		{
			name:     "empty shortUrl",
			status:   http.StatusOK,
			body:     `{"shortUrl":"  "}`,
			wantKind: errkind.Service,
		},
		{
			name:     "not json",
			status:   http.StatusOK,
			body:     `<html>ok</html>`,
			wantKind: errkind.Service,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL).Shorten(context.Background(), Request{URL: "https://example.com", CustomAlias: tt.alias})
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errkind.Of(err))
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	_, err := New(endpoint).Shorten(context.Background(), Request{URL: "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, errkind.Network, errkind.Of(err))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	_, err := New(server.URL, WithTimeout(50*time.Millisecond)).Shorten(context.Background(), Request{URL: "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, errkind.Network, errkind.Of(err))
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := New("").Shorten(context.Background(), Request{URL: "https://example.com"})
	assert.Equal(t, errkind.NotConfigured, errkind.Of(err))
}

func TestClient_TokenSourceError(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	wantErr := errors.New("refresh failed")
	client := New(server.URL, WithTokenSource(func(context.Context) (string, error) {
		return "", wantErr
	}))
	_, err := client.Shorten(context.Background(), Request{URL: "https://example.com"})
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, called, "request must not be sent without a token")
}

func TestClient_RejectsUnsupportedProxy(t *testing.T) {
	client := New("https://api.example.com/tiny", WithProxy("ftp://proxy.example.com"))
	_, err := client.Shorten(context.Background(), Request{URL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported proxy scheme")
}

func TestClient_TLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"shortUrl": "https://sho.rt/tls"})
	}))
	defer server.Close()

	_, err := New(server.URL).Shorten(context.Background(), Request{URL: "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, errkind.Network, errkind.Of(err))

	pool := x509.NewCertPool()
	pool.AddCert(server.Certificate())
	client := New(server.URL, WithTLS(&tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}))
	res, err := client.Shorten(context.Background(), Request{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://sho.rt/tls", res.ShortURL)
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.example.com/tiny", Endpoint("https://api.example.com/", "/tiny"))
	assert.Equal(t, "https://api.example.com/v1/tiny", Endpoint("https://api.example.com/v1", "tiny"))
	assert.Equal(t, "https://api.example.com", Endpoint("https://api.example.com/", ""))
}

func TestSequencer(t *testing.T) {
	var seq Sequencer

	first := seq.Begin()
	assert.True(t, seq.Current(first))

	second := seq.Begin()
	assert.NotEqual(t, first, second)
	assert.False(t, seq.Current(first), "older ticket must be stale")
	assert.True(t, seq.Current(second))

	seq.Cancel()
	assert.False(t, seq.Current(second))
	assert.False(t, seq.Current(""))
}
