package oauth2

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"strconv"
)

// ErrStateMismatch is returned when the callback carries an unexpected state.
var ErrStateMismatch = errors.New("oauth2 callback state mismatch")

// CallbackError is an error reported by the authorization server through the
// redirect, such as access_denied.
type CallbackError struct {
	Code        string
	Description string
}

func (e *CallbackError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
	}
	return "authorization failed: " + e.Code
}

// CallbackServer receives the authorization redirect on a loopback port.
type CallbackServer struct {
	listener net.Listener
	server   *http.Server
	state    string
	codeCh   chan string
	errCh    chan error
}

// Listen binds a loopback port for the redirect. The caller must know the
// port before building the authorization URL, so binding and waiting are
// separate steps.
func Listen(state string) (*CallbackServer, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}

	cs := &CallbackServer{
		listener: listener,
		state:    state,
		codeCh:   make(chan string, 1),
		errCh:    make(chan error, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", cs.handle)
	cs.server = &http.Server{Handler: mux}

	go func() {
		if err := cs.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cs.report(nil, err)
		}
	}()
	return cs, nil
}

// Port returns the bound port.
func (cs *CallbackServer) Port() int {
	return cs.listener.Addr().(*net.TCPAddr).Port
}

// RedirectURI returns the URI to register with the authorization request.
func (cs *CallbackServer) RedirectURI() string {
	return "http://127.0.0.1:" + strconv.Itoa(cs.Port()) + "/callback"
}

func (cs *CallbackServer) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "<html><body><h1>Sign-in failed</h1><p>%s</p></body></html>", html.EscapeString(e))
		cs.report(nil, &CallbackError{Code: e, Description: q.Get("error_description")})
		return
	}
	if q.Get("state") != cs.state {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "<html><body><h1>Sign-in failed</h1><p>state mismatch</p></body></html>")
		cs.report(nil, ErrStateMismatch)
		return
	}
	code := q.Get("code")
	if code == "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "<html><body><h1>Sign-in failed</h1><p>no code in callback</p></body></html>")
		cs.report(nil, &CallbackError{Code: "missing_code"})
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "<html><body><h1>Signed in</h1><p>You can close this tab and return to chop.</p></body></html>")
	cs.report(&code, nil)
}

// report delivers the first outcome; later callbacks are ignored.
func (cs *CallbackServer) report(code *string, err error) {
	if code != nil {
		select {
		case cs.codeCh <- *code:
		default:
		}
		return
	}
	select {
	case cs.errCh <- err:
	default:
	}
}

// Wait blocks until the redirect arrives or ctx is done, then shuts the
// server down.
func (cs *CallbackServer) Wait(ctx context.Context) (string, error) {
	defer cs.Close()
	select {
	case code := <-cs.codeCh:
		return code, nil
	case err := <-cs.errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops the server.
func (cs *CallbackServer) Close() error {
	return cs.server.Shutdown(context.Background())
}
