// package server runs the short-lived local HTTP listener that receives the
// OAuth2 authorization callback.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// CallbackResult is the outcome of one authorization flow. Exactly one result
// is produced per flow: a token, a callback error, or a listener error.
type CallbackResult struct {
	Token *oauth2.Token
	Err   error
}

// CallbackServer serves a single /callback route, validates the OAuth2 state
// parameter, exchanges the authorization code, and delivers the outcome on a
// one-shot channel. It exists only for the duration of one authorization flow.
type CallbackServer struct {
	config  *oauth2.Config
	state   string
	srv     *http.Server
	results chan CallbackResult
	once    sync.Once
	mu      sync.Mutex
	handled bool
}

// NewCallbackServer configures a callback server bound to addr. The state
// token must match the one embedded in the authorization URL.
func NewCallbackServer(addr string, config *oauth2.Config, state string) *CallbackServer {
	s := &CallbackServer{
		config:  config,
		state:   state,
		results: make(chan CallbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)
	s.srv = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Start begins listening in the background. Listener failures are delivered
// through Result like any other flow outcome.
func (s *CallbackServer) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(CallbackResult{Err: fmt.Errorf("callback listener: %w", err)})
		}
	}()
}

// Result returns the channel carrying the flow outcome. It receives exactly
// one value and is then closed.
func (s *CallbackServer) Result() <-chan CallbackResult {
	return s.results
}

// Shutdown stops the listener once the flow has finished or timed out.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *CallbackServer) deliver(result CallbackResult) {
	s.once.Do(func() {
		s.results <- result
		close(s.results)
	})
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.handled {
		s.mu.Unlock()
		http.Error(w, "Authorization already completed", http.StatusConflict)
		return
	}
	s.handled = true
	s.mu.Unlock()

	query := r.URL.Query()

	if query.Get("state") != s.state {
		s.deliver(CallbackResult{Err: fmt.Errorf("state parameter mismatch")})
		http.Error(w, "State parameter mismatch", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		s.deliver(CallbackResult{Err: fmt.Errorf(
			"authorization denied: %s (%s)", query.Get("error"), query.Get("error_description"))})
		http.Error(w, "Authorization denied", http.StatusBadRequest)
		return
	}

	token, err := s.config.Exchange(r.Context(), code)
	if err != nil {
		s.deliver(CallbackResult{Err: fmt.Errorf("code exchange: %w", err)})
		http.Error(w, "Code exchange failed", http.StatusBadGateway)
		return
	}

	s.deliver(CallbackResult{Token: token})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, callbackPage)
}

const callbackPage = `<!DOCTYPE html>
<html>
<head><title>listr</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
  <h1 style="color: #1DB954;">✓ Authorized</h1>
  <p>Close this window and return to the terminal to refresh your playlists.</p>
</body>
</html>
`
