package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

// newCallbackTest wires a callback server to a fake token endpoint so code
// exchange works without the network.
func newCallbackTest(t *testing.T, tokenHandler http.HandlerFunc) *CallbackServer {
	t.Helper()

	tokenServer := httptest.NewServer(tokenHandler)
	t.Cleanup(tokenServer.Close)

	config := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8888/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  tokenServer.URL + "/authorize",
			TokenURL: tokenServer.URL + "/api/token",
		},
	}

	return NewCallbackServer("localhost:0", config, "state123")
}

func get(srv *CallbackServer, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.handleCallback(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCallbackServer(t *testing.T) {
	t.Run("valid callback exchanges the code", func(t *testing.T) {
		srv := newCallbackTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"tok123","refresh_token":"ref123","token_type":"Bearer","expires_in":3600}`)
		})

		rec := get(srv, "/callback?state=state123&code=authcode")

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		result := <-srv.Result()
		if result.Err != nil {
			t.Fatalf("unexpected error: %v", result.Err)
		}
		if result.Token == nil || result.Token.AccessToken != "tok123" {
			t.Errorf("expected access token tok123, got %+v", result.Token)
		}
	})

	t.Run("state mismatch is rejected", func(t *testing.T) {
		srv := newCallbackTest(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("token endpoint should not be called")
		})

		rec := get(srv, "/callback?state=wrong&code=authcode")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		result := <-srv.Result()
		if result.Err == nil || !strings.Contains(result.Err.Error(), "state") {
			t.Errorf("expected state mismatch error, got %v", result.Err)
		}
	})

	t.Run("denied authorization reports the error params", func(t *testing.T) {
		srv := newCallbackTest(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("token endpoint should not be called")
		})

		rec := get(srv, "/callback?state=state123&error=access_denied&error_description=nope")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		result := <-srv.Result()
		if result.Err == nil || !strings.Contains(result.Err.Error(), "access_denied") {
			t.Errorf("expected access_denied in error, got %v", result.Err)
		}
	})

	t.Run("failed exchange surfaces an error", func(t *testing.T) {
		srv := newCallbackTest(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad code", http.StatusBadRequest)
		})

		rec := get(srv, "/callback?state=state123&code=expired")

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
		result := <-srv.Result()
		if result.Err == nil {
			t.Error("expected an exchange error")
		}
	})

	t.Run("second callback is refused and delivers nothing", func(t *testing.T) {
		srv := newCallbackTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"tok123","token_type":"Bearer","expires_in":3600}`)
		})

		get(srv, "/callback?state=state123&code=authcode")
		rec := get(srv, "/callback?state=state123&code=authcode")

		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
		result, ok := <-srv.Result()
		if !ok {
			t.Fatal("expected the first result before the channel closes")
		}
		if result.Err != nil {
			t.Errorf("unexpected error: %v", result.Err)
		}
		if _, ok := <-srv.Result(); ok {
			t.Error("expected no second result")
		}
	})
}
