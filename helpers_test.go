package venmo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const testToken = "test-token-5f1d"

const defaultAccount = `{"data": {
	"user": {"id": "1111", "username": "alice", "display_name": "Alice Anders", "first_name": "Alice",
		"last_name": "Anders", "is_active": true, "date_joined": "2019-02-20T03:34:29"},
	"balance": "42.50",
	"is_limited_account": false
}}`

const invalidTokenBody = `{"error": {"message": "OAuth token is invalid.", "code": 261}}`

// fakeVenmo is an httptest server that checks the bearer token and routes
// requests to per-test handlers. GET /account is served with defaultAccount
// unless a test overrides it.
type fakeVenmo struct {
	server   *httptest.Server
	requests atomic.Int64
	expired  atomic.Bool
}

func newFakeVenmo(t *testing.T, routes map[string]http.HandlerFunc) *fakeVenmo {
	t.Helper()

	mux := http.NewServeMux()
	if _, ok := routes["GET /account"]; !ok {
		mux.HandleFunc("GET /account", respondJSON(http.StatusOK, defaultAccount))
	}
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}

	f := &fakeVenmo{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)

		if f.expired.Load() || r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, invalidTokenBody)
			return
		}

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeVenmo) client(opts ...Option) *Client {
	base := []Option{
		WithBaseURL(f.server.URL),
		WithGraphQLURL(f.server.URL + "/graphql"),
	}

	return New(testToken, append(base, opts...)...)
}

func (f *fakeVenmo) connect(t *testing.T, opts ...Option) *Client {
	t.Helper()

	c := f.client(opts...)
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func respondJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, body)
	}
}

// captureLogger records every formatted log line.
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) add(level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, v...))
}

func (l *captureLogger) Errorf(format string, v ...any) { l.add("ERROR", format, v...) }
func (l *captureLogger) Warnf(format string, v ...any)  { l.add("WARN", format, v...) }
func (l *captureLogger) Debugf(format string, v ...any) { l.add("DEBUG", format, v...) }

func (l *captureLogger) joined() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

// graphQLRequestCapture decodes the GraphQL request a handler received.
type graphQLRequestCapture struct {
	graphQLRequest
}

func (c *graphQLRequestCapture) capture(t *testing.T, r *http.Request) {
	t.Helper()

	if err := json.NewDecoder(r.Body).Decode(&c.graphQLRequest); err != nil {
		t.Errorf("failed to decode GraphQL request: %v", err)
	}
}
