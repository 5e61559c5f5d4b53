package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelguru/internal/testutil"
)

func TestCORS_AllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins []string
		requestOrigin  string
		shouldAllow    bool
	}{
		{name: "allowed origin", allowedOrigins: []string{"http://localhost:5173", "http://localhost:8090"}, requestOrigin: "http://localhost:5173", shouldAllow: true},
		{name: "allowed second origin", allowedOrigins: []string{"http://localhost:5173", "http://localhost:8090"}, requestOrigin: "http://localhost:8090", shouldAllow: true},
		{name: "wildcard", allowedOrigins: []string{"*"}, requestOrigin: "http://anything.test", shouldAllow: true},
		{name: "disallowed origin", allowedOrigins: []string{"http://localhost:5173"}, requestOrigin: "http://malicious.com", shouldAllow: false},
		{name: "no origin", allowedOrigins: []string{"http://localhost:5173"}, requestOrigin: "", shouldAllow: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.allowedOrigins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			testutil.AssertStatusCode(t, w, http.StatusOK)
			if tt.shouldAllow {
				assert.Equal(t, tt.requestOrigin, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-CSRF-Token")
				assert.Equal(t, "Origin", w.Header().Get("Vary"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/actions/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.False(t, called, "preflight must not reach the handler")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "http://localhost:5173", want: []string{"http://localhost:5173"}},
		{input: "http://a.test, http://b.test ,", want: []string{"http://a.test", "http://b.test"}},
		{input: "", want: nil},
		{input: " , ", want: nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseOrigins(tt.input), "input %q", tt.input)
	}
}
