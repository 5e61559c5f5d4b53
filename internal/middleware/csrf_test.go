package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelguru/internal/testutil"
)

const testCSRFToken = "0123456789abcdef0123456789abcdef"

type fixedToken string

func (f fixedToken) Verify(submitted string) bool { return submitted == string(f) }

func csrfProtected() http.Handler {
	return CSRF(fixedToken(testCSRFToken))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRF(t *testing.T) {
	form := url.Values{"csrf_token": {testCSRFToken}}.Encode()

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		headers     map[string]string
		wantCode    int
	}{
		{name: "GET passes without token", method: http.MethodGet, path: "/rooms", wantCode: http.StatusOK},
		{name: "HEAD passes without token", method: http.MethodHead, path: "/rooms", wantCode: http.StatusOK},
		{name: "OPTIONS passes without token", method: http.MethodOptions, path: "/actions/login", wantCode: http.StatusOK},
		{name: "health is exempt", method: http.MethodPost, path: "/health", wantCode: http.StatusOK},
		{name: "websocket is exempt", method: http.MethodPost, path: "/ws/session", wantCode: http.StatusOK},
		{name: "missing token", method: http.MethodPost, path: "/actions/login", wantCode: http.StatusForbidden},
		{name: "wrong header token", method: http.MethodPost, path: "/actions/login", headers: map[string]string{"X-CSRF-Token": "nope"}, wantCode: http.StatusForbidden},
		{name: "header token", method: http.MethodPost, path: "/actions/login", headers: map[string]string{"X-CSRF-Token": testCSRFToken}, wantCode: http.StatusOK},
		{name: "alternate header token", method: http.MethodDelete, path: "/actions/reservations/3", headers: map[string]string{"X-XSRF-Token": testCSRFToken}, wantCode: http.StatusOK},
		{name: "form field token", method: http.MethodPost, path: "/actions/logout", contentType: "application/x-www-form-urlencoded", body: form, wantCode: http.StatusOK},
		{name: "JSON body is not searched", method: http.MethodPost, path: "/actions/login", contentType: "application/json", body: `{"csrf_token":"` + testCSRFToken + `"}`, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			csrfProtected().ServeHTTP(w, req)

			testutil.AssertStatusCode(t, w, tt.wantCode)
			if tt.wantCode == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Forbidden")
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}
