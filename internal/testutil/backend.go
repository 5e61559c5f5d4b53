package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// APIPrefix is the path prefix the fake backend serves under
const APIPrefix = "/api"

// RecordedRequest is a request observed by FakeBackend
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	RequestID     string
	Body          []byte
}

// FakeBackend is an httptest server standing in for the hotel REST API.
// Handlers are keyed by "METHOD /path" with the /api prefix stripped.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeBackend starts a FakeBackend that is closed with the test
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{handlers: make(map[string]http.HandlerFunc)}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

// BaseURL returns the API base URL including the prefix
func (fb *FakeBackend) BaseURL() string {
	return fb.URL + APIPrefix
}

// Handle registers h for pattern, e.g. "POST /user/login"
func (fb *FakeBackend) Handle(pattern string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[pattern] = h
}

// Requests returns every request received so far
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]RecordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

// LastRequest returns the most recent request or a zero value
func (fb *FakeBackend) LastRequest() RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.requests) == 0 {
		return RecordedRequest{}
	}
	return fb.requests[len(fb.requests)-1]
}

// Count returns how many requests matched pattern
func (fb *FakeBackend) Count(pattern string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := 0
	for _, r := range fb.requests {
		if r.Method+" "+r.Path == pattern {
			n++
		}
	}
	return n
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, APIPrefix)

	fb.mu.Lock()
	fb.requests = append(fb.requests, RecordedRequest{
		Method:        r.Method,
		Path:          path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		RequestID:     r.Header.Get("X-Request-ID"),
		Body:          body,
	})
	h, ok := fb.handlers[r.Method+" "+path]
	fb.mu.Unlock()

	if !ok {
		RespondJSON(http.StatusNotFound, map[string]string{"message": "Not Found"})(w, r)
		return
	}
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	h(w, r)
}

// RespondJSON returns a handler writing v with status
func RespondJSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}
