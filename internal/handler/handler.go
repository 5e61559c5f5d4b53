// Package handler serves the local portal: guarded pages rendered as JSON
// view models, the action endpoints behind them, health checks and the
// session feed.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/domain"
)

// SessionView is the session as the view layer sees it. Tokens are never
// rendered.
type SessionView struct {
	Authenticated bool `json:"authenticated"`
	domain.Session
}

func newSessionView(s domain.Session) SessionView {
	return SessionView{Authenticated: s.IsAuthenticated(), Session: s}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// relay hands a backend answer to the caller as received. Requests the
// contract check refused answer 400, transport failures 502.
func relay(w http.ResponseWriter, resp *apiclient.Response, err error) {
	if err != nil {
		if errors.Is(err, apiclient.ErrInvalidRequest) || errors.Is(err, apiclient.ErrUndeclaredEndpoint) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		apiErr, ok := apiclient.AsAPIError(err)
		if !ok || apiErr.Response == nil {
			writeError(w, http.StatusBadGateway, "Backend unavailable")
			return
		}
		resp = apiErr.Response
	}

	if len(resp.Body) == 0 {
		w.WriteHeader(resp.StatusCode)
		return
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// errorText turns a backend failure into the line shown on a page
func errorText(err error) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.StatusCode)
	}
	if errors.Is(err, apiclient.ErrBackendUnavailable) {
		return "Backend unavailable"
	}
	return err.Error()
}

// statusOf maps a failure to the status an action answers with
func statusOf(err error) int {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	if errors.Is(err, apiclient.ErrInvalidRequest) || errors.Is(err, apiclient.ErrUndeclaredEndpoint) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func rawOrNull(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}
	return body
}
