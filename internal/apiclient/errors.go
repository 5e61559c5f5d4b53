package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUndeclaredEndpoint = errors.New("endpoint not declared in API contract")
	ErrInvalidRequest     = errors.New("request violates API contract")
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string][]string
	Response    *Response
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FormatFieldErrors renders field errors as "field: msg1, msg2; field2: msg3"
// with fields in lexical order. It returns "" when there are none.
func (e *APIError) FormatFieldErrors() string {
	if len(e.FieldErrors) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.FieldErrors[f], ", "))
	}
	return strings.Join(parts, "; ")
}

// AsAPIError unwraps err into an *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody is the backend error envelope:
// {"message": "...", "detail": {"json": {"field": ["msg"]}}}
type errorBody struct {
	Message string                     `json:"message"`
	Detail  map[string]json.RawMessage `json:"detail"`
}

func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Response: resp}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return apiErr
	}
	apiErr.Message = body.Message

	if raw, ok := body.Detail["json"]; ok {
		fields := make(map[string][]string)
		collectFieldErrors("", raw, fields)
		if len(fields) > 0 {
			apiErr.FieldErrors = fields
		}
	}
	return apiErr
}

// collectFieldErrors flattens nested schema errors into dotted field names
func collectFieldErrors(prefix string, raw json.RawMessage, out map[string][]string) {
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err == nil {
		if prefix != "" {
			out[prefix] = append(out[prefix], msgs...)
		}
		return
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return
	}
	for k, v := range nested {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		collectFieldErrors(name, v, out)
	}
}
