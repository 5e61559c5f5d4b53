package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelguru/internal/apiclient"
	"hotelguru/internal/testutil"
)

func TestRelay(t *testing.T) {
	notFound := &apiclient.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(`{"message":"Room not found"}`),
	}

	tests := []struct {
		name     string
		resp     *apiclient.Response
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "success passes through",
			resp:     &apiclient.Response{StatusCode: http.StatusCreated, Header: http.Header{}, Body: []byte(`{"id":1}`)},
			wantCode: http.StatusCreated,
			wantBody: `{"id":1}`,
		},
		{
			name:     "empty body",
			resp:     &apiclient.Response{StatusCode: http.StatusNoContent, Header: http.Header{}},
			wantCode: http.StatusNoContent,
		},
		{
			name:     "api error keeps status and body",
			err:      fmt.Errorf("wrapped: %w", &apiclient.APIError{StatusCode: http.StatusNotFound, Message: "Room not found", Response: notFound}),
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"Room not found"}`,
		},
		{
			name:     "transport failure",
			err:      fmt.Errorf("%w: dial tcp: refused", apiclient.ErrBackendUnavailable),
			wantCode: http.StatusBadGateway,
			wantBody: `{"error":"Backend unavailable"}`,
		},
		{
			name:     "contract violation",
			err:      fmt.Errorf("%w: room_numbers", apiclient.ErrInvalidRequest),
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			relay(w, tt.resp, tt.err)

			testutil.AssertStatusCode(t, w, tt.wantCode)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Room not found", errorText(&apiclient.APIError{StatusCode: http.StatusNotFound, Message: "Room not found"}))
	assert.Equal(t, "Internal Server Error", errorText(&apiclient.APIError{StatusCode: http.StatusInternalServerError}))
	assert.Equal(t, "Backend unavailable", errorText(fmt.Errorf("%w: timeout", apiclient.ErrBackendUnavailable)))
	assert.Equal(t, "Profile not available", errorText(pageError("Profile not available")))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusOf(&apiclient.APIError{StatusCode: http.StatusConflict}))
	assert.Equal(t, http.StatusBadRequest, statusOf(apiclient.ErrUndeclaredEndpoint))
	assert.Equal(t, http.StatusBadGateway, statusOf(apiclient.ErrBackendUnavailable))
}
