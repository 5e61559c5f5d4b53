package session

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelguru/internal/apiclient"
)

func TestRegisterErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "field errors beat the message",
			err: &apiclient.APIError{
				StatusCode:  http.StatusUnprocessableEntity,
				Message:     "Validation error",
				FieldErrors: map[string][]string{"phone": {"Missing data for required field."}},
			},
			want: "phone: Missing data for required field.",
		},
		{
			name: "wrapped error keeps field errors",
			err: fmt.Errorf("register: %w", &apiclient.APIError{
				Message:     "Validation error",
				FieldErrors: map[string][]string{"address.city": {"Required."}, "email": {"Invalid."}},
			}),
			want: "address.city: Required.; email: Invalid.",
		},
		{
			name: "message without field errors",
			err:  &apiclient.APIError{StatusCode: http.StatusConflict, Message: "Email already exists"},
			want: "Email already exists",
		},
		{
			name: "empty api error",
			err:  &apiclient.APIError{StatusCode: http.StatusInternalServerError},
			want: MsgRegisterFailed,
		},
		{
			name: "transport failure",
			err:  apiclient.ErrBackendUnavailable,
			want: MsgRegisterFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, registerErrorMessage(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Invalid credentials",
		errorMessage(&apiclient.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}, MsgLoginFailed))
	assert.Equal(t, MsgLoginFailed, errorMessage(errors.New("dial tcp: refused"), MsgLoginFailed))
}
