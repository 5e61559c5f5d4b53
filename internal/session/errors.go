package session

import "hotelguru/internal/apiclient"

// errorMessage prefers the server message over fallback
func errorMessage(err error, fallback string) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// registerErrorMessage prefers field errors, then the server message
func registerErrorMessage(err error) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if fields := apiErr.FormatFieldErrors(); fields != "" {
			return fields
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return MsgRegisterFailed
}
