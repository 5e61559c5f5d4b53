package tokens

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelguru/internal/domain"
	"hotelguru/internal/testutil"
)

func TestDecode_ReadsSubjectAndRoles(t *testing.T) {
	token := testutil.MintToken(t, "42", domain.RoleGuest, domain.RoleReceptionist)

	claims, err := Decode(token)

	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, []string{domain.RoleGuest, domain.RoleReceptionist}, claims.Roles)
}

func TestDecode_NumericSubject(t *testing.T) {
	token := testutil.MintTokenWithClaims(t, jwt.MapClaims{"sub": 7, "roles": []string{"Guest"}})

	claims, err := Decode(token)

	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
}

func TestDecode_MissingRolesIsEmpty(t *testing.T) {
	token := testutil.MintTokenWithClaims(t, jwt.MapClaims{"sub": "1"})

	claims, err := Decode(token)

	require.NoError(t, err)
	assert.NotNil(t, claims.Roles)
	assert.Empty(t, claims.Roles)
}

func TestDecode_IgnoresSignature(t *testing.T) {
	token := testutil.MintToken(t, "42", domain.RoleAdministrator)
	tampered := token[:len(token)-4] + "AAAA"

	claims, err := Decode(tampered)

	require.NoError(t, err, "the signature is deliberately not verified")
	assert.Equal(t, "42", claims.Subject)
}

func TestDecode_ReadsPayloadOnly(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"42","roles":["Guest"]}`))
	header := base64.RawURLEncoding.EncodeToString([]byte("not-json"))

	tests := []struct {
		name  string
		token string
	}{
		{"header_not_json", header + "." + payload + ".sig"},
		{"no_signature_segment", header + "." + payload},
		{"padded_payload", "h." + base64.URLEncoding.EncodeToString([]byte(`{"sub":"42","roles":["Guest"]}`)) + ".s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.token)
			require.NoError(t, err)
			assert.Equal(t, "42", claims.Subject)
			assert.Equal(t, []string{domain.RoleGuest}, claims.Roles)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"single_segment", "garbage"},
		{"bad_base64", "header.%%%%.sig"},
		{"payload_not_json", "eyJhbGciOiJIUzI1NiJ9." + notJSON + ".sig"},
		{"null_payload", "h." + base64.RawURLEncoding.EncodeToString([]byte("null")) + ".s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			assert.ErrorIs(t, err, domain.ErrMalformedToken)
		})
	}
}
