// Package testutil provides shared test utilities, fakes, and fixtures
// for testing the hotelguru client.
package testutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hotelguru/internal/domain"
)

// signingKey only makes fixtures look like real tokens; nothing verifies it
var signingKey = []byte("test-signing-key-not-verified-by-client")

// MintToken creates a signed JWT carrying sub and roles claims
func MintToken(t testing.TB, sub string, roles ...string) string {
	t.Helper()
	if roles == nil {
		roles = []string{}
	}
	return MintTokenWithClaims(t, jwt.MapClaims{
		"sub":   sub,
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
}

// MintTokenWithClaims creates a signed JWT carrying arbitrary claims
func MintTokenWithClaims(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

// TokenRecord returns the persisted JSON text for a token pair
func TokenRecord(t testing.TB, access, refresh string) string {
	t.Helper()
	data, err := json.Marshal(domain.TokenPair{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		t.Fatalf("failed to encode token record: %v", err)
	}
	return string(data)
}

// NewTestProfile returns a profile with sensible defaults
func NewTestProfile(id int) domain.Profile {
	return domain.Profile{
		ID:    id,
		Name:  "Test Guest",
		Email: "guest@example.com",
		Address: &domain.Address{
			City:       "Budapest",
			Street:     "Andrássy út 1",
			PostalCode: 1061,
		},
	}
}

// NewTestRooms returns a small room listing
func NewTestRooms() []domain.Room {
	return []domain.Room{
		{Number: 101, Floor: 1, Name: "Standard", Price: 15000, RoomType: &domain.RoomType{Name: "Single"}},
		{Number: 201, Floor: 2, Name: "Deluxe", Price: 28000, RoomType: &domain.RoomType{Name: "Double"}},
	}
}
