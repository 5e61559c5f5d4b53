package security

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenManager holds the portal's synchronizer token. The portal fronts a
// single session, so one token is generated per process and handed out with
// every page view.
type TokenManager struct {
	token string
}

// NewTokenManager generates the process token
func NewTokenManager() (*TokenManager, error) {
	token, err := Generate()
	if err != nil {
		return nil, fmt.Errorf("generate CSRF token: %w", err)
	}
	return &TokenManager{token: token}, nil
}

// Token returns the token to embed in page view models
func (tm *TokenManager) Token() string {
	return tm.token
}

// Verify compares submitted against the issued token in constant time
func (tm *TokenManager) Verify(submitted string) bool {
	if submitted == "" {
		return false
	}
	return hmac.Equal([]byte(tm.token), []byte(submitted))
}

// Generate creates a cryptographically secure random token (256 bits),
// returned as a 64-character hex string.
func Generate() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(randomBytes), nil
}
