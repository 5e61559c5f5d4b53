package domain

import "context"

// TokenStorageKey is the client storage key of the persisted token record
const TokenStorageKey = "userTokens"

// TokenPair is the login response and the persisted token record
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims are the identity fields read from an unverified access token
type Claims struct {
	Subject string
	Roles   []string
}

// ClientStorage is durable key/value storage owned by the client. Each call
// is an atomic single-key read, replace or delete.
type ClientStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
