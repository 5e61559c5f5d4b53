// Package tokens reads and writes the persisted token record and decodes the
// identity claims of an access token without verifying it.
package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"hotelguru/internal/domain"
	"hotelguru/internal/observability"
)

// Load reads the persisted token record. A record that does not parse or has
// no access token is removed and reported as absent. Storage failures are
// logged and also reported as absent, so callers fall back to an
// unauthenticated state instead of failing.
func Load(ctx context.Context, storage domain.ClientStorage) (domain.TokenPair, bool) {
	raw, ok, err := storage.GetItem(ctx, domain.TokenStorageKey)
	if err != nil {
		observability.FromContext(ctx).Warn("failed to read token record",
			slog.String("error", err.Error()))
		return domain.TokenPair{}, false
	}
	if !ok || raw == "" {
		return domain.TokenPair{}, false
	}

	pair, err := Parse(raw)
	if err != nil {
		observability.FromContext(ctx).Warn("removing corrupted token record",
			slog.String("error", err.Error()))
		Purge(ctx, storage)
		return domain.TokenPair{}, false
	}
	return pair, true
}

// Parse decodes the JSON text of a token record
func Parse(raw string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if pair.AccessToken == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: missing access_token", domain.ErrMalformedRecord)
	}
	return pair, nil
}

// Save persists the token record
func Save(ctx context.Context, storage domain.ClientStorage, pair domain.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}
	if err := storage.SetItem(ctx, domain.TokenStorageKey, string(data)); err != nil {
		return fmt.Errorf("persist token record: %w", err)
	}
	return nil
}

// Clear removes the token record
func Clear(ctx context.Context, storage domain.ClientStorage) error {
	if err := storage.RemoveItem(ctx, domain.TokenStorageKey); err != nil {
		return fmt.Errorf("remove token record: %w", err)
	}
	return nil
}

// Purge removes a record that failed to parse. Failures are only logged.
func Purge(ctx context.Context, storage domain.ClientStorage) {
	observability.TokenRecordsPurged.Inc()
	if err := Clear(ctx, storage); err != nil {
		observability.FromContext(ctx).Error("failed to purge token record",
			slog.String("error", err.Error()))
	}
}
