package storage

import (
	"context"
	"fmt"
	"io"

	"hotelguru/internal/config"
	"hotelguru/internal/domain"
)

// Backend is a ClientStorage that may hold resources needing release
type Backend interface {
	domain.ClientStorage
	io.Closer
}

type nopCloser struct {
	domain.ClientStorage
}

func (nopCloser) Close() error { return nil }

// Open builds the ClientStorage selected by cfg
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageFile:
		return nopCloser{NewFileStorage(cfg.StoragePath)}, nil
	case config.StorageMemory:
		return nopCloser{NewMemoryStorage()}, nil
	case config.StorageRedis:
		client, err := DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStorage(client, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Check verifies the backend can serve a read. The ready probe uses it.
func Check(ctx context.Context, s domain.ClientStorage) error {
	if h, ok := s.(interface{ Health(context.Context) error }); ok {
		return h.Health(ctx)
	}
	_, _, err := s.GetItem(ctx, domain.TokenStorageKey)
	return err
}
