package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelguru/internal/config"
)

func TestMemoryStorage_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, ok, err := s.GetItem(ctx, "userTokens")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "userTokens", "one"))
	require.NoError(t, s.SetItem(ctx, "userTokens", "two"))

	v, ok, err := s.GetItem(ctx, "userTokens")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	require.NoError(t, s.RemoveItem(ctx, "userTokens"))
	require.NoError(t, s.RemoveItem(ctx, "userTokens"))

	_, ok, _ = s.GetItem(ctx, "userTokens")
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		b, err := Open(ctx, &config.Config{StorageBackend: config.StorageMemory})
		require.NoError(t, err)
		defer b.Close()

		assert.NoError(t, Check(ctx, b))
	})

	t.Run("file", func(t *testing.T) {
		b, err := Open(ctx, &config.Config{
			StorageBackend: config.StorageFile,
			StoragePath:    t.TempDir() + "/storage.json",
		})
		require.NoError(t, err)
		defer b.Close()

		require.NoError(t, b.SetItem(ctx, "k", "v"))
		assert.NoError(t, Check(ctx, b))
	})

	t.Run("redis_unreachable", func(t *testing.T) {
		_, err := Open(ctx, &config.Config{
			StorageBackend: config.StorageRedis,
			RedisURL:       "redis://127.0.0.1:1/0",
		})
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, &config.Config{StorageBackend: "tape"})
		assert.Error(t, err)
	})
}
