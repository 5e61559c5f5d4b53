package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_MissingFileIsEmpty(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "nested", "storage.json"))

	v, ok, err := s.GetItem(context.Background(), "userTokens")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestFileStorage_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s := NewFileStorage(path)

	require.NoError(t, s.SetItem(ctx, "userTokens", `{"access_token":"a"}`))
	require.NoError(t, s.SetItem(ctx, "theme", "dark"))

	v, ok, err := s.GetItem(ctx, "userTokens")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"access_token":"a"}`, v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.RemoveItem(ctx, "userTokens"))

	_, ok, err = s.GetItem(ctx, "userTokens")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = s.GetItem(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok, "removing one key leaves the others")
	assert.Equal(t, "dark", v)
}

func TestFileStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	require.NoError(t, NewFileStorage(path).SetItem(ctx, "userTokens", "value"))

	v, ok, err := NewFileStorage(path).GetItem(ctx, "userTokens")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestFileStorage_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := NewFileStorage(path)

	_, _, err := s.GetItem(ctx, "userTokens")
	assert.Error(t, err)

	// Writes replace the unreadable document
	require.NoError(t, s.SetItem(ctx, "userTokens", "fresh"))
	v, ok, err := s.GetItem(ctx, "userTokens")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestFileStorage_RemoveMissingKeyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s := NewFileStorage(path)

	require.NoError(t, s.RemoveItem(context.Background(), "userTokens"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file is created for a no-op remove")
}

func TestFileStorage_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(filepath.Join(t.TempDir(), "storage.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.SetItem(ctx, "userTokens", "v"))
		}(i)
	}
	wg.Wait()

	v, ok, err := s.GetItem(ctx, "userTokens")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
