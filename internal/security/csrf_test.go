package security

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	token, err := Generate()
	require.NoError(t, err)

	// 32 bytes * 2 hex chars per byte
	assert.Len(t, token, 64)
	assert.Regexp(t, regexp.MustCompile(`^[a-f0-9]{64}$`), token)
}

func TestGenerate_Uniqueness(t *testing.T) {
	tokens := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, err := Generate()
		require.NoError(t, err)
		assert.False(t, tokens[token], "duplicate token on iteration %d", i)
		tokens[token] = true
	}
}

func TestTokenManager_Verify(t *testing.T) {
	tm, err := NewTokenManager()
	require.NoError(t, err)

	assert.True(t, tm.Verify(tm.Token()))
	assert.False(t, tm.Verify(""))
	assert.False(t, tm.Verify("not-the-token"))
	assert.False(t, tm.Verify(tm.Token()[:63]))

	other, err := NewTokenManager()
	require.NoError(t, err)
	assert.NotEqual(t, tm.Token(), other.Token())
	assert.False(t, tm.Verify(other.Token()))
}
