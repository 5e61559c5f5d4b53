package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelguru/internal/domain"
	"hotelguru/internal/testutil"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		record     *string
		wantOK     bool
		wantAccess string
		wantPurged bool
	}{
		{name: "absent", record: nil, wantOK: false},
		{name: "valid", record: ptr(`{"access_token":"a.b.c","refresh_token":"r1"}`), wantOK: true, wantAccess: "a.b.c"},
		{name: "invalid_json", record: ptr(`{broken`), wantOK: false, wantPurged: true},
		{name: "missing_access_token", record: ptr(`{"refresh_token":"r1"}`), wantOK: false, wantPurged: true},
		{name: "json_but_not_object", record: ptr(`"just a string"`), wantOK: false, wantPurged: true},
		{name: "empty_string", record: ptr(``), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := testutil.NewMockStorage()
			if tt.record != nil {
				s.Items[domain.TokenStorageKey] = *tt.record
			}

			pair, ok := Load(ctx, s)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAccess, pair.AccessToken)

			_, stillThere := s.Item(domain.TokenStorageKey)
			if tt.wantPurged {
				assert.False(t, stillThere, "corrupted record must be removed")
			}
			if tt.wantOK {
				assert.True(t, stillThere)
			}
		})
	}
}

func TestLoad_StorageErrorIsAbsent(t *testing.T) {
	s := testutil.NewMockStorage()
	s.GetItemFunc = func(ctx context.Context, key string) (string, bool, error) {
		return "", false, testutil.ErrMockStorage
	}

	pair, ok := Load(context.Background(), s)

	assert.False(t, ok)
	assert.Empty(t, pair)
	assert.Empty(t, s.Removed, "a read failure is not a corrupted record")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewMockStorage()
	access := testutil.MintToken(t, "42", domain.RoleGuest)
	want := domain.TokenPair{AccessToken: access, RefreshToken: "r1"}

	require.NoError(t, Save(ctx, s, want))

	got, ok := Load(ctx, s)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, Clear(ctx, s))
	_, ok = Load(ctx, s)
	assert.False(t, ok)
}

func TestSave_StorageError(t *testing.T) {
	s := testutil.NewMockStorage()
	s.SetItemFunc = func(ctx context.Context, key, value string) error {
		return testutil.ErrMockStorage
	}

	err := Save(context.Background(), s, domain.TokenPair{AccessToken: "a"})

	assert.True(t, errors.Is(err, testutil.ErrMockStorage))
}

func TestParse_ErrMalformedRecord(t *testing.T) {
	_, err := Parse(`[]`)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func ptr(s string) *string { return &s }
