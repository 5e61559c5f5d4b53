package testutil

import (
	"context"
	"errors"
	"sync"

	"hotelguru/internal/domain"
)

// Common test errors
var (
	ErrMockStorage = errors.New("mock: storage unavailable")
)

var _ domain.ClientStorage = (*MockStorage)(nil)

// MockStorage implements domain.ClientStorage for testing
type MockStorage struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	GetItemFunc    func(ctx context.Context, key string) (string, bool, error)
	SetItemFunc    func(ctx context.Context, key, value string) error
	RemoveItemFunc func(ctx context.Context, key string) error

	// In-memory storage for simple tests
	Items map[string]string

	Removed []string
}

// NewMockStorage creates a new MockStorage with initialized maps
func NewMockStorage() *MockStorage {
	return &MockStorage{Items: make(map[string]string)}
}

func (m *MockStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.Items[key]
	return v, ok, nil
}

func (m *MockStorage) SetItem(ctx context.Context, key, value string) error {
	if m.SetItemFunc != nil {
		return m.SetItemFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Items == nil {
		m.Items = make(map[string]string)
	}
	m.Items[key] = value
	return nil
}

func (m *MockStorage) RemoveItem(ctx context.Context, key string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Items, key)
	m.Removed = append(m.Removed, key)
	return nil
}

// Item returns the stored value for key
func (m *MockStorage) Item(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.Items[key]
	return v, ok
}
