package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, keyer: store, ttl: time.Hour}, store
}

func TestManagerGenerateStoresDigest(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, "access-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored := store.data[store.AccessSessionKey("access-123")]
	require.Equal(t, digest(token), stored)
	require.NotEqual(t, token, stored)

	_, err = manager.Generate(ctx, " ")
	require.Error(t, err)
}

func TestManagerRotate(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	token, err := manager.Generate(ctx, "access-123")
	require.NoError(t, err)

	_, _, err = manager.Rotate(ctx, "access-123", "wrong")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	newAccessID, newToken, err := manager.Rotate(ctx, "access-123", token)
	require.NoError(t, err)
	require.NotEqual(t, "access-123", newAccessID)
	require.NotEqual(t, token, newToken)
	require.NotContains(t, store.data, store.AccessSessionKey("access-123"))

	ok, err := manager.HasSession(ctx, newAccessID)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = manager.Rotate(ctx, "access-123", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestManagerRevoke(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	_, err := manager.Generate(ctx, "access-1")
	require.NoError(t, err)
	require.NoError(t, manager.Revoke(ctx, "access-1"))

	ok, err := manager.HasSession(ctx, "access-1")
	require.NoError(t, err)
	require.False(t, ok)
}
