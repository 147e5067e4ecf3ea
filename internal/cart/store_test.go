package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockKV() *mockKV {
	return &mockKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return m.err
}

func (m *mockKV) CartKey(sessionID string) string {
	return "cart:" + sessionID
}

func newTestStore() (*Store, *mockKV) {
	kv := newMockKV()
	return &Store{kv: kv, keyer: kv, ttl: time.Hour}, kv
}

func TestStoreLoadMissingIsEmpty(t *testing.T) {
	store, _ := newTestStore()
	cart, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, cart.Items)
	require.Empty(t, cart.Items)
}

func TestStoreRoundTripRefreshesTTL(t *testing.T) {
	store, kv := newTestStore()
	ctx := context.Background()

	cart := newCart()
	cart.Items[3] = Item{ID: 3, Name: "Etui", PriceCents: 39900, Qty: 2}
	require.NoError(t, store.Save(ctx, "s1", cart))
	require.Equal(t, time.Hour, kv.ttls["cart:s1"])

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, cart.Items, loaded.Items)
}

func TestStoreSaveEmptyDeletesKey(t *testing.T) {
	store, kv := newTestStore()
	ctx := context.Background()
	kv.data["cart:s1"] = `{"items":{"1":{"id":1,"qty":1}}}`

	require.NoError(t, store.Save(ctx, "s1", newCart()))
	_, ok := kv.data["cart:s1"]
	require.False(t, ok)
}

func TestStoreLoadCorruptPayload(t *testing.T) {
	store, kv := newTestStore()
	kv.data["cart:s1"] = "{"
	_, err := store.Load(context.Background(), "s1")
	require.Error(t, err)
}
