package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/promonitor/storefront/pkg/config"
	redisclient "github.com/promonitor/storefront/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(sessionID string) string
}

// Store keeps one JSON cart per session in Redis. Every write refreshes the TTL.
type Store struct {
	kv    kvStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewStore builds a Redis-backed cart store.
func NewStore(client *redisclient.Client, cfg config.CartConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{kv: client, keyer: client, ttl: cfg.TTL}, nil
}

// Load returns the session cart; a missing key is an empty cart.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.keyer.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return newCart(), nil
		}
		return nil, err
	}
	cart := newCart()
	if err := json.Unmarshal([]byte(raw), cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = map[uint]Item{}
	}
	return cart, nil
}

// Save writes the cart, or deletes the key when the cart is empty.
func (s *Store) Save(ctx context.Context, sessionID string, cart *Cart) error {
	if cart == nil || len(cart.Items) == 0 {
		return s.Clear(ctx, sessionID)
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.kv.Set(ctx, s.keyer.CartKey(sessionID), string(payload), s.ttl)
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.keyer.CartKey(sessionID))
}
