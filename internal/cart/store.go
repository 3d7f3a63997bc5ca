package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
	redislib "github.com/refaccionariaweb/storefront-backend/pkg/redis"
)

type blobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(sessionID string) string
}

// Store persists one serialized cart per session in Redis. The idle TTL is
// refreshed on every save, so a cart lives as long as the session keeps
// touching it and expires with the session otherwise.
type Store struct {
	store blobStore
	keys  cartKeyer
	ttl   time.Duration
}

// NewStore builds a session cart store with the given idle TTL.
func NewStore(store blobStore, keys cartKeyer, ttl time.Duration) (*Store, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if keys == nil {
		return nil, fmt.Errorf("keyer required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive")
	}
	return &Store{store: store, keys: keys, ttl: ttl}, nil
}

// Load returns the cart stored for the session. A missing or expired key
// yields a fresh empty cart, never an error.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.store.Get(ctx, s.keys.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return New(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		// A corrupt blob is unrecoverable; start the session over rather
		// than failing every cart request until the TTL clears it.
		return New(), nil
	}
	return &c, nil
}

// Save serializes the cart and refreshes the idle TTL.
func (s *Store) Save(ctx context.Context, sessionID string, c *Cart) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize cart")
	}
	if err := s.store.Set(ctx, s.keys.CartKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Clear deletes the session's cart. Clearing an absent cart is a no-op.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.store.Del(ctx, s.keys.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
