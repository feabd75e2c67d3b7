package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smarttech/storefront/pkg/kv"
	"github.com/smarttech/storefront/pkg/logger"
)

// StorageKey is where the serialized cart lives.
const StorageKey = "smarttech_cart"

// Store persists State in a kv.Store.
type Store struct {
	kv   kv.Store
	logg *logger.Logger
}

func NewStore(store kv.Store, logg *logger.Logger) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{kv: store, logg: logg}
}

// Load never fails: a missing, unreadable or corrupt cart is an empty cart.
func (s *Store) Load(ctx context.Context) State {
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return State{}
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.load.read_failed")
		return State{}
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.load.corrupt")
		return State{}
	}

	clean, dropped := Sanitize(state)
	if dropped > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "dropped_lines", dropped), "cart.load.malformed_lines")
	}
	return clean
}

// Save overwrites the stored cart with s.
func (s *Store) Save(ctx context.Context, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear removes the stored cart entirely.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
