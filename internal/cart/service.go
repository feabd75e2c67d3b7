package cart

import (
	"context"

	"github.com/smarttech/storefront/internal/storefront"
)

// Service applies cart mutations as read-modify-write against a Store. Each
// mutation persists before returning; on a persistence error the stored cart is
// unchanged and the error is returned.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context) State {
	return s.store.Load(ctx)
}

func (s *Service) Add(ctx context.Context, product *storefront.Product, quantity int) (State, error) {
	return s.apply(ctx, func(cur State) State { return AddItem(cur, product, quantity) })
}

func (s *Service) Update(ctx context.Context, productID int64, quantity int) (State, error) {
	return s.apply(ctx, func(cur State) State { return UpdateQuantity(cur, productID, quantity) })
}

func (s *Service) Remove(ctx context.Context, productID int64) (State, error) {
	return s.apply(ctx, func(cur State) State { return RemoveItem(cur, productID) })
}

func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *Service) apply(ctx context.Context, fn func(State) State) (State, error) {
	cur := s.store.Load(ctx)
	next := fn(cur)
	if err := s.store.Save(ctx, next); err != nil {
		return cur, err
	}
	return next, nil
}
