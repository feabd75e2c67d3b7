// Package checkout turns the cart plus a customer form into backend orders,
// one sequential submission per cart line.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smarttech/storefront/internal/cart"
	"github.com/smarttech/storefront/internal/storefront"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/kv"
	"github.com/smarttech/storefront/pkg/logger"
)

// ErrEmptyCart is returned when there is nothing to submit.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")

type orderCreator interface {
	CreateOrder(ctx context.Context, order storefront.OrderCreate, opts ...storefront.OrderOption) (storefront.Order, error)
}

type cartStore interface {
	Load(ctx context.Context) cart.State
	Clear(ctx context.Context) error
}

// Result describes a completed checkout.
type Result struct {
	AttemptID string
	Orders    []storefront.Order
	// Skipped holds product ids whose orders were created by an earlier try of
	// the same attempt.
	Skipped []int64
	Resumed bool
	// Unrecorded holds product ids whose orders were placed but could not be written
	// to the journal. A later retry cannot skip them.
	Unrecorded []int64
}

// PartialError reports a checkout that stopped after some orders already exist.
type PartialError struct {
	AttemptID       string
	Created         []storefront.Order
	Skipped         []int64
	FailedProductID int64
	Unrecorded      []int64
	Err             error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("checkout stopped at product %d after %d order(s) were placed: %v",
		e.FailedProductID, len(e.Created)+len(e.Skipped), e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

type Service struct {
	orders  orderCreator
	cart    cartStore
	journal *journalStore
	logg    *logger.Logger
	newID   func() string
	now     func() time.Time
}

func NewService(orders orderCreator, carts cartStore, store kv.Store, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		orders:  orders,
		cart:    carts,
		journal: &journalStore{kv: store, logg: logg},
		logg:    logg,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Submit validates the form and places one order per cart line, in cart order,
// waiting for each before sending the next. The first failure stops the run and
// leaves the cart untouched. Only a fully successful run clears the cart.
func (s *Service) Submit(ctx context.Context, form Form) (Result, error) {
	form = form.normalized()
	if err := form.Validate(); err != nil {
		return Result{}, err
	}
	state := s.cart.Load(ctx)
	if state.Empty() {
		return Result{}, ErrEmptyCart
	}

	fp := fingerprint(state, form.Email)
	j, err := s.journal.load(ctx)
	if err != nil {
		return Result{}, err
	}
	resumed := j != nil && j.Fingerprint == fp
	if !resumed {
		j = &Journal{
			AttemptID:   s.newID(),
			Fingerprint: fp,
			Created:     map[int64]int64{},
			StartedAt:   s.now().UTC(),
		}
	}
	ctx = s.logg.WithAttemptID(ctx, j.AttemptID)
	if err := s.journal.save(ctx, j); err != nil {
		return Result{}, err
	}
	if resumed {
		s.logg.Info(s.logg.WithField(ctx, "already_created", len(j.Created)), "checkout.resumed")
	}

	result := Result{AttemptID: j.AttemptID, Resumed: resumed}
	for _, line := range state.Lines {
		productID := line.Product.ID
		if _, done := j.Created[productID]; done {
			result.Skipped = append(result.Skipped, productID)
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, s.failure(ctx, result, productID, err)
		}

		order, err := s.orders.CreateOrder(ctx, BuildOrder(form, line),
			storefront.WithIdempotencyKey(IdempotencyKey(j.AttemptID, line)))
		if err != nil {
			return result, s.failure(ctx, result, productID, err)
		}
		result.Orders = append(result.Orders, order)
		j.Created[productID] = order.ID
		if err := s.journal.save(ctx, j); err != nil {
			result.Unrecorded = append(result.Unrecorded, productID)
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"product_id": productID,
				"order_id":   order.ID,
				"error":      err.Error(),
			}), "checkout.journal.save_failed")
		}
	}

	if err := s.cart.Clear(ctx); err != nil {
		return result, fmt.Errorf("orders placed but the cart could not be cleared: %w", err)
	}
	if err := s.journal.clear(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout.journal.clear_failed")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"orders":  len(result.Orders),
		"skipped": len(result.Skipped),
	}), "checkout.completed")
	return result, nil
}

func (s *Service) failure(ctx context.Context, result Result, productID int64, err error) error {
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"product_id": productID,
		"created":    len(result.Orders) + len(result.Skipped),
		"error":      err.Error(),
	}), "checkout.failed")
	if len(result.Orders) == 0 && len(result.Skipped) == 0 {
		return err
	}
	return &PartialError{
		AttemptID:       result.AttemptID,
		Created:         result.Orders,
		Skipped:         result.Skipped,
		FailedProductID: productID,
		Unrecorded:      result.Unrecorded,
		Err:             err,
	}
}

// Pending returns the recorded attempt, if any, for display.
func (s *Service) Pending(ctx context.Context) (*Journal, error) {
	return s.journal.load(ctx)
}

// Abandon forgets the recorded attempt so the next checkout starts fresh.
func (s *Service) Abandon(ctx context.Context) error {
	return s.journal.clear(ctx)
}
