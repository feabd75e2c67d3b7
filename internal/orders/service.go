package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/db"
	"github.com/smarttech/storefront/pkg/db/models"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/pagination"
	"github.com/smarttech/storefront/pkg/validate"
)

const recentOrders = 5

// CreateResult reports whether the order was created now or replayed from an
// earlier request carrying the same idempotency key.
type CreateResult struct {
	Order    storefront.Order
	Replayed bool
}

// Service exposes order intake and the admin order operations.
type Service interface {
	CreateOrder(ctx context.Context, in storefront.OrderCreate, idempotencyKey string) (CreateResult, error)
	ListOrders(ctx context.Context, params storefront.ListOrdersParams) ([]storefront.Order, error)
	GetOrder(ctx context.Context, id int64) (storefront.Order, error)
	UpdateOrder(ctx context.Context, id int64, in storefront.OrderUpdate) (storefront.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	DashboardStats(ctx context.Context) (storefront.DashboardStats, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the orders service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, logg: logg, now: time.Now}, nil
}

func (s *service) CreateOrder(ctx context.Context, in storefront.OrderCreate, idempotencyKey string) (CreateResult, error) {
	in.Customer.Email = strings.ToLower(strings.TrimSpace(in.Customer.Email))
	in.Customer.FullName = strings.TrimSpace(in.Customer.FullName)
	in.Customer.Phone = strings.TrimSpace(in.Customer.Phone)
	if err := validate.Struct(in); err != nil {
		return CreateResult{}, err
	}
	key := strings.TrimSpace(idempotencyKey)
	if key != "" {
		ctx = s.logg.WithField(ctx, "idempotency_key", key)
		if res, ok, err := s.replay(ctx, in, key); ok || err != nil {
			return res, err
		}
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		customer, err := upsertCustomer(ctx, repo, in.Customer)
		if err != nil {
			return err
		}

		order := &models.Order{
			CustomerID:          customer.ID,
			ProductID:           product.ID,
			Quantity:            in.Quantity,
			TotalPrice:          product.Price * float64(in.Quantity),
			Status:              string(storefront.OrderStatusPending),
			SpecialRequirements: optional(in.SpecialRequirements),
			DeliveryAddress:     optional(in.DeliveryAddress),
			OrderDate:           s.now().UTC(),
		}
		if key != "" {
			order.IdempotencyKey = &key
		}
		if err := repo.Create(ctx, order); err != nil {
			return err
		}
		order.Customer = *customer
		order.Product = *product
		created = order
		return nil
	})
	if err != nil {
		if key != "" && db.IsUniqueViolation(err, "") {
			// a concurrent request with the same key won the insert
			if res, ok, rerr := s.replay(ctx, in, key); ok || rerr != nil {
				return res, rerr
			}
		}
		if pkgerrors.As(err) != nil {
			return CreateResult{}, err
		}
		return CreateResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   created.ID,
		"product_id": created.ProductID,
		"quantity":   created.Quantity,
	}), "order.created")
	return CreateResult{Order: toDTO(*created)}, nil
}

// replay returns the stored order for key. A key reused with a different payload is
// rejected rather than silently answered with the wrong order.
func (s *service) replay(ctx context.Context, in storefront.OrderCreate, key string) (CreateResult, bool, error) {
	existing, err := s.repo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return CreateResult{}, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup idempotency key")
	}
	if existing == nil {
		return CreateResult{}, false, nil
	}
	if existing.ProductID != in.ProductID || existing.Quantity != in.Quantity ||
		!strings.EqualFold(existing.Customer.Email, in.Customer.Email) {
		return CreateResult{}, false, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key was already used for a different order").
			WithDetails(map[string]any{"order_id": existing.ID})
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", existing.ID), "order.replayed")
	return CreateResult{Order: toDTO(*existing), Replayed: true}, true, nil
}

// upsertCustomer reuses the customer registered under the email and refreshes the
// contact details supplied with the new order.
func upsertCustomer(ctx context.Context, repo Repository, in storefront.Customer) (*models.Customer, error) {
	customer, err := repo.FindCustomerByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer = &models.Customer{Email: in.Email}
	}
	customer.FullName = in.FullName
	customer.Phone = in.Phone
	if v := optional(in.Address); v != nil {
		customer.Address = v
	}
	if v := optional(in.City); v != nil {
		customer.City = v
	}
	if v := optional(in.Country); v != nil {
		customer.Country = v
	}
	if err := repo.SaveCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *service) ListOrders(ctx context.Context, params storefront.ListOrdersParams) ([]storefront.Order, error) {
	window := pagination.Params{Skip: params.Skip, Limit: params.Limit}.Normalize()
	filter := ListFilter{Skip: window.Skip, Limit: window.Limit, Status: string(params.Status)}
	if filter.Status != "" && !params.Status.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Invalid status %q", params.Status))
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]storefront.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (storefront.Order, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storefront.Order{}, wrapInternal(err, "get order")
	}
	return toDTO(*row), nil
}

func (s *service) UpdateOrder(ctx context.Context, id int64, in storefront.OrderUpdate) (storefront.Order, error) {
	if err := validate.Struct(in); err != nil {
		return storefront.Order{}, err
	}
	if in.Status != nil && !in.Status.Valid() {
		return storefront.Order{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Invalid status %q", *in.Status))
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storefront.Order{}, wrapInternal(err, "get order")
	}
	if in.Status != nil {
		row.Status = string(*in.Status)
	}
	if in.Quantity != nil {
		row.Quantity = *in.Quantity
		row.TotalPrice = row.Product.Price * float64(row.Quantity)
	}
	if in.SpecialRequirements != nil {
		row.SpecialRequirements = optional(in.SpecialRequirements)
	}
	if in.DeliveryAddress != nil {
		row.DeliveryAddress = optional(in.DeliveryAddress)
	}
	if err := s.repo.Update(ctx, row, s.now().UTC()); err != nil {
		return storefront.Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": id, "status": row.Status}), "order.updated")
	return toDTO(*row), nil
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapInternal(err, "delete order")
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", id), "order.deleted")
	return nil
}

func (s *service) DashboardStats(ctx context.Context) (storefront.DashboardStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return storefront.DashboardStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	revenue, err := s.repo.Revenue(ctx, string(storefront.OrderStatusCancelled))
	if err != nil {
		return storefront.DashboardStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}
	customers, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return storefront.DashboardStats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count customers")
	}
	recent, err := s.ListOrders(ctx, storefront.ListOrdersParams{Limit: recentOrders})
	if err != nil {
		return storefront.DashboardStats{}, err
	}

	stats := storefront.DashboardStats{
		PendingOrders:   counts[string(storefront.OrderStatusPending)],
		ConfirmedOrders: counts[string(storefront.OrderStatusConfirmed)],
		ShippedOrders:   counts[string(storefront.OrderStatusShipped)],
		DeliveredOrders: counts[string(storefront.OrderStatusDelivered)],
		CancelledOrders: counts[string(storefront.OrderStatusCancelled)],
		TotalRevenue:    revenue,
		TotalCustomers:  int(customers),
		RecentOrders:    recent,
	}
	for _, n := range counts {
		stats.TotalOrders += n
	}
	return stats, nil
}

func wrapInternal(err error, msg string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
