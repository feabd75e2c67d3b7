package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/smarttech/storefront/pkg/db/models"
)

// ListFilter narrows the admin order listing.
type ListFilter struct {
	Skip   int
	Limit  int
	Status string
}

// Repository captures the persistence surface used by the orders service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order, now time.Time) error
	Delete(ctx context.Context, id int64) error
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	SaveCustomer(ctx context.Context, customer *models.Customer) error
	FindProduct(ctx context.Context, id int64) (*models.Product, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Revenue(ctx context.Context, excludeStatus string) (float64, error)
	CountCustomers(ctx context.Context) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
