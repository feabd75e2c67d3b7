package products

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/smarttech/storefront/pkg/db/models"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
)

// Repository persists catalog entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListActive returns active products ordered by id.
func (r *Repository) ListActive(ctx context.Context, skip, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// FindByID loads one product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateMedia overwrites the gallery and video columns and stamps updated_at.
func (r *Repository) UpdateMedia(ctx context.Context, product *models.Product, now time.Time) error {
	product.UpdatedAt = &now
	return r.db.WithContext(ctx).
		Model(product).
		Select("images", "video_url", "updated_at").
		Updates(product).Error
}
