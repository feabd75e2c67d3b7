package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/db/models"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/pagination"
)

// Service exposes catalog reads and the admin media update.
type Service interface {
	ListProducts(ctx context.Context, skip, limit int) ([]storefront.Product, error)
	GetProduct(ctx context.Context, id int64) (storefront.Product, error)
	UpdateMedia(ctx context.Context, id int64, update storefront.ProductMediaUpdate) (storefront.Product, error)
	SeedCatalog(ctx context.Context) error
}

type repository interface {
	ListActive(ctx context.Context, skip, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	UpdateMedia(ctx context.Context, product *models.Product, now time.Time) error
}

type service struct {
	repo repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the catalog service.
func NewService(repo repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) ListProducts(ctx context.Context, skip, limit int) ([]storefront.Product, error) {
	window := pagination.Params{Skip: skip, Limit: limit}.Normalize()
	rows, err := s.repo.ListActive(ctx, window.Skip, window.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]storefront.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDTO(row))
	}
	return out, nil
}

// GetProduct hides inactive products from the public catalog.
func (s *service) GetProduct(ctx context.Context, id int64) (storefront.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storefront.Product{}, err
	}
	if !row.IsActive {
		return storefront.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return ToDTO(*row), nil
}

func (s *service) UpdateMedia(ctx context.Context, id int64, update storefront.ProductMediaUpdate) (storefront.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storefront.Product{}, err
	}
	if update.Images != nil {
		images := make([]string, 0, len(update.Images))
		for _, img := range update.Images {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}
		row.Images = images
	}
	if update.VideoURL != nil {
		video := strings.TrimSpace(*update.VideoURL)
		if video == "" {
			row.VideoURL = nil
		} else {
			row.VideoURL = &video
		}
	}
	if err := s.repo.UpdateMedia(ctx, row, s.now().UTC()); err != nil {
		return storefront.Product{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product media")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product.media.updated")
	return ToDTO(*row), nil
}

// SeedCatalog inserts the default catalog into an empty products table.
func (s *service) SeedCatalog(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, p := range DefaultCatalog() {
		p := p
		if err := s.repo.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}
	s.logg.Info(s.logg.WithField(ctx, "count", len(DefaultCatalog())), "catalog.seeded")
	return nil
}
