package products

import (
	"time"

	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/db/models"
)

// ToDTO renders a stored product in the wire shape the storefront consumes.
func ToDTO(p models.Product) storefront.Product {
	out := storefront.Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Specifications: p.Specifications,
		Images:         p.Images,
		VideoURL:       p.VideoURL,
		IsActive:       p.IsActive,
		StockQuantity:  p.StockQuantity,
		CreatedAt:      FormatTime(p.CreatedAt),
	}
	if out.Specifications == nil {
		out.Specifications = map[string]any{}
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if p.UpdatedAt != nil {
		ts := FormatTime(*p.UpdatedAt)
		out.UpdatedAt = &ts
	}
	return out
}

// FormatTime is the timestamp layout used in every dev backend payload.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
