package checkout

import (
	"strings"

	"github.com/smarttech/storefront/internal/cart"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/validate"
)

// Form is the customer block collected at checkout.
type Form struct {
	FullName            string `json:"full_name" validate:"required"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"required"`
	Address             string `json:"address"`
	City                string `json:"city"`
	Country             string `json:"country"`
	SpecialRequirements string `json:"special_requirements"`
	DeliveryAddress     string `json:"delivery_address"`
}

func (f Form) normalized() Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.Country = strings.TrimSpace(f.Country)
	f.SpecialRequirements = strings.TrimSpace(f.SpecialRequirements)
	f.DeliveryAddress = strings.TrimSpace(f.DeliveryAddress)
	return f
}

// Validate checks the required customer fields after trimming whitespace.
func (f Form) Validate() error {
	return validate.Struct(f.normalized())
}

// BuildOrder is the order-creation payload for one cart line. The delivery
// address falls back to the billing address when left blank.
func BuildOrder(f Form, line cart.Line) storefront.OrderCreate {
	f = f.normalized()
	delivery := f.DeliveryAddress
	if delivery == "" {
		delivery = f.Address
	}
	return storefront.OrderCreate{
		Customer: storefront.Customer{
			FullName: f.FullName,
			Email:    f.Email,
			Phone:    f.Phone,
			Address:  optional(f.Address),
			City:     optional(f.City),
			Country:  optional(f.Country),
		},
		ProductID:           line.Product.ID,
		Quantity:            line.Quantity,
		SpecialRequirements: optional(f.SpecialRequirements),
		DeliveryAddress:     optional(delivery),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
