package orders

import (
	"github.com/smarttech/storefront/internal/products"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/db/models"
)

func toDTO(o models.Order) storefront.Order {
	out := storefront.Order{
		ID:                  o.ID,
		CustomerID:          o.CustomerID,
		ProductID:           o.ProductID,
		Quantity:            o.Quantity,
		TotalPrice:          o.TotalPrice,
		Status:              storefront.OrderStatus(o.Status),
		SpecialRequirements: o.SpecialRequirements,
		DeliveryAddress:     o.DeliveryAddress,
		OrderDate:           products.FormatTime(o.OrderDate),
	}
	if o.UpdatedAt != nil {
		ts := products.FormatTime(*o.UpdatedAt)
		out.UpdatedAt = &ts
	}
	if o.Customer.ID != 0 {
		c := customerDTO(o.Customer)
		out.Customer = &c
	}
	if o.Product.ID != 0 {
		p := products.ToDTO(o.Product)
		out.Product = &p
	}
	return out
}

func customerDTO(c models.Customer) storefront.Customer {
	return storefront.Customer{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		Country:   c.Country,
		CreatedAt: products.FormatTime(c.CreatedAt),
	}
}
