package models

import "time"

// Order is one product line submitted by the storefront checkout.
type Order struct {
	ID                  int64      `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID          int64      `gorm:"column:customer_id;not null;index:idx_orders_customer_id"`
	ProductID           int64      `gorm:"column:product_id;not null;index:idx_orders_product_id"`
	Quantity            int        `gorm:"column:quantity;not null"`
	TotalPrice          float64    `gorm:"column:total_price;not null"`
	Status              string     `gorm:"column:status;not null;default:'pending';index:idx_orders_status"`
	SpecialRequirements *string    `gorm:"column:special_requirements"`
	DeliveryAddress     *string    `gorm:"column:delivery_address"`
	IdempotencyKey      *string    `gorm:"column:idempotency_key;uniqueIndex:idx_orders_idempotency_key"`
	OrderDate           time.Time  `gorm:"column:order_date;not null"`
	UpdatedAt           *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
	Customer            Customer   `gorm:"foreignKey:CustomerID"`
	Product             Product    `gorm:"foreignKey:ProductID"`
}
