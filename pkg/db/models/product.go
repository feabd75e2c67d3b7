package models

import "time"

// Product is a catalog entry. The storefront sells a single smart board but the catalog
// is modelled as a list.
type Product struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string         `gorm:"column:name;not null"`
	Description    string         `gorm:"column:description;not null;default:''"`
	Price          float64        `gorm:"column:price;not null"`
	Specifications map[string]any `gorm:"column:specifications;serializer:json"`
	Images         []string       `gorm:"column:images;serializer:json"`
	VideoURL       *string        `gorm:"column:video_url"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	StockQuantity  int            `gorm:"column:stock_quantity;not null;default:0"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      *time.Time     `gorm:"column:updated_at;autoUpdateTime:false"`
}
