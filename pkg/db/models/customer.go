package models

import "time"

// Customer is created on first order and reused by email afterwards.
type Customer struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FullName  string    `gorm:"column:full_name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:idx_customers_email"`
	Phone     string    `gorm:"column:phone;not null"`
	Address   *string   `gorm:"column:address"`
	City      *string   `gorm:"column:city"`
	Country   *string   `gorm:"column:country"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
