package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the snapshot of each item within an order.
type OrderLineItem struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID    *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductCode  string     `gorm:"column:product_code;not null"`
	Name         string     `gorm:"column:name;not null"`
	Category     string     `gorm:"column:category;not null"`
	UnitPriceCLP int        `gorm:"column:unit_price_clp;not null"`
	Quantity     int        `gorm:"column:quantity;not null"`
	LineTotalCLP int        `gorm:"column:line_total_clp;not null"`
	Message      *string    `gorm:"column:message"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
