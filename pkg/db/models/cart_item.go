package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem snapshots one product line inside a CartRecord. Name and category
// are copied from the product at quote time so the promotion engine classifies
// against what the customer actually saw.
type CartItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	Position     int       `gorm:"column:position;not null;default:0"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductCode  string    `gorm:"column:product_code;not null"`
	Name         string    `gorm:"column:name;not null"`
	Category     string    `gorm:"column:category;not null"`
	UnitPriceCLP int       `gorm:"column:unit_price_clp;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	LineTotalCLP int       `gorm:"column:line_total_clp;not null"`
	Message      *string   `gorm:"column:message"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
