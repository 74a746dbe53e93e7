package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing. Prices are integer Chilean pesos;
// CLP has no subunit.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string         `gorm:"column:code;not null;uniqueIndex"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description"`
	CategoryID  uuid.UUID      `gorm:"column:category_id;type:uuid;not null"`
	Category    *Category      `gorm:"foreignKey:CategoryID"`
	PriceCLP    int            `gorm:"column:price_clp;not null"`
	ImageURL    *string        `gorm:"column:image_url"`
	Stock       int            `gorm:"column:stock;not null;default:0"`
	Allergens   pq.StringArray `gorm:"column:allergens;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool           `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
