package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/milsabores/pasteleria-backend/pkg/enums"
	"github.com/milsabores/pasteleria-backend/pkg/types"
)

// CartRecord is the customer's single active cart plus its latest quote.
// Quote fields are recomputed server-side on every upsert; the stored values
// exist so the checkout preview and the final receipt share one source.
type CartRecord struct {
	ID                    uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Status                enums.CartStatus       `gorm:"column:status;not null;default:'active'"`
	SubtotalCLP           int                    `gorm:"column:subtotal_clp;not null;default:0"`
	DiscountCLP           int                    `gorm:"column:discount_clp;not null;default:0"`
	TotalCLP              int                    `gorm:"column:total_clp;not null;default:0"`
	DiscountPercentage    float64                `gorm:"column:discount_percentage;not null;default:0"`
	BirthdayDiscountCLP   int                    `gorm:"column:birthday_discount_clp;not null;default:0"`
	PercentageDiscountCLP int                    `gorm:"column:percentage_discount_clp;not null;default:0"`
	DiscountMessages      types.DiscountMessages `gorm:"column:discount_messages;type:jsonb;serializer:json"`
	Items                 []CartItem             `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
