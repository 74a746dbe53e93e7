package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/milsabores/pasteleria-backend/pkg/enums"
	"github.com/milsabores/pasteleria-backend/pkg/types"
)

// Order is the finalized receipt for a converted cart. The discount fields
// are a verbatim snapshot of the promotion engine result at checkout time.
type Order struct {
	ID                    uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber           int64                  `gorm:"column:order_number;not null;uniqueIndex"`
	UserID                uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	CustomerEmail         string                 `gorm:"column:customer_email;not null"`
	Status                enums.OrderStatus      `gorm:"column:status;not null;default:'pending'"`
	SubtotalCLP           int                    `gorm:"column:subtotal_clp;not null"`
	DiscountCLP           int                    `gorm:"column:discount_clp;not null;default:0"`
	TotalCLP              int                    `gorm:"column:total_clp;not null"`
	DiscountPercentage    float64                `gorm:"column:discount_percentage;not null;default:0"`
	BirthdayDiscountCLP   int                    `gorm:"column:birthday_discount_clp;not null;default:0"`
	PercentageDiscountCLP int                    `gorm:"column:percentage_discount_clp;not null;default:0"`
	DiscountMessages      types.DiscountMessages `gorm:"column:discount_messages;type:jsonb;serializer:json"`
	Notes                 *string                `gorm:"column:notes"`
	LineItems             []OrderLineItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CancelledAt           *time.Time             `gorm:"column:cancelled_at"`
	DeliveredAt           *time.Time             `gorm:"column:delivered_at"`
	CreatedAt             time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
