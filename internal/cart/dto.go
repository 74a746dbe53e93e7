package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/milsabores/pasteleria-backend/pkg/db/models"
	"github.com/milsabores/pasteleria-backend/pkg/enums"
)

// CartLineInput is one requested line in an upsert: the product reference,
// how many, and an optional personalization message (cake dedication).
type CartLineInput struct {
	Code     string  `json:"code" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Message  *string `json:"message,omitempty" validate:"omitempty,max=200"`
}

// UpsertCartInput replaces the active cart's contents.
type UpsertCartInput struct {
	Items []CartLineInput `json:"items" validate:"required,dive"`
}

// CartItemDTO is one snapshotted cart line.
type CartItemDTO struct {
	ProductCode  string  `json:"product_code"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	UnitPriceCLP int     `json:"unit_price_clp"`
	Quantity     int     `json:"quantity"`
	LineTotalCLP int     `json:"line_total_clp"`
	Message      *string `json:"message,omitempty"`
}

// CartDTO is the active cart plus its latest discount quote.
type CartDTO struct {
	ID                    uuid.UUID        `json:"id"`
	Status                enums.CartStatus `json:"status"`
	Items                 []CartItemDTO    `json:"items"`
	SubtotalCLP           int              `json:"subtotal_clp"`
	DiscountCLP           int              `json:"discount_clp"`
	TotalCLP              int              `json:"total_clp"`
	DiscountPercentage    float64          `json:"discount_percentage"`
	BirthdayDiscountCLP   int              `json:"birthday_discount_clp"`
	PercentageDiscountCLP int              `json:"percentage_discount_clp"`
	DiscountMessages      []string         `json:"discount_messages"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// FromModel projects a cart record onto its transport shape.
func FromModel(record *models.CartRecord) *CartDTO {
	if record == nil {
		return nil
	}
	dto := &CartDTO{
		ID:                    record.ID,
		Status:                record.Status,
		Items:                 make([]CartItemDTO, 0, len(record.Items)),
		SubtotalCLP:           record.SubtotalCLP,
		DiscountCLP:           record.DiscountCLP,
		TotalCLP:              record.TotalCLP,
		DiscountPercentage:    record.DiscountPercentage,
		BirthdayDiscountCLP:   record.BirthdayDiscountCLP,
		PercentageDiscountCLP: record.PercentageDiscountCLP,
		DiscountMessages:      append([]string(nil), record.DiscountMessages...),
		UpdatedAt:             record.UpdatedAt,
	}
	if dto.DiscountMessages == nil {
		dto.DiscountMessages = []string{}
	}
	for _, item := range record.Items {
		dto.Items = append(dto.Items, CartItemDTO{
			ProductCode:  item.ProductCode,
			Name:         item.Name,
			Category:     item.Category,
			UnitPriceCLP: item.UnitPriceCLP,
			Quantity:     item.Quantity,
			LineTotalCLP: item.LineTotalCLP,
			Message:      item.Message,
		})
	}
	return dto
}
