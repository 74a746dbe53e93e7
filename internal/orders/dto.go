package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/milsabores/pasteleria-backend/pkg/db/models"
	"github.com/milsabores/pasteleria-backend/pkg/enums"
)

// OrderLineItemDTO is one receipt line.
type OrderLineItemDTO struct {
	ProductCode  string  `json:"product_code"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	UnitPriceCLP int     `json:"unit_price_clp"`
	Quantity     int     `json:"quantity"`
	LineTotalCLP int     `json:"line_total_clp"`
	Message      *string `json:"message,omitempty"`
}

// OrderDTO is the receipt projection, discount breakdown included.
type OrderDTO struct {
	ID                    uuid.UUID          `json:"id"`
	OrderNumber           int64              `json:"order_number"`
	CustomerEmail         string             `json:"customer_email"`
	Status                enums.OrderStatus  `json:"status"`
	SubtotalCLP           int                `json:"subtotal_clp"`
	DiscountCLP           int                `json:"discount_clp"`
	TotalCLP              int                `json:"total_clp"`
	DiscountPercentage    float64            `json:"discount_percentage"`
	BirthdayDiscountCLP   int                `json:"birthday_discount_clp"`
	PercentageDiscountCLP int                `json:"percentage_discount_clp"`
	DiscountMessages      []string           `json:"discount_messages"`
	Notes                 *string            `json:"notes,omitempty"`
	LineItems             []OrderLineItemDTO `json:"line_items"`
	CancelledAt           *time.Time         `json:"cancelled_at,omitempty"`
	DeliveredAt           *time.Time         `json:"delivered_at,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
}

// OrderPage is one page of receipts plus the next cursor.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// UpdateStatusRequest is the admin payload for advancing an order.
type UpdateStatusRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

// FromModel projects an order onto its transport shape.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                    order.ID,
		OrderNumber:           order.OrderNumber,
		CustomerEmail:         order.CustomerEmail,
		Status:                order.Status,
		SubtotalCLP:           order.SubtotalCLP,
		DiscountCLP:           order.DiscountCLP,
		TotalCLP:              order.TotalCLP,
		DiscountPercentage:    order.DiscountPercentage,
		BirthdayDiscountCLP:   order.BirthdayDiscountCLP,
		PercentageDiscountCLP: order.PercentageDiscountCLP,
		DiscountMessages:      append([]string(nil), order.DiscountMessages...),
		Notes:                 order.Notes,
		LineItems:             make([]OrderLineItemDTO, 0, len(order.LineItems)),
		CancelledAt:           order.CancelledAt,
		DeliveredAt:           order.DeliveredAt,
		CreatedAt:             order.CreatedAt,
	}
	if dto.DiscountMessages == nil {
		dto.DiscountMessages = []string{}
	}
	for _, item := range order.LineItems {
		dto.LineItems = append(dto.LineItems, OrderLineItemDTO{
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
