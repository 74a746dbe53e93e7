package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milsabores/pasteleria-backend/internal/cart"
	"github.com/milsabores/pasteleria-backend/internal/catalog"
	"github.com/milsabores/pasteleria-backend/internal/orders"
	"github.com/milsabores/pasteleria-backend/internal/promotions"
	"github.com/milsabores/pasteleria-backend/pkg/db/models"
	"github.com/milsabores/pasteleria-backend/pkg/enums"
	pkgerrors "github.com/milsabores/pasteleria-backend/pkg/errors"
	"github.com/milsabores/pasteleria-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// cartStore and the other narrow interfaces below describe exactly what
// checkout needs from the surrounding repositories, so tests can swap in
// transaction-bound instances without faking whole packages.
type cartStore interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
}

type orderStore interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type stockStore interface {
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}

// Stores bundles the transaction-bound repository views the checkout flow
// touches. BindTx rebinds every store to the same *gorm.DB.
type Stores struct {
	Carts  func(tx *gorm.DB) cartStore
	Orders func(tx *gorm.DB) orderStore
	Stock  func(tx *gorm.DB) stockStore
}

// NewStores binds the checkout flow to the real repositories. Each factory
// re-creates its repository on the transaction handle so every store in one
// checkout shares the same *gorm.DB.
func NewStores() Stores {
	return Stores{
		Carts:  func(tx *gorm.DB) cartStore { return cart.NewRepository(tx) },
		Orders: func(tx *gorm.DB) orderStore { return orders.NewRepository(tx) },
		Stock:  func(tx *gorm.DB) stockStore { return catalog.NewRepository(tx) },
	}
}

// CheckoutInput carries the optional order-level metadata supplied by the
// customer at confirmation time.
type CheckoutInput struct {
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

// Service converts a customer's active cart into a finalized order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, email string, input CheckoutInput) (*orders.OrderDTO, error)
}

type service struct {
	tx     txRunner
	stores Stores
	engine promotions.Engine
}

// NewService builds the checkout service. All stores are required.
func NewService(tx txRunner, stores Stores, engine promotions.Engine) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stores.Carts == nil || stores.Orders == nil || stores.Stock == nil {
		return nil, fmt.Errorf("cart, order and stock stores required")
	}
	if engine == nil {
		return nil, fmt.Errorf("promotion engine required")
	}
	return &service{tx: tx, stores: stores, engine: engine}, nil
}

// Checkout re-prices the stored cart through the discount pipeline, snapshots
// the result onto a new order, decrements stock, and marks the cart converted.
// The whole conversion runs in one transaction so a failed stock decrement
// leaves the cart untouched.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, email string, input CheckoutInput) (*orders.OrderDTO, error) {
	var out *orders.OrderDTO

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.stores.Carts(tx)
		orderRepo := s.stores.Orders(tx)
		stock := s.stores.Stock(tx)

		record, err := carts.FindActiveByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no active cart to check out")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		quote, err := s.engine.Compute(ctx, linesFromCart(record.Items), email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute discount")
		}

		number, err := orderRepo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate order number")
		}

		order := &models.Order{
			ID:                    uuid.New(),
			OrderNumber:           number,
			UserID:                userID,
			CustomerEmail:         strings.ToLower(strings.TrimSpace(email)),
			Status:                enums.OrderStatusPending,
			SubtotalCLP:           quote.SubtotalCLP,
			DiscountCLP:           quote.DiscountCLP,
			TotalCLP:              quote.TotalCLP,
			DiscountPercentage:    quote.Breakdown.Percentage,
			BirthdayDiscountCLP:   quote.Breakdown.BirthdayDiscountCLP,
			PercentageDiscountCLP: quote.Breakdown.PercentageDiscountCLP,
			DiscountMessages:      types.DiscountMessages(quote.Breakdown.Messages),
			Notes:                 input.Notes,
		}
		if _, err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		if err := orderRepo.CreateLineItems(ctx, lineItemsFromCart(order.ID, record.Items)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order line items")
		}

		for _, item := range record.Items {
			if err := stock.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("insufficient stock for %s", item.ProductCode))
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
		}

		if err := carts.UpdateStatus(ctx, record.ID, enums.CartStatusConverted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "convert cart")
		}

		created, err := orderRepo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		out = orders.FromModel(created)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func linesFromCart(items []models.CartItem) []promotions.LineItem {
	lines := make([]promotions.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, promotions.LineItem{
			Code:      item.ProductCode,
			Name:      item.Name,
			Category:  item.Category,
			UnitPrice: item.UnitPriceCLP,
			Quantity:  item.Quantity,
			Message:   item.Message,
		})
	}
	return lines
}

func lineItemsFromCart(orderID uuid.UUID, items []models.CartItem) []models.OrderLineItem {
	out := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		productID := item.ProductID
		out = append(out, models.OrderLineItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    &productID,
			ProductCode:  item.ProductCode,
			Name:         item.Name,
			Category:     item.Category,
			UnitPriceCLP: item.UnitPriceCLP,
			Quantity:     item.Quantity,
			LineTotalCLP: item.UnitPriceCLP * item.Quantity,
			Message:      item.Message,
		})
	}
	return out
}
