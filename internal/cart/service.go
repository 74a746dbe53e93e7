package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milsabores/pasteleria-backend/internal/promotions"
	"github.com/milsabores/pasteleria-backend/pkg/db/models"
	pkgerrors "github.com/milsabores/pasteleria-backend/pkg/errors"
	"github.com/milsabores/pasteleria-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindProductByCode(ctx context.Context, code string) (*models.Product, error)
}

// Service exposes the cart operations used by the storefront.
type Service interface {
	UpsertCart(ctx context.Context, userID uuid.UUID, email string, input UpsertCartInput) (*CartDTO, error)
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     *Repository
	tx       txRunner
	products productLoader
	engine   promotions.Engine
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, products productLoader, engine promotions.Engine) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if engine == nil {
		return nil, fmt.Errorf("promotion engine required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
		engine:   engine,
	}, nil
}

// UpsertCart validates the requested lines against the catalog, re-prices
// them server-side, runs the discount pipeline, and persists the whole
// snapshot atomically. Client-supplied prices are never trusted.
func (s *service) UpsertCart(ctx context.Context, userID uuid.UUID, email string, input UpsertCartInput) (*CartDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart requires at least one item")
	}

	items, lines, err := s.buildSnapshot(ctx, input)
	if err != nil {
		return nil, err
	}

	quote, err := s.engine.Compute(ctx, lines, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute discount")
	}

	var out *CartDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindActiveByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record, err = repo.Create(ctx, &models.CartRecord{ID: uuid.New(), UserID: userID})
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active cart")
		}

		if err := repo.ReplaceItems(ctx, record.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace cart items")
		}

		updates := map[string]any{
			"subtotal_clp":            quote.SubtotalCLP,
			"discount_clp":            quote.DiscountCLP,
			"total_clp":               quote.TotalCLP,
			"discount_percentage":     quote.Breakdown.Percentage,
			"birthday_discount_clp":   quote.Breakdown.BirthdayDiscountCLP,
			"percentage_discount_clp": quote.Breakdown.PercentageDiscountCLP,
			"discount_messages":       types.DiscountMessages(quote.Breakdown.Messages),
		}
		if err := repo.UpdateQuote(ctx, record.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store quote")
		}

		refreshed, err := repo.FindActiveByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
		}
		out = FromModel(refreshed)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return out, nil
}

func (s *service) GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(record), nil
}

// buildSnapshot resolves each requested line against the catalog and returns
// the persistence snapshot plus the engine's input, in the customer's order.
func (s *service) buildSnapshot(ctx context.Context, input UpsertCartInput) ([]models.CartItem, []promotions.LineItem, error) {
	seen := map[string]struct{}{}
	items := make([]models.CartItem, 0, len(input.Items))
	lines := make([]promotions.LineItem, 0, len(input.Items))

	for _, req := range input.Items {
		code := strings.ToUpper(strings.TrimSpace(req.Code))
		if code == "" {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "item code required")
		}
		if _, dup := seen[code]; dup {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate item %s", code))
		}
		seen[code] = struct{}{}

		if req.Quantity <= 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %s requires a positive quantity", code))
		}

		product, err := s.products.FindProductByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown product %s", code))
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if !product.IsActive {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is unavailable", code))
		}
		if product.Stock < req.Quantity {
			return nil, nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", code))
		}

		categoryName := ""
		if product.Category != nil {
			categoryName = product.Category.Name
		}

		items = append(items, models.CartItem{
			ProductID:    product.ID,
			ProductCode:  product.Code,
			Name:         product.Name,
			Category:     categoryName,
			UnitPriceCLP: product.PriceCLP,
			Quantity:     req.Quantity,
			LineTotalCLP: product.PriceCLP * req.Quantity,
			Message:      req.Message,
		})
		lines = append(lines, promotions.LineItem{
			Code:      product.Code,
			Name:      product.Name,
			Category:  categoryName,
			UnitPrice: product.PriceCLP,
			Quantity:  req.Quantity,
			Message:   req.Message,
		})
	}
	return items, lines, nil
}
