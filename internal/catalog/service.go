package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/milsabores/pasteleria-backend/pkg/db/models"
	pkgerrors "github.com/milsabores/pasteleria-backend/pkg/errors"
)

// Service exposes storefront browsing and admin catalog management.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	GetProductByCode(ctx context.Context, code string) (*ProductDTO, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error)

	CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service over its repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	rows, next, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	page := &ProductPage{
		Products:   make([]ProductDTO, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		page.Products = append(page.Products, *productFromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) GetProductByCode(ctx context.Context, code string) (*ProductDTO, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product code required")
	}
	product, err := s.repo.FindProductByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return productFromModel(product), nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *categoryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	if _, err := s.repo.FindCategoryByID(ctx, dto.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}

	product := &models.Product{
		Code:        strings.ToUpper(strings.TrimSpace(dto.Code)),
		Name:        strings.TrimSpace(dto.Name),
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		PriceCLP:    dto.PriceCLP,
		ImageURL:    dto.ImageURL,
		Stock:       dto.Stock,
		Allergens:   pq.StringArray(dto.Allergens),
		IsActive:    true,
		IsFeatured:  dto.IsFeatured,
	}
	if product.Allergens == nil {
		product.Allergens = pq.StringArray{}
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.reload(ctx, created.ID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *dto.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
		}
		updates["category_id"] = *dto.CategoryID
	}
	if dto.PriceCLP != nil {
		if *dto.PriceCLP < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price_clp"] = *dto.PriceCLP
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.Stock != nil {
		if *dto.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *dto.Stock
	}
	if dto.Allergens != nil {
		updates["allergens"] = pq.StringArray(dto.Allergens)
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if dto.IsFeatured != nil {
		updates["is_featured"] = *dto.IsFeatured
	}

	updated, err := s.repo.UpdateProduct(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return productFromModel(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*CategoryDTO, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(dto.Name),
		Slug:        strings.ToLower(strings.TrimSpace(dto.Slug)),
		Description: dto.Description,
		IsActive:    true,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return categoryFromModel(created), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteCategory(ctx, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
	}
	return productFromModel(product), nil
}
