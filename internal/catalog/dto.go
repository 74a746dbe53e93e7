package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/milsabores/pasteleria-backend/pkg/db/models"
	"github.com/milsabores/pasteleria-backend/pkg/pagination"
)

// CategoryDTO is the public projection of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
}

// ProductDTO is the public projection of a catalog listing.
type ProductDTO struct {
	ID          uuid.UUID    `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Category    *CategoryDTO `json:"category,omitempty"`
	PriceCLP    int          `json:"price_clp"`
	ImageURL    *string      `json:"image_url,omitempty"`
	Stock       int          `json:"stock"`
	Allergens   []string     `json:"allergens"`
	IsActive    bool         `json:"is_active"`
	IsFeatured  bool         `json:"is_featured"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateProductDTO holds the fields an admin supplies for a new listing.
type CreateProductDTO struct {
	Code        string    `json:"code" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description *string   `json:"description,omitempty"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	PriceCLP    int       `json:"price_clp" validate:"gte=0"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Allergens   []string  `json:"allergens,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
}

// UpdateProductDTO carries partial edits; nil means leave unchanged.
type UpdateProductDTO struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	PriceCLP    *int       `json:"price_clp,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Allergens   []string   `json:"allergens,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	IsFeatured  *bool      `json:"is_featured,omitempty"`
}

// CreateCategoryDTO holds the admin payload for a new category.
type CreateCategoryDTO struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// ListProductsInput captures the browse endpoint's filter knobs.
type ListProductsInput struct {
	Query           string
	CategorySlug    string
	FeaturedOnly    bool
	IncludeInactive bool
	Pagination      pagination.Params
}

// ProductPage is one page of listings plus the cursor for the next one.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func categoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
}

func productFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    categoryFromModel(p.Category),
		PriceCLP:    p.PriceCLP,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Allergens:   append([]string(nil), p.Allergens...),
		IsActive:    p.IsActive,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
