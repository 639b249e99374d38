package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

// ProductDTO is the public projection of a catalog listing. Prices are
// rendered as fixed two-decimal strings.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       string          `json:"price"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Category    *string         `json:"category,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	IsAvailable bool            `json:"is_available"`
	Ingredients []IngredientDTO `json:"ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IngredientDTO is the nested ingredient shape inside a product.
type IngredientDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IsAllergen bool      `json:"is_allergen"`
}

// ProductListDTO pairs a product page with its pagination metadata.
type ProductListDTO struct {
	Products []ProductDTO    `json:"products"`
	Meta     pagination.Meta `json:"pagination"`
}

// NewProductDTO projects a product model into its public shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		CategoryID:  product.CategoryID,
		ImageURL:    product.ImageURL,
		IsAvailable: product.IsAvailable,
		Ingredients: make([]IngredientDTO, 0, len(product.Ingredients)),
		CreatedAt:   product.CreatedAt,
	}
	if product.Category != nil {
		name := product.Category.Name
		dto.Category = &name
	}
	for _, ingredient := range product.Ingredients {
		dto.Ingredients = append(dto.Ingredients, IngredientDTO{
			ID:         ingredient.ID,
			Name:       ingredient.Name,
			IsAllergen: ingredient.IsAllergen,
		})
	}
	return dto
}

// CreateProductInput carries admin-supplied product fields.
type CreateProductInput struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	CategoryID    *uuid.UUID
	ImageURL      *string
	IsAvailable   *bool
	IngredientIDs []uuid.UUID
}

// UpdateProductInput carries partial product updates. Nil means unchanged.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	CategoryID    *uuid.UUID
	ImageURL      *string
	IsAvailable   *bool
	IngredientIDs []uuid.UUID
}
