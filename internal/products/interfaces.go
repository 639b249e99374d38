package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

// ListFilters narrows the product listing. Zero values mean "no filter".
type ListFilters struct {
	CategoryID *uuid.UUID
	Available  *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	SortBy     string
	SortDir    string
}

// Repository defines persistence operations for the products table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ReplaceIngredients(ctx context.Context, productID uuid.UUID, ingredientIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
