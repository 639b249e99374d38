package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
)

// Repository defines persistence operations for categories and ingredients.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountProductsInCategory(ctx context.Context, id uuid.UUID) (int64, error)

	CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
}
