package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
)

// CategoryDTO is the public projection of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IngredientDTO is the public projection of an ingredient.
type IngredientDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IsAllergen bool      `json:"is_allergen"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCategoryDTO projects a category model.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

// NewCategoryDTOs projects a category slice.
func NewCategoryDTOs(categories []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, *NewCategoryDTO(&categories[i]))
	}
	return dtos
}

// NewIngredientDTO projects an ingredient model.
func NewIngredientDTO(ingredient *models.Ingredient) *IngredientDTO {
	if ingredient == nil {
		return nil
	}
	return &IngredientDTO{
		ID:         ingredient.ID,
		Name:       ingredient.Name,
		IsAllergen: ingredient.IsAllergen,
		CreatedAt:  ingredient.CreatedAt,
	}
}

// NewIngredientDTOs projects an ingredient slice.
func NewIngredientDTOs(ingredients []models.Ingredient) []IngredientDTO {
	dtos := make([]IngredientDTO, 0, len(ingredients))
	for i := range ingredients {
		dtos = append(dtos, *NewIngredientDTO(&ingredients[i]))
	}
	return dtos
}
