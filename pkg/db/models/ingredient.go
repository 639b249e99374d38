package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is a named component of one or more products. Allergens are
// flagged so clients can surface warnings.
type Ingredient struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;type:text;not null;uniqueIndex:ingredients_name_key"`
	IsAllergen bool      `gorm:"column:is_allergen;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductIngredient is the join row linking products to ingredients.
type ProductIngredient struct {
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	IngredientID uuid.UUID `gorm:"column:ingredient_id;type:uuid;primaryKey"`
}
