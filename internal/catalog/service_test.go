package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
)

type stubCatalogRepo struct {
	categories    map[uuid.UUID]*models.Category
	ingredients   map[uuid.UUID]*models.Ingredient
	productCounts map[uuid.UUID]int64
	deleted       []uuid.UUID
	createCatErr  error
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		categories:    map[uuid.UUID]*models.Category{},
		ingredients:   map[uuid.UUID]*models.Ingredient{},
		productCounts: map[uuid.UUID]int64{},
	}
}

func (r *stubCatalogRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubCatalogRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	if r.createCatErr != nil {
		return r.createCatErr
	}
	category.ID = uuid.New()
	r.categories[category.ID] = category
	return nil
}

func (r *stubCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCatalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCatalogRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	c, ok := r.categories[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"].(string); ok {
		c.Name = v
	}
	return nil
}

func (r *stubCatalogRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubCatalogRepo) CountProductsInCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.productCounts[id], nil
}

func (r *stubCatalogRepo) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	ingredient.ID = uuid.New()
	r.ingredients[ingredient.ID] = ingredient
	return nil
}

func (r *stubCatalogRepo) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0, len(r.ingredients))
	for _, i := range r.ingredients {
		out = append(out, *i)
	}
	return out, nil
}

func (r *stubCatalogRepo) FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	i, ok := r.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubCatalogRepo) UpdateIngredient(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	i, ok := r.ingredients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["is_allergen"].(bool); ok {
		i.IsAllergen = v
	}
	return nil
}

func (r *stubCatalogRepo) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	delete(r.ingredients, id)
	return nil
}

func TestCreateCategoryValidation(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubCatalogRepo())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "   "}); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteCategoryWithProductsRefused(t *testing.T) {
	t.Parallel()

	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Breads"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	repo.productCounts[category.ID] = 3

	err = svc.DeleteCategory(context.Background(), category.ID)
	if !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("category should not have been deleted")
	}

	repo.productCounts[category.ID] = 0
	if err := svc.DeleteCategory(context.Background(), category.ID); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("expected category deletion")
	}
}

func TestDeleteCategoryNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubCatalogRepo())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if err := svc.DeleteCategory(context.Background(), uuid.New()); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIngredientAllergenToggle(t *testing.T) {
	t.Parallel()

	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	truthy := true
	ingredient, err := svc.CreateIngredient(context.Background(), IngredientInput{Name: "Peanuts", IsAllergen: &truthy})
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	if !ingredient.IsAllergen {
		t.Fatal("expected allergen flag set")
	}

	falsy := false
	updated, err := svc.UpdateIngredient(context.Background(), ingredient.ID, IngredientInput{IsAllergen: &falsy})
	if err != nil {
		t.Fatalf("update ingredient: %v", err)
	}
	if updated.IsAllergen {
		t.Fatal("expected allergen flag cleared")
	}
}
