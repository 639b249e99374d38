package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

var allowedSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
}

// Service exposes catalog listing reads and admin product management.
type Service interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductListDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a products service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*ProductListDTO, error) {
	normalized, err := normalizeSort(filters)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.List(ctx, normalized, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	dtos := make([]ProductDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *NewProductDTO(&records[i]))
	}
	return &ProductListDTO{
		Products: dtos,
		Meta:     pagination.NewMeta(params, total),
	}, nil
}

// normalizeSort maps user sort inputs through the allow-list so arbitrary
// column names never reach the query builder.
func normalizeSort(filters ListFilters) (ListFilters, error) {
	if filters.SortBy != "" {
		column, ok := allowedSortColumns[strings.ToLower(filters.SortBy)]
		if !ok {
			return ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort column").
				WithDetails(map[string]any{"sort_by": filters.SortBy})
		}
		filters.SortBy = column
	}
	switch strings.ToLower(filters.SortDir) {
	case "":
	case "asc", "desc":
		filters.SortDir = strings.ToLower(filters.SortDir)
	default:
		return ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "sort direction must be asc or desc")
	}
	filters.Search = strings.TrimSpace(filters.Search)
	return filters, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return NewProductDTO(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	product := modelFromCreate(name, input)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	if len(input.IngredientIDs) > 0 {
		if err := s.repo.ReplaceIngredients(ctx, product.ID, input.IngredientIDs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking ingredients")
		}
	}
	return s.Get(ctx, product.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}

	if len(updates) == 0 && input.IngredientIDs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no product fields provided")
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
		}
	}
	if input.IngredientIDs != nil {
		if err := s.repo.ReplaceIngredients(ctx, id, input.IngredientIDs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "relinking ingredients")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func modelFromCreate(name string, input CreateProductInput) *models.Product {
	product := &models.Product{
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	return product
}
