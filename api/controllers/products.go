package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flourhouse/bakery-backend/api/responses"
	"github.com/flourhouse/bakery-backend/api/validators"
	"github.com/flourhouse/bakery-backend/internal/products"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
	"github.com/flourhouse/bakery-backend/pkg/logger"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

type createProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	IsAvailable   *bool           `json:"is_available,omitempty"`
	IngredientIDs []uuid.UUID     `json:"ingredient_ids,omitempty"`
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	IsAvailable   *bool            `json:"is_available,omitempty"`
	IngredientIDs []uuid.UUID      `json:"ingredient_ids,omitempty"`
}

// ProductsList handles the public catalog listing with filtering, search,
// sorting and pagination.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		params, err := pagination.FromQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination"))
			return
		}

		filters, err := listFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func listFiltersFromQuery(r *http.Request) (products.ListFilters, error) {
	query := r.URL.Query()
	filters := products.ListFilters{
		Search:  strings.TrimSpace(query.Get("search")),
		SortBy:  query.Get("sort_by"),
		SortDir: query.Get("sort_dir"),
	}

	if raw := query.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return products.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		filters.CategoryID = &id
	}
	if raw := query.Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return products.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "available must be a boolean")
		}
		filters.Available = &available
	}
	if raw := query.Get("min_price"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return products.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid minimum price")
		}
		filters.MinPrice = &min
	}
	if raw := query.Get("max_price"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return products.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid maximum price")
		}
		filters.MaxPrice = &max
	}
	return filters, nil
}

func ProductsGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), products.CreateProductInput{
			Name:          body.Name,
			Description:   body.Description,
			Price:         body.Price,
			CategoryID:    body.CategoryID,
			ImageURL:      body.ImageURL,
			IsAvailable:   body.IsAvailable,
			IngredientIDs: body.IngredientIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductsUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, products.UpdateProductInput{
			Name:          body.Name,
			Description:   body.Description,
			Price:         body.Price,
			CategoryID:    body.CategoryID,
			ImageURL:      body.ImageURL,
			IsAvailable:   body.IsAvailable,
			IngredientIDs: body.IngredientIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
