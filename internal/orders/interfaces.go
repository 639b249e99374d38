package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/enums"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

// AdminListFilters narrows the admin order listing.
type AdminListFilters struct {
	Status *enums.OrderStatus
}

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error)
	ListAll(ctx context.Context, filters AdminListFilters, params pagination.Params) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}
