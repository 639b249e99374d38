package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order

	createErr       error
	updateStatusErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (r *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, int64, error) {
	var matched []models.Order
	for _, order := range r.orders {
		if order.UserID != userID {
			continue
		}
		if status != nil && order.Status != *status {
			continue
		}
		matched = append(matched, *order)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubOrderRepo) ListAll(ctx context.Context, filters AdminListFilters, params pagination.Params) ([]models.Order, int64, error) {
	var matched []models.Order
	for _, order := range r.orders {
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		matched = append(matched, *order)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	order, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

func seedOrder(repo *stubOrderRepo, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: "ORD-1756300000000-42",
		Status:      status,
		Total:       decimal.RequireFromString("21.50"),
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductName: "Sourdough Loaf", UnitPrice: decimal.RequireFromString("7.50"), Quantity: 2, Subtotal: decimal.RequireFromString("15.00")},
			{ID: uuid.New(), ProductName: "Croissant", UnitPrice: decimal.RequireFromString("3.25"), Quantity: 2, Subtotal: decimal.RequireFromString("6.50")},
		},
	}
	repo.orders[order.ID] = order
	return order
}

func buildService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestGetMineHidesForeignOrders(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	owner := uuid.New()
	order := seedOrder(repo, owner, enums.OrderStatusPending)
	svc := buildService(t, repo)

	dto, err := svc.GetMine(context.Background(), owner, order.ID)
	if err != nil {
		t.Fatalf("get own order: %v", err)
	}
	if dto.Total != "21.50" || len(dto.Items) != 2 {
		t.Fatalf("unexpected order payload %+v", dto)
	}
	if dto.Customer != nil {
		t.Fatalf("customer block must not leak into the customer view")
	}

	if _, err := svc.GetMine(context.Background(), uuid.New(), order.ID); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("foreign order should read as not found, got %v", err)
	}
}

func TestCancelOnlyPending(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	owner := uuid.New()
	pending := seedOrder(repo, owner, enums.OrderStatusPending)
	preparing := seedOrder(repo, owner, enums.OrderStatusPreparing)
	svc := buildService(t, repo)

	dto, err := svc.Cancel(context.Background(), owner, pending.ID)
	if err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if dto.Status != enums.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", dto.Status)
	}
	if repo.orders[pending.ID].Status != enums.OrderStatusCancelled {
		t.Fatalf("cancellation must persist as a status change")
	}

	_, err = svc.Cancel(context.Background(), owner, preparing.ID)
	if !pkgerrors.Is(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("cancelling a preparing order should conflict, got %v", err)
	}
}

func TestAdminUpdateStatusTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from enums.OrderStatus
		to   enums.OrderStatus
		ok   bool
	}{
		{"pending to confirmed", enums.OrderStatusPending, enums.OrderStatusConfirmed, true},
		{"confirmed to preparing", enums.OrderStatusConfirmed, enums.OrderStatusPreparing, true},
		{"preparing to ready", enums.OrderStatusPreparing, enums.OrderStatusReady, true},
		{"ready to out for delivery", enums.OrderStatusReady, enums.OrderStatusOutForDelivery, true},
		{"out for delivery to delivered", enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered, true},
		{"pending to cancelled", enums.OrderStatusPending, enums.OrderStatusCancelled, true},
		{"skip a step", enums.OrderStatusPending, enums.OrderStatusPreparing, false},
		{"backwards", enums.OrderStatusReady, enums.OrderStatusConfirmed, false},
		{"cancel after confirmation", enums.OrderStatusConfirmed, enums.OrderStatusCancelled, false},
		{"leave delivered", enums.OrderStatusDelivered, enums.OrderStatusPending, false},
		{"leave cancelled", enums.OrderStatusCancelled, enums.OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newStubOrderRepo()
			order := seedOrder(repo, uuid.New(), tc.from)
			svc := buildService(t, repo)

			dto, err := svc.AdminUpdateStatus(context.Background(), order.ID, tc.to)
			if tc.ok {
				if err != nil {
					t.Fatalf("transition %s -> %s: %v", tc.from, tc.to, err)
				}
				if dto.Status != tc.to {
					t.Fatalf("status = %s, want %s", dto.Status, tc.to)
				}
				return
			}
			if !pkgerrors.Is(err, pkgerrors.CodeStateConflict) {
				t.Fatalf("transition %s -> %s should conflict, got %v", tc.from, tc.to, err)
			}
		})
	}
}

func TestAdminUpdateStatusValidation(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	svc := buildService(t, repo)

	if _, err := svc.AdminUpdateStatus(context.Background(), uuid.New(), enums.OrderStatus("shipped")); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("unknown status should fail validation, got %v", err)
	}
	if _, err := svc.AdminUpdateStatus(context.Background(), uuid.New(), enums.OrderStatusConfirmed); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("missing order should be not found, got %v", err)
	}
}

func TestAdminListFiltersByStatus(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	seedOrder(repo, uuid.New(), enums.OrderStatusPending)
	seedOrder(repo, uuid.New(), enums.OrderStatusDelivered)
	svc := buildService(t, repo)

	status := enums.OrderStatusDelivered
	list, err := svc.AdminList(context.Background(), AdminListFilters{Status: &status}, pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(list.Orders) != 1 || list.Orders[0].Status != enums.OrderStatusDelivered {
		t.Fatalf("unexpected filtered listing %+v", list.Orders)
	}
	if list.Meta.Total != 1 {
		t.Fatalf("meta total = %d, want 1", list.Meta.Total)
	}
}

func TestListMineScopesToUser(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	mine := uuid.New()
	seedOrder(repo, mine, enums.OrderStatusPending)
	seedOrder(repo, uuid.New(), enums.OrderStatusPending)
	svc := buildService(t, repo)

	list, err := svc.ListMine(context.Background(), mine, nil, pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(list.Orders) != 1 {
		t.Fatalf("expected only my orders, got %d", len(list.Orders))
	}
}

func TestListMineStatusFilter(t *testing.T) {
	t.Parallel()

	repo := newStubOrderRepo()
	mine := uuid.New()
	seedOrder(repo, mine, enums.OrderStatusPending)
	seedOrder(repo, mine, enums.OrderStatusDelivered)
	svc := buildService(t, repo)

	status := enums.OrderStatusDelivered
	list, err := svc.ListMine(context.Background(), mine, &status, pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("list mine with filter: %v", err)
	}
	if len(list.Orders) != 1 || list.Orders[0].Status != enums.OrderStatusDelivered {
		t.Fatalf("unexpected filtered listing %+v", list.Orders)
	}
}
