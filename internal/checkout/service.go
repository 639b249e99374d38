package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/internal/cart"
	"github.com/flourhouse/bakery-backend/internal/orders"
	"github.com/flourhouse/bakery-backend/internal/products"
	"github.com/flourhouse/bakery-backend/pkg/db"
	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
)

// fallbackAddress is recorded when neither the request nor the profile
// carries a delivery address.
const fallbackAddress = "No address provided"

// Input carries the optional per-order overrides for a checkout.
type Input struct {
	DeliveryAddress string `json:"delivery_address" validate:"omitempty,max=500"`
	DeliveryPhone   string `json:"delivery_phone" validate:"omitempty,max=50"`
	Notes           string `json:"notes" validate:"omitempty,max=1000"`
}

// delivery is the resolved destination recorded on the order.
type delivery struct {
	address string
	phone   *string
	notes   *string
}

// ResultDTO summarizes the order produced by a successful checkout.
type ResultDTO struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      enums.OrderStatus `json:"status"`
	Total       string            `json:"total"`
	ItemsCount  int               `json:"items_count"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service turns the user's cart into an order.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (*ResultDTO, error)
}

type service struct {
	tx       txRunner
	carts    cart.Repository
	products products.Repository
	orders   orders.Repository
	users    userLoader

	newOrderNumber func() string
}

// NewService builds a checkout service with the required dependencies.
func NewService(tx txRunner, carts cart.Repository, productsRepo products.Repository, ordersRepo orders.Repository, users userLoader) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	return &service{
		tx:             tx,
		carts:          carts,
		products:       productsRepo,
		orders:         ordersRepo,
		users:          users,
		newOrderNumber: defaultOrderNumber,
	}, nil
}

func defaultOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}

// Execute runs the whole checkout inside one transaction: lock the cart,
// re-check availability against a fresh product read, snapshot the lines
// into an order, and clear the cart only after the order is in place.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (*ResultDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	dest, err := s.resolveDelivery(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	var result *ResultDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		dto, err := s.checkout(ctx, tx, userID, dest)
		if err != nil {
			return err
		}
		result = dto
		return nil
	})
	if txErr != nil {
		if appErr := pkgerrors.As(txErr); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, txErr, "checkout transaction failed")
	}
	return result, nil
}

func (s *service) checkout(ctx context.Context, tx *gorm.DB, userID uuid.UUID, dest delivery) (*ResultDTO, error) {
	carts := s.carts.WithTx(tx)

	locked, err := carts.LockByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "locking cart")
	}
	if len(locked.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}

	// One fresh read feeds both the availability check and the totals, so
	// the order can never price a product state it did not verify.
	productIDs := make([]uuid.UUID, 0, len(locked.Items))
	for _, item := range locked.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	current, err := s.products.WithTx(tx).FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "loading products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(current))
	for i := range current {
		byID[current[i].ID] = &current[i]
	}

	var unavailable []string
	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(locked.Items))
	for _, item := range locked.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsAvailable {
			unavailable = append(unavailable, lineName(item))
			continue
		}
		productID := product.ID
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   &productID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Subtotal:    lineTotal,
		})
		total = total.Add(lineTotal)
	}
	if len(unavailable) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "some products are no longer available").
			WithDetails(map[string]any{"unavailable_products": unavailable})
	}

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     s.newOrderNumber(),
		Status:          enums.OrderStatusPending,
		Total:           total,
		DeliveryAddress: dest.address,
		DeliveryPhone:   dest.phone,
		Notes:           dest.notes,
		Items:           orderItems,
	}
	if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
		if db.IsUniqueViolation(err, "orders_order_number_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateOrder, err, "order number collision")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "creating order")
	}

	// Clearing last keeps the cart intact on any earlier failure.
	if err := carts.ClearItems(ctx, locked.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "clearing cart")
	}

	return &ResultDTO{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Total:       order.Total.StringFixed(2),
		ItemsCount:  len(order.Items),
	}, nil
}

// resolveDelivery picks the request address, then the profile address, then
// the recorded fallback. The phone falls back to the profile phone and stays
// nil when neither source has one; notes pass through as given.
func (s *service) resolveDelivery(ctx context.Context, userID uuid.UUID, input Input) (delivery, error) {
	dest := delivery{
		address: strings.TrimSpace(input.DeliveryAddress),
		phone:   optional(input.DeliveryPhone),
		notes:   optional(input.Notes),
	}
	if dest.address != "" && dest.phone != nil {
		return dest, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return delivery{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
		}
		return delivery{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	if dest.address == "" && user.Address != nil {
		dest.address = strings.TrimSpace(*user.Address)
	}
	if dest.address == "" {
		dest.address = fallbackAddress
	}
	if dest.phone == nil && user.Phone != nil {
		dest.phone = optional(*user.Phone)
	}
	return dest, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func lineName(item models.CartItem) string {
	if item.Product != nil {
		return item.Product.Name
	}
	return item.ProductID.String()
}
