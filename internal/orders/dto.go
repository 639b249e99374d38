package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/enums"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

// OrderItemDTO is one snapshotted line of an order.
type OrderItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name"`
	UnitPrice   string     `json:"unit_price"`
	Quantity    int        `json:"quantity"`
	Subtotal    string     `json:"subtotal"`
}

// CustomerDTO identifies the order's customer in admin views.
type CustomerDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// OrderDTO is the full order payload.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	OrderNumber     string            `json:"order_number"`
	Status          enums.OrderStatus `json:"status"`
	Total           string            `json:"total"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliveryPhone   *string           `json:"delivery_phone,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
	Items           []OrderItemDTO    `json:"items"`
	Customer        *CustomerDTO      `json:"customer,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OrderListDTO is a paginated order listing.
type OrderListDTO struct {
	Orders []OrderDTO      `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

// NewOrderDTO projects an order. The customer block is included only when
// withCustomer is set and the User association is loaded.
func NewOrderDTO(order *models.Order, withCustomer bool) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		Total:           order.Total.StringFixed(2),
		DeliveryAddress: order.DeliveryAddress,
		DeliveryPhone:   order.DeliveryPhone,
		Notes:           order.Notes,
		Items:           make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal.StringFixed(2),
		})
	}
	if withCustomer && order.User != nil {
		dto.Customer = &CustomerDTO{
			ID:    order.User.ID,
			Name:  order.User.FirstName + " " + order.User.LastName,
			Email: order.User.Email,
		}
	}
	return dto
}

// NewOrderListDTO projects a page of orders.
func NewOrderListDTO(orders []models.Order, params pagination.Params, total int64, withCustomer bool) *OrderListDTO {
	list := &OrderListDTO{
		Orders: make([]OrderDTO, 0, len(orders)),
		Meta:   pagination.NewMeta(params, total),
	}
	for i := range orders {
		list.Orders = append(list.Orders, *NewOrderDTO(&orders[i], withCustomer))
	}
	return list
}
