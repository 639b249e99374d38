package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flourhouse/bakery-backend/pkg/enums"
)

// Order is an immutable record of a completed checkout.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:idx_orders_user_id"`
	User            *User             `gorm:"foreignKey:UserID"`
	OrderNumber     string            `gorm:"column:order_number;type:text;not null;uniqueIndex:orders_order_number_key"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending';index:idx_orders_status"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	DeliveryAddress string            `gorm:"column:delivery_address;not null"`
	DeliveryPhone   *string           `gorm:"column:delivery_phone"`
	Notes           *string           `gorm:"column:notes"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots the product name and unit price at checkout time so
// later catalog edits do not rewrite order history.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:idx_order_items_order_id"`
	ProductID   *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ProductName string          `gorm:"column:product_name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
