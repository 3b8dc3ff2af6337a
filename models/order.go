package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in the order the stats summary reports them.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentOnline
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentRefunded
}

// Order is the order header. RestaurantName is filled by read queries only.
type Order struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	RestaurantID    uuid.UUID       `db:"restaurant_id" json:"restaurant_id"`
	RestaurantName  string          `db:"restaurant_name" json:"restaurant_name,omitempty"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone"`
	CustomerAddress string          `db:"customer_address" json:"customer_address"`
	Status          OrderStatus     `db:"status" json:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	DeliveryFee     decimal.Decimal `db:"delivery_fee" json:"delivery_fee"`
	PaymentMethod   PaymentMethod   `db:"payment_method" json:"payment_method"`
	PaymentStatus   PaymentStatus   `db:"payment_status" json:"payment_status"`
	Notes           *string         `db:"notes" json:"notes"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderDetail is an order header together with its line items.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}

// OrderItem is one line of an order. Price is the unit price captured when the
// order was placed; Subtotal is computed by the database and cannot be written.
type OrderItem struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	OrderID      uuid.UUID       `db:"order_id" json:"order_id"`
	MenuItemID   uuid.UUID       `db:"menu_item_id" json:"menu_item_id"`
	MenuItemName string          `db:"menu_item_name" json:"menu_item_name,omitempty"`
	Quantity     int             `db:"quantity" json:"quantity"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Subtotal     decimal.Decimal `db:"subtotal" json:"subtotal"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

type OrderItemInput struct {
	MenuItemID uuid.UUID        `json:"menu_item_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"gt=0"`
	Price      *decimal.Decimal `json:"price"`
}

type CreateOrderInput struct {
	RestaurantID    uuid.UUID        `json:"restaurant_id" validate:"required"`
	CustomerName    string           `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string           `json:"customer_phone" validate:"required,max=32"`
	CustomerAddress string           `json:"customer_address" validate:"required"`
	Status          OrderStatus      `json:"status"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	DeliveryFee     *decimal.Decimal `json:"delivery_fee"`
	PaymentMethod   PaymentMethod    `json:"payment_method"`
	PaymentStatus   PaymentStatus    `json:"payment_status"`
	Notes           *string          `json:"notes"`
	Items           []OrderItemInput `json:"items" validate:"dive"`
}

// OrderPatch is the whitelist of header columns an update may touch.
// A nil field is left unchanged.
type OrderPatch struct {
	RestaurantID    *uuid.UUID       `json:"restaurant_id"`
	CustomerName    *string          `json:"customer_name" validate:"omitempty,min=1,max=200"`
	CustomerPhone   *string          `json:"customer_phone" validate:"omitempty,min=1,max=32"`
	CustomerAddress *string          `json:"customer_address" validate:"omitempty,min=1"`
	Status          *OrderStatus     `json:"status"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	DeliveryFee     *decimal.Decimal `json:"delivery_fee"`
	PaymentMethod   *PaymentMethod   `json:"payment_method"`
	PaymentStatus   *PaymentStatus   `json:"payment_status"`
	Notes           *string          `json:"notes"`
}

func (p OrderPatch) IsEmpty() bool {
	return p == OrderPatch{}
}

type OrderFilter struct {
	Status       OrderStatus
	RestaurantID uuid.UUID
	Limit        int
	Offset       int
}

// OrderAmount is the projection of an order the stats summary reads.
type OrderAmount struct {
	Status      OrderStatus     `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedAt   time.Time       `db:"created_at"`
}

// StatsWindow bounds the summary to orders created in [From, To). Zero values are open ends.
type StatsWindow struct {
	From time.Time
	To   time.Time
}

type OrderStats struct {
	TotalOrders  int             `json:"total_orders"`
	Pending      int             `json:"pending"`
	Preparing    int             `json:"preparing"`
	Delivered    int             `json:"delivered"`
	Cancelled    int             `json:"cancelled"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
