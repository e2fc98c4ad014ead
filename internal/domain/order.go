package domain

import (
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// DateLayout is the calendar date format stamped on orders
const DateLayout = "2006-01-02"

// DefaultPaymentMethod is used when an order is placed without one
const DefaultPaymentMethod = "Credit Card"

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is immutable after creation except for Status
type Order struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Items         []CartItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod string          `json:"payment_method"`
}

// Clone returns a copy of o that shares no item storage with it
func (o Order) Clone() Order {
	o.Items = CloneItems(o.Items)
	return o
}
