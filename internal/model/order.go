package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the status reported by the payment processor.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

// OrderResponse is returned by the payment processor on success.
type OrderResponse struct {
	OrderID           string      `json:"orderId"`
	Status            OrderStatus `json:"status"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery,omitempty"`
}

// OrderConfirmation is what the buyer sees once the order went through.
type OrderConfirmation struct {
	OrderID           string      `json:"orderId"`
	Status            OrderStatus `json:"status"`
	Email             string      `json:"email"`
	TotalPaid         float64     `json:"totalPaid"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery,omitempty"`
	ConfirmedAt       time.Time   `json:"confirmedAt"`
}

// Order is a confirmed order as recorded by the order store.
type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	OrderNumber   string        `json:"orderNumber" db:"order_number"`
	SessionID     uuid.UUID     `json:"sessionId" db:"session_id"`
	Email         string        `json:"email" db:"email"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	CouponCode    *string       `json:"couponCode,omitempty" db:"coupon_code"`
	Subtotal      float64       `json:"subtotal" db:"subtotal"`
	ShippingCost  float64       `json:"shippingCost" db:"shipping_cost"`
	Discount      float64       `json:"discount" db:"discount"`
	Total         float64       `json:"total" db:"total"`
	Status        OrderStatus   `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item in a recorded order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// OrderPlacedEvent is published once an order is confirmed.
type OrderPlacedEvent struct {
	OrderID       string        `json:"orderId"`
	SessionID     string        `json:"sessionId"`
	Email         string        `json:"email"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Items         []Product     `json:"items"`
	Total         float64       `json:"total"`
	AmountPaid    float64       `json:"amountPaid"`
	CouponCode    string        `json:"couponCode,omitempty"`
	PlacedAt      time.Time     `json:"placedAt"`
}
