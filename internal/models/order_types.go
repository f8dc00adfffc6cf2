package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPacking   OrderStatus = "packing"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
)

// OrderStatuses lists every status an order may be set to.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPacking,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Cancellable is true for the statuses that precede shipment.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPacking:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethodCOD is cash on delivery; such orders stay unpaid until delivered.
const PaymentMethodCOD = "cod"

// Address is embedded into orders as JSON.
type Address struct {
	FullName     string `json:"fullName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	Ward         string `json:"ward,omitempty"`
	District     string `json:"district,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Order is the model for the 'orders' table
type Order struct {
	ID            int64         `json:"id" gorm:"primaryKey"`
	OrderNumber   string        `json:"orderNumber" gorm:"size:32;uniqueIndex;not null"`
	UserID        int64         `json:"userId" gorm:"index;not null"`
	Status        OrderStatus   `json:"status" gorm:"size:20;index;not null"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"size:20;index;not null"`
	PaymentMethod string        `json:"paymentMethod" gorm:"size:32;not null"`

	// --- Pricing ---
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);not null"`
	ShippingAmount decimal.Decimal `json:"shippingAmount" gorm:"type:decimal(14,2);not null"`
	DiscountAmount decimal.Decimal `json:"discountAmount" gorm:"type:decimal(14,2);not null"`
	TotalAmount    decimal.Decimal `json:"totalAmount" gorm:"type:decimal(14,2);not null"`
	Currency       string          `json:"currency" gorm:"size:3;not null"`
	CouponCode     *string         `json:"couponCode,omitempty" gorm:"size:64"`

	ShippingAddress Address `json:"shippingAddress" gorm:"serializer:json;type:text"`
	BillingAddress  Address `json:"billingAddress" gorm:"serializer:json;type:text"`
	Notes           string  `json:"notes,omitempty" gorm:"type:text"`

	CancellationReason *string    `json:"cancellationReason,omitempty" gorm:"size:500"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Joins
	User  *User       `json:"user,omitempty"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is the model for the 'order_items' table.
// UnitPrice is the product price at the time of purchase.
type OrderItem struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	OrderID    int64           `json:"orderId" gorm:"index;not null"`
	ProductID  int64           `json:"productId" gorm:"index;not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:decimal(14,2);not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(14,2);not null"`
	CreatedAt  time.Time       `json:"createdAt"`

	Product *Product `json:"product,omitempty"`
}
