package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfilment lifecycle of a purchase.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus mirrors provider side outcome of a purchase.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Default buyer contact values used when checkout omits them.
const (
	DefaultBuyerName    = "Customer"
	DefaultBuyerPhone   = "01700000000"
	DefaultProductTitle = "Game Account"
)

// Order describes a purchase of a single game account.
type Order struct {
	ID            string
	ProductID     string
	BuyerID       string
	SellerID      string
	ProductTitle  string
	ProductPrice  decimal.Decimal
	TotalPrice    decimal.Decimal
	BuyerName     string
	BuyerPhone    string
	BuyerWhatsapp string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	InvoiceID     string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTerminal reports whether order reached a final status.
func (o Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// OrderFilter narrows operator order listings.
type OrderFilter struct {
	BuyerID  string
	SellerID string
	Limit    int
}

// OrderSnapshot is the lightweight status view served to polling clients.
type OrderSnapshot struct {
	OrderID       string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	InvoiceID     string
	TransactionID string
	UpdatedAt     time.Time
}

// Snapshot returns status view of the order.
func (o Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		OrderID:       o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		InvoiceID:     o.InvoiceID,
		TransactionID: o.TransactionID,
		UpdatedAt:     o.UpdatedAt,
	}
}
