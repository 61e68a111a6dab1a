package model

import "github.com/shopspring/decimal"

// ProductStatus describes moderation and sale state of a listing.
type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusActive   ProductStatus = "active"
)

// Product is a game account listing as seen by the payment flow.
type Product struct {
	ID       string
	SellerID string
	Title    string
	Price    decimal.Decimal
	Status   ProductStatus
}

// Purchasable reports whether a new order may reference the product.
func (p Product) Purchasable() bool {
	return p.Status != ProductStatusSold && p.Status != ProductStatusRejected
}
