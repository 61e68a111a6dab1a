package dto

import "time"

// OrderStatusResponse is served to polling clients.
type OrderStatusResponse struct {
	Success bool        `json:"success"`
	Order   OrderStatus `json:"order"`
}

// OrderStatus is a compact view of order progress.
type OrderStatus struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	InvoiceID     string    `json:"invoice_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderResponse describes an order for operators.
type OrderResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	BuyerID       string    `json:"buyer_id"`
	SellerID      string    `json:"seller_id"`
	ProductTitle  string    `json:"product_title"`
	ProductPrice  string    `json:"product_price"`
	TotalPrice    string    `json:"total_price"`
	BuyerName     string    `json:"buyer_name"`
	BuyerPhone    string    `json:"buyer_phone"`
	BuyerWhatsapp string    `json:"buyer_whatsapp"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	InvoiceID     string    `json:"invoice_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderListResponse wraps operator listing results.
type OrderListResponse struct {
	Success bool            `json:"success"`
	Orders  []OrderResponse `json:"orders"`
}
