package dto

import "github.com/shopspring/decimal"

// InitiateRequest is the checkout payload sent by the storefront.
type InitiateRequest struct {
	ProductID     string          `json:"product_id"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	UserID        string          `json:"user_id"`
}

// InitiateResponse carries the hosted payment page for the new order.
type InitiateResponse struct {
	Success    bool   `json:"success"`
	PaymentURL string `json:"payment_url"`
	OrderID    string `json:"order_id"`
	InvoiceID  string `json:"invoice_id,omitempty"`
}

// VerifyRequest identifies an invoice to verify.
type VerifyRequest struct {
	InvoiceID string `json:"invoiceId"`
}

// VerifyResponse wraps the provider verification answer.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// VerificationData is returned when the raw provider body is unavailable.
type VerificationData struct {
	Status        string `json:"status"`
	InvoiceID     string `json:"invoiceId"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// WebhookResponse acknowledges a provider notification.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the failure body of payment endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
