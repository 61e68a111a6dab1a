package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Provider side payment statuses.
const (
	ProviderStatusCompleted = "COMPLETED"
	ProviderStatusFailed    = "FAILED"
)

// Checkout carries buyer input for starting a hosted payment.
type Checkout struct {
	ProductID     string
	Amount        decimal.Decimal
	CustomerEmail string
	CustomerName  string
	CustomerPhone string
	UserID        string
}

// Invoice is the hosted payment session created by the provider.
type Invoice struct {
	InvoiceID  string
	PaymentURL string
}

// PaymentSession is returned to the buyer after a successful initiation.
type PaymentSession struct {
	OrderID    string
	InvoiceID  string
	PaymentURL string
}

// Verification is the provider's answer for a single invoice.
type Verification struct {
	Status        string
	InvoiceID     string
	TransactionID string
	OrderID       string
	ProductID     string
	Raw           json.RawMessage
}

// Completed reports whether provider confirmed the payment.
func (v Verification) Completed() bool {
	return v.Status == ProviderStatusCompleted
}

// Failed reports whether provider declared the payment failed.
func (v Verification) Failed() bool {
	return v.Status == ProviderStatusFailed
}

// WebhookNotification is an asynchronous status report pushed by the provider.
type WebhookNotification struct {
	Status        string
	InvoiceID     string
	TransactionID string
	OrderID       string
	ProductID     string
}

// Event maps notification status onto a payment event. The second value is
// false for statuses that carry no state change.
func (n WebhookNotification) Event() (PaymentEvent, bool) {
	switch n.Status {
	case ProviderStatusCompleted:
		return PaymentEventCompleted, true
	case ProviderStatusFailed:
		return PaymentEventFailed, true
	default:
		return "", false
	}
}

// Diagnostics describes configuration presence and database reachability.
type Diagnostics struct {
	HasAPIKey   bool
	FrontendURL string
	BackendURL  string
	DatabaseErr error
}
