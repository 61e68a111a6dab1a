package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/polkiloo/ffmarket/internal/domain/model"
)

const (
	TopicPaymentCompleted = "order.payment.completed"
	TopicPaymentCancelled = "order.payment.cancelled"

	EventOrderCompleted = "OrderCompleted"
	EventOrderCancelled = "OrderCancelled"

	eventVersion = 1
	producerName = "ffmarket-payment"
)

// Publisher announces orders that reached a terminal status.
type Publisher interface {
	OrderSettled(ctx context.Context, order model.Order) error
}

// Envelope wraps every payload published by the service.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// OrderSettledPayload describes final outcome of an order.
type OrderSettledPayload struct {
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	BuyerID       string `json:"buyer_id"`
	SellerID      string `json:"seller_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TotalPrice    string `json:"total_price"`
	InvoiceID     string `json:"invoice_id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// Nop discards every event.
type Nop struct{}

func (Nop) OrderSettled(context.Context, model.Order) error { return nil }

// PartitionKey keeps all events of one order on the same partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

func routeFor(status model.OrderStatus) (topic, eventType string, ok bool) {
	switch status {
	case model.OrderStatusCompleted:
		return TopicPaymentCompleted, EventOrderCompleted, true
	case model.OrderStatusCancelled:
		return TopicPaymentCancelled, EventOrderCancelled, true
	default:
		return "", "", false
	}
}
