package repository

import (
	"context"
	"time"

	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByInvoice(ctx context.Context, invoiceID string) (*model.Order, error)
	AttachInvoice(ctx context.Context, orderID, invoiceID string) error
	// Transition applies event to the order together with the product and audit
	// writes it implies. The bool result is false when the event was a no-op.
	Transition(ctx context.Context, orderID string, event model.PaymentEvent, transactionID string) (*model.Order, bool, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	SelectPendingForReconciliation(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error)
}
