package handlers

import (
	"context"

	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// PaymentFacade describes payment capabilities required by handlers.
type PaymentFacade interface {
	InitiatePayment(ctx context.Context, checkout model.Checkout) (*model.PaymentSession, error)
	VerifyPayment(ctx context.Context, invoiceID string) (*model.Verification, error)
	ParseWebhook(body []byte, signature string) (*model.WebhookNotification, error)
	HandleWebhook(ctx context.Context, n model.WebhookNotification) error
	OrderStatus(ctx context.Context, orderID string) (*model.OrderSnapshot, error)
}

// OrderFacade exposes operator reads over orders.
type OrderFacade interface {
	ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
}

// SystemFacade reports service diagnostics.
type SystemFacade interface {
	Diagnostics(ctx context.Context) model.Diagnostics
	CheckDatabase(ctx context.Context) error
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	PaymentFacade
	OrderFacade
	SystemFacade
}
