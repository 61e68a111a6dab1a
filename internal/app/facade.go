package app

import (
	"context"
	"time"

	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/usecase"
)

// MarketFacade adapts use cases to the HTTP layer and the reconciler.
type MarketFacade struct {
	payments *usecase.PaymentUseCase
	orders   *usecase.OrderUseCase
}

func NewMarketFacade(payments *usecase.PaymentUseCase, orders *usecase.OrderUseCase) *MarketFacade {
	return &MarketFacade{payments: payments, orders: orders}
}

func (f *MarketFacade) InitiatePayment(ctx context.Context, checkout model.Checkout) (*model.PaymentSession, error) {
	return f.payments.Initiate(ctx, checkout)
}

func (f *MarketFacade) VerifyPayment(ctx context.Context, invoiceID string) (*model.Verification, error) {
	result, err := f.payments.Verify(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return result.Verification, nil
}

func (f *MarketFacade) ParseWebhook(body []byte, signature string) (*model.WebhookNotification, error) {
	return f.payments.ParseWebhook(body, signature)
}

func (f *MarketFacade) HandleWebhook(ctx context.Context, n model.WebhookNotification) error {
	return f.payments.HandleWebhook(ctx, n)
}

func (f *MarketFacade) OrderStatus(ctx context.Context, orderID string) (*model.OrderSnapshot, error) {
	return f.payments.Status(ctx, orderID)
}

func (f *MarketFacade) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, filter)
}

func (f *MarketFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *MarketFacade) Diagnostics(ctx context.Context) model.Diagnostics {
	return f.payments.Diagnostics(ctx)
}

func (f *MarketFacade) CheckDatabase(ctx context.Context) error {
	return f.payments.CheckDatabase(ctx)
}

func (f *MarketFacade) OrdersForReconciliation(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	return f.orders.SelectForReconciliation(ctx, olderThan, limit)
}

func (f *MarketFacade) ReconcileOrder(ctx context.Context, order model.Order) error {
	return f.payments.Reconcile(ctx, order)
}
