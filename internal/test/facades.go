package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ffmarket/internal/adapter/zinipay"
	"github.com/polkiloo/ffmarket/internal/domain/model"
)

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	InitiateFn      func(context.Context, model.Checkout) (*model.PaymentSession, error)
	VerifyFn        func(context.Context, string) (*model.Verification, error)
	ParseWebhookFn  func([]byte, string) (*model.WebhookNotification, error)
	HandleWebhookFn func(context.Context, model.WebhookNotification) error
	StatusFn        func(context.Context, string) (*model.OrderSnapshot, error)
}

// InitiatePayment delegates to provided function or returns default session.
func (s PaymentFacadeStub) InitiatePayment(ctx context.Context, checkout model.Checkout) (*model.PaymentSession, error) {
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, checkout)
	}
	return &model.PaymentSession{OrderID: "order-1", InvoiceID: "inv-1", PaymentURL: "https://pay.example/inv-1"}, nil
}

// VerifyPayment returns configured verification or a completed one.
func (s PaymentFacadeStub) VerifyPayment(ctx context.Context, invoiceID string) (*model.Verification, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, invoiceID)
	}
	return &model.Verification{Status: model.ProviderStatusCompleted, InvoiceID: invoiceID}, nil
}

// ParseWebhook returns configured notification or a completed one.
func (s PaymentFacadeStub) ParseWebhook(body []byte, signature string) (*model.WebhookNotification, error) {
	if s.ParseWebhookFn != nil {
		return s.ParseWebhookFn(body, signature)
	}
	return &model.WebhookNotification{Status: model.ProviderStatusCompleted, InvoiceID: "inv-1", OrderID: "order-1"}, nil
}

// HandleWebhook applies override when provided.
func (s PaymentFacadeStub) HandleWebhook(ctx context.Context, n model.WebhookNotification) error {
	if s.HandleWebhookFn != nil {
		return s.HandleWebhookFn(ctx, n)
	}
	return nil
}

// OrderStatus returns configured snapshot or a pending one.
func (s PaymentFacadeStub) OrderStatus(ctx context.Context, orderID string) (*model.OrderSnapshot, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID)
	}
	return &model.OrderSnapshot{
		OrderID:       orderID,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		UpdatedAt:     time.Unix(0, 0).UTC(),
	}, nil
}

// OrderFacadeStub simulates operator order reads.
type OrderFacadeStub struct {
	ListFn  func(context.Context, model.OrderFilter) ([]model.Order, error)
	OrderFn func(context.Context, string) (*model.Order, error)
}

// ListOrders returns predefined orders.
func (s OrderFacadeStub) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return []model.Order{{ID: "order-1", TotalPrice: decimal.NewFromInt(2500), Status: model.OrderStatusPending}}, nil
}

// Order returns a predefined order.
func (s OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, TotalPrice: decimal.NewFromInt(2500), Status: model.OrderStatusPending}, nil
}

// SystemFacadeStub reports configurable diagnostics.
type SystemFacadeStub struct {
	DiagnosticsVal model.Diagnostics
	DatabaseErr    error
}

// Diagnostics returns configured diagnostics.
func (s SystemFacadeStub) Diagnostics(context.Context) model.Diagnostics {
	return s.DiagnosticsVal
}

// CheckDatabase returns configured database error.
func (s SystemFacadeStub) CheckDatabase(context.Context) error {
	return s.DatabaseErr
}

// MarketFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketFacadeStub struct {
	PaymentFacadeStub
	OrderFacadeStub
	SystemFacadeStub
}

// WorkerFacadeStub mimics reconciler interactions with the market facade.
type WorkerFacadeStub struct {
	Orders      [][]model.Order
	OrdersFn    func(context.Context, time.Time, int) ([]model.Order, error)
	ReconcileFn func(context.Context, model.Order) error
	Reconciled  []model.Order
	Cutoffs     []time.Time

	mu              sync.Mutex
	ordersCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersForReconciliation returns batches from configured queue.
func (s *WorkerFacadeStub) OrdersForReconciliation(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	s.mu.Lock()
	s.Cutoffs = append(s.Cutoffs, olderThan)
	s.mu.Unlock()
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, olderThan, limit)
	}
	call := atomic.AddInt32(&s.ordersCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	return nil, nil
}

// ReconcileOrder records reconciliation requests.
func (s *WorkerFacadeStub) ReconcileOrder(ctx context.Context, order model.Order) error {
	var err error
	if s.ReconcileFn != nil {
		err = s.ReconcileFn(ctx, order)
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reconciled = append(s.Reconciled, order)
	return nil
}

// ProviderStub answers hosted payment calls for tests.
type ProviderStub struct {
	CreateFn func(context.Context, zinipay.CreateRequest) (*model.Invoice, error)
	VerifyFn func(context.Context, string) (*model.Verification, error)

	mu       sync.Mutex
	Requests []zinipay.CreateRequest
}

// CreateInvoice records the request and returns configured invoice.
func (s *ProviderStub) CreateInvoice(ctx context.Context, req zinipay.CreateRequest) (*model.Invoice, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.Invoice{InvoiceID: "inv-" + req.Metadata.OrderID, PaymentURL: "https://pay.example/" + req.Metadata.OrderID}, nil
}

// Verify returns configured verification or a pending one.
func (s *ProviderStub) Verify(ctx context.Context, invoiceID string) (*model.Verification, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, invoiceID)
	}
	return &model.Verification{Status: "PENDING", InvoiceID: invoiceID}, nil
}

var _ zinipay.Client = (*ProviderStub)(nil)
