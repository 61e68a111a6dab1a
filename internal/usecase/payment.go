package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/adapter/zinipay"
	"github.com/polkiloo/ffmarket/internal/cache"
	"github.com/polkiloo/ffmarket/internal/config"
	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/domain/repository"
	"github.com/polkiloo/ffmarket/internal/events"
	"github.com/polkiloo/ffmarket/internal/pkg/auth"
)

const webhookPath = "/api/payment/webhook"

// PaymentProvider opens and verifies hosted payment sessions.
type PaymentProvider interface {
	CreateInvoice(ctx context.Context, req zinipay.CreateRequest) (*model.Invoice, error)
	Verify(ctx context.Context, invoiceID string) (*model.Verification, error)
}

// PaymentSettings holds deployment values the payment flow depends on.
type PaymentSettings struct {
	APIKey      string
	FrontendURL string
	BackendURL  string
	PendingTTL  time.Duration
}

// PaymentSettingsFromConfig extracts payment settings from service config.
func PaymentSettingsFromConfig(cfg *config.Config) PaymentSettings {
	return PaymentSettings{
		APIKey:      cfg.ZiniPayAPIKey,
		FrontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		BackendURL:  strings.TrimRight(cfg.BackendURL, "/"),
		PendingTTL:  cfg.PendingTTL,
	}
}

// PaymentDeps lists collaborators of PaymentUseCase.
type PaymentDeps struct {
	fx.In

	Orders    repository.OrderRepository
	Products  repository.ProductRepository
	Provider  PaymentProvider
	Verifier  auth.SignatureVerifier
	Health    repository.HealthChecker
	Cache     cache.StatusCache `optional:"true"`
	Publisher events.Publisher  `optional:"true"`
	Settings  PaymentSettings
	Logger    *slog.Logger
}

// PaymentUseCase drives orders from checkout to a terminal payment outcome.
type PaymentUseCase struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	provider  PaymentProvider
	verifier  auth.SignatureVerifier
	health    repository.HealthChecker
	cache     cache.StatusCache
	publisher events.Publisher
	settings  PaymentSettings
	logger    *slog.Logger
	now       func() time.Time
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(deps PaymentDeps) *PaymentUseCase {
	uc := &PaymentUseCase{
		orders:    deps.Orders,
		products:  deps.Products,
		provider:  deps.Provider,
		verifier:  deps.Verifier,
		health:    deps.Health,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		settings:  deps.Settings,
		logger:    deps.Logger,
		now:       time.Now,
	}
	if uc.cache == nil {
		uc.cache = cache.Nop{}
	}
	if uc.publisher == nil {
		uc.publisher = events.Nop{}
	}
	if uc.logger == nil {
		uc.logger = slog.Default()
	}
	return uc
}

// VerifyResult is the outcome of a buyer triggered verification.
type VerifyResult struct {
	Completed    bool
	Verification *model.Verification
	Order        *model.Order
}

// Initiate creates a pending order for the product and opens a hosted payment for it.
func (u *PaymentUseCase) Initiate(ctx context.Context, checkout model.Checkout) (*model.PaymentSession, error) {
	if err := ValidateCheckout(checkout); err != nil {
		return nil, err
	}
	if u.settings.APIKey == "" {
		return nil, fmt.Errorf("%w: ZiniPay API key not configured", domainErrors.ErrConfiguration)
	}

	product, err := u.products.GetByID(ctx, checkout.ProductID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", domainErrors.ErrNotFound, checkout.ProductID)
		}
		return nil, err
	}
	if !product.Purchasable() {
		return nil, fmt.Errorf("%w: product %s is %s", domainErrors.ErrProductUnavailable, product.ID, product.Status)
	}
	if !checkout.Amount.Equal(product.Price) {
		u.logger.Warn("checkout amount differs from listed price",
			slog.String("product_id", product.ID),
			slog.String("amount", checkout.Amount.String()),
			slog.String("price", product.Price.String()),
		)
	}

	title := product.Title
	if title == "" {
		title = model.DefaultProductTitle
	}
	phone := checkout.CustomerPhone
	if phone == "" {
		phone = model.DefaultBuyerPhone
	}
	name := checkout.CustomerName
	if name == "" {
		name = model.DefaultBuyerName
	}

	order, err := u.orders.Create(ctx, &model.Order{
		ProductID:     product.ID,
		BuyerID:       checkout.UserID,
		SellerID:      product.SellerID,
		ProductTitle:  title,
		ProductPrice:  checkout.Amount,
		TotalPrice:    checkout.Amount,
		BuyerName:     name,
		BuyerPhone:    phone,
		BuyerWhatsapp: phone,
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("order created", slog.String("order_id", order.ID), slog.String("product_id", product.ID))

	invoice, err := u.provider.CreateInvoice(ctx, zinipay.CreateRequest{
		CustomerName:  checkout.CustomerName,
		CustomerEmail: checkout.CustomerEmail,
		Amount:        checkout.Amount,
		RedirectURL:   u.settings.FrontendURL + "/orders?payment=success",
		CancelURL:     u.settings.FrontendURL + "/orders?payment=cancelled",
		WebhookURL:    u.settings.BackendURL + webhookPath,
		Metadata: zinipay.Metadata{
			Phone:     checkout.CustomerPhone,
			OrderID:   order.ID,
			ProductID: product.ID,
			UserID:    checkout.UserID,
		},
	})
	if err != nil {
		u.logger.Error("failed to create invoice", slog.String("order_id", order.ID), slog.Any("error", err))
		return nil, err
	}

	if invoice.InvoiceID == "" {
		u.logger.Error("invoice created without id", slog.String("order_id", order.ID))
		return nil, fmt.Errorf("%w: invoice for order %s has no id", domainErrors.ErrUpstream, order.ID)
	}
	if err := u.orders.AttachInvoice(ctx, order.ID, invoice.InvoiceID); err != nil {
		u.logger.Error("failed to store invoice id",
			slog.String("order_id", order.ID),
			slog.String("invoice_id", invoice.InvoiceID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &model.PaymentSession{
		OrderID:    order.ID,
		InvoiceID:  invoice.InvoiceID,
		PaymentURL: invoice.PaymentURL,
	}, nil
}

// Verify asks the provider about the invoice and completes the order when it was paid.
func (u *PaymentUseCase) Verify(ctx context.Context, invoiceID string) (*VerifyResult, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, fmt.Errorf("%w: invoice id is required", domainErrors.ErrValidation)
	}

	verification, err := u.provider.Verify(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{Completed: verification.Completed(), Verification: verification}
	if !result.Completed {
		return result, nil
	}

	orderID, err := u.resolveOrderID(ctx, verification.OrderID, invoiceID)
	if err != nil {
		u.logger.Warn("verified invoice has no matching order",
			slog.String("invoice_id", invoiceID),
			slog.Any("error", err),
		)
		return result, nil
	}

	order, err := u.settle(ctx, orderID, model.PaymentEventCompleted, firstNonEmpty(verification.TransactionID, invoiceID))
	if err != nil {
		return nil, err
	}
	result.Order = order
	return result, nil
}

type webhookPayload struct {
	Status        string `json:"status"`
	InvoiceID     string `json:"invoiceId"`
	TransactionID string `json:"transaction_id"`
	Metadata      struct {
		OrderID   string `json:"order_id"`
		ProductID string `json:"product_id"`
	} `json:"metadata"`
}

// ParseWebhook authenticates and decodes a provider notification.
func (u *PaymentUseCase) ParseWebhook(body []byte, signature string) (*model.WebhookNotification, error) {
	if err := u.verifier.Verify(body, signature); err != nil {
		u.logger.Warn("webhook signature rejected", slog.String("verifier", u.verifier.Name()), slog.Any("error", err))
		return nil, err
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed webhook body: %w", domainErrors.ErrValidation, err)
	}

	return &model.WebhookNotification{
		Status:        payload.Status,
		InvoiceID:     payload.InvoiceID,
		TransactionID: payload.TransactionID,
		OrderID:       payload.Metadata.OrderID,
		ProductID:     payload.Metadata.ProductID,
	}, nil
}

// HandleWebhook applies an authenticated notification to its order.
// Notifications with statuses that carry no state change are ignored.
func (u *PaymentUseCase) HandleWebhook(ctx context.Context, n model.WebhookNotification) error {
	event, ok := n.Event()
	if !ok {
		u.logger.Debug("ignoring webhook status", slog.String("status", n.Status), slog.String("invoice_id", n.InvoiceID))
		return nil
	}

	orderID, err := u.resolveOrderID(ctx, n.OrderID, n.InvoiceID)
	if err != nil {
		return err
	}

	var transactionID string
	if event == model.PaymentEventCompleted {
		transactionID = firstNonEmpty(n.TransactionID, n.InvoiceID)
	}

	_, err = u.settle(ctx, orderID, event, transactionID)
	return err
}

// Status returns the latest known status of the order, served from cache when possible.
// Only terminal snapshots are cached; pending orders are always read from storage.
func (u *PaymentUseCase) Status(ctx context.Context, orderID string) (*model.OrderSnapshot, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", domainErrors.ErrValidation)
	}

	if snapshot, ok := u.cache.Get(ctx, orderID); ok {
		return snapshot, nil
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	snapshot := order.Snapshot()
	if order.IsTerminal() {
		u.cache.Set(ctx, snapshot)
	}
	return &snapshot, nil
}

// Reconcile settles a pending order from the provider's view of its invoice.
// Orders that never got an invoice expire once PendingTTL has passed.
func (u *PaymentUseCase) Reconcile(ctx context.Context, order model.Order) error {
	if order.IsTerminal() {
		return nil
	}

	if order.InvoiceID == "" {
		if u.settings.PendingTTL > 0 && u.now().Sub(order.CreatedAt) >= u.settings.PendingTTL {
			_, err := u.settle(ctx, order.ID, model.PaymentEventExpired, "")
			return err
		}
		return nil
	}

	verification, err := u.provider.Verify(ctx, order.InvoiceID)
	if err != nil {
		return err
	}

	switch {
	case verification.Completed():
		_, err = u.settle(ctx, order.ID, model.PaymentEventCompleted, firstNonEmpty(verification.TransactionID, order.InvoiceID))
	case verification.Failed():
		_, err = u.settle(ctx, order.ID, model.PaymentEventFailed, "")
	default:
		u.logger.Debug("invoice still pending",
			slog.String("order_id", order.ID),
			slog.String("invoice_id", order.InvoiceID),
			slog.String("provider_status", verification.Status),
		)
	}
	return err
}

// Diagnostics reports configuration presence and database reachability.
func (u *PaymentUseCase) Diagnostics(ctx context.Context) model.Diagnostics {
	d := model.Diagnostics{
		HasAPIKey:   u.settings.APIKey != "",
		FrontendURL: u.settings.FrontendURL,
		BackendURL:  u.settings.BackendURL,
	}
	if u.health != nil {
		d.DatabaseErr = u.health.HealthCheck(ctx)
	}
	return d
}

// CheckDatabase reports whether the backing store is reachable.
func (u *PaymentUseCase) CheckDatabase(ctx context.Context) error {
	if u.health == nil {
		return nil
	}
	return u.health.HealthCheck(ctx)
}

func (u *PaymentUseCase) resolveOrderID(ctx context.Context, orderID, invoiceID string) (string, error) {
	if orderID != "" {
		return orderID, nil
	}
	if invoiceID == "" {
		return "", fmt.Errorf("%w: notification carries neither order nor invoice id", domainErrors.ErrNotFound)
	}
	order, err := u.orders.GetByInvoice(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return order.ID, nil
}

// settle applies event and fans out cache and event updates. Illegal
// transitions are logged and swallowed so a late signal cannot revive a
// terminal order.
func (u *PaymentUseCase) settle(ctx context.Context, orderID string, event model.PaymentEvent, transactionID string) (*model.Order, error) {
	order, changed, err := u.orders.Transition(ctx, orderID, event, transactionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrIllegalTransition) {
			u.logger.Warn("payment event rejected",
				slog.String("order_id", orderID),
				slog.String("event", string(event)),
				slog.Any("error", err),
			)
			return nil, nil
		}
		return nil, err
	}

	if order.IsTerminal() {
		u.cache.Set(ctx, order.Snapshot())
	} else {
		u.cache.Invalidate(ctx, order.ID)
	}
	if !changed {
		return order, nil
	}

	u.logger.Info("order settled",
		slog.String("order_id", order.ID),
		slog.String("status", string(order.Status)),
		slog.String("event", string(event)),
	)
	if err := u.publisher.OrderSettled(ctx, *order); err != nil {
		u.logger.Warn("failed to publish order event", slog.String("order_id", order.ID), slog.Any("error", err))
	}
	return order, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
