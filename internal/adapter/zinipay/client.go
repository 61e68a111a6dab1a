package zinipay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ffmarket/internal/domain/errors"
	"github.com/polkiloo/ffmarket/internal/domain/model"
)

const (
	apiKeyHeader          = "zini-api-key"
	defaultRetryAfter     = 5 * time.Second
	defaultCreateFailure  = "Failed to generate payment URL"
	maxErrorBodyLogLength = 512
)

// TooManyRequestsError represents rate limiting signal from the payment provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Unwrap classifies rate limiting as an upstream failure.
func (e TooManyRequestsError) Unwrap() error {
	return domainErrors.ErrUpstream
}

// Client exposes hosted payment operations of ZiniPay.
type Client interface {
	CreateInvoice(ctx context.Context, req CreateRequest) (*model.Invoice, error)
	Verify(ctx context.Context, invoiceID string) (*model.Verification, error)
}

// Metadata is echoed back by the provider on verification and webhooks.
type Metadata struct {
	Phone     string `json:"phone"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
}

// CreateRequest describes a hosted payment session to open.
type CreateRequest struct {
	CustomerName  string
	CustomerEmail string
	Amount        decimal.Decimal
	RedirectURL   string
	CancelURL     string
	WebhookURL    string
	Metadata      Metadata
}

type createPayload struct {
	CustomerName  string   `json:"cus_name"`
	CustomerEmail string   `json:"cus_email"`
	Amount        string   `json:"amount"`
	RedirectURL   string   `json:"redirect_url"`
	CancelURL     string   `json:"cancel_url"`
	WebhookURL    string   `json:"webhook_url"`
	Metadata      Metadata `json:"metadata"`
}

type createResponse struct {
	Status     bool   `json:"status"`
	PaymentURL string `json:"payment_url"`
	InvoiceID  string `json:"invoiceId"`
	Message    string `json:"message"`
}

type verifyPayload struct {
	InvoiceID string `json:"invoiceId"`
}

type verifyResponse struct {
	Status        string   `json:"status"`
	InvoiceID     string   `json:"invoiceId"`
	TransactionID string   `json:"transaction_id"`
	Metadata      Metadata `json:"metadata"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// HTTPClient implements Client via the provider REST API.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates provider client with default timeout.
func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse zinipay url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("zinipay url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// CreateInvoice opens a hosted payment session.
func (c *HTTPClient) CreateInvoice(ctx context.Context, req CreateRequest) (*model.Invoice, error) {
	payload := createPayload{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Amount:        req.Amount.String(),
		RedirectURL:   req.RedirectURL,
		CancelURL:     req.CancelURL,
		WebhookURL:    req.WebhookURL,
		Metadata:      req.Metadata,
	}

	body, err := c.post(ctx, "create", payload)
	if err != nil {
		return nil, err
	}

	var data createResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: decode create response: %w", domainErrors.ErrUpstream, err)
	}
	if !data.Status || data.PaymentURL == "" {
		msg := data.Message
		if msg == "" {
			msg = defaultCreateFailure
		}
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrUpstream, msg)
	}

	return &model.Invoice{InvoiceID: data.InvoiceID, PaymentURL: data.PaymentURL}, nil
}

// Verify queries the provider for invoice outcome.
func (c *HTTPClient) Verify(ctx context.Context, invoiceID string) (*model.Verification, error) {
	body, err := c.post(ctx, "verify", verifyPayload{InvoiceID: invoiceID})
	if err != nil {
		return nil, err
	}

	var data verifyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: decode verify response: %w", domainErrors.ErrUpstream, err)
	}
	if data.InvoiceID == "" {
		data.InvoiceID = invoiceID
	}

	return &model.Verification{
		Status:        data.Status,
		InvoiceID:     data.InvoiceID,
		TransactionID: data.TransactionID,
		OrderID:       data.Metadata.OrderID,
		ProductID:     data.Metadata.ProductID,
		Raw:           json.RawMessage(body),
	}, nil
}

func (c *HTTPClient) post(ctx context.Context, action string, payload any) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: ZiniPay API key not configured", domainErrors.ErrConfiguration)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domainErrors.ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return body, nil
	default:
		c.logger.Error("zinipay request failed",
			slog.String("action", action),
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(body, maxErrorBodyLogLength)),
		)
		var data errorResponse
		if err := json.Unmarshal(body, &data); err == nil && data.Message != "" {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrUpstream, data.Message)
		}
		return nil, fmt.Errorf("%w: zinipay error: %s", domainErrors.ErrUpstream, resp.Status)
	}
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
