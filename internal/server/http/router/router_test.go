package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ffmarket/internal/config"
	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/ffmarket/internal/test"
)

func newTestEngine(t *testing.T, facade testhelpers.MarketFacadeStub, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg == nil {
		cfg = &config.Config{Environment: config.EnvDevelopment}
	}
	return Setup(Params{
		Facade:        facade,
		Authenticator: testhelpers.OperatorAuthenticatorStub{Token: "operator-token"},
		Config:        cfg,
		Logger:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
}

func serve(engine *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	var initiated model.Checkout
	facade := testhelpers.MarketFacadeStub{
		PaymentFacadeStub: testhelpers.PaymentFacadeStub{
			InitiateFn: func(_ context.Context, c model.Checkout) (*model.PaymentSession, error) {
				initiated = c
				return &model.PaymentSession{OrderID: "order-7", InvoiceID: "inv-7", PaymentURL: "https://pay.example/inv-7"}, nil
			},
		},
	}
	engine := newTestEngine(t, facade, nil)

	cases := []struct {
		name    string
		method  string
		path    string
		body    []byte
		headers map[string]string
		want    int
	}{
		{"banner", http.MethodGet, "/", nil, nil, http.StatusOK},
		{"health", http.MethodGet, "/health", nil, nil, http.StatusOK},
		{"diagnostics", http.MethodGet, "/api/payment/test", nil, nil, http.StatusOK},
		{"initiate", http.MethodPost, "/api/payment/initiate", []byte(`{"product_id":"p1","amount":"2500","customer_email":"a@b.com","customer_name":"A","user_id":"u1"}`), map[string]string{"Content-Type": "application/json"}, http.StatusOK},
		{"verify", http.MethodPost, "/api/payment/verify", []byte(`{"invoiceId":"inv-7"}`), map[string]string{"Content-Type": "application/json"}, http.StatusOK},
		{"webhook", http.MethodPost, "/api/payment/webhook", []byte(`{"status":"COMPLETED","invoiceId":"inv-7"}`), map[string]string{handlers.SignatureHeader: "sha256=00"}, http.StatusOK},
		{"status", http.MethodGet, "/api/payment/orders/order-7", nil, nil, http.StatusOK},
		{"orders without token", http.MethodGet, "/api/orders", nil, nil, http.StatusUnauthorized},
		{"orders wrong token", http.MethodGet, "/api/orders", nil, map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"orders", http.MethodGet, "/api/orders", nil, map[string]string{"Authorization": "Bearer operator-token"}, http.StatusOK},
		{"order", http.MethodGet, "/api/orders/order-7", nil, map[string]string{"Authorization": "Bearer operator-token"}, http.StatusOK},
		{"unknown", http.MethodGet, "/api/unknown", nil, nil, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(engine, tc.method, tc.path, tc.body, tc.headers)
			if resp.Code != tc.want {
				t.Fatalf("expected status %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}

	if initiated.ProductID != "p1" || initiated.UserID != "u1" {
		t.Fatalf("unexpected checkout reached facade: %+v", initiated)
	}
}

func TestNotFoundBody(t *testing.T) {
	engine := newTestEngine(t, testhelpers.MarketFacadeStub{}, nil)
	resp := serve(engine, http.MethodGet, "/missing", nil, nil)

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "Route not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCORSPolicy(t *testing.T) {
	preflight := func(engine *gin.Engine, origin string) *httptest.ResponseRecorder {
		return serve(engine, http.MethodOptions, "/api/payment/initiate", nil, map[string]string{
			"Origin":                        origin,
			"Access-Control-Request-Method": http.MethodPost,
		})
	}

	dev := newTestEngine(t, testhelpers.MarketFacadeStub{}, nil)
	resp := preflight(dev, "https://anything.example")
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin in development, got %q", got)
	}

	prod := newTestEngine(t, testhelpers.MarketFacadeStub{}, &config.Config{
		Environment: config.EnvProduction,
		FrontendURL: "https://shop.example",
	})
	resp = preflight(prod, "https://shop.example")
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Fatalf("expected storefront origin, got %q", got)
	}
	resp = preflight(prod, "https://evil.example")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected foreign origin to be rejected, got %d", resp.Code)
	}
}

var _ handlers.MarketFacade = testhelpers.MarketFacadeStub{}
