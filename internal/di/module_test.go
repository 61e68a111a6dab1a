package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/adapter/zinipay"
	"github.com/polkiloo/ffmarket/internal/app"
	"github.com/polkiloo/ffmarket/internal/config"
	"github.com/polkiloo/ffmarket/internal/domain/model"
	"github.com/polkiloo/ffmarket/internal/domain/repository"
	"github.com/polkiloo/ffmarket/internal/storage/postgres"
	"github.com/polkiloo/ffmarket/internal/test"
	"github.com/polkiloo/ffmarket/internal/worker"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:        ":0",
		DatabaseURI:       "postgres://stub",
		Environment:       config.EnvDevelopment,
		ZiniPayAPIKey:     "key",
		ZiniPayBaseURL:    "https://api.zinipay.com/v1/payment",
		WebhookSecret:     "whsec",
		FrontendURL:       "http://localhost:5173",
		BackendURL:        "http://localhost:5000",
		ReconcileInterval: time.Millisecond,
		PendingGrace:      time.Millisecond,
		PendingTTL:        time.Minute,
		WorkerPoolSize:    1,
		ShutdownTimeout:   time.Millisecond,
		MaxOrdersBatch:    1,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	products := test.NewProductRepositoryStub(model.Product{
		ID:       "prod-1",
		SellerID: "seller-1",
		Title:    "Diamond account",
		Price:    decimal.NewFromInt(2500),
		Status:   model.ProductStatusApproved,
	})
	orders := test.NewOrderRepositoryStub(products)
	provider := &test.ProviderStub{}

	var (
		facade     *app.MarketFacade
		engine     *gin.Engine
		reconciler *worker.Reconciler
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Decorate(func() repository.OrderRepository { return orders }),
			fx.Decorate(func() repository.ProductRepository { return products }),
			fx.Decorate(func() repository.HealthChecker { return test.HealthCheckerStub{} }),
			fx.Decorate(func() zinipay.Client { return provider }),
		),
		fx.Populate(&facade, &engine, &reconciler),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || engine == nil || reconciler == nil {
		t.Fatal("expected facade, router and reconciler instances")
	}

	session, err := facade.InitiatePayment(context.Background(), model.Checkout{
		ProductID:     "prod-1",
		Amount:        decimal.NewFromInt(2500),
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer",
		UserID:        "buyer-1",
	})
	if err != nil {
		t.Fatalf("initiate through composed graph: %v", err)
	}
	if len(provider.Requests) != 1 || session.InvoiceID != "inv-"+session.OrderID {
		t.Fatalf("expected replaced provider to be used, got session %+v", session)
	}
}
