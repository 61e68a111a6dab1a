package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/ffmarket/internal/config"
	pkgAuth "github.com/polkiloo/ffmarket/internal/pkg/auth"
	"github.com/polkiloo/ffmarket/internal/server/http/handlers"
	"github.com/polkiloo/ffmarket/internal/server/http/middleware"
)

// Params lists router dependencies resolved by fx.
type Params struct {
	fx.In

	Facade        handlers.MarketFacade
	Authenticator pkgAuth.OperatorAuthenticator
	Config        *config.Config
	Logger        *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.CORS(p.Config.IsProduction(), p.Config.FrontendURL))
	engine.Use(middleware.DecompressRequest(middleware.DefaultBodyLimit))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	systemHandler := handlers.NewSystemHandler(p.Facade, p.Config.Environment)
	paymentHandler := handlers.NewPaymentHandler(p.Facade, p.Logger)
	orderHandler := handlers.NewOrderHandler(p.Facade)

	engine.GET("/", systemHandler.Root)
	engine.GET("/health", systemHandler.Health)

	payment := engine.Group("/api/payment")
	payment.GET("/test", systemHandler.Test)
	payment.POST("/initiate", paymentHandler.Initiate)
	payment.POST("/verify", paymentHandler.Verify)
	payment.POST("/webhook", paymentHandler.Webhook)
	payment.GET("/orders/:id", paymentHandler.Status)

	orders := engine.Group("/api/orders")
	orders.Use(middleware.OperatorRequired(p.Authenticator))
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	engine.NoRoute(systemHandler.NotFound)

	return engine
}
