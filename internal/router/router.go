package router

import (
	"time"

	"github.com/Phalatsane/wings-cafe/internal/config"
	"github.com/Phalatsane/wings-cafe/internal/handler"
	"github.com/Phalatsane/wings-cafe/internal/infra"
	"github.com/Phalatsane/wings-cafe/internal/middleware"
	"github.com/Phalatsane/wings-cafe/internal/repository"
	"github.com/Phalatsane/wings-cafe/internal/service"
	"github.com/Phalatsane/wings-cafe/internal/worker"

	_ "github.com/Phalatsane/wings-cafe/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Ledger ← Store (+ Redis event queue)
// rdb and breaker may be nil, in which case ledger events are dropped.
func New(cfg *config.Config, store repository.Store, rdb *redis.Client, breaker *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Ledger ───────────────────────────────────────────────────────────────
	// A nil *Dispatcher must not reach the interface.
	var events service.EventPublisher
	if rdb != nil {
		if breaker == nil {
			breaker = infra.NewCircuitBreaker(infra.BreakerConfig{})
		}
		events = worker.NewDispatcher(rdb, breaker)
	}
	ledger := service.NewLedger(store, events, cfg.LowStockThreshold)

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(ledger)
	inventorySvc := service.NewInventoryService(ledger)
	saleSvc := service.NewSaleService(ledger)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	salesH := handler.NewSalesHandler(saleSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(ledger, rdb, breaker))
	r.GET("/api/data", handler.Data(ledger))

	products := r.Group("/products")
	{
		products.GET("", productsH.List)
		products.POST("", productsH.Create)
		products.GET("/:id", productsH.Get)
		products.PATCH("/:id", productsH.Update)
		products.DELETE("/:id", productsH.Delete)
		products.PATCH("/:id/add-stock", inventoryH.AddStock)
	}

	r.GET("/stock-transactions", inventoryH.ListStockTransactions)
	r.GET("/stock-alerts", inventoryH.LowStock)

	sales := r.Group("/sales")
	{
		sales.GET("", salesH.List)
		sales.POST("", salesH.Record)
		sales.PATCH("/:id", salesH.Update)
		sales.DELETE("/:id", salesH.Delete)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
