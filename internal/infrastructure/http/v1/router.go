// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/auth"
	"fakturo/internal/domain/business"
	"fakturo/internal/domain/catalogs/customer"
	"fakturo/internal/domain/catalogs/item"
	"fakturo/internal/domain/documents/expense"
	"fakturo/internal/domain/ledger"
	"fakturo/internal/infrastructure/http/v1/handlers"
	"fakturo/internal/infrastructure/http/v1/middleware"
	"fakturo/internal/infrastructure/storage/postgres"
	"fakturo/pkg/logger"
)

// RouterConfig carries the wired services the router exposes.
type RouterConfig struct {
	Logger *logger.Logger

	Pool  *postgres.Pool
	Audit *postgres.AuditService

	AuthService     *auth.Service
	BusinessService *business.Service
	CustomerService *customer.Service
	ItemService     *item.Service
	ExpenseService  *expense.Service
	InvoiceService  *ledger.InvoiceService
	PaymentService  *ledger.PaymentService
	QuoteService    *ledger.QuoteService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	{
		// Public auth endpoints
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService, cfg.BusinessService)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Everything else requires a token; the business scope comes from it
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))

		handlers.NewBusinessHandler(base, cfg.BusinessService).
			RegisterRoutes(protected.Group("/business"))
		handlers.NewCustomerHandler(base, cfg.CustomerService).
			RegisterRoutes(protected.Group("/customers"))
		handlers.NewItemHandler(base, cfg.ItemService).
			RegisterRoutes(protected.Group("/items"))
		handlers.NewExpenseHandler(base, cfg.ExpenseService).
			RegisterRoutes(protected.Group("/expenses"))
		handlers.NewInvoiceHandler(base, cfg.InvoiceService, cfg.PaymentService, cfg.Audit).
			RegisterRoutes(protected.Group("/invoices"))
		handlers.NewQuoteHandler(base, cfg.QuoteService).
			RegisterRoutes(protected.Group("/quotes"))
	}

	return router
}
