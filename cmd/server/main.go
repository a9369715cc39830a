// Package main is the entry point for the fakturo API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fakturo/internal/config"
	"fakturo/internal/domain/auth"
	"fakturo/internal/domain/business"
	"fakturo/internal/domain/catalogs/customer"
	"fakturo/internal/domain/catalogs/item"
	"fakturo/internal/domain/documents/expense"
	"fakturo/internal/domain/ledger"
	v1 "fakturo/internal/infrastructure/http/v1"
	"fakturo/internal/infrastructure/numerator"
	"fakturo/internal/infrastructure/storage/postgres"
	"fakturo/internal/infrastructure/storage/postgres/auth_repo"
	"fakturo/internal/infrastructure/storage/postgres/business_repo"
	"fakturo/internal/infrastructure/storage/postgres/catalog_repo"
	"fakturo/internal/infrastructure/storage/postgres/document_repo"
	"fakturo/internal/infrastructure/storage/postgres/ledger_repo"
	"fakturo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	log.Infow("starting fakturo server", "env", cfg.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	invoiceRepo := ledger_repo.NewInvoiceRepo(txManager)
	quoteRepo := ledger_repo.NewQuoteRepo(txManager)
	paymentRepo := ledger_repo.NewPaymentRepo(txManager)
	receiptRepo := ledger_repo.NewReceiptRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	expenseRepo := document_repo.NewExpenseRepo(txManager)
	businessRepo := business_repo.NewBusinessRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	// --- Document numbering ---
	numbers := numerator.New(txManager)

	// --- Services ---
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := auth.NewService(userRepo, tokenManager)

	businessService := business.NewService(businessRepo, authService, txManager)
	customerService := customer.NewService(customerRepo, invoiceRepo, quoteRepo, txManager)
	itemService := item.NewService(itemRepo)
	expenseService := expense.NewService(expenseRepo)

	invoiceService := ledger.NewInvoiceService(invoiceRepo, paymentRepo, customerRepo, numbers, txManager, auditService)
	paymentService := ledger.NewPaymentService(invoiceRepo, paymentRepo, receiptRepo, numbers, txManager, auditService)
	quoteService := ledger.NewQuoteService(quoteRepo, invoiceRepo, customerRepo, numbers, txManager, auditService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:          log,
		Pool:            pool,
		Audit:           auditService,
		AuthService:     authService,
		BusinessService: businessService,
		CustomerService: customerService,
		ItemService:     itemService,
		ExpenseService:  expenseService,
		InvoiceService:  invoiceService,
		PaymentService:  paymentService,
		QuoteService:    quoteService,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Infow("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	// Periodic pool stats in development
	if cfg.IsDevelopment() {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				postgres.LogPoolStats(ctx, pool.Pool)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
