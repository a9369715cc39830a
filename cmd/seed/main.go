// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"fakturo/internal/core/id"
	"fakturo/internal/core/types"
	"fakturo/internal/domain/auth"
	"fakturo/internal/domain/business"
	"fakturo/internal/domain/catalogs/customer"
	"fakturo/internal/domain/catalogs/item"
	"fakturo/internal/infrastructure/storage/postgres"
	"fakturo/internal/infrastructure/storage/postgres/auth_repo"
	"fakturo/internal/infrastructure/storage/postgres/business_repo"
	"fakturo/internal/infrastructure/storage/postgres/catalog_repo"
	"fakturo/internal/infrastructure/storage/postgres/ledger_repo"
	"fakturo/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	businessRepo := business_repo.NewBusinessRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	itemRepo := catalog_repo.NewItemRepo(txManager)
	invoiceRepo := ledger_repo.NewInvoiceRepo(txManager)
	quoteRepo := ledger_repo.NewQuoteRepo(txManager)

	authService := auth.NewService(userRepo, auth.NewTokenManager("seed-only", 0))
	businessService := business.NewService(businessRepo, authService, txManager)
	customerService := customer.NewService(customerRepo, invoiceRepo, quoteRepo, txManager)
	itemService := item.NewService(itemRepo)

	businessID, err := seedBusiness(ctx, pool, businessService, log)
	if err != nil {
		log.Fatalw("failed to seed business", "error", err)
	}

	if err := seedOwner(ctx, pool, authService, businessID, log); err != nil {
		log.Fatalw("failed to seed owner user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, businessID, customerService, itemService, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedBusiness(ctx context.Context, pool *postgres.Pool, businesses *business.Service, log *logger.Logger) (id.ID, error) {
	name := os.Getenv("BUSINESS_NAME")
	if name == "" {
		name = "Demo Studio"
	}
	currency := os.Getenv("BUSINESS_CURRENCY")
	if currency == "" {
		currency = "EUR"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM businesses WHERE name = $1`,
		name,
	).Scan(&existingID)
	if err == nil {
		log.Infow("business already exists", "name", name, "business_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check business exists: %w", err)
	}

	b, err := businesses.Create(ctx, business.Input{
		Name:     name,
		Currency: currency,
	})
	if err != nil {
		return id.Nil(), fmt.Errorf("create business: %w", err)
	}

	log.Infow("business created", "name", b.Name, "business_id", b.ID)
	return b.ID, nil
}

func seedOwner(ctx context.Context, pool *postgres.Pool, users *auth.Service, businessID id.ID, log *logger.Logger) error {
	email := os.Getenv("OWNER_EMAIL")
	if email == "" {
		email = "owner@example.com"
	}
	password := os.Getenv("OWNER_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		email,
	).Scan(&existingID)
	if err == nil {
		log.Infow("owner user already exists", "email", email, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check owner exists: %w", err)
	}

	user, err := users.Register(ctx, businessID, email, "Owner", password)
	if err != nil {
		return fmt.Errorf("register owner: %w", err)
	}

	log.Infow("owner user created", "email", user.Email, "user_id", user.ID)
	return nil
}

func seedDemoData(ctx context.Context, businessID id.ID, customers *customer.Service, items *item.Service, log *logger.Logger) error {
	demoCustomers := []customer.Input{
		{Name: "Acme GmbH", Email: "billing@acme.example", Address: "Hauptstrasse 1, Berlin"},
		{Name: "Globex Ltd", Email: "accounts@globex.example", Address: "12 King Street, London"},
		{Name: "Initech", Email: "ap@initech.example"},
	}
	for _, input := range demoCustomers {
		c, err := customers.Create(ctx, businessID, input)
		if err != nil {
			return fmt.Errorf("create customer %q: %w", input.Name, err)
		}
		log.Infow("customer created", "name", c.Name, "customer_id", c.ID)
	}

	demoItems := []item.Input{
		{Name: "Consulting", UnitPrice: types.MustMoney("120.00"), TaxRate: types.MustMoney("0.19"), Unit: "hour", Active: true},
		{Name: "Design sprint", UnitPrice: types.MustMoney("4500.00"), TaxRate: types.MustMoney("0.19"), Unit: "sprint", Active: true},
		{Name: "Hosting", UnitPrice: types.MustMoney("25.00"), TaxRate: types.MustMoney("0.19"), Unit: "month", Active: true},
	}
	for _, input := range demoItems {
		i, err := items.Create(ctx, businessID, input)
		if err != nil {
			return fmt.Errorf("create item %q: %w", input.Name, err)
		}
		log.Infow("item created", "name", i.Name, "item_id", i.ID)
	}

	return nil
}
