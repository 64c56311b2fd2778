package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vendapos/venda/internal/app"
	"github.com/vendapos/venda/internal/audit"
	"github.com/vendapos/venda/internal/auth"
	"github.com/vendapos/venda/internal/authz"
	"github.com/vendapos/venda/internal/customers"
	"github.com/vendapos/venda/internal/observability"
	"github.com/vendapos/venda/internal/platform/cache"
	"github.com/vendapos/venda/internal/platform/db"
	"github.com/vendapos/venda/internal/products"
	"github.com/vendapos/venda/internal/reports"
	"github.com/vendapos/venda/internal/stores"
	"github.com/vendapos/venda/internal/suppliers"
	"github.com/vendapos/venda/internal/tenants"
	"github.com/vendapos/venda/internal/transactions"
	"github.com/vendapos/venda/internal/users"
	"github.com/vendapos/venda/internal/webhooks"
	"github.com/vendapos/venda/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queue, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	recorder := audit.NewRecorder(dbpool, logger)
	authorizer := authz.NewAuthorizer(logger, recorder)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens, auth.RootCredentials{
		Username:     cfg.RootUsername,
		PasswordHash: cfg.RootPasswordHash,
	}, logger)
	authHandler := auth.NewHandler(authService, logger)

	usersService := users.NewService(users.NewRepository(dbpool), authorizer)
	productsService := products.NewService(products.NewRepository(dbpool), authorizer)
	customersService := customers.NewService(customers.NewRepository(dbpool), authorizer)
	suppliersService := suppliers.NewService(suppliers.NewRepository(dbpool), authorizer)
	storesService := stores.NewService(stores.NewRepository(dbpool), authorizer)
	tenantsService := tenants.NewService(tenants.NewRepository(dbpool), authorizer)

	webhooksRepo := webhooks.NewRepository(dbpool)
	webhooksService := webhooks.NewService(webhooksRepo, authorizer, queue)
	transactionsService := transactions.NewService(transactions.NewRepository(dbpool), authorizer, webhooksService, logger)

	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(reports.NewRepository(dbpool), reportsCache, authorizer)

	auditService := audit.NewService(dbpool)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		AuthService:         authService,
		AuthHandler:         authHandler,
		UsersHandler:        users.NewHandler(usersService),
		ProductsHandler:     products.NewHandler(productsService),
		CustomersHandler:    customers.NewHandler(customersService),
		SuppliersHandler:    suppliers.NewHandler(suppliersService),
		TransactionsHandler: transactions.NewHandler(transactionsService),
		StoresHandler:       stores.NewHandler(storesService),
		TenantsHandler:      tenants.NewHandler(tenantsService),
		WebhooksHandler:     webhooks.NewHandler(webhooksService),
		ReportsHandler:      reports.NewHandler(reportsService),
		AuditHandler:        audit.NewHandler(auditService, authorizer),
		JobHandler:          jobs.NewHandler(inspector, logger),
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
