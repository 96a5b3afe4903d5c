package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/freshline/backend/internal/application/catalog"
	financeapp "github.com/freshline/backend/internal/application/finance"
	identityapp "github.com/freshline/backend/internal/application/identity"
	inventoryapp "github.com/freshline/backend/internal/application/inventory"
	partnerapp "github.com/freshline/backend/internal/application/partner"
	qualityapp "github.com/freshline/backend/internal/application/quality"
	reportapp "github.com/freshline/backend/internal/application/report"
	tradeapp "github.com/freshline/backend/internal/application/trade"
	workorderapp "github.com/freshline/backend/internal/application/workorder"
	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/infrastructure/auth"
	"github.com/freshline/backend/internal/infrastructure/cache"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/freshline/backend/internal/infrastructure/event"
	"github.com/freshline/backend/internal/infrastructure/logger"
	"github.com/freshline/backend/internal/infrastructure/persistence"
	"github.com/freshline/backend/internal/infrastructure/printing"
	"github.com/freshline/backend/internal/infrastructure/scheduler"
	"github.com/freshline/backend/internal/infrastructure/storage"
	"github.com/freshline/backend/internal/infrastructure/telemetry"
	"github.com/freshline/backend/internal/interfaces/http/handler"
	"github.com/freshline/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Freshline Backend API
//	@version		1.0
//	@description	Weekly produce ordering, warehouse stock, store billing and vendor payables

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// Rebuild the logger so records are also exported over OTLP
	if level, err := logger.ParseLevel(cfg.Log.Level); err == nil {
		if core := tel.LogCore(level); core != nil {
			if exported, err := logger.New(cfg.Log, core); err == nil {
				log = exported
			}
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Freshline backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, tel.Meter(), log); err != nil {
		log.Warn("Database instrumentation unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis backs the token blacklist, stock locks and idempotency keys.
	// Outside production a missing redis falls back to in-memory versions.
	cacheFactory := cache.NewFactory(cfg.Redis, cfg.StockLock,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	)
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}()
	redisClient, err := cacheFactory.Client()
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	stockLocker, err := cacheFactory.CreateStockLocker()
	if err != nil {
		log.Fatal("Failed to create stock locker", zap.Error(err))
	}
	idempotencyStore, err := cacheFactory.CreateIdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, token revocation is process-local")
	}

	// Repositories
	transactor := persistence.NewGormTransactor(db.DB)
	numbers := persistence.NewSequenceGenerator(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	countRepo := persistence.NewGormStoreInventoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	matrixRepo := persistence.NewGormOrderMatrixRepository(db.DB)
	preorderRepo := persistence.NewGormPreOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	workOrderRepo := persistence.NewGormWorkOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	creditMemoRepo := persistence.NewGormCreditMemoRepository(db.DB)
	storePaymentRepo := persistence.NewGormStorePaymentRepository(db.DB)
	vendorInvoiceRepo := persistence.NewGormVendorInvoiceRepository(db.DB)
	vendorCreditMemoRepo := persistence.NewGormVendorCreditMemoRepository(db.DB)
	vendorPaymentRepo := persistence.NewGormVendorPaymentRepository(db.DB)
	disputeRepo := persistence.NewGormVendorDisputeRepository(db.DB)
	issueRepo := persistence.NewGormIssueRepository(db.DB)
	salesReportRepo := persistence.NewGormSalesReportRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(accountRepo, jwtService, blacklist, log)
	accountService := identityapp.NewAccountService(accountRepo, storeRepo, vendorRepo, blacklist, cfg.JWT.RefreshTokenExpiration, log)

	storeService := partnerapp.NewStoreService(storeRepo, log)
	vendorService := partnerapp.NewVendorService(vendorRepo)
	adjustmentService := partnerapp.NewAdjustmentService(adjustmentRepo, storeRepo, transactor, log)
	productService := catalogapp.NewProductService(productRepo, vendorRepo)

	stockService := inventoryapp.NewStockService(ledgerRepo, productRepo, stockLocker, transactor, log)
	countService := inventoryapp.NewStoreInventoryService(countRepo, storeRepo, log)

	orderService := tradeapp.NewOrderService(orderRepo, productRepo, storeRepo, stockService, numbers, transactor, log)
	preorderService := tradeapp.NewPreOrderService(tradeapp.PreOrderRepositories{
		PreOrders: preorderRepo,
		Matrices:  matrixRepo,
		Orders:    orderRepo,
		Counts:    countRepo,
		Stores:    storeRepo,
		Products:  productRepo,
	}, stockService, numbers, log)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, vendorRepo, productRepo, stockService, numbers, transactor, log)
	workOrderService := workorderapp.NewService(workOrderRepo, orderRepo, stockService, orderService, numbers, transactor, log)

	invoiceService := financeapp.NewInvoiceService(financeapp.InvoiceRepositories{
		Invoices: invoiceRepo,
		Orders:   orderRepo,
		Stores:   storeRepo,
	}, numbers, transactor, log)
	invoiceService.SetInvoicePrefix(cfg.Finance.InvoicePrefix)
	creditMemoService := financeapp.NewCreditMemoService(creditMemoRepo, invoiceRepo, storeRepo, numbers, transactor, log)
	storePaymentService := financeapp.NewStorePaymentService(storePaymentRepo, invoiceRepo, storeRepo, numbers, transactor, idempotencyStore, log)
	vendorInvoiceService := financeapp.NewVendorInvoiceService(vendorInvoiceRepo, purchaseOrderRepo, vendorRepo, matchTolerances(cfg.Finance), log)
	vendorCreditMemoService := financeapp.NewVendorCreditMemoService(vendorCreditMemoRepo, vendorInvoiceRepo, vendorRepo, numbers, transactor, log)
	vendorPaymentService := financeapp.NewVendorPaymentService(vendorPaymentRepo, vendorInvoiceRepo, vendorRepo, numbers, transactor, idempotencyStore, log)
	disputeService := financeapp.NewDisputeService(disputeRepo, vendorInvoiceRepo, vendorCreditMemoRepo, numbers, transactor, log)

	reportService := reportapp.NewReportService(reportapp.ReportRepositories{
		Receivables: invoiceRepo,
		Payables:    vendorInvoiceRepo,
		Sales:       salesReportRepo,
		Stores:      storeRepo,
		Vendors:     vendorRepo,
		Products:    productRepo,
		Stock:       stockService,
	}, log)

	// Object storage holds invoice PDFs and quality issue photos
	var objects storage.ObjectStorage
	switch {
	case cfg.Storage.Enabled():
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Object storage bucket unavailable", zap.Error(err))
		}
		objects = s3
		log.Info("Object storage enabled", zap.String("bucket", s3.GetBucket()))
	case !cfg.App.IsProduction():
		objects = storage.NewMemoryObjectStorage("http://localhost:" + cfg.App.Port + "/_objects")
		log.Warn("No storage bucket configured, keeping objects in memory")
	default:
		log.Warn("No storage bucket configured, PDFs and photos are disabled")
	}

	var photos qualityapp.PhotoStorage
	if objects != nil {
		photos = objects
	}
	issueService := qualityapp.NewIssueService(issueRepo, orderRepo, invoiceRepo, creditMemoService, photos, transactor, log)

	if cfg.Printing.Enabled && objects != nil {
		chrome := printing.NewChromedpRenderer(cfg.Printing, log)
		defer func() {
			if err := chrome.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		renderer, err := printing.NewInvoiceRenderer(cfg.Printing, chrome, log)
		if err != nil {
			log.Fatal("Failed to load invoice template", zap.Error(err))
		}
		invoiceService.SetPrinting(renderer, objects)
		log.Info("Invoice printing enabled")
	}

	// Business metrics
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         tel.Meter(),
		Logger:        log,
		StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	if tel.Enabled() && cfg.Telemetry.MetricsEnabled {
		businessMetrics.StartPeriodicCollection(metricsCtx, 5*time.Minute)
	}
	orderService.SetBusinessMetrics(businessMetrics)
	preorderService.SetBusinessMetrics(businessMetrics)
	purchaseOrderService.SetBusinessMetrics(businessMetrics)
	workOrderService.SetBusinessMetrics(businessMetrics)
	invoiceService.SetBusinessMetrics(businessMetrics)
	storePaymentService.SetBusinessMetrics(businessMetrics)
	vendorPaymentService.SetBusinessMetrics(businessMetrics)
	vendorInvoiceService.SetBusinessMetrics(businessMetrics)

	// Event bus. Shipping an order raises its invoice; the idempotent wrapper
	// keeps a redelivered event from invoicing twice.
	eventBus := event.NewInMemoryEventBus(log)
	shippedHandler := event.NewIdempotentHandler(
		financeapp.NewOrderShippedHandler(invoiceService, log),
		idempotencyStore,
		log,
		event.WithScope("invoice-on-ship"),
	)
	eventBus.Subscribe(shippedHandler)
	log.Info("Event handlers registered", zap.Strings("order_shipped_events", shippedHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	storeService.SetEventPublisher(eventBus)
	adjustmentService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	preorderService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)
	workOrderService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	creditMemoService.SetEventPublisher(eventBus)
	storePaymentService.SetEventPublisher(eventBus)
	vendorInvoiceService.SetEventPublisher(eventBus)
	vendorPaymentService.SetEventPublisher(eventBus)
	disputeService.SetEventPublisher(eventBus)
	issueService.SetEventPublisher(eventBus)

	// Weekly jobs: preorder generation, expiry and work orders
	if cfg.Scheduler.Enabled {
		weeklyScheduler := scheduler.NewScheduler(cfg.Scheduler,
			scheduler.NewWeeklyExecutor(preorderService, workOrderService, log), log)
		if err := weeklyScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := weeklyScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		trigger := scheduler.NewWeeklyTrigger(scheduler.WeeklyTriggerConfig{
			Weekday: cfg.Scheduler.WeeklyWeekday,
			Hour:    cfg.Scheduler.WeeklyHour,
		}, weeklyScheduler, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start weekly trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping weekly trigger", zap.Error(err))
			}
		}()
		log.Info("Weekly scheduler started",
			zap.Int("workers", cfg.Scheduler.Workers),
			zap.Stringer("weekday", cfg.Scheduler.WeeklyWeekday),
			zap.Int("hour_utc", cfg.Scheduler.WeeklyHour),
		)
	}

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := router.New(router.Config{
		ServiceName:   cfg.Telemetry.ServiceName,
		HTTP:          cfg.HTTP,
		Production:    cfg.App.IsProduction(),
		Logger:        log,
		Meter:         tel.Meter(),
		Authenticator: authService,
	}, router.Handlers{
		Health:            handler.NewHealthHandler(version, checks),
		Auth:              handler.NewAuthHandler(authService, accountService),
		Accounts:          handler.NewAccountHandler(accountService),
		Stores:            handler.NewStoreHandler(storeService),
		Vendors:           handler.NewVendorHandler(vendorService),
		Adjustments:       handler.NewAdjustmentHandler(adjustmentService),
		Products:          handler.NewProductHandler(productService),
		Inventory:         handler.NewInventoryHandler(stockService, countService),
		Orders:            handler.NewOrderHandler(orderService),
		PreOrders:         handler.NewPreOrderHandler(preorderService),
		PurchaseOrders:    handler.NewPurchaseOrderHandler(purchaseOrderService),
		Invoices:          handler.NewInvoiceHandler(invoiceService),
		CreditMemos:       handler.NewCreditMemoHandler(creditMemoService),
		StorePayments:     handler.NewStorePaymentHandler(storePaymentService),
		VendorInvoices:    handler.NewVendorInvoiceHandler(vendorInvoiceService),
		VendorCreditMemos: handler.NewVendorCreditMemoHandler(vendorCreditMemoService),
		VendorPayments:    handler.NewVendorPaymentHandler(vendorPaymentService),
		Disputes:          handler.NewDisputeHandler(disputeService),
		Issues:            handler.NewIssueHandler(issueService),
		WorkOrders:        handler.NewWorkOrderHandler(workOrderService),
		Reports:           handler.NewReportHandler(reportService),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
		ErrorLog:       zap.NewStdLog(log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server...", zap.Stringer("signal", sig))
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Deferred calls stop the trigger, scheduler, bus, renderer, redis,
	// database and telemetry in reverse order of start
	log.Info("Server exited gracefully")
}

func matchTolerances(cfg config.FinanceConfig) finance.MatchTolerances {
	return finance.MatchTolerances{
		QuantityPct: cfg.MatchQtyTolerance,
		PricePct:    cfg.MatchPriceTolerance,
		Amount:      cfg.MatchAmountTolerance,
	}
}
