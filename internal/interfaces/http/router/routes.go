package router

import (
	"fmt"
	"net/http"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/freshline/backend/internal/infrastructure/logger"
	"github.com/freshline/backend/internal/interfaces/http/dto"
	"github.com/freshline/backend/internal/interfaces/http/handler"
	"github.com/freshline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the endpoint groups served by the API
type Handlers struct {
	Health            *handler.HealthHandler
	Auth              *handler.AuthHandler
	Accounts          *handler.AccountHandler
	Stores            *handler.StoreHandler
	Vendors           *handler.VendorHandler
	Adjustments       *handler.AdjustmentHandler
	Products          *handler.ProductHandler
	Inventory         *handler.InventoryHandler
	Orders            *handler.OrderHandler
	PreOrders         *handler.PreOrderHandler
	PurchaseOrders    *handler.PurchaseOrderHandler
	Invoices          *handler.InvoiceHandler
	CreditMemos       *handler.CreditMemoHandler
	StorePayments     *handler.StorePaymentHandler
	VendorInvoices    *handler.VendorInvoiceHandler
	VendorCreditMemos *handler.VendorCreditMemoHandler
	VendorPayments    *handler.VendorPaymentHandler
	Disputes          *handler.DisputeHandler
	Issues            *handler.IssueHandler
	WorkOrders        *handler.WorkOrderHandler
	Reports           *handler.ReportHandler
}

// Config carries what the engine's middleware chain needs
type Config struct {
	ServiceName   string
	HTTP          config.HTTPConfig
	Production    bool
	Logger        *zap.Logger
	Meter         metric.Meter
	Authenticator middleware.Authenticator
}

// New builds the engine: global middleware, GET /health, the public auth
// routes and the authenticated API under /api/v1
func New(cfg Config, h Handlers) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	metrics, err := middleware.HTTPMetrics(cfg.Meter)
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	engine.Use(
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(func(c *gin.Context) {
			middleware.Abort(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
		}),
		middleware.Tracing(cfg.ServiceName),
		metrics,
		middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.Secure(cfg.Production),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)))
	}

	engine.NoRoute(func(c *gin.Context) {
		middleware.Abort(c, http.StatusNotFound, dto.ErrCodeNotFound, "Route not found")
	})
	engine.GET("/health", h.Health.Health)

	api := NewRouter(engine).Setup()
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	protected := api.Group("", middleware.JWTAuth(cfg.Authenticator), middleware.SpanEnricher())
	for _, group := range domainGroups(h) {
		group.RegisterRoutes(protected)
	}
	return engine, nil
}

func domainGroups(h Handlers) []*DomainGroup {
	admin := middleware.RequireRole(identity.RoleAdmin)
	adminOrStore := middleware.RequireRole(identity.RoleAdmin, identity.RoleStore)
	adminOrVendor := middleware.RequireRole(identity.RoleAdmin, identity.RoleVendor)
	ownStore := middleware.RequireStoreParam("id")

	auth := NewDomainGroup("auth", "/auth").
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		PUT("/me/password", h.Auth.ChangePassword)

	accounts := NewDomainGroup("accounts", "/accounts").Use(admin).
		POST("", h.Accounts.Create).
		GET("", h.Accounts.List).
		POST("/:id/activate", h.Accounts.Activate).
		POST("/:id/deactivate", h.Accounts.Deactivate)

	stores := NewDomainGroup("stores", "/stores").
		POST("", admin, h.Stores.Create).
		GET("", admin, h.Stores.List).
		GET("/:id", adminOrStore, ownStore, h.Stores.GetByID).
		PUT("/:id", admin, h.Stores.Update).
		GET("/:id/balance-history", adminOrStore, ownStore, h.Stores.BalanceHistory).
		GET("/:id/matrix", adminOrStore, ownStore, h.PreOrders.GetMatrix).
		PUT("/:id/matrix", adminOrStore, ownStore, h.PreOrders.UpsertMatrix).
		GET("/:id/inventory-counts", adminOrStore, ownStore, h.Inventory.ListCounts).
		GET("/:id/inventory-counts/:week", adminOrStore, ownStore, h.Inventory.GetCount)

	storeInventory := NewDomainGroup("store-inventory", "/store-inventory").Use(adminOrStore).
		POST("", h.Inventory.SubmitCount)

	vendors := NewDomainGroup("vendors", "/vendors").
		POST("", admin, h.Vendors.Create).
		GET("", admin, h.Vendors.List).
		GET("/:id", adminOrVendor, h.Vendors.GetByID).
		PUT("/:id", admin, h.Vendors.Update)

	adjustments := NewDomainGroup("adjustments", "/adjustments").Use(admin).
		POST("", h.Adjustments.Request).
		GET("", h.Adjustments.List).
		GET("/:id", h.Adjustments.GetByID).
		POST("/:id/approve", h.Adjustments.Approve).
		POST("/:id/reject", h.Adjustments.Reject)

	products := NewDomainGroup("products", "/products").
		GET("", h.Products.List).
		GET("/:id", h.Products.GetByID).
		POST("", admin, h.Products.Create).
		PUT("/:id", admin, h.Products.Update).
		POST("/:id/activate", admin, h.Products.Activate).
		POST("/:id/deactivate", admin, h.Products.Deactivate)

	inventory := NewDomainGroup("inventory", "/inventory").Use(admin).
		GET("/stock", h.Inventory.Stock).
		GET("/stock/weeks/:week", h.Inventory.StockAsOf).
		GET("/ledger/:product_id", h.Inventory.Ledger).
		POST("/adjustments", h.Inventory.Adjust).
		POST("/quality-losses", h.Inventory.QualityLoss)

	orders := NewDomainGroup("orders", "/orders").Use(adminOrStore).
		POST("", h.Orders.Create).
		GET("", h.Orders.List).
		GET("/:id", h.Orders.GetByID).
		POST("/:id/cancel", h.Orders.Cancel)

	preorders := NewDomainGroup("preorders", "/preorders").Use(adminOrStore).
		POST("", admin, h.PreOrders.Generate).
		GET("", h.PreOrders.List).
		GET("/:id", h.PreOrders.GetByID).
		PUT("/:id/lines", h.PreOrders.UpdateLine).
		POST("/:id/confirm", h.PreOrders.Confirm).
		POST("/:id/promote", admin, h.PreOrders.Promote)

	preorderExpirations := NewDomainGroup("preorder-expirations", "/preorder-expirations").Use(admin).
		POST("", h.PreOrders.Expire)

	purchaseOrders := NewDomainGroup("purchase-orders", "/purchase-orders").Use(adminOrVendor).
		POST("", admin, h.PurchaseOrders.Create).
		GET("", h.PurchaseOrders.List).
		GET("/:id", h.PurchaseOrders.GetByID).
		PUT("/:id", admin, h.PurchaseOrders.Update).
		POST("/:id/submit", admin, h.PurchaseOrders.Submit).
		POST("/:id/cancel", admin, h.PurchaseOrders.Cancel).
		POST("/:id/receive", admin, h.PurchaseOrders.Receive)

	invoices := NewDomainGroup("invoices", "/invoices").Use(adminOrStore).
		POST("", admin, h.Invoices.Generate).
		GET("", h.Invoices.List).
		GET("/:id", h.Invoices.GetByID).
		GET("/:id/pdf", h.Invoices.PDF).
		POST("/:id/void", admin, h.Invoices.Void)

	creditMemos := NewDomainGroup("credit-memos", "/credit-memos").Use(adminOrStore).
		POST("", admin, h.CreditMemos.Create).
		GET("", h.CreditMemos.List).
		GET("/:id", h.CreditMemos.GetByID).
		POST("/:id/apply", admin, h.CreditMemos.Apply).
		POST("/:id/void", admin, h.CreditMemos.Void)

	storePayments := NewDomainGroup("store-payments", "/store-payments").Use(adminOrStore).
		POST("", admin, h.StorePayments.Record).
		GET("", h.StorePayments.List).
		GET("/:id", h.StorePayments.GetByID)

	vendorInvoices := NewDomainGroup("vendor-invoices", "/vendor-invoices").Use(adminOrVendor).
		POST("", h.VendorInvoices.Submit).
		GET("", h.VendorInvoices.List).
		GET("/:id", h.VendorInvoices.GetByID).
		POST("/:id/rematch", admin, h.VendorInvoices.Rematch).
		POST("/:id/approve", admin, h.VendorInvoices.Approve).
		POST("/:id/void", admin, h.VendorInvoices.Void)

	vendorCreditMemos := NewDomainGroup("vendor-credit-memos", "/vendor-credit-memos").Use(adminOrVendor).
		POST("", admin, h.VendorCreditMemos.Create).
		GET("", h.VendorCreditMemos.List).
		GET("/:id", h.VendorCreditMemos.GetByID).
		POST("/:id/apply", admin, h.VendorCreditMemos.Apply).
		POST("/:id/void", admin, h.VendorCreditMemos.Void)

	vendorPayments := NewDomainGroup("vendor-payments", "/vendor-payments").Use(adminOrVendor).
		POST("", admin, h.VendorPayments.Pay).
		GET("", h.VendorPayments.List).
		GET("/:id", h.VendorPayments.GetByID).
		POST("/:id/void", admin, h.VendorPayments.Void)

	disputes := NewDomainGroup("disputes", "/disputes").Use(adminOrVendor).
		POST("", admin, h.Disputes.Open).
		GET("", h.Disputes.List).
		GET("/:id", h.Disputes.GetByID).
		POST("/:id/notes", h.Disputes.AddNote).
		POST("/:id/resolve", admin, h.Disputes.Resolve).
		POST("/:id/withdraw", admin, h.Disputes.Withdraw)

	issues := NewDomainGroup("quality-issues", "/quality-issues").Use(adminOrStore).
		POST("", h.Issues.Report).
		GET("", h.Issues.List).
		GET("/:id", h.Issues.GetByID).
		POST("/:id/photos", h.Issues.PhotoUpload).
		POST("/:id/approve", admin, h.Issues.Approve).
		POST("/:id/reject", admin, h.Issues.Reject)

	workOrders := NewDomainGroup("work-orders", "/work-orders").Use(admin).
		POST("", h.WorkOrders.Generate).
		GET("", h.WorkOrders.List).
		GET("/:id", h.WorkOrders.GetByID).
		POST("/:id/release", h.WorkOrders.Release).
		POST("/:id/cancel", h.WorkOrders.Cancel).
		POST("/:id/picks", h.WorkOrders.RecordPick).
		POST("/:id/complete", h.WorkOrders.Complete)

	reports := NewDomainGroup("reports", "/reports").Use(admin).
		GET("/ar-aging", h.Reports.ARAging).
		GET("/ap-aging", h.Reports.APAging).
		GET("/sales", h.Reports.SalesSummary).
		GET("/stock", h.Reports.Stock)

	return []*DomainGroup{
		auth, accounts, stores, storeInventory, vendors, adjustments, products,
		inventory, orders, preorders, preorderExpirations, purchaseOrders,
		invoices, creditMemos, storePayments,
		vendorInvoices, vendorCreditMemos, vendorPayments, disputes,
		issues, workOrders, reports,
	}
}
