package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/infrastructure/auth"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/freshline/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(
		NewDomainGroup("ping", "/ping").GET("", func(c *gin.Context) { c.String(http.StatusOK, "pong") }),
		NewDomainGroup("echo", "/echo").POST("/:word", func(c *gin.Context) { c.String(http.StatusOK, c.Param("word")) }),
	)
	assert.Len(t, r.registrars, 2)
	api := r.Setup()
	assert.Equal(t, "/api/v1", api.BasePath())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/echo/kale", nil))
	assert.Equal(t, "kale", w.Body.String())
}

func TestDomainGroup_Middleware(t *testing.T) {
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { order = append(order, name) }
	}

	dg := NewDomainGroup("orders", "/orders").Use(mark("group"))
	dg.GET("/:id", mark("route"), func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusNoContent)
	})
	dg.Group("lines", "/lines").Use(mark("sub")).DELETE("/:line", func(c *gin.Context) {
		order = append(order, "sub-handler")
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, "orders", dg.Name())
	assert.Equal(t, "/orders", dg.Prefix())

	engine := gin.New()
	dg.RegisterRoutes(engine.Group(""))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"group", "route", "handler"}, order)

	order = nil
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/orders/lines/2", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"group", "sub", "sub-handler"}, order)
}

type staticAuthenticator struct {
	claims *auth.Claims
}

func (a staticAuthenticator) Authenticate(_ context.Context, _ string) (*auth.Claims, error) {
	if a.claims == nil {
		return nil, errors.New("no claims")
	}
	return a.claims, nil
}

func testHandlers(checks map[string]handler.HealthCheck) Handlers {
	return Handlers{
		Health:            handler.NewHealthHandler("test", checks),
		Auth:              handler.NewAuthHandler(nil, nil),
		Accounts:          handler.NewAccountHandler(nil),
		Stores:            handler.NewStoreHandler(nil),
		Vendors:           handler.NewVendorHandler(nil),
		Adjustments:       handler.NewAdjustmentHandler(nil),
		Products:          handler.NewProductHandler(nil),
		Inventory:         handler.NewInventoryHandler(nil, nil),
		Orders:            handler.NewOrderHandler(nil),
		PreOrders:         handler.NewPreOrderHandler(nil),
		PurchaseOrders:    handler.NewPurchaseOrderHandler(nil),
		Invoices:          handler.NewInvoiceHandler(nil),
		CreditMemos:       handler.NewCreditMemoHandler(nil),
		StorePayments:     handler.NewStorePaymentHandler(nil),
		VendorInvoices:    handler.NewVendorInvoiceHandler(nil),
		VendorCreditMemos: handler.NewVendorCreditMemoHandler(nil),
		VendorPayments:    handler.NewVendorPaymentHandler(nil),
		Disputes:          handler.NewDisputeHandler(nil),
		Issues:            handler.NewIssueHandler(nil),
		WorkOrders:        handler.NewWorkOrderHandler(nil),
		Reports:           handler.NewReportHandler(nil),
	}
}

func newTestEngine(t *testing.T, claims *auth.Claims, checks map[string]handler.HealthCheck) *gin.Engine {
	t.Helper()
	engine, err := New(Config{
		ServiceName:   "freshline-test",
		HTTP:          config.HTTPConfig{MaxBodySize: 1 << 20},
		Logger:        zap.NewNop(),
		Authenticator: staticAuthenticator{claims: claims},
	}, testHandlers(checks))
	require.NoError(t, err)
	return engine
}

func TestNew_RouteTable(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"GET /api/v1/auth/me",
		"GET /api/v1/stores/:id/matrix",
		"GET /api/v1/stores/:id/inventory-counts/:week",
		"POST /api/v1/store-inventory",
		"GET /api/v1/products/:id",
		"GET /api/v1/inventory/stock/weeks/:week",
		"POST /api/v1/orders",
		"POST /api/v1/preorders",
		"POST /api/v1/preorders/:id/promote",
		"POST /api/v1/preorder-expirations",
		"GET /api/v1/invoices/:id/pdf",
		"POST /api/v1/store-payments",
		"POST /api/v1/vendor-invoices/:id/rematch",
		"POST /api/v1/disputes/:id/notes",
		"POST /api/v1/quality-issues/:id/photos",
		"POST /api/v1/work-orders/:id/picks",
		"GET /api/v1/reports/ar-aging",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestNew_Health(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	engine = newTestEngine(t, nil, map[string]handler.HealthCheck{
		"db": func(context.Context) error { return errors.New("connection refused") },
	})
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestNew_Access(t *testing.T) {
	storeID := uuid.New()
	storeAccount := &auth.Claims{
		UserID:  uuid.NewString(),
		Role:    string(identity.RoleStore),
		StoreID: storeID.String(),
	}

	tests := []struct {
		name   string
		claims *auth.Claims
		method string
		path   string
		bearer bool
		want   int
	}{
		{"unauthenticated", nil, http.MethodGet, "/api/v1/orders", false, http.StatusUnauthorized},
		{"store on admin route", storeAccount, http.MethodGet, "/api/v1/reports/ar-aging", true, http.StatusForbidden},
		{"store on other store", storeAccount, http.MethodGet, "/api/v1/stores/" + uuid.NewString() + "/matrix", true, http.StatusForbidden},
		{"store on vendor route", storeAccount, http.MethodGet, "/api/v1/vendor-invoices", true, http.StatusForbidden},
		{"unknown route", storeAccount, http.MethodGet, "/api/v1/nowhere", true, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, tt.claims, nil)
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.bearer {
				req.Header.Set("Authorization", "Bearer token")
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
