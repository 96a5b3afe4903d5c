package handler

import (
	"context"

	tradeapp "github.com/freshline/backend/internal/application/trade"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderService places and cancels store orders
type OrderService interface {
	Create(ctx context.Context, req tradeapp.CreateOrderRequest) (*tradeapp.OrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error)
	List(ctx context.Context, filter tradeapp.OrderListFilter) ([]tradeapp.OrderResponse, int64, error)
	Cancel(ctx context.Context, id uuid.UUID, req tradeapp.CancelOrderRequest) (*tradeapp.OrderResponse, error)
}

// PreOrderService manages order matrices and the weekly preorder cycle
type PreOrderService interface {
	GetMatrix(ctx context.Context, storeID uuid.UUID) (*tradeapp.OrderMatrixResponse, error)
	UpsertMatrix(ctx context.Context, storeID uuid.UUID, req tradeapp.UpsertMatrixRequest) (*tradeapp.OrderMatrixResponse, error)
	Generate(ctx context.Context, week shared.Week) (*tradeapp.GenerateResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*tradeapp.PreOrderResponse, error)
	List(ctx context.Context, filter tradeapp.PreOrderListFilter) ([]tradeapp.PreOrderResponse, int64, error)
	UpdateLine(ctx context.Context, id uuid.UUID, req tradeapp.UpdatePreOrderLineRequest) (*tradeapp.PreOrderResponse, error)
	Confirm(ctx context.Context, id uuid.UUID) (*tradeapp.PreOrderResponse, error)
	Promote(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error)
	Expire(ctx context.Context, week shared.Week) (int, error)
}

// PurchaseOrderService manages purchase orders to vendors
type PurchaseOrderService interface {
	Create(ctx context.Context, req tradeapp.CreatePurchaseOrderRequest) (*tradeapp.PurchaseOrderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req tradeapp.UpdatePurchaseOrderRequest) (*tradeapp.PurchaseOrderResponse, error)
	Submit(ctx context.Context, id uuid.UUID) (*tradeapp.PurchaseOrderResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, req tradeapp.CancelPurchaseOrderRequest) (*tradeapp.PurchaseOrderResponse, error)
	Receive(ctx context.Context, id uuid.UUID, req tradeapp.ReceivePurchaseOrderRequest) (*tradeapp.PurchaseOrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*tradeapp.PurchaseOrderResponse, error)
	List(ctx context.Context, filter tradeapp.PurchaseOrderListFilter) ([]tradeapp.PurchaseOrderResponse, int64, error)
}

// OrderHandler handles store order endpoints
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create godoc
// @Summary      Place an order and reserve its stock
// @Description  Place an order and reserve its stock. Admins and store accounts.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Create order request"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !h.checkStore(c, req.StoreID) {
		return
	}
	req.CreatedBy = h.actorID(c)
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @Summary      Return one order
// @Description  Return one order. Admins and store accounts.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	order, ok := h.owned(c)
	if !ok {
		return
	}
	h.Success(c, order)
}

// List godoc
// @Summary      Return a page of orders, limited to the caller's store for store accounts
// @Description  Return a page of orders, limited to the caller's store for store accounts. Admins and store accounts.
// @Tags         orders
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        week query string false "Week (ISO week, e.g. 2026-W07)"
// @Param        status query string false "Status" Enums(CONFIRMED, PICKING, SHIPPED, INVOICED, CANCELLED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(created_at, order_number, total_amount)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.StoreID, ok = h.queryUUID(c, "store_id"); !ok {
		return
	}
	if !h.scopeStore(c, &filter.StoreID) {
		return
	}
	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Cancel godoc
// @Summary      Cancel a confirmed order and release its reservation
// @Description  Cancel a confirmed order and release its reservation. Admins and store accounts.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest true "Cancel order request"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, ok := h.owned(c)
	if !ok {
		return
	}
	var req tradeapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cancelled, err := h.orders.Cancel(c.Request.Context(), order.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cancelled)
}

func (h *OrderHandler) owned(c *gin.Context) (*tradeapp.OrderResponse, bool) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return nil, false
	}
	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if !h.checkStore(c, order.StoreID) {
		return nil, false
	}
	return order, true
}

// PreOrderHandler handles order matrix and preorder endpoints
type PreOrderHandler struct {
	BaseHandler
	preorders PreOrderService
}

// NewPreOrderHandler creates a new PreOrderHandler
func NewPreOrderHandler(preorders PreOrderService) *PreOrderHandler {
	return &PreOrderHandler{preorders: preorders}
}

// GetMatrix godoc
// @Summary      Return a store's par levels
// @Description  Return a store's par levels. The route checks store access. Admins and store accounts.
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderMatrixResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/matrix [get]
func (h *PreOrderHandler) GetMatrix(c *gin.Context) {
	storeID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	matrix, err := h.preorders.GetMatrix(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matrix)
}

// UpsertMatrix godoc
// @Summary      Replace a store's par levels
// @Description  Replace a store's par levels. Admins and store accounts.
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        request body tradeapp.UpsertMatrixRequest true "Upsert matrix request"
// @Success      200 {object} dto.Response{data=tradeapp.OrderMatrixResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/matrix [put]
func (h *PreOrderHandler) UpsertMatrix(c *gin.Context) {
	storeID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpsertMatrixRequest
	if !h.bindJSON(c, &req) {
		return
	}
	matrix, err := h.preorders.UpsertMatrix(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matrix)
}

// Generate godoc
// @Summary      Build draft preorders for every store with a matrix
// @Description  Build draft preorders for every store with a matrix. Admin only.
// @Tags         preorders
// @Accept       json
// @Produce      json
// @Param        request body weekRequest true "Week request"
// @Success      200 {object} dto.Response{data=tradeapp.GenerateResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /preorders [post]
func (h *PreOrderHandler) Generate(c *gin.Context) {
	week, ok := h.bindWeek(c)
	if !ok {
		return
	}
	result, err := h.preorders.Generate(c.Request.Context(), week)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Expire godoc
// @Summary      Mark the unconfirmed preorders of a week as expired
// @Description  Mark the unconfirmed preorders of a week as expired. Admin only.
// @Tags         preorder-expirations
// @Accept       json
// @Produce      json
// @Param        request body weekRequest true "Week request"
// @Success      200 {object} dto.Response{data=int}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /preorder-expirations [post]
func (h *PreOrderHandler) Expire(c *gin.Context) {
	week, ok := h.bindWeek(c)
	if !ok {
		return
	}
	n, err := h.preorders.Expire(c.Request.Context(), week)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"week": week.String(), "expired": n})
}

// GetByID godoc
// @Summary      Return one preorder
// @Description  Return one preorder. Admins and store accounts.
// @Tags         preorders
// @Produce      json
// @Param        id path string true "Preorder ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PreOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /preorders/{id} [get]
func (h *PreOrderHandler) GetByID(c *gin.Context) {
	po, ok := h.owned(c)
	if !ok {
		return
	}
	h.Success(c, po)
}

// List godoc
// @Summary      Return a page of preorders
// @Description  Return a page of preorders. Admins and store accounts.
// @Tags         preorders
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        week query string false "Week (ISO week, e.g. 2026-W07)"
// @Param        status query string false "Status" Enums(DRAFT, CONFIRMED, PROMOTED, EXPIRED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.PreOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /preorders [get]
func (h *PreOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PreOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.StoreID, ok = h.queryUUID(c, "store_id"); !ok {
		return
	}
	if !h.scopeStore(c, &filter.StoreID) {
		return
	}
	preorders, total, err := h.preorders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, preorders, total, filter.Page, filter.PageSize)
}

// UpdateLine godoc
// @Summary      Set the quantity of one product on a draft preorder
// @Description  Set the quantity of one product on a draft preorder. Admins and store accounts.
// @Tags         preorders
// @Accept       json
// @Produce      json
// @Param        id path string true "Preorder ID" format(uuid)
// @Param        request body tradeapp.UpdatePreOrderLineRequest true "Update pre order line request"
// @Success      200 {object} dto.Response{data=tradeapp.PreOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /preorders/{id}/lines [put]
func (h *PreOrderHandler) UpdateLine(c *gin.Context) {
	po, ok := h.owned(c)
	if !ok {
		return
	}
	var req tradeapp.UpdatePreOrderLineRequest
	if !h.bindJSON(c, &req) {
		return
	}
	updated, err := h.preorders.UpdateLine(c.Request.Context(), po.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Confirm godoc
// @Summary      Lock a draft preorder for promotion
// @Description  Lock a draft preorder for promotion. Admins and store accounts.
// @Tags         preorders
// @Accept       json
// @Produce      json
// @Param        id path string true "Preorder ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PreOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /preorders/{id}/confirm [post]
func (h *PreOrderHandler) Confirm(c *gin.Context) {
	po, ok := h.owned(c)
	if !ok {
		return
	}
	confirmed, err := h.preorders.Confirm(c.Request.Context(), po.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, confirmed)
}

// Promote godoc
// @Summary      Turn a confirmed preorder into an order
// @Description  Turn a confirmed preorder into an order. Admin only.
// @Tags         preorders
// @Accept       json
// @Produce      json
// @Param        id path string true "Preorder ID" format(uuid)
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /preorders/{id}/promote [post]
func (h *PreOrderHandler) Promote(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.preorders.Promote(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

func (h *PreOrderHandler) owned(c *gin.Context) (*tradeapp.PreOrderResponse, bool) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return nil, false
	}
	po, err := h.preorders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if !h.checkStore(c, po.StoreID) {
		return nil, false
	}
	return po, true
}

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	purchases PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchases PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchases: purchases}
}

// Create godoc
// @Summary      Open a draft purchase order
// @Description  Open a draft purchase order. Admin only.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Create purchase order request"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.actorID(c)
	po, err := h.purchases.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, po)
}

// Update godoc
// @Summary      Replace the lines of a draft purchase order
// @Description  Replace the lines of a draft purchase order. Admin only.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.UpdatePurchaseOrderRequest true "Update purchase order request"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	po, err := h.purchases.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// Submit godoc
// @Summary      Send a draft purchase order to the vendor
// @Description  Send a draft purchase order to the vendor. Admin only.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	po, err := h.purchases.Submit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// Cancel godoc
// @Summary      Cancel a purchase order that has received nothing
// @Description  Cancel a purchase order that has received nothing. Admin only.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.CancelPurchaseOrderRequest true "Cancel purchase order request"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelPurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	po, err := h.purchases.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// Receive godoc
// @Summary      Book delivered quantities into stock
// @Description  Book delivered quantities into stock. Admin only.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.ReceivePurchaseOrderRequest true "Receive purchase order request"
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.ReceivePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	po, err := h.purchases.Receive(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// GetByID godoc
// @Summary      Return one purchase order
// @Description  Return one purchase order. Vendor accounts only see their own. Admins and vendor accounts.
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	po, err := h.purchases.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.checkVendor(c, po.VendorID) {
		return
	}
	h.Success(c, po)
}

// List godoc
// @Summary      Return a page of purchase orders
// @Description  Return a page of purchase orders. Admins and vendor accounts.
// @Tags         purchase-orders
// @Produce      json
// @Param        vendor_id query string false "Vendor ID" format(uuid)
// @Param        status query string false "Status" Enums(DRAFT, SUBMITTED, PARTIALLY_RECEIVED, RECEIVED, CANCELLED)
// @Param        week query string false "Week (ISO week, e.g. 2026-W07)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.VendorID, ok = h.queryUUID(c, "vendor_id"); !ok {
		return
	}
	if !h.scopeVendor(c, &filter.VendorID) {
		return
	}
	pos, total, err := h.purchases.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, pos, total, filter.Page, filter.PageSize)
}

