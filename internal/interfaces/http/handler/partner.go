package handler

import (
	"context"

	partnerapp "github.com/freshline/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StoreService manages the customer stores and their balances
type StoreService interface {
	Create(ctx context.Context, req partnerapp.CreateStoreRequest) (*partnerapp.StoreResponse, error)
	Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdateStoreRequest) (*partnerapp.StoreResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.StoreResponse, error)
	List(ctx context.Context, filter partnerapp.StoreListFilter) ([]partnerapp.StoreResponse, int64, error)
	GetBalanceHistory(ctx context.Context, storeID uuid.UUID, filter partnerapp.BalanceHistoryFilter) ([]partnerapp.BalanceEntryResponse, int64, error)
}

// VendorService manages suppliers
type VendorService interface {
	Create(ctx context.Context, req partnerapp.CreateVendorRequest) (*partnerapp.VendorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdateVendorRequest) (*partnerapp.VendorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.VendorResponse, error)
	List(ctx context.Context, filter partnerapp.VendorListFilter) ([]partnerapp.VendorResponse, int64, error)
}

// AdjustmentService runs the request and review flow of balance adjustments
type AdjustmentService interface {
	Request(ctx context.Context, req partnerapp.RequestAdjustmentRequest) (*partnerapp.AdjustmentResponse, error)
	Approve(ctx context.Context, id uuid.UUID, req partnerapp.ReviewAdjustmentRequest) (*partnerapp.AdjustmentResponse, error)
	Reject(ctx context.Context, id uuid.UUID, req partnerapp.ReviewAdjustmentRequest) (*partnerapp.AdjustmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.AdjustmentResponse, error)
	List(ctx context.Context, filter partnerapp.AdjustmentListFilter) ([]partnerapp.AdjustmentResponse, int64, error)
}

// StoreHandler handles store endpoints
type StoreHandler struct {
	BaseHandler
	stores StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(stores StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// Create godoc
// @Summary      Register a store
// @Description  Register a store. Admin only.
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateStoreRequest true "Create store request"
// @Success      201 {object} dto.Response{data=partnerapp.StoreResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	var req partnerapp.CreateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}
	store, err := h.stores.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, store)
}

// Update godoc
// @Summary      Change store details
// @Description  Change store details. Admin only.
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        request body partnerapp.UpdateStoreRequest true "Update store request"
// @Success      200 {object} dto.Response{data=partnerapp.StoreResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateStoreRequest
	if !h.bindJSON(c, &req) {
		return
	}
	store, err := h.stores.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// GetByID godoc
// @Summary      Return one store
// @Description  Return one store. The route checks store access. Admins and store accounts.
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.StoreResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id} [get]
func (h *StoreHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	store, err := h.stores.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// List godoc
// @Summary      Return a page of stores
// @Description  Return a page of stores. Admin only.
// @Tags         stores
// @Produce      json
// @Param        search query string false "Search keyword"
// @Param        active query bool false "Active"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(code, name, balance, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]partnerapp.StoreResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	var filter partnerapp.StoreListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	stores, total, err := h.stores.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, stores, total, filter.Page, filter.PageSize)
}

// BalanceHistory godoc
// @Summary      Page through the entries behind a store's balance
// @Description  Page through the entries behind a store's balance. Admins and store accounts.
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID" format(uuid)
// @Param        entry_type query string false "Entry type" Enums(INVOICE, INVOICE_VOID, PAYMENT, CREDIT_MEMO, ADJUSTMENT_DEBIT, ADJUSTMENT_CREDIT)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]partnerapp.BalanceEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stores/{id}/balance-history [get]
func (h *StoreHandler) BalanceHistory(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var filter partnerapp.BalanceHistoryFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	entries, total, err := h.stores.GetBalanceHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// VendorHandler handles vendor endpoints
type VendorHandler struct {
	BaseHandler
	vendors VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendors VendorService) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

// Create godoc
// @Summary      Register a vendor
// @Description  Register a vendor. Admin only.
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateVendorRequest true "Create vendor request"
// @Success      201 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	var req partnerapp.CreateVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}
	vendor, err := h.vendors.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, vendor)
}

// Update godoc
// @Summary      Change vendor details
// @Description  Change vendor details. Admin only.
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body partnerapp.UpdateVendorRequest true "Update vendor request"
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}
	vendor, err := h.vendors.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// GetByID godoc
// @Summary      Return one vendor
// @Description  Return one vendor. Vendor accounts only see themselves. Admins and vendor accounts.
// @Tags         vendors
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if !h.checkVendor(c, id) {
		return
	}
	vendor, err := h.vendors.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// List godoc
// @Summary      Return a page of vendors
// @Description  Return a page of vendors. Admin only.
// @Tags         vendors
// @Produce      json
// @Param        search query string false "Search keyword"
// @Param        active query bool false "Active"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]partnerapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	var filter partnerapp.VendorListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	vendors, total, err := h.vendors.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, vendors, total, filter.Page, filter.PageSize)
}

// AdjustmentHandler handles manual balance adjustments
type AdjustmentHandler struct {
	BaseHandler
	adjustments AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustments AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustments: adjustments}
}

// Request godoc
// @Summary      File a pending adjustment
// @Description  File a pending adjustment. Admin only.
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.RequestAdjustmentRequest true "Request adjustment request"
// @Success      201 {object} dto.Response{data=partnerapp.AdjustmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /adjustments [post]
func (h *AdjustmentHandler) Request(c *gin.Context) {
	var req partnerapp.RequestAdjustmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.RequestedBy = h.actorID(c)
	adj, err := h.adjustments.Request(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adj)
}

// Approve godoc
// @Summary      Apply a pending adjustment to the store balance
// @Description  Apply a pending adjustment to the store balance. Admin only.
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        id path string true "Adjustment ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.AdjustmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *gin.Context) {
	h.review(c, h.adjustments.Approve)
}

// Reject godoc
// @Summary      Close a pending adjustment without touching the balance
// @Description  Close a pending adjustment without touching the balance. Admin only.
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        id path string true "Adjustment ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.AdjustmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /adjustments/{id}/reject [post]
func (h *AdjustmentHandler) Reject(c *gin.Context) {
	h.review(c, h.adjustments.Reject)
}

func (h *AdjustmentHandler) review(c *gin.Context, fn func(context.Context, uuid.UUID, partnerapp.ReviewAdjustmentRequest) (*partnerapp.AdjustmentResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.ReviewAdjustmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ReviewedBy = h.actorID(c)
	adj, err := fn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adj)
}

// GetByID godoc
// @Summary      Return one adjustment
// @Description  Return one adjustment. Admin only.
// @Tags         adjustments
// @Produce      json
// @Param        id path string true "Adjustment ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.AdjustmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	adj, err := h.adjustments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adj)
}

// List godoc
// @Summary      Return a page of adjustments
// @Description  Return a page of adjustments. Admin only.
// @Tags         adjustments
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        status query string false "Status" Enums(PENDING, APPROVED, REJECTED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]partnerapp.AdjustmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /adjustments [get]
func (h *AdjustmentHandler) List(c *gin.Context) {
	var filter partnerapp.AdjustmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.StoreID, ok = h.queryUUID(c, "store_id"); !ok {
		return
	}
	adjustments, total, err := h.adjustments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, adjustments, total, filter.Page, filter.PageSize)
}
