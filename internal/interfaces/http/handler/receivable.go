package handler

import (
	"context"
	"strconv"

	financeapp "github.com/freshline/backend/internal/application/finance"
	"github.com/freshline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client's retry key on payment requests
const IdempotencyKeyHeader = "Idempotency-Key"

// InvoiceService issues and voids store invoices
type InvoiceService interface {
	GenerateForOrder(ctx context.Context, orderID uuid.UUID) (*financeapp.InvoiceResponse, error)
	Void(ctx context.Context, id uuid.UUID, req financeapp.VoidRequest) (*financeapp.InvoiceResponse, error)
	RenderPDF(ctx context.Context, id uuid.UUID, regenerate bool) (*financeapp.InvoicePDFResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.InvoiceResponse, error)
	List(ctx context.Context, filter financeapp.InvoiceListFilter) ([]financeapp.InvoiceResponse, int64, error)
}

// CreditMemoService issues and applies store credit memos
type CreditMemoService interface {
	Create(ctx context.Context, req financeapp.CreateCreditMemoRequest) (*financeapp.CreditMemoResponse, error)
	Apply(ctx context.Context, id uuid.UUID) (*financeapp.CreditMemoResponse, error)
	Void(ctx context.Context, id uuid.UUID) (*financeapp.CreditMemoResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.CreditMemoResponse, error)
	List(ctx context.Context, filter financeapp.CreditMemoListFilter) ([]financeapp.CreditMemoResponse, int64, error)
}

// StorePaymentService records money received from stores
type StorePaymentService interface {
	Record(ctx context.Context, req financeapp.RecordStorePaymentRequest) (*financeapp.StorePaymentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.StorePaymentResponse, error)
	List(ctx context.Context, filter financeapp.PaymentListFilter) ([]financeapp.StorePaymentResponse, int64, error)
}

type generateInvoiceRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// InvoiceHandler handles store invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Generate godoc
// @Summary      Invoice a shipped order
// @Description  Invoice a shipped order. Admin only.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body generateInvoiceRequest true "Generate invoice request"
// @Success      201 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req generateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.GenerateForOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Void godoc
// @Summary      Reverse an unpaid invoice
// @Description  Reverse an unpaid invoice. Admin only.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body financeapp.VoidRequest true "Void request"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.VoidRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.Void(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// PDF godoc
// @Summary      Return a download link for the rendered invoice
// @Description  Return a download link for the rendered invoice. Admins may pass regenerate=true to render it again over the stored copy. Admins and store accounts.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        regenerate query bool false "Render again over the stored copy (admin only)"
// @Success      200 {object} dto.Response{data=financeapp.InvoicePDFResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	invoice, ok := h.owned(c)
	if !ok {
		return
	}
	regenerate, _ := strconv.ParseBool(c.Query("regenerate"))
	if !middleware.GetActor(c).IsAdmin() {
		regenerate = false
	}
	pdf, err := h.invoices.RenderPDF(c.Request.Context(), invoice.ID, regenerate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pdf)
}

// GetByID godoc
// @Summary      Return one invoice
// @Description  Return one invoice. Admins and store accounts.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoice, ok := h.owned(c)
	if !ok {
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @Summary      Return a page of invoices
// @Description  Return a page of invoices. Admins and store accounts.
// @Tags         invoices
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        status query string false "Status" Enums(OPEN, PARTIALLY_PAID, PAID, VOID)
// @Param        week query string false "Week (ISO week, e.g. 2026-W07)"
// @Param        overdue query bool false "Overdue"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(issued_at, due_date, invoice_number, total_amount)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter financeapp.InvoiceListFilter
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
	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

func (h *InvoiceHandler) owned(c *gin.Context) (*financeapp.InvoiceResponse, bool) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return nil, false
	}
	invoice, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if !h.checkStore(c, invoice.StoreID) {
		return nil, false
	}
	return invoice, true
}

// CreditMemoHandler handles store credit memo endpoints
type CreditMemoHandler struct {
	BaseHandler
	memos CreditMemoService
}

// NewCreditMemoHandler creates a new CreditMemoHandler
func NewCreditMemoHandler(memos CreditMemoService) *CreditMemoHandler {
	return &CreditMemoHandler{memos: memos}
}

// Create godoc
// @Summary      Issue a pending credit memo
// @Description  Issue a pending credit memo. Admin only.
// @Tags         credit-memos
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateCreditMemoRequest true "Create credit memo request"
// @Success      201 {object} dto.Response{data=financeapp.CreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /credit-memos [post]
func (h *CreditMemoHandler) Create(c *gin.Context) {
	var req financeapp.CreateCreditMemoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.actorID(c)
	memo, err := h.memos.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, memo)
}

// Apply godoc
// @Summary      Credit the memo to the store balance
// @Description  Credit the memo to the store balance. Admin only.
// @Tags         credit-memos
// @Accept       json
// @Produce      json
// @Param        id path string true "Credit memo ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.CreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /credit-memos/{id}/apply [post]
func (h *CreditMemoHandler) Apply(c *gin.Context) {
	h.transition(c, h.memos.Apply)
}

// Void godoc
// @Summary      Cancel a pending credit memo
// @Description  Cancel a pending credit memo. Admin only.
// @Tags         credit-memos
// @Accept       json
// @Produce      json
// @Param        id path string true "Credit memo ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.CreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /credit-memos/{id}/void [post]
func (h *CreditMemoHandler) Void(c *gin.Context) {
	h.transition(c, h.memos.Void)
}

func (h *CreditMemoHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*financeapp.CreditMemoResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	memo, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, memo)
}

// GetByID godoc
// @Summary      Return one credit memo
// @Description  Return one credit memo. Admins and store accounts.
// @Tags         credit-memos
// @Produce      json
// @Param        id path string true "Credit memo ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.CreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /credit-memos/{id} [get]
func (h *CreditMemoHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	memo, err := h.memos.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.checkStore(c, memo.StoreID) {
		return
	}
	h.Success(c, memo)
}

// List godoc
// @Summary      Return a page of credit memos
// @Description  Return a page of credit memos. Admins and store accounts.
// @Tags         credit-memos
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        status query string false "Status" Enums(PENDING, APPLIED, VOID)
// @Param        reason query string false "Reason" Enums(QUALITY, RETURN, PRICING, OTHER)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.CreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /credit-memos [get]
func (h *CreditMemoHandler) List(c *gin.Context) {
	var filter financeapp.CreditMemoListFilter
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
	memos, total, err := h.memos.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, memos, total, filter.Page, filter.PageSize)
}

// StorePaymentHandler handles incoming store payment endpoints
type StorePaymentHandler struct {
	BaseHandler
	payments StorePaymentService
}

// NewStorePaymentHandler creates a new StorePaymentHandler
func NewStorePaymentHandler(payments StorePaymentService) *StorePaymentHandler {
	return &StorePaymentHandler{payments: payments}
}

// Record godoc
// @Summary      Book a payment and allocate it across open invoices
// @Description  Book a payment and allocate it across open invoices. A repeated Idempotency-Key returns the first result. Admin only.
// @Tags         store-payments
// @Accept       json
// @Produce      json
// @Param        request body financeapp.RecordStorePaymentRequest true "Record store payment request"
// @Param        Idempotency-Key header string false "Client retry key"
// @Success      201 {object} dto.Response{data=financeapp.StorePaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-payments [post]
func (h *StorePaymentHandler) Record(c *gin.Context) {
	var req financeapp.RecordStorePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	req.RecordedBy = h.actorID(c)
	payment, err := h.payments.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetByID godoc
// @Summary      Return one payment
// @Description  Return one payment. Admins and store accounts.
// @Tags         store-payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.StorePaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-payments/{id} [get]
func (h *StorePaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	payment, err := h.payments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.checkStore(c, payment.StoreID) {
		return
	}
	h.Success(c, payment)
}

// List godoc
// @Summary      Return a page of payments
// @Description  Return a page of payments. store_id filters by store. Admins and store accounts.
// @Tags         store-payments
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.StorePaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store-payments [get]
func (h *StorePaymentHandler) List(c *gin.Context) {
	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.PartyID, ok = h.queryUUID(c, "store_id"); !ok {
		return
	}
	if !h.scopeStore(c, &filter.PartyID) {
		return
	}
	payments, total, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}
