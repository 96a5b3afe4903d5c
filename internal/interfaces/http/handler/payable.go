package handler

import (
	"context"

	financeapp "github.com/freshline/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VendorInvoiceService receives vendor bills and matches them against receipts
type VendorInvoiceService interface {
	Submit(ctx context.Context, req financeapp.SubmitVendorInvoiceRequest) (*financeapp.VendorInvoiceResponse, error)
	Rematch(ctx context.Context, id uuid.UUID) (*financeapp.VendorInvoiceResponse, error)
	Approve(ctx context.Context, id uuid.UUID, req financeapp.ApproveVendorInvoiceRequest) (*financeapp.VendorInvoiceResponse, error)
	Void(ctx context.Context, id uuid.UUID) (*financeapp.VendorInvoiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.VendorInvoiceResponse, error)
	List(ctx context.Context, filter financeapp.VendorInvoiceListFilter) ([]financeapp.VendorInvoiceResponse, int64, error)
}

// VendorCreditMemoService records credits vendors grant
type VendorCreditMemoService interface {
	Create(ctx context.Context, req financeapp.CreateVendorCreditMemoRequest) (*financeapp.VendorCreditMemoResponse, error)
	Apply(ctx context.Context, id uuid.UUID, req financeapp.ApplyVendorCreditMemoRequest) (*financeapp.VendorCreditMemoResponse, error)
	Void(ctx context.Context, id uuid.UUID) (*financeapp.VendorCreditMemoResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.VendorCreditMemoResponse, error)
	List(ctx context.Context, filter financeapp.VendorCreditMemoListFilter) ([]financeapp.VendorCreditMemoResponse, int64, error)
}

// VendorPaymentService pays vendor invoices
type VendorPaymentService interface {
	Pay(ctx context.Context, req financeapp.PayVendorRequest) (*financeapp.VendorPaymentResponse, error)
	Void(ctx context.Context, id uuid.UUID, req financeapp.VoidRequest) (*financeapp.VendorPaymentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.VendorPaymentResponse, error)
	List(ctx context.Context, filter financeapp.PaymentListFilter) ([]financeapp.VendorPaymentResponse, int64, error)
}

// DisputeService tracks disagreements over vendor invoices
type DisputeService interface {
	Open(ctx context.Context, req financeapp.OpenDisputeRequest) (*financeapp.DisputeResponse, error)
	AddNote(ctx context.Context, id uuid.UUID, req financeapp.AddDisputeNoteRequest) (*financeapp.DisputeResponse, error)
	Resolve(ctx context.Context, id uuid.UUID, req financeapp.ResolveDisputeRequest) (*financeapp.DisputeResponse, error)
	Withdraw(ctx context.Context, id uuid.UUID) (*financeapp.DisputeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.DisputeResponse, error)
	List(ctx context.Context, filter financeapp.DisputeListFilter) ([]financeapp.DisputeResponse, int64, error)
}

// VendorInvoiceHandler handles vendor invoice endpoints
type VendorInvoiceHandler struct {
	BaseHandler
	invoices VendorInvoiceService
}

// NewVendorInvoiceHandler creates a new VendorInvoiceHandler
func NewVendorInvoiceHandler(invoices VendorInvoiceService) *VendorInvoiceHandler {
	return &VendorInvoiceHandler{invoices: invoices}
}

// Submit godoc
// @Summary      Record a vendor bill and run the three-way match
// @Description  Record a vendor bill and run the three-way match. Vendor accounts may only bill as themselves. Admins and vendor accounts.
// @Tags         vendor-invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.SubmitVendorInvoiceRequest true "Submit vendor invoice request"
// @Success      201 {object} dto.Response{data=financeapp.VendorInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-invoices [post]
func (h *VendorInvoiceHandler) Submit(c *gin.Context) {
	var req financeapp.SubmitVendorInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !h.checkVendor(c, req.VendorID) {
		return
	}
	invoice, err := h.invoices.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Rematch godoc
// @Summary      Rerun the match after receipts changed
// @Description  Rerun the match after receipts changed. Admin only.
// @Tags         vendor-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.VendorInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-invoices/{id}/rematch [post]
func (h *VendorInvoiceHandler) Rematch(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.Rematch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Approve godoc
// @Summary      Override a match exception
// @Description  Override a match exception. Admin only.
// @Tags         vendor-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor invoice ID" format(uuid)
// @Param        request body financeapp.ApproveVendorInvoiceRequest true "Approve vendor invoice request"
// @Success      200 {object} dto.Response{data=financeapp.VendorInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-invoices/{id}/approve [post]
func (h *VendorInvoiceHandler) Approve(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.ApproveVendorInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if by := h.actorID(c); by != nil {
		req.ApprovedBy = *by
	}
	invoice, err := h.invoices.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Void godoc
// @Summary      Cancel an invoice that was never approved
// @Description  Cancel an invoice that was never approved. Admin only.
// @Tags         vendor-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.VendorInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-invoices/{id}/void [post]
func (h *VendorInvoiceHandler) Void(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.Void(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetByID godoc
// @Summary      Return one vendor invoice
// @Description  Return one vendor invoice. Admins and vendor accounts.
// @Tags         vendor-invoices
// @Produce      json
// @Param        id path string true "Vendor invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.VendorInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-invoices/{id} [get]
func (h *VendorInvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.checkVendor(c, invoice.VendorID) {
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @Summary      Return a page of vendor invoices
// @Description  Return a page of vendor invoices. Admins and vendor accounts.
// @Tags         vendor-invoices
// @Produce      json
// @Param        vendor_id query string false "Vendor ID" format(uuid)
// @Param        purchase_order_id query string false "Purchase order ID" format(uuid)
// @Param        status query string false "Status" Enums(PENDING_MATCH, MATCHED, EXCEPTION, APPROVED, DISPUTED, PARTIALLY_PAID, PAID, VOID)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(invoice_date, due_date, total_amount)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]financeapp.VendorInvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-invoices [get]
func (h *VendorInvoiceHandler) List(c *gin.Context) {
	var filter financeapp.VendorInvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.VendorID, ok = h.queryUUID(c, "vendor_id"); !ok {
		return
	}
	if filter.PurchaseOrderID, ok = h.queryUUID(c, "purchase_order_id"); !ok {
		return
	}
	if !h.scopeVendor(c, &filter.VendorID) {
		return
	}
	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// VendorCreditMemoHandler handles vendor credit memo endpoints
type VendorCreditMemoHandler struct {
	BaseHandler
	memos VendorCreditMemoService
}

// NewVendorCreditMemoHandler creates a new VendorCreditMemoHandler
func NewVendorCreditMemoHandler(memos VendorCreditMemoService) *VendorCreditMemoHandler {
	return &VendorCreditMemoHandler{memos: memos}
}

// Create godoc
// @Summary      Record a vendor credit
// @Description  Record a vendor credit. Admin only.
// @Tags         vendor-credit-memos
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateVendorCreditMemoRequest true "Create vendor credit memo request"
// @Success      201 {object} dto.Response{data=financeapp.VendorCreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-credit-memos [post]
func (h *VendorCreditMemoHandler) Create(c *gin.Context) {
	var req financeapp.CreateVendorCreditMemoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	memo, err := h.memos.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, memo)
}

// Apply godoc
// @Summary      Offset the credit against a vendor invoice
// @Description  Offset the credit against a vendor invoice. Admin only.
// @Tags         vendor-credit-memos
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor credit memo ID" format(uuid)
// @Param        request body financeapp.ApplyVendorCreditMemoRequest true "Apply vendor credit memo request"
// @Success      200 {object} dto.Response{data=financeapp.VendorCreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-credit-memos/{id}/apply [post]
func (h *VendorCreditMemoHandler) Apply(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.ApplyVendorCreditMemoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	memo, err := h.memos.Apply(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, memo)
}

// Void godoc
// @Summary      Cancel an open vendor credit
// @Description  Cancel an open vendor credit. Admin only.
// @Tags         vendor-credit-memos
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor credit memo ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.VendorCreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-credit-memos/{id}/void [post]
func (h *VendorCreditMemoHandler) Void(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	memo, err := h.memos.Void(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, memo)
}

// GetByID godoc
// @Summary      Return one vendor credit memo
// @Description  Return one vendor credit memo. Admins and vendor accounts.
// @Tags         vendor-credit-memos
// @Produce      json
// @Param        id path string true "Vendor credit memo ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.VendorCreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-credit-memos/{id} [get]
func (h *VendorCreditMemoHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	memo, err := h.memos.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.checkVendor(c, memo.VendorID) {
		return
	}
	h.Success(c, memo)
}

// List godoc
// @Summary      Return a page of vendor credit memos
// @Description  Return a page of vendor credit memos. Admins and vendor accounts.
// @Tags         vendor-credit-memos
// @Produce      json
// @Param        vendor_id query string false "Vendor ID" format(uuid)
// @Param        status query string false "Status" Enums(OPEN, APPLIED, VOID)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.VendorCreditMemoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-credit-memos [get]
func (h *VendorCreditMemoHandler) List(c *gin.Context) {
	var filter financeapp.VendorCreditMemoListFilter
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
	memos, total, err := h.memos.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, memos, total, filter.Page, filter.PageSize)
}

// VendorPaymentHandler handles outgoing vendor payment endpoints
type VendorPaymentHandler struct {
	BaseHandler
	payments VendorPaymentService
}

// NewVendorPaymentHandler creates a new VendorPaymentHandler
func NewVendorPaymentHandler(payments VendorPaymentService) *VendorPaymentHandler {
	return &VendorPaymentHandler{payments: payments}
}

// Pay godoc
// @Summary      Record a payment allocated across vendor invoices
// @Description  Record a payment allocated across vendor invoices. A repeated Idempotency-Key returns the first result. Admin only.
// @Tags         vendor-payments
// @Accept       json
// @Produce      json
// @Param        request body financeapp.PayVendorRequest true "Pay vendor request"
// @Param        Idempotency-Key header string false "Client retry key"
// @Success      201 {object} dto.Response{data=financeapp.VendorPaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-payments [post]
func (h *VendorPaymentHandler) Pay(c *gin.Context) {
	var req financeapp.PayVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	req.CreatedBy = h.actorID(c)
	payment, err := h.payments.Pay(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Void godoc
// @Summary      Reverse a payment and reopen its invoices
// @Description  Reverse a payment and reopen its invoices. Admin only.
// @Tags         vendor-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor payment ID" format(uuid)
// @Param        request body financeapp.VoidRequest true "Void request"
// @Success      200 {object} dto.Response{data=financeapp.VendorPaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-payments/{id}/void [post]
func (h *VendorPaymentHandler) Void(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.VoidRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payment, err := h.payments.Void(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// GetByID godoc
// @Summary      Return one vendor payment
// @Description  Return one vendor payment. Admins and vendor accounts.
// @Tags         vendor-payments
// @Produce      json
// @Param        id path string true "Vendor payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.VendorPaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-payments/{id} [get]
func (h *VendorPaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	payment, err := h.payments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.checkVendor(c, payment.VendorID) {
		return
	}
	h.Success(c, payment)
}

// List godoc
// @Summary      Return a page of vendor payments
// @Description  Return a page of vendor payments. vendor_id filters by vendor. Admins and vendor accounts.
// @Tags         vendor-payments
// @Produce      json
// @Param        store_id query string false "Store ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.VendorPaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor-payments [get]
func (h *VendorPaymentHandler) List(c *gin.Context) {
	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.PartyID, ok = h.queryUUID(c, "vendor_id"); !ok {
		return
	}
	if !h.scopeVendor(c, &filter.PartyID) {
		return
	}
	payments, total, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// DisputeHandler handles vendor dispute endpoints
type DisputeHandler struct {
	BaseHandler
	disputes DisputeService
}

// NewDisputeHandler creates a new DisputeHandler
func NewDisputeHandler(disputes DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

// Open godoc
// @Summary      Dispute part of a vendor invoice
// @Description  Dispute part of a vendor invoice. Admin only.
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Param        request body financeapp.OpenDisputeRequest true "Open dispute request"
// @Success      201 {object} dto.Response{data=financeapp.DisputeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /disputes [post]
func (h *DisputeHandler) Open(c *gin.Context) {
	var req financeapp.OpenDisputeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if by := h.actorID(c); by != nil {
		req.OpenedBy = *by
	}
	dispute, err := h.disputes.Open(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dispute)
}

// AddNote godoc
// @Summary      Append to the dispute thread
// @Description  Append to the dispute thread. The vendor of the invoice may reply. Admins and vendor accounts.
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Param        id path string true "Dispute ID" format(uuid)
// @Param        request body financeapp.AddDisputeNoteRequest true "Add dispute note request"
// @Success      200 {object} dto.Response{data=financeapp.DisputeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /disputes/{id}/notes [post]
func (h *DisputeHandler) AddNote(c *gin.Context) {
	dispute, ok := h.owned(c)
	if !ok {
		return
	}
	var req financeapp.AddDisputeNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if by := h.actorID(c); by != nil {
		req.AuthorID = *by
	}
	updated, err := h.disputes.AddNote(c.Request.Context(), dispute.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Resolve godoc
// @Summary      Close a dispute, issuing a vendor credit when agreed
// @Description  Close a dispute, issuing a vendor credit when agreed. Admin only.
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Param        id path string true "Dispute ID" format(uuid)
// @Param        request body financeapp.ResolveDisputeRequest true "Resolve dispute request"
// @Success      200 {object} dto.Response{data=financeapp.DisputeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /disputes/{id}/resolve [post]
func (h *DisputeHandler) Resolve(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.ResolveDisputeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	dispute, err := h.disputes.Resolve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dispute)
}

// Withdraw godoc
// @Summary      Drop a dispute and restore the invoice
// @Description  Drop a dispute and restore the invoice. Admin only.
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Param        id path string true "Dispute ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.DisputeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /disputes/{id}/withdraw [post]
func (h *DisputeHandler) Withdraw(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	dispute, err := h.disputes.Withdraw(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dispute)
}

// GetByID godoc
// @Summary      Return one dispute with its notes
// @Description  Return one dispute with its notes. Admins and vendor accounts.
// @Tags         disputes
// @Produce      json
// @Param        id path string true "Dispute ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.DisputeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /disputes/{id} [get]
func (h *DisputeHandler) GetByID(c *gin.Context) {
	dispute, ok := h.owned(c)
	if !ok {
		return
	}
	h.Success(c, dispute)
}

// List godoc
// @Summary      Return a page of disputes
// @Description  Return a page of disputes. Admins and vendor accounts.
// @Tags         disputes
// @Produce      json
// @Param        vendor_id query string false "Vendor ID" format(uuid)
// @Param        vendor_invoice_id query string false "Vendor invoice ID" format(uuid)
// @Param        status query string false "Status" Enums(OPEN, RESOLVED, WITHDRAWN)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.DisputeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /disputes [get]
func (h *DisputeHandler) List(c *gin.Context) {
	var filter financeapp.DisputeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.VendorID, ok = h.queryUUID(c, "vendor_id"); !ok {
		return
	}
	if filter.VendorInvoiceID, ok = h.queryUUID(c, "vendor_invoice_id"); !ok {
		return
	}
	if !h.scopeVendor(c, &filter.VendorID) {
		return
	}
	disputes, total, err := h.disputes.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, disputes, total, filter.Page, filter.PageSize)
}

func (h *DisputeHandler) owned(c *gin.Context) (*financeapp.DisputeResponse, bool) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return nil, false
	}
	dispute, err := h.disputes.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if !h.checkVendor(c, dispute.VendorID) {
		return nil, false
	}
	return dispute, true
}
