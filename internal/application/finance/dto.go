package finance

import (
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Invoice DTOs ====================

// InvoiceLineResponse represents a billed line
type InvoiceLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents a store invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	StoreID        uuid.UUID             `json:"store_id"`
	OrderID        uuid.UUID             `json:"order_id"`
	OrderNumber    string                `json:"order_number"`
	Week           string                `json:"week"`
	Lines          []InvoiceLineResponse `json:"lines"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	CreditedAmount decimal.Decimal       `json:"credited_amount"`
	Outstanding    decimal.Decimal       `json:"outstanding"`
	Status         string                `json:"status"`
	IssuedAt       time.Time             `json:"issued_at"`
	DueDate        time.Time             `json:"due_date"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	VoidedAt       *time.Time            `json:"voided_at,omitempty"`
	VoidReason     string                `json:"void_reason,omitempty"`
	HasPDF         bool                  `json:"has_pdf"`
	Version        int                   `json:"version"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		}
	}
	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		StoreID:        inv.StoreID,
		OrderID:        inv.OrderID,
		OrderNumber:    inv.OrderNumber,
		Week:           inv.Week.String(),
		Lines:          lines,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		CreditedAmount: inv.CreditedAmount,
		Outstanding:    inv.Outstanding(),
		Status:         string(inv.Status),
		IssuedAt:       inv.IssuedAt,
		DueDate:        inv.DueDate,
		PaidAt:         inv.PaidAt,
		VoidedAt:       inv.VoidedAt,
		VoidReason:     inv.VoidReason,
		HasPDF:         inv.PDFKey != "",
		Version:        inv.Version,
	}
}

// VoidRequest carries the reason for voiding a document
type VoidRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// InvoicePDFResponse points at a rendered invoice
type InvoicePDFResponse struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InvoiceListFilter represents filter options for listing invoices
type InvoiceListFilter struct {
	StoreID  *uuid.UUID `form:"-"` // query: store_id
	Status   string     `form:"status" binding:"omitempty,oneof=OPEN PARTIALLY_PAID PAID VOID"`
	Week     string     `form:"week" binding:"omitempty,iso_week"`
	Overdue  bool       `form:"overdue"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=issued_at due_date invoice_number total_amount"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f InvoiceListFilter) toDomain(now time.Time) shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	if f.StoreID != nil {
		filter = filter.With("store_id", *f.StoreID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	if f.Week != "" {
		filter = filter.With("week", f.Week)
	}
	if f.Overdue {
		filter = filter.With("overdue_as_of", now)
	}
	return filter
}

// ==================== Credit Memo DTOs ====================

// CreateCreditMemoRequest represents a request to issue a store credit
type CreateCreditMemoRequest struct {
	StoreID   uuid.UUID       `json:"store_id" binding:"required"`
	InvoiceID *uuid.UUID      `json:"invoice_id"`
	Reason    string          `json:"reason" binding:"required,oneof=QUALITY RETURN PRICING OTHER"`
	Amount    decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Notes     string          `json:"notes" binding:"max=1000"`
	SourceID  *uuid.UUID      `json:"source_id"`
	CreatedBy *uuid.UUID      `json:"-"`
}

// CreditMemoResponse represents a store credit memo in API responses
type CreditMemoResponse struct {
	ID         uuid.UUID       `json:"id"`
	MemoNumber string          `json:"memo_number"`
	StoreID    uuid.UUID       `json:"store_id"`
	InvoiceID  *uuid.UUID      `json:"invoice_id,omitempty"`
	Reason     string          `json:"reason"`
	SourceID   *uuid.UUID      `json:"source_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes,omitempty"`
	Status     string          `json:"status"`
	AppliedAt  *time.Time      `json:"applied_at,omitempty"`
	VoidedAt   *time.Time      `json:"voided_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToCreditMemoResponse converts a domain credit memo to a response
func ToCreditMemoResponse(m *finance.CreditMemo) CreditMemoResponse {
	return CreditMemoResponse{
		ID:         m.ID,
		MemoNumber: m.MemoNumber,
		StoreID:    m.StoreID,
		InvoiceID:  m.InvoiceID,
		Reason:     string(m.Reason),
		SourceID:   m.SourceID,
		Amount:     m.Amount,
		Notes:      m.Notes,
		Status:     string(m.Status),
		AppliedAt:  m.AppliedAt,
		VoidedAt:   m.VoidedAt,
		CreatedAt:  m.CreatedAt,
	}
}

// CreditMemoListFilter represents filter options for listing credit memos
type CreditMemoListFilter struct {
	StoreID  *uuid.UUID `form:"-"` // query: store_id
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING APPLIED VOID"`
	Reason   string     `form:"reason" binding:"omitempty,oneof=QUALITY RETURN PRICING OTHER"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f CreditMemoListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.StoreID != nil {
		filter = filter.With("store_id", *f.StoreID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	if f.Reason != "" {
		filter = filter.With("reason", f.Reason)
	}
	return filter
}

// ==================== Payment DTOs ====================

// AllocationRequest applies part of a payment to one invoice
type AllocationRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"decimal_gt0"`
}

// RecordStorePaymentRequest records money received from a store. When
// Allocations is empty the amount is spread oldest due first.
type RecordStorePaymentRequest struct {
	StoreID        uuid.UUID           `json:"store_id" binding:"required"`
	Amount         decimal.Decimal     `json:"amount" binding:"decimal_gt0"`
	Method         string              `json:"method" binding:"required,oneof=CHECK ACH CASH WIRE"`
	Reference      string              `json:"reference" binding:"max=100"`
	ReceivedAt     *time.Time          `json:"received_at"`
	Allocations    []AllocationRequest `json:"allocations" binding:"omitempty,dive"`
	IdempotencyKey string              `json:"-"`
	RecordedBy     *uuid.UUID          `json:"-"`
}

// AllocationResponse is an applied allocation
type AllocationResponse struct {
	TargetID uuid.UUID       `json:"target_id"`
	Number   string          `json:"number"`
	Amount   decimal.Decimal `json:"amount"`
}

func toAllocationResponses(allocs []finance.Allocation) []AllocationResponse {
	out := make([]AllocationResponse, len(allocs))
	for i, a := range allocs {
		out[i] = AllocationResponse{TargetID: a.TargetID, Number: a.Number, Amount: a.Amount}
	}
	return out
}

func toAllocations(reqs []AllocationRequest) []finance.Allocation {
	out := make([]finance.Allocation, len(reqs))
	for i, r := range reqs {
		out[i] = finance.Allocation{TargetID: r.InvoiceID, Amount: r.Amount.Round(2)}
	}
	return out
}

// StorePaymentResponse represents a store payment in API responses
type StorePaymentResponse struct {
	ID            uuid.UUID            `json:"id"`
	PaymentNumber string               `json:"payment_number"`
	StoreID       uuid.UUID            `json:"store_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        string               `json:"method"`
	Reference     string               `json:"reference,omitempty"`
	ReceivedAt    time.Time            `json:"received_at"`
	Allocations   []AllocationResponse `json:"allocations"`
	Unallocated   decimal.Decimal      `json:"unallocated"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ToStorePaymentResponse converts a domain store payment to a response
func ToStorePaymentResponse(p *finance.StorePayment) StorePaymentResponse {
	return StorePaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		StoreID:       p.StoreID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Reference:     p.Reference,
		ReceivedAt:    p.ReceivedAt,
		Allocations:   toAllocationResponses(p.Allocations),
		Unallocated:   p.Unallocated,
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentListFilter represents filter options for listing payments
type PaymentListFilter struct {
	PartyID  *uuid.UUID `form:"-"` // query: store_id or vendor_id
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f PaymentListFilter) toDomain(partyKey string) shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.PartyID != nil {
		filter = filter.With(partyKey, *f.PartyID)
	}
	return filter
}

// ==================== Vendor Invoice DTOs ====================

// VendorInvoiceLineRequest is one billed line
type VendorInvoiceLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// SubmitVendorInvoiceRequest records a vendor's bill against a purchase order
type SubmitVendorInvoiceRequest struct {
	VendorID        uuid.UUID                  `json:"vendor_id" binding:"required"`
	PurchaseOrderID uuid.UUID                  `json:"purchase_order_id" binding:"required"`
	InvoiceNumber   string                     `json:"invoice_number" binding:"required,max=50"`
	InvoiceDate     *time.Time                 `json:"invoice_date"`
	Lines           []VendorInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ApproveVendorInvoiceRequest overrides a match exception
type ApproveVendorInvoiceRequest struct {
	Note       string    `json:"note" binding:"required,max=1000"`
	ApprovedBy uuid.UUID `json:"-"`
}

// VendorInvoiceLineResponse represents a billed line
type VendorInvoiceLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Amount    decimal.Decimal `json:"amount"`
}

// VendorInvoiceResponse represents a vendor invoice in API responses
type VendorInvoiceResponse struct {
	ID              uuid.UUID                   `json:"id"`
	VendorID        uuid.UUID                   `json:"vendor_id"`
	PurchaseOrderID uuid.UUID                   `json:"purchase_order_id"`
	InvoiceNumber   string                      `json:"invoice_number"`
	InvoiceDate     time.Time                   `json:"invoice_date"`
	DueDate         time.Time                   `json:"due_date"`
	Lines           []VendorInvoiceLineResponse `json:"lines"`
	TotalAmount     decimal.Decimal             `json:"total_amount"`
	PaidAmount      decimal.Decimal             `json:"paid_amount"`
	CreditedAmount  decimal.Decimal             `json:"credited_amount"`
	Outstanding     decimal.Decimal             `json:"outstanding"`
	Status          string                      `json:"status"`
	Match           *finance.MatchResult        `json:"match,omitempty"`
	ApprovedBy      *uuid.UUID                  `json:"approved_by,omitempty"`
	ApprovalNote    string                      `json:"approval_note,omitempty"`
	PaidAt          *time.Time                  `json:"paid_at,omitempty"`
	Version         int                         `json:"version"`
}

// ToVendorInvoiceResponse converts a domain vendor invoice to a response
func ToVendorInvoiceResponse(vi *finance.VendorInvoice) VendorInvoiceResponse {
	lines := make([]VendorInvoiceLineResponse, len(vi.Lines))
	for i, l := range vi.Lines {
		lines[i] = VendorInvoiceLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Amount:    l.Amount,
		}
	}
	return VendorInvoiceResponse{
		ID:              vi.ID,
		VendorID:        vi.VendorID,
		PurchaseOrderID: vi.PurchaseOrderID,
		InvoiceNumber:   vi.InvoiceNumber,
		InvoiceDate:     vi.InvoiceDate,
		DueDate:         vi.DueDate,
		Lines:           lines,
		TotalAmount:     vi.TotalAmount,
		PaidAmount:      vi.PaidAmount,
		CreditedAmount:  vi.CreditedAmount,
		Outstanding:     vi.Outstanding(),
		Status:          string(vi.Status),
		Match:           vi.Match,
		ApprovedBy:      vi.ApprovedBy,
		ApprovalNote:    vi.ApprovalNote,
		PaidAt:          vi.PaidAt,
		Version:         vi.Version,
	}
}

// VendorInvoiceListFilter represents filter options for listing vendor invoices
type VendorInvoiceListFilter struct {
	VendorID        *uuid.UUID `form:"-"` // query: vendor_id
	PurchaseOrderID *uuid.UUID `form:"-"` // query: purchase_order_id
	Status          string     `form:"status" binding:"omitempty,oneof=PENDING_MATCH MATCHED EXCEPTION APPROVED DISPUTED PARTIALLY_PAID PAID VOID"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by" binding:"omitempty,oneof=invoice_date due_date total_amount"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f VendorInvoiceListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	if f.VendorID != nil {
		filter = filter.With("vendor_id", *f.VendorID)
	}
	if f.PurchaseOrderID != nil {
		filter = filter.With("purchase_order_id", *f.PurchaseOrderID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}

// ==================== Vendor Credit Memo DTOs ====================

// CreateVendorCreditMemoRequest records a credit received from a vendor
type CreateVendorCreditMemoRequest struct {
	VendorID        uuid.UUID       `json:"vendor_id" binding:"required"`
	VendorInvoiceID *uuid.UUID      `json:"vendor_invoice_id"`
	VendorReference string          `json:"vendor_reference" binding:"max=50"`
	Amount          decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Reason          string          `json:"reason" binding:"required,max=500"`
}

// ApplyVendorCreditMemoRequest names the invoice a credit is applied to
type ApplyVendorCreditMemoRequest struct {
	VendorInvoiceID uuid.UUID `json:"vendor_invoice_id" binding:"required"`
}

// VendorCreditMemoResponse represents a vendor credit memo in API responses
type VendorCreditMemoResponse struct {
	ID              uuid.UUID       `json:"id"`
	MemoNumber      string          `json:"memo_number"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	VendorInvoiceID *uuid.UUID      `json:"vendor_invoice_id,omitempty"`
	DisputeID       *uuid.UUID      `json:"dispute_id,omitempty"`
	VendorReference string          `json:"vendor_reference,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	AppliedAt       *time.Time      `json:"applied_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToVendorCreditMemoResponse converts a domain vendor credit memo to a response
func ToVendorCreditMemoResponse(m *finance.VendorCreditMemo) VendorCreditMemoResponse {
	return VendorCreditMemoResponse{
		ID:              m.ID,
		MemoNumber:      m.MemoNumber,
		VendorID:        m.VendorID,
		VendorInvoiceID: m.VendorInvoiceID,
		DisputeID:       m.DisputeID,
		VendorReference: m.VendorReference,
		Amount:          m.Amount,
		Reason:          m.Reason,
		Status:          string(m.Status),
		AppliedAt:       m.AppliedAt,
		CreatedAt:       m.CreatedAt,
	}
}

// VendorCreditMemoListFilter represents filter options for listing vendor credit memos
type VendorCreditMemoListFilter struct {
	VendorID *uuid.UUID `form:"-"` // query: vendor_id
	Status   string     `form:"status" binding:"omitempty,oneof=OPEN APPLIED VOID"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f VendorCreditMemoListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.VendorID != nil {
		filter = filter.With("vendor_id", *f.VendorID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}

// ==================== Vendor Payment DTOs ====================

// PayVendorRequest pays one or more vendor invoices
type PayVendorRequest struct {
	VendorID       uuid.UUID           `json:"vendor_id" binding:"required"`
	Amount         decimal.Decimal     `json:"amount" binding:"decimal_gt0"`
	Method         string              `json:"method" binding:"required,oneof=CHECK ACH CASH WIRE"`
	Reference      string              `json:"reference" binding:"max=100"`
	PaidAt         *time.Time          `json:"paid_at"`
	Allocations    []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
	IdempotencyKey string              `json:"-"`
	CreatedBy      *uuid.UUID          `json:"-"`
}

// VendorPaymentResponse represents a vendor payment in API responses
type VendorPaymentResponse struct {
	ID            uuid.UUID            `json:"id"`
	PaymentNumber string               `json:"payment_number"`
	VendorID      uuid.UUID            `json:"vendor_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Method        string               `json:"method"`
	Reference     string               `json:"reference,omitempty"`
	PaidAt        time.Time            `json:"paid_at"`
	Allocations   []AllocationResponse `json:"allocations"`
	Status        string               `json:"status"`
	VoidedAt      *time.Time           `json:"voided_at,omitempty"`
	VoidReason    string               `json:"void_reason,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ToVendorPaymentResponse converts a domain vendor payment to a response
func ToVendorPaymentResponse(p *finance.VendorPayment) VendorPaymentResponse {
	return VendorPaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		VendorID:      p.VendorID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Reference:     p.Reference,
		PaidAt:        p.PaidAt,
		Allocations:   toAllocationResponses(p.Allocations),
		Status:        string(p.Status),
		VoidedAt:      p.VoidedAt,
		VoidReason:    p.VoidReason,
		CreatedAt:     p.CreatedAt,
	}
}

// ==================== Dispute DTOs ====================

// OpenDisputeRequest disputes part of a vendor invoice
type OpenDisputeRequest struct {
	VendorInvoiceID uuid.UUID       `json:"vendor_invoice_id" binding:"required"`
	Reason          string          `json:"reason" binding:"required,oneof=PRICE QUANTITY QUALITY OTHER"`
	Amount          decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Note            string          `json:"note" binding:"max=2000"`
	OpenedBy        uuid.UUID       `json:"-"`
}

// AddDisputeNoteRequest appends to the dispute history
type AddDisputeNoteRequest struct {
	Body     string    `json:"body" binding:"required,max=2000"`
	AuthorID uuid.UUID `json:"-"`
}

// ResolveDisputeRequest closes a dispute
type ResolveDisputeRequest struct {
	Resolution      string          `json:"resolution" binding:"required,oneof=ACCEPTED_AS_BILLED CREDIT_ISSUED"`
	CreditAmount    decimal.Decimal `json:"credit_amount"`
	VendorReference string          `json:"vendor_reference" binding:"max=50"`
}

// DisputeNoteResponse is one entry in the dispute history
type DisputeNoteResponse struct {
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// DisputeResponse represents a vendor dispute in API responses
type DisputeResponse struct {
	ID              uuid.UUID             `json:"id"`
	VendorInvoiceID uuid.UUID             `json:"vendor_invoice_id"`
	VendorID        uuid.UUID             `json:"vendor_id"`
	Reason          string                `json:"reason"`
	DisputedAmount  decimal.Decimal       `json:"disputed_amount"`
	Notes           []DisputeNoteResponse `json:"notes"`
	Status          string                `json:"status"`
	Resolution      string                `json:"resolution,omitempty"`
	CreditAmount    decimal.Decimal       `json:"credit_amount"`
	CreditMemoID    *uuid.UUID            `json:"credit_memo_id,omitempty"`
	OpenedBy        uuid.UUID             `json:"opened_by"`
	ClosedAt        *time.Time            `json:"closed_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ToDisputeResponse converts a domain dispute to a response
func ToDisputeResponse(d *finance.VendorDispute) DisputeResponse {
	notes := make([]DisputeNoteResponse, len(d.Notes))
	for i, n := range d.Notes {
		notes[i] = DisputeNoteResponse{AuthorID: n.AuthorID, Body: n.Body, CreatedAt: n.CreatedAt}
	}
	return DisputeResponse{
		ID:              d.ID,
		VendorInvoiceID: d.VendorInvoiceID,
		VendorID:        d.VendorID,
		Reason:          string(d.Reason),
		DisputedAmount:  d.DisputedAmount,
		Notes:           notes,
		Status:          string(d.Status),
		Resolution:      string(d.Resolution),
		CreditAmount:    d.CreditAmount,
		CreditMemoID:    d.CreditMemoID,
		OpenedBy:        d.OpenedBy,
		ClosedAt:        d.ClosedAt,
		CreatedAt:       d.CreatedAt,
	}
}

// DisputeListFilter represents filter options for listing disputes
type DisputeListFilter struct {
	VendorID        *uuid.UUID `form:"-"` // query: vendor_id
	VendorInvoiceID *uuid.UUID `form:"-"` // query: vendor_invoice_id
	Status          string     `form:"status" binding:"omitempty,oneof=OPEN RESOLVED WITHDRAWN"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f DisputeListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.VendorID != nil {
		filter = filter.With("vendor_id", *f.VendorID)
	}
	if f.VendorInvoiceID != nil {
		filter = filter.With("vendor_invoice_id", *f.VendorInvoiceID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}

func pageFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}
