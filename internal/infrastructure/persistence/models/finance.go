package models

import (
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the store Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber  string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	StoreID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber    string                `gorm:"type:varchar(50);not null"`
	Week           shared.Week           `gorm:"type:varchar(8);not null;index"`
	Lines          []InvoiceLineModel    `gorm:"foreignKey:InvoiceID;references:ID"`
	TotalAmount    decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaidAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	CreditedAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status         finance.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	IssuedAt       time.Time             `gorm:"not null;index"`
	DueDate        time.Time             `gorm:"not null;index"`
	PaidAt         *time.Time
	VoidedAt       *time.Time
	VoidReason     string `gorm:"type:varchar(500)"`
	PDFKey         string `gorm:"column:pdf_key;type:varchar(300)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		StoreID:           m.StoreID,
		OrderID:           m.OrderID,
		OrderNumber:       m.OrderNumber,
		Week:              m.Week,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		CreditedAmount:    m.CreditedAmount,
		Status:            m.Status,
		IssuedAt:          m.IssuedAt,
		DueDate:           m.DueDate,
		PaidAt:            m.PaidAt,
		VoidedAt:          m.VoidedAt,
		VoidReason:        m.VoidReason,
		PDFKey:            m.PDFKey,
		Lines:             make([]finance.InvoiceLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		inv.Lines[i] = finance.InvoiceLine{
			ID:          l.ID,
			InvoiceID:   l.InvoiceID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		}
	}
	return inv
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber:  inv.InvoiceNumber,
		StoreID:        inv.StoreID,
		OrderID:        inv.OrderID,
		OrderNumber:    inv.OrderNumber,
		Week:           inv.Week,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		CreditedAmount: inv.CreditedAmount,
		Status:         inv.Status,
		IssuedAt:       inv.IssuedAt,
		DueDate:        inv.DueDate,
		PaidAt:         inv.PaidAt,
		VoidedAt:       inv.VoidedAt,
		VoidReason:     inv.VoidReason,
		PDFKey:         inv.PDFKey,
		Lines:          make([]InvoiceLineModel, len(inv.Lines)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, l := range inv.Lines {
		m.Lines[i] = InvoiceLineModel{
			ID:          l.ID,
			InvoiceID:   inv.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		}
	}
	return m
}

// InvoiceLineModel is the persistence model for an invoice line
type InvoiceLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// CreditMemoModel is the persistence model for a store credit memo.
type CreditMemoModel struct {
	AggregateModel
	MemoNumber string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	StoreID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	InvoiceID  *uuid.UUID               `gorm:"type:uuid;index"`
	Reason     finance.CreditReason     `gorm:"type:varchar(20);not null"`
	SourceID   *uuid.UUID               `gorm:"type:uuid"`
	Amount     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Notes      string                   `gorm:"type:text"`
	Status     finance.CreditMemoStatus `gorm:"type:varchar(20);not null;index"`
	CreatedBy  *uuid.UUID               `gorm:"type:uuid"`
	AppliedAt  *time.Time
	VoidedAt   *time.Time
}

// TableName returns the table name for GORM
func (CreditMemoModel) TableName() string {
	return "credit_memos"
}

// ToDomain converts the persistence model to a domain CreditMemo.
func (m *CreditMemoModel) ToDomain() *finance.CreditMemo {
	return &finance.CreditMemo{
		BaseAggregateRoot: m.ToAggregateRoot(),
		MemoNumber:        m.MemoNumber,
		StoreID:           m.StoreID,
		InvoiceID:         m.InvoiceID,
		Reason:            m.Reason,
		SourceID:          m.SourceID,
		Amount:            m.Amount,
		Notes:             m.Notes,
		Status:            m.Status,
		CreatedBy:         m.CreatedBy,
		AppliedAt:         m.AppliedAt,
		VoidedAt:          m.VoidedAt,
	}
}

// CreditMemoModelFromDomain creates a new persistence model from a domain CreditMemo.
func CreditMemoModelFromDomain(c *finance.CreditMemo) *CreditMemoModel {
	m := &CreditMemoModel{
		MemoNumber: c.MemoNumber,
		StoreID:    c.StoreID,
		InvoiceID:  c.InvoiceID,
		Reason:     c.Reason,
		SourceID:   c.SourceID,
		Amount:     c.Amount,
		Notes:      c.Notes,
		Status:     c.Status,
		CreatedBy:  c.CreatedBy,
		AppliedAt:  c.AppliedAt,
		VoidedAt:   c.VoidedAt,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// StorePaymentModel is the persistence model for a payment received from a store.
type StorePaymentModel struct {
	AggregateModel
	PaymentNumber string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	StoreID       uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	Method        finance.PaymentMethod      `gorm:"type:varchar(20);not null"`
	Reference     string                     `gorm:"type:varchar(100)"`
	ReceivedAt    time.Time                  `gorm:"not null;index"`
	Allocations   JSON[[]finance.Allocation] `gorm:"type:jsonb;not null"`
	Unallocated   decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	RecordedBy    *uuid.UUID                 `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StorePaymentModel) TableName() string {
	return "store_payments"
}

// ToDomain converts the persistence model to a domain StorePayment.
func (m *StorePaymentModel) ToDomain() *finance.StorePayment {
	return &finance.StorePayment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PaymentNumber:     m.PaymentNumber,
		StoreID:           m.StoreID,
		Amount:            m.Amount,
		Method:            m.Method,
		Reference:         m.Reference,
		ReceivedAt:        m.ReceivedAt,
		Allocations:       m.Allocations.Data,
		Unallocated:       m.Unallocated,
		RecordedBy:        m.RecordedBy,
	}
}

// StorePaymentModelFromDomain creates a new persistence model from a domain StorePayment.
func StorePaymentModelFromDomain(p *finance.StorePayment) *StorePaymentModel {
	m := &StorePaymentModel{
		PaymentNumber: p.PaymentNumber,
		StoreID:       p.StoreID,
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		ReceivedAt:    p.ReceivedAt,
		Allocations:   NewJSON(p.Allocations),
		Unallocated:   p.Unallocated,
		RecordedBy:    p.RecordedBy,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// VendorInvoiceModel is the persistence model for a bill received from a vendor.
type VendorInvoiceModel struct {
	AggregateModel
	VendorID        uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_vendor_invoice_number,priority:1"`
	PurchaseOrderID uuid.UUID                   `gorm:"type:uuid;not null;index"`
	InvoiceNumber   string                      `gorm:"type:varchar(100);not null;uniqueIndex:idx_vendor_invoice_number,priority:2"`
	InvoiceDate     time.Time                   `gorm:"not null"`
	DueDate         time.Time                   `gorm:"not null;index"`
	Lines           []VendorInvoiceLineModel    `gorm:"foreignKey:VendorInvoiceID;references:ID"`
	TotalAmount     decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	PaidAmount      decimal.Decimal             `gorm:"type:decimal(18,2);not null;default:0"`
	CreditedAmount  decimal.Decimal             `gorm:"type:decimal(18,2);not null;default:0"`
	Status          finance.VendorInvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Match           JSON[*finance.MatchResult]  `gorm:"column:match_result;type:jsonb"`
	ApprovedBy      *uuid.UUID                  `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	ApprovalNote    string `gorm:"type:varchar(500)"`
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (VendorInvoiceModel) TableName() string {
	return "vendor_invoices"
}

// ToDomain converts the persistence model to a domain VendorInvoice.
func (m *VendorInvoiceModel) ToDomain() *finance.VendorInvoice {
	inv := &finance.VendorInvoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		VendorID:          m.VendorID,
		PurchaseOrderID:   m.PurchaseOrderID,
		InvoiceNumber:     m.InvoiceNumber,
		InvoiceDate:       m.InvoiceDate,
		DueDate:           m.DueDate,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		CreditedAmount:    m.CreditedAmount,
		Status:            m.Status,
		Match:             m.Match.Data,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		ApprovalNote:      m.ApprovalNote,
		PaidAt:            m.PaidAt,
		Lines:             make([]finance.VendorInvoiceLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		inv.Lines[i] = finance.VendorInvoiceLine{
			ID:              l.ID,
			VendorInvoiceID: l.VendorInvoiceID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitCost:        l.UnitCost,
			Amount:          l.Amount,
		}
	}
	return inv
}

// VendorInvoiceModelFromDomain creates a new persistence model from a domain VendorInvoice.
func VendorInvoiceModelFromDomain(inv *finance.VendorInvoice) *VendorInvoiceModel {
	m := &VendorInvoiceModel{
		VendorID:        inv.VendorID,
		PurchaseOrderID: inv.PurchaseOrderID,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		CreditedAmount:  inv.CreditedAmount,
		Status:          inv.Status,
		Match:           NewJSON(inv.Match),
		ApprovedBy:      inv.ApprovedBy,
		ApprovedAt:      inv.ApprovedAt,
		ApprovalNote:    inv.ApprovalNote,
		PaidAt:          inv.PaidAt,
		Lines:           make([]VendorInvoiceLineModel, len(inv.Lines)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, l := range inv.Lines {
		m.Lines[i] = VendorInvoiceLineModel{
			ID:              l.ID,
			VendorInvoiceID: inv.ID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitCost:        l.UnitCost,
			Amount:          l.Amount,
		}
	}
	return m
}

// VendorInvoiceLineModel is the persistence model for a vendor invoice line
type VendorInvoiceLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	VendorInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (VendorInvoiceLineModel) TableName() string {
	return "vendor_invoice_lines"
}

// VendorCreditMemoModel is the persistence model for a credit received from a vendor.
type VendorCreditMemoModel struct {
	AggregateModel
	MemoNumber      string                         `gorm:"type:varchar(50);not null;uniqueIndex"`
	VendorID        uuid.UUID                      `gorm:"type:uuid;not null;index"`
	VendorInvoiceID *uuid.UUID                     `gorm:"type:uuid;index"`
	DisputeID       *uuid.UUID                     `gorm:"type:uuid"`
	VendorReference string                         `gorm:"type:varchar(100)"`
	Amount          decimal.Decimal                `gorm:"type:decimal(18,2);not null"`
	Reason          string                         `gorm:"type:varchar(500)"`
	Status          finance.VendorCreditMemoStatus `gorm:"type:varchar(20);not null;index"`
	AppliedAt       *time.Time
}

// TableName returns the table name for GORM
func (VendorCreditMemoModel) TableName() string {
	return "vendor_credit_memos"
}

// ToDomain converts the persistence model to a domain VendorCreditMemo.
func (m *VendorCreditMemoModel) ToDomain() *finance.VendorCreditMemo {
	return &finance.VendorCreditMemo{
		BaseAggregateRoot: m.ToAggregateRoot(),
		MemoNumber:        m.MemoNumber,
		VendorID:          m.VendorID,
		VendorInvoiceID:   m.VendorInvoiceID,
		DisputeID:         m.DisputeID,
		VendorReference:   m.VendorReference,
		Amount:            m.Amount,
		Reason:            m.Reason,
		Status:            m.Status,
		AppliedAt:         m.AppliedAt,
	}
}

// VendorCreditMemoModelFromDomain creates a new persistence model from a domain VendorCreditMemo.
func VendorCreditMemoModelFromDomain(c *finance.VendorCreditMemo) *VendorCreditMemoModel {
	m := &VendorCreditMemoModel{
		MemoNumber:      c.MemoNumber,
		VendorID:        c.VendorID,
		VendorInvoiceID: c.VendorInvoiceID,
		DisputeID:       c.DisputeID,
		VendorReference: c.VendorReference,
		Amount:          c.Amount,
		Reason:          c.Reason,
		Status:          c.Status,
		AppliedAt:       c.AppliedAt,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// VendorPaymentModel is the persistence model for a payment made to a vendor.
type VendorPaymentModel struct {
	AggregateModel
	PaymentNumber string                      `gorm:"type:varchar(50);not null;uniqueIndex"`
	VendorID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Method        finance.PaymentMethod       `gorm:"type:varchar(20);not null"`
	Reference     string                      `gorm:"type:varchar(100)"`
	PaidAt        time.Time                   `gorm:"not null;index"`
	Allocations   JSON[[]finance.Allocation]  `gorm:"type:jsonb;not null"`
	Status        finance.VendorPaymentStatus `gorm:"type:varchar(20);not null;index"`
	VoidedAt      *time.Time
	VoidReason    string     `gorm:"type:varchar(500)"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (VendorPaymentModel) TableName() string {
	return "vendor_payments"
}

// ToDomain converts the persistence model to a domain VendorPayment.
func (m *VendorPaymentModel) ToDomain() *finance.VendorPayment {
	return &finance.VendorPayment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PaymentNumber:     m.PaymentNumber,
		VendorID:          m.VendorID,
		Amount:            m.Amount,
		Method:            m.Method,
		Reference:         m.Reference,
		PaidAt:            m.PaidAt,
		Allocations:       m.Allocations.Data,
		Status:            m.Status,
		VoidedAt:          m.VoidedAt,
		VoidReason:        m.VoidReason,
		CreatedBy:         m.CreatedBy,
	}
}

// VendorPaymentModelFromDomain creates a new persistence model from a domain VendorPayment.
func VendorPaymentModelFromDomain(p *finance.VendorPayment) *VendorPaymentModel {
	m := &VendorPaymentModel{
		PaymentNumber: p.PaymentNumber,
		VendorID:      p.VendorID,
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		PaidAt:        p.PaidAt,
		Allocations:   NewJSON(p.Allocations),
		Status:        p.Status,
		VoidedAt:      p.VoidedAt,
		VoidReason:    p.VoidReason,
		CreatedBy:     p.CreatedBy,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// VendorDisputeModel is the persistence model for a dispute raised on a vendor invoice.
type VendorDisputeModel struct {
	AggregateModel
	VendorInvoiceID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	VendorID        uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Reason          finance.DisputeReason     `gorm:"type:varchar(30);not null"`
	DisputedAmount  decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Notes           []DisputeNoteModel        `gorm:"foreignKey:DisputeID;references:ID"`
	Status          finance.DisputeStatus     `gorm:"type:varchar(20);not null;index"`
	Resolution      finance.DisputeResolution `gorm:"type:varchar(20)"`
	CreditAmount    decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	CreditMemoID    *uuid.UUID                `gorm:"type:uuid"`
	OpenedBy        uuid.UUID                 `gorm:"type:uuid;not null"`
	ClosedAt        *time.Time
}

// TableName returns the table name for GORM
func (VendorDisputeModel) TableName() string {
	return "vendor_disputes"
}

// ToDomain converts the persistence model to a domain VendorDispute.
func (m *VendorDisputeModel) ToDomain() *finance.VendorDispute {
	d := &finance.VendorDispute{
		BaseAggregateRoot: m.ToAggregateRoot(),
		VendorInvoiceID:   m.VendorInvoiceID,
		VendorID:          m.VendorID,
		Reason:            m.Reason,
		DisputedAmount:    m.DisputedAmount,
		Status:            m.Status,
		Resolution:        m.Resolution,
		CreditAmount:      m.CreditAmount,
		CreditMemoID:      m.CreditMemoID,
		OpenedBy:          m.OpenedBy,
		ClosedAt:          m.ClosedAt,
		Notes:             make([]finance.DisputeNote, len(m.Notes)),
	}
	for i, n := range m.Notes {
		d.Notes[i] = finance.DisputeNote{
			ID:        n.ID,
			DisputeID: n.DisputeID,
			AuthorID:  n.AuthorID,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		}
	}
	return d
}

// VendorDisputeModelFromDomain creates a new persistence model from a domain VendorDispute.
func VendorDisputeModelFromDomain(d *finance.VendorDispute) *VendorDisputeModel {
	m := &VendorDisputeModel{
		VendorInvoiceID: d.VendorInvoiceID,
		VendorID:        d.VendorID,
		Reason:          d.Reason,
		DisputedAmount:  d.DisputedAmount,
		Status:          d.Status,
		Resolution:      d.Resolution,
		CreditAmount:    d.CreditAmount,
		CreditMemoID:    d.CreditMemoID,
		OpenedBy:        d.OpenedBy,
		ClosedAt:        d.ClosedAt,
		Notes:           make([]DisputeNoteModel, len(d.Notes)),
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	for i, n := range d.Notes {
		m.Notes[i] = DisputeNoteModel{
			ID:        n.ID,
			DisputeID: d.ID,
			AuthorID:  n.AuthorID,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		}
	}
	return m
}

// DisputeNoteModel is one comment on a dispute
type DisputeNoteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	DisputeID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DisputeNoteModel) TableName() string {
	return "vendor_dispute_notes"
}
