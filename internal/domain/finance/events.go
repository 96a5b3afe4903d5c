package finance

import (
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeInvoice       = "Invoice"
	AggregateTypeCreditMemo    = "CreditMemo"
	AggregateTypeStorePayment  = "StorePayment"
	AggregateTypeVendorInvoice = "VendorInvoice"
	AggregateTypeVendorPayment = "VendorPayment"
	AggregateTypeVendorDispute = "VendorDispute"

	EventTypeInvoiceIssued         = "InvoiceIssued"
	EventTypeInvoicePaid           = "InvoicePaid"
	EventTypeInvoiceVoided         = "InvoiceVoided"
	EventTypeCreditMemoCreated     = "CreditMemoCreated"
	EventTypeCreditMemoApplied     = "CreditMemoApplied"
	EventTypeStorePaymentRecorded  = "StorePaymentRecorded"
	EventTypeVendorInvoiceMatched  = "VendorInvoiceMatched"
	EventTypeVendorPaymentPosted   = "VendorPaymentPosted"
	EventTypeVendorDisputeOpened   = "VendorDisputeOpened"
	EventTypeVendorDisputeResolved = "VendorDisputeResolved"
)

// InvoiceIssuedEvent is raised when a store invoice is generated
type InvoiceIssuedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceIssuedEvent creates an InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceIssued, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		StoreID:         inv.StoreID,
		OrderID:         inv.OrderID,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoicePaidEvent is raised when an invoice outstanding reaches zero
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	StoreID       uuid.UUID `json:"store_id"`
}

// NewInvoicePaidEvent creates an InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		StoreID:         inv.StoreID,
	}
}

// InvoiceVoidedEvent is raised when an invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Reason        string          `json:"reason"`
}

// NewInvoiceVoidedEvent creates an InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		StoreID:         inv.StoreID,
		TotalAmount:     inv.TotalAmount,
		Reason:          inv.VoidReason,
	}
}

// CreditMemoCreatedEvent is raised when a store credit is issued
type CreditMemoCreatedEvent struct {
	shared.BaseDomainEvent
	MemoNumber string          `json:"memo_number"`
	StoreID    uuid.UUID       `json:"store_id"`
	Reason     CreditReason    `json:"reason"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewCreditMemoCreatedEvent creates a CreditMemoCreatedEvent
func NewCreditMemoCreatedEvent(m *CreditMemo) *CreditMemoCreatedEvent {
	return &CreditMemoCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditMemoCreated, AggregateTypeCreditMemo, m.ID),
		MemoNumber:      m.MemoNumber,
		StoreID:         m.StoreID,
		Reason:          m.Reason,
		Amount:          m.Amount,
	}
}

// CreditMemoAppliedEvent is raised when a store credit is applied
type CreditMemoAppliedEvent struct {
	shared.BaseDomainEvent
	MemoNumber string          `json:"memo_number"`
	StoreID    uuid.UUID       `json:"store_id"`
	InvoiceID  *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewCreditMemoAppliedEvent creates a CreditMemoAppliedEvent
func NewCreditMemoAppliedEvent(m *CreditMemo) *CreditMemoAppliedEvent {
	return &CreditMemoAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditMemoApplied, AggregateTypeCreditMemo, m.ID),
		MemoNumber:      m.MemoNumber,
		StoreID:         m.StoreID,
		InvoiceID:       m.InvoiceID,
		Amount:          m.Amount,
	}
}

// StorePaymentRecordedEvent is raised when a store payment is recorded
type StorePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	Amount        decimal.Decimal `json:"amount"`
	Unallocated   decimal.Decimal `json:"unallocated"`
}

// NewStorePaymentRecordedEvent creates a StorePaymentRecordedEvent
func NewStorePaymentRecordedEvent(p *StorePayment) *StorePaymentRecordedEvent {
	return &StorePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStorePaymentRecorded, AggregateTypeStorePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		StoreID:         p.StoreID,
		Amount:          p.Amount,
		Unallocated:     p.Unallocated,
	}
}

// VendorInvoiceMatchedEvent is raised after every three-way match run
type VendorInvoiceMatchedEvent struct {
	shared.BaseDomainEvent
	VendorID      uuid.UUID           `json:"vendor_id"`
	InvoiceNumber string              `json:"invoice_number"`
	Status        VendorInvoiceStatus `json:"status"`
}

// NewVendorInvoiceMatchedEvent creates a VendorInvoiceMatchedEvent
func NewVendorInvoiceMatchedEvent(vi *VendorInvoice) *VendorInvoiceMatchedEvent {
	return &VendorInvoiceMatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorInvoiceMatched, AggregateTypeVendorInvoice, vi.ID),
		VendorID:        vi.VendorID,
		InvoiceNumber:   vi.InvoiceNumber,
		Status:          vi.Status,
	}
}

// VendorPaymentPostedEvent is raised when a vendor payment is posted
type VendorPaymentPostedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewVendorPaymentPostedEvent creates a VendorPaymentPostedEvent
func NewVendorPaymentPostedEvent(p *VendorPayment) *VendorPaymentPostedEvent {
	return &VendorPaymentPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorPaymentPosted, AggregateTypeVendorPayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		VendorID:        p.VendorID,
		Amount:          p.Amount,
	}
}

// VendorDisputeOpenedEvent is raised when an invoice is disputed
type VendorDisputeOpenedEvent struct {
	shared.BaseDomainEvent
	VendorInvoiceID uuid.UUID       `json:"vendor_invoice_id"`
	Reason          DisputeReason   `json:"reason"`
	Amount          decimal.Decimal `json:"amount"`
}

// NewVendorDisputeOpenedEvent creates a VendorDisputeOpenedEvent
func NewVendorDisputeOpenedEvent(d *VendorDispute) *VendorDisputeOpenedEvent {
	return &VendorDisputeOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorDisputeOpened, AggregateTypeVendorDispute, d.ID),
		VendorInvoiceID: d.VendorInvoiceID,
		Reason:          d.Reason,
		Amount:          d.DisputedAmount,
	}
}

// VendorDisputeResolvedEvent is raised when a dispute is resolved
type VendorDisputeResolvedEvent struct {
	shared.BaseDomainEvent
	VendorInvoiceID uuid.UUID         `json:"vendor_invoice_id"`
	Resolution      DisputeResolution `json:"resolution"`
	CreditAmount    decimal.Decimal   `json:"credit_amount"`
}

// NewVendorDisputeResolvedEvent creates a VendorDisputeResolvedEvent
func NewVendorDisputeResolvedEvent(d *VendorDispute) *VendorDisputeResolvedEvent {
	return &VendorDisputeResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorDisputeResolved, AggregateTypeVendorDispute, d.ID),
		VendorInvoiceID: d.VendorInvoiceID,
		Resolution:      d.Resolution,
		CreditAmount:    d.CreditAmount,
	}
}
