package finance

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a store invoice
type InvoiceStatus string

const (
	InvoiceStatusOpen          InvoiceStatus = "OPEN"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusVoid          InvoiceStatus = "VOID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if nothing more can be applied
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusOpen:
		return target == InvoiceStatusPartiallyPaid || target == InvoiceStatusPaid || target == InvoiceStatusVoid
	case InvoiceStatusPartiallyPaid:
		return target == InvoiceStatusPartiallyPaid || target == InvoiceStatusPaid
	}
	return false
}

// InvoiceLine is a billed line taken from a shipped order line
type InvoiceLine struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceLineInput describes an invoice line
type InvoiceLineInput struct {
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Invoice is a store receivable raised for one shipped order
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string          `json:"invoice_number"`
	StoreID        uuid.UUID       `json:"store_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	Week           shared.Week     `json:"week"`
	Lines          []InvoiceLine   `json:"lines"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	CreditedAmount decimal.Decimal `json:"credited_amount"`
	Status         InvoiceStatus   `json:"status"`
	IssuedAt       time.Time       `json:"issued_at"`
	DueDate        time.Time       `json:"due_date"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	VoidedAt       *time.Time      `json:"voided_at,omitempty"`
	VoidReason     string          `json:"void_reason"`
	PDFKey         string          `json:"pdf_key"`
}

// InvoiceHeader carries the order being invoiced
type InvoiceHeader struct {
	InvoiceNumber string
	StoreID       uuid.UUID
	OrderID       uuid.UUID
	OrderNumber   string
	Week          shared.Week
	IssuedAt      time.Time
	TermsDays     int
}

// NewInvoice creates an invoice. Lines with zero quantity are skipped. An
// invoice with nothing billed is created already PAID.
func NewInvoice(h InvoiceHeader, lines []InvoiceLineInput) (*Invoice, error) {
	if h.InvoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if h.StoreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if h.OrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if h.TermsDays < 0 {
		return nil, shared.NewDomainError("INVALID_TERMS", "Payment terms cannot be negative")
	}
	issued := h.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     h.InvoiceNumber,
		StoreID:           h.StoreID,
		OrderID:           h.OrderID,
		OrderNumber:       h.OrderNumber,
		Week:              h.Week,
		Lines:             make([]InvoiceLine, 0, len(lines)),
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		CreditedAmount:    decimal.Zero,
		Status:            InvoiceStatusOpen,
		IssuedAt:          issued,
		DueDate:           issued.AddDate(0, 0, h.TermsDays),
	}
	for _, in := range lines {
		if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_LINE", "Invoice quantities and prices cannot be negative")
		}
		if in.Quantity.IsZero() {
			continue
		}
		amount := in.Quantity.Mul(in.UnitPrice).Round(2)
		inv.Lines = append(inv.Lines, InvoiceLine{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			SKU:         in.SKU,
			Unit:        in.Unit,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      amount,
		})
		inv.TotalAmount = inv.TotalAmount.Add(amount)
	}
	if inv.TotalAmount.IsZero() {
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &issued
	}
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return inv, nil
}

// Outstanding returns total minus paid minus credited
func (inv *Invoice) Outstanding() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount).Sub(inv.CreditedAmount)
}

// ApplyPayment applies part of a store payment
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if err := inv.checkApplicable(amount); err != nil {
		return err
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.settle()
	return nil
}

// ApplyCredit applies a credit memo
func (inv *Invoice) ApplyCredit(amount decimal.Decimal) error {
	if err := inv.checkApplicable(amount); err != nil {
		return err
	}
	inv.CreditedAmount = inv.CreditedAmount.Add(amount)
	inv.settle()
	return nil
}

// Void cancels an invoice that has no payments or credits
func (inv *Invoice) Void(reason string) error {
	if !inv.Status.CanTransitionTo(InvoiceStatusVoid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void invoice in %s status", inv.Status))
	}
	if !inv.PaidAmount.IsZero() || !inv.CreditedAmount.IsZero() {
		return shared.NewDomainError("HAS_APPLICATIONS", "Cannot void an invoice with payments or credits")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}
	now := time.Now()
	inv.Status = InvoiceStatusVoid
	inv.VoidedAt = &now
	inv.VoidReason = reason
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))
	return nil
}

// SetPDFKey records where the rendered PDF is stored
func (inv *Invoice) SetPDFKey(key string) {
	inv.PDFKey = key
	inv.Touch()
}

// IsOverdue reports whether the invoice is unpaid past its due date
func (inv *Invoice) IsOverdue(asOf time.Time) bool {
	if inv.Status.IsTerminal() {
		return false
	}
	return DaysPastDue(inv.DueDate, asOf) > 0
}

func (inv *Invoice) checkApplicable(amount decimal.Decimal) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply to invoice in %s status", inv.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if amount.GreaterThan(inv.Outstanding()) {
		return shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Amount %s exceeds outstanding %s on %s", amount.StringFixed(2), inv.Outstanding().StringFixed(2), inv.InvoiceNumber))
	}
	return nil
}

func (inv *Invoice) settle() {
	now := time.Now()
	if inv.Outstanding().IsZero() {
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.UpdatedAt = now
}
