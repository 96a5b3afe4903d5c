package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorInvoiceStatus represents the status of a vendor invoice
type VendorInvoiceStatus string

const (
	VendorInvoiceStatusPendingMatch  VendorInvoiceStatus = "PENDING_MATCH"
	VendorInvoiceStatusMatched       VendorInvoiceStatus = "MATCHED"
	VendorInvoiceStatusException     VendorInvoiceStatus = "EXCEPTION"
	VendorInvoiceStatusApproved      VendorInvoiceStatus = "APPROVED"
	VendorInvoiceStatusDisputed      VendorInvoiceStatus = "DISPUTED"
	VendorInvoiceStatusPartiallyPaid VendorInvoiceStatus = "PARTIALLY_PAID"
	VendorInvoiceStatusPaid          VendorInvoiceStatus = "PAID"
	VendorInvoiceStatusVoid          VendorInvoiceStatus = "VOID"
)

// IsValid checks if the status is a valid VendorInvoiceStatus
func (s VendorInvoiceStatus) IsValid() bool {
	switch s {
	case VendorInvoiceStatusPendingMatch, VendorInvoiceStatusMatched, VendorInvoiceStatusException,
		VendorInvoiceStatusApproved, VendorInvoiceStatusDisputed, VendorInvoiceStatusPartiallyPaid,
		VendorInvoiceStatusPaid, VendorInvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of VendorInvoiceStatus
func (s VendorInvoiceStatus) String() string {
	return string(s)
}

// IsPayable returns true if payments may be applied
func (s VendorInvoiceStatus) IsPayable() bool {
	return s == VendorInvoiceStatusMatched || s == VendorInvoiceStatusApproved || s == VendorInvoiceStatusPartiallyPaid
}

// CanRematch returns true if the match may be rerun
func (s VendorInvoiceStatus) CanRematch() bool {
	return s == VendorInvoiceStatusPendingMatch || s == VendorInvoiceStatusMatched || s == VendorInvoiceStatusException
}

// CanTransitionTo checks if the status can transition to the target status
func (s VendorInvoiceStatus) CanTransitionTo(target VendorInvoiceStatus) bool {
	switch s {
	case VendorInvoiceStatusPendingMatch:
		return target == VendorInvoiceStatusMatched || target == VendorInvoiceStatusException ||
			target == VendorInvoiceStatusVoid
	case VendorInvoiceStatusException:
		return target == VendorInvoiceStatusMatched || target == VendorInvoiceStatusException ||
			target == VendorInvoiceStatusApproved || target == VendorInvoiceStatusVoid
	case VendorInvoiceStatusMatched:
		return target == VendorInvoiceStatusMatched || target == VendorInvoiceStatusException ||
			target == VendorInvoiceStatusDisputed || target == VendorInvoiceStatusPartiallyPaid ||
			target == VendorInvoiceStatusPaid
	case VendorInvoiceStatusApproved:
		return target == VendorInvoiceStatusDisputed || target == VendorInvoiceStatusPartiallyPaid ||
			target == VendorInvoiceStatusPaid
	case VendorInvoiceStatusPartiallyPaid:
		return target == VendorInvoiceStatusDisputed || target == VendorInvoiceStatusPartiallyPaid ||
			target == VendorInvoiceStatusPaid || target == VendorInvoiceStatusApproved
	case VendorInvoiceStatusDisputed:
		return target == VendorInvoiceStatusApproved || target == VendorInvoiceStatusPartiallyPaid ||
			target == VendorInvoiceStatusPaid
	case VendorInvoiceStatusPaid:
		// A voided payment reopens the invoice
		return target == VendorInvoiceStatusPartiallyPaid || target == VendorInvoiceStatusApproved
	}
	return false
}

// VendorInvoiceLine is a billed line on a vendor invoice
type VendorInvoiceLine struct {
	ID              uuid.UUID       `json:"id"`
	VendorInvoiceID uuid.UUID       `json:"vendor_invoice_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Amount          decimal.Decimal `json:"amount"`
}

// VendorInvoiceLineInput describes a billed line
type VendorInvoiceLineInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// VendorInvoice is a payable from a vendor, matched against a purchase order
type VendorInvoice struct {
	shared.BaseAggregateRoot
	VendorID        uuid.UUID           `json:"vendor_id"`
	PurchaseOrderID uuid.UUID           `json:"purchase_order_id"`
	InvoiceNumber   string              `json:"invoice_number"`
	InvoiceDate     time.Time           `json:"invoice_date"`
	DueDate         time.Time           `json:"due_date"`
	Lines           []VendorInvoiceLine `json:"lines"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	PaidAmount      decimal.Decimal     `json:"paid_amount"`
	CreditedAmount  decimal.Decimal     `json:"credited_amount"`
	Status          VendorInvoiceStatus `json:"status"`
	Match           *MatchResult        `json:"match,omitempty"`
	ApprovedBy      *uuid.UUID          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	ApprovalNote    string              `json:"approval_note"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
}

// NewVendorInvoice creates an invoice awaiting its match
func NewVendorInvoice(vendorID, poID uuid.UUID, number string, invoiceDate time.Time, termsDays int, lines []VendorInvoiceLineInput) (*VendorInvoice, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if poID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PURCHASE_ORDER", "Purchase order ID cannot be empty")
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Vendor invoice number cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Vendor invoice must have at least one line")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	vi := &VendorInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		PurchaseOrderID:   poID,
		InvoiceNumber:     number,
		InvoiceDate:       invoiceDate,
		DueDate:           invoiceDate.AddDate(0, 0, termsDays),
		Lines:             make([]VendorInvoiceLine, 0, len(lines)),
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		CreditedAmount:    decimal.Zero,
		Status:            VendorInvoiceStatusPendingMatch,
	}
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, in := range lines {
		if seen[in.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once")
		}
		seen[in.ProductID] = true
		if !in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Billed quantity must be positive")
		}
		if in.UnitCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
		}
		amount := in.Quantity.Mul(in.UnitCost).Round(2)
		vi.Lines = append(vi.Lines, VendorInvoiceLine{
			ID:              uuid.New(),
			VendorInvoiceID: vi.ID,
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			UnitCost:        in.UnitCost,
			Amount:          amount,
		})
		vi.TotalAmount = vi.TotalAmount.Add(amount)
	}
	return vi, nil
}

// Outstanding returns total minus paid minus credited
func (vi *VendorInvoice) Outstanding() decimal.Decimal {
	return vi.TotalAmount.Sub(vi.PaidAmount).Sub(vi.CreditedAmount)
}

// RecordMatch stores a match result and moves to MATCHED or EXCEPTION
func (vi *VendorInvoice) RecordMatch(result MatchResult) error {
	if !vi.Status.CanRematch() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot match invoice in %s status", vi.Status))
	}
	target := VendorInvoiceStatusMatched
	if result.Status == MatchStatusException {
		target = VendorInvoiceStatusException
	}
	vi.Match = &result
	vi.Status = target
	vi.Touch()
	vi.AddDomainEvent(NewVendorInvoiceMatchedEvent(vi))
	return nil
}

// Approve overrides a match exception or closes a dispute
func (vi *VendorInvoice) Approve(approver uuid.UUID, note string) error {
	if vi.Status != VendorInvoiceStatusException {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve invoice in %s status", vi.Status))
	}
	if strings.TrimSpace(note) == "" {
		return shared.NewDomainError("INVALID_NOTE", "An approval note is required to override a match exception")
	}
	now := time.Now()
	vi.Status = VendorInvoiceStatusApproved
	vi.ApprovedBy = &approver
	vi.ApprovedAt = &now
	vi.ApprovalNote = note
	vi.UpdatedAt = now
	return nil
}

// MarkDisputed moves a payable invoice into dispute
func (vi *VendorInvoice) MarkDisputed() error {
	if !vi.Status.CanTransitionTo(VendorInvoiceStatusDisputed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispute invoice in %s status", vi.Status))
	}
	vi.Status = VendorInvoiceStatusDisputed
	vi.Touch()
	return nil
}

// CloseDispute returns a disputed invoice to a payable status
func (vi *VendorInvoice) CloseDispute() error {
	if vi.Status != VendorInvoiceStatusDisputed {
		return shared.NewDomainError("INVALID_STATE", "Invoice is not disputed")
	}
	vi.settle()
	return nil
}

// ApplyPayment applies part of a vendor payment
func (vi *VendorInvoice) ApplyPayment(amount decimal.Decimal) error {
	if !vi.Status.IsPayable() {
		return shared.NewDomainError("NOT_PAYABLE", fmt.Sprintf("Invoice %s in %s status cannot be paid", vi.InvoiceNumber, vi.Status))
	}
	if err := vi.checkAmount(amount); err != nil {
		return err
	}
	vi.PaidAmount = vi.PaidAmount.Add(amount)
	vi.settle()
	return nil
}

// ReversePayment undoes part of a voided vendor payment
func (vi *VendorInvoice) ReversePayment(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(vi.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal exceeds paid amount")
	}
	if vi.Status == VendorInvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is void")
	}
	vi.PaidAmount = vi.PaidAmount.Sub(amount)
	vi.PaidAt = nil
	if vi.Status != VendorInvoiceStatusDisputed {
		vi.settle()
	}
	return nil
}

// ApplyCredit applies a vendor credit memo. Disputed invoices accept
// credits so a dispute can be resolved with one.
func (vi *VendorInvoice) ApplyCredit(amount decimal.Decimal) error {
	if !vi.Status.IsPayable() && vi.Status != VendorInvoiceStatusDisputed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot credit invoice in %s status", vi.Status))
	}
	if err := vi.checkAmount(amount); err != nil {
		return err
	}
	vi.CreditedAmount = vi.CreditedAmount.Add(amount)
	if vi.Status != VendorInvoiceStatusDisputed {
		vi.settle()
	} else {
		vi.Touch()
	}
	return nil
}

// Void cancels an invoice that never became payable
func (vi *VendorInvoice) Void() error {
	if !vi.Status.CanTransitionTo(VendorInvoiceStatusVoid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void invoice in %s status", vi.Status))
	}
	vi.Status = VendorInvoiceStatusVoid
	vi.Touch()
	return nil
}

// ProductIDs returns the product ids billed
func (vi *VendorInvoice) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(vi.Lines))
	for i, l := range vi.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

func (vi *VendorInvoice) checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if amount.GreaterThan(vi.Outstanding()) {
		return shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Amount %s exceeds outstanding %s on %s", amount.StringFixed(2), vi.Outstanding().StringFixed(2), vi.InvoiceNumber))
	}
	return nil
}

// settle picks the payable status implied by the amounts
func (vi *VendorInvoice) settle() {
	now := time.Now()
	switch {
	case vi.Outstanding().IsZero():
		vi.Status = VendorInvoiceStatusPaid
		vi.PaidAt = &now
	case vi.PaidAmount.IsPositive():
		vi.Status = VendorInvoiceStatusPartiallyPaid
	case vi.Status == VendorInvoiceStatusMatched:
	default:
		vi.Status = VendorInvoiceStatusApproved
	}
	vi.UpdatedAt = now
}
