package finance

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorPaymentStatus represents the status of a vendor payment
type VendorPaymentStatus string

const (
	VendorPaymentStatusPosted VendorPaymentStatus = "POSTED"
	VendorPaymentStatusVoided VendorPaymentStatus = "VOIDED"
)

// VendorPayment is money paid to a vendor. Its allocations always sum to
// exactly its amount.
type VendorPayment struct {
	shared.BaseAggregateRoot
	PaymentNumber string              `json:"payment_number"`
	VendorID      uuid.UUID           `json:"vendor_id"`
	Amount        decimal.Decimal     `json:"amount"`
	Method        PaymentMethod       `json:"method"`
	Reference     string              `json:"reference"`
	PaidAt        time.Time           `json:"paid_at"`
	Allocations   []Allocation        `json:"allocations"`
	Status        VendorPaymentStatus `json:"status"`
	VoidedAt      *time.Time          `json:"voided_at,omitempty"`
	VoidReason    string              `json:"void_reason"`
	CreatedBy     *uuid.UUID          `json:"created_by,omitempty"`
}

// NewVendorPayment validates allocations against the invoices and applies them.
func NewVendorPayment(number string, vendorID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string, paidAt time.Time, allocs []Allocation, invoices map[uuid.UUID]*VendorInvoice) (*VendorPayment, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Invalid payment method: %s", method))
	}
	if len(allocs) == 0 {
		return nil, shared.NewDomainError("NO_ALLOCATIONS", "Vendor payment must be allocated to invoices")
	}
	if !SumAllocations(allocs).Equal(amount) {
		return nil, shared.NewDomainError("ALLOCATION_MISMATCH",
			fmt.Sprintf("Allocations total %s but payment is %s", SumAllocations(allocs).StringFixed(2), amount.StringFixed(2)))
	}

	seen := make(map[uuid.UUID]bool, len(allocs))
	for _, a := range allocs {
		if seen[a.TargetID] {
			return nil, shared.NewDomainError("DUPLICATE_ALLOCATION", "Invoice allocated more than once")
		}
		seen[a.TargetID] = true
		inv, ok := invoices[a.TargetID]
		if !ok {
			return nil, shared.NewDomainError("INVOICE_NOT_FOUND", fmt.Sprintf("Vendor invoice %s not found", a.TargetID))
		}
		if inv.VendorID != vendorID {
			return nil, shared.NewDomainError("INVOICE_MISMATCH", fmt.Sprintf("Invoice %s belongs to another vendor", inv.InvoiceNumber))
		}
		if !inv.Status.IsPayable() {
			return nil, shared.NewDomainError("NOT_PAYABLE", fmt.Sprintf("Invoice %s in %s status cannot be paid", inv.InvoiceNumber, inv.Status))
		}
		if !a.Amount.IsPositive() || a.Amount.GreaterThan(inv.Outstanding()) {
			return nil, shared.NewDomainError("EXCEEDS_OUTSTANDING", fmt.Sprintf("Allocation to %s exceeds outstanding", inv.InvoiceNumber))
		}
	}

	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	p := &VendorPayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     number,
		VendorID:          vendorID,
		Amount:            amount,
		Method:            method,
		Reference:         reference,
		PaidAt:            paidAt,
		Allocations:       make([]Allocation, 0, len(allocs)),
		Status:            VendorPaymentStatusPosted,
	}
	for _, a := range allocs {
		inv := invoices[a.TargetID]
		if err := inv.ApplyPayment(a.Amount); err != nil {
			return nil, err
		}
		a.Number = inv.InvoiceNumber
		p.Allocations = append(p.Allocations, a)
	}
	p.AddDomainEvent(NewVendorPaymentPostedEvent(p))
	return p, nil
}

// Void reverses every allocation on the given invoices
func (p *VendorPayment) Void(reason string, invoices map[uuid.UUID]*VendorInvoice) error {
	if p.Status != VendorPaymentStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Payment is already voided")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}
	for _, a := range p.Allocations {
		if _, ok := invoices[a.TargetID]; !ok {
			return shared.NewDomainError("INVOICE_NOT_FOUND", fmt.Sprintf("Vendor invoice %s not found", a.TargetID))
		}
	}
	for _, a := range p.Allocations {
		if err := invoices[a.TargetID].ReversePayment(a.Amount); err != nil {
			return err
		}
	}
	now := time.Now()
	p.Status = VendorPaymentStatusVoided
	p.VoidedAt = &now
	p.VoidReason = reason
	p.UpdatedAt = now
	return nil
}

// InvoiceIDs returns the invoices this payment touches
func (p *VendorPayment) InvoiceIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.Allocations))
	for i, a := range p.Allocations {
		ids[i] = a.TargetID
	}
	return ids
}
