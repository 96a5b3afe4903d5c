package finance

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money changed hands
type PaymentMethod string

const (
	PaymentMethodCheck PaymentMethod = "CHECK"
	PaymentMethodACH   PaymentMethod = "ACH"
	PaymentMethodCash  PaymentMethod = "CASH"
	PaymentMethodWire  PaymentMethod = "WIRE"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCheck, PaymentMethodACH, PaymentMethodCash, PaymentMethodWire:
		return true
	}
	return false
}

// StorePayment is money received from a store. Allocations may cover less
// than the amount; the remainder still credits the store balance.
type StorePayment struct {
	shared.BaseAggregateRoot
	PaymentNumber string          `json:"payment_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Reference     string          `json:"reference"`
	ReceivedAt    time.Time       `json:"received_at"`
	Allocations   []Allocation    `json:"allocations"`
	Unallocated   decimal.Decimal `json:"unallocated"`
	RecordedBy    *uuid.UUID      `json:"recorded_by,omitempty"`
}

// NewStorePayment creates a payment without allocations
func NewStorePayment(number string, storeID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string, receivedAt time.Time) (*StorePayment, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Invalid payment method: %s", method))
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	return &StorePayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     number,
		StoreID:           storeID,
		Amount:            amount,
		Method:            method,
		Reference:         reference,
		ReceivedAt:        receivedAt,
		Allocations:       []Allocation{},
		Unallocated:       amount,
	}, nil
}

// Allocate applies allocations to the given invoices. Every allocation must
// target one of invoices, which must belong to the payment's store.
func (p *StorePayment) Allocate(allocs []Allocation, invoices map[uuid.UUID]*Invoice) error {
	total := SumAllocations(allocs)
	if total.GreaterThan(p.Unallocated) {
		return shared.NewDomainError("OVER_ALLOCATED", "Allocations exceed the payment amount")
	}
	seen := make(map[uuid.UUID]bool, len(allocs))
	for _, a := range allocs {
		if seen[a.TargetID] {
			return shared.NewDomainError("DUPLICATE_ALLOCATION", "Invoice allocated more than once")
		}
		seen[a.TargetID] = true
		inv, ok := invoices[a.TargetID]
		if !ok {
			return shared.NewDomainError("INVOICE_NOT_FOUND", fmt.Sprintf("Invoice %s not found", a.TargetID))
		}
		if inv.StoreID != p.StoreID {
			return shared.NewDomainError("INVOICE_MISMATCH", fmt.Sprintf("Invoice %s belongs to another store", inv.InvoiceNumber))
		}
	}
	for _, a := range allocs {
		inv := invoices[a.TargetID]
		if err := inv.ApplyPayment(a.Amount); err != nil {
			return err
		}
		a.Number = inv.InvoiceNumber
		p.Allocations = append(p.Allocations, a)
	}
	p.Unallocated = p.Unallocated.Sub(total)
	p.AddDomainEvent(NewStorePaymentRecordedEvent(p))
	return nil
}
