package finance

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditMemoStatus represents the status of a store credit memo
type CreditMemoStatus string

const (
	CreditMemoStatusPending CreditMemoStatus = "PENDING"
	CreditMemoStatusApplied CreditMemoStatus = "APPLIED"
	CreditMemoStatusVoid    CreditMemoStatus = "VOID"
)

// IsValid checks if the status is a valid CreditMemoStatus
func (s CreditMemoStatus) IsValid() bool {
	switch s {
	case CreditMemoStatusPending, CreditMemoStatusApplied, CreditMemoStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of CreditMemoStatus
func (s CreditMemoStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s CreditMemoStatus) CanTransitionTo(target CreditMemoStatus) bool {
	return s == CreditMemoStatusPending &&
		(target == CreditMemoStatusApplied || target == CreditMemoStatusVoid)
}

// CreditReason classifies why a credit was issued
type CreditReason string

const (
	CreditReasonQuality CreditReason = "QUALITY"
	CreditReasonReturn  CreditReason = "RETURN"
	CreditReasonPricing CreditReason = "PRICING"
	CreditReasonOther   CreditReason = "OTHER"
)

// IsValid checks if the reason is a valid CreditReason
func (r CreditReason) IsValid() bool {
	switch r {
	case CreditReasonQuality, CreditReasonReturn, CreditReasonPricing, CreditReasonOther:
		return true
	}
	return false
}

// CreditMemo is a credit issued to a store. Applying it credits the store
// balance and, when linked, reduces the invoice outstanding.
type CreditMemo struct {
	shared.BaseAggregateRoot
	MemoNumber string           `json:"memo_number"`
	StoreID    uuid.UUID        `json:"store_id"`
	InvoiceID  *uuid.UUID       `json:"invoice_id,omitempty"`
	Reason     CreditReason     `json:"reason"`
	SourceID   *uuid.UUID       `json:"source_id,omitempty"`
	Amount     decimal.Decimal  `json:"amount"`
	Notes      string           `json:"notes"`
	Status     CreditMemoStatus `json:"status"`
	CreatedBy  *uuid.UUID       `json:"created_by,omitempty"`
	AppliedAt  *time.Time       `json:"applied_at,omitempty"`
	VoidedAt   *time.Time       `json:"voided_at,omitempty"`
}

// NewCreditMemo creates a pending credit memo
func NewCreditMemo(number string, storeID uuid.UUID, invoiceID *uuid.UUID, reason CreditReason, amount decimal.Decimal, notes string) (*CreditMemo, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_MEMO_NUMBER", "Memo number cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", fmt.Sprintf("Invalid credit reason: %s", reason))
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	m := &CreditMemo{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemoNumber:        number,
		StoreID:           storeID,
		InvoiceID:         invoiceID,
		Reason:            reason,
		Amount:            amount,
		Notes:             notes,
		Status:            CreditMemoStatusPending,
	}
	m.AddDomainEvent(NewCreditMemoCreatedEvent(m))
	return m, nil
}

// SetSource links the memo to the record that caused it
func (m *CreditMemo) SetSource(sourceID uuid.UUID) {
	m.SourceID = &sourceID
}

// Apply marks the memo applied. When the memo is linked to an invoice, inv
// must be that invoice and its outstanding is reduced.
func (m *CreditMemo) Apply(inv *Invoice) error {
	if !m.Status.CanTransitionTo(CreditMemoStatusApplied) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply credit memo in %s status", m.Status))
	}
	if m.InvoiceID != nil {
		if inv == nil || inv.ID != *m.InvoiceID {
			return shared.NewDomainError("INVOICE_MISMATCH", "Credit memo must be applied to its linked invoice")
		}
		if inv.StoreID != m.StoreID {
			return shared.NewDomainError("INVOICE_MISMATCH", "Invoice belongs to another store")
		}
		if err := inv.ApplyCredit(m.Amount); err != nil {
			return err
		}
	}
	now := time.Now()
	m.Status = CreditMemoStatusApplied
	m.AppliedAt = &now
	m.UpdatedAt = now
	m.AddDomainEvent(NewCreditMemoAppliedEvent(m))
	return nil
}

// Void cancels a pending memo
func (m *CreditMemo) Void() error {
	if !m.Status.CanTransitionTo(CreditMemoStatusVoid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void credit memo in %s status", m.Status))
	}
	now := time.Now()
	m.Status = CreditMemoStatusVoid
	m.VoidedAt = &now
	m.UpdatedAt = now
	return nil
}
