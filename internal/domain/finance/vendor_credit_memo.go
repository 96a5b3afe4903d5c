package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorCreditMemoStatus represents the status of a vendor credit memo
type VendorCreditMemoStatus string

const (
	VendorCreditMemoStatusOpen    VendorCreditMemoStatus = "OPEN"
	VendorCreditMemoStatusApplied VendorCreditMemoStatus = "APPLIED"
	VendorCreditMemoStatusVoid    VendorCreditMemoStatus = "VOID"
)

// IsValid checks if the status is a valid VendorCreditMemoStatus
func (s VendorCreditMemoStatus) IsValid() bool {
	switch s {
	case VendorCreditMemoStatusOpen, VendorCreditMemoStatusApplied, VendorCreditMemoStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of VendorCreditMemoStatus
func (s VendorCreditMemoStatus) String() string {
	return string(s)
}

// VendorCreditMemo is a credit granted by a vendor
type VendorCreditMemo struct {
	shared.BaseAggregateRoot
	MemoNumber      string                 `json:"memo_number"`
	VendorID        uuid.UUID              `json:"vendor_id"`
	VendorInvoiceID *uuid.UUID             `json:"vendor_invoice_id,omitempty"`
	DisputeID       *uuid.UUID             `json:"dispute_id,omitempty"`
	VendorReference string                 `json:"vendor_reference"`
	Amount          decimal.Decimal        `json:"amount"`
	Reason          string                 `json:"reason"`
	Status          VendorCreditMemoStatus `json:"status"`
	AppliedAt       *time.Time             `json:"applied_at,omitempty"`
}

// NewVendorCreditMemo creates an open vendor credit memo
func NewVendorCreditMemo(number string, vendorID uuid.UUID, vendorInvoiceID *uuid.UUID, vendorRef string, amount decimal.Decimal, reason string) (*VendorCreditMemo, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_MEMO_NUMBER", "Memo number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason is required")
	}
	return &VendorCreditMemo{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemoNumber:        number,
		VendorID:          vendorID,
		VendorInvoiceID:   vendorInvoiceID,
		VendorReference:   vendorRef,
		Amount:            amount,
		Reason:            reason,
		Status:            VendorCreditMemoStatusOpen,
	}, nil
}

// Apply reduces the outstanding of inv by the memo amount
func (m *VendorCreditMemo) Apply(inv *VendorInvoice) error {
	if m.Status != VendorCreditMemoStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply credit memo in %s status", m.Status))
	}
	if inv == nil {
		return shared.NewDomainError("INVALID_INVOICE", "Vendor invoice is required")
	}
	if inv.VendorID != m.VendorID {
		return shared.NewDomainError("INVOICE_MISMATCH", "Invoice belongs to another vendor")
	}
	if m.VendorInvoiceID != nil && *m.VendorInvoiceID != inv.ID {
		return shared.NewDomainError("INVOICE_MISMATCH", "Credit memo is linked to another invoice")
	}
	if err := inv.ApplyCredit(m.Amount); err != nil {
		return err
	}
	now := time.Now()
	id := inv.ID
	m.VendorInvoiceID = &id
	m.Status = VendorCreditMemoStatusApplied
	m.AppliedAt = &now
	m.UpdatedAt = now
	return nil
}

// Void cancels an open memo
func (m *VendorCreditMemo) Void() error {
	if m.Status != VendorCreditMemoStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void credit memo in %s status", m.Status))
	}
	m.Status = VendorCreditMemoStatusVoid
	m.Touch()
	return nil
}
