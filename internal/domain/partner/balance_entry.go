package partner

import (
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceEntryType represents why a store balance moved
type BalanceEntryType string

const (
	BalanceEntryInvoice          BalanceEntryType = "INVOICE"
	BalanceEntryInvoiceVoid      BalanceEntryType = "INVOICE_VOID"
	BalanceEntryPayment          BalanceEntryType = "PAYMENT"
	BalanceEntryCreditMemo       BalanceEntryType = "CREDIT_MEMO"
	BalanceEntryAdjustmentDebit  BalanceEntryType = "ADJUSTMENT_DEBIT"
	BalanceEntryAdjustmentCredit BalanceEntryType = "ADJUSTMENT_CREDIT"
)

// IsValid checks if the entry type is known
func (t BalanceEntryType) IsValid() bool {
	switch t {
	case BalanceEntryInvoice, BalanceEntryInvoiceVoid, BalanceEntryPayment,
		BalanceEntryCreditMemo, BalanceEntryAdjustmentDebit, BalanceEntryAdjustmentCredit:
		return true
	}
	return false
}

// IsDebit returns true if the entry type increases what the store owes
func (t BalanceEntryType) IsDebit() bool {
	return t == BalanceEntryInvoice || t == BalanceEntryAdjustmentDebit
}

// BalanceEntry is an immutable record of a store balance change.
// Amount is signed: debits are positive, credits negative.
type BalanceEntry struct {
	ID            uuid.UUID        `json:"id"`
	StoreID       uuid.UUID        `json:"store_id"`
	EntryType     BalanceEntryType `json:"entry_type"`
	Amount        decimal.Decimal  `json:"amount"`
	BalanceBefore decimal.Decimal  `json:"balance_before"`
	BalanceAfter  decimal.Decimal  `json:"balance_after"`
	SourceType    string           `json:"source_type"`
	SourceID      *uuid.UUID       `json:"source_id,omitempty"`
	Memo          string           `json:"memo"`
	CreatedAt     time.Time        `json:"created_at"`
}

// BalanceSource identifies the document that caused a balance change
type BalanceSource struct {
	Type string
	ID   uuid.UUID
	Memo string
}

func newBalanceEntry(storeID uuid.UUID, t BalanceEntryType, signed, before decimal.Decimal, src BalanceSource) (*BalanceEntry, error) {
	if !t.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid balance entry type")
	}
	e := &BalanceEntry{
		ID:            uuid.New(),
		StoreID:       storeID,
		EntryType:     t,
		Amount:        signed,
		BalanceBefore: before,
		BalanceAfter:  before.Add(signed),
		SourceType:    src.Type,
		Memo:          src.Memo,
		CreatedAt:     time.Now(),
	}
	if src.ID != uuid.Nil {
		id := src.ID
		e.SourceID = &id
	}
	return e, nil
}
