package inventory

import (
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the kind of stock movement
type EntryType string

const (
	EntryReceipt       EntryType = "RECEIPT"        // Purchase order receiving
	EntryShipment      EntryType = "SHIPMENT"       // Goods leaving on a store order
	EntryAdjustmentIn  EntryType = "ADJUSTMENT_IN"  // Count correction up
	EntryAdjustmentOut EntryType = "ADJUSTMENT_OUT" // Count correction down
	EntryQualityLoss   EntryType = "QUALITY_LOSS"   // Spoiled or damaged in the warehouse
	EntryReturn        EntryType = "RETURN"         // Goods coming back from a store
	EntryReserve       EntryType = "RESERVE"        // Held for a confirmed order
	EntryRelease       EntryType = "RELEASE"        // Reservation given back
)

// IsValid checks if the entry type is known
func (t EntryType) IsValid() bool {
	switch t {
	case EntryReceipt, EntryShipment, EntryAdjustmentIn, EntryAdjustmentOut,
		EntryQualityLoss, EntryReturn, EntryReserve, EntryRelease:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// OnHandSign returns +1, -1 or 0 for the entry's effect on on-hand stock
func (t EntryType) OnHandSign() int {
	switch t {
	case EntryReceipt, EntryAdjustmentIn, EntryReturn:
		return 1
	case EntryShipment, EntryAdjustmentOut, EntryQualityLoss:
		return -1
	}
	return 0
}

// ReservedSign returns +1, -1 or 0 for the entry's effect on reserved stock
func (t EntryType) ReservedSign() int {
	switch t {
	case EntryReserve:
		return 1
	case EntryRelease:
		return -1
	}
	return 0
}

// SourceType identifies the document behind a movement
type SourceType string

const (
	SourcePurchaseOrder SourceType = "PURCHASE_ORDER"
	SourceOrder         SourceType = "ORDER"
	SourceWorkOrder     SourceType = "WORK_ORDER"
	SourceManual        SourceType = "MANUAL"
	SourceQualityIssue  SourceType = "QUALITY_ISSUE"
)

// IsValid checks if the source type is known
func (s SourceType) IsValid() bool {
	switch s {
	case SourcePurchaseOrder, SourceOrder, SourceWorkOrder, SourceManual, SourceQualityIssue:
		return true
	}
	return false
}

// LedgerEntry is an immutable stock movement. Quantity is always positive;
// the entry type carries the direction.
type LedgerEntry struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	EntryType  EntryType       `json:"entry_type"`
	Quantity   decimal.Decimal `json:"quantity"`
	SourceType SourceType      `json:"source_type"`
	SourceID   *uuid.UUID      `json:"source_id,omitempty"`
	Week       shared.Week     `json:"week"`
	OccurredAt time.Time       `json:"occurred_at"`
	Note       string          `json:"note"`
	CreatedBy  *uuid.UUID      `json:"created_by,omitempty"`
}

// NewLedgerEntry creates a movement occurring now
func NewLedgerEntry(productID uuid.UUID, t EntryType, qty decimal.Decimal, src SourceType, sourceID *uuid.UUID, note string) (*LedgerEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !t.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid ledger entry type")
	}
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !src.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invalid ledger source type")
	}
	now := time.Now()
	return &LedgerEntry{
		ID:         uuid.New(),
		ProductID:  productID,
		EntryType:  t,
		Quantity:   qty,
		SourceType: src,
		SourceID:   sourceID,
		Week:       shared.WeekOf(now),
		OccurredAt: now,
		Note:       strings.TrimSpace(note),
	}, nil
}

// SignedOnHand returns the entry's contribution to on-hand stock
func (e *LedgerEntry) SignedOnHand() decimal.Decimal {
	return e.Quantity.Mul(decimal.NewFromInt(int64(e.EntryType.OnHandSign())))
}

// SignedReserved returns the entry's contribution to reserved stock
func (e *LedgerEntry) SignedReserved() decimal.Decimal {
	return e.Quantity.Mul(decimal.NewFromInt(int64(e.EntryType.ReservedSign())))
}

// BuildEntries makes one entry of type t per line. Lines with a zero
// quantity are skipped.
func BuildEntries(t EntryType, src SourceType, sourceID *uuid.UUID, lines []ReservationLine, note string) ([]LedgerEntry, error) {
	entries := make([]LedgerEntry, 0, len(lines))
	for _, l := range lines {
		if l.Quantity.IsZero() {
			continue
		}
		e, err := NewLedgerEntry(l.ProductID, t, l.Quantity, src, sourceID, note)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}
