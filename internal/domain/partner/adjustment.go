package partner

import (
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentDirection says whether an adjustment raises or lowers the balance
type AdjustmentDirection string

const (
	AdjustmentDebit  AdjustmentDirection = "DEBIT"
	AdjustmentCredit AdjustmentDirection = "CREDIT"
)

// IsValid checks if the direction is known
func (d AdjustmentDirection) IsValid() bool {
	return d == AdjustmentDebit || d == AdjustmentCredit
}

// AdjustmentStatus represents the review state of an adjustment
type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "PENDING"
	AdjustmentStatusApproved AdjustmentStatus = "APPROVED"
	AdjustmentStatusRejected AdjustmentStatus = "REJECTED"
)

// IsValid checks if the status is known
func (s AdjustmentStatus) IsValid() bool {
	switch s {
	case AdjustmentStatusPending, AdjustmentStatusApproved, AdjustmentStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentStatus
func (s AdjustmentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s AdjustmentStatus) CanTransitionTo(target AdjustmentStatus) bool {
	return s == AdjustmentStatusPending &&
		(target == AdjustmentStatusApproved || target == AdjustmentStatusRejected)
}

// Adjustment is a manual credit or debit against a store balance. It only
// touches the balance when approved, and can be approved once.
type Adjustment struct {
	shared.BaseAggregateRoot
	StoreID     uuid.UUID           `json:"store_id"`
	Direction   AdjustmentDirection `json:"direction"`
	Amount      decimal.Decimal     `json:"amount"`
	Reason      string              `json:"reason"`
	Status      AdjustmentStatus    `json:"status"`
	RequestedBy *uuid.UUID          `json:"requested_by,omitempty"`
	ReviewedBy  *uuid.UUID          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time          `json:"reviewed_at,omitempty"`
	ReviewNote  string              `json:"review_note"`
	EntryID     *uuid.UUID          `json:"entry_id,omitempty"`
}

// NewAdjustment creates a pending adjustment
func NewAdjustment(storeID uuid.UUID, dir AdjustmentDirection, amount decimal.Decimal, reason string, requestedBy *uuid.UUID) (*Adjustment, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if !dir.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be CREDIT or DEBIT")
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount must be positive")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	a := &Adjustment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Direction:         dir,
		Amount:            amount,
		Reason:            reason,
		Status:            AdjustmentStatusPending,
		RequestedBy:       requestedBy,
	}
	a.AddDomainEvent(NewAdjustmentRequestedEvent(a))
	return a, nil
}

// Approve applies the adjustment to the store and records the review
func (a *Adjustment) Approve(store *Store, reviewer *uuid.UUID, note string) (*BalanceEntry, error) {
	if !a.Status.CanTransitionTo(AdjustmentStatusApproved) {
		return nil, shared.NewDomainError("INVALID_STATE", "Adjustment has already been reviewed")
	}
	if store == nil || store.ID != a.StoreID {
		return nil, shared.NewDomainError("STORE_MISMATCH", "Adjustment does not belong to this store")
	}

	src := BalanceSource{Type: "ADJUSTMENT", ID: a.ID, Memo: a.Reason}
	var (
		entry *BalanceEntry
		err   error
	)
	if a.Direction == AdjustmentDebit {
		entry, err = store.Debit(BalanceEntryAdjustmentDebit, a.Amount, src)
	} else {
		entry, err = store.Credit(BalanceEntryAdjustmentCredit, a.Amount, src)
	}
	if err != nil {
		return nil, err
	}

	a.review(AdjustmentStatusApproved, reviewer, note)
	a.EntryID = &entry.ID
	a.AddDomainEvent(NewAdjustmentReviewedEvent(a))
	return entry, nil
}

// Reject closes the adjustment without touching the balance
func (a *Adjustment) Reject(reviewer *uuid.UUID, note string) error {
	if !a.Status.CanTransitionTo(AdjustmentStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", "Adjustment has already been reviewed")
	}
	if strings.TrimSpace(note) == "" {
		return shared.NewDomainError("INVALID_NOTE", "A rejection note is required")
	}
	a.review(AdjustmentStatusRejected, reviewer, note)
	a.AddDomainEvent(NewAdjustmentReviewedEvent(a))
	return nil
}

func (a *Adjustment) review(status AdjustmentStatus, reviewer *uuid.UUID, note string) {
	now := time.Now()
	a.Status = status
	a.ReviewedBy = reviewer
	a.ReviewedAt = &now
	a.ReviewNote = strings.TrimSpace(note)
	a.UpdatedAt = now
}
