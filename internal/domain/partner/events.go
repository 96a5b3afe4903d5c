package partner

import (
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeStore      = "Store"
	AggregateTypeAdjustment = "Adjustment"

	EventTypeStoreCreated        = "StoreCreated"
	EventTypeStoreBalanceChanged = "StoreBalanceChanged"
	EventTypeAdjustmentRequested = "AdjustmentRequested"
	EventTypeAdjustmentReviewed  = "AdjustmentReviewed"
)

// StoreCreatedEvent is raised when a store is registered
type StoreCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewStoreCreatedEvent creates a StoreCreatedEvent
func NewStoreCreatedEvent(s *Store) *StoreCreatedEvent {
	return &StoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreCreated, AggregateTypeStore, s.ID),
		Code:            s.Code,
		Name:            s.Name,
	}
}

// StoreBalanceChangedEvent is raised for every balance entry
type StoreBalanceChangedEvent struct {
	shared.BaseDomainEvent
	EntryID      uuid.UUID        `json:"entry_id"`
	EntryType    BalanceEntryType `json:"entry_type"`
	Amount       decimal.Decimal  `json:"amount"`
	BalanceAfter decimal.Decimal  `json:"balance_after"`
}

// NewStoreBalanceChangedEvent creates a StoreBalanceChangedEvent
func NewStoreBalanceChangedEvent(s *Store, e *BalanceEntry) *StoreBalanceChangedEvent {
	return &StoreBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreBalanceChanged, AggregateTypeStore, s.ID),
		EntryID:         e.ID,
		EntryType:       e.EntryType,
		Amount:          e.Amount,
		BalanceAfter:    e.BalanceAfter,
	}
}

// AdjustmentRequestedEvent is raised when an adjustment is requested
type AdjustmentRequestedEvent struct {
	shared.BaseDomainEvent
	StoreID   uuid.UUID           `json:"store_id"`
	Direction AdjustmentDirection `json:"direction"`
	Amount    decimal.Decimal     `json:"amount"`
}

// NewAdjustmentRequestedEvent creates an AdjustmentRequestedEvent
func NewAdjustmentRequestedEvent(a *Adjustment) *AdjustmentRequestedEvent {
	return &AdjustmentRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentRequested, AggregateTypeAdjustment, a.ID),
		StoreID:         a.StoreID,
		Direction:       a.Direction,
		Amount:          a.Amount,
	}
}

// AdjustmentReviewedEvent is raised when an adjustment is approved or rejected
type AdjustmentReviewedEvent struct {
	shared.BaseDomainEvent
	StoreID uuid.UUID        `json:"store_id"`
	Status  AdjustmentStatus `json:"status"`
}

// NewAdjustmentReviewedEvent creates an AdjustmentReviewedEvent
func NewAdjustmentReviewedEvent(a *Adjustment) *AdjustmentReviewedEvent {
	return &AdjustmentReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentReviewed, AggregateTypeAdjustment, a.ID),
		StoreID:         a.StoreID,
		Status:          a.Status,
	}
}
