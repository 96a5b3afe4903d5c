package inventory

import (
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CountStatus represents the state of a store shelf count
type CountStatus string

const (
	CountStatusDraft     CountStatus = "DRAFT"
	CountStatusSubmitted CountStatus = "SUBMITTED"
)

// StoreInventoryLine is the counted quantity of one product on a store shelf
type StoreInventoryLine struct {
	ID               uuid.UUID       `json:"id"`
	StoreInventoryID uuid.UUID       `json:"store_inventory_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
}

// StoreInventory is a store's weekly shelf count. There is at most one per
// store and week; it feeds PreOrder suggestions.
type StoreInventory struct {
	shared.BaseAggregateRoot
	StoreID     uuid.UUID            `json:"store_id"`
	Week        shared.Week          `json:"week"`
	Lines       []StoreInventoryLine `json:"lines"`
	Status      CountStatus          `json:"status"`
	SubmittedAt *time.Time           `json:"submitted_at,omitempty"`
}

// NewStoreInventory starts a draft count
func NewStoreInventory(storeID uuid.UUID, week shared.Week) (*StoreInventory, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if !week.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEK", "Invalid week")
	}
	return &StoreInventory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Week:              week,
		Lines:             make([]StoreInventoryLine, 0),
		Status:            CountStatusDraft,
	}, nil
}

// SetCount records or replaces the count for a product
func (s *StoreInventory) SetCount(productID uuid.UUID, qty decimal.Decimal) error {
	if s.Status == CountStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Submitted counts cannot be changed")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines[i].Quantity = qty
			s.Touch()
			return nil
		}
	}
	s.Lines = append(s.Lines, StoreInventoryLine{
		ID:               uuid.New(),
		StoreInventoryID: s.ID,
		ProductID:        productID,
		Quantity:         qty,
	})
	s.Touch()
	return nil
}

// Submit locks the count
func (s *StoreInventory) Submit() error {
	if s.Status == CountStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Count has already been submitted")
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("EMPTY_COUNT", "Count has no lines")
	}
	now := time.Now()
	s.Status = CountStatusSubmitted
	s.SubmittedAt = &now
	s.UpdatedAt = now
	return nil
}

// Counts returns counted quantities by product
func (s *StoreInventory) Counts() map[uuid.UUID]decimal.Decimal {
	counts := make(map[uuid.UUID]decimal.Decimal, len(s.Lines))
	for _, l := range s.Lines {
		counts[l.ProductID] = l.Quantity
	}
	return counts
}
