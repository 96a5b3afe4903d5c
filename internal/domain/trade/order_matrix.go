package trade

import (
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatrixLine is a standing par level for one product
type MatrixLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Par       decimal.Decimal `json:"par"`
}

// OrderMatrix holds a store's standing par levels. There is one per store.
type OrderMatrix struct {
	shared.BaseAggregateRoot
	StoreID uuid.UUID    `json:"store_id"`
	Lines   []MatrixLine `json:"lines"`
}

// NewOrderMatrix creates an empty matrix for a store
func NewOrderMatrix(storeID uuid.UUID) (*OrderMatrix, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	return &OrderMatrix{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Lines:             []MatrixLine{},
	}, nil
}

// Replace swaps every line. Zero pars are dropped.
func (m *OrderMatrix) Replace(lines []MatrixLine) error {
	seen := make(map[uuid.UUID]bool, len(lines))
	out := make([]MatrixLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if l.Par.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Par cannot be negative")
		}
		if seen[l.ProductID] {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once")
		}
		seen[l.ProductID] = true
		if l.Par.IsZero() {
			continue
		}
		out = append(out, l)
	}
	m.Lines = out
	m.Touch()
	return nil
}

// IsEmpty reports whether the matrix has no lines
func (m *OrderMatrix) IsEmpty() bool {
	return len(m.Lines) == 0
}
