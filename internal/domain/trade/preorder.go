package trade

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PreOrderStatus represents the status of a preorder
type PreOrderStatus string

const (
	PreOrderStatusDraft     PreOrderStatus = "DRAFT"
	PreOrderStatusConfirmed PreOrderStatus = "CONFIRMED"
	PreOrderStatusPromoted  PreOrderStatus = "PROMOTED"
	PreOrderStatusExpired   PreOrderStatus = "EXPIRED"
)

// IsValid checks if the status is a valid PreOrderStatus
func (s PreOrderStatus) IsValid() bool {
	switch s {
	case PreOrderStatusDraft, PreOrderStatusConfirmed, PreOrderStatusPromoted, PreOrderStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of PreOrderStatus
func (s PreOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PreOrderStatus) CanTransitionTo(target PreOrderStatus) bool {
	switch s {
	case PreOrderStatusDraft:
		return target == PreOrderStatusConfirmed || target == PreOrderStatusExpired
	case PreOrderStatusConfirmed:
		return target == PreOrderStatusPromoted || target == PreOrderStatusExpired
	}
	return false
}

// PreOrderLine is a suggested line awaiting store confirmation
type PreOrderLine struct {
	ID         uuid.UUID       `json:"id"`
	PreOrderID uuid.UUID       `json:"preorder_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Suggested  decimal.Decimal `json:"suggested"`
	Requested  decimal.Decimal `json:"requested"`
	Promoted   decimal.Decimal `json:"promoted"`
	Short      decimal.Decimal `json:"short"`
}

// PreOrder is a tentative weekly order built from the order matrix and the
// store's shelf count.
type PreOrder struct {
	shared.BaseAggregateRoot
	StoreID     uuid.UUID      `json:"store_id"`
	Week        shared.Week    `json:"week"`
	Lines       []PreOrderLine `json:"lines"`
	Status      PreOrderStatus `json:"status"`
	OrderID     *uuid.UUID     `json:"order_id,omitempty"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty"`
	PromotedAt  *time.Time     `json:"promoted_at,omitempty"`
}

// BuildSuggestions reconciles par levels against counted quantities.
// Products without a count suggest the full par. Zero suggestions are omitted.
func BuildSuggestions(matrix []MatrixLine, counts map[uuid.UUID]decimal.Decimal) []PreOrderLine {
	lines := make([]PreOrderLine, 0, len(matrix))
	for _, m := range matrix {
		suggested := m.Par
		if counted, ok := counts[m.ProductID]; ok {
			suggested = m.Par.Sub(counted)
		}
		if !suggested.IsPositive() {
			continue
		}
		lines = append(lines, PreOrderLine{
			ID:        uuid.New(),
			ProductID: m.ProductID,
			Suggested: suggested,
			Requested: suggested,
			Promoted:  decimal.Zero,
			Short:     decimal.Zero,
		})
	}
	return lines
}

// NewPreOrder creates a draft preorder with the given suggestion lines
func NewPreOrder(storeID uuid.UUID, week shared.Week, lines []PreOrderLine) (*PreOrder, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if !week.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEK", "Invalid week")
	}
	p := &PreOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		Week:              week,
		Lines:             lines,
		Status:            PreOrderStatusDraft,
	}
	for i := range p.Lines {
		p.Lines[i].PreOrderID = p.ID
	}
	p.AddDomainEvent(NewPreOrderGeneratedEvent(p))
	return p, nil
}

// UpdateLine sets the requested quantity for a product. A product not yet on
// the preorder is added with a zero suggestion.
func (p *PreOrder) UpdateLine(productID uuid.UUID, qty decimal.Decimal) error {
	if p.Status != PreOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update preorder in %s status", p.Status))
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	for i := range p.Lines {
		if p.Lines[i].ProductID == productID {
			p.Lines[i].Requested = qty
			p.Touch()
			return nil
		}
	}
	p.Lines = append(p.Lines, PreOrderLine{
		ID:         uuid.New(),
		PreOrderID: p.ID,
		ProductID:  productID,
		Suggested:  decimal.Zero,
		Requested:  qty,
		Promoted:   decimal.Zero,
		Short:      decimal.Zero,
	})
	p.Touch()
	return nil
}

// Confirm moves the preorder from DRAFT to CONFIRMED
func (p *PreOrder) Confirm() error {
	if !p.Status.CanTransitionTo(PreOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm preorder in %s status", p.Status))
	}
	if len(p.RequestedLines()) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Preorder must request at least one product")
	}
	now := time.Now()
	p.Status = PreOrderStatusConfirmed
	p.ConfirmedAt = &now
	p.UpdatedAt = now
	return nil
}

// RequestedLines returns lines with a positive requested quantity
func (p *PreOrder) RequestedLines() []PreOrderLine {
	out := make([]PreOrderLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		if l.Requested.IsPositive() {
			out = append(out, l)
		}
	}
	return out
}

// Promote records the filled quantity per product and links the order.
// Short is requested minus filled.
func (p *PreOrder) Promote(orderID uuid.UUID, filled map[uuid.UUID]decimal.Decimal) error {
	if !p.Status.CanTransitionTo(PreOrderStatusPromoted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot promote preorder in %s status", p.Status))
	}
	for i := range p.Lines {
		qty := filled[p.Lines[i].ProductID]
		if qty.GreaterThan(p.Lines[i].Requested) {
			return shared.NewDomainError("QUANTITY_EXCEEDED", "Filled quantity exceeds requested")
		}
	}
	for i := range p.Lines {
		qty := filled[p.Lines[i].ProductID]
		p.Lines[i].Promoted = qty
		p.Lines[i].Short = p.Lines[i].Requested.Sub(qty)
	}
	now := time.Now()
	p.Status = PreOrderStatusPromoted
	p.OrderID = &orderID
	p.PromotedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewPreOrderPromotedEvent(p))
	return nil
}

// Expire closes an unpromoted preorder
func (p *PreOrder) Expire() error {
	if !p.Status.CanTransitionTo(PreOrderStatusExpired) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire preorder in %s status", p.Status))
	}
	p.Status = PreOrderStatusExpired
	p.Touch()
	return nil
}

// ShortTotal sums the unfilled quantity across lines
func (p *PreOrder) ShortTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Short)
	}
	return total
}
