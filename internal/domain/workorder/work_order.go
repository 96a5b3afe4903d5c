package workorder

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a work order
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusReleased  Status = "RELEASED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReleased, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusReleased || target == StatusCancelled
	case StatusReleased:
		return target == StatusCompleted
	}
	return false
}

// Line is the pick line for one product of one order
type Line struct {
	ID          uuid.UUID       `json:"id"`
	WorkOrderID uuid.UUID       `json:"work_order_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Requested   decimal.Decimal `json:"requested"`
	Allocated   decimal.Decimal `json:"allocated"`
	Picked      decimal.Decimal `json:"picked"`
}

// WorkOrder is the weekly warehouse pick list
type WorkOrder struct {
	shared.BaseAggregateRoot
	Number      string      `json:"number"`
	Week        shared.Week `json:"week"`
	Lines       []Line      `json:"lines"`
	Status      Status      `json:"status"`
	ReleasedAt  *time.Time  `json:"released_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
}

// New creates a draft work order from allocations
func New(number string, week shared.Week, allocs []Allocated) (*WorkOrder, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Work order number cannot be empty")
	}
	if !week.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEK", "Invalid week")
	}
	if len(allocs) == 0 {
		return nil, shared.NewDomainError("NO_ORDERS", "No confirmed orders for the week")
	}
	wo := &WorkOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Week:              week,
		Lines:             make([]Line, 0, len(allocs)),
		Status:            StatusDraft,
	}
	for _, a := range allocs {
		wo.Lines = append(wo.Lines, Line{
			ID:          uuid.New(),
			WorkOrderID: wo.ID,
			OrderID:     a.OrderID,
			StoreID:     a.StoreID,
			ProductID:   a.ProductID,
			Requested:   a.Requested,
			Allocated:   a.Quantity,
			Picked:      decimal.Zero,
		})
	}
	wo.AddDomainEvent(NewGeneratedEvent(wo))
	return wo, nil
}

// Release sends the work order to the floor
func (wo *WorkOrder) Release() error {
	if !wo.Status.CanTransitionTo(StatusReleased) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot release work order in %s status", wo.Status))
	}
	now := time.Now()
	wo.Status = StatusReleased
	wo.ReleasedAt = &now
	wo.UpdatedAt = now
	return nil
}

// RecordPick sets the picked quantity of a line
func (wo *WorkOrder) RecordPick(lineID uuid.UUID, qty decimal.Decimal) error {
	if wo.Status != StatusReleased {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pick work order in %s status", wo.Status))
	}
	for i := range wo.Lines {
		if wo.Lines[i].ID != lineID {
			continue
		}
		if qty.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Picked quantity cannot be negative")
		}
		if qty.GreaterThan(wo.Lines[i].Allocated) {
			return shared.NewDomainError("QUANTITY_EXCEEDED", "Picked quantity exceeds allocated")
		}
		wo.Lines[i].Picked = qty
		wo.Touch()
		return nil
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Line %s not found", lineID))
}

// Complete closes the work order and returns the picked quantities per
// order and product, which become the shipped quantities.
func (wo *WorkOrder) Complete() (map[uuid.UUID]map[uuid.UUID]decimal.Decimal, error) {
	if !wo.Status.CanTransitionTo(StatusCompleted) {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete work order in %s status", wo.Status))
	}
	shipped := make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal)
	for _, l := range wo.Lines {
		if shipped[l.OrderID] == nil {
			shipped[l.OrderID] = make(map[uuid.UUID]decimal.Decimal)
		}
		shipped[l.OrderID][l.ProductID] = shipped[l.OrderID][l.ProductID].Add(l.Picked)
	}
	now := time.Now()
	wo.Status = StatusCompleted
	wo.CompletedAt = &now
	wo.UpdatedAt = now
	wo.AddDomainEvent(NewCompletedEvent(wo))
	return shipped, nil
}

// Cancel abandons a draft work order
func (wo *WorkOrder) Cancel() error {
	if !wo.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel work order in %s status", wo.Status))
	}
	now := time.Now()
	wo.Status = StatusCancelled
	wo.CancelledAt = &now
	wo.UpdatedAt = now
	return nil
}

// OrderIDs returns the distinct orders on the work order in line order
func (wo *WorkOrder) OrderIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, l := range wo.Lines {
		if !seen[l.OrderID] {
			seen[l.OrderID] = true
			ids = append(ids, l.OrderID)
		}
	}
	return ids
}

// AllocatedByProduct sums allocation per product
func (wo *WorkOrder) AllocatedByProduct() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, l := range wo.Lines {
		out[l.ProductID] = out[l.ProductID].Add(l.Allocated)
	}
	return out
}
