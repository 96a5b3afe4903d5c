package workorder

import (
	"github.com/freshline/backend/internal/domain/shared"
)

const (
	AggregateTypeWorkOrder = "WorkOrder"

	EventTypeGenerated = "WorkOrderGenerated"
	EventTypeCompleted = "WorkOrderCompleted"
)

// GeneratedEvent is raised when a work order is built for a week
type GeneratedEvent struct {
	shared.BaseDomainEvent
	Number    string      `json:"number"`
	Week      shared.Week `json:"week"`
	LineCount int         `json:"line_count"`
}

// NewGeneratedEvent creates a GeneratedEvent
func NewGeneratedEvent(wo *WorkOrder) *GeneratedEvent {
	return &GeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGenerated, AggregateTypeWorkOrder, wo.ID),
		Number:          wo.Number,
		Week:            wo.Week,
		LineCount:       len(wo.Lines),
	}
}

// CompletedEvent is raised when picking finishes
type CompletedEvent struct {
	shared.BaseDomainEvent
	Number     string      `json:"number"`
	Week       shared.Week `json:"week"`
	OrderCount int         `json:"order_count"`
}

// NewCompletedEvent creates a CompletedEvent
func NewCompletedEvent(wo *WorkOrder) *CompletedEvent {
	return &CompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompleted, AggregateTypeWorkOrder, wo.ID),
		Number:          wo.Number,
		Week:            wo.Week,
		OrderCount:      len(wo.OrderIDs()),
	}
}
