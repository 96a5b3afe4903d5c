package models

import (
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderModel is the persistence model for a weekly picking work order.
type WorkOrderModel struct {
	AggregateModel
	Number      string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Week        shared.Week          `gorm:"type:varchar(8);not null;index"`
	Lines       []WorkOrderLineModel `gorm:"foreignKey:WorkOrderID;references:ID"`
	Status      workorder.Status     `gorm:"type:varchar(20);not null;index"`
	ReleasedAt  *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (WorkOrderModel) TableName() string {
	return "work_orders"
}

// ToDomain converts the persistence model to a domain WorkOrder.
func (m *WorkOrderModel) ToDomain() *workorder.WorkOrder {
	wo := &workorder.WorkOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Number:            m.Number,
		Week:              m.Week,
		Status:            m.Status,
		ReleasedAt:        m.ReleasedAt,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
		Lines:             make([]workorder.Line, len(m.Lines)),
	}
	for i, l := range m.Lines {
		wo.Lines[i] = workorder.Line{
			ID:          l.ID,
			WorkOrderID: l.WorkOrderID,
			OrderID:     l.OrderID,
			StoreID:     l.StoreID,
			ProductID:   l.ProductID,
			Requested:   l.Requested,
			Allocated:   l.Allocated,
			Picked:      l.Picked,
		}
	}
	return wo
}

// WorkOrderModelFromDomain creates a new persistence model from a domain WorkOrder.
func WorkOrderModelFromDomain(wo *workorder.WorkOrder) *WorkOrderModel {
	m := &WorkOrderModel{
		Number:      wo.Number,
		Week:        wo.Week,
		Status:      wo.Status,
		ReleasedAt:  wo.ReleasedAt,
		CompletedAt: wo.CompletedAt,
		CancelledAt: wo.CancelledAt,
		Lines:       make([]WorkOrderLineModel, len(wo.Lines)),
	}
	m.FromDomainAggregateRoot(wo.BaseAggregateRoot)
	for i, l := range wo.Lines {
		m.Lines[i] = WorkOrderLineModel{
			ID:          l.ID,
			WorkOrderID: wo.ID,
			OrderID:     l.OrderID,
			StoreID:     l.StoreID,
			ProductID:   l.ProductID,
			Requested:   l.Requested,
			Allocated:   l.Allocated,
			Picked:      l.Picked,
		}
	}
	return m
}

// WorkOrderLineModel is one order line's allocation and pick
type WorkOrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	WorkOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null"`
	StoreID     uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Requested   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Allocated   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Picked      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (WorkOrderLineModel) TableName() string {
	return "work_order_lines"
}
