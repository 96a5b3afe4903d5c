package models

import (
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber  string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	StoreID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	DeliveryWeek shared.Week       `gorm:"type:varchar(8);not null;index"`
	Lines        []OrderLineModel  `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Status       trade.OrderStatus `gorm:"type:varchar(20);not null;index"`
	Source       trade.OrderSource `gorm:"type:varchar(20);not null"`
	PreOrderID   *uuid.UUID        `gorm:"type:uuid"`
	WorkOrderID  *uuid.UUID        `gorm:"type:uuid;index"`
	InvoiceID    *uuid.UUID        `gorm:"type:uuid"`
	Notes        string            `gorm:"type:text"`
	CreatedBy    *uuid.UUID        `gorm:"type:uuid"`
	ShippedAt    *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		StoreID:           m.StoreID,
		DeliveryWeek:      m.DeliveryWeek,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		Source:            m.Source,
		PreOrderID:        m.PreOrderID,
		WorkOrderID:       m.WorkOrderID,
		InvoiceID:         m.InvoiceID,
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
		ShippedAt:         m.ShippedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Lines:             make([]trade.OrderLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		order.Lines[i] = trade.OrderLine{
			ID:              l.ID,
			OrderID:         l.OrderID,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			SKU:             l.SKU,
			Unit:            l.Unit,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			Amount:          l.Amount,
			ShippedQuantity: l.ShippedQuantity,
		}
	}
	return order
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:  o.OrderNumber,
		StoreID:      o.StoreID,
		DeliveryWeek: o.DeliveryWeek,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		Source:       o.Source,
		PreOrderID:   o.PreOrderID,
		WorkOrderID:  o.WorkOrderID,
		InvoiceID:    o.InvoiceID,
		Notes:        o.Notes,
		CreatedBy:    o.CreatedBy,
		ShippedAt:    o.ShippedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		Lines:        make([]OrderLineModel, len(o.Lines)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i, l := range o.Lines {
		m.Lines[i] = OrderLineModel{
			ID:              l.ID,
			OrderID:         o.ID,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			SKU:             l.SKU,
			Unit:            l.Unit,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			Amount:          l.Amount,
			ShippedQuantity: l.ShippedQuantity,
		}
	}
	return m
}

// OrderLineModel is the persistence model for an order line
type OrderLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	SKU             string          `gorm:"type:varchar(50);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// OrderMatrixModel is the persistence model for a store's par levels.
type OrderMatrixModel struct {
	AggregateModel
	StoreID uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex"`
	Lines   []OrderMatrixLineModel `gorm:"foreignKey:MatrixID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderMatrixModel) TableName() string {
	return "order_matrices"
}

// ToDomain converts the persistence model to a domain OrderMatrix.
func (m *OrderMatrixModel) ToDomain() *trade.OrderMatrix {
	matrix := &trade.OrderMatrix{
		BaseAggregateRoot: m.ToAggregateRoot(),
		StoreID:           m.StoreID,
		Lines:             make([]trade.MatrixLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		matrix.Lines[i] = trade.MatrixLine{ProductID: l.ProductID, Par: l.Par}
	}
	return matrix
}

// OrderMatrixModelFromDomain creates a new persistence model from a domain OrderMatrix.
func OrderMatrixModelFromDomain(om *trade.OrderMatrix) *OrderMatrixModel {
	m := &OrderMatrixModel{
		StoreID: om.StoreID,
		Lines:   make([]OrderMatrixLineModel, len(om.Lines)),
	}
	m.FromDomainAggregateRoot(om.BaseAggregateRoot)
	for i, l := range om.Lines {
		m.Lines[i] = OrderMatrixLineModel{MatrixID: om.ID, ProductID: l.ProductID, Par: l.Par, Position: i}
	}
	return m
}

// OrderMatrixLineModel is one product's par level
type OrderMatrixLineModel struct {
	MatrixID  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Par       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Position  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderMatrixLineModel) TableName() string {
	return "order_matrix_lines"
}

// PreOrderModel is the persistence model for the PreOrder aggregate root.
type PreOrderModel struct {
	AggregateModel
	StoreID     uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_preorder_store_week,priority:1"`
	Week        shared.Week          `gorm:"type:varchar(8);not null;uniqueIndex:idx_preorder_store_week,priority:2;index"`
	Lines       []PreOrderLineModel  `gorm:"foreignKey:PreOrderID;references:ID"`
	Status      trade.PreOrderStatus `gorm:"type:varchar(20);not null;index"`
	OrderID     *uuid.UUID           `gorm:"type:uuid"`
	ConfirmedAt *time.Time
	PromotedAt  *time.Time
}

// TableName returns the table name for GORM
func (PreOrderModel) TableName() string {
	return "preorders"
}

// ToDomain converts the persistence model to a domain PreOrder.
func (m *PreOrderModel) ToDomain() *trade.PreOrder {
	p := &trade.PreOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		StoreID:           m.StoreID,
		Week:              m.Week,
		Status:            m.Status,
		OrderID:           m.OrderID,
		ConfirmedAt:       m.ConfirmedAt,
		PromotedAt:        m.PromotedAt,
		Lines:             make([]trade.PreOrderLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		p.Lines[i] = trade.PreOrderLine{
			ID:         l.ID,
			PreOrderID: l.PreOrderID,
			ProductID:  l.ProductID,
			Suggested:  l.Suggested,
			Requested:  l.Requested,
			Promoted:   l.Promoted,
			Short:      l.Short,
		}
	}
	return p
}

// PreOrderModelFromDomain creates a new persistence model from a domain PreOrder.
func PreOrderModelFromDomain(p *trade.PreOrder) *PreOrderModel {
	m := &PreOrderModel{
		StoreID:     p.StoreID,
		Week:        p.Week,
		Status:      p.Status,
		OrderID:     p.OrderID,
		ConfirmedAt: p.ConfirmedAt,
		PromotedAt:  p.PromotedAt,
		Lines:       make([]PreOrderLineModel, len(p.Lines)),
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	for i, l := range p.Lines {
		m.Lines[i] = PreOrderLineModel{
			ID:         l.ID,
			PreOrderID: p.ID,
			ProductID:  l.ProductID,
			Suggested:  l.Suggested,
			Requested:  l.Requested,
			Promoted:   l.Promoted,
			Short:      l.Short,
		}
	}
	return m
}

// PreOrderLineModel is the persistence model for a preorder line
type PreOrderLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	PreOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Suggested  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Requested  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Promoted   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Short      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PreOrderLineModel) TableName() string {
	return "preorder_lines"
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	OrderNumber  string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	VendorID     uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ExpectedWeek shared.Week               `gorm:"type:varchar(8);not null;index"`
	Lines        []PurchaseOrderLineModel  `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TotalAmount  decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	Status       trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;index"`
	Notes        string                    `gorm:"type:text"`
	CreatedBy    *uuid.UUID                `gorm:"type:uuid"`
	SubmittedAt  *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	po := &trade.PurchaseOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		VendorID:          m.VendorID,
		ExpectedWeek:      m.ExpectedWeek,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		Notes:             m.Notes,
		CreatedBy:         m.CreatedBy,
		SubmittedAt:       m.SubmittedAt,
		ReceivedAt:        m.ReceivedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Lines:             make([]trade.PurchaseOrderLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		po.Lines[i] = trade.PurchaseOrderLine{
			ID:               l.ID,
			PurchaseOrderID:  l.PurchaseOrderID,
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			SKU:              l.SKU,
			Unit:             l.Unit,
			OrderedQuantity:  l.OrderedQuantity,
			UnitCost:         l.UnitCost,
			Amount:           l.Amount,
			ReceivedQuantity: l.ReceivedQuantity,
		}
	}
	return po
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(po *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber:  po.OrderNumber,
		VendorID:     po.VendorID,
		ExpectedWeek: po.ExpectedWeek,
		TotalAmount:  po.TotalAmount,
		Status:       po.Status,
		Notes:        po.Notes,
		CreatedBy:    po.CreatedBy,
		SubmittedAt:  po.SubmittedAt,
		ReceivedAt:   po.ReceivedAt,
		CancelledAt:  po.CancelledAt,
		CancelReason: po.CancelReason,
		Lines:        make([]PurchaseOrderLineModel, len(po.Lines)),
	}
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	for i, l := range po.Lines {
		m.Lines[i] = PurchaseOrderLineModel{
			ID:               l.ID,
			PurchaseOrderID:  po.ID,
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			SKU:              l.SKU,
			Unit:             l.Unit,
			OrderedQuantity:  l.OrderedQuantity,
			UnitCost:         l.UnitCost,
			Amount:           l.Amount,
			ReceivedQuantity: l.ReceivedQuantity,
		}
	}
	return m
}

// PurchaseOrderLineModel is the persistence model for a purchase order line
type PurchaseOrderLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	SKU              string          `gorm:"type:varchar(50);not null"`
	Unit             string          `gorm:"type:varchar(20);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}
