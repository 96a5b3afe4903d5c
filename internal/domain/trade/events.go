package trade

import (
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeOrder         = "Order"
	AggregateTypePreOrder      = "PreOrder"
	AggregateTypePurchaseOrder = "PurchaseOrder"

	EventTypeOrderCreated           = "OrderCreated"
	EventTypeOrderCancelled         = "OrderCancelled"
	EventTypeOrderShipped           = "OrderShipped"
	EventTypePreOrderGenerated      = "PreOrderGenerated"
	EventTypePreOrderPromoted       = "PreOrderPromoted"
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderSubmitted = "PurchaseOrderSubmitted"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
)

// OrderCreatedEvent is raised when an order is confirmed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string          `json:"order_number"`
	StoreID      uuid.UUID       `json:"store_id"`
	DeliveryWeek shared.Week     `json:"delivery_week"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Source       OrderSource     `json:"source"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		DeliveryWeek:    o.DeliveryWeek,
		TotalAmount:     o.TotalAmount,
		Source:          o.Source,
	}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	StoreID     uuid.UUID `json:"store_id"`
	Reason      string    `json:"reason"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		Reason:          o.CancelReason,
	}
}

// ShippedLine is a shipped quantity carried on OrderShippedEvent
type ShippedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderShippedEvent is raised when an order leaves the warehouse.
// Finance generates the store invoice from it.
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string          `json:"order_number"`
	StoreID      uuid.UUID       `json:"store_id"`
	DeliveryWeek shared.Week     `json:"delivery_week"`
	Lines        []ShippedLine   `json:"lines"`
	ShippedTotal decimal.Decimal `json:"shipped_total"`
}

// NewOrderShippedEvent creates an OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	lines := make([]ShippedLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		if l.ShippedQuantity.IsZero() {
			continue
		}
		lines = append(lines, ShippedLine{ProductID: l.ProductID, Quantity: l.ShippedQuantity, UnitPrice: l.UnitPrice})
	}
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		DeliveryWeek:    o.DeliveryWeek,
		Lines:           lines,
		ShippedTotal:    o.ShippedTotal(),
	}
}

// PreOrderGeneratedEvent is raised when a preorder is built from the matrix
type PreOrderGeneratedEvent struct {
	shared.BaseDomainEvent
	StoreID   uuid.UUID   `json:"store_id"`
	Week      shared.Week `json:"week"`
	LineCount int         `json:"line_count"`
}

// NewPreOrderGeneratedEvent creates a PreOrderGeneratedEvent
func NewPreOrderGeneratedEvent(p *PreOrder) *PreOrderGeneratedEvent {
	return &PreOrderGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePreOrderGenerated, AggregateTypePreOrder, p.ID),
		StoreID:         p.StoreID,
		Week:            p.Week,
		LineCount:       len(p.Lines),
	}
}

// PreOrderPromotedEvent is raised when a preorder becomes an order
type PreOrderPromotedEvent struct {
	shared.BaseDomainEvent
	StoreID    uuid.UUID       `json:"store_id"`
	Week       shared.Week     `json:"week"`
	OrderID    uuid.UUID       `json:"order_id"`
	ShortTotal decimal.Decimal `json:"short_total"`
}

// NewPreOrderPromotedEvent creates a PreOrderPromotedEvent
func NewPreOrderPromotedEvent(p *PreOrder) *PreOrderPromotedEvent {
	var orderID uuid.UUID
	if p.OrderID != nil {
		orderID = *p.OrderID
	}
	return &PreOrderPromotedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePreOrderPromoted, AggregateTypePreOrder, p.ID),
		StoreID:         p.StoreID,
		Week:            p.Week,
		OrderID:         orderID,
		ShortTotal:      p.ShortTotal(),
	}
}

// PurchaseOrderCreatedEvent is raised when a purchase order is drafted
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	VendorID    uuid.UUID `json:"vendor_id"`
}

// NewPurchaseOrderCreatedEvent creates a PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(po *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, po.ID),
		OrderNumber:     po.OrderNumber,
		VendorID:        po.VendorID,
	}
}

// PurchaseOrderSubmittedEvent is raised when a purchase order is sent
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderSubmittedEvent creates a PurchaseOrderSubmittedEvent
func NewPurchaseOrderSubmittedEvent(po *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSubmitted, AggregateTypePurchaseOrder, po.ID),
		OrderNumber:     po.OrderNumber,
		VendorID:        po.VendorID,
		TotalAmount:     po.TotalAmount,
	}
}

// PurchaseOrderReceivedEvent is raised for every receipt against a purchase order
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string              `json:"order_number"`
	VendorID    uuid.UUID           `json:"vendor_id"`
	Items       []ReceiveItem       `json:"items"`
	Status      PurchaseOrderStatus `json:"status"`
}

// NewPurchaseOrderReceivedEvent creates a PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(po *PurchaseOrder, items []ReceiveItem) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, po.ID),
		OrderNumber:     po.OrderNumber,
		VendorID:        po.VendorID,
		Items:           items,
		Status:          po.Status,
	}
}
