package trade

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a store order
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPicking   OrderStatus = "PICKING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusInvoiced  OrderStatus = "INVOICED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusPicking, OrderStatusShipped,
		OrderStatusInvoiced, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusConfirmed:
		return target == OrderStatusPicking || target == OrderStatusCancelled
	case OrderStatusPicking:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusInvoiced
	}
	return false
}

// OrderSource says how an order was created
type OrderSource string

const (
	OrderSourceDirect   OrderSource = "DIRECT"
	OrderSourcePreOrder OrderSource = "PREORDER"
)

// OrderLine is a line item of a store order
type OrderLine struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Amount          decimal.Decimal `json:"amount"`
	ShippedQuantity decimal.Decimal `json:"shipped_quantity"`
}

// ShippedAmount returns shipped quantity times unit price
func (l *OrderLine) ShippedAmount() decimal.Decimal {
	return l.ShippedQuantity.Mul(l.UnitPrice).Round(2)
}

// LineInput describes a line to add to an order
type LineInput struct {
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Order is a confirmed store order. Stock for every line is reserved when
// the order is created and released when it ships or is cancelled.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string          `json:"order_number"`
	StoreID      uuid.UUID       `json:"store_id"`
	DeliveryWeek shared.Week     `json:"delivery_week"`
	Lines        []OrderLine     `json:"lines"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       OrderStatus     `json:"status"`
	Source       OrderSource     `json:"source"`
	PreOrderID   *uuid.UUID      `json:"preorder_id,omitempty"`
	WorkOrderID  *uuid.UUID      `json:"work_order_id,omitempty"`
	InvoiceID    *uuid.UUID      `json:"invoice_id,omitempty"`
	Notes        string          `json:"notes"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	ShippedAt    *time.Time      `json:"shipped_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason string          `json:"cancel_reason"`
}

// NewOrder creates a confirmed order from lines
func NewOrder(orderNumber string, storeID uuid.UUID, week shared.Week, lines []LineInput) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if !week.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEK", "Invalid delivery week")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must have at least one line")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		StoreID:           storeID,
		DeliveryWeek:      week,
		Lines:             make([]OrderLine, 0, len(lines)),
		Status:            OrderStatusConfirmed,
		Source:            OrderSourceDirect,
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if seen[in.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", fmt.Sprintf("Product %s appears more than once", in.SKU))
		}
		if !in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity for %s must be positive", in.SKU))
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		seen[in.ProductID] = true
		o.Lines = append(o.Lines, OrderLine{
			ID:              uuid.New(),
			OrderID:         o.ID,
			ProductID:       in.ProductID,
			ProductName:     in.ProductName,
			SKU:             in.SKU,
			Unit:            in.Unit,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			Amount:          in.Quantity.Mul(in.UnitPrice).Round(2),
			ShippedQuantity: decimal.Zero,
		})
	}
	o.recalculateTotal()
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// MarkFromPreOrder tags the order as a promoted preorder
func (o *Order) MarkFromPreOrder(preOrderID uuid.UUID) {
	o.Source = OrderSourcePreOrder
	o.PreOrderID = &preOrderID
}

// Cancel cancels a confirmed order
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if o.WorkOrderID != nil {
		return shared.NewDomainError("ON_WORK_ORDER", "Order is on a work order and cannot be cancelled")
	}
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// AttachWorkOrder links a confirmed order to a draft work order
func (o *Order) AttachWorkOrder(workOrderID uuid.UUID) error {
	if o.Status != OrderStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot allocate order in %s status", o.Status))
	}
	if o.WorkOrderID != nil {
		return shared.NewDomainError("ON_WORK_ORDER", "Order is already on a work order")
	}
	o.WorkOrderID = &workOrderID
	o.Touch()
	return nil
}

// DetachWorkOrder unlinks the order from a cancelled work order
func (o *Order) DetachWorkOrder() error {
	if o.Status != OrderStatusConfirmed || o.WorkOrderID == nil {
		return shared.NewDomainError("INVALID_STATE", "Order is not on a draft work order")
	}
	o.WorkOrderID = nil
	o.Touch()
	return nil
}

// MarkPicking moves an allocated order into picking
func (o *Order) MarkPicking() error {
	if !o.Status.CanTransitionTo(OrderStatusPicking) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pick order in %s status", o.Status))
	}
	if o.WorkOrderID == nil {
		return shared.NewDomainError("NO_WORK_ORDER", "Order must be on a work order before picking")
	}
	o.Status = OrderStatusPicking
	o.Touch()
	return nil
}

// Ship records shipped quantities per product. Products missing from
// shipped ship zero. Shipped quantity cannot exceed ordered.
func (o *Order) Ship(shipped map[uuid.UUID]decimal.Decimal) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}
	for productID := range shipped {
		if o.line(productID) == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Product %s not found in order", productID))
		}
	}
	for i := range o.Lines {
		qty, ok := shipped[o.Lines[i].ProductID]
		if !ok {
			qty = decimal.Zero
		}
		if qty.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Shipped quantity cannot be negative")
		}
		if qty.GreaterThan(o.Lines[i].Quantity) {
			return shared.NewDomainError("QUANTITY_EXCEEDED",
				fmt.Sprintf("Shipped quantity for %s exceeds ordered quantity", o.Lines[i].SKU))
		}
	}
	for i := range o.Lines {
		if qty, ok := shipped[o.Lines[i].ProductID]; ok {
			o.Lines[i].ShippedQuantity = qty
		} else {
			o.Lines[i].ShippedQuantity = decimal.Zero
		}
	}
	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderShippedEvent(o))
	return nil
}

// MarkInvoiced links the generated invoice
func (o *Order) MarkInvoiced(invoiceID uuid.UUID) error {
	if o.InvoiceID != nil {
		return shared.NewDomainError("ALREADY_INVOICED", "Order has already been invoiced")
	}
	if !o.Status.CanTransitionTo(OrderStatusInvoiced) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot invoice order in %s status", o.Status))
	}
	o.Status = OrderStatusInvoiced
	o.InvoiceID = &invoiceID
	o.Touch()
	return nil
}

// ShippedTotal returns the value of shipped goods
func (o *Order) ShippedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].ShippedAmount())
	}
	return total
}

// Quantities returns ordered quantity by product
func (o *Order) Quantities() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(o.Lines))
	for _, l := range o.Lines {
		out[l.ProductID] = l.Quantity
	}
	return out
}

// ProductIDs returns the products on the order
func (o *Order) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(o.Lines))
	for i, l := range o.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

// line returns the line for a product, or nil
func (o *Order) line(productID uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Amount)
	}
	o.TotalAmount = total
}
