package trade

import (
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusSubmitted         PurchaseOrderStatus = "SUBMITTED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSubmitted, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSubmitted || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSubmitted:
		return target == PurchaseOrderStatusPartiallyReceived ||
			target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived
	}
	return false
}

// CanReceive returns true if goods can be received against the order
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusSubmitted || s == PurchaseOrderStatusPartiallyReceived
}

// PurchaseOrderLine is a line item of a purchase order
type PurchaseOrderLine struct {
	ID               uuid.UUID       `json:"id"`
	PurchaseOrderID  uuid.UUID       `json:"purchase_order_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	SKU              string          `json:"sku"`
	Unit             string          `json:"unit"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Amount           decimal.Decimal `json:"amount"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// RemainingQuantity returns the quantity still expected
func (l *PurchaseOrderLine) RemainingQuantity() decimal.Decimal {
	return l.OrderedQuantity.Sub(l.ReceivedQuantity)
}

// POLineInput describes a purchase order line
type POLineInput struct {
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Unit        string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// ReceiveItem is a quantity received for one product
type ReceiveItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// PurchaseOrder is an order placed with a vendor
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string              `json:"order_number"`
	VendorID     uuid.UUID           `json:"vendor_id"`
	ExpectedWeek shared.Week         `json:"expected_week"`
	Lines        []PurchaseOrderLine `json:"lines"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Status       PurchaseOrderStatus `json:"status"`
	Notes        string              `json:"notes"`
	CreatedBy    *uuid.UUID          `json:"created_by,omitempty"`
	SubmittedAt  *time.Time          `json:"submitted_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason string              `json:"cancel_reason"`
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(orderNumber string, vendorID uuid.UUID, week shared.Week) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if !week.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEK", "Invalid expected week")
	}
	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		VendorID:          vendorID,
		ExpectedWeek:      week,
		Lines:             []PurchaseOrderLine{},
		TotalAmount:       decimal.Zero,
		Status:            PurchaseOrderStatusDraft,
	}
	po.AddDomainEvent(NewPurchaseOrderCreatedEvent(po))
	return po, nil
}

// SetLines replaces every line. Only allowed in DRAFT status.
func (po *PurchaseOrder) SetLines(lines []POLineInput) error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only modify lines in DRAFT status")
	}
	seen := make(map[uuid.UUID]bool, len(lines))
	out := make([]PurchaseOrderLine, 0, len(lines))
	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if seen[in.ProductID] {
			return shared.NewDomainError("DUPLICATE_PRODUCT", fmt.Sprintf("Product %s appears more than once", in.SKU))
		}
		if !in.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if in.UnitCost.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
		}
		seen[in.ProductID] = true
		out = append(out, PurchaseOrderLine{
			ID:               uuid.New(),
			PurchaseOrderID:  po.ID,
			ProductID:        in.ProductID,
			ProductName:      in.ProductName,
			SKU:              in.SKU,
			Unit:             in.Unit,
			OrderedQuantity:  in.Quantity,
			UnitCost:         in.UnitCost,
			Amount:           in.Quantity.Mul(in.UnitCost).Round(2),
			ReceivedQuantity: decimal.Zero,
		})
	}
	po.Lines = out
	po.recalculateTotal()
	po.Touch()
	return nil
}

// SetExpectedWeek changes the expected delivery week (DRAFT only)
func (po *PurchaseOrder) SetExpectedWeek(week shared.Week) error {
	if po.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only change expected week in DRAFT status")
	}
	if !week.IsValid() {
		return shared.NewDomainError("INVALID_WEEK", "Invalid expected week")
	}
	po.ExpectedWeek = week
	po.Touch()
	return nil
}

// Submit sends the draft to the vendor
func (po *PurchaseOrder) Submit() error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusSubmitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", po.Status))
	}
	if len(po.Lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without lines")
	}
	now := time.Now()
	po.Status = PurchaseOrderStatusSubmitted
	po.SubmittedAt = &now
	po.UpdatedAt = now
	po.AddDomainEvent(NewPurchaseOrderSubmittedEvent(po))
	return nil
}

// Receive records received quantities and returns them per line.
// Cumulative received quantity may not exceed ordered.
func (po *PurchaseOrder) Receive(items []ReceiveItem) ([]ReceiveItem, error) {
	if !po.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods in %s status", po.Status))
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Must provide items to receive")
	}

	pending := make(map[uuid.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
		}
		line := po.line(item.ProductID)
		if line == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Product %s not found in order", item.ProductID))
		}
		total := pending[item.ProductID].Add(item.Quantity)
		if total.GreaterThan(line.RemainingQuantity()) {
			return nil, shared.NewDomainError("QUANTITY_EXCEEDED",
				fmt.Sprintf("Receive quantity for %s exceeds remaining %s", line.SKU, line.RemainingQuantity().String()))
		}
		pending[item.ProductID] = total
	}

	received := make([]ReceiveItem, 0, len(pending))
	for i := range po.Lines {
		qty, ok := pending[po.Lines[i].ProductID]
		if !ok {
			continue
		}
		po.Lines[i].ReceivedQuantity = po.Lines[i].ReceivedQuantity.Add(qty)
		received = append(received, ReceiveItem{ProductID: po.Lines[i].ProductID, Quantity: qty})
	}

	now := time.Now()
	if po.isFullyReceived() {
		po.Status = PurchaseOrderStatusReceived
		po.ReceivedAt = &now
	} else {
		po.Status = PurchaseOrderStatusPartiallyReceived
	}
	po.UpdatedAt = now
	po.AddDomainEvent(NewPurchaseOrderReceivedEvent(po, received))
	return received, nil
}

// Cancel cancels an order nothing has been received against
func (po *PurchaseOrder) Cancel(reason string) error {
	if !po.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", po.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	now := time.Now()
	po.Status = PurchaseOrderStatusCancelled
	po.CancelledAt = &now
	po.CancelReason = reason
	po.UpdatedAt = now
	return nil
}

// ReceivedQuantities returns cumulative received quantity by product
func (po *PurchaseOrder) ReceivedQuantities() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(po.Lines))
	for _, l := range po.Lines {
		out[l.ProductID] = l.ReceivedQuantity
	}
	return out
}

// Line returns the line for a product, or nil
func (po *PurchaseOrder) Line(productID uuid.UUID) *PurchaseOrderLine {
	return po.line(productID)
}

func (po *PurchaseOrder) line(productID uuid.UUID) *PurchaseOrderLine {
	for i := range po.Lines {
		if po.Lines[i].ProductID == productID {
			return &po.Lines[i]
		}
	}
	return nil
}

func (po *PurchaseOrder) isFullyReceived() bool {
	for _, l := range po.Lines {
		if l.ReceivedQuantity.LessThan(l.OrderedQuantity) {
			return false
		}
	}
	return true
}

func (po *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, l := range po.Lines {
		total = total.Add(l.Amount)
	}
	po.TotalAmount = total
}
