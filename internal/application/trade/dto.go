package trade

import (
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// OrderLineInput represents a requested product and quantity
type OrderLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
}

// CreateOrderRequest represents a store placing a direct order
type CreateOrderRequest struct {
	StoreID      uuid.UUID        `json:"store_id" binding:"required"`
	DeliveryWeek string           `json:"delivery_week" binding:"required,iso_week"`
	Lines        []OrderLineInput `json:"lines" binding:"required,min=1,dive"`
	Notes        string           `json:"notes" binding:"max=2000"`
	CreatedBy    *uuid.UUID       `json:"-"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Amount          decimal.Decimal `json:"amount"`
	ShippedQuantity decimal.Decimal `json:"shipped_quantity"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	StoreID      uuid.UUID           `json:"store_id"`
	DeliveryWeek string              `json:"delivery_week"`
	Lines        []OrderLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Status       string              `json:"status"`
	Source       string              `json:"source"`
	PreOrderID   *uuid.UUID          `json:"preorder_id,omitempty"`
	WorkOrderID  *uuid.UUID          `json:"work_order_id,omitempty"`
	InvoiceID    *uuid.UUID          `json:"invoice_id,omitempty"`
	Notes        string              `json:"notes"`
	ShippedAt    *time.Time          `json:"shipped_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// ToOrderResponse converts an order to its response
func ToOrderResponse(o *trade.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:              l.ID,
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
	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		StoreID:      o.StoreID,
		DeliveryWeek: o.DeliveryWeek.String(),
		Lines:        lines,
		TotalAmount:  o.TotalAmount,
		Status:       string(o.Status),
		Source:       string(o.Source),
		PreOrderID:   o.PreOrderID,
		WorkOrderID:  o.WorkOrderID,
		InvoiceID:    o.InvoiceID,
		Notes:        o.Notes,
		ShippedAt:    o.ShippedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}

// OrderListFilter represents filter options for listing orders
type OrderListFilter struct {
	StoreID  *uuid.UUID `form:"-"` // query: store_id
	Week     string     `form:"week" binding:"omitempty,iso_week"`
	Status   string     `form:"status" binding:"omitempty,oneof=CONFIRMED PICKING SHIPPED INVOICED CANCELLED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=created_at order_number total_amount"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f OrderListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	if f.StoreID != nil {
		filter = filter.With("store_id", *f.StoreID)
	}
	if f.Week != "" {
		filter = filter.With("week", f.Week)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}

func pageFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}

// ==================== Order Matrix DTOs ====================

// MatrixLineInput represents a par level for one product
type MatrixLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Par       decimal.Decimal `json:"par"`
}

// UpsertMatrixRequest replaces a store's par levels
type UpsertMatrixRequest struct {
	Lines []MatrixLineInput `json:"lines" binding:"dive"`
}

// OrderMatrixResponse represents a store's par levels in API responses
type OrderMatrixResponse struct {
	StoreID   uuid.UUID         `json:"store_id"`
	Lines     []MatrixLineInput `json:"lines"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToOrderMatrixResponse converts an order matrix to its response
func ToOrderMatrixResponse(m *trade.OrderMatrix) OrderMatrixResponse {
	lines := make([]MatrixLineInput, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = MatrixLineInput{ProductID: l.ProductID, Par: l.Par}
	}
	return OrderMatrixResponse{StoreID: m.StoreID, Lines: lines, UpdatedAt: m.UpdatedAt}
}

// ==================== PreOrder DTOs ====================

// UpdatePreOrderLineRequest changes the requested quantity of one product
type UpdatePreOrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// PreOrderLineResponse represents a preorder line in API responses
type PreOrderLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Suggested decimal.Decimal `json:"suggested"`
	Requested decimal.Decimal `json:"requested"`
	Promoted  decimal.Decimal `json:"promoted"`
	Short     decimal.Decimal `json:"short"`
}

// PreOrderResponse represents a preorder in API responses
type PreOrderResponse struct {
	ID          uuid.UUID              `json:"id"`
	StoreID     uuid.UUID              `json:"store_id"`
	Week        string                 `json:"week"`
	Status      string                 `json:"status"`
	Lines       []PreOrderLineResponse `json:"lines"`
	OrderID     *uuid.UUID             `json:"order_id,omitempty"`
	ConfirmedAt *time.Time             `json:"confirmed_at,omitempty"`
	PromotedAt  *time.Time             `json:"promoted_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Version     int                    `json:"version"`
}

// ToPreOrderResponse converts a preorder to its response
func ToPreOrderResponse(p *trade.PreOrder) PreOrderResponse {
	lines := make([]PreOrderLineResponse, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = PreOrderLineResponse{
			ProductID: l.ProductID,
			Suggested: l.Suggested,
			Requested: l.Requested,
			Promoted:  l.Promoted,
			Short:     l.Short,
		}
	}
	return PreOrderResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Week:        p.Week.String(),
		Status:      string(p.Status),
		Lines:       lines,
		OrderID:     p.OrderID,
		ConfirmedAt: p.ConfirmedAt,
		PromotedAt:  p.PromotedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// PreOrderListFilter represents filter options for listing preorders
type PreOrderListFilter struct {
	StoreID  *uuid.UUID `form:"-"` // query: store_id
	Week     string     `form:"week" binding:"omitempty,iso_week"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED PROMOTED EXPIRED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f PreOrderListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.StoreID != nil {
		filter = filter.With("store_id", *f.StoreID)
	}
	if f.Week != "" {
		filter = filter.With("week", f.Week)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}

// GenerateResult summarizes a batch run over stores
type GenerateResult struct {
	Week    string `json:"week"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

// ==================== Purchase Order DTOs ====================

// POLineRequest represents a purchase order line
type POLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required,decimal_gt0"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	VendorID     uuid.UUID       `json:"vendor_id" binding:"required"`
	ExpectedWeek string          `json:"expected_week" binding:"required,iso_week"`
	Lines        []POLineRequest `json:"lines" binding:"omitempty,dive"`
	Notes        string          `json:"notes" binding:"max=2000"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// UpdatePurchaseOrderRequest replaces the lines of a draft purchase order
type UpdatePurchaseOrderRequest struct {
	ExpectedWeek string          `json:"expected_week" binding:"omitempty,iso_week"`
	Lines        []POLineRequest `json:"lines" binding:"required,dive"`
	Notes        *string         `json:"notes" binding:"omitempty,max=2000"`
}

// ReceiveLineRequest represents a received quantity
type ReceiveLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
}

// ReceivePurchaseOrderRequest represents goods arriving against a purchase order
type ReceivePurchaseOrderRequest struct {
	Lines []ReceiveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CancelPurchaseOrderRequest represents a request to cancel a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderLineResponse represents a purchase order line in API responses
type PurchaseOrderLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	SKU              string          `json:"sku"`
	Unit             string          `json:"unit"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Amount           decimal.Decimal `json:"amount"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	VendorID     uuid.UUID                   `json:"vendor_id"`
	ExpectedWeek string                      `json:"expected_week"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Status       string                      `json:"status"`
	Notes        string                      `json:"notes"`
	SubmittedAt  *time.Time                  `json:"submitted_at,omitempty"`
	ReceivedAt   *time.Time                  `json:"received_at,omitempty"`
	CancelledAt  *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason string                      `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Version      int                         `json:"version"`
}

// ToPurchaseOrderResponse converts a purchase order to its response
func ToPurchaseOrderResponse(po *trade.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, len(po.Lines))
	for i, l := range po.Lines {
		lines[i] = PurchaseOrderLineResponse{
			ID:               l.ID,
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
	return PurchaseOrderResponse{
		ID:           po.ID,
		OrderNumber:  po.OrderNumber,
		VendorID:     po.VendorID,
		ExpectedWeek: po.ExpectedWeek.String(),
		Lines:        lines,
		TotalAmount:  po.TotalAmount,
		Status:       string(po.Status),
		Notes:        po.Notes,
		SubmittedAt:  po.SubmittedAt,
		ReceivedAt:   po.ReceivedAt,
		CancelledAt:  po.CancelledAt,
		CancelReason: po.CancelReason,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
		Version:      po.Version,
	}
}

// PurchaseOrderListFilter represents filter options for listing purchase orders
type PurchaseOrderListFilter struct {
	VendorID *uuid.UUID `form:"-"` // query: vendor_id
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED PARTIALLY_RECEIVED RECEIVED CANCELLED"`
	Week     string     `form:"week" binding:"omitempty,iso_week"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f PurchaseOrderListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.VendorID != nil {
		filter = filter.With("vendor_id", *f.VendorID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	if f.Week != "" {
		filter = filter.With("week", f.Week)
	}
	return filter
}
