package workorder

import (
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateRequest asks for the work order of a delivery week
type GenerateRequest struct {
	Week string `json:"week" binding:"required,iso_week"`
}

// RecordPickRequest sets the picked quantity of one line
type RecordPickRequest struct {
	LineID   uuid.UUID       `json:"line_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LineResponse is one pick line
type LineResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	StoreID   uuid.UUID       `json:"store_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Allocated decimal.Decimal `json:"allocated"`
	Short     decimal.Decimal `json:"short"`
	Picked    decimal.Decimal `json:"picked"`
}

// WorkOrderResponse represents a work order in API responses
type WorkOrderResponse struct {
	ID          uuid.UUID      `json:"id"`
	Number      string         `json:"number"`
	Week        string         `json:"week"`
	Status      string         `json:"status"`
	Lines       []LineResponse `json:"lines"`
	OrderCount  int            `json:"order_count"`
	ReleasedAt  *time.Time     `json:"released_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Version     int            `json:"version"`
}

// ToWorkOrderResponse converts a work order to its response
func ToWorkOrderResponse(wo *workorder.WorkOrder) WorkOrderResponse {
	lines := make([]LineResponse, len(wo.Lines))
	for i, l := range wo.Lines {
		lines[i] = LineResponse{
			ID:        l.ID,
			OrderID:   l.OrderID,
			StoreID:   l.StoreID,
			ProductID: l.ProductID,
			Requested: l.Requested,
			Allocated: l.Allocated,
			Short:     l.Requested.Sub(l.Allocated),
			Picked:    l.Picked,
		}
	}
	return WorkOrderResponse{
		ID:          wo.ID,
		Number:      wo.Number,
		Week:        wo.Week.String(),
		Status:      string(wo.Status),
		Lines:       lines,
		OrderCount:  len(wo.OrderIDs()),
		ReleasedAt:  wo.ReleasedAt,
		CompletedAt: wo.CompletedAt,
		CancelledAt: wo.CancelledAt,
		CreatedAt:   wo.CreatedAt,
		Version:     wo.Version,
	}
}

// ListFilter represents filter options for listing work orders
type ListFilter struct {
	Week     string `form:"week" binding:"omitempty,iso_week"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT RELEASED COMPLETED CANCELLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f ListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.Week != "" {
		filter = filter.With("week", f.Week)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}
