package inventory

import (
	"time"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Stock DTOs ====================

// StockLevelResponse represents a product's computed stock in API responses
type StockLevelResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku,omitempty"`
	Name      string          `json:"name,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
}

// ToStockLevelResponse converts a level, labelled with product details when known
func ToStockLevelResponse(lvl inventory.StockLevel, p *catalog.Product) StockLevelResponse {
	resp := StockLevelResponse{
		ProductID: lvl.ProductID,
		OnHand:    lvl.OnHand,
		Reserved:  lvl.Reserved,
		Available: lvl.Available,
	}
	if p != nil {
		resp.SKU = p.SKU
		resp.Name = p.Name
		resp.Unit = string(p.Unit)
	}
	return resp
}

// AdjustStockRequest represents a manual count correction
type AdjustStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Direction string          `json:"direction" binding:"required,oneof=IN OUT"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
	Note      string          `json:"note" binding:"max=500"`
	ActorID   *uuid.UUID      `json:"-"`
}

// QualityLossRequest represents warehouse spoilage being written off
type QualityLossRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,decimal_gt0"`
	IssueID   *uuid.UUID      `json:"issue_id"`
	Note      string          `json:"note" binding:"max=500"`
	ActorID   *uuid.UUID      `json:"-"`
}

// ==================== Ledger DTOs ====================

// LedgerEntryResponse represents a stock movement in API responses
type LedgerEntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	EntryType  string          `json:"entry_type"`
	Quantity   decimal.Decimal `json:"quantity"`
	SourceType string          `json:"source_type"`
	SourceID   *uuid.UUID      `json:"source_id,omitempty"`
	Week       string          `json:"week"`
	OccurredAt time.Time       `json:"occurred_at"`
	Note       string          `json:"note"`
}

// ToLedgerEntryResponse converts a ledger entry to its response
func ToLedgerEntryResponse(e inventory.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:         e.ID,
		ProductID:  e.ProductID,
		EntryType:  string(e.EntryType),
		Quantity:   e.Quantity,
		SourceType: string(e.SourceType),
		SourceID:   e.SourceID,
		Week:       e.Week.String(),
		OccurredAt: e.OccurredAt,
		Note:       e.Note,
	}
}

// LedgerListFilter represents filter options for a product's ledger
type LedgerListFilter struct {
	EntryType string `form:"entry_type"`
	Week      string `form:"week" binding:"omitempty,iso_week"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f LedgerListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "occurred_at"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.EntryType != "" {
		filter = filter.With("entry_type", f.EntryType)
	}
	if f.Week != "" {
		filter = filter.With("week", f.Week)
	}
	return filter
}

// ==================== Store Inventory DTOs ====================

// CountLine is one product's counted shelf quantity
type CountLine struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// SubmitCountRequest represents a store's weekly shelf count
type SubmitCountRequest struct {
	StoreID uuid.UUID   `json:"store_id" binding:"required"`
	Week    string      `json:"week" binding:"required,iso_week"`
	Lines   []CountLine `json:"lines" binding:"required,min=1,dive"`
}

// StoreInventoryResponse represents a shelf count in API responses
type StoreInventoryResponse struct {
	ID          uuid.UUID   `json:"id"`
	StoreID     uuid.UUID   `json:"store_id"`
	Week        string      `json:"week"`
	Status      string      `json:"status"`
	Lines       []CountLine `json:"lines"`
	SubmittedAt *time.Time  `json:"submitted_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ToStoreInventoryResponse converts a shelf count to its response
func ToStoreInventoryResponse(inv *inventory.StoreInventory) StoreInventoryResponse {
	lines := make([]CountLine, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = CountLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return StoreInventoryResponse{
		ID:          inv.ID,
		StoreID:     inv.StoreID,
		Week:        inv.Week.String(),
		Status:      string(inv.Status),
		Lines:       lines,
		SubmittedAt: inv.SubmittedAt,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}
