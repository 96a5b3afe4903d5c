package catalog

import (
	"time"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU             string          `json:"sku" binding:"required,min=1,max=50"`
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	Category        string          `json:"category" binding:"required,oneof=FRUIT VEGETABLE HERB OTHER"`
	Unit            string          `json:"unit" binding:"required,oneof=CASE LB EACH BUNCH"`
	PackSize        string          `json:"pack_size" binding:"max=100"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	DefaultVendorID *uuid.UUID      `json:"default_vendor_id"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category        *string          `json:"category" binding:"omitempty,oneof=FRUIT VEGETABLE HERB OTHER"`
	Unit            *string          `json:"unit" binding:"omitempty,oneof=CASE LB EACH BUNCH"`
	PackSize        *string          `json:"pack_size" binding:"omitempty,max=100"`
	CostPrice       *decimal.Decimal `json:"cost_price"`
	SellPrice       *decimal.Decimal `json:"sell_price"`
	DefaultVendorID *uuid.UUID       `json:"default_vendor_id"`
	ClearVendor     bool             `json:"clear_vendor"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	PackSize        string          `json:"pack_size"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	Margin          decimal.Decimal `json:"margin"`
	DefaultVendorID *uuid.UUID      `json:"default_vendor_id,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"omitempty,oneof=FRUIT VEGETABLE HERB OTHER"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=sku name sell_price created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ProductListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "sku"
	filter.OrderDir = "asc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	if f.Category != "" {
		filter = filter.With("category", f.Category)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Category:        string(p.Category),
		Unit:            string(p.Unit),
		PackSize:        p.PackSize,
		CostPrice:       p.CostPrice,
		SellPrice:       p.SellPrice,
		Margin:          p.Margin(),
		DefaultVendorID: p.DefaultVendorID,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToProductResponses converts a slice of products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
