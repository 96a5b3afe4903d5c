package catalog

import (
	"strings"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents whether a product can be ordered
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
)

// IsValid checks if the status is known
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Unit is the selling unit of a product
type Unit string

const (
	UnitCase  Unit = "CASE"
	UnitPound Unit = "LB"
	UnitEach  Unit = "EACH"
	UnitBunch Unit = "BUNCH"
)

// IsValid checks if the unit is known
func (u Unit) IsValid() bool {
	switch u {
	case UnitCase, UnitPound, UnitEach, UnitBunch:
		return true
	}
	return false
}

// Category groups produce for reporting
type Category string

const (
	CategoryFruit     Category = "FRUIT"
	CategoryVegetable Category = "VEGETABLE"
	CategoryHerb      Category = "HERB"
	CategoryOther     Category = "OTHER"
)

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryFruit, CategoryVegetable, CategoryHerb, CategoryOther:
		return true
	}
	return false
}

// Product is a sellable produce item
type Product struct {
	shared.BaseAggregateRoot
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        Category        `json:"category"`
	Unit            Unit            `json:"unit"`
	PackSize        string          `json:"pack_size"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellPrice       decimal.Decimal `json:"sell_price"`
	DefaultVendorID *uuid.UUID      `json:"default_vendor_id,omitempty"`
	Status          ProductStatus   `json:"status"`
}

// NewProduct creates an active product
func NewProduct(sku, name string, category Category, unit Unit) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" || len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU must be 1-50 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name must be 1-200 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown product unit")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Category:          category,
		Unit:              unit,
		CostPrice:         decimal.Zero,
		SellPrice:         decimal.Zero,
		Status:            ProductStatusActive,
	}
	return p, nil
}

// Update changes the descriptive fields
func (p *Product) Update(name string, category Category, unit Unit, packSize string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name must be 1-200 characters")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if !unit.IsValid() {
		return shared.NewDomainError("INVALID_UNIT", "Unknown product unit")
	}
	p.Name = name
	p.Category = category
	p.Unit = unit
	p.PackSize = strings.TrimSpace(packSize)
	p.Touch()
	return nil
}

// SetPrices sets cost and sell price
func (p *Product) SetPrices(cost, sell decimal.Decimal) error {
	if cost.IsNegative() || sell.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	p.CostPrice = cost
	p.SellPrice = sell
	p.Touch()
	return nil
}

// SetDefaultVendor assigns the usual supplier
func (p *Product) SetDefaultVendor(vendorID *uuid.UUID) {
	p.DefaultVendorID = vendorID
	p.Touch()
}

// Activate makes the product orderable
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.Touch()
	return nil
}

// Deactivate removes the product from ordering
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.Touch()
	return nil
}

// IsActive returns true if the product can be ordered
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Margin returns sell minus cost
func (p *Product) Margin() decimal.Decimal {
	return p.SellPrice.Sub(p.CostPrice)
}
