package models

import (
	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	SKU             string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string                `gorm:"type:varchar(200);not null"`
	Category        catalog.Category      `gorm:"type:varchar(30);not null;index"`
	Unit            catalog.Unit          `gorm:"type:varchar(20);not null"`
	PackSize        string                `gorm:"type:varchar(50)"`
	CostPrice       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	SellPrice       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DefaultVendorID *uuid.UUID            `gorm:"type:uuid"`
	Status          catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SKU:               m.SKU,
		Name:              m.Name,
		Category:          m.Category,
		Unit:              m.Unit,
		PackSize:          m.PackSize,
		CostPrice:         m.CostPrice,
		SellPrice:         m.SellPrice,
		DefaultVendorID:   m.DefaultVendorID,
		Status:            m.Status,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		SKU:             p.SKU,
		Name:            p.Name,
		Category:        p.Category,
		Unit:            p.Unit,
		PackSize:        p.PackSize,
		CostPrice:       p.CostPrice,
		SellPrice:       p.SellPrice,
		DefaultVendorID: p.DefaultVendorID,
		Status:          p.Status,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
