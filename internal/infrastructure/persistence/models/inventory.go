package models

import (
	"time"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is one stock movement. The table is insert only.
type LedgerEntryModel struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key"`
	ProductID  uuid.UUID            `gorm:"type:uuid;not null;index:idx_ledger_product_time,priority:1"`
	EntryType  inventory.EntryType  `gorm:"type:varchar(20);not null"`
	Quantity   decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	SourceType inventory.SourceType `gorm:"type:varchar(30);not null;index:idx_ledger_source,priority:1"`
	SourceID   *uuid.UUID           `gorm:"type:uuid;index:idx_ledger_source,priority:2"`
	Week       shared.Week          `gorm:"type:varchar(8);not null"`
	OccurredAt time.Time            `gorm:"not null;index:idx_ledger_product_time,priority:2"`
	Note       string               `gorm:"type:varchar(500)"`
	CreatedBy  *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "stock_ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() inventory.LedgerEntry {
	return inventory.LedgerEntry{
		ID:         m.ID,
		ProductID:  m.ProductID,
		EntryType:  m.EntryType,
		Quantity:   m.Quantity,
		SourceType: m.SourceType,
		SourceID:   m.SourceID,
		Week:       m.Week,
		OccurredAt: m.OccurredAt,
		Note:       m.Note,
		CreatedBy:  m.CreatedBy,
	}
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e inventory.LedgerEntry) LedgerEntryModel {
	return LedgerEntryModel{
		ID:         e.ID,
		ProductID:  e.ProductID,
		EntryType:  e.EntryType,
		Quantity:   e.Quantity,
		SourceType: e.SourceType,
		SourceID:   e.SourceID,
		Week:       e.Week,
		OccurredAt: e.OccurredAt,
		Note:       e.Note,
		CreatedBy:  e.CreatedBy,
	}
}

// StoreInventoryModel is the persistence model for a store's weekly shelf count.
type StoreInventoryModel struct {
	AggregateModel
	StoreID     uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_store_inventory_week,priority:1"`
	Week        shared.Week               `gorm:"type:varchar(8);not null;uniqueIndex:idx_store_inventory_week,priority:2"`
	Lines       []StoreInventoryLineModel `gorm:"foreignKey:StoreInventoryID;references:ID"`
	Status      inventory.CountStatus     `gorm:"type:varchar(20);not null"`
	SubmittedAt *time.Time
}

// TableName returns the table name for GORM
func (StoreInventoryModel) TableName() string {
	return "store_inventories"
}

// ToDomain converts the persistence model to a domain StoreInventory.
func (m *StoreInventoryModel) ToDomain() *inventory.StoreInventory {
	inv := &inventory.StoreInventory{
		BaseAggregateRoot: m.ToAggregateRoot(),
		StoreID:           m.StoreID,
		Week:              m.Week,
		Status:            m.Status,
		SubmittedAt:       m.SubmittedAt,
		Lines:             make([]inventory.StoreInventoryLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		inv.Lines[i] = inventory.StoreInventoryLine{
			ID:               l.ID,
			StoreInventoryID: l.StoreInventoryID,
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
		}
	}
	return inv
}

// StoreInventoryModelFromDomain creates a new persistence model from a domain StoreInventory.
func StoreInventoryModelFromDomain(inv *inventory.StoreInventory) *StoreInventoryModel {
	m := &StoreInventoryModel{
		StoreID:     inv.StoreID,
		Week:        inv.Week,
		Status:      inv.Status,
		SubmittedAt: inv.SubmittedAt,
		Lines:       make([]StoreInventoryLineModel, len(inv.Lines)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, l := range inv.Lines {
		m.Lines[i] = StoreInventoryLineModel{
			ID:               l.ID,
			StoreInventoryID: inv.ID,
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
		}
	}
	return m
}

// StoreInventoryLineModel is one counted product
type StoreInventoryLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	StoreInventoryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (StoreInventoryLineModel) TableName() string {
	return "store_inventory_lines"
}
