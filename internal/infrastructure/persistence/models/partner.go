package models

import (
	"time"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreModel is the persistence model for the Store aggregate root.
type StoreModel struct {
	AggregateModel
	Code             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(200);not null"`
	ContactName      string          `gorm:"type:varchar(100)"`
	Phone            string          `gorm:"type:varchar(50)"`
	Email            string          `gorm:"type:varchar(200)"`
	Address          string          `gorm:"type:text"`
	PaymentTermsDays int             `gorm:"not null;default:0"`
	CreditLimit      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Balance          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Active           bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store entity.
func (m *StoreModel) ToDomain() *partner.Store {
	return &partner.Store{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		ContactName:       m.ContactName,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		PaymentTermsDays:  m.PaymentTermsDays,
		CreditLimit:       m.CreditLimit,
		Balance:           m.Balance,
		Active:            m.Active,
	}
}

// StoreModelFromDomain creates a new persistence model from a domain Store entity.
func StoreModelFromDomain(s *partner.Store) *StoreModel {
	m := &StoreModel{
		Code:             s.Code,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Phone:            s.Phone,
		Email:            s.Email,
		Address:          s.Address,
		PaymentTermsDays: s.PaymentTermsDays,
		CreditLimit:      s.CreditLimit,
		Balance:          s.Balance,
		Active:           s.Active,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// BalanceEntryModel is one row of a store's balance history. Rows are never updated.
type BalanceEntryModel struct {
	ID            uuid.UUID                `gorm:"type:uuid;primary_key"`
	StoreID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	EntryType     partner.BalanceEntryType `gorm:"type:varchar(30);not null"`
	Amount        decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	BalanceBefore decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	BalanceAfter  decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	SourceType    string                   `gorm:"type:varchar(30)"`
	SourceID      *uuid.UUID               `gorm:"type:uuid;index"`
	Memo          string                   `gorm:"type:varchar(500)"`
	CreatedAt     time.Time                `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BalanceEntryModel) TableName() string {
	return "store_balance_entries"
}

// ToDomain converts the persistence model to a domain BalanceEntry.
func (m *BalanceEntryModel) ToDomain() partner.BalanceEntry {
	return partner.BalanceEntry{
		ID:            m.ID,
		StoreID:       m.StoreID,
		EntryType:     m.EntryType,
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
		Memo:          m.Memo,
		CreatedAt:     m.CreatedAt,
	}
}

// BalanceEntryModelFromDomain creates a new persistence model from a domain BalanceEntry.
func BalanceEntryModelFromDomain(e partner.BalanceEntry) BalanceEntryModel {
	return BalanceEntryModel{
		ID:            e.ID,
		StoreID:       e.StoreID,
		EntryType:     e.EntryType,
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		SourceType:    e.SourceType,
		SourceID:      e.SourceID,
		Memo:          e.Memo,
		CreatedAt:     e.CreatedAt,
	}
}

// AdjustmentModel is the persistence model for the Adjustment aggregate root.
type AdjustmentModel struct {
	AggregateModel
	StoreID     uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Direction   partner.AdjustmentDirection `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Reason      string                      `gorm:"type:varchar(500);not null"`
	Status      partner.AdjustmentStatus    `gorm:"type:varchar(20);not null;index"`
	RequestedBy *uuid.UUID                  `gorm:"type:uuid"`
	ReviewedBy  *uuid.UUID                  `gorm:"type:uuid"`
	ReviewedAt  *time.Time
	ReviewNote  string     `gorm:"type:varchar(500)"`
	EntryID     *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AdjustmentModel) TableName() string {
	return "adjustments"
}

// ToDomain converts the persistence model to a domain Adjustment entity.
func (m *AdjustmentModel) ToDomain() *partner.Adjustment {
	return &partner.Adjustment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		StoreID:           m.StoreID,
		Direction:         m.Direction,
		Amount:            m.Amount,
		Reason:            m.Reason,
		Status:            m.Status,
		RequestedBy:       m.RequestedBy,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		ReviewNote:        m.ReviewNote,
		EntryID:           m.EntryID,
	}
}

// AdjustmentModelFromDomain creates a new persistence model from a domain Adjustment entity.
func AdjustmentModelFromDomain(a *partner.Adjustment) *AdjustmentModel {
	m := &AdjustmentModel{
		StoreID:     a.StoreID,
		Direction:   a.Direction,
		Amount:      a.Amount,
		Reason:      a.Reason,
		Status:      a.Status,
		RequestedBy: a.RequestedBy,
		ReviewedBy:  a.ReviewedBy,
		ReviewedAt:  a.ReviewedAt,
		ReviewNote:  a.ReviewNote,
		EntryID:     a.EntryID,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// VendorModel is the persistence model for the Vendor aggregate root.
type VendorModel struct {
	AggregateModel
	Code             string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string `gorm:"type:varchar(200);not null"`
	ContactName      string `gorm:"type:varchar(100)"`
	Phone            string `gorm:"type:varchar(50)"`
	Email            string `gorm:"type:varchar(200)"`
	Address          string `gorm:"type:text"`
	PaymentTermsDays int    `gorm:"not null;default:0"`
	Active           bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the persistence model to a domain Vendor entity.
func (m *VendorModel) ToDomain() *partner.Vendor {
	return &partner.Vendor{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		ContactName:       m.ContactName,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		PaymentTermsDays:  m.PaymentTermsDays,
		Active:            m.Active,
	}
}

// VendorModelFromDomain creates a new persistence model from a domain Vendor entity.
func VendorModelFromDomain(v *partner.Vendor) *VendorModel {
	m := &VendorModel{
		Code:             v.Code,
		Name:             v.Name,
		ContactName:      v.ContactName,
		Phone:            v.Phone,
		Email:            v.Email,
		Address:          v.Address,
		PaymentTermsDays: v.PaymentTermsDays,
		Active:           v.Active,
	}
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	return m
}
