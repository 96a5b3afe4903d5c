package models

import (
	"time"

	"github.com/freshline/backend/internal/domain/quality"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IssueModel is the persistence model for a quality issue reported by a store.
type IssueModel struct {
	AggregateModel
	StoreID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	InvoiceID      *uuid.UUID          `gorm:"type:uuid"`
	ProductID      uuid.UUID           `gorm:"type:uuid;not null"`
	Type           quality.IssueType   `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Description    string              `gorm:"type:text"`
	PhotoKeys      JSON[[]string]      `gorm:"type:jsonb;not null"`
	Status         quality.IssueStatus `gorm:"type:varchar(20);not null;index"`
	CreditMemoID   *uuid.UUID          `gorm:"type:uuid"`
	CreditAmount   decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ResolutionNote string              `gorm:"type:varchar(500)"`
	ReportedBy     uuid.UUID           `gorm:"type:uuid;not null"`
	ReviewedBy     *uuid.UUID          `gorm:"type:uuid"`
	ReviewedAt     *time.Time
}

// TableName returns the table name for GORM
func (IssueModel) TableName() string {
	return "quality_issues"
}

// ToDomain converts the persistence model to a domain Issue.
func (m *IssueModel) ToDomain() *quality.Issue {
	return &quality.Issue{
		BaseAggregateRoot: m.ToAggregateRoot(),
		StoreID:           m.StoreID,
		OrderID:           m.OrderID,
		InvoiceID:         m.InvoiceID,
		ProductID:         m.ProductID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		Description:       m.Description,
		PhotoKeys:         m.PhotoKeys.Data,
		Status:            m.Status,
		CreditMemoID:      m.CreditMemoID,
		CreditAmount:      m.CreditAmount,
		ResolutionNote:    m.ResolutionNote,
		ReportedBy:        m.ReportedBy,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
	}
}

// IssueModelFromDomain creates a new persistence model from a domain Issue.
func IssueModelFromDomain(i *quality.Issue) *IssueModel {
	keys := i.PhotoKeys
	if keys == nil {
		keys = []string{}
	}
	m := &IssueModel{
		StoreID:        i.StoreID,
		OrderID:        i.OrderID,
		InvoiceID:      i.InvoiceID,
		ProductID:      i.ProductID,
		Type:           i.Type,
		Quantity:       i.Quantity,
		UnitPrice:      i.UnitPrice,
		Description:    i.Description,
		PhotoKeys:      NewJSON(keys),
		Status:         i.Status,
		CreditMemoID:   i.CreditMemoID,
		CreditAmount:   i.CreditAmount,
		ResolutionNote: i.ResolutionNote,
		ReportedBy:     i.ReportedBy,
		ReviewedBy:     i.ReviewedBy,
		ReviewedAt:     i.ReviewedAt,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}
