package report

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WeeklySales is invoiced revenue for one week.
// This is a read model computed from invoices.
type WeeklySales struct {
	Week         shared.Week     `json:"week"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// StoreSales is invoiced revenue for one store over the period
type StoreSales struct {
	StoreID      uuid.UUID       `json:"store_id"`
	StoreCode    string          `json:"store_code"`
	StoreName    string          `json:"store_name"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// SalesSummary is invoiced revenue between two weeks, inclusive
type SalesSummary struct {
	FromWeek    shared.Week     `json:"from_week"`
	ToWeek      shared.Week     `json:"to_week"`
	ByWeek      []WeeklySales   `json:"by_week"`
	ByStore     []StoreSales    `json:"by_store"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SalesReportRepository defines the queries behind the sales summary
type SalesReportRepository interface {
	// SalesByWeek excludes void invoices
	SalesByWeek(ctx context.Context, from, to shared.Week) ([]WeeklySales, error)
	SalesByStore(ctx context.Context, from, to shared.Week) ([]StoreSales, error)
}

// NewSalesSummary totals the per week rows
func NewSalesSummary(from, to shared.Week, byWeek []WeeklySales, byStore []StoreSales) *SalesSummary {
	total := decimal.Zero
	for _, w := range byWeek {
		total = total.Add(w.TotalAmount)
	}
	return &SalesSummary{
		FromWeek:    from,
		ToWeek:      to,
		ByWeek:      byWeek,
		ByStore:     byStore,
		TotalAmount: total,
	}
}
