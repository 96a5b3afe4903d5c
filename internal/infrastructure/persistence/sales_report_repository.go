package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/report"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalesReportRepository aggregates invoiced revenue in SQL
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// SalesByWeek totals non void invoices per week, inclusive of both ends.
// Weeks without invoices are absent.
func (r *GormSalesReportRepository) SalesByWeek(ctx context.Context, from, to shared.Week) ([]report.WeeklySales, error) {
	var rows []report.WeeklySales
	err := conn(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Select("week, COUNT(*) AS invoice_count, SUM(total_amount) AS total_amount").
		Where("week >= ? AND week <= ? AND status <> ?", from, to, finance.InvoiceStatusVoid).
		Group("week").
		Order("week ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesByStore totals non void invoices per store over the period
func (r *GormSalesReportRepository) SalesByStore(ctx context.Context, from, to shared.Week) ([]report.StoreSales, error) {
	var rows []report.StoreSales
	err := conn(ctx, r.db).
		Table("invoices AS i").
		Select("i.store_id AS store_id, s.code AS store_code, s.name AS store_name, COUNT(*) AS invoice_count, SUM(i.total_amount) AS total_amount").
		Joins("JOIN stores AS s ON s.id = i.store_id").
		Where("i.week >= ? AND i.week <= ? AND i.status <> ?", from, to, finance.InvoiceStatusVoid).
		Group("i.store_id, s.code, s.name").
		Order("total_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormSalesReportRepository implements SalesReportRepository
var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)
