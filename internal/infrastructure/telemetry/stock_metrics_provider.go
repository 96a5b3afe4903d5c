package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStockMetricsProvider implements StockMetricsProvider by summing the
// stock ledger directly.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// ReservedUnits returns reserved minus released units across all products.
func (p *GormStockMetricsProvider) ReservedUnits(ctx context.Context) (int64, error) {
	var reserved float64
	err := p.db.WithContext(ctx).
		Table("stock_ledger_entries").
		Select(`COALESCE(SUM(CASE entry_type WHEN 'RESERVE' THEN quantity WHEN 'RELEASE' THEN -quantity ELSE 0 END), 0)`).
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}
	return int64(reserved), nil
}

// OutOfStockCount returns active products whose on-hand is zero or less.
func (p *GormStockMetricsProvider) OutOfStockCount(ctx context.Context) (int64, error) {
	onHand := p.db.
		Table("stock_ledger_entries").
		Select(`product_id, SUM(CASE
			WHEN entry_type IN ('RECEIPT', 'ADJUSTMENT_IN', 'RETURN') THEN quantity
			WHEN entry_type IN ('SHIPMENT', 'ADJUSTMENT_OUT', 'QUALITY_LOSS') THEN -quantity
			ELSE 0 END) AS on_hand`).
		Group("product_id")

	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Joins("LEFT JOIN (?) AS s ON s.product_id = products.id", onHand).
		Where("products.status = ? AND COALESCE(s.on_hand, 0) <= 0", "ACTIVE").
		Count(&count).Error
	return count, err
}
