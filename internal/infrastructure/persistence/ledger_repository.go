package persistence

import (
	"context"
	"time"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerRepository implements LedgerRepository using GORM. Stock levels
// are summed from this table on read.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts entries in one statement
func (r *GormLedgerRepository) Append(ctx context.Context, entries ...inventory.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.LedgerEntryModelFromDomain(e)
	}
	return translateError(conn(ctx, r.db).Create(&rows).Error)
}

// FindByProduct returns a product's movements, newest first by default.
// Supports entry_type and week filters.
func (r *GormLedgerRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.LedgerEntry, int64, error) {
	query := conn(ctx, r.db).Model(&models.LedgerEntryModel{}).Where("product_id = ?", productID)
	for key, value := range filter.Filters {
		switch key {
		case "entry_type":
			query = query.Where("entry_type = ?", value)
		case "week":
			query = query.Where("week = ?", value)
		}
	}

	rows, total, err := findPage[models.LedgerEntryModel](query, filter, sortSpec{allowed: LedgerSortFields, field: "occurred_at"})
	if err != nil {
		return nil, 0, err
	}
	return toLedgerEntries(rows), total, nil
}

// FindBySource returns every movement recorded for one source document
func (r *GormLedgerRepository) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	err := conn(ctx, r.db).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("occurred_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

type typeTotalRow struct {
	ProductID uuid.UUID
	EntryType inventory.EntryType
	Quantity  decimal.Decimal
}

// SumByProduct totals quantities per product and entry type
func (r *GormLedgerRepository) SumByProduct(ctx context.Context, productIDs []uuid.UUID, before time.Time) ([]inventory.TypeTotal, error) {
	query := conn(ctx, r.db).
		Model(&models.LedgerEntryModel{}).
		Select("product_id, entry_type, SUM(quantity) AS quantity")
	if len(productIDs) > 0 {
		query = query.Where("product_id IN ?", productIDs)
	}
	if !before.IsZero() {
		query = query.Where("occurred_at < ?", before)
	}

	var rows []typeTotalRow
	if err := query.Group("product_id, entry_type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make([]inventory.TypeTotal, len(rows))
	for i, row := range rows {
		totals[i] = inventory.TypeTotal{
			ProductID: row.ProductID,
			EntryType: row.EntryType,
			Quantity:  row.Quantity,
		}
	}
	return totals, nil
}

func toLedgerEntries(rows []models.LedgerEntryModel) []inventory.LedgerEntry {
	entries := make([]inventory.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ inventory.LedgerRepository = (*GormLedgerRepository)(nil)
