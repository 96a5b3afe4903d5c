package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Store, error) {
	var model models.StoreModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a store by its code
func (r *GormStoreRepository) FindByCode(ctx context.Context, code string) (*partner.Store, error) {
	var model models.StoreModel
	if err := conn(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds stores matching the filter. Supports the active filter and
// searches code and name.
func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Store, int64, error) {
	query := conn(ctx, r.db).Model(&models.StoreModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	rows, total, err := findPage[models.StoreModel](query, filter, sortSpec{allowed: StoreSortFields, field: "code", dir: "ASC"})
	if err != nil {
		return nil, 0, err
	}
	stores := make([]partner.Store, len(rows))
	for i := range rows {
		stores[i] = *rows[i].ToDomain()
	}
	return stores, total, nil
}

// FindActive returns every active store ordered by code
func (r *GormStoreRepository) FindActive(ctx context.Context) ([]partner.Store, error) {
	var rows []models.StoreModel
	if err := conn(ctx, r.db).Where("active = ?", true).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	stores := make([]partner.Store, len(rows))
	for i := range rows {
		stores[i] = *rows[i].ToDomain()
	}
	return stores, nil
}

// ExistsByCode checks whether a store code is taken
func (r *GormStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.StoreModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or updates the store and appends its pending balance entries
func (r *GormStoreRepository) Save(ctx context.Context, store *partner.Store) error {
	model := models.StoreModelFromDomain(store)
	err := atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return appendBalanceEntries(tx, store.PendingEntries())
	})
	if err != nil {
		return translateError(err)
	}
	store.ClearPendingEntries()
	return nil
}

// SaveWithLock updates the store only if nobody changed it since it was loaded
func (r *GormStoreRepository) SaveWithLock(ctx context.Context, store *partner.Store) error {
	model := models.StoreModelFromDomain(store)
	err := atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, store.Version); err != nil {
			return err
		}
		return appendBalanceEntries(tx, store.PendingEntries())
	})
	if err != nil {
		return translateError(err)
	}
	store.Version = model.Version
	store.ClearPendingEntries()
	return nil
}

// FindBalanceEntries returns a store's balance history, newest first by default
func (r *GormStoreRepository) FindBalanceEntries(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]partner.BalanceEntry, int64, error) {
	query := conn(ctx, r.db).Model(&models.BalanceEntryModel{}).Where("store_id = ?", storeID)
	if entryType, ok := filter.Filters["entry_type"]; ok {
		query = query.Where("entry_type = ?", entryType)
	}

	rows, total, err := findPage[models.BalanceEntryModel](query, filter, sortSpec{allowed: BalanceEntrySortFields, field: "created_at"})
	if err != nil {
		return nil, 0, err
	}
	entries := make([]partner.BalanceEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

func appendBalanceEntries(tx *gorm.DB, entries []partner.BalanceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.BalanceEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.BalanceEntryModelFromDomain(e)
	}
	return tx.Create(&rows).Error
}

// Ensure GormStoreRepository implements StoreRepository
var _ partner.StoreRepository = (*GormStoreRepository)(nil)
