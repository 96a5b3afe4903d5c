package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreInventoryRepository implements StoreInventoryRepository using GORM
type GormStoreInventoryRepository struct {
	db *gorm.DB
}

// NewGormStoreInventoryRepository creates a new GormStoreInventoryRepository
func NewGormStoreInventoryRepository(db *gorm.DB) *GormStoreInventoryRepository {
	return &GormStoreInventoryRepository{db: db}
}

// FindByID finds a shelf count by ID
func (r *GormStoreInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StoreInventory, error) {
	var model models.StoreInventoryModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByStoreAndWeek finds a store's count for one week
func (r *GormStoreInventoryRepository) FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, week shared.Week) (*inventory.StoreInventory, error) {
	var model models.StoreInventoryModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("store_id = ? AND week = ?", storeID, week).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByStore lists a store's counts, latest week first by default
func (r *GormStoreInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]inventory.StoreInventory, int64, error) {
	query := conn(ctx, r.db).Model(&models.StoreInventoryModel{}).Where("store_id = ?", storeID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	rows, total, err := findPage[models.StoreInventoryModel](query, filter, sortSpec{allowed: StoreInventorySortFields, field: "week"}, "Lines")
	if err != nil {
		return nil, 0, err
	}
	return toStoreInventories(rows), total, nil
}

// FindSubmittedByWeek returns every submitted count for the week
func (r *GormStoreInventoryRepository) FindSubmittedByWeek(ctx context.Context, week shared.Week) ([]inventory.StoreInventory, error) {
	var rows []models.StoreInventoryModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("week = ? AND status = ?", week, inventory.CountStatusSubmitted).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toStoreInventories(rows), nil
}

// Save creates or updates a count together with its lines
func (r *GormStoreInventoryRepository) Save(ctx context.Context, inv *inventory.StoreInventory) error {
	model := models.StoreInventoryModelFromDomain(inv)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "store_inventory_id", model.ID, model.Lines)
	}))
}

func toStoreInventories(rows []models.StoreInventoryModel) []inventory.StoreInventory {
	counts := make([]inventory.StoreInventory, len(rows))
	for i := range rows {
		counts[i] = *rows[i].ToDomain()
	}
	return counts
}

// Ensure GormStoreInventoryRepository implements StoreInventoryRepository
var _ inventory.StoreInventoryRepository = (*GormStoreInventoryRepository)(nil)
