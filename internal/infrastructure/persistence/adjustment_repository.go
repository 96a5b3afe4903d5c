package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdjustmentRepository implements AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by ID
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Adjustment, error) {
	var model models.AdjustmentModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds adjustments matching the filter. Supports store_id and status.
func (r *GormAdjustmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Adjustment, int64, error) {
	query := conn(ctx, r.db).Model(&models.AdjustmentModel{})
	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	rows, total, err := findPage[models.AdjustmentModel](query, filter, sortSpec{allowed: AdjustmentSortFields, field: "created_at"})
	if err != nil {
		return nil, 0, err
	}
	adjustments := make([]partner.Adjustment, len(rows))
	for i := range rows {
		adjustments[i] = *rows[i].ToDomain()
	}
	return adjustments, total, nil
}

// Save creates or updates an adjustment
func (r *GormAdjustmentRepository) Save(ctx context.Context, adj *partner.Adjustment) error {
	return translateError(upsert(conn(ctx, r.db), models.AdjustmentModelFromDomain(adj)))
}

// SaveWithLock updates an adjustment guarded by its loaded version
func (r *GormAdjustmentRepository) SaveWithLock(ctx context.Context, adj *partner.Adjustment) error {
	model := models.AdjustmentModelFromDomain(adj)
	if err := updateVersioned(conn(ctx, r.db), model, adj.Version); err != nil {
		return translateError(err)
	}
	adj.Version = model.Version
	return nil
}

// Ensure GormAdjustmentRepository implements AdjustmentRepository
var _ partner.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
