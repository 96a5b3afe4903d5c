package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/workorder"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkOrderRepository implements workorder.Repository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// FindByID finds a work order by ID with its pick lines
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	var model models.WorkOrderModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds work orders. Supports week and status.
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.WorkOrder, int64, error) {
	query := conn(ctx, r.db).Model(&models.WorkOrderModel{})
	for key, value := range filter.Filters {
		switch key {
		case "week":
			query = query.Where("week = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	rows, total, err := findPage[models.WorkOrderModel](query, filter, sortSpec{allowed: WorkOrderSortFields, field: "created_at"}, "Lines")
	if err != nil {
		return nil, 0, err
	}
	orders := make([]workorder.WorkOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Save creates or updates a work order together with its lines
func (r *GormWorkOrderRepository) Save(ctx context.Context, wo *workorder.WorkOrder) error {
	model := models.WorkOrderModelFromDomain(wo)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "work_order_id", model.ID, model.Lines)
	}))
}

// SaveWithLock updates a work order guarded by its loaded version
func (r *GormWorkOrderRepository) SaveWithLock(ctx context.Context, wo *workorder.WorkOrder) error {
	model := models.WorkOrderModelFromDomain(wo)
	err := atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, wo.Version); err != nil {
			return err
		}
		return replaceChildren(tx, "work_order_id", model.ID, model.Lines)
	})
	if err != nil {
		return translateError(err)
	}
	wo.Version = model.Version
	return nil
}

// Ensure GormWorkOrderRepository implements workorder.Repository
var _ workorder.Repository = (*GormWorkOrderRepository)(nil)
