package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPreOrderRepository implements PreOrderRepository using GORM
type GormPreOrderRepository struct {
	db *gorm.DB
}

// NewGormPreOrderRepository creates a new GormPreOrderRepository
func NewGormPreOrderRepository(db *gorm.DB) *GormPreOrderRepository {
	return &GormPreOrderRepository{db: db}
}

// FindByID finds a preorder by ID with its lines
func (r *GormPreOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PreOrder, error) {
	var model models.PreOrderModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByStoreAndWeek finds the preorder of one store for one week
func (r *GormPreOrderRepository) FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, week shared.Week) (*trade.PreOrder, error) {
	var model models.PreOrderModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("store_id = ? AND week = ?", storeID, week).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds preorders matching the filter. Supports store_id, week and status.
func (r *GormPreOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PreOrder, int64, error) {
	query := conn(ctx, r.db).Model(&models.PreOrderModel{})
	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "week":
			query = query.Where("week = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	rows, total, err := findPage[models.PreOrderModel](query, filter, sortSpec{allowed: PreOrderSortFields, field: "week"}, "Lines")
	if err != nil {
		return nil, 0, err
	}
	return toPreOrders(rows), total, nil
}

// FindOpenByWeek returns DRAFT and CONFIRMED preorders for the week
func (r *GormPreOrderRepository) FindOpenByWeek(ctx context.Context, week shared.Week) ([]trade.PreOrder, error) {
	var rows []models.PreOrderModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("week = ? AND status IN ?", week, []trade.PreOrderStatus{trade.PreOrderStatusDraft, trade.PreOrderStatusConfirmed}).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPreOrders(rows), nil
}

// Save creates or updates a preorder together with its lines
func (r *GormPreOrderRepository) Save(ctx context.Context, preorder *trade.PreOrder) error {
	model := models.PreOrderModelFromDomain(preorder)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "pre_order_id", model.ID, model.Lines)
	}))
}

// SaveWithLock updates a preorder guarded by its loaded version
func (r *GormPreOrderRepository) SaveWithLock(ctx context.Context, preorder *trade.PreOrder) error {
	model := models.PreOrderModelFromDomain(preorder)
	err := atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, preorder.Version); err != nil {
			return err
		}
		return replaceChildren(tx, "pre_order_id", model.ID, model.Lines)
	})
	if err != nil {
		return translateError(err)
	}
	preorder.Version = model.Version
	return nil
}

func toPreOrders(rows []models.PreOrderModel) []trade.PreOrder {
	preorders := make([]trade.PreOrder, len(rows))
	for i := range rows {
		preorders[i] = *rows[i].ToDomain()
	}
	return preorders
}

// Ensure GormPreOrderRepository implements PreOrderRepository
var _ trade.PreOrderRepository = (*GormPreOrderRepository)(nil)
