package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by ID with its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a purchase order by its document number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := conn(ctx, r.db).Preload("Lines").Where("order_number = ?", number).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds purchase orders matching the filter. Supports vendor_id,
// status and week.
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	query := conn(ctx, r.db).Model(&models.PurchaseOrderModel{})
	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "week":
			query = query.Where("expected_week = ?", value)
		}
	}

	rows, total, err := findPage[models.PurchaseOrderModel](query, filter, sortSpec{allowed: PurchaseOrderSortFields, field: "created_at"}, "Lines")
	if err != nil {
		return nil, 0, err
	}
	orders := make([]trade.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Save creates or updates a purchase order together with its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "purchase_order_id", model.ID, model.Lines)
	}))
}

// SaveWithLock updates a purchase order guarded by its loaded version
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	err := atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, po.Version); err != nil {
			return err
		}
		return replaceChildren(tx, "purchase_order_id", model.ID, model.Lines)
	})
	if err != nil {
		return translateError(err)
	}
	po.Version = model.Version
	return nil
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
