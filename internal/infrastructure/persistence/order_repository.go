package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds orders by IDs. Unknown IDs are skipped.
func (r *GormOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]trade.Order, error) {
	if len(ids) == 0 {
		return []trade.Order{}, nil
	}
	var rows []models.OrderModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id IN ?", ids).Order("order_number ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindByNumber finds an order by its document number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.Order, error) {
	var model models.OrderModel
	if err := conn(ctx, r.db).Preload("Lines").Where("order_number = ?", number).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	query := conn(ctx, r.db).Model(&models.OrderModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "week":
			query = query.Where("delivery_week = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "work_order_id":
			query = query.Where("work_order_id = ?", value)
		}
	}

	rows, total, err := findPage[models.OrderModel](query, filter, sortSpec{allowed: OrderSortFields, field: "created_at"}, "Lines")
	if err != nil {
		return nil, 0, err
	}
	return toOrders(rows), total, nil
}

// FindConfirmedByWeek returns confirmed orders for a delivery week, oldest first
func (r *GormOrderRepository) FindConfirmedByWeek(ctx context.Context, week shared.Week) ([]trade.Order, error) {
	var rows []models.OrderModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("delivery_week = ? AND status = ?", week, trade.OrderStatusConfirmed).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindByWorkOrder returns the orders a work order was generated from
func (r *GormOrderRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]trade.Order, error) {
	var rows []models.OrderModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// Save creates or updates an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "order_id", model.ID, model.Lines)
	}))
}

// SaveWithLock updates an order guarded by its loaded version
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	err := atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, order.Version); err != nil {
			return err
		}
		return replaceChildren(tx, "order_id", model.ID, model.Lines)
	})
	if err != nil {
		return translateError(err)
	}
	order.Version = model.Version
	return nil
}

func toOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
