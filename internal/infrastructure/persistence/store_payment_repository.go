package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStorePaymentRepository implements StorePaymentRepository using GORM
type GormStorePaymentRepository struct {
	db *gorm.DB
}

// NewGormStorePaymentRepository creates a new GormStorePaymentRepository
func NewGormStorePaymentRepository(db *gorm.DB) *GormStorePaymentRepository {
	return &GormStorePaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormStorePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.StorePayment, error) {
	var model models.StorePaymentModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds payments, newest received first. Supports store_id.
func (r *GormStorePaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.StorePayment, int64, error) {
	query := conn(ctx, r.db).Model(&models.StorePaymentModel{})
	if storeID, ok := filter.Filters["store_id"]; ok {
		query = query.Where("store_id = ?", storeID)
	}

	rows, total, err := findPage[models.StorePaymentModel](query, filter, sortSpec{allowed: PaymentSortFields, field: "received_at"})
	if err != nil {
		return nil, 0, err
	}
	payments := make([]finance.StorePayment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, total, nil
}

// Save records a payment. Payments are written once.
func (r *GormStorePaymentRepository) Save(ctx context.Context, payment *finance.StorePayment) error {
	return translateError(upsert(conn(ctx, r.db), models.StorePaymentModelFromDomain(payment)))
}

// Ensure GormStorePaymentRepository implements StorePaymentRepository
var _ finance.StorePaymentRepository = (*GormStorePaymentRepository)(nil)
