package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorPaymentRepository implements VendorPaymentRepository using GORM
type GormVendorPaymentRepository struct {
	db *gorm.DB
}

// NewGormVendorPaymentRepository creates a new GormVendorPaymentRepository
func NewGormVendorPaymentRepository(db *gorm.DB) *GormVendorPaymentRepository {
	return &GormVendorPaymentRepository{db: db}
}

// FindByID finds a vendor payment by ID
func (r *GormVendorPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorPayment, error) {
	var model models.VendorPaymentModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds vendor payments, newest first. Supports vendor_id and status.
func (r *GormVendorPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorPayment, int64, error) {
	query := conn(ctx, r.db).Model(&models.VendorPaymentModel{})
	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	rows, total, err := findPage[models.VendorPaymentModel](query, filter, sortSpec{allowed: PaymentSortFields, field: "paid_at"})
	if err != nil {
		return nil, 0, err
	}
	payments := make([]finance.VendorPayment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, total, nil
}

// Save records a vendor payment
func (r *GormVendorPaymentRepository) Save(ctx context.Context, payment *finance.VendorPayment) error {
	return translateError(upsert(conn(ctx, r.db), models.VendorPaymentModelFromDomain(payment)))
}

// SaveWithLock updates a vendor payment guarded by its loaded version
func (r *GormVendorPaymentRepository) SaveWithLock(ctx context.Context, payment *finance.VendorPayment) error {
	model := models.VendorPaymentModelFromDomain(payment)
	if err := updateVersioned(conn(ctx, r.db), model, payment.Version); err != nil {
		return translateError(err)
	}
	payment.Version = model.Version
	return nil
}

// Ensure GormVendorPaymentRepository implements VendorPaymentRepository
var _ finance.VendorPaymentRepository = (*GormVendorPaymentRepository)(nil)
