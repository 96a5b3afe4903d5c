package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorCreditMemoRepository implements VendorCreditMemoRepository using GORM
type GormVendorCreditMemoRepository struct {
	db *gorm.DB
}

// NewGormVendorCreditMemoRepository creates a new GormVendorCreditMemoRepository
func NewGormVendorCreditMemoRepository(db *gorm.DB) *GormVendorCreditMemoRepository {
	return &GormVendorCreditMemoRepository{db: db}
}

// FindByID finds a vendor credit memo by ID
func (r *GormVendorCreditMemoRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorCreditMemo, error) {
	var model models.VendorCreditMemoModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds vendor credit memos. Supports vendor_id and status.
func (r *GormVendorCreditMemoRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorCreditMemo, int64, error) {
	query := conn(ctx, r.db).Model(&models.VendorCreditMemoModel{})
	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	rows, total, err := findPage[models.VendorCreditMemoModel](query, filter, sortSpec{allowed: CreditMemoSortFields, field: "created_at"})
	if err != nil {
		return nil, 0, err
	}
	memos := make([]finance.VendorCreditMemo, len(rows))
	for i := range rows {
		memos[i] = *rows[i].ToDomain()
	}
	return memos, total, nil
}

// Save creates or updates a vendor credit memo
func (r *GormVendorCreditMemoRepository) Save(ctx context.Context, memo *finance.VendorCreditMemo) error {
	return translateError(upsert(conn(ctx, r.db), models.VendorCreditMemoModelFromDomain(memo)))
}

// SaveWithLock updates a vendor credit memo guarded by its loaded version
func (r *GormVendorCreditMemoRepository) SaveWithLock(ctx context.Context, memo *finance.VendorCreditMemo) error {
	model := models.VendorCreditMemoModelFromDomain(memo)
	if err := updateVersioned(conn(ctx, r.db), model, memo.Version); err != nil {
		return translateError(err)
	}
	memo.Version = model.Version
	return nil
}

// Ensure GormVendorCreditMemoRepository implements VendorCreditMemoRepository
var _ finance.VendorCreditMemoRepository = (*GormVendorCreditMemoRepository)(nil)
