package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCreditMemoRepository implements CreditMemoRepository using GORM
type GormCreditMemoRepository struct {
	db *gorm.DB
}

// NewGormCreditMemoRepository creates a new GormCreditMemoRepository
func NewGormCreditMemoRepository(db *gorm.DB) *GormCreditMemoRepository {
	return &GormCreditMemoRepository{db: db}
}

// FindByID finds a credit memo by ID
func (r *GormCreditMemoRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CreditMemo, error) {
	var model models.CreditMemoModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds credit memos matching the filter. Supports store_id, status and reason.
func (r *GormCreditMemoRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.CreditMemo, int64, error) {
	query := conn(ctx, r.db).Model(&models.CreditMemoModel{})
	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "reason":
			query = query.Where("reason = ?", value)
		}
	}

	rows, total, err := findPage[models.CreditMemoModel](query, filter, sortSpec{allowed: CreditMemoSortFields, field: "created_at"})
	if err != nil {
		return nil, 0, err
	}
	memos := make([]finance.CreditMemo, len(rows))
	for i := range rows {
		memos[i] = *rows[i].ToDomain()
	}
	return memos, total, nil
}

// Save creates or updates a credit memo
func (r *GormCreditMemoRepository) Save(ctx context.Context, memo *finance.CreditMemo) error {
	return translateError(upsert(conn(ctx, r.db), models.CreditMemoModelFromDomain(memo)))
}

// SaveWithLock updates a credit memo guarded by its loaded version
func (r *GormCreditMemoRepository) SaveWithLock(ctx context.Context, memo *finance.CreditMemo) error {
	model := models.CreditMemoModelFromDomain(memo)
	if err := updateVersioned(conn(ctx, r.db), model, memo.Version); err != nil {
		return translateError(err)
	}
	memo.Version = model.Version
	return nil
}

// Ensure GormCreditMemoRepository implements CreditMemoRepository
var _ finance.CreditMemoRepository = (*GormCreditMemoRepository)(nil)
