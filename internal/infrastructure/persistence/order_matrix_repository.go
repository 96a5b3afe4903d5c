package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderMatrixRepository implements OrderMatrixRepository using GORM
type GormOrderMatrixRepository struct {
	db *gorm.DB
}

// NewGormOrderMatrixRepository creates a new GormOrderMatrixRepository
func NewGormOrderMatrixRepository(db *gorm.DB) *GormOrderMatrixRepository {
	return &GormOrderMatrixRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByStore finds the par levels of one store
func (r *GormOrderMatrixRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*trade.OrderMatrix, error) {
	var model models.OrderMatrixModel
	if err := conn(ctx, r.db).Preload("Lines", byPosition).Where("store_id = ?", storeID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every store's matrix
func (r *GormOrderMatrixRepository) FindAll(ctx context.Context) ([]trade.OrderMatrix, error) {
	var rows []models.OrderMatrixModel
	if err := conn(ctx, r.db).Preload("Lines", byPosition).Find(&rows).Error; err != nil {
		return nil, err
	}
	matrices := make([]trade.OrderMatrix, len(rows))
	for i := range rows {
		matrices[i] = *rows[i].ToDomain()
	}
	return matrices, nil
}

// Save replaces a store's matrix
func (r *GormOrderMatrixRepository) Save(ctx context.Context, matrix *trade.OrderMatrix) error {
	model := models.OrderMatrixModelFromDomain(matrix)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "matrix_id", model.ID, model.Lines)
	}))
}

// Ensure GormOrderMatrixRepository implements OrderMatrixRepository
var _ trade.OrderMatrixRepository = (*GormOrderMatrixRepository)(nil)
