package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceGenerator allocates document numbers from the document_sequences
// table. The row for a key stays locked until the surrounding transaction
// ends, so numbers are gap free when callers roll back.
type SequenceGenerator struct {
	db *gorm.DB
}

// NewSequenceGenerator creates a new SequenceGenerator
func NewSequenceGenerator(db *gorm.DB) *SequenceGenerator {
	return &SequenceGenerator{db: db}
}

// Next returns the next value for key, starting at 1
func (g *SequenceGenerator) Next(ctx context.Context, key string) (int64, error) {
	var next int64
	err := atomically(ctx, g.db, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seq_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_value": gorm.Expr("document_sequences.last_value + 1")}),
		}).Create(&models.SequenceModel{Key: key, Value: 1}).Error
		if err != nil {
			return err
		}
		var row models.SequenceModel
		if err := tx.Where("seq_key = ?", key).First(&row).Error; err != nil {
			return err
		}
		next = row.Value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

var _ shared.NumberGenerator = (*SequenceGenerator)(nil)
