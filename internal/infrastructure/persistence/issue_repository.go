package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/quality"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIssueRepository implements IssueRepository using GORM
type GormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository creates a new GormIssueRepository
func NewGormIssueRepository(db *gorm.DB) *GormIssueRepository {
	return &GormIssueRepository{db: db}
}

// FindByID finds a quality issue by ID
func (r *GormIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*quality.Issue, error) {
	var model models.IssueModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll supports filters store_id, status and order_id
func (r *GormIssueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quality.Issue, int64, error) {
	query := conn(ctx, r.db).Model(&models.IssueModel{})
	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	rows, total, err := findPage[models.IssueModel](query, filter, sortSpec{allowed: IssueSortFields, field: "created_at"})
	if err != nil {
		return nil, 0, err
	}
	issues := make([]quality.Issue, len(rows))
	for i := range rows {
		issues[i] = *rows[i].ToDomain()
	}
	return issues, total, nil
}

// FindByOrder returns every issue reported against an order, oldest first
func (r *GormIssueRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]quality.Issue, error) {
	var rows []models.IssueModel
	if err := conn(ctx, r.db).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	issues := make([]quality.Issue, len(rows))
	for i := range rows {
		issues[i] = *rows[i].ToDomain()
	}
	return issues, nil
}

// Save creates or updates an issue
func (r *GormIssueRepository) Save(ctx context.Context, issue *quality.Issue) error {
	return translateError(upsert(conn(ctx, r.db), models.IssueModelFromDomain(issue)))
}

// SaveWithLock updates an issue guarded by its loaded version
func (r *GormIssueRepository) SaveWithLock(ctx context.Context, issue *quality.Issue) error {
	model := models.IssueModelFromDomain(issue)
	if err := updateVersioned(conn(ctx, r.db), model, issue.Version); err != nil {
		return translateError(err)
	}
	issue.Version = model.Version
	return nil
}

// Ensure GormIssueRepository implements IssueRepository
var _ quality.IssueRepository = (*GormIssueRepository)(nil)
