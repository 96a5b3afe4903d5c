package persistence

import (
	"errors"
	"strings"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateError maps gorm errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// sortSpec whitelists the columns a list may be ordered by
type sortSpec struct {
	allowed map[string]bool
	field   string
	dir     string
}

func (s sortSpec) clause(filter shared.Filter) string {
	field := ValidateSortField(filter.OrderBy, s.allowed, s.field)
	dir := s.dir
	if filter.OrderDir != "" || dir == "" {
		dir = ValidateSortOrder(filter.OrderDir)
	}
	return field + " " + dir
}

// findPage counts the rows matched by query and loads the requested page.
// query must already carry its Model and where clauses.
func findPage[M any](query *gorm.DB, filter shared.Filter, sort sortSpec, preloads ...string) ([]M, int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := query.Order(sort.clause(filter)).Offset(filter.Offset()).Limit(filter.Limit())
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var rows []M
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// versioned is an aggregate model whose version column guards updates
type versioned interface {
	SetVersion(v int)
}

// updateVersioned overwrites the row behind model only while its stored
// version still equals expected, and bumps the stored version. It returns
// ErrConcurrencyConflict when another writer got there first.
func updateVersioned(tx *gorm.DB, model versioned, expected int) error {
	model.SetVersion(expected + 1)
	result := tx.Model(model).
		Where("version = ?", expected).
		Select("*").
		Omit("created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// upsert inserts or fully updates a root row, leaving its children alone
func upsert(tx *gorm.DB, model interface{}) error {
	return tx.Omit(clause.Associations).Save(model).Error
}

// replaceChildren rewrites the child rows owned by parentID
func replaceChildren[C any](tx *gorm.DB, foreignKey string, parentID uuid.UUID, children []C) error {
	var zero C
	if err := tx.Where(foreignKey+" = ?", parentID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}
	return tx.Create(&children).Error
}

// likePattern builds a case-insensitive contains pattern
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
