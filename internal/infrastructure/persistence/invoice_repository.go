package persistence

import (
	"context"
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var openInvoiceStatuses = []finance.InvoiceStatus{
	finance.InvoiceStatusOpen,
	finance.InvoiceStatusPartiallyPaid,
}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID with its lines
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds invoices by IDs. Unknown IDs are skipped.
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]finance.Invoice, error) {
	if len(ids) == 0 {
		return []finance.Invoice{}, nil
	}
	var rows []models.InvoiceModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id IN ?", ids).Order("issued_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// FindByOrder finds the invoice billed for an order
func (r *GormInvoiceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := conn(ctx, r.db).Preload("Lines").Where("order_id = ?", orderID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices matching the filter. overdue_as_of takes a
// time.Time and keeps open invoices due before it.
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, int64, error) {
	query := conn(ctx, r.db).Model(&models.InvoiceModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "week":
			query = query.Where("week = ?", value)
		case "overdue_as_of":
			query = query.Where("due_date < ? AND status IN ?", value, openInvoiceStatuses)
		}
	}

	rows, total, err := findPage[models.InvoiceModel](query, filter, sortSpec{allowed: InvoiceSortFields, field: "issued_at"}, "Lines")
	if err != nil {
		return nil, 0, err
	}
	return toInvoices(rows), total, nil
}

// FindOpenByStore returns OPEN and PARTIALLY_PAID invoices, oldest due first
func (r *GormInvoiceRepository) FindOpenByStore(ctx context.Context, storeID uuid.UUID) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("store_id = ? AND status IN ?", storeID, openInvoiceStatuses).
		Order("due_date ASC, issued_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// FindOpenIssuedBefore returns open invoices issued at or before asOf
func (r *GormInvoiceRepository) FindOpenIssuedBefore(ctx context.Context, asOf time.Time) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	err := conn(ctx, r.db).
		Where("issued_at <= ? AND status IN ?", asOf, openInvoiceStatuses).
		Order("due_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// FindIssuedBetween returns invoices issued in [from, to)
func (r *GormInvoiceRepository) FindIssuedBetween(ctx context.Context, from, to time.Time) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Order("issued_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// Save creates or updates an invoice together with its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "invoice_id", model.ID, model.Lines)
	}))
}

// SaveWithLock updates an invoice guarded by its loaded version. Lines are
// fixed once issued, so only the header is written.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	if err := updateVersioned(conn(ctx, r.db), model, inv.Version); err != nil {
		return translateError(err)
	}
	inv.Version = model.Version
	return nil
}

func toInvoices(rows []models.InvoiceModel) []finance.Invoice {
	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
