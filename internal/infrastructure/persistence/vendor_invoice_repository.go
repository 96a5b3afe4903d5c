package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorInvoiceRepository implements VendorInvoiceRepository using GORM
type GormVendorInvoiceRepository struct {
	db *gorm.DB
}

// NewGormVendorInvoiceRepository creates a new GormVendorInvoiceRepository
func NewGormVendorInvoiceRepository(db *gorm.DB) *GormVendorInvoiceRepository {
	return &GormVendorInvoiceRepository{db: db}
}

// FindByID finds a vendor invoice by ID with its lines
func (r *GormVendorInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorInvoice, error) {
	var model models.VendorInvoiceModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds vendor invoices by IDs. Unknown IDs are skipped.
func (r *GormVendorInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]finance.VendorInvoice, error) {
	if len(ids) == 0 {
		return []finance.VendorInvoice{}, nil
	}
	var rows []models.VendorInvoiceModel
	if err := conn(ctx, r.db).Preload("Lines").Where("id IN ?", ids).Order("due_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toVendorInvoices(rows), nil
}

// ExistsByVendorNumber checks whether the vendor already billed this number
func (r *GormVendorInvoiceRepository) ExistsByVendorNumber(ctx context.Context, vendorID uuid.UUID, number string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&models.VendorInvoiceModel{}).
		Where("vendor_id = ? AND invoice_number = ?", vendorID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds vendor invoices matching the filter. Supports vendor_id,
// purchase_order_id and status.
func (r *GormVendorInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorInvoice, int64, error) {
	query := conn(ctx, r.db).Model(&models.VendorInvoiceModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "purchase_order_id":
			query = query.Where("purchase_order_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	rows, total, err := findPage[models.VendorInvoiceModel](query, filter, sortSpec{allowed: VendorInvoiceSortFields, field: "invoice_date"}, "Lines")
	if err != nil {
		return nil, 0, err
	}
	return toVendorInvoices(rows), total, nil
}

// FindByPurchaseOrder returns the non-void invoices billed against a PO
func (r *GormVendorInvoiceRepository) FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) ([]finance.VendorInvoice, error) {
	var rows []models.VendorInvoiceModel
	err := conn(ctx, r.db).
		Preload("Lines").
		Where("purchase_order_id = ? AND status <> ?", poID, finance.VendorInvoiceStatusVoid).
		Order("invoice_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toVendorInvoices(rows), nil
}

// FindOpen returns invoices with an outstanding balance that are not void
func (r *GormVendorInvoiceRepository) FindOpen(ctx context.Context) ([]finance.VendorInvoice, error) {
	var rows []models.VendorInvoiceModel
	err := conn(ctx, r.db).
		Where("status <> ? AND total_amount - paid_amount - credited_amount > 0", finance.VendorInvoiceStatusVoid).
		Order("due_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toVendorInvoices(rows), nil
}

// Save creates or updates a vendor invoice together with its lines
func (r *GormVendorInvoiceRepository) Save(ctx context.Context, inv *finance.VendorInvoice) error {
	model := models.VendorInvoiceModelFromDomain(inv)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "vendor_invoice_id", model.ID, model.Lines)
	}))
}

// SaveWithLock updates the invoice header guarded by its loaded version
func (r *GormVendorInvoiceRepository) SaveWithLock(ctx context.Context, inv *finance.VendorInvoice) error {
	model := models.VendorInvoiceModelFromDomain(inv)
	if err := updateVersioned(conn(ctx, r.db), model, inv.Version); err != nil {
		return translateError(err)
	}
	inv.Version = model.Version
	return nil
}

func toVendorInvoices(rows []models.VendorInvoiceModel) []finance.VendorInvoice {
	invoices := make([]finance.VendorInvoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices
}

// Ensure GormVendorInvoiceRepository implements VendorInvoiceRepository
var _ finance.VendorInvoiceRepository = (*GormVendorInvoiceRepository)(nil)
