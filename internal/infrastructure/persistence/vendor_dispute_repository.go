package persistence

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorDisputeRepository implements VendorDisputeRepository using GORM
type GormVendorDisputeRepository struct {
	db *gorm.DB
}

// NewGormVendorDisputeRepository creates a new GormVendorDisputeRepository
func NewGormVendorDisputeRepository(db *gorm.DB) *GormVendorDisputeRepository {
	return &GormVendorDisputeRepository{db: db}
}

func notesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// FindByID finds a dispute by ID with its notes
func (r *GormVendorDisputeRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorDispute, error) {
	var model models.VendorDisputeModel
	if err := conn(ctx, r.db).Preload("Notes", notesInOrder).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindOpenByInvoice finds the open dispute on a vendor invoice, if any
func (r *GormVendorDisputeRepository) FindOpenByInvoice(ctx context.Context, vendorInvoiceID uuid.UUID) (*finance.VendorDispute, error) {
	var model models.VendorDisputeModel
	err := conn(ctx, r.db).
		Preload("Notes", notesInOrder).
		Where("vendor_invoice_id = ? AND status = ?", vendorInvoiceID, finance.DisputeStatusOpen).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds disputes. Supports vendor_id, vendor_invoice_id and status.
func (r *GormVendorDisputeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorDispute, int64, error) {
	query := conn(ctx, r.db).Model(&models.VendorDisputeModel{})
	for key, value := range filter.Filters {
		switch key {
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "vendor_invoice_id":
			query = query.Where("vendor_invoice_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	rows, total, err := findPage[models.VendorDisputeModel](query, filter, sortSpec{allowed: DisputeSortFields, field: "created_at"}, "Notes")
	if err != nil {
		return nil, 0, err
	}
	disputes := make([]finance.VendorDispute, len(rows))
	for i := range rows {
		disputes[i] = *rows[i].ToDomain()
	}
	return disputes, total, nil
}

// Save creates or updates a dispute together with its notes
func (r *GormVendorDisputeRepository) Save(ctx context.Context, dispute *finance.VendorDispute) error {
	model := models.VendorDisputeModelFromDomain(dispute)
	return translateError(atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := upsert(tx, model); err != nil {
			return err
		}
		return replaceChildren(tx, "dispute_id", model.ID, model.Notes)
	}))
}

// SaveWithLock updates a dispute guarded by its loaded version
func (r *GormVendorDisputeRepository) SaveWithLock(ctx context.Context, dispute *finance.VendorDispute) error {
	model := models.VendorDisputeModelFromDomain(dispute)
	err := atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := updateVersioned(tx, model, dispute.Version); err != nil {
			return err
		}
		return replaceChildren(tx, "dispute_id", model.ID, model.Notes)
	})
	if err != nil {
		return translateError(err)
	}
	dispute.Version = model.Version
	return nil
}

// Ensure GormVendorDisputeRepository implements VendorDisputeRepository
var _ finance.VendorDisputeRepository = (*GormVendorDisputeRepository)(nil)
