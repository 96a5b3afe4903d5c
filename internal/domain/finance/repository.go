package finance

import (
	"context"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for store invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Invoice, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Invoice, error)
	// FindAll supports filters store_id, status, week and overdue_as_of
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, int64, error)
	// FindOpenByStore returns OPEN and PARTIALLY_PAID invoices, oldest due first
	FindOpenByStore(ctx context.Context, storeID uuid.UUID) ([]Invoice, error)
	FindOpenIssuedBefore(ctx context.Context, asOf time.Time) ([]Invoice, error)
	FindIssuedBetween(ctx context.Context, from, to time.Time) ([]Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
	SaveWithLock(ctx context.Context, inv *Invoice) error
}

// CreditMemoRepository defines the interface for store credit memo persistence
type CreditMemoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CreditMemo, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CreditMemo, int64, error)
	Save(ctx context.Context, memo *CreditMemo) error
	SaveWithLock(ctx context.Context, memo *CreditMemo) error
}

// StorePaymentRepository defines the interface for store payment persistence
type StorePaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StorePayment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StorePayment, int64, error)
	Save(ctx context.Context, payment *StorePayment) error
}

// VendorInvoiceRepository defines the interface for vendor invoice persistence
type VendorInvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VendorInvoice, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]VendorInvoice, error)
	ExistsByVendorNumber(ctx context.Context, vendorID uuid.UUID, number string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]VendorInvoice, int64, error)
	// FindByPurchaseOrder returns the non-void invoices billed against a PO, with lines
	FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) ([]VendorInvoice, error)
	// FindOpen returns invoices with an outstanding balance that are not void
	FindOpen(ctx context.Context) ([]VendorInvoice, error)
	Save(ctx context.Context, inv *VendorInvoice) error
	SaveWithLock(ctx context.Context, inv *VendorInvoice) error
}

// VendorCreditMemoRepository defines the interface for vendor credit memo persistence
type VendorCreditMemoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VendorCreditMemo, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]VendorCreditMemo, int64, error)
	Save(ctx context.Context, memo *VendorCreditMemo) error
	SaveWithLock(ctx context.Context, memo *VendorCreditMemo) error
}

// VendorPaymentRepository defines the interface for vendor payment persistence
type VendorPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VendorPayment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]VendorPayment, int64, error)
	Save(ctx context.Context, payment *VendorPayment) error
	SaveWithLock(ctx context.Context, payment *VendorPayment) error
}

// VendorDisputeRepository defines the interface for vendor dispute persistence
type VendorDisputeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VendorDispute, error)
	FindOpenByInvoice(ctx context.Context, vendorInvoiceID uuid.UUID) (*VendorDispute, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]VendorDispute, int64, error)
	Save(ctx context.Context, dispute *VendorDispute) error
	SaveWithLock(ctx context.Context, dispute *VendorDispute) error
}
