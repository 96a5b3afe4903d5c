package partner

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByCode(ctx context.Context, code string) (*Store, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, int64, error)
	FindActive(ctx context.Context) ([]Store, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// Save inserts or updates the store and appends its pending balance entries
	Save(ctx context.Context, store *Store) error
	// SaveWithLock is Save guarded by the loaded version
	SaveWithLock(ctx context.Context, store *Store) error
	FindBalanceEntries(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]BalanceEntry, int64, error)
}

// AdjustmentRepository defines the interface for adjustment persistence
type AdjustmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Adjustment, int64, error)
	Save(ctx context.Context, adj *Adjustment) error
	SaveWithLock(ctx context.Context, adj *Adjustment) error
}

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Vendor, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, vendor *Vendor) error
}
