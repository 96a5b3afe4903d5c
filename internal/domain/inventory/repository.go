package inventory

import (
	"context"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerRepository persists stock movements. Entries are append only.
type LedgerRepository interface {
	Append(ctx context.Context, entries ...LedgerEntry) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]LedgerEntry, int64, error)
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]LedgerEntry, error)
	// SumByProduct returns per type totals. A zero before means all history;
	// otherwise only entries that occurred before it are counted. Empty
	// productIDs means all products.
	SumByProduct(ctx context.Context, productIDs []uuid.UUID, before time.Time) ([]TypeTotal, error)
}

// StoreInventoryRepository persists store shelf counts
type StoreInventoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StoreInventory, error)
	FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, week shared.Week) (*StoreInventory, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]StoreInventory, int64, error)
	FindSubmittedByWeek(ctx context.Context, week shared.Week) ([]StoreInventory, error)
	Save(ctx context.Context, inv *StoreInventory) error
}
