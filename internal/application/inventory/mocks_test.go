package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindActive(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockStoreInventoryRepository is a mock implementation of inventory.StoreInventoryRepository
type MockStoreInventoryRepository struct {
	mock.Mock
}

func (m *MockStoreInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StoreInventory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StoreInventory), args.Error(1)
}

func (m *MockStoreInventoryRepository) FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, week shared.Week) (*inventory.StoreInventory, error) {
	args := m.Called(ctx, storeID, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StoreInventory), args.Error(1)
}

func (m *MockStoreInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]inventory.StoreInventory, int64, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]inventory.StoreInventory), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreInventoryRepository) FindSubmittedByWeek(ctx context.Context, week shared.Week) ([]inventory.StoreInventory, error) {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StoreInventory), args.Error(1)
}

func (m *MockStoreInventoryRepository) Save(ctx context.Context, inv *inventory.StoreInventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

// MockStoreRepository is a mock implementation of partner.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByCode(ctx context.Context, code string) (*partner.Store, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Store, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Store), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) FindActive(ctx context.Context) ([]partner.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Store), args.Error(1)
}

func (m *MockStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *partner.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) SaveWithLock(ctx context.Context, store *partner.Store) error {
	return m.Called(ctx, store).Error(0)
}

func (m *MockStoreRepository) FindBalanceEntries(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]partner.BalanceEntry, int64, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.BalanceEntry), args.Get(1).(int64), args.Error(2)
}

// memoryLedger is an in-memory inventory.LedgerRepository
type memoryLedger struct {
	mu      sync.Mutex
	entries []inventory.LedgerEntry
}

func (l *memoryLedger) Append(_ context.Context, entries ...inventory.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
	return nil
}

func (l *memoryLedger) FindByProduct(_ context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.LedgerEntry, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []inventory.LedgerEntry
	for _, e := range l.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (l *memoryLedger) FindBySource(_ context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []inventory.LedgerEntry
	for _, e := range l.entries {
		if e.SourceType == sourceType && e.SourceID != nil && *e.SourceID == sourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *memoryLedger) SumByProduct(_ context.Context, productIDs []uuid.UUID, before time.Time) ([]inventory.TypeTotal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	type key struct {
		product uuid.UUID
		typ     inventory.EntryType
	}
	sums := make(map[key]decimal.Decimal)
	for _, e := range l.entries {
		if len(wanted) > 0 && !wanted[e.ProductID] {
			continue
		}
		if !before.IsZero() && !e.OccurredAt.Before(before) {
			continue
		}
		k := key{e.ProductID, e.EntryType}
		sums[k] = sums[k].Add(e.Quantity)
	}
	totals := make([]inventory.TypeTotal, 0, len(sums))
	for k, q := range sums {
		totals = append(totals, inventory.TypeTotal{ProductID: k.product, EntryType: k.typ, Quantity: q})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].ProductID.String() < totals[j].ProductID.String() })
	return totals, nil
}

func (l *memoryLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// mutexLocker serializes all callers on one mutex
type mutexLocker struct {
	mu    sync.Mutex
	calls int
}

func (l *mutexLocker) Lock(_ context.Context, _ []uuid.UUID) (func(), error) {
	l.mu.Lock()
	l.calls++
	return l.mu.Unlock, nil
}
