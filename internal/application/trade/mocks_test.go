package trade

import (
	"context"
	"sync"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]trade.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindConfirmedByWeek(ctx context.Context, week shared.Week) ([]trade.Order, error) {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]trade.Order, error) {
	args := m.Called(ctx, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

// MockPreOrderRepository is a mock implementation of trade.PreOrderRepository
type MockPreOrderRepository struct {
	mock.Mock
}

func (m *MockPreOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PreOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PreOrder), args.Error(1)
}

func (m *MockPreOrderRepository) FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, week shared.Week) (*trade.PreOrder, error) {
	args := m.Called(ctx, storeID, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PreOrder), args.Error(1)
}

func (m *MockPreOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PreOrder, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.PreOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPreOrderRepository) FindOpenByWeek(ctx context.Context, week shared.Week) ([]trade.PreOrder, error) {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PreOrder), args.Error(1)
}

func (m *MockPreOrderRepository) Save(ctx context.Context, preorder *trade.PreOrder) error {
	return m.Called(ctx, preorder).Error(0)
}

func (m *MockPreOrderRepository) SaveWithLock(ctx context.Context, preorder *trade.PreOrder) error {
	return m.Called(ctx, preorder).Error(0)
}

// MockOrderMatrixRepository is a mock implementation of trade.OrderMatrixRepository
type MockOrderMatrixRepository struct {
	mock.Mock
}

func (m *MockOrderMatrixRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*trade.OrderMatrix, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.OrderMatrix), args.Error(1)
}

func (m *MockOrderMatrixRepository) FindAll(ctx context.Context) ([]trade.OrderMatrix, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.OrderMatrix), args.Error(1)
}

func (m *MockOrderMatrixRepository) Save(ctx context.Context, matrix *trade.OrderMatrix) error {
	return m.Called(ctx, matrix).Error(0)
}

// MockPurchaseOrderRepository is a mock implementation of trade.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *trade.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

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
	return m.Called(ctx, product).Error(0)
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

// MockVendorRepository is a mock implementation of partner.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Vendor, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Vendor), args.Get(1).(int64), args.Error(2)
}

func (m *MockVendorRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
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
	return m.Called(ctx, inv).Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range m.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeStock is a StockGateway over fixed levels. Entries appended inside a
// failed WithLockedStock call are discarded, as a rolled back transaction would.
type fakeStock struct {
	lockMu  sync.Mutex
	mu      sync.Mutex
	levels  map[uuid.UUID]inventory.StockLevel
	entries []inventory.LedgerEntry
}

func newFakeStock(available map[uuid.UUID]int64) *fakeStock {
	levels := make(map[uuid.UUID]inventory.StockLevel, len(available))
	for id, qty := range available {
		q := decimal.NewFromInt(qty)
		levels[id] = inventory.StockLevel{ProductID: id, OnHand: q, Reserved: decimal.Zero, Available: q}
	}
	return &fakeStock{levels: levels}
}

func (f *fakeStock) WithLockedStock(ctx context.Context, productIDs []uuid.UUID, fn func(ctx context.Context, levels map[uuid.UUID]inventory.StockLevel) error) error {
	f.lockMu.Lock()
	defer f.lockMu.Unlock()

	f.mu.Lock()
	snapshot := len(f.entries)
	levels := make(map[uuid.UUID]inventory.StockLevel, len(productIDs))
	for _, id := range productIDs {
		levels[id] = f.levels[id]
	}
	f.mu.Unlock()

	if err := fn(ctx, levels); err != nil {
		f.mu.Lock()
		f.entries = f.entries[:snapshot]
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStock) Append(_ context.Context, entries ...inventory.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeStock) entriesOfType(t inventory.EntryType) []inventory.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []inventory.LedgerEntry
	for _, e := range f.entries {
		if e.EntryType == t {
			out = append(out, e)
		}
	}
	return out
}

// seqNumbers hands out 1, 2, 3...
type seqNumbers struct {
	mu sync.Mutex
	n  int64
}

func (s *seqNumbers) Next(_ context.Context, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n, nil
}
