package finance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]finance.Invoice, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindOpenByStore(ctx context.Context, storeID uuid.UUID) ([]finance.Invoice, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpenIssuedBefore(ctx context.Context, asOf time.Time) ([]finance.Invoice, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindIssuedBetween(ctx context.Context, from, to time.Time) ([]finance.Invoice, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, inv *finance.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

// MockCreditMemoRepository is a mock implementation of finance.CreditMemoRepository
type MockCreditMemoRepository struct {
	mock.Mock
}

func (m *MockCreditMemoRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CreditMemo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CreditMemo), args.Error(1)
}

func (m *MockCreditMemoRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.CreditMemo, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.CreditMemo), args.Get(1).(int64), args.Error(2)
}

func (m *MockCreditMemoRepository) Save(ctx context.Context, memo *finance.CreditMemo) error {
	return m.Called(ctx, memo).Error(0)
}

func (m *MockCreditMemoRepository) SaveWithLock(ctx context.Context, memo *finance.CreditMemo) error {
	return m.Called(ctx, memo).Error(0)
}

// MockStorePaymentRepository is a mock implementation of finance.StorePaymentRepository
type MockStorePaymentRepository struct {
	mock.Mock
}

func (m *MockStorePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.StorePayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.StorePayment), args.Error(1)
}

func (m *MockStorePaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.StorePayment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.StorePayment), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorePaymentRepository) Save(ctx context.Context, payment *finance.StorePayment) error {
	return m.Called(ctx, payment).Error(0)
}

// MockVendorInvoiceRepository is a mock implementation of finance.VendorInvoiceRepository
type MockVendorInvoiceRepository struct {
	mock.Mock
}

func (m *MockVendorInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.VendorInvoice), args.Error(1)
}

func (m *MockVendorInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]finance.VendorInvoice, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.VendorInvoice), args.Error(1)
}

func (m *MockVendorInvoiceRepository) ExistsByVendorNumber(ctx context.Context, vendorID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, vendorID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockVendorInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorInvoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.VendorInvoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockVendorInvoiceRepository) FindByPurchaseOrder(ctx context.Context, poID uuid.UUID) ([]finance.VendorInvoice, error) {
	args := m.Called(ctx, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.VendorInvoice), args.Error(1)
}

func (m *MockVendorInvoiceRepository) FindOpen(ctx context.Context) ([]finance.VendorInvoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.VendorInvoice), args.Error(1)
}

func (m *MockVendorInvoiceRepository) Save(ctx context.Context, inv *finance.VendorInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockVendorInvoiceRepository) SaveWithLock(ctx context.Context, inv *finance.VendorInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

// MockVendorCreditMemoRepository is a mock implementation of finance.VendorCreditMemoRepository
type MockVendorCreditMemoRepository struct {
	mock.Mock
}

func (m *MockVendorCreditMemoRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorCreditMemo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.VendorCreditMemo), args.Error(1)
}

func (m *MockVendorCreditMemoRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorCreditMemo, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.VendorCreditMemo), args.Get(1).(int64), args.Error(2)
}

func (m *MockVendorCreditMemoRepository) Save(ctx context.Context, memo *finance.VendorCreditMemo) error {
	return m.Called(ctx, memo).Error(0)
}

func (m *MockVendorCreditMemoRepository) SaveWithLock(ctx context.Context, memo *finance.VendorCreditMemo) error {
	return m.Called(ctx, memo).Error(0)
}

// MockVendorPaymentRepository is a mock implementation of finance.VendorPaymentRepository
type MockVendorPaymentRepository struct {
	mock.Mock
}

func (m *MockVendorPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.VendorPayment), args.Error(1)
}

func (m *MockVendorPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorPayment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.VendorPayment), args.Get(1).(int64), args.Error(2)
}

func (m *MockVendorPaymentRepository) Save(ctx context.Context, payment *finance.VendorPayment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockVendorPaymentRepository) SaveWithLock(ctx context.Context, payment *finance.VendorPayment) error {
	return m.Called(ctx, payment).Error(0)
}

// MockVendorDisputeRepository is a mock implementation of finance.VendorDisputeRepository
type MockVendorDisputeRepository struct {
	mock.Mock
}

func (m *MockVendorDisputeRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.VendorDispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.VendorDispute), args.Error(1)
}

func (m *MockVendorDisputeRepository) FindOpenByInvoice(ctx context.Context, vendorInvoiceID uuid.UUID) (*finance.VendorDispute, error) {
	args := m.Called(ctx, vendorInvoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.VendorDispute), args.Error(1)
}

func (m *MockVendorDisputeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.VendorDispute, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]finance.VendorDispute), args.Get(1).(int64), args.Error(2)
}

func (m *MockVendorDisputeRepository) Save(ctx context.Context, dispute *finance.VendorDispute) error {
	return m.Called(ctx, dispute).Error(0)
}

func (m *MockVendorDisputeRepository) SaveWithLock(ctx context.Context, dispute *finance.VendorDispute) error {
	return m.Called(ctx, dispute).Error(0)
}

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

// memoryKeys is an IdempotencyStore over a map, ignoring TTLs
type memoryKeys struct {
	mu       sync.Mutex
	keys     map[string]bool
	released []string
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{keys: make(map[string]bool)}
}

func (k *memoryKeys) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.keys[key] {
		return false, nil
	}
	k.keys[key] = true
	return true, nil
}

func (k *memoryKeys) IsProcessed(_ context.Context, key string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys[key], nil
}

func (k *memoryKeys) Release(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, key)
	k.released = append(k.released, key)
	return nil
}

func (k *memoryKeys) Close() error { return nil }

// fakeRenderer returns a fixed document and counts calls
type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) RenderInvoice(_ context.Context, inv *finance.Invoice, _ *partner.Store) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 " + inv.InvoiceNumber), nil
}

// fakeDocuments keeps uploads in a map and signs nothing
type fakeDocuments struct {
	objects map[string][]byte
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{objects: make(map[string][]byte)}
}

func (d *fakeDocuments) Upload(_ context.Context, key string, data []byte, _ string) error {
	d.objects[key] = data
	return nil
}

func (d *fakeDocuments) GenerateDownloadURL(_ context.Context, key string, _ time.Duration) (string, time.Time, error) {
	return fmt.Sprintf("https://files.test/%s", key), time.Now().Add(time.Hour), nil
}
