package workorder

import (
	"context"
	"sync"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of workorder.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.WorkOrder, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]workorder.WorkOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Save(ctx context.Context, wo *workorder.WorkOrder) error {
	return m.Called(ctx, wo).Error(0)
}

func (m *MockRepository) SaveWithLock(ctx context.Context, wo *workorder.WorkOrder) error {
	return m.Called(ctx, wo).Error(0)
}

// memoryOrders keeps orders by id; saves are recorded, not copied
type memoryOrders struct {
	trade.OrderRepository
	byID  map[uuid.UUID]*trade.Order
	saved int
}

func newMemoryOrders(orders ...*trade.Order) *memoryOrders {
	m := &memoryOrders{byID: make(map[uuid.UUID]*trade.Order)}
	for _, o := range orders {
		m.byID[o.ID] = o
	}
	return m
}

func (m *memoryOrders) FindConfirmedByWeek(_ context.Context, week shared.Week) ([]trade.Order, error) {
	out := make([]trade.Order, 0)
	for _, o := range m.byID {
		if o.Status == trade.OrderStatusConfirmed && o.DeliveryWeek == week {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memoryOrders) FindByWorkOrder(_ context.Context, workOrderID uuid.UUID) ([]trade.Order, error) {
	out := make([]trade.Order, 0)
	for _, o := range m.byID {
		if o.WorkOrderID != nil && *o.WorkOrderID == workOrderID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memoryOrders) SaveWithLock(_ context.Context, order *trade.Order) error {
	cp := *order
	m.byID[order.ID] = &cp
	m.saved++
	return nil
}

// fixedStock reports the same on-hand for every call
type fixedStock struct {
	onHand map[uuid.UUID]decimal.Decimal
	locked [][]uuid.UUID
}

func (f *fixedStock) WithLockedStock(ctx context.Context, productIDs []uuid.UUID, fn func(ctx context.Context, levels map[uuid.UUID]inventory.StockLevel) error) error {
	f.locked = append(f.locked, productIDs)
	levels := make(map[uuid.UUID]inventory.StockLevel)
	for _, id := range productIDs {
		qty := f.onHand[id]
		levels[id] = inventory.StockLevel{ProductID: id, OnHand: qty, Reserved: decimal.Zero, Available: qty}
	}
	return fn(ctx, levels)
}

// orderShipper ships on the domain object and keeps what it was asked
type orderShipper struct {
	orders  *memoryOrders
	shipped map[uuid.UUID]map[uuid.UUID]decimal.Decimal
}

func (s *orderShipper) Ship(ctx context.Context, order *trade.Order, qty map[uuid.UUID]decimal.Decimal) ([]shared.DomainEvent, error) {
	if err := order.Ship(qty); err != nil {
		return nil, err
	}
	if s.shipped == nil {
		s.shipped = make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal)
	}
	s.shipped[order.ID] = qty
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order.PopDomainEvents(), nil
}

type seqNumbers struct {
	mu   sync.Mutex
	n    int64
	keys []string
}

func (s *seqNumbers) Next(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	s.keys = append(s.keys, key)
	return s.n, nil
}
