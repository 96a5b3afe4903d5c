package workorder

import (
	"context"
	"testing"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testWeek = shared.Week{Year: 2026, Number: 42}

type fixture struct {
	svc      *Service
	repo     *MockRepository
	orders   *memoryOrders
	stock    *fixedStock
	shipper  *orderShipper
	numbers  *seqNumbers
	first    *trade.Order
	second   *trade.Order
	tomatoes uuid.UUID
	lettuce  uuid.UUID
}

func newOrder(t *testing.T, number string, created time.Time, lines ...trade.LineInput) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(number, uuid.New(), testWeek, lines)
	require.NoError(t, err)
	o.CreatedAt = created
	o.ClearDomainEvents()
	return o
}

// Two stores want 6 and 4 cases of tomatoes with 7 on hand; lettuce is plentiful
func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     new(MockRepository),
		numbers:  &seqNumbers{},
		tomatoes: uuid.New(),
		lettuce:  uuid.New(),
	}
	base := time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC)
	tomato := func(qty int64) trade.LineInput {
		return trade.LineInput{ProductID: f.tomatoes, ProductName: "Roma Tomatoes", SKU: "TOM-01", Unit: "CASE", Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(22)}
	}
	f.first = newOrder(t, "ORD-2026W42-000001", base, tomato(6),
		trade.LineInput{ProductID: f.lettuce, ProductName: "Romaine", SKU: "LET-02", Unit: "CASE", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(20)})
	f.second = newOrder(t, "ORD-2026W42-000002", base.Add(time.Hour), tomato(4))

	f.orders = newMemoryOrders(f.first, f.second)
	f.stock = &fixedStock{onHand: map[uuid.UUID]decimal.Decimal{
		f.tomatoes: decimal.NewFromInt(7),
		f.lettuce:  decimal.NewFromInt(50),
	}}
	f.shipper = &orderShipper{orders: f.orders}
	f.svc = NewService(f.repo, f.orders, f.stock, f.shipper, f.numbers, nil, nil)
	return f
}

func (f *fixture) generate(t *testing.T) *workorder.WorkOrder {
	t.Helper()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	_, err := f.svc.Generate(context.Background(), testWeek)
	require.NoError(t, err)
	wo := f.repo.Calls[len(f.repo.Calls)-1].Arguments.Get(1).(*workorder.WorkOrder)
	f.repo.On("FindByID", mock.Anything, wo.ID).Return(wo, nil)
	f.repo.On("SaveWithLock", mock.Anything, wo).Return(nil)
	return wo
}

func allocated(wo *workorder.WorkOrder, orderID, productID uuid.UUID) decimal.Decimal {
	for _, l := range wo.Lines {
		if l.OrderID == orderID && l.ProductID == productID {
			return l.Allocated
		}
	}
	return decimal.Zero
}

func TestService_Generate(t *testing.T) {
	t.Run("fair share of a short product", func(t *testing.T) {
		f := setup(t)
		wo := f.generate(t)

		assert.Equal(t, "WO-2026W42-000001", wo.Number)
		assert.Equal(t, []string{"WO:2026W42"}, f.numbers.keys)
		require.Len(t, wo.Lines, 3)
		// 7 × 6/10 = 4.2 and 7 × 4/10 = 2.8; the spare unit goes to the larger remainder
		assert.True(t, decimal.NewFromInt(4).Equal(allocated(wo, f.first.ID, f.tomatoes)))
		assert.True(t, decimal.NewFromInt(3).Equal(allocated(wo, f.second.ID, f.tomatoes)))
		assert.True(t, decimal.NewFromInt(3).Equal(allocated(wo, f.first.ID, f.lettuce)))

		for _, id := range []uuid.UUID{f.first.ID, f.second.ID} {
			require.NotNil(t, f.orders.byID[id].WorkOrderID)
			assert.Equal(t, wo.ID, *f.orders.byID[id].WorkOrderID)
		}
		require.Len(t, f.stock.locked, 1)
		assert.ElementsMatch(t, []uuid.UUID{f.tomatoes, f.lettuce, f.tomatoes}, f.stock.locked[0])
	})

	t.Run("orders already on a work order are skipped", func(t *testing.T) {
		f := setup(t)
		f.generate(t)

		_, err := f.svc.Generate(context.Background(), testWeek)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "NO_ORDERS", de.Code)
		assert.Len(t, f.numbers.keys, 1)
	})

	t.Run("empty week", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Generate(context.Background(), testWeek.Next())
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "NO_ORDERS", de.Code)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_ReleasePickComplete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	wo := f.generate(t)

	_, err := f.svc.RecordPick(ctx, wo.ID, RecordPickRequest{LineID: wo.Lines[0].ID, Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err := f.svc.Release(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workorder.StatusReleased), resp.Status)
	assert.Equal(t, trade.OrderStatusPicking, f.orders.byID[f.first.ID].Status)
	assert.Equal(t, trade.OrderStatusPicking, f.orders.byID[f.second.ID].Status)

	for _, l := range wo.Lines {
		qty := l.Allocated
		if l.OrderID == f.second.ID {
			qty = decimal.NewFromInt(2)
		}
		_, err := f.svc.RecordPick(ctx, wo.ID, RecordPickRequest{LineID: l.ID, Quantity: qty})
		require.NoError(t, err)
	}
	_, err = f.svc.RecordPick(ctx, wo.ID, RecordPickRequest{LineID: wo.Lines[0].ID, Quantity: decimal.NewFromInt(99)})
	assert.Error(t, err)

	resp, err = f.svc.Complete(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workorder.StatusCompleted), resp.Status)
	assert.Equal(t, trade.OrderStatusShipped, f.orders.byID[f.first.ID].Status)
	assert.Equal(t, trade.OrderStatusShipped, f.orders.byID[f.second.ID].Status)
	assert.True(t, decimal.NewFromInt(2).Equal(f.shipper.shipped[f.second.ID][f.tomatoes]))
	assert.True(t, decimal.NewFromInt(4).Equal(f.shipper.shipped[f.first.ID][f.tomatoes]))

	_, err = f.svc.Cancel(ctx, wo.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	wo := f.generate(t)

	resp, err := f.svc.Cancel(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workorder.StatusCancelled), resp.Status)
	assert.Nil(t, f.orders.byID[f.first.ID].WorkOrderID)
	assert.Nil(t, f.orders.byID[f.second.ID].WorkOrderID)

	// freed orders are picked up by the next run
	f.generate(t)
	assert.Len(t, f.numbers.keys, 2)
}

func TestToWorkOrderResponse_FullyCovered(t *testing.T) {
	f := setup(t)
	f.stock.onHand[f.tomatoes] = decimal.NewFromInt(20)
	wo := f.generate(t)
	resp := ToWorkOrderResponse(wo)
	for _, l := range resp.Lines {
		assert.True(t, l.Short.IsZero())
	}
	assert.Equal(t, 2, resp.OrderCount)
}
