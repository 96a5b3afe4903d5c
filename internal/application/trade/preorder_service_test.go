package trade

import (
	"context"
	"testing"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type preorderFixture struct {
	preorders *MockPreOrderRepository
	matrices  *MockOrderMatrixRepository
	orders    *MockOrderRepository
	counts    *MockStoreInventoryRepository
	stores    *MockStoreRepository
	products  *MockProductRepository
	stock     *fakeStock
	svc       *PreOrderService
}

func newPreorderFixture(stock *fakeStock) *preorderFixture {
	f := &preorderFixture{
		preorders: new(MockPreOrderRepository),
		matrices:  new(MockOrderMatrixRepository),
		orders:    new(MockOrderRepository),
		counts:    new(MockStoreInventoryRepository),
		stores:    new(MockStoreRepository),
		products:  new(MockProductRepository),
		stock:     stock,
	}
	f.svc = NewPreOrderService(PreOrderRepositories{
		PreOrders: f.preorders,
		Matrices:  f.matrices,
		Orders:    f.orders,
		Counts:    f.counts,
		Stores:    f.stores,
		Products:  f.products,
	}, stock, &seqNumbers{}, nil)
	return f
}

func TestPreOrderService_Generate(t *testing.T) {
	ctx := context.Background()
	week := shared.CurrentWeek().Next()
	withMatrix := newStore(t, "ST01")
	noMatrix := newStore(t, "ST02")
	alreadyDone := newStore(t, "ST03")
	kale, leeks, herbs := uuid.New(), uuid.New(), uuid.New()

	matrix, err := trade.NewOrderMatrix(withMatrix.ID)
	require.NoError(t, err)
	require.NoError(t, matrix.Replace([]trade.MatrixLine{
		{ProductID: kale, Par: decimal.NewFromInt(10)},
		{ProductID: leeks, Par: decimal.NewFromInt(4)},
		{ProductID: herbs, Par: decimal.NewFromInt(6)},
	}))
	other, err := trade.NewOrderMatrix(alreadyDone.ID)
	require.NoError(t, err)
	require.NoError(t, other.Replace([]trade.MatrixLine{{ProductID: kale, Par: decimal.NewFromInt(1)}}))

	count, err := inventory.NewStoreInventory(withMatrix.ID, week.Prev())
	require.NoError(t, err)
	require.NoError(t, count.SetCount(kale, decimal.NewFromInt(3)))
	require.NoError(t, count.SetCount(leeks, decimal.NewFromInt(9)))
	require.NoError(t, count.Submit())

	f := newPreorderFixture(newFakeStock(nil))
	f.stores.On("FindActive", mock.Anything).Return([]partner.Store{*withMatrix, *noMatrix, *alreadyDone}, nil)
	f.matrices.On("FindAll", mock.Anything).Return([]trade.OrderMatrix{*matrix, *other}, nil)
	f.counts.On("FindSubmittedByWeek", mock.Anything, week.Prev()).Return([]inventory.StoreInventory{*count}, nil)
	f.preorders.On("FindByStoreAndWeek", mock.Anything, withMatrix.ID, week).Return(nil, shared.ErrNotFound)
	f.preorders.On("FindByStoreAndWeek", mock.Anything, alreadyDone.ID, week).Return(&trade.PreOrder{}, nil)

	var saved *trade.PreOrder
	f.preorders.On("Save", mock.Anything, mock.AnythingOfType("*trade.PreOrder")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*trade.PreOrder) }).
		Return(nil).Once()

	result, err := f.svc.Generate(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)

	require.NotNil(t, saved)
	suggested := make(map[uuid.UUID]decimal.Decimal)
	for _, l := range saved.Lines {
		suggested[l.ProductID] = l.Suggested
	}
	assert.True(t, decimal.NewFromInt(7).Equal(suggested[kale]), "par minus count")
	assert.NotContains(t, suggested, leeks, "count above par suggests nothing")
	assert.True(t, decimal.NewFromInt(6).Equal(suggested[herbs]), "uncounted products suggest par")
	f.preorders.AssertExpectations(t)
}

func confirmedPreOrder(t *testing.T, storeID uuid.UUID, requested map[uuid.UUID]int64) *trade.PreOrder {
	t.Helper()
	pre, err := trade.NewPreOrder(storeID, shared.CurrentWeek().Next(), nil)
	require.NoError(t, err)
	for id, qty := range requested {
		require.NoError(t, pre.UpdateLine(id, decimal.NewFromInt(qty)))
	}
	require.NoError(t, pre.Confirm())
	pre.ClearDomainEvents()
	return pre
}

func TestPreOrderService_Promote(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "ST01")
	kale := newProduct(t, "KALE", 20)
	leeks := newProduct(t, "LEEK", 30)

	t.Run("fills to available and records short", func(t *testing.T) {
		stock := newFakeStock(map[uuid.UUID]int64{kale.ID: 3, leeks.ID: 10})
		f := newPreorderFixture(stock)
		pre := confirmedPreOrder(t, store.ID, map[uuid.UUID]int64{kale.ID: 5, leeks.ID: 2})
		f.preorders.On("FindByID", mock.Anything, pre.ID).Return(pre, nil)
		f.stores.On("FindByID", mock.Anything, store.ID).Return(store, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*kale, *leeks}, nil)
		f.orders.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)
		f.preorders.On("SaveWithLock", mock.Anything, pre).Return(nil)

		resp, err := f.svc.Promote(ctx, pre.ID)
		require.NoError(t, err)
		assert.Equal(t, string(trade.OrderSourcePreOrder), resp.Source)
		assert.Equal(t, trade.PreOrderStatusPromoted, pre.Status)
		assert.Equal(t, resp.ID, *pre.OrderID)

		for _, l := range pre.Lines {
			switch l.ProductID {
			case kale.ID:
				assert.True(t, decimal.NewFromInt(3).Equal(l.Promoted))
				assert.True(t, decimal.NewFromInt(2).Equal(l.Short))
			case leeks.ID:
				assert.True(t, decimal.NewFromInt(2).Equal(l.Promoted))
				assert.True(t, l.Short.IsZero())
			}
		}
		assert.Len(t, stock.entriesOfType(inventory.EntryReserve), 2)
	})

	t.Run("nothing available keeps the preorder confirmed", func(t *testing.T) {
		stock := newFakeStock(map[uuid.UUID]int64{kale.ID: 0, leeks.ID: 0})
		f := newPreorderFixture(stock)
		pre := confirmedPreOrder(t, store.ID, map[uuid.UUID]int64{kale.ID: 5})
		f.preorders.On("FindByID", mock.Anything, pre.ID).Return(pre, nil)
		f.stores.On("FindByID", mock.Anything, store.ID).Return(store, nil)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*kale}, nil)

		_, err := f.svc.Promote(ctx, pre.ID)
		requireCode(t, err, "INSUFFICIENT_STOCK")
		assert.Equal(t, trade.PreOrderStatusConfirmed, pre.Status)
		assert.Empty(t, stock.entriesOfType(inventory.EntryReserve))
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("draft preorders cannot be promoted", func(t *testing.T) {
		f := newPreorderFixture(newFakeStock(nil))
		pre, err := trade.NewPreOrder(store.ID, shared.CurrentWeek(), nil)
		require.NoError(t, err)
		f.preorders.On("FindByID", mock.Anything, pre.ID).Return(pre, nil)

		_, err = f.svc.Promote(ctx, pre.ID)
		requireCode(t, err, "INVALID_STATE")
	})
}

func TestPreOrderService_Expire(t *testing.T) {
	week := shared.CurrentWeek()
	draft, err := trade.NewPreOrder(uuid.New(), week, nil)
	require.NoError(t, err)
	confirmed := confirmedPreOrder(t, uuid.New(), map[uuid.UUID]int64{uuid.New(): 1})

	f := newPreorderFixture(newFakeStock(nil))
	f.preorders.On("FindOpenByWeek", mock.Anything, week).Return([]trade.PreOrder{*draft, *confirmed}, nil)
	f.preorders.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(p *trade.PreOrder) bool { return p.ID == draft.ID })).Return(nil)
	f.preorders.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(p *trade.PreOrder) bool { return p.ID == confirmed.ID })).Return(shared.ErrConcurrencyConflict)

	expired, err := f.svc.Expire(context.Background(), week)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
}

func TestPreOrderService_UpsertMatrix(t *testing.T) {
	store := newStore(t, "ST01")
	kale := newProduct(t, "KALE", 20)
	f := newPreorderFixture(newFakeStock(nil))
	f.stores.On("FindByID", mock.Anything, store.ID).Return(store, nil)
	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{kale.ID}).Return([]catalog.Product{*kale}, nil)
	f.matrices.On("FindByStore", mock.Anything, store.ID).Return(nil, shared.ErrNotFound)
	f.matrices.On("Save", mock.Anything, mock.AnythingOfType("*trade.OrderMatrix")).Return(nil)

	resp, err := f.svc.UpsertMatrix(context.Background(), store.ID, UpsertMatrixRequest{
		Lines: []MatrixLineInput{{ProductID: kale.ID, Par: decimal.NewFromInt(12)}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.True(t, decimal.NewFromInt(12).Equal(resp.Lines[0].Par))
}
