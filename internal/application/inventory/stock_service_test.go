package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, sku string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku, catalog.CategoryFruit, catalog.UnitCase)
	require.NoError(t, err)
	return p
}

func receive(t *testing.T, l *memoryLedger, productID uuid.UUID, qty int64, at time.Time) {
	t.Helper()
	e, err := inventory.NewLedgerEntry(productID, inventory.EntryReceipt, decimal.NewFromInt(qty), inventory.SourcePurchaseOrder, nil, "")
	require.NoError(t, err)
	e.OccurredAt = at
	e.Week = shared.WeekOf(at)
	require.NoError(t, l.Append(context.Background(), *e))
}

func TestStockService_RecordAdjustment(t *testing.T) {
	ctx := context.Background()
	apples := newTestProduct(t, "APL-1")
	ledger := &memoryLedger{}
	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, apples.ID).Return(apples, nil)
	svc := NewStockService(ledger, products, &mutexLocker{}, nil, nil)

	receive(t, ledger, apples.ID, 10, time.Now())

	t.Run("out beyond on hand is rejected", func(t *testing.T) {
		_, err := svc.RecordAdjustment(ctx, AdjustStockRequest{
			ProductID: apples.ID,
			Direction: "OUT",
			Quantity:  decimal.NewFromInt(11),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 1, ledger.count())
	})

	t.Run("in and out update on hand", func(t *testing.T) {
		resp, err := svc.RecordAdjustment(ctx, AdjustStockRequest{
			ProductID: apples.ID,
			Direction: "IN",
			Quantity:  decimal.NewFromInt(2),
			Note:      "recount",
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12).Equal(resp.OnHand))

		resp, err = svc.RecordAdjustment(ctx, AdjustStockRequest{
			ProductID: apples.ID,
			Direction: "OUT",
			Quantity:  decimal.NewFromInt(12),
		})
		require.NoError(t, err)
		assert.True(t, resp.OnHand.IsZero())
		assert.Equal(t, "APL-1", resp.SKU)
	})
}

func TestStockService_RecordQualityLoss(t *testing.T) {
	ctx := context.Background()
	pears := newTestProduct(t, "PER-1")
	ledger := &memoryLedger{}
	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, pears.ID).Return(pears, nil)
	svc := NewStockService(ledger, products, &mutexLocker{}, nil, nil)
	receive(t, ledger, pears.ID, 5, time.Now())

	issueID := uuid.New()
	resp, err := svc.RecordQualityLoss(ctx, QualityLossRequest{
		ProductID: pears.ID,
		Quantity:  decimal.NewFromInt(2),
		IssueID:   &issueID,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(resp.Available))

	entries, err := ledger.FindBySource(ctx, inventory.SourceQualityIssue, issueID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.EntryQualityLoss, entries[0].EntryType)
}

func TestStockService_GetStockAsOf(t *testing.T) {
	ctx := context.Background()
	apples := newTestProduct(t, "APL-2")
	ledger := &memoryLedger{}
	products := new(MockProductRepository)
	products.On("FindByIDs", mock.Anything, []uuid.UUID{apples.ID}).Return([]catalog.Product{*apples}, nil)
	svc := NewStockService(ledger, products, &mutexLocker{}, nil, nil)

	last := shared.CurrentWeek().Prev()
	receive(t, ledger, apples.ID, 4, last.Start().Add(time.Hour))
	receive(t, ledger, apples.ID, 6, time.Now())

	past, err := svc.GetStockAsOf(ctx, last, []uuid.UUID{apples.ID})
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.True(t, decimal.NewFromInt(4).Equal(past[0].OnHand))

	now, err := svc.GetStock(ctx, []uuid.UUID{apples.ID})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(now[0].OnHand))

	_, err = svc.GetStockAsOf(ctx, shared.Week{}, nil)
	assert.Error(t, err)
}

func TestStockService_WithLockedStock_NeverOversells(t *testing.T) {
	ctx := context.Background()
	apples := newTestProduct(t, "APL-3")
	ledger := &memoryLedger{}
	locker := &mutexLocker{}
	svc := NewStockService(ledger, new(MockProductRepository), locker, nil, nil)
	receive(t, ledger, apples.ID, 5, time.Now())

	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orderID := uuid.New()
			err := svc.WithLockedStock(ctx, []uuid.UUID{apples.ID}, func(txCtx context.Context, levels map[uuid.UUID]inventory.StockLevel) error {
				line := inventory.ReservationLine{ProductID: apples.ID, Quantity: decimal.NewFromInt(1)}
				if short := inventory.CheckAvailability(levels, []inventory.ReservationLine{line}); len(short) > 0 {
					return inventory.NewInsufficientStockError(short)
				}
				entries, err := inventory.BuildEntries(inventory.EntryReserve, inventory.SourceOrder, &orderID, []inventory.ReservationLine{line}, "")
				if err != nil {
					return err
				}
				return svc.Append(txCtx, entries...)
			})
			if err == nil {
				mu.Lock()
				reserved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, reserved)
	assert.Equal(t, 20, locker.calls)
	levels, err := svc.Levels(ctx, []uuid.UUID{apples.ID}, time.Time{})
	require.NoError(t, err)
	assert.True(t, levels[apples.ID].Available.IsZero())
}
