package inventory

import (
	"testing"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func entry(t *testing.T, productID uuid.UUID, et EntryType, qty int64) LedgerEntry {
	t.Helper()
	e, err := NewLedgerEntry(productID, et, d(qty), SourceManual, nil, "")
	require.NoError(t, err)
	return *e
}

func TestNewLedgerEntry_Validation(t *testing.T) {
	p := uuid.New()
	_, err := NewLedgerEntry(uuid.Nil, EntryReceipt, d(1), SourceManual, nil, "")
	assert.Error(t, err)
	_, err = NewLedgerEntry(p, EntryType("TELEPORT"), d(1), SourceManual, nil, "")
	assert.Error(t, err)
	_, err = NewLedgerEntry(p, EntryReceipt, d(0), SourceManual, nil, "")
	assert.Error(t, err)
	_, err = NewLedgerEntry(p, EntryReceipt, d(-3), SourceManual, nil, "")
	assert.Error(t, err)
	_, err = NewLedgerEntry(p, EntryReceipt, d(3), SourceType("EMAIL"), nil, "")
	assert.Error(t, err)

	e, err := NewLedgerEntry(p, EntryReceipt, d(3), SourcePurchaseOrder, nil, " dock 2 ")
	require.NoError(t, err)
	assert.Equal(t, "dock 2", e.Note)
	assert.Equal(t, shared.WeekOf(e.OccurredAt), e.Week)
}

func TestEntryType_Signs(t *testing.T) {
	cases := map[EntryType][2]int{
		EntryReceipt:       {1, 0},
		EntryShipment:      {-1, 0},
		EntryAdjustmentIn:  {1, 0},
		EntryAdjustmentOut: {-1, 0},
		EntryQualityLoss:   {-1, 0},
		EntryReturn:        {1, 0},
		EntryReserve:       {0, 1},
		EntryRelease:       {0, -1},
	}
	for et, signs := range cases {
		assert.Equal(t, signs[0], et.OnHandSign(), et)
		assert.Equal(t, signs[1], et.ReservedSign(), et)
	}
}

func TestComputeStockFromEntries(t *testing.T) {
	apples := uuid.New()
	pears := uuid.New()
	untouched := uuid.New()

	entries := []LedgerEntry{
		entry(t, apples, EntryReceipt, 100),
		entry(t, apples, EntryShipment, 30),
		entry(t, apples, EntryQualityLoss, 5),
		entry(t, apples, EntryReserve, 40),
		entry(t, apples, EntryRelease, 10),
		entry(t, apples, EntryReturn, 2),
		entry(t, pears, EntryReceipt, 10),
		entry(t, pears, EntryAdjustmentOut, 3),
		entry(t, pears, EntryAdjustmentIn, 1),
	}

	levels := ComputeStockFromEntries([]uuid.UUID{apples, pears, untouched}, entries)

	require.Contains(t, levels, apples)
	assert.True(t, d(67).Equal(levels[apples].OnHand), levels[apples].OnHand.String())
	assert.True(t, d(30).Equal(levels[apples].Reserved))
	assert.True(t, d(37).Equal(levels[apples].Available))

	assert.True(t, d(8).Equal(levels[pears].OnHand))
	assert.True(t, d(8).Equal(levels[pears].Available))

	assert.True(t, levels[untouched].OnHand.IsZero())
	assert.True(t, levels[untouched].Available.IsZero())
}

func TestComputeStock_HandSums(t *testing.T) {
	p := uuid.New()
	totals := []TypeTotal{
		{ProductID: p, EntryType: EntryReceipt, Quantity: decimal.RequireFromString("12.5")},
		{ProductID: p, EntryType: EntryShipment, Quantity: decimal.RequireFromString("2.25")},
		{ProductID: p, EntryType: EntryReserve, Quantity: decimal.RequireFromString("4")},
	}
	lvl := ComputeStock(nil, totals)[p]
	assert.Equal(t, "10.25", lvl.OnHand.String())
	assert.Equal(t, "6.25", lvl.Available.String())
}

func TestCheckAvailability(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	levels := map[uuid.UUID]StockLevel{
		a: {ProductID: a, OnHand: d(10), Reserved: d(4), Available: d(6)},
		b: {ProductID: b, OnHand: d(2), Reserved: d(5), Available: d(-3)},
	}

	t.Run("covered", func(t *testing.T) {
		assert.Empty(t, CheckAvailability(levels, []ReservationLine{{ProductID: a, Quantity: d(6)}}))
	})

	t.Run("duplicate lines are summed", func(t *testing.T) {
		short := CheckAvailability(levels, []ReservationLine{
			{ProductID: a, Quantity: d(4)},
			{ProductID: a, Quantity: d(3)},
		})
		require.Len(t, short, 1)
		assert.True(t, d(7).Equal(short[0].Requested))
		assert.True(t, d(6).Equal(short[0].Available))
	})

	t.Run("negative availability is floored and unknown products have none", func(t *testing.T) {
		unknown := uuid.New()
		short := CheckAvailability(levels, []ReservationLine{
			{ProductID: b, Quantity: d(1)},
			{ProductID: unknown, Quantity: d(1)},
		})
		require.Len(t, short, 2)
		assert.True(t, short[0].Available.IsZero())
		assert.Equal(t, unknown, short[1].ProductID)

		err := NewInsufficientStockError(short)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestSortedUnique(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	out := SortedUnique([]uuid.UUID{b, a, b, a})
	require.Len(t, out, 2)
	assert.True(t, out[0].String() < out[1].String())
}

func TestStoreInventory(t *testing.T) {
	week := shared.Week{Year: 2026, Number: 42}
	apples := uuid.New()

	_, err := NewStoreInventory(uuid.Nil, week)
	assert.Error(t, err)

	inv, err := NewStoreInventory(uuid.New(), week)
	require.NoError(t, err)

	assert.Error(t, inv.Submit(), "empty counts cannot be submitted")
	assert.Error(t, inv.SetCount(apples, d(-1)))

	require.NoError(t, inv.SetCount(apples, d(3)))
	require.NoError(t, inv.SetCount(apples, d(5)))
	require.Len(t, inv.Lines, 1)
	assert.True(t, d(5).Equal(inv.Counts()[apples]))

	require.NoError(t, inv.Submit())
	assert.Equal(t, CountStatusSubmitted, inv.Status)
	assert.NotNil(t, inv.SubmittedAt)
	assert.Error(t, inv.SetCount(apples, d(1)))
	assert.Error(t, inv.Submit())
}
