package finance

import (
	"testing"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, storeID uuid.UUID, total int64, issued time.Time) *Invoice {
	t.Helper()
	inv, err := NewInvoice(InvoiceHeader{
		InvoiceNumber: "INV-2026W42-" + uuid.NewString()[:6],
		StoreID:       storeID,
		OrderID:       uuid.New(),
		IssuedAt:      issued,
		TermsDays:     14,
	}, []InvoiceLineInput{
		{ProductID: uuid.New(), Quantity: decimal.NewFromInt(total), UnitPrice: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	issued := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	inv, err := NewInvoice(InvoiceHeader{
		InvoiceNumber: "INV-2026W42-000001",
		StoreID:       uuid.New(),
		OrderID:       uuid.New(),
		IssuedAt:      issued,
		TermsDays:     14,
	}, []InvoiceLineInput{
		{ProductID: uuid.New(), Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromFloat(9.99)},
		{ProductID: uuid.New(), Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)
	assert.Len(t, inv.Lines, 1)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromFloat(29.97)))
	assert.Equal(t, issued.AddDate(0, 0, 14), inv.DueDate)
	assert.Equal(t, InvoiceStatusOpen, inv.Status)
}

func TestNewInvoice_NothingShippedIsPaid(t *testing.T) {
	inv, err := NewInvoice(InvoiceHeader{InvoiceNumber: "INV-1", StoreID: uuid.New(), OrderID: uuid.New()}, nil)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Outstanding().IsZero())
}

func TestInvoice_PaymentsAndCredits(t *testing.T) {
	inv := newTestInvoice(t, uuid.New(), 100, time.Now())

	require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(60)))
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)

	err := inv.ApplyCredit(decimal.NewFromInt(41))
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "EXCEEDS_OUTSTANDING", de.Code)

	require.NoError(t, inv.ApplyCredit(decimal.NewFromInt(40)))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Outstanding().IsZero())
	assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(1)))
}

func TestInvoice_Void(t *testing.T) {
	inv := newTestInvoice(t, uuid.New(), 100, time.Now())
	assert.Error(t, inv.Void(""))
	require.NoError(t, inv.Void("duplicate"))
	assert.Equal(t, InvoiceStatusVoid, inv.Status)

	paid := newTestInvoice(t, uuid.New(), 100, time.Now())
	require.NoError(t, paid.ApplyPayment(decimal.NewFromInt(10)))
	assert.Error(t, paid.Void("duplicate"))
}

func TestCreditMemo_Apply(t *testing.T) {
	storeID := uuid.New()
	inv := newTestInvoice(t, storeID, 50, time.Now())

	memo, err := NewCreditMemo("CM-1", storeID, &inv.ID, CreditReasonQuality, decimal.NewFromInt(20), "bruised")
	require.NoError(t, err)
	assert.Error(t, memo.Apply(nil))
	require.NoError(t, memo.Apply(inv))
	assert.Equal(t, CreditMemoStatusApplied, memo.Status)
	assert.True(t, inv.Outstanding().Equal(decimal.NewFromInt(30)))

	// Applied at most once
	assert.Error(t, memo.Apply(inv))
	assert.Error(t, memo.Void())

	big, err := NewCreditMemo("CM-2", storeID, &inv.ID, CreditReasonPricing, decimal.NewFromInt(31), "")
	require.NoError(t, err)
	assert.Error(t, big.Apply(inv))
	assert.Equal(t, CreditMemoStatusPending, big.Status)

	unlinked, err := NewCreditMemo("CM-3", storeID, nil, CreditReasonOther, decimal.NewFromInt(500), "")
	require.NoError(t, err)
	require.NoError(t, unlinked.Apply(nil))
}

func TestNewCreditMemo_Validation(t *testing.T) {
	_, err := NewCreditMemo("CM-1", uuid.New(), nil, "BOGUS", decimal.NewFromInt(1), "")
	assert.Error(t, err)
	_, err = NewCreditMemo("CM-1", uuid.New(), nil, CreditReasonOther, decimal.NewFromFloat(0.001), "")
	assert.Error(t, err)
}

func TestAllocateOldestFirst(t *testing.T) {
	now := time.Now()
	a := AllocationTarget{ID: uuid.New(), Outstanding: decimal.NewFromInt(30), DueDate: now.AddDate(0, 0, -10)}
	b := AllocationTarget{ID: uuid.New(), Outstanding: decimal.NewFromInt(50), DueDate: now.AddDate(0, 0, -20)}
	c := AllocationTarget{ID: uuid.New(), Outstanding: decimal.NewFromInt(40), DueDate: now}

	allocs, rest, err := AllocateOldestFirst(decimal.NewFromInt(70), []AllocationTarget{a, b, c})
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, b.ID, allocs[0].TargetID)
	assert.True(t, allocs[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, a.ID, allocs[1].TargetID)
	assert.True(t, allocs[1].Amount.Equal(decimal.NewFromInt(20)))
	assert.True(t, rest.IsZero())

	allocs, rest, err = AllocateOldestFirst(decimal.NewFromInt(200), []AllocationTarget{a})
	require.NoError(t, err)
	assert.Len(t, allocs, 1)
	assert.True(t, rest.Equal(decimal.NewFromInt(170)))

	_, _, err = AllocateOldestFirst(decimal.Zero, nil)
	assert.Error(t, err)
}

func TestStorePayment_Allocate(t *testing.T) {
	storeID := uuid.New()
	inv1 := newTestInvoice(t, storeID, 40, time.Now().AddDate(0, 0, -30))
	inv2 := newTestInvoice(t, storeID, 40, time.Now())
	invoices := map[uuid.UUID]*Invoice{inv1.ID: inv1, inv2.ID: inv2}

	p, err := NewStorePayment("RCP-1", storeID, decimal.NewFromInt(100), PaymentMethodCheck, "1042", time.Time{})
	require.NoError(t, err)

	allocs, _, err := AllocateOldestFirst(p.Amount, InvoiceTargets([]Invoice{*inv2, *inv1}))
	require.NoError(t, err)
	require.NoError(t, p.Allocate(allocs, invoices))

	assert.Equal(t, InvoiceStatusPaid, inv1.Status)
	assert.Equal(t, InvoiceStatusPaid, inv2.Status)
	assert.True(t, p.Unallocated.Equal(decimal.NewFromInt(20)))

	other := newTestInvoice(t, uuid.New(), 10, time.Now())
	p2, err := NewStorePayment("RCP-2", storeID, decimal.NewFromInt(10), PaymentMethodCash, "", time.Time{})
	require.NoError(t, err)
	err = p2.Allocate([]Allocation{{TargetID: other.ID, Amount: decimal.NewFromInt(10)}}, map[uuid.UUID]*Invoice{other.ID: other})
	assert.Error(t, err)
}
