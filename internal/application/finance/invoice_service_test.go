package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testWeek = shared.Week{Year: 2026, Number: 42}

type invoiceFixture struct {
	svc    *InvoiceService
	inv    *MockInvoiceRepository
	orders *MockOrderRepository
	stores *MockStoreRepository
	store  *partner.Store
	order  *trade.Order
}

// shippedOrder ships 8 of 10 apples at 12.50 and none of the lettuce
func shippedOrder(t *testing.T, storeID uuid.UUID) *trade.Order {
	t.Helper()
	apples, lettuce := uuid.New(), uuid.New()
	o, err := trade.NewOrder("ORD-2026W42-000001", storeID, testWeek, []trade.LineInput{
		{ProductID: apples, ProductName: "Gala Apples", SKU: "APL-01", Unit: "CASE", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromFloat(12.5)},
		{ProductID: lettuce, ProductName: "Romaine", SKU: "LET-02", Unit: "CASE", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)
	require.NoError(t, o.AttachWorkOrder(uuid.New()))
	require.NoError(t, o.MarkPicking())
	require.NoError(t, o.Ship(map[uuid.UUID]decimal.Decimal{apples: decimal.NewFromInt(8)}))
	o.ClearDomainEvents()
	return o
}

func setupInvoiceService(t *testing.T) *invoiceFixture {
	t.Helper()
	store, err := partner.NewStore("ST01", "Corner Market")
	require.NoError(t, err)
	store.ClearDomainEvents()
	order := shippedOrder(t, store.ID)

	f := &invoiceFixture{
		inv:    new(MockInvoiceRepository),
		orders: new(MockOrderRepository),
		stores: new(MockStoreRepository),
		store:  store,
		order:  order,
	}
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.stores.On("FindByID", mock.Anything, store.ID).Return(store, nil)
	f.svc = NewInvoiceService(InvoiceRepositories{Invoices: f.inv, Orders: f.orders, Stores: f.stores}, &seqNumbers{}, nil, nil)
	return f
}

func TestInvoiceService_GenerateForOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("invoices shipped quantities and debits the store", func(t *testing.T) {
		f := setupInvoiceService(t)
		f.inv.On("Save", mock.Anything, mock.AnythingOfType("*finance.Invoice")).Return(nil)
		f.orders.On("SaveWithLock", mock.Anything, f.order).Return(nil)
		f.stores.On("SaveWithLock", mock.Anything, f.store).Return(nil)
		publisher := &MockEventPublisher{}
		f.svc.SetEventPublisher(publisher)

		resp, err := f.svc.GenerateForOrder(ctx, f.order.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-2026W42-000001", resp.InvoiceNumber)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.TotalAmount))
		assert.Len(t, resp.Lines, 1)
		assert.Equal(t, string(finance.InvoiceStatusOpen), resp.Status)
		assert.Equal(t, resp.IssuedAt.AddDate(0, 0, f.store.PaymentTermsDays), resp.DueDate)

		assert.Equal(t, trade.OrderStatusInvoiced, f.order.Status)
		require.NotNil(t, f.order.InvoiceID)
		assert.Equal(t, resp.ID, *f.order.InvoiceID)

		assert.True(t, decimal.NewFromInt(100).Equal(f.store.Balance))
		entries := f.store.PendingEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, partner.BalanceEntryInvoice, entries[0].EntryType)
		assert.Len(t, publisher.GetEventsByType(finance.EventTypeInvoiceIssued), 1)
		f.inv.AssertExpectations(t)
		f.orders.AssertExpectations(t)
		f.stores.AssertExpectations(t)
	})

	t.Run("already invoiced order is refused before numbering", func(t *testing.T) {
		f := setupInvoiceService(t)
		require.NoError(t, f.order.MarkInvoiced(uuid.New()))
		numbers := &seqNumbers{}
		f.svc.numbers = numbers

		_, err := f.svc.GenerateForOrder(ctx, f.order.ID)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ALREADY_INVOICED", de.Code)
		assert.Zero(t, numbers.n)
		f.inv.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unshipped order is refused", func(t *testing.T) {
		f := setupInvoiceService(t)
		o, err := trade.NewOrder("ORD-2026W42-000009", f.store.ID, testWeek, []trade.LineInput{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(3)},
		})
		require.NoError(t, err)
		f.orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err = f.svc.GenerateForOrder(ctx, o.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("store save conflict surfaces", func(t *testing.T) {
		f := setupInvoiceService(t)
		f.inv.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orders.On("SaveWithLock", mock.Anything, f.order).Return(nil)
		f.stores.On("SaveWithLock", mock.Anything, f.store).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.GenerateForOrder(ctx, f.order.ID)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestInvoiceService_Void(t *testing.T) {
	ctx := context.Background()
	f := setupInvoiceService(t)
	f.inv.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
	f.stores.On("SaveWithLock", mock.Anything, f.store).Return(nil)

	resp, err := f.svc.GenerateForOrder(ctx, f.order.ID)
	require.NoError(t, err)
	saved := f.inv.Calls[0].Arguments.Get(1).(*finance.Invoice)
	f.inv.On("FindByID", mock.Anything, resp.ID).Return(saved, nil)
	f.inv.On("SaveWithLock", mock.Anything, saved).Return(nil)

	voided, err := f.svc.Void(ctx, resp.ID, VoidRequest{Reason: "wrong store"})
	require.NoError(t, err)
	assert.Equal(t, string(finance.InvoiceStatusVoid), voided.Status)
	assert.True(t, f.store.Balance.IsZero())
	entries := f.store.PendingEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, partner.BalanceEntryInvoiceVoid, entries[1].EntryType)
	assert.True(t, partner.VerifyHistory(f.store.Balance, entries))

	_, err = f.svc.Void(ctx, resp.ID, VoidRequest{Reason: "again"})
	assert.Error(t, err)
}

func TestInvoiceService_RenderPDF(t *testing.T) {
	ctx := context.Background()
	f := setupInvoiceService(t)
	inv, err := finance.NewInvoice(finance.InvoiceHeader{
		InvoiceNumber: "INV-2026W42-000007",
		StoreID:       f.store.ID,
		OrderID:       f.order.ID,
		OrderNumber:   f.order.OrderNumber,
		Week:          testWeek,
		TermsDays:     14,
	}, shippedLines(f.order))
	require.NoError(t, err)
	f.inv.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	t.Run("disabled without a renderer", func(t *testing.T) {
		_, err := f.svc.RenderPDF(ctx, inv.ID, false)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "PRINTING_DISABLED", de.Code)
	})

	renderer := &fakeRenderer{}
	docs := newFakeDocuments()
	f.svc.SetPrinting(renderer, docs)
	f.inv.On("SaveWithLock", mock.Anything, inv).Return(nil)

	t.Run("renders once then reuses the stored copy", func(t *testing.T) {
		resp, err := f.svc.RenderPDF(ctx, inv.ID, false)
		require.NoError(t, err)
		assert.Equal(t, "invoices/2026-W42/INV-2026W42-000007.pdf", inv.PDFKey)
		assert.Equal(t, "https://files.test/invoices/2026-W42/INV-2026W42-000007.pdf", resp.URL)
		assert.Contains(t, string(docs.objects[inv.PDFKey]), "INV-2026W42-000007")

		_, err = f.svc.RenderPDF(ctx, inv.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 1, renderer.calls)

		_, err = f.svc.RenderPDF(ctx, inv.ID, true)
		require.NoError(t, err)
		assert.Equal(t, 2, renderer.calls)
	})

	t.Run("renderer failure is wrapped", func(t *testing.T) {
		renderer.err = errors.New("chrome gone")
		_, err := f.svc.RenderPDF(ctx, inv.ID, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chrome gone")
	})
}

func TestOrderShippedHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("generates the invoice", func(t *testing.T) {
		f := setupInvoiceService(t)
		f.inv.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.orders.On("SaveWithLock", mock.Anything, f.order).Return(nil)
		f.stores.On("SaveWithLock", mock.Anything, f.store).Return(nil)
		h := NewOrderShippedHandler(f.svc, nil)
		assert.Equal(t, []string{trade.EventTypeOrderShipped}, h.EventTypes())

		require.NoError(t, h.Handle(ctx, trade.NewOrderShippedEvent(f.order)))
		assert.Equal(t, trade.OrderStatusInvoiced, f.order.Status)
	})

	t.Run("redelivery is skipped", func(t *testing.T) {
		f := setupInvoiceService(t)
		require.NoError(t, f.order.MarkInvoiced(uuid.New()))
		h := NewOrderShippedHandler(f.svc, nil)

		assert.NoError(t, h.Handle(ctx, trade.NewOrderShippedEvent(f.order)))
	})

	t.Run("wrong event type", func(t *testing.T) {
		h := NewOrderShippedHandler(setupInvoiceService(t).svc, nil)
		o := shippedOrder(t, uuid.New())
		err := h.Handle(ctx, trade.NewOrderCancelledEvent(o))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})
}
