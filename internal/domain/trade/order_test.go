package trade

import (
	"testing"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWeek = shared.Week{Year: 2026, Number: 42}

func newTestOrder(t *testing.T, lines ...LineInput) *Order {
	t.Helper()
	if len(lines) == 0 {
		lines = []LineInput{
			{ProductID: uuid.New(), SKU: "APL-01", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromFloat(12.5)},
			{ProductID: uuid.New(), SKU: "LET-02", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(20)},
		}
	}
	o, err := NewOrder("ORD-2026W42-000001", uuid.New(), testWeek, lines)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)
	assert.Equal(t, OrderStatusConfirmed, o.Status)
	assert.Equal(t, OrderSourceDirect, o.Source)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(205)))
	assert.Len(t, o.GetDomainEvents(), 1)

	p := uuid.New()
	_, err := NewOrder("ORD-1", uuid.New(), testWeek, []LineInput{
		{ProductID: p, Quantity: decimal.NewFromInt(1)},
		{ProductID: p, Quantity: decimal.NewFromInt(2)},
	})
	assert.Error(t, err)

	_, err = NewOrder("ORD-1", uuid.New(), testWeek, nil)
	assert.Error(t, err)

	_, err = NewOrder("ORD-1", uuid.New(), testWeek, []LineInput{{ProductID: uuid.New(), Quantity: decimal.Zero}})
	assert.Error(t, err)
}

func TestOrder_Lifecycle(t *testing.T) {
	o := newTestOrder(t)
	assert.Error(t, o.MarkPicking())
	require.NoError(t, o.AttachWorkOrder(uuid.New()))
	assert.Error(t, o.AttachWorkOrder(uuid.New()))
	assert.Error(t, o.Cancel("changed mind"))
	require.NoError(t, o.MarkPicking())
	assert.Equal(t, OrderStatusPicking, o.Status)

	shipped := map[uuid.UUID]decimal.Decimal{
		o.Lines[0].ProductID: decimal.NewFromInt(8),
	}
	require.NoError(t, o.Ship(shipped))
	assert.Equal(t, OrderStatusShipped, o.Status)
	assert.True(t, o.Lines[1].ShippedQuantity.IsZero())
	assert.True(t, o.ShippedTotal().Equal(decimal.NewFromInt(100)))

	events := o.PopDomainEvents()
	last, ok := events[len(events)-1].(*OrderShippedEvent)
	require.True(t, ok)
	assert.Len(t, last.Lines, 1)

	invID := uuid.New()
	require.NoError(t, o.MarkInvoiced(invID))
	assert.Equal(t, OrderStatusInvoiced, o.Status)
	assert.Error(t, o.MarkInvoiced(uuid.New()))
}

func TestOrder_ShipRejectsOverShipment(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AttachWorkOrder(uuid.New()))
	require.NoError(t, o.MarkPicking())

	err := o.Ship(map[uuid.UUID]decimal.Decimal{o.Lines[0].ProductID: decimal.NewFromInt(11)})
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "QUANTITY_EXCEEDED", de.Code)
	assert.Equal(t, OrderStatusPicking, o.Status)

	err = o.Ship(map[uuid.UUID]decimal.Decimal{uuid.New(): decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestOrder_Cancel(t *testing.T) {
	o := newTestOrder(t)
	assert.Error(t, o.Cancel(""))
	require.NoError(t, o.Cancel("store closed"))
	assert.Equal(t, OrderStatusCancelled, o.Status)
	assert.NotNil(t, o.CancelledAt)
	assert.Error(t, o.AttachWorkOrder(uuid.New()))
}

func TestOrder_DetachWorkOrder(t *testing.T) {
	o := newTestOrder(t)
	assert.Error(t, o.DetachWorkOrder())
	require.NoError(t, o.AttachWorkOrder(uuid.New()))
	require.NoError(t, o.DetachWorkOrder())
	assert.Equal(t, OrderStatusConfirmed, o.Status)
	assert.Nil(t, o.WorkOrderID)
	require.NoError(t, o.Cancel("store closed"))
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusConfirmed, OrderStatusPicking, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusShipped, false},
		{OrderStatusPicking, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusInvoiced, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusInvoiced, OrderStatusConfirmed, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
