package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSuggestions(t *testing.T) {
	apples, lettuce, herbs := uuid.New(), uuid.New(), uuid.New()
	matrix := []MatrixLine{
		{ProductID: apples, Par: decimal.NewFromInt(10)},
		{ProductID: lettuce, Par: decimal.NewFromInt(6)},
		{ProductID: herbs, Par: decimal.NewFromInt(3)},
	}
	counts := map[uuid.UUID]decimal.Decimal{
		apples:  decimal.NewFromInt(4),
		lettuce: decimal.NewFromInt(9),
	}

	lines := BuildSuggestions(matrix, counts)
	require.Len(t, lines, 2)
	assert.Equal(t, apples, lines[0].ProductID)
	assert.True(t, lines[0].Suggested.Equal(decimal.NewFromInt(6)))
	assert.True(t, lines[0].Requested.Equal(lines[0].Suggested))
	// No count means the full par is suggested
	assert.Equal(t, herbs, lines[1].ProductID)
	assert.True(t, lines[1].Suggested.Equal(decimal.NewFromInt(3)))
}

func TestPreOrder_ConfirmAndPromote(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	p, err := NewPreOrder(uuid.New(), testWeek, BuildSuggestions([]MatrixLine{
		{ProductID: a, Par: decimal.NewFromInt(5)},
	}, nil))
	require.NoError(t, err)
	require.NoError(t, p.UpdateLine(b, decimal.NewFromInt(2)))
	require.Len(t, p.Lines, 2)

	require.NoError(t, p.Confirm())
	assert.Error(t, p.UpdateLine(a, decimal.NewFromInt(1)))

	orderID := uuid.New()
	require.NoError(t, p.Promote(orderID, map[uuid.UUID]decimal.Decimal{
		a: decimal.NewFromInt(3),
		b: decimal.NewFromInt(2),
	}))
	assert.Equal(t, PreOrderStatusPromoted, p.Status)
	assert.Equal(t, orderID, *p.OrderID)
	assert.True(t, p.Lines[0].Short.Equal(decimal.NewFromInt(2)))
	assert.True(t, p.Lines[1].Short.IsZero())
	assert.True(t, p.ShortTotal().Equal(decimal.NewFromInt(2)))

	assert.Error(t, p.Expire())
}

func TestPreOrder_ConfirmRequiresQuantity(t *testing.T) {
	a := uuid.New()
	p, err := NewPreOrder(uuid.New(), testWeek, nil)
	require.NoError(t, err)
	assert.Error(t, p.Confirm())

	require.NoError(t, p.UpdateLine(a, decimal.Zero))
	assert.Error(t, p.Confirm())

	require.NoError(t, p.Expire())
	assert.Equal(t, PreOrderStatusExpired, p.Status)
}

func TestPreOrder_PromoteRejectsOverfill(t *testing.T) {
	a := uuid.New()
	p, err := NewPreOrder(uuid.New(), testWeek, []PreOrderLine{{ID: uuid.New(), ProductID: a, Requested: decimal.NewFromInt(1)}})
	require.NoError(t, err)
	require.NoError(t, p.Confirm())
	assert.Error(t, p.Promote(uuid.New(), map[uuid.UUID]decimal.Decimal{a: decimal.NewFromInt(2)}))
	assert.Equal(t, PreOrderStatusConfirmed, p.Status)
}

func TestOrderMatrix_Replace(t *testing.T) {
	m, err := NewOrderMatrix(uuid.New())
	require.NoError(t, err)
	a, b := uuid.New(), uuid.New()
	require.NoError(t, m.Replace([]MatrixLine{
		{ProductID: a, Par: decimal.NewFromInt(4)},
		{ProductID: b, Par: decimal.Zero},
	}))
	assert.Len(t, m.Lines, 1)

	assert.Error(t, m.Replace([]MatrixLine{{ProductID: a, Par: decimal.NewFromInt(-1)}}))
	assert.Error(t, m.Replace([]MatrixLine{
		{ProductID: a, Par: decimal.NewFromInt(1)},
		{ProductID: a, Par: decimal.NewFromInt(2)},
	}))
}
