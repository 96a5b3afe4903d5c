package inventory

import (
	"context"
	"testing"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreInventoryService_Submit(t *testing.T) {
	ctx := context.Background()
	store, err := partner.NewStore("ST01", "Corner Market")
	require.NoError(t, err)
	week := shared.CurrentWeek()
	apples := uuid.New()

	t.Run("new count is created and submitted", func(t *testing.T) {
		counts := new(MockStoreInventoryRepository)
		stores := new(MockStoreRepository)
		stores.On("FindByID", mock.Anything, store.ID).Return(store, nil)
		counts.On("FindByStoreAndWeek", mock.Anything, store.ID, week).Return(nil, shared.ErrNotFound)
		counts.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StoreInventory")).Return(nil)

		svc := NewStoreInventoryService(counts, stores, nil)
		resp, err := svc.Submit(ctx, SubmitCountRequest{
			StoreID: store.ID,
			Week:    week.String(),
			Lines:   []CountLine{{ProductID: apples, Quantity: decimal.NewFromInt(3)}},
		})
		require.NoError(t, err)
		assert.Equal(t, string(inventory.CountStatusSubmitted), resp.Status)
		assert.Len(t, resp.Lines, 1)
		counts.AssertExpectations(t)
	})

	t.Run("submitted count cannot be replaced", func(t *testing.T) {
		existing, err := inventory.NewStoreInventory(store.ID, week)
		require.NoError(t, err)
		require.NoError(t, existing.SetCount(apples, decimal.NewFromInt(1)))
		require.NoError(t, existing.Submit())

		counts := new(MockStoreInventoryRepository)
		stores := new(MockStoreRepository)
		stores.On("FindByID", mock.Anything, store.ID).Return(store, nil)
		counts.On("FindByStoreAndWeek", mock.Anything, store.ID, week).Return(existing, nil)

		svc := NewStoreInventoryService(counts, stores, nil)
		_, err = svc.Submit(ctx, SubmitCountRequest{
			StoreID: store.ID,
			Week:    week.String(),
			Lines:   []CountLine{{ProductID: apples, Quantity: decimal.NewFromInt(2)}},
		})
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
		counts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("inactive store is rejected", func(t *testing.T) {
		closed, err := partner.NewStore("ST02", "Closed Market")
		require.NoError(t, err)
		closed.Deactivate()
		stores := new(MockStoreRepository)
		stores.On("FindByID", mock.Anything, closed.ID).Return(closed, nil)

		svc := NewStoreInventoryService(new(MockStoreInventoryRepository), stores, nil)
		_, err = svc.Submit(ctx, SubmitCountRequest{StoreID: closed.ID, Week: week.String(), Lines: []CountLine{{ProductID: apples}}})
		assert.Error(t, err)
	})
}
