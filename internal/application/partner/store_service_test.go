package partner

import (
	"context"
	"testing"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies terms and contact", func(t *testing.T) {
		repo := new(MockStoreRepository)
		repo.On("ExistsByCode", mock.Anything, "st01").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Store")).Return(nil)

		terms := 30
		limit := decimal.NewFromInt(5000)
		resp, err := NewStoreService(repo, nil).Create(ctx, CreateStoreRequest{
			Code:             "st01",
			Name:             "Corner Market",
			ContactName:      "Dana",
			PaymentTermsDays: &terms,
			CreditLimit:      &limit,
		})
		require.NoError(t, err)
		assert.Equal(t, "ST01", resp.Code)
		assert.Equal(t, "Dana", resp.ContactName)
		assert.Equal(t, 30, resp.PaymentTermsDays)
		assert.True(t, limit.Equal(resp.CreditLimit))
		assert.True(t, resp.Balance.IsZero())
		assert.True(t, resp.Active)
	})

	t.Run("defaults to fourteen day terms", func(t *testing.T) {
		repo := new(MockStoreRepository)
		repo.On("ExistsByCode", mock.Anything, "ST02").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Store")).Return(nil)

		resp, err := NewStoreService(repo, nil).Create(ctx, CreateStoreRequest{Code: "ST02", Name: "Market"})
		require.NoError(t, err)
		assert.Equal(t, partner.DefaultPaymentTermsDays, resp.PaymentTermsDays)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockStoreRepository)
		repo.On("ExistsByCode", mock.Anything, "ST01").Return(true, nil)

		_, err := NewStoreService(repo, nil).Create(ctx, CreateStoreRequest{Code: "ST01", Name: "Again"})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "ALREADY_EXISTS", de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStoreService_Update(t *testing.T) {
	store, err := partner.NewStore("ST01", "Corner Market")
	require.NoError(t, err)
	store.Phone = "555-0100"
	repo := new(MockStoreRepository)
	repo.On("FindByID", mock.Anything, store.ID).Return(store, nil)
	repo.On("SaveWithLock", mock.Anything, store).Return(nil)

	name := "Corner Market East"
	inactive := false
	resp, err := NewStoreService(repo, nil).Update(context.Background(), store.ID, UpdateStoreRequest{
		Name:   &name,
		Active: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	assert.Equal(t, "555-0100", resp.Phone, "unset fields are kept")
	assert.False(t, resp.Active)
}

func TestStoreService_GetBalanceHistory(t *testing.T) {
	storeID := uuid.New()
	repo := new(MockStoreRepository)
	repo.On("FindByID", mock.Anything, storeID).Return(&partner.Store{}, nil)
	entries := []partner.BalanceEntry{
		{ID: uuid.New(), StoreID: storeID, EntryType: partner.BalanceEntryPayment, Amount: decimal.NewFromInt(-50)},
		{ID: uuid.New(), StoreID: storeID, EntryType: partner.BalanceEntryInvoice, Amount: decimal.NewFromInt(120)},
	}
	repo.On("FindBalanceEntries", mock.Anything, storeID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["entry_type"] == "PAYMENT" && f.Page == 2
	})).Return(entries[:1], int64(3), nil)

	got, total, err := NewStoreService(repo, nil).GetBalanceHistory(context.Background(), storeID, BalanceHistoryFilter{
		EntryType: "PAYMENT",
		Page:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 1)
	assert.Equal(t, "PAYMENT", got[0].EntryType)
}
