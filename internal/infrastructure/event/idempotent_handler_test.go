package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEventHandler is a mock implementation of shared.EventHandler
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventHandler) EventTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestIdempotentHandler_Handle_NewEvent(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newTestEvent("OrderShipped")
	mockHandler.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), event))

	mockHandler.AssertExpectations(t)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1}, handler.GetMetrics().Stats())
}

func TestIdempotentHandler_Handle_DuplicateEvent(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newTestEvent("OrderShipped")
	mockHandler.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())

	for i := 0; i < 3; i++ {
		require.NoError(t, handler.Handle(context.Background(), event))
	}

	mockHandler.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.GetMetrics().EventsProcessed.Load())
	assert.Equal(t, int64(2), handler.GetMetrics().EventsDuplicate.Load())
}

func TestIdempotentHandler_Handle_FailureReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newTestEvent("OrderShipped")
	expectedErr := errors.New("handler error")
	mockHandler.On("Handle", mock.Anything, event).Return(expectedErr).Once()
	mockHandler.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())

	err := handler.Handle(context.Background(), event)
	assert.ErrorIs(t, err, expectedErr)

	// redelivery runs the handler again
	require.NoError(t, handler.Handle(context.Background(), event))

	mockHandler.AssertExpectations(t)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsFailed: 1}, handler.GetMetrics().Stats())
}

func TestIdempotentHandler_Handle_StoreError(t *testing.T) {
	mockStore := new(MockIdempotencyStore)
	mockHandler := new(MockEventHandler)
	event := newTestEvent("OrderShipped")

	mockStore.On("MarkProcessed", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(false, errors.New("store error"))
	mockHandler.On("Handle", mock.Anything, event).Return(errors.New("handler error"))

	handler := NewIdempotentHandler(mockHandler, mockStore, zap.NewNop())

	// the handler still runs and nothing is released since nothing was claimed
	assert.Error(t, handler.Handle(context.Background(), event))

	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	mockHandler.AssertExpectations(t)
}

func TestIdempotentHandler_Handle_Disabled(t *testing.T) {
	mockStore := new(MockIdempotencyStore)
	mockHandler := new(MockEventHandler)
	event := newTestEvent("OrderShipped")
	mockHandler.On("Handle", mock.Anything, event).Return(nil).Times(3)

	cfg := DefaultIdempotencyConfig()
	cfg.Enabled = false
	handler := NewIdempotentHandler(mockHandler, mockStore, zap.NewNop(), WithIdempotencyConfig(cfg))

	for i := 0; i < 3; i++ {
		require.NoError(t, handler.Handle(context.Background(), event))
	}

	mockHandler.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, IdempotencyStats{}, handler.GetMetrics().Stats())
}

func TestIdempotentHandler_ScopesKeysPerHandler(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	event := newTestEvent("OrderShipped")
	invoicing := new(MockEventHandler)
	notifying := new(MockEventHandler)
	invoicing.On("Handle", mock.Anything, event).Return(nil).Once()
	notifying.On("Handle", mock.Anything, event).Return(nil).Once()

	h1 := NewIdempotentHandler(invoicing, store, nil, WithScope("invoicing"))
	h2 := NewIdempotentHandler(notifying, store, nil, WithScope("notifying"))

	require.NoError(t, h1.Handle(context.Background(), event))
	require.NoError(t, h2.Handle(context.Background(), event))

	invoicing.AssertExpectations(t)
	notifying.AssertExpectations(t)
}

func TestIdempotentHandler_CustomTTL(t *testing.T) {
	mockStore := new(MockIdempotencyStore)
	mockHandler := new(MockEventHandler)
	event := newTestEvent("OrderShipped")

	mockStore.On("MarkProcessed", mock.Anything, "event:custom:"+event.EventID().String(), time.Hour).
		Return(true, nil)
	mockHandler.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(mockHandler, mockStore, zap.NewNop(),
		WithScope("custom"),
		WithIdempotencyConfig(IdempotencyConfig{TTL: time.Hour, Enabled: true}),
	)

	require.NoError(t, handler.Handle(context.Background(), event))
	mockStore.AssertExpectations(t)
}

func TestIdempotentHandler_EventTypesAndWrapped(t *testing.T) {
	mockHandler := new(MockEventHandler)
	mockHandler.On("EventTypes").Return([]string{"OrderShipped"})

	handler := NewIdempotentHandler(mockHandler, new(MockIdempotencyStore), nil)

	assert.Equal(t, []string{"OrderShipped"}, handler.EventTypes())
	assert.Equal(t, mockHandler, handler.GetWrappedHandler())
}

func TestWrapHandlersWithIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	metrics := &IdempotencyMetrics{}
	handlers := []shared.EventHandler{new(MockEventHandler), new(MockEventHandler)}

	wrapped := WrapHandlersWithIdempotency(handlers, store, zap.NewNop(), WithIdempotencyMetrics(metrics))

	require.Len(t, wrapped, 2)
	for i, h := range wrapped {
		ih, ok := h.(*IdempotentHandler)
		require.True(t, ok, "handler %d should be IdempotentHandler", i)
		assert.Same(t, metrics, ih.GetMetrics())
	}
}

func TestIdempotentHandler_ConcurrentDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newTestEvent("OrderShipped")
	mockHandler.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())

	const numGoroutines = 50
	errChan := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			errChan <- handler.Handle(context.Background(), event)
		}()
	}
	for i := 0; i < numGoroutines; i++ {
		assert.NoError(t, <-errChan)
	}

	mockHandler.AssertExpectations(t)
	assert.Equal(t, int64(numGoroutines-1), handler.GetMetrics().EventsDuplicate.Load())
}
