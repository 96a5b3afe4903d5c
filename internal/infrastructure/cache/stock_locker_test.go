package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryStockLocker_Lock(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	t.Run("duplicate ids lock once", func(t *testing.T) {
		locker := NewInMemoryStockLocker(config.StockLockConfig{MaxWait: 50 * time.Millisecond})
		unlock, err := locker.Lock(ctx, []uuid.UUID{a, b, a})
		require.NoError(t, err)
		unlock()

		unlock, err = locker.Lock(ctx, []uuid.UUID{a})
		require.NoError(t, err)
		unlock()
	})

	t.Run("overlapping lock times out", func(t *testing.T) {
		locker := NewInMemoryStockLocker(config.StockLockConfig{MaxWait: 30 * time.Millisecond})
		unlock, err := locker.Lock(ctx, []uuid.UUID{a})
		require.NoError(t, err)
		defer unlock()

		_, err = locker.Lock(ctx, []uuid.UUID{b, a})
		assert.ErrorIs(t, err, inventory.ErrStockLockTimeout)

		// b was released after the failed attempt
		unlockB, err := locker.Lock(ctx, []uuid.UUID{b})
		require.NoError(t, err)
		unlockB()
	})

	t.Run("cancelled context", func(t *testing.T) {
		locker := NewInMemoryStockLocker(config.StockLockConfig{MaxWait: time.Second})
		unlock, err := locker.Lock(ctx, []uuid.UUID{a})
		require.NoError(t, err)
		defer unlock()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = locker.Lock(cctx, []uuid.UUID{a})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unlock is idempotent", func(t *testing.T) {
		locker := NewInMemoryStockLocker(config.StockLockConfig{})
		unlock, err := locker.Lock(ctx, []uuid.UUID{a})
		require.NoError(t, err)
		unlock()
		unlock()

		unlock, err = locker.Lock(ctx, []uuid.UUID{a})
		require.NoError(t, err)
		unlock()
	})
}

func TestInMemoryStockLocker_Serializes(t *testing.T) {
	locker := NewInMemoryStockLocker(config.StockLockConfig{MaxWait: 5 * time.Second})
	ctx := context.Background()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// reversed order must not deadlock
			order := []uuid.UUID{ids[i%2], ids[(i+1)%2]}
			unlock, err := locker.Lock(ctx, order)
			if err != nil {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestNormalizeLockConfig(t *testing.T) {
	cfg := normalizeLockConfig(config.StockLockConfig{})
	assert.Equal(t, DefaultStockLockTTL, cfg.TTL)
	assert.Equal(t, DefaultStockLockRetryDelay, cfg.RetryDelay)
	assert.Equal(t, DefaultStockLockMaxWait, cfg.MaxWait)

	cfg = normalizeLockConfig(config.StockLockConfig{TTL: time.Minute})
	assert.Equal(t, time.Minute, cfg.TTL)
}

func TestFactory_FallsBackWithoutRedis(t *testing.T) {
	f := NewFactory(config.RedisConfig{}, config.StockLockConfig{})
	defer f.Close()

	store, err := f.CreateIdempotencyStore()
	require.NoError(t, err)
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	_ = store.Close()

	locker, err := f.CreateStockLocker()
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStockLocker{}, locker)
}

func TestFactory_RequiresRedisWhenFallbackDisabled(t *testing.T) {
	f := NewFactory(config.RedisConfig{}, config.StockLockConfig{}, WithInMemoryFallback(false))

	_, err := f.CreateIdempotencyStore()
	assert.Error(t, err)
	_, err = f.CreateStockLocker()
	assert.Error(t, err)
}

func TestRedisStockLocker_UnlockFailureIsLogged(t *testing.T) {
	// nothing listens on port 1, so every command fails fast
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	core, logs := observer.New(zapcore.WarnLevel)
	locker := NewRedisStockLocker(client, config.StockLockConfig{}, zap.New(core))

	a, b := uuid.New(), uuid.New()
	locker.unlock([]uuid.UUID{a, b}, "token")

	entries := logs.FilterMessage("Failed to release stock lock").All()
	require.Len(t, entries, 2)
	assert.Equal(t, b.String(), entries[0].ContextMap()["product_id"])
	assert.Equal(t, a.String(), entries[1].ContextMap()["product_id"])
}
