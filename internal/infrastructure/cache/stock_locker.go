package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const stockLockPrefix = "freshline:stocklock:"

// Defaults used when the stock lock config leaves a field empty
const (
	DefaultStockLockTTL        = 10 * time.Second
	DefaultStockLockRetryDelay = 25 * time.Millisecond
	DefaultStockLockMaxWait    = 3 * time.Second
)

// releaseScript deletes the lock only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func normalizeLockConfig(cfg config.StockLockConfig) config.StockLockConfig {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultStockLockTTL
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultStockLockRetryDelay
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultStockLockMaxWait
	}
	return cfg
}

// RedisStockLocker holds one redis key per product while stock is checked
// and reserved. Keys expire after TTL so a crashed holder cannot block forever.
type RedisStockLocker struct {
	client *redis.Client
	cfg    config.StockLockConfig
	logger *zap.Logger
}

// NewRedisStockLocker creates a redis backed stock locker
func NewRedisStockLocker(client *redis.Client, cfg config.StockLockConfig, logger *zap.Logger) *RedisStockLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStockLocker{client: client, cfg: normalizeLockConfig(cfg), logger: logger}
}

// Lock acquires every product lock in sorted order or none of them
func (l *RedisStockLocker) Lock(ctx context.Context, productIDs []uuid.UUID) (func(), error) {
	ids := inventory.SortedUnique(productIDs)
	token := uuid.NewString()
	deadline := time.Now().Add(l.cfg.MaxWait)

	held := make([]uuid.UUID, 0, len(ids))
	release := func() { l.unlock(held, token) }

	for _, id := range ids {
		if err := l.acquire(ctx, stockLockPrefix+id.String(), token, deadline); err != nil {
			release()
			return nil, err
		}
		held = append(held, id)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// unlock releases held keys in reverse order. A key that cannot be released
// stays blocked until its TTL runs out.
func (l *RedisStockLocker) unlock(held []uuid.UUID, token string) {
	// Unlock must work after the request context is gone
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := len(held) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.client, []string{stockLockPrefix + held[i].String()}, token).Err(); err != nil {
			l.logger.Warn("Failed to release stock lock",
				zap.String("product_id", held[i].String()),
				zap.Duration("expires_in", l.cfg.TTL),
				zap.Error(err))
		}
	}
}

func (l *RedisStockLocker) acquire(ctx context.Context, key, token string, deadline time.Time) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire stock lock: %w", err)
		}
		if ok {
			return nil
		}
		if time.Now().Add(l.cfg.RetryDelay).After(deadline) {
			return inventory.ErrStockLockTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.cfg.RetryDelay):
		}
	}
}

// InMemoryStockLocker serializes stock access inside a single process
type InMemoryStockLocker struct {
	mu      sync.Mutex
	slots   map[uuid.UUID]chan struct{}
	maxWait time.Duration
}

// NewInMemoryStockLocker creates a process-local stock locker
func NewInMemoryStockLocker(cfg config.StockLockConfig) *InMemoryStockLocker {
	return &InMemoryStockLocker{
		slots:   make(map[uuid.UUID]chan struct{}),
		maxWait: normalizeLockConfig(cfg).MaxWait,
	}
}

func (l *InMemoryStockLocker) slot(id uuid.UUID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[id]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[id] = ch
	}
	return ch
}

// Lock acquires every product lock in sorted order or none of them
func (l *InMemoryStockLocker) Lock(ctx context.Context, productIDs []uuid.UUID) (func(), error) {
	ids := inventory.SortedUnique(productIDs)
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	held := make([]chan struct{}, 0, len(ids))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, id := range ids {
		ch := l.slot(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		case <-timer.C:
			release()
			return nil, inventory.ErrStockLockTimeout
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

var (
	_ inventory.StockLocker = (*RedisStockLocker)(nil)
	_ inventory.StockLocker = (*InMemoryStockLocker)(nil)
)
