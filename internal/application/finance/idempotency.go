package finance

import (
	"context"
	"fmt"

	"github.com/freshline/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// requestGuard claims Idempotency-Key values for payment requests
type requestGuard struct {
	store  shared.IdempotencyStore
	scope  string
	logger *zap.Logger
}

// claim marks key as taken. A key seen within the TTL fails with
// DUPLICATE_REQUEST. The returned release func frees the key again and
// must be called when the request fails.
func (g requestGuard) claim(ctx context.Context, key string) (func(), error) {
	if g.store == nil || key == "" {
		return func() {}, nil
	}
	scoped := g.scope + ":" + key
	fresh, err := g.store.MarkProcessed(ctx, scoped, shared.DefaultIdempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if !fresh {
		g.logger.Warn("duplicate payment request", zap.String("idempotency_key", scoped))
		return nil, shared.ErrDuplicateRequest
	}
	return func() {
		if err := g.store.Release(context.WithoutCancel(ctx), scoped); err != nil {
			g.logger.Error("failed to release idempotency key",
				zap.String("idempotency_key", scoped),
				zap.Error(err))
		}
	}, nil
}
