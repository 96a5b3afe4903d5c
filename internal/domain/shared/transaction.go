package shared

import "context"

// Transactor runs a unit of work atomically. Repositories called with the
// ctx passed to fn participate in the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopTransactor runs fn directly. Used by in-memory wiring and tests.
type NoopTransactor struct{}

// WithinTransaction calls fn with the given context
func (NoopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
