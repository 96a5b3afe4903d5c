package quality

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IssueRepository defines the interface for quality issue persistence
type IssueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Issue, error)
	// FindAll supports filters store_id, status and order_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Issue, int64, error)
	// FindByOrder returns every issue reported against an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Issue, error)
	Save(ctx context.Context, issue *Issue) error
	SaveWithLock(ctx context.Context, issue *Issue) error
}
