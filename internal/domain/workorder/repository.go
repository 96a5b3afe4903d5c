package workorder

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for work order persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkOrder, int64, error)
	Save(ctx context.Context, wo *WorkOrder) error
	SaveWithLock(ctx context.Context, wo *WorkOrder) error
}
