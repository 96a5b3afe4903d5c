package trade

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	// FindAll supports filters store_id, week, status and work_order_id
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	FindConfirmedByWeek(ctx context.Context, week shared.Week) ([]Order, error)
	FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]Order, error)
	Save(ctx context.Context, order *Order) error
	SaveWithLock(ctx context.Context, order *Order) error
}

// OrderMatrixRepository defines the interface for order matrix persistence
type OrderMatrixRepository interface {
	FindByStore(ctx context.Context, storeID uuid.UUID) (*OrderMatrix, error)
	FindAll(ctx context.Context) ([]OrderMatrix, error)
	Save(ctx context.Context, matrix *OrderMatrix) error
}

// PreOrderRepository defines the interface for preorder persistence
type PreOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PreOrder, error)
	FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, week shared.Week) (*PreOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PreOrder, int64, error)
	// FindOpenByWeek returns DRAFT and CONFIRMED preorders for the week
	FindOpenByWeek(ctx context.Context, week shared.Week) ([]PreOrder, error)
	Save(ctx context.Context, preorder *PreOrder) error
	SaveWithLock(ctx context.Context, preorder *PreOrder) error
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, number string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)
	Save(ctx context.Context, po *PurchaseOrder) error
	SaveWithLock(ctx context.Context, po *PurchaseOrder) error
}
