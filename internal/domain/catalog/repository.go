package catalog

import (
	"context"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	FindActive(ctx context.Context) ([]Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Save(ctx context.Context, product *Product) error
}

// IndexByID maps products by id
func IndexByID(products []Product) map[uuid.UUID]*Product {
	index := make(map[uuid.UUID]*Product, len(products))
	for i := range products {
		index[products[i].ID] = &products[i]
	}
	return index
}
