package inventory

import (
	"context"
	"errors"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreInventoryService handles the weekly shelf counts stores submit
type StoreInventoryService struct {
	countRepo inventory.StoreInventoryRepository
	storeRepo partner.StoreRepository
	logger    *zap.Logger
}

// NewStoreInventoryService creates a new store inventory service
func NewStoreInventoryService(countRepo inventory.StoreInventoryRepository, storeRepo partner.StoreRepository, logger *zap.Logger) *StoreInventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreInventoryService{
		countRepo: countRepo,
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// Submit records and locks a store's count for a week. A draft left from an
// earlier attempt is reused, a submitted count cannot be replaced.
func (s *StoreInventoryService) Submit(ctx context.Context, req SubmitCountRequest) (*StoreInventoryResponse, error) {
	week, err := shared.ParseWeek(req.Week)
	if err != nil {
		return nil, err
	}
	store, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !store.Active {
		return nil, shared.NewDomainError("STORE_INACTIVE", "Store is not active")
	}

	count, err := s.countRepo.FindByStoreAndWeek(ctx, req.StoreID, week)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		count, err = inventory.NewStoreInventory(req.StoreID, week)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	for _, line := range req.Lines {
		if err := count.SetCount(line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}
	if err := count.Submit(); err != nil {
		return nil, err
	}
	if err := s.countRepo.Save(ctx, count); err != nil {
		return nil, err
	}

	s.logger.Info("store count submitted",
		zap.String("store_id", req.StoreID.String()),
		zap.String("week", week.String()),
		zap.Int("lines", len(count.Lines)),
	)
	resp := ToStoreInventoryResponse(count)
	return &resp, nil
}

// Get returns a store's count for a week
func (s *StoreInventoryService) Get(ctx context.Context, storeID uuid.UUID, week shared.Week) (*StoreInventoryResponse, error) {
	count, err := s.countRepo.FindByStoreAndWeek(ctx, storeID, week)
	if err != nil {
		return nil, err
	}
	resp := ToStoreInventoryResponse(count)
	return &resp, nil
}

// List returns a store's counts, newest week first
func (s *StoreInventoryService) List(ctx context.Context, storeID uuid.UUID, page, pageSize int) ([]StoreInventoryResponse, int64, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "week"
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	counts, total, err := s.countRepo.FindByStore(ctx, storeID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]StoreInventoryResponse, len(counts))
	for i := range counts {
		responses[i] = ToStoreInventoryResponse(&counts[i])
	}
	return responses, total, nil
}
