package partner

import (
	"context"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoreService handles store-related business operations
type StoreService struct {
	storeRepo      partner.StoreRepository
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo partner.StoreRepository, logger *zap.Logger) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StoreService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new store
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	exists, err := s.storeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Store with this code already exists")
	}

	store, err := partner.NewStore(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := store.Update(store.Name, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if req.PaymentTermsDays != nil || req.CreditLimit != nil {
		if err := store.SetTerms(valueOr(req.PaymentTermsDays, store.PaymentTermsDays), valueOr(req.CreditLimit, store.CreditLimit)); err != nil {
			return nil, err
		}
	}

	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	s.publish(ctx, store.PopDomainEvents())

	resp := ToStoreResponse(store)
	return &resp, nil
}

// Update changes store details. Unset fields keep their current value.
func (s *StoreService) Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = store.Update(
		valueOr(req.Name, store.Name),
		valueOr(req.ContactName, store.ContactName),
		valueOr(req.Phone, store.Phone),
		valueOr(req.Email, store.Email),
		valueOr(req.Address, store.Address),
	)
	if err != nil {
		return nil, err
	}
	if req.PaymentTermsDays != nil || req.CreditLimit != nil {
		if err := store.SetTerms(valueOr(req.PaymentTermsDays, store.PaymentTermsDays), valueOr(req.CreditLimit, store.CreditLimit)); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			store.Activate()
		} else {
			store.Deactivate()
		}
	}

	if err := s.storeRepo.SaveWithLock(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// List retrieves stores matching the filter
func (s *StoreService) List(ctx context.Context, filter StoreListFilter) ([]StoreResponse, int64, error) {
	stores, total, err := s.storeRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]StoreResponse, len(stores))
	for i := range stores {
		responses[i] = ToStoreResponse(&stores[i])
	}
	return responses, total, nil
}

// GetBalanceHistory pages through the balance entries of a store, newest first
func (s *StoreService) GetBalanceHistory(ctx context.Context, storeID uuid.UUID, filter BalanceHistoryFilter) ([]BalanceEntryResponse, int64, error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, 0, err
	}
	entries, total, err := s.storeRepo.FindBalanceEntries(ctx, storeID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BalanceEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToBalanceEntryResponse(&entries[i])
	}
	return responses, total, nil
}

func (s *StoreService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish store events", zap.Error(err))
	}
}
