package partner

import (
	"context"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdjustmentService handles manual store balance adjustments
type AdjustmentService struct {
	adjustmentRepo partner.AdjustmentRepository
	storeRepo      partner.StoreRepository
	transactor     shared.Transactor
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	adjustmentRepo partner.AdjustmentRepository,
	storeRepo partner.StoreRepository,
	transactor shared.Transactor,
	logger *zap.Logger,
) *AdjustmentService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdjustmentService{
		adjustmentRepo: adjustmentRepo,
		storeRepo:      storeRepo,
		transactor:     transactor,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Request records a pending adjustment. The balance is untouched until approval.
func (s *AdjustmentService) Request(ctx context.Context, req RequestAdjustmentRequest) (*AdjustmentResponse, error) {
	if _, err := s.storeRepo.FindByID(ctx, req.StoreID); err != nil {
		return nil, err
	}
	adj, err := partner.NewAdjustment(req.StoreID, partner.AdjustmentDirection(req.Direction), req.Amount, req.Reason, req.RequestedBy)
	if err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adj); err != nil {
		return nil, err
	}
	s.publish(ctx, adj.PopDomainEvents())

	resp := ToAdjustmentResponse(adj)
	return &resp, nil
}

// Approve applies a pending adjustment. The adjustment and the store are
// saved under their loaded versions in one transaction, so a concurrent
// second approval fails.
func (s *AdjustmentService) Approve(ctx context.Context, id uuid.UUID, req ReviewAdjustmentRequest) (*AdjustmentResponse, error) {
	var (
		adj    *partner.Adjustment
		store  *partner.Store
		events []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		adj, err = s.adjustmentRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		store, err = s.storeRepo.FindByID(txCtx, adj.StoreID)
		if err != nil {
			return err
		}
		if _, err := adj.Approve(store, req.ReviewedBy, req.Note); err != nil {
			return err
		}
		if err := s.adjustmentRepo.SaveWithLock(txCtx, adj); err != nil {
			return err
		}
		if err := s.storeRepo.SaveWithLock(txCtx, store); err != nil {
			return err
		}
		events = append(adj.PopDomainEvents(), store.PopDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("balance adjustment approved",
		zap.String("adjustment_id", adj.ID.String()),
		zap.String("store_id", store.ID.String()),
		zap.String("direction", string(adj.Direction)),
		zap.String("amount", adj.Amount.String()),
		zap.String("balance", store.Balance.String()),
	)
	s.publish(ctx, events)

	resp := ToAdjustmentResponse(adj)
	return &resp, nil
}

// Reject closes a pending adjustment without a balance change
func (s *AdjustmentService) Reject(ctx context.Context, id uuid.UUID, req ReviewAdjustmentRequest) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := adj.Reject(req.ReviewedBy, req.Note); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.SaveWithLock(ctx, adj); err != nil {
		return nil, err
	}
	s.publish(ctx, adj.PopDomainEvents())

	resp := ToAdjustmentResponse(adj)
	return &resp, nil
}

// GetByID retrieves an adjustment
func (s *AdjustmentService) GetByID(ctx context.Context, id uuid.UUID) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdjustmentResponse(adj)
	return &resp, nil
}

// List retrieves adjustments matching the filter
func (s *AdjustmentService) List(ctx context.Context, filter AdjustmentListFilter) ([]AdjustmentResponse, int64, error) {
	adjustments, total, err := s.adjustmentRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return responses, total, nil
}

func (s *AdjustmentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish adjustment events", zap.Error(err))
	}
}
