package trade

import (
	"context"
	"errors"

	"github.com/freshline/backend/internal/domain/catalog"
	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PreOrderService builds weekly preorders from order matrices and shelf
// counts and promotes confirmed ones into orders
type PreOrderService struct {
	preorderRepo    trade.PreOrderRepository
	matrixRepo      trade.OrderMatrixRepository
	orderRepo       trade.OrderRepository
	countRepo       inventory.StoreInventoryRepository
	storeRepo       partner.StoreRepository
	productRepo     catalog.ProductRepository
	stock           StockGateway
	numbers         shared.NumberGenerator
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// PreOrderRepositories groups the repositories a PreOrderService reads and writes
type PreOrderRepositories struct {
	PreOrders trade.PreOrderRepository
	Matrices  trade.OrderMatrixRepository
	Orders    trade.OrderRepository
	Counts    inventory.StoreInventoryRepository
	Stores    partner.StoreRepository
	Products  catalog.ProductRepository
}

// NewPreOrderService creates a new PreOrderService
func NewPreOrderService(repos PreOrderRepositories, stock StockGateway, numbers shared.NumberGenerator, logger *zap.Logger) *PreOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreOrderService{
		preorderRepo: repos.PreOrders,
		matrixRepo:   repos.Matrices,
		orderRepo:    repos.Orders,
		countRepo:    repos.Counts,
		storeRepo:    repos.Stores,
		productRepo:  repos.Products,
		stock:        stock,
		numbers:      numbers,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PreOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *PreOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// ==================== Order Matrix ====================

// GetMatrix returns a store's par levels. A store without a matrix gets an empty one.
func (s *PreOrderService) GetMatrix(ctx context.Context, storeID uuid.UUID) (*OrderMatrixResponse, error) {
	matrix, err := s.matrixRepo.FindByStore(ctx, storeID)
	if errors.Is(err, shared.ErrNotFound) {
		matrix, err = trade.NewOrderMatrix(storeID)
	}
	if err != nil {
		return nil, err
	}
	resp := ToOrderMatrixResponse(matrix)
	return &resp, nil
}

// UpsertMatrix replaces a store's par levels
func (s *PreOrderService) UpsertMatrix(ctx context.Context, storeID uuid.UUID, req UpsertMatrixRequest) (*OrderMatrixResponse, error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(req.Lines))
	lines := make([]trade.MatrixLine, len(req.Lines))
	for i, l := range req.Lines {
		ids[i] = l.ProductID
		lines[i] = trade.MatrixLine{ProductID: l.ProductID, Par: l.Par}
	}
	if len(ids) > 0 {
		if _, err := loadActiveProducts(ctx, s.productRepo, ids); err != nil {
			return nil, err
		}
	}

	matrix, err := s.matrixRepo.FindByStore(ctx, storeID)
	if errors.Is(err, shared.ErrNotFound) {
		matrix, err = trade.NewOrderMatrix(storeID)
	}
	if err != nil {
		return nil, err
	}
	if err := matrix.Replace(lines); err != nil {
		return nil, err
	}
	if err := s.matrixRepo.Save(ctx, matrix); err != nil {
		return nil, err
	}
	resp := ToOrderMatrixResponse(matrix)
	return &resp, nil
}

// ==================== PreOrders ====================

// Generate creates a draft preorder for every active store with a matrix.
// Suggestions reconcile par against the shelf count submitted the week
// before delivery. Stores that already have a preorder for the week are
// skipped, so running twice changes nothing.
func (s *PreOrderService) Generate(ctx context.Context, week shared.Week) (*GenerateResult, error) {
	if !week.IsValid() {
		return nil, shared.NewDomainError("INVALID_WEEK", "Invalid week")
	}
	stores, err := s.storeRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	matrices, err := s.matrixRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byStore := make(map[uuid.UUID]*trade.OrderMatrix, len(matrices))
	for i := range matrices {
		byStore[matrices[i].StoreID] = &matrices[i]
	}
	counts, err := s.countRepo.FindSubmittedByWeek(ctx, week.Prev())
	if err != nil {
		return nil, err
	}
	countByStore := make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal, len(counts))
	for i := range counts {
		countByStore[counts[i].StoreID] = counts[i].Counts()
	}

	result := &GenerateResult{Week: week.String()}
	var events []shared.DomainEvent
	for _, store := range stores {
		matrix, ok := byStore[store.ID]
		if !ok || matrix.IsEmpty() {
			continue
		}
		_, err := s.preorderRepo.FindByStoreAndWeek(ctx, store.ID, week)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		pre, err := trade.NewPreOrder(store.ID, week, trade.BuildSuggestions(matrix.Lines, countByStore[store.ID]))
		if err != nil {
			return nil, err
		}
		if err := s.preorderRepo.Save(ctx, pre); err != nil {
			return nil, err
		}
		events = append(events, pre.PopDomainEvents()...)
		result.Created++
	}

	s.logger.Info("preorders generated",
		zap.String("week", week.String()),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, events)
	return result, nil
}

// GetByID retrieves a preorder
func (s *PreOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PreOrderResponse, error) {
	pre, err := s.preorderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPreOrderResponse(pre)
	return &resp, nil
}

// List retrieves preorders matching the filter
func (s *PreOrderService) List(ctx context.Context, filter PreOrderListFilter) ([]PreOrderResponse, int64, error) {
	preorders, total, err := s.preorderRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PreOrderResponse, len(preorders))
	for i := range preorders {
		responses[i] = ToPreOrderResponse(&preorders[i])
	}
	return responses, total, nil
}

// UpdateLine changes the requested quantity on a draft preorder
func (s *PreOrderService) UpdateLine(ctx context.Context, id uuid.UUID, req UpdatePreOrderLineRequest) (*PreOrderResponse, error) {
	pre, err := s.preorderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Quantity.IsPositive() {
		if _, err := loadActiveProducts(ctx, s.productRepo, []uuid.UUID{req.ProductID}); err != nil {
			return nil, err
		}
	}
	if err := pre.UpdateLine(req.ProductID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.preorderRepo.SaveWithLock(ctx, pre); err != nil {
		return nil, err
	}
	resp := ToPreOrderResponse(pre)
	return &resp, nil
}

// Confirm moves a draft preorder to CONFIRMED
func (s *PreOrderService) Confirm(ctx context.Context, id uuid.UUID) (*PreOrderResponse, error) {
	pre, err := s.preorderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pre.Confirm(); err != nil {
		return nil, err
	}
	if err := s.preorderRepo.SaveWithLock(ctx, pre); err != nil {
		return nil, err
	}
	resp := ToPreOrderResponse(pre)
	return &resp, nil
}

// Promote turns a confirmed preorder into an order. Each line is filled to
// what is available and the rest is recorded as short. If nothing at all
// can be filled the preorder stays CONFIRMED.
func (s *PreOrderService) Promote(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	pre, err := s.preorderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pre.Status != trade.PreOrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", "Only confirmed preorders can be promoted")
	}
	if _, err := loadActiveStore(ctx, s.storeRepo, pre.StoreID); err != nil {
		return nil, err
	}

	requested := pre.RequestedLines()
	ids := make([]uuid.UUID, len(requested))
	for i, l := range requested {
		ids[i] = l.ProductID
	}
	found, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := catalog.IndexByID(found)

	number, err := shared.NextDocumentNumber(ctx, s.numbers, shared.PrefixOrder, pre.Week)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	err = s.stock.WithLockedStock(ctx, ids, func(txCtx context.Context, levels map[uuid.UUID]inventory.StockLevel) error {
		filled := make(map[uuid.UUID]decimal.Decimal, len(requested))
		lines := make([]trade.LineInput, 0, len(requested))
		for _, l := range requested {
			p, ok := products[l.ProductID]
			if !ok || !p.IsActive() {
				continue
			}
			qty := decimal.Min(l.Requested, decimal.Max(levels[l.ProductID].Available, decimal.Zero))
			if !qty.IsPositive() {
				continue
			}
			filled[l.ProductID] = qty
			lines = append(lines, lineFromProduct(p, qty))
		}
		if len(lines) == 0 {
			return shared.NewDomainError(shared.ErrInsufficientStock.Code, "No requested product has stock available")
		}

		var err error
		order, err = trade.NewOrder(number, pre.StoreID, pre.Week, lines)
		if err != nil {
			return err
		}
		order.MarkFromPreOrder(pre.ID)
		if err := pre.Promote(order.ID, filled); err != nil {
			return err
		}
		if err := reserve(txCtx, s.stock, order, reservationLines(order)); err != nil {
			return err
		}
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return err
		}
		return s.preorderRepo.SaveWithLock(txCtx, pre)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("preorder promoted",
		zap.String("preorder_id", pre.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("short", pre.ShortTotal().String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, append(order.PopDomainEvents(), pre.PopDomainEvents()...))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, telemetry.OrderTypePreOrder, order.TotalAmount)
		s.businessMetrics.RecordShortage(ctx, pre.ShortTotal())
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Expire closes every unpromoted preorder for the week and returns how many
// were expired
func (s *PreOrderService) Expire(ctx context.Context, week shared.Week) (int, error) {
	open, err := s.preorderRepo.FindOpenByWeek(ctx, week)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range open {
		pre := &open[i]
		if err := pre.Expire(); err != nil {
			return expired, err
		}
		if err := s.preorderRepo.SaveWithLock(ctx, pre); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Warn("preorder changed while expiring, skipped", zap.String("preorder_id", pre.ID.String()))
				continue
			}
			return expired, err
		}
		expired++
	}
	s.logger.Info("preorders expired", zap.String("week", week.String()), zap.Int("count", expired))
	return expired, nil
}
