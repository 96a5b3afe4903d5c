package trade

import (
	"context"
	"fmt"

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

// StockGateway is the slice of the stock service that order flows need.
// WithLockedStock runs fn in a transaction while holding product locks.
type StockGateway interface {
	WithLockedStock(ctx context.Context, productIDs []uuid.UUID, fn func(ctx context.Context, levels map[uuid.UUID]inventory.StockLevel) error) error
	Append(ctx context.Context, entries ...inventory.LedgerEntry) error
}

// OrderService handles store order operations
type OrderService struct {
	orderRepo       trade.OrderRepository
	productRepo     catalog.ProductRepository
	storeRepo       partner.StoreRepository
	stock           StockGateway
	numbers         shared.NumberGenerator
	transactor      shared.Transactor
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	storeRepo partner.StoreRepository,
	stock StockGateway,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	logger *zap.Logger,
) *OrderService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		stock:       stock,
		numbers:     numbers,
		transactor:  transactor,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create places a direct order. Every line must be covered by available
// stock or the whole order is rejected with INSUFFICIENT_STOCK. Stock is
// reserved in the same transaction that saves the order.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	week, err := shared.ParseWeek(req.DeliveryWeek)
	if err != nil {
		return nil, err
	}
	if week.Before(shared.CurrentWeek()) {
		return nil, shared.NewDomainError("PAST_WEEK", "Delivery week has already passed")
	}
	if _, err := loadActiveStore(ctx, s.storeRepo, req.StoreID); err != nil {
		return nil, err
	}

	requested := make(map[uuid.UUID]decimal.Decimal, len(req.Lines))
	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, l := range req.Lines {
		if _, dup := requested[l.ProductID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", fmt.Sprintf("Product %s appears more than once", l.ProductID))
		}
		requested[l.ProductID] = l.Quantity
		ids = append(ids, l.ProductID)
	}
	products, err := loadActiveProducts(ctx, s.productRepo, ids)
	if err != nil {
		return nil, err
	}
	lines := make([]trade.LineInput, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, lineFromProduct(products[id], requested[id]))
	}

	number, err := shared.NextDocumentNumber(ctx, s.numbers, shared.PrefixOrder, week)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewOrder(number, req.StoreID, week, lines)
	if err != nil {
		return nil, err
	}
	order.Notes = req.Notes
	order.CreatedBy = req.CreatedBy

	err = s.stock.WithLockedStock(ctx, order.ProductIDs(), func(txCtx context.Context, levels map[uuid.UUID]inventory.StockLevel) error {
		reservation := reservationLines(order)
		if shortages := inventory.CheckAvailability(levels, reservation); len(shortages) > 0 {
			return inventory.NewInsufficientStockError(shortages)
		}
		if err := reserve(txCtx, s.stock, order, reservation); err != nil {
			return err
		}
		return s.orderRepo.Save(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("store_id", order.StoreID.String()),
		zap.String("total", order.TotalAmount.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, order.PopDomainEvents())
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, telemetry.OrderTypeStore, order.TotalAmount)
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves an order
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders matching the filter
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// Cancel cancels a confirmed order and releases its reservation
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.SaveWithLock(txCtx, order); err != nil {
			return err
		}
		return release(txCtx, s.stock, order, "cancelled")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("reason", req.Reason),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, order.PopDomainEvents())
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Ship records picked quantities for an order in PICKING. It writes
// SHIPMENT entries for what left the warehouse and releases the full
// reservation. The caller owns the transaction; events are returned so
// they can be published after commit.
func (s *OrderService) Ship(ctx context.Context, order *trade.Order, shipped map[uuid.UUID]decimal.Decimal) ([]shared.DomainEvent, error) {
	if err := order.Ship(shipped); err != nil {
		return nil, err
	}

	out := make([]inventory.ReservationLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		out = append(out, inventory.ReservationLine{ProductID: l.ProductID, Quantity: l.ShippedQuantity})
	}
	shipments, err := inventory.BuildEntries(inventory.EntryShipment, inventory.SourceOrder, &order.ID, out, order.OrderNumber)
	if err != nil {
		return nil, err
	}
	if err := s.stock.Append(ctx, shipments...); err != nil {
		return nil, err
	}
	if err := release(ctx, s.stock, order, "shipped"); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order.PopDomainEvents(), nil
}

func reservationLines(order *trade.Order) []inventory.ReservationLine {
	lines := make([]inventory.ReservationLine, len(order.Lines))
	for i, l := range order.Lines {
		lines[i] = inventory.ReservationLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return lines
}

func reserve(ctx context.Context, stock StockGateway, order *trade.Order, lines []inventory.ReservationLine) error {
	entries, err := inventory.BuildEntries(inventory.EntryReserve, inventory.SourceOrder, &order.ID, lines, order.OrderNumber)
	if err != nil {
		return err
	}
	return stock.Append(ctx, entries...)
}

func release(ctx context.Context, stock StockGateway, order *trade.Order, note string) error {
	entries, err := inventory.BuildEntries(inventory.EntryRelease, inventory.SourceOrder, &order.ID, reservationLines(order), note)
	if err != nil {
		return err
	}
	return stock.Append(ctx, entries...)
}

func lineFromProduct(p *catalog.Product, qty decimal.Decimal) trade.LineInput {
	return trade.LineInput{
		ProductID:   p.ID,
		ProductName: p.Name,
		SKU:         p.SKU,
		Unit:        string(p.Unit),
		Quantity:    qty,
		UnitPrice:   p.SellPrice,
	}
}

func loadActiveStore(ctx context.Context, repo partner.StoreRepository, id uuid.UUID) (*partner.Store, error) {
	store, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !store.Active {
		return nil, shared.NewDomainError("STORE_INACTIVE", "Store is not active")
	}
	return store, nil
}

// loadActiveProducts returns products by id and fails unless every id
// names an active product
func loadActiveProducts(ctx context.Context, repo catalog.ProductRepository, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	products, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	index := catalog.IndexByID(products)
	for _, id := range ids {
		p, ok := index[id]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", id))
		}
		if !p.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", fmt.Sprintf("Product %s is not active", p.SKU))
		}
	}
	return index, nil
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events", zap.Error(err))
	}
}
