package workorder

import (
	"context"
	"fmt"

	"github.com/freshline/backend/internal/domain/inventory"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/domain/workorder"
	"github.com/freshline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockGateway locks products and reads their levels inside a transaction
type StockGateway interface {
	WithLockedStock(ctx context.Context, productIDs []uuid.UUID, fn func(ctx context.Context, levels map[uuid.UUID]inventory.StockLevel) error) error
}

// Shipper ships an order in PICKING with the given quantities inside the
// caller's transaction. *trade.OrderService satisfies it.
type Shipper interface {
	Ship(ctx context.Context, order *trade.Order, shipped map[uuid.UUID]decimal.Decimal) ([]shared.DomainEvent, error)
}

// Service builds and runs the weekly warehouse work orders
type Service struct {
	workOrders      workorder.Repository
	orders          trade.OrderRepository
	stock           StockGateway
	shipper         Shipper
	numbers         shared.NumberGenerator
	transactor      shared.Transactor
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewService creates a new work order service
func NewService(
	workOrders workorder.Repository,
	orders trade.OrderRepository,
	stock StockGateway,
	shipper Shipper,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	logger *zap.Logger,
) *Service {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		workOrders: workOrders,
		orders:     orders,
		stock:      stock,
		shipper:    shipper,
		numbers:    numbers,
		transactor: transactor,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Generate allocates on-hand stock to the week's confirmed orders that are
// not yet on a work order and saves the result as a draft work order.
// Products short of demand are shared out proportionally in whole units.
func (s *Service) Generate(ctx context.Context, week shared.Week) (*WorkOrderResponse, error) {
	confirmed, err := s.orders.FindConfirmedByWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	eligible := make([]*trade.Order, 0, len(confirmed))
	productIDs := make([]uuid.UUID, 0)
	for i := range confirmed {
		if confirmed[i].WorkOrderID != nil {
			continue
		}
		eligible = append(eligible, &confirmed[i])
		productIDs = append(productIDs, confirmed[i].ProductIDs()...)
	}
	if len(eligible) == 0 {
		return nil, shared.NewDomainError("NO_ORDERS", fmt.Sprintf("No confirmed orders to allocate for %s", week))
	}

	var (
		wo    *workorder.WorkOrder
		short decimal.Decimal
	)
	err = s.stock.WithLockedStock(ctx, productIDs, func(txCtx context.Context, levels map[uuid.UUID]inventory.StockLevel) error {
		onHand := make(map[uuid.UUID]decimal.Decimal, len(levels))
		for id, level := range levels {
			onHand[id] = level.OnHand
		}
		allocs := workorder.Allocate(demands(eligible), onHand)

		number, err := shared.NextDocumentNumber(txCtx, s.numbers, shared.PrefixWorkOrder, week)
		if err != nil {
			return err
		}
		wo, err = workorder.New(number, week, allocs)
		if err != nil {
			return err
		}
		if err := s.workOrders.Save(txCtx, wo); err != nil {
			return err
		}
		for _, order := range eligible {
			if err := order.AttachWorkOrder(wo.ID); err != nil {
				return err
			}
			if err := s.orders.SaveWithLock(txCtx, order); err != nil {
				return err
			}
		}
		short = decimal.Zero
		for _, a := range allocs {
			short = short.Add(a.Requested.Sub(a.Quantity))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Work order generated",
		zap.String("number", wo.Number),
		zap.String("week", week.String()),
		zap.Int("orders", len(eligible)),
		zap.Int("lines", len(wo.Lines)),
		zap.String("short_units", short.String()))
	if s.businessMetrics != nil && short.IsPositive() {
		s.businessMetrics.RecordShortage(ctx, short)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, wo.PopDomainEvents())

	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

func demands(orders []*trade.Order) []workorder.Demand {
	out := make([]workorder.Demand, 0)
	for _, o := range orders {
		for _, l := range o.Lines {
			out = append(out, workorder.Demand{
				OrderID:   o.ID,
				StoreID:   o.StoreID,
				ProductID: l.ProductID,
				Requested: l.Quantity,
				OrderedAt: o.CreatedAt,
			})
		}
	}
	return out
}

// Release sends a draft work order to the floor and moves its orders to
// PICKING
func (s *Service) Release(ctx context.Context, id uuid.UUID) (*WorkOrderResponse, error) {
	wo, err := s.withOrders(ctx, id, (*workorder.WorkOrder).Release, (*trade.Order).MarkPicking)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Work order released", zap.String("number", wo.Number))

	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

// Cancel abandons a draft work order and frees its orders for the next run
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*WorkOrderResponse, error) {
	wo, err := s.withOrders(ctx, id, (*workorder.WorkOrder).Cancel, (*trade.Order).DetachWorkOrder)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Work order cancelled", zap.String("number", wo.Number))

	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

// withOrders applies transition to the work order and step to each of its
// orders in one transaction
func (s *Service) withOrders(
	ctx context.Context,
	id uuid.UUID,
	transition func(*workorder.WorkOrder) error,
	step func(*trade.Order) error,
) (*workorder.WorkOrder, error) {
	var wo *workorder.WorkOrder
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		wo, err = s.workOrders.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := transition(wo); err != nil {
			return err
		}
		orders, err := s.orders.FindByWorkOrder(txCtx, wo.ID)
		if err != nil {
			return err
		}
		for i := range orders {
			if err := step(&orders[i]); err != nil {
				return err
			}
			if err := s.orders.SaveWithLock(txCtx, &orders[i]); err != nil {
				return err
			}
		}
		return s.workOrders.SaveWithLock(txCtx, wo)
	})
	return wo, err
}

// RecordPick sets the picked quantity of a line on a released work order
func (s *Service) RecordPick(ctx context.Context, id uuid.UUID, req RecordPickRequest) (*WorkOrderResponse, error) {
	wo, err := s.workOrders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := wo.RecordPick(req.LineID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.workOrders.SaveWithLock(ctx, wo); err != nil {
		return nil, err
	}
	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

// Complete ships every order on the work order with its picked quantities
// and closes the work order. Shipments, reservation releases and status
// changes commit together; the shipped events then drive invoicing.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*WorkOrderResponse, error) {
	var (
		wo     *workorder.WorkOrder
		events []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		wo, err = s.workOrders.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		picked, err := wo.Complete()
		if err != nil {
			return err
		}
		orders, err := s.orders.FindByWorkOrder(txCtx, wo.ID)
		if err != nil {
			return err
		}
		for i := range orders {
			shipped, err := s.shipper.Ship(txCtx, &orders[i], picked[orders[i].ID])
			if err != nil {
				return fmt.Errorf("ship order %s: %w", orders[i].OrderNumber, err)
			}
			events = append(events, shipped...)
		}
		if err := s.workOrders.SaveWithLock(txCtx, wo); err != nil {
			return err
		}
		events = append(wo.PopDomainEvents(), events...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Work order completed",
		zap.String("number", wo.Number),
		zap.Int("orders", len(wo.OrderIDs())))
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

// GetByID retrieves a work order
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*WorkOrderResponse, error) {
	wo, err := s.workOrders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

// List retrieves work orders matching the filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]WorkOrderResponse, int64, error) {
	items, total, err := s.workOrders.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]WorkOrderResponse, len(items))
	for i := range items {
		responses[i] = ToWorkOrderResponse(&items[i])
	}
	return responses, total, nil
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events", zap.Error(err))
	}
}
