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
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo       trade.PurchaseOrderRepository
	vendorRepo      partner.VendorRepository
	productRepo     catalog.ProductRepository
	stock           StockGateway
	numbers         shared.NumberGenerator
	transactor      shared.Transactor
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	vendorRepo partner.VendorRepository,
	productRepo catalog.ProductRepository,
	stock StockGateway,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	logger *zap.Logger,
) *PurchaseOrderService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		vendorRepo:  vendorRepo,
		productRepo: productRepo,
		stock:       stock,
		numbers:     numbers,
		transactor:  transactor,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *PurchaseOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	week, err := shared.ParseWeek(req.ExpectedWeek)
	if err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.FindByID(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.Active {
		return nil, shared.NewDomainError("VENDOR_INACTIVE", "Vendor is not active")
	}

	number, err := shared.NextDocumentNumber(ctx, s.numbers, shared.PrefixPurchaseOrder, week)
	if err != nil {
		return nil, err
	}
	po, err := trade.NewPurchaseOrder(number, req.VendorID, week)
	if err != nil {
		return nil, err
	}
	po.Notes = req.Notes
	po.CreatedBy = req.CreatedBy

	if len(req.Lines) > 0 {
		lines, err := s.buildLines(ctx, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := po.SetLines(lines); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, po.PopDomainEvents())

	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Update replaces the lines of a draft purchase order
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ExpectedWeek != "" {
		week, err := shared.ParseWeek(req.ExpectedWeek)
		if err != nil {
			return nil, err
		}
		if err := po.SetExpectedWeek(week); err != nil {
			return nil, err
		}
	}
	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	if err := po.SetLines(lines); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}

	if err := s.orderRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Submit sends a draft purchase order to the vendor
func (s *PurchaseOrderService) Submit(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Submit(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, po.PopDomainEvents())
	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, telemetry.OrderTypePurchase, po.TotalAmount)
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Cancel cancels a purchase order that has not been received
func (s *PurchaseOrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Receive records goods arriving. RECEIPT ledger entries are written in the
// same transaction as the purchase order update.
func (s *PurchaseOrderService) Receive(ctx context.Context, id uuid.UUID, req ReceivePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]trade.ReceiveItem, len(req.Lines))
	for i, l := range req.Lines {
		items[i] = trade.ReceiveItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	received, err := po.Receive(items)
	if err != nil {
		return nil, err
	}

	lines := make([]inventory.ReservationLine, len(received))
	for i, r := range received {
		lines[i] = inventory.ReservationLine{ProductID: r.ProductID, Quantity: r.Quantity}
	}
	entries, err := inventory.BuildEntries(inventory.EntryReceipt, inventory.SourcePurchaseOrder, &po.ID, lines, po.OrderNumber)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.SaveWithLock(txCtx, po); err != nil {
			return err
		}
		return s.stock.Append(txCtx, entries...)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order received",
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("status", string(po.Status)),
		zap.Int("lines", len(received)),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, po.PopDomainEvents())
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// GetByID retrieves a purchase order
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List retrieves purchase orders matching the filter
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// buildLines resolves product details. A missing unit cost falls back to
// the catalog cost price.
func (s *PurchaseOrderService) buildLines(ctx context.Context, reqLines []POLineRequest) ([]trade.POLineInput, error) {
	ids := make([]uuid.UUID, len(reqLines))
	for i, l := range reqLines {
		ids[i] = l.ProductID
	}
	found, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := catalog.IndexByID(found)

	lines := make([]trade.POLineInput, len(reqLines))
	for i, l := range reqLines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", l.ProductID))
		}
		cost := p.CostPrice
		if l.UnitCost != nil {
			cost = *l.UnitCost
		}
		lines[i] = trade.POLineInput{
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Unit:        string(p.Unit),
			Quantity:    l.Quantity,
			UnitCost:    cost,
		}
	}
	return lines, nil
}
