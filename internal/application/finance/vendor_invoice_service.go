package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/freshline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VendorInvoiceService records vendor bills and matches them against
// purchase orders and receipts
type VendorInvoiceService struct {
	invoices        finance.VendorInvoiceRepository
	purchaseOrders  trade.PurchaseOrderRepository
	vendors         partner.VendorRepository
	tolerances      finance.MatchTolerances
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewVendorInvoiceService creates a new VendorInvoiceService
func NewVendorInvoiceService(
	invoices finance.VendorInvoiceRepository,
	purchaseOrders trade.PurchaseOrderRepository,
	vendors partner.VendorRepository,
	tolerances finance.MatchTolerances,
	logger *zap.Logger,
) *VendorInvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendorInvoiceService{
		invoices:       invoices,
		purchaseOrders: purchaseOrders,
		vendors:        vendors,
		tolerances:     tolerances,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *VendorInvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *VendorInvoiceService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Submit records a vendor invoice and runs the three-way match
func (s *VendorInvoiceService) Submit(ctx context.Context, req SubmitVendorInvoiceRequest) (*VendorInvoiceResponse, error) {
	vendor, err := s.vendors.FindByID(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	exists, err := s.invoices.ExistsByVendorNumber(ctx, vendor.ID, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_INVOICE",
			fmt.Sprintf("Invoice %s from vendor %s already exists", req.InvoiceNumber, vendor.Code))
	}
	po, err := s.matchablePO(ctx, req.PurchaseOrderID, vendor.ID)
	if err != nil {
		return nil, err
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}
	lines := make([]finance.VendorInvoiceLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = finance.VendorInvoiceLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost}
	}
	vi, err := finance.NewVendorInvoice(vendor.ID, po.ID, req.InvoiceNumber, invoiceDate, vendor.PaymentTermsDays, lines)
	if err != nil {
		return nil, err
	}
	if err := s.match(ctx, vi, po); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, vi); err != nil {
		return nil, err
	}

	s.logger.Info("Vendor invoice submitted",
		zap.String("vendor_code", vendor.Code),
		zap.String("invoice_number", vi.InvoiceNumber),
		zap.String("po_number", po.OrderNumber),
		zap.String("total", vi.TotalAmount.StringFixed(2)),
		zap.String("match_status", string(vi.Match.Status)))
	publishEvents(ctx, s.eventPublisher, s.logger, vi.PopDomainEvents())

	resp := ToVendorInvoiceResponse(vi)
	return &resp, nil
}

// Rematch runs the match again against current receipts
func (s *VendorInvoiceService) Rematch(ctx context.Context, id uuid.UUID) (*VendorInvoiceResponse, error) {
	vi, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	po, err := s.matchablePO(ctx, vi.PurchaseOrderID, vi.VendorID)
	if err != nil {
		return nil, err
	}
	if err := s.match(ctx, vi, po); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, vi); err != nil {
		return nil, err
	}

	s.logger.Info("Vendor invoice rematched",
		zap.String("invoice_number", vi.InvoiceNumber),
		zap.String("match_status", string(vi.Match.Status)))
	publishEvents(ctx, s.eventPublisher, s.logger, vi.PopDomainEvents())

	resp := ToVendorInvoiceResponse(vi)
	return &resp, nil
}

// Approve overrides a match exception so the invoice can be paid
func (s *VendorInvoiceService) Approve(ctx context.Context, id uuid.UUID, req ApproveVendorInvoiceRequest) (*VendorInvoiceResponse, error) {
	vi, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vi.Approve(req.ApprovedBy, req.Note); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, vi); err != nil {
		return nil, err
	}
	s.logger.Info("Vendor invoice exception approved",
		zap.String("invoice_number", vi.InvoiceNumber),
		zap.String("approved_by", req.ApprovedBy.String()))

	resp := ToVendorInvoiceResponse(vi)
	return &resp, nil
}

// Void cancels an invoice that never became payable
func (s *VendorInvoiceService) Void(ctx context.Context, id uuid.UUID) (*VendorInvoiceResponse, error) {
	vi, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vi.Void(); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, vi); err != nil {
		return nil, err
	}
	s.logger.Info("Vendor invoice voided", zap.String("invoice_number", vi.InvoiceNumber))

	resp := ToVendorInvoiceResponse(vi)
	return &resp, nil
}

// GetByID retrieves a vendor invoice
func (s *VendorInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*VendorInvoiceResponse, error) {
	vi, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorInvoiceResponse(vi)
	return &resp, nil
}

// List retrieves vendor invoices matching the filter
func (s *VendorInvoiceService) List(ctx context.Context, filter VendorInvoiceListFilter) ([]VendorInvoiceResponse, int64, error) {
	invoices, total, err := s.invoices.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]VendorInvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToVendorInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

func (s *VendorInvoiceService) matchablePO(ctx context.Context, poID, vendorID uuid.UUID) (*trade.PurchaseOrder, error) {
	po, err := s.purchaseOrders.FindByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.VendorID != vendorID {
		return nil, shared.NewDomainError("PO_MISMATCH", fmt.Sprintf("Purchase order %s belongs to another vendor", po.OrderNumber))
	}
	switch po.Status {
	case trade.PurchaseOrderStatusDraft, trade.PurchaseOrderStatusCancelled:
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot bill against purchase order in %s status", po.Status))
	}
	return po, nil
}

// match compares vi with what the PO received and other invoices have not
// already billed
func (s *VendorInvoiceService) match(ctx context.Context, vi *finance.VendorInvoice, po *trade.PurchaseOrder) error {
	others, err := s.invoices.FindByPurchaseOrder(ctx, po.ID)
	if err != nil {
		return err
	}
	billed := finance.BilledQuantities(others, vi.ID)
	result := finance.ThreeWayMatch(vi.Lines, POLineViews(po, billed), s.tolerances)
	if err := vi.RecordMatch(result); err != nil {
		return err
	}
	if s.businessMetrics != nil {
		s.businessMetrics.RecordMatchResult(ctx, string(result.Status))
	}
	return nil
}

// POLineViews projects purchase order lines for the matcher. billed holds
// the quantity per product already billed by other invoices and may be nil.
func POLineViews(po *trade.PurchaseOrder, billed map[uuid.UUID]decimal.Decimal) []finance.POLineView {
	views := make([]finance.POLineView, len(po.Lines))
	for i, l := range po.Lines {
		views[i] = finance.POLineView{
			ProductID:   l.ProductID,
			OrderedQty:  l.OrderedQuantity,
			ReceivedQty: l.ReceivedQuantity,
			BilledQty:   billed[l.ProductID],
			UnitCost:    l.UnitCost,
		}
	}
	return views
}
