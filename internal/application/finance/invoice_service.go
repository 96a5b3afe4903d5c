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
	"go.uber.org/zap"
)

// InvoiceRepositories groups the repositories InvoiceService reads and writes
type InvoiceRepositories struct {
	Invoices finance.InvoiceRepository
	Orders   trade.OrderRepository
	Stores   partner.StoreRepository
}

// InvoiceService raises store invoices from shipped orders
type InvoiceService struct {
	repos           InvoiceRepositories
	numbers         shared.NumberGenerator
	transactor      shared.Transactor
	prefix          string
	renderer        InvoiceRenderer
	documents       DocumentStorage
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	repos InvoiceRepositories,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	logger *zap.Logger,
) *InvoiceService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		repos:      repos,
		numbers:    numbers,
		transactor: transactor,
		prefix:     shared.PrefixInvoice,
		logger:     logger,
	}
}

// SetInvoicePrefix overrides the invoice number prefix
func (s *InvoiceService) SetInvoicePrefix(prefix string) {
	if prefix != "" {
		s.prefix = prefix
	}
}

// SetPrinting enables PDF rendering
func (s *InvoiceService) SetPrinting(renderer InvoiceRenderer, documents DocumentStorage) {
	s.renderer = renderer
	s.documents = documents
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *InvoiceService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// GenerateForOrder invoices the shipped quantities of an order. The
// invoice, the store debit and the order's INVOICED status are saved in one
// transaction. An order can be invoiced once; a second call fails with
// ALREADY_INVOICED.
func (s *InvoiceService) GenerateForOrder(ctx context.Context, orderID uuid.UUID) (*InvoiceResponse, error) {
	var (
		inv    *finance.Invoice
		events []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		order, err := s.repos.Orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.InvoiceID != nil {
			return shared.NewDomainError("ALREADY_INVOICED", fmt.Sprintf("Order %s has already been invoiced", order.OrderNumber))
		}
		if order.Status != trade.OrderStatusShipped {
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot invoice order in %s status", order.Status))
		}
		store, err := s.repos.Stores.FindByID(txCtx, order.StoreID)
		if err != nil {
			return err
		}

		number, err := shared.NextDocumentNumber(txCtx, s.numbers, s.prefix, order.DeliveryWeek)
		if err != nil {
			return err
		}
		inv, err = finance.NewInvoice(finance.InvoiceHeader{
			InvoiceNumber: number,
			StoreID:       order.StoreID,
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			Week:          order.DeliveryWeek,
			IssuedAt:      time.Now(),
			TermsDays:     store.PaymentTermsDays,
		}, shippedLines(order))
		if err != nil {
			return err
		}

		if inv.TotalAmount.IsPositive() {
			src := partner.BalanceSource{Type: "INVOICE", ID: inv.ID, Memo: inv.InvoiceNumber}
			if _, err := store.Debit(partner.BalanceEntryInvoice, inv.TotalAmount, src); err != nil {
				return err
			}
		}
		if err := s.repos.Invoices.Save(txCtx, inv); err != nil {
			return err
		}
		if err := order.MarkInvoiced(inv.ID); err != nil {
			return err
		}
		if err := s.repos.Orders.SaveWithLock(txCtx, order); err != nil {
			return err
		}
		if err := s.repos.Stores.SaveWithLock(txCtx, store); err != nil {
			return err
		}
		events = append(inv.PopDomainEvents(), order.PopDomainEvents()...)
		events = append(events, store.PopDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice generated",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("order_number", inv.OrderNumber),
		zap.String("store_id", inv.StoreID.String()),
		zap.String("total", inv.TotalAmount.StringFixed(2)))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordInvoiceIssued(ctx, inv.TotalAmount)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Void cancels an invoice with no payments or credits and reverses its
// store debit
func (s *InvoiceService) Void(ctx context.Context, id uuid.UUID, req VoidRequest) (*InvoiceResponse, error) {
	var (
		inv    *finance.Invoice
		events []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		inv, err = s.repos.Invoices.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := inv.Void(req.Reason); err != nil {
			return err
		}
		if err := s.repos.Invoices.SaveWithLock(txCtx, inv); err != nil {
			return err
		}
		events = inv.PopDomainEvents()
		if !inv.TotalAmount.IsPositive() {
			return nil
		}

		store, err := s.repos.Stores.FindByID(txCtx, inv.StoreID)
		if err != nil {
			return err
		}
		src := partner.BalanceSource{Type: "INVOICE", ID: inv.ID, Memo: "void " + inv.InvoiceNumber}
		if _, err := store.Credit(partner.BalanceEntryInvoiceVoid, inv.TotalAmount, src); err != nil {
			return err
		}
		if err := s.repos.Stores.SaveWithLock(txCtx, store); err != nil {
			return err
		}
		events = append(events, store.PopDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice voided",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("reason", inv.VoidReason))
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// RenderPDF returns a download link for the invoice PDF, rendering and
// uploading it first when it does not exist yet or regenerate is set
func (s *InvoiceService) RenderPDF(ctx context.Context, id uuid.UUID, regenerate bool) (*InvoicePDFResponse, error) {
	if s.renderer == nil || s.documents == nil {
		return nil, shared.NewDomainError("PRINTING_DISABLED", "Invoice printing is not configured")
	}
	inv, err := s.repos.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.PDFKey == "" || regenerate {
		store, err := s.repos.Stores.FindByID(ctx, inv.StoreID)
		if err != nil {
			return nil, err
		}
		pdf, err := s.renderer.RenderInvoice(ctx, inv, store)
		if err != nil {
			return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
		}
		key := InvoicePDFKey(inv)
		if err := s.documents.Upload(ctx, key, pdf, "application/pdf"); err != nil {
			return nil, err
		}
		inv.SetPDFKey(key)
		if err := s.repos.Invoices.SaveWithLock(ctx, inv); err != nil {
			return nil, err
		}
		s.logger.Info("Invoice PDF rendered",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Int("bytes", len(pdf)))
	}

	url, expiresAt, err := s.documents.GenerateDownloadURL(ctx, inv.PDFKey, 0)
	if err != nil {
		return nil, err
	}
	return &InvoicePDFResponse{InvoiceID: inv.ID, URL: url, ExpiresAt: expiresAt}, nil
}

// InvoicePDFKey is the object key an invoice PDF is stored under
func InvoicePDFKey(inv *finance.Invoice) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", inv.Week.String(), inv.InvoiceNumber)
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repos.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves invoices matching the filter
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.repos.Invoices.FindAll(ctx, filter.toDomain(time.Now()))
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

func shippedLines(order *trade.Order) []finance.InvoiceLineInput {
	lines := make([]finance.InvoiceLineInput, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, finance.InvoiceLineInput{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Unit:        l.Unit,
			Quantity:    l.ShippedQuantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return lines
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events", zap.Error(err))
	}
}
