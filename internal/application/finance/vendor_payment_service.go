package finance

import (
	"context"
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VendorPaymentService pays vendor invoices
type VendorPaymentService struct {
	payments        finance.VendorPaymentRepository
	invoices        finance.VendorInvoiceRepository
	vendors         partner.VendorRepository
	numbers         shared.NumberGenerator
	transactor      shared.Transactor
	guard           requestGuard
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewVendorPaymentService creates a new VendorPaymentService
func NewVendorPaymentService(
	payments finance.VendorPaymentRepository,
	invoices finance.VendorInvoiceRepository,
	vendors partner.VendorRepository,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *VendorPaymentService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendorPaymentService{
		payments:   payments,
		invoices:   invoices,
		vendors:    vendors,
		numbers:    numbers,
		transactor: transactor,
		guard:      requestGuard{store: idempotency, scope: "vendor_payment", logger: logger},
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *VendorPaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *VendorPaymentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Pay posts a vendor payment. Allocations must add up to the amount
// exactly; the payment and every invoice it pays are saved in one
// transaction.
func (s *VendorPaymentService) Pay(ctx context.Context, req PayVendorRequest) (resp *VendorPaymentResponse, err error) {
	release, err := s.guard.claim(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	var (
		payment *finance.VendorPayment
		events  []shared.DomainEvent
	)
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.vendors.FindByID(txCtx, req.VendorID); err != nil {
			return err
		}
		allocs := toAllocations(req.Allocations)
		invoices, err := s.loadInvoices(txCtx, allocationIDs(allocs))
		if err != nil {
			return err
		}
		number, err := shared.NextDocumentNumber(txCtx, s.numbers, shared.PrefixVendorPayment, shared.WeekOf(paidAt))
		if err != nil {
			return err
		}
		payment, err = finance.NewVendorPayment(number, req.VendorID, req.Amount.Round(2),
			finance.PaymentMethod(req.Method), req.Reference, paidAt, allocs, invoices)
		if err != nil {
			return err
		}
		payment.CreatedBy = req.CreatedBy

		if err := s.payments.Save(txCtx, payment); err != nil {
			return err
		}
		for _, a := range payment.Allocations {
			if err := s.invoices.SaveWithLock(txCtx, invoices[a.TargetID]); err != nil {
				return err
			}
		}
		events = payment.PopDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vendor payment posted",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("vendor_id", payment.VendorID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.Int("allocations", len(payment.Allocations)))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, telemetry.PaymentPaid, string(payment.Method), payment.Amount)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	r := ToVendorPaymentResponse(payment)
	return &r, nil
}

// Void reverses a posted payment on every invoice it paid
func (s *VendorPaymentService) Void(ctx context.Context, id uuid.UUID, req VoidRequest) (*VendorPaymentResponse, error) {
	var payment *finance.VendorPayment
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		payment, err = s.payments.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		invoices, err := s.loadInvoices(txCtx, payment.InvoiceIDs())
		if err != nil {
			return err
		}
		if err := payment.Void(req.Reason, invoices); err != nil {
			return err
		}
		if err := s.payments.SaveWithLock(txCtx, payment); err != nil {
			return err
		}
		for _, inv := range invoices {
			if err := s.invoices.SaveWithLock(txCtx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vendor payment voided",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("reason", payment.VoidReason))

	resp := ToVendorPaymentResponse(payment)
	return &resp, nil
}

// GetByID retrieves a vendor payment
func (s *VendorPaymentService) GetByID(ctx context.Context, id uuid.UUID) (*VendorPaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorPaymentResponse(payment)
	return &resp, nil
}

// List retrieves vendor payments, optionally for one vendor
func (s *VendorPaymentService) List(ctx context.Context, filter PaymentListFilter) ([]VendorPaymentResponse, int64, error) {
	payments, total, err := s.payments.FindAll(ctx, filter.toDomain("vendor_id"))
	if err != nil {
		return nil, 0, err
	}
	responses := make([]VendorPaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToVendorPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

func (s *VendorPaymentService) loadInvoices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*finance.VendorInvoice, error) {
	invoices, err := s.invoices.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*finance.VendorInvoice, len(invoices))
	for i := range invoices {
		byID[invoices[i].ID] = &invoices[i]
	}
	return byID, nil
}

func allocationIDs(allocs []finance.Allocation) []uuid.UUID {
	ids := make([]uuid.UUID, len(allocs))
	for i, a := range allocs {
		ids[i] = a.TargetID
	}
	return ids
}
