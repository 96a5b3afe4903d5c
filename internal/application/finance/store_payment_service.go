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

// StorePaymentService records money received from stores
type StorePaymentService struct {
	payments        finance.StorePaymentRepository
	invoices        finance.InvoiceRepository
	stores          partner.StoreRepository
	numbers         shared.NumberGenerator
	transactor      shared.Transactor
	guard           requestGuard
	logger          *zap.Logger
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewStorePaymentService creates a new StorePaymentService. idempotency may
// be nil, in which case Idempotency-Key values are ignored.
func NewStorePaymentService(
	payments finance.StorePaymentRepository,
	invoices finance.InvoiceRepository,
	stores partner.StoreRepository,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *StorePaymentService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorePaymentService{
		payments:   payments,
		invoices:   invoices,
		stores:     stores,
		numbers:    numbers,
		transactor: transactor,
		guard:      requestGuard{store: idempotency, scope: "store_payment", logger: logger},
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StorePaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *StorePaymentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Record saves a store payment, applies its allocations and credits the
// full amount to the store balance in one transaction. Without explicit
// allocations the amount goes to open invoices oldest due first; whatever is
// left stays on the payment as unallocated credit.
func (s *StorePaymentService) Record(ctx context.Context, req RecordStorePaymentRequest) (resp *StorePaymentResponse, err error) {
	release, err := s.guard.claim(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	receivedAt := time.Now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	var (
		payment *finance.StorePayment
		events  []shared.DomainEvent
	)
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		store, err := s.stores.FindByID(txCtx, req.StoreID)
		if err != nil {
			return err
		}
		number, err := shared.NextDocumentNumber(txCtx, s.numbers, shared.PrefixStorePayment, shared.WeekOf(receivedAt))
		if err != nil {
			return err
		}
		payment, err = finance.NewStorePayment(number, store.ID, req.Amount, finance.PaymentMethod(req.Method), req.Reference, receivedAt)
		if err != nil {
			return err
		}
		payment.RecordedBy = req.RecordedBy

		allocs, invoices, err := s.resolveAllocations(txCtx, payment, req.Allocations)
		if err != nil {
			return err
		}
		if err := payment.Allocate(allocs, invoices); err != nil {
			return err
		}

		src := partner.BalanceSource{Type: "STORE_PAYMENT", ID: payment.ID, Memo: payment.PaymentNumber}
		if _, err := store.Credit(partner.BalanceEntryPayment, payment.Amount, src); err != nil {
			return err
		}
		if err := s.payments.Save(txCtx, payment); err != nil {
			return err
		}
		events = payment.PopDomainEvents()
		for _, a := range payment.Allocations {
			inv := invoices[a.TargetID]
			if err := s.invoices.SaveWithLock(txCtx, inv); err != nil {
				return err
			}
			events = append(events, inv.PopDomainEvents()...)
		}
		if err := s.stores.SaveWithLock(txCtx, store); err != nil {
			return err
		}
		events = append(events, store.PopDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Store payment recorded",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("store_id", payment.StoreID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.Int("allocations", len(payment.Allocations)),
		zap.String("unallocated", payment.Unallocated.StringFixed(2)))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, telemetry.PaymentReceived, string(payment.Method), payment.Amount)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	r := ToStorePaymentResponse(payment)
	return &r, nil
}

// resolveAllocations loads the invoices a payment will touch and, when the
// request names none, spreads the amount over the store's open invoices
func (s *StorePaymentService) resolveAllocations(ctx context.Context, payment *finance.StorePayment, reqs []AllocationRequest) ([]finance.Allocation, map[uuid.UUID]*finance.Invoice, error) {
	byID := make(map[uuid.UUID]*finance.Invoice)
	if len(reqs) == 0 {
		open, err := s.invoices.FindOpenByStore(ctx, payment.StoreID)
		if err != nil {
			return nil, nil, err
		}
		allocs, _, err := finance.AllocateOldestFirst(payment.Amount, finance.InvoiceTargets(open))
		if err != nil {
			return nil, nil, err
		}
		for i := range open {
			byID[open[i].ID] = &open[i]
		}
		return allocs, byID, nil
	}

	allocs := toAllocations(reqs)
	invoices, err := s.invoices.FindByIDs(ctx, allocationIDs(allocs))
	if err != nil {
		return nil, nil, err
	}
	for i := range invoices {
		byID[invoices[i].ID] = &invoices[i]
	}
	return allocs, byID, nil
}

// GetByID retrieves a store payment
func (s *StorePaymentService) GetByID(ctx context.Context, id uuid.UUID) (*StorePaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStorePaymentResponse(payment)
	return &resp, nil
}

// List retrieves store payments, optionally for one store
func (s *StorePaymentService) List(ctx context.Context, filter PaymentListFilter) ([]StorePaymentResponse, int64, error) {
	payments, total, err := s.payments.FindAll(ctx, filter.toDomain("store_id"))
	if err != nil {
		return nil, 0, err
	}
	responses := make([]StorePaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToStorePaymentResponse(&payments[i])
	}
	return responses, total, nil
}
