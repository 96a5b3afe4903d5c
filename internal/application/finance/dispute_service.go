package finance

import (
	"context"
	"fmt"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DisputeService tracks disagreements over vendor invoices
type DisputeService struct {
	disputes       finance.VendorDisputeRepository
	invoices       finance.VendorInvoiceRepository
	memos          finance.VendorCreditMemoRepository
	numbers        shared.NumberGenerator
	transactor     shared.Transactor
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewDisputeService creates a new DisputeService
func NewDisputeService(
	disputes finance.VendorDisputeRepository,
	invoices finance.VendorInvoiceRepository,
	memos finance.VendorCreditMemoRepository,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	logger *zap.Logger,
) *DisputeService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisputeService{
		disputes:   disputes,
		invoices:   invoices,
		memos:      memos,
		numbers:    numbers,
		transactor: transactor,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DisputeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Open disputes part of a vendor invoice and holds it from payment
func (s *DisputeService) Open(ctx context.Context, req OpenDisputeRequest) (*DisputeResponse, error) {
	var (
		dispute *finance.VendorDispute
		events  []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		inv, err := s.invoices.FindByID(txCtx, req.VendorInvoiceID)
		if err != nil {
			return err
		}
		dispute, err = finance.OpenDispute(inv, finance.DisputeReason(req.Reason), req.Amount, req.OpenedBy, req.Note)
		if err != nil {
			return err
		}
		if err := s.disputes.Save(txCtx, dispute); err != nil {
			return err
		}
		if err := s.invoices.SaveWithLock(txCtx, inv); err != nil {
			return err
		}
		events = dispute.PopDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vendor dispute opened",
		zap.String("dispute_id", dispute.ID.String()),
		zap.String("vendor_invoice_id", dispute.VendorInvoiceID.String()),
		zap.String("reason", string(dispute.Reason)),
		zap.String("amount", dispute.DisputedAmount.StringFixed(2)))
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	resp := ToDisputeResponse(dispute)
	return &resp, nil
}

// AddNote appends to an open dispute's history
func (s *DisputeService) AddNote(ctx context.Context, id uuid.UUID, req AddDisputeNoteRequest) (*DisputeResponse, error) {
	dispute, err := s.disputes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dispute.AddNote(req.AuthorID, req.Body); err != nil {
		return nil, err
	}
	if err := s.disputes.SaveWithLock(ctx, dispute); err != nil {
		return nil, err
	}
	resp := ToDisputeResponse(dispute)
	return &resp, nil
}

// Resolve closes a dispute. CREDIT_ISSUED records and applies a vendor
// credit memo for the credit amount. Either way the invoice leaves DISPUTED
// for the payable status its amounts imply.
func (s *DisputeService) Resolve(ctx context.Context, id uuid.UUID, req ResolveDisputeRequest) (*DisputeResponse, error) {
	var (
		dispute *finance.VendorDispute
		events  []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		dispute, err = s.disputes.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		inv, err := s.invoices.FindByID(txCtx, dispute.VendorInvoiceID)
		if err != nil {
			return err
		}
		if err := dispute.Resolve(finance.DisputeResolution(req.Resolution), req.CreditAmount); err != nil {
			return err
		}

		if dispute.Resolution == finance.ResolutionCreditIssued {
			memo, err := s.creditFor(txCtx, dispute, inv, req.VendorReference)
			if err != nil {
				return err
			}
			if err := s.memos.Save(txCtx, memo); err != nil {
				return err
			}
			dispute.LinkCreditMemo(memo.ID)
		}
		if err := inv.CloseDispute(); err != nil {
			return err
		}
		if err := s.disputes.SaveWithLock(txCtx, dispute); err != nil {
			return err
		}
		if err := s.invoices.SaveWithLock(txCtx, inv); err != nil {
			return err
		}
		events = dispute.PopDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vendor dispute resolved",
		zap.String("dispute_id", dispute.ID.String()),
		zap.String("resolution", string(dispute.Resolution)),
		zap.String("credit_amount", dispute.CreditAmount.StringFixed(2)))
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	resp := ToDisputeResponse(dispute)
	return &resp, nil
}

func (s *DisputeService) creditFor(ctx context.Context, d *finance.VendorDispute, inv *finance.VendorInvoice, vendorRef string) (*finance.VendorCreditMemo, error) {
	number, err := shared.NextDocumentNumber(ctx, s.numbers, shared.PrefixVendorCreditMemo, shared.CurrentWeek())
	if err != nil {
		return nil, err
	}
	invID := inv.ID
	reason := fmt.Sprintf("%s dispute on %s", d.Reason, inv.InvoiceNumber)
	memo, err := finance.NewVendorCreditMemo(number, d.VendorID, &invID, vendorRef, d.CreditAmount, reason)
	if err != nil {
		return nil, err
	}
	disputeID := d.ID
	memo.DisputeID = &disputeID
	if err := memo.Apply(inv); err != nil {
		return nil, err
	}
	return memo, nil
}

// Withdraw closes a dispute without effect and releases the invoice
func (s *DisputeService) Withdraw(ctx context.Context, id uuid.UUID) (*DisputeResponse, error) {
	var dispute *finance.VendorDispute
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		dispute, err = s.disputes.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		inv, err := s.invoices.FindByID(txCtx, dispute.VendorInvoiceID)
		if err != nil {
			return err
		}
		if err := dispute.Withdraw(); err != nil {
			return err
		}
		if err := inv.CloseDispute(); err != nil {
			return err
		}
		if err := s.disputes.SaveWithLock(txCtx, dispute); err != nil {
			return err
		}
		return s.invoices.SaveWithLock(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Vendor dispute withdrawn", zap.String("dispute_id", dispute.ID.String()))

	resp := ToDisputeResponse(dispute)
	return &resp, nil
}

// GetByID retrieves a dispute with its notes
func (s *DisputeService) GetByID(ctx context.Context, id uuid.UUID) (*DisputeResponse, error) {
	dispute, err := s.disputes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDisputeResponse(dispute)
	return &resp, nil
}

// List retrieves disputes matching the filter
func (s *DisputeService) List(ctx context.Context, filter DisputeListFilter) ([]DisputeResponse, int64, error) {
	disputes, total, err := s.disputes.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]DisputeResponse, len(disputes))
	for i := range disputes {
		responses[i] = ToDisputeResponse(&disputes[i])
	}
	return responses, total, nil
}
