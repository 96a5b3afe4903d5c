package finance

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreditMemoService issues and applies store credit memos
type CreditMemoService struct {
	memos          finance.CreditMemoRepository
	invoices       finance.InvoiceRepository
	stores         partner.StoreRepository
	numbers        shared.NumberGenerator
	transactor     shared.Transactor
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewCreditMemoService creates a new CreditMemoService
func NewCreditMemoService(
	memos finance.CreditMemoRepository,
	invoices finance.InvoiceRepository,
	stores partner.StoreRepository,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	logger *zap.Logger,
) *CreditMemoService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditMemoService{
		memos:      memos,
		invoices:   invoices,
		stores:     stores,
		numbers:    numbers,
		transactor: transactor,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CreditMemoService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create issues a pending credit memo. The store balance is untouched
// until the memo is applied.
func (s *CreditMemoService) Create(ctx context.Context, req CreateCreditMemoRequest) (*CreditMemoResponse, error) {
	memo, err := s.newMemo(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.memos.Save(ctx, memo); err != nil {
		return nil, err
	}

	s.logger.Info("Credit memo created",
		zap.String("memo_number", memo.MemoNumber),
		zap.String("store_id", memo.StoreID.String()),
		zap.String("reason", string(memo.Reason)),
		zap.String("amount", memo.Amount.StringFixed(2)))
	publishEvents(ctx, s.eventPublisher, s.logger, memo.PopDomainEvents())

	resp := ToCreditMemoResponse(memo)
	return &resp, nil
}

func (s *CreditMemoService) newMemo(ctx context.Context, req CreateCreditMemoRequest) (*finance.CreditMemo, error) {
	store, err := s.stores.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if req.InvoiceID != nil {
		inv, err := s.invoices.FindByID(ctx, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv.StoreID != store.ID {
			return nil, shared.NewDomainError("INVOICE_MISMATCH", "Invoice belongs to another store")
		}
		if req.Amount.Round(2).GreaterThan(inv.Outstanding()) {
			return nil, shared.NewDomainError("EXCEEDS_OUTSTANDING", "Credit amount exceeds invoice outstanding")
		}
	}

	number, err := shared.NextDocumentNumber(ctx, s.numbers, shared.PrefixCreditMemo, shared.CurrentWeek())
	if err != nil {
		return nil, err
	}
	memo, err := finance.NewCreditMemo(number, store.ID, req.InvoiceID, finance.CreditReason(req.Reason), req.Amount, req.Notes)
	if err != nil {
		return nil, err
	}
	if req.SourceID != nil {
		memo.SetSource(*req.SourceID)
	}
	memo.CreatedBy = req.CreatedBy
	return memo, nil
}

// Apply moves a pending memo to APPLIED, credits the store balance and,
// when the memo is linked to an invoice, reduces that invoice's outstanding.
// All three are saved in one transaction.
func (s *CreditMemoService) Apply(ctx context.Context, id uuid.UUID) (*CreditMemoResponse, error) {
	var (
		memo   *finance.CreditMemo
		events []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		memo, err = s.memos.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		events, err = s.apply(txCtx, memo)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Credit memo applied",
		zap.String("memo_number", memo.MemoNumber),
		zap.String("amount", memo.Amount.StringFixed(2)))
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	resp := ToCreditMemoResponse(memo)
	return &resp, nil
}

func (s *CreditMemoService) apply(ctx context.Context, memo *finance.CreditMemo) ([]shared.DomainEvent, error) {
	var inv *finance.Invoice
	if memo.InvoiceID != nil {
		var err error
		inv, err = s.invoices.FindByID(ctx, *memo.InvoiceID)
		if err != nil {
			return nil, err
		}
	}
	store, err := s.stores.FindByID(ctx, memo.StoreID)
	if err != nil {
		return nil, err
	}
	if err := memo.Apply(inv); err != nil {
		return nil, err
	}
	src := partner.BalanceSource{Type: "CREDIT_MEMO", ID: memo.ID, Memo: memo.MemoNumber}
	if _, err := store.Credit(partner.BalanceEntryCreditMemo, memo.Amount, src); err != nil {
		return nil, err
	}

	if err := s.memos.SaveWithLock(ctx, memo); err != nil {
		return nil, err
	}
	events := memo.PopDomainEvents()
	if inv != nil {
		if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
			return nil, err
		}
		events = append(events, inv.PopDomainEvents()...)
	}
	if err := s.stores.SaveWithLock(ctx, store); err != nil {
		return nil, err
	}
	return append(events, store.PopDomainEvents()...), nil
}

// Void cancels a pending memo
func (s *CreditMemoService) Void(ctx context.Context, id uuid.UUID) (*CreditMemoResponse, error) {
	memo, err := s.memos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := memo.Void(); err != nil {
		return nil, err
	}
	if err := s.memos.SaveWithLock(ctx, memo); err != nil {
		return nil, err
	}
	s.logger.Info("Credit memo voided", zap.String("memo_number", memo.MemoNumber))

	resp := ToCreditMemoResponse(memo)
	return &resp, nil
}

// QualityCredit describes a credit owed for an approved quality issue
type QualityCredit struct {
	StoreID   uuid.UUID
	InvoiceID *uuid.UUID
	IssueID   uuid.UUID
	Amount    decimal.Decimal
	Notes     string
	CreatedBy *uuid.UUID
	ApplyNow  bool
}

// IssueQualityCredit creates a QUALITY memo sourced from a quality issue,
// applying it in the same transaction when ApplyNow is set. It is meant to
// run inside the caller's transaction so the issue and the memo commit
// together.
func (s *CreditMemoService) IssueQualityCredit(ctx context.Context, qc QualityCredit) (*finance.CreditMemo, []shared.DomainEvent, error) {
	memo, err := s.newMemo(ctx, CreateCreditMemoRequest{
		StoreID:   qc.StoreID,
		InvoiceID: qc.InvoiceID,
		Reason:    string(finance.CreditReasonQuality),
		Amount:    qc.Amount,
		Notes:     qc.Notes,
		SourceID:  &qc.IssueID,
		CreatedBy: qc.CreatedBy,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := s.memos.Save(ctx, memo); err != nil {
		return nil, nil, err
	}
	events := memo.PopDomainEvents()
	if qc.ApplyNow {
		applied, err := s.apply(ctx, memo)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, applied...)
	}
	return memo, events, nil
}

// GetByID retrieves a credit memo
func (s *CreditMemoService) GetByID(ctx context.Context, id uuid.UUID) (*CreditMemoResponse, error) {
	memo, err := s.memos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCreditMemoResponse(memo)
	return &resp, nil
}

// List retrieves credit memos matching the filter
func (s *CreditMemoService) List(ctx context.Context, filter CreditMemoListFilter) ([]CreditMemoResponse, int64, error) {
	memos, total, err := s.memos.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CreditMemoResponse, len(memos))
	for i := range memos {
		responses[i] = ToCreditMemoResponse(&memos[i])
	}
	return responses, total, nil
}
