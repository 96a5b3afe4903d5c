package finance

import (
	"context"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VendorCreditMemoService records credits granted by vendors
type VendorCreditMemoService struct {
	memos      finance.VendorCreditMemoRepository
	invoices   finance.VendorInvoiceRepository
	vendors    partner.VendorRepository
	numbers    shared.NumberGenerator
	transactor shared.Transactor
	logger     *zap.Logger
}

// NewVendorCreditMemoService creates a new VendorCreditMemoService
func NewVendorCreditMemoService(
	memos finance.VendorCreditMemoRepository,
	invoices finance.VendorInvoiceRepository,
	vendors partner.VendorRepository,
	numbers shared.NumberGenerator,
	transactor shared.Transactor,
	logger *zap.Logger,
) *VendorCreditMemoService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendorCreditMemoService{
		memos:      memos,
		invoices:   invoices,
		vendors:    vendors,
		numbers:    numbers,
		transactor: transactor,
		logger:     logger,
	}
}

// Create records an open vendor credit memo
func (s *VendorCreditMemoService) Create(ctx context.Context, req CreateVendorCreditMemoRequest) (*VendorCreditMemoResponse, error) {
	if _, err := s.vendors.FindByID(ctx, req.VendorID); err != nil {
		return nil, err
	}
	if req.VendorInvoiceID != nil {
		vi, err := s.invoices.FindByID(ctx, *req.VendorInvoiceID)
		if err != nil {
			return nil, err
		}
		if vi.VendorID != req.VendorID {
			return nil, shared.NewDomainError("INVOICE_MISMATCH", "Invoice belongs to another vendor")
		}
	}
	memo, err := s.newMemo(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.memos.Save(ctx, memo); err != nil {
		return nil, err
	}
	s.logger.Info("Vendor credit memo created",
		zap.String("memo_number", memo.MemoNumber),
		zap.String("vendor_id", memo.VendorID.String()),
		zap.String("amount", memo.Amount.StringFixed(2)))

	resp := ToVendorCreditMemoResponse(memo)
	return &resp, nil
}

func (s *VendorCreditMemoService) newMemo(ctx context.Context, req CreateVendorCreditMemoRequest) (*finance.VendorCreditMemo, error) {
	number, err := shared.NextDocumentNumber(ctx, s.numbers, shared.PrefixVendorCreditMemo, shared.CurrentWeek())
	if err != nil {
		return nil, err
	}
	return finance.NewVendorCreditMemo(number, req.VendorID, req.VendorInvoiceID, req.VendorReference, req.Amount, req.Reason)
}

// Apply reduces a vendor invoice's outstanding by the memo amount. The memo
// and the invoice are saved in one transaction.
func (s *VendorCreditMemoService) Apply(ctx context.Context, id uuid.UUID, req ApplyVendorCreditMemoRequest) (*VendorCreditMemoResponse, error) {
	var memo *finance.VendorCreditMemo
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		memo, err = s.memos.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		vi, err := s.invoices.FindByID(txCtx, req.VendorInvoiceID)
		if err != nil {
			return err
		}
		if err := memo.Apply(vi); err != nil {
			return err
		}
		if err := s.memos.SaveWithLock(txCtx, memo); err != nil {
			return err
		}
		return s.invoices.SaveWithLock(txCtx, vi)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Vendor credit memo applied",
		zap.String("memo_number", memo.MemoNumber),
		zap.String("vendor_invoice_id", req.VendorInvoiceID.String()))

	resp := ToVendorCreditMemoResponse(memo)
	return &resp, nil
}

// Void cancels an open memo
func (s *VendorCreditMemoService) Void(ctx context.Context, id uuid.UUID) (*VendorCreditMemoResponse, error) {
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
	resp := ToVendorCreditMemoResponse(memo)
	return &resp, nil
}

// GetByID retrieves a vendor credit memo
func (s *VendorCreditMemoService) GetByID(ctx context.Context, id uuid.UUID) (*VendorCreditMemoResponse, error) {
	memo, err := s.memos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorCreditMemoResponse(memo)
	return &resp, nil
}

// List retrieves vendor credit memos matching the filter
func (s *VendorCreditMemoService) List(ctx context.Context, filter VendorCreditMemoListFilter) ([]VendorCreditMemoResponse, int64, error) {
	memos, total, err := s.memos.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]VendorCreditMemoResponse, len(memos))
	for i := range memos {
		responses[i] = ToVendorCreditMemoResponse(&memos[i])
	}
	return responses, total, nil
}
