package quality

import (
	"context"
	"fmt"

	financeapp "github.com/freshline/backend/internal/application/finance"
	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/quality"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// IssueService handles quality issues reported by stores
type IssueService struct {
	issues         quality.IssueRepository
	orders         OrderReader
	invoices       InvoiceReader
	credits        CreditIssuer
	photos         PhotoStorage
	transactor     shared.Transactor
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewIssueService creates a new IssueService. photos may be nil, in which
// case photo uploads are refused.
func NewIssueService(
	issues quality.IssueRepository,
	orders OrderReader,
	invoices InvoiceReader,
	credits CreditIssuer,
	photos PhotoStorage,
	transactor shared.Transactor,
	logger *zap.Logger,
) *IssueService {
	if transactor == nil {
		transactor = shared.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueService{
		issues:     issues,
		orders:     orders,
		invoices:   invoices,
		credits:    credits,
		photos:     photos,
		transactor: transactor,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *IssueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Report opens an issue against a delivered order line. The unit price is
// taken from the order. The quantity claimed across open and approved issues
// on the line cannot exceed what shipped.
func (s *IssueService) Report(ctx context.Context, req ReportIssueRequest) (*IssueResponse, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != req.StoreID {
		return nil, shared.NewDomainError("ORDER_MISMATCH", "Order belongs to another store")
	}
	if order.Status != trade.OrderStatusShipped && order.Status != trade.OrderStatusInvoiced {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Issues can only be reported on delivered orders, order is %s", order.Status))
	}
	line := findLine(order, req.ProductID)
	if line == nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_ON_ORDER", "Product is not on the order")
	}
	existing, err := s.issues.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	claimed := quality.ClaimedQuantity(existing, req.ProductID)
	if claimed.Add(req.Quantity).GreaterThan(line.ShippedQuantity) {
		return nil, shared.NewDomainError("EXCEEDS_SHIPPED",
			fmt.Sprintf("Claimed quantity %s exceeds shipped %s less %s already claimed",
				req.Quantity, line.ShippedQuantity, claimed))
	}

	issue, err := quality.NewIssue(quality.ReportInput{
		StoreID:     req.StoreID,
		OrderID:     order.ID,
		InvoiceID:   order.InvoiceID,
		ProductID:   req.ProductID,
		Type:        quality.IssueType(req.Type),
		Quantity:    req.Quantity,
		UnitPrice:   line.UnitPrice,
		Description: req.Description,
		ReportedBy:  req.ReportedBy,
	})
	if err != nil {
		return nil, err
	}
	if err := s.issues.Save(ctx, issue); err != nil {
		return nil, err
	}

	s.logger.Info("Quality issue reported",
		zap.String("issue_id", issue.ID.String()),
		zap.String("store_id", issue.StoreID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("type", string(issue.Type)),
		zap.String("claimed", issue.ClaimedAmount().StringFixed(2)))
	publishEvents(ctx, s.eventPublisher, s.logger, issue.PopDomainEvents())

	resp := ToIssueResponse(issue)
	return &resp, nil
}

// RequestPhotoUpload reserves a photo key on the issue and returns a
// presigned PUT link for it
func (s *IssueService) RequestPhotoUpload(ctx context.Context, id uuid.UUID, req PhotoUploadRequest) (*PhotoUploadResponse, error) {
	if s.photos == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Photo storage is not configured")
	}
	ext, ok := photoExtensions[req.ContentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", fmt.Sprintf("Unsupported photo type: %s", req.ContentType))
	}
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := issue.NewPhotoKey(ext)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.photos.GenerateUploadURL(ctx, key, req.ContentType, 0)
	if err != nil {
		return nil, err
	}
	if err := issue.AddPhoto(key); err != nil {
		return nil, err
	}
	if err := s.issues.SaveWithLock(ctx, issue); err != nil {
		return nil, err
	}
	return &PhotoUploadResponse{IssueID: issue.ID, Key: key, UploadURL: url, ExpiresAt: expiresAt}, nil
}

// Approve accepts an issue and issues a QUALITY credit memo for the claimed
// amount, or the override. The memo is linked to the issue's invoice when
// that invoice can still absorb it; otherwise it credits the store
// balance. Issue and memo commit together.
func (s *IssueService) Approve(ctx context.Context, id uuid.UUID, req ApproveIssueRequest) (*IssueResponse, error) {
	var (
		issue  *quality.Issue
		events []shared.DomainEvent
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		issue, err = s.issues.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		amount, err := issue.Approve(req.ReviewedBy, req.CreditAmount, req.Note)
		if err != nil {
			return err
		}
		invoiceID, err := s.creditTarget(txCtx, issue, amount)
		if err != nil {
			return err
		}
		reviewer := req.ReviewedBy
		memo, memoEvents, err := s.credits.IssueQualityCredit(txCtx, financeapp.QualityCredit{
			StoreID:   issue.StoreID,
			InvoiceID: invoiceID,
			IssueID:   issue.ID,
			Amount:    amount,
			Notes:     fmt.Sprintf("%s: %s", issue.Type, issue.Description),
			CreatedBy: &reviewer,
			ApplyNow:  req.ApplyNow,
		})
		if err != nil {
			return err
		}
		issue.LinkCreditMemo(memo.ID)
		if err := s.issues.SaveWithLock(txCtx, issue); err != nil {
			return err
		}
		events = append(memoEvents, issue.PopDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quality issue approved",
		zap.String("issue_id", issue.ID.String()),
		zap.String("credit_amount", issue.CreditAmount.StringFixed(2)),
		zap.Bool("applied", req.ApplyNow))
	publishEvents(ctx, s.eventPublisher, s.logger, events)

	resp := ToIssueResponse(issue)
	return &resp, nil
}

func (s *IssueService) creditTarget(ctx context.Context, issue *quality.Issue, amount decimal.Decimal) (*uuid.UUID, error) {
	if issue.InvoiceID == nil || s.invoices == nil {
		return nil, nil
	}
	inv, err := s.invoices.FindByID(ctx, *issue.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == finance.InvoiceStatusVoid || amount.GreaterThan(inv.Outstanding()) {
		return nil, nil
	}
	return issue.InvoiceID, nil
}

// Reject declines an issue
func (s *IssueService) Reject(ctx context.Context, id uuid.UUID, req RejectIssueRequest) (*IssueResponse, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := issue.Reject(req.ReviewedBy, req.Note); err != nil {
		return nil, err
	}
	if err := s.issues.SaveWithLock(ctx, issue); err != nil {
		return nil, err
	}
	s.logger.Info("Quality issue rejected", zap.String("issue_id", issue.ID.String()))

	resp := ToIssueResponse(issue)
	return &resp, nil
}

// GetByID retrieves an issue with download links for its photos
func (s *IssueService) GetByID(ctx context.Context, id uuid.UUID) (*IssueResponse, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIssueResponse(issue)
	if s.photos != nil {
		for i := range resp.Photos {
			url, _, err := s.photos.GenerateDownloadURL(ctx, resp.Photos[i].Key, 0)
			if err != nil {
				s.logger.Warn("failed to sign photo link", zap.String("key", resp.Photos[i].Key), zap.Error(err))
				continue
			}
			resp.Photos[i].URL = url
		}
	}
	return &resp, nil
}

// List retrieves issues matching the filter
func (s *IssueService) List(ctx context.Context, filter IssueListFilter) ([]IssueResponse, int64, error) {
	issues, total, err := s.issues.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]IssueResponse, len(issues))
	for i := range issues {
		responses[i] = ToIssueResponse(&issues[i])
	}
	return responses, total, nil
}

func findLine(order *trade.Order, productID uuid.UUID) *trade.OrderLine {
	for i := range order.Lines {
		if order.Lines[i].ProductID == productID {
			return &order.Lines[i]
		}
	}
	return nil
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events", zap.Error(err))
	}
}
