package quality

import (
	"context"
	"time"

	financeapp "github.com/freshline/backend/internal/application/finance"
	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// OrderReader loads the delivery an issue is reported against
type OrderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error)
}

// InvoiceReader loads the invoice a quality credit may be applied to
type InvoiceReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error)
}

// CreditIssuer raises the QUALITY credit memo for an approved issue.
// *financeapp.CreditMemoService satisfies it.
type CreditIssuer interface {
	IssueQualityCredit(ctx context.Context, qc financeapp.QualityCredit) (*finance.CreditMemo, []shared.DomainEvent, error)
}

// PhotoStorage hands out presigned links for issue photos
type PhotoStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}
