package finance

import (
	"context"
	"time"

	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/partner"
)

// InvoiceRenderer produces the PDF for an invoice
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, inv *finance.Invoice, store *partner.Store) ([]byte, error)
}

// DocumentStorage stores rendered documents and hands out download links
type DocumentStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}
