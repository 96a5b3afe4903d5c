package quality

import (
	"time"

	"github.com/freshline/backend/internal/domain/quality"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportIssueRequest represents a store reporting a problem with a delivery
type ReportIssueRequest struct {
	StoreID     uuid.UUID       `json:"store_id" binding:"required"`
	OrderID     uuid.UUID       `json:"order_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=DAMAGED SPOILED SHORT WRONG_ITEM"`
	Quantity    decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	Description string          `json:"description" binding:"required,max=2000"`
	ReportedBy  uuid.UUID       `json:"-"`
}

// PhotoUploadRequest asks for an upload link for one photo
type PhotoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// PhotoUploadResponse carries the presigned PUT link
type PhotoUploadResponse struct {
	IssueID   uuid.UUID `json:"issue_id"`
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ApproveIssueRequest accepts a claim. CreditAmount overrides the claimed
// quantity times price.
type ApproveIssueRequest struct {
	CreditAmount *decimal.Decimal `json:"credit_amount"`
	Note         string           `json:"note" binding:"max=1000"`
	ApplyNow     bool             `json:"apply_now"`
	ReviewedBy   uuid.UUID        `json:"-"`
}

// RejectIssueRequest declines a claim
type RejectIssueRequest struct {
	Note       string    `json:"note" binding:"required,max=1000"`
	ReviewedBy uuid.UUID `json:"-"`
}

// IssueResponse represents a quality issue in API responses
type IssueResponse struct {
	ID             uuid.UUID       `json:"id"`
	StoreID        uuid.UUID       `json:"store_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	ProductID      uuid.UUID       `json:"product_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ClaimedAmount  decimal.Decimal `json:"claimed_amount"`
	Description    string          `json:"description"`
	Photos         []PhotoLink     `json:"photos"`
	Status         string          `json:"status"`
	CreditMemoID   *uuid.UUID      `json:"credit_memo_id,omitempty"`
	CreditAmount   decimal.Decimal `json:"credit_amount"`
	ResolutionNote string          `json:"resolution_note,omitempty"`
	ReportedBy     uuid.UUID       `json:"reported_by"`
	ReviewedBy     *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Version        int             `json:"version"`
}

// PhotoLink is a stored photo with an optional download link
type PhotoLink struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// ToIssueResponse converts an issue to its response without photo links
func ToIssueResponse(i *quality.Issue) IssueResponse {
	photos := make([]PhotoLink, len(i.PhotoKeys))
	for n, key := range i.PhotoKeys {
		photos[n] = PhotoLink{Key: key}
	}
	return IssueResponse{
		ID:             i.ID,
		StoreID:        i.StoreID,
		OrderID:        i.OrderID,
		InvoiceID:      i.InvoiceID,
		ProductID:      i.ProductID,
		Type:           string(i.Type),
		Quantity:       i.Quantity,
		UnitPrice:      i.UnitPrice,
		ClaimedAmount:  i.ClaimedAmount(),
		Description:    i.Description,
		Photos:         photos,
		Status:         string(i.Status),
		CreditMemoID:   i.CreditMemoID,
		CreditAmount:   i.CreditAmount,
		ResolutionNote: i.ResolutionNote,
		ReportedBy:     i.ReportedBy,
		ReviewedBy:     i.ReviewedBy,
		ReviewedAt:     i.ReviewedAt,
		CreatedAt:      i.CreatedAt,
		Version:        i.Version,
	}
}

// IssueListFilter represents filter options for listing issues
type IssueListFilter struct {
	StoreID  *uuid.UUID `form:"-"` // query: store_id
	OrderID  *uuid.UUID `form:"-"` // query: order_id
	Status   string     `form:"status" binding:"omitempty,oneof=OPEN APPROVED REJECTED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f IssueListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.StoreID != nil {
		filter = filter.With("store_id", *f.StoreID)
	}
	if f.OrderID != nil {
		filter = filter.With("order_id", *f.OrderID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}
