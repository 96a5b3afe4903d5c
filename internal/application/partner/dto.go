package partner

import (
	"time"

	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Store DTOs ====================

// CreateStoreRequest represents a request to register a store
type CreateStoreRequest struct {
	Code             string           `json:"code" binding:"required,min=1,max=20"`
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	ContactName      string           `json:"contact_name" binding:"max=100"`
	Phone            string           `json:"phone" binding:"max=50"`
	Email            string           `json:"email" binding:"omitempty,email"`
	Address          string           `json:"address" binding:"max=500"`
	PaymentTermsDays *int             `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	CreditLimit      *decimal.Decimal `json:"credit_limit"`
}

// UpdateStoreRequest represents a request to update a store
type UpdateStoreRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName      *string          `json:"contact_name" binding:"omitempty,max=100"`
	Phone            *string          `json:"phone" binding:"omitempty,max=50"`
	Email            *string          `json:"email" binding:"omitempty,email"`
	Address          *string          `json:"address" binding:"omitempty,max=500"`
	PaymentTermsDays *int             `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	CreditLimit      *decimal.Decimal `json:"credit_limit"`
	Active           *bool            `json:"active"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	ContactName      string          `json:"contact_name"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	Address          string          `json:"address"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	Balance          decimal.Decimal `json:"balance"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToStoreResponse converts a store to its response
func ToStoreResponse(s *partner.Store) StoreResponse {
	return StoreResponse{
		ID:               s.ID,
		Code:             s.Code,
		Name:             s.Name,
		ContactName:      s.ContactName,
		Phone:            s.Phone,
		Email:            s.Email,
		Address:          s.Address,
		PaymentTermsDays: s.PaymentTermsDays,
		CreditLimit:      s.CreditLimit,
		Balance:          s.Balance,
		Active:           s.Active,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

// StoreListFilter represents query parameters for listing stores
type StoreListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=code name balance created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f StoreListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	filter.Search = f.Search
	if f.Active != nil {
		filter = filter.With("active", *f.Active)
	}
	return filter
}

// BalanceEntryResponse represents one balance history row
type BalanceEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	EntryType     string          `json:"entry_type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	SourceType    string          `json:"source_type"`
	SourceID      *uuid.UUID      `json:"source_id,omitempty"`
	Memo          string          `json:"memo"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToBalanceEntryResponse converts a balance entry to its response
func ToBalanceEntryResponse(e *partner.BalanceEntry) BalanceEntryResponse {
	return BalanceEntryResponse{
		ID:            e.ID,
		EntryType:     string(e.EntryType),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		SourceType:    e.SourceType,
		SourceID:      e.SourceID,
		Memo:          e.Memo,
		CreatedAt:     e.CreatedAt,
	}
}

// BalanceHistoryFilter pages through a store's balance history
type BalanceHistoryFilter struct {
	EntryType string `form:"entry_type" binding:"omitempty,oneof=INVOICE INVOICE_VOID PAYMENT CREDIT_MEMO ADJUSTMENT_DEBIT ADJUSTMENT_CREDIT"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f BalanceHistoryFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.EntryType != "" {
		filter = filter.With("entry_type", f.EntryType)
	}
	return filter
}

// ==================== Adjustment DTOs ====================

// RequestAdjustmentRequest represents a manual balance adjustment request
type RequestAdjustmentRequest struct {
	StoreID     uuid.UUID       `json:"store_id" binding:"required"`
	Direction   string          `json:"direction" binding:"required,oneof=CREDIT DEBIT"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	Reason      string          `json:"reason" binding:"required,min=1,max=500"`
	RequestedBy *uuid.UUID      `json:"-"`
}

// ReviewAdjustmentRequest approves or rejects an adjustment
type ReviewAdjustmentRequest struct {
	Note       string     `json:"note" binding:"max=500"`
	ReviewedBy *uuid.UUID `json:"-"`
}

// AdjustmentResponse represents an adjustment in API responses
type AdjustmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	Status      string          `json:"status"`
	RequestedBy *uuid.UUID      `json:"requested_by,omitempty"`
	ReviewedBy  *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNote  string          `json:"review_note,omitempty"`
	EntryID     *uuid.UUID      `json:"entry_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Version     int             `json:"version"`
}

// ToAdjustmentResponse converts an adjustment to its response
func ToAdjustmentResponse(a *partner.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:          a.ID,
		StoreID:     a.StoreID,
		Direction:   string(a.Direction),
		Amount:      a.Amount,
		Reason:      a.Reason,
		Status:      string(a.Status),
		RequestedBy: a.RequestedBy,
		ReviewedBy:  a.ReviewedBy,
		ReviewedAt:  a.ReviewedAt,
		ReviewNote:  a.ReviewNote,
		EntryID:     a.EntryID,
		CreatedAt:   a.CreatedAt,
		Version:     a.Version,
	}
}

// AdjustmentListFilter represents query parameters for listing adjustments
type AdjustmentListFilter struct {
	StoreID  *uuid.UUID `form:"-"` // query: store_id
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f AdjustmentListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "", "")
	if f.StoreID != nil {
		filter = filter.With("store_id", *f.StoreID)
	}
	if f.Status != "" {
		filter = filter.With("status", f.Status)
	}
	return filter
}

// ==================== Vendor DTOs ====================

// CreateVendorRequest represents a request to register a vendor
type CreateVendorRequest struct {
	Code             string `json:"code" binding:"required,min=1,max=20"`
	Name             string `json:"name" binding:"required,min=1,max=200"`
	ContactName      string `json:"contact_name" binding:"max=100"`
	Phone            string `json:"phone" binding:"max=50"`
	Email            string `json:"email" binding:"omitempty,email"`
	Address          string `json:"address" binding:"max=500"`
	PaymentTermsDays *int   `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
}

// UpdateVendorRequest represents a request to update a vendor
type UpdateVendorRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName      *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Address          *string `json:"address" binding:"omitempty,max=500"`
	PaymentTermsDays *int    `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	Active           *bool   `json:"active"`
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	ContactName      string    `json:"contact_name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToVendorResponse converts a vendor to its response
func ToVendorResponse(v *partner.Vendor) VendorResponse {
	return VendorResponse{
		ID:               v.ID,
		Code:             v.Code,
		Name:             v.Name,
		ContactName:      v.ContactName,
		Phone:            v.Phone,
		Email:            v.Email,
		Address:          v.Address,
		PaymentTermsDays: v.PaymentTermsDays,
		Active:           v.Active,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// VendorListFilter represents query parameters for listing vendors
type VendorListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f VendorListFilter) toDomain() shared.Filter {
	filter := pageFilter(f.Page, f.PageSize, "code", "asc")
	filter.Search = f.Search
	if f.Active != nil {
		filter = filter.With("active", *f.Active)
	}
	return filter
}

func pageFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
