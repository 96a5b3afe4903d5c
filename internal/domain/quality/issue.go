package quality

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IssueType classifies a reported quality problem
type IssueType string

const (
	IssueTypeDamaged   IssueType = "DAMAGED"
	IssueTypeSpoiled   IssueType = "SPOILED"
	IssueTypeShort     IssueType = "SHORT"
	IssueTypeWrongItem IssueType = "WRONG_ITEM"
)

// IsValid checks if the type is a valid IssueType
func (t IssueType) IsValid() bool {
	switch t {
	case IssueTypeDamaged, IssueTypeSpoiled, IssueTypeShort, IssueTypeWrongItem:
		return true
	}
	return false
}

// IssueStatus represents the status of a quality issue
type IssueStatus string

const (
	IssueStatusOpen     IssueStatus = "OPEN"
	IssueStatusApproved IssueStatus = "APPROVED"
	IssueStatusRejected IssueStatus = "REJECTED"
)

// IsValid checks if the status is a valid IssueStatus
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusApproved, IssueStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of IssueStatus
func (s IssueStatus) String() string {
	return string(s)
}

// MaxPhotos bounds the photos attached to one issue
const MaxPhotos = 10

// Issue is a quality problem reported by a store against a delivery
type Issue struct {
	shared.BaseAggregateRoot
	StoreID        uuid.UUID       `json:"store_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	ProductID      uuid.UUID       `json:"product_id"`
	Type           IssueType       `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Description    string          `json:"description"`
	PhotoKeys      []string        `json:"photo_keys"`
	Status         IssueStatus     `json:"status"`
	CreditMemoID   *uuid.UUID      `json:"credit_memo_id,omitempty"`
	CreditAmount   decimal.Decimal `json:"credit_amount"`
	ResolutionNote string          `json:"resolution_note"`
	ReportedBy     uuid.UUID       `json:"reported_by"`
	ReviewedBy     *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty"`
}

// ReportInput carries the fields of a new issue
type ReportInput struct {
	StoreID     uuid.UUID
	OrderID     uuid.UUID
	InvoiceID   *uuid.UUID
	ProductID   uuid.UUID
	Type        IssueType
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Description string
	ReportedBy  uuid.UUID
}

// NewIssue opens a quality issue
func NewIssue(in ReportInput) (*Issue, error) {
	if in.StoreID == uuid.Nil || in.OrderID == uuid.Nil || in.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Store, order and product are required")
	}
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Invalid issue type: %s", in.Type))
	}
	if !in.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	i := &Issue{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           in.StoreID,
		OrderID:           in.OrderID,
		InvoiceID:         in.InvoiceID,
		ProductID:         in.ProductID,
		Type:              in.Type,
		Quantity:          in.Quantity,
		UnitPrice:         in.UnitPrice,
		Description:       strings.TrimSpace(in.Description),
		PhotoKeys:         []string{},
		Status:            IssueStatusOpen,
		CreditAmount:      decimal.Zero,
		ReportedBy:        in.ReportedBy,
	}
	i.AddDomainEvent(NewIssueReportedEvent(i))
	return i, nil
}

// ClaimedAmount returns quantity times unit price
func (i *Issue) ClaimedAmount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice).Round(2)
}

// NewPhotoKey returns the object key for the next photo
func (i *Issue) NewPhotoKey(ext string) (string, error) {
	if i.Status != IssueStatusOpen {
		return "", shared.NewDomainError("INVALID_STATE", "Photos can only be added to open issues")
	}
	if len(i.PhotoKeys) >= MaxPhotos {
		return "", shared.NewDomainError("TOO_MANY_PHOTOS", fmt.Sprintf("An issue holds at most %d photos", MaxPhotos))
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("quality/%s/%s.%s", i.ID, uuid.NewString(), ext), nil
}

// AddPhoto records an uploaded photo key
func (i *Issue) AddPhoto(key string) error {
	if i.Status != IssueStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Photos can only be added to open issues")
	}
	if len(i.PhotoKeys) >= MaxPhotos {
		return shared.NewDomainError("TOO_MANY_PHOTOS", fmt.Sprintf("An issue holds at most %d photos", MaxPhotos))
	}
	i.PhotoKeys = append(i.PhotoKeys, key)
	i.Touch()
	return nil
}

// Approve accepts the claim. A nil override credits the claimed amount.
func (i *Issue) Approve(reviewer uuid.UUID, override *decimal.Decimal, note string) (decimal.Decimal, error) {
	if i.Status != IssueStatusOpen {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve issue in %s status", i.Status))
	}
	amount := i.ClaimedAmount()
	if override != nil {
		amount = override.Round(2)
	}
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	now := time.Now()
	i.Status = IssueStatusApproved
	i.CreditAmount = amount
	i.ResolutionNote = note
	i.ReviewedBy = &reviewer
	i.ReviewedAt = &now
	i.UpdatedAt = now
	return amount, nil
}

// LinkCreditMemo records the memo issued on approval
func (i *Issue) LinkCreditMemo(memoID uuid.UUID) {
	i.CreditMemoID = &memoID
	i.AddDomainEvent(NewIssueApprovedEvent(i))
}

// Reject declines the claim
func (i *Issue) Reject(reviewer uuid.UUID, note string) error {
	if i.Status != IssueStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject issue in %s status", i.Status))
	}
	if strings.TrimSpace(note) == "" {
		return shared.NewDomainError("INVALID_NOTE", "A note is required to reject an issue")
	}
	now := time.Now()
	i.Status = IssueStatusRejected
	i.ResolutionNote = note
	i.ReviewedBy = &reviewer
	i.ReviewedAt = &now
	i.UpdatedAt = now
	return nil
}

// ClaimedQuantity totals the quantity of a product claimed by issues that
// were not rejected
func ClaimedQuantity(issues []Issue, productID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, i := range issues {
		if i.ProductID == productID && i.Status != IssueStatusRejected {
			total = total.Add(i.Quantity)
		}
	}
	return total
}
