package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DisputeStatus represents the status of a vendor dispute
type DisputeStatus string

const (
	DisputeStatusOpen      DisputeStatus = "OPEN"
	DisputeStatusResolved  DisputeStatus = "RESOLVED"
	DisputeStatusWithdrawn DisputeStatus = "WITHDRAWN"
)

// DisputeReason classifies a dispute
type DisputeReason string

const (
	DisputeReasonPrice    DisputeReason = "PRICE"
	DisputeReasonQuantity DisputeReason = "QUANTITY"
	DisputeReasonQuality  DisputeReason = "QUALITY"
	DisputeReasonOther    DisputeReason = "OTHER"
)

// IsValid checks if the reason is a valid DisputeReason
func (r DisputeReason) IsValid() bool {
	switch r {
	case DisputeReasonPrice, DisputeReasonQuantity, DisputeReasonQuality, DisputeReasonOther:
		return true
	}
	return false
}

// DisputeResolution is how a dispute was settled
type DisputeResolution string

const (
	ResolutionAcceptedAsBilled DisputeResolution = "ACCEPTED_AS_BILLED"
	ResolutionCreditIssued     DisputeResolution = "CREDIT_ISSUED"
)

// DisputeNote is one entry in a dispute's history
type DisputeNote struct {
	ID        uuid.UUID `json:"id"`
	DisputeID uuid.UUID `json:"dispute_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// VendorDispute is a disagreement over a vendor invoice
type VendorDispute struct {
	shared.BaseAggregateRoot
	VendorInvoiceID uuid.UUID         `json:"vendor_invoice_id"`
	VendorID        uuid.UUID         `json:"vendor_id"`
	Reason          DisputeReason     `json:"reason"`
	DisputedAmount  decimal.Decimal   `json:"disputed_amount"`
	Notes           []DisputeNote     `json:"notes"`
	Status          DisputeStatus     `json:"status"`
	Resolution      DisputeResolution `json:"resolution,omitempty"`
	CreditAmount    decimal.Decimal   `json:"credit_amount"`
	CreditMemoID    *uuid.UUID        `json:"credit_memo_id,omitempty"`
	OpenedBy        uuid.UUID         `json:"opened_by"`
	ClosedAt        *time.Time        `json:"closed_at,omitempty"`
}

// OpenDispute creates a dispute and moves inv to DISPUTED
func OpenDispute(inv *VendorInvoice, reason DisputeReason, amount decimal.Decimal, openedBy uuid.UUID, note string) (*VendorDispute, error) {
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", fmt.Sprintf("Invalid dispute reason: %s", reason))
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Disputed amount must be positive")
	}
	if amount.GreaterThan(inv.Outstanding()) {
		return nil, shared.NewDomainError("EXCEEDS_OUTSTANDING", "Disputed amount exceeds invoice outstanding")
	}
	if err := inv.MarkDisputed(); err != nil {
		return nil, err
	}
	d := &VendorDispute{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorInvoiceID:   inv.ID,
		VendorID:          inv.VendorID,
		Reason:            reason,
		DisputedAmount:    amount,
		Notes:             []DisputeNote{},
		Status:            DisputeStatusOpen,
		CreditAmount:      decimal.Zero,
		OpenedBy:          openedBy,
	}
	if strings.TrimSpace(note) != "" {
		if err := d.AddNote(openedBy, note); err != nil {
			return nil, err
		}
	}
	d.AddDomainEvent(NewVendorDisputeOpenedEvent(d))
	return d, nil
}

// AddNote appends to the dispute history
func (d *VendorDispute) AddNote(author uuid.UUID, body string) error {
	if d.Status != DisputeStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Dispute is closed")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot be empty")
	}
	d.Notes = append(d.Notes, DisputeNote{
		ID:        uuid.New(),
		DisputeID: d.ID,
		AuthorID:  author,
		Body:      body,
		CreatedAt: time.Now(),
	})
	d.Touch()
	return nil
}

// Resolve closes the dispute. With CREDIT_ISSUED, creditAmount must be
// positive and no more than the disputed amount; the caller applies the
// resulting vendor credit memo.
func (d *VendorDispute) Resolve(resolution DisputeResolution, creditAmount decimal.Decimal) error {
	if d.Status != DisputeStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Dispute is closed")
	}
	switch resolution {
	case ResolutionAcceptedAsBilled:
		creditAmount = decimal.Zero
	case ResolutionCreditIssued:
		creditAmount = creditAmount.Round(2)
		if !creditAmount.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
		}
		if creditAmount.GreaterThan(d.DisputedAmount) {
			return shared.NewDomainError("EXCEEDS_DISPUTED", "Credit amount exceeds disputed amount")
		}
	default:
		return shared.NewDomainError("INVALID_RESOLUTION", fmt.Sprintf("Invalid resolution: %s", resolution))
	}
	now := time.Now()
	d.Status = DisputeStatusResolved
	d.Resolution = resolution
	d.CreditAmount = creditAmount
	d.ClosedAt = &now
	d.UpdatedAt = now
	d.AddDomainEvent(NewVendorDisputeResolvedEvent(d))
	return nil
}

// LinkCreditMemo records the memo issued for the resolution
func (d *VendorDispute) LinkCreditMemo(memoID uuid.UUID) {
	d.CreditMemoID = &memoID
}

// Withdraw closes the dispute without effect
func (d *VendorDispute) Withdraw() error {
	if d.Status != DisputeStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Dispute is closed")
	}
	now := time.Now()
	d.Status = DisputeStatusWithdrawn
	d.ClosedAt = &now
	d.UpdatedAt = now
	return nil
}
