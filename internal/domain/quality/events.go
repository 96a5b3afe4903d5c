package quality

import (
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeIssue = "QualityIssue"

	EventTypeIssueReported = "QualityIssueReported"
	EventTypeIssueApproved = "QualityIssueApproved"
)

// IssueReportedEvent is raised when a store reports an issue
type IssueReportedEvent struct {
	shared.BaseDomainEvent
	StoreID   uuid.UUID `json:"store_id"`
	ProductID uuid.UUID `json:"product_id"`
	Type      IssueType `json:"type"`
}

// NewIssueReportedEvent creates an IssueReportedEvent
func NewIssueReportedEvent(i *Issue) *IssueReportedEvent {
	return &IssueReportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIssueReported, AggregateTypeIssue, i.ID),
		StoreID:         i.StoreID,
		ProductID:       i.ProductID,
		Type:            i.Type,
	}
}

// IssueApprovedEvent is raised once the credit memo is linked
type IssueApprovedEvent struct {
	shared.BaseDomainEvent
	StoreID      uuid.UUID       `json:"store_id"`
	CreditMemoID uuid.UUID       `json:"credit_memo_id"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
}

// NewIssueApprovedEvent creates an IssueApprovedEvent
func NewIssueApprovedEvent(i *Issue) *IssueApprovedEvent {
	var memoID uuid.UUID
	if i.CreditMemoID != nil {
		memoID = *i.CreditMemoID
	}
	return &IssueApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIssueApproved, AggregateTypeIssue, i.ID),
		StoreID:         i.StoreID,
		CreditMemoID:    memoID,
		CreditAmount:    i.CreditAmount,
	}
}
