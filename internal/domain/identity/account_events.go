package identity

import (
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeAccount    = "Account"
	EventTypeAccountCreated = "AccountCreated"
)

// AccountCreatedEvent is raised when a new account is registered
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Username string     `json:"username"`
	Role     Role       `json:"role"`
	StoreID  *uuid.UUID `json:"store_id,omitempty"`
	VendorID *uuid.UUID `json:"vendor_id,omitempty"`
}

// NewAccountCreatedEvent creates an AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeAccount, a.ID),
		Username:        a.Username,
		Role:            a.Role,
		StoreID:         a.StoreID,
		VendorID:        a.VendorID,
	}
}
