package partner

import (
	"strings"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPaymentTermsDays is used when a store or vendor has no explicit terms
const DefaultPaymentTermsDays = 14

// Store is a retail customer. Balance is what the store owes and always
// equals the sum of its balance history.
type Store struct {
	shared.BaseAggregateRoot
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

	// pending holds entries appended since load; repositories persist and clear them
	pending []BalanceEntry
}

// NewStore creates an active store with a zero balance
func NewStore(code, name string) (*Store, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Store code must be 1-20 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name must be 1-200 characters")
	}

	s := &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		PaymentTermsDays:  DefaultPaymentTermsDays,
		CreditLimit:       decimal.Zero,
		Balance:           decimal.Zero,
		Active:            true,
	}
	s.AddDomainEvent(NewStoreCreatedEvent(s))
	return s, nil
}

// Update changes the descriptive fields
func (s *Store) Update(name, contact, phone, email, address string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Store name must be 1-200 characters")
	}
	s.Name = name
	s.ContactName = strings.TrimSpace(contact)
	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.TrimSpace(email)
	s.Address = strings.TrimSpace(address)
	s.Touch()
	return nil
}

// SetTerms sets payment terms and the credit limit
func (s *Store) SetTerms(days int, creditLimit decimal.Decimal) error {
	if days < 0 || days > 365 {
		return shared.NewDomainError("INVALID_TERMS", "Payment terms must be between 0 and 365 days")
	}
	if creditLimit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	s.PaymentTermsDays = days
	s.CreditLimit = creditLimit
	s.Touch()
	return nil
}

// Deactivate stops the store from placing orders
func (s *Store) Deactivate() {
	s.Active = false
	s.Touch()
}

// Activate re-enables ordering
func (s *Store) Activate() {
	s.Active = true
	s.Touch()
}

// Debit increases what the store owes
func (s *Store) Debit(t BalanceEntryType, amount decimal.Decimal, src BalanceSource) (*BalanceEntry, error) {
	if !t.IsDebit() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type is not a debit")
	}
	return s.apply(t, amount, src)
}

// Credit decreases what the store owes. The balance may go negative, which
// means the store holds a credit.
func (s *Store) Credit(t BalanceEntryType, amount decimal.Decimal, src BalanceSource) (*BalanceEntry, error) {
	if t.IsDebit() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type is not a credit")
	}
	return s.apply(t, amount.Neg(), src)
}

func (s *Store) apply(t BalanceEntryType, signed decimal.Decimal, src BalanceSource) (*BalanceEntry, error) {
	if signed.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if signed.IsNegative() != !t.IsDebit() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	entry, err := newBalanceEntry(s.ID, t, signed, s.Balance, src)
	if err != nil {
		return nil, err
	}
	s.Balance = entry.BalanceAfter
	s.pending = append(s.pending, *entry)
	s.Touch()
	s.AddDomainEvent(NewStoreBalanceChangedEvent(s, entry))
	return entry, nil
}

// PendingEntries returns balance entries not yet persisted
func (s *Store) PendingEntries() []BalanceEntry {
	return s.pending
}

// ClearPendingEntries is called by the repository after persisting entries
func (s *Store) ClearPendingEntries() {
	s.pending = nil
}

// AvailableCredit returns how much more the store may owe. A zero limit
// means unlimited and returns ok=false.
func (s *Store) AvailableCredit() (decimal.Decimal, bool) {
	if s.CreditLimit.IsZero() {
		return decimal.Zero, false
	}
	return s.CreditLimit.Sub(s.Balance), true
}

// VerifyHistory checks that entries reproduce the current balance
func VerifyHistory(balance decimal.Decimal, entries []BalanceEntry) bool {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum.Equal(balance)
}

// StoreIDs is a helper for collecting store ids
func StoreIDs(stores []Store) []uuid.UUID {
	ids := make([]uuid.UUID, len(stores))
	for i := range stores {
		ids[i] = stores[i].ID
	}
	return ids
}
