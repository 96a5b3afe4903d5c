package partner

import (
	"strings"

	"github.com/freshline/backend/internal/domain/shared"
)

// Vendor is a grower or supplier that we buy from
type Vendor struct {
	shared.BaseAggregateRoot
	Code             string `json:"code"`
	Name             string `json:"name"`
	ContactName      string `json:"contact_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	PaymentTermsDays int    `json:"payment_terms_days"`
	Active           bool   `json:"active"`
}

// NewVendor creates an active vendor
func NewVendor(code, name string) (*Vendor, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Vendor code must be 1-20 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name must be 1-200 characters")
	}
	return &Vendor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		PaymentTermsDays:  DefaultPaymentTermsDays * 2,
		Active:            true,
	}, nil
}

// Update changes descriptive fields and terms
func (v *Vendor) Update(name, contact, phone, email, address string, termsDays int) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Vendor name must be 1-200 characters")
	}
	if termsDays < 0 || termsDays > 365 {
		return shared.NewDomainError("INVALID_TERMS", "Payment terms must be between 0 and 365 days")
	}
	v.Name = name
	v.ContactName = strings.TrimSpace(contact)
	v.Phone = strings.TrimSpace(phone)
	v.Email = strings.TrimSpace(email)
	v.Address = strings.TrimSpace(address)
	v.PaymentTermsDays = termsDays
	v.Touch()
	return nil
}

// SetActive toggles whether purchase orders can be raised
func (v *Vendor) SetActive(active bool) {
	v.Active = active
	v.Touch()
}
