package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse permission level of an account
type Role string

const (
	RoleAdmin  Role = "ADMIN"  // Back office staff
	RoleStore  Role = "STORE"  // A retail store buying produce
	RoleVendor Role = "VENDOR" // A grower or supplier
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStore, RoleVendor:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// bcryptCost is a var so tests can lower it
var bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Account is a login identity. Store and vendor accounts are bound to
// the partner they act for.
type Account struct {
	shared.BaseAggregateRoot
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	StoreID      *uuid.UUID `json:"store_id,omitempty"`
	VendorID     *uuid.UUID `json:"vendor_id,omitempty"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// NewAccount creates an active account with a hashed password
func NewAccount(username, email, password string, role Role, partnerID *uuid.UUID) (*Account, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters of letters, digits, '_', '.' or '-'")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email != "" && !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN, STORE or VENDOR")
	}

	a := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		DisplayName:       username,
		Role:              role,
		Active:            true,
	}

	switch role {
	case RoleStore:
		if partnerID == nil || *partnerID == uuid.Nil {
			return nil, shared.NewDomainError("STORE_REQUIRED", "Store accounts must reference a store")
		}
		id := *partnerID
		a.StoreID = &id
	case RoleVendor:
		if partnerID == nil || *partnerID == uuid.Nil {
			return nil, shared.NewDomainError("VENDOR_REQUIRED", "Vendor accounts must reference a vendor")
		}
		id := *partnerID
		a.VendorID = &id
	}

	if err := a.SetPassword(password); err != nil {
		return nil, err
	}

	a.AddDomainEvent(NewAccountCreatedEvent(a))
	return a, nil
}

// SetPassword validates and hashes a new password
func (a *Account) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	a.Touch()
	return nil
}

// ChangePassword replaces the password after verifying the old one
func (a *Account) ChangePassword(oldPassword, newPassword string) error {
	if !a.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if oldPassword == newPassword {
		return shared.NewDomainError("INVALID_PASSWORD", "New password must differ from the current one")
	}
	if err := a.SetPassword(newPassword); err != nil {
		return err
	}
	return nil
}

// VerifyPassword compares a candidate password with the stored hash
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// SetDisplayName sets the display name
func (a *Account) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 100 characters")
	}
	if name == "" {
		name = a.Username
	}
	a.DisplayName = name
	a.Touch()
	return nil
}

// Deactivate blocks future logins
func (a *Account) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("INVALID_STATE", "Account is already inactive")
	}
	a.Active = false
	a.Touch()
	return nil
}

// Activate re-enables logins
func (a *Account) Activate() error {
	if a.Active {
		return shared.NewDomainError("INVALID_STATE", "Account is already active")
	}
	a.Active = true
	a.Touch()
	return nil
}

// RecordLogin stamps the last login time
func (a *Account) RecordLogin() {
	now := time.Now()
	a.LastLoginAt = &now
	a.Touch()
}

// IsAdmin reports whether the account has the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
