package identity

import (
	"time"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LoginInput contains credentials for login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResult is returned by login and refresh
type TokenResult struct {
	AccessToken           string          `json:"access_token"`
	RefreshToken          string          `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time       `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time       `json:"refresh_token_expires_at"`
	TokenType             string          `json:"token_type"`
	Account               AccountResponse `json:"account"`
}

// RefreshInput contains the refresh token
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the access token being revoked. RefreshToken is
// the pair's refresh token, revoked with it when given.
type LogoutInput struct {
	JTI          string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
	UserID       string    `json:"-"`
	RefreshToken string    `json:"refresh_token"`
}

// CreateAccountRequest is used by admins to register a login
type CreateAccountRequest struct {
	Username    string     `json:"username" binding:"required,min=3,max=50"`
	Email       string     `json:"email" binding:"omitempty,email"`
	DisplayName string     `json:"display_name" binding:"max=100"`
	Password    string     `json:"password" binding:"required,min=8,max=72"`
	Role        string     `json:"role" binding:"required,oneof=ADMIN STORE VENDOR"`
	StoreID     *uuid.UUID `json:"store_id"`
	VendorID    *uuid.UUID `json:"vendor_id"`
}

// ChangePasswordRequest requires the current password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	StoreID     *uuid.UUID `json:"store_id,omitempty"`
	VendorID    *uuid.UUID `json:"vendor_id,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToAccountResponse converts a domain account to a response
func ToAccountResponse(a *identity.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
		StoreID:     a.StoreID,
		VendorID:    a.VendorID,
		Active:      a.Active,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// AccountListFilter filters the account list
type AccountListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=ADMIN STORE VENDOR"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f AccountListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	filter.OrderBy = "username"
	filter.OrderDir = "asc"
	filter.Search = f.Search
	if f.Role != "" {
		filter = filter.With("role", f.Role)
	}
	if f.Active != nil {
		filter = filter.With("active", *f.Active)
	}
	return filter
}
