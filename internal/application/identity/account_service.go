package identity

import (
	"context"
	"errors"
	"time"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/domain/partner"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages login accounts
type AccountService struct {
	accountRepo identity.AccountRepository
	storeRepo   partner.StoreRepository
	vendorRepo  partner.VendorRepository
	blacklist   auth.TokenBlacklist
	sessionTTL  time.Duration
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService. sessionTTL bounds how long
// a deactivation revocation has to be remembered, normally the refresh token
// lifetime.
func NewAccountService(
	accountRepo identity.AccountRepository,
	storeRepo partner.StoreRepository,
	vendorRepo partner.VendorRepository,
	blacklist auth.TokenBlacklist,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo: accountRepo,
		storeRepo:   storeRepo,
		vendorRepo:  vendorRepo,
		blacklist:   blacklist,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// Create registers an account. Partner accounts must point at an existing
// store or vendor.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	exists, err := s.accountRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	role := identity.Role(req.Role)
	var partnerID *uuid.UUID
	switch role {
	case identity.RoleStore:
		partnerID = req.StoreID
		if partnerID != nil {
			if _, err := s.storeRepo.FindByID(ctx, *partnerID); err != nil {
				return nil, partnerError(err, "STORE_NOT_FOUND", "Store does not exist")
			}
		}
	case identity.RoleVendor:
		partnerID = req.VendorID
		if partnerID != nil {
			if _, err := s.vendorRepo.FindByID(ctx, *partnerID); err != nil {
				return nil, partnerError(err, "VENDOR_NOT_FOUND", "Vendor does not exist")
			}
		}
	}

	account, err := identity.NewAccount(req.Username, req.Email, req.Password, role, partnerID)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		if err := account.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	account.ClearDomainEvents()

	s.logger.Info("Account created",
		zap.String("username", account.Username),
		zap.String("role", account.Role.String()))
	response := ToAccountResponse(account)
	return &response, nil
}

// Me returns the calling account
func (s *AccountService) Me(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// ChangePassword replaces the caller's password after checking the old one
func (s *AccountService) ChangePassword(ctx context.Context, accountID uuid.UUID, req ChangePasswordRequest) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := account.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return s.accountRepo.Save(ctx, account)
}

// Deactivate blocks the account and revokes its outstanding tokens
func (s *AccountService) Deactivate(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	if err := s.blacklist.RevokeUser(ctx, account.ID.String(), s.sessionTTL); err != nil {
		s.logger.Error("Failed to revoke tokens of deactivated account",
			zap.String("account_id", account.ID.String()),
			zap.Error(err))
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// Activate re-enables a deactivated account
func (s *AccountService) Activate(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Activate(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List returns accounts ordered by username
func (s *AccountService) List(ctx context.Context, filter AccountListFilter) ([]AccountResponse, int64, error) {
	accounts, total, err := s.accountRepo.FindAll(ctx, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, total, nil
}

func partnerError(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
