package identity

import (
	"context"
	"errors"
	"time"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	accountRepo identity.AccountRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accountRepo identity.AccountRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// Login authenticates an account and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenResult, error) {
	account, err := s.accountRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown account", zap.String("username", input.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !account.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, errInvalidCredentials
	}
	if !account.Active {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(subjectOf(account))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	account.RecordLogin()
	if err := s.accountRepo.Save(ctx, account); err != nil {
		// Login still succeeds; only the timestamp is lost
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("Account logged in",
		zap.String("username", account.Username),
		zap.String("role", account.Role.String()))

	return tokenResult(pair, account), nil
}

// Refresh issues a new token pair from a refresh token
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	var account *identity.Account
	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, func(id uuid.UUID) (auth.Subject, error) {
		a, err := s.accountRepo.FindByID(ctx, id)
		if err != nil {
			return auth.Subject{}, err
		}
		if !a.Active {
			return auth.Subject{}, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
		}
		account = a
		return subjectOf(a), nil
	})
	if err != nil {
		return nil, tokenError(err)
	}

	// The old refresh token must not be replayed
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}
	return tokenResult(pair, account), nil
}

// Logout revokes the access token until it would have expired, and the
// refresh token when one is given. A refresh token that already expired has
// nothing left to revoke.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.JTI == "" {
		return shared.NewDomainError("TOKEN_INVALID", "Token has no identifier")
	}

	var refresh *auth.Claims
	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
		case err != nil:
			return tokenError(err)
		case input.UserID != "" && claims.UserID != input.UserID:
			return shared.NewDomainError("TOKEN_INVALID", "Refresh token belongs to another account")
		default:
			refresh = claims
		}
	}

	if err := s.blacklist.Revoke(ctx, input.JTI, time.Until(input.ExpiresAt)); err != nil {
		return err
	}
	if refresh != nil {
		if err := s.blacklist.Revoke(ctx, refresh.ID, refresh.GetRemainingTTL()); err != nil {
			return err
		}
	}
	s.logger.Info("Token revoked",
		zap.String("jti", input.JTI),
		zap.Bool("refresh_revoked", refresh != nil))
	return nil
}

// Authenticate validates an access token and checks it has not been revoked
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}
	return nil
}

func tokenError(err error) error {
	var de *shared.DomainError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return shared.NewDomainError("TOKEN_INVALID", "Token subject no longer exists")
	case errors.As(err, &de):
		return err
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded, please log in again")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingUserID):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	}
	return err
}

func subjectOf(a *identity.Account) auth.Subject {
	return auth.Subject{
		UserID:   a.ID,
		Username: a.Username,
		Role:     a.Role.String(),
		StoreID:  a.StoreID,
		VendorID: a.VendorID,
	}
}

func tokenResult(pair *auth.TokenPair, a *identity.Account) *TokenResult {
	return &TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Account:               ToAccountResponse(a),
	}
}
