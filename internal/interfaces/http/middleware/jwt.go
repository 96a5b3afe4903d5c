package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/auth"
	"github.com/freshline/backend/internal/infrastructure/logger"
	"github.com/freshline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys and header names
const (
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator validates an access token and checks it has not been revoked
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// Actor is the authenticated account behind a request
type Actor struct {
	UserID    uuid.UUID
	Username  string
	Role      identity.Role
	StoreID   *uuid.UUID
	VendorID  *uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the actor has back office rights
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == identity.RoleAdmin
}

// CanAccessStore reports whether the actor may act for storeID. STORE
// accounts only reach their own store; VENDOR accounts reach none.
func (a *Actor) CanAccessStore(storeID uuid.UUID) bool {
	switch {
	case a == nil:
		return false
	case a.Role == identity.RoleAdmin:
		return true
	case a.Role == identity.RoleStore:
		return a.StoreID != nil && *a.StoreID == storeID
	default:
		return false
	}
}

// CanAccessVendor reports whether the actor may act for vendorID
func (a *Actor) CanAccessVendor(vendorID uuid.UUID) bool {
	switch {
	case a == nil:
		return false
	case a.Role == identity.RoleAdmin:
		return true
	case a.Role == identity.RoleVendor:
		return a.VendorID != nil && *a.VendorID == vendorID
	default:
		return false
	}
}

func actorFromClaims(claims *auth.Claims) (*Actor, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, err
	}
	storeID, err := claims.GetStoreUUID()
	if err != nil {
		return nil, err
	}
	vendorID, err := claims.GetVendorUUID()
	if err != nil {
		return nil, err
	}
	return &Actor{
		UserID:    userID,
		Username:  claims.Username,
		Role:      identity.Role(claims.Role),
		StoreID:   storeID,
		VendorID:  vendorID,
		TokenID:   claims.ID,
		ExpiresAt: claims.GetExpiresAtTime(),
	}, nil
}

// JWTAuth requires a valid Bearer token and stores the Actor on the context
func JWTAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			Abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			Abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			Abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing token")
			return
		}

		ctx := c.Request.Context()
		claims, err := authn.Authenticate(ctx, token)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				logger.L(ctx).Debug("JWT authentication failed", zap.String("code", de.Code))
				Abort(c, http.StatusUnauthorized, dto.APICode(de.Code), de.Message)
				return
			}
			logger.L(ctx).Error("Token check failed", zap.Error(err))
			Abort(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			Abort(c, http.StatusUnauthorized, dto.APICode("TOKEN_INVALID"), "Invalid token claims")
			return
		}

		c.Set(ActorKey, actor)
		storeID := ""
		if actor.StoreID != nil {
			storeID = actor.StoreID.String()
		}
		c.Request = c.Request.WithContext(logger.WithActor(ctx, actor.UserID.String(), string(actor.Role), storeID))
		c.Next()
	}
}

// GetActor returns the authenticated account, or nil on a public route
func GetActor(c *gin.Context) *Actor {
	if v, ok := c.Get(ActorKey); ok {
		if a, ok := v.(*Actor); ok {
			return a
		}
	}
	return nil
}

// RequireRole allows only the listed roles through
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			Abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		Abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Your role may not perform this action")
	}
}

// RequireStoreParam checks the store id in path parameter param against
// the actor. Admins pass; STORE accounts must match.
func RequireStoreParam(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(param))
		if err != nil {
			Abort(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid store ID format")
			return
		}
		if !GetActor(c).CanAccessStore(id) {
			Abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to this store is forbidden")
			return
		}
		c.Next()
	}
}
