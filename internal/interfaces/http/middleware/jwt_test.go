package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/infrastructure/auth"
	"github.com/freshline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func storeClaims(userID, storeID uuid.UUID) *auth.Claims {
	return &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:  userID.String(),
		Role:    string(identity.RoleStore),
		StoreID: storeID.String(),
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestJWTAuth(t *testing.T) {
	userID, storeID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		header     string
		setup      func(m *MockAuthenticator)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:       "not bearer",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:   "revoked",
			header: "Bearer revoked",
			setup: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, "revoked").
					Return(nil, shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked"))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "ERR_TOKEN_REVOKED",
		},
		{
			name:   "blacklist unavailable",
			header: "Bearer good",
			setup: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, "good").Return(nil, errors.New("redis down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
		{
			name:   "valid",
			header: "Bearer good",
			setup: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, "good").Return(storeClaims(userID, storeID), nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := new(MockAuthenticator)
			if tt.setup != nil {
				tt.setup(authn)
			}

			var got *Actor
			r := gin.New()
			r.GET("/me", JWTAuth(authn), func(c *gin.Context) {
				got = GetActor(c)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, identity.RoleStore, got.Role)
			require.NotNil(t, got.StoreID)
			assert.Equal(t, storeID, *got.StoreID)
			assert.Equal(t, "jti-1", got.TokenID)
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin",
		func(c *gin.Context) { c.Set(ActorKey, &Actor{Role: identity.RoleStore}) },
		RequireRole(identity.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, decode(t, w).Error.Code)
}

func TestRequireStoreParam(t *testing.T) {
	own, other := uuid.New(), uuid.New()

	tests := []struct {
		name  string
		actor *Actor
		path  string
		want  int
	}{
		{"own store", &Actor{Role: identity.RoleStore, StoreID: &own}, "/stores/" + own.String(), http.StatusOK},
		{"other store", &Actor{Role: identity.RoleStore, StoreID: &own}, "/stores/" + other.String(), http.StatusForbidden},
		{"admin", &Actor{Role: identity.RoleAdmin}, "/stores/" + other.String(), http.StatusOK},
		{"vendor", &Actor{Role: identity.RoleVendor}, "/stores/" + own.String(), http.StatusForbidden},
		{"bad id", &Actor{Role: identity.RoleAdmin}, "/stores/nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/stores/:id",
				func(c *gin.Context) { c.Set(ActorKey, tt.actor) },
				RequireStoreParam("id"),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestActor_CanAccessVendor(t *testing.T) {
	vendorID := uuid.New()
	vendor := &Actor{Role: identity.RoleVendor, VendorID: &vendorID}

	assert.True(t, vendor.CanAccessVendor(vendorID))
	assert.False(t, vendor.CanAccessVendor(uuid.New()))
	assert.False(t, vendor.CanAccessStore(uuid.New()))
	assert.True(t, (&Actor{Role: identity.RoleAdmin}).CanAccessVendor(vendorID))

	var nobody *Actor
	assert.False(t, nobody.CanAccessVendor(vendorID))
	assert.False(t, nobody.IsAdmin())
}
