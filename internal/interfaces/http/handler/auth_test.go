package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	identityapp "github.com/freshline/backend/internal/application/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuth struct {
	logouts []identityapp.LogoutInput
}

func (r *recordingAuth) Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.TokenResult, error) {
	return &identityapp.TokenResult{}, nil
}

func (r *recordingAuth) Refresh(ctx context.Context, input identityapp.RefreshInput) (*identityapp.TokenResult, error) {
	return &identityapp.TokenResult{}, nil
}

func (r *recordingAuth) Logout(ctx context.Context, input identityapp.LogoutInput) error {
	r.logouts = append(r.logouts, input)
	return nil
}

func TestAuthHandler_Logout(t *testing.T) {
	actor := adminActor()
	actor.TokenID = "jti-7"
	actor.ExpiresAt = time.Now().Add(10 * time.Minute)

	t.Run("without a body only the access token is revoked", func(t *testing.T) {
		svc := &recordingAuth{}
		h := NewAuthHandler(svc, nil)
		w := serve(t, actor, http.MethodPost, "/logout", "/logout", nil, h.Logout)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, svc.logouts, 1)
		assert.Equal(t, "jti-7", svc.logouts[0].JTI)
		assert.Equal(t, actor.UserID.String(), svc.logouts[0].UserID)
		assert.Empty(t, svc.logouts[0].RefreshToken)
	})

	t.Run("refresh token from the body is passed on", func(t *testing.T) {
		svc := &recordingAuth{}
		h := NewAuthHandler(svc, nil)
		w := serve(t, actor, http.MethodPost, "/logout", "/logout",
			map[string]string{"refresh_token": "rt-1"}, h.Logout)

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, svc.logouts, 1)
		assert.Equal(t, "rt-1", svc.logouts[0].RefreshToken)
		assert.Equal(t, "jti-7", svc.logouts[0].JTI)
	})

	t.Run("malformed body is refused", func(t *testing.T) {
		svc := &recordingAuth{}
		h := NewAuthHandler(svc, nil)
		w := serve(t, actor, http.MethodPost, "/logout", "/logout", "{", h.Logout)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.logouts)
	})
}
