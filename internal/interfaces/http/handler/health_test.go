package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewHealthHandler("1.4.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return nil },
		})
		w := serve(t, nil, http.MethodGet, "/health", "/health", nil, h.Health)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "1.4.0", data["version"])
	})

	t.Run("a failing dependency degrades", func(t *testing.T) {
		h := NewHealthHandler("1.4.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: i/o timeout") },
		})
		w := serve(t, nil, http.MethodGet, "/health", "/health", nil, h.Health)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "degraded", data["status"])
		checks, ok := data["checks"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ok", checks["database"])
		assert.Equal(t, "dial tcp: i/o timeout", checks["redis"])
	})

	t.Run("checks see a deadline", func(t *testing.T) {
		var hasDeadline bool
		h := NewHealthHandler("dev", map[string]HealthCheck{
			"database": func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			},
		})
		serve(t, nil, http.MethodGet, "/health", "/health", nil, h.Health)
		assert.True(t, hasDeadline)
	})
}
