package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins ...string) *gin.Engine {
	cfg := CORSConfigFrom(config.HTTPConfig{
		CORSAllowedOrigins: origins,
		CORSAllowMethods:   []string{"GET", "POST"},
		CORSAllowHeaders:   []string{"Authorization", "Content-Type"},
	})
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/stores", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantStatus int
		wantAllow  string
		wantCreds  string
	}{
		{"listed origin", []string{"https://app.freshline.test"}, "https://app.freshline.test", http.MethodGet, http.StatusOK, "https://app.freshline.test", "true"},
		{"unlisted origin", []string{"https://app.freshline.test"}, "https://evil.test", http.MethodGet, http.StatusOK, "", ""},
		{"wildcard", []string{"*"}, "https://any.test", http.MethodGet, http.StatusOK, "*", ""},
		{"no origins configured", nil, "https://any.test", http.MethodGet, http.StatusOK, "", ""},
		{"preflight", []string{"https://app.freshline.test"}, "https://app.freshline.test", http.MethodOptions, http.StatusNoContent, "https://app.freshline.test", "true"},
		{"preflight unknown route", []string{"*"}, "https://any.test", http.MethodOptions, http.StatusNoContent, "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := corsRouter(tt.origins...)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/stores", nil)
			req.Header.Set("Origin", tt.origin)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
			if tt.wantAllow != "" {
				assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestSecure(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		r := gin.New()
		r.Use(Secure(hsts))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, hsts, w.Header().Get("Strict-Transport-Security") != "")
	}
}
