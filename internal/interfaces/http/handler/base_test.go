package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshline/backend/internal/domain/identity"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/interfaces/http/dto"
	"github.com/freshline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func adminActor() *middleware.Actor {
	return &middleware.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}
}

func storeActor(storeID uuid.UUID) *middleware.Actor {
	return &middleware.Actor{UserID: uuid.New(), Role: identity.RoleStore, StoreID: &storeID}
}

func vendorActor(vendorID uuid.UUID) *middleware.Actor {
	return &middleware.Actor{UserID: uuid.New(), Role: identity.RoleVendor, VendorID: &vendorID}
}

// serve registers h on a fresh engine behind an actor and runs one request
func serve(t *testing.T, actor *middleware.Actor, method, pattern, target string, body any, h gin.HandlerFunc, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Handle(method, pattern, func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ActorKey, actor)
		}
	}, h)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"mapped", shared.NewDomainError("ALREADY_INVOICED", "Order already invoiced"), http.StatusConflict, "ERR_ALREADY_INVOICED"},
		{"not found suffix", shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found"), http.StatusNotFound, "ERR_INVOICE_NOT_FOUND"},
		{"invalid prefix", shared.NewDomainError("INVALID_WEEK", "Bad week"), http.StatusBadRequest, "ERR_INVALID_WEEK"},
		{"business rule", shared.NewDomainError("CREDIT_LIMIT_EXCEEDED", "Over limit"), http.StatusUnprocessableEntity, "ERR_CREDIT_LIMIT_EXCEEDED"},
		{"lock timeout", shared.NewDomainError("STOCK_LOCK_TIMEOUT", "Busy"), http.StatusServiceUnavailable, "ERR_STOCK_LOCK_TIMEOUT"},
		{"wrapped", errors.Join(errors.New("ctx"), shared.NewDomainError("NOT_FOUND", "gone")), http.StatusNotFound, "ERR_NOT_FOUND"},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h BaseHandler
			w := serve(t, nil, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) { h.HandleError(c, tt.err) })

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestScopeStore(t *testing.T) {
	own, other := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		actor      *middleware.Actor
		requested  *uuid.UUID
		wantOK     bool
		wantFilter *uuid.UUID
	}{
		{"admin keeps filter", adminActor(), &other, true, &other},
		{"admin no filter", adminActor(), nil, true, nil},
		{"store pinned", storeActor(own), nil, true, &own},
		{"store own", storeActor(own), &own, true, &own},
		{"store other", storeActor(own), &other, false, nil},
		{"vendor", vendorActor(uuid.New()), nil, false, nil},
		{"anonymous", nil, nil, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h BaseHandler
			filter := tt.requested
			var ok bool
			w := serve(t, tt.actor, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) {
				ok = h.scopeStore(c, &filter)
			})

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, http.StatusForbidden, w.Code)
				return
			}
			assert.Equal(t, tt.wantFilter, filter)
		})
	}
}

func TestScopeVendor(t *testing.T) {
	own := uuid.New()
	var h BaseHandler

	var filter *uuid.UUID
	var ok bool
	serve(t, vendorActor(own), http.MethodGet, "/x", "/x", nil, func(c *gin.Context) {
		ok = h.scopeVendor(c, &filter)
	})
	require.True(t, ok)
	assert.Equal(t, own, *filter)

	other := uuid.New()
	filter = &other
	w := serve(t, vendorActor(own), http.MethodGet, "/x", "/x", nil, func(c *gin.Context) {
		ok = h.scopeVendor(c, &filter)
	})
	assert.False(t, ok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQueryUUID(t *testing.T) {
	var h BaseHandler
	id := uuid.New()

	var got *uuid.UUID
	var ok bool
	serve(t, nil, http.MethodGet, "/x", "/x?store_id="+id.String(), nil, func(c *gin.Context) {
		got, ok = h.queryUUID(c, "store_id")
	})
	require.True(t, ok)
	assert.Equal(t, id, *got)

	serve(t, nil, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) {
		got, ok = h.queryUUID(c, "store_id")
	})
	assert.True(t, ok)
	assert.Nil(t, got)

	w := serve(t, nil, http.MethodGet, "/x", "/x?store_id=abc", nil, func(c *gin.Context) {
		got, ok = h.queryUUID(c, "store_id")
	})
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "store_id", resp.Error.Details[0].Field)
}

func TestBindWeek(t *testing.T) {
	var h BaseHandler

	var week shared.Week
	var ok bool
	serve(t, nil, http.MethodPost, "/x", "/x", map[string]string{"week": "2026-W07"}, func(c *gin.Context) {
		week, ok = h.bindWeek(c)
	})
	require.True(t, ok)
	assert.Equal(t, shared.Week{Year: 2026, Number: 7}, week)

	w := serve(t, nil, http.MethodPost, "/x", "/x", map[string]string{"week": "2026-07"}, func(c *gin.Context) {
		_, ok = h.bindWeek(c)
	})
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, nil, http.MethodPost, "/x", "/x", "{not json", func(c *gin.Context) {
		_, ok = h.bindWeek(c)
	})
	assert.False(t, ok)
	assert.Equal(t, dto.ErrCodeBadRequest, decodeResponse(t, w).Error.Code)
}

func TestSuccessWithMeta_Defaults(t *testing.T) {
	var h BaseHandler
	w := serve(t, nil, http.MethodGet, "/x", "/x", nil, func(c *gin.Context) {
		h.SuccessWithMeta(c, []string{"a"}, 45, 0, 0)
	})

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
