package handler

import (
	"context"
	"net/http"
	"testing"

	financeapp "github.com/freshline/backend/internal/application/finance"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GenerateForOrder(ctx context.Context, orderID uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Void(ctx context.Context, id uuid.UUID, req financeapp.VoidRequest) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) RenderPDF(ctx context.Context, id uuid.UUID, regenerate bool) (*financeapp.InvoicePDFResponse, error) {
	args := m.Called(ctx, id, regenerate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoicePDFResponse), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, filter financeapp.InvoiceListFilter) ([]financeapp.InvoiceResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]financeapp.InvoiceResponse), args.Get(1).(int64), args.Error(2)
}

type MockStorePaymentService struct {
	mock.Mock
}

func (m *MockStorePaymentService) Record(ctx context.Context, req financeapp.RecordStorePaymentRequest) (*financeapp.StorePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.StorePaymentResponse), args.Error(1)
}

func (m *MockStorePaymentService) GetByID(ctx context.Context, id uuid.UUID) (*financeapp.StorePaymentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.StorePaymentResponse), args.Error(1)
}

func (m *MockStorePaymentService) List(ctx context.Context, filter financeapp.PaymentListFilter) ([]financeapp.StorePaymentResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]financeapp.StorePaymentResponse), args.Get(1).(int64), args.Error(2)
}

func TestInvoiceHandler_PDF(t *testing.T) {
	own := uuid.New()
	id := uuid.New()
	target := "/invoices/" + id.String() + "/pdf?regenerate=true"

	tests := []struct {
		name           string
		invoiceStore   uuid.UUID
		admin          bool
		wantStatus     int
		wantRegenerate bool
	}{
		{"admin can regenerate", own, true, http.StatusOK, true},
		{"store cannot force regenerate", own, false, http.StatusOK, false},
		{"other store's invoice", uuid.New(), false, http.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockInvoiceService)
			svc.On("GetByID", mock.Anything, id).Return(&financeapp.InvoiceResponse{ID: id, StoreID: tt.invoiceStore}, nil)
			svc.On("RenderPDF", mock.Anything, id, tt.wantRegenerate).
				Return(&financeapp.InvoicePDFResponse{InvoiceID: id, URL: "https://files.example/inv.pdf"}, nil).Maybe()
			h := NewInvoiceHandler(svc)

			actor := storeActor(own)
			if tt.admin {
				actor = adminActor()
			}
			w := serve(t, actor, http.MethodGet, "/invoices/:id/pdf", target, nil, h.PDF)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				svc.AssertCalled(t, "RenderPDF", mock.Anything, id, tt.wantRegenerate)
			} else {
				svc.AssertNotCalled(t, "RenderPDF", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestInvoiceHandler_PDF_PrintingDisabled(t *testing.T) {
	id := uuid.New()
	svc := new(MockInvoiceService)
	svc.On("GetByID", mock.Anything, id).Return(&financeapp.InvoiceResponse{ID: id}, nil)
	svc.On("RenderPDF", mock.Anything, id, false).Return(nil, shared.NewDomainError("PRINTING_DISABLED", "PDF rendering is not configured"))
	h := NewInvoiceHandler(svc)

	w := serve(t, adminActor(), http.MethodGet, "/invoices/:id/pdf", "/invoices/"+id.String()+"/pdf", nil, h.PDF)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "ERR_PRINTING_DISABLED", decodeResponse(t, w).Error.Code)
}

func TestStorePaymentHandler_Record(t *testing.T) {
	storeID := uuid.New()
	body := map[string]any{
		"store_id": storeID,
		"amount":   "250.00",
		"method":   "ACH",
	}

	t.Run("idempotency key is passed through", func(t *testing.T) {
		svc := new(MockStorePaymentService)
		actor := adminActor()
		svc.On("Record", mock.Anything, mock.MatchedBy(func(req financeapp.RecordStorePaymentRequest) bool {
			return req.IdempotencyKey == "pay-7781" &&
				req.StoreID == storeID &&
				req.Amount.Equal(decimal.RequireFromString("250")) &&
				req.RecordedBy != nil && *req.RecordedBy == actor.UserID
		})).Return(&financeapp.StorePaymentResponse{}, nil)
		h := NewStorePaymentHandler(svc)

		w := serve(t, actor, http.MethodPost, "/store-payments", "/store-payments", body, h.Record,
			IdempotencyKeyHeader, "pay-7781")

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("replayed key", func(t *testing.T) {
		svc := new(MockStorePaymentService)
		svc.On("Record", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("DUPLICATE_REQUEST", "Request already in progress"))
		h := NewStorePaymentHandler(svc)

		w := serve(t, adminActor(), http.MethodPost, "/store-payments", "/store-payments", body, h.Record,
			IdempotencyKeyHeader, "pay-7781")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		h := NewStorePaymentHandler(new(MockStorePaymentService))
		bad := map[string]any{"store_id": storeID, "amount": "10", "method": "BITCOIN"}

		w := serve(t, adminActor(), http.MethodPost, "/store-payments", "/store-payments", bad, h.Record)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStorePaymentHandler_List(t *testing.T) {
	own := uuid.New()
	svc := new(MockStorePaymentService)
	svc.On("List", mock.Anything, mock.MatchedBy(func(f financeapp.PaymentListFilter) bool {
		return f.PartyID != nil && *f.PartyID == own
	})).Return([]financeapp.StorePaymentResponse{}, int64(0), nil)
	h := NewStorePaymentHandler(svc)

	w := serve(t, storeActor(own), http.MethodGet, "/store-payments", "/store-payments", nil, h.List)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
