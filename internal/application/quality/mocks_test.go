package quality

import (
	"context"
	"errors"
	"time"

	financeapp "github.com/freshline/backend/internal/application/finance"
	"github.com/freshline/backend/internal/domain/finance"
	"github.com/freshline/backend/internal/domain/quality"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/freshline/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIssueRepository is a mock implementation of quality.IssueRepository
type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*quality.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quality.Issue), args.Error(1)
}

func (m *MockIssueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quality.Issue, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]quality.Issue), args.Get(1).(int64), args.Error(2)
}

// FindByOrder answers from the issues saved through the mock so far
func (m *MockIssueRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]quality.Issue, error) {
	issues := []quality.Issue{}
	for _, c := range m.Calls {
		if c.Method != "Save" {
			continue
		}
		if issue := c.Arguments.Get(1).(*quality.Issue); issue.OrderID == orderID {
			issues = append(issues, *issue)
		}
	}
	return issues, nil
}

func (m *MockIssueRepository) Save(ctx context.Context, issue *quality.Issue) error {
	return m.Called(ctx, issue).Error(0)
}

func (m *MockIssueRepository) SaveWithLock(ctx context.Context, issue *quality.Issue) error {
	return m.Called(ctx, issue).Error(0)
}

type orderMap map[uuid.UUID]*trade.Order

func (o orderMap) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	if order, ok := o[id]; ok {
		return order, nil
	}
	return nil, shared.ErrNotFound
}

type invoiceMap map[uuid.UUID]*finance.Invoice

func (m invoiceMap) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	if inv, ok := m[id]; ok {
		return inv, nil
	}
	return nil, shared.ErrNotFound
}

type fakeCredits struct {
	issued []financeapp.QualityCredit
	err    error
}

func (f *fakeCredits) IssueQualityCredit(ctx context.Context, qc financeapp.QualityCredit) (*finance.CreditMemo, []shared.DomainEvent, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.issued = append(f.issued, qc)
	memo, err := finance.NewCreditMemo("CM-2026W42-000001", qc.StoreID, qc.InvoiceID, finance.CreditReasonQuality, qc.Amount, qc.Notes)
	if err != nil {
		return nil, nil, err
	}
	memo.SetSource(qc.IssueID)
	return memo, memo.PopDomainEvents(), nil
}

type fakePhotos struct {
	failDownload bool
}

func (f *fakePhotos) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://files.test/put/" + key, time.Now().Add(15 * time.Minute), nil
}

func (f *fakePhotos) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if f.failDownload {
		return "", time.Time{}, errors.New("signer unavailable")
	}
	return "https://files.test/get/" + key, time.Now().Add(15 * time.Minute), nil
}
