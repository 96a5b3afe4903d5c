package scheduler

import (
	"context"
	"errors"
	"testing"

	tradeapp "github.com/freshline/backend/internal/application/trade"
	workorderapp "github.com/freshline/backend/internal/application/workorder"
	"github.com/freshline/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPreOrderJobs struct {
	mock.Mock
}

func (m *mockPreOrderJobs) Generate(ctx context.Context, week shared.Week) (*tradeapp.GenerateResult, error) {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.GenerateResult), args.Error(1)
}

func (m *mockPreOrderJobs) Expire(ctx context.Context, week shared.Week) (int, error) {
	args := m.Called(ctx, week)
	return args.Int(0), args.Error(1)
}

type mockWorkOrderJobs struct {
	mock.Mock
}

func (m *mockWorkOrderJobs) Generate(ctx context.Context, week shared.Week) (*workorderapp.WorkOrderResponse, error) {
	args := m.Called(ctx, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorderapp.WorkOrderResponse), args.Error(1)
}

func TestWeeklyExecutor_Execute(t *testing.T) {
	week := shared.Week{Year: 2026, Number: 42}
	ctx := context.Background()

	t.Run("preorder generate", func(t *testing.T) {
		pre := new(mockPreOrderJobs)
		pre.On("Generate", ctx, week.Next()).Return(&tradeapp.GenerateResult{Week: week.Next().String(), Created: 3}, nil)
		exec := NewWeeklyExecutor(pre, new(mockWorkOrderJobs), nil)

		require.NoError(t, exec.Execute(ctx, NewJob(JobPreOrderGenerate, week.Next(), 0)))
		pre.AssertExpectations(t)
	})

	t.Run("preorder expire failure is returned", func(t *testing.T) {
		pre := new(mockPreOrderJobs)
		pre.On("Expire", ctx, week).Return(0, errors.New("db down"))
		exec := NewWeeklyExecutor(pre, new(mockWorkOrderJobs), nil)

		err := exec.Execute(ctx, NewJob(JobPreOrderExpire, week, 0))
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("work order", func(t *testing.T) {
		wo := new(mockWorkOrderJobs)
		wo.On("Generate", ctx, week).Return(&workorderapp.WorkOrderResponse{Number: "WO-2026W42-000001", OrderCount: 4}, nil)
		exec := NewWeeklyExecutor(new(mockPreOrderJobs), wo, nil)

		require.NoError(t, exec.Execute(ctx, NewJob(JobWorkOrderGenerate, week, 0)))
		wo.AssertExpectations(t)
	})

	t.Run("work order with nothing to allocate succeeds", func(t *testing.T) {
		wo := new(mockWorkOrderJobs)
		wo.On("Generate", ctx, week).Return(nil, shared.NewDomainError("NO_ORDERS", "No confirmed orders"))
		exec := NewWeeklyExecutor(new(mockPreOrderJobs), wo, nil)

		assert.NoError(t, exec.Execute(ctx, NewJob(JobWorkOrderGenerate, week, 0)))
	})

	t.Run("unknown job type", func(t *testing.T) {
		exec := NewWeeklyExecutor(new(mockPreOrderJobs), new(mockWorkOrderJobs), nil)

		err := exec.Execute(ctx, NewJob(JobType("report.rebuild"), week, 0))
		assert.ErrorIs(t, err, ErrUnknownJobType)
	})
}
