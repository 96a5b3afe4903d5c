package scheduler

import (
	"context"
	"errors"
	"fmt"

	tradeapp "github.com/freshline/backend/internal/application/trade"
	workorderapp "github.com/freshline/backend/internal/application/workorder"
	"github.com/freshline/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PreOrderJobs is the part of the preorder service the weekly jobs call
type PreOrderJobs interface {
	Generate(ctx context.Context, week shared.Week) (*tradeapp.GenerateResult, error)
	Expire(ctx context.Context, week shared.Week) (int, error)
}

// WorkOrderJobs is the part of the work order service the weekly jobs call
type WorkOrderJobs interface {
	Generate(ctx context.Context, week shared.Week) (*workorderapp.WorkOrderResponse, error)
}

// WeeklyExecutor dispatches weekly jobs to the application services
type WeeklyExecutor struct {
	preorders  PreOrderJobs
	workorders WorkOrderJobs
	logger     *zap.Logger
}

// NewWeeklyExecutor creates a new executor
func NewWeeklyExecutor(preorders PreOrderJobs, workorders WorkOrderJobs, logger *zap.Logger) *WeeklyExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyExecutor{preorders: preorders, workorders: workorders, logger: logger}
}

// Execute runs one job. A work order run with nothing to allocate succeeds.
func (e *WeeklyExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobPreOrderGenerate:
		result, err := e.preorders.Generate(ctx, job.Week)
		if err != nil {
			return fmt.Errorf("generate preorders for %s: %w", job.Week, err)
		}
		e.logger.Info("PreOrders generated",
			zap.String("week", job.Week.String()),
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
		)
		return nil

	case JobPreOrderExpire:
		expired, err := e.preorders.Expire(ctx, job.Week)
		if err != nil {
			return fmt.Errorf("expire preorders for %s: %w", job.Week, err)
		}
		e.logger.Info("PreOrders expired",
			zap.String("week", job.Week.String()),
			zap.Int("expired", expired),
		)
		return nil

	case JobWorkOrderGenerate:
		wo, err := e.workorders.Generate(ctx, job.Week)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) && de.Code == "NO_ORDERS" {
				e.logger.Info("No confirmed orders to allocate", zap.String("week", job.Week.String()))
				return nil
			}
			return fmt.Errorf("generate work order for %s: %w", job.Week, err)
		}
		e.logger.Info("Work order generated",
			zap.String("week", job.Week.String()),
			zap.String("number", wo.Number),
			zap.Int("orders", wo.OrderCount),
		)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
}

var _ JobExecutor = (*WeeklyExecutor)(nil)
