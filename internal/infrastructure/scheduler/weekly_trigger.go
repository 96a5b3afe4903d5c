package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/freshline/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WeeklyTriggerConfig holds the firing schedule
type WeeklyTriggerConfig struct {
	Weekday       time.Weekday
	Hour          int
	CheckInterval time.Duration
}

// WeeklyTrigger submits the weekly jobs once per ISO week, at the first
// check on or after Weekday at Hour
type WeeklyTrigger struct {
	config    WeeklyTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastWeek  shared.Week
}

// NewWeeklyTrigger creates a new weekly trigger
func NewWeeklyTrigger(cfg WeeklyTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *WeeklyTrigger {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyTrigger{
		config:    cfg,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the trigger loop
func (t *WeeklyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Weekly trigger started",
		zap.String("weekday", t.config.Weekday.String()),
		zap.Int("hour", t.config.Hour),
		zap.Duration("check_interval", t.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger loop
func (t *WeeklyTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	t.cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Weekly trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *WeeklyTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger()
		}
	}
}

// due reports whether now is at or past this week's firing time. Weeks and
// the firing hour are in UTC.
func (t *WeeklyTrigger) due(now time.Time) bool {
	// ISO weeks start on Monday
	offset := (int(t.config.Weekday) + 6) % 7
	fire := shared.WeekOf(now).Start().AddDate(0, 0, offset).Add(time.Duration(t.config.Hour) * time.Hour)
	return !now.UTC().Before(fire)
}

func (t *WeeklyTrigger) checkAndTrigger() {
	now := t.now()
	week := shared.WeekOf(now)

	t.mu.Lock()
	if t.lastWeek == week || !t.due(now) {
		t.mu.Unlock()
		return
	}
	t.lastWeek = week
	t.mu.Unlock()

	t.logger.Info("Triggering weekly jobs", zap.String("week", week.String()))
	t.Trigger(week)
}

// Trigger submits the weekly jobs for current: preorders for the following
// week, and expiry and work orders for current itself
func (t *WeeklyTrigger) Trigger(current shared.Week) []*Job {
	plan := []struct {
		jobType JobType
		week    shared.Week
	}{
		{JobPreOrderGenerate, current.Next()},
		{JobPreOrderExpire, current},
		{JobWorkOrderGenerate, current},
	}

	jobs := make([]*Job, 0, len(plan))
	for _, p := range plan {
		job, err := t.scheduler.SubmitWeekly(p.jobType, p.week)
		if err != nil {
			t.logger.Error("Failed to submit weekly job",
				zap.String("job_type", string(p.jobType)),
				zap.String("week", p.week.String()),
				zap.Error(err),
			)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}
