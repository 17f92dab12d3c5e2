// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/eridehero/eridehero/internal/shared/biztime"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SessionCleaner removes expired login sessions.
type SessionCleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2 on a single
// scheduler instance.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterPriceAlertJob registers the tracker price sweep:
// - Every 15 minutes, re-price all trackers and alert matched watchers
func (m *SchedulerManager) RegisterPriceAlertJob(priceAlertJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runPriceAlerts(ctx, priceAlertJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("tracker", "price-alert"),
		gocron.WithName("price-alert-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered price alert job", "interval", "15m")
	return nil
}

func (m *SchedulerManager) runPriceAlerts(ctx context.Context, job BatchJob) {
	m.logger.Debugw("price alert sweep started")

	startTime := biztime.NowUTC()
	alerted, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("price alert sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if alerted > 0 {
		m.logger.Infow("price alerts sent",
			"count", alerted,
			"duration", time.Since(startTime),
		)
	}
}

// RegisterRoundupJob registers the sales roundup sender:
// - Daily at 09:00 business time; the job itself decides which frequency
//   cohorts are due
func (m *SchedulerManager) RegisterRoundupJob(roundupJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("0 9 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			m.runRoundup(ctx, roundupJob)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("roundup", "email"),
		gocron.WithName("sales-roundup"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered sales roundup job", "schedule", "09:00 daily")
	return nil
}

func (m *SchedulerManager) runRoundup(ctx context.Context, job BatchJob) {
	m.logger.Debugw("sales roundup run started")

	startTime := biztime.NowUTC()
	sent, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("sales roundup run failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("sales roundup run completed",
		"sent", sent,
		"duration", time.Since(startTime),
	)
}

// RegisterSessionCleanupJob registers expired-session cleanup:
// - Daily at 03:00 business time
func (m *SchedulerManager) RegisterSessionCleanupJob(cleaner SessionCleaner) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("0 3 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runSessionCleanup(ctx, cleaner)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("session", "cleanup"),
		gocron.WithName("session-cleanup"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered session cleanup job", "schedule", "03:00 daily")
	return nil
}

func (m *SchedulerManager) runSessionCleanup(ctx context.Context, cleaner SessionCleaner) {
	startTime := biztime.NowUTC()
	removed, err := cleaner.DeleteExpired(ctx)
	if err != nil {
		m.logger.Errorw("session cleanup failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if removed > 0 {
		m.logger.Infow("expired sessions removed",
			"count", removed,
			"duration", time.Since(startTime),
		)
	}
}

// Start begins executing registered jobs. Safe to call once.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		m.logger.Warnw("scheduler already started")
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("scheduler shutdown failed", "error", err)
		return err
	}

	m.started = false
	m.logger.Infow("scheduler stopped")
	return nil
}
