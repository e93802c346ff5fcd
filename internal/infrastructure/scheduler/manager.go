// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int64, error)
}

// Manager manages all scheduled maintenance jobs using gocron v2.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewManager creates a new scheduler Manager instance.
func NewManager(log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterBanExpirySweep registers the hourly sweep that flips active bans
// whose expiry has passed. Reads already apply lazy expiry; the sweep only
// keeps stored state and audit-facing reports in line.
func (m *Manager) RegisterBanExpirySweep(job BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runJob(ctx, "ban-expiry-sweep", job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("ban-expiry-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered ban expiry sweep", "interval", "1h")
	return nil
}

// RegisterUsageLogRetention registers the daily prune of ledger entries past
// the retention window.
func (m *Manager) RegisterUsageLogRetention(job BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			m.runJob(ctx, "usage-log-retention", job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("usage-log-retention"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered usage log retention prune", "interval", "24h")
	return nil
}

// RegisterWebhookCacheSweep registers the periodic expiry sweep of the
// delivery credential cache.
func (m *Manager) RegisterWebhookCacheSweep(interval time.Duration, sweep func() int) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if removed := sweep(); removed > 0 {
				m.logger.Debugw("webhook cache sweep completed", "removed", removed)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("webhook-cache-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered webhook cache sweep", "interval", interval)
	return nil
}

func (m *Manager) runJob(ctx context.Context, name string, job BatchJob) {
	processed, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("scheduled job failed", "job", name, "error", err)
		return
	}
	if processed > 0 {
		m.logger.Infow("scheduled job completed", "job", name, "processed", processed)
	}
}

// Start begins running all registered jobs.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	if err := m.scheduler.Shutdown(); err != nil {
		return err
	}

	m.started = false
	m.logger.Infow("scheduler stopped")
	return nil
}
