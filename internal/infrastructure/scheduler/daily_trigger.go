package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
)

// Submitter accepts jobs; *Scheduler implements it
type Submitter interface {
	SubmitType(jobType JobType) (*Job, error)
}

// DailyTriggerConfig holds the time of day the daily jobs run
type DailyTriggerConfig struct {
	Hour          int
	Minute        int
	CheckInterval time.Duration
	Location      *time.Location
}

// DefaultDailyTriggerConfig runs the daily jobs at 07:00 local time
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		Hour:          7,
		Minute:        0,
		CheckInterval: time.Minute,
		Location:      time.Local,
	}
}

// DailyTrigger submits the daily jobs once per calendar day, on the first
// check at or after the configured time. A process started after that time
// still runs the jobs for the day.
type DailyTrigger struct {
	config    DailyTriggerConfig
	submitter Submitter
	jobTypes  []JobType
	clock     shared.Clock
	logger    *zap.Logger

	mu      sync.Mutex
	lastRun string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDailyTrigger creates a trigger for the given job types, DailyJobTypes when empty
func NewDailyTrigger(cfg DailyTriggerConfig, submitter Submitter, logger *zap.Logger, jobTypes ...JobType) *DailyTrigger {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if len(jobTypes) == 0 {
		jobTypes = DailyJobTypes()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		config:    cfg,
		submitter: submitter,
		jobTypes:  jobTypes,
		clock:     shared.SystemClock,
		logger:    logger,
	}
}

// SetClock overrides the clock
func (t *DailyTrigger) SetClock(clock shared.Clock) {
	if clock != nil {
		t.clock = clock
	}
}

// Start begins checking the time every CheckInterval
func (t *DailyTrigger) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Daily trigger started",
		zap.Int("hour", t.config.Hour),
		zap.Int("minute", t.config.Minute),
	)
}

// Stop ends the check loop
func (t *DailyTrigger) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		t.wg.Wait()
	}
}

func (t *DailyTrigger) loop(ctx context.Context) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	t.Check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Check()
		}
	}
}

// Check submits the daily jobs if they are due and have not run today.
// It reports whether jobs were submitted.
func (t *DailyTrigger) Check() bool {
	now := t.clock().In(t.config.Location)
	today := now.Format("2006-01-02")
	due := time.Date(now.Year(), now.Month(), now.Day(), t.config.Hour, t.config.Minute, 0, 0, t.config.Location)

	t.mu.Lock()
	if t.lastRun == today || now.Before(due) {
		t.mu.Unlock()
		return false
	}
	t.lastRun = today
	t.mu.Unlock()

	t.logger.Info("Submitting daily jobs", zap.String("date", today))
	t.RunNow()
	return true
}

// RunNow submits the trigger's jobs immediately
func (t *DailyTrigger) RunNow() {
	for _, jt := range t.jobTypes {
		if _, err := t.submitter.SubmitType(jt); err != nil {
			t.logger.Error("Failed to submit daily job",
				zap.String("job_type", string(jt)),
				zap.Error(err),
			)
		}
	}
}
