// Package scheduler drives the periodic billing rollover.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RolloverRunner executes one rollover pass over all pending invoices
type RolloverRunner interface {
	Run(ctx context.Context, now time.Time) error
}

// RolloverTriggerConfig holds configuration for the rollover trigger
type RolloverTriggerConfig struct {
	// RunHour is the hour of day (24h format) the rollover runs at
	RunHour int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultRolloverTriggerConfig returns default rollover trigger configuration
func DefaultRolloverTriggerConfig() RolloverTriggerConfig {
	return RolloverTriggerConfig{
		RunHour:       2, // 2am
		CheckInterval: time.Minute,
	}
}

// RolloverTrigger runs the monthly rollover once per day at the
// configured hour. Running daily rather than only on the first of the
// month lets invoices missed by an outage catch up on the next pass.
type RolloverTrigger struct {
	config RolloverTriggerConfig
	runner RolloverRunner
	logger *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewRolloverTrigger creates a new rollover trigger
func NewRolloverTrigger(config RolloverTriggerConfig, runner RolloverRunner, logger *zap.Logger) *RolloverTrigger {
	return &RolloverTrigger{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the rollover trigger
func (t *RolloverTrigger) Start(ctx context.Context) error {
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

	t.logger.Info("Rollover trigger started",
		zap.Int("run_hour", t.config.RunHour),
		zap.Duration("check_interval", t.config.CheckInterval),
	)

	return nil
}

// Stop stops the rollover trigger and waits for the loop to exit
func (t *RolloverTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Rollover trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the rollover
func (t *RolloverTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the rollover if the hour has arrived and it has
// not run yet today
func (t *RolloverTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	// Skip if we already ran today
	t.mu.Lock()
	if t.lastRunDate == currentDate {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	if now.Hour() != t.config.RunHour {
		return
	}

	t.mu.Lock()
	t.lastRunDate = currentDate
	t.mu.Unlock()

	t.logger.Info("Triggering invoice rollover")
	if err := t.runner.Run(ctx, now); err != nil {
		t.logger.Error("Invoice rollover finished with errors", zap.Error(err))
	}
}

// TriggerManualRun allows running the rollover outside the schedule
func (t *RolloverTrigger) TriggerManualRun(ctx context.Context, now time.Time) error {
	return t.runner.Run(ctx, now)
}
