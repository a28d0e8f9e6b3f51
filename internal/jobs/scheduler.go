// Package jobs runs the periodic background work of the portal
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/metrics"
)

// LowCreditSweepJob names the weekly low-credit alert job in logs and metrics
const LowCreditSweepJob = "low_credit_sweep"

const sweepTimeout = 30 * time.Minute

// Sweeper sends the low-credit alerts
type Sweeper interface {
	SendLowCreditAlerts(ctx context.Context) (dto.AlertResult, error)
}

// Scheduler owns the gocron scheduler and its registered jobs
type Scheduler struct {
	sched   gocron.Scheduler
	sweeper Sweeper
	logger  zerolog.Logger
}

// NewScheduler registers the low-credit sweep on a five-field cron schedule
func NewScheduler(sweeper Sweeper, schedule string, logger zerolog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		sched:   sched,
		sweeper: sweeper,
		logger:  logger.With().Str("component", "jobs").Logger(),
	}

	_, err = sched.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(s.runLowCreditSweep),
		gocron.WithName(LowCreditSweepJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule %s with %q: %w", LowCreditSweepJob, schedule, err)
	}

	return s, nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info().Int("jobs", len(s.sched.Jobs())).Msg("Scheduler started")
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) runLowCreditSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	_ = RunLowCreditSweep(ctx, s.sweeper, s.logger)
}

// RunLowCreditSweep performs one sweep and records it in the job metrics
func RunLowCreditSweep(ctx context.Context, sweeper Sweeper, logger zerolog.Logger) error {
	start := time.Now()
	result, err := sweeper.SendLowCreditAlerts(ctx)
	metrics.ObserveJob(LowCreditSweepJob, start, err)
	if err != nil {
		logger.Error().Err(err).Str("job", LowCreditSweepJob).Msg("Low credit sweep failed")
		return err
	}

	logger.Info().
		Str("job", LowCreditSweepJob).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Dur("took", time.Since(start)).
		Msg("Low credit sweep completed")
	return nil
}
