package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-outlook/pkg/log"
)

// Sweeper drops expired entries and reports how many were removed.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Scheduler periodically sweeps expired visits.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
}

// New creates a new Scheduler.
func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		interval:  interval,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	interval := s.interval
	if interval <= 0 {
		interval = time.Minute
	}
	logger := log.FromCtx(ctx)

	_, err := s.scheduler.Every(interval).Do(func() {
		removed := s.sweeper.Sweep(time.Now())
		if removed > 0 {
			logger.Info().Int("removed", removed).Msg("scheduler: swept expired visits")
		} else {
			logger.Debug().Msg("scheduler: nothing to sweep")
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
