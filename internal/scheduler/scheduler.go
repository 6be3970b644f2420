// Package scheduler runs a job on a fixed interval without overlapping runs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron"
)

// Scheduler wraps a gocron scheduler holding a single singleton-mode job.
type Scheduler struct {
	cron *gocron.Scheduler
	job  *gocron.Job
	name string
}

// New schedules fn every interval, starting immediately once Start is called.
// A tick that fires while fn is still running is dropped.
func New(ctx context.Context, name string, interval time.Duration, fn func(ctx context.Context)) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval %s for job %s", interval, name)
	}

	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	job, err := cron.Every(interval).Tag(name).Do(func() {
		log.Debug("Scheduled job firing", "job", name)
		fn(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	return &Scheduler{cron: cron, job: job, name: name}, nil
}

// Start runs the job now and then on every tick, in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	log.Info("Scheduler started", "job", s.name, "next_run", s.NextRun())
}

// Stop stops scheduling new runs. A run in progress is not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info("Scheduler stopped", "job", s.name)
}

// NextRun returns when the job fires next.
func (s *Scheduler) NextRun() time.Time {
	return s.job.NextRun()
}

// IsRunning reports whether the scheduler has been started and not stopped.
func (s *Scheduler) IsRunning() bool {
	return s.cron.IsRunning()
}
