// Package schedule runs delayed and periodic background work on a gocron scheduler.
package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// ErrInvalidInterval is returned for non-positive periodic intervals.
var ErrInvalidInterval = errors.New("interval must be positive")

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
	now       func() time.Time
}

// New creates a scheduler. Jobs do not run until Start is called.
func New(opts ...gocron.SchedulerOption) (*Scheduler, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, now: time.Now}, nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	slog.Debug("Starting scheduler")
	s.scheduler.Start()
}

// Shutdown stops the scheduler and waits for running jobs to return.
// Pending one-time jobs are dropped.
func (s *Scheduler) Shutdown() error {
	slog.Debug("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// After runs fn once, delay from now. A non-positive delay runs it immediately.
func (s *Scheduler) After(name string, delay time.Duration, fn func()) (uuid.UUID, error) {
	start := gocron.OneTimeJobStartImmediately()
	if delay > 0 {
		start = gocron.OneTimeJobStartDateTime(s.now().Add(delay))
	}
	job, err := s.scheduler.NewJob(
		gocron.OneTimeJob(start),
		gocron.NewTask(fn),
		gocron.WithName(name),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create one-time job %q: %w", name, err)
	}
	return job.ID(), nil
}

// Every runs fn each interval. Runs never overlap; a run that is still going
// when the next is due causes that one to be skipped.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) (uuid.UUID, error) {
	if interval <= 0 {
		return uuid.Nil, fmt.Errorf("job %q: %w", name, ErrInvalidInterval)
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create periodic job %q: %w", name, err)
	}
	return job.ID(), nil
}

// Cancel removes a job that has not run yet.
func (s *Scheduler) Cancel(id uuid.UUID) error {
	return s.scheduler.RemoveJob(id)
}

// Pending returns the number of jobs still registered.
func (s *Scheduler) Pending() int {
	return len(s.scheduler.Jobs())
}
