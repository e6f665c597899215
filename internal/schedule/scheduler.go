// Package schedule runs generation on a recurring schedule.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/citepage/internal/logfields"
)

// Scheduler wraps a gocron scheduler. Jobs run in singleton mode: a run
// that is still in progress when the next tick fires causes that tick to be
// skipped.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance. loc is used to interpret
// cron expressions; nil means time.Local.
func NewScheduler(loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// ScheduleCron registers task under a standard five-field cron expression
// and returns the job ID.
func (s *Scheduler) ScheduleCron(name, expr string, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create cron job %q: %w", expr, err)
	}
	slog.Info("Scheduled job", slog.String("name", name), logfields.Schedule(expr))
	return job.ID().String(), nil
}

// ScheduleEvery registers task at a fixed interval and returns the job ID.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, task func()) (string, error) {
	if interval <= 0 {
		return "", errors.New("interval must be positive")
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create interval job: %w", err)
	}
	slog.Info("Scheduled job", slog.String("name", name), logfields.Schedule(interval.String()))
	return job.ID().String(), nil
}

// Remove unregisters the job with the given ID.
func (s *Scheduler) Remove(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", id, err)
	}
	if err := s.scheduler.RemoveJob(uid); err != nil {
		return fmt.Errorf("failed to remove job %s: %w", id, err)
	}
	return nil
}

// NextRun reports when the first registered job fires next.
func (s *Scheduler) NextRun() (time.Time, error) {
	jobs := s.scheduler.Jobs()
	if len(jobs) == 0 {
		return time.Time{}, errors.New("no jobs scheduled")
	}
	return jobs[0].NextRun()
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	return s.Stop()
}
