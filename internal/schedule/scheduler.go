// Package schedule runs recurring deploys with gocron. Jobs run in singleton
// mode: a tick that arrives while the previous run is still going is
// rescheduled instead of starting a second, overlapping run.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps a gocron scheduler.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins executing scheduled jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop(_ context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs task every interval. With immediately set, the first
// run starts as soon as the scheduler does.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, immediately bool, task func()) (string, error) {
	if interval <= 0 {
		return "", errors.New("interval must be positive")
	}
	opts := s.jobOptions(name)
	if immediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	job, err := s.scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(task), opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic job: %w", err)
	}
	return job.ID().String(), nil
}

// ScheduleCron runs task on a five-field cron expression.
func (s *Scheduler) ScheduleCron(name, expr string, task func()) (string, error) {
	job, err := s.scheduler.NewJob(gocron.CronJob(expr, false), gocron.NewTask(task), s.jobOptions(name)...)
	if err != nil {
		return "", fmt.Errorf("failed to create cron job: %w", err)
	}
	return job.ID().String(), nil
}

// NextRun reports when the job with the given id fires next.
func (s *Scheduler) NextRun(id string) (time.Time, error) {
	for _, job := range s.scheduler.Jobs() {
		if job.ID().String() == id {
			return job.NextRun()
		}
	}
	return time.Time{}, fmt.Errorf("job %s not found", id)
}

func (s *Scheduler) jobOptions(name string) []gocron.JobOption {
	return []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
}
