package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsetgen/internal/generation"
	"git.home.luguber.info/inful/docsetgen/internal/logfields"
)

// schedule wraps a gocron scheduler that requests periodic rebuilds.
type schedule struct {
	scheduler gocron.Scheduler
	jobID     string
}

func newSchedule(interval time.Duration, requests chan<- generation.Trigger) (*schedule, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(request, requests, generation.TriggerSchedule),
		gocron.WithName("scheduled-regeneration"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic regeneration job: %w", err)
	}

	return &schedule{scheduler: s, jobID: job.ID().String()}, nil
}

func (s *schedule) Start() {
	slog.Info("Starting scheduler", slog.String("job_id", s.jobID))
	s.scheduler.Start()
}

func (s *schedule) Stop() {
	slog.Info("Stopping scheduler")
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown error", logfields.Error(err))
	}
}
