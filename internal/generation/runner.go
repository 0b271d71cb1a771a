// Package generation runs a project configuration through a pipeline and
// records the outcome in metrics and the run history.
package generation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/history"
	"git.home.luguber.info/inful/docsetgen/internal/logfields"
	"git.home.luguber.info/inful/docsetgen/internal/metrics"
	"git.home.luguber.info/inful/docsetgen/internal/pipeline"
	"git.home.luguber.info/inful/docsetgen/internal/project"
	"git.home.luguber.info/inful/docsetgen/internal/retry"
)

// Trigger names what started a run.
type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerWatch    Trigger = "watch"
	TriggerSchedule Trigger = "schedule"
)

// Runner executes generation runs one at a time.
type Runner struct {
	pipeline pipeline.Pipeline
	recorder metrics.Recorder
	history  history.Store
	logger   *slog.Logger
	now      func() time.Time
	retry    retry.Policy

	mu sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithHistory sets the run history store.
func WithHistory(store history.Store) Option {
	return func(r *Runner) {
		if store != nil {
			r.history = store
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHistoryRetry sets the backoff used when a history write fails transiently.
func WithHistoryRetry(p retry.Policy) Option {
	return func(r *Runner) { r.retry = p }
}

// WithClock sets the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner returns a Runner for p with no metrics and no history.
func NewRunner(p pipeline.Pipeline, opts ...Option) *Runner {
	r := &Runner{
		pipeline: p,
		recorder: metrics.NoopRecorder{},
		history:  history.NopStore{},
		logger:   slog.Default(),
		now:      time.Now,
		retry:    retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is a finished run.
type Result struct {
	Run       history.Run
	Artifacts *pipeline.Artifacts
}

// Run generates documentation for cfg. The returned error is the one from
// project.Configuration.Generate; the Result is always non-nil and describes
// the recorded run.
func (r *Runner) Run(ctx context.Context, cfg *project.Configuration, trigger Trigger) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := history.Run{
		ID:        uuid.NewString(),
		Project:   cfg.ProjectName(),
		Trigger:   string(trigger),
		ErrorCode: int(derrors.CodeNone),
		Started:   r.now(),
	}

	artifacts, err := cfg.Generate(ctx, r.pipeline)

	run.Finished = r.now()
	run.Outcome = string(OutcomeOf(err))
	if err != nil {
		run.ErrorCode = int(derrors.GetCode(err))
	}
	if artifacts != nil {
		run.BundleID = artifacts.BundleID
		run.ArtifactID = artifacts.ID.String()
		run.Digest = artifacts.Digest
		if artifacts.Revision != "" {
			run.Details = map[string]string{"revision": artifacts.Revision}
		}
		r.recorder.ObserveArtifactFiles(len(artifacts.Files))
	}

	duration := run.Duration()
	r.recorder.ObserveGenerationDuration(duration)
	r.recorder.IncGenerationOutcome(OutcomeOf(err))

	// a canceled run is still recorded
	herr := r.retry.Do(context.WithoutCancel(ctx), func(ctx context.Context) error {
		return r.history.Record(ctx, run)
	})
	if herr != nil {
		r.logger.Warn("Failed to record generation run",
			logfields.RunID(run.ID),
			logfields.Error(herr))
	}

	attrs := []any{
		logfields.RunID(run.ID),
		logfields.Project(run.Project),
		logfields.Trigger(run.Trigger),
		logfields.Outcome(run.Outcome),
		logfields.Duration(duration),
	}
	if err != nil {
		level := slog.LevelWarn
		if ce, ok := derrors.AsClassified(err); ok && ce.IsFatal() {
			level = slog.LevelError
		}
		r.logger.Log(context.WithoutCancel(ctx), level, "Documentation generation did not complete",
			append(attrs, logfields.ErrorCode(derrors.GetCode(err).String()), logfields.Error(err))...)
	} else {
		r.logger.Info("Documentation generated",
			append(attrs, logfields.BundleID(run.BundleID), logfields.ArtifactID(run.ArtifactID))...)
	}

	return &Result{Run: run, Artifacts: artifacts}, err
}

// OutcomeOf maps a Generate error to its metrics outcome.
func OutcomeOf(err error) metrics.OutcomeLabel {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case derrors.HasCode(err, derrors.CodeInvalidConfiguration):
		return metrics.OutcomeInvalid
	case derrors.HasCode(err, derrors.CodeGenerationCanceled):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}
