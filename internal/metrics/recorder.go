package metrics

import "time"

// OutcomeLabel enumerates generation outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeInvalid  OutcomeLabel = "invalid"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for generation runs. Implementations
// must be safe for concurrent use.
type Recorder interface {
	ObserveGenerationDuration(d time.Duration)
	IncGenerationOutcome(outcome OutcomeLabel)
	ObserveArtifactFiles(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveGenerationDuration(time.Duration) {}
func (NoopRecorder) IncGenerationOutcome(OutcomeLabel)       {}
func (NoopRecorder) ObserveArtifactFiles(int)                {}
