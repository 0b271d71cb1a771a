// Package history records documentation generation runs.
package history

import (
	"context"
	"time"
)

// Run is one recorded generation attempt.
type Run struct {
	ID         string
	Project    string
	BundleID   string
	ArtifactID string
	Trigger    string
	Outcome    string
	// ErrorCode is the numeric error code of a failed run, or -1.
	ErrorCode int
	Digest    string
	Started   time.Time
	Finished  time.Time
	Details   map[string]string
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Store persists generation runs.
type Store interface {
	// Record appends a run.
	Record(ctx context.Context, run Run) error

	// List returns the most recent runs first. An empty project lists all
	// projects; limit <= 0 means no limit.
	List(ctx context.Context, project string, limit int) ([]Run, error)

	// Close closes the store and releases resources.
	Close() error
}

// NopStore discards every run.
type NopStore struct{}

func (NopStore) Record(context.Context, Run) error                { return nil }
func (NopStore) List(context.Context, string, int) ([]Run, error) { return nil, nil }
func (NopStore) Close() error                                     { return nil }
