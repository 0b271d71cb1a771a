// Package pipeline defines the seam between a project configuration and the
// documentation generator that consumes it, plus IndexPipeline, a built-in
// generator that indexes the source tree into a docset bundle without
// rendering any templates.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Request is a validated project configuration handed to a pipeline.
// Paths are absolute and clean.
type Request struct {
	ProjectName   string
	CompanyName   string
	CompanyID     string
	SourceRoot    string
	OutputPath    string
	TemplatesPath string
}

// Artifacts is the handle to the output set a pipeline produced.
type Artifacts struct {
	ID        uuid.UUID
	BundleID  string
	Root      string
	Files     []string
	Digest    string
	Revision  string
	CreatedAt time.Time
}

// Pipeline produces documentation artifacts for a request.
//
// Run blocks until the output is complete or ctx is done. Cancellation before
// any output is written leaves nothing behind; after that it is best effort
// and already written files remain in place.
type Pipeline interface {
	Run(ctx context.Context, req Request) (*Artifacts, error)
}

// Func adapts a function to the Pipeline interface.
type Func func(ctx context.Context, req Request) (*Artifacts, error)

// Run calls f(ctx, req).
func (f Func) Run(ctx context.Context, req Request) (*Artifacts, error) {
	return f(ctx, req)
}
