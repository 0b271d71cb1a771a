package project

import (
	"context"
	"errors"
	"log/slog"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/logfields"
	"git.home.luguber.info/inful/docsetgen/internal/pipeline"
)

// Request validates the configuration and returns the pipeline request with
// every path canonicalized. Relative paths are resolved against BaseDir.
func (c *Configuration) Request() (pipeline.Request, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Request{}, err
	}
	root, _ := c.sourceRoot.Get()
	req := pipeline.Request{
		ProjectName: c.projectName,
		CompanyName: c.companyName,
		CompanyID:   c.companyID,
		SourceRoot:  c.ResolvePath(root),
		OutputPath:  c.ResolvePath(c.OutputPath()),
	}
	if c.templatesPath != "" {
		req.TemplatesPath = c.ResolvePath(c.templatesPath)
	}
	return req, nil
}

// Generate validates the configuration and runs p with it.
//
// Validation failures are CodeInvalidConfiguration and p is not called. A
// context that is already done yields CodeGenerationCanceled without calling
// p. Classified errors from p are returned unchanged; cancellation becomes
// CodeGenerationCanceled and anything else CodePipelineFailure. Output written
// before a cancellation is left in place.
func (c *Configuration) Generate(ctx context.Context, p pipeline.Pipeline) (*pipeline.Artifacts, error) {
	req, err := c.Request()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, derrors.MakeError(derrors.CodePipelineFailure, "Documentation generation failed", "no pipeline configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	slog.Debug("Starting documentation generation",
		logfields.Project(req.ProjectName),
		logfields.Path(req.SourceRoot))

	artifacts, err := p.Run(ctx, req)
	switch {
	case err == nil && artifacts == nil:
		return nil, derrors.MakeError(derrors.CodePipelineFailure, "Documentation generation failed", "pipeline returned no artifacts")
	case err == nil:
		return artifacts, nil
	case derrors.IsClassified(err):
		return nil, err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, canceled(err)
	default:
		return nil, derrors.WrapError(err, derrors.CategoryPipeline, "Documentation generation failed").
			WithCode(derrors.CodePipelineFailure).
			WithReason(err.Error()).
			WithContext("project", req.ProjectName).
			Build()
	}
}

func canceled(cause error) error {
	return derrors.WrapError(cause, derrors.CategoryRuntime, "Documentation generation canceled").
		WithCode(derrors.CodeGenerationCanceled).
		WithReason(cause.Error()).
		Build()
}
