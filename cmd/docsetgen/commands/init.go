package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/project"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Name      string `arg:"" optional:"" help:"Project name (defaults to the project file's directory name)"`
	Source    string `short:"s" help:"Source root, relative to the project file" default:"."`
	Output    string `short:"o" help:"Output path, relative to the project file" default:"./docs"`
	Templates string `help:"Template directory"`
	CompanyID string `name:"company-id" help:"Company identifier (defaults to one derived from your identity)"`
	Force     bool   `help:"Overwrite an existing project file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	exists, err := afero.Exists(g.FS, root.Project)
	if err != nil {
		return derrors.FileSystemError("Failed to check project file").WithCause(err).WithReason(root.Project).Build()
	}
	if exists && !i.Force {
		return derrors.ValidationError("Project file already exists").
			WithReason(root.Project + " (use --force to overwrite)").
			Build()
	}

	name := i.Name
	if name == "" {
		if dir, err := filepath.Abs(filepath.Dir(root.Project)); err == nil {
			name = filepath.Base(dir)
		}
	}

	cfg := project.FromIdentity(g.Identity)
	cfg.SetProjectName(name)
	cfg.SetSourceRoot(i.Source)
	cfg.SetOutputPath(i.Output)
	cfg.SetTemplatesPath(i.Templates)
	if i.CompanyID != "" {
		cfg.SetCompanyID(i.CompanyID)
	}

	if err := saveProject(g, root, cfg); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Wrote project file %s\n", root.Project)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(g.Out, "Note: project is not ready to generate yet: %s\n", reasonOf(err))
	}
	return nil
}

func reasonOf(err error) string {
	if ce, ok := derrors.AsClassified(err); ok && ce.Reason() != "" {
		return ce.Reason()
	}
	return err.Error()
}
