package project

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
)

// FileVersion is the project file format version written by Save.
const FileVersion = "1"

// DefaultFileName is the project file name used when none is given.
const DefaultFileName = "docsetgen.project.yaml"

type fileFormat struct {
	Version       string `yaml:"version"`
	ProjectName   string `yaml:"project_name"`
	CompanyName   string `yaml:"company_name,omitempty"`
	CompanyID     string `yaml:"company_id,omitempty"`
	SourceRoot    string `yaml:"source_root,omitempty"`
	OutputPath    string `yaml:"output_path,omitempty"`
	TemplatesPath string `yaml:"templates_path,omitempty"`
}

// Save writes c to path as YAML.
func (c *Configuration) Save(fsys afero.Fs, path string) error {
	root, _ := c.sourceRoot.Get()
	data, err := yaml.Marshal(fileFormat{
		Version:       FileVersion,
		ProjectName:   c.projectName,
		CompanyName:   c.companyName,
		CompanyID:     c.companyID,
		SourceRoot:    root,
		OutputPath:    c.outputPath,
		TemplatesPath: c.templatesPath,
	})
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create project directory: %w", err)
		}
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

// Load reads a project file written by Save. Setter semantics apply, so a
// loaded configuration is not validated. Relative paths in the file are
// relative to the file's directory.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNotFound, "Project file not readable").
			WithReason(path).
			UserAction().
			Build()
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "Project file is not valid YAML").
			WithReason(path).
			Build()
	}
	if f.Version != FileVersion {
		return nil, derrors.ConfigError("Unsupported project file version").
			WithReason(fmt.Sprintf("%s: version %q, expected %q", path, f.Version, FileVersion)).
			Build()
	}

	c := New()
	c.SetProjectName(f.ProjectName)
	c.SetCompanyName(f.CompanyName)
	c.SetCompanyID(f.CompanyID)
	c.SetSourceRoot(f.SourceRoot)
	c.SetTemplatesPath(f.TemplatesPath)
	if f.OutputPath != "" {
		c.SetOutputPath(f.OutputPath)
	}
	c.SetBaseDir(filepath.Dir(path))
	return c, nil
}
