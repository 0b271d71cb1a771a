// Package project holds the documentation project configuration and the
// action that hands it to a generation pipeline.
//
// A Configuration is owned by a single caller and is not safe for concurrent
// mutation. Setters never validate; validation happens when Generate runs.
package project

import (
	"git.home.luguber.info/inful/docsetgen/internal/foundation"
	"git.home.luguber.info/inful/docsetgen/internal/util/pathutil"
)

// DefaultOutputPath is used when no output path was configured.
const DefaultOutputPath = "./docs"

// Configuration is one documentation project.
type Configuration struct {
	projectName   string
	companyName   string
	companyID     string
	sourceRoot    foundation.Option[string]
	outputPath    string
	templatesPath string
	baseDir       string
}

// New returns an empty configuration writing to DefaultOutputPath.
func New() *Configuration {
	return &Configuration{outputPath: DefaultOutputPath}
}

func (c *Configuration) ProjectName() string { return c.projectName }
func (c *Configuration) CompanyName() string { return c.companyName }
func (c *Configuration) CompanyID() string   { return c.companyID }

// SourceRoot returns the configured source root, if any.
func (c *Configuration) SourceRoot() foundation.Option[string] { return c.sourceRoot }

// OutputPath returns where artifacts are written, defaulting to DefaultOutputPath.
func (c *Configuration) OutputPath() string {
	if c.outputPath == "" {
		return DefaultOutputPath
	}
	return c.outputPath
}

// TemplatesPath returns the configured template directory, or "".
func (c *Configuration) TemplatesPath() string { return c.templatesPath }

func (c *Configuration) SetProjectName(name string) { c.projectName = name }
func (c *Configuration) SetCompanyName(name string) { c.companyName = name }
func (c *Configuration) SetCompanyID(id string)     { c.companyID = id }

// SetSourceRoot sets the source root. An empty path clears it.
func (c *Configuration) SetSourceRoot(path string) { c.sourceRoot = foundation.FromString(path) }

// ClearSourceRoot removes the source root.
func (c *Configuration) ClearSourceRoot() { c.sourceRoot = foundation.None[string]() }

func (c *Configuration) SetOutputPath(path string)    { c.outputPath = path }
func (c *Configuration) SetTemplatesPath(path string) { c.templatesPath = path }

// BaseDir returns the directory relative paths are resolved against. Load
// sets it to the directory holding the project file; "" means the working
// directory.
func (c *Configuration) BaseDir() string { return c.baseDir }

func (c *Configuration) SetBaseDir(dir string) { c.baseDir = dir }

// ResolvePath returns path as an absolute, clean path, resolving a relative
// path against BaseDir.
func (c *Configuration) ResolvePath(path string) string {
	return pathutil.StandardizeRelativeTo(c.baseDir, path)
}
