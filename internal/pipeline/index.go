package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/logfields"
	"git.home.luguber.info/inful/docsetgen/internal/util/fsutil"
	"git.home.luguber.info/inful/docsetgen/internal/util/sets"
	"git.home.luguber.info/inful/docsetgen/internal/util/strutil"
)

const (
	// IndexVersion is written into every index file.
	IndexVersion = "1"

	bundleSuffix = ".docset"
	indexRelPath = "Contents/Resources/index.yaml"
)

// DefaultExtensions are the source file extensions IndexPipeline collects.
var DefaultExtensions = []string{".h", ".m", ".mm", ".md"}

// Index is the document IndexPipeline writes into a bundle.
type Index struct {
	Version    string       `yaml:"version"`
	ID         string       `yaml:"id"`
	Project    string       `yaml:"project"`
	Company    string       `yaml:"company,omitempty"`
	BundleID   string       `yaml:"bundle_id"`
	SourceRoot string       `yaml:"source_root"`
	Templates  string       `yaml:"templates,omitempty"`
	Revision   string       `yaml:"revision,omitempty"`
	Generated  time.Time    `yaml:"generated"`
	Digest     string       `yaml:"digest"`
	Sources    []SourceFile `yaml:"sources"`
}

// SourceFile is one indexed source file.
type SourceFile struct {
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}

// IndexPipeline walks the source root and writes an index of its sources into
// <output>/<bundle id>.docset.
type IndexPipeline struct {
	fs         afero.Fs
	extensions sets.Set[string]
	now        func() time.Time
	revision   func(root string) string
}

// IndexOption configures an IndexPipeline.
type IndexOption func(*IndexPipeline)

// WithExtensions replaces the collected file extensions.
func WithExtensions(exts ...string) IndexOption {
	return func(p *IndexPipeline) {
		p.extensions = sets.New[string]()
		for _, ext := range exts {
			p.extensions.Add(strings.ToLower(ext))
		}
	}
}

// WithClock sets the time source for generated timestamps.
func WithClock(now func() time.Time) IndexOption {
	return func(p *IndexPipeline) { p.now = now }
}

// WithRevisionResolver sets how the source revision is looked up.
func WithRevisionResolver(fn func(root string) string) IndexOption {
	return func(p *IndexPipeline) { p.revision = fn }
}

// NewIndexPipeline returns an IndexPipeline reading and writing through fsys.
func NewIndexPipeline(fsys afero.Fs, opts ...IndexOption) *IndexPipeline {
	p := &IndexPipeline{
		fs:       fsys,
		now:      time.Now,
		revision: GitRevision,
	}
	WithExtensions(DefaultExtensions...)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BundleID derives the bundle identifier for a request:
// "<company id>.<project slug>", or just the slug without a company ID.
func BundleID(req Request) string {
	slug := strutil.Slug(req.ProjectName)
	if slug == "" {
		slug = "docset"
	}
	if req.CompanyID == "" {
		return slug
	}
	return req.CompanyID + "." + slug
}

// Run implements Pipeline.
func (p *IndexPipeline) Run(ctx context.Context, req Request) (*Artifacts, error) {
	if err := p.checkPaths(req); err != nil {
		return nil, err
	}

	bundleID := BundleID(req)
	bundleRoot := filepath.Join(req.OutputPath, bundleID+bundleSuffix)

	sources, err := p.collect(ctx, req.SourceRoot, req.OutputPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	index := Index{
		Version:    IndexVersion,
		ID:         id.String(),
		Project:    req.ProjectName,
		Company:    req.CompanyName,
		BundleID:   bundleID,
		SourceRoot: req.SourceRoot,
		Templates:  req.TemplatesPath,
		Revision:   p.revision(req.SourceRoot),
		Generated:  p.now().UTC(),
		Digest:     ComputeDigest(sources),
		Sources:    sources,
	}

	indexPath := filepath.Join(bundleRoot, filepath.FromSlash(indexRelPath))
	if err := p.writeIndex(indexPath, &index); err != nil {
		return nil, err
	}

	slog.Info("Docset index written",
		logfields.Project(req.ProjectName),
		logfields.BundleID(bundleID),
		logfields.Path(indexPath),
		logfields.Files(len(sources)))

	return &Artifacts{
		ID:        id,
		BundleID:  bundleID,
		Root:      bundleRoot,
		Files:     []string{indexPath},
		Digest:    index.Digest,
		Revision:  index.Revision,
		CreatedAt: index.Generated,
	}, nil
}

func (p *IndexPipeline) checkPaths(req Request) error {
	if req.TemplatesPath != "" && !fsutil.FileExistsAndIsDirectory(p.fs, req.TemplatesPath) {
		if fsutil.FileExistsAndIsFile(p.fs, req.TemplatesPath) {
			return derrors.MakeError(derrors.CodeTemplatePathNotDirectory,
				"Template path is not a directory", req.TemplatesPath)
		}
		return derrors.MakeError(derrors.CodeTemplatePathNotFound,
			"Template path not found", req.TemplatesPath)
	}
	if req.SourceRoot == "" {
		return derrors.MakeError(derrors.CodePathNotFound, "Source root not found", "no source root given")
	}
	if !fsutil.FileExistsAndIsDirectory(p.fs, req.SourceRoot) {
		if fsutil.FileExistsAndIsFile(p.fs, req.SourceRoot) {
			return derrors.MakeError(derrors.CodePathNotADirectory,
				"Source root is not a directory", req.SourceRoot)
		}
		return derrors.MakeError(derrors.CodePathNotFound, "Source root not found", req.SourceRoot)
	}
	if req.OutputPath == "" {
		return derrors.MakeError(derrors.CodeInvalidConfiguration,
			"Invalid project configuration", "output_path: cannot be blank")
	}
	if fsutil.FileExistsAndIsFile(p.fs, req.OutputPath) {
		return derrors.MakeError(derrors.CodePathNotADirectory,
			"Output path is not a directory", req.OutputPath)
	}
	return nil
}

// collect walks root and returns the matching sources sorted by path.
// Hidden entries and anything under skip are ignored.
func (p *IndexPipeline) collect(ctx context.Context, root, skip string) ([]SourceFile, error) {
	var sources []SourceFile
	err := afero.Walk(p.fs, root, func(path string, info fs.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			slog.Warn("Skipping unreadable entry", logfields.Path(path), logfields.Error(walkErr))
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if skip != "" && path == skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !info.Mode().IsRegular() || !p.extensions.Has(ext) {
			return nil
		}
		data, err := afero.ReadFile(p.fs, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		sum := sha256.Sum256(data)
		sources = append(sources, SourceFile{
			Path:   filepath.ToSlash(rel),
			Kind:   kindForExt(ext),
			Size:   int64(len(data)),
			SHA256: hex.EncodeToString(sum[:]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

func (p *IndexPipeline) writeIndex(path string, index *Index) error {
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := p.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}
	if err := afero.WriteFile(p.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// ReadIndex loads an index written by IndexPipeline.
func ReadIndex(fsys afero.Fs, path string) (*Index, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var index Index
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &index, nil
}

// ComputeDigest computes a deterministic hash over a set of source files.
// The result changes whenever a path or a content hash changes.
func ComputeDigest(sources []SourceFile) string {
	if len(sources) == 0 {
		h := sha256.Sum256([]byte("empty-source-set"))
		return hex.EncodeToString(h[:])
	}
	sorted := make([]SourceFile, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := sha256.New()
	for _, s := range sorted {
		_, _ = fmt.Fprintf(h, "%s|%s\n", s.Path, s.SHA256)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func kindForExt(ext string) string {
	switch ext {
	case ".h":
		return "header"
	case ".m", ".mm", ".c", ".cpp":
		return "implementation"
	case ".md", ".markdown", ".txt":
		return "document"
	default:
		return "other"
	}
}
