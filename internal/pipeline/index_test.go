package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
)

var fixedTime = time.Date(2026, 3, 17, 9, 30, 0, 0, time.UTC)

func newTestPipeline(fsys afero.Fs) *IndexPipeline {
	return NewIndexPipeline(fsys,
		WithClock(func() time.Time { return fixedTime }),
		WithRevisionResolver(func(string) string { return "" }))
}

func seedSources(t *testing.T, fsys afero.Fs) {
	t.Helper()
	files := map[string]string{
		"/work/src/GBDocument.h":                 "@interface GBDocument : NSDocument",
		"/work/src/GBDocument.m":                 "@implementation GBDocument",
		"/work/src/Common/Extensions.h":          "@interface NSError (Appledoc)",
		"/work/src/README.md":                    "# Demo",
		"/work/src/Makefile":                     "all:",
		"/work/src/.git/HEAD":                    "ref: refs/heads/main",
		"/work/src/.hidden.h":                    "ignored",
		"/work/src/docs/old.docset/Contents/x.h": "stale output",
	}
	for path, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func TestIndexPipelineRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedSources(t, fsys)

	req := Request{
		ProjectName: "Demo",
		CompanyName: "Example Inc",
		CompanyID:   "com.example",
		SourceRoot:  "/work/src",
		OutputPath:  "/work/src/docs",
	}
	artifacts, err := newTestPipeline(fsys).Run(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, artifacts)

	assert.Equal(t, "com.example.demo", artifacts.BundleID)
	assert.Equal(t, "/work/src/docs/com.example.demo.docset", artifacts.Root)
	assert.Equal(t, fixedTime, artifacts.CreatedAt)
	require.Len(t, artifacts.Files, 1)

	index, err := ReadIndex(fsys, artifacts.Files[0])
	require.NoError(t, err)
	assert.Equal(t, IndexVersion, index.Version)
	assert.Equal(t, artifacts.ID.String(), index.ID)
	assert.Equal(t, "Demo", index.Project)
	assert.Equal(t, artifacts.Digest, index.Digest)

	var paths []string
	for _, s := range index.Sources {
		paths = append(paths, s.Path)
	}
	assert.Equal(t, []string{"Common/Extensions.h", "GBDocument.h", "GBDocument.m", "README.md"}, paths)
	assert.Equal(t, "header", index.Sources[0].Kind)
	assert.Equal(t, "implementation", index.Sources[2].Kind)
	assert.Equal(t, "document", index.Sources[3].Kind)
	assert.Equal(t, ComputeDigest(index.Sources), index.Digest)
}

func TestIndexPipelineWithExtensions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedSources(t, fsys)

	p := NewIndexPipeline(fsys, WithExtensions(".H"), WithRevisionResolver(func(string) string { return "abc123" }))
	artifacts, err := p.Run(context.Background(), Request{
		ProjectName: "Demo",
		SourceRoot:  "/work/src",
		OutputPath:  "/out",
	})
	require.NoError(t, err)
	assert.Equal(t, "demo", artifacts.BundleID)
	assert.Equal(t, "abc123", artifacts.Revision)

	index, err := ReadIndex(fsys, artifacts.Files[0])
	require.NoError(t, err)
	assert.Len(t, index.Sources, 3)
}

func TestIndexPipelinePathErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedSources(t, fsys)
	require.NoError(t, fsys.MkdirAll("/templates", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/templates.zip", []byte("zip"), 0o644))

	base := Request{ProjectName: "Demo", SourceRoot: "/work/src", OutputPath: "/out"}

	tests := []struct {
		name   string
		modify func(*Request)
		code   derrors.ErrorCode
	}{
		{"templates missing", func(r *Request) { r.TemplatesPath = "/nope" }, derrors.CodeTemplatePathNotFound},
		{"templates is a file", func(r *Request) { r.TemplatesPath = "/templates.zip" }, derrors.CodeTemplatePathNotDirectory},
		{"source root missing", func(r *Request) { r.SourceRoot = "/missing" }, derrors.CodePathNotFound},
		{"source root empty", func(r *Request) { r.SourceRoot = "" }, derrors.CodePathNotFound},
		{"source root is a file", func(r *Request) { r.SourceRoot = "/work/src/GBDocument.h" }, derrors.CodePathNotADirectory},
		{"output is a file", func(r *Request) { r.OutputPath = "/templates.zip" }, derrors.CodePathNotADirectory},
		{"output empty", func(r *Request) { r.OutputPath = "" }, derrors.CodeInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.modify(&req)
			artifacts, err := newTestPipeline(fsys).Run(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, artifacts)
			assert.Equal(t, tt.code, derrors.GetCode(err))
		})
	}

	t.Run("valid templates directory", func(t *testing.T) {
		req := base
		req.TemplatesPath = "/templates"
		_, err := newTestPipeline(fsys).Run(context.Background(), req)
		require.NoError(t, err)
	})
}

func TestIndexPipelineCanceledWritesNothing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	seedSources(t, fsys)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(fsys).Run(ctx, Request{ProjectName: "Demo", SourceRoot: "/work/src", OutputPath: "/out"})
	require.ErrorIs(t, err, context.Canceled)

	exists, err := afero.Exists(fsys, "/out")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestComputeDigest(t *testing.T) {
	a := []SourceFile{{Path: "a.h", SHA256: "1"}, {Path: "b.h", SHA256: "2"}}
	b := []SourceFile{{Path: "b.h", SHA256: "2"}, {Path: "a.h", SHA256: "1"}}
	c := []SourceFile{{Path: "a.h", SHA256: "1"}, {Path: "b.h", SHA256: "3"}}

	assert.Equal(t, ComputeDigest(a), ComputeDigest(b), "order must not matter")
	assert.NotEqual(t, ComputeDigest(a), ComputeDigest(c))
	assert.Equal(t, ComputeDigest(nil), ComputeDigest([]SourceFile{}))
	assert.NotEqual(t, ComputeDigest(nil), ComputeDigest(a))
}

func TestBundleID(t *testing.T) {
	assert.Equal(t, "com.example.demo", BundleID(Request{ProjectName: "Demo", CompanyID: "com.example"}))
	assert.Equal(t, "my-app", BundleID(Request{ProjectName: "My App"}))
	assert.Equal(t, "docset", BundleID(Request{ProjectName: "!!!"}))
}

func TestGitRevision(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, GitRevision(dir), "plain directory has no revision")

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	assert.Empty(t, GitRevision(dir), "unborn HEAD has no revision")

	require.NoError(t, afero.WriteFile(afero.NewOsFs(), filepath.Join(dir, "Foo.h"), []byte("@interface Foo"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("Foo.h")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: fixedTime},
	})
	require.NoError(t, err)

	require.NoError(t, afero.NewOsFs().MkdirAll(filepath.Join(dir, "Classes"), 0o755))
	assert.Equal(t, hash.String(), GitRevision(filepath.Join(dir, "Classes")))
}
