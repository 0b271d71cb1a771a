package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/identity"
	"git.home.luguber.info/inful/docsetgen/internal/pipeline"
)

// recordingPipeline captures the request it was handed.
type recordingPipeline struct {
	calls int
	req   pipeline.Request
	err   error
	nilOK bool
}

func (r *recordingPipeline) Run(_ context.Context, req pipeline.Request) (*pipeline.Artifacts, error) {
	r.calls++
	r.req = req
	if r.err != nil {
		return nil, r.err
	}
	if r.nilOK {
		return nil, nil
	}
	return &pipeline.Artifacts{BundleID: req.CompanyID, Root: req.OutputPath}, nil
}

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Empty(t, c.ProjectName())
	assert.True(t, c.SourceRoot().IsNone())
	assert.Equal(t, DefaultOutputPath, c.OutputPath())

	c.SetOutputPath("")
	assert.Equal(t, DefaultOutputPath, c.OutputPath())
}

func TestSettersDoNotValidate(t *testing.T) {
	c := New()
	c.SetCompanyID("not valid!")
	c.SetProjectName("   ")
	assert.Equal(t, "not valid!", c.CompanyID())

	c.SetSourceRoot("./src")
	root, ok := c.SourceRoot().Get()
	require.True(t, ok)
	assert.Equal(t, "./src", root)

	c.SetSourceRoot("")
	assert.True(t, c.SourceRoot().IsNone())

	c.SetSourceRoot("src")
	c.ClearSourceRoot()
	assert.True(t, c.SourceRoot().IsNone())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Configuration)
		fields []string
	}{
		{
			name: "valid",
			setup: func(c *Configuration) {
				c.SetProjectName("Demo")
				c.SetCompanyID("com.example")
				c.SetSourceRoot("/src")
			},
		},
		{
			name: "company id optional",
			setup: func(c *Configuration) {
				c.SetProjectName("Demo")
				c.SetSourceRoot("/src")
			},
		},
		{
			name:   "empty",
			setup:  func(*Configuration) {},
			fields: []string{"project_name", "source_root"},
		},
		{
			name: "blank project name",
			setup: func(c *Configuration) {
				c.SetProjectName(" \t")
				c.SetSourceRoot("/src")
			},
			fields: []string{"project_name"},
		},
		{
			name: "bad company id",
			setup: func(c *Configuration) {
				c.SetProjectName("Demo")
				c.SetCompanyID("com example")
				c.SetSourceRoot("/src")
			},
			fields: []string{"company_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.setup(c)
			err := c.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, derrors.HasCode(err, derrors.CodeInvalidConfiguration))
			ce, ok := derrors.AsClassified(err)
			require.True(t, ok)
			fields, _ := ce.Context().Get("fields")
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestGenerateInvalidDoesNotRunPipeline(t *testing.T) {
	p := &recordingPipeline{}

	c := New()
	c.SetSourceRoot("/src")
	artifacts, err := c.Generate(context.Background(), p)

	require.Error(t, err)
	assert.Nil(t, artifacts)
	assert.True(t, derrors.HasCode(err, derrors.CodeInvalidConfiguration))
	assert.Equal(t, 0, p.calls)

	// nothing reaches the filesystem either
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/src", 0o755))
	_, err = c.Generate(context.Background(), pipeline.NewIndexPipeline(fsys))
	require.Error(t, err)
	var paths []string
	require.NoError(t, afero.Walk(fsys, "/", func(path string, _ os.FileInfo, err error) error {
		paths = append(paths, path)
		return err
	}))
	assert.Equal(t, []string{"/", "/src"}, paths)
}

func TestGenerateCanonicalizesPaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	wd, err := filepath.Abs(".")
	require.NoError(t, err)

	c := New()
	c.SetProjectName("Demo")
	c.SetCompanyID("com.example.demo")
	c.SetSourceRoot("./src")
	c.SetTemplatesPath("templates/../tpl")

	p := &recordingPipeline{}
	artifacts, err := c.Generate(context.Background(), p)
	require.NoError(t, err)
	require.NotNil(t, artifacts)

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "Demo", p.req.ProjectName)
	assert.Equal(t, "com.example.demo", p.req.CompanyID)
	assert.True(t, filepath.IsAbs(p.req.SourceRoot))
	assert.Equal(t, filepath.Join(wd, "src"), p.req.SourceRoot)
	assert.Equal(t, filepath.Join(wd, "docs"), p.req.OutputPath)
	assert.Equal(t, filepath.Join(wd, "tpl"), p.req.TemplatesPath)

	// the stored configuration keeps what the caller set
	root, _ := c.SourceRoot().Get()
	assert.Equal(t, "./src", root)
}

func TestGenerateErrorMapping(t *testing.T) {
	classified := derrors.MakeError(derrors.CodePathNotFound, "Source root not found", "/missing")

	tests := []struct {
		name string
		p    *recordingPipeline
		code derrors.ErrorCode
	}{
		{"classified passes through", &recordingPipeline{err: classified}, derrors.CodePathNotFound},
		{"canceled", &recordingPipeline{err: context.Canceled}, derrors.CodeGenerationCanceled},
		{"deadline", &recordingPipeline{err: context.DeadlineExceeded}, derrors.CodeGenerationCanceled},
		{"plain error", &recordingPipeline{err: errors.New("disk full")}, derrors.CodePipelineFailure},
		{"no artifacts", &recordingPipeline{nilOK: true}, derrors.CodePipelineFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SetProjectName("Demo")
			c.SetSourceRoot("/src")

			_, err := c.Generate(context.Background(), tt.p)
			require.Error(t, err)
			assert.Equal(t, tt.code, derrors.GetCode(err))
		})
	}

	t.Run("cause kept", func(t *testing.T) {
		c := New()
		c.SetProjectName("Demo")
		c.SetSourceRoot("/src")
		cause := errors.New("disk full")
		_, err := c.Generate(context.Background(), &recordingPipeline{err: cause})
		assert.ErrorIs(t, err, cause)
	})
}

func TestGenerateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New()
	c.SetProjectName("Demo")
	c.SetSourceRoot("/src")
	p := &recordingPipeline{}

	_, err := c.Generate(ctx, p)
	require.Error(t, err)
	assert.True(t, derrors.HasCode(err, derrors.CodeGenerationCanceled))
	assert.Equal(t, 0, p.calls)
}

func TestGenerateWithIndexPipeline(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/work/src", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/work/src/Demo.h", []byte("@interface Demo"), 0o644))

	c := New()
	c.SetProjectName("Demo")
	c.SetCompanyID("com.example")
	c.SetSourceRoot("/work/src")
	c.SetOutputPath("/work/out")

	p := pipeline.NewIndexPipeline(fsys, pipeline.WithRevisionResolver(func(string) string { return "" }))
	artifacts, err := c.Generate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "com.example.demo", artifacts.BundleID)

	require.Len(t, artifacts.Files, 1)
	index, err := pipeline.ReadIndex(fsys, artifacts.Files[0])
	require.NoError(t, err)
	assert.Equal(t, "Demo", index.Project)
	assert.Equal(t, "/work/src", index.SourceRoot)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()

	c := New()
	c.SetProjectName("Demo")
	c.SetCompanyName("Example Inc")
	c.SetCompanyID("com.example")
	c.SetSourceRoot("./src")
	c.SetOutputPath("./out")

	require.NoError(t, c.Save(fsys, "/proj/"+DefaultFileName))

	data, err := afero.ReadFile(fsys, "/proj/"+DefaultFileName)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `version: "1"`))

	loaded, err := Load(fsys, "/proj/"+DefaultFileName)
	require.NoError(t, err)
	assert.Equal(t, "/proj", loaded.BaseDir())
	c.SetBaseDir("/proj")
	assert.Equal(t, c, loaded)
}

func TestRequestResolvesAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	wd, err := filepath.Abs(".")
	require.NoError(t, err)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	c := New()
	c.SetProjectName("Demo")
	c.SetSourceRoot("./src")
	c.SetTemplatesPath("~/tpl")
	c.SetBaseDir("sub")

	req, err := c.Request()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "sub", "src"), req.SourceRoot)
	assert.Equal(t, filepath.Join(wd, "sub", "docs"), req.OutputPath)
	assert.Equal(t, filepath.Join(home, "tpl"), req.TemplatesPath)

	abs := filepath.Join(wd, "elsewhere")
	c.SetOutputPath(abs)
	req, err = c.Request()
	require.NoError(t, err)
	assert.Equal(t, abs, req.OutputPath)
}

func TestLoadedProjectResolvesFromFileDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	c := New()
	c.SetProjectName("Demo")
	c.SetSourceRoot("./src")
	c.SetOutputPath("../site")
	require.NoError(t, c.Save(fsys, "/work/sub/"+DefaultFileName))

	loaded, err := Load(fsys, "/work/sub/"+DefaultFileName)
	require.NoError(t, err)
	req, err := loaded.Request()
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/work/sub/src"), req.SourceRoot)
	assert.Equal(t, filepath.FromSlash("/work/site"), req.OutputPath)

	// the file keeps the relative values
	root, _ := loaded.SourceRoot().Get()
	assert.Equal(t, "./src", root)
}

func TestLoadDefaultsOutputPath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "p.yaml", []byte("version: \"1\"\nproject_name: Demo\n"), 0o644))

	c, err := Load(fsys, "p.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Demo", c.ProjectName())
	assert.Equal(t, DefaultOutputPath, c.OutputPath())
	assert.True(t, c.SourceRoot().IsNone())
}

func TestLoadErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "v2.yaml", []byte("version: \"2\"\nproject_name: Demo\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "bad.yaml", []byte("project_name: [unclosed"), 0o644))

	_, err := Load(fsys, "v2.yaml")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
	assert.Contains(t, err.Error(), `version "2"`)

	_, err = Load(fsys, "bad.yaml")
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	_, err = Load(fsys, "missing.yaml")
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
}

func TestFromIdentity(t *testing.T) {
	tests := []struct {
		name        string
		provider    identity.Provider
		companyName string
		companyID   string
	}{
		{"company", identity.Static{Company: "Example Inc"}, "Example Inc", "com.example-inc"},
		{"accented company", identity.Static{Company: "Café Ltd"}, "Café Ltd", "com.cafe-ltd"},
		{"person fallback", identity.Static{First: "Ada", Last: "Lovelace"}, "", "com.ada-lovelace"},
		{"nickname fallback", identity.Static{Nick: "ada"}, "", "com.ada"},
		{"nothing", identity.Static{}, "", ""},
		{"nil provider", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FromIdentity(tt.provider)
			assert.Equal(t, tt.companyName, c.CompanyName())
			assert.Equal(t, tt.companyID, c.CompanyID())
			assert.Equal(t, DefaultOutputPath, c.OutputPath())
		})
	}
}
