// Package commands implements the docsetgen command line.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsetgen/internal/config"
	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/identity"
	"git.home.luguber.info/inful/docsetgen/internal/project"
)

// Global carries process-wide state shared by all subcommands.
type Global struct {
	Logger   *slog.Logger
	Settings *config.Settings
	Identity identity.Provider
	FS       afero.Fs
	Out      io.Writer
	Err      io.Writer
}

// NewGlobal returns the Global used by the real binary.
func NewGlobal() *Global {
	return &Global{
		Identity: identity.Default(),
		FS:       afero.NewOsFs(),
		Out:      os.Stdout,
		Err:      os.Stderr,
	}
}

// CLI definition & global flags.
type CLI struct {
	Settings string `help:"Settings file path" default:"docsetgen.yaml" env:"DOCSETGEN_SETTINGS" type:"path"`
	Project  string `short:"p" help:"Project file path" default:"docsetgen.project.yaml" type:"path"`
	Verbose  bool   `short:"v" help:"Enable verbose logging"`

	Init     InitCmd     `cmd:"" help:"Create a project file with defaults from your identity"`
	Show     ShowCmd     `cmd:"" help:"Show the project configuration"`
	Set      SetCmd      `cmd:"" help:"Change one project setting"`
	Generate GenerateCmd `cmd:"" help:"Generate the docset, optionally watching for changes"`
	History  HistoryCmd  `cmd:"" help:"List recorded generation runs"`
	Identity IdentityCmd `cmd:"" help:"Show the identity used for project defaults"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// AfterApply runs after flag parsing; load settings and set up logging once.
func (c *CLI) AfterApply(g *Global) error {
	settings, err := config.Load(c.Settings)
	if err != nil {
		return err
	}
	g.Settings = settings

	level := settings.Logging.Level.Slog()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(g.Err, opts)
	if settings.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(g.Err, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
	return nil
}

// Execute parses args, runs the selected command and returns the process exit code.
func Execute(args []string, g *Global) int {
	cli := &CLI{}
	exitCode := -1
	parser, err := kong.New(cli,
		kong.Name("docsetgen"),
		kong.Description("Manage documentation projects and generate docset bundles."),
		kong.UsageOnError(),
		kong.Writers(g.Out, g.Err),
		kong.Bind(g),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		_, _ = fmt.Fprintf(g.Err, "Error: %v\n", err)
		return 10
	}

	ctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		if derrors.IsClassified(err) {
			return derrors.NewCLIErrorAdapter(cli.Verbose, g.Logger).WithOutput(g.Err).Report(err)
		}
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			_ = parseErr.Context.PrintUsage(true)
		}
		_, _ = fmt.Fprintf(g.Err, "Error: %v\n", err)
		return 2
	}

	err = ctx.Run(g, cli)
	return derrors.NewCLIErrorAdapter(cli.Verbose, g.Logger).WithOutput(g.Err).Report(err)
}

func loadProject(g *Global, root *CLI) (*project.Configuration, error) {
	return project.Load(g.FS, root.Project)
}

func saveProject(g *Global, root *CLI, cfg *project.Configuration) error {
	if err := cfg.Save(g.FS, root.Project); err != nil {
		return derrors.FileSystemError("Failed to write project file").WithCause(err).WithReason(root.Project).Build()
	}
	return nil
}
