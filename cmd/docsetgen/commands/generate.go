package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetgen/internal/generation"
	"git.home.luguber.info/inful/docsetgen/internal/history"
	"git.home.luguber.info/inful/docsetgen/internal/logfields"
	"git.home.luguber.info/inful/docsetgen/internal/metrics"
	"git.home.luguber.info/inful/docsetgen/internal/pipeline"
	"git.home.luguber.info/inful/docsetgen/internal/project"
	"git.home.luguber.info/inful/docsetgen/internal/util/pathutil"
	"git.home.luguber.info/inful/docsetgen/internal/watch"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Watch       bool          `short:"w" help:"Keep running and regenerate when sources change"`
	Schedule    time.Duration `help:"Also regenerate on this interval (implies --watch)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address while watching"`
	NoHistory   bool          `name:"no-history" help:"Do not record this run in the history database"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return c.run(sigctx, g, root)
}

func (c *GenerateCmd) run(ctx context.Context, g *Global, root *CLI) error {
	store, err := c.openHistory(g)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	watching := c.Watch || c.Schedule > 0
	opts := []generation.Option{generation.WithHistory(store), generation.WithLogger(g.Logger)}

	var reg *prom.Registry
	metricsAddr := c.MetricsAddr
	if metricsAddr == "" && g.Settings.Metrics.Enabled {
		metricsAddr = g.Settings.Metrics.Addr
	}
	if watching && metricsAddr != "" {
		reg = prom.NewRegistry()
		opts = append(opts, generation.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	}

	runner := generation.NewRunner(pipeline.NewIndexPipeline(g.FS), opts...)

	cfg, err := c.loadForRun(g, root)
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx, cfg, generation.TriggerManual)
	if !watching {
		if err != nil {
			return err
		}
		printResult(g, res)
		return nil
	}
	if err == nil {
		printResult(g, res)
	}

	if reg != nil {
		srv := startMetricsServer(metricsAddr, g.Settings.Metrics.Path, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sourceRoot, ok := cfg.SourceRoot().Get()
	if !ok {
		// the initial run already reported the invalid configuration
		return err
	}
	interval := c.Schedule
	if interval == 0 {
		interval = g.Settings.Watch.Interval
	}

	w := watch.New(cfg.ResolvePath(sourceRoot),
		func(ctx context.Context, trigger generation.Trigger) {
			// reload so edits made with 'set' apply to the next run
			cfg, err := c.loadForRun(g, root)
			if err != nil {
				g.Logger.Warn("Failed to reload project file", logfields.Path(root.Project), logfields.Error(err))
				return
			}
			if res, err := runner.Run(ctx, cfg, trigger); err == nil {
				printResult(g, res)
			}
		},
		watch.WithDebounce(g.Settings.Watch.Debounce),
		watch.WithInterval(interval),
		watch.WithIgnoredDirs(cfg.ResolvePath(cfg.OutputPath())),
	)
	return w.Run(ctx)
}

// loadForRun loads the project file and applies settings-level overrides.
// Settings paths are relative to the working directory, not the project file.
func (c *GenerateCmd) loadForRun(g *Global, root *CLI) (*project.Configuration, error) {
	cfg, err := loadProject(g, root)
	if err != nil {
		return nil, err
	}
	if g.Settings.OutputDir != "" {
		cfg.SetOutputPath(pathutil.StandardizeCurrentDirAndPath(g.Settings.OutputDir))
	}
	if cfg.TemplatesPath() == "" && g.Settings.TemplatesPath != "" {
		cfg.SetTemplatesPath(pathutil.StandardizeCurrentDirAndPath(g.Settings.TemplatesPath))
	}
	return cfg, nil
}

func (c *GenerateCmd) openHistory(g *Global) (history.Store, error) {
	if c.NoHistory || g.Settings.History.Disabled {
		return history.NopStore{}, nil
	}
	path := g.Settings.History.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, derrors.FileSystemError("Failed to create history directory").WithCause(err).WithReason(dir).Build()
		}
	}
	return history.NewSQLiteStore(path)
}

func printResult(g *Global, res *generation.Result) {
	if res == nil || res.Artifacts == nil {
		return
	}
	_, _ = fmt.Fprintf(g.Out, "Generated %s in %s (%s)\n",
		res.Artifacts.BundleID, res.Artifacts.Root, res.Run.Duration().Round(time.Millisecond))
}

func startMetricsServer(addr, path string, reg *prom.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Metrics server listening", slog.String("addr", addr), logfields.Path(path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}
