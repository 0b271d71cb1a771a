// Package config loads the docsetgen settings file.
//
// Settings are tool-wide preferences (where history is kept, how to log,
// watch timing). Per-project values live in the project file instead.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
)

// DefaultPath is the settings file looked up when none is given.
const DefaultPath = "docsetgen.yaml"

const (
	DefaultHistoryPath = ".docsetgen/history.db"
	DefaultMetricsPath = "/metrics"
	DefaultMetricsAddr = "127.0.0.1:9464"
	DefaultDebounce    = 300 * time.Millisecond
)

// Environment variables that override the settings file.
const (
	EnvOutputDir   = "DOCSETGEN_OUTPUT_DIR"
	EnvHistoryPath = "DOCSETGEN_HISTORY_PATH"
	EnvLogLevel    = "DOCSETGEN_LOG_LEVEL"
	EnvLogFormat   = "DOCSETGEN_LOG_FORMAT"
)

// Settings is the settings file.
type Settings struct {
	// OutputDir overrides a project's output path when set.
	OutputDir     string          `yaml:"output_dir,omitempty"`
	TemplatesPath string          `yaml:"templates_path,omitempty"`
	History       HistorySettings `yaml:"history"`
	Metrics       MetricsSettings `yaml:"metrics"`
	Logging       LoggingSettings `yaml:"logging"`
	Watch         WatchSettings   `yaml:"watch"`
}

// HistorySettings configures the generation run history.
type HistorySettings struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	Path     string `yaml:"path"`
}

// MetricsSettings configures the Prometheus endpoint served in watch mode.
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingSettings configures log output.
type LoggingSettings struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// WatchSettings configures watch mode.
type WatchSettings struct {
	Debounce time.Duration `yaml:"debounce"`
	// Interval enables scheduled regeneration when non-zero.
	Interval time.Duration `yaml:"interval,omitempty"`
}

// Defaults returns the settings used when no file exists.
func Defaults() *Settings {
	return &Settings{
		History: HistorySettings{Path: DefaultHistoryPath},
		Metrics: MetricsSettings{Addr: DefaultMetricsAddr, Path: DefaultMetricsPath},
		Logging: LoggingSettings{Level: LogLevelInfo, Format: LogFormatText},
		Watch:   WatchSettings{Debounce: DefaultDebounce},
	}
}

// Load reads the settings file at path. A missing file yields Defaults.
// .env files in the working directory are loaded first without overriding the
// process environment, then ${VAR} references in the file are expanded and
// the DOCSETGEN_* overrides applied.
func Load(path string) (*Settings, error) {
	loadEnvFiles()

	s := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "Failed to read settings file").
			WithReason(path).
			Build()
	default:
		if err := decode(data, s); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "Invalid settings file").
				WithReason(fmt.Sprintf("%s: %v", path, err)).
				UserAction().
				Build()
		}
	}

	s.applyEnv()
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(data []byte, s *Settings) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// loadEnvFiles loads .env then .env.local. godotenv never overrides
// variables already present in the environment.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", name, err)
		}
	}
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvOutputDir); v != "" {
		s.OutputDir = v
	}
	if v := os.Getenv(EnvHistoryPath); v != "" {
		s.History.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		s.Logging.Format = LogFormat(v)
	}
}

func (s *Settings) normalize() {
	s.Logging.Level = NormalizeLogLevel(string(s.Logging.Level))
	s.Logging.Format = NormalizeLogFormat(string(s.Logging.Format))
	if strings.TrimSpace(s.History.Path) == "" {
		s.History.Path = DefaultHistoryPath
	}
	if s.Metrics.Addr == "" {
		s.Metrics.Addr = DefaultMetricsAddr
	}
	if s.Metrics.Path == "" {
		s.Metrics.Path = DefaultMetricsPath
	}
	if s.Watch.Debounce == 0 {
		s.Watch.Debounce = DefaultDebounce
	}
}

// Validate checks values that normalization cannot repair.
func (s *Settings) Validate() error {
	var problems []string
	if s.Watch.Debounce < 0 {
		problems = append(problems, "watch.debounce must not be negative")
	}
	if s.Watch.Interval < 0 {
		problems = append(problems, "watch.interval must not be negative")
	}
	if !strings.HasPrefix(s.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with '/'")
	}
	if len(problems) == 0 {
		return nil
	}
	return derrors.ConfigError("Invalid settings").
		WithReason(strings.Join(problems, "; ")).
		Build()
}

// Save writes s to path as YAML.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return derrors.FileSystemError("Failed to create settings directory").WithCause(err).WithReason(dir).Build()
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return derrors.FileSystemError("Failed to write settings file").WithCause(err).WithReason(path).Build()
	}
	return nil
}
