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

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "bookpress.yaml"

// Placeholders expanded inside tool commands.
const (
	PlaceholderOutputDir = "{output_dir}"
	PlaceholderBookDir   = "{book_dir}"
)

// Config is the bookpress configuration. Every field has a working default,
// so a book repository needs no bookpress.yaml at all.
type Config struct {
	BookDir   string        `yaml:"book_dir"`
	OutputDir string        `yaml:"output_dir"`
	Builder   ToolConfig    `yaml:"builder"`
	Publisher ToolConfig    `yaml:"publisher"`
	History   HistoryConfig `yaml:"history"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Notify    NotifyConfig  `yaml:"notify"`
	Watch     WatchConfig   `yaml:"watch"`
	Logging   LoggingConfig `yaml:"logging"`
}

// ToolConfig declares how an external tool is invoked. Dir is relative to
// the book directory and defaults to it.
type ToolConfig struct {
	Command []string `yaml:"command"`
	Dir     string   `yaml:"dir,omitempty"`
}

// HistoryConfig locates the run history database.
type HistoryConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// MetricsConfig enables writing Prometheus metrics in textfile-collector format.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// NotifyConfig enables publishing run summaries to NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Ignore   []string      `yaml:"ignore,omitempty"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Default returns the configuration used when no file is present: build with
// jupyter-book and publish the HTML output with ghp-import.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.BookDir == "" {
		cfg.BookDir = "."
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join("_build", "html")
	}
	if len(cfg.Builder.Command) == 0 {
		cfg.Builder.Command = []string{"jupyter-book", "build", "."}
	}
	if len(cfg.Publisher.Command) == 0 {
		cfg.Publisher.Command = []string{"ghp-import", "-n", "-p", "-f", PlaceholderOutputDir}
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(".bookpress", "history.db")
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "bookpress.runs"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 2 * time.Second
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

// Load reads the configuration at path. An empty path means DefaultPath, and
// a missing DefaultPath yields the defaults; an explicitly named file must exist.
// Environment variables from .env and .env.local are loaded first without
// overriding the process environment.
func Load(path string) (*Config, error) {
	loadEnvFiles(".env", ".env.local")

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse configuration").
				Fatal().
				WithContext("path", path).
				Build()
		}
	case os.IsNotExist(err) && !explicit:
		// no file: defaults only
	case os.IsNotExist(err):
		return nil, ferrors.NewError(ferrors.CategoryConfig, "configuration file not found").
			Fatal().
			WithContext("path", path).
			Build()
	default:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Logging.validate(); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(names ...string) {
	for _, name := range names {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		// godotenv.Load never overrides variables already set.
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", name, err)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.Fields(os.Getenv("BOOKPRESS_BUILDER")); len(v) > 0 {
		cfg.Builder.Command = v
	}
	if v := strings.Fields(os.Getenv("BOOKPRESS_PUBLISHER")); len(v) > 0 {
		cfg.Publisher.Command = v
	}
	if v := os.Getenv("BOOKPRESS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
}

// Validate checks invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if len(c.Builder.Command) == 0 || strings.TrimSpace(c.Builder.Command[0]) == "" {
		return ferrors.ValidationError("builder command is empty").Build()
	}
	if len(c.Publisher.Command) == 0 || strings.TrimSpace(c.Publisher.Command[0]) == "" {
		return ferrors.ValidationError("publisher command is empty").Build()
	}
	if filepath.IsAbs(c.OutputDir) {
		return nil
	}
	if clean := filepath.Clean(c.OutputDir); clean == "." || strings.HasPrefix(clean, "..") {
		return ferrors.ValidationError("output_dir must be a subdirectory of the book").
			WithContext("output_dir", c.OutputDir).
			Build()
	}
	return nil
}

// OutputPath returns the output directory resolved against the book directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(c.BookDir, c.OutputDir)
}

// ToolDir returns the working directory for a tool.
func (c *Config) ToolDir(t ToolConfig) string {
	if t.Dir == "" {
		return c.BookDir
	}
	if filepath.IsAbs(t.Dir) {
		return t.Dir
	}
	return filepath.Join(c.BookDir, t.Dir)
}

// ExpandCommand substitutes placeholders in a tool command. The output
// directory placeholder expands relative to the book directory, matching
// the tool's default working directory.
func (c *Config) ExpandCommand(cmd []string) []string {
	r := strings.NewReplacer(PlaceholderOutputDir, c.OutputDir, PlaceholderBookDir, c.BookDir)
	out := make([]string, len(cmd))
	for i, arg := range cmd {
		out[i] = r.Replace(arg)
	}
	return out
}

// HistoryPath returns the history database path resolved against the book
// directory, or "" when history is disabled.
func (c *Config) HistoryPath() string {
	if c.History.Disabled {
		return ""
	}
	if filepath.IsAbs(c.History.Path) {
		return c.History.Path
	}
	return filepath.Join(c.BookDir, c.History.Path)
}
