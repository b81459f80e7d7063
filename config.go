package strtables

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultTableName is the table looked up without an explicit namespace.
const DefaultTableName = "Localizable"

// Config captures loader and unifier setup
type Config struct {
	Paths        []string
	FS           fs.FS
	Loader       Loader
	BaseLocale   string
	DefaultTable string
	Concurrency  int
	Logger       *slog.Logger
	Hooks        []Hook
	Identifier   IdentifierFunc

	identifierSet bool
}

// Option mutates Config during construction
type Option func(*Config) error

// NewConfig builds Config via supplied options
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DefaultTable == "" {
		cfg.DefaultTable = DefaultTableName
	}

	if cfg.Logger == nil {
		cfg.Logger = nopLogger
	}

	if !cfg.identifierSet {
		cfg.Identifier = Identifier
	}

	if cfg.Loader == nil && (len(cfg.Paths) > 0 || cfg.FS != nil) {
		var loader *FileLoader
		if cfg.FS != nil {
			loader = NewFSLoader(cfg.FS, cfg.Paths...)
		} else {
			loader = NewFileLoader(cfg.Paths...)
		}
		cfg.Loader = loader.WithConcurrency(cfg.Concurrency).WithLogger(cfg.Logger)
	}

	return cfg, nil
}

// WithPaths adds table files or directories to scan
func WithPaths(paths ...string) Option {
	return func(c *Config) error {
		c.Paths = append(c.Paths, paths...)
		return nil
	}
}

// WithFS reads Paths from fsys instead of the OS
func WithFS(fsys fs.FS) Option {
	return func(c *Config) error {
		c.FS = fsys
		return nil
	}
}

func WithLoader(loader Loader) Option {
	return func(c *Config) error {
		c.Loader = loader
		return nil
	}
}

// WithBaseLocale designates the authoritative language for tables without a
// Base localization
func WithBaseLocale(locale string) Option {
	return func(c *Config) error {
		c.BaseLocale = normalizeLocale(locale)
		return nil
	}
}

func WithDefaultTable(table string) Option {
	return func(c *Config) error {
		c.DefaultTable = table
		return nil
	}
}

// WithConcurrency bounds parallel file parsing, 0 means unbounded
func WithConcurrency(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("strtables: concurrency must not be negative, got %d", n)
		}
		c.Concurrency = n
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

func WithHooks(hooks ...Hook) Option {
	return func(c *Config) error {
		c.Hooks = append(c.Hooks, filterHooks(hooks)...)
		return nil
	}
}

// WithIdentifierFunc replaces the naming function. nil disables identifier
// collision checks.
func WithIdentifierFunc(fn IdentifierFunc) Option {
	return func(c *Config) error {
		c.Identifier = fn
		c.identifierSet = true
		return nil
	}
}

// BuildAnalyzer wires the configured loader and unifier together
func (cfg *Config) BuildAnalyzer() (*Analyzer, error) {
	if cfg == nil || cfg.Loader == nil {
		return nil, ErrNoPaths
	}

	unifier := NewUnifier(
		WithUnifierBaseLocale(cfg.BaseLocale),
		WithUnifierIdentifiers(cfg.Identifier),
	)

	return &Analyzer{
		loader:       cfg.Loader,
		unifier:      unifier,
		identifier:   cfg.Identifier,
		defaultTable: cfg.DefaultTable,
		logger:       cfg.Logger,
		hooks:        append([]Hook(nil), cfg.Hooks...),
	}, nil
}

// FileConfig is the YAML form of Config.
type FileConfig struct {
	Paths        []string `yaml:"paths"`
	BaseLocale   string   `yaml:"base_locale"`
	DefaultTable string   `yaml:"default_table"`
	Concurrency  int      `yaml:"concurrency"`
}

// LoadConfigFile reads a YAML config. Relative paths are resolved against
// the directory of the config file.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("strtables: read config %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("strtables: parse config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, p := range fc.Paths {
		if p != "" && !filepath.IsAbs(p) {
			fc.Paths[i] = filepath.Join(dir, p)
		}
	}

	return &fc, nil
}

// Options converts the file settings into options. Empty settings are skipped
// so flags applied afterwards can still override them.
func (fc *FileConfig) Options() []Option {
	if fc == nil {
		return nil
	}

	var opts []Option
	if len(fc.Paths) > 0 {
		opts = append(opts, WithPaths(fc.Paths...))
	}
	if fc.BaseLocale != "" {
		opts = append(opts, WithBaseLocale(fc.BaseLocale))
	}
	if fc.DefaultTable != "" {
		opts = append(opts, WithDefaultTable(fc.DefaultTable))
	}
	if fc.Concurrency != 0 {
		opts = append(opts, WithConcurrency(fc.Concurrency))
	}
	return opts
}
