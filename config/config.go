// Package config loads pyfront project settings from .pyfront.toml or
// .pyfront.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/token"
	"github.com/dhamidi/pyfront/python/tokenizer"
)

// ErrUnsupportedConfig is returned for a configuration file whose
// extension names no known format.
var ErrUnsupportedConfig = errors.New("unsupported configuration format")

// FileNames are the names Find looks for, in order.
var FileNames = []string{".pyfront.toml", ".pyfront.yaml", ".pyfront.yml"}

// Config holds the complete project configuration
type Config struct {
	Parser ParserConfig `toml:"parser" yaml:"parser"`
	LSP    LSPConfig    `toml:"lsp" yaml:"lsp"`
	Watch  WatchConfig  `toml:"watch" yaml:"watch"`
}

// ParserConfig selects the grammar and diagnostics for every file.
type ParserConfig struct {
	Version                  token.LanguageVersion `toml:"version" yaml:"version"`
	IndentationInconsistency diag.Severity         `toml:"indentation_inconsistency" yaml:"indentation_inconsistency"`
	MaxDepth                 int                   `toml:"max_depth" yaml:"max_depth"`
	ResetNesting             *bool                 `toml:"reset_nesting" yaml:"reset_nesting"`
	Future                   []string              `toml:"future" yaml:"future"`
}

// LSPConfig holds language server settings
type LSPConfig struct {
	Name      string `toml:"name" yaml:"name"`
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	LogFile   string `toml:"log_file" yaml:"log_file"`
}

// WatchConfig controls the file watcher
type WatchConfig struct {
	Interval   Duration `toml:"interval" yaml:"interval"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Exclude    []string `toml:"exclude" yaml:"exclude"`
}

// Duration wraps time.Duration for text parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads a TOML or YAML file, chosen by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfig, path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Find returns the first configuration file in dir or one of its
// parents, or "" when there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadDir loads the configuration governing dir, falling back to Default.
func LoadDir(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Parser.Version == 0 {
		c.Parser.Version = token.Latest
	}
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = parser.DefaultMaxDepth
	}

	if c.LSP.Name == "" {
		c.LSP.Name = "pyfront"
	}

	if c.Watch.Interval.Duration == 0 {
		c.Watch.Interval.Duration = 2 * time.Second
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".py", ".pyw"}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{".git", "__pycache__", ".venv", "node_modules"}
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if !c.Parser.Version.IsValid() {
		return fmt.Errorf("parser.version: unsupported language version %s", c.Parser.Version)
	}
	if c.Parser.MaxDepth < 0 {
		return fmt.Errorf("parser.max_depth: must not be negative, got %d", c.Parser.MaxDepth)
	}
	for _, name := range c.Parser.Future {
		if _, ok := parser.LookupFuture(name); !ok {
			return fmt.Errorf("parser.future: unknown feature %q", name)
		}
	}
	if c.Watch.Interval.Duration < 0 {
		return fmt.Errorf("watch.interval: must not be negative, got %s", c.Watch.Interval)
	}
	return nil
}

// FutureOptions combines the configured future features.
func (c *Config) FutureOptions() parser.FutureOptions {
	var f parser.FutureOptions
	for _, name := range c.Parser.Future {
		if o, ok := parser.LookupFuture(name); ok {
			f |= o
		}
	}
	return f
}

// TokenizerOptions returns the tokenizer settings.
func (c *Config) TokenizerOptions() tokenizer.Options {
	return tokenizer.Options{
		IndentationInconsistency: c.Parser.IndentationInconsistency,
		DisableNestingReset:      c.Parser.ResetNesting != nil && !*c.Parser.ResetNesting,
	}
}

// ParserOptions returns the parser settings.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithVersion(c.Parser.Version),
		parser.WithMaxDepth(c.Parser.MaxDepth),
		parser.WithIndentationSeverity(c.Parser.IndentationInconsistency),
		parser.WithFuture(c.FutureOptions()),
	}
}

// Excluded reports whether any element of path is an excluded name.
func (c *Config) Excluded(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, ex := range c.Watch.Exclude {
			if part == ex {
				return true
			}
		}
	}
	return false
}

// Matches reports whether path is a source file the watcher should track.
func (c *Config) Matches(path string) bool {
	if c.Excluded(path) {
		return false
	}
	ext := filepath.Ext(path)
	for _, e := range c.Watch.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
