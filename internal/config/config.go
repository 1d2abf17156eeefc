package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/scoop/internal/config/loader"
)

// Config holds every scoop setting.
type Config struct {
	Editor    EditorConfig    `yaml:"editor" toml:"editor"`
	History   HistoryConfig   `yaml:"history" toml:"history"`
	Lexer     LexerConfig     `yaml:"lexer" toml:"lexer"`
	Search    SearchConfig    `yaml:"search" toml:"search"`
	Highlight HighlightConfig `yaml:"highlight" toml:"highlight"`
	Script    ScriptConfig    `yaml:"script" toml:"script"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			IndentUnit: "  ",
			PageSize:   30,
		},
		History: HistoryConfig{
			MaxEntries:       300,
			CoalesceWindow:   "500ms",
			MaxOperationSize: 1_000_000,
		},
		Lexer:  LexerConfig{ScanLimit: 3000},
		Search: SearchConfig{Overlapping: true},
		Highlight: HighlightConfig{
			Style:     "monokai",
			Formatter: "terminal256",
		},
		Script:  ScriptConfig{Timeout: "5s"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	files     []string
	envPrefix string
	env       bool
	overrides map[string]any
}

// WithFile adds a configuration file. Files load in the order given; a
// missing file is skipped. The extension picks the format.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.files = append(o.files, path)
		}
	}
}

// WithFS sets the file system files are read from.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv disables environment variable overrides.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.env = false
	}
}

// WithOverride sets a single value by dot-separated path. Overrides apply
// after every other source.
func WithOverride(path string, value any) LoadOption {
	return func(o *loadOptions) {
		loader.Set(o.overrides, path, value)
	}
}

// Load builds a configuration from the defaults, the given files, the
// environment and explicit overrides, then validates it.
func Load(opts ...LoadOption) (*Config, error) {
	o := &loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		env:       true,
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(o)
	}

	merged := make(map[string]any)
	for _, path := range o.files {
		data, err := loader.ForPath(o.fs, path).LoadWithIncludes(path, loader.DefaultIncludeDepth)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}
	if o.env {
		data, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}
	merged = loader.DeepMerge(merged, o.overrides)

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads a single file on top of the defaults, without
// environment overrides.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return Load(WithFile(path), WithoutEnv())
}

// apply decodes a merged settings map onto c. Settings absent from data
// keep their current values.
func (c *Config) apply(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding merged config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// WriteTOML writes the configuration as a TOML document.
func (c *Config) WriteTOML(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}
