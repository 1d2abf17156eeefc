package config

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/scoop/internal/engine"
	"github.com/dshills/scoop/internal/logging"
)

// EditorConfig holds editing behavior settings.
type EditorConfig struct {
	// IndentUnit is inserted by Tab and after an opening brace on Enter.
	IndentUnit string `yaml:"indentUnit" toml:"indentUnit"`

	// PageSize is the number of lines moved by PageUp and PageDown.
	PageSize int `yaml:"pageSize" toml:"pageSize"`
}

// HistoryConfig holds undo history settings.
type HistoryConfig struct {
	// MaxEntries caps the undo stack.
	MaxEntries int `yaml:"maxEntries" toml:"maxEntries"`

	// CoalesceWindow is how close keystrokes must be to merge, e.g. "500ms".
	CoalesceWindow string `yaml:"coalesceWindow" toml:"coalesceWindow"`

	// MaxOperationSize is the edit size above which history is cleared.
	MaxOperationSize int `yaml:"maxOperationSize" toml:"maxOperationSize"`
}

// LexerConfig holds lexical tracker settings.
type LexerConfig struct {
	// ScanLimit is the line length above which lines are not classified.
	ScanLimit int `yaml:"scanLimit" toml:"scanLimit"`
}

// SearchConfig holds find settings.
type SearchConfig struct {
	// Overlapping reports matches that overlap earlier ones.
	Overlapping bool `yaml:"overlapping" toml:"overlapping"`
}

// HighlightConfig selects how documents are rendered with color.
type HighlightConfig struct {
	// Style is a chroma style name.
	Style string `yaml:"style" toml:"style"`

	// Formatter is a chroma formatter name.
	Formatter string `yaml:"formatter" toml:"formatter"`
}

// ScriptConfig holds scripted transform settings.
type ScriptConfig struct {
	// Timeout bounds a single script run, e.g. "5s".
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
}

// CoalesceWindowDuration returns the parsed coalescing window.
func (h HistoryConfig) CoalesceWindowDuration() time.Duration {
	d, err := parseDuration(h.CoalesceWindow)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// TimeoutDuration returns the parsed script timeout.
func (s ScriptConfig) TimeoutDuration() time.Duration {
	d, err := parseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// parseDuration accepts Go duration strings and bare integers, which are
// read as milliseconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithIndentUnit(c.Editor.IndentUnit),
		engine.WithPageSize(c.Editor.PageSize),
		engine.WithMaxUndoEntries(c.History.MaxEntries),
		engine.WithCoalesceWindow(c.History.CoalesceWindowDuration()),
		engine.WithMaxOperationSize(c.History.MaxOperationSize),
		engine.WithScanLimit(c.Lexer.ScanLimit),
		engine.WithOverlappingSearch(c.Search.Overlapping),
	}
}

// NewLogger creates a logger at the configured level writing to w.
func (c *Config) NewLogger(w io.Writer) *logging.Logger {
	cfg := logging.DefaultConfig()
	cfg.Output = w
	if level, ok := logging.ParseLevel(c.Logging.Level); ok {
		cfg.Level = level
	}
	return logging.New(cfg)
}
