package config

import (
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/scoop/internal/logging"
)

// Validate checks every setting and reports all failures at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Editor.IndentUnit == "" || strings.Trim(c.Editor.IndentUnit, " \t") != "" {
		errs.add("editor.indentUnit", "must be spaces or tabs", c.Editor.IndentUnit)
	}
	if c.Editor.PageSize <= 0 {
		errs.add("editor.pageSize", "must be positive", c.Editor.PageSize)
	}

	if c.History.MaxEntries <= 0 {
		errs.add("history.maxEntries", "must be positive", c.History.MaxEntries)
	}
	if d, err := parseDuration(c.History.CoalesceWindow); err != nil || d < 0 {
		errs.add("history.coalesceWindow", "must be a non-negative duration", c.History.CoalesceWindow)
	}
	if c.History.MaxOperationSize <= 0 {
		errs.add("history.maxOperationSize", "must be positive", c.History.MaxOperationSize)
	}

	if c.Lexer.ScanLimit <= 0 {
		errs.add("lexer.scanLimit", "must be positive", c.Lexer.ScanLimit)
	}

	if _, ok := styles.Registry[c.Highlight.Style]; !ok {
		errs.add("highlight.style", "unknown style", c.Highlight.Style)
	}
	if _, ok := formatters.Registry[c.Highlight.Formatter]; !ok {
		errs.add("highlight.formatter", "unknown formatter", c.Highlight.Formatter)
	}

	if d, err := parseDuration(c.Script.Timeout); err != nil || d <= 0 {
		errs.add("script.timeout", "must be a positive duration", c.Script.Timeout)
	}

	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		errs.add("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}

	return errs.errOrNil()
}
