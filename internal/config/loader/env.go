package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment variables read by
// NewEnvLoader("").
const DefaultEnvPrefix = "SCOOP_"

// EnvLoader loads configuration from environment variables.
//
// Mapped variables go to their configured path. Any other variable with
// the prefix is converted by name: SCOOP_HISTORY_MAX_ENTRIES becomes
// history.maxEntries.
type EnvLoader struct {
	prefix  string            // Variable prefix including the underscore
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader. An empty prefix
// selects DefaultEnvPrefix.
func NewEnvLoader(prefix string) *EnvLoader {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the short aliases for common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":   "logging.level",
		prefix + "STYLE":       "highlight.style",
		prefix + "FORMATTER":   "highlight.formatter",
		prefix + "INDENT":      "editor.indentUnit",
		prefix + "PAGE_SIZE":   "editor.pageSize",
		prefix + "SCAN_LIMIT":  "lexer.scanLimit",
		prefix + "SCRIPT_TIME": "script.timeout",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
// Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
			if path == "" {
				continue
			}
		}
		Set(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath converts SCOOP_EDITOR_PAGE_SIZE to editor.pageSize. The first
// word names the section and the rest form a camelCase key.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	var key strings.Builder
	for i, part := range parts[1:] {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		if i > 0 {
			lower = strings.ToUpper(lower[:1]) + lower[1:]
		}
		key.WriteString(lower)
	}
	return strings.ToLower(parts[0]) + "." + key.String()
}

// parseValue converts a variable's text into a bool, integer, float or
// JSON value when it looks like one, and keeps it as a string otherwise.
// Durations such as "500ms" stay strings.
func parseValue(s string) any {
	if s == "" {
		return s
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}
