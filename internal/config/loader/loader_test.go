package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOMLLoader_Load(t *testing.T) {
	fsys := newMemFS(map[string]string{"/scoop.toml": `
[editor]
indentUnit = "\t"
pageSize = 40

[search]
overlapping = false
`})

	config, err := NewTOMLLoaderWithFS(fsys, "/scoop.toml").Load()
	require.NoError(t, err)

	v, ok := Get(config, "editor.indentUnit")
	require.True(t, ok)
	assert.Equal(t, "\t", v)

	v, _ = Get(config, "editor.pageSize")
	assert.Equal(t, int64(40), v)

	v, _ = Get(config, "search.overlapping")
	assert.Equal(t, false, v)
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(newMemFS(nil), "/none.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoader_ParseError(t *testing.T) {
	fsys := newMemFS(map[string]string{"/bad.toml": "[editor]\npageSize = = 3\n"})

	_, err := NewTOMLLoaderWithFS(fsys, "/bad.toml").Load()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.toml", perr.Path)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestYAMLLoader_Load(t *testing.T) {
	fsys := newMemFS(map[string]string{"/scoop.yaml": `
history:
  maxEntries: 50
  coalesceWindow: 250ms
highlight:
  style: dracula
`})

	config, err := NewYAMLLoaderWithFS(fsys, "/scoop.yaml").Load()
	require.NoError(t, err)

	v, _ := Get(config, "history.maxEntries")
	assert.Equal(t, 50, v)
	v, _ = Get(config, "history.coalesceWindow")
	assert.Equal(t, "250ms", v)
	v, _ = Get(config, "highlight.style")
	assert.Equal(t, "dracula", v)
}

func TestYAMLLoader_ParseError(t *testing.T) {
	fsys := newMemFS(map[string]string{"/bad.yml": "editor: [unclosed\n"})

	_, err := ForPath(fsys, "/bad.yml").Load()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.yml", perr.Path)
}

func TestLoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[lexer]\nscanLimit = 10\n"))
	require.NoError(t, err)
	v, _ := Get(config, "lexer.scanLimit")
	assert.Equal(t, int64(10), v)
}

func TestForPath(t *testing.T) {
	fsys := newMemFS(nil)
	assert.IsType(t, &YAMLLoader{}, ForPath(fsys, "a.yaml"))
	assert.IsType(t, &YAMLLoader{}, ForPath(fsys, "a.YML"))
	assert.IsType(t, &TOMLLoader{}, ForPath(fsys, "a.toml"))
	assert.IsType(t, &TOMLLoader{}, ForPath(fsys, "scoop.conf"))
}

func TestLoadWithIncludes(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"/cfg/scoop.toml": `
"@include" = ["base.toml", "extra.yaml"]

[editor]
pageSize = 10
`,
		"/cfg/base.toml": `
[editor]
pageSize = 99
indentUnit = "    "

[logging]
level = "warn"
`,
		"/cfg/extra.yaml": `
logging:
  level: debug
`,
	})

	config, err := NewTOMLLoaderWithFS(fsys, "").LoadWithIncludes("/cfg/scoop.toml", DefaultIncludeDepth)
	require.NoError(t, err)

	_, has := config[IncludeKey]
	assert.False(t, has)

	v, _ := Get(config, "editor.pageSize")
	assert.Equal(t, int64(10), v, "including file wins")
	v, _ = Get(config, "editor.indentUnit")
	assert.Equal(t, "    ", v)
	v, _ = Get(config, "logging.level")
	assert.Equal(t, "debug", v, "later include wins over earlier")
}

func TestLoadWithIncludes_Cycle(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"/a.toml": `"@include" = "b.toml"`,
		"/b.toml": `"@include" = "a.toml"`,
	})

	_, err := NewTOMLLoaderWithFS(fsys, "").LoadWithIncludes("/a.toml", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include depth exceeded")
}

func TestLoadWithIncludes_BadDirective(t *testing.T) {
	fsys := newMemFS(map[string]string{"/a.toml": `"@include" = 3`})

	_, err := NewTOMLLoaderWithFS(fsys, "").LoadWithIncludes("/a.toml", 4)
	require.Error(t, err)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor": map[string]any{"pageSize": 30, "indentUnit": "  "},
		"search": map[string]any{"overlapping": true},
	}
	src := map[string]any{
		"editor":  map[string]any{"pageSize": 12},
		"search":  "flat",
		"logging": map[string]any{"level": "debug"},
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{
		"editor":  map[string]any{"pageSize": 12, "indentUnit": "  "},
		"search":  "flat",
		"logging": map[string]any{"level": "debug"},
	}, got)

	// Maps taken from src are copies.
	src["logging"].(map[string]any)["level"] = "error"
	v, _ := Get(got, "logging.level")
	assert.Equal(t, "debug", v)
}

func TestDeepMerge_Nil(t *testing.T) {
	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(map[string]any{"a": 1}, nil))
}

func TestClone(t *testing.T) {
	src := map[string]any{"a": map[string]any{"b": []any{1, map[string]any{"c": 2}}}}
	dup := Clone(src)
	assert.Equal(t, src, dup)

	dup["a"].(map[string]any)["b"].([]any)[0] = 9
	assert.Equal(t, 1, src["a"].(map[string]any)["b"].([]any)[0])
	assert.Nil(t, Clone(nil))
}

func TestGetSet(t *testing.T) {
	data := map[string]any{}
	Set(data, "editor.pageSize", 5)
	Set(data, "top", "x")

	v, ok := Get(data, "editor.pageSize")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok = Get(data, "editor.missing")
	assert.False(t, ok)
	_, ok = Get(data, "top.deeper")
	assert.False(t, ok)
}
