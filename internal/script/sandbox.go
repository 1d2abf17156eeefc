package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scoop/internal/logging"
)

// removedGlobals are base functions that could load code from outside the
// script.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// newState creates a Lua state with only the base, table, string and math
// libraries, plus the scoop helper module.
func newState(logger *logging.Logger) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))

	L.SetGlobal("scoop", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"split": luaSplit,
		"join":  luaJoin,
		"trim":  luaTrim,
	}))
	return L
}

// luaSplit implements scoop.split(text): the lines of text as a table.
func luaSplit(L *lua.LState) int {
	text := L.CheckString(1)
	t := L.NewTable()
	for _, line := range strings.Split(text, "\n") {
		t.Append(lua.LString(line))
	}
	L.Push(t)
	return 1
}

// luaJoin implements scoop.join(lines): the lines joined with newlines.
func luaJoin(L *lua.LState) int {
	lines, ok := tableLines(L.CheckTable(1))
	if !ok {
		L.ArgError(1, "expected a table of strings")
		return 0
	}
	L.Push(lua.LString(strings.Join(lines, "\n")))
	return 1
}

// luaTrim implements scoop.trim(s): s without surrounding whitespace.
func luaTrim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}

// tableLines reads the array part of t as strings. Numbers are converted;
// any other value fails.
func tableLines(t *lua.LTable) ([]string, bool) {
	n := t.Len()
	lines := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		switch v := t.RawGetInt(i).(type) {
		case lua.LString:
			lines = append(lines, string(v))
		case lua.LNumber:
			lines = append(lines, v.String())
		default:
			return nil, false
		}
	}
	return lines, true
}
