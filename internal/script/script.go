// Package script runs Lua transforms over documents.
//
// A script defines a global function
//
//	function transform(lines, doc)
//	  ...
//	end
//
// lines is a 1-based table of the document lines and doc carries name,
// line and column (1-based caret position), revision and lineEnding. The
// function returns the new document as a string or a table of lines;
// returning nil leaves the document unchanged.
//
// Scripts run in a fresh state per call with only the base, table, string
// and math libraries. print writes to the runner's logger, and the scoop
// table offers split, join and trim helpers. Each run is bounded by a
// timeout through the state's context.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/dshills/scoop/internal/engine"
	"github.com/dshills/scoop/internal/logging"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Option configures a Script.
type Option func(*Script)

// WithTimeout sets the execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Script) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger that receives print output.
func WithLogger(l *logging.Logger) Option {
	return func(s *Script) {
		if l != nil {
			s.logger = l
		}
	}
}

// Script is a compiled transform. It is safe for concurrent use; every run
// gets its own Lua state.
type Script struct {
	name    string
	proto   *lua.FunctionProto
	timeout time.Duration
	logger  *logging.Logger
}

// Compile parses and compiles source. name appears in error messages.
func Compile(name, source string, opts ...Option) (*Script, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}

	s := &Script{
		name:    name,
		proto:   proto,
		timeout: DefaultTimeout,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("script").WithField("script", name)
	return s, nil
}

// CompileFile reads and compiles a script file.
func CompileFile(path string, opts ...Option) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Compile(path, string(data), opts...)
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// Run executes the script against a snapshot and returns the new text.
func (s *Script) Run(ctx context.Context, snap engine.Snapshot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	L := newState(s.logger)
	defer L.Close()
	L.SetContext(ctx)

	result, err := s.call(L, snap)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrTimeout, s.name, ctxErr)
		}
		return "", err
	}

	switch v := result.(type) {
	case *lua.LNilType:
		return snap.Text(), nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		lines, ok := tableLines(v)
		if !ok {
			return "", ErrBadResult
		}
		return strings.Join(lines, "\n"), nil
	default:
		return "", fmt.Errorf("%w: got %s", ErrBadResult, result.Type())
	}
}

func (s *Script) call(L *lua.LState, snap engine.Snapshot) (result lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	L.Push(L.NewFunctionFromProto(s.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, err
	}

	fn, ok := L.GetGlobal("transform").(*lua.LFunction)
	if !ok {
		return nil, ErrNoTransform
	}

	lines := L.CreateTable(snap.LineCount(), 0)
	for i := range snap.LineCount() {
		lines.Append(lua.LString(snap.LineText(i)))
	}
	doc := L.NewTable()
	doc.RawSetString("name", lua.LString(snap.Name))
	doc.RawSetString("line", lua.LNumber(snap.Caret.Line+1))
	doc.RawSetString("column", lua.LNumber(snap.Caret.Column+1))
	doc.RawSetString("revision", lua.LString(strconv.FormatUint(uint64(snap.RevisionID()), 10)))
	doc.RawSetString("lineEnding", lua.LString(snap.LineEnding().Sequence()))

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lines, doc); err != nil {
		return nil, err
	}
	result = L.Get(-1)
	L.Pop(1)
	return result, nil
}

// Transform adapts the script to engine.ApplyTransform.
func (s *Script) Transform(ctx context.Context) engine.TransformFunc {
	return func(snap engine.Snapshot) (string, error) {
		return s.Run(ctx, snap)
	}
}

// IsTimeout reports whether err came from a run that hit its deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
