package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dshills/scoop/internal/engine"
	"github.com/dshills/scoop/internal/highlight"
	"github.com/dshills/scoop/internal/script"
	"github.com/dshills/scoop/internal/tools"
	"github.com/dshills/scoop/internal/watch"
	"github.com/dshills/scoop/internal/workspace"
)

// command is one scoop subcommand.
type command struct {
	summary string
	args    string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"classify":       {"Print the language and carried construct of every line", "[FILE]", runClassify},
	"tokens":         {"Print the tokens of every line", "[FILE]", runTokens},
	"highlight":      {"Render the document with colors", "[-style NAME] [-formatter NAME] [FILE]", runHighlight},
	"strip-comments": {"Remove comments", "[FILE]", bulk((*engine.Engine).StripComments)},
	"trim":           {"Remove trailing whitespace", "[FILE]", bulk((*engine.Engine).TrimTrailingWhitespace)},
	"squeeze":        {"Remove empty lines", "[FILE]", bulk((*engine.Engine).RemoveEmptyLines)},
	"find":           {"List matches of a case-insensitive query", "QUERY [FILE]", runFind},
	"replace":        {"Replace every match of a query", "QUERY REPLACEMENT [FILE]", runReplace},
	"transform":      {"Apply a Lua transform script", "SCRIPT [FILE]", runTransform},
	"skeleton":       {"Insert an HTML page template at the start of the document", "[FILE]", runSkeleton},
	"cycle":          {"List comment openers or declarations in jump order", "comment|function [FILE]", runCycle},
	"watch":          {"Reload files as they change and report each reload", "FILE...", runWatch},
	"config":         {"Print the effective configuration", "", runConfig},
	"styles":         {"List highlight styles and formatters", "", runStyles},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ============================================================================
// Input and Output
// ============================================================================

// open loads the document named by args[0], or standard input when args is
// empty or names "-".
func (a *app) open(args []string) (*workspace.Document, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: too many arguments", errUsage)
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return a.reg.OpenText(a.opts.name, string(data)), nil
	}
	return a.reg.Open(args[0])
}

// emit writes the document to standard output, or saves it in place with
// -w. Unchanged files are not rewritten.
func (a *app) emit(doc *workspace.Document) error {
	if !a.opts.inPlace {
		_, err := io.WriteString(a.stdout, doc.Engine.Serialize())
		return err
	}
	if doc.IsScratch() {
		return fmt.Errorf("%w: -w needs a file argument", errUsage)
	}
	if !doc.IsDirty() {
		return nil
	}
	return a.reg.Save(doc.ID)
}

// report logs the engine's status notice for the last operation.
func (a *app) report(doc *workspace.Document) {
	if msg := doc.Engine.Status(); msg != "" {
		a.logger.WithField("document", doc.Name).Info("%s", msg)
	}
}

// ============================================================================
// Inspection Commands
// ============================================================================

func runClassify(_ context.Context, a *app, args []string) error {
	doc, err := a.open(args)
	if err != nil {
		return err
	}
	for i, st := range doc.Engine.LineStates() {
		carry := st.Carry.String()
		if st.Skipped {
			carry += " skipped"
		}
		fmt.Fprintf(a.stdout, "%5d  %-8s %s\n", i+1, st.Language, carry)
	}
	return nil
}

func runTokens(_ context.Context, a *app, args []string) error {
	doc, err := a.open(args)
	if err != nil {
		return err
	}
	for i := range doc.Engine.LineCount() {
		toks := doc.Engine.Tokens(i)
		parts := make([]string, len(toks))
		for j, tok := range toks {
			parts[j] = fmt.Sprintf("%s%q", tok.Kind, tok.Text)
		}
		fmt.Fprintf(a.stdout, "%5d  %s\n", i+1, strings.Join(parts, " "))
	}
	return nil
}

func runHighlight(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("highlight", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	style := fs.String("style", a.cfg.Highlight.Style, "chroma style name")
	formatter := fs.String("formatter", a.cfg.Highlight.Formatter, "chroma formatter name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	h, err := highlight.New(*style, *formatter)
	if err != nil {
		return err
	}
	doc, err := a.open(fs.Args())
	if err != nil {
		return err
	}
	return h.Render(a.stdout, doc.Engine)
}

func runFind(_ context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing query", errUsage)
	}
	doc, err := a.open(args[1:])
	if err != nil {
		return err
	}
	for _, m := range doc.Engine.Find(args[0]) {
		fmt.Fprintf(a.stdout, "%s:%d:%d: %s\n", doc.Name, m.Line+1, m.Column+1, doc.Engine.LineText(m.Line))
	}
	return nil
}

func runCycle(_ context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing target", errUsage)
	}
	target, err := tools.ParseTarget(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	doc, err := a.open(args[1:])
	if err != nil {
		return err
	}

	// From the end, the first jump wraps to the earliest target.
	eng := doc.Engine
	eng.Move(engine.MotionDocEnd, false)
	seen := make(map[engine.Point]bool)
	for eng.CycleNext(target) {
		at := eng.Caret()
		text := strings.TrimSpace(eng.LineText(at.Line))
		if sel, ok := eng.Selection(); ok {
			at = sel.Start
			text = eng.SelectionText()
		}
		if seen[at] {
			break
		}
		seen[at] = true
		fmt.Fprintf(a.stdout, "%s:%d:%d: %s\n", doc.Name, at.Line+1, at.Column+1, text)
	}
	return nil
}

// ============================================================================
// Editing Commands
// ============================================================================

// bulk adapts a whole-document tool to a command.
func bulk(tool func(*engine.Engine) int) func(context.Context, *app, []string) error {
	return func(_ context.Context, a *app, args []string) error {
		doc, err := a.open(args)
		if err != nil {
			return err
		}
		tool(doc.Engine)
		a.report(doc)
		return a.emit(doc)
	}
}

func runReplace(_ context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: missing query or replacement", errUsage)
	}
	doc, err := a.open(args[2:])
	if err != nil {
		return err
	}
	doc.Engine.ReplaceAll(args[0], args[1])
	a.report(doc)
	return a.emit(doc)
}

func runTransform(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing script", errUsage)
	}
	s, err := script.CompileFile(args[0],
		script.WithTimeout(a.cfg.Script.TimeoutDuration()),
		script.WithLogger(a.logger))
	if err != nil {
		return err
	}
	doc, err := a.open(args[1:])
	if err != nil {
		return err
	}
	if _, err := doc.Engine.ApplyTransform(s.Transform(ctx)); err != nil {
		return err
	}
	return a.emit(doc)
}

func runSkeleton(_ context.Context, a *app, args []string) error {
	doc, err := a.open(args)
	if err != nil {
		return err
	}
	doc.Engine.InsertSkeleton()
	a.report(doc)
	return a.emit(doc)
}

// ============================================================================
// Long-running Commands
// ============================================================================

func runWatch(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing file", errUsage)
	}
	for _, path := range args {
		if _, err := a.reg.Open(path); err != nil {
			return err
		}
	}

	w, err := watch.New(a.reg, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.WatchRegistry(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			switch {
			case errors.Is(ev.Err, workspace.ErrUnsavedChanges):
				fmt.Fprintf(a.stdout, "kept %s: unsaved changes\n", ev.Path)
			case ev.Err != nil:
				fmt.Fprintf(a.stdout, "error %s: %v\n", ev.Path, ev.Err)
			case ev.Changed:
				fmt.Fprintf(a.stdout, "reloaded %s\n", ev.Path)
			}
		}
	}
}

// ============================================================================
// Configuration Commands
// ============================================================================

func runConfig(_ context.Context, a *app, _ []string) error {
	return a.cfg.WriteTOML(a.stdout)
}

func runStyles(_ context.Context, a *app, _ []string) error {
	fmt.Fprintf(a.stdout, "styles: %s\n", strings.Join(highlight.Styles(), " "))
	fmt.Fprintf(a.stdout, "formatters: %s\n", strings.Join(highlight.Formatters(), " "))
	return nil
}
